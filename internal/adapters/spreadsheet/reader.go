package spreadsheet

import (
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/thuynguyen-hospital/surgical-review/backend/internal/domain/entities"
	apperrors "github.com/thuynguyen-hospital/surgical-review/backend/pkg/errors"
)

// Reader decodes uploaded xlsx files into row-major grids. All cell values
// come back as strings; the pipeline does its own typing.
type Reader struct{}

func NewReader() *Reader {
	return &Reader{}
}

// ReadGrid reads the first sheet of an xlsx stream.
func (r *Reader) ReadGrid(src io.Reader) (entities.Grid, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, apperrors.NewValidationError("File tải lên không phải là file Excel hợp lệ (.xlsx).")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewValidationError("File Excel không có sheet nào.")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.NewInternalError("failed to read sheet "+sheets[0], err)
	}

	return entities.Grid(rows), nil
}
