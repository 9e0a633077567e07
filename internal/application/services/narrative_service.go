package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/thuynguyen-hospital/surgical-review/backend/internal/domain/entities"
	"github.com/thuynguyen-hospital/surgical-review/backend/internal/domain/providers"
	"github.com/thuynguyen-hospital/surgical-review/backend/internal/infrastructure/observability"
	apperrors "github.com/thuynguyen-hospital/surgical-review/backend/pkg/errors"
)

// maxPromptConflicts caps how many conflicts are inlined into the prompt.
const maxPromptConflicts = 20

// NarrativeService turns a run's statistics and conflicts into a short prose
// review report via a language model.
type NarrativeService struct {
	provider providers.NarrativeProvider
	metrics  *observability.Metrics
}

func NewNarrativeService(provider providers.NarrativeProvider, metrics *observability.Metrics) *NarrativeService {
	return &NarrativeService{provider: provider, metrics: metrics}
}

// Generate builds the analysis prompt and asks the model for a report.
func (s *NarrativeService) Generate(ctx context.Context, stats entities.Stats, conflicts []entities.Conflict) (string, error) {
	if s.provider == nil {
		return "", apperrors.NewExternalError("narrative provider not configured", nil)
	}

	ctx, span := observability.StartSpan(ctx, "narrative.generate")
	defer span.End()

	started := time.Now()
	narrative, err := s.provider.GenerateNarrative(ctx, BuildPrompt(stats, conflicts))
	if s.metrics != nil {
		observability.RecordNarrativeMetric(ctx, s.metrics, time.Since(started))
	}
	if err != nil {
		observability.RecordError(span, err)
		return "", apperrors.NewExternalError("narrative generation failed", err)
	}
	return narrative, nil
}

// BuildPrompt renders the Vietnamese analysis prompt. The review rules inside
// it are hospital policy: an anesthesiologist may cover two concurrent cases,
// and "[gây tê]" procedures are exempt from the missing-machine check. Only
// the first conflicts are inlined to keep the prompt bounded.
func BuildPrompt(stats entities.Stats, conflicts []entities.Conflict) string {
	var summary strings.Builder
	for i, c := range conflicts {
		if i >= maxPromptConflicts {
			break
		}
		fmt.Fprintf(&summary, "%s Conflict: %s overlaps %d mins between %s and %s\n",
			c.Type, c.ResourceName, c.OverlapMinutes, c.SurgeryA, c.SurgeryB)
	}

	return fmt.Sprintf(`Bạn là chuyên gia phân tích vận hành trong bệnh viện, phụ trách đánh giá hiệu quả hoạt động phòng phẫu thuật.

QUY TẮC ĐÁNH GIÁ NGHIỆP VỤ:
1. Về trùng giờ nhân viên:
- Bác sĩ gây mê được phép tham gia TỐI ĐA 2 cuộc phẫu thuật tại cùng một thời điểm.
- Chỉ khi bác sĩ gây mê tham gia từ 3 ca trở lên cùng thời điểm mới được xem là trùng giờ.
- Tất cả các vị trí khác (PT chính, PT phụ, KTV gây mê, TDC, GV...) chỉ được phép tham gia 01 ca tại một thời điểm. Nếu từ 2 ca trở lên được xem là trùng giờ.

2. Về thiếu mã máy:
- Các ca phẫu thuật có tên kỹ thuật chứa chuỗi "[gây tê]" thì KHÔNG được xem là lỗi thiếu mã máy.

DỮ LIỆU THỐNG KÊ:
- Tổng số ca PTTT: %d
- Tổng thời gian thực hiện: %d phút
- Số trường hợp trùng giờ nhân viên: %d
- Số ca trùng mã máy: %d
- Số ca thiếu mã máy: %d

MỘT SỐ TRƯỜNG HỢP TRÙNG GIỜ TIÊU BIỂU:
%s

YÊU CẦU PHÂN TÍCH:
Hãy viết báo cáo bằng TIẾNG VIỆT, tuân thủ các quy tắc nghiệp vụ trên, gồm:

1. Nhận định tổng quan về hoạt động PTTT.
2. Đánh giá riêng:
  - Tình trạng trùng giờ nhân viên (có xét ngoại lệ bác sĩ gây mê).
  - Tình trạng thiếu mã máy (loại trừ các ca có "[gây tê]").
3. Nhận định nguy cơ ảnh hưởng đến an toàn người bệnh.
4. 3-5 khuyến nghị cải thiện công tác bố trí nhân sự và thiết bị.

Yêu cầu trình bày:
- Văn phong hành chính y khoa.
- Gạch đầu dòng rõ ràng.
- Độ dài tối đa 200 từ.`,
		stats.TotalRecords,
		stats.TotalDurationMinutes,
		stats.StaffConflictCount,
		stats.MachineConflictCount,
		stats.MissingMachineCount,
		summary.String(),
	)
}
