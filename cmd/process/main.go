package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/thuynguyen-hospital/surgical-review/backend/internal/adapters/spreadsheet"
	"github.com/thuynguyen-hospital/surgical-review/backend/internal/application/services"
	"github.com/thuynguyen-hospital/surgical-review/backend/internal/domain/entities"
	"github.com/thuynguyen-hospital/surgical-review/backend/internal/infrastructure/observability"
	"github.com/thuynguyen-hospital/surgical-review/backend/pkg/config"
)

// Offline runner for the reconciliation pipeline. It takes the two monthly
// workbooks, runs the same pipeline the API serves, writes the result workbook
// and prints the run summary as JSON.
func main() {
	listPath := flag.String("list", "", "path to the surgery list workbook")
	detailPath := flag.String("detail", "", "path to the surgery detail workbook")
	outPath := flag.String("out", "bao_cao_phau_thuat.xlsx", "path for the generated result workbook")
	flag.Parse()

	observability.InitLogger("surgical-review-process", os.Getenv("APP_ENV"))

	if *listPath == "" || *detailPath == "" {
		log.Fatal().Msg("both -list and -detail are required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	reader := spreadsheet.NewReader()

	listFile, err := os.Open(*listPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *listPath).Msg("failed to open list workbook")
	}
	defer listFile.Close()

	listGrid, err := reader.ReadGrid(listFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read list workbook")
	}

	detailFile, err := os.Open(*detailPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *detailPath).Msg("failed to open detail workbook")
	}
	defer detailFile.Close()

	detailGrid, err := reader.ReadGrid(detailFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read detail workbook")
	}

	processing := services.NewProcessingService(
		services.NewReportValidator(),
		services.NewMachineMapService(),
		services.NewRecordService(),
		services.NewConflictService(),
		services.NewPaymentService(),
		nil,
		nil,
	)

	result, err := processing.Process(context.Background(), listGrid, detailGrid, entities.DefaultReportConfig())
	if err != nil {
		log.Fatal().Err(err).Msg("processing failed")
	}

	writer := spreadsheet.NewWriter(cfg.Hospital.Authority, cfg.Hospital.Name)
	data, err := writer.Write(result)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to generate result workbook")
	}

	if err := os.WriteFile(*outPath, data, 0o644); err != nil {
		log.Fatal().Err(err).Str("path", *outPath).Msg("failed to write result workbook")
	}
	log.Info().Str("path", *outPath).Msg("result workbook written")

	summary := entities.RunSummary{
		RunID:          result.RunID,
		Period:         result.Period,
		RecordCount:    result.Stats.TotalRecords,
		ConflictCount:  len(result.Conflicts),
		MissingMachine: result.Stats.MissingMachineCount,
		TotalPayment:   result.Stats.TotalPaymentAmount,
		GeneratedAt:    result.GeneratedAt,
	}
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(summary); err != nil {
		log.Fatal().Err(err).Msg("failed to encode run summary")
	}
}
