package main

import (
	"context"
	"log"
	"os"

	"github.com/thuynguyen-hospital/surgical-review/backend/internal/adapters/database"
	"github.com/thuynguyen-hospital/surgical-review/backend/internal/domain/entities"
	"github.com/thuynguyen-hospital/surgical-review/backend/internal/infrastructure/clients/postgres"
	"github.com/thuynguyen-hospital/surgical-review/backend/pkg/config"
)

const schema = `
CREATE TABLE IF NOT EXISTS procedure_prices (
	procedure_type TEXT NOT NULL,
	role_label     TEXT NOT NULL,
	unit_price     DOUBLE PRECISION NOT NULL DEFAULT 0,
	PRIMARY KEY (procedure_type, role_label)
);

CREATE TABLE IF NOT EXISTS time_rules (
	procedure_type TEXT PRIMARY KEY,
	min_minutes    INTEGER NOT NULL DEFAULT 0,
	max_minutes    INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS ignored_machine_names (
	name TEXT PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS run_history (
	run_id          TEXT PRIMARY KEY,
	period          TEXT NOT NULL,
	record_count    INTEGER NOT NULL DEFAULT 0,
	conflict_count  INTEGER NOT NULL DEFAULT 0,
	missing_machine INTEGER NOT NULL DEFAULT 0,
	total_payment   DOUBLE PRECISION NOT NULL DEFAULT 0,
	generated_at    TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_run_history_generated_at ON run_history (generated_at DESC);
`

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	ctx := context.Background()

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			DROP TABLE IF EXISTS
				procedure_prices,
				time_rules,
				ignored_machine_names,
				run_history
			CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
	}

	if _, err := pgClient.DB().ExecContext(ctx, schema); err != nil {
		log.Fatalf("Failed to create schema: %v", err)
	}
	log.Println("Schema ready")

	// Seed the standing price and time-norm tables so a fresh install
	// processes reports with the hospital's published rates.
	configRepo := database.NewConfigAdapter(pgClient)
	if err := configRepo.Save(ctx, entities.DefaultReportConfig()); err != nil {
		log.Fatalf("Failed to seed report configuration: %v", err)
	}
	log.Println("Report configuration seeded")
}
