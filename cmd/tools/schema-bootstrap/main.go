// cmd/tools/schema-bootstrap/main.go

// schema-bootstrap provisions the relational schema the workers expect. The
// read paths degrade gracefully when tables are missing, so running this is
// optional for list/detail endpoints but required before any writes.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"lending-workers/internal/common/config"
	"lending-workers/internal/common/database"
	"lending-workers/internal/common/logger"
)

var statements = []string{
	`CREATE TABLE IF NOT EXISTS applications (
		id            UUID PRIMARY KEY,
		name          TEXT NOT NULL,
		email         TEXT NOT NULL,
		encrypted_ssn TEXT NOT NULL,
		amount        NUMERIC NOT NULL,
		credit_score  INTEGER NOT NULL,
		kyc_passed    BOOLEAN NOT NULL,
		decision      TEXT NOT NULL,
		status        TEXT NOT NULL,
		document_url  TEXT,
		created_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS orchestration_records (
		id           UUID PRIMARY KEY,
		submitted_at TIMESTAMPTZ NOT NULL,
		record       JSONB NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS draws (
		id           UUID PRIMARY KEY,
		project_id   TEXT NOT NULL,
		amount       NUMERIC NOT NULL,
		description  TEXT NOT NULL,
		risk_score   INTEGER NOT NULL,
		submitted_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS assets (
		id             UUID PRIMARY KEY,
		label          TEXT NOT NULL,
		predicted_risk DOUBLE PRECISION,
		value          NUMERIC,
		updated_at     TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS loans (
		id           UUID PRIMARY KEY,
		label        TEXT NOT NULL,
		default_risk DOUBLE PRECISION,
		amount       NUMERIC,
		updated_at   TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS troubled_assets (
		id         UUID PRIMARY KEY,
		label      TEXT NOT NULL,
		risk_score DOUBLE PRECISION,
		value      NUMERIC,
		updated_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orchestration_submitted_at
		ON orchestration_records (submitted_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_draws_project_id
		ON draws (project_id)`,
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()
	_ = logger.NewZapAdapter(zapLog)

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		zapLog.Fatal("postgres connection failed", zap.Error(err))
	}
	defer pg.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := pg.Ping(ctx); err != nil {
		zapLog.Fatal("postgres ping failed", zap.Error(err))
	}

	for i, stmt := range statements {
		if _, err := pg.DB.ExecContext(ctx, stmt); err != nil {
			zapLog.Error("statement failed", zap.Int("index", i), zap.Error(err))
			os.Exit(1)
		}
	}

	fmt.Println("Schema bootstrap complete.")
}
