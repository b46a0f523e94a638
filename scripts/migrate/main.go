// Command migrate creates or upgrades the database schema. It is idempotent:
// every statement guards with IF NOT EXISTS, so rerunning it is safe.
package main

import (
	"flag"
	"log"

	_ "github.com/lib/pq"

	"github.com/fleetops/fleet-payroll-api/pkg/config"
	"github.com/fleetops/fleet-payroll-api/pkg/database"
)

var statements = []string{
	`CREATE TABLE IF NOT EXISTS employees (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		daily_wage NUMERIC(12,2) NOT NULL DEFAULT 0,
		overtime_rate NUMERIC(12,2) NOT NULL DEFAULT 0,
		bank_daily_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS boats (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS boats_name_lower_idx ON boats (LOWER(name))`,
	`CREATE TABLE IF NOT EXISTS attendance (
		id UUID PRIMARY KEY,
		date DATE NOT NULL,
		employee_id UUID NOT NULL,
		boat_id UUID,
		overtime_boat_id UUID,
		present BOOLEAN NOT NULL DEFAULT FALSE,
		is_half_day BOOLEAN NOT NULL DEFAULT FALSE,
		overtime_hours DOUBLE PRECISION NOT NULL DEFAULT 0,
		extra_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
		extra_reason TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT attendance_employee_date_key UNIQUE (employee_id, date)
	)`,
	`CREATE INDEX IF NOT EXISTS attendance_date_idx ON attendance (date)`,
	`CREATE INDEX IF NOT EXISTS attendance_boat_idx ON attendance (boat_id)`,
	`ALTER TABLE attendance ADD COLUMN IF NOT EXISTS overtime_boat_id UUID`,
}

func main() {
	var dryRun bool
	flag.BoolVar(&dryRun, "dry-run", false, "print statements without executing")
	flag.Parse()

	if dryRun {
		for _, stmt := range statements {
			log.Println(stmt)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect: %v", err)
	}
	defer db.Close() //nolint:errcheck

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			log.Fatalf("migration failed: %v\nstatement: %s", err, stmt)
		}
	}
	log.Println("schema up to date")
}
