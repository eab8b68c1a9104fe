package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'item_status') THEN
			CREATE TYPE item_status AS ENUM ('PENDENTE', 'PROVISIONADO', 'APROVADO', 'PAGO');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS fdas (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		number VARCHAR(64) NOT NULL,
		is_open BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS items (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		fda_id UUID NOT NULL REFERENCES fdas(id),
		vessel TEXT NOT NULL DEFAULT '',
		service TEXT NOT NULL DEFAULT '',
		document_number TEXT NOT NULL DEFAULT '',
		invoice_number TEXT NOT NULL DEFAULT '',
		cost_center TEXT NOT NULL DEFAULT '',
		issue_date VARCHAR(10) NOT NULL DEFAULT '',
		due_date VARCHAR(10) NOT NULL DEFAULT '',
		counterparty TEXT NOT NULL DEFAULT '',
		counterparty_tax_id VARCHAR(32) NOT NULL DEFAULT '',
		bank TEXT NOT NULL DEFAULT '',
		bank_code VARCHAR(16) NOT NULL DEFAULT '',
		branch VARCHAR(16) NOT NULL DEFAULT '',
		account VARCHAR(32) NOT NULL DEFAULT '',
		pix_key TEXT NOT NULL DEFAULT '',
		gross_amount NUMERIC(18,2) NOT NULL DEFAULT 0,
		base_amount NUMERIC(18,2) NOT NULL DEFAULT 0,
		pis NUMERIC(18,2) NOT NULL DEFAULT 0,
		cofins NUMERIC(18,2) NOT NULL DEFAULT 0,
		csll NUMERIC(18,2) NOT NULL DEFAULT 0,
		guide_pcc NUMERIC(18,2) NOT NULL DEFAULT 0,
		irrf NUMERIC(18,2) NOT NULL DEFAULT 0,
		guide_ir NUMERIC(18,2) NOT NULL DEFAULT 0,
		inss NUMERIC(18,2) NOT NULL DEFAULT 0,
		iss NUMERIC(18,2) NOT NULL DEFAULT 0,
		retained_tax NUMERIC(18,2) NOT NULL DEFAULT 0,
		net_amount NUMERIC(18,2) NOT NULL DEFAULT 0,
		penalty NUMERIC(18,2) NOT NULL DEFAULT 0,
		interest NUMERIC(18,2) NOT NULL DEFAULT 0,
		total NUMERIC(18,2) NOT NULL DEFAULT 0,
		status item_status NOT NULL DEFAULT 'PENDENTE',
		provisioned_on VARCHAR(10) NOT NULL DEFAULT '',
		approved_on VARCHAR(10) NOT NULL DEFAULT '',
		paid_on VARCHAR(10) NOT NULL DEFAULT '',
		invoice_attachments JSONB NOT NULL DEFAULT '[]'::jsonb,
		boleto_attachments JSONB NOT NULL DEFAULT '[]'::jsonb,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_items_fda_id ON items (fda_id);`,
	`CREATE INDEX IF NOT EXISTS idx_items_status_due ON items (status, due_date);`,
	`CREATE INDEX IF NOT EXISTS idx_items_counterparty ON items (counterparty, created_at DESC);`,
	`CREATE TABLE IF NOT EXISTS permissions (
		email TEXT PRIMARY KEY,
		modules JSONB NOT NULL DEFAULT '["entry"]'::jsonb,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS audit_logs (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		user_email TEXT NOT NULL,
		action VARCHAR(64) NOT NULL,
		details TEXT NOT NULL DEFAULT '',
		timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_audit_logs_timestamp ON audit_logs (timestamp DESC);`,
	`CREATE TABLE IF NOT EXISTS files (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name TEXT NOT NULL,
		size BIGINT NOT NULL,
		content_type VARCHAR(128) NOT NULL,
		content BYTEA NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
