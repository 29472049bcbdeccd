package lead

import (
	"context"
	"fmt"
)

// schemaDDL is the idempotent bootstrap for the two tables the service
// owns. lead_history.seq preserves insertion order so history queries
// have a deterministic tie-break when two entries share a timestamp.
var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS leads (
		id            uuid PRIMARY KEY,
		full_name     varchar(80) NOT NULL,
		email         varchar(255),
		phone         varchar(15) NOT NULL,
		city          text NOT NULL,
		property_type text NOT NULL,
		bhk           text,
		purpose       text NOT NULL,
		budget_min    integer,
		budget_max    integer,
		timeline      text NOT NULL,
		source        text NOT NULL,
		notes         text,
		tags          text[] NOT NULL DEFAULT '{}',
		status        text NOT NULL DEFAULT 'New',
		owner_id      uuid NOT NULL,
		updated_at    timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS lead_history (
		id         uuid PRIMARY KEY,
		seq        bigint GENERATED ALWAYS AS IDENTITY,
		lead_id    uuid NOT NULL,
		changed_by uuid NOT NULL,
		changed_at timestamptz NOT NULL DEFAULT now(),
		diff       jsonb NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_leads_updated_at ON leads (updated_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_lead_history_lead ON lead_history (lead_id, changed_at DESC)`,
}

// EnsureSchema creates the leads and lead_history tables if they do not
// exist. Called once at startup.
func EnsureSchema(ctx context.Context, db DBTX) error {
	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
