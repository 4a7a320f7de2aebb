package migration

import (
	"context"
	"fmt"

	"github.com/vfg2006/account-tracker-api/infrastructure/database"
	"github.com/vfg2006/account-tracker-api/pkg/log"
)

// Init cria o schema completo. Todas as instruções são idempotentes
// (IF NOT EXISTS), então pode rodar em todo boot sem efeitos colaterais.
func Init(ctx context.Context, conn database.Conn) error {
	for _, stmt := range schemaStatements(conn.Dialect()) {
		if _, err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("running schema statement: %w", err)
		}
	}

	log.L.Info("Database schema initialized")

	return nil
}

func schemaStatements(dialect database.Dialect) []string {
	id := "SERIAL PRIMARY KEY"
	if dialect == database.DialectSQLite {
		id = "INTEGER PRIMARY KEY AUTOINCREMENT"
	}

	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS accounts (
			id %s,
			name TEXT NOT NULL UNIQUE,
			industry TEXT,
			location TEXT,
			renewal_date DATE,
			annual_value REAL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`, id),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS contacts (
			id %s,
			account_id INTEGER NOT NULL REFERENCES accounts(id),
			name TEXT NOT NULL,
			role TEXT,
			email TEXT,
			phone TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`, id),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS activities (
			id %s,
			account_id INTEGER NOT NULL REFERENCES accounts(id),
			activity_type TEXT NOT NULL,
			description TEXT,
			activity_date DATE NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			synced_to_sheets BOOLEAN DEFAULT FALSE
		)`, id),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS tasks (
			id %s,
			account_id INTEGER NOT NULL REFERENCES accounts(id),
			title TEXT NOT NULL,
			description TEXT,
			due_date DATE,
			status TEXT NOT NULL DEFAULT 'open',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			completed_at TIMESTAMP,
			synced_to_sheets BOOLEAN DEFAULT FALSE
		)`, id),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS notes (
			id %s,
			account_id INTEGER NOT NULL REFERENCES accounts(id),
			content TEXT NOT NULL,
			note_date DATE NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			synced_to_sheets BOOLEAN DEFAULT FALSE
		)`, id),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS daily_touches (
			id %s,
			account_id INTEGER NOT NULL REFERENCES accounts(id),
			touch_date DATE NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (account_id, touch_date)
		)`, id),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS deals (
			id %s,
			account_id INTEGER NOT NULL REFERENCES accounts(id),
			name TEXT NOT NULL,
			stage TEXT NOT NULL DEFAULT 'discovery',
			value REAL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			closed_at TIMESTAMP,
			synced_to_sheets BOOLEAN DEFAULT FALSE
		)`, id),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS users (
			id %s,
			name TEXT NOT NULL,
			lastname TEXT,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			active BOOLEAN DEFAULT FALSE,
			role_id INTEGER NOT NULL DEFAULT 3,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP
		)`, id),
		`CREATE INDEX IF NOT EXISTS idx_activities_account_id ON activities(account_id)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_date ON activities(activity_date)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_account_id ON tasks(account_id)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status)`,
		`CREATE INDEX IF NOT EXISTS idx_notes_account_id ON notes(account_id)`,
		`CREATE INDEX IF NOT EXISTS idx_daily_touches_date ON daily_touches(touch_date)`,
		`CREATE INDEX IF NOT EXISTS idx_deals_account_id ON deals(account_id)`,
		`CREATE INDEX IF NOT EXISTS idx_contacts_account_id ON contacts(account_id)`,
	}
}

type seedAccount struct {
	name     string
	industry string
	location string
}

var seedAccounts = []seedAccount{
	{"Acuity Insurance", "Insurance", "Sheboygan, WI"},
	{"MGIC Investment Corporation", "Financial Services", "Milwaukee, WI"},
	{"Rockwell Automation", "Industrial Automation", "Milwaukee, WI"},
	{"Oshkosh Corporation", "Specialty Vehicles", "Oshkosh, WI"},
	{"Kohler Co.", "Manufacturing", "Kohler, WI"},
	{"Johnson Controls", "Building Technology", "Milwaukee, WI"},
	{"Harley-Davidson", "Manufacturing", "Milwaukee, WI"},
	{"WEC Energy Group", "Utilities", "Milwaukee, WI"},
	{"Northwestern Mutual", "Financial Services", "Milwaukee, WI"},
	{"Fiserv", "Fintech", "Brookfield, WI"},
	{"Exact Sciences", "Biotechnology", "Madison, WI"},
	{"Epic Systems", "Healthcare Software", "Verona, WI"},
	{"American Family Insurance", "Insurance", "Madison, WI"},
}

// Seed popula a carteira inicial de contas. ON CONFLICT (name) garante
// que um restart não duplica linhas já semeadas.
func Seed(ctx context.Context, conn database.Conn) error {
	builder := conn.Builder()

	for _, account := range seedAccounts {
		query := builder.
			Insert("accounts").
			Columns("name", "industry", "location").
			Values(account.name, account.industry, account.location).
			Suffix("ON CONFLICT (name) DO NOTHING")

		sql, args, err := query.ToSql()
		if err != nil {
			return err
		}

		if _, err := conn.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("seeding account %q: %w", account.name, err)
		}
	}

	log.L.WithField("accounts", len(seedAccounts)).Info("Seed accounts ensured")

	return nil
}
