package postgres

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open abre un pool a Postgres usando pgx vía database/sql.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	// defaults razonables para una clínica chica
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// EnsureSchema crea las tablas si no existen. Mismo layout histórico:
// una fila por entidad con el documento completo en una columna jsonb.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS clients (id TEXT PRIMARY KEY, data JSONB NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS pets (id TEXT PRIMARY KEY, data JSONB NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS appointments (id TEXT PRIMARY KEY, data JSONB NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS holidays (id TEXT PRIMARY KEY, data JSONB NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS schedule_config (id TEXT PRIMARY KEY, data JSONB NOT NULL)`,
		// una sola cita no cancelada por (fecha, hora); cierra la carrera
		// check-then-act también a nivel de índice
		`CREATE UNIQUE INDEX IF NOT EXISTS appointments_slot_uniq
			ON appointments ((data->>'date'), (data->>'time'))
			WHERE data->>'status' <> 'cancelled'`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
