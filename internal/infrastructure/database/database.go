package database

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"esign-composer/internal/config"
)

// Database wraps the sign log connection. DB is nil when the database is
// disabled in configuration.
type Database struct {
	DB     *sql.DB
	logger *zap.Logger
}

func NewDatabase(cfg *config.Config, logger *zap.Logger) (*Database, error) {
	if !cfg.Database.Enabled {
		logger.Info("Database disabled, sign logs are not persisted")
		return &Database{logger: logger}, nil
	}

	// Build PostgreSQL connection string
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.DBName,
		cfg.Database.SSLMode,
	)

	db, err := sql.Open(cfg.Database.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database connected successfully",
		zap.String("driver", cfg.Database.Driver),
		zap.String("host", cfg.Database.Host),
		zap.Int("port", cfg.Database.Port),
		zap.String("dbname", cfg.Database.DBName),
	)

	database := &Database{
		DB:     db,
		logger: logger,
	}

	if err := database.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return database, nil
}

// Enabled reports whether a connection is open.
func (d *Database) Enabled() bool {
	return d != nil && d.DB != nil
}

var migrations = []struct {
	name  string
	query string
}{
	{
		name: "create sign_logs table",
		query: `
	CREATE TABLE IF NOT EXISTS sign_logs (
		id SERIAL PRIMARY KEY,
		operation_id VARCHAR(36) NOT NULL UNIQUE,
		document_guid TEXT NOT NULL,
		document_format VARCHAR(64) NOT NULL,
		signatures INTEGER NOT NULL DEFAULT 0,
		digital INTEGER NOT NULL DEFAULT 0,
		images INTEGER NOT NULL DEFAULT 0,
		texts INTEGER NOT NULL DEFAULT 0,
		stamps INTEGER NOT NULL DEFAULT 0,
		optical INTEGER NOT NULL DEFAULT 0,
		output_guid TEXT DEFAULT '',
		status VARCHAR(16) NOT NULL,
		error_message TEXT DEFAULT '',
		duration_ms BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`,
	},
	{
		// PostgreSQL doesn't support IF NOT EXISTS for indexes in the same statement
		name:  "create sign_logs document index",
		query: `CREATE INDEX IF NOT EXISTS idx_sign_logs_document_guid ON sign_logs(document_guid);`,
	},
	{
		name:  "create sign_logs created_at index",
		query: `CREATE INDEX IF NOT EXISTS idx_sign_logs_created_at ON sign_logs(created_at DESC);`,
	},
}

func (d *Database) migrate() error {
	for _, m := range migrations {
		if _, err := d.DB.Exec(m.query); err != nil {
			return fmt.Errorf("failed to %s: %w", m.name, err)
		}
	}

	d.logger.Info("Database migrations completed successfully", zap.Int("count", len(migrations)))
	return nil
}

func (d *Database) Close() error {
	if !d.Enabled() {
		return nil
	}
	return d.DB.Close()
}
