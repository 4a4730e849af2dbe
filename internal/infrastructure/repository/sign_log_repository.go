package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"esign-composer/internal/domain/entity"
	"esign-composer/internal/domain/repository"
	"esign-composer/internal/infrastructure/database"
)

type signLogRepository struct {
	db     *database.Database
	logger *zap.Logger
}

// NewSignLogRepository returns the PostgreSQL sign log, or a no-op one when
// the database is disabled.
func NewSignLogRepository(db *database.Database, logger *zap.Logger) repository.SignLogRepository {
	if !db.Enabled() {
		return NoopSignLogRepository{}
	}
	return &signLogRepository{
		db:     db,
		logger: logger,
	}
}

func (r *signLogRepository) Save(ctx context.Context, log *entity.SignLog) error {
	query := `
		INSERT INTO sign_logs (operation_id, document_guid, document_format, signatures, digital, images, texts, stamps, optical, output_guid, status, error_message, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`

	err := r.db.DB.QueryRowContext(ctx, query,
		log.OperationID,
		log.DocumentGuid,
		log.DocumentFormat,
		log.Signatures,
		log.Digital,
		log.Images,
		log.Texts,
		log.Stamps,
		log.Optical,
		log.OutputGuid,
		log.Status,
		log.ErrorMessage,
		log.Duration,
		log.CreatedAt,
	).Scan(&log.ID)

	if err != nil {
		r.logger.Error("Failed to save sign log",
			zap.String("operation_id", log.OperationID),
			zap.Error(err),
		)
		return fmt.Errorf("failed to save sign log: %w", err)
	}

	return nil
}

const selectSignLogs = `
		SELECT id, operation_id, document_guid, document_format, signatures, digital, images, texts, stamps, optical, output_guid, status, error_message, duration_ms, created_at
		FROM sign_logs
`

func (r *signLogRepository) FindRecent(ctx context.Context, limit int) ([]entity.SignLog, error) {
	rows, err := r.db.DB.QueryContext(ctx, selectSignLogs+`ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sign logs: %w", err)
	}
	return scanSignLogs(rows)
}

func (r *signLogRepository) FindByDocument(ctx context.Context, documentGuid string, limit int) ([]entity.SignLog, error) {
	rows, err := r.db.DB.QueryContext(ctx, selectSignLogs+`WHERE document_guid = $1 ORDER BY created_at DESC LIMIT $2`, documentGuid, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sign logs by document: %w", err)
	}
	return scanSignLogs(rows)
}

func scanSignLogs(rows *sql.Rows) ([]entity.SignLog, error) {
	defer rows.Close()

	logs := []entity.SignLog{}
	for rows.Next() {
		var log entity.SignLog
		var output, errMsg sql.NullString
		if err := rows.Scan(
			&log.ID,
			&log.OperationID,
			&log.DocumentGuid,
			&log.DocumentFormat,
			&log.Signatures,
			&log.Digital,
			&log.Images,
			&log.Texts,
			&log.Stamps,
			&log.Optical,
			&output,
			&log.Status,
			&errMsg,
			&log.Duration,
			&log.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sign log: %w", err)
		}
		log.OutputGuid = output.String
		log.ErrorMessage = errMsg.String
		logs = append(logs, log)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sign logs: %w", err)
	}
	return logs, nil
}

// NoopSignLogRepository discards sign logs.
type NoopSignLogRepository struct{}

func (NoopSignLogRepository) Save(ctx context.Context, log *entity.SignLog) error {
	return nil
}

func (NoopSignLogRepository) FindRecent(ctx context.Context, limit int) ([]entity.SignLog, error) {
	return []entity.SignLog{}, nil
}

func (NoopSignLogRepository) FindByDocument(ctx context.Context, documentGuid string, limit int) ([]entity.SignLog, error) {
	return []entity.SignLog{}, nil
}
