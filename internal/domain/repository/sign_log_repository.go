package repository

import (
	"context"

	"esign-composer/internal/domain/entity"
)

type SignLogRepository interface {
	// Save stores the audit entry of one sign operation
	Save(ctx context.Context, log *entity.SignLog) error

	// FindRecent returns the latest sign operations, newest first
	FindRecent(ctx context.Context, limit int) ([]entity.SignLog, error)

	// FindByDocument returns the sign operations of one document, newest first
	FindByDocument(ctx context.Context, documentGuid string, limit int) ([]entity.SignLog, error)
}
