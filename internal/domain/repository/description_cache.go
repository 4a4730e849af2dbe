package repository

import (
	"context"
	"time"

	"esign-composer/internal/domain/entity"
)

// DescriptionCache keeps document descriptions keyed by document path and
// modification time, so a replaced document is never served stale.
type DescriptionCache interface {
	Get(ctx context.Context, guid string, modTime time.Time) (*entity.DocumentDescription, bool)
	Set(ctx context.Context, guid string, modTime time.Time, description *entity.DocumentDescription) error
}
