package repository

import (
	"context"

	"github.com/yourusername/inventario/internal/domain/entity"
)

// ActivityRepository history of menu interactions
type ActivityRepository interface {
	// Record stores one interaction, trimming the oldest past the size limit
	Record(ctx context.Context, activity entity.Activity) error

	// Recent newest-last list of the last limit entries (0 = all)
	Recent(ctx context.Context, limit int) ([]entity.Activity, error)

	// Clear removes every entry
	Clear(ctx context.Context) error

	Close() error
}
