package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/inventario/internal/domain/entity"
	"github.com/yourusername/inventario/internal/domain/repository"
)

// ActivityUseCase records menu interactions
type ActivityUseCase interface {
	// Record stores the outcome of one action; a non-nil err marks it failed
	Record(ctx context.Context, action, details string, err error) error

	// Recent last limit entries, oldest first
	Recent(ctx context.Context, limit int) ([]entity.Activity, error)

	// Clear forgets every recorded entry
	Clear(ctx context.Context) error
}

type activityUseCase struct {
	activityRepo repository.ActivityRepository
	now          func() time.Time
}

// NewActivityUseCase creates the activity recorder
func NewActivityUseCase(activityRepo repository.ActivityRepository) ActivityUseCase {
	return &activityUseCase{
		activityRepo: activityRepo,
		now:          time.Now,
	}
}

func (u *activityUseCase) Record(ctx context.Context, action, details string, err error) error {
	activity := entity.Activity{
		ID:        uuid.New().String(),
		Action:    action,
		Details:   details,
		Timestamp: u.now().UTC(),
	}
	if err != nil {
		activity.Failed = true
		if details != "" {
			activity.Details = fmt.Sprintf("%s: %v", details, err)
		} else {
			activity.Details = err.Error()
		}
	}

	if err := u.activityRepo.Record(ctx, activity); err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}
	return nil
}

func (u *activityUseCase) Recent(ctx context.Context, limit int) ([]entity.Activity, error) {
	return u.activityRepo.Recent(ctx, limit)
}

func (u *activityUseCase) Clear(ctx context.Context) error {
	if err := u.activityRepo.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear activity: %w", err)
	}
	return nil
}
