package storage

import (
	"context"
	"sync"

	"github.com/yourusername/inventario/internal/domain/entity"
	"github.com/yourusername/inventario/internal/domain/repository"
)

type memoryActivityRepository struct {
	mu         sync.RWMutex
	activities []entity.Activity
	maxSize    int
}

// NewMemoryActivityRepository in-memory activity log keeping at most maxSize entries
func NewMemoryActivityRepository(maxSize int) repository.ActivityRepository {
	return &memoryActivityRepository{
		activities: []entity.Activity{},
		maxSize:    maxSize,
	}
}

// Record appends an entry
func (m *memoryActivityRepository) Record(ctx context.Context, activity entity.Activity) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.activities = append(m.activities, activity)

	if m.maxSize > 0 && len(m.activities) > m.maxSize {
		m.activities = m.activities[len(m.activities)-m.maxSize:]
	}

	return nil
}

// Recent last limit entries, oldest first
func (m *memoryActivityRepository) Recent(ctx context.Context, limit int) ([]entity.Activity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	activities := m.activities
	if limit > 0 && len(activities) > limit {
		activities = activities[len(activities)-limit:]
	}

	out := make([]entity.Activity, len(activities))
	copy(out, activities)
	return out, nil
}

// Clear drops every entry
func (m *memoryActivityRepository) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.activities = []entity.Activity{}
	return nil
}

func (m *memoryActivityRepository) Close() error {
	return nil
}
