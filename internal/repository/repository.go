package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/mr1hm/go-wait-dashboard/internal/config"
	"github.com/mr1hm/go-wait-dashboard/internal/models"
)

// RecordStore holds the hospital records of the last successful poll.
// Replace swaps the whole set; there is no partial update.
type RecordStore interface {
	Replace(ctx context.Context, records []models.HospitalRecord) error
	All(ctx context.Context) ([]models.HospitalRecord, error)
	Close() error
}

// Open returns the store selected by cfg.Driver.
func Open(cfg config.StoreConfig) (RecordStore, error) {
	switch cfg.Driver {
	case config.StoreMemory:
		return NewMemoryStore(), nil
	case config.StoreSQLite:
		return NewSQLiteDB(cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown store driver: %s", cfg.Driver)
	}
}

type MemoryStore struct {
	mu      sync.RWMutex
	records []models.HospitalRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Replace(ctx context.Context, records []models.HospitalRecord) error {
	next := slices.Clone(records)

	m.mu.Lock()
	m.records = next
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) All(ctx context.Context) ([]models.HospitalRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.records), nil
}

func (m *MemoryStore) Close() error {
	return nil
}
