// Package store is the typed local state store: a SQLite-backed
// key-value table with an in-memory cache, standing in for the browser's
// localStorage. Components get it injected instead of reading ambient
// global storage.
package store

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/worldwide-social/worldwide/internal/logger"
	"github.com/worldwide-social/worldwide/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Keys mirror the original client's storage schema
const (
	KeyAccounts      = "ww-accounts"
	KeyActiveAccount = "ww-active-account-id"

	interestKeyPrefix = "ww-interests-"
)

// Store is a typed load/save layer over the state table. Absent or
// malformed stored data falls back to the zero value - there is no schema
// migration logic, matching the original's tolerance for stale entries.
type Store struct {
	db    *gorm.DB
	mu    sync.RWMutex
	cache map[string]string
}

// New creates a store over the given database
func New(db *gorm.DB) *Store {
	return &Store{
		db:    db,
		cache: make(map[string]string),
	}
}

// Get unmarshals the value under key into out. Returns false when the key
// is absent or the stored JSON does not parse; out is left untouched in
// that case so callers keep their default.
func (s *Store) Get(key string, out any) bool {
	s.mu.RLock()
	raw, ok := s.cache[key]
	s.mu.RUnlock()

	if !ok {
		var entry models.StateEntry
		err := s.db.First(&entry, "key = ?", key).Error
		if err != nil {
			return false
		}
		raw = entry.Value

		s.mu.Lock()
		s.cache[key] = raw
		s.mu.Unlock()
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		logger.Log.Warn("Malformed state entry, using defaults",
			zap.String("key", key),
			zap.Error(err),
		)
		return false
	}
	return true
}

// Set marshals v and writes it under key, updating the cache
func (s *Store) Set(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal state value for %s: %w", key, err)
	}

	entry := models.StateEntry{Key: key, Value: string(raw)}
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to persist state entry %s: %w", key, err)
	}

	s.mu.Lock()
	s.cache[key] = string(raw)
	s.mu.Unlock()
	return nil
}

// Delete removes a key from storage and cache
func (s *Store) Delete(key string) error {
	if err := s.db.Delete(&models.StateEntry{}, "key = ?", key).Error; err != nil {
		return fmt.Errorf("failed to delete state entry %s: %w", key, err)
	}

	s.mu.Lock()
	delete(s.cache, key)
	s.mu.Unlock()
	return nil
}

// ActiveAccountID returns the active user id, or "" when none is set
func (s *Store) ActiveAccountID() string {
	var id string
	s.Get(KeyActiveAccount, &id)
	return id
}

// SetActiveAccountID records which roster account is active
func (s *Store) SetActiveAccountID(id string) error {
	return s.Set(KeyActiveAccount, id)
}

// LoadInterests returns the per-user category score map. Unknown users
// and malformed entries yield an empty map, never an error.
func (s *Store) LoadInterests(userID string) map[string]int {
	scores := make(map[string]int)
	s.Get(interestKeyPrefix+userID, &scores)
	return scores
}

// SaveInterests persists the per-user category score map
func (s *Store) SaveInterests(userID string, scores map[string]int) error {
	return s.Set(interestKeyPrefix+userID, scores)
}

// ClearInterests is the external reset: the only path by which a user's
// scores may go down.
func (s *Store) ClearInterests(userID string) error {
	return s.Delete(interestKeyPrefix + userID)
}
