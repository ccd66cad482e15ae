package store

import (
	"encoding/json"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the durable key-value substrate every other component persists
// through. Values are JSON-serialized. Get of a missing or undecodable key
// reports absent; callers apply their own defaults. There are no
// transactional guarantees across keys.
type Store interface {
	// Get decodes the value for key into out and reports whether a usable
	// value was present.
	Get(key string, out any) bool
	Set(key string, value any) error
	Remove(key string) error
}

// KVRecord is a single persisted entry. One row per key.
type KVRecord struct {
	Key   string `gorm:"primaryKey" json:"key"`
	Value []byte `gorm:"type:jsonb" json:"value"`
}

// GormStore persists entries in the kv_records table.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Get(key string, out any) bool {
	var rec KVRecord
	if err := s.db.First(&rec, "key = ?", key).Error; err != nil {
		return false
	}
	if err := json.Unmarshal(rec.Value, out); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("store: discarding corrupt value")
		return false
	}
	return true
}

func (s *GormStore) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	rec := KVRecord{Key: key, Value: raw}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&rec).Error
}

func (s *GormStore) Remove(key string) error {
	return s.db.Delete(&KVRecord{}, "key = ?", key).Error
}

// MemStore keeps entries in memory. It follows the same JSON round-trip as
// GormStore so tests see identical decode behavior.
type MemStore struct {
	data map[string][]byte
}

func NewMemStore() *MemStore {
	return &MemStore{data: make(map[string][]byte)}
}

func (s *MemStore) Get(key string, out any) bool {
	raw, ok := s.data[key]
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("store: discarding corrupt value")
		return false
	}
	return true
}

func (s *MemStore) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.data[key] = raw
	return nil
}

func (s *MemStore) Remove(key string) error {
	delete(s.data, key)
	return nil
}

// SetRaw stores pre-encoded bytes without validation. Tests use it to plant
// corrupt values.
func (s *MemStore) SetRaw(key string, raw []byte) {
	s.data[key] = raw
}
