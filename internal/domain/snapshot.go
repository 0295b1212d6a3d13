package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// BoardSnapshot is a durable point-in-time copy of a board, stored as the
// exported document JSON. Snapshots back the autosave worker and seed a
// session when the Redis state has expired.
type BoardSnapshot struct {
	ID        uint      `gorm:"primaryKey"`
	BoardID   uint      `gorm:"index;not null"`
	Data      string    `gorm:"type:longtext;not null"` // Document JSON
	Version   uint      `gorm:"index"`                  // op counter value the snapshot covers
	CreatedAt time.Time `gorm:"index;not null"`
}

// ParseDocument decodes the stored document JSON.
func (s *BoardSnapshot) ParseDocument() (*Document, error) {
	var doc Document
	if s.Data == "" {
		return nil, fmt.Errorf("snapshot %d has no data", s.ID)
	}
	if err := json.Unmarshal([]byte(s.Data), &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot document: %w", err)
	}
	return &doc, nil
}

// SetDocument encodes doc into the Data field.
func (s *BoardSnapshot) SetDocument(doc *Document) error {
	bytes, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot document: %w", err)
	}
	s.Data = string(bytes)
	return nil
}
