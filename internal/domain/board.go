package domain

import "time"

// Board is a persisted drawing board. The live editor state (pixels,
// palette, settings, history) lives in Redis and in memory; the database
// row only carries identity and ownership.
type Board struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	OwnerID    uint      `gorm:"index;not null" json:"owner_id"`
	Name       string    `gorm:"size:120;not null" json:"name"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	LastActive time.Time `gorm:"index" json:"last_active"`
}
