package db

import "time"

// UsageLog records one tool invocation.
type UsageLog struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"index"`
	Tool      string    `gorm:"size:128;index"`
	RequestID string    `gorm:"size:64"`
	Status    string    `gorm:"size:16"`
}
