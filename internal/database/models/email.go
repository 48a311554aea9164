package models

import (
	"time"
)

// Email represents one extracted and summarized mailbox message.
type Email struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Subject     string    `gorm:"size:500" json:"subject"`
	FromAddress string    `gorm:"size:255" json:"from_address"`
	ToAddress   string    `gorm:"type:text" json:"to_address"` // comma-joined recipient list
	Date        time.Time `gorm:"index" json:"date"`
	Text        string    `gorm:"type:text" json:"text"`
	Summary     string    `gorm:"type:text" json:"summary"`
	ExtractedAt time.Time `json:"extracted_at"`
}

// TableName pins the table name to the remote store's schema.
func (Email) TableName() string {
	return "emails"
}
