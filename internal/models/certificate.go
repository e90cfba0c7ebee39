package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Certificate records a passed question set. One per (user, question set); the
// first passing submission issues it, later passes keep the original.
type Certificate struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	UserID        uint            `gorm:"not null;uniqueIndex:idx_cert_user_set" json:"user_id"`
	QuestionSetID uint            `gorm:"not null;uniqueIndex:idx_cert_user_set" json:"question_set_id"`
	SerialNumber  string          `gorm:"size:36;uniqueIndex;not null" json:"serial_number"`
	Percentage    decimal.Decimal `gorm:"type:numeric(10,4);not null;default:0" json:"percentage"`
	IssuedAt      time.Time       `json:"issued_at"`
}
