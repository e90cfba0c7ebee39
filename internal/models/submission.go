package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuestionSetSubmission is one user's attempt against a question set. A row with
// a NULL submitted_at is the user's single in-flight attempt; the partial unique
// index makes concurrent starts converge on the same row. Rows are never deleted,
// the result history and the remaining-attempts computation both read them.
type QuestionSetSubmission struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	QuestionSetID uint            `gorm:"not null;index;uniqueIndex:idx_submission_in_flight,where:submitted_at IS NULL" json:"question_set_id"`
	UserID        uint            `gorm:"not null;index;uniqueIndex:idx_submission_in_flight,where:submitted_at IS NULL" json:"user_id"`
	AttemptCount  int             `gorm:"not null;default:1" json:"attempt_count"`
	StartedAt     time.Time       `gorm:"not null" json:"started_at"`
	SubmittedAt   *time.Time      `json:"submitted_at,omitempty"`
	DurationSec   int             `gorm:"not null;default:0" json:"duration_sec"`
	ObtainedMarks decimal.Decimal `gorm:"type:numeric(10,4);not null;default:0" json:"obtained_marks"`
	NegativeMarks decimal.Decimal `gorm:"type:numeric(10,4);not null;default:0" json:"negative_marks"`
	TotalMarks    decimal.Decimal `gorm:"type:numeric(10,4);not null;default:0" json:"total_marks"`
	HasPassed     bool            `gorm:"not null;default:false" json:"has_passed"`
}
