package models

import "time"

type QuestionPool struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	TrainerID uint       `gorm:"not null;index" json:"trainer_id"`
	Trainer   User       `gorm:"foreignKey:TrainerID;constraint:OnDelete:CASCADE" json:"-"`
	Name      string     `gorm:"size:255;not null" json:"name"`
	Slug      string     `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Questions []Question `gorm:"foreignKey:PoolID" json:"questions,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type Question struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	PoolID      *uint            `gorm:"index" json:"pool_id,omitempty"`
	Name        string           `gorm:"type:text;not null" json:"name"`
	Description string           `gorm:"type:text" json:"description,omitempty"`
	Type        string           `gorm:"size:20;not null" json:"type"`
	Options     []QuestionOption `gorm:"foreignKey:QuestionID" json:"options,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

const (
	QuestionTypeSingleChoice   = "single_choice"
	QuestionTypeMultipleChoice = "multiple_choice"
	QuestionTypeSubjective     = "subjective"
)

// Scorable reports whether the question participates in automated scoring.
// Subjective questions are marked by a reviewer and contribute nothing here.
func (q *Question) Scorable() bool {
	return q.Type == QuestionTypeSingleChoice || q.Type == QuestionTypeMultipleChoice
}

type QuestionOption struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	QuestionID uint   `gorm:"not null;index" json:"question_id"`
	Text       string `gorm:"size:500;not null" json:"text"`
	IsCorrect  bool   `gorm:"not null;default:false" json:"is_correct"`
	OrderNum   int    `gorm:"not null;default:0" json:"order_num"`
}
