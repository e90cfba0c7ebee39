package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type QuestionSet struct {
	ID               uint                  `gorm:"primaryKey" json:"id"`
	CourseID         uint                  `gorm:"not null;index" json:"course_id"`
	Course           Course                `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
	Title            string                `gorm:"size:255;not null" json:"title"`
	Slug             string                `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Description      string                `gorm:"type:text" json:"description,omitempty"`
	StartTime        *time.Time            `json:"start_time,omitempty"`
	EndTime          *time.Time            `json:"end_time,omitempty"`
	Duration         int                   `gorm:"not null;default:0" json:"duration"`
	AllowedRetake    int                   `gorm:"not null;default:0" json:"allowed_retake"`
	MarksPerQuestion decimal.Decimal       `gorm:"type:numeric(10,4);not null;default:1" json:"marks_per_question"`
	NegativeMarking  decimal.Decimal       `gorm:"type:numeric(10,4);not null;default:0" json:"negative_marking"`
	PassingWeightage decimal.Decimal       `gorm:"type:numeric(10,4);not null;default:0" json:"passing_weightage"`
	TotalMarks       decimal.Decimal       `gorm:"type:numeric(10,4);not null;default:0" json:"total_marks"`
	Questions        []QuestionSetQuestion `gorm:"foreignKey:QuestionSetID" json:"questions,omitempty"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
}

type QuestionSetQuestion struct {
	ID            uint     `gorm:"primaryKey" json:"id"`
	QuestionSetID uint     `gorm:"not null;uniqueIndex:idx_set_question" json:"question_set_id"`
	QuestionID    uint     `gorm:"not null;uniqueIndex:idx_set_question" json:"question_id"`
	Question      Question `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"question"`
	OrderNum      int      `gorm:"not null;default:0" json:"order_num"`
}
