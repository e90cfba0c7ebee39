package models

import "time"

type Course struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TrainerID   uint      `gorm:"not null;index" json:"trainer_id"`
	Trainer     User      `gorm:"foreignKey:TrainerID;constraint:OnDelete:CASCADE" json:"-"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Slug        string    `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Status      string    `gorm:"size:20;not null;default:'draft'" json:"status"`
	Tags        []Tag     `gorm:"many2many:course_tags" json:"tags,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

const (
	CourseStatusDraft     = "draft"
	CourseStatusPublished = "published"
	CourseStatusArchived  = "archived"
)

type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Slug      string    `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}
