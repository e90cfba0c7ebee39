package models

import "time"

type Group struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	TrainerID uint          `gorm:"not null;index" json:"trainer_id"`
	Trainer   User          `gorm:"foreignKey:TrainerID;constraint:OnDelete:CASCADE" json:"-"`
	Name      string        `gorm:"size:255;not null" json:"name"`
	Slug      string        `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Status    string        `gorm:"size:20;not null;default:'active'" json:"status"`
	Members   []GroupMember `gorm:"foreignKey:GroupID" json:"members,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

const (
	GroupStatusActive = "active"
	GroupStatusClosed = "closed"
)

type GroupMember struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	GroupID  uint      `gorm:"not null;uniqueIndex:idx_group_user" json:"group_id"`
	UserID   uint      `gorm:"not null;uniqueIndex:idx_group_user" json:"user_id"`
	User     User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	JoinedAt time.Time `json:"joined_at"`
}
