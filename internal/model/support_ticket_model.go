package model

import (
	"time"

	"github.com/google/uuid"
)

type SupportTicket struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code        string    `gorm:"type:varchar(16);not null;uniqueIndex"`
	UserId      string    `gorm:"type:varchar(128);not null;index"`
	Department  string    `gorm:"type:varchar(64);not null"`
	Description string    `gorm:"type:text;not null"`
	Urgency     string    `gorm:"type:varchar(32)"`
	Category    string    `gorm:"type:varchar(64)"`
	Read        bool      `gorm:"not null;default:false"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (SupportTicket) TableName() string {
	return "support_tickets"
}
