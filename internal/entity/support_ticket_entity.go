package entity

import (
	"time"

	"github.com/google/uuid"
)

type SupportTicket struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Code        string
	UserId      string
	Department  string
	Description string
	Urgency     string
	Category    string
	Read        bool
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
