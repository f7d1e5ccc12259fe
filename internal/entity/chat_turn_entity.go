package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatTurn struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId      string
	Type        string
	UserMessage string
	BotResponse string
	Details     map[string]interface{}
	CreatedAt   time.Time
}
