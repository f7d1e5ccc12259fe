package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ChatTurn struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId      string         `gorm:"type:varchar(128);not null;index"`
	Type        string         `gorm:"type:varchar(32);not null"`
	UserMessage string         `gorm:"type:text;not null"`
	BotResponse string         `gorm:"type:text;not null"`
	Details     datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt   time.Time      `gorm:"autoCreateTime;index"`
}

func (ChatTurn) TableName() string {
	return "chat_turns"
}
