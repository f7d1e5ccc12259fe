package model

import "time"

type Report struct {
	Id        int       `gorm:"primaryKey;autoIncrement"`
	UserId    string    `gorm:"type:varchar(128);not null;index"`
	FileName  string    `gorm:"type:varchar(255);not null"`
	FilePath  string    `gorm:"type:varchar(512);not null"`
	Processed bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Report) TableName() string {
	return "reports"
}
