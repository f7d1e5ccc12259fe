package entity

import "time"

type Report struct {
	Id        int
	UserId    string
	FileName  string
	FilePath  string
	Processed bool
	CreatedAt time.Time
	UpdatedAt *time.Time
}
