package dto

import "time"

type ReportResponse struct {
	Id        int       `json:"id"`
	FileName  string    `json:"file_name"`
	Processed bool      `json:"processed"`
	CreatedAt time.Time `json:"created_at"`
}

type QueryReportRequest struct {
	UserId string `json:"user_id"`
	Query  string `json:"query" validate:"required"`
}

type QueryReportResponse struct {
	Answer   string           `json:"answer"`
	Passages []PassageDTO     `json:"passages,omitempty"`
	Matches  []ReportMatchDTO `json:"matches,omitempty"`
}

type PassageDTO struct {
	ReportId int     `json:"report_id"`
	Text     string  `json:"text"`
	Distance float32 `json:"distance"`
}

type ReportMatchDTO struct {
	ReportId int    `json:"report_id"`
	FileName string `json:"file_name"`
}
