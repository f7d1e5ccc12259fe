package dto

// ProcessReportMessage is the payload published when an uploaded report
// is ready to be chunked and embedded.
type ProcessReportMessage struct {
	ReportId int `json:"report_id"`
}
