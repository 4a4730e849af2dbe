package entity

import "time"

// Sign log statuses
const (
	SignStatusSuccess = "SUCCESS"
	SignStatusError   = "ERROR"
)

// SignLog is the audit entry of one sign operation.
type SignLog struct {
	ID             int64     `json:"id"`
	OperationID    string    `json:"operation_id"`
	DocumentGuid   string    `json:"document_guid"`
	DocumentFormat string    `json:"document_format"`
	Signatures     int       `json:"signatures"`
	Digital        int       `json:"digital"`
	Images         int       `json:"images"`
	Texts          int       `json:"texts"`
	Stamps         int       `json:"stamps"`
	Optical        int       `json:"optical"`
	OutputGuid     string    `json:"output_guid,omitempty"`
	Status         string    `json:"status"`
	ErrorMessage   string    `json:"error_message,omitempty"`
	Duration       int64     `json:"duration_ms"`
	CreatedAt      time.Time `json:"created_at"`
}
