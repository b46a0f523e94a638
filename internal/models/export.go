package models

import "time"

// ExportType selects which report an export job renders.
type ExportType string

const (
	ExportTypePayroll  ExportType = "payroll"
	ExportTypeExpenses ExportType = "expenses"
)

// Valid returns true when the type is supported.
func (t ExportType) Valid() bool {
	return t == ExportTypePayroll || t == ExportTypeExpenses
}

// ExportFormat selects the rendered file format.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// Valid returns true when the format is supported.
func (f ExportFormat) Valid() bool {
	return f == ExportFormatCSV || f == ExportFormatPDF
}

// ExportStatus tracks an export job through its lifecycle.
type ExportStatus string

const (
	ExportStatusQueued     ExportStatus = "queued"
	ExportStatusProcessing ExportStatus = "processing"
	ExportStatusFinished   ExportStatus = "finished"
	ExportStatusFailed     ExportStatus = "failed"
)

// ExportJob is the persisted state of an export request. Jobs live in Redis
// for the lifetime of the rendered file.
type ExportJob struct {
	ID         string       `json:"id"`
	Type       ExportType   `json:"type"`
	Format     ExportFormat `json:"format"`
	From       time.Time    `json:"from"`
	To         time.Time    `json:"to"`
	BoatID     string       `json:"boat_id,omitempty"`
	EmployeeID string       `json:"employee_id,omitempty"`
	Status     ExportStatus `json:"status"`
	Filename   string       `json:"filename,omitempty"`
	Error      string       `json:"error,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}
