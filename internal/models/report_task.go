package models

import "time"

// ReportTask represents one asynchronous report-generation request. It is
// owned by the report service; callers only ever read it back via polling.
type ReportTask struct {
	ID           string     `json:"id" db:"id"`
	Kind         string     `json:"kind" db:"kind"`
	Format       string     `json:"format" db:"format"`
	Status       string     `json:"status" db:"status"`
	ParamsJSON   string     `json:"params_json,omitempty" db:"params_json"`
	RequestedBy  string     `json:"requested_by,omitempty" db:"requested_by"`
	ArtifactPath *string    `json:"artifact_path,omitempty" db:"artifact_path"`
	ErrorMessage *string    `json:"error_message,omitempty" db:"error_message"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

// Report kind constants
const (
	ReportKindWaterBalance  = "WATER_BALANCE"
	ReportKindOperationsLog = "OPERATIONS_LOG"
	ReportKindPeriodSummary = "PERIOD_SUMMARY"
)

// Report format constants
const (
	ReportFormatCSV  = "CSV"
	ReportFormatXLSX = "XLSX"
	ReportFormatPDF  = "PDF"
)

// Report task status constants
const (
	ReportStatusPending    = "pending"
	ReportStatusProcessing = "processing"
	ReportStatusCompleted  = "completed"
	ReportStatusFailed     = "failed"
)

// ValidReportKind reports whether k is a supported report kind
func ValidReportKind(k string) bool {
	switch k {
	case ReportKindWaterBalance, ReportKindOperationsLog, ReportKindPeriodSummary:
		return true
	}
	return false
}

// ValidReportFormat reports whether f is a supported output format
func ValidReportFormat(f string) bool {
	switch f {
	case ReportFormatCSV, ReportFormatXLSX, ReportFormatPDF:
		return true
	}
	return false
}

// FormatExtension returns the artifact file extension for a format
func FormatExtension(f string) string {
	switch f {
	case ReportFormatXLSX:
		return "xlsx"
	case ReportFormatPDF:
		return "pdf"
	default:
		return "csv"
	}
}

// FormatContentType returns the MIME type served for a format
func FormatContentType(f string) string {
	switch f {
	case ReportFormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ReportFormatPDF:
		return "application/pdf"
	default:
		return "text/csv; charset=utf-8"
	}
}

// Terminal reports whether the task reached a final state
func (t *ReportTask) Terminal() bool {
	return t.Status == ReportStatusCompleted || t.Status == ReportStatusFailed
}
