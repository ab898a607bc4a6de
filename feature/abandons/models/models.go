package models

import (
	"time"

	"abandon-report/core/reconcile"

	"github.com/shopspring/decimal"
)

// ReportRun represents the 'report_runs' table: one archived report build.
type ReportRun struct {
	ID                 string          `gorm:"column:id;primaryKey;size:36" json:"id"`
	CreatedAt          time.Time       `gorm:"column:created_at;index" json:"created_at"`
	MasterSource       string          `gorm:"column:master_source;size:512" json:"master_source"`
	ReservationsSource string          `gorm:"column:reservations_source;size:512" json:"reservations_source"`
	TransactionSources string          `gorm:"column:transaction_sources;type:text" json:"transaction_sources"` // "|" separated
	MasterRows         int             `gorm:"column:master_rows" json:"master_rows"`
	DroppedInvalidID   int             `gorm:"column:dropped_invalid_id" json:"dropped_invalid_id"`
	FilteredByReason   int             `gorm:"column:filtered_by_reason" json:"filtered_by_reason"`
	OutputRows         int             `gorm:"column:output_rows" json:"output_rows"`
	FanOutRows         int             `gorm:"column:fan_out_rows" json:"fan_out_rows"`
	Resolved           int             `gorm:"column:resolved" json:"resolved"`
	Manual             int             `gorm:"column:manual" json:"manual"`
	Absent             int             `gorm:"column:absent" json:"absent"`
	SkippedSources     int             `gorm:"column:skipped_sources" json:"skipped_sources"`
	TotalAmount        decimal.Decimal `gorm:"column:total_amount;type:decimal(16,2)" json:"total_amount"`
}

// TableName overrides the table name.
func (ReportRun) TableName() string {
	return "report_runs"
}

// ReportRow represents the 'report_rows' table: one line of an archived report.
type ReportRow struct {
	ID                   uint   `gorm:"column:id;primaryKey;autoIncrement"`
	RunID                string `gorm:"column:run_id;size:36;index"`
	Position             int    `gorm:"column:position"`
	CompensationDatetime string `gorm:"column:compensation_datetime"`
	ContactEmail         string `gorm:"column:contact_email"`
	CaseNumber           string `gorm:"column:case_number;size:64;index"`
	OperatorEmail        string `gorm:"column:operator_email"`
	Amount               string `gorm:"column:amount"`
	Reason               string `gorm:"column:reason"`
	ReservationID        string `gorm:"column:reservation_id"`
	Classification       string `gorm:"column:classification"`
	StartLocalAt         string `gorm:"column:start_local_at"`
	Date                 string `gorm:"column:date"`
	Hour                 string `gorm:"column:hour"`
}

// TableName overrides the table name.
func (ReportRow) TableName() string {
	return "report_rows"
}

// NewReportRow converts a report row.
func NewReportRow(runID string, position int, r reconcile.Row) ReportRow {
	return ReportRow{
		RunID:                runID,
		Position:             position,
		CompensationDatetime: r.CompensationDatetime,
		ContactEmail:         r.ContactEmail,
		CaseNumber:           r.CaseNumber,
		OperatorEmail:        r.OperatorEmail,
		Amount:               r.Amount,
		Reason:               r.Reason,
		ReservationID:        r.ReservationID,
		Classification:       r.Classification,
		StartLocalAt:         r.StartLocalAt,
		Date:                 r.Date,
		Hour:                 r.Hour,
	}
}

// ToRow converts back to a report row. The resolution is not archived.
func (r ReportRow) ToRow() reconcile.Row {
	return reconcile.Row{
		CompensationDatetime: r.CompensationDatetime,
		ContactEmail:         r.ContactEmail,
		CaseNumber:           r.CaseNumber,
		OperatorEmail:        r.OperatorEmail,
		Amount:               r.Amount,
		Reason:               r.Reason,
		ReservationID:        r.ReservationID,
		Classification:       r.Classification,
		StartLocalAt:         r.StartLocalAt,
		Date:                 r.Date,
		Hour:                 r.Hour,
	}
}

// ExpectedColumns lists the columns each archive table must have.
func ExpectedColumns() map[string][]string {
	return map[string][]string{
		ReportRun{}.TableName(): {
			"id", "created_at", "master_source", "reservations_source", "transaction_sources",
			"master_rows", "dropped_invalid_id", "filtered_by_reason", "output_rows", "fan_out_rows",
			"resolved", "manual", "absent", "skipped_sources", "total_amount",
		},
		ReportRow{}.TableName(): {
			"id", "run_id", "position", "compensation_datetime", "contact_email", "case_number",
			"operator_email", "amount", "reason", "reservation_id", "classification",
			"start_local_at", "date", "hour",
		},
	}
}
