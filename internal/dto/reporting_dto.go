package dto

import "time"

// FinancialReportParams are the query parameters of a financial report.
type FinancialReportParams struct {
	DateFrom *time.Time `form:"dateFrom" time_format:"2006-01-02" time_utc:"1"`
	DateTo   *time.Time `form:"dateTo" time_format:"2006-01-02" time_utc:"1"`
	Currency string     `form:"currency" binding:"omitempty,currency_code"`
	// Statuses defaults to approved only.
	Statuses []string `form:"status" binding:"omitempty,dive,oneof=draft pending approved rejected"`
}
