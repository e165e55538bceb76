package domain

// SummaryPeriod holds the first and last covered month as display labels
// ("January 2025").
type SummaryPeriod struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// SummaryStats holds aggregate figures computed once over the final enriched
// dataset. Averages over entirely-missing series are nil rather than zero.
type SummaryStats struct {
	TotalGMV           float64       `json:"total_gmv"`
	TotalFunded        float64       `json:"total_funded"`
	TotalInvoices      int64         `json:"total_invoices"`
	TotalBoxes         int64         `json:"total_boxes"`
	AvgDaysOutstanding *float64      `json:"avg_days_outstanding"`
	AvgCashDrag        *float64      `json:"avg_cash_drag"`
	Period             SummaryPeriod `json:"period"`
	DataPoints         int           `json:"data_points"`
}
