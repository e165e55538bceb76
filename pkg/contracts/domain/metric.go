package domain

// MetricKey is the canonical lowercase underscore-separated identifier for a
// KPI row, e.g. "gmv" or "avg_days_outstanding".
type MetricKey string

// Canonical metric keys produced by the name standardizer. Derived metric
// keys added by the calculator are declared alongside the calculator.
const (
	MetricGMV                     MetricKey = "gmv"
	MetricFundedAmount            MetricKey = "funded_amount"
	MetricAvgDaysOutstanding      MetricKey = "avg_days_outstanding"
	MetricNumInvoices             MetricKey = "num_invoices"
	MetricNumBoxes                MetricKey = "num_boxes"
	MetricGMVInsuredPct           MetricKey = "gmv_insured_pct"
	MetricArrangementFees         MetricKey = "arrangement_fees"
	MetricLogisticFees            MetricKey = "logistic_fees"
	MetricLogisticCosts           MetricKey = "logistic_costs"
	MetricCargoInsuranceFees      MetricKey = "cargo_insurance_fees"
	MetricCargoInsuranceCosts     MetricKey = "cargo_insurance_costs"
	MetricAccruedInterests        MetricKey = "accrued_interests"
	MetricCostOfFundsAccrued      MetricKey = "cost_of_funds_accrued"
	MetricDocsManagementFees      MetricKey = "docs_management_fees"
	MetricCostsDocsDelivery       MetricKey = "costs_docs_delivery"
	MetricHandlingWarehouseFees   MetricKey = "handling_warehouse_fees"
	MetricHandlingWarehouseCosts  MetricKey = "handling_warehouse_costs"
	MetricAvgPortfolioOutstanding MetricKey = "avg_portfolio_outstanding"
	MetricCashDrag                MetricKey = "cash_drag"
	MetricUSDEURRate              MetricKey = "usd_eur_rate_eom"
)

// LongRecord is one (period, metric, value) observation in long format.
// OriginalLabel keeps the pre-standardization metric label for traceability.
type LongRecord struct {
	Period        Period    `json:"period"`
	Metric        MetricKey `json:"metric"`
	OriginalLabel string    `json:"original_metric"`
	Value         Value     `json:"value"`
}
