package dataprocessing

import (
	"strings"

	"kpicli/pkg/contracts/domain"
)

// metricNameMap maps the known human-readable labels from the source sheet
// to canonical metric keys. Labels not in this table go through the
// deterministic fallback in StandardizeMetricName.
var metricNameMap = map[string]domain.MetricKey{
	"GMV":                                   domain.MetricGMV,
	"Funded Amount":                         domain.MetricFundedAmount,
	"Avg Days Outstanding":                  domain.MetricAvgDaysOutstanding,
	"# Invoices":                            domain.MetricNumInvoices,
	"# Boxes":                               domain.MetricNumBoxes,
	"% GMV Insured":                         domain.MetricGMVInsuredPct,
	"Arrangement Fees":                      domain.MetricArrangementFees,
	"Logistic Fees":                         domain.MetricLogisticFees,
	"Logistic Costs":                        domain.MetricLogisticCosts,
	"Cargo Insurance Fees":                  domain.MetricCargoInsuranceFees,
	"Cargo Insurance Costs":                 domain.MetricCargoInsuranceCosts,
	"Accrued Interests":                     domain.MetricAccruedInterests,
	"Cost of Funds (Accrued)":               domain.MetricCostOfFundsAccrued,
	"Docs Management Fees":                  domain.MetricDocsManagementFees,
	"Costs of Docs Delivery":                domain.MetricCostsDocsDelivery,
	"Handling & Warehouse Destination Fees": domain.MetricHandlingWarehouseFees,
	"Handling & Warehouse Destination Costs": domain.MetricHandlingWarehouseCosts,
	"Avg Portfolio Outstanding":              domain.MetricAvgPortfolioOutstanding,
	"Cash Drag":                              domain.MetricCashDrag,
	"USD to EUR historical Rates (EoM)":      domain.MetricUSDEURRate,
}

// StandardizeMetricName maps a raw metric label to its canonical key.
// Known labels use the fixed table; unknown labels fall back to lowercasing,
// replacing spaces with underscores and "#" with "num". The fallback is a
// pure function, so the same unknown label always yields the same key.
func StandardizeMetricName(label string) domain.MetricKey {
	trimmed := strings.TrimSpace(label)
	if key, ok := metricNameMap[trimmed]; ok {
		return key
	}

	fallback := strings.ToLower(trimmed)
	fallback = strings.ReplaceAll(fallback, " ", "_")
	fallback = strings.ReplaceAll(fallback, "#", "num")
	return domain.MetricKey(fallback)
}

// KnownMetricLabels returns the labels covered by the fixed mapping table.
func KnownMetricLabels() []string {
	labels := make([]string, 0, len(metricNameMap))
	for label := range metricNameMap {
		labels = append(labels, label)
	}
	return labels
}
