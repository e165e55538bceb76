// Package exporter writes the pipeline's output artifacts: the dashboard
// JSON document consumed by the front end, the processed flat CSV (one row
// per period, one column per metric) and the converted wide CSV that mirrors
// the source orientation. Missing values serialize as JSON null and as empty
// CSV cells, never as zero.
package exporter
