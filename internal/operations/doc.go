// Package operations orchestrates one pipeline run as an explicit state
// machine: load, clean, enrich, summarize, export. Each stage requires its
// predecessor's state and fails with a precondition error when called out of
// order; reloading the source invalidates everything downstream. Stages are
// traced with one span each and recorded on the run state for reporting.
package operations
