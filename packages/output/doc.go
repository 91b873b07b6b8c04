// Package output renders responses and run results.
//
// Supported output formats:
//   - Console: human-readable colored terminal output
//   - JSON: machine-readable run report
//
// JSONFormatter accumulates results and writes them on Flush.
package output
