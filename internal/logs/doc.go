// Package logs reads converti's daily log files for the `converti logs`
// command.
//
// It locates the newest daily file, returns the last N lines with bounded
// memory, and follows a file as it grows. Follow polls on a ticker and stops
// when its context ends.
package logs
