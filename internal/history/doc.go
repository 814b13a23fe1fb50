// Package history persists finished conversions in a SQLite database under
// the data directory so the CLI can list recent jobs.
package history
