// Package config loads, normalizes, and validates converti configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// CONVERTI_TOOLS_DIR. The Config type centralizes every knob the CLI and the
// desktop window need: where the bundled tools live, how outputs are named,
// whether history is kept, and where logs go.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
