// Package notifications delivers conversion events via pluggable notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and degrades to a no-op when no topic is set. Success and
// failure messages can be switched off independently.
package notifications
