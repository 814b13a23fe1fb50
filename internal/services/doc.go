// Package services defines shared utilities consumed by the conversion engines
// and the job runner.
//
// Key responsibilities:
//   - Context helpers that stamp job IDs, engine stages, categories, and
//     correlation identifiers for logging.
//   - Structured error markers plus the Wrap helper so every engine failure
//     can be classified with errors.Is and reported with a stable Kind.
//   - ExternalToolError, which carries the exit code of a failed child process.
//
// Engines should return errors built from these markers so the runner can
// turn any failure into a uniform status without inspecting message text.
package services
