// Package ffprobe inspects media files with the ffprobe binary bundled next to
// converti and decodes its JSON report.
//
// Prober resolves the binary through deps.Locator, so a missing ffprobe is
// reported as services.ErrToolNotFound rather than picked up from PATH.
package ffprobe
