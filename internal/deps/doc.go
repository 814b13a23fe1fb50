// Package deps finds and launches the external tools converti relies on.
//
// ffmpeg and ffprobe ship next to the converti executable, so Locator
// resolves them relative to the install directory (or an explicit tools
// directory) and never consults PATH or the working directory. Command wraps
// exec.CommandContext so no console window flashes up on Windows when a tool
// runs. Locator.Status feeds the doctor command.
package deps
