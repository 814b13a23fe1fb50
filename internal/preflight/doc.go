// Package preflight provides readiness checks for the tools and directories
// converti depends on.
//
// The CLI "converti doctor" command renders these results. Tool checks use
// the same locator the engines use, so a passing ffmpeg check means video and
// audio conversions will find the binary.
package preflight
