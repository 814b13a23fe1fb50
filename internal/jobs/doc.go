// Package jobs runs one conversion at a time off the caller's goroutine.
//
// A Runner owns its state inside Run. Callers submit jobs with Submit and
// observe progress on Events: every job yields EventStarted, then exactly one
// of EventSucceeded or EventFailed, then EventIdle with controls re-enabled.
// Engines run on a worker goroutine that reports back through a channel and
// never touches runner state.
package jobs
