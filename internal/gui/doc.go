// Package gui is the desktop front end: a single fyne window with a native
// file picker, an output menu and a convert button. All conversion work goes
// through a jobs.Runner; the window only renders its events.
package gui
