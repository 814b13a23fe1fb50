// Package main hosts the converti CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once, builds the conversion
// dispatcher and job runner from it, and exposes conversions, media
// inspection, tool diagnostics, history, and the desktop window. Conversion
// logic lives in the internal packages; commands here only wire and render.
package main
