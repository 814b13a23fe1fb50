// Package dispatch routes a conversion request to the engine that owns its
// category: images to imageconv, video and audio to transcode, documents to
// document.
package dispatch
