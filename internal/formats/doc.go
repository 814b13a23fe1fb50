// Package formats owns the format registry that drives every conversion.
//
// The registry maps each category (image, video, audio, document) to the
// input extensions it accepts and the ordered output menu it offers. It is
// built once at startup, validated, and then passed by value to the
// classifier, the dispatcher, and the presentation layers; nothing in the
// package keeps mutable global state.
//
// Output labels may carry an annotation ("mp3 (Audio)"). ParseLabel turns a
// label into the canonical token engines work with, and ConvertedPath derives
// the deterministic sibling output path for a token.
package formats
