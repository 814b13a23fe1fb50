// Package imageconv converts still images between raster formats.
//
// Decoding covers jpeg, png, gif, bmp, tiff, webp and ico. Encoding covers the
// same set except webp, which is handed to an external encoder (the bundled
// ffmpeg) when one is configured, plus single-page pdf output. Targets without
// an alpha channel are flattened onto white first.
package imageconv
