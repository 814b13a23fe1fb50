package transcode

import (
	"slices"

	"converti/internal/formats"
)

var codecFlags = map[string][]string{
	"mp3": {"-vn", "-acodec", "libmp3lame", "-q:a", "2"},
	"mp4": {"-vcodec", "libx264", "-acodec", "aac"},
}

// CodecFlags returns the ffmpeg flags for token. explicit is false when the
// token has no mapping and ffmpeg is left to infer codecs.
func CodecFlags(token string) (flags []string, explicit bool) {
	flags, explicit = codecFlags[token]
	return slices.Clone(flags), explicit
}

// BuildArgs assembles the ffmpeg argument list for one conversion.
func BuildArgs(inputPath, outputPath string, spec formats.OutputSpec) []string {
	flags, _ := CodecFlags(spec.Token)
	if spec.AudioOnly && !slices.Contains(flags, "-vn") {
		flags = append([]string{"-vn"}, flags...)
	}
	args := make([]string, 0, len(flags)+4)
	args = append(args, "-y", "-i", inputPath)
	args = append(args, flags...)
	return append(args, outputPath)
}
