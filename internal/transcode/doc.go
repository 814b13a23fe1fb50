// Package transcode converts audio and video by running the ffmpeg binary
// bundled next to converti.
//
// The command line is always `ffmpeg -y -i <input> [codec flags] <output>`.
// Only mp3 and mp4 carry explicit codec flags; every other target lets ffmpeg
// pick codecs from the output extension.
package transcode
