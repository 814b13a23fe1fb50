package imageconv

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
)

const (
	iconDirLen   = 6
	iconEntryLen = 16
	dibInfoLen   = 40
)

var (
	errNotIcon      = errors.New("ico: not an icon resource")
	errIconTooShort = errors.New("ico: entry points past end of file")
	pngSignature    = []byte("\x89PNG\r\n\x1a\n")
)

type iconEntry struct {
	width, height int
	bpp           int
	size, offset  uint32
}

// decodeICO returns the largest image stored in an icon resource. Entries may
// hold either an embedded PNG stream or a headerless BMP with an AND mask.
func decodeICO(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data) < iconDirLen {
		return nil, errNotIcon
	}
	le := binary.LittleEndian
	if le.Uint16(data[0:2]) != 0 || le.Uint16(data[2:4]) != 1 {
		return nil, errNotIcon
	}
	count := int(le.Uint16(data[4:6]))
	if count == 0 || len(data) < iconDirLen+count*iconEntryLen {
		return nil, errNotIcon
	}

	var best iconEntry
	for i := range count {
		raw := data[iconDirLen+i*iconEntryLen:]
		e := iconEntry{
			width:  dimension(raw[0]),
			height: dimension(raw[1]),
			bpp:    int(le.Uint16(raw[6:8])),
			size:   le.Uint32(raw[8:12]),
			offset: le.Uint32(raw[12:16]),
		}
		if e.width*e.height > best.width*best.height ||
			(e.width*e.height == best.width*best.height && e.bpp > best.bpp) {
			best = e
		}
	}
	end := uint64(best.offset) + uint64(best.size)
	if best.size == 0 || end > uint64(len(data)) {
		return nil, errIconTooShort
	}
	payload := data[best.offset:end]
	if bytes.HasPrefix(payload, pngSignature) {
		return png.Decode(bytes.NewReader(payload))
	}
	return decodeDIB(payload)
}

// dimension maps the single-byte size field, where 0 stands for 256.
func dimension(b byte) int {
	if b == 0 {
		return 256
	}
	return int(b)
}

// decodeDIB reads the bitmap flavour of an icon entry. The stored height
// covers both the color rows and the AND mask, so it is halved.
func decodeDIB(b []byte) (image.Image, error) {
	le := binary.LittleEndian
	if len(b) < dibInfoLen {
		return nil, errIconTooShort
	}
	headerLen := int(le.Uint32(b[0:4]))
	width := int(int32(le.Uint32(b[4:8])))
	height := int(int32(le.Uint32(b[8:12]))) / 2
	bpp := int(le.Uint16(b[14:16]))
	compression := le.Uint32(b[16:20])
	colorsUsed := int(le.Uint32(b[32:36]))
	if headerLen < dibInfoLen || width <= 0 || height <= 0 || compression != 0 {
		return nil, fmt.Errorf("ico: unsupported bitmap entry (%dx%d, compression %d)", width, height, compression)
	}

	pos := headerLen
	var palette color.Palette
	if bpp <= 8 {
		if colorsUsed == 0 {
			colorsUsed = 1 << bpp
		}
		if len(b) < pos+colorsUsed*4 {
			return nil, errIconTooShort
		}
		palette = make(color.Palette, colorsUsed)
		for i := range palette {
			p := b[pos+i*4:]
			palette[i] = color.NRGBA{R: p[2], G: p[1], B: p[0], A: 0xff}
		}
		pos += colorsUsed * 4
	}

	switch bpp {
	case 1, 4, 8, 24, 32:
	default:
		return nil, fmt.Errorf("ico: unsupported bit depth %d", bpp)
	}
	stride := rowStride(width, bpp)
	maskStride := rowStride(width, 1)
	if len(b) < pos+stride*height {
		return nil, errIconTooShort
	}
	mask := b[pos+stride*height:]
	hasMask := bpp != 32 && len(mask) >= maskStride*height

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for row := range height {
		// Rows are stored bottom-up.
		y := height - 1 - row
		line := b[pos+row*stride:]
		for x := range width {
			var c color.NRGBA
			switch bpp {
			case 32:
				c = color.NRGBA{R: line[x*4+2], G: line[x*4+1], B: line[x*4], A: line[x*4+3]}
			case 24:
				c = color.NRGBA{R: line[x*3+2], G: line[x*3+1], B: line[x*3], A: 0xff}
			default:
				idx := paletteIndex(line, x, bpp)
				if idx >= len(palette) {
					return nil, fmt.Errorf("ico: palette index %d out of range", idx)
				}
				c = palette[idx].(color.NRGBA)
			}
			if hasMask && mask[row*maskStride+x/8]&(0x80>>(x%8)) != 0 {
				c.A = 0
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img, nil
}

func rowStride(width, bpp int) int {
	return ((width*bpp + 31) / 32) * 4
}

func paletteIndex(line []byte, x, bpp int) int {
	perByte := 8 / bpp
	shift := uint(8 - bpp*(x%perByte+1))
	return int(line[x/perByte]>>shift) & (1<<bpp - 1)
}
