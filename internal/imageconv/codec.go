package imageconv

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	ico "github.com/Kodeworks/golang-image-ico"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"

	"converti/internal/services"
)

// maxIconSide is the largest edge an ico entry can describe.
const maxIconSide = 256

type encodeFunc func(w io.Writer, img image.Image, quality int) error

var encoders = map[string]encodeFunc{
	"jpg":  encodeJPEG,
	"jpeg": encodeJPEG,
	"png": func(w io.Writer, img image.Image, _ int) error {
		return png.Encode(w, img)
	},
	"gif": func(w io.Writer, img image.Image, _ int) error {
		return gif.Encode(w, img, nil)
	},
	"bmp": func(w io.Writer, img image.Image, _ int) error {
		return bmp.Encode(w, img)
	},
	"tiff": func(w io.Writer, img image.Image, _ int) error {
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	},
	"ico": func(w io.Writer, img image.Image, _ int) error {
		return ico.Encode(w, fitIcon(img))
	},
	"pdf": encodePDF,
}

func encodeJPEG(w io.Writer, img image.Image, quality int) error {
	return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
}

type decodeFunc func(io.Reader) (image.Image, error)

var decoders = map[string]decodeFunc{
	".jpg":  jpeg.Decode,
	".jpeg": jpeg.Decode,
	".png":  png.Decode,
	".gif":  gif.Decode,
	".bmp":  bmp.Decode,
	".tiff": tiff.Decode,
	".tif":  tiff.Decode,
	".webp": webp.Decode,
	".ico":  decodeICO,
}

func decodeFile(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, "image", "open input", "", err)
	}
	defer file.Close()

	reader := bufio.NewReader(file)
	ext := strings.ToLower(filepath.Ext(path))
	var img image.Image
	if decode, ok := decoders[ext]; ok {
		img, err = decode(reader)
	} else {
		img, _, err = image.Decode(reader)
	}
	if err != nil {
		return nil, services.Wrap(services.ErrDecode, "image", "decode",
			fmt.Sprintf("%s is not a readable %s image", filepath.Base(path), strings.TrimPrefix(ext, ".")), err)
	}
	return img, nil
}

// flatten composites img over an opaque white canvas. Images that cannot carry
// transparency are returned unchanged.
func flatten(img image.Image) image.Image {
	switch img.(type) {
	case *image.YCbCr, *image.Gray, *image.Gray16, *image.CMYK:
		return img
	}
	bounds := img.Bounds()
	canvas := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(canvas, canvas.Bounds(), img, bounds.Min, draw.Over)
	return canvas
}

// fitIcon scales img down so neither side exceeds maxIconSide.
func fitIcon(img image.Image) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxIconSide && h <= maxIconSide {
		return img
	}
	if w >= h {
		h = max(1, h*maxIconSide/w)
		w = maxIconSide
	} else {
		w = max(1, w*maxIconSide/h)
		h = maxIconSide
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
