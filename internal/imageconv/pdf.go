package imageconv

import (
	"bytes"
	"image"
	"image/jpeg"
	"io"

	"github.com/jung-kurt/gofpdf"
)

const pdfImageName = "page"

// encodePDF writes a single page sized to the image, with the image embedded
// as JPEG at 72 dpi.
func encodePDF(w io.Writer, img image.Image, quality int) error {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return err
	}

	width := float64(img.Bounds().Dx())
	height := float64(img.Bounds().Dy())
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: width, Ht: height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	opts := gofpdf.ImageOptions{ImageType: "JPG"}
	pdf.RegisterImageOptionsReader(pdfImageName, opts, &buf)
	pdf.ImageOptions(pdfImageName, 0, 0, width, height, false, opts, 0, "")
	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}
