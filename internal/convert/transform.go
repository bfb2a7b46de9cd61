package convert

import (
	"github.com/MalithGihan/costudi-service/internal/imaging"
	"github.com/MalithGihan/costudi-service/internal/pdf"
)

type TransformOptions struct {
	Format      imaging.Format
	Quality     int     // JPEG only
	ResizeRatio float64 // < 1 downscales, anything else keeps the size
}

// Transform re-encodes an image, optionally downscaling it first. JPEG and
// PDF targets cannot carry transparency so the image is flattened for them.
func Transform(data []byte, opt TransformOptions) ([]byte, error) {
	img, _, err := imaging.Decode(data)
	if err != nil {
		return nil, err
	}
	if opt.Format == imaging.JPEG || opt.Format == imaging.PDF {
		img = imaging.Flatten(img)
	}
	img, err = imaging.Resize(img, opt.ResizeRatio)
	if err != nil {
		return nil, err
	}
	if opt.Format == imaging.PDF {
		return pdf.FromImages(img)
	}
	return imaging.Encode(img, opt.Format, opt.Quality)
}
