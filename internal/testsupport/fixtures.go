package testsupport

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MalithGihan/costudi-service/internal/pdf"
	"github.com/MalithGihan/costudi-service/internal/store"
)

// Image returns a w x h image with the given alpha on every pixel.
func Image(w, h int, alpha uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 200, A: alpha})
		}
	}
	return img
}

func PNG(t testing.TB, w, h int, alpha uint8) []byte {
	t.Helper()
	var b bytes.Buffer
	require.NoError(t, png.Encode(&b, Image(w, h, alpha)))
	return b.Bytes()
}

func JPEG(t testing.TB, w, h int) []byte {
	t.Helper()
	var b bytes.Buffer
	require.NoError(t, jpeg.Encode(&b, Image(w, h, 255), &jpeg.Options{Quality: 90}))
	return b.Bytes()
}

// PDF builds a document with one page per width; page i is widths[i]
// points wide so tests can check page order.
func PDF(t testing.TB, widths ...int) []byte {
	t.Helper()
	imgs := make([]image.Image, len(widths))
	for i, w := range widths {
		imgs[i] = Image(w, 30, 255)
	}
	b, err := pdf.FromImages(imgs...)
	require.NoError(t, err)
	return b
}

// Scratch returns a store rooted in a fresh temp dir.
func Scratch(t testing.TB) *store.FS {
	t.Helper()
	fs, err := store.New(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	return fs
}

// RequireEmpty fails unless dir has no entries.
func RequireEmpty(t testing.TB, dir string) {
	t.Helper()
	es, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, len(es))
	for i, e := range es {
		names[i] = e.Name()
	}
	require.Empty(t, names, "leftover artifacts in %s", dir)
}

// PageWidths lists page widths rounded to whole points.
func PageWidths(t testing.TB, doc []byte) []int {
	t.Helper()
	dims, err := pdf.PageDims(doc)
	require.NoError(t, err)
	out := make([]int, len(dims))
	for i, d := range dims {
		out[i] = int(d.Width + 0.5)
	}
	return out
}
