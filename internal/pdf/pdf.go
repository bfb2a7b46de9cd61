// Package pdf wraps pdfcpu for the page level operations the gateway needs:
// merging documents, collecting pages, counting pages and turning images
// into pages.
package pdf

import (
	"bytes"
	"image"
	"image/png"
	"io"
	"strconv"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	ctypes "github.com/MalithGihan/costudi-service/pkg/types"
)

var disableConfigDir sync.Once

func newConfig() *model.Configuration {
	// pdfcpu would otherwise create a config dir under $HOME.
	disableConfigDir.Do(api.DisableConfigDir)
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// PageCount returns the number of pages in data.
func PageCount(data []byte) (int, error) {
	n, err := api.PageCount(bytes.NewReader(data), newConfig())
	if err != nil {
		return 0, ctypes.Fail(ctypes.DecodeFailure, "read pdf", err)
	}
	return n, nil
}

// Merge concatenates docs in order into a single document.
func Merge(docs [][]byte) ([]byte, error) {
	if len(docs) == 0 {
		return nil, ctypes.Failf(ctypes.InvalidInput, "no convertible documents")
	}
	rsc := make([]io.ReadSeeker, len(docs))
	for i, d := range docs {
		rsc[i] = bytes.NewReader(d)
	}
	var buf bytes.Buffer
	if err := api.MergeRaw(rsc, &buf, false, newConfig()); err != nil {
		return nil, ctypes.Fail(ctypes.DecodeFailure, "merge pdf", err)
	}
	return buf.Bytes(), nil
}

// Collect builds a new document from the zero-based page indices, in the
// given order. Indices must be in range; repeats are allowed.
func Collect(data []byte, indices []int) ([]byte, error) {
	if len(indices) == 0 {
		return nil, ctypes.Failf(ctypes.InvalidInput, "no valid pages selected")
	}
	sel := make([]string, len(indices))
	for i, idx := range indices {
		sel[i] = strconv.Itoa(idx + 1)
	}
	var buf bytes.Buffer
	if err := api.Collect(bytes.NewReader(data), &buf, sel, newConfig()); err != nil {
		return nil, ctypes.Fail(ctypes.DecodeFailure, "collect pages", err)
	}
	return buf.Bytes(), nil
}

// FromImages renders each image as one page sized to its pixel dimensions.
// Images should already be opaque; see imaging.Flatten.
func FromImages(imgs ...image.Image) ([]byte, error) {
	readers := make([]io.Reader, 0, len(imgs))
	for _, img := range imgs {
		var b bytes.Buffer
		if err := png.Encode(&b, img); err != nil {
			return nil, ctypes.Fail(ctypes.IOFailure, "encode page image", err)
		}
		readers = append(readers, &b)
	}
	return importImages(readers)
}

// FromEncoded is FromImages for data already in a format pdfcpu embeds
// directly (JPEG, PNG).
func FromEncoded(data []byte) ([]byte, error) {
	return importImages([]io.Reader{bytes.NewReader(data)})
}

func importImages(readers []io.Reader) ([]byte, error) {
	if len(readers) == 0 {
		return nil, ctypes.Failf(ctypes.InvalidInput, "no images to import")
	}
	imp := pdfcpu.DefaultImportConfig()
	imp.Pos = types.Full
	var buf bytes.Buffer
	if err := api.ImportImages(nil, &buf, readers, imp, newConfig()); err != nil {
		return nil, ctypes.Fail(ctypes.DecodeFailure, "import image", err)
	}
	return buf.Bytes(), nil
}

// PageDims returns each page's media box size in points.
func PageDims(data []byte) ([]types.Dim, error) {
	dims, err := api.PageDims(bytes.NewReader(data), newConfig())
	if err != nil {
		return nil, ctypes.Fail(ctypes.DecodeFailure, "read page sizes", err)
	}
	return dims, nil
}
