// Package convert turns a single upload into PDF bytes, dispatching on the
// classified kind of the file.
package convert

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/MalithGihan/costudi-service/internal/imaging"
	"github.com/MalithGihan/costudi-service/internal/ingest"
	"github.com/MalithGihan/costudi-service/internal/pdf"
	"github.com/MalithGihan/costudi-service/internal/render"
	"github.com/MalithGihan/costudi-service/internal/store"
	"github.com/MalithGihan/costudi-service/pkg/types"
)

// Renderer is the office suite behind render.LibreOffice.
type Renderer interface {
	Render(ctx context.Context, ws render.Workspace, inputPath string, target render.Target) (string, error)
}

type Converter struct {
	renderer Renderer
	log      *zap.Logger
}

func New(r Renderer, log *zap.Logger) *Converter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Converter{renderer: r, log: log.Named("convert")}
}

// ToPDF converts item into a PDF byte stream. Renderer failures are returned
// as typed failures; deciding whether to skip an item is up to the caller.
func (c *Converter) ToPDF(ctx context.Context, sc *store.Scope, item types.UploadItem) ([]byte, error) {
	kind := ingest.Classify(item.Filename)
	c.log.Debug("converting item", zap.String("file", item.Filename), zap.Stringer("kind", kind))
	switch kind {
	case types.OfficeDocument:
		return c.OfficeToPDF(ctx, sc, item)
	case types.RasterImage:
		return ImageToPDF(item.Data)
	default:
		return item.Data, nil
	}
}

// OfficeToPDF renders an office document. The input copy, the output
// directory and the rendered file are all tracked by sc.
func (c *Converter) OfficeToPDF(ctx context.Context, sc *store.Scope, item types.UploadItem) ([]byte, error) {
	return c.renderBytes(ctx, sc, filepath.Ext(item.Filename), item.Data, render.PDF)
}

// PDFToDOCX reconstructs an editable Word document from the whole of a PDF.
func (c *Converter) PDFToDOCX(ctx context.Context, sc *store.Scope, data []byte) ([]byte, error) {
	return c.renderBytes(ctx, sc, ".pdf", data, render.DOCX)
}

func (c *Converter) renderBytes(ctx context.Context, sc *store.Scope, suffix string, data []byte, target render.Target) ([]byte, error) {
	in, err := sc.TempFile(suffix, data)
	if err != nil {
		return nil, err
	}
	out, err := c.renderer.Render(ctx, sc, in, target)
	if err != nil {
		return nil, err
	}
	sc.Track(out)
	b, err := os.ReadFile(out)
	if err != nil {
		return nil, types.Fail(types.IOFailure, "read rendered "+target.Ext, err)
	}
	return b, nil
}

// ImageToPDF embeds a raster image as a single page. Transparent images are
// flattened first.
func ImageToPDF(data []byte) ([]byte, error) {
	img, format, err := imaging.Decode(data)
	if err != nil {
		return nil, err
	}
	if format == "jpeg" {
		return pdf.FromEncoded(data)
	}
	return pdf.FromImages(imaging.Flatten(img))
}
