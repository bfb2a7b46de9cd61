package ingest

import (
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/MalithGihan/costudi-service/pkg/types"
)

// Classify picks the conversion path from the filename suffix.
// Anything unrecognised is assumed to already be a PDF.
func Classify(name string) types.Kind {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".docx", ".pptx", ".doc", ".ppt":
		return types.OfficeDocument
	case ".png", ".jpg", ".jpeg", ".webp":
		return types.RasterImage
	default:
		return types.PdfDocument
	}
}

// ReadUploads reads every file header into memory, keeping form order.
func ReadUploads(fhs []*multipart.FileHeader) ([]types.UploadItem, error) {
	items := make([]types.UploadItem, 0, len(fhs))
	for _, fh := range fhs {
		item, err := ReadUpload(fh)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func ReadUpload(fh *multipart.FileHeader) (types.UploadItem, error) {
	src, err := fh.Open()
	if err != nil {
		return types.UploadItem{}, types.Fail(types.IOFailure, fmt.Sprintf("open upload %s", fh.Filename), err)
	}
	defer src.Close()
	b, err := io.ReadAll(src)
	if err != nil {
		return types.UploadItem{}, types.Fail(types.IOFailure, fmt.Sprintf("read upload %s", fh.Filename), err)
	}
	return types.UploadItem{Filename: fh.Filename, Data: b}, nil
}
