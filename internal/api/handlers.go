package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/MalithGihan/costudi-service/internal/convert"
	"github.com/MalithGihan/costudi-service/internal/imaging"
	"github.com/MalithGihan/costudi-service/internal/ingest"
	"github.com/MalithGihan/costudi-service/internal/merge"
	"github.com/MalithGihan/costudi-service/internal/pdf"
	"github.com/MalithGihan/costudi-service/internal/store"
	"github.com/MalithGihan/costudi-service/pkg/types"
)

const docxMediaType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

type Handler struct {
	conv      *convert.Converter
	merger    *merge.Pipeline
	fs        *store.FS
	maxUpload int64
	log       *zap.Logger
}

func NewHandler(conv *convert.Converter, merger *merge.Pipeline, fs *store.FS, maxUpload int64, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{conv: conv, merger: merger, fs: fs, maxUpload: maxUpload, log: log.Named("api")}
}

func (h *Handler) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, statusBody{Status: "ok", Message: "CoStudi Backend is Active!"})
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, statusBody{Status: "ok", Message: "CoStudi is healthy"})
}

// ImageProcess re-encodes an image, optionally downscaled.
func (h *Handler) ImageProcess(w http.ResponseWriter, r *http.Request) {
	done, err := h.parseForm(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	defer done()

	item, err := formFile(r, "file")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	name := strings.ToLower(strings.TrimSpace(formValue(r, "format", "png")))
	format, err := imaging.ParseFormat(name)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	quality, err := strconv.Atoi(formValue(r, "quality", "100"))
	if err != nil {
		h.fail(w, r, types.Fail(types.InvalidInput, "quality", err))
		return
	}
	ratio, err := strconv.ParseFloat(formValue(r, "resize_ratio", "1.0"), 64)
	if err != nil {
		h.fail(w, r, types.Fail(types.InvalidInput, "resize_ratio", err))
		return
	}

	out, err := convert.Transform(item.Data, convert.TransformOptions{Format: format, Quality: quality, ResizeRatio: ratio})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	mediaType := "image/" + name
	if format == imaging.PDF {
		mediaType = "application/pdf"
	}
	writeFile(w, "costudi_processed."+name, mediaType, out)
}

// PDFMerge combines PDFs, images and office documents in upload order.
func (h *Handler) PDFMerge(w http.ResponseWriter, r *http.Request) {
	done, err := h.parseForm(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	defer done()

	fhs := r.MultipartForm.File["files"]
	if len(fhs) == 0 {
		h.fail(w, r, types.Failf(types.InvalidInput, "missing file field %q", "files"))
		return
	}
	items, err := ingest.ReadUploads(fhs)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out, err := h.merger.Merge(r.Context(), items)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeFile(w, "costudi_merged.pdf", "application/pdf", out)
}

// PDFExtract copies the selected zero-based pages into a new document.
func (h *Handler) PDFExtract(w http.ResponseWriter, r *http.Request) {
	done, err := h.parseForm(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	defer done()

	item, err := formFile(r, "file")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	n, err := pdf.PageCount(item.Data)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out, err := pdf.Collect(item.Data, parsePageList(r.FormValue("selected_pages"), n))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeFile(w, "costudi_extracted.pdf", "application/pdf", out)
}

// OfficeToPDF renders one office document. A missing renderer is an error
// here, unlike in a merge.
func (h *Handler) OfficeToPDF(w http.ResponseWriter, r *http.Request) {
	done, err := h.parseForm(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	defer done()

	item, err := formFile(r, "file")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	sc := h.fs.NewScope()
	defer sc.Release()
	out, err := h.conv.OfficeToPDF(r.Context(), sc, item)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeFile(w, item.Filename+".pdf", "application/pdf", out)
}

func (h *Handler) PDFToDOCX(w http.ResponseWriter, r *http.Request) {
	done, err := h.parseForm(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	defer done()

	item, err := formFile(r, "file")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	sc := h.fs.NewScope()
	defer sc.Release()
	out, err := h.conv.PDFToDOCX(r.Context(), sc, item.Data)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeFile(w, "converted.docx", docxMediaType, out)
}

// parseForm reads the multipart body. The returned func drops any spill
// files net/http created for it.
func (h *Handler) parseForm(w http.ResponseWriter, r *http.Request) (func(), error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
		return nil, types.Fail(types.InvalidInput, "parse upload", err)
	}
	return func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			h.log.Warn("multipart cleanup failed", zap.Error(err))
		}
	}, nil
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.log.Error("request failed",
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.String("path", r.URL.Path),
		zap.Stringer("kind", types.KindOf(err)),
		zap.Error(err),
	)
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error()})
}

func formFile(r *http.Request, field string) (types.UploadItem, error) {
	fhs := r.MultipartForm.File[field]
	if len(fhs) == 0 {
		return types.UploadItem{}, types.Failf(types.InvalidInput, "missing file field %q", field)
	}
	return ingest.ReadUpload(fhs[0])
}

func formValue(r *http.Request, key, def string) string {
	if v := r.FormValue(key); v != "" {
		return v
	}
	return def
}

// parsePageList keeps the all-digit tokens of a comma separated list that
// are below pageCount, in their given order and with repeats.
func parsePageList(s string, pageCount int) []int {
	var out []int
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" || strings.TrimLeft(tok, "0123456789") != "" {
			continue
		}
		i, err := strconv.Atoi(tok)
		if err != nil || i >= pageCount {
			continue
		}
		out = append(out, i)
	}
	return out
}
