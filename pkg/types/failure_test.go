package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFailureMessage(t *testing.T) {
	f := &Failure{Kind: RenderFailed, Op: "render report.docx", Err: errors.New("exit status 1"), Diagnostics: "Error: source file could not be loaded"}
	assert.Equal(t, "render report.docx: exit status 1: Error: source file could not be loaded", f.Error())

	assert.Equal(t, "renderer unavailable", Fail(RendererUnavailable, "", nil).Error())
	assert.Equal(t, "no pages: 3", Failf(InvalidInput, "no pages: %d", 3).Error())
}

func TestKindOfWrapped(t *testing.T) {
	base := Fail(DecodeFailure, "decode image", errors.New("bad header"))
	wrapped := fmt.Errorf("item 2 (b.png): %w", base)

	assert.Equal(t, DecodeFailure, KindOf(wrapped))
	assert.Equal(t, Unknown, KindOf(errors.New("plain")))
	assert.Equal(t, Unknown, KindOf(nil))
	assert.ErrorIs(t, wrapped, base)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "office", OfficeDocument.String())
	assert.Equal(t, "image", RasterImage.String())
	assert.Equal(t, "pdf", PdfDocument.String())
}
