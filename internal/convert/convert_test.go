package convert

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MalithGihan/costudi-service/internal/pdf"
	"github.com/MalithGihan/costudi-service/internal/testsupport"
	"github.com/MalithGihan/costudi-service/pkg/types"
)

func pages(t *testing.T, b []byte) int {
	t.Helper()
	n, err := pdf.PageCount(b)
	require.NoError(t, err)
	return n
}

func TestToPDFPassesPDFThrough(t *testing.T) {
	fs := testsupport.Scratch(t)
	sc := fs.NewScope()
	defer sc.Release()
	src := testsupport.PDF(t, 10, 20)
	fake := &testsupport.FakeRenderer{}

	out, err := New(fake, zap.NewNop()).ToPDF(context.Background(), sc, types.UploadItem{Filename: "a.PDF", Data: src})
	require.NoError(t, err)
	assert.Equal(t, src, out)
	assert.Empty(t, fake.Calls())
	assert.Empty(t, sc.Artifacts())
}

func TestToPDFImages(t *testing.T) {
	fs := testsupport.Scratch(t)
	sc := fs.NewScope()
	defer sc.Release()
	c := New(&testsupport.FakeRenderer{}, nil)

	for name, data := range map[string][]byte{
		"opaque.png":      testsupport.PNG(t, 12, 8, 255),
		"transparent.png": testsupport.PNG(t, 12, 8, 100),
		"photo.jpg":       testsupport.JPEG(t, 12, 8),
		"photo.JPEG":      testsupport.JPEG(t, 5, 5),
	} {
		out, err := c.ToPDF(context.Background(), sc, types.UploadItem{Filename: name, Data: data})
		require.NoError(t, err, name)
		assert.Equal(t, 1, pages(t, out), name)
	}
	assert.Empty(t, sc.Artifacts(), "images convert in memory")
}

func TestToPDFBadImage(t *testing.T) {
	fs := testsupport.Scratch(t)
	sc := fs.NewScope()
	defer sc.Release()

	_, err := New(&testsupport.FakeRenderer{}, nil).ToPDF(context.Background(), sc, types.UploadItem{Filename: "b.png", Data: []byte("junk")})
	require.Error(t, err)
	assert.Equal(t, types.DecodeFailure, types.KindOf(err))
}

func TestToPDFOffice(t *testing.T) {
	fs := testsupport.Scratch(t)
	sc := fs.NewScope()
	rendered := testsupport.PDF(t, 50)
	fake := &testsupport.FakeRenderer{Default: rendered}

	out, err := New(fake, nil).ToPDF(context.Background(), sc, types.UploadItem{Filename: "c.docx", Data: []byte("docx")})
	require.NoError(t, err)
	assert.Equal(t, rendered, out)
	require.Len(t, fake.Calls(), 1)
	assert.Contains(t, fake.Calls()[0], ".docx")
	// input copy, output dir, rendered file
	assert.Len(t, sc.Artifacts(), 3)

	sc.Release()
	testsupport.RequireEmpty(t, fs.Root)
}

func TestToPDFOfficeRendererFailureKinds(t *testing.T) {
	for _, kind := range []types.FailureKind{types.RendererUnavailable, types.RenderFailed, types.RenderOutputMissing} {
		fs := testsupport.Scratch(t)
		sc := fs.NewScope()
		fake := &testsupport.FakeRenderer{Err: types.Fail(kind, "fake", nil)}

		_, err := New(fake, nil).ToPDF(context.Background(), sc, types.UploadItem{Filename: "c.pptx", Data: []byte("x")})
		require.Error(t, err)
		assert.Equal(t, kind, types.KindOf(err))

		sc.Release()
		testsupport.RequireEmpty(t, fs.Root)
	}
}

func TestPDFToDOCX(t *testing.T) {
	fs := testsupport.Scratch(t)
	sc := fs.NewScope()
	fake := &testsupport.FakeRenderer{Default: []byte("PK docx")}

	out, err := New(fake, nil).PDFToDOCX(context.Background(), sc, testsupport.PDF(t, 10))
	require.NoError(t, err)
	assert.Equal(t, []byte("PK docx"), out)
	assert.Contains(t, fake.Calls()[0], ".pdf")

	sc.Release()
	testsupport.RequireEmpty(t, fs.Root)
}
