package merge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/MalithGihan/costudi-service/internal/convert"
	"github.com/MalithGihan/costudi-service/internal/testsupport"
	"github.com/MalithGihan/costudi-service/pkg/types"
)

func TestMergeMixedBatchKeepsOrder(t *testing.T) {
	fs := testsupport.Scratch(t)
	fake := &testsupport.FakeRenderer{Default: testsupport.PDF(t, 300)}
	p := New(convert.New(fake, nil), fs, zap.NewNop())

	out, err := p.Merge(context.Background(), []types.UploadItem{
		{Filename: "a.pdf", Data: testsupport.PDF(t, 100, 110)},
		{Filename: "b.png", Data: testsupport.PNG(t, 200, 50, 255)},
		{Filename: "c.docx", Data: []byte("docx")},
	})
	require.NoError(t, err)
	assert.Equal(t, []int{100, 110, 200, 300}, testsupport.PageWidths(t, out))
	testsupport.RequireEmpty(t, fs.Root)
}

func TestMergeSkipsUnavailableRenderer(t *testing.T) {
	fs := testsupport.Scratch(t)
	fake := &testsupport.FakeRenderer{Err: types.Fail(types.RendererUnavailable, "renderer not found", nil)}
	core, logs := observer.New(zap.WarnLevel)
	p := New(convert.New(fake, nil), fs, zap.New(core))

	out, err := p.Merge(context.Background(), []types.UploadItem{
		{Filename: "a.pdf", Data: testsupport.PDF(t, 120)},
		{Filename: "b.docx", Data: []byte("docx")},
	})
	require.NoError(t, err)
	assert.Equal(t, []int{120}, testsupport.PageWidths(t, out))
	assert.Equal(t, 1, logs.FilterMessage("renderer unavailable, skipping item").Len())
	testsupport.RequireEmpty(t, fs.Root)
}

func TestMergeAbortsOnRenderFailure(t *testing.T) {
	fs := testsupport.Scratch(t)
	fake := &testsupport.FakeRenderer{
		Default: testsupport.PDF(t, 90),
		Errors: map[string]error{
			".pptx": &types.Failure{Kind: types.RenderFailed, Op: "render deck.pptx", Diagnostics: "general input/output error"},
		},
	}
	p := New(convert.New(fake, nil), fs, nil)

	out, err := p.Merge(context.Background(), []types.UploadItem{
		{Filename: "a.docx", Data: []byte("docx")},
		{Filename: "deck.pptx", Data: []byte("pptx")},
		{Filename: "c.pdf", Data: testsupport.PDF(t, 10)},
	})
	require.Error(t, err)
	assert.Nil(t, out)
	assert.Equal(t, types.RenderFailed, types.KindOf(err))
	assert.Contains(t, err.Error(), "item 2 (deck.pptx)")
	assert.Contains(t, err.Error(), "general input/output error")
	// the first docx was rendered before the abort; its artifacts are gone too
	assert.Len(t, fake.Calls(), 2)
	testsupport.RequireEmpty(t, fs.Root)
}

func TestMergeAbortsOnDecodeFailure(t *testing.T) {
	fs := testsupport.Scratch(t)
	p := New(convert.New(&testsupport.FakeRenderer{}, nil), fs, nil)

	_, err := p.Merge(context.Background(), []types.UploadItem{
		{Filename: "a.pdf", Data: testsupport.PDF(t, 10)},
		{Filename: "broken.jpg", Data: []byte("\xff\xd8 not really")},
	})
	require.Error(t, err)
	assert.Equal(t, types.DecodeFailure, types.KindOf(err))
	testsupport.RequireEmpty(t, fs.Root)
}

func TestMergeInvalidPDFAborts(t *testing.T) {
	fs := testsupport.Scratch(t)
	p := New(convert.New(&testsupport.FakeRenderer{}, nil), fs, nil)

	_, err := p.Merge(context.Background(), []types.UploadItem{
		{Filename: "a.pdf", Data: testsupport.PDF(t, 10)},
		{Filename: "notes.txt", Data: []byte("plain text assumed to be pdf")},
	})
	require.Error(t, err)
	assert.Equal(t, types.DecodeFailure, types.KindOf(err))
}

func TestMergeNothingConvertible(t *testing.T) {
	fs := testsupport.Scratch(t)
	fake := &testsupport.FakeRenderer{Err: types.Fail(types.RendererUnavailable, "renderer not found", nil)}
	p := New(convert.New(fake, nil), fs, nil)

	_, err := p.Merge(context.Background(), []types.UploadItem{{Filename: "only.doc", Data: []byte("doc")}})
	require.Error(t, err)
	assert.Equal(t, types.InvalidInput, types.KindOf(err))
	testsupport.RequireEmpty(t, fs.Root)

	_, err = p.Merge(context.Background(), nil)
	assert.Equal(t, types.InvalidInput, types.KindOf(err))
}

func TestMergeImagesContributeOnePageEach(t *testing.T) {
	fs := testsupport.Scratch(t)
	p := New(convert.New(&testsupport.FakeRenderer{}, nil), fs, nil)

	out, err := p.Merge(context.Background(), []types.UploadItem{
		{Filename: "1.png", Data: testsupport.PNG(t, 40, 40, 0)},
		{Filename: "2.jpeg", Data: testsupport.JPEG(t, 41, 40)},
		{Filename: "3.PNG", Data: testsupport.PNG(t, 42, 40, 255)},
	})
	require.NoError(t, err)
	assert.Equal(t, []int{40, 41, 42}, testsupport.PageWidths(t, out))
}
