// Package merge combines a heterogeneous batch of uploads into one PDF.
package merge

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/MalithGihan/costudi-service/internal/pdf"
	"github.com/MalithGihan/costudi-service/internal/store"
	"github.com/MalithGihan/costudi-service/pkg/types"
)

// ItemConverter is satisfied by *convert.Converter.
type ItemConverter interface {
	ToPDF(ctx context.Context, sc *store.Scope, item types.UploadItem) ([]byte, error)
}

type Pipeline struct {
	conv ItemConverter
	fs   *store.FS
	log  *zap.Logger
}

func New(conv ItemConverter, fs *store.FS, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{conv: conv, fs: fs, log: log.Named("merge")}
}

// Merge converts items in order and concatenates their pages.
//
// An item whose renderer is unavailable is skipped. Any other failure
// aborts the batch and nothing is returned. Every intermediate artifact is
// released before Merge returns.
func (p *Pipeline) Merge(ctx context.Context, items []types.UploadItem) ([]byte, error) {
	sc := p.fs.NewScope()
	defer sc.Release()
	log := p.log.With(zap.String("scope", sc.ID), zap.Int("items", len(items)))

	docs := make([][]byte, 0, len(items))
	skipped := 0
	for i, item := range items {
		b, err := p.conv.ToPDF(ctx, sc, item)
		if err != nil {
			if types.KindOf(err) == types.RendererUnavailable {
				log.Warn("renderer unavailable, skipping item", zap.Int("index", i), zap.String("file", item.Filename))
				skipped++
				continue
			}
			log.Error("merge aborted", zap.Int("index", i), zap.String("file", item.Filename), zap.Error(err))
			return nil, fmt.Errorf("item %d (%s): %w", i+1, item.Filename, err)
		}
		docs = append(docs, b)
	}

	out, err := pdf.Merge(docs)
	if err != nil {
		log.Error("merge failed", zap.Int("skipped", skipped), zap.Error(err))
		return nil, err
	}
	log.Info("merged", zap.Int("documents", len(docs)), zap.Int("skipped", skipped), zap.Int("bytes", len(out)))
	return out, nil
}
