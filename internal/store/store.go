package store

import (
	"os"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MalithGihan/costudi-service/pkg/types"
)

// FS is the scratch root every request scope writes under.
type FS struct {
	Root string
	log  *zap.Logger
}

func New(root string, log *zap.Logger) (*FS, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &FS{Root: root, log: log.Named("store")}, nil
}

// Scope owns the intermediate artifacts of one request. Call Release
// (usually deferred) before the request returns.
type Scope struct {
	ID   string
	root string
	log  *zap.Logger

	mu        sync.Mutex
	artifacts []string
	released  bool
}

func (s *FS) NewScope() *Scope {
	id := uuid.NewString()
	return &Scope{
		ID:   id,
		root: s.Root,
		log:  s.log.With(zap.String("scope", id)),
	}
}

// TempFile writes data to a fresh file ending in suffix and tracks it.
func (sc *Scope) TempFile(suffix string, data []byte) (string, error) {
	f, err := os.CreateTemp(sc.root, sc.ID[:8]+"-*"+suffix)
	if err != nil {
		return "", types.Fail(types.IOFailure, "create temp file", err)
	}
	sc.Track(f.Name())
	if _, err := f.Write(data); err != nil {
		f.Close()
		return "", types.Fail(types.IOFailure, "write temp file", err)
	}
	if err := f.Close(); err != nil {
		return "", types.Fail(types.IOFailure, "close temp file", err)
	}
	return f.Name(), nil
}

// TempDir creates a fresh, exclusive directory and tracks it.
func (sc *Scope) TempDir() (string, error) {
	dir, err := os.MkdirTemp(sc.root, sc.ID[:8]+"-out-*")
	if err != nil {
		return "", types.Fail(types.IOFailure, "create temp dir", err)
	}
	sc.Track(dir)
	return dir, nil
}

// Track registers a path created elsewhere for release.
func (sc *Scope) Track(path string) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.artifacts = append(sc.artifacts, path)
}

// Artifacts returns the tracked paths in creation order.
func (sc *Scope) Artifacts() []string {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return append([]string(nil), sc.artifacts...)
}

// Release removes every tracked artifact, newest first. Failures are logged
// and never returned. Calling it twice is a no-op.
func (sc *Scope) Release() {
	sc.mu.Lock()
	paths := sc.artifacts
	sc.artifacts = nil
	already := sc.released
	sc.released = true
	sc.mu.Unlock()
	if already {
		return
	}

	for i := len(paths) - 1; i >= 0; i-- {
		p := paths[i]
		if err := os.RemoveAll(p); err != nil {
			sc.log.Warn("artifact release failed", zap.String("path", p), zap.Error(err))
		}
	}
	if len(paths) > 0 {
		sc.log.Debug("scope released", zap.Int("artifacts", len(paths)))
	}
}
