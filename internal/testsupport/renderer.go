// Package testsupport provides fakes and fixtures shared by package tests.
package testsupport

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/MalithGihan/costudi-service/internal/render"
)

// FakeRenderer mimics render.LibreOffice without a child process. Output is
// keyed by input suffix (".docx"); Default is used for anything else. An
// entry in Errors makes the render fail for that suffix.
type FakeRenderer struct {
	Default []byte
	Outputs map[string][]byte
	Errors  map[string]error
	// Err fails every render when set.
	Err error

	mu    sync.Mutex
	calls []string
}

func (f *FakeRenderer) Render(_ context.Context, ws render.Workspace, inputPath string, target render.Target) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, filepath.Base(inputPath))
	f.mu.Unlock()

	if f.Err != nil {
		return "", f.Err
	}
	ext := strings.ToLower(filepath.Ext(inputPath))
	if err, ok := f.Errors[ext]; ok {
		return "", err
	}
	out, ok := f.Outputs[ext]
	if !ok {
		out = f.Default
	}

	dir, err := ws.TempDir()
	if err != nil {
		return "", err
	}
	base := filepath.Base(inputPath)
	path := filepath.Join(dir, strings.TrimSuffix(base, filepath.Ext(base))+"."+target.Ext)
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// Calls lists the base names of every input passed to Render.
func (f *FakeRenderer) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}
