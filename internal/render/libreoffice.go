// Package render runs the external office suite that turns documents into
// PDF (and PDFs back into Word documents).
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/MalithGihan/costudi-service/pkg/types"
)

const (
	darwinPath     = "/Applications/LibreOffice.app/Contents/MacOS/soffice"
	defaultCommand = "libreoffice"

	DefaultTimeout = 120 * time.Second
)

// Target selects the output format of a render.
type Target struct {
	Ext      string // extension LibreOffice gives the output file
	Filter   string // --convert-to argument
	InFilter string // optional --infilter argument
}

var (
	PDF  = Target{Ext: "pdf", Filter: "pdf"}
	DOCX = Target{Ext: "docx", Filter: `docx:MS Word 2007 XML`, InFilter: "writer_pdf_import"}
)

// Workspace hands out exclusive output directories owned by the caller.
type Workspace interface {
	TempDir() (string, error)
}

// ResolvePath returns the renderer executable for goos. A non-empty
// override always wins.
func ResolvePath(goos, override string) string {
	if override != "" {
		return override
	}
	if goos == "darwin" {
		return darwinPath
	}
	return defaultCommand
}

// LibreOffice invokes soffice in headless batch mode.
type LibreOffice struct {
	Path    string
	Timeout time.Duration
	log     *zap.Logger
}

func New(path string, timeout time.Duration, log *zap.Logger) *LibreOffice {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &LibreOffice{Path: path, Timeout: timeout, log: log.Named("render")}
}

// Available reports whether the executable can be found.
func (lo *LibreOffice) Available() bool {
	_, err := exec.LookPath(lo.Path)
	return err == nil
}

// Args is the argument vector passed to the executable.
func Args(target Target, outDir, input string) []string {
	args := []string{"--headless"}
	if target.InFilter != "" {
		args = append(args, "--infilter="+target.InFilter)
	}
	return append(args,
		"-env:UserInstallation=file://"+filepath.ToSlash(filepath.Join(outDir, "lo-profile")),
		"--convert-to", target.Filter,
		"--outdir", outDir,
		input,
	)
}

// Render converts inputPath into target and returns the output path. The
// output directory comes from ws and is left for the caller to release.
func (lo *LibreOffice) Render(ctx context.Context, ws Workspace, inputPath string, target Target) (string, error) {
	bin, err := exec.LookPath(lo.Path)
	if err != nil {
		return "", types.Fail(types.RendererUnavailable, fmt.Sprintf("renderer %q not found", lo.Path), nil)
	}

	outDir, err := ws.TempDir()
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, lo.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, bin, Args(target, outDir, inputPath)...)
	// HOME inside outDir keeps each conversion's profile isolated and
	// removed with the directory.
	cmd.Env = append(os.Environ(), "HOME="+outDir)
	cmd.WaitDelay = 2 * time.Second
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	start := time.Now()
	runErr := cmd.Run()
	log := lo.log.With(
		zap.String("input", filepath.Base(inputPath)),
		zap.String("target", target.Ext),
		zap.Duration("elapsed", time.Since(start)),
	)
	if runErr != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			log.Warn("render timed out", zap.Duration("timeout", lo.Timeout))
			return "", types.Fail(types.RenderTimeout, fmt.Sprintf("render %s: timed out after %s", filepath.Base(inputPath), lo.Timeout), nil)
		}
		diag := strings.TrimSpace(output.String())
		log.Warn("render failed", zap.Error(runErr), zap.String("output", diag))
		return "", &types.Failure{
			Kind:        types.RenderFailed,
			Op:          fmt.Sprintf("render %s", filepath.Base(inputPath)),
			Diagnostics: diag,
			Err:         runErr,
		}
	}

	base := filepath.Base(inputPath)
	outPath := filepath.Join(outDir, strings.TrimSuffix(base, filepath.Ext(base))+"."+target.Ext)
	info, err := os.Stat(outPath)
	if err != nil || info.Size() == 0 {
		log.Warn("render produced no output", zap.String("expected", outPath))
		return "", types.Fail(types.RenderOutputMissing, fmt.Sprintf("render %s: expected output %s", base, filepath.Base(outPath)), nil)
	}
	log.Debug("rendered", zap.Int64("bytes", info.Size()))
	return outPath, nil
}
