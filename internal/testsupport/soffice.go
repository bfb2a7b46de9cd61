package testsupport

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// Fake renderer modes.
const (
	SofficeOK       = ""
	SofficeFail     = "fail"
	SofficeNoOutput = "nooutput"
	SofficeHang     = "hang"
)

// SofficeDiagnostic is what the fake prints to stderr in SofficeFail mode.
const SofficeDiagnostic = "Error: source file could not be loaded"

const fakeSoffice = `#!/bin/sh
outdir=""
input=""
ext="pdf"
while [ $# -gt 0 ]; do
  case "$1" in
    --outdir) outdir="$2"; shift 2 ;;
    --convert-to) ext="${2%%:*}"; shift 2 ;;
    -*) shift ;;
    *) input="$1"; shift ;;
  esac
done
[ "$HOME" = "$outdir" ] || { echo "HOME not isolated" >&2; exit 3; }
case "$FAKE_RENDER_MODE" in
  fail) echo "` + SofficeDiagnostic + `" >&2; exit 77 ;;
  nooutput) exit 0 ;;
  hang) exec sleep 5 ;;
esac
name=$(basename "$input")
cp "$FAKE_RENDER_FIXTURE" "$outdir/${name%.*}.$ext"
`

// Soffice writes a shell script that behaves like soffice --convert-to and
// returns its path. In SofficeOK mode every output is a copy of output.
func Soffice(t *testing.T, mode string, output []byte) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake renderer is a shell script")
	}
	dir := t.TempDir()
	bin := filepath.Join(dir, "soffice")
	require.NoError(t, os.WriteFile(bin, []byte(fakeSoffice), 0o755))
	fixture := filepath.Join(dir, "fixture.out")
	require.NoError(t, os.WriteFile(fixture, output, 0o644))
	t.Setenv("FAKE_RENDER_MODE", mode)
	t.Setenv("FAKE_RENDER_FIXTURE", fixture)
	return bin
}
