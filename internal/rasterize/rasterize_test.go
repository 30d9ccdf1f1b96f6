package rasterize

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts["format"] != "png" || opts["quality"] != "100" || opts["zoom"] != "4" {
		t.Errorf("unexpected defaults: %v", opts)
	}
}

func TestMerge(t *testing.T) {
	base := Options{"format": "png", "zoom": "4"}
	over := Options{"format": "jpg", "quality": "85"}

	got := over.Merge(base)
	want := Options{"format": "jpg", "zoom": "4", "quality": "85"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Merge = %v, want %v", got, want)
	}

	// Inputs untouched
	if base["format"] != "png" || over["zoom"] != "" {
		t.Error("Merge modified its inputs")
	}
}

func TestArgvDeterministic(t *testing.T) {
	opts := Options{"zoom": "4", "format": "png", "quality": "100"}

	got := opts.Argv("in.html", "out.png")
	want := []string{"--format", "png", "--quality", "100", "--zoom", "4", "in.html", "out.png"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Argv = %v, want %v", got, want)
	}
}

func TestArgvBareFlag(t *testing.T) {
	opts := Options{"disable-smart-width": ""}

	got := opts.Argv("in.html", "out.png")
	want := []string{"--disable-smart-width", "in.html", "out.png"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Argv = %v, want %v", got, want)
	}
}

func TestRenderMissingBinary(t *testing.T) {
	r := &Rasterizer{Binary: "definitely-not-a-real-rasterizer"}
	err := r.Render(context.Background(), "in.html", "out.png", nil)
	if !errors.Is(err, ErrRenderFailed) {
		t.Fatalf("expected ErrRenderFailed, got %v", err)
	}
}

// fakeRasterizer installs a stub binary that copies its input to its output,
// and returns its directory for PATH injection.
func fakeRasterizer(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub rasterizer script requires a POSIX shell")
	}

	dir := t.TempDir()
	script := `#!/bin/sh
while [ "$#" -gt 2 ]; do shift; done
cp "$1" "$2"
`
	path := filepath.Join(dir, DefaultBinary)
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestRenderSuccess(t *testing.T) {
	t.Setenv("PATH", fakeRasterizer(t)+string(os.PathListSeparator)+os.Getenv("PATH"))

	dir := t.TempDir()
	htmlPath := filepath.Join(dir, "in.html")
	outPath := filepath.Join(dir, "out.png")
	if err := os.WriteFile(htmlPath, []byte("<html></html>"), 0644); err != nil {
		t.Fatal(err)
	}

	r := &Rasterizer{}
	if err := r.Render(context.Background(), htmlPath, outPath, DefaultOptions()); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Error("stub rasterizer produced an empty output")
	}
}

func TestRenderNonZeroExit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("stub rasterizer script requires a POSIX shell")
	}

	dir := t.TempDir()
	script := "#!/bin/sh\necho 'boom: cannot render' >&2\nexit 1\n"
	if err := os.WriteFile(filepath.Join(dir, DefaultBinary), []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))

	r := &Rasterizer{}
	err := r.Render(context.Background(), "in.html", "out.png", nil)
	if !errors.Is(err, ErrRenderFailed) {
		t.Fatalf("expected ErrRenderFailed, got %v", err)
	}
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("stderr not surfaced in error: %v", err)
	}
}
