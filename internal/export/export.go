// Package export orchestrates the workbook-to-image pipeline: resolve the
// target region, serialize it to an intermediate HTML file, rasterize the
// HTML with the external tool, and verify the output landed.
package export

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/klytics/sheetshot/internal/htmlgrid"
	"github.com/klytics/sheetshot/internal/rasterize"
	"github.com/klytics/sheetshot/internal/workbook"
)

// ErrWriteFailed means the destination image could not be written or came
// out empty.
var ErrWriteFailed = errors.New("could not write output image")

// Request describes a single export.
type Request struct {
	// Dest is the output image path. Its extension picks the format unless
	// the rasterizer options override it.
	Dest string
	// Selector picks the sheet and range. Zero value means first sheet,
	// full used extent.
	Selector workbook.Selector
	// Options is merged over the default rasterizer option set.
	Options rasterize.Options
	// Rasterizer runs the HTML-to-image conversion. Nil means the default
	// wkhtmltoimage lookup.
	Rasterizer *rasterize.Rasterizer
	// TempDir holds the intermediate HTML file. Empty means os.TempDir().
	TempDir string
}

// Export renders the requested region of doc to req.Dest. The source
// workbook is never modified; the intermediate HTML file is removed on all
// exit paths.
func Export(ctx context.Context, doc workbook.Document, req Request) error {
	region, err := workbook.Resolve(doc, req.Selector)
	if err != nil {
		return err
	}

	if err := checkDest(req.Dest); err != nil {
		return err
	}

	html, err := htmlgrid.Render(doc, region)
	if err != nil {
		return err
	}

	htmlPath, err := writeTempHTML(req.TempDir, html)
	if err != nil {
		return err
	}
	defer func() {
		if err := os.Remove(htmlPath); err != nil && !os.IsNotExist(err) {
			log.Printf("[export] could not remove intermediate file %s: %v", htmlPath, err)
		}
	}()

	r := req.Rasterizer
	if r == nil {
		r = &rasterize.Rasterizer{}
	}
	opts := req.Options.Merge(rasterize.DefaultOptions())
	if err := r.Render(ctx, htmlPath, req.Dest, opts); err != nil {
		return err
	}

	info, err := os.Stat(req.Dest)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteFailed, req.Dest, err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("%w: %s is empty", ErrWriteFailed, req.Dest)
	}
	return nil
}

// checkDest verifies the destination is writable before the rasterizer runs,
// so an unwritable path surfaces as a write failure instead of a rasterizer
// exit code. A placeholder created by the probe is removed again.
func checkDest(dest string) error {
	_, statErr := os.Stat(dest)
	f, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteFailed, dest, err)
	}
	f.Close()
	if os.IsNotExist(statErr) {
		os.Remove(dest)
	}
	return nil
}

// writeTempHTML writes the intermediate HTML under dir with a collision-proof
// name, so concurrent sheetshot instances sharing a temp directory never
// clobber each other.
func writeTempHTML(dir string, html []byte) (string, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("could not create temp directory %s: %w", dir, err)
	}

	name := fmt.Sprintf("%x.html", sha256.Sum256([]byte(uuid.NewString())))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, html, 0644); err != nil {
		return "", fmt.Errorf("could not write intermediate HTML: %w", err)
	}
	return path, nil
}
