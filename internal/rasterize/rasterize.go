// Package rasterize invokes an external HTML-to-image tool.
//
// The tool (wkhtmltoimage by default) must be discoverable on PATH. Options
// are passed through verbatim as --key value flags, so the full option
// surface of the underlying binary stays available without sheetshot
// knowing about it.
package rasterize

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sort"
)

// DefaultBinary is the rasterizer looked up on PATH when none is configured.
const DefaultBinary = "wkhtmltoimage"

// ErrRenderFailed means the external rasterizer is missing or exited non-zero.
var ErrRenderFailed = errors.New("rasterization failed")

// Options is the pass-through option set for the rasterizer. An empty value
// emits a bare flag ("--disable-smart-width").
type Options map[string]string

// DefaultOptions returns the stock option set: PNG at full quality, zoomed
// 4x so cell text stays crisp.
func DefaultOptions() Options {
	return Options{
		"format":  "png",
		"quality": "100",
		"zoom":    "4",
	}
}

// Merge overlays o on top of base and returns the result. Neither input is
// modified.
func (o Options) Merge(base Options) Options {
	out := make(Options, len(base)+len(o))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range o {
		out[k] = v
	}
	return out
}

// Argv renders the options as command-line arguments in deterministic
// (sorted) order, followed by the input and output paths.
func (o Options) Argv(htmlPath, outPath string) []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]string, 0, len(o)*2+2)
	for _, k := range keys {
		args = append(args, "--"+k)
		if v := o[k]; v != "" {
			args = append(args, v)
		}
	}
	return append(args, htmlPath, outPath)
}

// Rasterizer runs the external HTML-to-image binary.
type Rasterizer struct {
	// Binary is the executable name or path. Empty means DefaultBinary.
	Binary string
}

// Render rasterizes htmlPath into outPath with the given options.
func (r *Rasterizer) Render(ctx context.Context, htmlPath, outPath string, opts Options) error {
	bin := r.Binary
	if bin == "" {
		bin = DefaultBinary
	}

	path, err := exec.LookPath(bin)
	if err != nil {
		return fmt.Errorf("%w: %s not found on PATH — install wkhtmltoimage or set rasterizer.binary", ErrRenderFailed, bin)
	}

	if opts == nil {
		opts = DefaultOptions()
	}

	cmd := exec.CommandContext(ctx, path, opts.Argv(htmlPath, outPath)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := stderr.String()
		if msg == "" {
			msg = err.Error()
		}
		return fmt.Errorf("%w: %s: %s", ErrRenderFailed, bin, msg)
	}
	return nil
}
