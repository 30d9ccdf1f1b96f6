// Package sheetshot renders a worksheet or cell range from an .xlsx workbook
// as a raster image.
//
// The region is serialized to an intermediate HTML table and rasterized with
// an external HTML-to-image tool (wkhtmltoimage by default), which must be
// on PATH.
//
//	err := sheetshot.Export("book.xlsx", "out.png",
//	    sheetshot.WithSheet("Sheet2"),
//	    sheetshot.WithRange("B2:F20"))
//
// The source may be a path or an already-open workbook. Path sources are
// opened and closed by Export; caller-supplied handles remain open and
// usable after Export returns.
package sheetshot

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/klytics/sheetshot/internal/export"
	"github.com/klytics/sheetshot/internal/rasterize"
	"github.com/klytics/sheetshot/internal/workbook"
)

// Error kinds, matched with errors.Is.
var (
	ErrFileNotFound  = workbook.ErrFileNotFound
	ErrWorkbookOpen  = workbook.ErrWorkbookOpen
	ErrSheetNotFound = workbook.ErrSheetNotFound
	ErrInvalidRange  = workbook.ErrInvalidRange
	ErrRenderFailed  = rasterize.ErrRenderFailed
	ErrWriteFailed   = export.ErrWriteFailed
)

// Option customizes an Export call.
type Option func(*export.Request)

// WithSheet selects the sheet to export by name. Default: the first sheet.
func WithSheet(name string) Option {
	return func(r *export.Request) { r.Selector.Sheet = name }
}

// WithRange selects the cells to export in A1 notation ("B2:F20", optionally
// with an embedded sheet: "Sheet2!B2:F20"). Default: the sheet's used extent.
func WithRange(expr string) Option {
	return func(r *export.Request) { r.Selector.Range = expr }
}

// WithRasterOptions overlays options passed verbatim to the rasterizer
// ("format", "quality", "zoom", ...).
func WithRasterOptions(opts map[string]string) Option {
	return func(r *export.Request) { r.Options = rasterize.Options(opts).Merge(r.Options) }
}

// WithBinary overrides the rasterizer binary name or path.
func WithBinary(bin string) Option {
	return func(r *export.Request) { r.Rasterizer = &rasterize.Rasterizer{Binary: bin} }
}

// WithTempDir overrides where the intermediate HTML file is written.
func WithTempDir(dir string) Option {
	return func(r *export.Request) { r.TempDir = dir }
}

// Export renders a region of source to the image file at dest.
//
// source may be a path string, a *workbook.Handle, or an open
// *excelize.File. Handles and files supplied by the caller are never closed;
// a path source is opened for the duration of the call and closed on every
// exit path.
func Export(source any, dest string, o ...Option) error {
	return ExportContext(context.Background(), source, dest, o...)
}

// ExportContext is Export with a caller-supplied context governing the
// external rasterizer invocation.
func ExportContext(ctx context.Context, source any, dest string, o ...Option) error {
	req := export.Request{Dest: dest}
	for _, opt := range o {
		opt(&req)
	}

	var doc workbook.Document
	switch src := source.(type) {
	case string:
		h, err := workbook.Open(src)
		if err != nil {
			return err
		}
		defer h.Close()
		doc = h
	case *workbook.Handle:
		doc = src
	case *excelize.File:
		doc = workbook.Wrap(src)
	case workbook.Document:
		doc = src
	default:
		return fmt.Errorf("unsupported source type %T — pass a path or an open workbook", source)
	}

	return export.Export(ctx, doc, req)
}
