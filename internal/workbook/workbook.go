// Package workbook manages access to open .xlsx workbooks.
//
// A Handle wraps an excelize file together with an ownership tag: handles
// opened from a path belong to this package and are closed by Close, while
// handles wrapping a caller-supplied file are left alone so the caller can
// keep using them after an export returns.
package workbook

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// Sentinel errors for workbook acquisition. Callers match with errors.Is.
var (
	// ErrFileNotFound means the source path does not exist.
	ErrFileNotFound = errors.New("workbook file not found")
	// ErrWorkbookOpen means the file exists but could not be opened as a workbook.
	ErrWorkbookOpen = errors.New("could not open workbook")
)

// Ownership records who is responsible for closing a Handle.
type Ownership int

const (
	// Borrowed handles were supplied by the caller and are never closed here.
	Borrowed Ownership = iota
	// Owned handles were opened by this package and must be closed by Close.
	Owned
)

func (o Ownership) String() string {
	if o == Owned {
		return "owned"
	}
	return "borrowed"
}

// Document is the read surface the export pipeline needs from a workbook.
// Handle implements it; tests substitute a fake.
type Document interface {
	// SheetNames returns the workbook's sheet names in workbook order.
	SheetNames() []string
	// CellValue returns the formatted (as-displayed) value of a cell.
	CellValue(sheet, cell string) (string, error)
	// CellStyle returns the resolved style of a cell, or nil when unstyled.
	CellStyle(sheet, cell string) (*excelize.Style, error)
	// MergedCells returns the merged ranges of a sheet.
	MergedCells(sheet string) ([]MergedRange, error)
	// UsedExtent returns the sheet's used extent. Empty sheets report A1:A1.
	UsedExtent(sheet string) (Extent, error)
	// ColWidth returns the display width of a column in Excel width units.
	ColWidth(sheet string, col int) (float64, error)
	// RowHeight returns the display height of a row in points.
	RowHeight(sheet string, row int) (float64, error)
}

// MergedRange is a merged cell block in 1-based coordinates.
type MergedRange struct {
	StartCol, StartRow int
	EndCol, EndRow     int
}

// Extent is a rectangular cell region in 1-based, inclusive coordinates.
type Extent struct {
	MinCol, MinRow int
	MaxCol, MaxRow int
}

// Handle is an open workbook session.
type Handle struct {
	Path      string
	Ownership Ownership

	file   *excelize.File
	closed bool
}

// Open opens the workbook at path. The returned handle is Owned: the caller
// must Close it (typically with defer) on every exit path.
func Open(path string) (*Handle, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("%w: %s — check that the path is correct", ErrFileNotFound, path)
	}

	f, err := excelize.OpenFile(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %s — is this a valid .xlsx file? %v", ErrWorkbookOpen, path, err)
	}

	return &Handle{Path: abs, Ownership: Owned, file: f}, nil
}

// Wrap adopts a caller-supplied open file as a Borrowed handle. Close on the
// returned handle is a no-op; the caller keeps responsibility for f.
func Wrap(f *excelize.File) *Handle {
	return &Handle{Path: f.Path, Ownership: Borrowed, file: f}
}

// Close releases the workbook if this handle owns it. Borrowed handles are
// never closed. Close is idempotent; teardown errors are logged rather than
// returned so they cannot mask an earlier pipeline failure.
func (h *Handle) Close() {
	if h == nil || h.closed || h.Ownership != Owned {
		return
	}
	h.closed = true
	if err := h.file.Close(); err != nil {
		log.Printf("[workbook] error closing %s: %v", h.Path, err)
	}
}

// File exposes the backing excelize file for callers that need direct access.
func (h *Handle) File() *excelize.File {
	return h.file
}

// SheetNames returns the workbook's sheet names in workbook order.
func (h *Handle) SheetNames() []string {
	return h.file.GetSheetList()
}

// CellValue returns the formatted value of a cell, as Excel would display it.
func (h *Handle) CellValue(sheet, cell string) (string, error) {
	return h.file.GetCellValue(sheet, cell)
}

// CellStyle returns the resolved style of a cell, or nil for the default style.
func (h *Handle) CellStyle(sheet, cell string) (*excelize.Style, error) {
	idx, err := h.file.GetCellStyle(sheet, cell)
	if err != nil {
		return nil, err
	}
	if idx == 0 {
		return nil, nil
	}
	return h.file.GetStyle(idx)
}

// MergedCells returns the merged ranges of a sheet.
func (h *Handle) MergedCells(sheet string) ([]MergedRange, error) {
	merged, err := h.file.GetMergeCells(sheet)
	if err != nil {
		return nil, err
	}
	ranges := make([]MergedRange, 0, len(merged))
	for _, m := range merged {
		sc, sr, err := excelize.CellNameToCoordinates(m.GetStartAxis())
		if err != nil {
			continue
		}
		ec, er, err := excelize.CellNameToCoordinates(m.GetEndAxis())
		if err != nil {
			continue
		}
		ranges = append(ranges, MergedRange{StartCol: sc, StartRow: sr, EndCol: ec, EndRow: er})
	}
	return ranges, nil
}

// UsedExtent computes the sheet's used extent from its populated cells,
// anchored at the first populated cell rather than A1. An empty sheet
// reports the single cell A1.
func (h *Handle) UsedExtent(sheet string) (Extent, error) {
	rows, err := h.file.GetRows(sheet)
	if err != nil {
		return Extent{}, err
	}

	var ext Extent
	for i, row := range rows {
		for j, cell := range row {
			if cell == "" {
				continue
			}
			col, rowNum := j+1, i+1
			if ext.MinCol == 0 {
				ext = Extent{MinCol: col, MinRow: rowNum, MaxCol: col, MaxRow: rowNum}
				continue
			}
			if col < ext.MinCol {
				ext.MinCol = col
			}
			if col > ext.MaxCol {
				ext.MaxCol = col
			}
			if rowNum > ext.MaxRow {
				ext.MaxRow = rowNum
			}
		}
	}
	if ext.MinCol == 0 {
		return Extent{MinCol: 1, MinRow: 1, MaxCol: 1, MaxRow: 1}, nil
	}
	return ext, nil
}

// ColWidth returns the display width of a column in Excel width units.
func (h *Handle) ColWidth(sheet string, col int) (float64, error) {
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return 0, err
	}
	return h.file.GetColWidth(sheet, name)
}

// RowHeight returns the display height of a row in points.
func (h *Handle) RowHeight(sheet string, row int) (float64, error) {
	return h.file.GetRowHeight(sheet, row)
}

var _ Document = (*Handle)(nil)
