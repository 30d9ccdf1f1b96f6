package workbook

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Sentinel errors for region resolution.
var (
	// ErrSheetNotFound means the requested sheet name does not exist.
	ErrSheetNotFound = errors.New("sheet not found")
	// ErrInvalidRange means the range expression could not be parsed.
	ErrInvalidRange = errors.New("invalid range")
)

// Selector picks the cells to export. Both fields are optional: an empty
// Sheet selects the first sheet, an empty Range selects the sheet's used
// extent. Range may embed its own sheet ("Sheet2!B2:F20" or
// "'Q3 Report'!A1:C3"), which takes precedence over Sheet.
type Selector struct {
	Sheet string
	Range string
}

// Region is a fully resolved export target.
type Region struct {
	Sheet  string
	Extent Extent
}

// Ref returns the region in A1 notation, e.g. "B2:F20".
func (r Region) Ref() string {
	start, _ := excelize.CoordinatesToCellName(r.Extent.MinCol, r.Extent.MinRow)
	end, _ := excelize.CoordinatesToCellName(r.Extent.MaxCol, r.Extent.MaxRow)
	return start + ":" + end
}

// Resolve turns a Selector into a concrete Region against doc.
func Resolve(doc Document, sel Selector) (Region, error) {
	sheet := sel.Sheet
	rangeExpr := sel.Range

	if embedded, rest, ok := splitSheetRef(rangeExpr); ok {
		sheet = embedded
		rangeExpr = rest
	}

	sheet, err := resolveSheet(doc, sheet)
	if err != nil {
		return Region{}, err
	}

	if rangeExpr == "" {
		ext, err := doc.UsedExtent(sheet)
		if err != nil {
			return Region{}, fmt.Errorf("could not determine used range of %q: %w", sheet, err)
		}
		return Region{Sheet: sheet, Extent: ext}, nil
	}

	ext, err := parseRange(rangeExpr)
	if err != nil {
		return Region{}, err
	}
	return Region{Sheet: sheet, Extent: ext}, nil
}

// resolveSheet returns the named sheet, or the first sheet when name is empty.
func resolveSheet(doc Document, name string) (string, error) {
	names := doc.SheetNames()
	if len(names) == 0 {
		return "", fmt.Errorf("%w: workbook has no sheets", ErrSheetNotFound)
	}
	if name == "" {
		return names[0], nil
	}
	for _, n := range names {
		if n == name {
			return n, nil
		}
	}
	return "", fmt.Errorf("%w: %q — available sheets: %v", ErrSheetNotFound, name, names)
}

// splitSheetRef splits a "Sheet!A1:C3" range expression into its sheet and
// cell parts. Quoted sheet names ('Q3 Report'!A1) are unquoted.
func splitSheetRef(expr string) (sheet, rest string, ok bool) {
	i := strings.LastIndex(expr, "!")
	if i < 0 {
		return "", expr, false
	}
	sheet = expr[:i]
	rest = expr[i+1:]
	if len(sheet) >= 2 && strings.HasPrefix(sheet, "'") && strings.HasSuffix(sheet, "'") {
		sheet = strings.ReplaceAll(sheet[1:len(sheet)-1], "''", "'")
	}
	return sheet, rest, sheet != ""
}

// parseRange parses an A1-style range. A single cell reference ("B2") is
// treated as a one-cell range. Corners given in reverse order are reordered.
func parseRange(expr string) (Extent, error) {
	expr = strings.ToUpper(strings.TrimSpace(strings.ReplaceAll(expr, "$", "")))
	if expr == "" {
		return Extent{}, fmt.Errorf("%w: empty range expression", ErrInvalidRange)
	}

	start, end := expr, expr
	if i := strings.Index(expr, ":"); i >= 0 {
		start, end = expr[:i], expr[i+1:]
	}

	sc, sr, err := excelize.CellNameToCoordinates(start)
	if err != nil {
		return Extent{}, fmt.Errorf("%w: %q — expected A1 notation like B2:F20", ErrInvalidRange, expr)
	}
	ec, er, err := excelize.CellNameToCoordinates(end)
	if err != nil {
		return Extent{}, fmt.Errorf("%w: %q — expected A1 notation like B2:F20", ErrInvalidRange, expr)
	}

	if sc > ec {
		sc, ec = ec, sc
	}
	if sr > er {
		sr, er = er, sr
	}
	return Extent{MinCol: sc, MinRow: sr, MaxCol: ec, MaxRow: er}, nil
}
