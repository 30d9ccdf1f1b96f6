// Package htmlgrid serializes a workbook region to a standalone HTML
// document for downstream rasterization.
//
// Fidelity contract: cell values are rendered as displayed (formatted
// strings), merged cells become colspan/rowspan, and per-cell font, fill,
// alignment, and borders are carried over as inline CSS. Conditional
// formatting and embedded objects are not reproduced.
package htmlgrid

import (
	"fmt"
	"html"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/klytics/sheetshot/internal/workbook"
)

// pageCSS keeps the rendered table tight against the viewport so the
// rasterized image crops to the table, not to a default page size.
const pageCSS = `body { margin: 0; width: auto; height: auto; }
table { border-collapse: collapse; table-layout: fixed; }
td { padding: 1px 4px; font-family: Calibri, sans-serif; font-size: 11pt; white-space: nowrap; overflow: hidden; }`

// Render serializes the region of doc to a UTF-8 HTML document.
func Render(doc workbook.Document, region workbook.Region) ([]byte, error) {
	merged, err := doc.MergedCells(region.Sheet)
	if err != nil {
		return nil, fmt.Errorf("could not read merged cells of %q: %w", region.Sheet, err)
	}
	spans, covered := spanMaps(merged, region.Extent)

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<style>\n")
	b.WriteString(pageCSS)
	b.WriteString("\n</style>\n</head>\n<body>\n<table>\n")

	writeColGroup(&b, doc, region)

	ext := region.Extent
	for row := ext.MinRow; row <= ext.MaxRow; row++ {
		b.WriteString(rowTag(doc, region.Sheet, row))
		for col := ext.MinCol; col <= ext.MaxCol; col++ {
			key := cellKey(col, row)
			if covered[key] {
				continue
			}

			cell, _ := excelize.CoordinatesToCellName(col, row)
			sp, spanned := spans[key]
			if spanned && (sp.srcCol != col || sp.srcRow != row) {
				// Merge anchored outside the extent: read from the true anchor.
				cell, _ = excelize.CoordinatesToCellName(sp.srcCol, sp.srcRow)
			}
			value, err := doc.CellValue(region.Sheet, cell)
			if err != nil {
				return nil, fmt.Errorf("could not read cell %s!%s: %w", region.Sheet, cell, err)
			}
			style, err := doc.CellStyle(region.Sheet, cell)
			if err != nil {
				return nil, fmt.Errorf("could not read style of %s!%s: %w", region.Sheet, cell, err)
			}

			b.WriteString("<td")
			if spanned {
				if sp.cols > 1 {
					fmt.Fprintf(&b, " colspan=\"%d\"", sp.cols)
				}
				if sp.rows > 1 {
					fmt.Fprintf(&b, " rowspan=\"%d\"", sp.rows)
				}
			}
			if css := cellCSS(style); css != "" {
				fmt.Fprintf(&b, " style=%q", css)
			}
			b.WriteString(">")
			b.WriteString(escapeValue(value))
			b.WriteString("</td>")
		}
		b.WriteString("</tr>\n")
	}

	b.WriteString("</table>\n</body>\n</html>\n")
	return []byte(b.String()), nil
}

type span struct {
	cols, rows int
	// srcCol/srcRow is the merge's anchor cell, which may lie outside the
	// extent when the merge is clamped; values are read from it.
	srcCol, srcRow int
}

// spanMaps returns the colspan/rowspan of each merge clamped to the extent,
// keyed by the clamped anchor, and the set of covered cells that must be
// skipped when emitting the table. A merge whose anchor lies outside the
// extent is re-anchored at its first in-extent cell so its value still
// renders.
func spanMaps(merged []workbook.MergedRange, ext workbook.Extent) (map[string]span, map[string]bool) {
	spans := make(map[string]span)
	covered := make(map[string]bool)
	for _, m := range merged {
		if m.EndCol < ext.MinCol || m.StartCol > ext.MaxCol ||
			m.EndRow < ext.MinRow || m.StartRow > ext.MaxRow {
			continue
		}
		sc := max(m.StartCol, ext.MinCol)
		sr := max(m.StartRow, ext.MinRow)
		ec := min(m.EndCol, ext.MaxCol)
		er := min(m.EndRow, ext.MaxRow)
		spans[cellKey(sc, sr)] = span{
			cols:   ec - sc + 1,
			rows:   er - sr + 1,
			srcCol: m.StartCol,
			srcRow: m.StartRow,
		}
		for c := sc; c <= ec; c++ {
			for r := sr; r <= er; r++ {
				if c == sc && r == sr {
					continue
				}
				covered[cellKey(c, r)] = true
			}
		}
	}
	return spans, covered
}

func cellKey(col, row int) string {
	return fmt.Sprintf("%d:%d", col, row)
}

// writeColGroup emits <col> elements sized from the sheet's column widths.
// Excel width units approximate character counts; 7px per unit matches the
// default Calibri rendering closely enough for a raster export.
func writeColGroup(b *strings.Builder, doc workbook.Document, region workbook.Region) {
	b.WriteString("<colgroup>")
	for col := region.Extent.MinCol; col <= region.Extent.MaxCol; col++ {
		w, err := doc.ColWidth(region.Sheet, col)
		if err != nil || w <= 0 {
			b.WriteString("<col>")
			continue
		}
		fmt.Fprintf(b, "<col style=\"width:%dpx\">", int(w*7))
	}
	b.WriteString("</colgroup>\n")
}

// rowTag emits the <tr> with its height when the sheet defines one.
// Row heights are in points; CSS pixels are points * 96/72.
func rowTag(doc workbook.Document, sheet string, row int) string {
	h, err := doc.RowHeight(sheet, row)
	if err != nil || h <= 0 {
		return "<tr>"
	}
	return fmt.Sprintf("<tr style=\"height:%dpx\">", int(h*96/72))
}

// escapeValue HTML-escapes a cell value and strips Unicode replacement
// characters that excelize emits for undecodable bytes.
func escapeValue(v string) string {
	v = strings.ReplaceAll(v, "�", "")
	v = html.EscapeString(v)
	return strings.ReplaceAll(v, "\n", "<br>")
}

// cellCSS maps a cell style to inline CSS declarations.
func cellCSS(s *excelize.Style) string {
	if s == nil {
		return ""
	}
	var rules []string

	if f := s.Font; f != nil {
		if f.Bold {
			rules = append(rules, "font-weight:bold")
		}
		if f.Italic {
			rules = append(rules, "font-style:italic")
		}
		var deco []string
		if f.Underline != "" && f.Underline != "none" {
			deco = append(deco, "underline")
		}
		if f.Strike {
			deco = append(deco, "line-through")
		}
		if len(deco) > 0 {
			rules = append(rules, "text-decoration:"+strings.Join(deco, " "))
		}
		if f.Size > 0 {
			rules = append(rules, fmt.Sprintf("font-size:%gpt", f.Size))
		}
		if f.Family != "" {
			rules = append(rules, fmt.Sprintf("font-family:'%s'", f.Family))
		}
		if c := cssColor(f.Color); c != "" {
			rules = append(rules, "color:"+c)
		}
	}

	if s.Fill.Type == "pattern" && s.Fill.Pattern > 0 && len(s.Fill.Color) > 0 {
		if c := cssColor(s.Fill.Color[0]); c != "" {
			rules = append(rules, "background-color:"+c)
		}
	}

	if a := s.Alignment; a != nil && a.Horizontal != "" {
		switch a.Horizontal {
		case "center", "centerContinuous":
			rules = append(rules, "text-align:center")
		case "right":
			rules = append(rules, "text-align:right")
		case "left":
			rules = append(rules, "text-align:left")
		}
	}

	for _, border := range s.Border {
		css := borderCSS(border)
		if css == "" {
			continue
		}
		switch border.Type {
		case "left", "right", "top", "bottom":
			rules = append(rules, fmt.Sprintf("border-%s:%s", border.Type, css))
		}
	}

	return strings.Join(rules, ";")
}

// borderCSS maps an Excel border style index to a CSS border shorthand.
func borderCSS(b excelize.Border) string {
	color := cssColor(b.Color)
	if color == "" {
		color = "#000000"
	}
	switch b.Style {
	case 0:
		return ""
	case 2, 8: // medium, medium dashed
		return "2px solid " + color
	case 3, 9: // dashed
		return "1px dashed " + color
	case 4, 7: // dotted, hair
		return "1px dotted " + color
	case 5: // thick
		return "3px solid " + color
	case 6: // double
		return "3px double " + color
	default: // thin and everything else
		return "1px solid " + color
	}
}

// cssColor normalizes an Excel hex color (optionally ARGB, optionally
// missing its '#') to a CSS hex color.
func cssColor(c string) string {
	c = strings.TrimPrefix(strings.TrimSpace(c), "#")
	if len(c) == 8 { // ARGB — drop the alpha byte
		c = c[2:]
	}
	if len(c) != 6 {
		return ""
	}
	return "#" + strings.ToUpper(c)
}
