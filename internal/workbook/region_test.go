package workbook

import (
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
)

// fakeDoc is a minimal Document for region resolution tests.
type fakeDoc struct {
	sheets map[string]Extent
	order  []string
}

func (d *fakeDoc) SheetNames() []string { return d.order }

func (d *fakeDoc) UsedExtent(sheet string) (Extent, error) {
	return d.sheets[sheet], nil
}

func (d *fakeDoc) CellValue(sheet, cell string) (string, error)          { return "", nil }
func (d *fakeDoc) CellStyle(sheet, cell string) (*excelize.Style, error) { return nil, nil }
func (d *fakeDoc) MergedCells(sheet string) ([]MergedRange, error)       { return nil, nil }
func (d *fakeDoc) ColWidth(sheet string, col int) (float64, error)       { return 0, nil }
func (d *fakeDoc) RowHeight(sheet string, row int) (float64, error)      { return 0, nil }

func newFakeDoc() *fakeDoc {
	return &fakeDoc{
		order: []string{"Sheet1", "Q2 Data"},
		sheets: map[string]Extent{
			"Sheet1":  {MinCol: 1, MinRow: 1, MaxCol: 3, MaxRow: 3},
			"Q2 Data": {MinCol: 1, MinRow: 1, MaxCol: 6, MaxRow: 20},
		},
	}
}

func TestResolveDefaults(t *testing.T) {
	// No sheet, no range: first sheet, full used extent.
	r, err := Resolve(newFakeDoc(), Selector{})
	if err != nil {
		t.Fatal(err)
	}
	if r.Sheet != "Sheet1" {
		t.Errorf("sheet = %q, want Sheet1", r.Sheet)
	}
	if r.Ref() != "A1:C3" {
		t.Errorf("ref = %q, want A1:C3", r.Ref())
	}
}

func TestResolveNamedSheet(t *testing.T) {
	r, err := Resolve(newFakeDoc(), Selector{Sheet: "Q2 Data"})
	if err != nil {
		t.Fatal(err)
	}
	if r.Sheet != "Q2 Data" {
		t.Errorf("sheet = %q", r.Sheet)
	}
	if r.Ref() != "A1:F20" {
		t.Errorf("ref = %q, want A1:F20", r.Ref())
	}
}

func TestResolveSheetNotFound(t *testing.T) {
	_, err := Resolve(newFakeDoc(), Selector{Sheet: "Missing"})
	if !errors.Is(err, ErrSheetNotFound) {
		t.Fatalf("expected ErrSheetNotFound, got %v", err)
	}
}

func TestResolveExplicitRange(t *testing.T) {
	r, err := Resolve(newFakeDoc(), Selector{Sheet: "Q2 Data", Range: "B2:F20"})
	if err != nil {
		t.Fatal(err)
	}
	want := Extent{MinCol: 2, MinRow: 2, MaxCol: 6, MaxRow: 20}
	if r.Extent != want {
		t.Errorf("extent = %+v, want %+v", r.Extent, want)
	}
}

func TestResolveInvalidRange(t *testing.T) {
	for _, expr := range []string{"ZZ", "1A:B2", "A1:", ":", "A1:B2:C3x"} {
		_, err := Resolve(newFakeDoc(), Selector{Range: expr})
		if !errors.Is(err, ErrInvalidRange) {
			t.Errorf("Resolve(%q): expected ErrInvalidRange, got %v", expr, err)
		}
	}
}

func TestResolveSingleCell(t *testing.T) {
	r, err := Resolve(newFakeDoc(), Selector{Range: "B2"})
	if err != nil {
		t.Fatal(err)
	}
	if r.Ref() != "B2:B2" {
		t.Errorf("ref = %q, want B2:B2", r.Ref())
	}
}

func TestResolveReversedCorners(t *testing.T) {
	r, err := Resolve(newFakeDoc(), Selector{Range: "F20:B2"})
	if err != nil {
		t.Fatal(err)
	}
	if r.Ref() != "B2:F20" {
		t.Errorf("ref = %q, want B2:F20", r.Ref())
	}
}

func TestResolveEmbeddedSheet(t *testing.T) {
	// Sheet in the range expression wins over the Sheet field.
	r, err := Resolve(newFakeDoc(), Selector{Sheet: "Sheet1", Range: "Q2 Data!B2:C4"})
	if err != nil {
		t.Fatal(err)
	}
	if r.Sheet != "Q2 Data" {
		t.Errorf("sheet = %q, want Q2 Data", r.Sheet)
	}
}

func TestResolveQuotedEmbeddedSheet(t *testing.T) {
	r, err := Resolve(newFakeDoc(), Selector{Range: "'Q2 Data'!A1:B2"})
	if err != nil {
		t.Fatal(err)
	}
	if r.Sheet != "Q2 Data" {
		t.Errorf("sheet = %q, want Q2 Data", r.Sheet)
	}
}

func TestResolveAbsoluteRefs(t *testing.T) {
	r, err := Resolve(newFakeDoc(), Selector{Range: "$B$2:$F$20"})
	if err != nil {
		t.Fatal(err)
	}
	if r.Ref() != "B2:F20" {
		t.Errorf("ref = %q, want B2:F20", r.Ref())
	}
}
