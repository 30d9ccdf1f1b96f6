//go:build ignore

// This program generates sample workbooks for trying sheetshot by hand:
//
//	go run testdata/generate_fixtures.go
//	sheetshot testdata/sample.xlsx out.png -p Revenue -r A1:D7
package main

import (
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"
)

func main() {
	if err := generateSample(); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating sample.xlsx: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Test fixtures generated successfully.")
}

func generateSample() error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "Revenue"); err != nil {
		return err
	}

	rows := [][]any{
		{"Quarter", "Product", "Revenue", "Growth"},
		{"Q1 2024", "Enterprise", 1250000, "12%"},
		{"Q1 2024", "SMB", 450000, "8%"},
		{"Q2 2024", "Enterprise", 1380000, "10%"},
		{"Q2 2024", "SMB", 520000, "16%"},
		{"Q3 2024", "Enterprise", 1450000, "5%"},
		{"Q3 2024", "SMB", 580000, "12%"},
	}
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			if err := f.SetCellValue("Revenue", cell, v); err != nil {
				return err
			}
		}
	}

	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle("Revenue", "A1", "D1", header); err != nil {
		return err
	}

	if _, err := f.NewSheet("Summary"); err != nil {
		return err
	}
	if err := f.MergeCell("Summary", "A1", "B1"); err != nil {
		return err
	}
	for cell, v := range map[string]any{
		"A1": "2024 Totals",
		"A2": "Total Revenue", "B2": 5630000,
		"A3": "Best Quarter", "B3": "Q3 2024",
	} {
		if err := f.SetCellValue("Summary", cell, v); err != nil {
			return err
		}
	}

	return f.SaveAs("testdata/sample.xlsx")
}
