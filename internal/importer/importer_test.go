package importer

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestImportCSVWithHeader(t *testing.T) {
	t.Parallel()

	data := "Name,Length,Width,Height,Qty\nCrate,50,40,30,3\nTube,20,20,80,\n"
	res := ImportCSV(strings.NewReader(data))

	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	if len(res.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(res.Items))
	}
	crate := res.Items[0]
	if crate.Name != "Crate" || crate.Length != 50 || crate.Width != 40 || crate.Height != 30 || crate.Quantity != 3 {
		t.Fatalf("unexpected first item: %+v", crate)
	}
	if res.Items[1].Quantity != 1 {
		t.Fatalf("expected blank quantity to default to 1, got %d", res.Items[1].Quantity)
	}
}

func TestImportCSVSemicolonWithDecimalComma(t *testing.T) {
	t.Parallel()

	data := "Name;Length;Width;Height;Qty\nPallet;110,5;110;45;2\n"
	res := ImportCSV(strings.NewReader(data))

	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	if len(res.Items) != 1 || res.Items[0].Length != 110.5 {
		t.Fatalf("expected length 110.5, got %+v", res.Items)
	}
	if len(res.Warnings) == 0 || !strings.Contains(res.Warnings[0], "semicolon") {
		t.Fatalf("expected semicolon warning, got %v", res.Warnings)
	}
}

func TestImportCSVPositional(t *testing.T) {
	t.Parallel()

	data := "Crate,50,40,30,3\nTube,20,20,80\n"
	res := ImportCSV(strings.NewReader(data))

	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	if len(res.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(res.Items))
	}
	if res.Items[1].Height != 80 || res.Items[1].Quantity != 1 {
		t.Fatalf("unexpected second item: %+v", res.Items[1])
	}
}

func TestImportCSVReportsBadRows(t *testing.T) {
	t.Parallel()

	data := "name,length,width,height,qty\nGood,10,10,10,1\nBad,abc,10,10,1\nNegative,10,-1,10,1\nZeroQty,10,10,10,0\n\n"
	res := ImportCSV(strings.NewReader(data))

	if len(res.Items) != 1 || res.Items[0].Name != "Good" {
		t.Fatalf("expected only the good row, got %+v", res.Items)
	}
	if len(res.Errors) != 3 {
		t.Fatalf("expected 3 row errors, got %v", res.Errors)
	}
	if !strings.HasPrefix(res.Errors[0], "Line 3") {
		t.Fatalf("expected error to name the line, got %q", res.Errors[0])
	}
}

func TestImportCSVMissingColumns(t *testing.T) {
	t.Parallel()

	res := ImportCSV(strings.NewReader("name,qty\nA,1\n"))
	if len(res.Items) != 0 || len(res.Errors) != 1 {
		t.Fatalf("expected a single header error, got items=%v errors=%v", res.Items, res.Errors)
	}
	if !strings.Contains(res.Errors[0], "Length, Width, Height") {
		t.Fatalf("unexpected error: %q", res.Errors[0])
	}
}

func TestImportCSVEmpty(t *testing.T) {
	t.Parallel()

	res := ImportCSV(strings.NewReader("   \n"))
	if len(res.Errors) != 1 || res.Errors[0] != "File is empty" {
		t.Fatalf("expected empty file error, got %v", res.Errors)
	}
}

func TestImportExcel(t *testing.T) {
	t.Parallel()

	f := excelize.NewFile()
	if err := f.SetSheetRow("Sheet1", "A1", &[]any{"Name", "Length", "Width", "Height", "Qty"}); err != nil {
		t.Fatalf("SetSheetRow header: %v", err)
	}
	if err := f.SetSheetRow("Sheet1", "A2", &[]any{"Crate", 120, 80, 60, 4}); err != nil {
		t.Fatalf("SetSheetRow data: %v", err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}

	res := ImportExcel(bytes.NewReader(buf.Bytes()))
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	if len(res.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(res.Items))
	}
	item := res.Items[0]
	if item.Name != "Crate" || item.Length != 120 || item.Width != 80 || item.Height != 60 || item.Quantity != 4 {
		t.Fatalf("unexpected item: %+v", item)
	}
}

func TestImportExcelRejectsGarbage(t *testing.T) {
	t.Parallel()

	res := ImportExcel(strings.NewReader("not a workbook"))
	if len(res.Errors) != 1 {
		t.Fatalf("expected open error, got %v", res.Errors)
	}
}

func TestImportDispatchesOnExtension(t *testing.T) {
	t.Parallel()

	res, err := Import("items.CSV", strings.NewReader("Crate,50,40,30,3\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(res.Items))
	}

	if _, err := Import("items.pdf", strings.NewReader("")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestDetectCSVDelimiter(t *testing.T) {
	t.Parallel()

	tests := map[string]rune{
		"a,b,c\n1,2,3\n":     ',',
		"a;b;c\n1;2;3\n":     ';',
		"a\tb\tc\n1\t2\t3\n": '\t',
		"a|b|c\n1|2|3\n":     '|',
	}
	for data, want := range tests {
		if got := DetectCSVDelimiter([]byte(data)); got != want {
			t.Fatalf("DetectCSVDelimiter(%q) = %q, want %q", data, got, want)
		}
	}
}
