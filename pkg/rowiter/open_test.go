package rowiter

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeFixture(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}
	return path
}

// drain iterates the file to exhaustion and returns the first cell of
// every row as a string.
func drain(t *testing.T, it RowIterator) []string {
	t.Helper()
	defer it.Close()
	if err := it.Rewind(); err != nil {
		t.Fatalf("Rewind failed: %v", err)
	}
	var values []string
	for it.Valid() {
		s, _ := it.Current().Cell(0).Value.(string)
		values = append(values, s)
		if err := it.Next(); err != nil {
			t.Fatalf("Next failed: %v", err)
		}
	}
	return values
}

func TestOpenCSV(t *testing.T) {
	path := writeFixture(t, "data.csv", []byte("a,b\nc,d\n"))
	it, err := Open(path, DefaultOptions())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	values := drain(t, it)
	if len(values) != 2 || values[0] != "a" || values[1] != "c" {
		t.Errorf("first cells = %v, expected [a c]", values)
	}
}

func TestOpenTSVDefaultsToTabDelimiter(t *testing.T) {
	path := writeFixture(t, "data.tsv", []byte("a\tb\nc\td\n"))
	it, err := Open(path, DefaultOptions())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer it.Close()

	if err := it.Rewind(); err != nil {
		t.Fatalf("Rewind failed: %v", err)
	}
	row := it.Current()
	if row.Len() != 2 || row.Cell(1).Value != "b" {
		t.Errorf("first row = %+v, expected [a b]", row.Cells())
	}
}

func TestOpenXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	f.SetCellValue("Sheet1", "A1", "hello")
	path := filepath.Join(t.TempDir(), "data.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}

	it, err := Open(path, DefaultOptions())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	values := drain(t, it)
	if len(values) != 1 || values[0] != "hello" {
		t.Errorf("first cells = %v, expected [hello]", values)
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.csv"), DefaultOptions())
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("expected ErrFileNotFound, got %v", err)
	}
}

func TestOpenUnsupportedExtension(t *testing.T) {
	path := writeFixture(t, "data.parquet", []byte("whatever"))
	_, err := Open(path, DefaultOptions())
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}
