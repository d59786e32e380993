package xlsx

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ymgch/rowiter-go/pkg/rowiter/models"
)

// Worksheet tag and attribute names, local to this state machine.
const (
	tagWorksheet = "worksheet"
	tagDimension = "dimension"
	tagRow       = "row"
	tagCell      = "c"

	attrRef   = "ref"
	attrRowID = "r"
	attrSpans = "spans"
)

// Options configures a packaged-XML row iterator.
type Options struct {
	// SheetName selects a worksheet by name. When empty, SheetIndex is
	// used instead.
	SheetName string
	// SheetIndex selects a worksheet by 0-based position. Ignored when
	// SheetName is set.
	SheetIndex int
	// ShouldPreserveEmptyRows surfaces structurally empty rows and
	// synthesizes rows for gaps in explicit row indices.
	ShouldPreserveEmptyRows bool
}

// RowIterator reads one worksheet of an xlsx file row by row. Sparse
// cells are reconstructed into dense rows, and cell values are decoded
// into typed cells (a value that fails decoding becomes an error-typed
// cell carrying the raw content).
//
// A RowIterator is not safe for concurrent use.
type RowIterator struct {
	filePath          string
	sheetName         string
	sheetIndex        int
	preserveEmptyRows bool

	container      *zip.ReadCloser
	sheetEntryPath string
	entry          io.ReadCloser
	decoder        *xml.Decoder
	values         *valueDecoder

	numReadRows int
	rowBuffer   *models.Row
	endReached  bool
	numColumns  int
	// Row indices are 1-based; lastColumnIndexProcessed is 0-based
	// with -1 meaning no cell seen yet in the current row.
	lastRowIndexProcessed     int
	nextRowIndexToBeProcessed int
	lastColumnIndexProcessed  int
}

// NewRowIterator opens the container at filePath and prepares an
// iterator over the selected worksheet. The worksheet entry itself is
// not opened until Rewind.
func NewRowIterator(filePath string, opts Options) (*RowIterator, error) {
	it := &RowIterator{
		filePath:          filePath,
		sheetName:         opts.SheetName,
		sheetIndex:        opts.SheetIndex,
		preserveEmptyRows: opts.ShouldPreserveEmptyRows,
	}
	if err := it.openContainer(); err != nil {
		_ = it.Close()
		return nil, err
	}
	return it, nil
}

// openContainer opens the ZIP container and loads the workbook-level
// collaborators: the sheet list, the shared-string table, and the
// style registry.
func (it *RowIterator) openContainer() error {
	zr, err := zip.OpenReader(it.filePath)
	if err != nil {
		return fmt.Errorf("open %s: %w", it.filePath, err)
	}
	it.container = zr

	info, err := readWorkbookInfo(&zr.Reader)
	if err != nil {
		return fmt.Errorf("read %s: %w", it.filePath, err)
	}
	meta, err := selectSheet(info.Sheets, it.sheetName, it.sheetIndex)
	if err != nil {
		return err
	}
	it.sheetEntryPath = strings.TrimPrefix(meta.EntryPath, "/")

	sst, err := readSharedStrings(&zr.Reader)
	if err != nil {
		return fmt.Errorf("read %s: %w", it.filePath, err)
	}
	styles, err := readStyles(&zr.Reader)
	if err != nil {
		return fmt.Errorf("read %s: %w", it.filePath, err)
	}
	it.values = &valueDecoder{
		sharedStrings: sst,
		styles:        styles,
		date1904:      info.Date1904,
	}
	return nil
}

// selectSheet resolves the requested worksheet by name or 0-based index.
func selectSheet(sheets []sheetMeta, name string, index int) (sheetMeta, error) {
	if name != "" {
		for _, s := range sheets {
			if s.Name == name {
				return s, nil
			}
		}
		return sheetMeta{}, fmt.Errorf("%w: %q", ErrSheetNotFound, name)
	}
	if index < 0 || index >= len(sheets) {
		return sheetMeta{}, fmt.Errorf("%w: index %d", ErrSheetNotFound, index)
	}
	return sheets[index], nil
}

// Rewind closes and reopens the worksheet entry inside the container,
// resets all counters and buffers, and primes the first row.
func (it *RowIterator) Rewind() error {
	it.closeEntry()
	if it.container == nil {
		if err := it.openContainer(); err != nil {
			return err
		}
	}
	f := findEntry(&it.container.Reader, it.sheetEntryPath)
	if f == nil {
		return fmt.Errorf("open %s: %w", it.filePath,
			&entryError{Entry: it.sheetEntryPath, Err: errors.New("missing entry")})
	}
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", it.filePath,
			&entryError{Entry: it.sheetEntryPath, Err: err})
	}
	it.entry = rc
	it.decoder = xml.NewDecoder(rc)

	it.numReadRows = 0
	it.rowBuffer = nil
	it.endReached = false
	it.numColumns = 0
	it.lastRowIndexProcessed = 0
	it.nextRowIndexToBeProcessed = 0
	it.lastColumnIndexProcessed = -1
	return it.Next()
}

// Valid reports whether the worksheet is open and its end has not been
// reached.
func (it *RowIterator) Valid() bool {
	return it.entry != nil && !it.endReached
}

// Next advances the logical cursor by one row. When empty rows are
// preserved and a previously read row is still ahead of the cursor, no
// data is read; otherwise the XML stream is driven until the next
// surfaceable row is assembled or the worksheet ends. Calling Next
// past end-of-sheet is a no-op.
func (it *RowIterator) Next() error {
	if it.entry == nil || it.endReached {
		return nil
	}
	it.nextRowIndexToBeProcessed++
	if it.doesNeedDataForNextRow() {
		return it.readDataForNextRow()
	}
	return nil
}

// doesNeedDataForNextRow reports whether the XML stream must be read
// to serve the row at nextRowIndexToBeProcessed. The read is skipped
// when preserving empty rows and already-read data is still owed for a
// pending index.
func (it *RowIterator) doesNeedDataForNextRow() bool {
	hasReadAtLeastOneRow := it.lastRowIndexProcessed != 0
	if it.preserveEmptyRows && hasReadAtLeastOneRow &&
		it.lastRowIndexProcessed >= it.nextRowIndexToBeProcessed {
		return false
	}
	return true
}

// readDataForNextRow drives the worksheet event stream until a
// surfaceable row has been assembled or the worksheet's closing tag is
// reached. The row under construction is owned by this call and passed
// by exclusive reference into the per-event steps.
func (it *RowIterator) readDataForNextRow() error {
	current := models.NewRow()
	for {
		token, err := it.decoder.Token()
		if err == io.EOF {
			it.endReached = true
			it.rowBuffer = nil
			return nil
		}
		if err != nil {
			return fmt.Errorf("process %s: %w", it.filePath,
				&entryError{Entry: it.sheetEntryPath, Err: err})
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case tagDimension:
				it.processDimensionStart(t)
			case tagRow:
				current = it.processRowStart(t)
			case tagCell:
				if err := it.processCellStart(t, current); err != nil {
					return err
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case tagRow:
				if it.processRowEnd(current) {
					it.rowBuffer = current
					return nil
				}
				current = models.NewRow()
			case tagWorksheet:
				it.endReached = true
				it.rowBuffer = nil
				return nil
			}
		}
	}
}

// processDimensionStart derives the sheet-wide column count from the
// dimension range's bottom-right cell reference, e.g. "A1:M13" -> 13.
// Single-cell or malformed dimensions leave the count unknown.
func (it *RowIterator) processDimensionStart(start xml.StartElement) {
	ref := attrValue(start, attrRef)
	if !strings.Contains(ref, ":") {
		return
	}
	if count, err := columnCountFromDimension(ref); err == nil {
		it.numColumns = count
	}
}

// processRowStart resets per-row state and returns the row under
// construction, pre-filled with this row's column count: the explicit
// spans hint when present, else the sheet-wide column count.
func (it *RowIterator) processRowStart(start xml.StartElement) *models.Row {
	it.lastColumnIndexProcessed = -1
	it.lastRowIndexProcessed = it.rowIndex(start)

	numColumnsForRow := it.numColumns
	if spans := attrValue(start, attrSpans); spans != "" {
		if i := strings.IndexByte(spans, ':'); i >= 0 {
			if n, err := strconv.Atoi(spans[i+1:]); err == nil {
				numColumnsForRow = n
			}
		}
	}
	return models.NewEmptyRow(numColumnsForRow)
}

// rowIndex resolves the row's 1-based index: the explicit "r"
// attribute when present, else one past the last processed row. Rows
// omitted because they are empty keep subsequent indices correct.
func (it *RowIterator) rowIndex(start xml.StartElement) int {
	if raw := attrValue(start, attrRowID); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return it.lastRowIndexProcessed + 1
}

// processCellStart expands the cell's subtree, decodes its value, and
// places it at the resolved column index, extending the row as needed.
// A value that fails decoding becomes an error-typed cell carrying the
// raw content; iteration continues.
func (it *RowIterator) processCellStart(start xml.StartElement, current *models.Row) error {
	var c xmlCell
	if err := it.decoder.DecodeElement(&c, &start); err != nil {
		return fmt.Errorf("process %s: %w", it.filePath,
			&entryError{Entry: it.sheetEntryPath, Err: err})
	}
	colIndex, err := it.columnIndex(&c)
	if err != nil {
		return fmt.Errorf("process %s: %w", it.filePath,
			&entryError{Entry: it.sheetEntryPath, Err: err})
	}

	cell, err := it.values.decode(&c)
	if err != nil {
		cell = models.NewErrorCell(c.Value)
	}
	current.SetCell(colIndex, cell)
	it.lastColumnIndexProcessed = colIndex
	return nil
}

// columnIndex resolves the cell's 0-based column index: the explicit
// reference attribute when present, else one past the last processed
// column. Cells omitted because they are empty keep subsequent indices
// correct.
func (it *RowIterator) columnIndex(c *xmlCell) (int, error) {
	if c.Ref == "" {
		return it.lastColumnIndexProcessed + 1, nil
	}
	colIndex, _, err := parseCellRef(c.Ref)
	if err != nil {
		return 0, err
	}
	return colIndex, nil
}

// processRowEnd decides whether the assembled row is surfaced. A
// structurally empty row is discarded when empty rows are not
// preserved, and scanning continues. Cell placement keeps the row
// dense, so no extra padding is needed when the column count was never
// determined: the row already spans the highest set index + 1.
func (it *RowIterator) processRowEnd(current *models.Row) bool {
	if current.IsEmpty() && !it.preserveEmptyRows {
		return false
	}
	it.numReadRows++
	return true
}

// Current returns the row for the cursor position. When preserving
// empty rows and the buffered data belongs to a later row index, a
// fresh empty row is returned instead: gaps in explicit row indices
// become visible without re-reading.
func (it *RowIterator) Current() *models.Row {
	if it.preserveEmptyRows && it.lastRowIndexProcessed != it.nextRowIndexToBeProcessed {
		return models.NewRow()
	}
	return it.rowBuffer
}

// Key returns the position of the current row. The two modes
// intentionally differ and are kept for compatibility: without empty
// row preservation this is the 0-based count of rows read; with it,
// the 1-based row index being surfaced.
func (it *RowIterator) Key() int {
	if it.preserveEmptyRows {
		return it.nextRowIndexToBeProcessed
	}
	return it.numReadRows - 1
}

// Close releases the worksheet entry and the container. It is safe to
// call multiple times.
func (it *RowIterator) Close() error {
	it.closeEntry()
	if it.container == nil {
		return nil
	}
	err := it.container.Close()
	it.container = nil
	return err
}

func (it *RowIterator) closeEntry() {
	if it.entry != nil {
		_ = it.entry.Close()
		it.entry = nil
		it.decoder = nil
	}
}

// attrValue returns the value of the named attribute, or "".
func attrValue(start xml.StartElement, name string) string {
	for _, a := range start.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}
