// Package xlsx implements a forward row iterator over worksheets
// stored in the ZIP-packaged OOXML spreadsheet format. The worksheet
// XML is processed as a stream of pull events, so memory use is
// bounded by one row regardless of sheet size.
package xlsx

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

// ErrSheetNotFound indicates that the requested sheet does not exist
// in the workbook.
var ErrSheetNotFound = errors.New("sheet not found")

const (
	workbookPath      = "xl/workbook.xml"
	workbookRelsPath  = "xl/_rels/workbook.xml.rels"
	sharedStringsPath = "xl/sharedStrings.xml"
	stylesPath        = "xl/styles.xml"
)

// entryError wraps a failure to open or process an entry inside the
// container.
type entryError struct {
	Entry string
	Err   error
}

func (e *entryError) Error() string {
	return fmt.Sprintf("entry %s: %v", e.Entry, e.Err)
}

func (e *entryError) Unwrap() error {
	return e.Err
}

// sheetMeta describes one worksheet declared in the workbook part.
type sheetMeta struct {
	Name      string
	EntryPath string
}

// workbookInfo is the workbook-level metadata the row iterator needs:
// the ordered sheet list and the serial-date epoch flag.
type workbookInfo struct {
	Sheets   []sheetMeta
	Date1904 bool
}

// findEntry locates an entry in the container by its inner path,
// tolerating a leading path separator.
func findEntry(zr *zip.Reader, entryPath string) *zip.File {
	want := strings.TrimPrefix(entryPath, "/")
	for _, f := range zr.File {
		if strings.TrimPrefix(f.Name, "/") == want {
			return f
		}
	}
	return nil
}

// readEntry reads an entire entry into memory. Returns nil data (no
// error) when the entry does not exist.
func readEntry(zr *zip.Reader, entryPath string) ([]byte, error) {
	f := findEntry(zr, entryPath)
	if f == nil {
		return nil, nil
	}
	rc, err := f.Open()
	if err != nil {
		return nil, &entryError{Entry: entryPath, Err: err}
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, &entryError{Entry: entryPath, Err: err}
	}
	return data, nil
}

// readWorkbookInfo parses xl/workbook.xml and its relationships part to
// resolve each sheet's name to the container path of its XML entry.
func readWorkbookInfo(zr *zip.Reader) (*workbookInfo, error) {
	wbData, err := readEntry(zr, workbookPath)
	if err != nil {
		return nil, err
	}
	if wbData == nil {
		return nil, &entryError{Entry: workbookPath, Err: errors.New("missing entry")}
	}

	var wb struct {
		WorkbookPr struct {
			Date1904 string `xml:"date1904,attr"`
		} `xml:"workbookPr"`
		Sheets struct {
			Sheet []struct {
				Name string `xml:"name,attr"`
				RID  string `xml:"id,attr"`
			} `xml:"sheet"`
		} `xml:"sheets"`
	}
	if err := xml.Unmarshal(wbData, &wb); err != nil {
		return nil, &entryError{Entry: workbookPath, Err: err}
	}

	relTargets, err := readWorkbookRels(zr)
	if err != nil {
		return nil, err
	}

	info := &workbookInfo{
		Date1904: wb.WorkbookPr.Date1904 == "1" || strings.EqualFold(wb.WorkbookPr.Date1904, "true"),
	}
	for _, s := range wb.Sheets.Sheet {
		target, ok := relTargets[s.RID]
		if !ok {
			continue
		}
		info.Sheets = append(info.Sheets, sheetMeta{
			Name:      s.Name,
			EntryPath: resolvePartPath(target),
		})
	}
	return info, nil
}

// readWorkbookRels maps relationship ids to part targets.
func readWorkbookRels(zr *zip.Reader) (map[string]string, error) {
	data, err := readEntry(zr, workbookRelsPath)
	if err != nil {
		return nil, err
	}
	targets := make(map[string]string)
	if data == nil {
		return targets, nil
	}
	var rels struct {
		Relationship []struct {
			ID     string `xml:"Id,attr"`
			Target string `xml:"Target,attr"`
		} `xml:"Relationship"`
	}
	if err := xml.Unmarshal(data, &rels); err != nil {
		return nil, &entryError{Entry: workbookRelsPath, Err: err}
	}
	for _, r := range rels.Relationship {
		targets[r.ID] = r.Target
	}
	return targets, nil
}

// resolvePartPath turns a workbook-relative relationship target into a
// container entry path. Targets starting with "/" are already absolute
// within the container.
func resolvePartPath(target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Clean("xl/" + target)
}
