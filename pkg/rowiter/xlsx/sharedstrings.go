package xlsx

import (
	"archive/zip"
	"encoding/xml"
	"io"
	"strings"
)

// sharedStrings is the workbook's shared-string lookup table. It is
// read once per iterator and indexed by the numeric references cells
// carry in place of inline text.
type sharedStrings struct {
	strings []string
}

// readSharedStrings streams xl/sharedStrings.xml into memory. A
// workbook without the part yields an empty table.
func readSharedStrings(zr *zip.Reader) (*sharedStrings, error) {
	f := findEntry(zr, sharedStringsPath)
	if f == nil {
		return &sharedStrings{}, nil
	}
	rc, err := f.Open()
	if err != nil {
		return nil, &entryError{Entry: sharedStringsPath, Err: err}
	}
	defer rc.Close()

	table := &sharedStrings{}
	decoder := xml.NewDecoder(rc)
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &entryError{Entry: sharedStringsPath, Err: err}
		}
		start, ok := token.(xml.StartElement)
		if !ok || start.Name.Local != "si" {
			continue
		}
		var item struct {
			T    *string `xml:"t"`
			Runs []struct {
				T string `xml:"t"`
			} `xml:"r"`
		}
		if err := decoder.DecodeElement(&item, &start); err != nil {
			return nil, &entryError{Entry: sharedStringsPath, Err: err}
		}
		if item.T != nil {
			table.strings = append(table.strings, *item.T)
			continue
		}
		// Rich-text entries split the string across runs.
		var sb strings.Builder
		for _, run := range item.Runs {
			sb.WriteString(run.T)
		}
		table.strings = append(table.strings, sb.String())
	}
	return table, nil
}

// Get returns the shared string at the given index.
func (t *sharedStrings) Get(index int) (string, bool) {
	if index < 0 || index >= len(t.strings) {
		return "", false
	}
	return t.strings[index], true
}
