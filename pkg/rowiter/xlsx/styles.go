package xlsx

import (
	"archive/zip"
	"encoding/xml"
	"strings"
)

// Builtin number-format ids that render a numeric value as a date or
// time (ECMA-376 §18.8.30).
var builtinDateFormatIDs = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true,
	19: true, 20: true, 21: true, 22: true,
	45: true, 46: true, 47: true,
}

// styleRegistry answers whether a cell style formats numeric values as
// dates. It holds the numFmtId per cell-xf index and the custom format
// codes declared by the workbook.
type styleRegistry struct {
	xfNumFmtIDs   []int
	customFormats map[int]string
}

// readStyles parses xl/styles.xml. A workbook without the part yields
// a registry that never reports date formatting.
func readStyles(zr *zip.Reader) (*styleRegistry, error) {
	data, err := readEntry(zr, stylesPath)
	if err != nil {
		return nil, err
	}
	reg := &styleRegistry{customFormats: make(map[int]string)}
	if data == nil {
		return reg, nil
	}

	var sheet struct {
		NumFmts struct {
			NumFmt []struct {
				ID   int    `xml:"numFmtId,attr"`
				Code string `xml:"formatCode,attr"`
			} `xml:"numFmt"`
		} `xml:"numFmts"`
		CellXfs struct {
			Xf []struct {
				NumFmtID int `xml:"numFmtId,attr"`
			} `xml:"xf"`
		} `xml:"cellXfs"`
	}
	if err := xml.Unmarshal(data, &sheet); err != nil {
		return nil, &entryError{Entry: stylesPath, Err: err}
	}
	for _, nf := range sheet.NumFmts.NumFmt {
		reg.customFormats[nf.ID] = nf.Code
	}
	for _, xf := range sheet.CellXfs.Xf {
		reg.xfNumFmtIDs = append(reg.xfNumFmtIDs, xf.NumFmtID)
	}
	return reg, nil
}

// shouldFormatAsDate reports whether the given cell-xf style index
// maps to a date/time number format.
func (r *styleRegistry) shouldFormatAsDate(styleIndex int) bool {
	if styleIndex < 0 || styleIndex >= len(r.xfNumFmtIDs) {
		return false
	}
	numFmtID := r.xfNumFmtIDs[styleIndex]
	if builtinDateFormatIDs[numFmtID] {
		return true
	}
	if code, ok := r.customFormats[numFmtID]; ok {
		return formatCodeLooksLikeDate(code)
	}
	return false
}

// formatCodeLooksLikeDate applies the usual heuristic: after removing
// quoted literals, escapes, and bracketed sections, any remaining
// y/m/d/h/s token marks the format as a date or time.
func formatCodeLooksLikeDate(code string) bool {
	var sb strings.Builder
	inQuote := false
	inBracket := false
	for i := 0; i < len(code); i++ {
		ch := code[i]
		switch {
		case inQuote:
			if ch == '"' {
				inQuote = false
			}
		case inBracket:
			if ch == ']' {
				inBracket = false
			}
		case ch == '"':
			inQuote = true
		case ch == '[':
			inBracket = true
		case ch == '\\':
			i++ // skip the escaped character
		default:
			sb.WriteByte(ch)
		}
	}
	return strings.ContainsAny(strings.ToLower(sb.String()), "ymdhs")
}
