package xlsx

import (
	"fmt"
	"strings"
)

// columnNameToIndex converts an alphabetic column reference like "A" or
// "AA" into a 0-based column index.
func columnNameToIndex(name string) (int, error) {
	if name == "" {
		return 0, fmt.Errorf("empty column reference")
	}
	index := 0
	for i := 0; i < len(name); i++ {
		ch := name[i]
		if ch >= 'a' && ch <= 'z' {
			ch -= 'a' - 'A'
		}
		if ch < 'A' || ch > 'Z' {
			return 0, fmt.Errorf("invalid column reference %q", name)
		}
		index = index*26 + int(ch-'A') + 1
	}
	return index - 1, nil
}

// parseCellRef splits a cell reference like "C7" into a 0-based column
// index and a 1-based row index. Absolute markers ($) are tolerated.
func parseCellRef(ref string) (colIndex, rowIndex int, err error) {
	ref = strings.ReplaceAll(ref, "$", "")
	i := 0
	for i < len(ref) && !isDigit(ref[i]) {
		i++
	}
	if i == 0 || i == len(ref) {
		return 0, 0, fmt.Errorf("invalid cell reference %q", ref)
	}
	colIndex, err = columnNameToIndex(ref[:i])
	if err != nil {
		return 0, 0, err
	}
	rowIndex = 0
	for ; i < len(ref); i++ {
		if !isDigit(ref[i]) {
			return 0, 0, fmt.Errorf("invalid cell reference %q", ref)
		}
		rowIndex = rowIndex*10 + int(ref[i]-'0')
	}
	if rowIndex < 1 {
		return 0, 0, fmt.Errorf("invalid row in cell reference %q", ref)
	}
	return colIndex, rowIndex, nil
}

// columnCountFromDimension derives a sheet's column count from a
// dimension range like "A1:M13", using the bottom-right cell reference.
// A single-cell dimension like "B4" also works.
func columnCountFromDimension(ref string) (int, error) {
	last := ref
	if i := strings.IndexByte(ref, ':'); i >= 0 {
		last = ref[i+1:]
	}
	colIndex, _, err := parseCellRef(last)
	if err != nil {
		return 0, fmt.Errorf("invalid dimension %q: %w", ref, err)
	}
	return colIndex + 1, nil
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
