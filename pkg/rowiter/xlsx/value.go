package xlsx

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ymgch/rowiter-go/pkg/rowiter/models"
)

// errInvalidValue marks a cell whose raw content cannot be decoded
// into a typed value. The iterator recovers from it locally by
// substituting an error-typed cell.
var errInvalidValue = errors.New("invalid cell value")

// xmlCell mirrors one fully expanded <c> element of a worksheet.
type xmlCell struct {
	Ref       string `xml:"r,attr"`
	Type      string `xml:"t,attr"`
	Style     int    `xml:"s,attr"`
	Value     string `xml:"v"`
	InlineStr *struct {
		T    *string `xml:"t"`
		Runs []struct {
			T string `xml:"t"`
		} `xml:"r"`
	} `xml:"is"`
}

// valueDecoder turns expanded cell elements into typed cells, resolving
// shared-string references and date-formatted numeric styles.
type valueDecoder struct {
	sharedStrings *sharedStrings
	styles        *styleRegistry
	date1904      bool
}

// decode classifies the cell by its type attribute: s (shared string),
// str (formula string), inlineStr, b (boolean), e (spreadsheet error),
// d (ISO 8601 date), or numeric when absent. It returns errInvalidValue
// when the raw content does not match the declared type.
func (d *valueDecoder) decode(c *xmlCell) (models.Cell, error) {
	switch c.Type {
	case "s":
		index, err := strconv.Atoi(c.Value)
		if err != nil {
			return models.Cell{}, fmt.Errorf("%w: shared string reference %q", errInvalidValue, c.Value)
		}
		s, ok := d.sharedStrings.Get(index)
		if !ok {
			return models.Cell{}, fmt.Errorf("%w: shared string index %d out of range", errInvalidValue, index)
		}
		return models.NewStringCell(s), nil

	case "str":
		return models.NewStringCell(c.Value), nil

	case "inlineStr":
		if c.InlineStr == nil {
			return models.NewStringCell(""), nil
		}
		if c.InlineStr.T != nil {
			return models.NewStringCell(*c.InlineStr.T), nil
		}
		var sb strings.Builder
		for _, run := range c.InlineStr.Runs {
			sb.WriteString(run.T)
		}
		return models.NewStringCell(sb.String()), nil

	case "b":
		switch c.Value {
		case "1":
			return models.NewBooleanCell(true), nil
		case "0":
			return models.NewBooleanCell(false), nil
		}
		return models.Cell{}, fmt.Errorf("%w: boolean %q", errInvalidValue, c.Value)

	case "e":
		// Spreadsheet error literals like #DIV/0! are data, not a
		// decoding failure.
		return models.NewErrorCell(c.Value), nil

	case "d":
		t, err := parseISODate(c.Value)
		if err != nil {
			return models.Cell{}, fmt.Errorf("%w: date %q", errInvalidValue, c.Value)
		}
		return models.NewDateCell(t), nil

	case "", "n":
		return d.decodeNumeric(c)
	}
	return models.Cell{}, fmt.Errorf("%w: unknown cell type %q", errInvalidValue, c.Type)
}

func (d *valueDecoder) decodeNumeric(c *xmlCell) (models.Cell, error) {
	if c.Value == "" {
		return models.NewEmptyCell(), nil
	}
	value, err := strconv.ParseFloat(c.Value, 64)
	if err != nil {
		return models.Cell{}, fmt.Errorf("%w: numeric %q", errInvalidValue, c.Value)
	}
	if d.styles.shouldFormatAsDate(c.Style) {
		if value < 0 {
			return models.Cell{}, fmt.Errorf("%w: negative date serial %q", errInvalidValue, c.Value)
		}
		return models.NewDateCell(serialToTime(value, d.date1904)), nil
	}
	return models.NewNumericCell(value), nil
}

// serialToTime converts an Excel serial day number to a UTC time.
// The 1900 system counts from the virtual 1899-12-30 epoch (which
// absorbs the historical 1900 leap-year quirk for serials above 60);
// the 1904 system counts from 1904-01-01.
func serialToTime(serial float64, date1904 bool) time.Time {
	epoch := time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)
	if date1904 {
		epoch = time.Date(1904, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	seconds := math.Round(serial * 86400)
	return epoch.Add(time.Duration(seconds) * time.Second)
}

func parseISODate(value string) (time.Time, error) {
	layouts := []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}
	var lastErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
