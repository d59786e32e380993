// Package models defines the row and cell data model shared by the readers.
package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// CellType describes the decoded type of a cell value.
type CellType int

const (
	// CellTypeEmpty marks a cell with no content.
	CellTypeEmpty CellType = iota
	// CellTypeString marks a cell holding a text value.
	CellTypeString
	// CellTypeNumeric marks a cell holding a float64 value.
	CellTypeNumeric
	// CellTypeBoolean marks a cell holding a bool value.
	CellTypeBoolean
	// CellTypeDate marks a cell holding a time.Time value.
	CellTypeDate
	// CellTypeError marks a cell whose raw content could not be decoded;
	// Value holds the original unparsed string.
	CellTypeError
)

// String returns the lowercase name of the cell type.
func (t CellType) String() string {
	switch t {
	case CellTypeEmpty:
		return "empty"
	case CellTypeString:
		return "string"
	case CellTypeNumeric:
		return "numeric"
	case CellTypeBoolean:
		return "boolean"
	case CellTypeDate:
		return "date"
	case CellTypeError:
		return "error"
	default:
		return fmt.Sprintf("celltype(%d)", int(t))
	}
}

// Cell is a single field value plus its type tag.
type Cell struct {
	Value any
	Type  CellType
}

// NewEmptyCell creates a cell with no content.
func NewEmptyCell() Cell {
	return Cell{Value: nil, Type: CellTypeEmpty}
}

// NewStringCell creates a text cell.
func NewStringCell(v string) Cell {
	return Cell{Value: v, Type: CellTypeString}
}

// NewNumericCell creates a numeric cell.
func NewNumericCell(v float64) Cell {
	return Cell{Value: v, Type: CellTypeNumeric}
}

// NewBooleanCell creates a boolean cell.
func NewBooleanCell(v bool) Cell {
	return Cell{Value: v, Type: CellTypeBoolean}
}

// NewDateCell creates a date/time cell.
func NewDateCell(v time.Time) Cell {
	return Cell{Value: v, Type: CellTypeDate}
}

// NewErrorCell creates an error cell carrying the raw value that failed
// to decode.
func NewErrorCell(raw string) Cell {
	return Cell{Value: raw, Type: CellTypeError}
}

// IsEmpty reports whether the cell is semantically empty: either
// empty-typed, or a string cell holding "".
func (c Cell) IsEmpty() bool {
	if c.Type == CellTypeEmpty {
		return true
	}
	if c.Type == CellTypeString {
		s, ok := c.Value.(string)
		return ok && s == ""
	}
	return false
}

// MarshalJSON renders the cell as {"type": ..., "value": ...}.
// Dates are formatted as RFC 3339 strings.
func (c Cell) MarshalJSON() ([]byte, error) {
	v := c.Value
	if t, ok := v.(time.Time); ok {
		v = t.Format(time.RFC3339)
	}
	return json.Marshal(struct {
		Type  string `json:"type"`
		Value any    `json:"value"`
	}{Type: c.Type.String(), Value: v})
}
