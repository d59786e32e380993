package models

import "encoding/json"

// Row is one logical record: an ordered sequence of cells. A row is
// mutable while a reader assembles it and must be treated as immutable
// once yielded; readers never alias a yielded row's cells back into
// their own state.
type Row struct {
	cells []Cell
}

// NewRow creates a row from the given cells.
func NewRow(cells ...Cell) *Row {
	return &Row{cells: cells}
}

// NewEmptyRow creates a row pre-filled with numCells empty cells.
func NewEmptyRow(numCells int) *Row {
	cells := make([]Cell, numCells)
	for i := range cells {
		cells[i] = NewEmptyCell()
	}
	return &Row{cells: cells}
}

// Len returns the number of cells in the row.
func (r *Row) Len() int {
	return len(r.cells)
}

// Cells returns the row's cell sequence.
func (r *Row) Cells() []Cell {
	return r.cells
}

// Cell returns the cell at the given 0-based index, or an empty cell
// when the index is out of range.
func (r *Row) Cell(index int) Cell {
	if index < 0 || index >= len(r.cells) {
		return NewEmptyCell()
	}
	return r.cells[index]
}

// SetCell places a cell at the given 0-based index, extending the row
// with empty filler cells if the index is beyond the current length.
func (r *Row) SetCell(index int, c Cell) {
	for len(r.cells) <= index {
		r.cells = append(r.cells, NewEmptyCell())
	}
	r.cells[index] = c
}

// IsEmpty reports whether every cell in the row is semantically empty.
// A zero-length row is empty.
func (r *Row) IsEmpty() bool {
	for _, c := range r.cells {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}

// MarshalJSON renders the row as a JSON array of cells.
func (r *Row) MarshalJSON() ([]byte, error) {
	if r.cells == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(r.cells)
}
