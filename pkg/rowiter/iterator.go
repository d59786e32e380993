// Package rowiter provides forward, memory-bounded row iteration over
// tabular spreadsheet files: delimited text (CSV) and ZIP-packaged XML
// worksheets (XLSX).
package rowiter

import "github.com/ymgch/rowiter-go/pkg/rowiter/models"

// RowIterator is the forward row cursor both readers implement. It is
// single-pass and read-once: Rewind restarts iteration from the first
// row by reopening the source, but no random seeking is supported.
//
// The usual loop:
//
//	it, err := rowiter.Open(path, rowiter.DefaultOptions())
//	if err != nil { ... }
//	defer it.Close()
//	if err := it.Rewind(); err != nil { ... }
//	for it.Valid() {
//		row := it.Current()
//		...
//		if err := it.Next(); err != nil { ... }
//	}
//
// Implementations are not safe for concurrent use.
type RowIterator interface {
	// Rewind resets iteration to the beginning of the source,
	// reopening or repositioning the underlying stream, and primes the
	// first row.
	Rewind() error
	// Valid reports whether a source is open and end-of-source has not
	// been reached.
	Valid() bool
	// Next advances the cursor by one row. Calling Next past
	// end-of-source keeps Valid false without error.
	Next() error
	// Current returns the buffered row for the current position, or
	// nil when no row is buffered.
	Current() *models.Row
	// Key returns the sequential position of the current row; exact
	// semantics are documented per implementation.
	Key() int
	// Close releases any held resource. It is safe to call multiple
	// times.
	Close() error
}
