// Package csv implements a forward row iterator over delimited text
// files. Iteration is single-pass and memory-bounded: one record is
// buffered at a time, and the source can be restarted with Rewind.
package csv

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/ymgch/rowiter-go/pkg/rowiter/models"
)

const (
	defaultDelimiter = ','
	defaultEnclosure = '"'
	defaultEncoding  = "UTF-8"
)

// Options configures a delimited-text row iterator.
type Options struct {
	// FieldDelimiter separates fields within a record. Defaults to ','.
	FieldDelimiter byte
	// FieldEnclosure wraps fields that contain delimiters or newlines.
	// Defaults to '"'.
	FieldEnclosure byte
	// Encoding is the declared source encoding (e.g. "UTF-8",
	// "UTF-16LE"). Defaults to UTF-8.
	Encoding string
	// ShouldPreserveEmptyRows surfaces blank input lines as one-cell
	// empty rows instead of skipping them.
	ShouldPreserveEmptyRows bool
}

// RowIterator reads a delimited text file one record at a time. All
// yielded cells are string-typed; absent values are coerced to "".
//
// A RowIterator is not safe for concurrent use.
type RowIterator struct {
	filePath          string
	delimiter         byte
	enclosure         byte
	cs                charset
	preserveEmptyRows bool

	file        *os.File
	parser      *lineParser
	numReadRows int
	buffer      *models.Row
	endReached  bool
}

// NewRowIterator creates an iterator over the delimited text file at
// filePath. It fails if the declared encoding is not supported; the
// file itself is not opened until Rewind.
func NewRowIterator(filePath string, opts Options) (*RowIterator, error) {
	if opts.FieldDelimiter == 0 {
		opts.FieldDelimiter = defaultDelimiter
	}
	if opts.FieldEnclosure == 0 {
		opts.FieldEnclosure = defaultEnclosure
	}
	if opts.Encoding == "" {
		opts.Encoding = defaultEncoding
	}
	cs, err := lookupCharset(opts.Encoding)
	if err != nil {
		return nil, err
	}
	return &RowIterator{
		filePath:          filePath,
		delimiter:         opts.FieldDelimiter,
		enclosure:         opts.FieldEnclosure,
		cs:                cs,
		preserveEmptyRows: opts.ShouldPreserveEmptyRows,
	}, nil
}

// Rewind (re)opens the file, skips a byte-order mark matching the
// declared encoding if one is present, resets all counters, and primes
// the first row.
func (it *RowIterator) Rewind() error {
	if err := it.Close(); err != nil {
		return err
	}
	f, err := os.Open(it.filePath)
	if err != nil {
		return fmt.Errorf("open %s: %w", it.filePath, err)
	}
	it.file = f
	r := bufio.NewReader(f)
	if err := skipBOM(r, it.cs); err != nil {
		_ = it.Close()
		return fmt.Errorf("read %s: %w", it.filePath, err)
	}
	it.parser = newLineParser(r, it.delimiter, it.enclosure)
	it.numReadRows = 0
	it.buffer = nil
	it.endReached = false
	return it.Next()
}

// skipBOM advances the reader past a leading byte-order mark if the
// stream starts with the declared encoding's BOM. Without a match the
// reader stays at position 0.
func skipBOM(r *bufio.Reader, cs charset) error {
	if len(cs.bom) == 0 {
		return nil
	}
	head, err := r.Peek(len(cs.bom))
	if err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}
	if bytes.Equal(head, cs.bom) {
		_, _ = r.Discard(len(cs.bom))
	}
	return nil
}

// Valid reports whether the source is open and end-of-file has not
// been reached.
func (it *RowIterator) Valid() bool {
	return it.file != nil && !it.endReached
}

// Next advances to the next row, skipping blank lines unless empty
// rows are preserved. Calling Next past end-of-file is a no-op.
func (it *RowIterator) Next() error {
	it.buffer = nil
	if it.file == nil || it.endReached {
		return nil
	}
	for {
		fields, err := it.parser.readRecord()
		if err == io.EOF {
			it.endReached = true
			return nil
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", it.filePath, err)
		}

		if len(fields) == 1 && fields[0].isNull() {
			if !it.preserveEmptyRows {
				continue
			}
			it.numReadRows++
			it.buffer = models.NewRow(models.NewStringCell(""))
			return nil
		}

		row, err := it.rowFromFields(fields)
		if err != nil {
			return err
		}
		it.numReadRows++
		it.buffer = row
		return nil
	}
}

// rowFromFields converts raw fields into a row of string cells,
// normalizing each field to UTF-8.
func (it *RowIterator) rowFromFields(fields []rawField) (*models.Row, error) {
	cells := make([]models.Cell, len(fields))
	for i, f := range fields {
		value, err := it.cs.normalizeField(f.data)
		if err != nil {
			return nil, err
		}
		cells[i] = models.NewStringCell(value)
	}
	return models.NewRow(cells...), nil
}

// Current returns the buffered row for the current position, or nil
// when no row is buffered.
func (it *RowIterator) Current() *models.Row {
	return it.buffer
}

// Key returns the 0-based position of the current row: the first
// yielded row has key 0.
func (it *RowIterator) Key() int {
	return it.numReadRows - 1
}

// Close releases the underlying file handle. It is safe to call
// multiple times.
func (it *RowIterator) Close() error {
	if it.file == nil {
		return nil
	}
	err := it.file.Close()
	it.file = nil
	it.parser = nil
	return err
}
