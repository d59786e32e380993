package rowiter

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ymgch/rowiter-go/pkg/rowiter/csv"
	"github.com/ymgch/rowiter-go/pkg/rowiter/xlsx"
)

// Open creates a row iterator for the file at path, picking the reader
// by file extension: .csv/.tsv/.txt are read as delimited text,
// .xlsx/.xlsm as packaged XML worksheets. The returned iterator must
// be rewound before use and closed when done.
func Open(path string, opts Options) (RowIterator, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, &OpenError{Path: path, Err: ErrFileNotFound}
		}
		return nil, &OpenError{Path: path, Err: err}
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv", ".txt", ".tsv":
		delimiter := opts.FieldDelimiter
		if delimiter == 0 && ext == ".tsv" {
			delimiter = '\t'
		}
		it, err := csv.NewRowIterator(path, csv.Options{
			FieldDelimiter:          delimiter,
			FieldEnclosure:          opts.FieldEnclosure,
			Encoding:                opts.Encoding,
			ShouldPreserveEmptyRows: opts.ShouldPreserveEmptyRows,
		})
		if err != nil {
			return nil, &OpenError{Path: path, Err: err}
		}
		return it, nil

	case ".xlsx", ".xlsm":
		it, err := xlsx.NewRowIterator(path, xlsx.Options{
			SheetName:               opts.sheetName(),
			SheetIndex:              opts.sheetIndex(),
			ShouldPreserveEmptyRows: opts.ShouldPreserveEmptyRows,
		})
		if err != nil {
			return nil, &OpenError{Path: path, Err: err}
		}
		return it, nil
	}
	return nil, &OpenError{Path: path, Err: ErrUnsupportedFormat}
}
