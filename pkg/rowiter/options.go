package rowiter

// Options configures how a file is opened and iterated.
type Options struct {
	// FieldDelimiter separates fields in delimited text files.
	// Defaults to ',' (or '\t' for .tsv files).
	FieldDelimiter byte
	// FieldEnclosure wraps delimited text fields. Defaults to '"'.
	FieldEnclosure byte
	// Encoding is the declared encoding of delimited text files, e.g.
	// "UTF-8" or "UTF-16LE". Defaults to UTF-8.
	Encoding string
	// ShouldPreserveEmptyRows surfaces structurally empty rows instead
	// of skipping them.
	ShouldPreserveEmptyRows bool
	// SheetName selects an xlsx worksheet by name. If nil, SheetIndex
	// applies.
	SheetName *string
	// SheetIndex selects an xlsx worksheet by 0-based position. If
	// nil, the first sheet is read.
	SheetIndex *int
}

// DefaultOptions returns the default iteration options: comma
// delimiter, double-quote enclosure, UTF-8, empty rows skipped, first
// sheet.
func DefaultOptions() Options {
	return Options{}
}

// sheetName resolves the worksheet name override.
func (o Options) sheetName() string {
	if o.SheetName != nil {
		return *o.SheetName
	}
	return ""
}

// sheetIndex resolves the worksheet index override.
func (o Options) sheetIndex() int {
	if o.SheetIndex != nil {
		return *o.SheetIndex
	}
	return 0
}
