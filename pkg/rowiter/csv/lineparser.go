package csv

import (
	"bufio"
	"bytes"
	"io"
)

// rawField is one undecoded field of a delimited record. quoted
// distinguishes a deliberately enclosed empty string from an absent
// value: a blank input line parses to a single unquoted zero-length
// field, which is the record's null marker.
type rawField struct {
	data   []byte
	quoted bool
}

// isNull reports whether the field is the null/absent marker: an
// unenclosed field with no content (ignoring the stray whitespace/NUL
// bytes wide encodings leave behind).
func (f rawField) isNull() bool {
	return !f.quoted && len(bytes.Trim(f.data, fieldTrimCutset)) == 0
}

// lineParser scans delimited records off a byte stream. It operates on
// undecoded bytes: delimiter and enclosure are single ASCII bytes, and
// records are terminated by LF outside an enclosure. Enclosed fields
// may contain delimiters, newlines, and doubled enclosure characters.
type lineParser struct {
	r         *bufio.Reader
	delimiter byte
	enclosure byte
}

func newLineParser(r *bufio.Reader, delimiter, enclosure byte) *lineParser {
	return &lineParser{r: r, delimiter: delimiter, enclosure: enclosure}
}

// readRecord reads the next record. It returns io.EOF only when no
// bytes at all were consumed, so a final record without a trailing
// newline is still returned; a trailing newline at end of file does
// not produce a phantom record.
func (p *lineParser) readRecord() ([]rawField, error) {
	var (
		fields   []rawField
		cur      []byte
		quoted   bool
		inQuotes bool
		consumed bool
	)

	endField := func() {
		fields = append(fields, rawField{data: cur, quoted: quoted})
		cur = nil
		quoted = false
	}

	for {
		b, err := p.r.ReadByte()
		if err != nil {
			if err == io.EOF {
				if !consumed {
					return nil, io.EOF
				}
				endField()
				return fields, nil
			}
			return nil, err
		}
		consumed = true

		if inQuotes {
			if b == p.enclosure {
				next, err := p.r.Peek(1)
				if err == nil && next[0] == p.enclosure {
					_, _ = p.r.ReadByte()
					cur = append(cur, p.enclosure)
					continue
				}
				inQuotes = false
				continue
			}
			cur = append(cur, b)
			continue
		}

		switch b {
		case p.delimiter:
			endField()
		case p.enclosure:
			if len(cur) == 0 {
				inQuotes = true
				quoted = true
			} else {
				cur = append(cur, b)
			}
		case '\n':
			if n := len(cur); n > 0 && cur[n-1] == '\r' {
				cur = cur[:n-1]
			}
			endField()
			return fields, nil
		default:
			cur = append(cur, b)
		}
	}
}
