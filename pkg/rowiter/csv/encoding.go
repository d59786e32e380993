package csv

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

// ErrEncodingConversion indicates that a field's bytes could not be
// converted to UTF-8 under the declared source encoding.
var ErrEncodingConversion = errors.New("encoding conversion failed")

// ErrUnsupportedEncoding indicates an unknown declared source encoding.
var ErrUnsupportedEncoding = errors.New("unsupported encoding")

// fieldTrimCutset mirrors the byte-level whitespace/NUL trimming the
// raw field parser needs: splitting wide-encoded input on single
// delimiter bytes leaves stray NUL and whitespace bytes at the edges
// of fields.
const fieldTrimCutset = " \t\n\r\x00\x0B"

// charset bundles a declared source encoding with its BOM signature
// and code-unit layout.
type charset struct {
	name      string
	enc       encoding.Encoding
	bom       []byte
	unitSize  int // bytes per code unit: 1, 2 or 4
	bigEndian bool
}

var charsets = []charset{
	{name: "UTF-8", enc: unicode.UTF8, bom: []byte{0xEF, 0xBB, 0xBF}, unitSize: 1},
	{name: "UTF-16LE", enc: unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), bom: []byte{0xFF, 0xFE}, unitSize: 2},
	{name: "UTF-16BE", enc: unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), bom: []byte{0xFE, 0xFF}, unitSize: 2, bigEndian: true},
	{name: "UTF-32LE", enc: utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM), bom: []byte{0xFF, 0xFE, 0x00, 0x00}, unitSize: 4},
	{name: "UTF-32BE", enc: utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM), bom: []byte{0x00, 0x00, 0xFE, 0xFF}, unitSize: 4, bigEndian: true},
	{name: "ISO-8859-1", enc: charmap.ISO8859_1, unitSize: 1},
	{name: "WINDOWS-1252", enc: charmap.Windows1252, unitSize: 1},
}

// lookupCharset resolves a declared encoding name, tolerating case and
// a missing hyphen (e.g. "utf8", "UTF-8").
func lookupCharset(name string) (charset, error) {
	normalize := func(s string) string {
		s = strings.ToUpper(s)
		return strings.ReplaceAll(s, "-", "")
	}
	want := normalize(name)
	for _, cs := range charsets {
		if normalize(cs.name) == want {
			return cs, nil
		}
	}
	return charset{}, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, name)
}

// isWide reports whether the encoding uses multi-byte code units.
func (cs charset) isWide() bool {
	return cs.unitSize > 1
}

// normalizeField converts one raw field to UTF-8. For wide encodings it
// first trims the whitespace/NUL artifacts the single-byte delimiter
// split leaves behind: leading bytes for little-endian layouts, trailing
// bytes for big-endian ones.
func (cs charset) normalizeField(raw []byte) (string, error) {
	if cs.isWide() {
		if cs.bigEndian {
			raw = bytes.TrimRight(raw, fieldTrimCutset)
		} else {
			raw = bytes.TrimLeft(raw, fieldTrimCutset)
		}
		if len(raw)%cs.unitSize != 0 {
			return "", fmt.Errorf("%w: %s field has partial code unit", ErrEncodingConversion, cs.name)
		}
	}
	decoded, err := cs.enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrEncodingConversion, cs.name, err)
	}
	if cs.name == "UTF-8" && !utf8.Valid(raw) {
		return "", fmt.Errorf("%w: invalid UTF-8 sequence", ErrEncodingConversion)
	}
	s := string(decoded)
	if cs.isWide() && !cs.bigEndian {
		// Little-endian line endings leave a decoded CR (and the low
		// byte of the record terminator) at the end of the last field.
		s = strings.TrimRight(s, "\r\x00")
	}
	return s, nil
}
