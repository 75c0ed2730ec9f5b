// Package parse decodes "key;value\n" records into byte keys and scaled
// integer values without allocating.
package parse

import (
	"bytes"
	"errors"
	"fmt"
)

const (
	Delimiter  = ';'
	Terminator = '\n'

	// FractionDigits is a precondition of the input file class: every value
	// carries exactly this many digits after the point. The decoder does not
	// locate the point; it folds every digit into the accumulator, so values
	// with another number of fractional digits decode to the wrong magnitude.
	FractionDigits = 1
	// Scale is 10^FractionDigits.
	Scale = 10

	// MaxScaled bounds the magnitude of a decoded value (99.9).
	MaxScaled = 999
)

var (
	ErrMalformedRecord = errors.New("malformed record")
	ErrNumericOverflow = errors.New("numeric overflow")
)

// MalformedRecordError reports the raw line and its absolute byte offset.
type MalformedRecordError struct {
	Offset   int64
	Line     []byte
	Reason   string
	Overflow bool
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record at offset %d: %s: %q", e.Offset, e.Reason, e.Line)
}

func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord || (e.Overflow && target == ErrNumericOverflow)
}

// Parser walks a buffer of whole records. It is a one-shot sequence: once
// Next returns false it keeps returning false.
type Parser struct {
	buf  []byte
	pos  int
	base int64
	err  error
}

// NewParser parses buf; base is the file offset of buf[0] and is only used
// in error reports.
func NewParser(buf []byte, base int64) *Parser {
	return &Parser{buf: buf, base: base}
}

// Reset points p at a new buffer, so a worker can reuse one Parser.
func (p *Parser) Reset(buf []byte, base int64) {
	p.buf = buf
	p.pos = 0
	p.base = base
	p.err = nil
}

// Next returns the next record. The key aliases the parser's buffer.
func (p *Parser) Next() (key []byte, value int64, ok bool) {
	if p.err != nil || p.pos >= len(p.buf) {
		return nil, 0, false
	}

	start := p.pos
	rest := p.buf[start:]
	end := bytes.IndexByte(rest, Terminator)
	next := start + end + 1
	if end < 0 {
		// last line without a terminator
		end = len(rest)
		next = len(p.buf)
	}
	line := rest[:end]

	semi := bytes.IndexByte(line, Delimiter)
	if semi < 0 {
		p.fail(start, line, "missing delimiter", false)
		return nil, 0, false
	}

	value, reason, overflow := decode(line[semi+1:])
	if reason != "" {
		p.fail(start, line, reason, overflow)
		return nil, 0, false
	}

	p.pos = next
	return line[:semi], value, true
}

func (p *Parser) Err() error {
	return p.err
}

// Offset is the absolute file offset of the next unread byte.
func (p *Parser) Offset() int64 {
	return p.base + int64(p.pos)
}

func (p *Parser) fail(start int, line []byte, reason string, overflow bool) {
	p.err = &MalformedRecordError{
		Offset:   p.base + int64(start),
		Line:     append([]byte(nil), line...),
		Reason:   reason,
		Overflow: overflow,
	}
	p.pos = len(p.buf)
}

// decode folds "-?digits(.digit)?" into a scaled integer.
func decode(raw []byte) (value int64, reason string, overflow bool) {
	i := 0
	negative := false
	if len(raw) > 0 && raw[0] == '-' {
		negative = true
		i++
	}

	digits := 0
	point := false
	var acc int64
	for ; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c >= '0' && c <= '9':
			acc = acc*10 + int64(c-'0')
			if acc > MaxScaled {
				return 0, "value out of range", true
			}
			digits++
		case c == '.' && !point:
			point = true
		default:
			return 0, "invalid numeric literal", false
		}
	}
	if digits == 0 {
		return 0, "missing value", false
	}

	if negative {
		acc = -acc
	}
	return acc, "", false
}
