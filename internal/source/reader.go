// Package source turns a buffered byte stream into a stream of characters
// with position tracking, normalizing newline sequences to a single '\n'.
package source

import (
	"bufio"
	"io"

	"github.com/misat1505/tkom-sub000/internal/issue"
	"github.com/misat1505/tkom-sub000/internal/position"
)

// Reader pulls one byte-as-rune at a time off an underlying io.Reader,
// exposing STX before the first read and ETX forever after the stream is
// exhausted. Newline sequences (LF, CR, CR+LF, LF+CR) are folded into a
// single '\n'; the raw sequence length is kept only for offset accounting.
//
// Source text is treated as a stream of single bytes, matching the
// tokenizer's ASCII-only scope (spec's identifiers/operators/literals are
// all single-byte); this mirrors the reference reader's "byte as char"
// strategy rather than decoding UTF-8 runes.
type Reader struct {
	src         *bufio.Reader
	currentChar rune
	currentLen  int // raw byte length of currentChar, used when it is finally consumed
	pos         position.Position
}

// New wraps r in a Reader positioned before the first character (current()
// is STX).
func New(r io.Reader) *Reader {
	return &Reader{
		src:         bufio.NewReader(r),
		currentChar: position.STX,
	}
}

// Current returns the character the reader is positioned on.
func (r *Reader) Current() rune {
	return r.currentChar
}

// Position returns the position of the character exposed by Current.
func (r *Reader) Position() position.Position {
	return r.pos
}

// Next advances the reader by one character and returns it. After ETX has
// been reached, Next keeps returning ETX without error.
func (r *Reader) Next() (rune, error) {
	newChar, rawLen, err := r.readChar()
	if err != nil {
		return 0, issue.Wrap(issue.PhaseRead, r.pos, err, "reading character")
	}
	r.advancePosition(r.currentChar, r.currentLen)
	r.currentChar, r.currentLen = newChar, rawLen
	return r.currentChar, nil
}

func (r *Reader) readChar() (rune, int, error) {
	if c, n, ok, err := r.tryNewline(); err != nil {
		return 0, 0, err
	} else if ok {
		return c, n, nil
	}
	return r.plainChar()
}

// tryNewline peeks up to two bytes; if the first is a CR/LF byte it
// consumes one or two bytes (CR+LF / LF+CR collapse to one sequence) and
// reports the normalized '\n'.
func (r *Reader) tryNewline() (rune, int, bool, error) {
	first, err := r.src.Peek(1)
	if err != nil {
		if err == io.EOF {
			return 0, 0, false, nil
		}
		return 0, 0, false, err
	}
	if !isNewlineByte(first[0]) {
		return 0, 0, false, nil
	}

	consumed := 1
	second, err := r.src.Peek(2)
	if err == nil && len(second) == 2 && isNewlineByte(second[1]) && second[1] != first[0] {
		consumed = 2
	}
	if _, err := r.src.Discard(consumed); err != nil {
		return 0, 0, false, err
	}
	return '\n', consumed, true, nil
}

func isNewlineByte(b byte) bool {
	return b == '\n' || b == '\r'
}

func (r *Reader) plainChar() (rune, int, error) {
	b, err := r.src.ReadByte()
	if err != nil {
		if err == io.EOF {
			return position.ETX, 0, nil
		}
		return 0, 0, err
	}
	return rune(b), 1, nil
}

// advancePosition finalizes the position for the character that was
// current *before* this Next() call (previousChar, previousLen), the way
// the reference reader updates position for current_char just before
// overwriting it with the freshly read one.
func (r *Reader) advancePosition(previousChar rune, previousLen int) {
	switch previousChar {
	case position.STX:
		r.pos = position.Initial()
	case position.ETX:
		// ETX never advances.
	case '\n':
		r.pos.Line++
		r.pos.Column = 1
		r.pos.Offset += previousLen
	default:
		r.pos.Column++
		r.pos.Offset += previousLen
	}
}
