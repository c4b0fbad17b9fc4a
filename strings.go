package ltmsg

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Strings are a 32-bit character count followed by the characters at a
// fixed width: 8 bits for ANSI (Windows-1252) and 16 bits for wide
// (UTF-16 code units, no byte order mark).
const (
	StringLenBits = 32
	ansiCharBits  = 8
	wideCharBits  = 16
)

var (
	ansi = charmap.Windows1252
	wide = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
)

// WriteString writes s as an ANSI string. Characters Windows-1252 cannot
// represent become '?'. An empty string writes a zero length.
func (w *Writer) WriteString(s string) {
	if w.err != nil {
		return
	}
	enc := make([]byte, 0, len(s))
	for _, c := range s {
		b, ok := ansi.EncodeRune(c)
		if !ok {
			b = '?'
		}
		enc = append(enc, b)
	}
	w.put(uint64(len(enc)), StringLenBits)
	w.WriteData(enc, uint32(len(enc))*ansiCharBits)
}

// WriteWString writes s as a wide string.
func (w *Writer) WriteWString(s string) {
	if w.err != nil {
		return
	}
	enc, err := wide.NewEncoder().String(s)
	if err != nil {
		w.setError(fmt.Errorf("%w: %v", ErrInvalidArgument, err))
		return
	}
	// Little-endian code units are already in wire bit order.
	w.put(uint64(len(enc)/2), StringLenBits)
	w.WriteData([]byte(enc), uint32(len(enc))*8)
}

// stringLen peeks at a string header and checks that all n characters of
// width bits are present.
func (r *Reader) stringLen(width uint) (uint32, error) {
	v, err := r.peekBits64("string length", StringLenBits)
	if err != nil {
		return 0, err
	}
	if need := StringLenBits + v*uint64(width); uint64(r.pos)+need > uint64(r.size) {
		return 0, r.outOfRange("string", uint(need))
	}
	return uint32(v), nil
}

// ReadString reads an ANSI string into buf, copying at most len(buf)-1
// characters followed by a NUL. It always returns the full length of the
// string, so a result >= len(buf) means the copy was truncated. The whole
// string is consumed either way.
func (r *Reader) ReadString(buf []byte) (int, error) {
	n, err := r.stringLen(ansiCharBits)
	if err != nil {
		return 0, err
	}
	if len(buf) > 0 {
		m := min(n, uint32(len(buf)-1))
		copyBits(buf, r.data, r.start+r.pos+StringLenBits, m*ansiCharBits)
		buf[m] = 0
	}
	r.pos += StringLenBits + n*ansiCharBits
	return int(n), nil
}

// ReadWString reads a wide string into buf with the same truncation rules
// as ReadString.
func (r *Reader) ReadWString(buf []uint16) (int, error) {
	n, err := r.stringLen(wideCharBits)
	if err != nil {
		return 0, err
	}
	if len(buf) > 0 {
		m := min(n, uint32(len(buf)-1))
		at := r.start + r.pos + StringLenBits
		for i := range m {
			buf[i] = uint16(getBits(r.data, at+i*wideCharBits, wideCharBits))
		}
		buf[m] = 0
	}
	r.pos += StringLenBits + n*wideCharBits
	return int(n), nil
}

// ReadStringValue reads an ANSI string and returns it as UTF-8.
func (r *Reader) ReadStringValue() (string, error) {
	n, err := r.stringLen(ansiCharBits)
	if err != nil {
		return "", err
	}
	raw := make([]byte, n)
	copyBits(raw, r.data, r.start+r.pos+StringLenBits, n*ansiCharBits)
	s, err := ansi.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrOutOfRange, err)
	}
	r.pos += StringLenBits + n*ansiCharBits
	return string(s), nil
}

// ReadWStringValue reads a wide string and returns it as UTF-8. Unpaired
// surrogates decode as U+FFFD.
func (r *Reader) ReadWStringValue() (string, error) {
	n, err := r.stringLen(wideCharBits)
	if err != nil {
		return "", err
	}
	raw := make([]byte, 2*n)
	at := r.start + r.pos + StringLenBits
	for i := range n {
		binary.LittleEndian.PutUint16(raw[2*i:], uint16(getBits(r.data, at+i*wideCharBits, wideCharBits)))
	}
	s, err := wide.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrOutOfRange, err)
	}
	r.pos += StringLenBits + n*wideCharBits
	return string(s), nil
}

func (r *Reader) PeekString(buf []byte) (int, error) {
	return peek(r, func(c *Reader) (int, error) { return c.ReadString(buf) })
}

func (r *Reader) PeekWString(buf []uint16) (int, error) {
	return peek(r, func(c *Reader) (int, error) { return c.ReadWString(buf) })
}

func (r *Reader) PeekStringValue() (string, error)  { return peek(r, (*Reader).ReadStringValue) }
func (r *Reader) PeekWStringValue() (string, error) { return peek(r, (*Reader).ReadWStringValue) }
