package ltmsg

import (
	"fmt"
	"io"
)

// Seek moves the cursor offset bits relative to its current position.
// The resulting position must lie within [0, Size()].
func (r *Reader) Seek(offset int32) error {
	abs := int64(r.pos) + int64(offset)
	if abs < 0 || abs > int64(r.size) {
		return fmt.Errorf("%w: cannot seek by %d from %d (size: %d)", ErrOutOfRange, offset, r.pos, r.size)
	}
	r.pos = uint32(abs)
	return nil
}

// SeekTo moves the cursor to the absolute bit position pos.
func (r *Reader) SeekTo(pos uint32) error {
	if pos > r.size {
		return fmt.Errorf("%w: cannot seek to %d (size: %d)", ErrOutOfRange, pos, r.size)
	}
	r.pos = pos
	return nil
}

// Skip advances the cursor by n bits.
func (r *Reader) Skip(n uint32) error {
	if uint64(r.pos)+uint64(n) > uint64(r.size) {
		return r.outOfRange("skip", uint(n))
	}
	r.pos += n
	return nil
}

// ByteSeeker adapts a Reader to io.Seeker in whole bytes, for code that
// positions a message with the standard io.SeekStart/SeekCurrent/SeekEnd.
type ByteSeeker struct{ R *Reader }

// Seek implements the [io.Seeker] interface.
func (s ByteSeeker) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset * 8
	case io.SeekCurrent:
		abs = int64(s.R.pos) + offset*8
	case io.SeekEnd:
		abs = int64(s.R.size) + offset*8
	default:
		return int64(s.R.pos / 8), fmt.Errorf("%w: whence %d is not supported", ErrInvalidArgument, whence)
	}
	if abs < 0 || abs > int64(s.R.size) {
		return int64(s.R.pos / 8), fmt.Errorf("%w: cannot seek to bit %d (size: %d)", ErrOutOfRange, abs, s.R.size)
	}
	s.R.pos = uint32(abs)
	return abs / 8, nil
}
