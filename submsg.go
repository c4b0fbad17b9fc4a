package ltmsg

import "fmt"

// SubMsg returns a Reader over [pos, Size()) of this message. Positions are
// relative to this Reader's bit 0, not to the storage it shares. The new
// Reader's cursor starts at its own bit 0.
func (r *Reader) SubMsg(pos uint32) (*Reader, error) {
	if pos > r.size {
		return nil, fmt.Errorf("%w: sub-message at %d (size: %d)", ErrOutOfRange, pos, r.size)
	}
	return r.SubMsgLen(pos, r.size-pos)
}

// SubMsgLen returns a Reader over [pos, pos+n) of this message.
func (r *Reader) SubMsgLen(pos, n uint32) (*Reader, error) {
	if uint64(pos)+uint64(n) > uint64(r.size) {
		return nil, fmt.Errorf("%w: sub-message [%d, %d) (size: %d)", ErrOutOfRange, pos, uint64(pos)+uint64(n), r.size)
	}
	return &Reader{data: r.data, start: r.start + pos, size: n, opts: r.opts}, nil
}

// ReadMessage reads a message embedded with Writer.WriteMessage and returns
// it as an independent Reader. The cursor moves past the embedded payload.
func (r *Reader) ReadMessage() (*Reader, error) {
	n, err := r.peekBits64("message length", 32)
	if err != nil {
		return nil, err
	}
	sub, err := r.SubMsgLen(r.pos+32, uint32(n))
	if err != nil {
		return nil, fmt.Errorf("%w: embedded message of %d bits at %d", ErrOutOfRange, n, r.pos)
	}
	r.pos += 32 + uint32(n)
	return sub, nil
}
