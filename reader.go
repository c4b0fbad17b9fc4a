package ltmsg

import (
	"fmt"
	"math"
)

// Reader is a bit cursor over an immutable message. The storage may be
// shared with the Writer it came from, with clones and with sub-messages;
// only the cursor is private to each Reader.
//
// A failed read leaves the cursor where it was, so the caller can drop the
// message or try a different interpretation. Readers are not safe for
// concurrent use, but distinct Readers over the same storage are.
type Reader struct {
	data  []byte // shared, never written
	start uint32 // absolute bit offset of local bit 0
	size  uint32 // window length in bits
	pos   uint32 // cursor, relative to start
	opts  options
}

// NewReader creates a Reader over every bit of p. Inputs whose bit length
// does not fit 32 bits are rejected with ErrOutOfRange.
func NewReader(p []byte, opts ...Option) (*Reader, error) {
	n := uint64(len(p)) * 8
	if n > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d bytes exceed the 32-bit bit length", ErrOutOfRange, len(p))
	}
	return &Reader{data: p, size: uint32(n), opts: buildOptions(opts)}, nil
}

// NewReaderBits creates a Reader over the first nBits bits of p.
func NewReaderBits(p []byte, nBits uint32, opts ...Option) (*Reader, error) {
	if uint64(nBits) > uint64(len(p))*8 {
		return nil, fmt.Errorf("%w: %d bits requested from %d bytes", ErrOutOfRange, nBits, len(p))
	}
	return &Reader{data: p, size: nBits, opts: buildOptions(opts)}, nil
}

// Size returns the length of the message in bits.
func (r *Reader) Size() uint32 { return r.size }

// Tell returns the cursor position in bits.
func (r *Reader) Tell() uint32 { return r.pos }

// TellEnd returns the number of unread bits.
func (r *Reader) TellEnd() uint32 { return r.size - r.pos }

// EOM reports whether every bit has been read.
func (r *Reader) EOM() bool { return r.pos == r.size }

// Bytes returns a copy of the message, byte aligned at its bit 0, with the
// padding bits of the last byte cleared.
func (r *Reader) Bytes() []byte {
	buf := make([]byte, BitsToBytes(r.size))
	copyBits(buf, r.data, r.start, r.size)
	return buf
}

// Clone returns a Reader over the same storage whose cursor starts where r's
// is now. The two cursors move independently afterwards.
func (r *Reader) Clone() *Reader {
	c := *r
	return &c
}

func (r *Reader) outOfRange(op string, n uint) error {
	return fmt.Errorf("%w: %s needs %d bits at %d, %d available", ErrOutOfRange, op, n, r.pos, r.size-r.pos)
}

// peekBits64 returns the next n bits without moving the cursor.
func (r *Reader) peekBits64(op string, n uint) (uint64, error) {
	if uint64(r.pos)+uint64(n) > uint64(r.size) {
		return 0, r.outOfRange(op, n)
	}
	return getBits(r.data, r.start+r.pos, n), nil
}

// ReadBits reads nBits bits. Bit i read from the message becomes bit i of
// the result.
func (r *Reader) ReadBits(nBits uint) (uint32, error) {
	if nBits > 32 {
		return 0, fmt.Errorf("%w: ReadBits width %d exceeds 32", ErrInvalidArgument, nBits)
	}
	v, err := r.ReadBits64(nBits)
	return uint32(v), err
}

// ReadBits64 is ReadBits for the 64-bit domain.
func (r *Reader) ReadBits64(nBits uint) (uint64, error) {
	if nBits > 64 {
		return 0, fmt.Errorf("%w: ReadBits64 width %d exceeds 64", ErrInvalidArgument, nBits)
	}
	v, err := r.peekBits64("read", nBits)
	if err == nil {
		r.pos += uint32(nBits)
	}
	return v, err
}

// ReadData reads nBits bits verbatim into p, which must hold
// BitsToBytes(nBits) bytes. Padding bits of the last byte are cleared.
func (r *Reader) ReadData(p []byte, nBits uint32) error {
	if err := r.PeekData(p, nBits); err != nil {
		return err
	}
	r.pos += nBits
	return nil
}

// Align skips to the next multiple of 8 bits, relative to the start of this
// message.
func (r *Reader) Align() error {
	return r.SeekTo(Roundup(r.pos, 8))
}

// --- Primitive Read Operations ---

func (r *Reader) ReadBool() (bool, error)       { return Bool.Get(r) }
func (r *Reader) ReadUint8() (uint8, error)     { return Uint8.Get(r) }
func (r *Reader) ReadUint16() (uint16, error)   { return Uint16.Get(r) }
func (r *Reader) ReadUint32() (uint32, error)   { return Uint32.Get(r) }
func (r *Reader) ReadUint64() (uint64, error)   { return Uint64.Get(r) }
func (r *Reader) ReadInt8() (int8, error)       { return Int8.Get(r) }
func (r *Reader) ReadInt16() (int16, error)     { return Int16.Get(r) }
func (r *Reader) ReadInt32() (int32, error)     { return Int32.Get(r) }
func (r *Reader) ReadInt64() (int64, error)     { return Int64.Get(r) }
func (r *Reader) ReadFloat32() (float32, error) { return Float32.Get(r) }
func (r *Reader) ReadFloat64() (float64, error) { return Float64.Get(r) }

// --- Handles ---

// ReadObject reads an object ID and resolves it. NullObjectID yields the
// null handle. An ID that cannot be resolved also yields the null handle,
// together with an error wrapping ErrResolution; in that case the cursor
// has still moved past the ID so decoding can continue.
func (r *Reader) ReadObject() (HObject, error) {
	v, err := r.ReadBits64(ObjectIDBits)
	if err != nil {
		return 0, err
	}
	id := ObjectID(v)
	if id == NullObjectID {
		return 0, nil
	}
	if r.opts.resolver != nil {
		if h, ok := r.opts.resolver.Object(id); ok {
			return h, nil
		}
	}
	return 0, fmt.Errorf("%w: object id %d", ErrResolution, id)
}

// ReadTimer is ReadObject for timers.
func (r *Reader) ReadTimer() (HTimer, error) {
	v, err := r.ReadBits64(TimerIDBits)
	if err != nil {
		return 0, err
	}
	id := TimerID(v)
	if id == NullTimerID {
		return 0, nil
	}
	if r.opts.resolver != nil {
		if h, ok := r.opts.resolver.Timer(id); ok {
			return h, nil
		}
	}
	return 0, fmt.Errorf("%w: timer id %d", ErrResolution, id)
}

// ReadRecord reads a database record ID and resolves it against db.
func (r *Reader) ReadRecord(db RecordResolver) (HRecord, error) {
	v, err := r.ReadBits64(RecordIDBits)
	if err != nil {
		return 0, err
	}
	id := RecordID(v)
	if id == NullRecordID {
		return 0, nil
	}
	if db != nil {
		if h, ok := db.Record(id); ok {
			return h, nil
		}
	}
	return 0, fmt.Errorf("%w: record id %d", ErrResolution, id)
}
