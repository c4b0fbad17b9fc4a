package ltmsg

import "fmt"

// peek runs read against a copy of r, so r's cursor never moves.
func peek[T any](r *Reader, read func(*Reader) (T, error)) (T, error) {
	c := *r
	return read(&c)
}

// PeekBits returns the next nBits bits without advancing the cursor.
func (r *Reader) PeekBits(nBits uint) (uint32, error) {
	if nBits > 32 {
		return 0, fmt.Errorf("%w: PeekBits width %d exceeds 32", ErrInvalidArgument, nBits)
	}
	v, err := r.peekBits64("peek", nBits)
	return uint32(v), err
}

// PeekBits64 is PeekBits for the 64-bit domain.
func (r *Reader) PeekBits64(nBits uint) (uint64, error) {
	if nBits > 64 {
		return 0, fmt.Errorf("%w: PeekBits64 width %d exceeds 64", ErrInvalidArgument, nBits)
	}
	return r.peekBits64("peek", nBits)
}

// PeekData copies the next nBits bits into p without advancing the cursor.
func (r *Reader) PeekData(p []byte, nBits uint32) error {
	if uint64(len(p))*8 < uint64(nBits) {
		return fmt.Errorf("%w: %d bytes cannot hold %d bits", ErrInvalidArgument, len(p), nBits)
	}
	if uint64(r.pos)+uint64(nBits) > uint64(r.size) {
		return r.outOfRange("data", uint(nBits))
	}
	copyBits(p, r.data, r.start+r.pos, nBits)
	return nil
}

func (r *Reader) PeekBool() (bool, error)       { return peek(r, Bool.Get) }
func (r *Reader) PeekUint8() (uint8, error)     { return peek(r, Uint8.Get) }
func (r *Reader) PeekUint16() (uint16, error)   { return peek(r, Uint16.Get) }
func (r *Reader) PeekUint32() (uint32, error)   { return peek(r, Uint32.Get) }
func (r *Reader) PeekUint64() (uint64, error)   { return peek(r, Uint64.Get) }
func (r *Reader) PeekInt8() (int8, error)       { return peek(r, Int8.Get) }
func (r *Reader) PeekInt16() (int16, error)     { return peek(r, Int16.Get) }
func (r *Reader) PeekInt32() (int32, error)     { return peek(r, Int32.Get) }
func (r *Reader) PeekInt64() (int64, error)     { return peek(r, Int64.Get) }
func (r *Reader) PeekFloat32() (float32, error) { return peek(r, Float32.Get) }
func (r *Reader) PeekFloat64() (float64, error) { return peek(r, Float64.Get) }

func (r *Reader) PeekObject() (HObject, error) { return peek(r, (*Reader).ReadObject) }
func (r *Reader) PeekTimer() (HTimer, error)   { return peek(r, (*Reader).ReadTimer) }

func (r *Reader) PeekRecord(db RecordResolver) (HRecord, error) {
	return peek(r, func(c *Reader) (HRecord, error) { return c.ReadRecord(db) })
}

// PeekMessage returns the next embedded message without advancing the cursor.
func (r *Reader) PeekMessage() (*Reader, error) { return peek(r, (*Reader).ReadMessage) }
