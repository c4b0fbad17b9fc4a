package ltmsg

import "fmt"

// Writer builds a message by appending bits to a BitBuffer.
// It tracks the first error that occurs. After an error, all subsequent
// write operations become no-ops.
type Writer struct {
	buf  BitBuffer
	err  error // first error encountered. Subsequent writes become no-ops.
	opts options
}

// NewWriter creates an empty Writer.
func NewWriter(opts ...Option) *Writer {
	return &Writer{opts: buildOptions(opts)}
}

// Reset discards all written bits and the latched error, returning the
// writer to the state NewWriter left it in. Readers taken before Reset keep
// their contents.
func (w *Writer) Reset() {
	w.buf.Reset()
	w.err = nil
}

// Size returns the number of bits written.
func (w *Writer) Size() uint32 { return w.buf.Size() }

// Len returns the number of bytes the message occupies on the wire.
func (w *Writer) Len() int   { return w.buf.Len() }
func (w *Writer) Err() error { return w.err }

// setError records the first non-nil error.
// This preserves the root cause of a failure chain instead of a later,
// less relevant error.
func (w *Writer) setError(err error) {
	if w.err == nil && err != nil {
		w.err = err
	}
}

// Result returns the final size in bits and the error state.
func (w *Writer) Result() (uint32, error) {
	return w.buf.Size(), w.err
}

// Bytes returns the finalized message bytes. Padding bits of the last byte
// are zero. The slice is shared with any Reader taken from this writer and
// must not be modified.
func (w *Writer) Bytes() []byte { return w.buf.Share() }

// AppendTo appends the message bytes to dst. Unlike Bytes it does not share
// the buffer, so a later Reset keeps reusing the same storage.
func (w *Writer) AppendTo(dst []byte) []byte { return append(dst, w.buf.B...) }

// Reader returns a Reader over the current contents without resetting the
// writer. Later writes do not show through the returned Reader.
func (w *Writer) Reader() *Reader {
	return &Reader{data: w.buf.Share(), size: w.buf.Size(), opts: w.opts}
}

// Detach returns a Reader over the current contents and resets the writer,
// so the next message starts empty.
func (w *Writer) Detach() *Reader {
	r := w.Reader()
	w.Reset()
	return r
}

// put appends the low n bits of v. n has already been validated.
func (w *Writer) put(v uint64, n uint) {
	if w.err != nil {
		return
	}
	w.buf.AppendBits(v, n)
}

// WriteBits writes the low nBits bits of v. Bit i of v becomes bit Size()+i
// of the message.
func (w *Writer) WriteBits(v uint32, nBits uint) error {
	if w.err != nil {
		return w.err
	}
	if nBits > 32 {
		w.setError(fmt.Errorf("%w: WriteBits width %d exceeds 32", ErrInvalidArgument, nBits))
		return w.err
	}
	w.buf.AppendBits(uint64(v), nBits)
	return nil
}

// WriteBits64 is WriteBits for the 64-bit domain.
func (w *Writer) WriteBits64(v uint64, nBits uint) error {
	if w.err != nil {
		return w.err
	}
	if nBits > 64 {
		w.setError(fmt.Errorf("%w: WriteBits64 width %d exceeds 64", ErrInvalidArgument, nBits))
		return w.err
	}
	w.buf.AppendBits(v, nBits)
	return nil
}

// WriteData appends the first nBits bits of p verbatim. nBits need not be
// byte aligned.
func (w *Writer) WriteData(p []byte, nBits uint32) error {
	if w.err != nil {
		return w.err
	}
	if uint64(nBits) > uint64(len(p))*8 {
		w.setError(fmt.Errorf("%w: WriteData of %d bits from %d bytes", ErrInvalidArgument, nBits, len(p)))
		return w.err
	}
	w.buf.AppendData(p, nBits)
	return nil
}

// Align writes zero bits until the message size is a multiple of 8.
func (w *Writer) Align() {
	w.put(0, uint(Roundup(w.buf.Size(), 8)-w.buf.Size()))
}

// --- Primitive Write Operations ---

func (w *Writer) WriteBool(v bool)       { Bool.Put(w, v) }
func (w *Writer) WriteUint8(v uint8)     { Uint8.Put(w, v) }
func (w *Writer) WriteUint16(v uint16)   { Uint16.Put(w, v) }
func (w *Writer) WriteUint32(v uint32)   { Uint32.Put(w, v) }
func (w *Writer) WriteUint64(v uint64)   { Uint64.Put(w, v) }
func (w *Writer) WriteInt8(v int8)       { Int8.Put(w, v) }
func (w *Writer) WriteInt16(v int16)     { Int16.Put(w, v) }
func (w *Writer) WriteInt32(v int32)     { Int32.Put(w, v) }
func (w *Writer) WriteInt64(v int64)     { Int64.Put(w, v) }
func (w *Writer) WriteFloat32(v float32) { Float32.Put(w, v) }
func (w *Writer) WriteFloat64(v float64) { Float64.Put(w, v) }

// --- Embedded messages ---

// WriteMessage writes the bit length of r followed by the whole of r, from
// its bit 0 regardless of r's cursor. The receiver gets it back as an
// independent Reader with ReadMessage. A nil r writes an empty message.
func (w *Writer) WriteMessage(r *Reader) {
	if r == nil {
		w.put(0, 32)
		return
	}
	w.put(uint64(r.size), 32)
	w.WriteMessageRaw(r)
}

// WriteMessageRaw writes the whole of r without a length prefix. The
// receiver has to know the length out of band.
func (w *Writer) WriteMessageRaw(r *Reader) {
	if w.err != nil || r == nil {
		return
	}
	w.buf.AppendWindow(r.data, r.start, r.size)
}

// --- Handles ---

// WriteObject writes the network ID of h. Null or unmapped handles encode
// as NullObjectID.
func (w *Writer) WriteObject(h HObject) {
	id := NullObjectID
	if h != 0 && w.opts.resolver != nil {
		if v, ok := w.opts.resolver.ObjectID(h); ok {
			id = v
		}
	}
	w.put(uint64(id), ObjectIDBits)
}

// WriteTimer writes the network ID of h. Null or unmapped handles encode
// as NullTimerID.
func (w *Writer) WriteTimer(h HTimer) {
	id := NullTimerID
	if h != 0 && w.opts.resolver != nil {
		if v, ok := w.opts.resolver.TimerID(h); ok {
			id = v
		}
	}
	w.put(uint64(id), TimerIDBits)
}

// WriteRecord writes the network ID of database record h as known to db.
// Null or unmapped records encode as NullRecordID.
func (w *Writer) WriteRecord(h HRecord, db RecordResolver) {
	id := NullRecordID
	if h != 0 && db != nil {
		if v, ok := db.RecordID(h); ok {
			id = v
		}
	}
	w.put(uint64(id), RecordIDBits)
}
