package ltmsg

// Marshal encodes v into a fresh message and returns its bytes and length
// in bits.
func Marshal(v Encoder, opts ...Option) ([]byte, uint32, error) {
	w := NewWriter(opts...)
	v.EncodeMessage(w)
	n, err := w.Result()
	if err != nil {
		return nil, 0, err
	}
	return w.Bytes(), n, nil
}

// Unmarshal decodes v from a message of nBits bits and checks that nothing
// but zero padding follows. This catches decoders that stop early and
// writers that appended more than the decoder expects.
func Unmarshal(data []byte, nBits uint32, v Decoder, opts ...Option) error {
	r, err := NewReaderBits(data, nBits, opts...)
	if err != nil {
		return err
	}
	if err := v.DecodeMessage(r); err != nil {
		return err
	}
	return CheckTrailingZeros(r)
}

// Write encodes a FixedWidth value; it is the generic form of the
// WriteUint32-style wrappers.
func Write[T any](w *Writer, c FixedWidth[T], v T) { c.Put(w, v) }

// Read decodes a FixedWidth value.
func Read[T any](r *Reader, c FixedWidth[T]) (T, error) { return c.Get(r) }

// Peek decodes a FixedWidth value without advancing the cursor.
func Peek[T any](r *Reader, c FixedWidth[T]) (T, error) { return peek(r, c.Get) }
