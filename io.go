package ltmsg

import (
	"bytes"
	"io"
	"sync"
)

// bytesBufPool reuses buffers for reading whole messages off a stream.
var bytesBufPool = sync.Pool{
	New: func() any {
		return bytes.NewBuffer(make([]byte, 0, MaxPacketLen))
	},
}

// WriteTo implements io.WriterTo: it writes the finalized message bytes.
// Writing an errored message reports the latched error instead.
func (w *Writer) WriteTo(dst io.Writer) (int64, error) {
	if dst == nil {
		return 0, ErrNilIO
	}
	if w.err != nil {
		return 0, w.err
	}
	n, err := dst.Write(w.Bytes())
	if err == nil && n < w.Len() {
		err = io.ErrShortWrite
	}
	return int64(n), err
}

// WriteTo implements io.WriterTo: it writes the message from its bit 0,
// byte aligned, regardless of the cursor.
func (r *Reader) WriteTo(dst io.Writer) (int64, error) {
	if dst == nil {
		return 0, ErrNilIO
	}
	buf := r.Bytes()
	n, err := dst.Write(buf)
	if err == nil && n < len(buf) {
		err = io.ErrShortWrite
	}
	return int64(n), err
}

// ReadFrom reads src to EOF and returns a Reader over everything it
// produced.
func ReadFrom(src io.Reader, opts ...Option) (*Reader, error) {
	if src == nil {
		return nil, ErrNilIO
	}
	buf := bytesBufPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer bytesBufPool.Put(buf)

	if _, err := buf.ReadFrom(src); err != nil {
		return nil, err
	}
	// The pooled buffer is reused, so the Reader gets its own copy.
	return NewReader(bytes.Clone(buf.Bytes()), opts...)
}
