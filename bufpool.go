package ltmsg

import "sync"

// writerPool reuses writers for high-rate producers such as per-tick object
// updates. This reduces GC pressure by avoiding frequent allocations.
var writerPool = sync.Pool{
	New: func() any {
		// Sized for a full UDP packet to avoid re-allocations for common messages.
		return &Writer{buf: BitBuffer{B: make([]byte, 0, MaxPacketLen)}}
	},
}

// AcquireWriter returns an empty Writer from the pool configured with opts.
func AcquireWriter(opts ...Option) *Writer {
	w := writerPool.Get().(*Writer)
	w.Reset()
	w.opts = buildOptions(opts)
	return w
}

// ReleaseWriter returns w to the pool. Readers and byte slices taken from w
// stay valid; w must not be used afterwards.
func ReleaseWriter(w *Writer) {
	if w == nil {
		return
	}
	w.Reset()
	w.opts = options{}
	writerPool.Put(w)
}
