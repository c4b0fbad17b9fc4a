package ltmsg

import "bytes"

// BitBuffer is an append-only sequence of bits that grows on demand.
// Bits already written are never changed; once the backing bytes have been
// handed out with Share, further appends copy them first.
type BitBuffer struct {
	B      []byte // backing bytes, always BitsToBytes(N) long
	N      uint32 // number of bits written
	shared bool
}

// Size returns the number of bits written.
func (b *BitBuffer) Size() uint32 { return b.N }

// Len returns the number of bytes needed to hold the written bits.
func (b *BitBuffer) Len() int { return len(b.B) }

// Reset discards all written bits.
func (b *BitBuffer) Reset() {
	if b.shared {
		b.B = nil
		b.shared = false
	} else {
		clear(b.B)
		b.B = b.B[:0]
	}
	b.N = 0
}

// Share returns the backing bytes and marks them as shared, so that the
// buffer never writes into them again.
func (b *BitBuffer) Share() []byte {
	b.shared = true
	return b.B
}

// grow makes room for n more bits. The new trailing bytes are zero.
func (b *BitBuffer) grow(n uint) {
	if b.shared {
		b.B = bytes.Clone(b.B)
		b.shared = false
	}
	need := int(BitsToBytes(uint64(b.N) + uint64(n)))
	if need > cap(b.B) {
		nb := make([]byte, len(b.B), max(need, 2*cap(b.B), 64))
		copy(nb, b.B)
		b.B = nb
	}
	b.B = b.B[:need]
}

// AppendBits appends the low n bits of v, least significant first.
// n must be at most 64.
func (b *BitBuffer) AppendBits(v uint64, n uint) {
	if n == 0 {
		return
	}
	v &= mask(n)
	b.grow(n)
	pos := b.N
	for n > 0 {
		idx := pos >> 3
		off := uint(pos & 7)
		take := min(8-off, n)
		b.B[idx] |= byte(v << off)
		v >>= take
		pos += uint32(take)
		n -= take
	}
	b.N = pos
}

// AppendData appends the first n bits of p verbatim.
func (b *BitBuffer) AppendData(p []byte, n uint32) {
	b.AppendWindow(p, 0, n)
}

// AppendWindow appends n bits of src starting at bit pos.
func (b *BitBuffer) AppendWindow(src []byte, pos, n uint32) {
	if n == 0 {
		return
	}
	if b.N&7 == 0 {
		// Byte aligned destination: copy whole bytes straight in.
		b.grow(uint(n))
		copyBits(b.B[b.N>>3:], src, pos, n)
		b.N += n
		return
	}
	for n > 0 {
		take := min(n, 64)
		b.AppendBits(getBits(src, pos, uint(take)), uint(take))
		pos += take
		n -= take
	}
}
