package ltmsg

// Bits are numbered least-significant-first within each byte: stream bit i
// lives in bit i%8 of byte i/8.

// getBits extracts n (at most 64) bits starting at absolute bit pos of p.
// Bit i of the stream window becomes bit i of the result.
func getBits(p []byte, pos uint32, n uint) uint64 {
	var v uint64
	var shift uint
	for n > 0 {
		idx := pos >> 3
		off := uint(pos & 7)
		take := min(8-off, n)
		v |= (uint64(p[idx]>>off) & mask(take)) << shift
		shift += take
		pos += uint32(take)
		n -= take
	}
	return v
}

// copyBits copies n bits of src starting at absolute bit pos into dst,
// starting at dst bit 0. dst must hold BitsToBytes(n) bytes; bits of the
// final partial byte beyond n are cleared.
func copyBits(dst, src []byte, pos, n uint32) {
	if pos&7 == 0 {
		full := n >> 3
		copy(dst, src[pos>>3:pos>>3+full])
		if rest := n & 7; rest > 0 {
			dst[full] = src[pos>>3+full] & byte(mask(uint(rest)))
		}
		return
	}
	for i := uint32(0); n > 0; i++ {
		take := min(n, 8)
		dst[i] = byte(getBits(src, pos, uint(take)))
		pos += take
		n -= take
	}
}
