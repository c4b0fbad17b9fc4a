package ltmsg

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// MaxPacketLen is the largest datagram the surrounding transport sends.
// The codec itself imposes no limit; producers targeting UDP should stay below it.
const MaxPacketLen = 1100

// Roundup rounds n up to the nearest multiple of align.
func Roundup[T constraints.Integer](n, align T) T { return (n + (align - 1)) &^ (align - 1) }

// BitsToBytes returns the number of bytes needed to hold n bits.
func BitsToBytes[T constraints.Unsigned](n T) T { return (n + 7) >> 3 }

// mask returns a value with the low n bits set. n must be at most 64.
func mask(n uint) uint64 {
	if n >= 64 {
		return ^uint64(0)
	}
	return 1<<n - 1
}

// CheckTrailingZeros verifies that every unread bit of r is zero. Writers pad
// the final byte with zeros, so anything else means the decoder stopped early.
func CheckTrailingZeros(r *Reader) error {
	for pos := r.pos; pos < r.size; {
		n := min(r.size-pos, 64)
		if v := getBits(r.data, r.start+pos, uint(n)); v != 0 {
			return fmt.Errorf("%w: found non-zero bits 0x%x at offset %d", ErrTrailingData, v, pos)
		}
		pos += n
	}
	return nil
}
