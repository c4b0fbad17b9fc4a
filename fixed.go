package ltmsg

import (
	"encoding/binary"
	"fmt"
	"math"
	"reflect"

	"github.com/puzpuzpuz/xsync/v4"
	"golang.org/x/exp/constraints"
)

// The canonical wire width of every primitive type. These are part of the
// wire contract: writer and reader must agree on them.
var (
	Bool    FixedWidth[bool]    = boolWidth{}
	Uint8   FixedWidth[uint8]   = uintWidth[uint8]{8}
	Uint16  FixedWidth[uint16]  = uintWidth[uint16]{16}
	Uint32  FixedWidth[uint32]  = uintWidth[uint32]{32}
	Uint64  FixedWidth[uint64]  = uintWidth[uint64]{64}
	Int8    FixedWidth[int8]    = intWidth[int8]{8}
	Int16   FixedWidth[int16]   = intWidth[int16]{16}
	Int32   FixedWidth[int32]   = intWidth[int32]{32}
	Int64   FixedWidth[int64]   = intWidth[int64]{64}
	Float32 FixedWidth[float32] = float32Width{}
	Float64 FixedWidth[float64] = float64Width{}
)

type boolWidth struct{}

func (boolWidth) Bits() uint { return 1 }

func (boolWidth) Put(w *Writer, v bool) {
	if v {
		w.put(1, 1)
	} else {
		w.put(0, 1)
	}
}

func (boolWidth) Get(r *Reader) (bool, error) {
	v, err := r.ReadBits64(1)
	return v != 0, err
}

type uintWidth[T constraints.Unsigned] struct{ n uint }

func (c uintWidth[T]) Bits() uint          { return c.n }
func (c uintWidth[T]) Put(w *Writer, v T) { w.put(uint64(v), c.n) }

func (c uintWidth[T]) Get(r *Reader) (T, error) {
	v, err := r.ReadBits64(c.n)
	return T(v), err
}

// intWidth stores the two's complement bit pattern; the conversion back to T
// truncates, which restores the sign.
type intWidth[T constraints.Signed] struct{ n uint }

func (c intWidth[T]) Bits() uint          { return c.n }
func (c intWidth[T]) Put(w *Writer, v T) { w.put(uint64(v), c.n) }

func (c intWidth[T]) Get(r *Reader) (T, error) {
	v, err := r.ReadBits64(c.n)
	return T(v), err
}

// Floats travel as their IEEE 754 bit pattern, so NaN payloads survive.
type float32Width struct{}

func (float32Width) Bits() uint               { return 32 }
func (float32Width) Put(w *Writer, v float32) { w.put(uint64(math.Float32bits(v)), 32) }

func (float32Width) Get(r *Reader) (float32, error) {
	v, err := r.ReadBits64(32)
	return math.Float32frombits(uint32(v)), err
}

type float64Width struct{}

func (float64Width) Bits() uint               { return 64 }
func (float64Width) Put(w *Writer, v float64) { w.put(math.Float64bits(v), 64) }

func (float64Width) Get(r *Reader) (float64, error) {
	v, err := r.ReadBits64(64)
	return math.Float64frombits(v), err
}

// sizeCache avoids the high performance cost of reflection in `binary.Size`
// on every call. Using a concurrent map makes it concurrent-safe.
var sizeCache = xsync.NewMap[reflect.Type, int]()

// Fixed passes any fixed-size plain data type through a message unchanged:
// the value is laid out little-endian with encoding/binary and written with
// WriteData. It is the explicit replacement for copying a struct's raw bytes.
//
// Constraint: Payload MUST NOT contain variable-size fields like slices,
// maps, or strings, as this will cause `binary.Size` to fail.
type Fixed[Payload any] struct{}

// Statically assert that Fixed implements FixedWidth.
var _ FixedWidth[struct{ A uint32 }] = Fixed[struct{ A uint32 }]{}

func (Fixed[Payload]) size() int {
	t := reflect.TypeOf((*Payload)(nil)).Elem()

	// Attempt to load from the concurrent-safe cache first for performance.
	if size, ok := sizeCache.Load(t); ok {
		return size
	}

	// If not cached, perform the expensive reflection-based calculation.
	var zero Payload
	size := binary.Size(&zero)

	// Store the result for subsequent calls.
	sizeCache.Store(t, size)
	return size
}

// Bits returns the width of Payload in bits, or 0 if it has no fixed size.
func (c Fixed[Payload]) Bits() uint {
	size := c.size()
	if size < 0 {
		return 0
	}
	return uint(size) * 8
}

func (c Fixed[Payload]) Put(w *Writer, v Payload) {
	if w.err != nil {
		return
	}
	size := c.size()
	if size < 0 {
		w.setError(fmt.Errorf("%w: %T has no fixed size", ErrInvalidArgument, v))
		return
	}
	buf := make([]byte, size)
	if _, err := binary.Encode(buf, binary.LittleEndian, &v); err != nil {
		w.setError(fmt.Errorf("%w: %v", ErrInvalidArgument, err))
		return
	}
	w.WriteData(buf, uint32(size)*8)
}

func (c Fixed[Payload]) Get(r *Reader) (Payload, error) {
	var v Payload
	size := c.size()
	if size < 0 {
		return v, fmt.Errorf("%w: %T has no fixed size", ErrInvalidArgument, v)
	}
	buf := make([]byte, size)
	if err := r.ReadData(buf, uint32(size)*8); err != nil {
		return v, err
	}
	if _, err := binary.Decode(buf, binary.LittleEndian, &v); err != nil {
		return v, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return v, nil
}
