package ltmsg

import "fmt"

// WriteList writes len(items) in countBits bits followed by each item.
// Lists longer than countBits can count are rejected with ErrInvalidArgument.
func WriteList[T Encoder](w *Writer, items []T, countBits uint) {
	if w.err != nil {
		return
	}
	if countBits > 32 || uint64(len(items)) > mask(countBits) {
		w.setError(fmt.Errorf("%w: %d items do not fit a %d-bit count", ErrInvalidArgument, len(items), countBits))
		return
	}
	w.put(uint64(len(items)), countBits)
	for _, item := range items {
		item.EncodeMessage(w)
	}
}

// ReadList reads a list written by WriteList. PT is the pointer type whose
// DecodeMessage fills a T. On failure the cursor is restored and no items
// are returned.
func ReadList[T any, PT interface {
	*T
	Decoder
}](r *Reader, countBits uint) ([]T, error) {
	if countBits > 32 {
		return nil, fmt.Errorf("%w: ReadList count width %d exceeds 32", ErrInvalidArgument, countBits)
	}
	start := r.pos
	n, err := r.ReadBits64(countBits)
	if err != nil {
		return nil, err
	}
	// The count comes off the wire; never trust it for preallocation beyond
	// what the remaining bits could hold.
	items := make([]T, 0, min(n, uint64(r.TellEnd())))
	for i := uint64(0); i < n; i++ {
		var item T
		at := r.pos
		if err := PT(&item).DecodeMessage(r); err != nil {
			r.pos = start
			return nil, fmt.Errorf("list item %d: %w", i, err)
		}
		if r.pos == at && i+1 < n {
			// An empty item cannot bound the count by the remaining bits.
			r.pos = start
			return nil, fmt.Errorf("%w: list item %d consumed no bits, %d more claimed", ErrOutOfRange, i, n-i-1)
		}
		items = append(items, item)
	}
	return items, nil
}
