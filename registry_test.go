package ltmsg

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryBind(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.BindObject(100, 7))

	id, ok := reg.ObjectID(100)
	require.True(t, ok)
	assert.EqualValues(t, 7, id)
	h, ok := reg.Object(7)
	require.True(t, ok)
	assert.EqualValues(t, 100, h)

	// Rebinding the handle drops its old ID.
	require.NoError(t, reg.BindObject(100, 8))
	_, ok = reg.Object(7)
	assert.False(t, ok)

	// Rebinding the ID drops its old handle.
	require.NoError(t, reg.BindObject(200, 8))
	_, ok = reg.ObjectID(100)
	assert.False(t, ok)

	reg.UnbindObject(200)
	_, ok = reg.Object(8)
	assert.False(t, ok)
}

func TestRegistryRejectsNull(t *testing.T) {
	reg := NewRegistry()
	assert.ErrorIs(t, reg.BindObject(0, 1), ErrInvalidArgument)
	assert.ErrorIs(t, reg.BindObject(1, NullObjectID), ErrInvalidArgument)
	assert.ErrorIs(t, reg.BindTimer(0, 1), ErrInvalidArgument)
	assert.ErrorIs(t, reg.BindTimer(1, NullTimerID), ErrInvalidArgument)
	assert.ErrorIs(t, reg.BindRecord(0, 1), ErrInvalidArgument)
	assert.ErrorIs(t, reg.BindRecord(1, NullRecordID), ErrInvalidArgument)
}

func TestRegistryConcurrent(t *testing.T) {
	reg := NewRegistry()
	var wg sync.WaitGroup
	for i := 1; i <= 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, reg.BindTimer(HTimer(i), TimerID(i*10)))
			id, ok := reg.TimerID(HTimer(i))
			assert.True(t, ok)
			assert.EqualValues(t, i*10, id)
		}()
	}
	wg.Wait()

	h, ok := reg.Timer(640)
	require.True(t, ok)
	assert.EqualValues(t, 64, h)
}

func TestHandleRoundTrip(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.BindObject(0xA1, 12))
	require.NoError(t, reg.BindTimer(0xB2, 99))
	require.NoError(t, reg.BindRecord(0xC3, 4242))

	w := NewWriter(WithResolver(reg))
	w.WriteObject(0xA1)
	w.WriteObject(0)
	w.WriteTimer(0xB2)
	w.WriteRecord(0xC3, reg)
	w.WriteRecord(0, reg)
	require.NoError(t, w.Err())
	assert.EqualValues(t, 2*ObjectIDBits+TimerIDBits+2*RecordIDBits, w.Size())

	r, err := NewReaderBits(w.Bytes(), w.Size(), WithResolver(reg))
	require.NoError(t, err)

	peeked, err := r.PeekObject()
	require.NoError(t, err)
	assert.EqualValues(t, 0xA1, peeked)

	obj, err := r.ReadObject()
	require.NoError(t, err)
	assert.EqualValues(t, 0xA1, obj)
	obj, err = r.ReadObject()
	require.NoError(t, err)
	assert.Zero(t, obj)
	tm, err := r.ReadTimer()
	require.NoError(t, err)
	assert.EqualValues(t, 0xB2, tm)
	rec, err := r.PeekRecord(reg)
	require.NoError(t, err)
	assert.EqualValues(t, 0xC3, rec)
	rec, err = r.ReadRecord(reg)
	require.NoError(t, err)
	assert.EqualValues(t, 0xC3, rec)
	rec, err = r.ReadRecord(reg)
	require.NoError(t, err)
	assert.Zero(t, rec)
	assert.True(t, r.EOM())
}

func TestUnmappedHandlesEncodeNull(t *testing.T) {
	reg := NewRegistry()

	w := NewWriter(WithResolver(reg))
	w.WriteObject(0x55) // never bound
	w.WriteTimer(0x66)
	w.WriteRecord(0x77, nil)

	r := w.Reader()
	id, err := r.ReadBits(ObjectIDBits)
	require.NoError(t, err)
	assert.EqualValues(t, NullObjectID, id)
	id, err = r.ReadBits(TimerIDBits)
	require.NoError(t, err)
	assert.EqualValues(t, NullTimerID, id)
	id, err = r.ReadBits(RecordIDBits)
	require.NoError(t, err)
	assert.EqualValues(t, NullRecordID, id)
}

func TestResolutionFailure(t *testing.T) {
	sender := NewRegistry()
	require.NoError(t, sender.BindObject(0xA1, 12))
	require.NoError(t, sender.BindTimer(0xB2, 99))

	w := NewWriter(WithResolver(sender))
	w.WriteObject(0xA1)
	w.WriteTimer(0xB2)
	w.WriteUint8(0x7E)

	// The receiver has already forgotten both.
	r := mustReader(w.Bytes(), WithResolver(NewRegistry()))

	obj, err := r.ReadObject()
	assert.ErrorIs(t, err, ErrResolution)
	assert.Zero(t, obj)
	assert.EqualValues(t, ObjectIDBits, r.Tell(), "decoding continues past an unresolved ID")

	tm, err := r.ReadTimer()
	assert.ErrorIs(t, err, ErrResolution)
	assert.Zero(t, tm)

	v, err := r.ReadUint8()
	require.NoError(t, err)
	assert.EqualValues(t, 0x7E, v)
}

func TestHandlesWithoutResolver(t *testing.T) {
	w := NewWriter()
	w.WriteObject(0xA1)
	assert.Equal(t, []byte{0xFF, 0xFF}, w.Bytes())

	r := mustReader([]byte{0x0C, 0x00})
	_, err := r.ReadObject()
	assert.ErrorIs(t, err, ErrResolution)

	r = mustReader([]byte{0x0C, 0x00, 0x00, 0x00})
	_, err = r.ReadRecord(nil)
	assert.ErrorIs(t, err, ErrResolution)
}

func TestTimerPeek(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.BindTimer(0x7E, 31))

	w := NewWriter(WithResolver(reg))
	w.WriteTimer(0x7E)
	w.WriteTimer(0)

	r := w.Reader()
	peekThenRead(t, r, TimerIDBits, (*Reader).PeekTimer, (*Reader).ReadTimer)

	tm, err := r.PeekTimer()
	require.NoError(t, err)
	assert.Zero(t, tm)
	assert.EqualValues(t, TimerIDBits, r.Tell())
}
