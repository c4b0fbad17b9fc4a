package ltmsg

import (
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   string
		bits uint32
	}{
		{"Empty", "", 32},
		{"ASCII", "hello world", 32 + 11*8},
		{"Latin1", "héllo", 32 + 5*8},
		{"Windows1252Extras", "€‰Ÿ", 32 + 3*8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWriter()
			w.WriteString(tt.in)
			require.NoError(t, w.Err())
			assert.Equal(t, tt.bits, w.Size())

			r := w.Reader()
			got, err := r.ReadStringValue()
			require.NoError(t, err)
			assert.Equal(t, tt.in, got)
			assert.True(t, r.EOM())
		})
	}
}

func TestStringUnsupportedCharacters(t *testing.T) {
	w := NewWriter()
	w.WriteString("a日b")
	require.NoError(t, w.Err())

	got, err := w.Reader().ReadStringValue()
	require.NoError(t, err)
	assert.Equal(t, "a?b", got)
}

func TestStringTruncation(t *testing.T) {
	w := NewWriter()
	w.WriteString("hello world")
	w.WriteUint8(0x42)
	r := w.Reader()

	buf := make([]byte, 5)
	n, err := r.PeekString(buf)
	require.NoError(t, err)
	assert.Equal(t, 11, n)
	assert.Zero(t, r.Tell())

	clear(buf)
	n, err = r.ReadString(buf)
	require.NoError(t, err)
	assert.Equal(t, 11, n, "the full length is reported even when truncated")
	assert.Equal(t, []byte("hell\x00"), buf)

	// The whole string was consumed, so the next field lines up.
	v, err := r.ReadUint8()
	require.NoError(t, err)
	assert.EqualValues(t, 0x42, v)
}

func TestStringFitsExactly(t *testing.T) {
	w := NewWriter()
	w.WriteString("abc")
	r := w.Reader()

	buf := make([]byte, 4)
	n, err := r.ReadString(buf)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []byte("abc\x00"), buf)
}

func TestStringEmptyBuffer(t *testing.T) {
	w := NewWriter()
	w.WriteString("abc")
	r := w.Reader()

	n, err := r.ReadString(nil)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.True(t, r.EOM())
}

func TestStringTruncatedMessage(t *testing.T) {
	w := NewWriter()
	w.WriteUint32(20) // claims 20 characters
	w.WriteData([]byte("short"), 5*8)
	r := w.Reader()

	_, err := r.ReadStringValue()
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = r.ReadString(make([]byte, 32))
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.Zero(t, r.Tell())

	_, err = mustReader([]byte{1, 0}).ReadString(nil)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestWideStringRoundTrip(t *testing.T) {
	const in = "héllo 日本 😀"
	units := utf16.Encode([]rune(in))
	require.Len(t, units, 11)

	w := NewWriter()
	w.WriteBool(true) // keep the string unaligned
	w.WriteWString(in)
	require.NoError(t, w.Err())
	assert.EqualValues(t, 1+32+11*16, w.Size())

	r := w.Reader()
	_, err := r.ReadBool()
	require.NoError(t, err)

	got, err := r.PeekWStringValue()
	require.NoError(t, err)
	assert.Equal(t, in, got)

	buf := make([]uint16, 32)
	n, err := r.ReadWString(buf)
	require.NoError(t, err)
	assert.Equal(t, 11, n)
	assert.Equal(t, units, buf[:n])
	assert.Zero(t, buf[n])
	assert.True(t, r.EOM())
}

func TestWideStringTruncation(t *testing.T) {
	w := NewWriter()
	w.WriteWString("wide")
	r := w.Reader()

	buf := make([]uint16, 3)
	n, err := r.ReadWString(buf)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []uint16{'w', 'i', 0}, buf)
	assert.True(t, r.EOM())
}

func TestWideStringEmpty(t *testing.T) {
	w := NewWriter()
	w.WriteWString("")
	assert.EqualValues(t, 32, w.Size())

	got, err := w.Reader().ReadWStringValue()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStringPeekValue(t *testing.T) {
	w := NewWriter()
	w.WriteString("gg wp")
	w.WriteWString("né")
	require.NoError(t, w.Err())

	r := w.Reader()
	peekThenRead(t, r, 32+5*8, (*Reader).PeekStringValue, (*Reader).ReadStringValue)
	peekThenRead(t, r, 32+2*16, (*Reader).PeekWStringValue, (*Reader).ReadWStringValue)
	assert.True(t, r.EOM())
}
