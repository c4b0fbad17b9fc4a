package transport

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	ltmsg "github.com/xfw5/Fear-SDK-1.08-sub000"
	"golang.org/x/sync/errgroup"
)

func listen(t *testing.T) (*UDP, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	u, err := ListenUDP("127.0.0.1:0", logger)
	require.NoError(t, err)
	t.Cleanup(func() { u.Close() })
	return u, hook
}

func TestFrameCodec(t *testing.T) {
	frame := encodeFrame([]byte{0xAB, 0x0D}, 12)
	assert.Equal(t, []byte{12, 0, 0xAB, 0x0D}, frame)

	data, bits, err := decodeFrame(frame)
	require.NoError(t, err)
	assert.EqualValues(t, 12, bits)
	assert.Equal(t, []byte{0xAB, 0x0D}, data)

	_, _, err = decodeFrame([]byte{12})
	assert.ErrorIs(t, err, ErrMalformedFrame)
	_, _, err = decodeFrame([]byte{12, 0, 0xAB})
	assert.ErrorIs(t, err, ErrMalformedFrame)
	_, _, err = decodeFrame(make([]byte, ltmsg.MaxPacketLen+1))
	assert.ErrorIs(t, err, ErrPacketTooLarge)
}

func TestUDPRoundTrip(t *testing.T) {
	server, _ := listen(t)
	client, _ := listen(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	w := ltmsg.NewWriter()
	w.WriteUint32(0xDEADBEEF)
	w.WriteBool(true)
	w.WriteCompPos(ltmsg.Vector{X: 100, Y: 200, Z: -300})

	var got Packet
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		got, err = server.Receive(ctx)
		return err
	})
	g.Go(func() error {
		return SendMessage(ctx, client, server.LocalAddr(), w)
	})
	require.NoError(t, g.Wait())

	assert.Equal(t, client.LocalAddr().String(), got.From.String())
	assert.Equal(t, w.Size(), got.Bits)

	r, err := got.Reader()
	require.NoError(t, err)
	v, err := r.ReadUint32()
	require.NoError(t, err)
	assert.EqualValues(t, 0xDEADBEEF, v)
	b, err := r.ReadBool()
	require.NoError(t, err)
	assert.True(t, b)
	pos, err := r.ReadCompPos()
	require.NoError(t, err)
	assert.InDelta(t, -300, pos.Z, 0.05)
	assert.True(t, r.EOM())
}

func TestUDPDropsMalformed(t *testing.T) {
	server, hook := listen(t)
	client, _ := listen(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	raw, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer raw.Close()
	_, err = raw.WriteTo([]byte{0xFF, 0xFF, 0x01}, server.LocalAddr())
	require.NoError(t, err)

	// Datagrams from one socket to another arrive in order on loopback.
	_, err = raw.WriteTo(encodeFrame([]byte{0x42}, 8), server.LocalAddr())
	require.NoError(t, err)

	p, err := server.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x42}, p.Data)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.ErrorIs(t, entry.Data[logrus.ErrorKey].(error), ErrMalformedFrame)

	// A regular send still works afterwards.
	require.NoError(t, client.Send(ctx, server.LocalAddr(), []byte{0x07}, 3))
	p, err = server.Receive(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, p.Bits)
}

func TestUDPErrors(t *testing.T) {
	server, _ := listen(t)
	client, _ := listen(t)

	t.Run("TooLarge", func(t *testing.T) {
		big := make([]byte, ltmsg.MaxPacketLen)
		err := client.Send(context.Background(), server.LocalAddr(), big, uint32(len(big))*8)
		assert.ErrorIs(t, err, ErrPacketTooLarge)
	})

	t.Run("ReceiveTimeout", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		_, err := server.Receive(ctx)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("CanceledSend", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, client.Send(ctx, server.LocalAddr(), []byte{1}, 8), context.Canceled)
	})

	t.Run("Closed", func(t *testing.T) {
		u, _ := listen(t)
		require.NoError(t, u.Close())
		require.NoError(t, u.Close())
		_, err := u.Receive(context.Background())
		assert.ErrorIs(t, err, ErrClosed)
		assert.ErrorIs(t, u.Send(context.Background(), server.LocalAddr(), nil, 0), ErrClosed)
	})

	t.Run("CloseUnblocksReceive", func(t *testing.T) {
		u, _ := listen(t)
		done := make(chan error, 1)
		go func() {
			_, err := u.Receive(context.Background())
			done <- err
		}()
		time.Sleep(20 * time.Millisecond)
		require.NoError(t, u.Close())
		select {
		case err := <-done:
			assert.ErrorIs(t, err, ErrClosed)
		case <-time.After(2 * time.Second):
			t.Fatal("Receive did not return after Close")
		}
	})
}
