// Package transport moves finished messages between peers. Messages are
// opaque here: a byte slice plus its exact length in bits, so a receiver can
// rebuild a Reader that stops at the last written bit instead of at the
// padding.
package transport

import (
	"context"
	"errors"
	"fmt"
	"net"

	ltmsg "github.com/xfw5/Fear-SDK-1.08-sub000"
)

var (
	// ErrClosed is returned by operations on a closed transport.
	ErrClosed = errors.New("transport: closed")

	// ErrPacketTooLarge indicates a message that does not fit a single
	// datagram of ltmsg.MaxPacketLen bytes including the frame header.
	ErrPacketTooLarge = errors.New("transport: packet too large")

	// ErrMalformedFrame indicates a datagram whose header disagrees with its
	// payload. Receivers drop such datagrams.
	ErrMalformedFrame = errors.New("transport: malformed frame")
)

// headerBits is the width of the bit-length header in front of every frame.
const headerBits = 16

// MaxPayloadBits is the largest message, in bits, a single packet carries.
const MaxPayloadBits = (ltmsg.MaxPacketLen - headerBits/8) * 8

// Packet is one received message.
type Packet struct {
	From net.Addr
	Data []byte
	Bits uint32
}

// Reader returns a Reader over exactly the bits the sender wrote.
func (p Packet) Reader(opts ...ltmsg.Option) (*ltmsg.Reader, error) {
	return ltmsg.NewReaderBits(p.Data, p.Bits, opts...)
}

// Transport sends and receives whole messages. Implementations are safe for
// concurrent use.
type Transport interface {
	// Send delivers the first nBits bits of data to the peer at to.
	// Delivery is best effort, like a datagram.
	Send(ctx context.Context, to net.Addr, data []byte, nBits uint32) error
	// Receive blocks until a message arrives, ctx is done or the transport
	// is closed.
	Receive(ctx context.Context) (Packet, error)
	LocalAddr() net.Addr
	Close() error
}

// SendMessage sends the contents of w. A writer holding an error is not sent.
func SendMessage(ctx context.Context, t Transport, to net.Addr, w *ltmsg.Writer) error {
	n, err := w.Result()
	if err != nil {
		return err
	}
	return t.Send(ctx, to, w.Bytes(), n)
}

func checkPayload(data []byte, nBits uint32) error {
	if uint64(nBits) > uint64(len(data))*8 {
		return fmt.Errorf("%w: %d bits from %d bytes", ltmsg.ErrInvalidArgument, nBits, len(data))
	}
	if nBits > MaxPayloadBits {
		return fmt.Errorf("%w: %d bits, limit %d", ErrPacketTooLarge, nBits, MaxPayloadBits)
	}
	return nil
}
