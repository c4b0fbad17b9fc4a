package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	ltmsg "github.com/xfw5/Fear-SDK-1.08-sub000"
)

// pollInterval bounds how long Receive blocks in the socket before it looks
// at its context again.
const pollInterval = 100 * time.Millisecond

// UDP sends each message as one datagram: a 16-bit little-endian bit length
// followed by the message bytes.
type UDP struct {
	conn   net.PacketConn
	log    *logrus.Entry
	closed atomic.Bool
}

var _ Transport = (*UDP)(nil)

// ListenUDP opens a UDP socket on addr, for example "127.0.0.1:0".
func ListenUDP(addr string, logger *logrus.Logger) (*UDP, error) {
	conn, err := net.ListenPacket("udp", addr)
	if err != nil {
		return nil, err
	}
	return NewUDP(conn, logger), nil
}

// NewUDP wraps an existing packet connection. The UDP takes ownership of
// conn. A nil logger selects the standard logger.
func NewUDP(conn net.PacketConn, logger *logrus.Logger) *UDP {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	u := &UDP{
		conn: conn,
		log:  logger.WithFields(logrus.Fields{"component": "udp", "local": conn.LocalAddr().String()}),
	}
	u.log.Info("listening")
	return u
}

func (u *UDP) LocalAddr() net.Addr { return u.conn.LocalAddr() }

// encodeFrame prepends the bit length to a message.
func encodeFrame(data []byte, nBits uint32) []byte {
	w := ltmsg.AcquireWriter()
	defer ltmsg.ReleaseWriter(w)
	w.WriteUint16(uint16(nBits))
	w.WriteData(data, nBits)
	return w.AppendTo(make([]byte, 0, w.Len()))
}

// decodeFrame validates a datagram and splits off its payload.
func decodeFrame(b []byte) ([]byte, uint32, error) {
	if len(b) > ltmsg.MaxPacketLen {
		return nil, 0, fmt.Errorf("%w: %d byte datagram", ErrPacketTooLarge, len(b))
	}
	r, err := ltmsg.NewReader(b)
	if err != nil {
		return nil, 0, err
	}
	n, err := r.ReadUint16()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	if want := headerBits/8 + int(ltmsg.BitsToBytes(uint32(n))); want != len(b) {
		return nil, 0, fmt.Errorf("%w: header says %d bits, datagram has %d bytes", ErrMalformedFrame, n, len(b))
	}
	return bytes.Clone(b[headerBits/8:]), uint32(n), nil
}

func (u *UDP) Send(ctx context.Context, to net.Addr, data []byte, nBits uint32) error {
	if u.closed.Load() {
		return ErrClosed
	}
	if err := checkPayload(data, nBits); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	deadline, _ := ctx.Deadline()
	if err := u.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	if _, err := u.conn.WriteTo(encodeFrame(data, nBits), to); err != nil {
		if u.closed.Load() {
			return ErrClosed
		}
		return err
	}
	return nil
}

// Receive returns the next well-formed datagram. Malformed datagrams are
// logged and skipped.
func (u *UDP) Receive(ctx context.Context) (Packet, error) {
	// One spare byte tells an oversized datagram apart from a full one.
	buf := make([]byte, ltmsg.MaxPacketLen+1)
	for {
		if u.closed.Load() {
			return Packet{}, ErrClosed
		}
		if err := ctx.Err(); err != nil {
			return Packet{}, err
		}
		deadline := time.Now().Add(pollInterval)
		if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
			deadline = d
		}
		if err := u.conn.SetReadDeadline(deadline); err != nil {
			return Packet{}, err
		}
		n, from, err := u.conn.ReadFrom(buf)
		if err != nil {
			if u.closed.Load() || errors.Is(err, net.ErrClosed) {
				return Packet{}, ErrClosed
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				continue
			}
			return Packet{}, err
		}
		data, bits, err := decodeFrame(buf[:n])
		if err != nil {
			u.log.WithError(err).WithField("from", from).Warn("dropping datagram")
			continue
		}
		return Packet{From: from, Data: data, Bits: bits}, nil
	}
}

func (u *UDP) Close() error {
	if u.closed.Swap(true) {
		return nil
	}
	u.log.Info("closing")
	return u.conn.Close()
}
