package transport

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/sirupsen/logrus"
	ltmsg "github.com/xfw5/Fear-SDK-1.08-sub000"
)

// LoopbackAddr names an endpoint on a Hub.
type LoopbackAddr string

func (LoopbackAddr) Network() string  { return "loopback" }
func (a LoopbackAddr) String() string { return string(a) }

// Hub connects in-process Loopback endpoints, for a listen server and its
// local client or for tests.
type Hub struct {
	mu        sync.Mutex
	endpoints map[LoopbackAddr]*Loopback
	log       *logrus.Entry
}

// NewHub creates an empty Hub. A nil logger selects the standard logger.
func NewHub(logger *logrus.Logger) *Hub {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Hub{
		endpoints: make(map[LoopbackAddr]*Loopback),
		log:       logger.WithField("component", "loopback"),
	}
}

// Endpoint registers a new endpoint named addr that queues up to backlog
// undelivered packets.
func (h *Hub) Endpoint(addr LoopbackAddr, backlog int) (*Loopback, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.endpoints[addr]; ok {
		return nil, fmt.Errorf("%w: loopback address %q in use", ltmsg.ErrInvalidArgument, addr)
	}
	l := &Loopback{
		hub:  h,
		addr: addr,
		ch:   make(chan Packet, backlog),
		done: make(chan struct{}),
	}
	h.endpoints[addr] = l
	h.log.WithField("addr", addr).Debug("endpoint registered")
	return l, nil
}

func (h *Hub) lookup(addr net.Addr) *Loopback {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.endpoints[LoopbackAddr(addr.String())]
}

func (h *Hub) remove(addr LoopbackAddr) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.endpoints, addr)
}

// Loopback is a Transport endpoint on a Hub.
type Loopback struct {
	hub       *Hub
	addr      LoopbackAddr
	ch        chan Packet
	done      chan struct{}
	closeOnce sync.Once
}

var _ Transport = (*Loopback)(nil)

func (l *Loopback) LocalAddr() net.Addr { return l.addr }

// Send copies the message into the queue of the endpoint at to. Sending to
// an address nobody listens on drops the packet, as UDP would.
func (l *Loopback) Send(ctx context.Context, to net.Addr, data []byte, nBits uint32) error {
	select {
	case <-l.done:
		return ErrClosed
	default:
	}
	if err := checkPayload(data, nBits); err != nil {
		return err
	}
	dst := l.hub.lookup(to)
	if dst == nil {
		l.hub.log.WithField("to", to).Debug("no endpoint, packet dropped")
		return nil
	}
	p := Packet{From: l.addr, Data: bytes.Clone(data[:ltmsg.BitsToBytes(nBits)]), Bits: nBits}
	select {
	case dst.ch <- p:
		return nil
	case <-dst.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Loopback) Receive(ctx context.Context) (Packet, error) {
	select {
	case p := <-l.ch:
		return p, nil
	case <-l.done:
		return Packet{}, ErrClosed
	case <-ctx.Done():
		return Packet{}, ctx.Err()
	}
}

// Close detaches the endpoint from its Hub. Queued packets are discarded.
func (l *Loopback) Close() error {
	l.closeOnce.Do(func() {
		close(l.done)
		l.hub.remove(l.addr)
		l.hub.log.WithField("addr", l.addr).Debug("endpoint closed")
	})
	return nil
}
