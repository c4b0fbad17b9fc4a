package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/panjf2000/ants"
	"github.com/puzpuzpuz/xsync/v4"
	"github.com/sirupsen/logrus"
	ltmsg "github.com/xfw5/Fear-SDK-1.08-sub000"
	"golang.org/x/sync/errgroup"
)

// MsgID is the 8-bit message type that leads every dispatched message.
type MsgID uint8

// ErrUnknownMessage indicates a message ID without a registered handler.
var ErrUnknownMessage = errors.New("transport: unknown message id")

// NewMessage starts a message of type id.
func NewMessage(id MsgID, opts ...ltmsg.Option) *ltmsg.Writer {
	w := ltmsg.NewWriter(opts...)
	w.WriteUint8(uint8(id))
	return w
}

// Handler processes the body of one message; r is positioned just after the
// message ID.
type Handler func(from net.Addr, r *ltmsg.Reader) error

// Dispatcher routes received messages to handlers by message ID. Handlers
// run on a bounded worker pool, so they may block without stalling the
// receive loop beyond the pool size.
type Dispatcher struct {
	handlers *xsync.Map[MsgID, Handler]
	pool     *ants.Pool
	opts     []ltmsg.Option
	log      *logrus.Entry
	wg       sync.WaitGroup
}

// NewDispatcher creates a Dispatcher running at most workers handlers at
// once. opts configure the Readers handed to handlers, typically the handle
// resolver of the receiving side.
func NewDispatcher(workers int, logger *logrus.Logger, opts ...ltmsg.Option) (*Dispatcher, error) {
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("dispatcher pool: %w", err)
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Dispatcher{
		handlers: xsync.NewMap[MsgID, Handler](),
		pool:     pool,
		opts:     opts,
		log:      logger.WithField("component", "dispatcher"),
	}, nil
}

// Handle registers h for id, replacing any previous handler.
func (d *Dispatcher) Handle(id MsgID, h Handler) {
	d.handlers.Store(id, h)
}

// Dispatch decodes the message ID of p and queues its handler. It returns
// once the handler has been queued, not when it has run.
func (d *Dispatcher) Dispatch(p Packet) error {
	r, err := p.Reader(d.opts...)
	if err != nil {
		return err
	}
	id, err := r.ReadUint8()
	if err != nil {
		return fmt.Errorf("message id: %w", err)
	}
	h, ok := d.handlers.Load(MsgID(id))
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownMessage, id)
	}
	d.wg.Add(1)
	err = d.pool.Submit(func() {
		defer d.wg.Done()
		d.report(MsgID(id), p.From, h(p.From, r))
	})
	if err != nil {
		d.wg.Done()
		return err
	}
	return nil
}

// report logs a handler failure at a level matching its cause.
func (d *Dispatcher) report(id MsgID, from net.Addr, err error) {
	if err == nil {
		return
	}
	entry := d.log.WithError(err).WithFields(logrus.Fields{"msg": id, "from": from})
	switch {
	case errors.Is(err, ltmsg.ErrResolution):
		entry.Debug("message references an unknown handle")
	case errors.Is(err, ltmsg.ErrOutOfRange):
		entry.Warn("malformed message dropped")
	default:
		entry.Error("handler failed")
	}
}

// Serve receives from every transport and dispatches what arrives until ctx
// is done or every transport is closed. Malformed or unroutable packets are
// logged and dropped.
func (d *Dispatcher) Serve(ctx context.Context, ts ...Transport) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, t := range ts {
		g.Go(func() error {
			log := d.log.WithField("local", t.LocalAddr())
			for {
				p, err := t.Receive(ctx)
				switch {
				case err == nil:
				case errors.Is(err, ErrClosed) || ctx.Err() != nil:
					return nil
				default:
					return err
				}
				if err := d.Dispatch(p); err != nil {
					log.WithError(err).WithField("from", p.From).Warn("packet dropped")
				}
			}
		})
	}
	return g.Wait()
}

// Close waits for queued handlers to finish and stops the worker pool.
func (d *Dispatcher) Close() error {
	d.wg.Wait()
	d.pool.Release()
	return nil
}
