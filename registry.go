package ltmsg

import (
	"fmt"
	"sync"

	"github.com/puzpuzpuz/xsync/v4"
)

// binding is a bidirectional handle <-> ID map. Lookups are lock-free;
// Bind and Unbind serialize on mu so both directions change together.
type binding[H, I comparable] struct {
	mu  sync.Mutex
	fwd *xsync.Map[H, I]
	rev *xsync.Map[I, H]
}

func newBinding[H, I comparable]() *binding[H, I] {
	return &binding[H, I]{fwd: xsync.NewMap[H, I](), rev: xsync.NewMap[I, H]()}
}

func (b *binding[H, I]) bind(h H, id I) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if old, ok := b.fwd.Load(h); ok {
		b.rev.Delete(old)
	}
	if old, ok := b.rev.Load(id); ok {
		b.fwd.Delete(old)
	}
	b.fwd.Store(h, id)
	b.rev.Store(id, h)
}

func (b *binding[H, I]) unbind(h H) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if id, ok := b.fwd.LoadAndDelete(h); ok {
		b.rev.Delete(id)
	}
}

// Registry is an in-process HandleResolver and RecordResolver backed by
// concurrent maps. It is safe for concurrent use; servers typically bind an
// object when it is created and unbind it when it is removed.
type Registry struct {
	objects *binding[HObject, ObjectID]
	timers  *binding[HTimer, TimerID]
	records *binding[HRecord, RecordID]
}

var (
	_ HandleResolver = (*Registry)(nil)
	_ RecordResolver = (*Registry)(nil)
)

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		objects: newBinding[HObject, ObjectID](),
		timers:  newBinding[HTimer, TimerID](),
		records: newBinding[HRecord, RecordID](),
	}
}

// BindObject associates h with id, replacing any previous binding of either.
func (r *Registry) BindObject(h HObject, id ObjectID) error {
	if h == 0 || id == NullObjectID {
		return fmt.Errorf("%w: cannot bind object %d to id %d", ErrInvalidArgument, h, id)
	}
	r.objects.bind(h, id)
	return nil
}

// UnbindObject forgets h. Messages still in flight that reference it will
// decode with ErrResolution.
func (r *Registry) UnbindObject(h HObject) { r.objects.unbind(h) }

func (r *Registry) BindTimer(h HTimer, id TimerID) error {
	if h == 0 || id == NullTimerID {
		return fmt.Errorf("%w: cannot bind timer %d to id %d", ErrInvalidArgument, h, id)
	}
	r.timers.bind(h, id)
	return nil
}

func (r *Registry) UnbindTimer(h HTimer) { r.timers.unbind(h) }

func (r *Registry) BindRecord(h HRecord, id RecordID) error {
	if h == 0 || id == NullRecordID {
		return fmt.Errorf("%w: cannot bind record %d to id %d", ErrInvalidArgument, h, id)
	}
	r.records.bind(h, id)
	return nil
}

func (r *Registry) UnbindRecord(h HRecord) { r.records.unbind(h) }

func (r *Registry) ObjectID(h HObject) (ObjectID, bool) { return r.objects.fwd.Load(h) }
func (r *Registry) Object(id ObjectID) (HObject, bool)  { return r.objects.rev.Load(id) }
func (r *Registry) TimerID(h HTimer) (TimerID, bool)    { return r.timers.fwd.Load(h) }
func (r *Registry) Timer(id TimerID) (HTimer, bool)     { return r.timers.rev.Load(id) }
func (r *Registry) RecordID(h HRecord) (RecordID, bool) { return r.records.fwd.Load(h) }
func (r *Registry) Record(id RecordID) (HRecord, bool)  { return r.records.rev.Load(id) }
