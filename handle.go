package ltmsg

import "math"

// Local handles are opaque, process-local references. The zero value of each
// is the null handle.
type (
	HObject uint64
	HTimer  uint64
	HRecord uint64
)

// Network IDs are what actually crosses the wire.
type (
	ObjectID uint16
	TimerID  uint32
	RecordID uint32
)

// Reserved IDs encoding a null, invalid or unmapped handle.
const (
	NullObjectID ObjectID = math.MaxUint16
	NullTimerID  TimerID  = math.MaxUint32
	NullRecordID RecordID = math.MaxUint32
)

// Wire widths of the network IDs.
const (
	ObjectIDBits = 16
	TimerIDBits  = 32
	RecordIDBits = 32
)

// ObjectResolver maps engine objects to network IDs and back.
type ObjectResolver interface {
	ObjectID(h HObject) (ObjectID, bool)
	Object(id ObjectID) (HObject, bool)
}

// TimerResolver maps engine timers to network IDs and back.
type TimerResolver interface {
	TimerID(h HTimer) (TimerID, bool)
	Timer(id TimerID) (HTimer, bool)
}

// RecordResolver maps game database records to network IDs and back.
type RecordResolver interface {
	RecordID(h HRecord) (RecordID, bool)
	Record(id RecordID) (HRecord, bool)
}

// HandleResolver is what writers and readers consult for WriteObject and
// WriteTimer. Database records are resolved against the database passed to
// WriteRecord/ReadRecord instead.
type HandleResolver interface {
	ObjectResolver
	TimerResolver
}
