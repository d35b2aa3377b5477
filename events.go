package contrail

// EventType identifies a lifecycle event.
type EventType uint8

const (
	EventCloudSpawned EventType = iota // a pooled node became an active cloud
	EventCloudRetired                  // a cloud shrank below the retire radius
	EventFlightReset                   // the airplane started a new path
)

func (t EventType) String() string {
	switch t {
	case EventCloudSpawned:
		return "cloud_spawned"
	case EventCloudRetired:
		return "cloud_retired"
	case EventFlightReset:
		return "flight_reset"
	default:
		return "unknown"
	}
}

// Event carries lifecycle data to an EventSink.
type Event struct {
	Type   EventType
	Frame  uint64
	NodeID uint32
	// X, Y is the world position of the cloud or of the new entry point.
	X, Y float64
	// Cloud fields (valid for EventCloudSpawned, EventCloudRetired)
	Radius     float64
	MaxRadius  float64
	DriftsLeft bool
	// Flight fields (valid for EventFlightReset)
	Edge    Edge
	Speed   float64
	Heading float64
	Palette int
}

// EventSink receives lifecycle events synchronously on the frame thread.
// See package ecs for a Donburi-backed sink.
type EventSink interface {
	Emit(event Event)
}

// emit forwards e to the scene's sink, if any.
func (s *Scene) emit(e Event) {
	if s.sink == nil {
		return
	}
	e.Frame = s.frame
	s.sink.Emit(e)
}
