// Package ecs provides ECS adapters for contrail.
package ecs

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"

	"github.com/phanxgames/contrail"
)

// LifecycleEventType is the Donburi event type for contrail lifecycle
// events. Subscribe to it to observe spawns, retirements and flight resets.
var LifecycleEventType = events.NewEventType[contrail.Event]()

// CloudData mirrors one active cloud as a Donburi component.
type CloudData struct {
	NodeID     uint32
	X, Y       float64
	MaxRadius  float64
	DriftsLeft bool
	SpawnFrame uint64
}

// Cloud is the component type attached to mirrored clouds.
var Cloud = donburi.NewComponentType[CloudData]()

var cloudQuery = donburi.NewQuery(filter.Contains(Cloud))

// DonburiSink is a [contrail.EventSink] backed by a Donburi world.
type DonburiSink struct {
	world    donburi.World
	entities map[uint32]donburi.Entity
}

// NewDonburiSink creates an EventSink that publishes every event to
// LifecycleEventType and keeps one entity with a [Cloud] component per
// active cloud. Events are queued; consume them with events.Subscribe
// and ProcessEvents.
func NewDonburiSink(world donburi.World) *DonburiSink {
	return &DonburiSink{world: world, entities: make(map[uint32]donburi.Entity)}
}

// Emit implements [contrail.EventSink].
func (s *DonburiSink) Emit(e contrail.Event) {
	switch e.Type {
	case contrail.EventCloudSpawned:
		entity := s.world.Create(Cloud)
		Cloud.SetValue(s.world.Entry(entity), CloudData{
			NodeID:     e.NodeID,
			X:          e.X,
			Y:          e.Y,
			MaxRadius:  e.MaxRadius,
			DriftsLeft: e.DriftsLeft,
			SpawnFrame: e.Frame,
		})
		s.entities[e.NodeID] = entity
	case contrail.EventCloudRetired:
		if entity, ok := s.entities[e.NodeID]; ok {
			s.world.Remove(entity)
			delete(s.entities, e.NodeID)
		}
	}
	LifecycleEventType.Publish(s.world, e)
}

// ActiveClouds returns the number of mirrored clouds in world.
func ActiveClouds(world donburi.World) int {
	return cloudQuery.Count(world)
}

// EachCloud calls fn for every mirrored cloud in world.
func EachCloud(world donburi.World, fn func(CloudData)) {
	cloudQuery.Each(world, func(entry *donburi.Entry) {
		fn(*Cloud.Get(entry))
	})
}
