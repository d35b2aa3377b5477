// Package ecs bridges contrail's lifecycle events into a [Donburi] world.
//
// [NewDonburiSink] publishes every [contrail.Event] to [LifecycleEventType]
// and mirrors active clouds as entities carrying a [Cloud] component, so
// ECS systems can query them alongside their own data.
//
// Usage:
//
//	world := donburi.NewWorld()
//	scene.SetEventSink(ecs.NewDonburiSink(world))
//	ecs.LifecycleEventType.Subscribe(world, onLifecycle)
//	// each frame, after scene.Step:
//	ecs.LifecycleEventType.ProcessEvents(world)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
