// Package contrail animates an airplane that trails expanding, fading cloud
// puffs across a 2D canvas, rendered from a small retained scene graph.
//
// # Quick start
//
// The ebitenrender package opens a window and drives a [Scene] once per
// display refresh:
//
//	cfg := contrail.DefaultConfig()
//	if err := ebitenrender.Run(cfg); err != nil {
//		log.Fatal(err)
//	}
//
// For another host, implement [Backend] and call [Scene.Frame] once per
// refresh, or split the work with [Scene.Step] and [Scene.Render].
//
// # Scene graph
//
// Every element is a [Node] with a local transform ([Mat3]) and a world
// transform derived from its parent chain. The flight root carries the
// airplane's position; the airplane (a child) carries its rotation, and each
// active cloud is parented under the root so it can cancel the root's
// motion and stay put in world space.
//
// # Clouds
//
// Clouds come from a fixed-capacity [CloudPool]. A cloud is spawned every
// SpawnInterval frames while the airplane is on-screen, grows by
// GrowthFactor per frame up to its maximum radius, then decays by
// DecayFactor per frame and returns to the pool once its radius drops to
// RetireRadius.
//
// # Flight
//
// When the airplane leaves the canvas (plus a margin) and every cloud has
// drained, [Flight] rolls a new speed, heading, palette and entry edge.
//
// # Configuration
//
// [DefaultConfig] reproduces the stock animation. [LoadConfig] overlays a
// TOML file on it:
//
//	spawn_interval = 3
//	background = "#101020"
//
//	[[palettes]]
//	name = "mono"
//	colors = ["#FFFFFF", "#DDDDDD", "#BBBBBB", "#999999"]
//
// # Logging
//
// Contrail is silent by default. [SetLogger] installs a [log/slog] logger;
// [Scene.SetDebugMode] adds per-frame stats at debug level.
package contrail
