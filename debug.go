package contrail

import (
	"time"
)

// FrameStats holds per-frame timing and draw metrics. Step fills the
// simulation half, Render the submission half.
type FrameStats struct {
	Frame      uint64
	StepTime   time.Duration
	SubmitTime time.Duration
	Clouds     int
	Spawned    bool
	Retired    int
	Submit     SubmitStats
}

// globalDebug mirrors the most recently set Scene debug flag so that node
// operations (which lack a Scene pointer) can check it cheaply.
var globalDebug bool

// debugLog writes the frame stats at debug level.
func (s *Scene) debugLog(stats FrameStats) {
	if !s.debug {
		return
	}
	logger.Debug("frame",
		"frame", stats.Frame,
		"step", stats.StepTime,
		"submit", stats.SubmitTime,
		"clouds", stats.Clouds,
		"spawned", stats.Spawned,
		"retired", stats.Retired,
		"entries", stats.Submit.Entries,
		"programBinds", stats.Submit.ProgramBinds,
		"bufferBinds", stats.Submit.BufferBinds,
		"drawCalls", stats.Submit.DrawCalls,
	)
}

// debugMaxTreeDepth is the depth above which reparenting logs a warning.
// The animation tree is two levels deep; anything deeper is a wiring bug.
const debugMaxTreeDepth = 8

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		logger.Warn("tree depth exceeds threshold", "depth", depth, "threshold", debugMaxTreeDepth, "node", n.Name)
	}
}

// debugMaxChildCount is the child count above which reparenting logs a
// warning.
const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		logger.Warn("child count exceeds threshold", "node", n.Name, "children", len(n.children), "threshold", debugMaxChildCount)
	}
}
