package contrail

// nodeIDCounter is a plain counter (no atomic; contrail is single-threaded).
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// Node is the scene graph element: a local transform relative to its parent,
// a world transform derived from the parent chain, and the children it owns.
// Drawable nodes carry a Visual; cloud nodes additionally carry a CloudState.
type Node struct {
	// Identity
	ID   uint32
	Name string

	// Hierarchy
	Parent   *Node
	children []*Node

	// Transform. Local is mutated freely by animation code; world is only
	// written by UpdateWorldTransform.
	Local Mat3
	world Mat3

	// Visible gates draw-list emission for this node and its subtree.
	Visible bool

	// Visual is nil for pure transform nodes.
	Visual *Visual

	// Cloud is nil for every node that is not a pooled cloud.
	Cloud *CloudState
}

// NewNode creates a detached node with identity transforms.
func NewNode(name string) *Node {
	n := &Node{}
	nodeDefaults(n, name)
	return n
}

// nodeDefaults sets the field values shared by NewNode and the cloud pool,
// which initializes preallocated nodes in place.
func nodeDefaults(n *Node, name string) {
	n.ID = nextNodeID()
	n.Name = name
	n.Local = Identity()
	n.world = Identity()
	n.Visible = true
}

// World returns the world transform computed by the last propagation pass.
func (n *Node) World() Mat3 {
	return n.world
}

// WorldPosition returns where the node's origin lands in world space.
func (n *Node) WorldPosition() (x, y float64) {
	return n.world.Translation()
}

// --- Tree manipulation ---

// SetParent moves n under parent, detaching it from its current parent
// first. A nil parent only detaches. Setting the same parent again is a
// no-op, so a child appears at most once in a child list.
// Panics if parent is n or a descendant of n.
func (n *Node) SetParent(parent *Node) {
	if n.Parent == parent {
		return
	}
	if parent != nil && isAncestor(n, parent) {
		panic("contrail: reparenting would create a cycle")
	}
	if n.Parent != nil {
		n.Parent.removeChildByPtr(n)
	}
	n.Parent = parent
	if parent != nil {
		parent.children = append(parent.children, n)
		if globalDebug {
			debugCheckTreeDepth(n)
			debugCheckChildCount(parent)
		}
	}
}

// AddChild appends child to this node's children.
// Panics if child is nil.
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("contrail: cannot add nil child")
	}
	child.SetParent(n)
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	n.SetParent(nil)
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// --- World transforms ---

// UpdateWorldTransform recomputes world transforms for n and its subtree.
// n is treated as a root: its world transform is its local transform.
func (n *Node) UpdateWorldTransform() {
	n.world = n.Local
	for _, child := range n.children {
		child.UpdateWorldTransformFrom(n.world)
	}
}

// UpdateWorldTransformFrom sets world = parentWorld * Local and recurses into
// the children with the fresh world transform.
func (n *Node) UpdateWorldTransformFrom(parentWorld Mat3) {
	n.world = Multiply(parentWorld, n.Local)
	for _, child := range n.children {
		child.UpdateWorldTransformFrom(n.world)
	}
}

// --- Helpers ---

// isAncestor reports whether candidate is node or one of its ancestors.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}
