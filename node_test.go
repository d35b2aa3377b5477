package contrail

import (
	"testing"
)

func TestNewNodeDefaults(t *testing.T) {
	n := NewNode("test")
	if n.ID == 0 {
		t.Error("ID should be non-zero")
	}
	if n.Name != "test" {
		t.Errorf("Name = %q, want %q", n.Name, "test")
	}
	if !n.Visible {
		t.Error("Visible should default to true")
	}
	if n.Parent != nil || n.NumChildren() != 0 {
		t.Error("new node should be detached")
	}
	assertMatrix(t, "Local", n.Local, Identity())
	assertMatrix(t, "World", n.World(), Identity())
}

func TestUniqueIDs(t *testing.T) {
	seen := make(map[uint32]bool)
	for range 100 {
		n := NewNode("n")
		if seen[n.ID] {
			t.Fatalf("duplicate ID %d", n.ID)
		}
		seen[n.ID] = true
	}
}

func TestSetParentBasic(t *testing.T) {
	parent := NewNode("parent")
	child := NewNode("child")
	child.SetParent(parent)
	if child.Parent != parent {
		t.Error("child.Parent should be parent")
	}
	if parent.NumChildren() != 1 || parent.ChildAt(0) != child {
		t.Error("parent should have exactly child")
	}
}

func TestSetParentIdempotent(t *testing.T) {
	parent := NewNode("parent")
	child := NewNode("child")
	child.SetParent(parent)
	child.SetParent(parent)
	if parent.NumChildren() != 1 {
		t.Errorf("NumChildren = %d after setting the same parent twice, want 1", parent.NumChildren())
	}
}

func TestSetParentReparent(t *testing.T) {
	p1 := NewNode("p1")
	p2 := NewNode("p2")
	child := NewNode("child")
	child.SetParent(p1)
	child.SetParent(p2)
	if p1.NumChildren() != 0 {
		t.Error("p1 should have 0 children")
	}
	if p2.NumChildren() != 1 || child.Parent != p2 {
		t.Error("child should belong to p2")
	}
}

func TestSetParentCyclePanic(t *testing.T) {
	parent := NewNode("parent")
	child := NewNode("child")
	grandchild := NewNode("grandchild")
	child.SetParent(parent)
	grandchild.SetParent(child)

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for cycle, got none")
		}
	}()
	parent.SetParent(grandchild)
}

func TestSetParentSelfPanic(t *testing.T) {
	n := NewNode("self")
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for self-parent, got none")
		}
	}()
	n.SetParent(n)
}

func TestAddChildNilPanic(t *testing.T) {
	n := NewNode("n")
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for nil child, got none")
		}
	}()
	n.AddChild(nil)
}

func TestRemoveFromParent(t *testing.T) {
	parent := NewNode("parent")
	a := NewNode("a")
	b := NewNode("b")
	c := NewNode("c")
	parent.AddChild(a)
	parent.AddChild(b)
	parent.AddChild(c)

	b.RemoveFromParent()
	if b.Parent != nil {
		t.Error("b.Parent should be nil")
	}
	kids := parent.Children()
	if len(kids) != 2 || kids[0] != a || kids[1] != c {
		t.Errorf("children = %v, want [a c]", kids)
	}

	// Detached nodes are a no-op.
	b.RemoveFromParent()
}

func TestWorldTransformPropagation(t *testing.T) {
	root := NewNode("root")
	child := NewNode("child")
	grandchild := NewNode("grandchild")
	root.AddChild(child)
	child.AddChild(grandchild)

	root.Local = Translation(100, 50)
	child.Local = Multiply(Translation(10, 0), Scaling(2, 2))
	grandchild.Local = Translation(5, 5)
	root.UpdateWorldTransform()

	assertMatrix(t, "root", root.World(), root.Local)
	assertMatrix(t, "child", child.World(), Multiply(root.Local, child.Local))
	x, y := grandchild.WorldPosition()
	assertNear(t, "grandchild.x", x, 120)
	assertNear(t, "grandchild.y", y, 60)
}

func TestWorldTransformRoundTrip(t *testing.T) {
	root := NewNode("root")
	child := NewNode("child")
	root.AddChild(child)
	root.Local = Multiply(Translation(30, 40), Rotation(0.5))
	child.Local = Multiply(Translation(-7, 3), Scaling(0.25, 0.25))
	root.UpdateWorldTransform()

	// Undoing the parent's world recovers the child's local transform.
	local := Multiply(root.World().Invert(), child.World())
	assertMatrix(t, "recovered local", local, child.Local)
}

func TestWorldTransformIgnoresDetached(t *testing.T) {
	root := NewNode("root")
	child := NewNode("child")
	root.AddChild(child)
	root.Local = Translation(10, 10)
	root.UpdateWorldTransform()
	child.RemoveFromParent()

	root.Local = Translation(99, 99)
	root.UpdateWorldTransform()
	x, _ := child.WorldPosition()
	assertNear(t, "detached child keeps its last world", x, 10)
}
