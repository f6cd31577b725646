package mdast

import "errors"

// WalkStatus tells Walk how to proceed after a callback.
type WalkStatus int

const (
	// WalkContinue visits children and siblings as usual.
	WalkContinue WalkStatus = iota

	// WalkSkipChildren skips the children of the node just entered.
	WalkSkipChildren

	// WalkStop ends the walk without an error.
	WalkStop
)

// WalkFunc is called when entering and when leaving each node.
// Return a non-nil error to stop the walk.
type WalkFunc func(id NodeID, n *Node, entering bool) (WalkStatus, error)

// errStopWalk is used internally to stop walking early.
var errStopWalk = errors.New("stop walk")

type walkFrame struct {
	id   NodeID
	next int
}

// Walk performs a depth-first traversal below (and including) start.
// The ancestry lives on an explicit stack so deep documents never
// exhaust the goroutine stack.
func Walk(t *Tree, start NodeID, walkFunc WalkFunc) error {
	if t == nil || start < 0 || int(start) >= len(t.Nodes) {
		return nil
	}

	stack := []walkFrame{{id: start}}
	status, err := walkFunc(start, &t.Nodes[start], true)
	if err := walkResult(status, err); err != nil {
		return ignoreStop(err)
	}
	if status == WalkSkipChildren {
		stack[0].next = len(t.Nodes[start].Children)
	}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		children := t.Nodes[top.id].Children
		if top.next >= len(children) {
			stack = stack[:len(stack)-1]
			status, err := walkFunc(top.id, &t.Nodes[top.id], false)
			if err := walkResult(status, err); err != nil {
				return ignoreStop(err)
			}
			continue
		}

		child := children[top.next]
		top.next++

		status, err := walkFunc(child, &t.Nodes[child], true)
		if err := walkResult(status, err); err != nil {
			return ignoreStop(err)
		}
		frame := walkFrame{id: child}
		if status == WalkSkipChildren {
			frame.next = len(t.Nodes[child].Children)
		}
		stack = append(stack, frame)
	}

	return nil
}

func walkResult(status WalkStatus, err error) error {
	if err != nil {
		return err
	}
	if status == WalkStop {
		return errStopWalk
	}
	return nil
}

func ignoreStop(err error) error {
	if errors.Is(err, errStopWalk) {
		return nil
	}
	return err
}

// FindAll returns every node below start for which pred returns true,
// in document order.
func FindAll(t *Tree, start NodeID, pred func(id NodeID, n *Node) bool) []NodeID {
	var found []NodeID
	_ = Walk(t, start, func(id NodeID, n *Node, entering bool) (WalkStatus, error) {
		if entering {
			if pred(id, n) {
				found = append(found, id)
			}
		}
		return WalkContinue, nil
	})
	return found
}

// FindFirst returns the first node in document order for which pred
// returns true, or NoNode.
func FindFirst(t *Tree, start NodeID, pred func(id NodeID, n *Node) bool) NodeID {
	result := NoNode
	_ = Walk(t, start, func(id NodeID, n *Node, entering bool) (WalkStatus, error) {
		if !entering {
			return WalkContinue, nil
		}
		if pred(id, n) {
			result = id
			return WalkStop, nil
		}
		return WalkContinue, nil
	})
	return result
}

// FindByKind returns all nodes of the given kind below start.
func FindByKind(t *Tree, start NodeID, kind NodeKind) []NodeID {
	return FindAll(t, start, func(_ NodeID, n *Node) bool {
		return n.Kind == kind
	})
}
