package value

// Action tells Walk how to proceed after visiting a node.
type Action int

const (
	// Continue visits the children of the node, then its siblings.
	Continue Action = iota

	// SkipChildren visits the siblings of the node but not its children.
	SkipChildren

	// Stop ends the walk.
	Stop
)

// WalkFunc is called by Walk for each node.
type WalkFunc func(n *Node) Action

// Walk traverses nodes in depth-first, source order, calling fn for each
// node. Function arguments are visited right after the function itself
// unless fn returns SkipChildren. Returns false if fn returned Stop.
func Walk(nodes Nodes, fn WalkFunc) bool {
	for _, n := range nodes {
		switch fn(n) {
		case Stop:
			return false
		case SkipChildren:
			continue
		}
		if len(n.Nodes) > 0 && !Walk(n.Nodes, fn) {
			return false
		}
	}
	return true
}
