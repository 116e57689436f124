package schema

// TreeNode is one node of the reconstructed alignment hierarchy. The core
// contract is Name plus Children; Kind and the key-result figures exist so
// display transforms can stay stateless and outside the core.
type TreeNode struct {
	Name     string      `json:"name"`
	Kind     NodeKind    `json:"kind"`
	Current  float64     `json:"current,omitempty"` // Key-result leaves only
	Target   float64     `json:"target,omitempty"`  // Key-result leaves only
	Unit     string      `json:"unit,omitempty"`    // Key-result leaves only
	Children []*TreeNode `json:"children,omitempty"`
}

// AddChild appends a child node and returns it for chaining.
func (n *TreeNode) AddChild(child *TreeNode) *TreeNode {
	n.Children = append(n.Children, child)
	return child
}

// CountKind returns the number of nodes of the given kind in the subtree
// rooted at n, including n itself.
func (n *TreeNode) CountKind(kind NodeKind) int {
	count := 0
	if n.Kind == kind {
		count++
	}
	for _, child := range n.Children {
		count += child.CountKind(kind)
	}
	return count
}

// Walk visits n and every descendant in depth-first order. The callback
// receives the node and its depth, with the root at depth 0.
func (n *TreeNode) Walk(fn func(node *TreeNode, depth int)) {
	n.walk(fn, 0)
}

func (n *TreeNode) walk(fn func(node *TreeNode, depth int), depth int) {
	fn(n, depth)
	for _, child := range n.Children {
		child.walk(fn, depth+1)
	}
}
