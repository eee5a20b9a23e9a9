package replies

import "sort"

// MaxDepth caps reply nesting. Depth is clamped on insert; existing nodes
// are never re-validated against a changed cap.
const MaxDepth = 8

// DefaultAuthorID is the fallback persona. It is never deletable, so
// ReassignAuthor always has a valid target.
const DefaultAuthorID = "default"

// ReplyNode is one reply in the flat collection. ParentID nil means a
// top-level reply at depth 0.
type ReplyNode struct {
	ID        int64  `json:"id"`
	ParentID  *int64 `json:"parent_id"`
	Depth     int    `json:"depth"`
	SortOrder int    `json:"sort_order"`
	AuthorRef string `json:"author_ref"`
	Body      string `json:"body"`
}

// TreeNode is a ReplyNode with its children nested under it.
type TreeNode struct {
	ReplyNode
	Children []TreeNode `json:"children"`
}

// Manager owns one session's flat reply collection. It is not safe for
// concurrent mutation; callers serialize access.
type Manager struct {
	nodes  []ReplyNode
	nextID int64
}

func NewManager() *Manager {
	return &Manager{nextID: 1}
}

// Add appends a reply under parentID (nil for top level) and returns the
// new id. Depth is parent depth + 1, clamped to MaxDepth. A stale parent
// id is a no-op and returns 0.
func (m *Manager) Add(parentID *int64) int64 {
	depth := 0
	if parentID != nil {
		p, ok := m.find(*parentID)
		if !ok {
			return 0
		}
		depth = p.Depth + 1
		if depth > MaxDepth {
			depth = MaxDepth
		}
	}
	id := m.nextID
	m.nextID++
	m.nodes = append(m.nodes, ReplyNode{
		ID:        id,
		ParentID:  parentID,
		Depth:     depth,
		SortOrder: len(m.nodes),
		AuthorRef: DefaultAuthorID,
	})
	return id
}

// Update merges body and author onto the node. Identity fields (id, depth,
// parent) never change through Update. Unknown ids are ignored.
func (m *Manager) Update(id int64, body, authorRef *string) {
	for i := range m.nodes {
		if m.nodes[i].ID != id {
			continue
		}
		if body != nil {
			m.nodes[i].Body = *body
		}
		if authorRef != nil {
			m.nodes[i].AuthorRef = *authorRef
		}
		return
	}
}

// Delete removes the node and every descendant, then renumbers sortOrder
// densely. Deleting an unknown id is a no-op.
func (m *Manager) Delete(id int64) {
	if _, ok := m.find(id); !ok {
		return
	}
	// collect descendants with a work list; recursion depth is bounded by
	// MaxDepth anyway, but the explicit stack costs nothing
	doomed := map[int64]struct{}{id: {}}
	stack := []int64{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, n := range m.nodes {
			if n.ParentID != nil && *n.ParentID == cur {
				if _, seen := doomed[n.ID]; !seen {
					doomed[n.ID] = struct{}{}
					stack = append(stack, n.ID)
				}
			}
		}
	}

	kept := m.nodes[:0]
	for _, n := range m.nodes {
		if _, gone := doomed[n.ID]; !gone {
			kept = append(kept, n)
		}
	}
	m.nodes = kept
	m.renumber()
}

// Reorder moves the node to newIndex in the flat collection and renumbers.
// Out-of-range indexes clamp; unknown ids and same-position moves are no-ops.
func (m *Manager) Reorder(id int64, newIndex int) {
	cur := -1
	for i, n := range m.nodes {
		if n.ID == id {
			cur = i
			break
		}
	}
	if cur < 0 {
		return
	}
	if newIndex < 0 {
		newIndex = 0
	}
	if newIndex >= len(m.nodes) {
		newIndex = len(m.nodes) - 1
	}
	if newIndex == cur {
		return
	}
	n := m.nodes[cur]
	m.nodes = append(m.nodes[:cur], m.nodes[cur+1:]...)
	m.nodes = append(m.nodes[:newIndex], append([]ReplyNode{n}, m.nodes[newIndex:]...)...)
	m.renumber()
}

// ChildrenOf returns the direct children of parentID (nil for top level),
// sorted by sortOrder.
func (m *Manager) ChildrenOf(parentID *int64) []ReplyNode {
	var out []ReplyNode
	for _, n := range m.nodes {
		if sameParent(n.ParentID, parentID) {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out
}

// ToTree nests the flat collection into parent/child form, each level
// ordered by sortOrder.
func (m *Manager) ToTree() []TreeNode {
	return m.subtree(nil)
}

func (m *Manager) subtree(parentID *int64) []TreeNode {
	children := m.ChildrenOf(parentID)
	out := make([]TreeNode, 0, len(children))
	for _, c := range children {
		id := c.ID
		out = append(out, TreeNode{ReplyNode: c, Children: m.subtree(&id)})
	}
	return out
}

// ReassignAuthor rewrites every reference to fromAuthorID. Used when a
// persona is deleted.
func (m *Manager) ReassignAuthor(fromAuthorID, toAuthorID string) {
	for i := range m.nodes {
		if m.nodes[i].AuthorRef == fromAuthorID {
			m.nodes[i].AuthorRef = toAuthorID
		}
	}
}

// Nodes returns a copy of the flat collection in sortOrder.
func (m *Manager) Nodes() []ReplyNode {
	out := append([]ReplyNode(nil), m.nodes...)
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out
}

func (m *Manager) find(id int64) (ReplyNode, bool) {
	for _, n := range m.nodes {
		if n.ID == id {
			return n, true
		}
	}
	return ReplyNode{}, false
}

func (m *Manager) renumber() {
	for i := range m.nodes {
		m.nodes[i].SortOrder = i
	}
}

func sameParent(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
