package tree

import (
	"slices"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// DefaultMaxDepth bounds how many levels a tree may have: allowed node
// depths are 0 (root) through DefaultMaxDepth-1.
const DefaultMaxDepth = 10

// HierarchyTree is the aggregate root owning a keyed collection of nodes.
// All structural invariants (single root, acyclicity, bounded depth,
// parent/child consistency) are enforced here; a failed mutation leaves the
// tree in its pre-call state.
type HierarchyTree struct {
	id          uuid.UUID
	name        string
	description string
	nodes       map[uuid.UUID]*HierarchyNode
	rootID      *uuid.UUID
	maxDepth    int
	meta        Metadata
}

func NewTree(id uuid.UUID, name string, maxDepth int) (*HierarchyTree, error) {
	if id == uuid.Nil {
		return nil, newValidationError("id", "must not be the zero uuid")
	}
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &HierarchyTree{
		id:       id,
		name:     name,
		nodes:    make(map[uuid.UUID]*HierarchyNode),
		maxDepth: maxDepth,
		meta:     NewMetadata(),
	}, nil
}

func (t *HierarchyTree) ID() uuid.UUID       { return t.id }
func (t *HierarchyTree) Name() string        { return t.name }
func (t *HierarchyTree) Description() string { return t.description }
func (t *HierarchyTree) Metadata() Metadata  { return t.meta }
func (t *HierarchyTree) DepthLimit() int     { return t.maxDepth }
func (t *HierarchyTree) Size() int           { return len(t.nodes) }
func (t *HierarchyTree) IsEmpty() bool       { return len(t.nodes) == 0 }

func (t *HierarchyTree) Rename(name string) error {
	name, err := validateName(name)
	if err != nil {
		return err
	}
	t.name = name
	t.meta.touch()
	return nil
}

func (t *HierarchyTree) SetDescription(description string) {
	t.description = strings.TrimSpace(description)
	t.meta.touch()
}

// RootID returns a copy of the root pointer; nil when the tree is empty.
func (t *HierarchyTree) RootID() *uuid.UUID {
	if t.rootID == nil {
		return nil
	}
	id := *t.rootID
	return &id
}

func (t *HierarchyTree) Root() *HierarchyNode {
	if t.rootID == nil {
		return nil
	}
	return t.nodes[*t.rootID]
}

func (t *HierarchyTree) HasNode(id uuid.UUID) bool {
	_, ok := t.nodes[id]
	return ok
}

func (t *HierarchyTree) Node(id uuid.UUID) (*HierarchyNode, error) {
	node, ok := t.nodes[id]
	if !ok {
		return nil, newNodeNotFound(id)
	}
	return node, nil
}

// AddNode registers node under parentID. A nil parentID is only valid while
// the tree has no root; the node then becomes the root.
func (t *HierarchyTree) AddNode(node *HierarchyNode, parentID *uuid.UUID) error {
	if node == nil {
		return newValidationError("node", "must not be nil")
	}
	if _, exists := t.nodes[node.id]; exists {
		return newValidationError("id", "node "+node.id.String()+" already exists in tree")
	}

	if parentID == nil {
		if t.rootID != nil {
			return newHierarchyError(CodeDuplicateRoot, node.id, "tree already has a root")
		}
		node.setParent(nil)
		node.setOrder(0)
		t.nodes[node.id] = node
		id := node.id
		t.rootID = &id
		t.meta.touch()
		return nil
	}

	if *parentID == node.id {
		return newHierarchyError(CodeSelfParent, node.id, "a node cannot be its own parent")
	}
	parent, ok := t.nodes[*parentID]
	if !ok {
		return newNodeNotFound(*parentID)
	}
	if t.depthOf(parent)+1 >= t.maxDepth {
		return newHierarchyError(CodeMaxDepth, node.id, "insertion would exceed the configured depth bound")
	}

	if err := parent.linkChild(node.id); err != nil {
		return err
	}
	node.setParent(parentID)
	node.setOrder(len(parent.childIDs) - 1)
	t.nodes[node.id] = node
	t.meta.touch()
	return nil
}

// RemoveNode deletes a node. A root that still has children is protected and
// can never be removed; a childless root leaves the tree empty. Removing any
// other node reparents its direct children to the removed node's former
// parent, preserving the rest of the subtree.
func (t *HierarchyTree) RemoveNode(id uuid.UUID) error {
	node, ok := t.nodes[id]
	if !ok {
		return newNodeNotFound(id)
	}

	if node.parentID == nil {
		if node.HasChildren() {
			return newHierarchyError(CodeRootProtected, id, "cannot remove the root while it has children")
		}
		delete(t.nodes, id)
		t.rootID = nil
		t.meta.touch()
		return nil
	}

	parent := t.nodes[*node.parentID]
	for _, childID := range node.ChildIDs() {
		child := t.nodes[childID]
		if err := parent.linkChild(childID); err != nil {
			return err
		}
		child.setParent(node.parentID)
		child.setOrder(len(parent.childIDs) - 1)
	}
	parent.unlinkChild(id)
	delete(t.nodes, id)
	t.meta.touch()
	return nil
}

// MoveNode reattaches a node under a new parent. The root cannot be moved,
// and a node can never be moved under itself or one of its descendants.
func (t *HierarchyTree) MoveNode(id, newParentID uuid.UUID) error {
	if id == newParentID {
		return newHierarchyError(CodeSelfParent, id, "a node cannot be its own parent")
	}
	node, ok := t.nodes[id]
	if !ok {
		return newNodeNotFound(id)
	}
	if node.parentID == nil {
		return newHierarchyError(CodeRootMove, id, "the root cannot be moved")
	}
	newParent, ok := t.nodes[newParentID]
	if !ok {
		return newNodeNotFound(newParentID)
	}

	descendants, err := t.Descendants(id)
	if err != nil {
		return err
	}
	for _, d := range descendants {
		if d.id == newParentID {
			return newHierarchyError(CodeCycle, id, "cannot move a node under its own descendant")
		}
	}

	if t.depthOf(newParent)+1+t.heightOf(node) >= t.maxDepth {
		return newHierarchyError(CodeMaxDepth, id, "move would exceed the configured depth bound")
	}

	if *node.parentID == newParentID {
		return nil
	}

	if err := newParent.linkChild(id); err != nil {
		return err
	}
	t.nodes[*node.parentID].unlinkChild(id)
	node.setParent(&newParentID)
	node.setOrder(len(newParent.childIDs) - 1)
	t.meta.touch()
	return nil
}

// NodeUpdate is a partial update of a node's mutable fields. Nil fields are
// left untouched.
type NodeUpdate struct {
	Name        *string
	Description *string
	Kind        *NodeKind
	Email       *string
	Phone       *string
	Provisions  *ProvisionRates
	Position    *Position
	Expanded    *bool
	Visible     *bool
}

// UpdateNode applies a partial update and returns the prior values of every
// changed field, so a caller persisting optimistically can reverse the update
// mechanically. All fields are validated before anything mutates.
func (t *HierarchyTree) UpdateNode(id uuid.UUID, update NodeUpdate) (NodeUpdate, error) {
	node, ok := t.nodes[id]
	if !ok {
		return NodeUpdate{}, newNodeNotFound(id)
	}

	if update.Name != nil {
		if _, err := validateName(*update.Name); err != nil {
			return NodeUpdate{}, err
		}
	}
	if update.Kind != nil && !update.Kind.Valid() {
		return NodeUpdate{}, newValidationError("kind", "unknown node kind: "+string(*update.Kind))
	}

	var prior NodeUpdate
	if update.Name != nil {
		prev := node.name
		prior.Name = &prev
		_ = node.Rename(*update.Name)
	}
	if update.Description != nil {
		prev := node.description
		prior.Description = &prev
		node.SetDescription(*update.Description)
	}
	if update.Kind != nil {
		prev := node.kind
		prior.Kind = &prev
		_ = node.SetKind(*update.Kind)
	}
	if update.Email != nil || update.Phone != nil {
		prevEmail, prevPhone := node.email, node.phone
		prior.Email = &prevEmail
		prior.Phone = &prevPhone
		email, phone := node.email, node.phone
		if update.Email != nil {
			email = *update.Email
		}
		if update.Phone != nil {
			phone = *update.Phone
		}
		node.SetContact(email, phone)
	}
	if update.Provisions != nil {
		prev := node.provisions
		prior.Provisions = &prev
		node.SetProvisions(*update.Provisions)
	}
	if update.Position != nil {
		prev := node.position
		prior.Position = &prev
		node.SetPosition(*update.Position)
	}
	if update.Expanded != nil {
		prev := node.expanded
		prior.Expanded = &prev
		node.SetExpanded(*update.Expanded)
	}
	if update.Visible != nil {
		prev := node.visible
		prior.Visible = &prev
		node.SetVisible(*update.Visible)
	}
	t.meta.touch()
	return prior, nil
}

// ReorderChildren assigns new order indexes to a parent's children. The
// given slice must be an exact permutation of the current child set.
func (t *HierarchyTree) ReorderChildren(parentID uuid.UUID, orderedIDs []uuid.UUID) error {
	parent, ok := t.nodes[parentID]
	if !ok {
		return newNodeNotFound(parentID)
	}
	if len(orderedIDs) != len(parent.childIDs) {
		return newValidationError("child_ids", "must contain exactly the current children")
	}

	current := append([]uuid.UUID(nil), parent.childIDs...)
	proposed := append([]uuid.UUID(nil), orderedIDs...)
	byID := func(a, b uuid.UUID) int { return strings.Compare(a.String(), b.String()) }
	slices.SortFunc(current, byID)
	slices.SortFunc(proposed, byID)
	if !slices.Equal(current, proposed) {
		return newValidationError("child_ids", "must be a permutation of the current children")
	}

	parent.childIDs = append([]uuid.UUID(nil), orderedIDs...)
	for i, childID := range orderedIDs {
		t.nodes[childID].setOrder(i)
	}
	t.meta.touch()
	return nil
}

// Children returns the direct children ordered by ascending order index;
// equal indexes keep insertion order.
func (t *HierarchyTree) Children(id uuid.UUID) ([]*HierarchyNode, error) {
	node, ok := t.nodes[id]
	if !ok {
		return nil, newNodeNotFound(id)
	}
	return t.orderedChildren(node), nil
}

// Parent returns the parent node, or nil for the root.
func (t *HierarchyTree) Parent(id uuid.UUID) (*HierarchyNode, error) {
	node, ok := t.nodes[id]
	if !ok {
		return nil, newNodeNotFound(id)
	}
	if node.parentID == nil {
		return nil, nil
	}
	return t.nodes[*node.parentID], nil
}

// Ancestors returns the root-ward chain excluding the node itself, immediate
// parent first.
func (t *HierarchyTree) Ancestors(id uuid.UUID) ([]*HierarchyNode, error) {
	node, ok := t.nodes[id]
	if !ok {
		return nil, newNodeNotFound(id)
	}
	var out []*HierarchyNode
	for node.parentID != nil {
		parent, ok := t.nodes[*node.parentID]
		if !ok {
			break
		}
		out = append(out, parent)
		node = parent
		if len(out) > len(t.nodes) {
			break
		}
	}
	return out, nil
}

// Descendants returns the subtree below id in pre-order. Traversal uses an
// explicit stack so deep trees do not grow the call stack.
func (t *HierarchyTree) Descendants(id uuid.UUID) ([]*HierarchyNode, error) {
	node, ok := t.nodes[id]
	if !ok {
		return nil, newNodeNotFound(id)
	}

	var out []*HierarchyNode
	stack := make([]*HierarchyNode, 0, len(node.childIDs))
	pushChildren := func(n *HierarchyNode) {
		children := t.orderedChildren(n)
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}

	pushChildren(node)
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, current)
		pushChildren(current)
	}
	return out, nil
}

func (t *HierarchyTree) Siblings(id uuid.UUID) ([]*HierarchyNode, error) {
	node, ok := t.nodes[id]
	if !ok {
		return nil, newNodeNotFound(id)
	}
	if node.parentID == nil {
		return nil, nil
	}
	parent := t.nodes[*node.parentID]
	siblings := t.orderedChildren(parent)
	out := make([]*HierarchyNode, 0, len(siblings)-1)
	for _, s := range siblings {
		if s.id != id {
			out = append(out, s)
		}
	}
	return out, nil
}

// Depth returns the number of hops from the root; the root has depth 0.
func (t *HierarchyTree) Depth(id uuid.UUID) (int, error) {
	node, ok := t.nodes[id]
	if !ok {
		return 0, newNodeNotFound(id)
	}
	return t.depthOf(node), nil
}

// MaxDepth returns the deepest node depth currently in the tree; 0 when
// empty.
func (t *HierarchyTree) MaxDepth() int {
	maxDepth := 0
	for _, node := range t.nodes {
		if d := t.depthOf(node); d > maxDepth {
			maxDepth = d
		}
	}
	return maxDepth
}

// Traverse walks depth-first from startID (or the root), children in
// ascending order-index order. Returning false from fn aborts the walk.
func (t *HierarchyTree) Traverse(fn func(*HierarchyNode) bool, startID ...uuid.UUID) error {
	var start *HierarchyNode
	if len(startID) > 0 {
		node, ok := t.nodes[startID[0]]
		if !ok {
			return newNodeNotFound(startID[0])
		}
		start = node
	} else {
		start = t.Root()
		if start == nil {
			return nil
		}
	}

	stack := []*HierarchyNode{start}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(current) {
			return nil
		}
		children := t.orderedChildren(current)
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return nil
}

func (t *HierarchyTree) orderedChildren(n *HierarchyNode) []*HierarchyNode {
	out := make([]*HierarchyNode, 0, len(n.childIDs))
	for _, id := range n.childIDs {
		if child, ok := t.nodes[id]; ok {
			out = append(out, child)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].order < out[j].order })
	return out
}

func (t *HierarchyTree) depthOf(node *HierarchyNode) int {
	depth := 0
	for node.parentID != nil {
		parent, ok := t.nodes[*node.parentID]
		if !ok {
			break
		}
		depth++
		node = parent
		if depth > len(t.nodes) {
			break
		}
	}
	return depth
}

// heightOf returns the height of the subtree rooted at node: 0 for a leaf.
func (t *HierarchyTree) heightOf(node *HierarchyNode) int {
	type frame struct {
		node   *HierarchyNode
		height int
	}
	maxHeight := 0
	stack := []frame{{node: node, height: 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.height > maxHeight {
			maxHeight = f.height
		}
		for _, childID := range f.node.childIDs {
			if child, ok := t.nodes[childID]; ok {
				stack = append(stack, frame{node: child, height: f.height + 1})
			}
		}
	}
	return maxHeight
}
