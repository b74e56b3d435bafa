package tree

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// NodeSnapshot is the round-trippable plain-data representation of a node.
type NodeSnapshot struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Kind        NodeKind          `json:"kind"`
	Email       string            `json:"email,omitempty"`
	Phone       string            `json:"phone,omitempty"`
	Provisions  ProvisionRates    `json:"provisions"`
	Position    Position          `json:"position"`
	Expanded    bool              `json:"expanded"`
	Visible     bool              `json:"visible"`
	Order       int               `json:"order"`
	ParentID    *uuid.UUID        `json:"parent_id,omitempty"`
	ChildIDs    []uuid.UUID       `json:"child_ids,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Custom      map[string]string `json:"custom,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// TreeSnapshot is the round-trippable plain-data representation of a whole
// tree. Nodes appear in pre-order; child id lists preserve insertion order.
type TreeSnapshot struct {
	ID          uuid.UUID      `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	RootID      *uuid.UUID     `json:"root_id,omitempty"`
	MaxDepth    int            `json:"max_depth"`
	Nodes       []NodeSnapshot `json:"nodes"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (n *HierarchyNode) Snapshot() NodeSnapshot {
	return NodeSnapshot{
		ID:          n.id,
		Name:        n.name,
		Description: n.description,
		Kind:        n.kind,
		Email:       n.email,
		Phone:       n.phone,
		Provisions:  n.provisions,
		Position:    n.position,
		Expanded:    n.expanded,
		Visible:     n.visible,
		Order:       n.order,
		ParentID:    n.ParentID(),
		ChildIDs:    n.ChildIDs(),
		Tags:        n.meta.Tags(),
		Custom:      n.meta.Custom(),
		CreatedAt:   n.meta.createdAt,
		UpdatedAt:   n.meta.updatedAt,
	}
}

// HydrateNode reconstructs a node from its snapshot. Field validation is
// re-applied; links are taken verbatim and checked by HydrateTree.
func HydrateNode(s NodeSnapshot) (*HierarchyNode, error) {
	node, err := NewNode(s.ID, s.Name, s.Kind)
	if err != nil {
		return nil, err
	}
	node.description = s.Description
	node.email = s.Email
	node.phone = s.Phone
	node.provisions = s.Provisions.clamped()
	node.position = s.Position
	node.expanded = s.Expanded
	node.visible = s.Visible
	node.order = s.Order
	node.setParent(s.ParentID)
	node.childIDs = append([]uuid.UUID(nil), s.ChildIDs...)
	node.meta = HydrateMetadata(s.CreatedAt, s.UpdatedAt, s.Tags, s.Custom)
	return node, nil
}

func (t *HierarchyTree) Snapshot() TreeSnapshot {
	nodes := make([]NodeSnapshot, 0, len(t.nodes))
	_ = t.Traverse(func(n *HierarchyNode) bool {
		nodes = append(nodes, n.Snapshot())
		return true
	})
	return TreeSnapshot{
		ID:          t.id,
		Name:        t.name,
		Description: t.description,
		RootID:      t.RootID(),
		MaxDepth:    t.maxDepth,
		Nodes:       nodes,
		CreatedAt:   t.meta.createdAt,
		UpdatedAt:   t.meta.updatedAt,
	}
}

// HydrateTree reconstructs a tree from its snapshot and re-checks the
// structural invariants, so a corrupted persisted representation never
// produces a tree that violates them.
func HydrateTree(s TreeSnapshot) (*HierarchyTree, error) {
	t, err := NewTree(s.ID, s.Name, s.MaxDepth)
	if err != nil {
		return nil, err
	}
	t.description = s.Description
	t.meta = HydrateMetadata(s.CreatedAt, s.UpdatedAt, nil, nil)

	for _, ns := range s.Nodes {
		if _, dup := t.nodes[ns.ID]; dup {
			return nil, newValidationError("nodes", "duplicate node id "+ns.ID.String())
		}
		node, err := HydrateNode(ns)
		if err != nil {
			return nil, err
		}
		t.nodes[ns.ID] = node
	}

	if s.RootID != nil {
		id := *s.RootID
		t.rootID = &id
	}

	if err := t.checkConsistency(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *HierarchyTree) checkConsistency() error {
	rootCount := 0
	for _, node := range t.nodes {
		seen := make(map[uuid.UUID]struct{}, len(node.childIDs))
		for _, childID := range node.childIDs {
			if _, dup := seen[childID]; dup {
				return newValidationError("child_ids", "duplicate child id "+childID.String())
			}
			seen[childID] = struct{}{}
			child, ok := t.nodes[childID]
			if !ok {
				return newNodeNotFound(childID)
			}
			if child.parentID == nil || *child.parentID != node.id {
				return newValidationError("parent_id", "child "+childID.String()+" does not point back to its parent")
			}
		}
		if node.parentID == nil {
			rootCount++
			if t.rootID == nil || *t.rootID != node.id {
				return newValidationError("root_id", "root pointer does not match the parentless node")
			}
			continue
		}
		parent, ok := t.nodes[*node.parentID]
		if !ok {
			return newNodeNotFound(*node.parentID)
		}
		found := false
		for _, childID := range parent.childIDs {
			if childID == node.id {
				found = true
				break
			}
		}
		if !found {
			return newValidationError("child_ids", "parent of "+node.id.String()+" does not list it as a child")
		}
	}
	if rootCount > 1 {
		return newHierarchyError(CodeDuplicateRoot, uuid.Nil, "more than one parentless node")
	}
	if rootCount == 0 && len(t.nodes) > 0 {
		return newHierarchyError(CodeCycle, uuid.Nil, "no root: the node set is cyclic")
	}
	if t.rootID != nil {
		reachable := 0
		_ = t.Traverse(func(*HierarchyNode) bool {
			reachable++
			return true
		})
		if reachable != len(t.nodes) {
			return newHierarchyError(CodeCycle, uuid.Nil, "unreachable nodes: the node set is cyclic or detached")
		}
	}
	return nil
}

// Clone returns a deep copy. Used by callers that mutate optimistically and
// need the pre-mutation state for rollback.
func (t *HierarchyTree) Clone() *HierarchyTree {
	clone, err := HydrateTree(t.Snapshot())
	if err != nil {
		// A held tree always satisfies its own invariants.
		panic("tree: clone of a consistent tree failed: " + err.Error())
	}
	return clone
}

func (t *HierarchyTree) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Snapshot())
}

func (t *HierarchyTree) UnmarshalJSON(data []byte) error {
	var s TreeSnapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	hydrated, err := HydrateTree(s)
	if err != nil {
		return err
	}
	*t = *hydrated
	return nil
}
