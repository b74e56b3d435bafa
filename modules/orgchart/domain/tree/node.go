package tree

import (
	"slices"
	"strings"

	"github.com/google/uuid"
)

type NodeKind string

const (
	KindRoot       NodeKind = "root"
	KindDepartment NodeKind = "department"
	KindTeam       NodeKind = "team"
	KindRole       NodeKind = "role"
	KindPerson     NodeKind = "person"
	KindProcess    NodeKind = "process"
	KindTask       NodeKind = "task"
	KindMilestone  NodeKind = "milestone"
	KindCustom     NodeKind = "custom"
)

func (k NodeKind) Valid() bool {
	switch k {
	case KindRoot, KindDepartment, KindTeam, KindRole, KindPerson, KindProcess, KindTask, KindMilestone, KindCustom:
		return true
	}
	return false
}

const maxNameLength = 200

// Position is a 2-D display position on the chart canvas.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ProvisionRates holds the three commission base rates of a node, each
// clamped to [0, 100].
type ProvisionRates struct {
	Bank       float64 `json:"bank"`
	Insurance  float64 `json:"insurance"`
	RealEstate float64 `json:"real_estate"`
}

func clampRate(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func (r ProvisionRates) clamped() ProvisionRates {
	return ProvisionRates{
		Bank:       clampRate(r.Bank),
		Insurance:  clampRate(r.Insurance),
		RealEstate: clampRate(r.RealEstate),
	}
}

// HierarchyNode is a single organizational unit. Parent/child links are owned
// by the tree; nodes only validate their own fields.
type HierarchyNode struct {
	id          uuid.UUID
	name        string
	description string
	kind        NodeKind
	email       string
	phone       string
	provisions  ProvisionRates
	position    Position
	expanded    bool
	visible     bool
	order       int
	parentID    *uuid.UUID
	childIDs    []uuid.UUID
	meta        Metadata
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", newValidationError("name", "must not be empty")
	}
	if len([]rune(name)) > maxNameLength {
		return "", newValidationError("name", "must be at most 200 characters")
	}
	return name, nil
}

func NewNode(id uuid.UUID, name string, kind NodeKind) (*HierarchyNode, error) {
	if id == uuid.Nil {
		return nil, newValidationError("id", "must not be the zero uuid")
	}
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}
	if !kind.Valid() {
		return nil, newValidationError("kind", "unknown node kind: "+string(kind))
	}
	return &HierarchyNode{
		id:       id,
		name:     name,
		kind:     kind,
		expanded: true,
		visible:  true,
		meta:     NewMetadata(),
	}, nil
}

func (n *HierarchyNode) ID() uuid.UUID              { return n.id }
func (n *HierarchyNode) Name() string               { return n.name }
func (n *HierarchyNode) Description() string        { return n.description }
func (n *HierarchyNode) Kind() NodeKind             { return n.kind }
func (n *HierarchyNode) Email() string              { return n.email }
func (n *HierarchyNode) Phone() string              { return n.phone }
func (n *HierarchyNode) Provisions() ProvisionRates { return n.provisions }
func (n *HierarchyNode) Position() Position         { return n.position }
func (n *HierarchyNode) Expanded() bool             { return n.expanded }
func (n *HierarchyNode) Visible() bool              { return n.visible }
func (n *HierarchyNode) Order() int                 { return n.order }
func (n *HierarchyNode) Metadata() Metadata         { return n.meta }
func (n *HierarchyNode) IsRoot() bool               { return n.parentID == nil }

// ParentID returns a copy of the parent pointer; nil for the root.
func (n *HierarchyNode) ParentID() *uuid.UUID {
	if n.parentID == nil {
		return nil
	}
	id := *n.parentID
	return &id
}

// ChildIDs returns a defensive copy of the child id list in insertion order.
func (n *HierarchyNode) ChildIDs() []uuid.UUID {
	return append([]uuid.UUID(nil), n.childIDs...)
}

func (n *HierarchyNode) HasChildren() bool { return len(n.childIDs) > 0 }

func (n *HierarchyNode) Rename(name string) error {
	name, err := validateName(name)
	if err != nil {
		return err
	}
	n.name = name
	n.meta.touch()
	return nil
}

func (n *HierarchyNode) SetDescription(description string) {
	n.description = strings.TrimSpace(description)
	n.meta.touch()
}

func (n *HierarchyNode) SetKind(kind NodeKind) error {
	if !kind.Valid() {
		return newValidationError("kind", "unknown node kind: "+string(kind))
	}
	n.kind = kind
	n.meta.touch()
	return nil
}

// SetContact stores contact fields verbatim; format enforcement is not this
// layer's concern.
func (n *HierarchyNode) SetContact(email, phone string) {
	n.email = strings.TrimSpace(email)
	n.phone = strings.TrimSpace(phone)
	n.meta.touch()
}

func (n *HierarchyNode) SetProvisions(rates ProvisionRates) {
	n.provisions = rates.clamped()
	n.meta.touch()
}

func (n *HierarchyNode) SetPosition(pos Position) {
	n.position = pos
	n.meta.touch()
}

func (n *HierarchyNode) SetExpanded(expanded bool) {
	n.expanded = expanded
	n.meta.touch()
}

func (n *HierarchyNode) SetVisible(visible bool) {
	n.visible = visible
	n.meta.touch()
}

func (n *HierarchyNode) SetTags(tags []string) {
	n.meta.setTags(tags)
}

func (n *HierarchyNode) SetCustomField(key, value string) {
	n.meta.setCustom(key, value)
}

func (n *HierarchyNode) setOrder(order int) {
	n.order = order
	n.meta.touch()
}

func (n *HierarchyNode) setParent(parentID *uuid.UUID) {
	if parentID == nil {
		n.parentID = nil
		return
	}
	id := *parentID
	n.parentID = &id
}

func (n *HierarchyNode) linkChild(id uuid.UUID) error {
	if id == n.id {
		return newHierarchyError(CodeSelfParent, n.id, "a node cannot be its own child")
	}
	if slices.Contains(n.childIDs, id) {
		return newValidationError("child_ids", "duplicate child id "+id.String())
	}
	n.childIDs = append(n.childIDs, id)
	return nil
}

func (n *HierarchyNode) unlinkChild(id uuid.UUID) {
	for i, childID := range n.childIDs {
		if childID == id {
			n.childIDs = append(n.childIDs[:i], n.childIDs[i+1:]...)
			return
		}
	}
}
