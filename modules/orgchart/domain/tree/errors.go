package tree

import (
	"fmt"

	"github.com/google/uuid"
)

// Structural error codes. Stable identifiers; callers match on these rather
// than on messages.
const (
	CodeDuplicateRoot = "HIERARCHY_DUPLICATE_ROOT"
	CodeSelfParent    = "HIERARCHY_SELF_PARENT"
	CodeCycle         = "HIERARCHY_CYCLE"
	CodeMaxDepth      = "HIERARCHY_MAX_DEPTH"
	CodeRootProtected = "HIERARCHY_ROOT_PROTECTED"
	CodeRootMove      = "HIERARCHY_ROOT_MOVE"
)

// ValidationError reports malformed input to a single field or value object.
// It is raised before any state mutation is applied.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError reports a reference to an id absent from the addressed
// collection.
type NotFoundError struct {
	Kind string
	ID   uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func newNodeNotFound(id uuid.UUID) *NotFoundError {
	return &NotFoundError{Kind: "node", ID: id}
}

// HierarchyError reports a structural invariant violation specific to tree
// topology. The tree is guaranteed to be in its pre-call state.
type HierarchyError struct {
	Code    string
	NodeID  uuid.UUID
	Message string
}

func (e *HierarchyError) Error() string {
	if e.NodeID == uuid.Nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (node %s)", e.Code, e.Message, e.NodeID)
}

func newHierarchyError(code string, nodeID uuid.UUID, message string) *HierarchyError {
	return &HierarchyError{Code: code, NodeID: nodeID, Message: message}
}
