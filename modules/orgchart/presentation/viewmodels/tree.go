package viewmodels

import (
	"time"

	"github.com/google/uuid"
)

// TreeNode is the flat, depth-annotated representation the API returns.
// Nodes appear in pre-order, siblings in their display order.
type TreeNode struct {
	ID          uuid.UUID      `json:"id"`
	ParentID    *uuid.UUID     `json:"parent_id,omitempty"`
	Name        string         `json:"name"`
	Kind        string         `json:"kind"`
	Description string         `json:"description,omitempty"`
	Email       string         `json:"email,omitempty"`
	Phone       string         `json:"phone,omitempty"`
	Depth       int            `json:"depth"`
	Order       int            `json:"order"`
	Provisions  ProvisionRates `json:"provisions"`
	Position    Position       `json:"position"`
	Expanded    bool           `json:"expanded"`
	Visible     bool           `json:"visible"`
	Tags        []string       `json:"tags,omitempty"`
	ChildCount  int            `json:"child_count"`
}

type ProvisionRates struct {
	Bank       float64 `json:"bank"`
	Insurance  float64 `json:"insurance"`
	RealEstate float64 `json:"real_estate"`
}

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type TreeSummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	NodeCount   int       `json:"node_count"`
	Depth       int       `json:"depth"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type TreeDetail struct {
	TreeSummary
	Nodes []TreeNode `json:"nodes"`
}
