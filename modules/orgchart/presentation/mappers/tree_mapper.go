package mappers

import (
	"github.com/provia-hq/provia/modules/orgchart/domain/tree"
	"github.com/provia-hq/provia/modules/orgchart/presentation/viewmodels"
)

func TreeToSummary(t *tree.HierarchyTree) viewmodels.TreeSummary {
	return viewmodels.TreeSummary{
		ID:          t.ID(),
		Name:        t.Name(),
		Description: t.Description(),
		NodeCount:   t.Size(),
		Depth:       t.MaxDepth(),
		UpdatedAt:   t.Metadata().UpdatedAt(),
	}
}

// TreeToDetail flattens the tree into a pre-order, depth-annotated node
// list. Siblings keep their display order.
func TreeToDetail(t *tree.HierarchyTree) *viewmodels.TreeDetail {
	nodes := make([]viewmodels.TreeNode, 0, t.Size())
	_ = t.Traverse(func(n *tree.HierarchyNode) bool {
		depth, err := t.Depth(n.ID())
		if err != nil {
			depth = 0
		}
		nodes = append(nodes, nodeToView(n, depth))
		return true
	})
	return &viewmodels.TreeDetail{
		TreeSummary: TreeToSummary(t),
		Nodes:       nodes,
	}
}

func nodeToView(n *tree.HierarchyNode, depth int) viewmodels.TreeNode {
	provisions := n.Provisions()
	position := n.Position()
	return viewmodels.TreeNode{
		ID:          n.ID(),
		ParentID:    n.ParentID(),
		Name:        n.Name(),
		Kind:        string(n.Kind()),
		Description: n.Description(),
		Email:       n.Email(),
		Phone:       n.Phone(),
		Depth:       depth,
		Order:       n.Order(),
		Provisions: viewmodels.ProvisionRates{
			Bank:       provisions.Bank,
			Insurance:  provisions.Insurance,
			RealEstate: provisions.RealEstate,
		},
		Position:   viewmodels.Position{X: position.X, Y: position.Y},
		Expanded:   n.Expanded(),
		Visible:    n.Visible(),
		Tags:       n.Metadata().Tags(),
		ChildCount: len(n.ChildIDs()),
	}
}
