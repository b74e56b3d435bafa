package mappers_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/provia-hq/provia/modules/orgchart/domain/tree"
	"github.com/provia-hq/provia/modules/orgchart/presentation/mappers"
)

func buildTree(t *testing.T) (*tree.HierarchyTree, map[string]uuid.UUID) {
	t.Helper()
	tr, err := tree.NewTree(uuid.New(), "Vertrieb", 0)
	require.NoError(t, err)

	ids := make(map[string]uuid.UUID)
	add := func(name string, kind tree.NodeKind, parent string) {
		id := uuid.New()
		node, err := tree.NewNode(id, name, kind)
		require.NoError(t, err)
		var parentID *uuid.UUID
		if parent != "" {
			pid := ids[parent]
			parentID = &pid
		}
		require.NoError(t, tr.AddNode(node, parentID))
		ids[name] = id
	}

	add("Zentrale", tree.KindRoot, "")
	add("Nord", tree.KindDepartment, "Zentrale")
	add("Sued", tree.KindDepartment, "Zentrale")
	add("Team Kiel", tree.KindTeam, "Nord")
	return tr, ids
}

func TestTreeToDetail(t *testing.T) {
	tr, ids := buildTree(t)

	detail := mappers.TreeToDetail(tr)
	require.Equal(t, tr.ID(), detail.ID)
	require.Equal(t, 4, detail.NodeCount)
	require.Len(t, detail.Nodes, 4)

	names := make([]string, 0, len(detail.Nodes))
	depths := make([]int, 0, len(detail.Nodes))
	for _, n := range detail.Nodes {
		names = append(names, n.Name)
		depths = append(depths, n.Depth)
	}
	require.Equal(t, []string{"Zentrale", "Nord", "Team Kiel", "Sued"}, names)
	require.Equal(t, []int{0, 1, 2, 1}, depths)

	root := detail.Nodes[0]
	require.Nil(t, root.ParentID)
	require.Equal(t, 2, root.ChildCount)
	require.Equal(t, string(tree.KindRoot), root.Kind)

	kiel := detail.Nodes[2]
	require.NotNil(t, kiel.ParentID)
	require.Equal(t, ids["Nord"], *kiel.ParentID)
}

func TestTreeToSummary(t *testing.T) {
	tr, _ := buildTree(t)

	summary := mappers.TreeToSummary(tr)
	require.Equal(t, "Vertrieb", summary.Name)
	require.Equal(t, 4, summary.NodeCount)
	require.Equal(t, 2, summary.Depth)
	require.False(t, summary.UpdatedAt.IsZero())
}
