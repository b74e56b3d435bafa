package services_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/provia-hq/provia/modules/orgchart/domain/tree"
	"github.com/provia-hq/provia/modules/orgchart/infrastructure/persistence"
	"github.com/provia-hq/provia/modules/orgchart/services"
	"github.com/provia-hq/provia/pkg/eventbus"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newFixture(t *testing.T) (*services.TreeService, *persistence.InmemTreeRepository) {
	t.Helper()
	repo := persistence.NewInmemTreeRepository()
	bus := eventbus.NewEventPublisher(quietLogger())
	return services.NewTreeService(repo, bus, quietLogger(), tree.DefaultMaxDepth), repo
}

func TestCreateAndGetTree(t *testing.T) {
	svc, _ := newFixture(t)
	ctx := context.Background()

	created, err := svc.CreateTree(ctx, "Vertrieb Nord", "northern sales region")
	require.NoError(t, err)
	require.Equal(t, "Vertrieb Nord", created.Name())
	require.Equal(t, "northern sales region", created.Description())

	got, err := svc.GetTree(ctx, created.ID())
	require.NoError(t, err)
	require.Equal(t, created.ID(), got.ID())

	// The returned tree is a copy; mutating it must not leak into
	// service state.
	require.NoError(t, got.AddNode(mustNode(t, "Zentrale", tree.KindRoot), nil))

	again, err := svc.GetTree(ctx, created.ID())
	require.NoError(t, err)
	require.Nil(t, again.Root())
}

func TestGetTreeNotFound(t *testing.T) {
	svc, _ := newFixture(t)

	_, err := svc.GetTree(context.Background(), uuid.New())
	var serr *services.ServiceError
	require.ErrorAs(t, err, &serr)
	require.Equal(t, 404, serr.Status)
	require.Equal(t, "ORG_TREE_NOT_FOUND", serr.Code)
}

func TestAddNodeThroughService(t *testing.T) {
	svc, _ := newFixture(t)
	ctx := context.Background()

	created, err := svc.CreateTree(ctx, "Vertrieb", "")
	require.NoError(t, err)

	rootID, err := svc.AddNode(ctx, created.ID(), services.AddNodeInput{
		Name: "Zentrale",
		Kind: tree.KindRoot,
	})
	require.NoError(t, err)

	childID, err := svc.AddNode(ctx, created.ID(), services.AddNodeInput{
		Name:       "Agentur Hamburg",
		Kind:       tree.KindDepartment,
		ParentID:   &rootID,
		Email:      "hamburg@example.de",
		Provisions: &tree.ProvisionRates{Bank: 50},
	})
	require.NoError(t, err)

	got, err := svc.GetTree(ctx, created.ID())
	require.NoError(t, err)
	node, err := got.Node(childID)
	require.NoError(t, err)
	require.Equal(t, "Agentur Hamburg", node.Name())
	require.Equal(t, "hamburg@example.de", node.Email())
	require.InDelta(t, 50.0, node.Provisions().Bank, 1e-9)
	require.Equal(t, rootID, *node.ParentID())
}

func TestAddNodeValidationStatus(t *testing.T) {
	svc, _ := newFixture(t)
	ctx := context.Background()

	created, err := svc.CreateTree(ctx, "Vertrieb", "")
	require.NoError(t, err)

	_, err = svc.AddNode(ctx, created.ID(), services.AddNodeInput{Name: "  ", Kind: tree.KindRoot})
	var serr *services.ServiceError
	require.ErrorAs(t, err, &serr)
	require.Equal(t, 400, serr.Status)
	require.Equal(t, "ORG_VALIDATION", serr.Code)
}

func TestHierarchyConflictStatus(t *testing.T) {
	svc, _ := newFixture(t)
	ctx := context.Background()

	created, err := svc.CreateTree(ctx, "Vertrieb", "")
	require.NoError(t, err)

	_, err = svc.AddNode(ctx, created.ID(), services.AddNodeInput{Name: "Zentrale", Kind: tree.KindRoot})
	require.NoError(t, err)
	_, err = svc.AddNode(ctx, created.ID(), services.AddNodeInput{Name: "Zweite Wurzel", Kind: tree.KindRoot})

	var serr *services.ServiceError
	require.ErrorAs(t, err, &serr)
	require.Equal(t, 409, serr.Status)
	require.Equal(t, tree.CodeDuplicateRoot, serr.Code)
}

func TestSaveFailureRollsBackLiveState(t *testing.T) {
	svc, repo := newFixture(t)
	ctx := context.Background()

	created, err := svc.CreateTree(ctx, "Vertrieb", "")
	require.NoError(t, err)
	rootID, err := svc.AddNode(ctx, created.ID(), services.AddNodeInput{Name: "Zentrale", Kind: tree.KindRoot})
	require.NoError(t, err)

	repo.FailNextSave = errors.New("connection reset")

	_, err = svc.AddNode(ctx, created.ID(), services.AddNodeInput{
		Name:     "Agentur Kiel",
		Kind:     tree.KindDepartment,
		ParentID: &rootID,
	})
	var serr *services.ServiceError
	require.ErrorAs(t, err, &serr)
	require.Equal(t, 500, serr.Status)
	require.Equal(t, "ORG_SAVE_FAILED", serr.Code)

	// The failed mutation must not be observable afterwards.
	got, err := svc.GetTree(ctx, created.ID())
	require.NoError(t, err)
	children, err := got.Children(rootID)
	require.NoError(t, err)
	require.Len(t, children, 0)

	// And the service must keep working once the store recovers.
	_, err = svc.AddNode(ctx, created.ID(), services.AddNodeInput{
		Name:     "Agentur Kiel",
		Kind:     tree.KindDepartment,
		ParentID: &rootID,
	})
	require.NoError(t, err)
}

func TestMoveRemoveReorderThroughService(t *testing.T) {
	svc, _ := newFixture(t)
	ctx := context.Background()

	created, err := svc.CreateTree(ctx, "Vertrieb", "")
	require.NoError(t, err)
	treeID := created.ID()

	rootID, err := svc.AddNode(ctx, treeID, services.AddNodeInput{Name: "Zentrale", Kind: tree.KindRoot})
	require.NoError(t, err)
	aID, err := svc.AddNode(ctx, treeID, services.AddNodeInput{Name: "A", Kind: tree.KindDepartment, ParentID: &rootID})
	require.NoError(t, err)
	bID, err := svc.AddNode(ctx, treeID, services.AddNodeInput{Name: "B", Kind: tree.KindDepartment, ParentID: &rootID})
	require.NoError(t, err)
	cID, err := svc.AddNode(ctx, treeID, services.AddNodeInput{Name: "C", Kind: tree.KindTeam, ParentID: &aID})
	require.NoError(t, err)

	require.NoError(t, svc.MoveNode(ctx, treeID, cID, bID))
	require.NoError(t, svc.ReorderChildren(ctx, treeID, rootID, []uuid.UUID{bID, aID}))
	require.NoError(t, svc.RemoveNode(ctx, treeID, aID))

	got, err := svc.GetTree(ctx, treeID)
	require.NoError(t, err)
	children, err := got.Children(rootID)
	require.NoError(t, err)
	require.Len(t, children, 1)
	require.Equal(t, bID, children[0].ID())
	parent, err := got.Parent(cID)
	require.NoError(t, err)
	require.Equal(t, bID, parent.ID())
}

func TestUpdateNodeThroughService(t *testing.T) {
	svc, _ := newFixture(t)
	ctx := context.Background()

	created, err := svc.CreateTree(ctx, "Vertrieb", "")
	require.NoError(t, err)
	rootID, err := svc.AddNode(ctx, created.ID(), services.AddNodeInput{Name: "Zentrale", Kind: tree.KindRoot})
	require.NoError(t, err)

	name := "Hauptsitz"
	err = svc.UpdateNode(ctx, created.ID(), rootID, tree.NodeUpdate{Name: &name})
	require.NoError(t, err)

	got, err := svc.GetTree(ctx, created.ID())
	require.NoError(t, err)
	node, err := got.Node(rootID)
	require.NoError(t, err)
	require.Equal(t, "Hauptsitz", node.Name())
}

func TestDeleteTree(t *testing.T) {
	svc, _ := newFixture(t)
	ctx := context.Background()

	created, err := svc.CreateTree(ctx, "Vertrieb", "")
	require.NoError(t, err)
	require.NoError(t, svc.DeleteTree(ctx, created.ID()))

	_, err = svc.GetTree(ctx, created.ID())
	var serr *services.ServiceError
	require.ErrorAs(t, err, &serr)
	require.Equal(t, 404, serr.Status)
}

func mustNode(t *testing.T, name string, kind tree.NodeKind) *tree.HierarchyNode {
	t.Helper()
	node, err := tree.NewNode(uuid.New(), name, kind)
	require.NoError(t, err)
	return node
}
