package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/provia-hq/provia/modules/orgchart/domain/tree"
	"github.com/provia-hq/provia/pkg/eventbus"
)

type ServiceError struct {
	Status  int
	Code    string
	Message string
	Cause   error
}

func (e *ServiceError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *ServiceError) Unwrap() error { return e.Cause }

func newServiceError(status int, code, message string, cause error) *ServiceError {
	return &ServiceError{Status: status, Code: code, Message: message, Cause: cause}
}

// mapDomainError translates the domain error taxonomy into coded service
// errors. Domain errors propagate unchanged as the cause.
func mapDomainError(err error) error {
	if err == nil {
		return nil
	}
	var verr *tree.ValidationError
	if errors.As(err, &verr) {
		return newServiceError(400, "ORG_VALIDATION", verr.Error(), err)
	}
	var nferr *tree.NotFoundError
	if errors.As(err, &nferr) {
		code := "ORG_NODE_NOT_FOUND"
		if nferr.Kind == "tree" {
			code = "ORG_TREE_NOT_FOUND"
		}
		return newServiceError(404, code, nferr.Error(), err)
	}
	var herr *tree.HierarchyError
	if errors.As(err, &herr) {
		return newServiceError(409, herr.Code, herr.Message, err)
	}
	return newServiceError(500, "ORG_INTERNAL", "unexpected error", err)
}

type treeEntry struct {
	mu   sync.Mutex
	tree *tree.HierarchyTree
}

// TreeService owns all tree mutation. Each mutation is applied to the live
// in-memory instance first, then the whole tree is persisted; if persistence
// fails the in-memory instance is restored to its exact pre-mutation state
// before the error surfaces. Mutations against the same tree are serialized
// by a per-tree lock.
type TreeService struct {
	repo      tree.Repository
	publisher eventbus.EventBus
	log       *logrus.Logger
	maxDepth  int

	mu      sync.Mutex
	entries map[uuid.UUID]*treeEntry
}

func NewTreeService(repo tree.Repository, publisher eventbus.EventBus, log *logrus.Logger, maxDepth int) *TreeService {
	return &TreeService{
		repo:      repo,
		publisher: publisher,
		log:       log,
		maxDepth:  maxDepth,
		entries:   make(map[uuid.UUID]*treeEntry),
	}
}

func (s *TreeService) entry(ctx context.Context, treeID uuid.UUID) (*treeEntry, error) {
	s.mu.Lock()
	e, ok := s.entries[treeID]
	s.mu.Unlock()
	if ok {
		return e, nil
	}

	loaded, err := s.repo.FindByID(ctx, treeID)
	if err != nil {
		return nil, mapDomainError(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[treeID]; ok {
		return e, nil
	}
	e = &treeEntry{tree: loaded}
	s.entries[treeID] = e
	return e, nil
}

// mutate runs fn against the live tree under the per-tree lock, persists on
// success, and rolls the live instance back if persistence fails.
func (s *TreeService) mutate(ctx context.Context, treeID uuid.UUID, fn func(*tree.HierarchyTree) error) error {
	e, err := s.entry(ctx, treeID)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	backup := e.tree.Clone()
	if err := fn(e.tree); err != nil {
		return mapDomainError(err)
	}
	if _, err := s.repo.Save(ctx, e.tree); err != nil {
		e.tree = backup
		s.log.WithFields(logrus.Fields{
			"tree_id": treeID,
		}).WithError(err).Error("tree save failed, in-memory state rolled back")
		return newServiceError(500, "ORG_SAVE_FAILED", "failed to persist tree", err)
	}
	return nil
}

func (s *TreeService) CreateTree(ctx context.Context, name, description string) (*tree.HierarchyTree, error) {
	t, err := tree.NewTree(uuid.New(), name, s.maxDepth)
	if err != nil {
		return nil, mapDomainError(err)
	}
	if description != "" {
		t.SetDescription(description)
	}
	if _, err := s.repo.Save(ctx, t); err != nil {
		return nil, newServiceError(500, "ORG_SAVE_FAILED", "failed to persist tree", err)
	}

	s.mu.Lock()
	s.entries[t.ID()] = &treeEntry{tree: t}
	s.mu.Unlock()

	s.publisher.Publish(&TreeCreatedEvent{TreeID: t.ID()})
	return t.Clone(), nil
}

// GetTree returns a deep copy; callers cannot bypass the service lock by
// mutating the returned instance.
func (s *TreeService) GetTree(ctx context.Context, treeID uuid.UUID) (*tree.HierarchyTree, error) {
	e, err := s.entry(ctx, treeID)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tree.Clone(), nil
}

func (s *TreeService) ListTrees(ctx context.Context) ([]*tree.HierarchyTree, error) {
	trees, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, mapDomainError(err)
	}
	return trees, nil
}

func (s *TreeService) DeleteTree(ctx context.Context, treeID uuid.UUID) error {
	if err := s.repo.Delete(ctx, treeID); err != nil {
		return mapDomainError(err)
	}
	s.mu.Lock()
	delete(s.entries, treeID)
	s.mu.Unlock()

	s.publisher.Publish(&TreeDeletedEvent{TreeID: treeID})
	return nil
}

type AddNodeInput struct {
	ID          *uuid.UUID
	Name        string
	Kind        tree.NodeKind
	ParentID    *uuid.UUID
	Description string
	Email       string
	Phone       string
	Provisions  *tree.ProvisionRates
	Position    *tree.Position
}

func (s *TreeService) AddNode(ctx context.Context, treeID uuid.UUID, in AddNodeInput) (uuid.UUID, error) {
	nodeID := uuid.New()
	if in.ID != nil {
		nodeID = *in.ID
	}

	err := s.mutate(ctx, treeID, func(t *tree.HierarchyTree) error {
		node, err := tree.NewNode(nodeID, in.Name, in.Kind)
		if err != nil {
			return err
		}
		if in.Description != "" {
			node.SetDescription(in.Description)
		}
		if in.Email != "" || in.Phone != "" {
			node.SetContact(in.Email, in.Phone)
		}
		if in.Provisions != nil {
			node.SetProvisions(*in.Provisions)
		}
		if in.Position != nil {
			node.SetPosition(*in.Position)
		}
		return t.AddNode(node, in.ParentID)
	})
	if err != nil {
		return uuid.Nil, err
	}

	s.publisher.Publish(&NodeAddedEvent{TreeID: treeID, NodeID: nodeID, ParentID: in.ParentID})
	return nodeID, nil
}

func (s *TreeService) RemoveNode(ctx context.Context, treeID, nodeID uuid.UUID) error {
	err := s.mutate(ctx, treeID, func(t *tree.HierarchyTree) error {
		return t.RemoveNode(nodeID)
	})
	if err != nil {
		return err
	}
	s.publisher.Publish(&NodeRemovedEvent{TreeID: treeID, NodeID: nodeID})
	return nil
}

func (s *TreeService) MoveNode(ctx context.Context, treeID, nodeID, newParentID uuid.UUID) error {
	err := s.mutate(ctx, treeID, func(t *tree.HierarchyTree) error {
		return t.MoveNode(nodeID, newParentID)
	})
	if err != nil {
		return err
	}
	s.publisher.Publish(&NodeMovedEvent{TreeID: treeID, NodeID: nodeID, NewParentID: newParentID})
	return nil
}

func (s *TreeService) UpdateNode(ctx context.Context, treeID, nodeID uuid.UUID, update tree.NodeUpdate) error {
	err := s.mutate(ctx, treeID, func(t *tree.HierarchyTree) error {
		_, err := t.UpdateNode(nodeID, update)
		return err
	})
	if err != nil {
		return err
	}
	s.publisher.Publish(&NodeUpdatedEvent{TreeID: treeID, NodeID: nodeID})
	return nil
}

func (s *TreeService) ReorderChildren(ctx context.Context, treeID, parentID uuid.UUID, orderedIDs []uuid.UUID) error {
	err := s.mutate(ctx, treeID, func(t *tree.HierarchyTree) error {
		return t.ReorderChildren(parentID, orderedIDs)
	})
	if err != nil {
		return err
	}
	s.publisher.Publish(&ChildrenReorderedEvent{TreeID: treeID, ParentID: parentID})
	return nil
}
