package services

import "github.com/google/uuid"

type TreeCreatedEvent struct {
	TreeID uuid.UUID
}

type TreeDeletedEvent struct {
	TreeID uuid.UUID
}

type NodeAddedEvent struct {
	TreeID   uuid.UUID
	NodeID   uuid.UUID
	ParentID *uuid.UUID
}

type NodeRemovedEvent struct {
	TreeID uuid.UUID
	NodeID uuid.UUID
}

type NodeMovedEvent struct {
	TreeID      uuid.UUID
	NodeID      uuid.UUID
	NewParentID uuid.UUID
}

type NodeUpdatedEvent struct {
	TreeID uuid.UUID
	NodeID uuid.UUID
}

type ChildrenReorderedEvent struct {
	TreeID   uuid.UUID
	ParentID uuid.UUID
}
