package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/devconnect/internal/domain/content"
)

type ContentEventType string

const (
	ContentCreated        ContentEventType = "created"
	ContentDeleted        ContentEventType = "deleted"
	ContentLiked          ContentEventType = "liked"
	ContentUnliked        ContentEventType = "unliked"
	ContentCommented      ContentEventType = "commented"
	ContentCommentDeleted ContentEventType = "comment_deleted"
)

type ContentEvent struct {
	EventType  ContentEventType `json:"event_type"`
	Kind       content.Kind     `json:"kind"`
	ItemID     uuid.UUID        `json:"item_id"`
	OwnerID    uuid.UUID        `json:"owner_id"`
	ActorID    uuid.UUID        `json:"actor_id"`
	CommentID  *uuid.UUID       `json:"comment_id,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}

type UserEventType string

const UserDeleted UserEventType = "deleted"

type UserEvent struct {
	EventType  UserEventType `json:"event_type"`
	UserID     uuid.UUID     `json:"user_id"`
	OccurredAt time.Time     `json:"occurred_at"`
}

// EventPublisher hands events to the broker. Callers log failures and carry on.
type EventPublisher interface {
	PublishContentEvent(ctx context.Context, e ContentEvent) error
	PublishUserEvent(ctx context.Context, e UserEvent) error
}
