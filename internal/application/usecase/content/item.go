package content

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnect/internal/application/service"
	"github.com/khoahotran/devconnect/internal/domain/content"
	"github.com/khoahotran/devconnect/pkg/logger"
)

var tracer = otel.Tracer("content_usecase")

// loadItem resolves a raw path id. An id that does not parse is reported the
// same way as one that matches nothing.
func loadItem(ctx context.Context, repo content.Repository, rawID string) (*content.Item, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, repo.Kind().NotFound()
	}
	it, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, content.ErrItemNotFound) {
			return nil, repo.Kind().NotFound()
		}
		return nil, err
	}
	return it, nil
}

// mutateItem is one read-modify-write cycle. A rule violation in fn leaves the
// stored item untouched.
func mutateItem(ctx context.Context, repo content.Repository, rawID string, fn func(*content.Item) error) (*content.Item, error) {
	it, err := loadItem(ctx, repo, rawID)
	if err != nil {
		return nil, err
	}
	if err := fn(it); err != nil {
		return nil, err
	}
	if err := repo.Update(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func publish(ctx context.Context, events service.EventPublisher, log logger.Logger, typ service.ContentEventType, it *content.Item, actor uuid.UUID, commentID *uuid.UUID) {
	err := events.PublishContentEvent(ctx, service.ContentEvent{
		EventType:  typ,
		Kind:       it.Kind,
		ItemID:     it.ID,
		OwnerID:    it.UserID,
		ActorID:    actor,
		CommentID:  commentID,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		log.Error("Failed to publish content event", err,
			zap.String("event_type", string(typ)),
			zap.String("item_id", it.ID.String()))
	}
}
