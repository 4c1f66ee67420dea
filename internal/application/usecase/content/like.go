package content

import (
	"context"

	"github.com/google/uuid"

	"github.com/khoahotran/devconnect/internal/application/service"
	"github.com/khoahotran/devconnect/internal/domain/content"
	"github.com/khoahotran/devconnect/pkg/logger"
)

type LikeUseCase struct {
	items  content.Repository
	events service.EventPublisher
	logger logger.Logger
}

func NewLikeUseCase(items content.Repository, events service.EventPublisher, log logger.Logger) *LikeUseCase {
	return &LikeUseCase{
		items:  items,
		events: events,
		logger: log,
	}
}

type LikeInput struct {
	CallerID uuid.UUID
	ItemID   string
}

// ExecuteLike returns the likes after the caller's like was added.
func (uc *LikeUseCase) ExecuteLike(ctx context.Context, input LikeInput) ([]content.Like, error) {
	ctx, span := tracer.Start(ctx, "Like")
	defer span.End()

	it, err := mutateItem(ctx, uc.items, input.ItemID, func(it *content.Item) error {
		return it.Like(input.CallerID)
	})
	if err != nil {
		return nil, err
	}
	publish(ctx, uc.events, uc.logger, service.ContentLiked, it, input.CallerID, nil)
	return it.Likes, nil
}

// ExecuteUnlike returns the likes after the caller's like was removed.
func (uc *LikeUseCase) ExecuteUnlike(ctx context.Context, input LikeInput) ([]content.Like, error) {
	ctx, span := tracer.Start(ctx, "Unlike")
	defer span.End()

	it, err := mutateItem(ctx, uc.items, input.ItemID, func(it *content.Item) error {
		return it.Unlike(input.CallerID)
	})
	if err != nil {
		return nil, err
	}
	publish(ctx, uc.events, uc.logger, service.ContentUnliked, it, input.CallerID, nil)
	return it.Likes, nil
}
