package content

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnect/internal/application/service"
	"github.com/khoahotran/devconnect/internal/domain/content"
	"github.com/khoahotran/devconnect/pkg/logger"
)

type DeleteItemUseCase struct {
	items  content.Repository
	events service.EventPublisher
	logger logger.Logger
}

func NewDeleteItemUseCase(items content.Repository, events service.EventPublisher, log logger.Logger) *DeleteItemUseCase {
	return &DeleteItemUseCase{
		items:  items,
		events: events,
		logger: log,
	}
}

type DeleteItemInput struct {
	CallerID uuid.UUID
	ItemID   string
}

// Execute removes the item. Only its author may do so.
func (uc *DeleteItemUseCase) Execute(ctx context.Context, input DeleteItemInput) error {
	ctx, span := tracer.Start(ctx, "DeleteItem")
	defer span.End()

	it, err := loadItem(ctx, uc.items, input.ItemID)
	if err != nil {
		return err
	}
	if !it.OwnedBy(input.CallerID) {
		return content.ErrNotAuthorized
	}

	if err := uc.items.Delete(ctx, it.ID); err != nil {
		span.RecordError(err)
		return err
	}

	uc.logger.Info("Content item deleted", zap.String("kind", string(it.Kind)), zap.String("item_id", it.ID.String()))
	publish(ctx, uc.events, uc.logger, service.ContentDeleted, it, input.CallerID, nil)
	return nil
}
