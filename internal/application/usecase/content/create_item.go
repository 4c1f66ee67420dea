package content

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnect/internal/application/service"
	"github.com/khoahotran/devconnect/internal/domain/content"
	"github.com/khoahotran/devconnect/internal/domain/user"
	"github.com/khoahotran/devconnect/pkg/logger"
)

type CreateItemUseCase struct {
	items  content.Repository
	users  user.Repository
	events service.EventPublisher
	logger logger.Logger
}

func NewCreateItemUseCase(items content.Repository, users user.Repository, events service.EventPublisher, log logger.Logger) *CreateItemUseCase {
	return &CreateItemUseCase{
		items:  items,
		users:  users,
		events: events,
		logger: log,
	}
}

type CreateItemInput struct {
	AuthorID uuid.UUID
	Body     content.Body
}

type CreateItemOutput struct {
	Item *content.Item
}

func (uc *CreateItemUseCase) Execute(ctx context.Context, input CreateItemInput) (*CreateItemOutput, error) {
	ctx, span := tracer.Start(ctx, "CreateItem")
	defer span.End()
	span.SetAttributes(attribute.String("kind", string(uc.items.Kind())))

	author, err := uc.users.FindByID(ctx, input.AuthorID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	it := content.New(uc.items.Kind(), author.ID, author.Snapshot(), input.Body, time.Now().UTC())
	if err := uc.items.Save(ctx, it); err != nil {
		span.RecordError(err)
		return nil, err
	}

	uc.logger.Info("Content item created",
		zap.String("kind", string(it.Kind)),
		zap.String("item_id", it.ID.String()),
		zap.String("user_id", author.ID.String()))
	publish(ctx, uc.events, uc.logger, service.ContentCreated, it, author.ID, nil)

	return &CreateItemOutput{Item: it}, nil
}
