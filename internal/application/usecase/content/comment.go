package content

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/devconnect/internal/application/service"
	"github.com/khoahotran/devconnect/internal/domain/content"
	"github.com/khoahotran/devconnect/internal/domain/user"
	"github.com/khoahotran/devconnect/pkg/logger"
)

type CommentUseCase struct {
	items  content.Repository
	users  user.Repository
	events service.EventPublisher
	logger logger.Logger
}

func NewCommentUseCase(items content.Repository, users user.Repository, events service.EventPublisher, log logger.Logger) *CommentUseCase {
	return &CommentUseCase{
		items:  items,
		users:  users,
		events: events,
		logger: log,
	}
}

type AddCommentInput struct {
	CallerID uuid.UUID
	ItemID   string
	Text     string
}

// ExecuteAdd snapshots the caller's current name and avatar onto the comment
// and returns the comments newest first.
func (uc *CommentUseCase) ExecuteAdd(ctx context.Context, input AddCommentInput) ([]content.Comment, error) {
	ctx, span := tracer.Start(ctx, "AddComment")
	defer span.End()

	author, err := uc.users.FindByID(ctx, input.CallerID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	snap := author.Snapshot()
	c := content.Comment{
		ID:     uuid.New(),
		UserID: author.ID,
		Text:   input.Text,
		Name:   snap.Name,
		Avatar: snap.Avatar,
		Date:   time.Now().UTC(),
	}
	it, err := mutateItem(ctx, uc.items, input.ItemID, func(it *content.Item) error {
		it.AddComment(c)
		return nil
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, uc.events, uc.logger, service.ContentCommented, it, author.ID, &c.ID)
	return it.Comments, nil
}

type DeleteCommentInput struct {
	CallerID  uuid.UUID
	ItemID    string
	CommentID string
}

func (uc *CommentUseCase) ExecuteDelete(ctx context.Context, input DeleteCommentInput) ([]content.Comment, error) {
	ctx, span := tracer.Start(ctx, "DeleteComment")
	defer span.End()

	it, err := mutateItem(ctx, uc.items, input.ItemID, func(it *content.Item) error {
		return it.DeleteComment(input.CommentID, input.CallerID)
	})
	if err != nil {
		return nil, err
	}

	if id, perr := uuid.Parse(input.CommentID); perr == nil {
		publish(ctx, uc.events, uc.logger, service.ContentCommentDeleted, it, input.CallerID, &id)
	}
	return it.Comments, nil
}
