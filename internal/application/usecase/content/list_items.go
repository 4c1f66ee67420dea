package content

import (
	"context"

	"github.com/khoahotran/devconnect/internal/domain/content"
)

type ListItemsUseCase struct {
	items content.Repository
}

func NewListItemsUseCase(items content.Repository) *ListItemsUseCase {
	return &ListItemsUseCase{items: items}
}

// Execute returns every item, newest first.
func (uc *ListItemsUseCase) Execute(ctx context.Context) ([]*content.Item, error) {
	ctx, span := tracer.Start(ctx, "ListItems")
	defer span.End()

	return uc.items.List(ctx)
}
