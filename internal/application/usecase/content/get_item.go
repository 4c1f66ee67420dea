package content

import (
	"context"

	"github.com/khoahotran/devconnect/internal/domain/content"
)

type GetItemUseCase struct {
	items content.Repository
}

func NewGetItemUseCase(items content.Repository) *GetItemUseCase {
	return &GetItemUseCase{items: items}
}

func (uc *GetItemUseCase) Execute(ctx context.Context, itemID string) (*content.Item, error) {
	ctx, span := tracer.Start(ctx, "GetItem")
	defer span.End()

	return loadItem(ctx, uc.items, itemID)
}
