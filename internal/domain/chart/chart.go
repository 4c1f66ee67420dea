package chart

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Chart struct {
	ID        uuid.UUID `json:"id" bson:"_id"`
	UserID    uuid.UUID `json:"user" bson:"user"`
	Name      string    `json:"chartName" bson:"chartName"`
	Type      string    `json:"chartType" bson:"chartType"`
	CreatedBy string    `json:"createdBy" bson:"createdBy"`
	ChartID   string    `json:"chartId" bson:"chartId"`
	CreatedAt time.Time `json:"dateCreated" bson:"dateCreated"`
}

// New stamps the composite chart id: the creator label plus a unique suffix.
func New(userID uuid.UUID, name, chartType, createdBy string, now time.Time) *Chart {
	return &Chart{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		Type:      chartType,
		CreatedBy: createdBy,
		ChartID:   createdBy + "-" + uuid.NewString(),
		CreatedAt: now,
	}
}

type Repository interface {
	Save(ctx context.Context, c *Chart) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Chart, error)
	DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}
