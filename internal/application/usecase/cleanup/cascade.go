// Package cleanup removes what a deleted user leaves behind.
package cleanup

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnect/internal/application/service"
	"github.com/khoahotran/devconnect/internal/domain/chart"
	"github.com/khoahotran/devconnect/internal/domain/content"
	"github.com/khoahotran/devconnect/pkg/logger"
)

var tracer = otel.Tracer("cleanup_usecase")

type CascadeUserDeletionUseCase struct {
	items  []content.Repository
	charts chart.Repository
	logger logger.Logger
}

func NewCascadeUserDeletionUseCase(charts chart.Repository, log logger.Logger, items ...content.Repository) *CascadeUserDeletionUseCase {
	return &CascadeUserDeletionUseCase{
		items:  items,
		charts: charts,
		logger: log,
	}
}

// Execute is idempotent, so a redelivered event is harmless. Events other
// than a deletion are ignored.
func (uc *CascadeUserDeletionUseCase) Execute(ctx context.Context, e service.UserEvent) error {
	if e.EventType != service.UserDeleted {
		uc.logger.Debug("Ignoring user event", zap.String("event_type", string(e.EventType)))
		return nil
	}

	ctx, span := tracer.Start(ctx, "CascadeUserDeletion")
	defer span.End()

	for _, repo := range uc.items {
		n, err := repo.DeleteByUser(ctx, e.UserID)
		if err != nil {
			span.RecordError(err)
			return fmt.Errorf("delete %s items of user %s failed: %w", repo.Kind(), e.UserID, err)
		}
		uc.logger.Info("Removed content of deleted user",
			zap.String("kind", string(repo.Kind())),
			zap.String("user_id", e.UserID.String()),
			zap.Int64("count", n))
	}

	n, err := uc.charts.DeleteByUser(ctx, e.UserID)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("delete charts of user %s failed: %w", e.UserID, err)
	}
	uc.logger.Info("Removed charts of deleted user", zap.String("user_id", e.UserID.String()), zap.Int64("count", n))
	return nil
}
