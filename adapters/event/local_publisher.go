package event

import (
	"context"

	"go.uber.org/zap"

	"github.com/khoahotran/devconnect/internal/application/service"
	"github.com/khoahotran/devconnect/pkg/logger"
)

// UserEventHandler consumes user events in process.
type UserEventHandler interface {
	Execute(ctx context.Context, e service.UserEvent) error
}

// LocalPublisher stands in for Kafka when no brokers are configured. Content
// events are only logged; user events go straight to the handler.
type LocalPublisher struct {
	users  UserEventHandler
	logger logger.Logger
}

func NewLocalPublisher(users UserEventHandler, log logger.Logger) *LocalPublisher {
	return &LocalPublisher{users: users, logger: log}
}

func (p *LocalPublisher) PublishContentEvent(_ context.Context, e service.ContentEvent) error {
	p.logger.Debug("Content event",
		zap.String("event_type", string(e.EventType)),
		zap.String("kind", string(e.Kind)),
		zap.String("item_id", e.ItemID.String()))
	return nil
}

func (p *LocalPublisher) PublishUserEvent(ctx context.Context, e service.UserEvent) error {
	if p.users == nil {
		return nil
	}
	return p.users.Execute(ctx, e)
}
