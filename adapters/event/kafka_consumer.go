package event

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnect/internal/application/service"
	"github.com/khoahotran/devconnect/pkg/logger"
)

// messageReader is the part of *kafka.Reader the consumer uses.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

type UserEventConsumer struct {
	reader  messageReader
	handler UserEventHandler
	logger  logger.Logger
}

func NewUserEventConsumer(reader messageReader, handler UserEventHandler, log logger.Logger) *UserEventConsumer {
	return &UserEventConsumer{reader: reader, handler: handler, logger: log}
}

func NewUserEventsReader(brokers []string, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    TopicUserEvents,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
}

const handleAttempts = 3

// Run consumes until ctx is cancelled. Undecodable messages are skipped. A
// handler failure is retried with backoff, then logged and skipped.
func (c *UserEventConsumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Error("Failed to read message from Kafka", err)
			continue
		}

		var payload service.UserEvent
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			c.logger.Warn("Failed to unmarshal user event, skipping", zap.String("key", string(msg.Key)), zap.Error(err))
			c.commit(ctx, msg)
			continue
		}

		c.logger.Info("Processing user event",
			zap.String("event_type", string(payload.EventType)),
			zap.String("user_id", payload.UserID.String()))

		if err := c.handle(ctx, payload); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Error("Giving up on user event", err, zap.String("user_id", payload.UserID.String()))
		}
		c.commit(ctx, msg)
	}
}

func (c *UserEventConsumer) handle(ctx context.Context, payload service.UserEvent) error {
	var err error
	backoff := 200 * time.Millisecond
	for attempt := 1; attempt <= handleAttempts; attempt++ {
		if err = c.handler.Execute(ctx, payload); err == nil {
			return nil
		}
		c.logger.Warn("User event handler failed",
			zap.Int("attempt", attempt),
			zap.String("user_id", payload.UserID.String()),
			zap.Error(err))
		if attempt == handleAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return err
}

func (c *UserEventConsumer) commit(ctx context.Context, msg kafka.Message) {
	if err := c.reader.CommitMessages(ctx, msg); err != nil {
		c.logger.Error("Failed to commit message", err, zap.Int64("offset", msg.Offset))
	}
}
