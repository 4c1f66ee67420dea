package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnect/internal/application/service"
	"github.com/khoahotran/devconnect/internal/config"
	"github.com/khoahotran/devconnect/pkg/logger"
)

const (
	TopicContentEvents = "content.events"
	TopicUserEvents    = "user.events"
)

// messageWriter is the part of *kafka.Writer the producer uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaProducerClient struct {
	ContentEventsWriter messageWriter
	UserEventsWriter    messageWriter
	logger              logger.Logger
}

func NewKafkaProducerClient(cfg config.Config, log logger.Logger) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	// writes return immediately; delivery errors reach the logger
	newWriter := func(topic string) *kafka.Writer {
		return &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			Async:                  true,
			AllowAutoTopicCreation: true,
			Completion: func(msgs []kafka.Message, err error) {
				if err != nil {
					log.Error("Kafka delivery failed", err, zap.String("topic", topic), zap.Int("messages", len(msgs)))
				}
			},
		}
	}

	log.Info("Initialize Kafka Producers successfully.", zap.Strings("brokers", brokers))
	return &KafkaProducerClient{
		ContentEventsWriter: newWriter(TopicContentEvents),
		UserEventsWriter:    newWriter(TopicUserEvents),
		logger:              log,
	}, nil
}

func publishJSON(ctx context.Context, w messageWriter, key string, payload any) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event failed: %w", err)
	}
	return w.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: value})
}

// PublishContentEvent keys messages by item id so one item's events stay ordered.
func (c *KafkaProducerClient) PublishContentEvent(ctx context.Context, e service.ContentEvent) error {
	return publishJSON(ctx, c.ContentEventsWriter, e.ItemID.String(), e)
}

func (c *KafkaProducerClient) PublishUserEvent(ctx context.Context, e service.UserEvent) error {
	return publishJSON(ctx, c.UserEventsWriter, e.UserID.String(), e)
}

func (c *KafkaProducerClient) Close() {
	if c.ContentEventsWriter != nil {
		if err := c.ContentEventsWriter.Close(); err != nil {
			c.logger.Warn("Close content events writer failed", zap.Error(err))
		}
	}
	if c.UserEventsWriter != nil {
		if err := c.UserEventsWriter.Close(); err != nil {
			c.logger.Warn("Close user events writer failed", zap.Error(err))
		}
	}
	c.logger.Info("Closed Kafka Producers")
}
