package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageHandler processes one message. A returned error is retried.
type MessageHandler func(ctx context.Context, msg kafkago.Message) error

const (
	maxHandlerAttempts = 3
	retryBackoff       = 500 * time.Millisecond
)

// Consumer reads a topic as part of a consumer group.
type Consumer struct {
	reader *kafkago.Reader
	logger *zap.Logger
}

// NewConsumer creates a consumer for topic in group groupID.
func NewConsumer(brokers []string, groupID, topic string, logger *zap.Logger) *Consumer {
	return &Consumer{
		reader: kafkago.NewReader(kafkago.ReaderConfig{
			Brokers:     brokers,
			GroupID:     groupID,
			Topic:       topic,
			MinBytes:    1,
			MaxBytes:    10e6,
			StartOffset: kafkago.FirstOffset,
		}),
		logger: logger.With(zap.String("topic", topic), zap.String("group", groupID)),
	}
}

// Consume fetches messages until ctx is cancelled. Each message is committed
// once the handler succeeds or has failed maxHandlerAttempts times.
func (c *Consumer) Consume(ctx context.Context, handle MessageHandler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, context.Canceled) {
				return err
			}
			return fmt.Errorf("failed to fetch message: %w", err)
		}

		c.process(ctx, handle, msg)

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Error("failed to commit message", zap.Int64("offset", msg.Offset), zap.Error(err))
		}
	}
}

func (c *Consumer) process(ctx context.Context, handle MessageHandler, msg kafkago.Message) {
	for attempt := 1; attempt <= maxHandlerAttempts; attempt++ {
		err := handle(ctx, msg)
		if err == nil {
			return
		}
		c.logger.Warn("message handler failed",
			zap.Int("attempt", attempt),
			zap.Int64("offset", msg.Offset),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Duration(attempt) * retryBackoff):
		}
	}
	c.logger.Error("giving up on message", zap.Int64("offset", msg.Offset))
}

// Close closes the underlying reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
