package kafka

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/thep200/xsmb-analyzer/cfg"
	"github.com/thep200/xsmb-analyzer/pkg/log"
)

// Handler xử lý giá trị của một message
type Handler func(ctx context.Context, value []byte) error

// Consumer handles Kafka message consumption
type Consumer struct {
	Config   *cfg.Config
	Logger   log.Logger
	reader   *kafka.Reader
	handlers map[string]Handler
}

// NewConsumer creates a consumer on the configured topic and group
func NewConsumer(config *cfg.Config, logger log.Logger) (*Consumer, error) {
	if len(config.Kafka.Brokers) == 0 {
		return nil, errors.New("[ERROR][KAFKA] no kafka brokers configured")
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        config.Kafka.Brokers,
		Topic:          config.Kafka.Topic,
		GroupID:        config.Kafka.GroupID,
		MinBytes:       1,
		MaxBytes:       10e6,        // 10MB
		MaxWait:        time.Second, // Maximum amount of time to wait for new data
		StartOffset:    kafka.FirstOffset,
		RetentionTime:  7 * 24 * time.Hour,
		CommitInterval: time.Second,
	})

	return &Consumer{
		Config:   config,
		Logger:   logger,
		reader:   reader,
		handlers: make(map[string]Handler),
	}, nil
}

// RegisterHandler registers a message handler for a specific message key
func (c *Consumer) RegisterHandler(key string, handler Handler) {
	c.handlers[key] = handler
}

// Dispatch gọi handler theo key của message
func (c *Consumer) Dispatch(ctx context.Context, message kafka.Message) error {
	key := string(message.Key)
	handler, exists := c.handlers[key]
	if !exists {
		c.Logger.Warn(ctx, "No handler registered for message with key: %s", key)
		return nil
	}
	if err := handler(ctx, message.Value); err != nil {
		c.Logger.Error(ctx, "Error handling message with key %s: %v", key, err)
		return err
	}
	c.Logger.Debug(ctx, "Successfully processed message with key: %s", key)
	return nil
}

// Start begins consuming messages from the Kafka topic
func (c *Consumer) Start(ctx context.Context) error {
	c.Logger.Info(ctx, "Starting Kafka consumer for topic: %s", c.reader.Config().Topic)

	for {
		message, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			// reader đã đóng
			if errors.Is(err, io.EOF) {
				return nil
			}
			c.Logger.Error(ctx, "Error reading message: %v", err)
			continue
		}
		_ = c.Dispatch(ctx, message)
	}
}

// Close closes the Kafka reader
func (c *Consumer) Close() error {
	return c.reader.Close()
}
