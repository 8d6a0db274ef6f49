package listener

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/fekuna/omnipos-inventory-service/config"
	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory"
	"github.com/fekuna/omnipos-inventory-service/internal/logger"
	"github.com/fekuna/omnipos-inventory-service/internal/order"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	EventGoodsReceived = "GoodsReceived"
	EventStockCounted  = "StockCounted"

	maxAttempts = 3
)

// MessageReader is the part of *kafka.Reader the listener uses.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

func NewKafkaReader(cfg *config.KafkaConfig) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.Topic,
		GroupID:  cfg.GroupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
}

type Event struct {
	EventID   string          `json:"event_id"`
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

type GoodsReceivedPayload struct {
	OrderID int64 `json:"order_id"`
}

type StockCountedPayload struct {
	SKU            string `json:"sku"`
	QuantityChange int    `json:"quantity_change"`
}

// ReceivingListener applies warehouse receiving events. A message is committed
// once it is handled or rejected; while storage is unavailable its offset is
// held and the same message is retried. Both handlers tolerate repeats of the
// same GoodsReceived event.
type ReceivingListener struct {
	reader     MessageReader
	orders     order.UseCase
	ledger     inventory.UseCase
	logger     logger.ZapLogger
	retryDelay time.Duration
}

func NewReceivingListener(reader MessageReader, orders order.UseCase, ledger inventory.UseCase, log logger.ZapLogger) *ReceivingListener {
	return &ReceivingListener{
		reader:     reader,
		orders:     orders,
		ledger:     ledger,
		logger:     log,
		retryDelay: time.Second,
	}
}

func (l *ReceivingListener) Start(ctx context.Context) {
	l.logger.Info("Starting receiving Kafka listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping receiving Kafka listener")
			return
		default:
			msg, err := l.reader.FetchMessage(ctx)
			if err != nil {
				// Don't log context canceled error as error
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				l.sleep(ctx, l.retryDelay)
				continue
			}

			for !l.processMessage(ctx, msg.Value) {
				if ctx.Err() != nil {
					return
				}
				l.logger.Warn("Storage unavailable, holding kafka offset", zap.Int64("offset", msg.Offset))
				l.sleep(ctx, l.retryDelay*maxAttempts)
			}
			if err := l.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
				l.logger.Error("Failed to commit kafka message", zap.Int64("offset", msg.Offset), zap.Error(err))
			}
		}
	}
}

// processMessage reports false when the event could not be applied because
// storage is unavailable and the message must not be committed.
func (l *ReceivingListener) processMessage(ctx context.Context, value []byte) bool {
	var event Event
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return true
	}

	var handle func(ctx context.Context) error
	switch event.EventType {
	case EventGoodsReceived:
		var p GoodsReceivedPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			l.logger.Error("Failed to unmarshal GoodsReceived payload", zap.String("event_id", event.EventID), zap.Error(err))
			return true
		}
		handle = func(ctx context.Context) error {
			_, changed, err := l.orders.CompleteOrder(ctx, p.OrderID)
			if err == nil && !changed {
				l.logger.Info("GoodsReceived ignored, order not pending", zap.Int64("order_id", p.OrderID))
			}
			return err
		}
	case EventStockCounted:
		var p StockCountedPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			l.logger.Error("Failed to unmarshal StockCounted payload", zap.String("event_id", event.EventID), zap.Error(err))
			return true
		}
		handle = func(ctx context.Context) error {
			_, err := l.ledger.UpdateStockFromCount(ctx, p.SKU, p.QuantityChange)
			return err
		}
	default:
		return true
	}

	l.logger.Info("Processing receiving event", zap.String("event_id", event.EventID), zap.String("event_type", event.EventType))
	for attempt := 1; ; attempt++ {
		err := handle(ctx)
		if err == nil {
			return true
		}
		if !retryable(err) || attempt == maxAttempts || ctx.Err() != nil {
			l.logger.Error("Failed to process receiving event",
				zap.String("event_id", event.EventID),
				zap.String("event_type", event.EventType),
				zap.Int("attempts", attempt),
				zap.Error(err),
			)
			return !errors.Is(err, apperror.ErrUnavailable) && ctx.Err() == nil
		}
		l.sleep(ctx, l.retryDelay*time.Duration(attempt))
	}
}

func retryable(err error) bool {
	return errors.Is(err, apperror.ErrConflict) || errors.Is(err, apperror.ErrUnavailable)
}

func (l *ReceivingListener) sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
