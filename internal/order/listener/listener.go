package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/baskoro/barpos-inventory-service/internal/apperr"
	"github.com/baskoro/barpos-inventory-service/internal/order"
	"github.com/baskoro/barpos-inventory-service/internal/order/dto"
)

type OrderListener struct {
	reader *kafka.Reader
	uc     order.UseCase
	logger *zap.Logger
}

func NewOrderListener(brokers []string, topic, groupID string, uc order.UseCase, logger *zap.Logger) *OrderListener {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: groupID,
	})
	return &OrderListener{reader: reader, uc: uc, logger: logger}
}

func (l *OrderListener) Start(ctx context.Context) {
	l.logger.Info("Starting order event listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping order event listener")
			return
		default:
			msg, err := l.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

func (l *OrderListener) Close() error {
	return l.reader.Close()
}

type OrderCreatedEvent struct {
	EventID   string       `json:"event_id"`
	EventType string       `json:"event_type"`
	Payload   OrderPayload `json:"payload"`
	Timestamp time.Time    `json:"timestamp"`
}

type OrderPayload struct {
	ID    string             `json:"id"`
	BarID string             `json:"bar_id"`
	Items []OrderItemPayload `json:"items"`
}

type OrderItemPayload struct {
	ItemID   string  `json:"item_id"`
	Quantity float64 `json:"quantity"`
}

func (l *OrderListener) processMessage(ctx context.Context, value []byte) {
	var event OrderCreatedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	if event.EventType != "OrderCreated" {
		return
	}

	l.logger.Info("Processing OrderCreated event", zap.String("order_id", event.Payload.ID))

	lines := make([]dto.CartLine, len(event.Payload.Items))
	for i, item := range event.Payload.Items {
		lines[i] = dto.CartLine{ItemID: item.ItemID, Quantity: item.Quantity}
	}

	_, err := l.uc.ApplyCartDeduction(ctx, &dto.DeductionInput{
		OrderID: event.Payload.ID,
		BarID:   event.Payload.BarID,
		Lines:   lines,
		UserID:  "system",
	})
	if err != nil {
		// The order service owns the compensation: it must mark the
		// order failed when deduction is refused.
		if apperr.IsInsufficientStock(err) {
			l.logger.Warn("Order deduction refused",
				zap.String("order_id", event.Payload.ID),
				zap.Error(err),
			)
			return
		}
		l.logger.Error("Failed to apply order deduction",
			zap.String("order_id", event.Payload.ID),
			zap.Error(err),
		)
	}
}
