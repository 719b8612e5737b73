package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/baskoro/barpos-inventory-service/internal/model"
)

// Publisher emits stock events for dashboards and downstream consumers.
// Publishing is best-effort: a broker outage must never fail a mutation
// that already committed.
type Publisher interface {
	StockMovementRecorded(ctx context.Context, m *model.StockMovement)
	LowStockDetected(ctx context.Context, locationID, itemID string, current, threshold float64)
	Close() error
}

type Envelope struct {
	EventID   string      `json:"event_id"`
	EventType string      `json:"event_type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

type LowStockPayload struct {
	LocationID string  `json:"location_id"`
	ItemID     string  `json:"item_id"`
	Current    float64 `json:"current_stock"`
	Threshold  float64 `json:"threshold"`
}

type KafkaPublisher struct {
	writer *kafka.Writer
	logger *zap.Logger
}

func NewKafkaPublisher(brokers []string, topic string, logger *zap.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}
	return &KafkaPublisher{writer: writer, logger: logger}
}

func (p *KafkaPublisher) StockMovementRecorded(ctx context.Context, m *model.StockMovement) {
	p.publish(ctx, m.LocationID+":"+m.ItemID, "StockMovementRecorded", m)
}

func (p *KafkaPublisher) LowStockDetected(ctx context.Context, locationID, itemID string, current, threshold float64) {
	p.publish(ctx, locationID+":"+itemID, "LowStockDetected", &LowStockPayload{
		LocationID: locationID,
		ItemID:     itemID,
		Current:    current,
		Threshold:  threshold,
	})
}

func (p *KafkaPublisher) publish(ctx context.Context, key, eventType string, payload interface{}) {
	event := Envelope{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to marshal stock event", zap.String("event_type", eventType), zap.Error(err))
		return
	}

	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = p.writer.WriteMessages(writeCtx, kafka.Message{
		Key:   []byte(key),
		Value: body,
	})
	if err != nil {
		p.logger.Error("Failed to publish stock event",
			zap.String("event_type", eventType),
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

func (p *KafkaPublisher) Close() error {
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer: %w", err)
	}
	return nil
}

// NopPublisher is used when Kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) StockMovementRecorded(ctx context.Context, m *model.StockMovement) {}
func (NopPublisher) LowStockDetected(ctx context.Context, locationID, itemID string, current, threshold float64) {
}
func (NopPublisher) Close() error { return nil }
