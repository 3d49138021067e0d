// Package events publishes optimization-run lifecycle events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

const source = "optimization-service"

// RouteOptimizedEvent is the payload published once per completed
// optimization run.
type RouteOptimizedEvent struct {
	Scenario         string  `json:"scenario"`
	SolverName       string  `json:"solver_name"`
	CourierCount     int     `json:"courier_count"`
	DeliveredOrders  int     `json:"delivered_orders"`
	DeferredOrders   int     `json:"deferred_orders"`
	UnassignedOrders int     `json:"unassigned_orders"`
	TotalDistanceKm  float64 `json:"total_distance_km"`
	TotalCost        float64 `json:"total_cost"`
}

// EventPublisher publishes optimizer events on a single Kafka topic.
type EventPublisher struct {
	writer   *kafka.Writer
	topic    string
	clientID string
}

// NewEventPublisher builds a publisher writing to brokers/topic.
func NewEventPublisher(brokers []string, topic, clientID string) *EventPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        false,
		BatchTimeout: 10 * time.Millisecond,
		BatchSize:    100,
	}

	return &EventPublisher{writer: writer, topic: topic, clientID: clientID}
}

// Publish writes one event envelope keyed by eventType.
func (p *EventPublisher) Publish(ctx context.Context, eventType string, data interface{}) error {
	event := map[string]interface{}{
		"event_type": eventType,
		"data":       data,
		"timestamp":  time.Now().UTC(),
		"source":     source,
		"client_id":  p.clientID,
		"version":    "1.0",
	}

	eventData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(eventType),
		Value: eventData,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(eventType)},
			{Key: "source", Value: []byte(source)},
			{Key: "timestamp", Value: []byte(fmt.Sprintf("%d", time.Now().Unix()))},
		},
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to publish event to kafka: %w", err)
	}
	return nil
}

// PublishRouteOptimized publishes the "route.optimized" event for one
// completed optimization run.
func (p *EventPublisher) PublishRouteOptimized(ctx context.Context, runID string, payload RouteOptimizedEvent) error {
	return p.publishKeyed(ctx, "route.optimized", runID, payload)
}

func (p *EventPublisher) publishKeyed(ctx context.Context, eventType, key string, data interface{}) error {
	event := map[string]interface{}{
		"event_type": eventType,
		"run_id":     key,
		"data":       data,
		"timestamp":  time.Now().UTC(),
		"source":     source,
		"client_id":  p.clientID,
		"version":    "1.0",
	}

	eventData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}

	message := kafka.Message{
		Key:   []byte(key),
		Value: eventData,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(eventType)},
			{Key: "run-id", Value: []byte(key)},
			{Key: "source", Value: []byte(source)},
		},
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", eventType, err)
	}
	return nil
}

// Close closes the Kafka writer.
func (p *EventPublisher) Close() error {
	return p.writer.Close()
}

// Health dials the broker to confirm the connection is alive.
func (p *EventPublisher) Health(ctx context.Context) error {
	conn, err := kafka.DialContext(ctx, "tcp", p.writer.Addr.String())
	if err != nil {
		return fmt.Errorf("kafka health check failed: %w", err)
	}
	defer conn.Close()
	return nil
}
