// Package events publishes entity mutation events to Kafka. Delivery is
// best-effort and asynchronous; it is never part of the audit protocol.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var jsonMarshal = json.Marshal

// Action tags what happened to an entity.
type Action string

const (
	ActionCreated  Action = "created"
	ActionUpdated  Action = "updated"
	ActionDeleted  Action = "deleted"
	ActionRestored Action = "restored"
)

// Event is one mutation notification.
type Event struct {
	Entity  string         `json:"entity"`
	Action  Action         `json:"action"`
	Payload map[string]any `json:"payload"`
}

// Producer is what the controller publishes through.
type Producer interface {
	Produce(entity string, action Action, payload map[string]any)
}

// Nop discards every event; used when Kafka is not configured.
type Nop struct{}

func (Nop) Produce(string, Action, map[string]any) {}

// KafkaWriter abstracts the writer for tests.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaProducer queues events on a buffered channel and ships them from a
// single loop, dropping when the queue is full.
type KafkaProducer struct {
	writer    KafkaWriter
	events    chan Event
	logger    *zap.Logger
	closeChan chan struct{}
}

// NewProducer connects to the brokers, creating the topic if needed.
func NewProducer(brokers []string, logger *zap.Logger, topic string) (*KafkaProducer, error) {
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	err = conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     3,
		ReplicationFactor: 1,
	})
	if err != nil {
		logger.Warn("failed to create topic (may already exist)", zap.Error(err))
	}

	p := &KafkaProducer{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Balancer: &kafka.LeastBytes{},
			Topic:    topic,
		},
		events:    make(chan Event, 1000),
		logger:    logger.Named("kafka_producer"),
		closeChan: make(chan struct{}),
	}

	go p.eventLoop()
	return p, nil
}

func (p *KafkaProducer) Produce(entity string, action Action, payload map[string]any) {
	select {
	case p.events <- Event{Entity: entity, Action: action, Payload: payload}:
	default:
		p.logger.Warn("producer queue full, dropping event",
			zap.String("entity", entity),
			zap.String("action", string(action)),
		)
	}
}

func (p *KafkaProducer) eventLoop() {
	for {
		select {
		case event := <-p.events:
			p.sendEvent(context.Background(), event)
		case <-p.closeChan:
			return
		}
	}
}

func (p *KafkaProducer) sendEvent(ctx context.Context, event Event) {
	value, err := jsonMarshal(event)
	if err != nil {
		p.logger.Error("Failed to serialize event",
			zap.Error(err),
			zap.String("entity", event.Entity),
		)
		return
	}
	key := fmt.Sprintf("%s:%v", event.Entity, event.Payload["id"])
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
	})
	if err != nil {
		p.logger.Error("Failed to produce event",
			zap.Error(err),
			zap.String("entity", event.Entity),
			zap.String("action", string(event.Action)),
		)
	}
}

func (p *KafkaProducer) Close() {
	close(p.closeChan)
	if err := p.writer.Close(); err != nil {
		p.logger.Error("Failed to close Kafka writer", zap.Error(err))
	}
}
