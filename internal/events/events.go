// Package events publishes recorded completions to downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/k8ika0s/bounty-ledger/internal/record"
)

// DefaultTopic receives completion events when no topic is configured.
const DefaultTopic = "bounties.completed"

// Recorded is emitted after a completion is stored.
type Recorded struct {
	Completion record.Completion `json:"completion"`
	Total      int               `json:"total"`
	RecordedAt int64             `json:"recorded_at"`
}

// NewRecorded stamps an event with the current time.
func NewRecorded(c record.Completion, total int) Recorded {
	return Recorded{Completion: c, Total: total, RecordedAt: time.Now().Unix()}
}

// Publisher delivers events.
type Publisher interface {
	Publish(ctx context.Context, evt Recorded) error
	Close() error
}

// NullPublisher drops events.
type NullPublisher struct{}

func (NullPublisher) Publish(context.Context, Recorded) error { return nil }
func (NullPublisher) Close() error                             { return nil }

// KafkaPublisher writes events to a single topic keyed by player.
type KafkaPublisher struct {
	brokers []string
	topic   string
	writer  *kafka.Writer
}

// NewKafkaPublisher constructs a publisher for comma-separated brokers.
func NewKafkaPublisher(brokers, topic string) *KafkaPublisher {
	if topic == "" {
		topic = DefaultTopic
	}
	var addrs []string
	for _, b := range strings.Split(brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			addrs = append(addrs, b)
		}
	}
	k := &KafkaPublisher{brokers: addrs, topic: topic}
	if len(addrs) > 0 {
		k.writer = &kafka.Writer{
			Addr:         kafka.TCP(addrs...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			BatchTimeout: 50 * time.Millisecond,
		}
	}
	return k
}

func (k *KafkaPublisher) ensure() error {
	if k.writer == nil {
		return errors.New("kafka brokers not configured")
	}
	return nil
}

func (k *KafkaPublisher) Publish(ctx context.Context, evt Recorded) error {
	if err := k.ensure(); err != nil {
		return err
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return k.writer.WriteMessages(ctx, kafka.Message{Key: []byte(evt.Completion.Player), Value: data})
}

func (k *KafkaPublisher) Close() error {
	if k.writer == nil {
		return nil
	}
	return k.writer.Close()
}
