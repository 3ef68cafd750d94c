package events

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"curator/internal/logger"

	"github.com/segmentio/kafka-go"
)

// Publisher writes catalog events to Kafka. A nil Publisher drops events, so
// callers never have to branch on whether messaging is configured.
type Publisher struct {
	writer *kafka.Writer
	log    *logger.Logger
}

func NewPublisher(brokers, topic string, log *logger.Logger) *Publisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(strings.Split(brokers, ",")...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &Publisher{writer: writer, log: log}
}

// Publish sends the event, best effort. Failures are logged, never returned;
// catalog writes must not fail because the broker is down.
func (p *Publisher) Publish(ctx context.Context, event Event) {
	if p == nil {
		return
	}
	event.Timestamp = time.Now().UTC()

	payload, err := json.Marshal(event)
	if err != nil {
		p.log.Error("marshaling %s event: %v", event.Type, err)
		return
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.ProductID),
		Value: payload,
	}); err != nil {
		p.log.Error("publishing %s event: %v", event.Type, err)
	}
}

func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
