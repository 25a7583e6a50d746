// Package publish delivers analysis reports to Kafka.
package publish

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"example.com/mostactive/internal/domain"
)

// EventType identifies report events on the wire.
const EventType = "cookie_activity.reported"

type messageWriter interface {
	WriteMessages(context.Context, string, ...kafka.Message) error
}

type schemaRegistrar interface {
	EnsureSchema(context.Context, string, string) (int, error)
}

// Event is the payload published for a report.
type Event struct {
	EventID        string      `json:"event_id"`
	RunID          string      `json:"run_id"`
	Date           domain.Date `json:"date"`
	Cookies        []string    `json:"cookies"`
	MaxCount       int         `json:"max_count"`
	SourcesRead    int         `json:"sources_read"`
	SourcesSkipped int         `json:"sources_skipped"`
	LinesSkipped   int         `json:"lines_skipped"`
	GeneratedAt    time.Time   `json:"generated_at"`
}

// Option configures optional behaviour for the Publisher.
type Option func(*Publisher)

// WithLogger overrides the logger.
func WithLogger(logger *log.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// WithSchemaRegistry frames payloads with the schema ID resolved from registry.
// Without a registry payloads are written as plain JSON.
func WithSchemaRegistry(registry schemaRegistrar) Option {
	return func(p *Publisher) {
		p.registry = registry
	}
}

// Publisher writes one event per report to a topic.
type Publisher struct {
	producer messageWriter
	registry schemaRegistrar
	topic    string
	logger   *log.Logger
}

// NewPublisher constructs a Publisher writing to topic.
func NewPublisher(producer messageWriter, topic string, opts ...Option) *Publisher {
	p := &Publisher{
		producer: producer,
		topic:    topic,
		logger:   log.New(log.Writer(), "[publish] ", log.LstdFlags|log.Lshortfile),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish encodes report and writes it to the configured topic.
func (p *Publisher) Publish(ctx context.Context, report *domain.Report) error {
	event := newEvent(report)
	payload, err := json.Marshal(event)
	if err != nil {
		failedCounter.WithLabelValues("encode").Inc()
		return fmt.Errorf("encode report: %w", err)
	}

	subject := p.topic + "-value"
	if p.registry != nil {
		schemaID, err := p.registry.EnsureSchema(ctx, subject, reportSchema)
		if err != nil {
			failedCounter.WithLabelValues("schema").Inc()
			return fmt.Errorf("ensure schema %s: %w", subject, err)
		}
		payload = encodeWireFormat(schemaID, payload)
	}

	msg := kafka.Message{
		Key:   []byte(event.Date.String()),
		Value: payload,
		Time:  time.Now().UTC(),
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventType)},
			{Key: "schema_subject", Value: []byte(subject)},
		},
	}
	if err := p.producer.WriteMessages(ctx, p.topic, msg); err != nil {
		failedCounter.WithLabelValues("write").Inc()
		return fmt.Errorf("publish report to %s: %w", p.topic, err)
	}

	deliveredCounter.Inc()
	p.logger.Printf("published report %s (event=%s, topic=%s)", event.RunID, event.EventID, p.topic)
	return nil
}

func newEvent(report *domain.Report) Event {
	event := Event{
		EventID:     uuid.NewString(),
		RunID:       report.RunID,
		Date:        report.Date,
		Cookies:     report.Cookies,
		MaxCount:    report.MaxCount,
		GeneratedAt: report.GeneratedAt,
	}
	if stats := report.Stats; stats != nil {
		event.SourcesRead = stats.SourcesRead
		event.SourcesSkipped = len(stats.SkippedSources)
		event.LinesSkipped = len(stats.LineFailures)
	}
	return event
}

// encodeWireFormat applies Confluent framing for Schema Registry aware payloads.
func encodeWireFormat(schemaID int, payload []byte) []byte {
	frame := make([]byte, 5+len(payload))
	frame[0] = 0
	binary.BigEndian.PutUint32(frame[1:5], uint32(schemaID))
	copy(frame[5:], payload)
	return frame
}
