package publish

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"example.com/mostactive/internal/domain"
)

func TestPublishPlainJSON(t *testing.T) {
	writer := &stubWriter{}
	publisher := NewPublisher(writer, "cookie_activity_reports", WithLogger(log.New(testWriter{t}, "", 0)))

	err := publisher.Publish(context.Background(), sampleReport())
	require.NoError(t, err)

	require.Equal(t, "cookie_activity_reports", writer.topic)
	require.Len(t, writer.messages, 1)
	msg := writer.messages[0]
	require.Equal(t, "2018-12-09", string(msg.Key))
	require.Equal(t, EventType, header(msg, "event_type"))
	require.Equal(t, "cookie_activity_reports-value", header(msg, "schema_subject"))

	var event Event
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	require.Equal(t, "run-1", event.RunID)
	require.Equal(t, []string{"cookie1", "cookie3"}, event.Cookies)
	require.Equal(t, 2, event.MaxCount)
	require.Equal(t, 1, event.SourcesSkipped)
	require.Equal(t, 1, event.LinesSkipped)
	require.NotEmpty(t, event.EventID)
}

func TestPublishFramesWithRegistrySchema(t *testing.T) {
	var registrations atomic.Int32
	registry := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			require.Equal(t, "/subjects/reports-value/versions/latest", r.URL.Path)
			http.NotFound(w, r)
		case http.MethodPost:
			registrations.Add(1)
			require.Equal(t, "/subjects/reports-value/versions", r.URL.Path)
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "JSON", body["schemaType"])
			require.JSONEq(t, reportSchema, body["schema"])
			_, _ = w.Write([]byte(`{"id":42}`))
		}
	}))
	defer registry.Close()

	writer := &stubWriter{}
	publisher := NewPublisher(writer, "reports",
		WithSchemaRegistry(NewSchemaRegistryClient(registry.URL+"/", time.Second)),
		WithLogger(log.New(testWriter{t}, "", 0)),
	)

	require.NoError(t, publisher.Publish(context.Background(), sampleReport()))
	require.NoError(t, publisher.Publish(context.Background(), sampleReport()))
	require.EqualValues(t, 1, registrations.Load())

	value := writer.messages[0].Value
	require.Equal(t, byte(0), value[0])
	require.EqualValues(t, 42, binary.BigEndian.Uint32(value[1:5]))

	var event Event
	require.NoError(t, json.Unmarshal(value[5:], &event))
	require.Equal(t, "run-1", event.RunID)
}

func TestPublishUsesExistingSchema(t *testing.T) {
	registry := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte(`{"id":7,"version":3}`))
	}))
	defer registry.Close()

	client := NewSchemaRegistryClient(registry.URL, time.Second)
	id, err := client.EnsureSchema(context.Background(), "reports-value", reportSchema)
	require.NoError(t, err)
	require.Equal(t, 7, id)
}

func TestPublishRegistryError(t *testing.T) {
	registry := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer registry.Close()

	writer := &stubWriter{}
	publisher := NewPublisher(writer, "reports",
		WithSchemaRegistry(NewSchemaRegistryClient(registry.URL, time.Second)),
		WithLogger(log.New(testWriter{t}, "", 0)),
	)

	err := publisher.Publish(context.Background(), sampleReport())
	require.ErrorContains(t, err, "ensure schema reports-value")
	require.Empty(t, writer.messages)
}

func TestPublishWriteError(t *testing.T) {
	writer := &stubWriter{err: errors.New("broker down")}
	publisher := NewPublisher(writer, "reports", WithLogger(log.New(testWriter{t}, "", 0)))

	err := publisher.Publish(context.Background(), sampleReport())
	require.ErrorContains(t, err, "broker down")
}

func sampleReport() *domain.Report {
	return &domain.Report{
		RunID:    "run-1",
		Date:     domain.Date{Year: 2018, Month: time.December, Day: 9},
		Cookies:  []string{"cookie1", "cookie3"},
		MaxCount: 2,
		Stats: &domain.LoadStats{
			SourcesRead:    2,
			SkippedSources: []domain.SourceFailure{{Source: "dir", Err: domain.ErrUnreadableSource}},
			LineFailures:   []domain.LineFailure{{Source: "a.csv", Line: 4, Err: domain.ErrInvalidTimestamp}},
		},
		GeneratedAt: time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC),
	}
}

func header(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

type stubWriter struct {
	topic    string
	messages []kafka.Message
	err      error
}

func (w *stubWriter) WriteMessages(_ context.Context, topic string, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.topic = topic
	w.messages = append(w.messages, msgs...)
	return nil
}

type testWriter struct {
	t *testing.T
}

func (tw testWriter) Write(p []byte) (int, error) {
	tw.t.Log(string(p))
	return len(p), nil
}
