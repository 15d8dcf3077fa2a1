package events

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
)

// Publisher is satisfied by kafka.Producer.
type Publisher interface {
	Publish(topic string, key, value []byte, headers ...kafkago.Header)
}

// Emitter wraps payloads in an Envelope and hands them to a Publisher.
// A nil *Emitter drops every event.
type Emitter struct {
	pub      Publisher
	producer string
	log      *slog.Logger
}

func NewEmitter(pub Publisher, producer string, log *slog.Logger) *Emitter {
	if log == nil {
		log = slog.Default()
	}
	return &Emitter{pub: pub, producer: producer, log: log}
}

func (e *Emitter) Emit(topic, eventType, aggregateID string, payload any) {
	if e == nil || e.pub == nil {
		return
	}
	p, err := json.Marshal(payload)
	if err != nil {
		e.log.Error("marshal event payload", "event_type", eventType, "err", err)
		return
	}
	env := Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      e.producer,
		CorrelationID: aggregateID,
		Payload:       p,
	}
	b, err := json.Marshal(env)
	if err != nil {
		e.log.Error("marshal event envelope", "event_type", eventType, "err", err)
		return
	}
	e.pub.Publish(topic, PartitionKey(aggregateID), b,
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte(strconv.Itoa(env.EventVersion))},
	)
}
