package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"physio-notes-be/pkg/events"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// EncounterHandler receives decoded encounter events in stream order.
type EncounterHandler func(events.EncounterEvent)

// Subscriber reads the PHI_EVENTS stream without leaving a durable consumer
// behind, which suits operators tailing events from a terminal.
type Subscriber struct {
	conn *nats.Conn
	js   jetstream.JetStream
}

func NewSubscriber(url string) (*Subscriber, error) {
	conn, err := nats.Connect(url, nats.Name("soapctl"), nats.Timeout(5*time.Second))
	if err != nil {
		return nil, fmt.Errorf("connect nats %s: %w", url, err)
	}
	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	return &Subscriber{conn: conn, js: js}, nil
}

// TailEncounters delivers events published after since (or only new ones
// when since is zero) until ctx ends. Messages that do not decode are
// reported through onError and skipped.
func (s *Subscriber) TailEncounters(ctx context.Context, since time.Time, handle EncounterHandler, onError func(error)) error {
	cfg := jetstream.OrderedConsumerConfig{
		FilterSubjects: []string{SubjectPrefix + "ENCOUNTER_*"},
		DeliverPolicy:  jetstream.DeliverNewPolicy,
	}
	if !since.IsZero() {
		cfg.DeliverPolicy = jetstream.DeliverByStartTimePolicy
		cfg.OptStartTime = &since
	}

	consumer, err := s.js.OrderedConsumer(ctx, StreamName, cfg)
	if err != nil {
		return fmt.Errorf("ordered consumer on %s: %w", StreamName, err)
	}

	consumeCtx, err := consumer.Consume(func(msg jetstream.Msg) {
		ev, err := decodeEncounterEvent(msg.Data())
		if err != nil {
			if onError != nil {
				onError(fmt.Errorf("%s: %w", msg.Subject(), err))
			}
			return
		}
		handle(ev)
	})
	if err != nil {
		return fmt.Errorf("consume %s: %w", StreamName, err)
	}
	defer consumeCtx.Stop()

	<-ctx.Done()
	return nil
}

func decodeEncounterEvent(data []byte) (events.EncounterEvent, error) {
	var ev events.EncounterEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return ev, fmt.Errorf("decode encounter event: %w", err)
	}
	if ev.Type == "" || ev.EncounterID == "" {
		return ev, fmt.Errorf("decode encounter event: missing type or encounter_id")
	}
	return ev, nil
}

func (s *Subscriber) Close() {
	if s.conn != nil {
		s.conn.Close()
	}
}
