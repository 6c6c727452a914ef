package subscriptions

import (
	"context"
	"sync"
	"time"

	"github.com/jensneuse/abstractlogger"
	"github.com/segmentio/ksuid"

	eventbus "github.com/graphql-aspnet/graphql-aspnet-sub009/internal/eventbus"
	events "github.com/graphql-aspnet/graphql-aspnet-sub009/internal/events"
)

// RaisedEvent is one subscription event raised inside a resolver, waiting to
// be delivered to the publishing backend.
type RaisedEvent struct {
	ID       string
	Route    string
	Payload  any
	RaisedAt time.Time
}

// NewRaisedEvent stamps a payload with an id and the current time.
func NewRaisedEvent(route string, payload any) *RaisedEvent {
	return &RaisedEvent{
		ID:       ksuid.New().String(),
		Route:    route,
		Payload:  payload,
		RaisedAt: time.Now(),
	}
}

// Publisher delivers one raised event to wherever interested subscribers can
// be reached: the in-process router, a broker, a remote publishing service.
type Publisher interface {
	PublishEvent(ctx context.Context, evt *RaisedEvent) error
}

// EventDispatchQueue decouples raising an event from publishing it. Producers
// enqueue without ever blocking; one background drain loop delivers events in
// enqueue order, isolating publish failures per event.
type EventDispatchQueue struct {
	publisher Publisher
	log       abstractlogger.Logger

	mu      sync.Mutex
	pending []*RaisedEvent
	wake    chan struct{}
}

func NewEventDispatchQueue(publisher Publisher, log abstractlogger.Logger) *EventDispatchQueue {
	if log == nil {
		log = abstractlogger.Noop{}
	}
	return &EventDispatchQueue{
		publisher: publisher,
		log:       log,
		wake:      make(chan struct{}, 1),
	}
}

// Enqueue appends the event and nudges the drain loop. It never blocks,
// regardless of how far behind the consumer is.
func (q *EventDispatchQueue) Enqueue(evt *RaisedEvent) {
	q.mu.Lock()
	q.pending = append(q.pending, evt)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Len reports how many events are waiting.
func (q *EventDispatchQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Run drains the queue until ctx is cancelled. It suspends without polling
// while the queue is empty. A publisher failure is logged and the event
// dropped; subsequent events are unaffected.
func (q *EventDispatchQueue) Run(ctx context.Context) {
	for {
		for {
			evt := q.dequeue()
			if evt == nil {
				break
			}
			q.publish(ctx, evt)
			if ctx.Err() != nil {
				return
			}
		}
		select {
		case <-ctx.Done():
			return
		case <-q.wake:
		}
	}
}

func (q *EventDispatchQueue) dequeue() *RaisedEvent {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return nil
	}
	evt := q.pending[0]
	q.pending = q.pending[1:]
	return evt
}

func (q *EventDispatchQueue) publish(ctx context.Context, evt *RaisedEvent) {
	start := time.Now()
	err := q.publisher.PublishEvent(ctx, evt)
	eventbus.Publish(ctx, events.SubscriptionEventPublished{
		Route:    evt.Route,
		EventID:  evt.ID,
		Err:      err,
		Duration: time.Since(start),
	})
	if err != nil {
		q.log.Error("subscription event publish failed",
			abstractlogger.String("route", evt.Route),
			abstractlogger.String("eventId", evt.ID),
			abstractlogger.Error(err),
		)
	}
}
