package subscriptions

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type capturePublisher struct {
	mu        sync.Mutex
	published []string
	failOn    map[string]error
	done      chan struct{} // closed-ish signal: one tick per publish
}

func newCapturePublisher() *capturePublisher {
	return &capturePublisher{
		failOn: make(map[string]error),
		done:   make(chan struct{}, 64),
	}
}

func (p *capturePublisher) PublishEvent(ctx context.Context, evt *RaisedEvent) error {
	p.mu.Lock()
	p.published = append(p.published, evt.Route)
	err := p.failOn[evt.Route]
	p.mu.Unlock()
	p.done <- struct{}{}
	return err
}

func (p *capturePublisher) routes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.published...)
}

func (p *capturePublisher) waitFor(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-p.done:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for publish %d of %d", i+1, n)
		}
	}
}

func TestQueuePublishesInEnqueueOrder(t *testing.T) {
	pub := newCapturePublisher()
	q := NewEventDispatchQueue(pub, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go q.Run(ctx)

	for _, route := range []string{"a", "b", "c", "d"} {
		q.Enqueue(NewRaisedEvent(route, nil))
	}
	pub.waitFor(t, 4)

	if diff := cmp.Diff([]string{"a", "b", "c", "d"}, pub.routes()); diff != "" {
		t.Fatalf("publish order mismatch (-want +got):\n%s", diff)
	}
}

func TestQueueIsolatesPublishFailures(t *testing.T) {
	pub := newCapturePublisher()
	pub.failOn["bad"] = errors.New("backend rejected event")
	q := NewEventDispatchQueue(pub, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go q.Run(ctx)

	q.Enqueue(NewRaisedEvent("ok1", nil))
	q.Enqueue(NewRaisedEvent("bad", nil))
	q.Enqueue(NewRaisedEvent("ok2", nil))
	pub.waitFor(t, 3)

	// the failing event is logged and dropped; later events still publish
	if diff := cmp.Diff([]string{"ok1", "bad", "ok2"}, pub.routes()); diff != "" {
		t.Fatalf("publish sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestQueueEnqueueNeverBlocks(t *testing.T) {
	pub := newCapturePublisher()
	q := NewEventDispatchQueue(pub, nil)

	// no drain loop running at all
	doneEnqueue := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			q.Enqueue(NewRaisedEvent("r", nil))
		}
		close(doneEnqueue)
	}()
	select {
	case <-doneEnqueue:
	case <-time.After(2 * time.Second):
		t.Fatalf("enqueue blocked without a consumer")
	}
	if q.Len() != 1000 {
		t.Fatalf("queue length = %d, want 1000", q.Len())
	}
}

func TestQueueStopsOnCancellation(t *testing.T) {
	pub := newCapturePublisher()
	q := NewEventDispatchQueue(pub, nil)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		q.Run(ctx)
		close(stopped)
	}()

	q.Enqueue(NewRaisedEvent("before", nil))
	pub.waitFor(t, 1)

	cancel()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatalf("drain loop did not stop on cancellation")
	}
}
