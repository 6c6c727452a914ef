package subscriptions

import (
	"context"
	"sync"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func lazyConn(t *testing.T) *grpc.ClientConn {
	t.Helper()
	cc, err := grpc.NewClient("localhost:0",
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return cc
}

func TestPublisherRefusesPublishAfterClose(t *testing.T) {
	p := NewGRPCPublisher(PublisherOptions{Endpoint: "localhost:0"})
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if err := p.PublishEvent(context.Background(), NewRaisedEvent("r", nil)); err == nil {
		t.Fatalf("publish after close should fail")
	}
}

func TestPublisherCloseRacesWithConnReturn(t *testing.T) {
	for i := 0; i < 200; i++ {
		p := NewGRPCPublisher(PublisherOptions{Endpoint: "localhost:0"})
		cc := lazyConn(t)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() { defer wg.Done(); p.returnConn(cc) }()
		go func() { defer wg.Done(); _ = p.Close() }()
		wg.Wait()

		// whatever the interleaving, nothing may stay parked in the pool
		select {
		case left := <-p.conns:
			_ = left.Close()
			t.Fatalf("connection left in the pool after close")
		default:
		}
	}
}

func TestPublisherReturnConnRecyclesWhileOpen(t *testing.T) {
	p := NewGRPCPublisher(PublisherOptions{Endpoint: "localhost:0", MaxConns: 1})
	cc := lazyConn(t)
	p.returnConn(cc)

	got, err := p.getConn(context.Background())
	if err != nil {
		t.Fatalf("getConn: %v", err)
	}
	if got != cc {
		t.Fatalf("pooled connection was not reused")
	}
	_ = p.Close()
	_ = cc.Close()
}
