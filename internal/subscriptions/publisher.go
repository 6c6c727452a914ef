package subscriptions

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/backoff"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	eventbus "github.com/graphql-aspnet/graphql-aspnet-sub009/internal/eventbus"
	events "github.com/graphql-aspnet/graphql-aspnet-sub009/internal/events"
)

const (
	publisherService    = "graphql.subscriptions.EventPublisher"
	publisherFullMethod = "/graphql.subscriptions.EventPublisher/Publish"
)

// PublisherOptions configures the remote gRPC publisher.
type PublisherOptions struct {
	Endpoint    string
	DialOptions []grpc.DialOption
	RPCTimeout  time.Duration
	MaxConns    int
}

// GRPCPublisher delivers raised events to a remote publishing service over
// gRPC, with a small connection pool per process. The event crosses the wire
// as a struct payload, so the remote side needs no schema knowledge.
type GRPCPublisher struct {
	opts   PublisherOptions
	conns  chan *grpc.ClientConn
	closed atomic.Bool
}

func NewGRPCPublisher(opts PublisherOptions) *GRPCPublisher {
	if len(opts.DialOptions) == 0 {
		opts.DialOptions = []grpc.DialOption{
			grpc.WithTransportCredentials(insecure.NewCredentials()),
			grpc.WithConnectParams(grpc.ConnectParams{Backoff: backoff.DefaultConfig}),
		}
	}
	if opts.MaxConns <= 0 {
		opts.MaxConns = 2
	}
	return &GRPCPublisher{
		opts:  opts,
		conns: make(chan *grpc.ClientConn, opts.MaxConns),
	}
}

var _ Publisher = (*GRPCPublisher)(nil)

// PublishEvent encodes the event and invokes the remote publish method once.
func (p *GRPCPublisher) PublishEvent(ctx context.Context, evt *RaisedEvent) error {
	if p.closed.Load() {
		return fmt.Errorf("subscriptions: publisher closed")
	}

	req, err := encodeRaisedEvent(evt)
	if err != nil {
		return err
	}

	if _, ok := ctx.Deadline(); !ok && p.opts.RPCTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.RPCTimeout)
		defer cancel()
	}
	ctx = metadata.AppendToOutgoingContext(ctx, "x-graphql-event-route", evt.Route)

	cc, err := p.getConn(ctx)
	if err != nil {
		return err
	}
	defer p.returnConn(cc)

	start := time.Now()
	eventbus.Publish(ctx, events.GRPCClientStart{
		Service: publisherService,
		Method:  "Publish",
		Target:  p.opts.Endpoint,
		Route:   evt.Route,
	})
	err = cc.Invoke(ctx, publisherFullMethod, req, new(emptypb.Empty))
	eventbus.Publish(ctx, events.GRPCClientFinish{
		Service:  publisherService,
		Method:   "Publish",
		Target:   p.opts.Endpoint,
		Route:    evt.Route,
		Code:     status.Code(err),
		Err:      err,
		Duration: time.Since(start),
	})
	return err
}

// Close drains and closes the pooled connections. The pool channel itself is
// never closed: an in-flight returnConn may still send into it, so Close
// drains non-blockingly and returnConn closes anything parked after the drain.
func (p *GRPCPublisher) Close() error {
	if p.closed.Swap(true) {
		return nil
	}
	p.drainConns()
	return nil
}

func (p *GRPCPublisher) drainConns() {
	for {
		select {
		case cc := <-p.conns:
			_ = cc.Close()
		default:
			return
		}
	}
}

func (p *GRPCPublisher) getConn(ctx context.Context) (*grpc.ClientConn, error) {
	select {
	case cc := <-p.conns:
		return cc, nil
	default:
		return grpc.DialContext(ctx, p.opts.Endpoint, p.opts.DialOptions...)
	}
}

func (p *GRPCPublisher) returnConn(cc *grpc.ClientConn) {
	if cc == nil || p.closed.Load() {
		if cc != nil {
			_ = cc.Close()
		}
		return
	}
	select {
	case p.conns <- cc:
		// Close may have finished its drain between the check above and
		// this send landing; sweep the pool again in that case.
		if p.closed.Load() {
			p.drainConns()
		}
	default:
		_ = cc.Close()
	}
}

// encodeRaisedEvent flattens the event into a struct message. The payload
// must be representable as JSON-like data.
func encodeRaisedEvent(evt *RaisedEvent) (*structpb.Struct, error) {
	payload, err := structpb.NewValue(evt.Payload)
	if err != nil {
		return nil, fmt.Errorf("subscriptions: event payload not encodable: %w", err)
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"id":       structpb.NewStringValue(evt.ID),
		"route":    structpb.NewStringValue(evt.Route),
		"raisedAt": structpb.NewStringValue(evt.RaisedAt.UTC().Format(time.RFC3339Nano)),
		"payload":  payload,
	}}, nil
}
