package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// eventSink receives subscription events published by graphqld and logs
// them. It implements the publisher wire contract directly through a raw
// service descriptor, so no generated stubs are needed.
type eventSink struct{}

func (eventSink) publish(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	fields := req.GetFields()
	route := fields["route"].GetStringValue()
	id := fields["id"].GetStringValue()
	log.Printf("event route=%s id=%s payload=%s", route, id, toCompactJSON(fields["payload"]))
	return &emptypb.Empty{}, nil
}

func publishHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	sink := srv.(eventSink)
	if interceptor == nil {
		return sink.publish(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/graphql.subscriptions.EventPublisher/Publish",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return sink.publish(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

var publisherServiceDesc = grpc.ServiceDesc{
	ServiceName: "graphql.subscriptions.EventPublisher",
	HandlerType: (*interface{})(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Publish", Handler: publishHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "graphql/subscriptions.proto",
}

func main() {
	addr := flag.String("addr", ":50051", "the address to listen on")
	flag.Parse()

	lis, err := net.Listen("tcp", *addr)
	if err != nil {
		log.Fatalf("failed to listen on %s: %v", *addr, err)
	}

	s := grpc.NewServer(
		grpc.UnaryInterceptor(loggingUnaryServerInterceptor),
	)
	s.RegisterService(&publisherServiceDesc, eventSink{})

	log.Printf("event sink starting on %s", *addr)
	if err := s.Serve(lis); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}

// loggingUnaryServerInterceptor logs exactly one line per unary RPC with method, duration, and compact JSON for req/resp (or error).
func loggingUnaryServerInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	reqJSON := toCompactJSON(req)

	resp, err := handler(ctx, req)
	dur := time.Since(start)

	if err != nil {
		st, _ := status.FromError(err)
		log.Printf("grpc method=%s code=%s duration=%s req=%s error=%q", info.FullMethod, st.Code(), dur, reqJSON, st.Message())
		return resp, err
	}

	respJSON := toCompactJSON(resp)
	log.Printf("grpc method=%s duration=%s req=%s resp=%s", info.FullMethod, dur, reqJSON, respJSON)
	return resp, nil
}

// toCompactJSON marshals a protobuf message to a single-line JSON string; falls back to type name if not proto or on error.
func toCompactJSON(msg interface{}) string {
	if m, ok := msg.(proto.Message); ok {
		b, err := protojson.MarshalOptions{EmitUnpopulated: true, UseEnumNumbers: false}.Marshal(m)
		if err == nil {
			return string(b)
		}
	}
	return fmt.Sprintf("\"%T\"", msg)
}
