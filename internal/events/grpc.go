package events

import (
	"time"

	"google.golang.org/grpc/codes"
)

// GRPCClientStart is emitted before a gRPC client call. Route is set when
// the call delivers a subscription event, empty otherwise.
type GRPCClientStart struct {
	Service string
	Method  string
	Target  string
	Route   string
}

// GRPCClientFinish is emitted after a gRPC client call completes.
type GRPCClientFinish struct {
	Service  string
	Method   string
	Target   string
	Route    string
	Code     codes.Code
	Err      error
	Duration time.Duration
}
