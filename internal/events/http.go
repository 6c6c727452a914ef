package events

import (
	"net/http"
	"time"
)

// HTTPStart is emitted when an HTTP request is received. RequestID is the
// id assigned to the request; downstream events of the same request carry
// it in their context.
type HTTPStart struct {
	RequestID int64
	Request   *http.Request
}

// HTTPFinish is emitted after the handler completes.
type HTTPFinish struct {
	RequestID int64
	Request   *http.Request
	Status    int
	Duration  time.Duration
}
