package subscriptions

import "sync"

// MessageIDTracker enforces at most one in-flight request per client-supplied
// message id. Reservations for different clients never contend; reservation
// for one client is a single atomic check-and-insert.
type MessageIDTracker struct {
	clients sync.Map // client id -> *sync.Map (message id -> struct{})
}

func NewMessageIDTracker() *MessageIDTracker {
	return &MessageIDTracker{}
}

// ReserveMessageID claims the id for the client. It returns false when the id
// is already reserved, signalling a duplicate in-flight request to reject.
func (t *MessageIDTracker) ReserveMessageID(clientID, messageID string) bool {
	set, _ := t.clients.LoadOrStore(clientID, &sync.Map{})
	_, loaded := set.(*sync.Map).LoadOrStore(messageID, struct{}{})
	return !loaded
}

// ReleaseMessageID frees the id for reuse. Unknown client or id is a no-op.
func (t *MessageIDTracker) ReleaseMessageID(clientID, messageID string) {
	if set, ok := t.clients.Load(clientID); ok {
		set.(*sync.Map).Delete(messageID)
	}
}

// ReleaseClient drops every reservation the client holds.
func (t *MessageIDTracker) ReleaseClient(clientID string) {
	t.clients.Delete(clientID)
}
