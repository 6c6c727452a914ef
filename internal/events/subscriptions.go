package events

import "time"

// SubscriptionRouteRegistered is emitted when the first subscription for an
// event route is tracked.
type SubscriptionRouteRegistered struct {
	Route string
}

// SubscriptionRouteAbandoned is emitted when the last subscription for an
// event route is removed.
type SubscriptionRouteAbandoned struct {
	Route string
}

// SubscriptionEventPublished is emitted after the dispatch queue hands one
// raised event to the publisher, successfully or not.
type SubscriptionEventPublished struct {
	Route    string
	EventID  string
	Err      error
	Duration time.Duration
}
