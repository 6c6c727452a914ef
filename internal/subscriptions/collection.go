package subscriptions

import (
	"context"
	"sync"

	eventbus "github.com/graphql-aspnet/graphql-aspnet-sub009/internal/eventbus"
	events "github.com/graphql-aspnet/graphql-aspnet-sub009/internal/events"
)

// ClientSubscriptionCollection is the registry of active subscriptions,
// indexed both by owning client and by target event route. One reader/writer
// lock guards both indexes jointly: a subscription is present in the client
// index iff it is present in the matching route index, and that invariant
// must hold for any observer outside the lock.
//
// Route registration and abandonment notifications fire after the lock is
// released, so a listener may re-enter the registry without deadlocking.
type ClientSubscriptionCollection struct {
	mu       sync.RWMutex
	byClient map[string]map[string]*Subscription // client id -> client-provided id -> sub
	byRoute  map[string]map[string]*Subscription // route -> subscription id -> sub
}

func NewClientSubscriptionCollection() *ClientSubscriptionCollection {
	return &ClientSubscriptionCollection{
		byClient: make(map[string]map[string]*Subscription),
		byRoute:  make(map[string]map[string]*Subscription),
	}
}

// Add inserts the subscription into both indexes. The first subscription on a
// route announces the route as registered. A re-add under a client-provided id
// the client already holds replaces the prior subscription in both indexes; a
// replacement that empties the prior route announces that route as abandoned.
func (c *ClientSubscriptionCollection) Add(ctx context.Context, sub *Subscription) {
	clientID := sub.Client().ID()

	c.mu.Lock()
	clientSubs, ok := c.byClient[clientID]
	if !ok {
		clientSubs = make(map[string]*Subscription)
		c.byClient[clientID] = clientSubs
	}
	prev := clientSubs[sub.ClientProvidedID()]
	clientSubs[sub.ClientProvidedID()] = sub

	routeSubs, routeExisted := c.byRoute[sub.Route()]
	if !routeExisted {
		routeSubs = make(map[string]*Subscription)
		c.byRoute[sub.Route()] = routeSubs
	}
	routeSubs[sub.ID()] = sub

	// Detach the displaced subscription after inserting the new one, so a
	// same-route replacement never empties and re-creates the route bucket.
	abandoned := ""
	if prev != nil {
		prevRoute := c.byRoute[prev.Route()]
		delete(prevRoute, prev.ID())
		if len(prevRoute) == 0 {
			delete(c.byRoute, prev.Route())
			abandoned = prev.Route()
		}
	}
	c.mu.Unlock()

	if abandoned != "" {
		eventbus.Publish(ctx, events.SubscriptionRouteAbandoned{Route: abandoned})
	}
	if !routeExisted {
		eventbus.Publish(ctx, events.SubscriptionRouteRegistered{Route: sub.Route()})
	}
}

// TryRemoveSubscription removes the subscription the client registered under
// its own chosen id. Returns the removed subscription, or nil when the client
// or id was never tracked. Emptying a route bucket announces the route as
// abandoned.
func (c *ClientSubscriptionCollection) TryRemoveSubscription(ctx context.Context, clientID, clientProvidedID string) *Subscription {
	c.mu.Lock()
	sub, abandoned := c.removeLocked(clientID, clientProvidedID)
	c.mu.Unlock()

	if abandoned != "" {
		eventbus.Publish(ctx, events.SubscriptionRouteAbandoned{Route: abandoned})
	}
	return sub
}

// RemoveAllSubscriptions drops every subscription the client holds, in one
// locked pass, announcing each route that became empty as a result.
func (c *ClientSubscriptionCollection) RemoveAllSubscriptions(ctx context.Context, clientID string) []*Subscription {
	c.mu.Lock()
	var removed []*Subscription
	var abandonedRoutes []string
	for clientProvidedID := range c.byClient[clientID] {
		sub, abandoned := c.removeLocked(clientID, clientProvidedID)
		if sub != nil {
			removed = append(removed, sub)
		}
		if abandoned != "" {
			abandonedRoutes = append(abandonedRoutes, abandoned)
		}
	}
	c.mu.Unlock()

	for _, route := range abandonedRoutes {
		eventbus.Publish(ctx, events.SubscriptionRouteAbandoned{Route: route})
	}
	return removed
}

// removeLocked detaches one subscription from both indexes and prunes empty
// buckets. It returns the removed subscription and, when the route bucket
// emptied, the route name. Callers hold the write lock.
func (c *ClientSubscriptionCollection) removeLocked(clientID, clientProvidedID string) (*Subscription, string) {
	clientSubs := c.byClient[clientID]
	sub, ok := clientSubs[clientProvidedID]
	if !ok {
		return nil, ""
	}
	delete(clientSubs, clientProvidedID)
	if len(clientSubs) == 0 {
		delete(c.byClient, clientID)
	}

	abandoned := ""
	routeSubs := c.byRoute[sub.Route()]
	delete(routeSubs, sub.ID())
	if len(routeSubs) == 0 {
		delete(c.byRoute, sub.Route())
		abandoned = sub.Route()
	}
	return sub, abandoned
}

// RetrieveSubscriptionsByRoute returns the live subscriptions interested in
// one event route. The result is always non-nil and safe to range over.
func (c *ClientSubscriptionCollection) RetrieveSubscriptionsByRoute(route string) []*Subscription {
	c.mu.RLock()
	defer c.mu.RUnlock()
	subs := make([]*Subscription, 0, len(c.byRoute[route]))
	for _, sub := range c.byRoute[route] {
		subs = append(subs, sub)
	}
	return subs
}

// RetrieveSubscriptionsByClient returns every subscription one client holds.
func (c *ClientSubscriptionCollection) RetrieveSubscriptionsByClient(clientID string) []*Subscription {
	c.mu.RLock()
	defer c.mu.RUnlock()
	subs := make([]*Subscription, 0, len(c.byClient[clientID]))
	for _, sub := range c.byClient[clientID] {
		subs = append(subs, sub)
	}
	return subs
}

// Count reports the total number of tracked subscriptions.
func (c *ClientSubscriptionCollection) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, subs := range c.byClient {
		n += len(subs)
	}
	return n
}

// CountByRoute reports how many subscriptions target one route.
func (c *ClientSubscriptionCollection) CountByRoute(route string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byRoute[route])
}
