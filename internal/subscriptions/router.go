package subscriptions

import (
	"context"

	"github.com/jensneuse/abstractlogger"

	engine "github.com/graphql-aspnet/graphql-aspnet-sub009/internal/engine"
)

// Router is the in-process Publisher: it fans a raised event out to every
// subscription tracked for the event's route, re-entering query execution
// with the event payload as the source value.
type Router struct {
	registry *ClientSubscriptionCollection
	exec     *engine.Engine
	log      abstractlogger.Logger
}

func NewRouter(registry *ClientSubscriptionCollection, exec *engine.Engine, log abstractlogger.Logger) *Router {
	if log == nil {
		log = abstractlogger.Noop{}
	}
	return &Router{registry: registry, exec: exec, log: log}
}

// PublishEvent executes each interested subscription's document against the
// event payload and hands the response to the owning client. One client's
// delivery failure is logged and does not stop fan-out to the rest.
func (r *Router) PublishEvent(ctx context.Context, evt *RaisedEvent) error {
	subs := r.registry.RetrieveSubscriptionsByRoute(evt.Route)
	for _, sub := range subs {
		qd := sub.QueryData()
		response := r.exec.ExecuteDocument(ctx, sub.Document(), qd.OperationName, qd.Variables, evt.Payload)
		if err := sub.Client().ReceiveEvent(ctx, sub, response); err != nil {
			r.log.Error("subscription event delivery failed",
				abstractlogger.String("route", evt.Route),
				abstractlogger.String("subscriptionId", sub.ID()),
				abstractlogger.String("clientId", sub.Client().ID()),
				abstractlogger.Error(err),
			)
		}
	}
	return nil
}
