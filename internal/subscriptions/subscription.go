package subscriptions

import (
	"context"
	"strings"

	"github.com/segmentio/ksuid"

	document "github.com/graphql-aspnet/graphql-aspnet-sub009/internal/document"
	engine "github.com/graphql-aspnet/graphql-aspnet-sub009/internal/engine"
	language "github.com/graphql-aspnet/graphql-aspnet-sub009/internal/language"
	messages "github.com/graphql-aspnet/graphql-aspnet-sub009/internal/messages"
	schema "github.com/graphql-aspnet/graphql-aspnet-sub009/internal/schema"
)

// Client is the connection-side handle a subscription belongs to. The
// registry never owns a client; its lifetime belongs to the transport
// adapter.
type Client interface {
	ID() string
	ReceiveEvent(ctx context.Context, sub *Subscription, response *engine.Response) error
}

// QueryData is the original subscribe request payload.
type QueryData struct {
	Text          string
	OperationName string
	Variables     map[string]any
}

// Subscription is one client's standing interest in one subscription field,
// derived from a parsed and validated query document. Construction never
// fails; validation problems accumulate on Messages and flip the validity
// flag.
type Subscription struct {
	id               string
	clientProvidedID string
	client           Client

	route     string
	field     *document.FieldPart
	queryData QueryData
	document  *document.DocumentPart
	messages  *messages.Collection
	valid     bool
}

// NewSubscription builds and validates a subscription for one client. A
// subscription is valid only when the document carries no critical messages,
// the selected operation is a subscription, and walking through any virtual
// routing fields terminates at exactly one concrete subscription field.
func NewSubscription(client Client, clientProvidedID string, sch *schema.Schema, doc *document.DocumentPart, queryData QueryData) *Subscription {
	s := &Subscription{
		id:               ksuid.New().String(),
		clientProvidedID: clientProvidedID,
		client:           client,
		queryData:        queryData,
		document:         doc,
		messages:         &messages.Collection{},
	}
	s.messages.Merge(doc.Messages)
	if s.messages.HasCriticals() {
		return s
	}

	op := doc.Operation(queryData.OperationName)
	if op == nil {
		s.messages.AddCritical("5.2.1", "the request must select exactly one operation")
		return s
	}
	if op.OperationType() != language.Subscription {
		s.messages.AddCritical("5.2.3", "the selected operation is a %s, not a subscription", op.OperationType())
		return s
	}
	if op.GraphType() == nil {
		s.messages.AddCritical("5.2.3.1", "the schema does not support subscription operations")
		return s
	}

	field, route, ok := walkToSubscriptionField(s.messages, op.SelectionSet())
	if !ok {
		return s
	}
	s.field = field
	s.route = route
	s.valid = true
	return s
}

// walkToSubscriptionField descends through virtual routing fields, demanding
// exactly one included field per level, until it reaches a concrete field.
// The traversed field names joined by "/" form the subscription route.
func walkToSubscriptionField(msgs *messages.Collection, set *document.FieldSelectionSetPart) (*document.FieldPart, string, bool) {
	var segments []string
	for {
		if set == nil {
			msgs.AddCritical("5.8.3", "the subscription terminates before reaching a concrete field")
			return nil, "", false
		}
		included := set.ExecutableFields().IncludedOnly()
		if len(included) != 1 {
			msgs.AddCritical("5.8.3", "a subscription must select exactly one field per level, found %d", len(included))
			return nil, "", false
		}
		field := included[0].Field
		def := field.FieldDefinition()
		if def == nil {
			msgs.AddCritical("5.8.3", "field %q is not defined by the schema", field.Name())
			return nil, "", false
		}
		segments = append(segments, field.Name())
		if !def.Virtual {
			return field, strings.Join(segments, "/"), true
		}
		set = field.SelectionSet()
	}
}

// ID is the internally generated subscription id, unique across the process.
func (s *Subscription) ID() string { return s.id }

// ClientProvidedID is the id the client chose for this subscription; remove
// operations address subscriptions by it.
func (s *Subscription) ClientProvidedID() string { return s.clientProvidedID }

func (s *Subscription) Client() Client { return s.client }

// Route is the fully qualified schema path identifying which subscription
// field events target.
func (s *Subscription) Route() string { return s.route }

// Field is the concrete subscription field the route terminates at, nil for
// invalid subscriptions.
func (s *Subscription) Field() *document.FieldPart { return s.field }

func (s *Subscription) QueryData() QueryData                 { return s.queryData }
func (s *Subscription) Document() *document.DocumentPart     { return s.document }
func (s *Subscription) Messages() *messages.Collection       { return s.messages }
func (s *Subscription) IsValid() bool                        { return s.valid }
