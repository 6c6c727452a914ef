package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	abstractlogger "github.com/jensneuse/abstractlogger"
	"go.uber.org/zap"

	"github.com/graphql-aspnet/graphql-aspnet-sub009/internal/document"
	"github.com/graphql-aspnet/graphql-aspnet-sub009/internal/eventbus"
	"github.com/graphql-aspnet/graphql-aspnet-sub009/internal/language"
	"github.com/graphql-aspnet/graphql-aspnet-sub009/internal/otel"
	"github.com/graphql-aspnet/graphql-aspnet-sub009/internal/schema"
	"github.com/graphql-aspnet/graphql-aspnet-sub009/internal/server"
	"github.com/graphql-aspnet/graphql-aspnet-sub009/internal/subscriptions"
)

const rootUsage = `graphqld — GraphQL query engine gateway & tools

USAGE:
  graphqld <command> [flags]

COMMANDS:
  serve            Run the HTTP GraphQL gateway over a data-backed resolver
  check            Validate GraphQL query documents against a schema
  help             Show help for any command
`

const serveUsage = `serve FLAGS:
  -graphql.schema <file>              GraphQL SDL schema file (required)
  -graphql.data <file>                JSON file with root query data (default: empty object)
  -server.addr <addr>                 HTTP listen address (default: :8080)
  -server.pretty                      Pretty-print JSON responses
  -server.timeout <duration>          Per-request timeout, e.g. 10s (default: 10s)
  -server.metadata-header <name>      Forward HTTP header to gRPC metadata. Repeatable
  -server.graphiql <bool>             Serve the GraphiQL IDE on GET (default: true)
  -events.endpoint <addr>             gRPC endpoint of a downstream event publisher.
                                      When set, POST /events enqueues subscription
                                      events for background delivery
  -events.rpc-timeout <duration>      Publish RPC timeout, e.g. 3s (default: 3s)
  -events.max-conns <n>               Max TCP conns to the publisher (default: 2)
  -otel.endpoint <addr>               OTLP collector endpoint
  -otel.service <name>                OpenTelemetry service name (default: graphqld)
  -log.debug                          Verbose development logging
`

const checkUsage = `check FLAGS:
  -graphql.schema <file>   GraphQL SDL schema file (required)
  [query files...]         Query documents to validate
  (Exits non-zero when any document carries critical messages)
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	global := flag.NewFlagSet("graphqld", flag.ContinueOnError)
	global.SetOutput(new(bytes.Buffer)) // silence automatic output
	if err := global.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, rootUsage)
		return err
	}
	remaining := global.Args()
	if len(remaining) == 0 {
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("missing command")
	}

	cmd := remaining[0]
	cmdArgs := remaining[1:]
	switch cmd {
	case "serve":
		return cmdServe(cmdArgs)
	case "check":
		return cmdCheck(cmdArgs)
	case "help":
		return cmdHelp(cmdArgs)
	default:
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func cmdHelp(args []string) error {
	if len(args) == 0 {
		fmt.Print(rootUsage)
		return nil
	}
	switch args[0] {
	case "serve":
		fmt.Print(serveUsage)
	case "check":
		fmt.Print(checkUsage)
	default:
		return fmt.Errorf("unknown help topic %q", args[0])
	}
	return nil
}

type stringListFlag []string

func (s *stringListFlag) String() string { return "" }

func (s *stringListFlag) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func newLogger(debug bool) (abstractlogger.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	}
	zl, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	level := abstractlogger.InfoLevel
	if debug {
		level = abstractlogger.DebugLevel
	}
	return abstractlogger.NewZapLogger(zl, level), nil
}

func cmdServe(args []string) error {
	schemaFile := ""
	dataFile := ""
	addr := ":8080"
	pretty := false
	timeout := 10 * time.Second
	graphiql := true
	eventsEndpoint := ""
	eventsRPCTimeout := 3 * time.Second
	eventsMaxConns := 2
	otelEndpoint := ""
	otelService := "graphqld"
	debug := false
	var metadataHeaders stringListFlag

	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&schemaFile, "graphql.schema", schemaFile, "GraphQL SDL schema file")
	fs.StringVar(&dataFile, "graphql.data", dataFile, "JSON file with root query data")
	fs.StringVar(&addr, "server.addr", addr, "HTTP listen address")
	fs.BoolVar(&pretty, "server.pretty", pretty, "Pretty-print JSON responses")
	fs.DurationVar(&timeout, "server.timeout", timeout, "Per-request timeout")
	fs.Var(&metadataHeaders, "server.metadata-header", "Forward HTTP header to gRPC metadata")
	fs.BoolVar(&graphiql, "server.graphiql", graphiql, "Serve the GraphiQL IDE on GET")
	fs.StringVar(&eventsEndpoint, "events.endpoint", eventsEndpoint, "gRPC endpoint of a downstream event publisher")
	fs.DurationVar(&eventsRPCTimeout, "events.rpc-timeout", eventsRPCTimeout, "Publish RPC timeout")
	fs.IntVar(&eventsMaxConns, "events.max-conns", eventsMaxConns, "Max TCP conns to the publisher")
	fs.StringVar(&otelEndpoint, "otel.endpoint", otelEndpoint, "OTLP collector endpoint")
	fs.StringVar(&otelService, "otel.service", otelService, "OpenTelemetry service name")
	fs.BoolVar(&debug, "log.debug", debug, "Verbose development logging")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, serveUsage)
		return err
	}
	if schemaFile == "" {
		fmt.Fprint(os.Stderr, serveUsage)
		return fmt.Errorf("-graphql.schema is required")
	}

	logger, err := newLogger(debug)
	if err != nil {
		return fmt.Errorf("logger init: %w", err)
	}

	sdl, err := os.ReadFile(schemaFile)
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}
	sch, err := schema.BuildFromSDL(string(sdl))
	if err != nil {
		return fmt.Errorf("build schema: %w", err)
	}

	rootData := map[string]any{}
	if dataFile != "" {
		raw, err := os.ReadFile(dataFile)
		if err != nil {
			return fmt.Errorf("read data: %w", err)
		}
		if err := json.Unmarshal(raw, &rootData); err != nil {
			return fmt.Errorf("parse data: %w", err)
		}
	}

	eventbus.Use(eventbus.New())
	shutdown, err := otel.Setup(otelEndpoint, otelService)
	if err != nil {
		return fmt.Errorf("otel setup: %w", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	var sopts []server.Option
	if pretty {
		sopts = append(sopts, server.WithPretty())
	}
	if timeout > 0 {
		sopts = append(sopts, server.WithTimeout(timeout))
	}
	if len(metadataHeaders) > 0 {
		sopts = append(sopts, server.WithMetadataHeaders(metadataHeaders...))
	}
	sopts = append(sopts, server.WithGraphiQL(graphiql))
	h, err := server.New(newSourceResolver(rootData), sch, sopts...)
	if err != nil {
		return fmt.Errorf("server init: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/graphql", h)

	if eventsEndpoint != "" {
		publisher := subscriptions.NewGRPCPublisher(subscriptions.PublisherOptions{
			Endpoint:   eventsEndpoint,
			RPCTimeout: eventsRPCTimeout,
			MaxConns:   eventsMaxConns,
		})
		defer publisher.Close()
		queue := subscriptions.NewEventDispatchQueue(publisher, logger)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go queue.Run(ctx)
		mux.Handle("/events", eventsHandler(queue))
	}

	log.Printf("GraphQL server listening on %s", addr)
	return http.ListenAndServe(addr, mux)
}

// eventsHandler accepts raised subscription events over HTTP and hands them
// to the dispatch queue. The request body is {"route": "...", "payload": ...}.
func eventsHandler(queue *subscriptions.EventDispatchQueue) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var body struct {
			Route   string `json:"route"`
			Payload any    `json:"payload"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		if body.Route == "" {
			http.Error(w, "missing 'route'", http.StatusBadRequest)
			return
		}
		evt := subscriptions.NewRaisedEvent(body.Route, body.Payload)
		queue.Enqueue(evt)
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(map[string]string{"id": evt.ID})
	})
}

func cmdCheck(args []string) error {
	schemaFile := ""
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&schemaFile, "graphql.schema", schemaFile, "GraphQL SDL schema file")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, checkUsage)
		return err
	}
	if schemaFile == "" {
		fmt.Fprint(os.Stderr, checkUsage)
		return fmt.Errorf("-graphql.schema is required")
	}
	queryFiles := fs.Args()
	if len(queryFiles) == 0 {
		fmt.Fprint(os.Stderr, checkUsage)
		return fmt.Errorf("no query files given")
	}

	sdl, err := os.ReadFile(schemaFile)
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}
	sch, err := schema.BuildFromSDL(string(sdl))
	if err != nil {
		return fmt.Errorf("build schema: %w", err)
	}

	failed := false
	for _, qf := range queryFiles {
		src, err := os.ReadFile(qf)
		if err != nil {
			return fmt.Errorf("read query: %w", err)
		}
		qdoc, err := language.ParseQuery(string(src))
		if err != nil {
			fmt.Printf("%s: %v\n", qf, err)
			failed = true
			continue
		}
		doc := document.Build(qdoc, sch)
		for _, m := range doc.Messages.Items() {
			fmt.Printf("%s: %s\n", qf, m)
		}
		if doc.Messages.HasCriticals() {
			failed = true
		} else {
			fmt.Printf("%s: ok\n", qf)
		}
	}
	if failed {
		return fmt.Errorf("validation failed")
	}
	return nil
}
