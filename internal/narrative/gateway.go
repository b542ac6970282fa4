package narrative

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const DefaultTimeout = 30 * time.Second

// ErrNotConfigured means no model provider could be built at startup.
var ErrNotConfigured = errors.New("narrative: no model provider configured")

// State is where one generation call is in its lifecycle.
type State string

const (
	StateIdle       State = "idle"
	StateRequesting State = "requesting"
	StateSuccess    State = "success"
	StateFailure    State = "failure"
)

// Gateway makes exactly one model call per Generate. It does not retry,
// cache or deduplicate; two identical requests cost two calls.
type Gateway struct {
	caller  Caller
	timeout time.Duration
	tracer  trace.Tracer
}

type Option func(*Gateway)

func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		if d > 0 {
			g.timeout = d
		}
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(g *Gateway) { g.tracer = t }
}

// NewGateway accepts a nil caller; Generate then fails with ErrNotConfigured.
func NewGateway(caller Caller, opts ...Option) *Gateway {
	g := &Gateway{
		caller:  caller,
		timeout: DefaultTimeout,
		tracer:  otel.Tracer("github.com/ailutions/ailutions-site/internal/narrative"),
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

func (g *Gateway) Configured() bool {
	return g != nil && g.caller != nil
}

func (g *Gateway) Generate(ctx context.Context, req Request) (Report, error) {
	if !g.Configured() {
		return Report{}, ErrNotConfigured
	}
	if req.Results == nil {
		return Report{}, errors.New("narrative: results are required")
	}

	ctx, span := g.tracer.Start(ctx, "narrative.Generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("maturity.stage", req.Results.MaturityStage.Name),
		attribute.Float64("maturity.score", req.Results.Score),
	)
	span.AddEvent(string(StateRequesting))

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	raw, err := g.caller.GenerateText(ctx, BuildPrompt(*req.Results))
	if err != nil {
		return Report{}, g.fail(span, &GenerationError{Stage: "request", Err: err})
	}
	rep, err := ParseNarrative(raw)
	if err != nil {
		return Report{}, g.fail(span, err)
	}

	span.AddEvent(string(StateSuccess))
	span.SetStatus(codes.Ok, "")
	log.Debug().Dur("elapsed", time.Since(start)).Str("stage", req.Results.MaturityStage.Name).Msg("narrative generated")
	return rep, nil
}

func (g *Gateway) fail(span trace.Span, err error) error {
	span.AddEvent(string(StateFailure))
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
