package tool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/arlberg/toolgate/internal/observe"
)

// Registry holds the process-wide tool catalogue. It is immutable after
// [NewRegistry] returns and therefore safe for unsynchronised concurrent
// reads; every invocation gets its own [Args] and [*Result].
type Registry struct {
	tools   map[string]*Descriptor
	ordered []*Descriptor

	logger  *slog.Logger
	metrics *observe.Metrics
}

// Option configures a [Registry].
type Option func(*Registry)

// WithLogger sets the logger used for per-call dispatch logging. Defaults to
// [slog.Default].
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// WithMetrics enables per-call metric recording. A nil Metrics disables it.
func WithMetrics(m *observe.Metrics) Option {
	return func(r *Registry) { r.metrics = m }
}

// NewRegistry builds a registry from the given descriptors. It returns an
// error if two descriptors share a name or a descriptor has no executor.
func NewRegistry(descriptors []Descriptor, opts ...Option) (*Registry, error) {
	r := &Registry{
		tools: make(map[string]*Descriptor, len(descriptors)),
	}
	for _, o := range opts {
		o(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}

	for i := range descriptors {
		d := descriptors[i]
		if d.Name == "" {
			return nil, fmt.Errorf("tool: descriptor %d has an empty name", i)
		}
		if d.Execute == nil {
			return nil, fmt.Errorf("tool: descriptor %q has no executor", d.Name)
		}
		if _, dup := r.tools[d.Name]; dup {
			return nil, fmt.Errorf("tool: duplicate descriptor name %q", d.Name)
		}
		r.tools[d.Name] = &d
		r.ordered = append(r.ordered, &d)
	}

	sort.Slice(r.ordered, func(i, j int) bool {
		return r.ordered[i].Name < r.ordered[j].Name
	})

	return r, nil
}

// Lookup returns the descriptor registered under name, or nil when the name
// is unknown.
func (r *Registry) Lookup(name string) *Descriptor {
	return r.tools[name]
}

// Descriptors returns every registered descriptor sorted by name. The
// returned slice is shared; callers must not mutate it.
func (r *Registry) Descriptors() []*Descriptor {
	return r.ordered
}

// Dispatch runs one tool invocation end to end: lookup, validation, policy
// gate, executor. It never panics on caller input; every failure surfaces as
// a [*Error] whose kind the transports map to their wire encodings.
//
// Validation and policy failures are detected before the executor runs, so
// a rejected call has no partial side effects.
func (r *Registry) Dispatch(ctx context.Context, name string, raw map[string]any) (*Result, error) {
	desc := r.Lookup(name)
	if desc == nil {
		return nil, r.finish(ctx, name, time.Time{}, nil, Errorf(KindNotFound, "unknown tool: %s", name))
	}

	args, err := Validate(desc, raw)
	if err != nil {
		return nil, r.finish(ctx, name, time.Time{}, nil, err)
	}

	if desc.Policy != nil {
		if err := desc.Policy(args); err != nil {
			return nil, r.finish(ctx, name, time.Time{}, nil, err)
		}
	}

	start := time.Now()
	res, err := desc.Execute(ctx, args)
	if err != nil {
		return nil, r.finish(ctx, name, start, desc, classify(desc, err))
	}
	r.finish(ctx, name, start, desc, nil)
	return res, nil
}

// finish records metrics and logs for a completed dispatch and returns err
// unchanged for convenient tail calls.
func (r *Registry) finish(ctx context.Context, name string, start time.Time, desc *Descriptor, err error) error {
	status := "ok"
	var terr *Error
	if errors.As(err, &terr) {
		status = string(terr.Kind)
	}

	if r.metrics != nil {
		r.metrics.RecordToolCall(ctx, name, status)
		if !start.IsZero() {
			r.metrics.RecordToolDuration(ctx, name, time.Since(start))
		}
	}

	if err != nil {
		r.logger.Warn("tool call failed", "tool", name, "status", status, "err", err)
	} else {
		r.logger.Debug("tool call completed", "tool", name, "duration", time.Since(start))
	}
	return err
}

// classify coerces an executor failure into a [*Error]. Executors normally
// return typed errors themselves; anything untyped falls back to the kind
// implied by the tool's side-effect class.
func classify(desc *Descriptor, err error) error {
	var terr *Error
	if errors.As(err, &terr) {
		return terr
	}

	kind := KindIO
	switch desc.Effect {
	case EffectNetworkRead:
		kind = KindNetwork
	case EffectDatabaseRead:
		kind = KindDatabase
	}
	return &Error{Kind: kind, Message: err.Error()}
}
