package event

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"retailapi/internal/logger"
)

// DefaultObserverTimeout bounds a single observer call.
const DefaultObserverTimeout = 5 * time.Second

var (
	ErrObserverRequired  = errors.New("observer is required")
	ErrObserverName      = errors.New("observer name is required")
	ErrNoCapability      = errors.New("observer implements no notification interface")
	ErrObserverTimeout   = errors.New("observer exceeded execution budget")
	ErrObserverPanicked  = errors.New("observer panicked")
	ErrDuplicateObserver = errors.New("observer already registered")
)

type registration struct {
	name     string
	observer any
}

// Dispatcher delivers events to registered observers, synchronously and in registration order.
//
// Observer code never runs under the registry lock, so observers may register further observers or
// notify further events. Observer failures are logged and counted; they never reach the caller of Notify.
type Dispatcher struct {
	mu        sync.RWMutex
	observers []registration

	logger  *zap.Logger
	tracer  trace.Tracer
	metrics *Metrics
	timeout time.Duration
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger for delivery failures. A nil logger keeps the no-op default.
func WithLogger(l *zap.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithTracer sets the tracer used for one span per delivery. A nil tracer keeps the global one.
func WithTracer(t trace.Tracer) Option {
	return func(d *Dispatcher) {
		if t != nil {
			d.tracer = t
		}
	}
}

// WithMetrics enables delivery counters. Without it nothing is counted.
func WithMetrics(m *Metrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

// WithObserverTimeout sets the per-observer budget. Zero or negative disables the budget.
func WithObserverTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) { d.timeout = timeout }
}

// NewDispatcher creates an empty Dispatcher with a no-op logger, the global tracer and
// DefaultObserverTimeout, then applies opts.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		logger:  zap.NewNop(),
		tracer:  otel.Tracer("retailapi/internal/event"),
		timeout: DefaultObserverTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Register appends an observer. The name labels logs, spans and metrics and must be unique.
func (d *Dispatcher) Register(name string, observer any) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrObserverName
	}
	if observer == nil {
		return ErrObserverRequired
	}
	if !implementsAny(observer) {
		return fmt.Errorf("%w: %s (%T)", ErrNoCapability, name, observer)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	for _, r := range d.observers {
		if r.name == name {
			return fmt.Errorf("%w: %s", ErrDuplicateObserver, name)
		}
	}
	d.observers = append(d.observers, registration{name: name, observer: observer})
	return nil
}

// Len returns the number of registered observers.
func (d *Dispatcher) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.observers)
}

// Notify delivers e to every registered observer that handles it and returns once all of them ran.
// Cancellation of ctx does not stop delivery: the triggering state change is already committed.
func (d *Dispatcher) Notify(ctx context.Context, e Event) {
	if e == nil {
		return
	}

	d.mu.RLock()
	snapshot := make([]registration, len(d.observers))
	copy(snapshot, d.observers)
	d.mu.RUnlock()

	ctx = context.WithoutCancel(ctx)
	for _, r := range snapshot {
		if !e.accepts(r.observer) {
			continue
		}
		d.deliver(ctx, r, e)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, r registration, e Event) {
	start := time.Now()
	ctx, span := d.tracer.Start(ctx, "event."+e.Name(), trace.WithAttributes(
		attribute.String("event.name", e.Name()),
		attribute.String("event.observer", r.name),
	))
	defer span.End()

	err := d.invoke(ctx, r, e)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		d.metrics.failed(r.name, e.Name())
		logger.FromContext(ctx, d.logger).Error("observer_undelivered",
			zap.String("observer", r.name),
			zap.String("event", e.Name()),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return
	}
	d.metrics.delivered(r.name, e.Name())
}

func (d *Dispatcher) invoke(ctx context.Context, r registration, e Event) error {
	if d.timeout <= 0 {
		return call(ctx, r, e)
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- call(ctx, r, e) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("%w: %s", ErrObserverTimeout, d.timeout)
	}
}

func call(ctx context.Context, r registration, e Event) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", ErrObserverPanicked, rec)
		}
	}()
	return e.deliver(ctx, r.observer)
}
