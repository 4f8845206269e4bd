package outbox

import (
	"context"
	"errors"
	"runtime/debug"
	"sync"
	"time"

	domoutbox "github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/outbox"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/observability"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/observability/logctx"
)

const componentOutbox = "outbox"

var ErrClosed = errors.New("outbox: bus closed")

type Options struct {
	QueueSize      int
	Concurrency    int
	HandlerTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.QueueSize <= 0 {
		o.QueueSize = 1024
	}
	if o.Concurrency <= 0 {
		o.Concurrency = 8
	}
	if o.HandlerTimeout <= 0 {
		o.HandlerTimeout = 30 * time.Second
	}
	return o
}

// Bus is an in-process, non-durable event bus. Events published after a sale
// or stock change has committed are fanned out to subscribers; a lost event
// never affects what was committed.
type Bus struct {
	mu     sync.RWMutex
	subs   map[string][]domoutbox.Handler
	closed bool

	queue     chan domoutbox.Event
	done      chan struct{}
	startOnce sync.Once
	stopOnce  sync.Once
	cancel    context.CancelFunc
	opts      Options

	log          observability.Logger
	extCounter   observability.Counter
	extHistogram observability.Histogram
}

func NewBus(logger observability.Logger, tel observability.Observability, opts Options) *Bus {
	if logger == nil && tel != nil {
		logger = tel.Logger()
	}
	if logger == nil {
		logger = observability.NopLogger()
	}
	metrics := observability.NopMetrics()
	if tel != nil {
		metrics = tel.Metrics()
	}
	opts = opts.withDefaults()
	return &Bus{
		subs:         make(map[string][]domoutbox.Handler),
		queue:        make(chan domoutbox.Event, opts.QueueSize),
		done:         make(chan struct{}),
		opts:         opts,
		log:          logger.With(observability.F("component", componentOutbox)),
		extCounter:   metrics.Counter(observability.MExternalRequests),
		extHistogram: metrics.Histogram(observability.MExternalRequestDuration),
	}
}

func (b *Bus) Subscribe(eventName string, h domoutbox.Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[eventName] = append(b.subs[eventName], h)
}

func (b *Bus) Start(ctx context.Context) {
	b.startOnce.Do(func() {
		bg, cancel := context.WithCancel(context.WithoutCancel(ctx))
		b.cancel = cancel
		go b.dispatchLoop(bg)
		logctx.FromOr(ctx, b.log).Info("event_bus_started")
	})
}

// Stop refuses new events and waits until queued ones are handled or ctx ends.
func (b *Bus) Stop(ctx context.Context) {
	b.stopOnce.Do(func() {
		b.mu.Lock()
		b.closed = true
		close(b.queue)
		b.mu.Unlock()

		started := b.cancel != nil
		if started {
			select {
			case <-b.done:
			case <-ctx.Done():
				logctx.FromOr(ctx, b.log).Warn("event_bus_drain_aborted",
					observability.F("pending", len(b.queue)),
				)
			}
			b.cancel()
		}
		logctx.FromOr(ctx, b.log).Info("event_bus_stopped")
	})
}

func (b *Bus) Publish(ctx context.Context, e domoutbox.Event) error {
	if e == nil {
		return nil
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrClosed
	}
	logger := logctx.FromOr(ctx, b.log).With(observability.F("event", e.EventName()))
	select {
	case b.queue <- e:
		logger.Debug("event_enqueued")
		return nil
	case <-ctx.Done():
		logger.Warn("event_enqueue_aborted",
			observability.F("error", ctx.Err()),
		)
		return ctx.Err()
	}
}

func (b *Bus) dispatchLoop(ctx context.Context) {
	defer close(b.done)
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-b.queue:
			if !ok {
				return
			}
			b.fanout(ctx, e)
		}
	}
}

func (b *Bus) fanout(ctx context.Context, e domoutbox.Event) {
	name := e.EventName()

	b.mu.RLock()
	handlers := append([]domoutbox.Handler(nil), b.subs[name]...)
	b.mu.RUnlock()

	if len(handlers) == 0 {
		b.log.Debug("event_dropped_no_subscriber", observability.F("event", name))
		return
	}

	baseLogger := b.log.With(
		observability.F("event", name),
		observability.F("owner_id", e.EventOwner()),
	)
	sem := make(chan struct{}, b.opts.Concurrency)
	var wg sync.WaitGroup

	for _, h := range handlers {
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			start := time.Now()
			outcome := "success"
			defer func() {
				if r := recover(); r != nil {
					outcome = "panic"
					baseLogger.Error("event_handler_panic",
						observability.F("panic", r),
						observability.F("stack", string(debug.Stack())),
					)
				}
				b.observe(name, outcome, time.Since(start))
				<-sem
				wg.Done()
			}()

			hctx, cancel := context.WithTimeout(ctx, b.opts.HandlerTimeout)
			defer cancel()
			hctx = logctx.With(hctx, baseLogger)
			if err := h(hctx, e); err != nil {
				outcome = "error"
				baseLogger.Warn("event_handler_error",
					observability.F("error", err),
				)
			}
		}()
	}

	wg.Wait()

	baseLogger.Debug("event_fanned_out",
		observability.F("handlers", len(handlers)),
	)
}

func (b *Bus) observe(endpoint, outcome string, took time.Duration) {
	b.extCounter.Add(1,
		observability.L("peer", componentOutbox),
		observability.L("endpoint", endpoint),
		observability.L("outcome", outcome),
	)
	b.extHistogram.Observe(took.Seconds(),
		observability.L("peer", componentOutbox),
		observability.L("endpoint", endpoint),
	)
}
