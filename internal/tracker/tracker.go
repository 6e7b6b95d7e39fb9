// Package tracker polls the backend for order status on a fixed interval and
// exposes the last observed stage for display. Each tracked order owns a
// cancellable handle: dismissing the tracking view stops its polling
// deterministically, and terminal statuses stop it on their own.
package tracker

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/gmoliveira/pizzaria-storefront/internal/domain/order"
)

// FetchFunc retrieves the current status of one order from the backend.
type FetchFunc func(ctx context.Context, orderID string) (order.Status, error)

// Snapshot is the tracker's view of one order at a point in time.
type Snapshot struct {
	OrderID string
	// Known is false until the first successful fetch.
	Known  bool
	Status order.Status
	// StageIndex is the position on the 5-stage timeline, -1 for CANCELLED.
	StageIndex int
	Cancelled  bool
	Terminal   bool
	LastSeen   time.Time
}

// Handle is one order's polling loop. Stop is idempotent.
type Handle struct {
	orderID string
	cancel  context.CancelFunc
	done    chan struct{}

	mu   sync.RWMutex
	snap Snapshot
}

// Snapshot returns the last observed state. Fetch failures never clear it:
// the tracker keeps the last known status through transient hiccups.
func (h *Handle) Snapshot() Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snap
}

// Done is closed when the polling loop has exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Stop cancels the polling loop. Safe to call any number of times.
func (h *Handle) Stop() {
	h.cancel()
}

func (h *Handle) observe(st order.Status) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.snap = Snapshot{
		OrderID:    h.orderID,
		Known:      true,
		Status:     st,
		StageIndex: st.StageIndex(),
		Cancelled:  st.Cancelled(),
		Terminal:   st.Terminal(),
		LastSeen:   time.Now(),
	}
}

// Tracker manages polling handles, one per order.
type Tracker struct {
	fetch    FetchFunc
	interval time.Duration
	polls    metric.Int64Counter

	mu      sync.Mutex
	handles map[string]*Handle
}

// New creates a Tracker that polls with fetch every interval.
func New(fetch FetchFunc, interval time.Duration, meter metric.Meter) *Tracker {
	polls, err := meter.Int64Counter("storefront.tracker.polls",
		metric.WithDescription("Order status polls, by outcome"))
	if err != nil {
		polls = nil
	}
	return &Tracker{
		fetch:    fetch,
		interval: interval,
		polls:    polls,
		handles:  make(map[string]*Handle),
	}
}

// Track starts polling orderID, or returns the already-running handle. The
// loop outlives the caller's request: only Stop, a terminal status, or ctx's
// values expiring end it.
func (t *Tracker) Track(ctx context.Context, orderID string) *Handle {
	t.mu.Lock()
	defer t.mu.Unlock()

	if h, ok := t.handles[orderID]; ok {
		select {
		case <-h.done:
			// Finished handle: fall through and replace it.
		default:
			return h
		}
	}

	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	h := &Handle{
		orderID: orderID,
		cancel:  cancel,
		done:    make(chan struct{}),
		snap:    Snapshot{OrderID: orderID, StageIndex: -1},
	}
	t.handles[orderID] = h

	go t.run(loopCtx, h)
	return h
}

// Stop cancels the handle for orderID, reporting whether one was running.
func (t *Tracker) Stop(orderID string) bool {
	t.mu.Lock()
	h, ok := t.handles[orderID]
	t.mu.Unlock()
	if !ok {
		return false
	}
	h.Stop()
	return true
}

// Snapshot returns the state of a tracked order.
func (t *Tracker) Snapshot(orderID string) (Snapshot, bool) {
	t.mu.Lock()
	h, ok := t.handles[orderID]
	t.mu.Unlock()
	if !ok {
		return Snapshot{}, false
	}
	return h.Snapshot(), true
}

// run polls immediately, then on every tick, until cancellation or a terminal
// status.
func (t *Tracker) run(ctx context.Context, h *Handle) {
	defer close(h.done)
	defer t.remove(h)

	if terminal := t.poll(ctx, h); terminal {
		return
	}

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if terminal := t.poll(ctx, h); terminal {
				return
			}
		}
	}
}

// poll fetches once. Errors keep the last known status and never surface as
// blocking failures. Returns true when the observed status is terminal.
func (t *Tracker) poll(ctx context.Context, h *Handle) bool {
	st, err := t.fetch(ctx, h.orderID)
	if err != nil {
		t.count(ctx, "error")
		zctx.From(ctx).Debug("Status poll failed, keeping last known",
			zap.String("order_id", h.orderID), zap.Error(err))
		return false
	}

	t.count(ctx, "ok")
	h.observe(st)
	if st.Terminal() {
		zctx.From(ctx).Info("Order reached terminal status, polling stopped",
			zap.String("order_id", h.orderID), zap.String("status", string(st)))
		return true
	}
	return false
}

func (t *Tracker) count(ctx context.Context, outcome string) {
	if t.polls == nil {
		return
	}
	t.polls.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (t *Tracker) remove(h *Handle) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.handles[h.orderID] == h {
		delete(t.handles, h.orderID)
	}
}

// StopAll cancels every running handle, for shutdown.
func (t *Tracker) StopAll() {
	t.mu.Lock()
	handles := make([]*Handle, 0, len(t.handles))
	for _, h := range t.handles {
		handles = append(handles, h)
	}
	t.mu.Unlock()

	for _, h := range handles {
		h.Stop()
		<-h.done
	}
}
