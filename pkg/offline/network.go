package offline

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Prober checks connectivity. Any error means offline.
type Prober interface {
	Ping(ctx context.Context) error
}

// ProberFunc adapts a function to Prober.
type ProberFunc func(ctx context.Context) error

func (f ProberFunc) Ping(ctx context.Context) error { return f(ctx) }

type connState int

const (
	stateUnknown connState = iota
	stateOffline
	stateOnline
)

// Observer turns periodic probes into a debounced online/offline signal.
// Subscribers are called once per settled transition, including the first
// settled state after start.
type Observer struct {
	prober   Prober
	interval time.Duration
	debounce int
	timeout  time.Duration

	mu        sync.Mutex
	state     connState
	candidate connState
	streak    int
	subs      []func(online bool)
}

// ObserverOption configures an Observer.
type ObserverOption func(*Observer)

// WithProbeInterval sets the time between probes.
func WithProbeInterval(d time.Duration) ObserverOption {
	return func(o *Observer) { o.interval = d }
}

// WithDebounce sets how many agreeing probes settle a transition.
func WithDebounce(n int) ObserverOption {
	return func(o *Observer) {
		if n > 0 {
			o.debounce = n
		}
	}
}

// WithProbeTimeout bounds each probe.
func WithProbeTimeout(d time.Duration) ObserverOption {
	return func(o *Observer) { o.timeout = d }
}

// NewObserver creates an Observer. Defaults: probe every 3s, settle after 2
// agreeing probes, 5s probe timeout.
func NewObserver(p Prober, opts ...ObserverOption) *Observer {
	o := &Observer{
		prober:   p,
		interval: 3 * time.Second,
		debounce: 2,
		timeout:  5 * time.Second,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Subscribe registers fn for settled transitions. fn runs on the probing
// goroutine and should not block for long.
func (o *Observer) Subscribe(fn func(online bool)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.subs = append(o.subs, fn)
}

// Online reports the last settled state. Unknown counts as offline.
func (o *Observer) Online() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state == stateOnline
}

// Run probes until ctx is done.
func (o *Observer) Run(ctx context.Context) error {
	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()
	for {
		o.Probe(ctx)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Probe runs one connectivity check and notifies subscribers if it settles
// a transition.
func (o *Observer) Probe(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, o.timeout)
	err := o.prober.Ping(pctx)
	cancel()
	if ctx.Err() != nil {
		return
	}

	observed := stateOnline
	if err != nil {
		observed = stateOffline
	}
	if fns, online, ok := o.record(observed); ok {
		slog.Info("network status changed", "online", online)
		for _, fn := range fns {
			fn(online)
		}
	} else if err != nil {
		slog.Debug("probe failed", "error", err)
	}
}

// record folds one observation into the debounce state and returns the
// subscribers to notify when the state settles on a new value.
func (o *Observer) record(observed connState) ([]func(bool), bool, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if observed == o.state {
		o.candidate, o.streak = stateUnknown, 0
		return nil, false, false
	}
	if observed != o.candidate {
		o.candidate, o.streak = observed, 0
	}
	o.streak++
	if o.streak < o.debounce {
		return nil, false, false
	}
	o.state = observed
	o.candidate, o.streak = stateUnknown, 0
	fns := make([]func(bool), len(o.subs))
	copy(fns, o.subs)
	return fns, observed == stateOnline, true
}
