package offline

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/projecttracker/tracker/internal/model"
	"github.com/projecttracker/tracker/pkg/trackerapi"
)

// SyncState is the orchestrator state.
type SyncState int32

const (
	Idle SyncState = iota
	Syncing
)

func (s SyncState) String() string {
	if s == Syncing {
		return "syncing"
	}
	return "idle"
}

// SyncReport describes one finished sync.
type SyncReport struct {
	StartedAt  time.Time
	FinishedAt time.Time
	Applied    int
	Failed     int
	Remaining  int
	Discarded  int
	// Err is the drain or refresh error, if any. Per-entry replay errors
	// are counted in Failed instead.
	Err error
}

// Syncer drains the queue against the API and then refreshes the cache.
type Syncer struct {
	api   trackerapi.Client
	queue *Queue
	cache *Cache

	// refreshed receives the server list of every successful refresh,
	// before pending edits are laid over it.
	refreshed func(ctx context.Context, projects []*model.Project)

	busy atomic.Bool
	last atomic.Pointer[SyncReport]
}

// NewSyncer wires a Syncer.
func NewSyncer(api trackerapi.Client, queue *Queue, cache *Cache) *Syncer {
	return &Syncer{api: api, queue: queue, cache: cache}
}

// State is Syncing while a Sync call runs.
func (s *Syncer) State() SyncState {
	if s.busy.Load() {
		return Syncing
	}
	return Idle
}

// LastReport returns the most recent finished sync, or nil.
func (s *Syncer) LastReport() *SyncReport {
	return s.last.Load()
}

// Sync replays the queue then refreshes the cache from the server. It
// returns ErrSyncInProgress immediately if another Sync is running. The
// state returns to Idle whatever the outcome.
func (s *Syncer) Sync(ctx context.Context) (report SyncReport, err error) {
	if !s.busy.CompareAndSwap(false, true) {
		return SyncReport{}, ErrSyncInProgress
	}
	defer s.busy.Store(false)

	report.StartedAt = time.Now()
	defer func() {
		report.FinishedAt = time.Now()
		r := report
		s.last.Store(&r)
	}()

	result, err := s.queue.DrainAndReplay(ctx, s.apply)
	report.Applied = len(result.Applied)
	report.Failed = len(result.Failed)
	report.Discarded = len(result.Discarded)
	for _, a := range result.Applied {
		if a.Entry.Kind == KindCreate && a.Entry.CorrelationID != "" {
			s.cache.Reconcile(a.Entry.CorrelationID, a.Project)
		} else {
			s.cache.Upsert(a.Project)
		}
	}
	if err != nil {
		report.Err = err
		slog.Error("sync: drain failed", "error", err)
		return report, err
	}

	pending, err := s.queue.Pending(ctx)
	report.Remaining = len(pending)
	if err != nil {
		report.Err = err
		return report, err
	}

	projects, err := s.api.ListProjects(ctx)
	if err != nil {
		// Reconciled creates replaced their optimistic entries; lay the
		// edits still queued for them back on.
		s.cache.Replace(overlayPending(s.cache.Snapshot(), pending))
		report.Err = fmt.Errorf("refresh: %w", err)
		slog.Warn("sync: refresh failed", "error", err)
		return report, report.Err
	}
	if s.refreshed != nil {
		s.refreshed(ctx, projects)
	}
	s.cache.Replace(overlayPending(projects, pending))

	slog.Info("sync finished", "applied", report.Applied, "failed", report.Failed, "remaining", report.Remaining, "discarded", report.Discarded)
	return report, nil
}

func (s *Syncer) apply(ctx context.Context, e Entry) (*model.Project, error) {
	switch e.Kind {
	case KindCreate:
		return s.api.CreateProject(ctx, e.Payload.createInput())
	case KindUpdate:
		return s.api.UpdateProject(ctx, e.TargetID, e.Payload.updateInput())
	default:
		return nil, fmt.Errorf("unknown mutation kind %q", e.Kind)
	}
}
