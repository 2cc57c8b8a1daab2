package offline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/projecttracker/tracker/internal/model"
	"github.com/projecttracker/tracker/pkg/kvstore"
)

// QueueKey is the storage key holding the JSON array of pending entries.
const QueueKey = "offline_changes"

// ApplyFunc replays one entry against the server and returns the record the
// server produced.
type ApplyFunc func(ctx context.Context, e Entry) (*model.Project, error)

// Applied is an entry that replayed successfully.
type Applied struct {
	Entry   Entry
	Project *model.Project
}

// Failed is an entry that was requeued.
type Failed struct {
	Entry Entry
	Err   error
}

// ReplayResult summarizes one DrainAndReplay call.
type ReplayResult struct {
	Applied []Applied
	Failed  []Failed
	// Resolved maps temporary ids to the server ids assigned in this drain.
	Resolved map[string]string
	// Discarded are updates of a temporary id that no pending create will
	// ever resolve. They are removed without being sent.
	Discarded []Entry
}

// Queue is the persisted offline mutation log. Entries carry increasing
// sequence numbers and are replayed in that order.
type Queue struct {
	store kvstore.Store
	key   string
	now   func() time.Time

	mu      sync.Mutex // guards storage read-modify-write and resolved
	drainMu sync.Mutex // one drain at a time
	lastSeq int64
	// resolved maps temporary ids to server ids for every create replayed
	// by this queue, so edits enqueued after their drain still find it.
	resolved map[string]string
}

// NewQueue creates a queue persisted in store under QueueKey.
func NewQueue(store kvstore.Store) *Queue {
	return &Queue{store: store, key: QueueKey, now: time.Now, resolved: map[string]string{}}
}

// ResolvedID returns the server id a temporary id was replayed to.
func (q *Queue) ResolvedID(tempID string) (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	id, ok := q.resolved[tempID]
	return id, ok
}

func (q *Queue) load(ctx context.Context) ([]Entry, error) {
	data, err := q.store.Get(ctx, q.key)
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: corrupt queue: %v", ErrStorage, err)
	}
	for _, e := range entries {
		if e.Seq > q.lastSeq {
			q.lastSeq = e.Seq
		}
	}
	return entries, nil
}

// save writes entries, removing the key when nothing is left.
func (q *Queue) save(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		if err := q.store.Delete(ctx, q.key); err != nil {
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}
		return nil
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("%w: encode queue: %v", ErrStorage, err)
	}
	if err := q.store.Set(ctx, q.key, data); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}

// Enqueue appends e and returns its sequence number. Seq and EnqueuedAt are
// assigned here. An update of a temporary id that was already replayed is
// retargeted to the server id. If the latest pending entry for the same
// target is an identical edit, its sequence number is returned and nothing
// is written.
func (q *Queue) Enqueue(ctx context.Context, e Entry) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if serverID, ok := q.resolved[e.TargetID]; ok && e.Kind == KindUpdate {
		e.TargetID = serverID
	}
	entries, err := q.load(ctx)
	if err != nil {
		return 0, err
	}
	for i := len(entries) - 1; i >= 0; i-- {
		pending := entries[i]
		if pending.TargetID != e.TargetID {
			continue
		}
		if pending.sameEdit(e) {
			slog.Debug("offline: duplicate edit not queued", "seq", pending.Seq, "kind", e.Kind, "target", e.TargetID)
			return pending.Seq, nil
		}
		break
	}

	q.lastSeq++
	e.Seq = q.lastSeq
	if e.EnqueuedAt.IsZero() {
		e.EnqueuedAt = q.now().UTC()
	}
	if err := q.save(ctx, append(entries, e)); err != nil {
		return 0, err
	}
	slog.Debug("offline: queued", "seq", e.Seq, "kind", e.Kind, "target", e.TargetID)
	return e.Seq, nil
}

// Pending returns the queued entries in replay order.
func (q *Queue) Pending(ctx context.Context) ([]Entry, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.load(ctx)
}

// Len is the number of pending entries.
func (q *Queue) Len(ctx context.Context) (int, error) {
	entries, err := q.Pending(ctx)
	return len(entries), err
}

// DrainAndReplay applies every pending entry in order. Successes are
// removed; failures stay queued in their original order, ahead of anything
// enqueued while the drain ran. One failure never stops the loop.
//
// Updates that target the temporary id of a create applied earlier in the
// same drain, or an earlier one, are rewritten to the server id, and stay
// rewritten if they fail. Updates whose create is still pending are
// requeued without being sent; updates of a temporary id with no create
// left to resolve it are discarded.
func (q *Queue) DrainAndReplay(ctx context.Context, apply ApplyFunc) (ReplayResult, error) {
	q.drainMu.Lock()
	defer q.drainMu.Unlock()

	result := ReplayResult{Resolved: map[string]string{}}

	snapshot, err := q.Pending(ctx)
	if err != nil {
		return result, err
	}
	if len(snapshot) == 0 {
		return result, nil
	}

	creates := map[string]bool{}
	for _, e := range snapshot {
		if e.Kind == KindCreate && e.CorrelationID != "" {
			creates[e.CorrelationID] = true
		}
	}

	var kept []Entry
	unresolved := map[string]bool{}
	for _, e := range snapshot {
		attempt := e
		if serverID, ok := result.Resolved[e.TargetID]; ok {
			attempt.TargetID = serverID
		} else if serverID, ok := q.ResolvedID(e.TargetID); ok && e.Kind == KindUpdate {
			attempt.TargetID = serverID
		}
		if attempt.Kind == KindUpdate && IsTempID(attempt.TargetID) && !creates[attempt.TargetID] {
			slog.Warn("offline: update of unknown temporary project discarded", "seq", e.Seq, "target", e.TargetID)
			result.Discarded = append(result.Discarded, e)
			continue
		}
		if attempt.Kind == KindUpdate && unresolved[attempt.TargetID] {
			kept = append(kept, e)
			result.Failed = append(result.Failed, Failed{Entry: e, Err: fmt.Errorf("create for %s still pending", e.TargetID)})
			continue
		}

		p, err := apply(ctx, attempt)
		if err != nil {
			slog.Warn("offline: replay failed, requeued", "seq", e.Seq, "kind", e.Kind, "target", attempt.TargetID, "error", err)
			kept = append(kept, attempt)
			result.Failed = append(result.Failed, Failed{Entry: attempt, Err: err})
			if e.Kind == KindCreate && e.CorrelationID != "" {
				unresolved[e.CorrelationID] = true
			}
			continue
		}
		if e.Kind == KindCreate && e.CorrelationID != "" && p != nil {
			result.Resolved[e.CorrelationID] = p.ID
		}
		result.Applied = append(result.Applied, Applied{Entry: attempt, Project: p})
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	for tempID, serverID := range result.Resolved {
		q.resolved[tempID] = serverID
	}
	current, err := q.load(ctx)
	if err != nil {
		return result, err
	}
	maxSeq := snapshot[len(snapshot)-1].Seq
	for _, e := range current {
		if e.Seq <= maxSeq {
			continue
		}
		if serverID, ok := result.Resolved[e.TargetID]; ok && e.Kind == KindUpdate {
			e.TargetID = serverID
		}
		kept = append(kept, e)
	}
	if err := q.save(ctx, kept); err != nil {
		return result, err
	}
	return result, nil
}
