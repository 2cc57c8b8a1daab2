// Package offline keeps the project list usable without a network: edits
// made offline are applied optimistically to a local cache, persisted in a
// queue and replayed when connectivity returns.
package offline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/projecttracker/tracker/internal/model"
	"github.com/projecttracker/tracker/pkg/kvstore"
	"github.com/projecttracker/tracker/pkg/trackerapi"
)

// SnapshotKey is the storage key holding the last server project list.
const SnapshotKey = "projects_cache"

// Stats is a point-in-time view of the client.
type Stats struct {
	Online   bool
	State    SyncState
	Pending  int
	Dropped  int64
	LastSync *SyncReport
}

// Tracker is the client facade over the API, the cache and the queue.
type Tracker struct {
	api      trackerapi.Client
	store    kvstore.Store
	queue    *Queue
	cache    *Cache
	syncer   *Syncer
	observer *Observer

	hooks   []func(online bool)
	online  atomic.Bool
	dropped atomic.Int64
	now     func() time.Time
	tempID  func() string
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithObserver sets the observer Run drives. Without one, Run uses a
// default observer probing the API.
func WithObserver(o *Observer) Option {
	return func(t *Tracker) { t.observer = o }
}

// WithClock overrides the time source for optimistic timestamps.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// New builds a Tracker persisting its queue in store. It starts offline
// until SetOnline or the observer says otherwise.
func New(api trackerapi.Client, store kvstore.Store, opts ...Option) *Tracker {
	t := &Tracker{
		api:    api,
		store:  store,
		queue:  NewQueue(store),
		cache:  NewCache(),
		now:    time.Now,
		tempID: func() string { return TempIDPrefix + uuid.NewString() },
	}
	for _, opt := range opts {
		opt(t)
	}
	t.syncer = NewSyncer(api, t.queue, t.cache)
	t.syncer.refreshed = t.saveSnapshot
	return t
}

// Projects returns the cached project list.
func (t *Tracker) Projects() []*model.Project { return t.cache.Snapshot() }

// Online reports the connectivity the tracker is acting on.
func (t *Tracker) Online() bool { return t.online.Load() }

// SetOnline sets connectivity without triggering a sync.
func (t *Tracker) SetOnline(online bool) { t.online.Store(online) }

// Refresh reloads the list from the server. Pending offline edits are laid
// over the result.
func (t *Tracker) Refresh(ctx context.Context) error {
	projects, err := t.api.ListProjects(ctx)
	if err != nil {
		return err
	}
	pending, err := t.queue.Pending(ctx)
	if err != nil {
		return err
	}
	t.cache.Replace(overlayPending(projects, pending))
	t.saveSnapshot(ctx, projects)
	return nil
}

// Hydrate rebuilds the cache after a restart: the last saved server list
// (when the cache is empty) with the persisted queue laid over it.
func (t *Tracker) Hydrate(ctx context.Context) error {
	base := t.cache.Snapshot()
	if len(base) == 0 {
		base = t.loadSnapshot(ctx)
	}
	pending, err := t.queue.Pending(ctx)
	if err != nil {
		return err
	}
	t.cache.Replace(overlayPending(base, pending))
	return nil
}

// saveSnapshot stores the server list for offline starts. Failures only
// cost the next offline start its list, so they are logged.
func (t *Tracker) saveSnapshot(ctx context.Context, projects []*model.Project) {
	confirmed := make([]*model.Project, 0, len(projects))
	for _, p := range projects {
		if !IsTempID(p.ID) {
			confirmed = append(confirmed, p)
		}
	}
	data, err := json.Marshal(confirmed)
	if err == nil {
		err = t.store.Set(ctx, SnapshotKey, data)
	}
	if err != nil {
		slog.Warn("offline: saving project snapshot failed", "error", err)
	}
}

func (t *Tracker) loadSnapshot(ctx context.Context) []*model.Project {
	data, err := t.store.Get(ctx, SnapshotKey)
	if err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			slog.Warn("offline: reading project snapshot failed", "error", err)
		}
		return nil
	}
	var projects []*model.Project
	if err := json.Unmarshal(data, &projects); err != nil {
		slog.Warn("offline: corrupt project snapshot", "error", err)
		return nil
	}
	return projects
}

// CreateProject creates online, or offline by queueing the create and
// prepending an optimistic project with a temporary id.
func (t *Tracker) CreateProject(ctx context.Context, in model.CreateProjectInput) (*model.Project, error) {
	fields := FieldsFromCreate(in)
	if t.Online() {
		p, err := t.api.CreateProject(ctx, fields.createInput())
		if err != nil {
			return nil, err
		}
		t.cache.Upsert(p)
		return p, nil
	}

	now := t.now().UTC()
	id := t.tempID()
	e := Entry{Kind: KindCreate, TargetID: id, CorrelationID: id, Payload: fields, EnqueuedAt: now}
	t.enqueue(ctx, e)
	p := e.optimistic()
	t.cache.Upsert(p)
	return p, nil
}

// UpdateProject replaces a project's editable fields. Offline, or for a
// project whose create has not reached the server, the edit is queued and
// applied to the cache. An id the cache does not know offline, or the server
// does not know online, yields trackerapi.ErrNotFound and leaves the cache
// unchanged.
func (t *Tracker) UpdateProject(ctx context.Context, id string, in model.UpdateProjectInput) (*model.Project, error) {
	fields := FieldsFromUpdate(in)
	if t.Online() && !IsTempID(id) {
		p, err := t.api.UpdateProject(ctx, id, fields.updateInput())
		if err != nil {
			return nil, err
		}
		t.cache.Upsert(p)
		return p, nil
	}

	existing, ok := t.cache.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: project %s", trackerapi.ErrNotFound, id)
	}
	now := t.now().UTC()
	t.enqueue(ctx, Entry{Kind: KindUpdate, TargetID: id, Payload: fields, EnqueuedAt: now})
	p := fields.applyTo(existing, now)
	t.cache.Upsert(p)
	return p, nil
}

// enqueue persists e. A storage failure loses the edit: it is logged and
// counted but the optimistic change still shows.
func (t *Tracker) enqueue(ctx context.Context, e Entry) {
	if _, err := t.queue.Enqueue(ctx, e); err != nil {
		t.dropped.Add(1)
		slog.Error("offline: mutation dropped", "kind", e.Kind, "target", e.TargetID, "error", err)
	}
}

// NewDraft returns an unsaved project with placeholder content.
func NewDraft() *model.Project {
	now := time.Now().UTC()
	return &model.Project{
		ID:          DraftIDPrefix + strconv.FormatInt(now.UnixMilli(), 10),
		Name:        "New Project",
		Description: "Add your description here",
		Status:      model.StatusBacklog,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// SaveDraft creates draft through CreateProject. Projects that are not
// drafts are returned unchanged.
func (t *Tracker) SaveDraft(ctx context.Context, draft *model.Project) (*model.Project, error) {
	if draft == nil || !IsDraftID(draft.ID) {
		return draft, nil
	}
	in := model.CreateProjectInput{
		Name:        draft.Name,
		Description: draft.Description,
		Status:      draft.Status,
		AssigneeID:  draft.AssigneeID(),
	}
	return t.CreateProject(ctx, in)
}

// Users lists users from the server.
func (t *Tracker) Users(ctx context.Context) ([]*model.User, error) {
	return t.api.ListUsers(ctx)
}

// Sync drains the queue and refreshes the cache now. The refreshed server
// list becomes the saved snapshot.
func (t *Tracker) Sync(ctx context.Context) (SyncReport, error) {
	return t.syncer.Sync(ctx)
}

// HandleStatus records a connectivity change and syncs on every transition
// to online. A transition that arrives mid-sync is ignored.
func (t *Tracker) HandleStatus(ctx context.Context, online bool) {
	was := t.online.Swap(online)
	if !online || was {
		return
	}
	if _, err := t.Sync(ctx); err != nil && !errors.Is(err, ErrSyncInProgress) {
		slog.Warn("sync after reconnect failed", "error", err)
	}
}

// Pending returns the queued edits.
func (t *Tracker) Pending(ctx context.Context) ([]Entry, error) {
	return t.queue.Pending(ctx)
}

// Stats reports queue depth, dropped edits and the last sync.
func (t *Tracker) Stats(ctx context.Context) (Stats, error) {
	n, err := t.queue.Len(ctx)
	return Stats{
		Online:   t.Online(),
		State:    t.syncer.State(),
		Pending:  n,
		Dropped:  t.dropped.Load(),
		LastSync: t.syncer.LastReport(),
	}, err
}

// OnStatus registers fn to run after Run has handled a connectivity change.
// Call it before Run.
func (t *Tracker) OnStatus(fn func(online bool)) {
	t.hooks = append(t.hooks, fn)
}

// Run hydrates the cache and drives the observer until ctx is done,
// syncing on every reconnect.
func (t *Tracker) Run(ctx context.Context) error {
	if err := t.Hydrate(ctx); err != nil {
		slog.Warn("hydrate failed", "error", err)
	}
	obs := t.observer
	if obs == nil {
		obs = NewObserver(t.api)
	}
	obs.Subscribe(func(online bool) {
		t.HandleStatus(ctx, online)
		for _, fn := range t.hooks {
			fn(online)
		}
	})
	return obs.Run(ctx)
}
