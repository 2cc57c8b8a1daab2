package offline

import (
	"sync"
	"sync/atomic"

	"github.com/projecttracker/tracker/internal/model"
)

// Cache is the client's current project list. Every write builds a new
// slice and swaps it in, so readers always see a whole list.
type Cache struct {
	mu       sync.Mutex // serializes writers
	projects atomic.Pointer[[]*model.Project]
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	c := &Cache{}
	c.projects.Store(&[]*model.Project{})
	return c
}

// Snapshot returns the current list. The slice is owned by the caller; the
// projects must not be modified.
func (c *Cache) Snapshot() []*model.Project {
	cur := *c.projects.Load()
	out := make([]*model.Project, len(cur))
	copy(out, cur)
	return out
}

// Get returns the project with id, if cached.
func (c *Cache) Get(id string) (*model.Project, bool) {
	for _, p := range *c.projects.Load() {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// Replace swaps in projects as the whole list. Duplicate ids keep the first.
func (c *Cache) Replace(projects []*model.Project) {
	c.mu.Lock()
	defer c.mu.Unlock()

	seen := make(map[string]bool, len(projects))
	next := make([]*model.Project, 0, len(projects))
	for _, p := range projects {
		if p == nil || seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		next = append(next, p)
	}
	c.projects.Store(&next)
}

// Upsert replaces the entry with p.ID in place, or prepends p.
func (c *Cache) Upsert(p *model.Project) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store(upsert(*c.projects.Load(), p))
}

// Reconcile swaps the optimistic entry tempID for the server record. If the
// server record is already cached (a refresh won the race) the temporary
// entry is dropped instead.
func (c *Cache) Reconcile(tempID string, p *model.Project) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur := *c.projects.Load()
	next := make([]*model.Project, 0, len(cur)+1)
	placed := false
	for _, existing := range cur {
		switch existing.ID {
		case tempID, p.ID:
			if !placed {
				next = append(next, p)
				placed = true
			}
		default:
			next = append(next, existing)
		}
	}
	if !placed {
		next = append([]*model.Project{p}, next...)
	}
	c.store(next)
}

func (c *Cache) store(next []*model.Project) {
	c.projects.Store(&next)
}

func upsert(cur []*model.Project, p *model.Project) []*model.Project {
	next := make([]*model.Project, 0, len(cur)+1)
	found := false
	for _, existing := range cur {
		if existing.ID == p.ID {
			next = append(next, p)
			found = true
			continue
		}
		next = append(next, existing)
	}
	if !found {
		next = append([]*model.Project{p}, next...)
	}
	return next
}

// overlayPending applies queued edits on top of server data so optimistic
// changes survive a refresh.
func overlayPending(projects []*model.Project, pending []Entry) []*model.Project {
	out := projects
	for _, e := range pending {
		switch e.Kind {
		case KindCreate:
			out = upsert(out, e.optimistic())
		case KindUpdate:
			for i, p := range out {
				if p.ID == e.TargetID {
					next := make([]*model.Project, len(out))
					copy(next, out)
					next[i] = e.Payload.applyTo(p, e.EnqueuedAt)
					out = next
					break
				}
			}
		}
	}
	return out
}
