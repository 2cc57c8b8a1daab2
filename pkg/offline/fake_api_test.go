package offline

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/projecttracker/tracker/internal/model"
	"github.com/projecttracker/tracker/pkg/trackerapi"
)

// fakeAPI is an in-memory trackerapi.Client. Setting down makes every call
// fail with trackerapi.ErrNetwork.
type fakeAPI struct {
	mu       sync.Mutex
	down     bool
	nextID   int
	projects []*model.Project
	users    []*model.User
	calls    []string
	failOn   func(call string) error
}

var _ trackerapi.Client = (*fakeAPI)(nil)

func newFakeAPI(projects ...*model.Project) *fakeAPI {
	return &fakeAPI{nextID: 100, projects: projects}
}

func (f *fakeAPI) setDown(down bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.down = down
}

func (f *fakeAPI) record(call string) error {
	f.calls = append(f.calls, call)
	if f.down {
		return fmt.Errorf("%w: connection refused", trackerapi.ErrNetwork)
	}
	if f.failOn != nil {
		return f.failOn(call)
	}
	return nil
}

func (f *fakeAPI) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *fakeAPI) ListProjects(ctx context.Context) ([]*model.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("list"); err != nil {
		return nil, err
	}
	out := make([]*model.Project, len(f.projects))
	for i, p := range f.projects {
		c := *p
		out[i] = &c
	}
	return out, nil
}

func (f *fakeAPI) CreateProject(ctx context.Context, in model.CreateProjectInput) (*model.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("create:" + in.Name); err != nil {
		return nil, err
	}
	f.nextID++
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	p := &model.Project{ID: strconv.Itoa(f.nextID), Name: in.Name, Description: in.Description, Status: in.Status, CreatedAt: now, UpdatedAt: now}
	if in.AssigneeID != "" {
		p.Assignee = &model.User{ID: in.AssigneeID}
	}
	f.projects = append(f.projects, p)
	c := *p
	return &c, nil
}

func (f *fakeAPI) UpdateProject(ctx context.Context, id string, in model.UpdateProjectInput) (*model.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("update:" + id); err != nil {
		return nil, err
	}
	for _, p := range f.projects {
		if p.ID == id {
			p.Name, p.Description, p.Status = in.Name, in.Description, in.Status
			p.Assignee = nil
			if in.AssigneeID != "" {
				p.Assignee = &model.User{ID: in.AssigneeID}
			}
			c := *p
			return &c, nil
		}
	}
	return nil, fmt.Errorf("%w: project %s", trackerapi.ErrNotFound, id)
}

func (f *fakeAPI) ListUsers(ctx context.Context) ([]*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("users"); err != nil {
		return nil, err
	}
	return f.users, nil
}

func (f *fakeAPI) Ping(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return trackerapi.ErrNetwork
	}
	return nil
}

func seedProject(id string, status model.ProjectStatus) *model.Project {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return &model.Project{ID: id, Name: "Project " + id, Description: "d", Status: status, CreatedAt: at, UpdatedAt: at}
}
