package offline

import (
	"strings"
	"time"

	"github.com/projecttracker/tracker/internal/model"
)

// Prefixes of locally fabricated project ids.
const (
	TempIDPrefix  = "temp-"
	DraftIDPrefix = "draft-"
)

// IsTempID reports whether id belongs to a project created offline and not
// yet confirmed by the server.
func IsTempID(id string) bool { return strings.HasPrefix(id, TempIDPrefix) }

// IsDraftID reports whether id belongs to an unsaved draft.
func IsDraftID(id string) bool { return strings.HasPrefix(id, DraftIDPrefix) }

// MutationKind is the kind of a queued edit.
type MutationKind string

const (
	KindCreate MutationKind = "create"
	KindUpdate MutationKind = "update"
)

// Fields is the editable part of a project as it travels through the queue.
type Fields struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Status      model.ProjectStatus `json:"status"`
	AssigneeID  string              `json:"assignee_id,omitempty"`
}

func (f Fields) createInput() model.CreateProjectInput {
	return model.CreateProjectInput{
		Name:        f.Name,
		Description: f.Description,
		Status:      f.Status,
		AssigneeID:  f.AssigneeID,
	}
}

func (f Fields) updateInput() model.UpdateProjectInput {
	return model.UpdateProjectInput{
		Name:        f.Name,
		Description: f.Description,
		Status:      f.Status,
		AssigneeID:  f.AssigneeID,
	}
}

// applyTo writes f onto a copy of p. The assignee keeps its details when
// the id is unchanged.
func (f Fields) applyTo(p *model.Project, now time.Time) *model.Project {
	out := *p
	out.Name = f.Name
	out.Description = f.Description
	out.Status = f.Status
	switch {
	case f.AssigneeID == "":
		out.Assignee = nil
	case p.Assignee == nil || p.Assignee.ID != f.AssigneeID:
		out.Assignee = &model.User{ID: f.AssigneeID}
	}
	out.UpdatedAt = now
	if out.UpdatedAt.Before(out.CreatedAt) {
		out.UpdatedAt = out.CreatedAt
	}
	return &out
}

// FieldsFromCreate converts a create request.
func FieldsFromCreate(in model.CreateProjectInput) Fields {
	status := in.Status
	if status == "" {
		status = model.StatusBacklog
	}
	return Fields{Name: in.Name, Description: in.Description, Status: status, AssigneeID: in.AssigneeID}
}

// FieldsFromUpdate converts an update request.
func FieldsFromUpdate(in model.UpdateProjectInput) Fields {
	return Fields{Name: in.Name, Description: in.Description, Status: in.Status, AssigneeID: in.AssigneeID}
}

// Entry is one queued mutation. Entries are immutable once enqueued.
type Entry struct {
	Seq        int64        `json:"seq"`
	Kind       MutationKind `json:"kind"`
	TargetID   string       `json:"target_id"`
	Payload    Fields       `json:"payload"`
	EnqueuedAt time.Time    `json:"enqueued_at"`
	// CorrelationID is the temporary id of an offline create. The cache
	// entry with this id is replaced by the server record on replay.
	CorrelationID string `json:"correlation_id,omitempty"`
}

// sameEdit reports whether e and o describe the same logical edit.
func (e Entry) sameEdit(o Entry) bool {
	return e.Kind == o.Kind && e.TargetID == o.TargetID && e.Payload == o.Payload
}

// optimistic builds the local project an offline create stands for.
func (e Entry) optimistic() *model.Project {
	p := &model.Project{
		ID:        e.CorrelationID,
		CreatedAt: e.EnqueuedAt,
	}
	return e.Payload.applyTo(p, e.EnqueuedAt)
}
