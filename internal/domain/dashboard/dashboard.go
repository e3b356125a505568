// Package dashboard models a dashboard and its publishing lifecycle.
package dashboard

import (
	"fmt"
	"time"

	"dashboard-backend/internal/domain/shared"
	"dashboard-backend/internal/domain/widget"
	apperrors "dashboard-backend/internal/errors"
)

// State is the lifecycle state of a dashboard.
type State string

const (
	StateDraft          State = "Draft"
	StatePublishPending State = "PublishPending"
	StatePublished      State = "Published"
	StateArchived       State = "Archived"
)

var transitions = map[State][]State{
	StateDraft:          {StatePublishPending, StatePublished},
	StatePublishPending: {StateDraft, StatePublished},
	StatePublished:      {StateArchived},
	StateArchived:       {StatePublished},
}

// Valid reports whether s is a known state.
func (s State) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
func (s State) CanTransitionTo(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Dashboard is a titled collection of widgets belonging to one topic area.
// Widgets is only populated by reads that ask for them.
type Dashboard struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	TopicAreaID       string          `json:"topicAreaId"`
	TopicAreaName     string          `json:"topicAreaName"`
	Description       string          `json:"description"`
	Overview          string          `json:"overview,omitempty"`
	State             State           `json:"state"`
	Version           int             `json:"version"`
	ParentDashboardID string          `json:"parentDashboardId,omitempty"`
	ReleaseNotes      string          `json:"releaseNotes,omitempty"`
	CreatedBy         string          `json:"createdBy,omitempty"`
	UpdatedBy         string          `json:"updatedBy,omitempty"`
	UpdatedAt         time.Time       `json:"updatedAt"`
	Widgets           []widget.Widget `json:"widgets,omitempty"`
}

// New builds a fresh draft dashboard owned by user.
func New(name, topicAreaID, topicAreaName, description, user string, now time.Time) *Dashboard {
	id := shared.NewID()
	return &Dashboard{
		ID:                id,
		Name:              name,
		TopicAreaID:       topicAreaID,
		TopicAreaName:     topicAreaName,
		Description:       description,
		State:             StateDraft,
		Version:           1,
		ParentDashboardID: id,
		CreatedBy:         user,
		UpdatedBy:         user,
		UpdatedAt:         shared.Normalize(now),
	}
}

// Editable reports whether content edits are allowed.
func (d *Dashboard) Editable() bool {
	return d.State == StateDraft
}

// EnsureEditable returns a conflict error unless the dashboard is a draft.
func (d *Dashboard) EnsureEditable() error {
	if d.Editable() {
		return nil
	}
	return apperrors.Conflict(apperrors.CodeDashboardNotEditable,
		fmt.Sprintf("Dashboard is %s and cannot be edited", d.State)).
		WithResource(d.ID).
		Build()
}

// EnsureTransition returns a conflict error if the lifecycle forbids next.
func (d *Dashboard) EnsureTransition(next State) error {
	if d.State.CanTransitionTo(next) {
		return nil
	}
	return apperrors.Conflict(apperrors.CodeInvalidTransition,
		fmt.Sprintf("Cannot move dashboard from %s to %s", d.State, next)).
		WithResource(d.ID).
		Build()
}

// EnsureCurrent rejects a write based on a stale read.
func (d *Dashboard) EnsureCurrent(expectedUpdatedAt time.Time) error {
	if shared.Normalize(d.UpdatedAt).Equal(shared.Normalize(expectedUpdatedAt)) {
		return nil
	}
	return apperrors.Conflict(apperrors.CodeConcurrencyConflict,
		"The dashboard has been modified by another request").
		WithResource(d.ID).
		Build()
}

// Public returns a copy without the audit fields the public site must not see.
func (d *Dashboard) Public() *Dashboard {
	cp := *d
	cp.CreatedBy = ""
	cp.UpdatedBy = ""
	cp.ReleaseNotes = ""
	return &cp
}

// Changes lists the fields an update writes. Nil fields are left alone.
type Changes struct {
	Name          *string
	TopicAreaID   *string
	TopicAreaName *string
	Description   *string
	Overview      *string
	ReleaseNotes  *string
	State         *State
}

// Apply writes changes onto d and bumps its audit fields and version.
func (d *Dashboard) Apply(c Changes, user string, now time.Time) {
	if c.Name != nil {
		d.Name = *c.Name
	}
	if c.TopicAreaID != nil {
		d.TopicAreaID = *c.TopicAreaID
	}
	if c.TopicAreaName != nil {
		d.TopicAreaName = *c.TopicAreaName
	}
	if c.Description != nil {
		d.Description = *c.Description
	}
	if c.Overview != nil {
		d.Overview = *c.Overview
	}
	if c.ReleaseNotes != nil {
		d.ReleaseNotes = *c.ReleaseNotes
	}
	if c.State != nil {
		d.State = *c.State
	}
	d.UpdatedBy = user
	d.UpdatedAt = shared.Normalize(now)
	d.Version++
}
