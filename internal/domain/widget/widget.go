// Package widget models the content blocks placed on a dashboard.
package widget

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"dashboard-backend/internal/domain/shared"
	apperrors "dashboard-backend/internal/errors"
)

// Type tags the content variant a widget carries.
type Type string

const (
	TypeText    Type = "Text"
	TypeChart   Type = "Chart"
	TypeTable   Type = "Table"
	TypeImage   Type = "Image"
	TypeMetrics Type = "Metrics"
)

// Widget is one block of a dashboard. Order is its zero-based position.
type Widget struct {
	ID          string    `json:"id"`
	DashboardID string    `json:"dashboardId"`
	Name        string    `json:"name"`
	WidgetType  Type      `json:"widgetType"`
	Order       int       `json:"order"`
	ShowTitle   bool      `json:"showTitle"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Content     Content   `json:"content"`
}

// New creates a widget at the given position.
func New(dashboardID, name string, showTitle bool, content Content, order int, now time.Time) *Widget {
	return &Widget{
		ID:          shared.NewID(),
		DashboardID: dashboardID,
		Name:        name,
		WidgetType:  content.WidgetType(),
		Order:       order,
		ShowTitle:   showTitle,
		UpdatedAt:   shared.Normalize(now),
		Content:     content,
	}
}

// EnsureCurrent rejects a write based on a stale read.
func (w *Widget) EnsureCurrent(expectedUpdatedAt time.Time) error {
	if shared.Normalize(w.UpdatedAt).Equal(shared.Normalize(expectedUpdatedAt)) {
		return nil
	}
	return apperrors.Conflict(apperrors.CodeConcurrencyConflict,
		"The widget has been modified by another request").
		WithResource(w.ID).
		Build()
}

// UnmarshalJSON decodes content according to widgetType.
func (w *Widget) UnmarshalJSON(data []byte) error {
	type alias Widget
	aux := struct {
		*alias
		Content json.RawMessage `json:"content"`
	}{alias: (*alias)(w)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	content, err := DecodeContent(w.WidgetType, aux.Content)
	if err != nil {
		return err
	}
	w.Content = content
	return nil
}

// Placement is the position a reorder assigns to one widget.
type Placement struct {
	ID        string    `json:"id" validate:"required"`
	Order     int       `json:"order" validate:"gte=0"`
	UpdatedAt time.Time `json:"updatedAt" validate:"required"`
}

// SortByOrder sorts widgets in place by position, then by ID where two
// share a position.
func SortByOrder(widgets []Widget) {
	slices.SortFunc(widgets, func(a, b Widget) int {
		if c := cmp.Compare(a.Order, b.Order); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// Move returns widgets with the element at index relocated to newIndex and
// every order renumbered from zero. Out-of-range positions return the input
// unchanged.
func Move(widgets []Widget, index, newIndex int) []Widget {
	n := len(widgets)
	if index < 0 || index >= n || newIndex < 0 || newIndex >= n {
		return widgets
	}

	moved := widgets[index]
	out := make([]Widget, 0, n)
	out = append(out, widgets[:index]...)
	out = append(out, widgets[index+1:]...)
	out = slices.Insert(out, newIndex, moved)

	for i := range out {
		out[i].Order = i
	}
	return out
}

// Renumber returns placements for widgets whose order differs from their
// slice position, and updates them in place.
func Renumber(widgets []Widget) []Placement {
	var changed []Placement
	for i := range widgets {
		if widgets[i].Order == i {
			continue
		}
		widgets[i].Order = i
		changed = append(changed, Placement{ID: widgets[i].ID, Order: i, UpdatedAt: widgets[i].UpdatedAt})
	}
	return changed
}

// IndexOf returns the slice position of the widget with id, or -1.
func IndexOf(widgets []Widget, id string) int {
	return slices.IndexFunc(widgets, func(w Widget) bool { return w.ID == id })
}

func invalidType(t Type) error {
	return apperrors.Validation(apperrors.CodeInvalidWidgetType, fmt.Sprintf("Invalid widget type `%s`", t)).Build()
}
