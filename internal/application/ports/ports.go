// Package ports defines the outbound dependencies of the application
// services other than the repositories.
package ports

import (
	"context"
	"time"
)

// ObjectStore holds dataset files.
type ObjectStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// EventType names a dashboard lifecycle event.
type EventType string

const (
	EventDashboardCreated   EventType = "dashboard.Created"
	EventDashboardPublished EventType = "dashboard.Published"
	EventDashboardArchived  EventType = "dashboard.Archived"
	EventDashboardDeleted   EventType = "dashboard.Deleted"
)

// DashboardEvent is emitted after a lifecycle change has been stored.
type DashboardEvent struct {
	Type        EventType `json:"type"`
	DashboardID string    `json:"dashboardId"`
	TopicAreaID string    `json:"topicAreaId,omitempty"`
	Actor       string    `json:"actor"`
	OccurredAt  time.Time `json:"occurredAt"`
}

// EventPublisher delivers lifecycle events to interested systems.
type EventPublisher interface {
	Publish(ctx context.Context, event DashboardEvent) error
}

// MetricsRecorder counts business outcomes.
type MetricsRecorder interface {
	DashboardCreated()
	DashboardPublished()
	ConcurrencyConflict(resource string)
}

// NopMetrics discards every measurement.
type NopMetrics struct{}

func (NopMetrics) DashboardCreated()          {}
func (NopMetrics) DashboardPublished()        {}
func (NopMetrics) ConcurrencyConflict(string) {}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, DashboardEvent) error { return nil }
