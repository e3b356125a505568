// Package topicarea models the groupings dashboards are filed under.
package topicarea

import (
	"time"

	"dashboard-backend/internal/domain/shared"
)

// TopicArea groups related dashboards on the public site.
type TopicArea struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedBy string    `json:"createdBy"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// New creates a topic area owned by user.
func New(name, user string, now time.Time) *TopicArea {
	return &TopicArea{
		ID:        shared.NewID(),
		Name:      name,
		CreatedBy: user,
		UpdatedAt: shared.Normalize(now),
	}
}
