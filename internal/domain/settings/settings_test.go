package settings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWithDefaults(t *testing.T) {
	now := time.Now()
	stored := &Settings{NavbarTitle: "City Dashboard", DateTimeFormat: DateTimeFormat{Date: "DD/MM/YYYY"}, UpdatedAt: now}

	merged := stored.WithDefaults()

	assert.Equal(t, "City Dashboard", merged.NavbarTitle)
	assert.Equal(t, DefaultPublishingGuidance, merged.PublishingGuidance)
	assert.Equal(t, DateTimeFormat{Date: DefaultDateFormat, Time: DefaultTimeFormat}, merged.DateTimeFormat)
	assert.Equal(t, DefaultTopicAreaPlural, merged.TopicAreaLabels.Plural)
	assert.Equal(t, now, merged.UpdatedAt)
	assert.Equal(t, "", stored.PublishingGuidance)
}

func TestPublic(t *testing.T) {
	s := Default(time.Now())

	pub := s.Public()

	assert.Equal(t, DefaultNavbarTitle, pub.NavbarTitle)
	assert.Equal(t, DefaultDateFormat, pub.DateTimeFormat.Date)
	assert.Equal(t, DefaultTopicAreaSingular, pub.TopicAreaLabels.Singular)
}

func TestApply_OnlyTouchesPresentFields(t *testing.T) {
	s := Default(time.Now())
	title := "Foo"
	later := time.Now().Add(time.Minute)

	s.Apply(Update{NavbarTitle: &title}, "admin", later)

	assert.Equal(t, "Foo", s.NavbarTitle)
	assert.Equal(t, DefaultPublishingGuidance, s.PublishingGuidance)
	assert.Equal(t, "admin", s.UpdatedBy)
	assert.Equal(t, later, s.UpdatedAt)
	assert.True(t, Update{}.Empty())
	assert.False(t, Update{NavbarTitle: &title}.Empty())
}
