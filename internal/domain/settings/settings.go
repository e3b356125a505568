// Package settings models the site-wide configuration singleton.
package settings

import "time"

const (
	DefaultPublishingGuidance = "I acknowledge that I have reviewed the dashboard and it is ready to publish"
	DefaultDateFormat         = "YYYY-MM-DD"
	DefaultTimeFormat         = "HH:mm"
	DefaultNavbarTitle        = "Performance Dashboard"
	DefaultTopicAreaSingular  = "Topic Area"
	DefaultTopicAreaPlural    = "Topic Areas"
)

type DateTimeFormat struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

type TopicAreaLabels struct {
	Singular string `json:"singular"`
	Plural   string `json:"plural"`
}

// Settings is the single configuration record shared by every request.
type Settings struct {
	PublishingGuidance string          `json:"publishingGuidance"`
	DateTimeFormat     DateTimeFormat  `json:"dateTimeFormat"`
	NavbarTitle        string          `json:"navbarTitle"`
	TopicAreaLabels    TopicAreaLabels `json:"topicAreaLabels"`
	UpdatedAt          time.Time       `json:"updatedAt"`
	UpdatedBy          string          `json:"updatedBy,omitempty"`
}

// PublicSettings is the subset exposed to anonymous visitors.
type PublicSettings struct {
	DateTimeFormat  DateTimeFormat  `json:"dateTimeFormat"`
	NavbarTitle     string          `json:"navbarTitle"`
	TopicAreaLabels TopicAreaLabels `json:"topicAreaLabels"`
}

// Default returns the settings used before an administrator saves any.
func Default(now time.Time) *Settings {
	return &Settings{
		PublishingGuidance: DefaultPublishingGuidance,
		DateTimeFormat:     DateTimeFormat{Date: DefaultDateFormat, Time: DefaultTimeFormat},
		NavbarTitle:        DefaultNavbarTitle,
		TopicAreaLabels:    TopicAreaLabels{Singular: DefaultTopicAreaSingular, Plural: DefaultTopicAreaPlural},
		UpdatedAt:          now,
	}
}

// WithDefaults fills every empty field from the defaults.
func (s *Settings) WithDefaults() *Settings {
	d := Default(s.UpdatedAt)
	out := *s
	if out.PublishingGuidance == "" {
		out.PublishingGuidance = d.PublishingGuidance
	}
	if out.DateTimeFormat.Date == "" || out.DateTimeFormat.Time == "" {
		out.DateTimeFormat = d.DateTimeFormat
	}
	if out.NavbarTitle == "" {
		out.NavbarTitle = d.NavbarTitle
	}
	if out.TopicAreaLabels.Singular == "" || out.TopicAreaLabels.Plural == "" {
		out.TopicAreaLabels = d.TopicAreaLabels
	}
	return &out
}

// Public returns the redacted view.
func (s *Settings) Public() PublicSettings {
	return PublicSettings{
		DateTimeFormat:  s.DateTimeFormat,
		NavbarTitle:     s.NavbarTitle,
		TopicAreaLabels: s.TopicAreaLabels,
	}
}

// Update carries the fields of a settings write. Nil fields are untouched.
type Update struct {
	PublishingGuidance *string
	DateTimeFormat     *DateTimeFormat
	NavbarTitle        *string
	TopicAreaLabels    *TopicAreaLabels
}

// Empty reports whether the update changes nothing.
func (u Update) Empty() bool {
	return u.PublishingGuidance == nil && u.DateTimeFormat == nil &&
		u.NavbarTitle == nil && u.TopicAreaLabels == nil
}

// Apply writes u onto s.
func (s *Settings) Apply(u Update, user string, now time.Time) {
	if u.PublishingGuidance != nil {
		s.PublishingGuidance = *u.PublishingGuidance
	}
	if u.DateTimeFormat != nil {
		s.DateTimeFormat = *u.DateTimeFormat
	}
	if u.NavbarTitle != nil {
		s.NavbarTitle = *u.NavbarTitle
	}
	if u.TopicAreaLabels != nil {
		s.TopicAreaLabels = *u.TopicAreaLabels
	}
	s.UpdatedBy = user
	s.UpdatedAt = now
}
