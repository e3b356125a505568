package services

import (
	"context"
	"time"

	"dashboard-backend/internal/domain/settings"
	apperrors "dashboard-backend/internal/errors"
	"dashboard-backend/internal/repository"

	"go.uber.org/zap"
)

// UpdateSettingsInput is the body of PUT /settings. Absent or empty fields
// are left unchanged.
type UpdateSettingsInput struct {
	UpdatedAt          *time.Time                `json:"updatedAt"`
	PublishingGuidance *string                   `json:"publishingGuidance"`
	DateTimeFormat     *settings.DateTimeFormat  `json:"dateTimeFormat"`
	NavbarTitle        *string                   `json:"navbarTitle"`
	TopicAreaLabels    *settings.TopicAreaLabels `json:"topicAreaLabels"`
}

// SettingsService reads and writes the settings singleton.
type SettingsService struct {
	repo   repository.SettingsRepository
	logger *zap.Logger
}

func NewSettingsService(repo repository.SettingsRepository, logger *zap.Logger) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{repo: repo, logger: logger.Named("SettingsService")}
}

func (s *SettingsService) Get(ctx context.Context) (*settings.Settings, error) {
	return s.repo.Get(ctx)
}

func (s *SettingsService) Public(ctx context.Context) (settings.PublicSettings, error) {
	current, err := s.repo.Get(ctx)
	if err != nil {
		return settings.PublicSettings{}, err
	}
	return current.Public(), nil
}

// Update validates every field before writing any of them, then stores all
// present fields in one conditional write. It returns the new updatedAt.
func (s *SettingsService) Update(ctx context.Context, in UpdateSettingsInput, user string) (time.Time, error) {
	update, err := in.toUpdate()
	if err != nil {
		return time.Time{}, err
	}
	if update.Empty() {
		return *in.UpdatedAt, nil
	}

	updatedAt, err := s.repo.Update(ctx, update, *in.UpdatedAt, user)
	if err != nil {
		return time.Time{}, err
	}
	s.logger.Info("settings updated", zap.String("user", user))
	return updatedAt, nil
}

func (in UpdateSettingsInput) toUpdate() (settings.Update, error) {
	var u settings.Update
	if in.UpdatedAt == nil || in.UpdatedAt.IsZero() {
		return u, invalidSettings("Missing field `updatedAt` in body")
	}
	if in.PublishingGuidance != nil && *in.PublishingGuidance != "" {
		u.PublishingGuidance = in.PublishingGuidance
	}
	if f := in.DateTimeFormat; f != nil {
		if f.Date == "" || f.Time == "" {
			return u, invalidSettings("Missing fields `date` or `time` in dateTimeFormat")
		}
		u.DateTimeFormat = f
	}
	if in.NavbarTitle != nil && *in.NavbarTitle != "" {
		u.NavbarTitle = in.NavbarTitle
	}
	if l := in.TopicAreaLabels; l != nil {
		if l.Singular == "" || l.Plural == "" {
			return u, invalidSettings("Missing fields `singular` or `plural` in topicAreaLabels")
		}
		u.TopicAreaLabels = l
	}
	return u, nil
}

func invalidSettings(message string) error {
	return apperrors.Validation(apperrors.CodeMissingField, message).WithResource("Settings").Build()
}
