package dynamodb

import (
	"context"
	"time"

	"dashboard-backend/internal/domain/settings"
	"dashboard-backend/internal/domain/shared"
	"dashboard-backend/internal/repository"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"go.uber.org/zap"
)

// SettingsRepository stores the settings singleton under pk = sk = "Settings".
type SettingsRepository struct {
	base
}

var _ repository.SettingsRepository = (*SettingsRepository)(nil)

// NewSettingsRepository creates a settings repository on table.
func NewSettingsRepository(client Client, table TableConfig, logger *zap.Logger, opts ...Option) *SettingsRepository {
	return &SettingsRepository{base: newBase(client, table, logger, "SettingsRepository", opts)}
}

// Get returns the stored settings, or the defaults when none were saved.
func (r *SettingsRepository) Get(ctx context.Context) (*settings.Settings, error) {
	item, err := r.getItem(ctx, key(settingsKey, settingsKey), typeSettings)
	if err != nil {
		return nil, err
	}
	now, _ := r.timestamp()
	if item == nil {
		return settings.Default(now), nil
	}
	s, err := unmarshalSettings(item)
	if err != nil {
		return nil, err
	}
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = now
	}
	return s, nil
}

// Update writes every present field at once. The first write succeeds
// regardless of expectedUpdatedAt since there is nothing to conflict with.
func (r *SettingsRepository) Update(ctx context.Context, u settings.Update, expectedUpdatedAt time.Time, user string) (time.Time, error) {
	now, nowStr := r.stampAfter(expectedUpdatedAt)

	upd := expression.Set(expression.Name(attrType), expression.Value(typeSettings)).
		Set(expression.Name(attrUpdatedAt), expression.Value(nowStr)).
		Set(expression.Name(attrUpdatedBy), expression.Value(user))
	if u.PublishingGuidance != nil {
		upd = upd.Set(expression.Name("publishingGuidance"), expression.Value(*u.PublishingGuidance))
	}
	if u.NavbarTitle != nil {
		upd = upd.Set(expression.Name("navbarTitle"), expression.Value(*u.NavbarTitle))
	}
	if u.DateTimeFormat != nil {
		upd = upd.Set(expression.Name("dateTimeFormat"), expression.Value(dateTimeFormatItem{
			Date: u.DateTimeFormat.Date,
			Time: u.DateTimeFormat.Time,
		}))
	}
	if u.TopicAreaLabels != nil {
		upd = upd.Set(expression.Name("topicAreaLabels"), expression.Value(topicAreaLabelsItem{
			Singular: u.TopicAreaLabels.Singular,
			Plural:   u.TopicAreaLabels.Plural,
		}))
	}

	cond := expression.AttributeNotExists(expression.Name(attrUpdatedAt)).
		Or(expression.Name(attrUpdatedAt).Equal(expression.Value(shared.FormatTimestamp(expectedUpdatedAt))))

	if _, err := r.update(ctx, key(settingsKey, settingsKey), upd, cond, typeSettings); err != nil {
		return time.Time{}, err
	}
	r.logger.Info("settings updated", zap.String("user", user))
	return now, nil
}
