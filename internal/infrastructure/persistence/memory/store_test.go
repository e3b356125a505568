package memory

import (
	"context"
	"testing"
	"time"

	"dashboard-backend/internal/domain/dashboard"
	"dashboard-backend/internal/domain/settings"
	"dashboard-backend/internal/domain/widget"
	apperrors "dashboard-backend/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tickingClock struct{ t time.Time }

func (c *tickingClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func TestDashboardRepository_OptimisticLock(t *testing.T) {
	clock := &tickingClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	store := NewStore(clock.Now)
	repo := store.Dashboards()
	ctx := context.Background()

	d := dashboard.New("Cases", "ta", "Health", "desc", "alice", clock.Now())
	require.NoError(t, repo.Create(ctx, d))

	name := "Renamed"
	updated, err := repo.Update(ctx, d.ID, dashboard.Changes{Name: &name}, d.UpdatedAt, "bob")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, 2, updated.Version)
	assert.True(t, updated.UpdatedAt.After(d.UpdatedAt))

	_, err = repo.Update(ctx, d.ID, dashboard.Changes{Name: &name}, d.UpdatedAt, "carol")
	assert.True(t, apperrors.IsConcurrencyConflict(err))
}

func TestDashboardRepository_DeleteCascadesWidgets(t *testing.T) {
	store := NewStore(nil)
	ctx := context.Background()
	d := dashboard.New("Cases", "ta", "Health", "desc", "alice", time.Now())
	require.NoError(t, store.Dashboards().Create(ctx, d))
	require.NoError(t, store.Widgets().Create(ctx, widget.New(d.ID, "Intro", true, &widget.TextContent{Text: "hi"}, 0, time.Now())))

	require.NoError(t, store.Dashboards().Delete(ctx, d.ID))

	widgets, err := store.Widgets().ListByDashboard(ctx, d.ID)
	require.NoError(t, err)
	assert.Empty(t, widgets)
	_, err = store.Dashboards().GetWithWidgets(ctx, d.ID)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestDashboardRepository_UpdatesWithinOneMillisecond(t *testing.T) {
	frozen := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewStore(func() time.Time { return frozen })
	repo := store.Dashboards()
	ctx := context.Background()

	d := dashboard.New("Cases", "ta", "Health", "desc", "alice", frozen)
	require.NoError(t, repo.Create(ctx, d))

	first, second := "First", "Second"
	u1, err := repo.Update(ctx, d.ID, dashboard.Changes{Name: &first}, d.UpdatedAt, "bob")
	require.NoError(t, err)
	assert.Equal(t, frozen.Add(time.Millisecond), u1.UpdatedAt)

	u2, err := repo.Update(ctx, d.ID, dashboard.Changes{Name: &second}, u1.UpdatedAt, "bob")
	require.NoError(t, err)
	assert.Equal(t, frozen.Add(2*time.Millisecond), u2.UpdatedAt)

	// A client still holding the stamp it read before either write.
	_, err = repo.Update(ctx, d.ID, dashboard.Changes{Name: &first}, d.UpdatedAt, "carol")
	assert.True(t, apperrors.IsConcurrencyConflict(err))
	_, err = repo.Update(ctx, d.ID, dashboard.Changes{Name: &first}, u1.UpdatedAt, "carol")
	assert.True(t, apperrors.IsConcurrencyConflict(err))
}

func TestWidgetRepository_UpdateWithinOneMillisecond(t *testing.T) {
	frozen := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewStore(func() time.Time { return frozen })
	ctx := context.Background()
	w := widget.New("d", "A", true, &widget.TextContent{Text: "a"}, 0, frozen)
	require.NoError(t, store.Widgets().Create(ctx, w))

	require.NoError(t, store.Widgets().SetOrder(ctx, "d", []widget.Placement{{ID: w.ID, Order: 3, UpdatedAt: w.UpdatedAt}}))

	err := store.Widgets().SetOrder(ctx, "d", []widget.Placement{{ID: w.ID, Order: 0, UpdatedAt: w.UpdatedAt}})
	assert.True(t, apperrors.IsConcurrencyConflict(err))
}

func TestWidgetRepository_SetOrderIsAllOrNothing(t *testing.T) {
	store := NewStore(nil)
	ctx := context.Background()
	a := widget.New("d", "A", true, &widget.TextContent{Text: "a"}, 0, time.Now())
	b := widget.New("d", "B", true, &widget.TextContent{Text: "b"}, 1, time.Now())
	require.NoError(t, store.Widgets().Create(ctx, a))
	require.NoError(t, store.Widgets().Create(ctx, b))

	err := store.Widgets().SetOrder(ctx, "d", []widget.Placement{
		{ID: a.ID, Order: 1, UpdatedAt: a.UpdatedAt},
		{ID: b.ID, Order: 0, UpdatedAt: b.UpdatedAt.Add(-time.Hour)},
	})
	assert.True(t, apperrors.IsConcurrencyConflict(err))

	widgets, _ := store.Widgets().ListByDashboard(ctx, "d")
	assert.Equal(t, a.ID, widgets[0].ID)
}

func TestSettingsRepository_FirstWriteThenConflict(t *testing.T) {
	clock := &tickingClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	repo := NewStore(clock.Now).Settings()
	ctx := context.Background()

	current, err := repo.Get(ctx)
	require.NoError(t, err)

	title := "Foo"
	updatedAt, err := repo.Update(ctx, settings.Update{NavbarTitle: &title}, current.UpdatedAt, "admin")
	require.NoError(t, err)

	stored, _ := repo.Get(ctx)
	assert.Equal(t, "Foo", stored.NavbarTitle)
	assert.Equal(t, settings.DefaultPublishingGuidance, stored.PublishingGuidance)
	assert.Equal(t, updatedAt, stored.UpdatedAt)

	_, err = repo.Update(ctx, settings.Update{NavbarTitle: &title}, current.UpdatedAt, "admin")
	assert.True(t, apperrors.IsConcurrencyConflict(err))
}
