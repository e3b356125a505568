package services

import (
	"strings"
	"testing"

	"dashboard-backend/internal/domain/dataset"
	"dashboard-backend/internal/domain/widget"
	apperrors "dashboard-backend/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicService_OnlyPublishedDashboards(t *testing.T) {
	f := newFixture(t)
	ta := f.topicArea(t, "Health")
	draft := f.draft(t, ta.ID, "Draft")
	live := f.draft(t, ta.ID, "Live")
	_, err := f.dashboards.Publish(f.ctx, live.ID, TransitionInput{UpdatedAt: live.UpdatedAt}, "alice")
	require.NoError(t, err)

	list, err := f.public.ListDashboards(f.ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, live.ID, list[0].ID)
	assert.Empty(t, list[0].CreatedBy)

	_, err = f.public.GetDashboard(f.ctx, draft.ID)
	assert.Equal(t, apperrors.CodeDashboardNotFound, errorCode(t, err))

	got, err := f.public.GetDashboard(f.ctx, live.ID)
	require.NoError(t, err)
	assert.Equal(t, "Live", got.Name)
}

func TestPublicService_WidgetData(t *testing.T) {
	f := newFixture(t)
	ta := f.topicArea(t, "Health")
	d := f.draft(t, ta.ID, "Cases")

	upload, err := f.datasets.Upload(f.ctx, "cases.csv", strings.NewReader(casesCSV), "", "alice")
	require.NoError(t, err)

	content := `{"title":"Cases","datasetId":"` + upload.Dataset.ID + `","s3Key":{"raw":"` + upload.Dataset.S3Key.Raw + `"},` +
		`"columnsMetadata":[{"columnName":"Region","hidden":true},{"columnName":"Cases","dataType":"Number","numberType":"Number"}],` +
		`"sortByColumn":"Cases","sortByDesc":true}`
	table, err := f.widgets.Create(f.ctx, d.ID, CreateWidgetInput{Name: "Table", WidgetType: widget.TypeTable, Content: []byte(content)})
	require.NoError(t, err)
	text, err := f.widgets.Create(f.ctx, d.ID, CreateWidgetInput{Name: "Text", WidgetType: widget.TypeText, Content: []byte(`{"text":"t"}`)})
	require.NoError(t, err)

	_, err = f.public.WidgetData(f.ctx, d.ID, table.ID, false)
	assert.True(t, apperrors.IsNotFound(err), "draft dashboards are not public")

	_, err = f.dashboards.Publish(f.ctx, d.ID, TransitionInput{UpdatedAt: d.UpdatedAt}, "alice")
	require.NoError(t, err)

	rows, err := f.public.WidgetData(f.ctx, d.ID, table.ID, false)
	require.NoError(t, err)
	assert.Equal(t, []dataset.Row{
		{"Week": 2.0, "Cases": 30.0},
		{"Week": 3.0, "Cases": 20.0},
		{"Week": 1.0, "Cases": 10.0},
	}, rows)

	formatted, err := f.public.WidgetData(f.ctx, d.ID, table.ID, true)
	require.NoError(t, err)
	assert.Equal(t, "30", formatted[0]["Cases"])

	_, err = f.public.WidgetData(f.ctx, d.ID, text.ID, false)
	assert.Equal(t, apperrors.CodeInvalidWidgetType, errorCode(t, err))
}
