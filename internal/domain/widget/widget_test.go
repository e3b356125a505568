package widget

import (
	"encoding/json"
	"testing"
	"time"

	"dashboard-backend/internal/domain/dataset"
	apperrors "dashboard-backend/internal/errors"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeWidgets(n int) []Widget {
	widgets := make([]Widget, n)
	for i := range widgets {
		widgets[i] = Widget{ID: string(rune('a' + i)), Order: i}
	}
	return widgets
}

func ids(widgets []Widget) string {
	out := ""
	for _, w := range widgets {
		out += w.ID
	}
	return out
}

func TestMove(t *testing.T) {
	t.Run("Should move third widget to the top", func(t *testing.T) {
		widgets := makeWidgets(4)

		moved := Move(widgets, 2, 0)

		assert.Equal(t, "cabd", ids(moved))
		for i, w := range moved {
			assert.Equal(t, i, w.Order)
		}
		assert.Equal(t, "abcd", ids(widgets), "input must not be mutated")
	})

	t.Run("Should move first widget to the bottom", func(t *testing.T) {
		assert.Equal(t, "bcda", ids(Move(makeWidgets(4), 0, 3)))
	})

	t.Run("Should return input unchanged when target is out of range", func(t *testing.T) {
		widgets := makeWidgets(3)
		assert.Equal(t, "abc", ids(Move(widgets, 0, 3)))
		assert.Equal(t, "abc", ids(Move(widgets, 1, -1)))
		assert.Equal(t, "abc", ids(Move(widgets, 5, 0)))
	})
}

func TestMove_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("Move keeps every widget and numbers orders contiguously", prop.ForAll(
		func(n, index, newIndex int) bool {
			widgets := makeWidgets(n)
			moved := Move(widgets, index, newIndex)
			if len(moved) != n {
				return false
			}
			seen := map[string]bool{}
			for i, w := range moved {
				if w.Order != i || seen[w.ID] {
					return false
				}
				seen[w.ID] = true
			}
			return true
		},
		gen.IntRange(1, 15),
		gen.IntRange(-2, 16),
		gen.IntRange(-2, 16),
	))

	properties.Property("Moved widget lands at the target position", prop.ForAll(
		func(n, index, newIndex int) bool {
			if index >= n || newIndex >= n {
				return true
			}
			widgets := makeWidgets(n)
			return Move(widgets, index, newIndex)[newIndex].ID == widgets[index].ID
		},
		gen.IntRange(1, 15),
		gen.IntRange(0, 14),
		gen.IntRange(0, 14),
	))

	properties.TestingRun(t)
}

func TestRenumber(t *testing.T) {
	widgets := []Widget{{ID: "a", Order: 0}, {ID: "c", Order: 2}, {ID: "d", Order: 3}}

	changed := Renumber(widgets)

	require.Len(t, changed, 2)
	assert.Equal(t, Placement{ID: "c", Order: 1}, changed[0])
	assert.Equal(t, 2, widgets[2].Order)
}

func TestSortByOrder(t *testing.T) {
	widgets := []Widget{{ID: "b", Order: 1}, {ID: "c", Order: 2}, {ID: "a", Order: 0}}
	SortByOrder(widgets)
	assert.Equal(t, "abc", ids(widgets))
	assert.Equal(t, 2, IndexOf(widgets, "c"))
	assert.Equal(t, -1, IndexOf(widgets, "z"))

	tied := []Widget{{ID: "y", Order: 1}, {ID: "x", Order: 1}, {ID: "w", Order: 0}}
	SortByOrder(tied)
	assert.Equal(t, "wxy", ids(tied))
	assert.Len(t, Renumber(tied), 1)
	assert.Equal(t, 2, tied[2].Order)
}

func TestDecodeContent(t *testing.T) {
	t.Run("Should decode chart content", func(t *testing.T) {
		raw := []byte(`{"title":"Cases","chartType":"LineChart","datasetId":"ds1",
			"s3Key":{"raw":"raw/a.csv","json":"json/a.json"},
			"columnsMetadata":[{"columnName":"Week","hidden":true,"dataType":"Text"}],
			"sortByColumn":"Count","sortByDesc":true}`)

		content, err := DecodeContent(TypeChart, raw)
		require.NoError(t, err)

		chart, ok := content.(*ChartContent)
		require.True(t, ok)
		assert.Equal(t, LineChart, chart.ChartType)
		assert.Equal(t, "json/a.json", chart.S3Key.JSON)
		require.Len(t, chart.ColumnsMetadata, 1)
		assert.True(t, chart.ColumnsMetadata[0].Hidden)
		assert.Equal(t, dataset.DataTypeText, chart.ColumnsMetadata[0].DataType)

		src := chart.DataSource()
		assert.Equal(t, "Count", src.SortByColumn)
		assert.True(t, src.SortByDesc)
	})

	t.Run("Should reject unknown widget type", func(t *testing.T) {
		_, err := DecodeContent(Type("Video"), []byte(`{}`))
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("Should reject malformed content", func(t *testing.T) {
		_, err := DecodeContent(TypeText, []byte(`{"text":42}`))
		assert.True(t, apperrors.IsValidation(err))
	})
}

func TestWidget_JSON(t *testing.T) {
	w := New("dash-1", "Intro", true, &TextContent{Text: "# Hello"}, 0, time.Now())
	data, err := json.Marshal(w)
	require.NoError(t, err)

	var decoded Widget
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, TypeText, decoded.WidgetType)
	assert.Equal(t, &TextContent{Text: "# Hello"}, decoded.Content)
	assert.NoError(t, decoded.EnsureCurrent(w.UpdatedAt))
	assert.True(t, apperrors.IsConcurrencyConflict(decoded.EnsureCurrent(w.UpdatedAt.Add(time.Second))))
}
