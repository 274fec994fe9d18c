package datablock

import (
	"testing"

	"drillchat/internal/models"

	"github.com/stretchr/testify/require"
)

func TestSanitizeScatterUsesAxisHints(t *testing.T) {
	g := &models.GraphPayload{
		Type: models.GraphScatter,
		Data: []map[string]any{
			{"depth": float64(10), "pressure": float64(200)},
			{"depth": float64(20), "pressure": float64(400)},
		},
		Options: map[string]any{
			"xAxis": map[string]any{"name": "depth"},
			"yAxis": map[string]any{"name": "pressure"},
		},
	}
	out := SanitizeGraph(g)
	require.NotNil(t, out)
	require.Equal(t, float64(10), out.Data[0]["x"])
	require.Equal(t, float64(200), out.Data[0]["y"])
	require.Equal(t, float64(20), out.Data[1]["x"])
	require.Equal(t, float64(400), out.Data[1]["y"])
	note, _ := out.Options["note"].(string)
	require.Contains(t, note, "remapped")
}

func TestSanitizeScatterFallsBackToNumericKeys(t *testing.T) {
	g := &models.GraphPayload{
		Type: models.GraphScatter,
		Data: []map[string]any{{"a": float64(1), "b": "2.5", "label": "pt"}},
	}
	out := SanitizeGraph(g)
	require.NotNil(t, out)
	require.Equal(t, float64(1), out.Data[0]["x"])
	require.Equal(t, float64(2.5), out.Data[0]["y"])
	require.Equal(t, "pt", out.Data[0]["label"])
}

func TestSanitizeScatterWithoutNumericPairRejected(t *testing.T) {
	g := &models.GraphPayload{
		Type: models.GraphScatter,
		Data: []map[string]any{{"only": float64(1)}},
	}
	require.Nil(t, SanitizeGraph(g))
}

func TestSanitizeCategoricalIdempotent(t *testing.T) {
	g := &models.GraphPayload{
		Type: models.GraphLine,
		Data: []map[string]any{
			{"name": "Jan", "Flow Rate": "12.5", "rop": float64(30)},
			{"name": "Feb", "Flow Rate": "14", "rop": float64(28)},
		},
	}
	first := SanitizeGraph(g)
	require.NotNil(t, first)
	require.Equal(t, float64(12.5), first.Data[0]["Flow_Rate"])
	require.Equal(t, "Jan", first.Data[0]["name"])
	note, _ := first.Options["note"].(string)
	require.Contains(t, note, "Flow Rate")

	second := SanitizeGraph(first)
	require.Equal(t, first, second)
}

func TestSanitizeComposedRemapsSeriesConfig(t *testing.T) {
	g := &models.GraphPayload{
		Type: models.GraphComposed,
		Data: []map[string]any{{"name": "A", "Mud Weight": float64(9.8)}},
		Options: map[string]any{
			"series": []any{
				map[string]any{"dataKey": "Mud Weight", "type": "bar"},
			},
		},
	}
	out := SanitizeGraph(g)
	require.NotNil(t, out)
	require.Equal(t, float64(9.8), out.Data[0]["Mud_Weight"])
	series := out.Options["series"].([]any)
	cfg := series[0].(map[string]any)
	require.Equal(t, "Mud_Weight", cfg["dataKey"])
}

func TestSanitizePieRejectsNonNumericValue(t *testing.T) {
	g := &models.GraphPayload{
		Type: models.GraphPie,
		Data: []map[string]any{{"name": "A", "value": "lots"}},
	}
	require.Nil(t, SanitizeGraph(g))
}

func TestSanitizeUnknownTypeRejected(t *testing.T) {
	g := &models.GraphPayload{Type: "donut", Data: []map[string]any{{"name": "A"}}}
	require.Nil(t, SanitizeGraph(g))
}

func TestSanitizeTableAllRowsMatchHeaderLength(t *testing.T) {
	tbl := SanitizeTable(
		[]any{"A", "B", "C"},
		[]any{
			[]any{"x"},
			[]any{1, 2, 3, 4},
			"not a row",
			[]any{"a", "b", "c"},
		},
		"t",
	)
	for _, row := range tbl.Rows {
		require.Len(t, row, 3)
	}
	require.Equal(t, []any{nil, nil, nil}, tbl.Rows[2])
	require.NotEmpty(t, tbl.Note)
}

func TestSanitizeTableCleanInputNoNote(t *testing.T) {
	tbl := SanitizeTable([]any{"A"}, []any{[]any{"x"}}, "")
	require.Empty(t, tbl.Note)
	require.Equal(t, [][]any{{"x"}}, tbl.Rows)
}
