package datablock

import (
	"testing"

	"drillchat/internal/models"

	"github.com/stretchr/testify/require"
)

func TestExtractGraphMarkerPieCoercesStringValue(t *testing.T) {
	text := "Here is the distribution.\n<!--GRAPH_DATA: {\"type\":\"pie\",\"data\":[{\"name\":\"A\",\"value\":\"10\"}]} -->"
	cleaned, g, tbl := Extract(text)
	require.Nil(t, tbl)
	require.NotNil(t, g)
	require.Equal(t, models.GraphPie, g.Type)
	require.Equal(t, float64(10), g.Data[0]["value"])
	require.Equal(t, "Here is the distribution.", cleaned)
}

func TestExtractTableMarker(t *testing.T) {
	text := "Casing program below.\n<!--TABLE_DATA: {\"headers\":[\"A\",\"B\"],\"rows\":[[\"x\"],[1,2,3]]} -->"
	cleaned, g, tbl := Extract(text)
	require.Nil(t, g)
	require.NotNil(t, tbl)
	require.Equal(t, []string{"A", "B"}, tbl.Headers)
	require.Equal(t, [][]any{{"x", nil}, {float64(1), float64(2)}}, tbl.Rows)
	require.NotEmpty(t, tbl.Note)
	require.Equal(t, "Casing program below.", cleaned)
}

func TestExtractNoMarkerNoJSON(t *testing.T) {
	text := "Mud weight should sit between pore pressure and fracture gradient."
	cleaned, g, tbl := Extract(text)
	require.Equal(t, text, cleaned)
	require.Nil(t, g)
	require.Nil(t, tbl)
}

func TestExtractMalformedGraphMarkerReturnsTextUnchanged(t *testing.T) {
	text := "Answer.\n<!--GRAPH_DATA: {\"type\":\"line\",\"data\":[ -->"
	cleaned, g, tbl := Extract(text)
	require.Equal(t, text, cleaned)
	require.Nil(t, g)
	require.Nil(t, tbl)
}

func TestExtractGraphWinsOverTable(t *testing.T) {
	text := "Both blocks.\n" +
		"<!--GRAPH_DATA: {\"type\":\"bar\",\"data\":[{\"name\":\"A\",\"rop\":12}]} -->\n" +
		"<!--TABLE_DATA: {\"headers\":[\"A\"],\"rows\":[[1]]} -->"
	cleaned, g, tbl := Extract(text)
	require.NotNil(t, g)
	require.Nil(t, tbl)
	// Only the honored marker span is removed.
	require.Contains(t, cleaned, "<!--TABLE_DATA:")
	require.NotContains(t, cleaned, "<!--GRAPH_DATA:")
}

func TestExtractWrongShapeInGraphMarkerFallsThrough(t *testing.T) {
	text := "Data.\n<!--GRAPH_DATA: {\"type\":\"donut\",\"data\":[{\"name\":\"A\",\"value\":1}]} -->\n" +
		"<!--TABLE_DATA: {\"headers\":[\"A\"],\"rows\":[[1]]} -->"
	_, g, tbl := Extract(text)
	require.Nil(t, g)
	require.NotNil(t, tbl)
}

func TestExtractImplicitGraphBlock(t *testing.T) {
	text := "ROP by section: {\"type\":\"bar\",\"data\":[{\"name\":\"Surface\",\"rop\":45}]} as requested."
	cleaned, g, tbl := Extract(text)
	require.Nil(t, tbl)
	require.NotNil(t, g)
	require.Equal(t, models.GraphBar, g.Type)
	require.Equal(t, "ROP by section:  as requested.", cleaned)
}

func TestExtractImplicitTableBlock(t *testing.T) {
	text := "Summary {\"headers\":[\"Section\",\"Depth\"],\"rows\":[[\"Surface\",1500]]} end."
	_, g, tbl := Extract(text)
	require.Nil(t, g)
	require.NotNil(t, tbl)
	require.Equal(t, []string{"Section", "Depth"}, tbl.Headers)
}

func TestExtractImplicitSkipsNonMatchingJSON(t *testing.T) {
	// The first JSON object has no suggestive shape; the second is a table.
	text := `See {"foo":1,"data":"x"} then {"headers":["A"],"rows":[[1]]} done.`
	_, g, tbl := Extract(text)
	require.Nil(t, g)
	require.NotNil(t, tbl)
}
