package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadStr(t *testing.T) {
	var decoded Payload
	require.NoError(t, json.Unmarshal([]byte(`{
		"name": "  삼성전자 ",
		"price": 181200,
		"ratio": 1.46,
		"halted": false,
		"nested": {"a": 1},
		"list": [1, 2]
	}`), &decoded))

	assert.Equal(t, "삼성전자", decoded.Str("name"))
	assert.Equal(t, "181200", decoded.Str("price"), "JSON numbers render without exponent")
	assert.Equal(t, "1.46", decoded.Str("ratio"))
	assert.Equal(t, "false", decoded.Str("halted"))
	assert.Empty(t, decoded.Str("nested"))
	assert.Empty(t, decoded.Str("list"))
	assert.Empty(t, decoded.Str("missing"))
	assert.Empty(t, Payload(nil).Str("name"))
}

func TestPayloadFirstStr(t *testing.T) {
	p := Payload{"b": "", "c": "value", "d": "other"}

	assert.Equal(t, "value", p.FirstStr("a", "b", "c", "d"))
	assert.Empty(t, p.FirstStr("a", "b"))
}

func TestPayloadMapAndList(t *testing.T) {
	p := Payload{
		"obj":    map[string]any{"inner": "x"},
		"rows":   []any{map[string]any{"code": "per"}, "stray string", map[string]any{"code": "eps"}},
		"scalar": "no",
	}

	assert.Equal(t, "x", p.Map("obj").Str("inner"))
	assert.Nil(t, p.Map("scalar"))
	assert.Nil(t, p.Map("missing"))

	rows := p.List("rows")
	require.Len(t, rows, 2, "non-object rows are skipped")
	assert.Equal(t, "per", rows[0].Str("code"))

	assert.True(t, p.HasList("rows"))
	assert.False(t, p.HasList("scalar"))
	assert.Nil(t, p.List("scalar"))
}

func TestBuildFieldTable(t *testing.T) {
	table := BuildFieldTable([]Payload{
		{"code": "per", "value": "37.62배"},
		{"code": "eps", "value": "4,817원"},
		{"code": "", "value": "ignored"},
		{"code": "empty"},
	})

	assert.Equal(t, "37.62배", table.Get("per"))
	assert.Empty(t, table.Get("empty"))
	assert.Equal(t, "4,817원", table.First("missing", "eps"))
	assert.Empty(t, table.First("missing", "absent"))
}

func TestSearchCandidateKey(t *testing.T) {
	assert.Equal(t, "NVDA.O", SearchCandidate{Code: "NVDA", ReutersCode: "NVDA.O"}.Key())
	assert.Equal(t, "005930", SearchCandidate{Code: "005930"}.Key())
}

func TestChartSeriesPredicates(t *testing.T) {
	var nilChart *ChartSeries
	assert.False(t, nilChart.HasPrice())
	assert.False(t, nilChart.HasTrend())
	assert.False(t, nilChart.HasAny())

	onePoint := &ChartSeries{PriceLabels: []string{"현재"}, PriceValues: []float64{181200}}
	assert.False(t, onePoint.HasPrice(), "a single point is not a series")
	assert.False(t, onePoint.HasAny())

	priced := &ChartSeries{PriceLabels: []string{"전일", "현재"}, PriceValues: []float64{178600, 181200}}
	assert.True(t, priced.HasPrice())
	assert.True(t, priced.HasAny())

	trended := &ChartSeries{TrendLabels: []string{"20260311", "20260312"}, PersonalFlow: []float64{1, 2}}
	assert.True(t, trended.HasTrend())
	assert.True(t, trended.HasAny())
}

func TestErrorMessages(t *testing.T) {
	ambiguous := &AmbiguousError{
		Query: "삼성",
		Candidates: []SearchCandidate{
			{Code: "005930", Name: "삼성전자"},
			{Code: "006400", Name: "삼성SDI"},
		},
	}
	assert.Contains(t, ambiguous.Error(), "삼성전자(005930)")
	assert.Contains(t, ambiguous.Error(), "삼성SDI(006400)")

	notFound := &NotFoundError{Query: "없는회사"}
	assert.Contains(t, notFound.Error(), "없는회사")

	inner := assert.AnError
	upstream := &UpstreamError{Code: "005930", Endpoint: "basic", Err: inner}
	assert.ErrorIs(t, upstream, inner)
}
