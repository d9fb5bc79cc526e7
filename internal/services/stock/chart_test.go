package stock

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SaesolAhn/KB-infodigest/internal/models"
)

func priceRow(date, close string) any {
	return map[string]any{"bizdate": date, "closePrice": close}
}

func TestExtractPriceSeries_TrailingMonthWindow(t *testing.T) {
	integration := models.Payload{
		"siseTrendInfos": []any{
			priceRow("20260110", "168,000"),
			priceRow("20260131", "171,500"),
			priceRow("20260210", "173,200"),
			priceRow("20260220", "176,900"),
			priceRow("20260301", "179,400"),
			priceRow("20260312", "181,200"),
		},
	}

	labels, values := extractPriceSeries(integration)

	assert.Equal(t, []string{"20260210", "20260220", "20260301", "20260312"}, labels)
	assert.Equal(t, []float64{173200, 176900, 179400, 181200}, values)
}

func TestExtractPriceSeries_UndatedLabelsKeepLastSessions(t *testing.T) {
	rows := make([]any, 0, 30)
	for i := 1; i <= 30; i++ {
		rows = append(rows, map[string]any{"closePrice": strconv.Itoa(1000 + i)})
	}
	integration := models.Payload{"dailyPriceInfos": rows}

	labels, values := extractPriceSeries(integration)

	require.Len(t, labels, fallbackSessionCount)
	require.Len(t, values, fallbackSessionCount)
	assert.Equal(t, 1009.0, values[0])
	assert.Equal(t, 1030.0, values[len(values)-1])
}

func TestExtractPriceSeries_FirstUsableListWins(t *testing.T) {
	integration := models.Payload{
		"siseTrendInfos": []any{priceRow("20260311", "100")},
		"priceInfos": []any{
			priceRow("20260311", "200"),
			priceRow("20260312", "210"),
		},
	}

	_, values := extractPriceSeries(integration)
	assert.Equal(t, []float64{200, 210}, values)
}

func TestExtractPriceSeries_SkipsUnparseableRows(t *testing.T) {
	integration := models.Payload{
		"siseTrendInfos": []any{
			priceRow("20260311", "N/A"),
			priceRow("20260312", "181,200"),
		},
	}

	labels, values := extractPriceSeries(integration)
	assert.Nil(t, labels)
	assert.Nil(t, values, "a single parseable row is not a series")
}

func TestBuildChartSeries_SyntheticFallback(t *testing.T) {
	chart := buildChartSeries(models.Payload{}, nil, "178,600", "181,200", nil)

	require.NotNil(t, chart)
	assert.Equal(t, []string{"전일", "현재"}, chart.PriceLabels)
	assert.Equal(t, []float64{178600, 181200}, chart.PriceValues)
	assert.True(t, chart.HasPrice())
	assert.False(t, chart.HasTrend())
}

func TestBuildChartSeries_FallbackNeedsBothPoints(t *testing.T) {
	chart := buildChartSeries(models.Payload{}, nil, "", "181,200", nil)
	assert.Nil(t, chart)

	chart = buildChartSeries(models.Payload{}, nil, "178,600", "", nil)
	assert.Nil(t, chart)
}

func TestBuildChartSeries_FallbackReadsBasicClose(t *testing.T) {
	basic := models.Payload{"closePrice": "181,200"}

	chart := buildChartSeries(basic, nil, "178,600", "", nil)

	require.NotNil(t, chart)
	assert.Equal(t, []float64{178600, 181200}, chart.PriceValues)
}

func TestExtractTrendSeries(t *testing.T) {
	trends := []models.DealTrendRow{
		{Date: "20260312", Individual: "-1,000,000", Foreign: "1,234,567", Institution: "-234,567"},
		{Date: "20260311", Individual: "눈치보기", Foreign: "장세관망", Institution: "혼조"},
		{Date: "20260310", Individual: "53,087", Foreign: "집계중", Institution: "45,678"},
	}

	labels, personal, foreign, institution := extractTrendSeries(trends)

	require.Equal(t, []string{"20260312", "20260310"}, labels, "rows with no parseable value are dropped")
	assert.Equal(t, []float64{-1000000, 53087}, personal)
	assert.Equal(t, []float64{1234567, 0}, foreign, "unparseable values inside a kept row become 0")
	assert.Equal(t, []float64{-234567, 45678}, institution)
}

func TestLimitToOneMonth_TooFewDates(t *testing.T) {
	_, _, ok := limitToOneMonth([]string{"하나", "둘"}, [][]float64{{1, 2}})
	assert.False(t, ok)

	_, _, ok = limitToOneMonth([]string{"20260312", "둘"}, [][]float64{{1, 2}})
	assert.False(t, ok)
}

func TestLimitToOneMonth_MisalignedSeries(t *testing.T) {
	_, _, ok := limitToOneMonth([]string{"20260311", "20260312"}, [][]float64{{1}})
	assert.False(t, ok)
}

func TestParseSeriesDate(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
		ok       bool
	}{
		{"20260312", "2026-03-12", true},
		{"202603121530", "2026-03-12", true},
		{"20260312153045", "2026-03-12", true},
		{"2026-03-12", "2026-03-12", true},
		{"2026.03.12", "2026-03-12", true},
		{"2026-03-12T15:30:00+09:00", "2026-03-12", true},
		{"2026-03-12T15:30:00", "2026-03-12", true},
		{"", "", false},
		{"전일", "", false},
		{"123", "", false},
		{"99999999", "", false},
	}

	for _, tt := range tests {
		parsed, ok := parseSeriesDate(tt.raw)
		require.Equal(t, tt.ok, ok, "raw=%q", tt.raw)
		if tt.ok {
			assert.Equal(t, tt.expected, parsed.Format(time.DateOnly), "raw=%q", tt.raw)
		}
	}
}

func TestParseDisplayNumber(t *testing.T) {
	tests := []struct {
		raw      string
		expected float64
		ok       bool
	}{
		{"181,200", 181200, true},
		{"-4.13%", -4.13, true},
		{"+1,234", 1234, true},
		{"53.44%", 53.44, true},
		{"0", 0, true},
		{"", 0, false},
		{"-", 0, false},
		{"N/A", 0, false},
		{"집계중", 0, false},
	}

	for _, tt := range tests {
		parsed, ok := parseDisplayNumber(tt.raw)
		require.Equal(t, tt.ok, ok, "raw=%q", tt.raw)
		if tt.ok {
			assert.InDelta(t, tt.expected, parsed, 0.0001, "raw=%q", tt.raw)
		}
	}
}
