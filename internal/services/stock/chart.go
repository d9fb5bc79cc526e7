package stock

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/SaesolAhn/KB-infodigest/internal/models"
)

const (
	// chartWindowDays is the trailing window kept when series labels parse
	// as dates.
	chartWindowDays = 30
	// fallbackSessionCount approximates one trading month when date-based
	// windowing is not possible.
	fallbackSessionCount = 22
)

// Candidate list-field names bearing price history rows; the integration
// schema varies by market.
var priceListKeys = []string{
	"siseTrendInfos",
	"priceTrendInfos",
	"priceInfos",
	"chartInfos",
	"closePriceInfos",
	"stockPriceInfos",
	"dailyPriceInfos",
}

var (
	priceRowDateKeys  = []string{"bizdate", "date", "localTradedAt", "tradeDate", "tradedAt", "time"}
	priceRowValueKeys = []string{"closePrice", "price", "tradePrice", "lastPrice", "value", "close", "stckClpr"}
)

// buildChartSeries builds chart-ready price and investor-flow series.
// Returns nil when nothing plottable could be extracted.
func buildChartSeries(basic, integration models.Payload, prevClose, currentPrice string, trends []models.DealTrendRow) *models.ChartSeries {
	priceLabels, priceValues := extractPriceSeries(integration)

	if len(priceValues) == 0 {
		// Synthetic two-point fallback keeps charts possible with minimal data.
		var labels []string
		var values []float64
		if v, ok := parseDisplayNumber(prevClose); ok {
			labels = append(labels, "전일")
			values = append(values, v)
		}
		current := currentPrice
		if current == "" {
			current = basic.Str("closePrice")
		}
		if v, ok := parseDisplayNumber(current); ok {
			labels = append(labels, "현재")
			values = append(values, v)
		}
		if len(values) >= 2 {
			priceLabels, priceValues = labels, values
		}
	}

	trendLabels, personal, foreign, institution := extractTrendSeries(trends)

	chart := &models.ChartSeries{
		PriceLabels:     priceLabels,
		PriceValues:     priceValues,
		TrendLabels:     trendLabels,
		PersonalFlow:    personal,
		ForeignFlow:     foreign,
		InstitutionFlow: institution,
	}

	if !chart.HasAny() {
		return nil
	}
	return chart
}

// extractPriceSeries scans the candidate price lists; the first list
// yielding at least two parseable rows wins.
func extractPriceSeries(integration models.Payload) ([]string, []float64) {
	if integration == nil {
		return nil, nil
	}

	for _, key := range priceListKeys {
		if !integration.HasList(key) {
			continue
		}

		var labels []string
		var values []float64
		for _, row := range integration.List(key) {
			price, ok := parseDisplayNumber(row.FirstStr(priceRowValueKeys...))
			if !ok {
				continue
			}
			label := row.FirstStr(priceRowDateKeys...)
			if label == "" {
				label = strconv.Itoa(len(labels) + 1)
			}
			labels = append(labels, label)
			values = append(values, price)
		}

		if len(values) >= 2 {
			if keptLabels, keptSeries, ok := limitToOneMonth(labels, [][]float64{values}); ok {
				return keptLabels, keptSeries[0]
			}
			// Roughly one month of trading sessions.
			return tailStrings(labels, fallbackSessionCount), tailFloats(values, fallbackSessionCount)
		}
	}

	return nil, nil
}

// extractTrendSeries builds the three aligned investor-flow series from
// normalized deal-trend rows. A row survives unless all three values are
// unparseable; individual unparseable values become 0.
func extractTrendSeries(trends []models.DealTrendRow) ([]string, []float64, []float64, []float64) {
	var labels []string
	var personal, foreign, institution []float64

	for _, row := range trends {
		p, pOK := parseDisplayNumber(row.Individual)
		f, fOK := parseDisplayNumber(row.Foreign)
		i, iOK := parseDisplayNumber(row.Institution)
		if !pOK && !fOK && !iOK {
			continue
		}

		label := row.Date
		if label == "" {
			label = strconv.Itoa(len(labels) + 1)
		}
		labels = append(labels, label)
		personal = append(personal, p)
		foreign = append(foreign, f)
		institution = append(institution, i)
	}

	if keptLabels, keptSeries, ok := limitToOneMonth(labels, [][]float64{personal, foreign, institution}); ok {
		return keptLabels, keptSeries[0], keptSeries[1], keptSeries[2]
	}

	n := fallbackSessionCount
	return tailStrings(labels, n), tailFloats(personal, n), tailFloats(foreign, n), tailFloats(institution, n)
}

// limitToOneMonth restricts aligned series to the trailing window anchored
// at the latest parseable label date. Returns ok=false when fewer than two
// labels parse as dates, leaving the caller to apply the count-based
// fallback instead.
func limitToOneMonth(labels []string, series [][]float64) ([]string, [][]float64, bool) {
	if len(labels) == 0 {
		return nil, nil, false
	}
	for _, s := range series {
		if len(s) != len(labels) {
			return nil, nil, false
		}
	}

	parsed := make([]time.Time, len(labels))
	var datedIndices []int
	for i, label := range labels {
		if d, ok := parseSeriesDate(label); ok {
			parsed[i] = d
			datedIndices = append(datedIndices, i)
		}
	}
	if len(datedIndices) < 2 {
		return nil, nil, false
	}

	latest := parsed[datedIndices[0]]
	for _, idx := range datedIndices[1:] {
		if parsed[idx].After(latest) {
			latest = parsed[idx]
		}
	}
	cutoff := latest.AddDate(0, 0, -chartWindowDays)

	var keep []int
	for _, idx := range datedIndices {
		if !parsed[idx].Before(cutoff) {
			keep = append(keep, idx)
		}
	}
	if len(keep) < 2 {
		keep = datedIndices
		if len(keep) > fallbackSessionCount {
			keep = keep[len(keep)-fallbackSessionCount:]
		}
	}

	keptLabels := make([]string, len(keep))
	for i, idx := range keep {
		keptLabels[i] = labels[idx]
	}
	keptSeries := make([][]float64, len(series))
	for si, s := range series {
		kept := make([]float64, len(keep))
		for i, idx := range keep {
			kept[i] = s[idx]
		}
		keptSeries[si] = kept
	}
	return keptLabels, keptSeries, true
}

func tailStrings(values []string, n int) []string {
	if len(values) > n {
		return values[len(values)-n:]
	}
	return values
}

func tailFloats(values []float64, n int) []float64 {
	if len(values) > n {
		return values[len(values)-n:]
	}
	return values
}

var nonDigitPattern = regexp.MustCompile(`[^0-9]`)

// parseSeriesDate parses the mixed date encodings the list payloads use:
// compact YYYYMMDD / YYYYMMDDHHmm[ss] digits and ISO-8601 forms.
func parseSeriesDate(raw string) (time.Time, bool) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return time.Time{}, false
	}

	digits := nonDigitPattern.ReplaceAllString(text, "")
	var layout string
	switch len(digits) {
	case 8:
		layout = "20060102"
	case 12:
		layout = "200601021504"
	case 14:
		layout = "20060102150405"
	}
	if layout != "" {
		if d, err := time.Parse(layout, digits); err == nil {
			return d.Truncate(24 * time.Hour), true
		}
		return time.Time{}, false
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if d, err := time.Parse(layout, text); err == nil {
			return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

var nonNumericPattern = regexp.MustCompile(`[^0-9+\-.]`)

// parseDisplayNumber converts locale-formatted display values ("181,200",
// "-4.13%") to floats.
func parseDisplayNumber(value string) (float64, bool) {
	text := strings.TrimSpace(value)
	if text == "" {
		return 0, false
	}
	cleaned := nonNumericPattern.ReplaceAllString(text, "")
	switch cleaned {
	case "", "+", "-", ".", "+.", "-.":
		return 0, false
	}
	parsed, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return parsed, true
}
