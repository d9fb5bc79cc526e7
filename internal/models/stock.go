package models

// SearchCandidate is one stock surfaced by the autocomplete search endpoint.
type SearchCandidate struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Market      string `json:"market,omitempty"`
	ReutersCode string `json:"reuters_code,omitempty"` // world ticker key, e.g. "NVDA.O"
	NationCode  string `json:"nation_code,omitempty"`
}

// Key returns the deduplication key for a candidate: the world ticker when
// present, otherwise the domestic code.
func (c SearchCandidate) Key() string {
	if c.ReutersCode != "" {
		return c.ReutersCode
	}
	return c.Code
}

// StockResolution is the outcome of resolving a raw query to one security.
type StockResolution struct {
	Code        string `json:"code"`
	ReutersCode string `json:"reuters_code,omitempty"`
	IsWorld     bool   `json:"is_world"`
	MatchedName string `json:"matched_name,omitempty"`
	Market      string `json:"market,omitempty"`
	SearchNote  string `json:"search_note,omitempty"` // typo auto-correction note
}

// LinkedItem is one news or research report entry attached to a report.
type LinkedItem struct {
	Title  string `json:"title"`
	URL    string `json:"url,omitempty"`
	Date   string `json:"date,omitempty"`
	Source string `json:"source,omitempty"`
}

// DealTrendRow is one day's investor net-buy flow, values kept as the
// upstream display strings.
type DealTrendRow struct {
	Date        string `json:"date"`
	Individual  string `json:"individual"`
	Institution string `json:"institution"`
	Foreign     string `json:"foreign"`
}

// StockReport is the canonical normalized output of the engine. Numeric
// fields stay as upstream display strings (thousands separators intact);
// only ChartSeries holds parsed floats.
type StockReport struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	NameEng string `json:"name_eng,omitempty"`
	Market  string `json:"market,omitempty"`

	CurrentPrice    string `json:"current_price,omitempty"`
	ChangeValue     string `json:"change_value,omitempty"`
	ChangeRate      string `json:"change_rate,omitempty"`
	ChangeDirection string `json:"change_direction,omitempty"` // RISING / FALLING / UNCHANGED
	PrevClose       string `json:"prev_close,omitempty"`
	OpenPrice       string `json:"open_price,omitempty"`
	HighPrice       string `json:"high_price,omitempty"`
	LowPrice        string `json:"low_price,omitempty"`

	Volume       string `json:"volume,omitempty"`
	TradingValue string `json:"trading_value,omitempty"`
	MarketCap    string `json:"market_cap,omitempty"`
	ForeignRate  string `json:"foreign_rate,omitempty"`

	PER              string `json:"per,omitempty"`
	EPS              string `json:"eps,omitempty"`
	EstimatedPER     string `json:"estimated_per,omitempty"`
	EstimatedEPS     string `json:"estimated_eps,omitempty"`
	PBR              string `json:"pbr,omitempty"`
	BPS              string `json:"bps,omitempty"`
	DividendYield    string `json:"dividend_yield,omitempty"`
	DividendPerShare string `json:"dividend_per_share,omitempty"`

	High52W       string `json:"high_52w,omitempty"`
	Low52W        string `json:"low_52w,omitempty"`
	TargetPrice   string `json:"target_price,omitempty"`
	AnalystRating string `json:"analyst_rating,omitempty"`

	Industry  string `json:"industry,omitempty"`
	Currency  string `json:"currency,omitempty"`
	AsOf      string `json:"as_of,omitempty"`
	SourceURL string `json:"source_url,omitempty"`

	RequestedQuery string `json:"requested_query,omitempty"`
	SearchNote     string `json:"search_note,omitempty"`

	DealTrends    []DealTrendRow `json:"deal_trends,omitempty"`
	RecentNews    []LinkedItem   `json:"recent_news,omitempty"`
	RecentReports []LinkedItem   `json:"recent_reports,omitempty"`
	Chart         *ChartSeries   `json:"chart,omitempty"`
}

// ChartSeries holds chart-ready aligned series. Within each labeled series
// the label slice and every value slice have equal length; a sub-series with
// fewer than two points is treated as absent.
type ChartSeries struct {
	PriceLabels []string  `json:"price_labels,omitempty"`
	PriceValues []float64 `json:"price_values,omitempty"`

	TrendLabels     []string  `json:"trend_labels,omitempty"`
	PersonalFlow    []float64 `json:"personal_flow,omitempty"`
	ForeignFlow     []float64 `json:"foreign_flow,omitempty"`
	InstitutionFlow []float64 `json:"institution_flow,omitempty"`
}

// HasPrice reports whether the price series is plottable.
func (c *ChartSeries) HasPrice() bool {
	return c != nil && len(c.PriceValues) >= 2
}

// HasTrend reports whether any investor-flow dimension is plottable.
func (c *ChartSeries) HasTrend() bool {
	if c == nil {
		return false
	}
	return len(c.PersonalFlow) >= 2 || len(c.ForeignFlow) >= 2 || len(c.InstitutionFlow) >= 2
}

// HasAny reports whether the series carries anything worth charting.
func (c *ChartSeries) HasAny() bool {
	return c.HasPrice() || c.HasTrend()
}
