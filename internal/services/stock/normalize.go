package stock

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/SaesolAhn/KB-infodigest/internal/models"
)

// Change direction markers from the basic payload.
const (
	directionRising  = "RISING"
	directionFalling = "FALLING"
)

const (
	maxLinkedItems   = 3
	maxDealTrendRows = 30
)

// Candidate list-field names for news and research rows. The integration
// schema differs between markets and changes over time, so several keys are
// scanned in order.
var (
	newsListKeys = []string{
		"newsInfos",
		"newsInfoList",
		"recentNewsInfos",
		"newsItems",
		"stockNewsInfos",
	}
	reportListKeys = []string{
		"researches",
		"reports",
		"researchInfos",
		"reportInfos",
		"recentReportInfos",
		"consensusReportInfos",
		"investmentOpinionInfos",
	}

	itemTitleKeys = []string{
		"title", "newsTitle", "articleTitle", "reportTitle", "researchTitle",
		"tit", "ttl", "subject", "name", "reportName",
	}
	itemURLKeys = []string{
		"url", "linkUrl", "newsUrl", "articleUrl", "reportUrl", "researchUrl",
		"mobileUrl", "link",
	}
	itemDateKeys = []string{
		"bizdate", "date", "pubDate", "publishedAt", "researchDate",
		"createdAt", "localTradedAt", "wdt",
	}
	itemSourceKeys = []string{
		"press", "media", "provider", "broker", "securitiesCompany",
		"companyName", "source", "bnm",
	}
)

// reportReadURL backfills research links from a numeric article id.
const reportReadURL = "https://finance.naver.com/research/company_read.naver?nid=%s"

var whitespacePattern = regexp.MustCompile(`\s+`)

// buildReport maps the heterogeneous basic/integration payloads into one
// canonical report. integration may be nil; every field degrades to absence
// rather than failing.
func buildReport(basic, integration models.Payload, code string, world bool, sourceURL string) *models.StockReport {
	fields := buildInfoTable(basic, integration, world)

	name := basic.Str("stockName")
	if name == "" {
		name = "Stock " + code
	}

	market := basic.Str("stockExchangeName")
	if market == "" {
		market = basic.Map("stockExchangeType").FirstStr("nameEng", "nameKor")
	}

	direction := basic.Map("compareToPreviousPrice").Str("name")

	report := &models.StockReport{
		Code:    code,
		Name:    name,
		NameEng: basic.Str("stockNameEng"),
		Market:  market,

		CurrentPrice:    basic.Str("closePrice"),
		ChangeValue:     formatChangeValue(basic.Str("compareToPreviousClosePrice"), direction),
		ChangeRate:      formatRate(basic.Str("fluctuationsRatio"), direction),
		ChangeDirection: direction,
		PrevClose:       fields.First("lastClosePrice", "basePrice"),
		OpenPrice:       fields.Get("openPrice"),
		HighPrice:       fields.Get("highPrice"),
		LowPrice:        fields.Get("lowPrice"),

		Volume:       fields.Get("accumulatedTradingVolume"),
		TradingValue: fields.Get("accumulatedTradingValue"),
		MarketCap:    fields.Get("marketValue"),
		ForeignRate:  fields.Get("foreignRate"),

		PER:              fields.Get("per"),
		EPS:              fields.Get("eps"),
		EstimatedPER:     fields.Get("cnsPer"),
		EstimatedEPS:     fields.Get("cnsEps"),
		PBR:              fields.Get("pbr"),
		BPS:              fields.Get("bps"),
		DividendYield:    fields.Get("dividendYieldRatio"),
		DividendPerShare: fields.Get("dividend"),

		High52W: fields.Get("highPriceOf52Weeks"),
		Low52W:  fields.Get("lowPriceOf52Weeks"),

		Industry:  basic.Map("industryCodeType").Str("industryGroupKor"),
		Currency:  basic.Map("currencyType").Str("code"),
		AsOf:      basic.Str("localTradedAt"),
		SourceURL: sourceURL,
	}

	if consensus := integration.Map("consensusInfo"); consensus != nil {
		report.TargetPrice = consensus.Str("priceTargetMean")
		report.AnalystRating = ratingText(consensus.Str("recommMean"))
	}

	report.DealTrends = extractDealTrends(integration)
	report.RecentNews = extractLinkedItems(integration, newsListKeys)
	report.RecentReports = extractLinkedItems(integration, reportListKeys)

	report.Chart = buildChartSeries(basic, integration, report.PrevClose, report.CurrentPrice, report.DealTrends)

	return report
}

// buildInfoTable builds the field-code lookup from the market-dependent
// "total infos" list: domestic payloads carry it on integration, world
// payloads on basic.
func buildInfoTable(basic, integration models.Payload, world bool) models.FieldTable {
	var rows []models.Payload
	if world {
		rows = basic.List("stockItemTotalInfos")
	}
	if integrationRows := integration.List("totalInfos"); len(integrationRows) > 0 {
		rows = integrationRows
	}
	return models.BuildFieldTable(rows)
}

// extractDealTrends normalizes investor net-buy rows from the integration
// payload, capped to roughly six weeks of sessions.
func extractDealTrends(integration models.Payload) []models.DealTrendRow {
	raw := integration.List("dealTrendInfos")
	if len(raw) > maxDealTrendRows {
		raw = raw[:maxDealTrendRows]
	}

	trends := make([]models.DealTrendRow, 0, len(raw))
	for _, row := range raw {
		trends = append(trends, models.DealTrendRow{
			Date:        row.Str("bizdate"),
			Foreign:     row.Str("foreignerPureBuyQuant"),
			Institution: row.Str("organPureBuyQuant"),
			Individual:  row.Str("individualPureBuyQuant"),
		})
	}
	return trends
}

// extractLinkedItems scans candidate list fields for title-bearing rows,
// deduplicates by normalized title, and keeps source order across the
// scanned fields. Research-style lists get their URL backfilled from a
// numeric id when absent.
func extractLinkedItems(integration models.Payload, listKeys []string) []models.LinkedItem {
	if integration == nil {
		return nil
	}

	var items []models.LinkedItem
	seenTitles := make(map[string]bool)

	for _, listKey := range listKeys {
		for _, row := range integration.List(listKey) {
			title := row.FirstStr(itemTitleKeys...)
			if title == "" {
				continue
			}

			normalizedTitle := strings.ToLower(whitespacePattern.ReplaceAllString(strings.TrimSpace(title), " "))
			if seenTitles[normalizedTitle] {
				continue
			}
			seenTitles[normalizedTitle] = true

			itemURL := row.FirstStr(itemURLKeys...)
			if itemURL == "" && isReportLikeKey(listKey) {
				if id := row.FirstStr("id", "nid"); id != "" {
					itemURL = fmt.Sprintf(reportReadURL, id)
				}
			}

			items = append(items, models.LinkedItem{
				Title:  title,
				URL:    itemURL,
				Date:   row.FirstStr(itemDateKeys...),
				Source: row.FirstStr(itemSourceKeys...),
			})

			if len(items) >= maxLinkedItems {
				return items
			}
		}
	}

	return items
}

func isReportLikeKey(listKey string) bool {
	return listKey == "researches" || listKey == "reports"
}

// formatChangeValue prefixes the change magnitude with a sign inferred from
// the direction indicator when the upstream value lacks one. A zero or
// missing magnitude formats as "0" only when upstream reported "0".
func formatChangeValue(value, direction string) string {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return ""
	}
	if raw == "0" {
		return "0"
	}
	if strings.HasPrefix(raw, "+") || strings.HasPrefix(raw, "-") {
		return raw
	}
	switch direction {
	case directionFalling:
		return "-" + raw
	case directionRising:
		return "+" + raw
	}
	return raw
}

// formatRate signs the rate from the direction indicator when needed and
// guarantees a trailing %.
func formatRate(rate, direction string) string {
	raw := strings.TrimSpace(rate)
	if raw == "" {
		return ""
	}
	if !strings.HasPrefix(raw, "+") && !strings.HasPrefix(raw, "-") {
		switch direction {
		case directionFalling:
			raw = "-" + raw
		case directionRising:
			raw = "+" + raw
		}
	}
	if !strings.HasSuffix(raw, "%") {
		raw += "%"
	}
	return raw
}

// ratingText maps a mean consensus score to the 5-bucket textual rating.
// Non-numeric input yields no rating.
func ratingText(value string) string {
	rating, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return ""
	}
	switch {
	case rating >= 4.5:
		return "적극매수"
	case rating >= 3.5:
		return "매수"
	case rating >= 2.5:
		return "중립"
	case rating >= 1.5:
		return "매도"
	default:
		return "적극매도"
	}
}
