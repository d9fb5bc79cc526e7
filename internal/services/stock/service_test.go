package stock

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SaesolAhn/KB-infodigest/internal/models"
)

func TestGetStockInfo_DomesticByName(t *testing.T) {
	client := &mockClient{
		candidates: map[string][]models.SearchCandidate{
			"삼성전자": {samsung},
		},
		basic:       domesticBasicFixture(),
		integration: domesticIntegrationFixture(),
	}

	report, err := newTestService(client).GetStockInfo(context.Background(), " 삼성전자 ")
	require.NoError(t, err)

	assert.Equal(t, "삼성전자", report.RequestedQuery)
	assert.Equal(t, "005930", report.Code)
	assert.Equal(t, "삼성전자", report.Name)
	assert.Equal(t, "181,200", report.CurrentPrice)
	assert.Equal(t, "+2,600", report.ChangeValue)
	assert.Equal(t, "매수", report.AnalystRating)
	assert.Equal(t, "https://stock.naver.com/domestic/stock/005930", report.SourceURL)
	assert.Empty(t, report.SearchNote)
}

func TestGetStockInfo_SearchNotePropagates(t *testing.T) {
	client := &mockClient{
		candidates: map[string][]models.SearchCandidate{
			"삼성전저": {samsung},
		},
		basic: domesticBasicFixture(),
	}

	report, err := newTestService(client).GetStockInfo(context.Background(), "삼성전저")
	require.NoError(t, err)

	assert.Contains(t, report.SearchNote, "입력 보정")
}

func TestGetStockInfo_NameFilledFromSearch(t *testing.T) {
	client := &mockClient{
		candidates: map[string][]models.SearchCandidate{
			"삼성전자": {samsung},
		},
		basic: models.Payload{"closePrice": "181,200"},
	}

	report, err := newTestService(client).GetStockInfo(context.Background(), "삼성전자")
	require.NoError(t, err)

	assert.Equal(t, "삼성전자", report.Name, "search name replaces the placeholder")
	assert.Equal(t, "KOSPI", report.Market)
}

func TestGetStockInfo_BasicFetchFailure(t *testing.T) {
	client := &mockClient{basicErr: errors.New("status 500")}

	_, err := newTestService(client).GetStockInfo(context.Background(), "005930")
	require.Error(t, err)

	var upstream *models.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "005930", upstream.Code)
	assert.Equal(t, "basic", upstream.Endpoint)
}

func TestGetStockInfo_IntegrationFailureDegrades(t *testing.T) {
	client := &mockClient{
		basic:          domesticBasicFixture(),
		integrationErr: errors.New("status 404"),
	}

	report, err := newTestService(client).GetStockInfo(context.Background(), "005930")
	require.NoError(t, err)

	assert.Equal(t, "181,200", report.CurrentPrice)
	assert.Empty(t, report.DealTrends)
	assert.Empty(t, report.RecentNews)
	assert.Empty(t, report.TargetPrice)
}

func TestGetStockInfo_WorldTicker(t *testing.T) {
	client := &mockClient{
		basic: models.Payload{
			"stockName":  "엔비디아",
			"closePrice": "186.94",
			"stockItemTotalInfos": []any{
				infoRow("basePrice", "191.07"),
			},
		},
	}

	report, err := newTestService(client).GetStockInfo(context.Background(), "NVDA.O")
	require.NoError(t, err)

	assert.Equal(t, "NVDA.O", report.Code)
	assert.Equal(t, "191.07", report.PrevClose)
	assert.Equal(t, "https://stock.naver.com/worldstock/stock/NVDA.O", report.SourceURL)
}

func TestGetStockInfo_ResolutionErrorsPassThrough(t *testing.T) {
	_, err := newTestService(&mockClient{}).GetStockInfo(context.Background(), "")

	var invalid *models.InvalidInputError
	assert.ErrorAs(t, err, &invalid)
}
