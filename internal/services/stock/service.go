package stock

import (
	"context"
	"strings"
	"sync"

	"github.com/SaesolAhn/KB-infodigest/internal/common"
	"github.com/SaesolAhn/KB-infodigest/internal/interfaces"
	"github.com/SaesolAhn/KB-infodigest/internal/models"
)

// Service resolves stock queries against the upstream search index and
// normalizes quote data into reports. Stateless between calls; the only
// shared resource is the client's pooled HTTP connection.
type Service struct {
	client interfaces.MarketDataClient
	logger *common.Logger
}

// NewService creates a new stock service.
func NewService(client interfaces.MarketDataClient, logger *common.Logger) *Service {
	return &Service{
		client: client,
		logger: logger,
	}
}

// GetStockInfo resolves a raw query and fetches a normalized report for the
// matched security.
func (s *Service) GetStockInfo(ctx context.Context, query string) (*models.StockReport, error) {
	query = strings.TrimSpace(query)

	resolution, err := s.ResolveQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	report, err := s.fetchReport(ctx, resolution)
	if err != nil {
		return nil, err
	}

	report.RequestedQuery = query
	report.SearchNote = resolution.SearchNote

	// Search metadata fills identity gaps the quote payloads leave.
	if resolution.MatchedName != "" && (report.Name == "" || strings.HasPrefix(report.Name, "Stock ")) {
		report.Name = resolution.MatchedName
	}
	if resolution.Market != "" && report.Market == "" {
		report.Market = resolution.Market
	}

	return report, nil
}

// fetchReport fetches the basic and integration payloads for a resolution
// and normalizes them. The two GETs run concurrently; only the basic
// payload is required.
func (s *Service) fetchReport(ctx context.Context, resolution *models.StockResolution) (*models.StockReport, error) {
	code := resolution.Code
	world := resolution.IsWorld

	var (
		wg          sync.WaitGroup
		basic       models.Payload
		integration models.Payload
		basicErr    error
		integErr    error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		basic, basicErr = s.client.GetBasic(ctx, code, world)
	}()
	go func() {
		defer wg.Done()
		integration, integErr = s.client.GetIntegration(ctx, code, world)
	}()
	wg.Wait()

	if basicErr != nil {
		return nil, &models.UpstreamError{Code: code, Endpoint: "basic", Err: basicErr}
	}

	if integErr != nil {
		// Supplementary data only; its absence degrades the report.
		s.logger.Debug().Err(integErr).Str("code", code).Msg("Integration fetch failed, continuing with basic data")
		integration = nil
	}

	return buildReport(basic, integration, code, world, s.client.DetailURL(code, world)), nil
}

// Ensure Service implements StockService
var _ interfaces.StockService = (*Service)(nil)
