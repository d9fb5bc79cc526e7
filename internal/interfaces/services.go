// Package interfaces defines service contracts for KB-infodigest
package interfaces

import (
	"context"

	"github.com/SaesolAhn/KB-infodigest/internal/models"
)

// StockService resolves free-text stock queries and produces normalized
// quote reports.
type StockService interface {
	// GetStockInfo resolves a raw query (name, code, ticker, or URL) and
	// fetches a normalized report for the matched security. Returns
	// *models.InvalidInputError, *models.NotFoundError,
	// *models.AmbiguousError, or *models.UpstreamError on failure; callers
	// branch with errors.As.
	GetStockInfo(ctx context.Context, query string) (*models.StockReport, error)

	// ResolveQuery resolves a raw query to a single security without
	// fetching quote data.
	ResolveQuery(ctx context.Context, query string) (*models.StockResolution, error)
}
