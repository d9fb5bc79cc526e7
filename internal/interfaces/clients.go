// Package interfaces defines service contracts for KB-infodigest
package interfaces

import (
	"context"

	"github.com/SaesolAhn/KB-infodigest/internal/models"
)

// MarketDataClient provides access to the upstream stock JSON APIs.
type MarketDataClient interface {
	// Search queries the autocomplete endpoint for stock candidates.
	// Candidates are deduplicated by resolved key in first-seen order.
	Search(ctx context.Context, query string) ([]models.SearchCandidate, error)

	// GetBasic retrieves the basic payload for a resolved code.
	GetBasic(ctx context.Context, code string, world bool) (models.Payload, error)

	// GetIntegration retrieves the supplementary integration payload.
	GetIntegration(ctx context.Context, code string, world bool) (models.Payload, error)

	// DetailURL returns the public detail-page URL for a resolved code.
	DetailURL(code string, world bool) string
}
