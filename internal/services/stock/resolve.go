package stock

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/SaesolAhn/KB-infodigest/internal/models"
)

// Confidence thresholds for the fuzzy ranker. Kept as named constants so
// they can be tuned and tested independently of the control flow.
const (
	// acceptThreshold is the minimum score for the top candidate to be
	// auto-accepted when several candidates exist.
	acceptThreshold = 0.55
	// singleCandidateFloor is the lower bar applied when the search returned
	// exactly one candidate.
	singleCandidateFloor = 0.50
	// lengthPenaltyPerRune shaves similarity for length mismatch between
	// query and candidate name.
	lengthPenaltyPerRune = 0.02
	// maxAmbiguousCandidates caps how many candidates an AmbiguousError carries.
	maxAmbiguousCandidates = 3
)

// Heuristic scores for exact and partial matches. Values above 1.0 always
// clear the acceptance thresholds.
const (
	scoreExactCode    = 1.4
	scoreExactName    = 1.3
	scoreNamePrefix   = 1.05
	scoreNameContains = 0.98
)

// normalizeTextPattern strips everything outside alphanumerics and Hangul
// before comparisons.
var normalizeTextPattern = regexp.MustCompile(`[^0-9a-zA-Z가-힣]`)

func normalizeText(value string) string {
	return strings.ToLower(normalizeTextPattern.ReplaceAllString(value, ""))
}

// ResolveQuery resolves a raw query (name, code, ticker, or URL) to a single
// security. Name queries go through the search endpoint with typo-aware
// fuzzy ranking; direct identifiers bypass search entirely.
func (s *Service) ResolveQuery(ctx context.Context, query string) (*models.StockResolution, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, &models.InvalidInputError{
			Reason: "input is empty: supply a stock name, 6-digit code, world ticker, or stock.naver.com URL",
		}
	}

	if symbol, world, ok := ExtractSymbol(query); ok {
		resolution := &models.StockResolution{
			Code:    symbol,
			IsWorld: world,
		}
		if world {
			resolution.ReutersCode = symbol
		}
		return resolution, nil
	}

	candidates := s.searchCandidates(ctx, query)

	if len(candidates) == 0 {
		if fallback := buildFallbackQuery(query); fallback != "" && fallback != query {
			candidates = s.searchCandidates(ctx, fallback)
		}
	}

	if len(candidates) == 0 {
		return nil, &models.NotFoundError{Query: query}
	}

	best, ranked, ok := pickBestCandidate(query, candidates)
	if !ok {
		limit := maxAmbiguousCandidates
		if len(ranked) < limit {
			limit = len(ranked)
		}
		return nil, &models.AmbiguousError{Query: query, Candidates: ranked[:limit]}
	}

	note := ""
	normalizedQuery := normalizeText(query)
	normalizedName := normalizeText(best.Name)
	if normalizedQuery != "" && normalizedName != "" && normalizedQuery != normalizedName {
		note = fmt.Sprintf("입력 보정: '%s' -> '%s' (%s)", query, best.Name, best.Code)
	}

	world := isWorldCandidate(best)

	code := best.Code
	if best.ReutersCode != "" {
		code = best.ReutersCode
	}

	return &models.StockResolution{
		Code:        code,
		ReutersCode: best.ReutersCode,
		IsWorld:     world,
		MatchedName: best.Name,
		Market:      best.Market,
		SearchNote:  note,
	}, nil
}

// searchCandidates wraps the client search, absorbing transport and parse
// failures into an empty candidate list so the fallback logic downstream
// handles "nothing found" uniformly.
func (s *Service) searchCandidates(ctx context.Context, query string) []models.SearchCandidate {
	candidates, err := s.client.Search(ctx, query)
	if err != nil {
		s.logger.Warn().Err(err).Str("query", query).Msg("Stock search failed, treating as no candidates")
		return nil
	}
	return candidates
}

// pickBestCandidate returns the accepted candidate, or ok=false with all
// candidates ranked by descending score for the disambiguation prompt.
func pickBestCandidate(query string, candidates []models.SearchCandidate) (models.SearchCandidate, []models.SearchCandidate, bool) {
	if len(candidates) == 0 {
		return models.SearchCandidate{}, nil, false
	}

	// The search backend already ranks by relevance; trust its first result
	// for exact and prefix matches of the normalized query.
	normalizedQuery := normalizeText(query)
	first := candidates[0]
	firstName := normalizeText(first.Name)

	if normalizedQuery == firstName || strings.HasPrefix(firstName, normalizedQuery) {
		return first, nil, true
	}

	type scored struct {
		score     float64
		candidate models.SearchCandidate
	}

	ranked := make([]scored, len(candidates))
	for i, candidate := range candidates {
		ranked[i] = scored{
			score:     scoreCandidate(normalizedQuery, candidate),
			candidate: candidate,
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	bestScore := ranked[0].score
	best := ranked[0].candidate

	if len(ranked) == 1 && bestScore >= singleCandidateFloor {
		return best, nil, true
	}
	if bestScore >= acceptThreshold {
		return best, nil, true
	}

	ordered := make([]models.SearchCandidate, len(ranked))
	for i, r := range ranked {
		ordered[i] = r.candidate
	}
	return models.SearchCandidate{}, ordered, false
}

// scoreCandidate scores a candidate's relevance to the normalized query.
func scoreCandidate(normalizedQuery string, candidate models.SearchCandidate) float64 {
	name := normalizeText(candidate.Name)
	code := strings.ToLower(candidate.Code)

	if normalizedQuery == code {
		return scoreExactCode
	}
	if normalizedQuery != "" && normalizedQuery == name {
		return scoreExactName
	}
	if normalizedQuery != "" && strings.HasPrefix(name, normalizedQuery) {
		return scoreNamePrefix
	}
	if normalizedQuery != "" && strings.Contains(name, normalizedQuery) {
		return scoreNameContains
	}

	ratio := 0.0
	if normalizedQuery != "" {
		ratio = similarityRatio(normalizedQuery, name)
	}
	penalty := float64(abs(len([]rune(name))-len([]rune(normalizedQuery)))) * lengthPenaltyPerRune
	if score := ratio - penalty; score > 0 {
		return score
	}
	return 0
}

// similarityRatio is the longest-matching-blocks ratio over runes.
func similarityRatio(a, b string) float64 {
	matcher := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return matcher.Ratio()
}

// buildFallbackQuery builds the truncated retry query used when the full
// query found nothing: the first two runes of the normalized text.
func buildFallbackQuery(query string) string {
	normalized := []rune(normalizeText(query))
	if len(normalized) < 2 {
		return ""
	}
	return string(normalized[:2])
}

// isWorldCandidate decides whether a search candidate is an international
// security, reconciling the inconsistent markers the search rows carry.
func isWorldCandidate(candidate models.SearchCandidate) bool {
	if candidate.NationCode != "" && candidate.NationCode != "KOR" {
		return true
	}
	if candidate.ReutersCode != "" && IsWorldSymbol(candidate.ReutersCode) {
		return true
	}
	return isWorldMarketText(strings.ToUpper(candidate.Market))
}

var worldMarketKeywords = []string{
	"NASDAQ", "NYSE", "AMEX", "US", "WORLD", "GLOBAL", "해외", "나스닥", "뉴욕",
}

func isWorldMarketText(market string) bool {
	if market == "" {
		return false
	}
	for _, keyword := range worldMarketKeywords {
		if strings.Contains(market, keyword) {
			return true
		}
	}
	return false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
