package models

import (
	"fmt"
	"strings"
)

// InvalidInputError indicates an empty or unusable query string. Terminal:
// the user must resupply input.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return e.Reason
}

// NotFoundError indicates that no listed stock matched the query, even after
// the fallback search. Terminal for this query.
type NotFoundError struct {
	Query string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no listed stock found for %q: try a stock name, 6-digit code, world ticker (e.g. NVDA.O), or stock.naver.com URL", e.Query)
}

// AmbiguousError carries the top-ranked candidates when no single candidate
// scored confidently. Recoverable: the caller prompts the user and resolves
// again with the chosen code, which bypasses search entirely.
type AmbiguousError struct {
	Query      string
	Candidates []SearchCandidate // at most 3, descending score order
}

func (e *AmbiguousError) Error() string {
	suggestions := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		suggestions[i] = fmt.Sprintf("%s(%s)", c.Name, c.Code)
	}
	return fmt.Sprintf("no confident match for %q, did you mean: %s", e.Query, strings.Join(suggestions, ", "))
}

// UpstreamError indicates the required basic-data fetch failed. The call is
// terminal but the caller may retry the whole request.
type UpstreamError struct {
	Code     string
	Endpoint string
	Err      error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upstream fetch failed for %q (%s): %v", e.Code, e.Endpoint, e.Err)
	}
	return fmt.Sprintf("upstream fetch failed for %q (%s)", e.Code, e.Endpoint)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
