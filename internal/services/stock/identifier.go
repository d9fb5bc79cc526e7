// Package stock implements stock query resolution and quote normalization
package stock

import (
	"net/url"
	"regexp"
	"strings"
)

// Symbol patterns accepted by the resolver. Domestic codes are 6-digit KRX
// codes (an "A" prefix from broker apps is tolerated). World symbols are
// dotted Reuters-style tickers like NVDA.O or 7203.T.
var (
	domesticCodePattern = regexp.MustCompile(`^A?(\d{6})$`)
	worldSymbolPattern  = regexp.MustCompile(`^[A-Z0-9]{1,12}(?:\.[A-Z0-9]{1,8})+$`)

	// Embedded codes must not borrow digits from longer runs or sit flush
	// against Hangul or ASCII word characters.
	embeddedCodePattern = regexp.MustCompile(`(?:^|[^0-9A-Za-z_가-힣])(\d{6})(?:[^0-9A-Za-z_가-힣]|$)`)

	worldPathPattern          = regexp.MustCompile(`(?i)/worldstock/stock/([^/?#]+)`)
	domesticPathPattern       = regexp.MustCompile(`(?i)/domestic/stock/([^/?#]+)`)
	legacyDomesticPathPattern = regexp.MustCompile(`(?i)/domestic/(\d{6})(?:/|$)`)
)

// hosts recognized as marketplace stock detail pages
var stockHosts = map[string]bool{
	"stock.naver.com":   true,
	"m.stock.naver.com": true,
	"finance.naver.com": true,
}

// ExtractSymbol parses raw input into a direct security identifier. It
// returns the symbol and whether it is a world (international) symbol; ok is
// false when the input needs a name search instead. Pure parsing, never errors.
func ExtractSymbol(raw string) (symbol string, world bool, ok bool) {
	raw = strings.TrimSpace(raw)

	if direct := NormalizeIdentifier(raw); direct != "" {
		return direct, IsWorldSymbol(direct), true
	}

	// A 6-digit code embedded in free text, as long as the text is not a URL.
	if !IsWebURL(raw) {
		if m := embeddedCodePattern.FindStringSubmatch(raw); m != nil {
			return m[1], false, true
		}
		return "", false, false
	}

	if !IsMarketplaceStockURL(raw) {
		return "", false, false
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", false, false
	}
	path := parsed.EscapedPath()
	if unescaped, err := url.PathUnescape(path); err == nil {
		path = unescaped
	}

	if m := worldPathPattern.FindStringSubmatch(path); m != nil {
		if sym := NormalizeIdentifier(m[1]); sym != "" {
			return sym, true, true
		}
	}

	if m := domesticPathPattern.FindStringSubmatch(path); m != nil {
		if sym := NormalizeIdentifier(m[1]); sym != "" {
			return sym, IsWorldSymbol(sym), true
		}
	}

	if m := legacyDomesticPathPattern.FindStringSubmatch(path); m != nil {
		return m[1], false, true
	}

	if code := parsed.Query().Get("code"); code != "" {
		if sym := NormalizeIdentifier(strings.TrimSpace(code)); sym != "" {
			return sym, IsWorldSymbol(sym), true
		}
	}

	return "", false, false
}

// NormalizeIdentifier validates and canonicalizes a full-string identifier:
// domestic codes lose their optional "A" prefix, world symbols are
// uppercased. Returns "" when the input is not an identifier.
func NormalizeIdentifier(value string) string {
	cleaned := strings.ToUpper(strings.TrimSpace(value))
	if m := domesticCodePattern.FindStringSubmatch(cleaned); m != nil {
		return m[1]
	}
	if worldSymbolPattern.MatchString(cleaned) {
		return cleaned
	}
	return ""
}

// IsWorldSymbol reports whether the symbol matches the dotted world ticker
// shape.
func IsWorldSymbol(symbol string) bool {
	return worldSymbolPattern.MatchString(strings.ToUpper(strings.TrimSpace(symbol)))
}

// IsWebURL reports whether the string is an absolute http(s) URL.
func IsWebURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

// IsMarketplaceStockURL reports whether the URL points at a recognized stock
// detail page host.
func IsMarketplaceStockURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	host = strings.TrimPrefix(host, "www.")
	return stockHosts[host]
}
