package common

import (
	"fmt"
	"os"
	"strings"

	"github.com/ternarybob/banner"
)

const bannerRuleWidth = 60

// PrintBanner displays the application startup banner and logs the startup
// parameters.
func PrintBanner(config *Config, logger *Logger) {
	banner.PrintSimple("Infodigest", GetVersion())

	serviceURL := fmt.Sprintf("http://%s:%d", config.Server.Host, config.Server.Port)

	rule := strings.Repeat("-", bannerRuleWidth)
	fmt.Fprintln(os.Stderr, rule)
	fmt.Fprintln(os.Stderr, "  Stock Query Resolution & Quote Digest")
	fmt.Fprintf(os.Stderr, "  %-12s %s\n", "Version", GetFullVersion())
	fmt.Fprintf(os.Stderr, "  %-12s %s\n", "Environment", config.Environment)
	fmt.Fprintf(os.Stderr, "  %-12s %s\n", "Service URL", serviceURL)
	fmt.Fprintln(os.Stderr, rule)

	logger.Info().
		Str("version", GetVersion()).
		Str("build", GetBuild()).
		Str("commit", GetGitCommit()).
		Str("environment", config.Environment).
		Str("service_url", serviceURL).
		Msg("Application started")
}

// PrintShutdownBanner displays the application shutdown banner.
func PrintShutdownBanner(logger *Logger) {
	rule := strings.Repeat("-", bannerRuleWidth)
	fmt.Fprintln(os.Stderr, rule)
	fmt.Fprintln(os.Stderr, "  Infodigest shutting down")
	fmt.Fprintln(os.Stderr, rule)

	logger.Info().Msg("Application shutting down")
}
