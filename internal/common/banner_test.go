package common

import "testing"

// Banner output is cosmetic; these guard the wiring against the banner
// package's exported surface changing between versions.
func TestPrintBanner(t *testing.T) {
	PrintBanner(NewDefaultConfig(), NewSilentLogger())
}

func TestPrintShutdownBanner(t *testing.T) {
	PrintShutdownBanner(NewSilentLogger())
}
