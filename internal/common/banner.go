package common

import (
	"fmt"
	"os"
	"strings"

	"github.com/ternarybob/banner"
)

// PrintBanner displays the client startup banner to stderr.
func PrintBanner(config *Config, sessionPath string) {
	lineColor := banner.ColorCyan
	textColor := banner.ColorBold + banner.ColorWhite
	width := 64
	hr := lineColor + strings.Repeat("═", width) + banner.ColorReset

	art := []string{
		` 888888b.    .d88888b.  8888888b. 88888888888     d8888 888`,
		` 888  "88b  d88P" "Y88b 888   Y88b    888        d88888 888`,
		` 888  .88P  888     888 888    888    888       d88P888 888`,
		` 8888888K.  888     888 888   d88P    888      d88P 888 888`,
		` 888  "Y88b 888     888 8888888P"     888     d88P  888 888`,
		` 888    888 888     888 888 T88b      888    d88P   888 888`,
		` 888   d88P Y88b. .d88P 888  T88b     888   d8888888888 888`,
		` 8888888P"   "Y88888P"  888   T88b    888  d88P     888 88888888`,
	}

	fmt.Fprintf(os.Stderr, "\n%s\n\n", hr)
	for _, line := range art {
		fmt.Fprintf(os.Stderr, "%s%s%s\n", textColor, line, banner.ColorReset)
	}
	fmt.Fprintf(os.Stderr, "\n%s  Borsa Istanbul Portal — Terminal Client%s\n\n%s\n\n", textColor, banner.ColorReset, hr)

	kvPad := 14
	kvLines := [][2]string{
		{"Version", GetFullVersion()},
		{"Environment", config.Environment},
		{"API", config.Gateway.BaseURL},
		{"Session", sessionPath},
	}
	for _, kv := range kvLines {
		fmt.Fprintf(os.Stderr, "%s  %-*s %s%s\n", textColor, kvPad, kv[0], kv[1], banner.ColorReset)
	}

	fmt.Fprintf(os.Stderr, "\n")
}
