package parser

import (
	"regexp"
	"strings"

	"github.com/mikey/phishing-detector/internal/core"
)

var (
	receivedFromPattern = regexp.MustCompile(`from\s+(\S+)`)
	receivedByPattern   = regexp.MustCompile(`by\s+(\S+)`)
)

// parseReceived extracts the relay hop fields from a single Received header
// value. A field whose pattern is not found is left empty, never an error.
func parseReceived(header string) core.ReceivedHop {
	hop := core.ReceivedHop{}

	if m := receivedFromPattern.FindStringSubmatch(header); m != nil {
		hop.From = m[1]
	}
	if m := receivedByPattern.FindStringSubmatch(header); m != nil {
		hop.By = m[1]
	}
	if idx := strings.LastIndex(header, ";"); idx >= 0 {
		hop.Timestamp = strings.TrimSpace(header[idx+1:])
	}

	return hop
}
