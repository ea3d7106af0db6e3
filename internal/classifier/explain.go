package classifier

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mikey/phishing-detector/internal/core"
)

var ipv4Pattern = regexp.MustCompile(`\d+\.\d+\.\d+\.\d+`)

// shortenerMarkers are matched as substrings anywhere in the URL, looser
// than the feature extractor's exact-host check
var shortenerMarkers = []string{"bit.ly", "tinyurl", "t.co"}

// topFeatureWeight is the constant importance assigned to each firing
// explanation feature; it is not derived from the trained model
const topFeatureWeight = 0.25

// explain builds the rationale for the given features from lexical and URL
// heuristics alone. The trained model is never consulted, so the narrative
// can disagree with a model-based verdict.
func explain(features *core.EmailFeatures) core.Explanation {
	return core.Explanation{
		SuspiciousPatterns: suspiciousPatterns(features),
		URLAnalysis:        analyzeURLs(features),
		TopFeatures:        topFeatures(features),
	}
}

// suspiciousPatterns returns human-readable strings for each lexical pattern
// present in the text
func suspiciousPatterns(features *core.EmailFeatures) []string {
	patterns := []string{}
	text := strings.ToLower(features.Text)

	if containsAny(text, []string{"urgent", "immediate", "suspended"}) {
		patterns = append(patterns, "Urgent or threatening language detected")
	}
	if containsAny(text, []string{"password", "login"}) {
		patterns = append(patterns, "Request for sensitive information detected")
	}
	if containsAny(text, []string{"verify your account", "confirm your identity"}) {
		patterns = append(patterns, "Account verification request detected")
	}
	if containsAny(text, []string{"24 hours", "limited time"}) {
		patterns = append(patterns, "Time pressure tactics detected")
	}

	return patterns
}

// analyzeURLs returns per-URL findings
func analyzeURLs(features *core.EmailFeatures) []string {
	analysis := []string{}

	for _, u := range features.URLs {
		lower := strings.ToLower(u)

		for _, tld := range heuristicTLDs {
			if strings.HasSuffix(lower, tld) {
				analysis = append(analysis, fmt.Sprintf("Suspicious domain extension detected: %s", u))
				break
			}
		}
		if containsAny(lower, shortenerMarkers) {
			analysis = append(analysis, fmt.Sprintf("URL shortener detected: %s", u))
		}
		if strings.HasPrefix(lower, "http://") {
			analysis = append(analysis, fmt.Sprintf("Insecure protocol (HTTP) used: %s", u))
		}
		if ipv4Pattern.MatchString(u) {
			analysis = append(analysis, fmt.Sprintf("IP-based URL detected: %s", u))
		}
	}

	return analysis
}

// topFeatures returns the fixed set of named boolean checks, each with a
// constant importance when its condition holds
func topFeatures(features *core.EmailFeatures) []core.FeatureWeight {
	text := strings.ToLower(features.Text)

	checks := []struct {
		name    string
		present bool
	}{
		{"urgent_language", containsAny(text, []string{"urgent", "immediate", "suspended"})},
		{"credential_request", containsAny(text, []string{"password", "login"})},
		{"threat_language", containsAny(text, []string{"suspended", "terminated"})},
		{"pressure_tactics", containsAny(text, []string{"24 hours", "limited time"})},
	}

	weights := []core.FeatureWeight{}
	for _, check := range checks {
		if check.present {
			weights = append(weights, core.FeatureWeight{
				Feature:    check.name,
				Importance: topFeatureWeight,
			})
		}
	}

	return weights
}
