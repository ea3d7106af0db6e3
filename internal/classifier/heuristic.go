package classifier

import (
	"strings"

	"github.com/mikey/phishing-detector/internal/core"
)

// heuristicThreshold is the additive score at which a message is labeled
// phishing
const heuristicThreshold = 0.5

var (
	urgentKeywords      = []string{"urgent", "immediate", "suspended", "verify", "blocked"}
	credentialKeywords  = []string{"password", "login"}
	terminationKeywords = []string{"suspended", "terminated", "deleted"}

	// heuristicTLDs are matched as URL suffixes, unlike the feature
	// extractor's host parse
	heuristicTLDs = []string{".tk", ".ml", ".ga", ".cf", ".gq"}
)

// containsAny reports whether text contains at least one of the given
// keywords
func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

// HeuristicPredict scores features with deterministic additive rules. It is
// the fallback used whenever the trained model is unavailable or fails.
// The urgency and termination checks overlap on "suspended" and both fire
// additively. The returned score is uncapped and may exceed 1.0.
func HeuristicPredict(features *core.EmailFeatures) (bool, float64) {
	score := 0.0
	text := strings.ToLower(features.Text)

	if containsAny(text, urgentKeywords) {
		score += 0.3
	}
	if containsAny(text, credentialKeywords) {
		score += 0.3
	}
	if containsAny(text, terminationKeywords) {
		score += 0.2
	}

	for _, u := range features.URLs {
		lower := strings.ToLower(u)
		suspicious := false
		for _, tld := range heuristicTLDs {
			if strings.HasSuffix(lower, tld) {
				suspicious = true
				break
			}
		}
		if suspicious {
			score += 0.2
			break
		}
	}

	return score >= heuristicThreshold, score
}
