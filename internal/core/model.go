package core

import (
	"time"
)

// Verdict sources, recorded so callers can tell a full-model verdict from a
// degraded one.
const (
	SourceModel     = "model"
	SourceHeuristic = "heuristic"
	SourceCache     = "cache"
	SourceWhitelist = "whitelist"
)

// ParsedEmail is the structured representation of a raw email message
type ParsedEmail struct {
	Headers     map[string]string
	Received    []ReceivedHop
	Text        string
	URLs        []string
	Attachments []Attachment
	Metadata    EmailMetadata
}

// ReceivedHop represents one relay hop extracted from a Received header
type ReceivedHop struct {
	From      string
	By        string
	Timestamp string
}

// Attachment represents metadata about an email attachment
type Attachment struct {
	Filename    string
	ContentType string
	Size        int
}

// EmailMetadata holds content and authentication metadata for a message
type EmailMetadata struct {
	ContentType             string
	Charset                 string
	ContentTransferEncoding string
	SPFResult               string
	DKIMSignaturePresent    bool
	AuthenticationResults   string
}

// ExtractedFeatures is the lightweight feature set computed at the request
// boundary
type ExtractedFeatures struct {
	Text             string
	URLs             []string
	URLCount         int
	HasSuspiciousTLD bool
	HasURLShortener  bool
	HasMultipleFrom  bool
	HasMultipleTo    bool
	HasSubject       bool
	HasReplyTo       bool
}

// EmailFeatures is the minimal feature view consumed by the classifier
type EmailFeatures struct {
	Text string
	URLs []string
}

// Features returns the classifier view of a parsed email
func (p *ParsedEmail) Features() *EmailFeatures {
	return &EmailFeatures{Text: p.Text, URLs: p.URLs}
}

// Features returns the classifier view of the extracted features
func (f *ExtractedFeatures) Features() *EmailFeatures {
	return &EmailFeatures{Text: f.Text, URLs: f.URLs}
}

// Verdict represents the result of classifying an email
type Verdict struct {
	IsPhishing bool
	// Confidence is the maximum class probability for model verdicts, and
	// the raw heuristic score (uncapped, may exceed 1.0) for heuristic
	// verdicts.
	Confidence float64
	Source     string
	AnalyzedAt time.Time
}

// Explanation represents the human-readable rationale for a verdict
type Explanation struct {
	SuspiciousPatterns []string
	URLAnalysis        []string
	TopFeatures        []FeatureWeight
}

// FeatureWeight represents a named feature and its importance
type FeatureWeight struct {
	Feature    string
	Importance float64
}

// AnalysisResult bundles the verdict with the features it was derived from
type AnalysisResult struct {
	Verdict  Verdict
	Parsed   *ParsedEmail
	Features ExtractedFeatures
}

// CacheEntry represents a cached verdict keyed by message digest
type CacheEntry struct {
	Digest     string
	IsPhishing bool
	Confidence float64
	LastSeen   time.Time
	ExpiresAt  time.Time
}
