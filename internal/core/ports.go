package core

import (
	"context"
	"errors"
)

// ErrModelNotFound is returned by a ModelStore when no artifact has been
// persisted yet. This is an expected condition and triggers bootstrap
// training.
var ErrModelNotFound = errors.New("no persisted model found")

// EmailParser converts raw email content into a structured representation.
// Implementations must never fail: malformed input degrades to partial or
// empty fields.
type EmailParser interface {
	Parse(raw []byte) *ParsedEmail
}

// FeatureExtractor computes the lightweight boundary feature set from raw
// email text. Implementations must never fail for any string input.
type FeatureExtractor interface {
	Extract(content string) ExtractedFeatures
}

// EmailClassifier produces verdicts and explanations from email features
type EmailClassifier interface {
	// Predict classifies the features as phishing or legitimate. It always
	// returns a verdict, falling back to heuristic scoring when the trained
	// model is unavailable or fails.
	Predict(features *EmailFeatures) Verdict

	// Explain produces the rationale for the features. It is independent of
	// Predict and never consults the trained model.
	Explain(features *EmailFeatures) Explanation
}

// CacheRepository defines the interface for caching verdicts by message
// digest
type CacheRepository interface {
	// Get retrieves a cached entry for a message digest
	Get(ctx context.Context, digest string) (*CacheEntry, error)

	// Set stores a cache entry
	Set(ctx context.Context, entry *CacheEntry) error

	// Delete removes a cache entry
	Delete(ctx context.Context, digest string) error

	// Cleanup removes expired entries
	Cleanup(ctx context.Context) error
}

// ModelStore persists the serialized classifier artifact
type ModelStore interface {
	// Load returns the persisted artifact, or ErrModelNotFound when none
	// exists
	Load() ([]byte, error)

	// Save persists the artifact, overwriting any previous one
	Save(artifact []byte) error
}
