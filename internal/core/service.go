package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"go.uber.org/zap"
)

// AnalysisService is the core service for phishing detection
type AnalysisService struct {
	parser             EmailParser
	extractor          FeatureExtractor
	classifier         EmailClassifier
	cache              CacheRepository
	logger             *zap.Logger
	cacheEnabled       bool
	cacheTTL           time.Duration
	whitelistedDomains []string
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(
	parser EmailParser,
	extractor FeatureExtractor,
	classifier EmailClassifier,
	cache CacheRepository,
	logger *zap.Logger,
	cacheEnabled bool,
	cacheTTL time.Duration,
	whitelistedDomains []string,
) *AnalysisService {
	return &AnalysisService{
		parser:             parser,
		extractor:          extractor,
		classifier:         classifier,
		cache:              cache,
		logger:             logger,
		cacheEnabled:       cacheEnabled,
		cacheTTL:           cacheTTL,
		whitelistedDomains: whitelistedDomains,
	}
}

// isDomainWhitelisted checks if the sender's domain is in the whitelist
func (s *AnalysisService) isDomainWhitelisted(from string) bool {
	parts := strings.Split(from, "@")
	if len(parts) != 2 {
		return false
	}

	domain := strings.ToLower(strings.TrimRight(parts[1], "> "))

	for _, whitelistedDomain := range s.whitelistedDomains {
		if strings.EqualFold(domain, whitelistedDomain) {
			return true
		}
	}

	return false
}

// digest returns the cache key for a raw message
func digest(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// Analyze classifies a raw email message. It always returns a result: every
// failure path degrades to a heuristic or cached verdict instead of an error.
func (s *AnalysisService) Analyze(ctx context.Context, raw []byte) *AnalysisResult {
	parsed := s.parser.Parse(raw)
	features := s.extractor.Extract(string(raw))

	// Check whitelist first
	if from, ok := parsed.Headers["from"]; ok && s.isDomainWhitelisted(from) {
		s.logger.Info("Skipping phishing check for whitelisted domain",
			zap.String("sender", from),
			zap.String("action", "whitelist_bypass"))

		return &AnalysisResult{
			Verdict: Verdict{
				IsPhishing: false,
				Confidence: 1.0,
				Source:     SourceWhitelist,
				AnalyzedAt: time.Now(),
			},
			Parsed:   parsed,
			Features: features,
		}
	}

	key := digest(raw)

	// Check cache if enabled
	if s.cacheEnabled {
		if entry, err := s.cache.Get(ctx, key); err == nil {
			s.logger.Debug("Cache hit for message", zap.String("digest", key))
			return &AnalysisResult{
				Verdict: Verdict{
					IsPhishing: entry.IsPhishing,
					Confidence: entry.Confidence,
					Source:     SourceCache,
					AnalyzedAt: time.Now(),
				},
				Parsed:   parsed,
				Features: features,
			}
		}
	}

	verdict := s.classifier.Predict(parsed.Features())

	// Update cache with result if enabled
	if s.cacheEnabled {
		entry := &CacheEntry{
			Digest:     key,
			IsPhishing: verdict.IsPhishing,
			Confidence: verdict.Confidence,
			LastSeen:   time.Now(),
			ExpiresAt:  time.Now().Add(s.cacheTTL),
		}
		if err := s.cache.Set(ctx, entry); err != nil {
			s.logger.Error("Failed to update cache", zap.Error(err))
		}
	}

	return &AnalysisResult{
		Verdict:  verdict,
		Parsed:   parsed,
		Features: features,
	}
}

// Explain produces the rationale for a raw email message without
// classifying it
func (s *AnalysisService) Explain(raw []byte) Explanation {
	parsed := s.parser.Parse(raw)
	return s.classifier.Explain(parsed.Features())
}
