package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

type fakeParser struct {
	parsed *ParsedEmail
}

func (f *fakeParser) Parse(raw []byte) *ParsedEmail {
	if f.parsed != nil {
		return f.parsed
	}
	return &ParsedEmail{Headers: map[string]string{}, Text: string(raw), URLs: []string{}}
}

type fakeExtractor struct{}

func (f *fakeExtractor) Extract(content string) ExtractedFeatures {
	return ExtractedFeatures{Text: content}
}

type fakeClassifier struct {
	verdict  Verdict
	predicts int
}

func (f *fakeClassifier) Predict(features *EmailFeatures) Verdict {
	f.predicts++
	return f.verdict
}

func (f *fakeClassifier) Explain(features *EmailFeatures) Explanation {
	return Explanation{SuspiciousPatterns: []string{"pattern"}}
}

type fakeCache struct {
	entries map[string]*CacheEntry
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]*CacheEntry{}}
}

var errCacheMiss = errors.New("cache miss")

func (f *fakeCache) Get(ctx context.Context, digest string) (*CacheEntry, error) {
	if entry, ok := f.entries[digest]; ok {
		return entry, nil
	}
	return nil, errCacheMiss
}

func (f *fakeCache) Set(ctx context.Context, entry *CacheEntry) error {
	f.entries[entry.Digest] = entry
	f.sets++
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, digest string) error {
	delete(f.entries, digest)
	return nil
}

func (f *fakeCache) Cleanup(ctx context.Context) error { return nil }

func testDigest(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

func TestAnalyze_WhitelistBypass(t *testing.T) {
	cls := &fakeClassifier{verdict: Verdict{IsPhishing: true, Confidence: 0.9, Source: SourceModel}}
	svc := NewAnalysisService(
		&fakeParser{parsed: &ParsedEmail{
			Headers: map[string]string{"from": "Boss <boss@corp.com>"},
			URLs:    []string{},
		}},
		&fakeExtractor{},
		cls,
		newFakeCache(),
		zap.NewNop(),
		true,
		time.Hour,
		[]string{"corp.com"},
	)

	result := svc.Analyze(context.Background(), []byte("raw message"))

	if result.Verdict.IsPhishing {
		t.Error("whitelisted sender should never be flagged")
	}
	if result.Verdict.Source != SourceWhitelist {
		t.Errorf("Source = %q, want %q", result.Verdict.Source, SourceWhitelist)
	}
	if result.Verdict.Confidence != 1.0 {
		t.Errorf("Confidence = %v, want 1.0", result.Verdict.Confidence)
	}
	if cls.predicts != 0 {
		t.Error("classifier should not run for whitelisted senders")
	}
}

func TestAnalyze_CacheHit(t *testing.T) {
	raw := []byte("raw message")
	cache := newFakeCache()
	cache.entries[testDigest(raw)] = &CacheEntry{
		Digest:     testDigest(raw),
		IsPhishing: true,
		Confidence: 0.77,
		ExpiresAt:  time.Now().Add(time.Hour),
	}

	cls := &fakeClassifier{verdict: Verdict{Source: SourceModel}}
	svc := NewAnalysisService(&fakeParser{}, &fakeExtractor{}, cls, cache, zap.NewNop(), true, time.Hour, nil)

	result := svc.Analyze(context.Background(), raw)

	if result.Verdict.Source != SourceCache {
		t.Errorf("Source = %q, want %q", result.Verdict.Source, SourceCache)
	}
	if !result.Verdict.IsPhishing || result.Verdict.Confidence != 0.77 {
		t.Errorf("verdict = %+v", result.Verdict)
	}
	if cls.predicts != 0 {
		t.Error("classifier should not run on a cache hit")
	}
}

func TestAnalyze_CacheMissStoresVerdict(t *testing.T) {
	raw := []byte("raw message")
	cache := newFakeCache()
	cls := &fakeClassifier{verdict: Verdict{IsPhishing: true, Confidence: 0.9, Source: SourceModel}}
	svc := NewAnalysisService(&fakeParser{}, &fakeExtractor{}, cls, cache, zap.NewNop(), true, time.Hour, nil)

	result := svc.Analyze(context.Background(), raw)

	if result.Verdict.Source != SourceModel {
		t.Errorf("Source = %q, want %q", result.Verdict.Source, SourceModel)
	}
	if cls.predicts != 1 {
		t.Errorf("predicts = %d, want 1", cls.predicts)
	}
	if cache.sets != 1 {
		t.Errorf("cache.sets = %d, want 1", cache.sets)
	}
	stored := cache.entries[testDigest(raw)]
	if stored == nil || !stored.IsPhishing || stored.Confidence != 0.9 {
		t.Errorf("stored entry = %+v", stored)
	}
}

func TestAnalyze_CacheDisabled(t *testing.T) {
	cache := newFakeCache()
	cls := &fakeClassifier{verdict: Verdict{Source: SourceModel}}
	svc := NewAnalysisService(&fakeParser{}, &fakeExtractor{}, cls, cache, zap.NewNop(), false, 0, nil)

	svc.Analyze(context.Background(), []byte("raw message"))

	if cache.sets != 0 {
		t.Error("disabled cache should never be written")
	}
	if cls.predicts != 1 {
		t.Errorf("predicts = %d, want 1", cls.predicts)
	}
}

func TestIsDomainWhitelisted(t *testing.T) {
	svc := NewAnalysisService(&fakeParser{}, &fakeExtractor{}, &fakeClassifier{}, nil, zap.NewNop(), false, 0, []string{"corp.com"})

	tests := []struct {
		from string
		want bool
	}{
		{"boss@corp.com", true},
		{"Boss <boss@corp.com>", true},
		{"boss@CORP.COM", true},
		{"boss@evil.com", false},
		{"no-at-sign", false},
		{"two@ats@corp.com", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := svc.isDomainWhitelisted(tt.from); got != tt.want {
			t.Errorf("isDomainWhitelisted(%q) = %v, want %v", tt.from, got, tt.want)
		}
	}
}

func TestExplain_DelegatesToClassifier(t *testing.T) {
	svc := NewAnalysisService(&fakeParser{}, &fakeExtractor{}, &fakeClassifier{}, nil, zap.NewNop(), false, 0, nil)

	explanation := svc.Explain([]byte("anything"))
	if len(explanation.SuspiciousPatterns) != 1 || explanation.SuspiciousPatterns[0] != "pattern" {
		t.Errorf("explanation = %+v", explanation)
	}
}
