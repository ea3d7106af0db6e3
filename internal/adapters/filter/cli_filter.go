package filter

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/phishing-detector/internal/core"
	"github.com/mikey/phishing-detector/internal/textutil"
)

// CliFilter implements a command-line interface for phishing detection
type CliFilter struct {
	service *core.AnalysisService
	logger  *zap.Logger
	verbose bool
}

// NewCliFilter creates a new CLI filter
func NewCliFilter(service *core.AnalysisService, logger *zap.Logger, verbose bool) (*CliFilter, error) {
	return &CliFilter{
		service: service,
		logger:  logger,
		verbose: verbose,
	}, nil
}

// ProcessEmail analyzes an email and displays the results
func (f *CliFilter) ProcessEmail(ctx context.Context, raw []byte) (*core.AnalysisResult, error) {
	f.logger.Debug("Processing email", zap.Int("size", len(raw)))

	startTime := time.Now()
	result := f.service.Analyze(ctx, raw)
	duration := time.Since(startTime)

	// Print email summary
	fmt.Printf("\n=== Email Summary ===\n")
	if from, ok := result.Parsed.Headers["from"]; ok {
		fmt.Printf("From: %s\n", from)
	}
	if subject, ok := result.Parsed.Headers["subject"]; ok {
		fmt.Printf("Subject: %s\n", subject)
	}
	fmt.Printf("Body length: %d bytes\n", len(result.Parsed.Text))
	fmt.Printf("URLs found: %d\n", len(result.Parsed.URLs))
	fmt.Printf("Attachments: %d\n", len(result.Parsed.Attachments))

	if f.verbose {
		preview := textutil.Truncate(result.Parsed.Text, 500)
		if len(preview) < len(result.Parsed.Text) {
			preview += "..."
		}
		fmt.Printf("\nBody preview:\n%s\n", preview)
	}

	// Print results
	fmt.Printf("\n=== Results ===\n")
	fmt.Printf("Is phishing: %t\n", result.Verdict.IsPhishing)
	fmt.Printf("Confidence: %.4f\n", result.Verdict.Confidence)
	fmt.Printf("Source: %s\n", result.Verdict.Source)
	fmt.Printf("Processing time: %v\n", duration)

	// Print explanation
	explanation := f.service.Explain(raw)
	if len(explanation.SuspiciousPatterns) > 0 {
		fmt.Printf("\nSuspicious patterns:\n")
		for _, p := range explanation.SuspiciousPatterns {
			fmt.Printf("  - %s\n", p)
		}
	}
	if len(explanation.URLAnalysis) > 0 {
		fmt.Printf("\nURL analysis:\n")
		for _, a := range explanation.URLAnalysis {
			fmt.Printf("  - %s\n", a)
		}
	}
	if len(explanation.TopFeatures) > 0 {
		fmt.Printf("\nTop features:\n")
		for _, tf := range explanation.TopFeatures {
			fmt.Printf("  - %s (%.2f)\n", tf.Feature, tf.Importance)
		}
	}

	return result, nil
}

// Start is a no-op for the CLI filter
func (f *CliFilter) Start() error {
	return nil
}

// Stop is a no-op for the CLI filter
func (f *CliFilter) Stop() error {
	return nil
}
