package ports

import (
	"context"

	"github.com/mikey/phishing-detector/internal/core"
)

// EmailFilter defines the interface for the front ends that feed raw email
// into the analysis service
type EmailFilter interface {
	// ProcessEmail analyzes a raw email and returns the result
	ProcessEmail(ctx context.Context, raw []byte) (*core.AnalysisResult, error)

	// Start starts the email filter service
	Start() error

	// Stop stops the email filter service
	Stop() error
}
