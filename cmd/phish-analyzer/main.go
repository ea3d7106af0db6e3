package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/phishing-detector/internal/classifier"
	"github.com/mikey/phishing-detector/internal/config"
	"github.com/mikey/phishing-detector/internal/core"
	"github.com/mikey/phishing-detector/internal/factory"
	"github.com/mikey/phishing-detector/internal/features"
	"github.com/mikey/phishing-detector/internal/logging"
	"github.com/mikey/phishing-detector/internal/parser"
)

var (
	// Classifier flags
	modelPath = flag.String("model", "data/models/phishing_classifier.gob", "Path to the trained model file")

	// Detection flags
	whitelistDomains = flag.String("whitelist", "", "Comma-separated list of whitelisted domains")
	showExplanation  = flag.Bool("explain", false, "Print a detailed explanation of the verdict")

	// Input flags
	inputFile  = flag.String("file", "", "Input email file (use stdin if not specified)")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog    = flag.Bool("json-log", false, "Output logs in JSON format")
	configFile = flag.String("config", "", "Path to config file (overrides command line flags)")
)

func main() {
	flag.Parse()

	var cfg *config.Config
	var err error

	// Initialize logger
	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Load configuration from file if specified
	if *configFile != "" {
		cfg, err = config.New()
		if err != nil {
			logger.Fatal("Failed to load configuration", zap.Error(err))
		}
		logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
	} else {
		// Create config from command line flags
		cfg = createConfigFromFlags()
	}

	// Initialize classifier
	storeFactory := factory.NewStoreFactory(cfg, logger)
	emailClassifier, err := classifier.New(storeFactory.CreateModelStore(), logger)
	if err != nil {
		logger.Fatal("Failed to initialize classifier", zap.Error(err))
	}

	// Parse whitelisted domains
	var whitelistedDomains []string
	if *whitelistDomains != "" {
		whitelistedDomains = strings.Split(*whitelistDomains, ",")
		for i, domain := range whitelistedDomains {
			whitelistedDomains[i] = strings.TrimSpace(domain)
		}
	} else {
		whitelistedDomains = cfg.GetStringSlice("phishing.whitelisted_domains")
	}

	if len(whitelistedDomains) > 0 {
		logger.Info("Using whitelisted domains", zap.Strings("domains", whitelistedDomains))
	}

	// Read email from file or stdin
	var raw []byte
	if *inputFile != "" {
		raw, err = os.ReadFile(*inputFile)
		if err != nil {
			logger.Fatal("Failed to read input file", zap.Error(err), zap.String("file", *inputFile))
		}
		logger.Info("Reading email from file", zap.String("file", *inputFile))
	} else {
		raw, err = io.ReadAll(os.Stdin)
		if err != nil {
			logger.Fatal("Failed to read email from stdin", zap.Error(err))
		}
		logger.Info("Reading email from stdin")
	}

	// Assemble the analysis service, without a verdict cache for one-shot runs
	service := core.NewAnalysisService(
		parser.New(logger),
		features.New(),
		emailClassifier,
		nil,
		logger,
		false,
		0,
		whitelistedDomains,
	)

	startTime := time.Now()

	result := service.Analyze(context.Background(), raw)
	duration := time.Since(startTime)

	// Print email summary
	fmt.Printf("\n=== Email Summary ===\n")
	fmt.Printf("From: %s\n", result.Parsed.Headers["from"])
	fmt.Printf("To: %s\n", result.Parsed.Headers["to"])
	fmt.Printf("Subject: %s\n", result.Parsed.Headers["subject"])
	fmt.Printf("Body length: %d bytes\n", len(result.Parsed.Text))
	fmt.Printf("URLs found: %d\n", len(result.Parsed.URLs))
	fmt.Printf("Attachments: %d\n", len(result.Parsed.Attachments))

	// Print results
	fmt.Printf("\n=== Results ===\n")
	fmt.Printf("Is phishing: %t\n", result.Verdict.IsPhishing)
	fmt.Printf("Confidence: %.4f\n", result.Verdict.Confidence)
	fmt.Printf("Source: %s\n", result.Verdict.Source)
	fmt.Printf("Processing time: %v\n", duration)

	if *showExplanation {
		explanation := service.Explain(raw)

		fmt.Printf("\n=== Explanation ===\n")
		if len(explanation.SuspiciousPatterns) > 0 {
			fmt.Printf("Suspicious patterns:\n")
			for _, pattern := range explanation.SuspiciousPatterns {
				fmt.Printf("  - %s\n", pattern)
			}
		}
		if len(explanation.URLAnalysis) > 0 {
			fmt.Printf("URL analysis:\n")
			for _, finding := range explanation.URLAnalysis {
				fmt.Printf("  - %s\n", finding)
			}
		}
		if len(explanation.TopFeatures) > 0 {
			fmt.Printf("Top contributing features:\n")
			for _, feature := range explanation.TopFeatures {
				fmt.Printf("  %s (%.2f)\n", feature.Feature, feature.Importance)
			}
		}
	}
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags() *config.Config {
	v := config.NewEmptyViper()

	v.Set("classifier.model_path", *modelPath)

	// Set whitelisted domains
	if *whitelistDomains != "" {
		domains := strings.Split(*whitelistDomains, ",")
		for i, domain := range domains {
			domains[i] = strings.TrimSpace(domain)
		}
		v.Set("phishing.whitelisted_domains", domains)
	} else {
		v.Set("phishing.whitelisted_domains", []string{})
	}

	return config.NewFromViper(v)
}
