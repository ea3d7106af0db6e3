package factory

import (
	"go.uber.org/zap"

	"github.com/mikey/phishing-detector/internal/adapters/store"
	"github.com/mikey/phishing-detector/internal/config"
	"github.com/mikey/phishing-detector/internal/core"
)

// StoreFactory creates model stores based on configuration
type StoreFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewStoreFactory creates a new store factory
func NewStoreFactory(cfg *config.Config, logger *zap.Logger) *StoreFactory {
	return &StoreFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateModelStore creates the model store for the configured artifact path
func (f *StoreFactory) CreateModelStore() core.ModelStore {
	return store.NewFileStore(f.cfg.GetClassifier().ModelPath, f.logger)
}
