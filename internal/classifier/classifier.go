// Package classifier implements the hybrid phishing classifier: a TF-IDF
// vectorizer feeding a multinomial naive Bayes model, with a deterministic
// heuristic scorer as fallback and as the basis for explanations.
package classifier

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/phishing-detector/internal/core"
)

// artifact is the serialized unit of trained state: the fitted vectorizer
// and the fitted classifier, persisted together
type artifact struct {
	Vectorizer *Vectorizer
	Bayes      *NaiveBayes
	TrainedAt  time.Time
}

// Classifier owns the trained model and its persistence lifecycle
type Classifier struct {
	store  core.ModelStore
	logger *zap.Logger

	mu    sync.Mutex
	model *artifact
}

// New creates a classifier and initializes its model: a persisted artifact
// is loaded if one exists, otherwise a fresh model is trained on the
// bootstrap corpus and persisted. Either way the classifier is usable
// without an external training step.
func New(store core.ModelStore, logger *zap.Logger) (*Classifier, error) {
	c := &Classifier{
		store:  store,
		logger: logger,
	}
	if err := c.initialize(); err != nil {
		return nil, err
	}
	return c, nil
}

// initialize loads the persisted model or bootstraps a new one. Caller must
// hold mu when racing with Predict.
func (c *Classifier) initialize() error {
	data, err := c.store.Load()
	if err == nil {
		m := &artifact{}
		decErr := gob.NewDecoder(bytes.NewReader(data)).Decode(m)
		if decErr == nil {
			c.model = m
			c.logger.Info("Loaded persisted classifier model",
				zap.Time("trained_at", m.TrainedAt))
			return nil
		}
		c.logger.Warn("Persisted model is unreadable, retraining", zap.Error(decErr))
	} else if errors.Is(err, core.ErrModelNotFound) {
		c.logger.Info("No persisted model found, training on bootstrap corpus")
	} else {
		c.logger.Warn("Failed to load persisted model, retraining", zap.Error(err))
	}

	return c.bootstrap()
}

// bootstrap trains a model on the fixed labeled corpus and persists it.
// Persistence failures are logged but not fatal: the in-memory model is
// already usable, and a concurrent initializer may have written the same
// artifact.
func (c *Classifier) bootstrap() error {
	docs := make([]string, len(bootstrapCorpus))
	labels := make([]int, len(bootstrapCorpus))
	for i, sample := range bootstrapCorpus {
		docs[i] = Preprocess(sample.Text)
		labels[i] = sample.Phishing
	}

	vectorizer := NewVectorizer()
	vectorizer.Fit(docs)

	x := make([][]float64, len(docs))
	for i, doc := range docs {
		vec, err := vectorizer.Transform(doc)
		if err != nil {
			return fmt.Errorf("vectorize bootstrap corpus: %w", err)
		}
		x[i] = vec
	}

	bayes := NewNaiveBayes()
	if err := bayes.Fit(x, labels); err != nil {
		return fmt.Errorf("train bootstrap model: %w", err)
	}

	c.model = &artifact{
		Vectorizer: vectorizer,
		Bayes:      bayes,
		TrainedAt:  time.Now().UTC(),
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(c.model); err != nil {
		c.logger.Warn("Failed to serialize model", zap.Error(err))
		return nil
	}
	if err := c.store.Save(buf.Bytes()); err != nil {
		c.logger.Warn("Failed to persist model", zap.Error(err))
	} else {
		c.logger.Info("Persisted bootstrap model")
	}

	return nil
}

// Predict classifies the features as phishing or legitimate. The model path
// returns the predicted label and the maximum class probability, which is
// not necessarily the phishing-class probability; that asymmetry is part of
// the API contract. Any failure falls back to the heuristic scorer, so a
// verdict is always returned.
func (c *Classifier) Predict(features *core.EmailFeatures) core.Verdict {
	now := time.Now()

	c.mu.Lock()
	if c.model == nil {
		if err := c.initialize(); err != nil {
			c.logger.Error("Failed to initialize model", zap.Error(err))
		}
	}
	m := c.model
	c.mu.Unlock()

	if m != nil {
		verdict, err := c.modelPredict(m, features, now)
		if err == nil {
			return verdict
		}
		c.logger.Warn("Model prediction failed, falling back to heuristics",
			zap.Error(err))
	}

	label, score := HeuristicPredict(features)
	return core.Verdict{
		IsPhishing: label,
		Confidence: score,
		Source:     core.SourceHeuristic,
		AnalyzedAt: now,
	}
}

// modelPredict runs the trained model over the features
func (c *Classifier) modelPredict(m *artifact, features *core.EmailFeatures, now time.Time) (core.Verdict, error) {
	x, err := m.Vectorizer.Transform(Preprocess(features.Text))
	if err != nil {
		return core.Verdict{}, err
	}

	proba, err := m.Bayes.PredictProba(x)
	if err != nil {
		return core.Verdict{}, err
	}

	best := 0
	for i, p := range proba {
		if p > proba[best] {
			best = i
		}
	}

	return core.Verdict{
		IsPhishing: m.Bayes.Classes[best] == 1,
		Confidence: proba[best],
		Source:     core.SourceModel,
		AnalyzedAt: now,
	}, nil
}

// Explain produces the rationale for the features. It never consults the
// trained model, so its narrative can in principle disagree with a
// model-based verdict.
func (c *Classifier) Explain(features *core.EmailFeatures) core.Explanation {
	return explain(features)
}
