package classifier

import (
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/mikey/phishing-detector/internal/core"
)

// memStore is an in-memory core.ModelStore for tests
type memStore struct {
	data  []byte
	saves int
}

func (s *memStore) Load() ([]byte, error) {
	if s.data == nil {
		return nil, core.ErrModelNotFound
	}
	return s.data, nil
}

func (s *memStore) Save(data []byte) error {
	s.data = append([]byte(nil), data...)
	s.saves++
	return nil
}

func TestNew_BootstrapsAndPersists(t *testing.T) {
	store := &memStore{}
	c, err := New(store, zap.NewNop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if store.saves != 1 {
		t.Errorf("store.saves = %d, want 1 (bootstrap persists once)", store.saves)
	}
	if c.model == nil {
		t.Fatal("model should be initialized after New")
	}

	verdict := c.Predict(&core.EmailFeatures{
		Text: "Dear user, your account has been suspended. Click here to verify.",
	})
	if !verdict.IsPhishing {
		t.Error("training sample should be classified as phishing")
	}
	if verdict.Source != core.SourceModel {
		t.Errorf("Source = %q, want %q", verdict.Source, core.SourceModel)
	}
	if verdict.Confidence < 0.5 || verdict.Confidence > 1.0 {
		t.Errorf("Confidence = %v, want the maximum class probability in [0.5, 1]", verdict.Confidence)
	}
}

func TestNew_LegitimateSample(t *testing.T) {
	c, err := New(&memStore{}, zap.NewNop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	verdict := c.Predict(&core.EmailFeatures{Text: "Hi, when is the project deadline?"})
	if verdict.IsPhishing {
		t.Error("benign training sample should not be classified as phishing")
	}
	if verdict.Source != core.SourceModel {
		t.Errorf("Source = %q, want %q", verdict.Source, core.SourceModel)
	}
}

func TestNew_ReloadsWithoutRetraining(t *testing.T) {
	store := &memStore{}
	first, err := New(store, zap.NewNop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	second, err := New(store, zap.NewNop())
	if err != nil {
		t.Fatalf("New() on persisted model error = %v", err)
	}

	if store.saves != 1 {
		t.Errorf("store.saves = %d, want 1 (second init must load, not retrain)", store.saves)
	}
	if !reflect.DeepEqual(first.model.Vectorizer, second.model.Vectorizer) {
		t.Error("reloaded vectorizer state differs from the persisted one")
	}
	if !reflect.DeepEqual(first.model.Bayes, second.model.Bayes) {
		t.Error("reloaded classifier state differs from the persisted one")
	}
}

func TestNew_CorruptModelRetrains(t *testing.T) {
	store := &memStore{data: []byte("not a gob artifact")}
	c, err := New(store, zap.NewNop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if c.model == nil {
		t.Fatal("corrupt artifact should trigger a retrain, not a nil model")
	}
	if store.saves != 1 {
		t.Errorf("store.saves = %d, want 1 (corrupt artifact replaced)", store.saves)
	}
}

func TestPredict_FallsBackToHeuristics(t *testing.T) {
	// An unfitted vectorizer makes the model path fail
	c := &Classifier{
		store:  &memStore{},
		logger: zap.NewNop(),
		model:  &artifact{Vectorizer: NewVectorizer(), Bayes: NewNaiveBayes()},
	}

	verdict := c.Predict(&core.EmailFeatures{Text: "Urgent: your password will be suspended"})
	if verdict.Source != core.SourceHeuristic {
		t.Fatalf("Source = %q, want %q", verdict.Source, core.SourceHeuristic)
	}
	if !verdict.IsPhishing {
		t.Error("heuristic fallback should flag the message")
	}
	if verdict.Confidence < 0.79 || verdict.Confidence > 0.81 {
		t.Errorf("Confidence = %v, want the heuristic score 0.8", verdict.Confidence)
	}
}

func TestExplain(t *testing.T) {
	c, err := New(&memStore{}, zap.NewNop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	explanation := c.Explain(&core.EmailFeatures{
		Text: "Urgent: verify your account within 24 hours or your password expires",
		URLs: []string{"http://203.0.113.7/login.tk", "https://bit.ly/claim"},
	})

	wantPatterns := []string{
		"Urgent or threatening language detected",
		"Request for sensitive information detected",
		"Account verification request detected",
		"Time pressure tactics detected",
	}
	if !reflect.DeepEqual(explanation.SuspiciousPatterns, wantPatterns) {
		t.Errorf("SuspiciousPatterns = %v, want %v", explanation.SuspiciousPatterns, wantPatterns)
	}

	if len(explanation.URLAnalysis) != 4 {
		t.Errorf("URLAnalysis = %v, want 4 findings (tld, http, ip, shortener)", explanation.URLAnalysis)
	}

	wantFeatures := []core.FeatureWeight{
		{Feature: "urgent_language", Importance: 0.25},
		{Feature: "credential_request", Importance: 0.25},
		{Feature: "pressure_tactics", Importance: 0.25},
	}
	if !reflect.DeepEqual(explanation.TopFeatures, wantFeatures) {
		t.Errorf("TopFeatures = %v, want %v", explanation.TopFeatures, wantFeatures)
	}
}

func TestExplain_CleanMessage(t *testing.T) {
	c, err := New(&memStore{}, zap.NewNop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	explanation := c.Explain(&core.EmailFeatures{Text: "Meeting scheduled for tomorrow at 10 AM."})
	if len(explanation.SuspiciousPatterns) != 0 {
		t.Errorf("SuspiciousPatterns = %v, want none", explanation.SuspiciousPatterns)
	}
	if len(explanation.URLAnalysis) != 0 {
		t.Errorf("URLAnalysis = %v, want none", explanation.URLAnalysis)
	}
	if len(explanation.TopFeatures) != 0 {
		t.Errorf("TopFeatures = %v, want none", explanation.TopFeatures)
	}
}
