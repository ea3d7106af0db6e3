package classifier

import (
	"math"
	"testing"
)

func TestNaiveBayes_FitRejectsBadInput(t *testing.T) {
	nb := NewNaiveBayes()

	if err := nb.Fit(nil, nil); err == nil {
		t.Error("Fit with empty data should fail")
	}
	if err := nb.Fit([][]float64{{1, 0}}, []int{0, 1}); err == nil {
		t.Error("Fit with misaligned labels should fail")
	}
	if err := nb.Fit([][]float64{{1, 0}, {0, 1}}, []int{1, 1}); err == nil {
		t.Error("Fit with a single class should fail")
	}
}

func TestNaiveBayes_PredictProba(t *testing.T) {
	// Two clearly separated classes along two features
	x := [][]float64{
		{1, 0},
		{0.9, 0.1},
		{0, 1},
		{0.1, 0.9},
	}
	y := []int{1, 1, 0, 0}

	nb := NewNaiveBayes()
	if err := nb.Fit(x, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	proba, err := nb.PredictProba([]float64{1, 0})
	if err != nil {
		t.Fatalf("PredictProba() error = %v", err)
	}
	if len(proba) != 2 {
		t.Fatalf("len(proba) = %d, want 2", len(proba))
	}

	var sum float64
	for _, p := range proba {
		if p < 0 || p > 1 {
			t.Errorf("probability %v out of range", p)
		}
		sum += p
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("probabilities sum to %v, want 1", sum)
	}

	// Classes are ordered {0, 1}; the phishing-like vector favors class 1
	if proba[1] <= proba[0] {
		t.Errorf("expected class 1 to dominate, got %v", proba)
	}
}

func TestNaiveBayes_PredictProbaUnfitted(t *testing.T) {
	nb := NewNaiveBayes()
	if _, err := nb.PredictProba([]float64{1}); err == nil {
		t.Error("PredictProba on unfitted classifier should fail")
	}
}

func TestNaiveBayes_PredictProbaLengthMismatch(t *testing.T) {
	nb := NewNaiveBayes()
	if err := nb.Fit([][]float64{{1, 0}, {0, 1}}, []int{1, 0}); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if _, err := nb.PredictProba([]float64{1, 0, 0}); err == nil {
		t.Error("PredictProba with a mismatched vector length should fail")
	}
}
