package classifier

import (
	"math"
	"reflect"
	"testing"
)

func TestVectorizer_FitAssignsSortedVocabulary(t *testing.T) {
	v := NewVectorizer()
	v.Fit([]string{"banana apple", "cherry apple"})

	want := map[string]int{"apple": 0, "banana": 1, "cherry": 2}
	if !reflect.DeepEqual(v.Vocabulary, want) {
		t.Errorf("Vocabulary = %v, want %v", v.Vocabulary, want)
	}
	if len(v.IDF) != 3 {
		t.Fatalf("len(IDF) = %d, want 3", len(v.IDF))
	}

	// apple appears in both documents, so its IDF is the smallest
	if v.IDF[0] >= v.IDF[1] {
		t.Errorf("IDF(apple)=%v should be below IDF(banana)=%v", v.IDF[0], v.IDF[1])
	}
}

func TestVectorizer_FitDeterministic(t *testing.T) {
	docs := []string{"urgent verify account", "meeting notes attached", "urgent password reset"}

	a := NewVectorizer()
	a.Fit(docs)
	b := NewVectorizer()
	b.Fit(docs)

	if !reflect.DeepEqual(a.Vocabulary, b.Vocabulary) {
		t.Error("fitting the same corpus twice produced different vocabularies")
	}
	if !reflect.DeepEqual(a.IDF, b.IDF) {
		t.Error("fitting the same corpus twice produced different IDF weights")
	}
}

func TestVectorizer_TransformBeforeFit(t *testing.T) {
	v := NewVectorizer()
	if _, err := v.Transform("anything"); err != ErrNotFitted {
		t.Errorf("Transform on unfitted vectorizer: err = %v, want ErrNotFitted", err)
	}
}

func TestVectorizer_TransformNormalized(t *testing.T) {
	v := NewVectorizer()
	v.Fit([]string{"urgent account verify", "hello meeting notes"})

	x, err := v.Transform("urgent urgent account")
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}

	var norm float64
	for _, val := range x {
		norm += val * val
	}
	if math.Abs(norm-1.0) > 1e-9 {
		t.Errorf("squared L2 norm = %v, want 1", norm)
	}
}

func TestVectorizer_TransformUnknownTerms(t *testing.T) {
	v := NewVectorizer()
	v.Fit([]string{"urgent account"})

	x, err := v.Transform("completely unseen words")
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	for i, val := range x {
		if val != 0 {
			t.Errorf("x[%d] = %v, want 0 for a document of unknown terms", i, val)
		}
	}
}
