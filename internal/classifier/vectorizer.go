package classifier

import (
	"errors"
	"math"
	"sort"
	"strings"
)

// ErrNotFitted is returned when Transform is called before Fit
var ErrNotFitted = errors.New("vectorizer has not been fitted")

// Vectorizer is a TF-IDF text vectorizer. Documents are expected to be
// preprocessed (see Preprocess) before they reach it. Fields are exported so
// the fitted state can be serialized into the model artifact.
type Vectorizer struct {
	// Vocabulary maps a term to its feature index
	Vocabulary map[string]int
	// IDF holds the inverse document frequency per feature index
	IDF []float64
}

// NewVectorizer creates an unfitted vectorizer
func NewVectorizer() *Vectorizer {
	return &Vectorizer{}
}

// Fit learns the vocabulary and IDF weights from the training documents.
// The vocabulary is assigned in sorted term order, so fitting the same
// corpus always produces an identical vectorizer.
func (v *Vectorizer) Fit(docs []string) {
	docFreq := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool)
		for _, term := range strings.Fields(doc) {
			if !seen[term] {
				seen[term] = true
				docFreq[term]++
			}
		}
	}

	terms := make([]string, 0, len(docFreq))
	for term := range docFreq {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	v.Vocabulary = make(map[string]int, len(terms))
	v.IDF = make([]float64, len(terms))
	n := float64(len(docs))
	for i, term := range terms {
		v.Vocabulary[term] = i
		// Smoothed IDF so unseen terms never divide by zero
		v.IDF[i] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}
}

// Transform converts a preprocessed document into its L2-normalized TF-IDF
// vector using the already-fitted vocabulary. It never refits.
func (v *Vectorizer) Transform(doc string) ([]float64, error) {
	if v.Vocabulary == nil {
		return nil, ErrNotFitted
	}

	x := make([]float64, len(v.IDF))
	for _, term := range strings.Fields(doc) {
		if idx, ok := v.Vocabulary[term]; ok {
			x[idx]++
		}
	}

	var norm float64
	for i := range x {
		x[i] *= v.IDF[i]
		norm += x[i] * x[i]
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range x {
			x[i] /= norm
		}
	}

	return x, nil
}
