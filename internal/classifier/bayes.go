package classifier

import (
	"errors"
	"math"
)

// NaiveBayes is a multinomial naive Bayes classifier over TF-IDF features.
// Fields are exported so the fitted state can be serialized into the model
// artifact.
type NaiveBayes struct {
	// Classes lists the class labels in training order
	Classes []int
	// ClassLogPrior holds the log prior per class
	ClassLogPrior []float64
	// FeatureLogProb holds log P(feature|class) per class and feature
	FeatureLogProb [][]float64
}

// NewNaiveBayes creates an unfitted classifier
func NewNaiveBayes() *NaiveBayes {
	return &NaiveBayes{}
}

// smoothing is the Lidstone smoothing constant applied to feature counts
const smoothing = 1.0

// Fit trains the classifier on feature matrix x and labels y. Labels are
// 0 (legitimate) and 1 (phishing).
func (nb *NaiveBayes) Fit(x [][]float64, y []int) error {
	if len(x) == 0 || len(x) != len(y) {
		return errors.New("training data and labels must be non-empty and aligned")
	}

	nFeatures := len(x[0])
	nb.Classes = []int{0, 1}
	nb.ClassLogPrior = make([]float64, len(nb.Classes))
	nb.FeatureLogProb = make([][]float64, len(nb.Classes))

	for ci, class := range nb.Classes {
		counts := make([]float64, nFeatures)
		var total float64
		var nDocs int

		for i, label := range y {
			if label != class {
				continue
			}
			nDocs++
			for j, val := range x[i] {
				counts[j] += val
				total += val
			}
		}
		if nDocs == 0 {
			return errors.New("training data must contain both classes")
		}

		nb.ClassLogPrior[ci] = math.Log(float64(nDocs) / float64(len(y)))
		nb.FeatureLogProb[ci] = make([]float64, nFeatures)
		denom := total + smoothing*float64(nFeatures)
		for j := range counts {
			nb.FeatureLogProb[ci][j] = math.Log((counts[j] + smoothing) / denom)
		}
	}

	return nil
}

// PredictProba returns the class probabilities for a single feature vector,
// in the order of Classes
func (nb *NaiveBayes) PredictProba(x []float64) ([]float64, error) {
	if nb.FeatureLogProb == nil {
		return nil, errors.New("classifier has not been fitted")
	}
	if len(x) != len(nb.FeatureLogProb[0]) {
		return nil, errors.New("feature vector length does not match fitted model")
	}

	joint := make([]float64, len(nb.Classes))
	for ci := range nb.Classes {
		joint[ci] = nb.ClassLogPrior[ci]
		for j, val := range x {
			if val != 0 {
				joint[ci] += val * nb.FeatureLogProb[ci][j]
			}
		}
	}

	// Normalize via log-sum-exp for numerical stability
	maxJoint := joint[0]
	for _, v := range joint[1:] {
		if v > maxJoint {
			maxJoint = v
		}
	}
	var sum float64
	proba := make([]float64, len(joint))
	for i, v := range joint {
		proba[i] = math.Exp(v - maxJoint)
		sum += proba[i]
	}
	for i := range proba {
		proba[i] /= sum
	}

	return proba, nil
}
