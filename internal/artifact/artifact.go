// Package artifact defines the fitted model artifact bundle: the preprocessor
// and classifier produced by the offline training pipeline. Both are treated
// as opaque, versioned data loaded once at startup and never mutated.
package artifact

import (
	"fmt"
)

// DefaultThreshold is the decision threshold used when the manifest does not
// specify one.
const DefaultThreshold = 0.5

// Manifest describes an artifact bundle directory. It names the two artifact
// files and carries the bundle version and decision threshold.
type Manifest struct {
	Version          string  `yaml:"version"`
	CreatedAt        string  `yaml:"created_at"`
	Threshold        float64 `yaml:"threshold"`
	PreprocessorFile string  `yaml:"preprocessor"`
	ModelFile        string  `yaml:"model"`
}

// NumericStats holds the training-time statistics for one numeric column:
// the imputation median and the fitted standard scaler parameters.
type NumericStats struct {
	Median float64 `json:"median"`
	Mean   float64 `json:"mean"`
	Scale  float64 `json:"scale"`
}

// CategoricalVocab holds the one-hot vocabulary learned for one categorical
// column. Values outside the vocabulary encode as all zeros.
type CategoricalVocab struct {
	Categories []string `json:"categories"`
}

// Preprocessor is the fitted feature transformation. Columns lists the raw
// input columns in training order; FeatureNames lists the expanded output
// columns in the exact order the classifier was fitted on.
type Preprocessor struct {
	Version      string                      `json:"version"`
	Columns      []string                    `json:"columns"`
	Numeric      map[string]NumericStats     `json:"numeric"`
	Categorical  map[string]CategoricalVocab `json:"categorical"`
	FeatureNames []string                    `json:"feature_names"`
}

// Classifier is a fitted logistic regression model.
type Classifier struct {
	Version      string    `json:"version"`
	Classes      []int     `json:"classes"`
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`
}

// Bundle pairs the fitted preprocessor with the fitted classifier.
// Immutable after load; safe for concurrent use without locking.
type Bundle struct {
	Manifest     Manifest
	Preprocessor *Preprocessor
	Classifier   *Classifier
}

// Version returns the bundle version from the manifest.
func (b *Bundle) Version() string {
	return b.Manifest.Version
}

// Threshold returns the decision threshold, falling back to DefaultThreshold
// when the manifest value is outside (0, 1).
func (b *Bundle) Threshold() float64 {
	if b.Manifest.Threshold > 0 && b.Manifest.Threshold < 1 {
		return b.Manifest.Threshold
	}
	return DefaultThreshold
}

// Width returns the feature vector width the classifier expects.
func (b *Bundle) Width() int {
	return len(b.Classifier.Coefficients)
}

// Validate cross-checks the bundle's internal consistency. A bundle that
// fails validation must be refused at load time rather than discovered via a
// schema mismatch on the first request.
func (b *Bundle) Validate() error {
	if b.Preprocessor == nil {
		return fmt.Errorf("bundle has no preprocessor")
	}
	if b.Classifier == nil {
		return fmt.Errorf("bundle has no classifier")
	}
	if len(b.Preprocessor.Columns) == 0 {
		return fmt.Errorf("preprocessor declares no input columns")
	}

	width := 0
	for _, col := range b.Preprocessor.Columns {
		_, isNumeric := b.Preprocessor.Numeric[col]
		vocab, isCategorical := b.Preprocessor.Categorical[col]

		switch {
		case isNumeric && isCategorical:
			return fmt.Errorf("column %q is declared both numeric and categorical", col)
		case isNumeric:
			width++
		case isCategorical:
			if len(vocab.Categories) == 0 {
				return fmt.Errorf("categorical column %q has an empty vocabulary", col)
			}
			width += len(vocab.Categories)
		default:
			return fmt.Errorf("column %q has neither numeric stats nor a vocabulary", col)
		}
	}

	for col, stats := range b.Preprocessor.Numeric {
		if stats.Scale == 0 {
			return fmt.Errorf("numeric column %q has zero scale", col)
		}
	}

	if len(b.Preprocessor.FeatureNames) != width {
		return fmt.Errorf("preprocessor feature_names length %d does not match expanded width %d",
			len(b.Preprocessor.FeatureNames), width)
	}
	if len(b.Classifier.Coefficients) != width {
		return fmt.Errorf("classifier expects %d features, preprocessor produces %d",
			len(b.Classifier.Coefficients), width)
	}
	if len(b.Classifier.Classes) != 2 {
		return fmt.Errorf("classifier must be binary, got %d classes", len(b.Classifier.Classes))
	}

	return nil
}
