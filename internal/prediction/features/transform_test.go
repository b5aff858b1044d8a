package features

import (
	"testing"

	"leadscoring_backend/internal/artifact"
	"leadscoring_backend/platform/apperr"
)

func fixturePreprocessor() *artifact.Preprocessor {
	return &artifact.Preprocessor{
		Version: "test",
		Columns: []string{"TotalVisits", "Lead Origin", "Do Not Email"},
		Numeric: map[string]artifact.NumericStats{
			"TotalVisits": {Median: 3, Mean: 3.5, Scale: 2},
		},
		Categorical: map[string]artifact.CategoricalVocab{
			"Lead Origin":  {Categories: []string{"API", "Landing Page Submission"}},
			"Do Not Email": {Categories: []string{"No", "Yes"}},
		},
		FeatureNames: []string{
			"TotalVisits",
			"Lead Origin=API",
			"Lead Origin=Landing Page Submission",
			"Do Not Email=No",
			"Do Not Email=Yes",
		},
	}
}

func TestTransformPartialRecord(t *testing.T) {
	pre := fixturePreprocessor()

	vec, err := Transform(map[string]interface{}{"TotalVisits": 5.0}, pre)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	if len(vec) != len(pre.FeatureNames) {
		t.Fatalf("expected width %d, got %d", len(pre.FeatureNames), len(vec))
	}

	// (5 - 3.5) / 2
	if vec[0] != 0.75 {
		t.Fatalf("expected scaled TotalVisits 0.75, got %v", vec[0])
	}
	// Missing Lead Origin falls back to a value outside the vocabulary, so the
	// block must be all zeros.
	if vec[1] != 0 || vec[2] != 0 {
		t.Fatalf("expected zero Lead Origin block, got %v %v", vec[1], vec[2])
	}
	// Missing Do Not Email falls back to "No".
	if vec[3] != 1 || vec[4] != 0 {
		t.Fatalf("expected Do Not Email=No encoding, got %v %v", vec[3], vec[4])
	}
}

func TestTransformEmptyRecordImputesMedian(t *testing.T) {
	pre := fixturePreprocessor()

	vec, err := Transform(map[string]interface{}{}, pre)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	// (3 - 3.5) / 2
	if vec[0] != -0.25 {
		t.Fatalf("expected imputed median scaled to -0.25, got %v", vec[0])
	}
}

func TestTransformUnknownCategoryEncodesAsZeros(t *testing.T) {
	pre := fixturePreprocessor()

	vec, err := Transform(map[string]interface{}{"Lead Origin": "CarrierPigeon"}, pre)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	if vec[1] != 0 || vec[2] != 0 {
		t.Fatalf("expected unseen category to encode as zeros, got %v %v", vec[1], vec[2])
	}
}

func TestTransformKnownCategory(t *testing.T) {
	pre := fixturePreprocessor()

	vec, err := Transform(map[string]interface{}{"Lead Origin": "API"}, pre)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	if vec[1] != 1 || vec[2] != 0 {
		t.Fatalf("expected Lead Origin=API encoding, got %v %v", vec[1], vec[2])
	}
}

func TestTransformNumericFromString(t *testing.T) {
	pre := fixturePreprocessor()

	vec, err := Transform(map[string]interface{}{"TotalVisits": "7"}, pre)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	// (7 - 3.5) / 2
	if vec[0] != 1.75 {
		t.Fatalf("expected scaled value 1.75, got %v", vec[0])
	}
}

func TestTransformNegativeNumericFailsValidation(t *testing.T) {
	pre := fixturePreprocessor()

	_, err := Transform(map[string]interface{}{"TotalVisits": -1.0}, pre)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestTransformWrongTypeFailsValidation(t *testing.T) {
	pre := fixturePreprocessor()

	_, err := Transform(map[string]interface{}{"Lead Origin": 42.0}, pre)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestTransformIgnoresUnrecognizedKeys(t *testing.T) {
	pre := fixturePreprocessor()

	base, err := Transform(map[string]interface{}{}, pre)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	withExtra, err := Transform(map[string]interface{}{"Favorite Color": "blue"}, pre)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	for i := range base {
		if base[i] != withExtra[i] {
			t.Fatalf("unrecognized key changed the vector at index %d", i)
		}
	}
}

func TestTransformNilPreprocessor(t *testing.T) {
	_, err := Transform(map[string]interface{}{}, nil)
	if !apperr.Is(err, apperr.KindModelUnavailable) {
		t.Fatalf("expected model unavailable error, got %v", err)
	}
}

func TestTransformWidthMismatchIsSchemaMismatch(t *testing.T) {
	pre := fixturePreprocessor()
	pre.FeatureNames = pre.FeatureNames[:3]

	_, err := Transform(map[string]interface{}{}, pre)
	if !apperr.Is(err, apperr.KindSchemaMismatch) {
		t.Fatalf("expected schema mismatch error, got %v", err)
	}
}

func TestTransformUnrecognizedArtifactColumn(t *testing.T) {
	pre := fixturePreprocessor()
	pre.Columns = append(pre.Columns, "Shoe Size")

	_, err := Transform(map[string]interface{}{}, pre)
	if !apperr.Is(err, apperr.KindSchemaMismatch) {
		t.Fatalf("expected schema mismatch error, got %v", err)
	}
}
