package service

import (
	"math"
	"sync"
	"testing"

	"leadscoring_backend/internal/artifact"
	"leadscoring_backend/internal/prediction/features"
	"leadscoring_backend/internal/prediction/transport"
	"leadscoring_backend/platform/apperr"
)

func fixtureBundle() *artifact.Bundle {
	return &artifact.Bundle{
		Manifest: artifact.Manifest{Version: "test", Threshold: 0.5},
		Preprocessor: &artifact.Preprocessor{
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
		},
		Classifier: &artifact.Classifier{
			Version:      "test",
			Classes:      []int{0, 1},
			Intercept:    0.1,
			Coefficients: []float64{0.5, 1.2, -0.4, 0.3, -0.9},
		},
	}
}

func TestScoreDeterministic(t *testing.T) {
	svc := New(fixtureBundle(), nil)
	vec := features.Vector{0.75, 1, 0, 1, 0}

	first, err := svc.Score(vec)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	for i := 0; i < 50; i++ {
		again, err := svc.Score(vec)
		if err != nil {
			t.Fatalf("Score failed on iteration %d: %v", i, err)
		}
		if again.Probability != first.Probability || again.Prediction != first.Prediction {
			t.Fatalf("non-deterministic score: %v vs %v", again, first)
		}
	}
}

func TestScoreConcurrentDeterministic(t *testing.T) {
	svc := New(fixtureBundle(), nil)
	vec := features.Vector{0.75, 1, 0, 1, 0}

	want, err := svc.Score(vec)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := svc.Score(vec)
			if err != nil {
				errs <- err
				return
			}
			if got.Probability != want.Probability {
				errs <- apperr.Internal("concurrent score diverged")
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent Score failed: %v", err)
	}
}

func TestScoreLeadScoreAndLabel(t *testing.T) {
	svc := New(fixtureBundle(), nil)

	// z = 0.1 + 0.5*0.75 + 1.2 + 0.3 = 1.975 -> p > 0.5
	result, err := svc.Score(features.Vector{0.75, 1, 0, 1, 0})
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if result.Prediction != 1 {
		t.Fatalf("expected class 1, got %d", result.Prediction)
	}
	if result.Label != transport.LabelWillConvert {
		t.Fatalf("expected label %q, got %q", transport.LabelWillConvert, result.Label)
	}
	want := math.Round(result.Probability*100*100) / 100
	if result.LeadScore != want {
		t.Fatalf("expected lead score %v, got %v", want, result.LeadScore)
	}
	if result.LeadScore < 0 || result.LeadScore > 100 {
		t.Fatalf("lead score %v out of range", result.LeadScore)
	}

	// z = 0.1 - 0.4 - 0.9 = -1.2 -> p < 0.5
	result, err = svc.Score(features.Vector{0, 0, 1, 0, 1})
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if result.Prediction != 0 {
		t.Fatalf("expected class 0, got %d", result.Prediction)
	}
	if result.Label != transport.LabelWillNotConvert {
		t.Fatalf("expected label %q, got %q", transport.LabelWillNotConvert, result.Label)
	}
}

func TestScoreNilBundle(t *testing.T) {
	svc := New(nil, nil)

	if svc.Loaded() {
		t.Fatal("expected unloaded service")
	}
	_, err := svc.Score(features.Vector{1})
	if !apperr.Is(err, apperr.KindModelUnavailable) {
		t.Fatalf("expected model unavailable error, got %v", err)
	}
	_, err = svc.Predict(map[string]interface{}{})
	if !apperr.Is(err, apperr.KindModelUnavailable) {
		t.Fatalf("expected model unavailable error, got %v", err)
	}
}

func TestScoreNonFiniteInput(t *testing.T) {
	svc := New(fixtureBundle(), nil)

	_, err := svc.Score(features.Vector{math.NaN(), 0, 0, 0, 0})
	if !apperr.Is(err, apperr.KindInference) {
		t.Fatalf("expected inference error for NaN, got %v", err)
	}
	_, err = svc.Score(features.Vector{math.Inf(1), 0, 0, 0, 0})
	if !apperr.Is(err, apperr.KindInference) {
		t.Fatalf("expected inference error for Inf, got %v", err)
	}
}

func TestScoreWidthMismatch(t *testing.T) {
	svc := New(fixtureBundle(), nil)

	_, err := svc.Score(features.Vector{1, 2})
	if !apperr.Is(err, apperr.KindSchemaMismatch) {
		t.Fatalf("expected schema mismatch error, got %v", err)
	}
}

func TestPredictCountsOnlySuccesses(t *testing.T) {
	svc := New(fixtureBundle(), nil)

	if got := svc.Stats().PredictionsCount; got != 0 {
		t.Fatalf("expected zero predictions at start, got %d", got)
	}

	if _, err := svc.Predict(map[string]interface{}{"TotalVisits": 5.0}); err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if got := svc.Stats().PredictionsCount; got != 1 {
		t.Fatalf("expected one prediction, got %d", got)
	}

	if _, err := svc.Predict(map[string]interface{}{"TotalVisits": -1.0}); err == nil {
		t.Fatal("expected failed prediction")
	}
	if got := svc.Stats().PredictionsCount; got != 1 {
		t.Fatalf("failed prediction must not increment the counter, got %d", got)
	}
}

func TestPredictHistoryBoundedNewestFirst(t *testing.T) {
	svc := New(fixtureBundle(), nil)

	for i := 0; i < historyLimit+5; i++ {
		record := map[string]interface{}{
			"Total Time Spent on Website": float64(i),
			"TotalVisits":                 2.0,
		}
		if _, err := svc.Predict(record); err != nil {
			t.Fatalf("Predict failed: %v", err)
		}
	}

	history := svc.Recent()
	if len(history) != historyLimit {
		t.Fatalf("expected history capped at %d, got %d", historyLimit, len(history))
	}
	// Newest first: the last submitted time-on-website value leads.
	if history[0].TimeOnWebsite != float64(historyLimit+4) {
		t.Fatalf("expected newest entry first, got %v", history[0].TimeOnWebsite)
	}
}
