// Package service implements the scorer: it turns feature vectors into
// prediction results using the fitted classifier, and tracks the counters
// surfaced by the health endpoint.
package service

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"leadscoring_backend/internal/artifact"
	"leadscoring_backend/internal/prediction/features"
	"leadscoring_backend/internal/prediction/transport"
	"leadscoring_backend/platform/apperr"
	"leadscoring_backend/platform/logger"

	"github.com/google/uuid"
)

// historyLimit bounds the in-memory prediction history kept for the web form
// dashboard.
const historyLimit = 10

// Result is a single prediction outcome.
type Result struct {
	Prediction   int
	Probability  float64
	LeadScore    float64
	Label        string
	ModelVersion string
	Timestamp    time.Time
}

// HistoryEntry is one retained prediction for the dashboard view.
type HistoryEntry struct {
	ID            uuid.UUID
	Prediction    int
	LeadScore     float64
	Label         string
	TimeOnWebsite float64
	CreatedAt     time.Time
}

// Stats summarizes service state for the health endpoint.
type Stats struct {
	ModelLoaded        bool
	PreprocessorLoaded bool
	PredictionsCount   int64
	ModelVersion       string
	StartedAt          time.Time
}

// Service scores lead records against the fitted artifact bundle. The bundle
// is read-only after construction, so concurrent Predict calls need no
// locking; the only mutable state is the predictions counter and the bounded
// history ring, each guarded independently.
type Service struct {
	bundle *artifact.Bundle
	log    *logger.Logger
	now    func() time.Time

	startedAt   time.Time
	predictions atomic.Int64

	mu      sync.Mutex
	history []HistoryEntry
}

// New creates the scoring service. A nil bundle is allowed: the service then
// reports itself unloaded and every scoring call fails with ModelUnavailable,
// letting the process serve a degraded health status instead of crashing.
func New(bundle *artifact.Bundle, log *logger.Logger) *Service {
	return &Service{
		bundle:    bundle,
		log:       log,
		now:       time.Now,
		startedAt: time.Now().UTC(),
	}
}

// Loaded reports whether the artifact bundle is available.
func (s *Service) Loaded() bool {
	return s.bundle != nil
}

// Bundle returns the loaded artifact bundle, or nil when degraded.
func (s *Service) Bundle() *artifact.Bundle {
	return s.bundle
}

// Transform maps a raw lead record to a feature vector using the bundle's
// fitted preprocessor.
func (s *Service) Transform(record map[string]interface{}) (features.Vector, error) {
	if s.bundle == nil {
		return nil, apperr.ModelUnavailable("model artifacts are not loaded")
	}
	return features.Transform(record, s.bundle.Preprocessor)
}

// Score applies the fitted classifier to a feature vector. It is
// deterministic and stateless: identical vectors produce identical results
// across repeated and concurrent calls.
func (s *Service) Score(vec features.Vector) (Result, error) {
	if s.bundle == nil {
		return Result{}, apperr.ModelUnavailable("model artifacts are not loaded")
	}

	clf := s.bundle.Classifier
	if len(vec) != len(clf.Coefficients) {
		return Result{}, apperr.SchemaMismatch("feature vector width does not match classifier").
			WithDetails(map[string]int{"got": len(vec), "want": len(clf.Coefficients)})
	}

	z := clf.Intercept
	for i, value := range vec {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return Result{}, apperr.Inference(fmt.Sprintf("feature %d is not finite", i))
		}
		z += clf.Coefficients[i] * value
	}

	probability := sigmoid(z)
	if math.IsNaN(probability) || math.IsInf(probability, 0) {
		return Result{}, apperr.Inference("probability computation produced a non-finite value")
	}

	predicted := 0
	label := transport.LabelWillNotConvert
	if probability >= s.bundle.Threshold() {
		predicted = 1
		label = transport.LabelWillConvert
	}

	return Result{
		Prediction:   predicted,
		Probability:  probability,
		LeadScore:    roundScore(probability * 100),
		Label:        label,
		ModelVersion: s.bundle.Version(),
		Timestamp:    s.now().UTC(),
	}, nil
}

// Predict runs the full transform-then-score path for a raw lead record.
// Successful predictions increment the counter and enter the history ring;
// failed ones leave both untouched.
func (s *Service) Predict(record map[string]interface{}) (Result, error) {
	start := s.now()

	vec, err := s.Transform(record)
	if err != nil {
		return Result{}, err
	}

	result, err := s.Score(vec)
	if err != nil {
		return Result{}, err
	}

	s.predictions.Add(1)
	s.remember(record, result)

	if s.log != nil {
		latency := s.now().Sub(start)
		s.log.Prediction(result.ModelVersion, result.Prediction, result.LeadScore, float64(latency.Microseconds())/1000)
	}

	return result, nil
}

// Stats returns the current service state for readiness reporting.
func (s *Service) Stats() Stats {
	stats := Stats{
		ModelLoaded:        s.bundle != nil,
		PreprocessorLoaded: s.bundle != nil,
		PredictionsCount:   s.predictions.Load(),
		StartedAt:          s.startedAt,
	}
	if s.bundle != nil {
		stats.ModelVersion = s.bundle.Version()
	}
	return stats
}

// Recent returns a snapshot of the retained prediction history, newest first.
func (s *Service) Recent() []HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]HistoryEntry, len(s.history))
	copy(out, s.history)
	return out
}

func (s *Service) remember(record map[string]interface{}, result Result) {
	entry := HistoryEntry{
		ID:         uuid.New(),
		Prediction: result.Prediction,
		LeadScore:  result.LeadScore,
		Label:      result.Label,
		CreatedAt:  result.Timestamp,
	}
	if raw, ok := record[transport.FieldTotalTimeSpent]; ok {
		if value, ok := raw.(float64); ok {
			entry.TimeOnWebsite = value
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append([]HistoryEntry{entry}, s.history...)
	if len(s.history) > historyLimit {
		s.history = s.history[:historyLimit]
	}
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// roundScore rounds the 0-100 lead score to two decimal places.
func roundScore(value float64) float64 {
	return math.Round(value*100) / 100
}
