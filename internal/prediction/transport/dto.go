// Package transport defines the request and response DTOs for the prediction
// module's HTTP surface.
package transport

// Prediction labels returned to callers. The label is a fixed lookup on the
// predicted class.
const (
	LabelWillConvert    = "Will Convert"
	LabelWillNotConvert = "Will Not Convert"
)

// Raw record field names with request-level bounds. The record itself is a
// free-form map (keys are the recognized human-label field names); this typed
// view exists so the shared validator can enforce bounds before the transform
// runs.
const (
	FieldTotalVisits       = "TotalVisits"
	FieldPageViewsPerVisit = "Page Views Per Visit"
	FieldTotalTimeSpent    = "Total Time Spent on Website"
)

// PredictRequestBounds is the validated view of the numeric fields in a raw
// lead record. Absent fields stay nil and are imputed downstream.
type PredictRequestBounds struct {
	TotalVisits       *float64 `validate:"omitempty,gte=0"`
	PageViewsPerVisit *float64 `validate:"omitempty,gte=0"`
	TotalTimeSpent    *float64 `validate:"omitempty,gte=0"`
}

// BoundsView extracts the numeric fields from a raw record for validation.
// Non-numeric values are left nil here; the transform reports them with a
// field-level validation error.
func BoundsView(record map[string]interface{}) PredictRequestBounds {
	return PredictRequestBounds{
		TotalVisits:       numberAt(record, FieldTotalVisits),
		PageViewsPerVisit: numberAt(record, FieldPageViewsPerVisit),
		TotalTimeSpent:    numberAt(record, FieldTotalTimeSpent),
	}
}

func numberAt(record map[string]interface{}, key string) *float64 {
	if raw, ok := record[key]; ok {
		if value, ok := raw.(float64); ok {
			return &value
		}
	}
	return nil
}

// PredictionResponse is the canonical prediction response body.
type PredictionResponse struct {
	Prediction   int     `json:"prediction"`
	LeadScore    float64 `json:"lead_score"`
	Label        string  `json:"label"`
	Timestamp    string  `json:"timestamp"`
	ModelVersion string  `json:"model_version"`
}

// HealthResponse reports service readiness. Status is "healthy" when the
// artifact bundle is loaded and "degraded" otherwise.
type HealthResponse struct {
	Status             string `json:"status"`
	ModelLoaded        bool   `json:"model_loaded"`
	PreprocessorLoaded bool   `json:"preprocessor_loaded"`
	PredictionsCount   int64  `json:"predictions_count"`
	Timestamp          string `json:"timestamp"`
	Version            string `json:"version"`
	Uptime             string `json:"uptime"`
}

// ModelInfoResponse describes the loaded artifact bundle.
type ModelInfoResponse struct {
	ModelLoaded        bool     `json:"model_loaded"`
	PreprocessorLoaded bool     `json:"preprocessor_loaded"`
	ExpectedFeatures   []string `json:"expected_features"`
	FeatureCount       int      `json:"feature_count"`
	ModelClasses       []int    `json:"model_classes,omitempty"`
	ModelVersion       string   `json:"model_version,omitempty"`
}
