package features

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"leadscoring_backend/internal/artifact"
	"leadscoring_backend/platform/apperr"
)

// Vector is a model-ready feature vector. Its length and column order are
// fixed by the artifact bundle the service was started with.
type Vector []float64

// Transform maps a raw lead record to a feature vector using the fitted
// preprocessor. It is a pure function of its inputs and is total over any
// subset of recognized fields: missing numerics impute the training median,
// missing categoricals take the schema fallback, and category values unseen
// during training encode as all zeros for that field's block.
//
// Unrecognized keys are ignored. A recognized field holding a value of the
// wrong type is an apperr Validation error naming the field; a disagreement
// between the assembled width and the preprocessor's declared feature names
// is an apperr SchemaMismatch, which signals artifact/code version skew
// rather than bad input.
func Transform(record map[string]interface{}, pre *artifact.Preprocessor) (Vector, error) {
	if pre == nil {
		return nil, apperr.ModelUnavailable("preprocessor is not loaded")
	}

	vec := make(Vector, 0, len(pre.FeatureNames))

	for _, col := range pre.Columns {
		field, ok := Lookup(col)
		if !ok {
			// The artifact was trained on a column this build does not
			// recognize; refitting cannot be reconciled at request time.
			return nil, apperr.SchemaMismatch(fmt.Sprintf("artifact column %q is not a recognized field", col))
		}

		switch field.Kind {
		case Numeric:
			stats, ok := pre.Numeric[col]
			if !ok {
				return nil, apperr.SchemaMismatch(fmt.Sprintf("artifact has no numeric stats for column %q", col))
			}
			value, err := numericValue(record, col, stats)
			if err != nil {
				return nil, err
			}
			vec = append(vec, (value-stats.Mean)/stats.Scale)

		case Categorical:
			vocab, ok := pre.Categorical[col]
			if !ok {
				return nil, apperr.SchemaMismatch(fmt.Sprintf("artifact has no vocabulary for column %q", col))
			}
			value, err := categoricalValue(record, field)
			if err != nil {
				return nil, err
			}
			vec = append(vec, oneHot(value, vocab.Categories)...)
		}
	}

	if len(vec) != len(pre.FeatureNames) {
		return nil, apperr.SchemaMismatch("feature vector width does not match artifact").
			WithDetails(map[string]int{"got": len(vec), "want": len(pre.FeatureNames)})
	}

	return vec, nil
}

// numericValue extracts a numeric field from the record, imputing the
// training-time median when the field is absent or null.
func numericValue(record map[string]interface{}, col string, stats artifact.NumericStats) (float64, error) {
	raw, present := record[col]
	if !present || raw == nil {
		return stats.Median, nil
	}

	value, ok := parseNumber(raw)
	if !ok {
		return 0, apperr.Validation(fmt.Sprintf("field %q must be a number", col)).
			WithDetails(map[string]string{"field": col})
	}
	if value < 0 {
		return 0, apperr.Validation(fmt.Sprintf("field %q must be non-negative", col)).
			WithDetails(map[string]string{"field": col})
	}

	return value, nil
}

// categoricalValue extracts a categorical field from the record, falling back
// to the schema default when the field is absent, null or blank.
func categoricalValue(record map[string]interface{}, field Field) (string, error) {
	raw, present := record[field.Name]
	if !present || raw == nil {
		return field.Fallback, nil
	}

	text, ok := raw.(string)
	if !ok {
		return "", apperr.Validation(fmt.Sprintf("field %q must be a string", field.Name)).
			WithDetails(map[string]string{"field": field.Name})
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return field.Fallback, nil
	}

	return text, nil
}

// oneHot encodes value against the training vocabulary. Unknown values
// produce an all-zero block: the schema stays fixed-width and the request
// degrades gracefully instead of failing.
func oneHot(value string, categories []string) []float64 {
	block := make([]float64, len(categories))
	for i, category := range categories {
		if category == value {
			block[i] = 1
			break
		}
	}
	return block
}

func parseNumber(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		value, err := v.Float64()
		return value, err == nil
	case string:
		value, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return value, err == nil
	default:
		return 0, false
	}
}
