// Package handler exposes the prediction module's HTTP endpoints.
package handler

import (
	"net/http"
	"time"

	"leadscoring_backend/internal/prediction/service"
	"leadscoring_backend/internal/prediction/transport"
	"leadscoring_backend/platform/httpkit"
	"leadscoring_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request body"
	msgValidationFailed = "validation failed"

	statusHealthy  = "healthy"
	statusDegraded = "degraded"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/predict", h.Predict)
	rg.GET("/models/info", h.ModelInfo)
}

// Predict handles POST /api/v1/predict.
// The body is a raw lead record: a JSON object keyed by the recognized
// human-label field names, any subset of which may be present.
func (h *Handler) Predict(c *gin.Context) {
	var record map[string]interface{}
	if err := c.ShouldBindJSON(&record); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	bounds := transport.BoundsView(record)
	if err := h.val.Struct(bounds); err != nil {
		httpkit.Error(c, http.StatusUnprocessableEntity, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Predict(record)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, transport.PredictionResponse{
		Prediction:   result.Prediction,
		LeadScore:    result.LeadScore,
		Label:        result.Label,
		Timestamp:    result.Timestamp.Format(time.RFC3339),
		ModelVersion: result.ModelVersion,
	})
}

// Health handles GET /health. A missing artifact bundle degrades the status
// but still answers 200: the process is up, the model is not.
func (h *Handler) Health(c *gin.Context) {
	stats := h.svc.Stats()

	status := statusHealthy
	if !stats.ModelLoaded {
		status = statusDegraded
	}

	now := time.Now().UTC()
	httpkit.OK(c, transport.HealthResponse{
		Status:             status,
		ModelLoaded:        stats.ModelLoaded,
		PreprocessorLoaded: stats.PreprocessorLoaded,
		PredictionsCount:   stats.PredictionsCount,
		Timestamp:          now.Format(time.RFC3339),
		Version:            stats.ModelVersion,
		Uptime:             now.Sub(stats.StartedAt).Truncate(time.Second).String(),
	})
}

// ModelInfo handles GET /api/v1/models/info.
func (h *Handler) ModelInfo(c *gin.Context) {
	stats := h.svc.Stats()

	info := transport.ModelInfoResponse{
		ModelLoaded:        stats.ModelLoaded,
		PreprocessorLoaded: stats.PreprocessorLoaded,
		ModelVersion:       stats.ModelVersion,
	}

	if bundle := h.svc.Bundle(); bundle != nil {
		info.ExpectedFeatures = bundle.Preprocessor.Columns
		info.FeatureCount = len(bundle.Preprocessor.Columns)
		info.ModelClasses = bundle.Classifier.Classes
	}

	httpkit.OK(c, info)
}
