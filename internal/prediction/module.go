// Package prediction provides the lead scoring bounded context module.
// This file defines the module that encapsulates setup and route registration.
package prediction

import (
	"leadscoring_backend/internal/artifact"
	apphttp "leadscoring_backend/internal/http"
	"leadscoring_backend/internal/prediction/handler"
	"leadscoring_backend/internal/prediction/service"
	"leadscoring_backend/platform/logger"
	"leadscoring_backend/platform/validator"
)

// Module is the prediction bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	scorer  *service.Service
}

// NewModule creates the prediction module. The bundle may be nil when the
// artifacts failed to load; the module then serves a degraded health status
// and rejects predictions with ModelUnavailable.
func NewModule(bundle *artifact.Bundle, val *validator.Validator, log *logger.Logger) *Module {
	scorer := service.New(bundle, log)
	h := handler.New(scorer, val)

	return &Module{
		handler: h,
		scorer:  scorer,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "prediction"
}

// Service returns the scoring service for external use (the web form binary
// drives the same core in-process).
func (m *Module) Service() *service.Service {
	return m.scorer
}

// RegisterRoutes mounts prediction routes on the provided router context.
// The health check lives at the engine root so load balancers can reach it
// without the API prefix.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Engine.GET("/health", m.handler.Health)
	m.handler.RegisterRoutes(ctx.V1)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
