// The webform binary serves an HTML lead entry form and a small dashboard
// over the same scoring core the API exposes, mirroring the standalone form
// variant of the original deployment.
package main

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"leadscoring_backend/internal/artifact"
	apphttp "leadscoring_backend/internal/http"
	"leadscoring_backend/internal/http/router"
	"leadscoring_backend/internal/prediction"
	"leadscoring_backend/internal/prediction/features"
	"leadscoring_backend/internal/prediction/service"
	"leadscoring_backend/platform/apperr"
	"leadscoring_backend/platform/config"
	"leadscoring_backend/platform/logger"
	"leadscoring_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

type pageData struct {
	ModelLoaded bool
	Result      *service.Result
	Error       string
	History     []service.HistoryEntry
	FormData    map[string]string
}

func main() {
	cfg, err := config.LoadWebForm()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting web form", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bundle := loadBundle(cfg, log)
	val := validator.New()

	predictionModule := prediction.NewModule(bundle, val, log)

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		Modules: []apphttp.Module{
			predictionModule,
		},
	}

	engine := router.New(app)
	engine.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.tmpl")))

	form := &formHandler{svc: predictionModule.Service()}
	engine.GET("/", form.Show)
	engine.POST("/", form.Submit)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info("web form listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		log.Info("shutdown signal received, gracefully shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("server error", "error", err)
		panic("server error: " + err.Error())
	}
}

type formHandler struct {
	svc *service.Service
}

func (h *formHandler) Show(c *gin.Context) {
	h.render(c, pageData{
		ModelLoaded: h.svc.Loaded(),
		History:     h.svc.Recent(),
		FormData:    map[string]string{},
	})
}

func (h *formHandler) Submit(c *gin.Context) {
	data := pageData{
		ModelLoaded: h.svc.Loaded(),
		FormData:    map[string]string{},
	}

	record, err := recordFromForm(c, data.FormData)
	if err == nil {
		var result service.Result
		result, err = h.svc.Predict(record)
		if err == nil {
			data.Result = &result
		}
	}
	if err != nil {
		data.Error = errorMessage(err)
	}

	data.History = h.svc.Recent()
	h.render(c, data)
}

func (h *formHandler) render(c *gin.Context, data pageData) {
	c.HTML(http.StatusOK, "index.tmpl", data)
}

// recordFromForm builds a raw lead record from submitted form values.
// Blank fields are omitted so the transform applies its fallbacks; formData
// keeps the submitted strings for re-rendering the form.
func recordFromForm(c *gin.Context, formData map[string]string) (map[string]interface{}, error) {
	record := make(map[string]interface{})

	for _, field := range features.Schema {
		value := strings.TrimSpace(c.PostForm(field.Name))
		if value == "" {
			continue
		}
		formData[field.Name] = value

		if field.Kind == features.Numeric {
			number, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return nil, apperr.Validation(field.Name + " must be a number")
			}
			record[field.Name] = number
			continue
		}
		record[field.Name] = value
	}

	return record, nil
}

func errorMessage(err error) string {
	if domainErr, ok := err.(*apperr.Error); ok {
		return domainErr.Message
	}
	return err.Error()
}

func loadBundle(cfg *config.Config, log *logger.Logger) *artifact.Bundle {
	dir, err := artifact.Resolve(cfg.ModelDir, cfg.ModelSearchPaths)
	if err != nil {
		log.ArtifactError("resolve", err)
		log.Warn("serving without model; predictions disabled")
		return nil
	}

	bundle, err := artifact.Load(dir)
	if err != nil {
		log.ArtifactError("load", err)
		log.Warn("serving without model; predictions disabled")
		return nil
	}

	log.Info("artifact bundle loaded", "dir", dir, "version", bundle.Version())
	return bundle
}
