// Package api exposes the pipeline and the lake artifact over HTTP for a
// browser dashboard.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/cinemetrics/internal/model"
	"github.com/sells-group/cinemetrics/internal/pipeline"
)

// Runner executes one pipeline batch.
type Runner interface {
	Run(ctx context.Context, titles []string) (*pipeline.Result, error)
}

// Lake reads the current artifact.
type Lake interface {
	Read() (model.Table, error)
}

// Deps holds the handler dependencies.
type Deps struct {
	Runner      Runner
	Lake        Lake
	CORSOrigins []string
}

// NewRouter builds the HTTP routes.
func NewRouter(d Deps) http.Handler {
	origins := d.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	h := &handlers{runner: d.Runner, lake: d.Lake}

	r.Get("/health", h.health)
	r.Route("/api", func(r chi.Router) {
		r.Post("/pipeline", h.runPipeline)
		r.Get("/lake", h.downloadLake)
		r.Get("/charts/{metric}", h.chart)
	})

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Info("api: request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
