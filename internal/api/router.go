package api

import (
	"encoding/json"
	"net/http"

	_ "github.com/blaisecz/habit-lab/docs"
	"github.com/blaisecz/habit-lab/internal/api/handler"
	"github.com/blaisecz/habit-lab/internal/api/middleware"
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

type Router struct {
	log               *zap.Logger
	userHandler       *handler.UserHandler
	experimentHandler *handler.ExperimentHandler
	eventHandler      *handler.ActivityEventHandler
	feedHandler       *handler.FeedHandler
}

func NewRouter(
	log *zap.Logger,
	userHandler *handler.UserHandler,
	experimentHandler *handler.ExperimentHandler,
	eventHandler *handler.ActivityEventHandler,
	feedHandler *handler.FeedHandler,
) *Router {
	return &Router{
		log:               log,
		userHandler:       userHandler,
		experimentHandler: experimentHandler,
		eventHandler:      eventHandler,
		feedHandler:       feedHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Recovery(rt.log))
	r.Use(middleware.Logger(rt.log))
	r.Use(middleware.Tracing)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Users
		r.Route("/users", func(r chi.Router) {
			r.Post("/", rt.userHandler.Create)
			r.Get("/{userId}", rt.userHandler.GetByID)

			// Experiments (nested under users)
			r.Route("/{userId}/experiments", func(r chi.Router) {
				r.Post("/", rt.experimentHandler.Start)
				r.Get("/", rt.experimentHandler.List)
				r.Get("/{experimentId}", rt.experimentHandler.Snapshot)
				r.Post("/{experimentId}/checkins", rt.experimentHandler.Checkin)
				r.Post("/{experimentId}/cancel", rt.experimentHandler.Cancel)
				r.Get("/{experimentId}/summary", rt.experimentHandler.Summary)
			})

			// Imported wearable events
			r.Get("/{userId}/activity-events", rt.eventHandler.List)
		})

		// Feed vendor webhook
		r.Post("/feed/webhook", rt.feedHandler.Webhook)
	})

	return r
}
