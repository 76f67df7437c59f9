package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	applogger "github.com/vladislavprovich/familyhub/pkg/logger"
)

func NewRouter(handler Handler, logger *slog.Logger, cfg *Config) *chi.Mux {
	mux := chi.NewRouter()

	mux.Use(chiMiddleware.Recoverer)
	mux.Use(chiMiddleware.Timeout(cfg.Timeout))

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://*", "http://*"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"Accept", "Content-Type", "authorization"},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           int(cfg.MaxAge),
	}))

	wrappedLogger := &applogger.Logger{Logger: logger}
	mux.Use(chiMiddleware.RequestID)
	mux.Use(chiMiddleware.RequestLogger(&chiMiddleware.DefaultLogFormatter{
		Logger:  wrappedLogger,
		NoColor: true,
	}))

	routeURL := fmt.Sprintf("/api/%s/family", cfg.APIVersion)
	mux.Route(routeURL, func(r chi.Router) {
		r.Route("/posts", func(r chi.Router) {
			r.Get("/", handler.ListPosts)
			r.Post("/", handler.CreatePost)
			r.Delete("/{postID}", handler.DeletePost)
		})

		r.Route("/recipes", func(r chi.Router) {
			r.Get("/", handler.ListRecipes)
			r.Post("/", handler.CreateRecipe)
			r.Get("/{recipeID}", handler.GetRecipe)
			r.Put("/{recipeID}", handler.UpdateRecipe)
		})

		r.Route("/polls", func(r chi.Router) {
			r.Get("/", handler.ListPolls)
			r.Post("/", handler.CreatePoll)
			r.Post("/{pollID}/votes", handler.Vote)
		})

		r.Get("/cache/stats", handler.CacheStats)
	})

	mux.Get("/health", handler.Health)

	return mux
}
