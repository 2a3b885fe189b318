package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"coursemarket/internal/config"
	rtr "coursemarket/internal/router"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

func Routes(s *rtr.Services) *chi.Mux {
	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.Logger, // Log API Request Calls
		middleware.Recoverer,
	)

	router.Route("/", func(r chi.Router) {
		r.Mount("/", rtr.HealthRoutes())
	})

	router.Route("/v1", func(r chi.Router) {
		r.Mount("/courses", rtr.CourseRoutes(s))
		r.Mount("/educator", rtr.EducatorRoutes(s))
		r.Mount("/users", rtr.UserRoutes(s))
	})

	router.Mount("/webhooks", rtr.WebhookRoutes(s))

	return router
}

// Handler wraps the routes with the CORS policy of cfg.
func Handler(cfg *config.ServerConfig, s *rtr.Services) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedHeaders:   []string{"Authorization", "Cookie", "Content-Type"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "PATCH"},
		ExposedHeaders:   []string{"Set-Cookie"},
		AllowCredentials: true,
	})

	return c.Handler(Routes(s))
}

// Start serves the API until ctx is cancelled.
func Start(ctx context.Context, cfg *config.ServerConfig, s *rtr.Services) error {
	if cfg == nil {
		return errors.New("❌ Missing or invalid configuration!")
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%v", cfg.Port),
		Handler:           Handler(cfg, s),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("Server is listening on port %v\n", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
