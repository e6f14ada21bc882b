package api

import (
	"net/http"
	"time"

	"inkfolio/internal/api/handler"
	"inkfolio/internal/api/middleware"
	"inkfolio/internal/app/service"
	"inkfolio/internal/platform/config"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(
	cfg *config.Config,
	tokenAuth *jwtauth.JWTAuth,
	authn *middleware.Authenticator,
	authService *service.AuthService,
	postService *service.PostService,
	projectService *service.ProjectService,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Session token verification: the cookie (or bearer header) is checked
	// for a valid signature here; the principal itself is resolved against
	// the server-held session in WithPrincipal. Public routes pass through
	// anonymous either way.
	r.Use(jwtauth.Verify(tokenAuth, jwtauth.TokenFromCookie, jwtauth.TokenFromHeader))
	r.Use(authn.WithPrincipal)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	homeHandler := handler.NewHomeHandler(postService, projectService)
	r.Get("/", homeHandler.Featured)

	authHandler := handler.NewAuthHandler(authService, cfg.SessionTTL)
	authHandler.RegisterRoutes(r)

	postHandler := handler.NewPostHandler(postService, cfg.MaxUploadBytes)
	r.Get("/blog", postHandler.List)
	r.Route("/post", postHandler.RegisterRoutes)

	projectHandler := handler.NewProjectHandler(projectService, cfg.MaxUploadBytes)
	r.Get("/projects", projectHandler.List)
	r.Route("/project", projectHandler.RegisterRoutes)

	return r
}
