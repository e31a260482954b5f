package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ArturPrzybyloo/testingforge-auth/pkg/health"
	pkgmiddleware "github.com/ArturPrzybyloo/testingforge-auth/pkg/middleware"

	"github.com/ArturPrzybyloo/testingforge-auth/internal/auth"
	"github.com/ArturPrzybyloo/testingforge-auth/internal/domain"
	"github.com/ArturPrzybyloo/testingforge-auth/internal/service"
)

// RouterConfig carries the router dependencies.
type RouterConfig struct {
	Service        *service.AuthService
	JWT            *auth.JWTManager
	Health         *health.Handler
	Logger         *slog.Logger
	ServiceName    string
	AllowedOrigins []string
}

// NewRouter builds the HTTP router with all middleware and routes mounted.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(CORS(cfg.AllowedOrigins))
	r.Use(pkgmiddleware.Recovery(cfg.Logger))
	r.Use(pkgmiddleware.RequestLogging(cfg.Logger))
	r.Use(pkgmiddleware.Tracing(cfg.ServiceName))
	r.Use(pkgmiddleware.PrometheusMetrics(cfg.ServiceName))

	r.Get("/health/live", cfg.Health.LivenessHandler())
	r.Get("/health/ready", cfg.Health.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	authHandler := NewAuthHandler(cfg.Service, cfg.Logger)
	userHandler := NewUserHandler(cfg.Service, cfg.Logger)

	validateToken := func(token string) (*pkgmiddleware.Claims, error) {
		claims, err := cfg.JWT.ValidateAccessToken(token)
		if err != nil {
			return nil, err
		}
		return &pkgmiddleware.Claims{
			UserID: claims.UserID,
			Email:  claims.Email,
			Role:   claims.Role,
		}, nil
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
			r.Get("/verify-email/{token}", authHandler.VerifyEmail)
			r.Post("/resend-verification", authHandler.ResendVerification)

			r.Group(func(r chi.Router) {
				r.Use(pkgmiddleware.Auth(validateToken))
				r.Use(CurrentUser(cfg.Service))
				r.Post("/logout", authHandler.Logout)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(pkgmiddleware.Auth(validateToken))
			r.Use(CurrentUser(cfg.Service))
			r.Get("/me", userHandler.Me)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(pkgmiddleware.Auth(validateToken))
			r.Use(CurrentUser(cfg.Service))
			r.Use(pkgmiddleware.RequireRole(domain.RoleAdmin))
			r.Get("/users/{id}", userHandler.AdminGetUser)
		})
	})

	return r
}
