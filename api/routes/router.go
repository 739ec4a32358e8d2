package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dcastellanos/hearthhide-backend/api/controllers"
	"github.com/dcastellanos/hearthhide-backend/api/middleware"
	"github.com/dcastellanos/hearthhide-backend/internal/auth"
	"github.com/dcastellanos/hearthhide-backend/internal/cart"
	"github.com/dcastellanos/hearthhide-backend/internal/products"
	"github.com/dcastellanos/hearthhide-backend/internal/reviews"
	"github.com/dcastellanos/hearthhide-backend/pkg/auth/session"
	"github.com/dcastellanos/hearthhide-backend/pkg/config"
	"github.com/dcastellanos/hearthhide-backend/pkg/db"
	"github.com/dcastellanos/hearthhide-backend/pkg/enums"
	"github.com/dcastellanos/hearthhide-backend/pkg/logger"
	"github.com/dcastellanos/hearthhide-backend/pkg/metrics"
	"github.com/dcastellanos/hearthhide-backend/pkg/redis"
)

// RouterParams carries everything the HTTP surface depends on.
type RouterParams struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             db.Pinger
	Redis          *redis.Client
	Sessions       session.AccessSessionChecker
	AuthService    auth.Service
	Register       auth.RegisterService
	Reset          auth.ResetService
	Products       products.Service
	Reviews        reviews.Service
	Cart           cart.Service
	HTTPMetrics    *metrics.HTTPMetrics
	MetricsHandler http.Handler
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(p.HTTPMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	otpPolicy := middleware.NewAuthRateLimitPolicy(
		"otp",
		cfg.AuthRateLimit.OTPWindow,
		cfg.AuthRateLimit.OTPIPLimit,
		cfg.AuthRateLimit.OTPEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DB, p.Redis))
	})

	if p.MetricsHandler != nil {
		r.Handle("/metrics", p.MetricsHandler)
	}

	// Legacy storefront cart protocol. Paths, bodies, and status codes are
	// frozen; see api/controllers/cart.go.
	r.Route("/cart", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.Sessions, logg))
		r.Get("/find/{userId}", controllers.CartFind(p.Cart, logg))
		r.Post("/add", controllers.CartAdd(p.Cart, logg))
		r.Put("/update/{cartId}", controllers.CartUpdate(p.Cart, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, p.Redis, logg)).Post("/login", controllers.AuthLogin(p.AuthService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, p.Redis, logg)).Post("/register", controllers.AuthRegister(p.Register, p.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(p.AuthService, cfg.JWT, logg))
		r.With(middleware.AuthRateLimit(otpPolicy, p.Redis, logg)).Post("/forgot-password", controllers.AuthForgotPassword(p.Reset, logg))
		r.With(middleware.AuthRateLimit(otpPolicy, p.Redis, logg)).Post("/reset-password", controllers.AuthResetPassword(p.Reset, logg))
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductsList(p.Products, logg))
		r.Get("/{productId}", controllers.ProductsGet(p.Products, logg))
		r.Get("/{productId}/reviews", controllers.ReviewsList(p.Reviews, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, p.Sessions, logg))
			r.Post("/{productId}/reviews", controllers.ReviewsCreate(p.Reviews, logg))
		})
	})

	r.Route("/api/v1/reviews", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.Sessions, logg))
		r.Delete("/{reviewId}", controllers.ReviewsDelete(p.Reviews, logg))
	})

	r.Route("/api/admin/v1/products", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.Sessions, logg))
		r.Use(middleware.RequireRole(string(enums.MemberRoleAdmin), logg))
		r.Post("/", controllers.AdminProductsCreate(p.Products, logg))
		r.Patch("/{productId}", controllers.AdminProductsUpdate(p.Products, logg))
		r.Delete("/{productId}", controllers.AdminProductsDelete(p.Products, logg))
	})

	return r
}
