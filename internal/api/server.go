package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/limbo/moodlog/docs"
	"github.com/limbo/moodlog/internal/service"
)

const BasePath = "/api/v1"

type Server struct {
	mx          *chi.Mux
	userService service.UserServiceI
	moodService service.MoodServiceI
	jwtService  JWTServiceI
	recommender RecommenderI
	limiter     *RateLimiter
	health      HealthChecker
	corsOrigins []string
}

type ServicesList struct {
	UserService service.UserServiceI
	MoodService service.MoodServiceI
	JwtService  JWTServiceI
	Recommender RecommenderI
	// RateLimiter guards /auth routes. Nil disables limiting.
	RateLimiter *RateLimiter
	Health      HealthChecker
	// CORSAllowedOrigins defaults to any origin.
	CORSAllowedOrigins []string
}

func New(servicesOptions *ServicesList) *Server {
	s := &Server{
		mx:          chi.NewMux(),
		userService: servicesOptions.UserService,
		moodService: servicesOptions.MoodService,
		jwtService:  servicesOptions.JwtService,
		recommender: servicesOptions.Recommender,
		limiter:     servicesOptions.RateLimiter,
		health:      servicesOptions.Health,
		corsOrigins: servicesOptions.CORSAllowedOrigins,
	}
	if len(s.corsOrigins) == 0 {
		s.corsOrigins = []string{"*"}
	}
	s.MountHandlers()
	return s
}

func (s *Server) MountHandlers() {
	s.mx.Use(middleware.Recoverer)
	s.mx.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"Location"},
		MaxAge:         300,
	}))
	s.mx.Use(middleware.RealIP)
	s.mx.Use(s.RequestIDMiddleware)
	s.mx.Use(s.SettingUpLoggerMiddleware)

	s.mx.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mx.Route(BasePath, func(r chi.Router) {
		r.Get("/health", s.Health)

		r.Route("/auth", func(r chi.Router) {
			r.Use(s.limiter.Middleware)
			r.Post("/register", s.Register)
			r.Post("/login", s.Login)
			r.Post("/forgot-password", s.ForgotPassword)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.AuthMiddleware)
			r.Use(s.LoggerExtensionMiddleware)
			r.Post("/mood", s.LogMood)
			r.Get("/mood/today", s.GetTodayMood)
			r.Get("/mood/week", s.GetWeekMoods)
			r.Get("/mood/stats", s.GetMoodStats)
			r.Get("/recommendation", s.GetRecommendation)
		})
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mx.ServeHTTP(w, r)
}
