package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-match-api/internal/application/auth"
	"github.com/go-match-api/internal/application/notification"
	photoapp "github.com/go-match-api/internal/application/photo"
	"github.com/go-match-api/internal/application/profile"
	"github.com/go-match-api/internal/application/subscription"
	"github.com/go-match-api/internal/application/swipe"
	"github.com/go-match-api/internal/application/user"
	"github.com/go-match-api/internal/config"
	"github.com/go-match-api/internal/domain"
	"github.com/go-match-api/internal/infrastructure/dynamo"
	"github.com/go-match-api/internal/infrastructure/google"
	jwtinfra "github.com/go-match-api/internal/infrastructure/jwt"
	s3infra "github.com/go-match-api/internal/infrastructure/s3"
	"github.com/go-match-api/internal/infrastructure/smtp"
	"github.com/go-match-api/internal/infrastructure/sns"
	"github.com/go-match-api/internal/pkg/hash"
	"github.com/go-match-api/internal/transport/http/handler"
	appmiddleware "github.com/go-match-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo         *dynamo.UserRepo
	ProfileRepo      *dynamo.ProfileRepo
	SwipeRepo        *dynamo.SwipeRepo
	SubscriptionRepo *dynamo.SubscriptionRepo
	PlanRepo         *dynamo.PlanRepo
	NotificationRepo *dynamo.NotificationRepo
	PhotoRepo        *dynamo.PhotoRepo
	VerificationRepo *dynamo.VerificationRepo
	S3Store          *s3infra.Store
	Mailer           smtp.Mailer
	SMSSender        sns.SMSSender
	GoogleVerifier   *google.Verifier
	JWTProvider      *jwtinfra.Provider
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 5 requests/second, burst of 10, applied to sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	hasher := hash.NewBcrypt()

	authDeps := auth.ServiceDeps{
		UserRepo:         deps.UserRepo,
		VerificationRepo: deps.VerificationRepo,
		Hasher:           hasher,
		Tokens:           deps.JWTProvider,
		Mailer:           deps.Mailer,
		SMSSender:        deps.SMSSender,
	}
	if deps.GoogleVerifier != nil {
		authDeps.Google = deps.GoogleVerifier
	}
	authSvc := auth.NewService(authDeps)
	userSvc := user.NewService(user.ServiceDeps{
		UserRepo: deps.UserRepo,
		Hasher:   hasher,
	})
	profileSvc := profile.NewService(profile.ServiceDeps{
		ProfileRepo: deps.ProfileRepo,
		SwipeRepo:   deps.SwipeRepo,
		StackCount:  cfg.ProfileStackCount,
	})
	swipeSvc := swipe.NewService(swipe.ServiceDeps{
		SwipeRepo:        deps.SwipeRepo,
		ProfileRepo:      deps.ProfileRepo,
		NotificationRepo: deps.NotificationRepo,
		StackCount:       cfg.ProfileStackCount,
	})
	subSvc := subscription.NewService(subscription.ServiceDeps{
		PlanRepo:         deps.PlanRepo,
		SubscriptionRepo: deps.SubscriptionRepo,
	})
	notifSvc := notification.NewService(deps.NotificationRepo)
	photoSvc := photoapp.NewService(deps.S3Store, deps.PhotoRepo, deps.ProfileRepo)

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(authSvc)
	userH := handler.NewUserHandler(userSvc)
	profileH := handler.NewProfileHandler(profileSvc)
	swipeH := handler.NewSwipeHandler(swipeSvc)
	subH := handler.NewSubscriptionHandler(subSvc)
	notifH := handler.NewNotificationHandler(notifSvc)
	photoH := handler.NewPhotoHandler(photoSvc)
	verifH := handler.NewVerificationHandler(authSvc)

	authMw := appmiddleware.Auth(authSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check", healthH.Ping)
		r.With(sensitiveRL.Limit).Post("/auth/register", authH.Register)
		r.With(sensitiveRL.Limit).Post("/auth/login", authH.Login)
		r.With(sensitiveRL.Limit).Post("/auth/google", authH.GoogleLogin)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/auth/me", authH.Me)
			r.Get("/users/{id}", userH.Get)
			r.Put("/users/{id}", userH.Update)
			r.Post("/users/change-password", userH.ChangePassword)

			r.Post("/profiles", profileH.Create)
			r.Get("/profiles", profileH.List)
			r.Get("/profiles/stack", profileH.Stack)
			r.Get("/profiles/me", profileH.Me)
			r.Get("/profiles/{id}", profileH.Get)
			r.Put("/profiles/{id}", profileH.Update)
			r.Delete("/profiles/{id}", profileH.Delete)

			r.Post("/profiles/{id}/photos", photoH.Upload)
			r.Post("/profiles/{id}/photos/base64", photoH.UploadBase64)
			r.Get("/profiles/{id}/photos", photoH.ListByProfile)
			r.Get("/photos/{id}/url", photoH.URL)
			r.Delete("/photos/{id}", photoH.Delete)

			r.Post("/swipes", swipeH.Create)
			r.Get("/swipes", swipeH.ListToday)

			r.Get("/plans", subH.ListPlans)
			r.Get("/plans/{id}", subH.GetPlan)
			r.Post("/subscriptions", subH.Subscribe)
			r.Get("/subscriptions", subH.History)
			r.Get("/subscriptions/current", subH.Current)
			r.Post("/subscriptions/{id}/cancel", subH.Cancel)

			r.Get("/notifications", notifH.ListUnread)
			r.Get("/notifications/{id}", notifH.Get)
			r.Put("/notifications/{id}", notifH.MarkAsRead)

			r.Post("/confirm-email/request", verifH.RequestEmail)
			r.Post("/confirm-email", verifH.ConfirmEmail)
			r.Post("/confirm-phone/request", verifH.RequestPhone)
			r.Post("/confirm-phone", verifH.ConfirmPhone)

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

				r.Get("/users", userH.List)
				r.Delete("/users/{id}", userH.Delete)

				r.Post("/plans", subH.CreatePlan)
				r.Put("/plans/{id}", subH.UpdatePlan)
				r.Delete("/plans/{id}", subH.DeletePlan)
			})
		})
	})

	return r
}
