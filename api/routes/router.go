package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/parcelpoint/courier-backend/api/controllers"
	"github.com/parcelpoint/courier-backend/api/middleware"
	"github.com/parcelpoint/courier-backend/internal/parcels"
	"github.com/parcelpoint/courier-backend/internal/payments"
	"github.com/parcelpoint/courier-backend/internal/reviews"
	"github.com/parcelpoint/courier-backend/internal/riders"
	"github.com/parcelpoint/courier-backend/internal/users"
	"github.com/parcelpoint/courier-backend/pkg/config"
	"github.com/parcelpoint/courier-backend/pkg/db"
	"github.com/parcelpoint/courier-backend/pkg/enums"
	"github.com/parcelpoint/courier-backend/pkg/logger"
	"github.com/parcelpoint/courier-backend/pkg/metrics"
	pkgredis "github.com/parcelpoint/courier-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *pkgredis.Client,
	httpMetrics *metrics.HTTPMetrics,
	usersService users.Service,
	parcelsService parcels.Service,
	paymentsService payments.Service,
	ridersService riders.Service,
	reviewsService reviews.Service,
) http.Handler {
	var idempotencyStore pkgredis.IdempotencyStore
	var cachePinger pkgredis.Pinger
	if redisClient != nil {
		idempotencyStore = redisClient
		cachePinger = redisClient
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)
	if httpMetrics != nil {
		r.Use(httpMetrics.Middleware())
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, cachePinger, logg))
	})

	if httpMetrics != nil {
		r.Method(http.MethodGet, "/metrics", httpMetrics.Handler())
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(middleware.Idempotency(idempotencyStore, logg))
		r.Post("/register", controllers.Register(usersService, logg))
		r.Post("/login", controllers.Login(usersService, logg))
	})

	// Public surface: tracking by code and landing-page reviews.
	r.Get("/api/v1/track/{trackingCode}", controllers.TrackParcel(parcelsService, logg))
	r.Get("/api/v1/reviews", controllers.ListReviews(reviewsService, logg))

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Route("/v1", func(r chi.Router) {
			r.Route("/parcels", func(r chi.Router) {
				r.Post("/", controllers.CreateParcel(parcelsService, logg))
				r.Get("/", controllers.ListParcels(parcelsService, logg))
				r.Get("/{parcelId}", controllers.GetParcel(parcelsService, logg))
				r.Delete("/{parcelId}", controllers.CancelParcel(parcelsService, logg))
			})

			r.Route("/payments", func(r chi.Router) {
				r.Post("/intent", controllers.CreatePaymentIntent(paymentsService, logg))
				r.Post("/", controllers.ConfirmPayment(paymentsService, logg))
				r.Get("/", controllers.ListPayments(paymentsService, logg))
			})

			r.Post("/riders/apply", controllers.ApplyRider(ridersService, logg))
			r.Post("/reviews", controllers.CreateReview(reviewsService, logg))

			r.Route("/rider", func(r chi.Router) {
				r.Use(middleware.RequireRole(enums.RoleRider, logg))
				r.Get("/parcels", controllers.RiderAssignedParcels(parcelsService, ridersService, logg))
				r.Get("/parcels/completed", controllers.RiderCompletedParcels(parcelsService, ridersService, logg))
				r.Post("/parcels/{parcelId}/pickup", controllers.RiderPickupParcel(parcelsService, ridersService, logg))
				r.Post("/parcels/{parcelId}/deliver", controllers.RiderDeliverParcel(parcelsService, ridersService, logg))
				r.Post("/parcels/{parcelId}/cashout", controllers.RiderCashoutParcel(parcelsService, ridersService, logg))
			})
		})

		r.Route("/admin/v1", func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.RoleAdmin, logg))

			r.Route("/riders", func(r chi.Router) {
				r.Get("/", controllers.AdminListRiders(ridersService, logg))
				r.Get("/eligible", controllers.AdminEligibleRiders(ridersService, logg))
				r.Post("/{riderId}/approve", controllers.AdminApproveRider(ridersService, logg))
				r.Post("/{riderId}/reject", controllers.AdminRejectRider(ridersService, logg))
				r.Post("/{riderId}/deactivate", controllers.AdminDeactivateRider(ridersService, logg))
			})

			r.Route("/parcels", func(r chi.Router) {
				r.Get("/", controllers.AdminListParcels(parcelsService, logg))
				r.Post("/{parcelId}/assign", controllers.AdminAssignParcel(parcelsService, logg))
			})
		})
	})

	return r
}
