package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fashionhub/storefront-backend/api/controllers"
	"github.com/fashionhub/storefront-backend/api/middleware"
	"github.com/fashionhub/storefront-backend/internal/cart"
	"github.com/fashionhub/storefront-backend/internal/catalog"
	"github.com/fashionhub/storefront-backend/internal/notifications"
	"github.com/fashionhub/storefront-backend/internal/orders"
	"github.com/fashionhub/storefront-backend/internal/payments"
	"github.com/fashionhub/storefront-backend/internal/ratings"
	"github.com/fashionhub/storefront-backend/pkg/config"
	"github.com/fashionhub/storefront-backend/pkg/db"
	"github.com/fashionhub/storefront-backend/pkg/logger"
	"github.com/fashionhub/storefront-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	catalogService catalog.Service,
	cartService cart.Service,
	ordersService orders.Service,
	paymentsService payments.Service,
	notificationsService notifications.Service,
	ratingsService ratings.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	// Public catalog reads need no identity.
	r.Route("/api/public/v1", func(r chi.Router) {
		r.Get("/products", controllers.ListProducts(catalogService, logg))
		r.Get("/products/{productId}", controllers.GetProduct(catalogService, logg))
		r.Get("/products/{productId}/ratings", controllers.ListProductRatings(ratingsService, logg))
		r.Get("/sizes", controllers.ListSizes(catalogService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Identity(logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(cartService, logg))
			r.Post("/items", controllers.CartAddLine(cartService, logg))
			r.Patch("/items/{itemId}", controllers.CartUpdateLine(cartService, logg))
			r.Delete("/items/{itemId}", controllers.CartRemoveLine(cartService, logg))
			r.Delete("/", controllers.CartClear(cartService, logg))
		})

		r.Post("/checkout", controllers.Checkout(ordersService, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.CreateOrder(ordersService, logg))
			r.Get("/", controllers.ListOrders(ordersService, logg))
			r.Get("/{orderId}", controllers.GetOrder(ordersService, logg))
			r.Post("/{orderId}/cancel", controllers.CancelOrder(ordersService, logg))
			r.Post("/{orderId}/confirm-receipt", controllers.ConfirmReceipt(ordersService, logg))
			r.Post("/{orderId}/pay", controllers.InitiatePayment(paymentsService, ordersService, logg))
		})

		// The gateway redirects the buyer back here with the pidx.
		r.Get("/payments/verify", controllers.VerifyPayment(paymentsService, logg))

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(notificationsService, logg))
			r.Post("/{notificationId}/read", controllers.MarkNotificationRead(notificationsService, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(notificationsService, logg))
		})

		r.Put("/products/{productId}/rating", controllers.RateProduct(ratingsService, logg))
		r.Delete("/products/{productId}/rating", controllers.RemoveRating(ratingsService, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Identity(logg))
		r.Use(middleware.RequireRole("admin", logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.AdminCreateProduct(catalogService, logg))
			r.Patch("/{productId}", controllers.AdminUpdateProduct(catalogService, logg))
			r.Delete("/{productId}", controllers.AdminDeleteProduct(catalogService, logg))
			r.Put("/{productId}/stock", controllers.AdminRestock(catalogService, logg))
			r.Post("/{productId}/stock/adjust", controllers.AdminAdjustStock(catalogService, logg))
		})
		r.Post("/sizes", controllers.AdminCreateSize(catalogService, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminListOrders(ordersService, logg))
			r.Get("/{orderId}", controllers.AdminGetOrder(ordersService, logg))
			r.Post("/{orderId}/status", controllers.AdminTransitionOrder(ordersService, logg))
			r.Post("/{orderId}/mark-paid", controllers.AdminMarkPaid(ordersService, logg))
			r.Delete("/{orderId}", controllers.AdminDeleteOrder(ordersService, logg))
		})
	})

	return r
}
