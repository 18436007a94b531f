package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tagdeck/backend/api/controllers"
	ordercontrollers "github.com/tagdeck/backend/api/controllers/orders"
	webhookcontrollers "github.com/tagdeck/backend/api/controllers/webhooks"
	"github.com/tagdeck/backend/api/middleware"
	"github.com/tagdeck/backend/internal/ingest"
	"github.com/tagdeck/backend/internal/orders"
	"github.com/tagdeck/backend/pkg/config"
	"github.com/tagdeck/backend/pkg/logger"
	"github.com/tagdeck/backend/pkg/shopify"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbPinger controllers.Pinger,
	redisPinger controllers.Pinger,
	ordersService orders.Service,
	ingestService ingest.Service,
	platformClient *shopify.Client,
	webhookGuard *ingest.IdempotencyGuard,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": dbPinger,
			"redis":    redisPinger,
		}))
	})

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/orders", webhookcontrollers.OrdersWebhook(ingestService, platformClient, webhookGuard, logg))
	})

	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Get("/", ordercontrollers.List(ordersService, logg))
		r.Get("/export", ordercontrollers.Export(ordersService, logg))

		r.Route("/{orderID}/tags", func(r chi.Router) {
			r.Post("/session", ordercontrollers.OpenTagSession(ordersService, logg))
			r.Delete("/session", ordercontrollers.CancelTagSession(ordersService, logg))
			r.Get("/options", ordercontrollers.TagOptions(ordersService, logg))
			r.Post("/toggle", ordercontrollers.ToggleTag(ordersService, logg))
			r.Post("/save", ordercontrollers.SaveTags(ordersService, logg))
		})
	})

	return r
}
