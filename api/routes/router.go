package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/HAHAtool/ShareBasket/api/controllers"
	"github.com/HAHAtool/ShareBasket/api/middleware"
	"github.com/HAHAtool/ShareBasket/internal/chat"
	"github.com/HAHAtool/ShareBasket/internal/groups"
	"github.com/HAHAtool/ShareBasket/internal/profiles"
	"github.com/HAHAtool/ShareBasket/internal/stores"
	"github.com/HAHAtool/ShareBasket/pkg/config"
	"github.com/HAHAtool/ShareBasket/pkg/logger"
	"github.com/HAHAtool/ShareBasket/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisClient *redis.Client,
	groupsService groups.Service,
	chatService chat.Service,
	storesService stores.Service,
	profilesService profiles.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/groups", func(r chi.Router) {
			r.Get("/", controllers.ListGroups(groupsService, logg))
			r.Post("/", controllers.CreateGroup(groupsService, logg))
			r.Post("/preview", controllers.PreviewGroup(groupsService, logg))
			r.Get("/mine", controllers.MyGroups(groupsService, logg))
			r.Get("/joined", controllers.JoinedGroups(groupsService, logg))

			r.Route("/{groupId}", func(r chi.Router) {
				r.Post("/claim", controllers.ClaimGroup(groupsService, logg))
				r.Post("/read", controllers.MarkGroupRead(groupsService, logg))
				r.Post("/close", controllers.CloseGroup(groupsService, logg))

				r.Route("/messages", func(r chi.Router) {
					r.Get("/", controllers.ListMessages(chatService, logg))
					r.Post("/", controllers.AppendMessage(chatService, logg))
					r.Post("/read", controllers.MarkMessagesRead(chatService, logg))
					r.Get("/unread", controllers.UnreadMessages(chatService, logg))
				})
			})
		})

		r.Get("/stores", controllers.ListStores(storesService, logg))
		r.Get("/popular-items", controllers.ListPopularItems(storesService, logg))

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", controllers.GetProfile(profilesService, logg))
			r.Put("/", controllers.UpdateProfile(profilesService, logg))
		})
	})

	return r
}
