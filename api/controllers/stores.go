package controllers

import (
	"net/http"

	"github.com/HAHAtool/ShareBasket/api/responses"
	"github.com/HAHAtool/ShareBasket/internal/stores"
	"github.com/HAHAtool/ShareBasket/pkg/logger"
)

// ListStores returns the warehouse branches groups can be pinned to.
func ListStores(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.ListStores(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"items": rows})
	}
}

// ListPopularItems returns curated item suggestions for the publish form.
func ListPopularItems(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.ListPopularItems(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"items": rows})
	}
}
