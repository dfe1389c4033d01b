package controllers

import (
	"net/http"

	"github.com/HAHAtool/ShareBasket/api/responses"
	"github.com/HAHAtool/ShareBasket/api/validators"
	"github.com/HAHAtool/ShareBasket/internal/profiles"
	"github.com/HAHAtool/ShareBasket/pkg/logger"
)

type updateProfileRequest struct {
	Nickname string `json:"nickname" validate:"required,max=32"`
}

// GetProfile returns the caller's profile, creating it on first sight.
func GetProfile(svc profiles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.Get(r.Context(), actor.ID, actor.Email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}

// UpdateProfile replaces the caller's nickname.
func UpdateProfile(svc profiles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateProfileRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.UpdateNickname(r.Context(), actor.ID, actor.Email, req.Nickname)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}
