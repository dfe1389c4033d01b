package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/HAHAtool/ShareBasket/api/middleware"
	"github.com/HAHAtool/ShareBasket/api/responses"
	"github.com/HAHAtool/ShareBasket/api/validators"
	"github.com/HAHAtool/ShareBasket/internal/groups"
	"github.com/HAHAtool/ShareBasket/pkg/enums"
	pkgerrors "github.com/HAHAtool/ShareBasket/pkg/errors"
	"github.com/HAHAtool/ShareBasket/pkg/logger"
	"github.com/HAHAtool/ShareBasket/pkg/pagination"
)

type previewGroupRequest struct {
	TotalPrice    int `json:"total_price" validate:"required,gt=0"`
	TotalUnits    int `json:"total_units" validate:"required,gt=0"`
	SelfUnits     int `json:"self_units" validate:"required,min=1"`
	UnitsPerShare int `json:"units_per_share" validate:"required,min=1"`
}

type createGroupRequest struct {
	StoreID       uuid.UUID `json:"store_id" validate:"required"`
	ItemName      string    `json:"item_name" validate:"required,max=120"`
	TotalPrice    int       `json:"total_price" validate:"required,gt=0"`
	TotalUnits    int       `json:"total_units" validate:"required,gt=0"`
	SelfUnits     int       `json:"self_units" validate:"required,min=1"`
	UnitsPerShare int       `json:"units_per_share" validate:"required,min=1"`
}

func actorFromContext(r *http.Request) (groups.Actor, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return groups.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return groups.Actor{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return groups.Actor{ID: userID, Email: middleware.UserEmailFromContext(r.Context())}, nil
}

func groupIDFromPath(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "groupId")
	groupID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid group id")
	}
	return groupID, nil
}

// ListGroups returns the public feed of active groups.
func ListGroups(svc groups.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		storeID, err := validators.ParseQueryUUID(r, "storeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := svc.ListActive(r.Context(), groups.ListActiveParams{
			StoreID: storeID,
			Limit:   limit,
			Cursor:  strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}

// PreviewGroup runs the allocation calculator without persisting anything.
func PreviewGroup(svc groups.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req previewGroupRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		draft, err := svc.Preview(r.Context(), groups.PreviewInput{
			TotalPrice:    req.TotalPrice,
			TotalUnits:    req.TotalUnits,
			SelfUnits:     req.SelfUnits,
			UnitsPerShare: req.UnitsPerShare,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, draft)
	}
}

// CreateGroup publishes a group from confirmed draft inputs.
func CreateGroup(svc groups.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req createGroupRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Create(r.Context(), actor, groups.CreateInput{
			StoreID:       req.StoreID,
			ItemName:      req.ItemName,
			TotalPrice:    req.TotalPrice,
			TotalUnits:    req.TotalUnits,
			SelfUnits:     req.SelfUnits,
			UnitsPerShare: req.UnitsPerShare,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// ClaimGroup claims one share for the caller.
func ClaimGroup(svc groups.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		groupID, err := groupIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Claim(r.Context(), groupID, actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// MarkGroupRead clears the organizer's new-join indicator.
func MarkGroupRead(svc groups.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		groupID, err := groupIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.MarkRead(r.Context(), groupID, actor.ID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "read"})
	}
}

// CloseGroup ends the claim window for a group.
func CloseGroup(svc groups.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		groupID, err := groupIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Close(r.Context(), groupID, actor.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// MyGroups lists groups the caller organized.
func MyGroups(svc groups.Service, logg *logger.Logger) http.HandlerFunc {
	return listForUser(svc, logg, enums.GroupRoleCreator)
}

// JoinedGroups lists groups the caller claimed a share in.
func JoinedGroups(svc groups.Service, logg *logger.Logger) http.HandlerFunc {
	return listForUser(svc, logg, enums.GroupRoleMember)
}

func listForUser(svc groups.Service, logg *logger.Logger, role enums.GroupRole) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := groups.ListForUserParams{Role: role}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseGroupStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			params.Status = &status
		}

		rows, err := svc.ListForUser(r.Context(), actor.ID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"items": rows})
	}
}
