package groups

import (
	"github.com/google/uuid"

	"github.com/HAHAtool/ShareBasket/internal/allocation"
	"github.com/HAHAtool/ShareBasket/pkg/db/models"
	"github.com/HAHAtool/ShareBasket/pkg/enums"
)

// Actor identifies the authenticated caller. Email rides along so a
// profile can be lazily created when the nickname is first needed.
type Actor struct {
	ID    uuid.UUID
	Email string
}

// PreviewInput carries the raw publish-form economics.
type PreviewInput struct {
	TotalPrice    int `json:"total_price"`
	TotalUnits    int `json:"total_units"`
	SelfUnits     int `json:"self_units"`
	UnitsPerShare int `json:"units_per_share"`
}

// DraftDTO echoes the inputs next to the computed plan so the client
// can render the confirm step without holding server-side state.
type DraftDTO struct {
	Input PreviewInput    `json:"input"`
	Plan  allocation.Plan `json:"plan"`
}

// CreateInput is the confirmed publish payload. The plan is recomputed
// from the raw inputs, never trusted from the client.
type CreateInput struct {
	StoreID       uuid.UUID `json:"store_id"`
	ItemName      string    `json:"item_name"`
	TotalPrice    int       `json:"total_price"`
	TotalUnits    int       `json:"total_units"`
	SelfUnits     int       `json:"self_units"`
	UnitsPerShare int       `json:"units_per_share"`
}

func (in CreateInput) preview() PreviewInput {
	return PreviewInput{
		TotalPrice:    in.TotalPrice,
		TotalUnits:    in.TotalUnits,
		SelfUnits:     in.SelfUnits,
		UnitsPerShare: in.UnitsPerShare,
	}
}

// GroupDTO is the API shape of a group. Full is derived, not stored: a
// group with no shares left stays active until the creator closes it.
type GroupDTO struct {
	models.Group
	StoreBranch string `json:"store_branch,omitempty"`
	Full        bool   `json:"full"`
}

func newGroupDTO(group models.Group) GroupDTO {
	dto := GroupDTO{
		Group: group,
		Full:  group.RemainingUnits == 0,
	}
	if group.Store != nil {
		dto.StoreBranch = group.Store.BranchName
	}
	return dto
}

func newGroupDTOs(rows []models.Group) []GroupDTO {
	out := make([]GroupDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, newGroupDTO(row))
	}
	return out
}

// ClaimResult returns the post-claim group state plus the membership row.
type ClaimResult struct {
	Group  GroupDTO           `json:"group"`
	Member models.GroupMember `json:"member"`
}

// ListActiveParams filters the public feed.
type ListActiveParams struct {
	StoreID uuid.UUID
	Limit   int
	Cursor  string
}

// ListResult wraps returned groups and the cursor for the next page.
type ListResult struct {
	Items  []GroupDTO `json:"items"`
	Cursor string     `json:"cursor"`
}

// ListForUserParams selects which side of a user's history to return.
type ListForUserParams struct {
	Role   enums.GroupRole
	Status *enums.GroupStatus
}
