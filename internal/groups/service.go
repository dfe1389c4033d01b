// Package groups implements the claim lifecycle around a published
// pack: publish (preview + create), claim a share, surface join
// activity to the organizer, and close. The guarded decrement in Claim
// is the only write that has to survive contention.
package groups

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/HAHAtool/ShareBasket/internal/allocation"
	"github.com/HAHAtool/ShareBasket/internal/profiles"
	"github.com/HAHAtool/ShareBasket/pkg/db"
	"github.com/HAHAtool/ShareBasket/pkg/db/models"
	"github.com/HAHAtool/ShareBasket/pkg/enums"
	pkgerrors "github.com/HAHAtool/ShareBasket/pkg/errors"
	"github.com/HAHAtool/ShareBasket/pkg/logger"
	"github.com/HAHAtool/ShareBasket/pkg/metrics"
	"github.com/HAHAtool/ShareBasket/pkg/pagination"
)

const maxItemNameLength = 120

// TxRunner runs a function inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines the group lifecycle operations.
type Service interface {
	Preview(ctx context.Context, in PreviewInput) (*DraftDTO, error)
	Create(ctx context.Context, creator Actor, in CreateInput) (*GroupDTO, error)
	Claim(ctx context.Context, groupID uuid.UUID, claimant Actor) (*ClaimResult, error)
	MarkRead(ctx context.Context, groupID, actorID uuid.UUID) error
	Close(ctx context.Context, groupID, actorID uuid.UUID) (*GroupDTO, error)
	ListActive(ctx context.Context, params ListActiveParams) (*ListResult, error)
	ListForUser(ctx context.Context, userID uuid.UUID, params ListForUserParams) ([]GroupDTO, error)
}

type service struct {
	repo     Repository
	profiles profiles.Service
	tx       TxRunner
	metrics  *metrics.ClaimMetrics
	log      *logger.Logger
}

// NewService wires group lifecycle dependencies. Metrics and logger are
// optional.
func NewService(repo Repository, profilesSvc profiles.Service, tx TxRunner, claimMetrics *metrics.ClaimMetrics, log *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "groups repository required")
	}
	if profilesSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "profiles service required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	return &service{
		repo:     repo,
		profiles: profilesSvc,
		tx:       tx,
		metrics:  claimMetrics,
		log:      log,
	}, nil
}

func (s *service) Preview(ctx context.Context, in PreviewInput) (*DraftDTO, error) {
	plan, err := allocation.Calculate(allocation.Input{
		TotalPrice:      in.TotalPrice,
		TotalUnits:      in.TotalUnits,
		OrganizerRetain: in.SelfUnits,
		UnitsPerShare:   in.UnitsPerShare,
	})
	if err != nil {
		return nil, err
	}
	return &DraftDTO{Input: in, Plan: plan}, nil
}

func (s *service) Create(ctx context.Context, creator Actor, in CreateInput) (*GroupDTO, error) {
	if creator.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "creator id required")
	}
	if in.StoreID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id required")
	}
	itemName := strings.TrimSpace(in.ItemName)
	if itemName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name required")
	}
	if len(itemName) > maxItemNameLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name too long")
	}

	draft, err := s.Preview(ctx, in.preview())
	if err != nil {
		return nil, err
	}

	nickname, err := s.profiles.Nickname(ctx, creator.ID, creator.Email)
	if err != nil {
		return nil, err
	}

	group := &models.Group{
		ID:              uuid.New(),
		CreatorID:       creator.ID,
		CreatorNickname: nickname,
		StoreID:         in.StoreID,
		ItemName:        itemName,
		TotalPrice:      in.TotalPrice,
		TotalUnits:      in.TotalUnits,
		UnitPrice:       draft.Plan.UnitPrice,
		SelfUnits:       draft.Plan.OrganizerEffectiveTotal,
		RemainingUnits:  draft.Plan.Shares,
		Status:          enums.GroupStatusActive,
	}
	if err := s.repo.Create(ctx, group); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create group")
	}

	if s.log != nil {
		ctx = s.log.WithGroupID(ctx, group.ID.String())
		s.log.Info(ctx, "group published")
	}

	dto := newGroupDTO(*group)
	return &dto, nil
}

func (s *service) Claim(ctx context.Context, groupID uuid.UUID, claimant Actor) (*ClaimResult, error) {
	start := time.Now()
	result, err := s.claim(ctx, groupID, claimant)
	outcome := "success"
	if err != nil {
		outcome = claimOutcome(err)
		s.metrics.IncFailure(outcome)
	}
	s.metrics.ObserveDuration(outcome, time.Since(start))
	return result, err
}

func (s *service) claim(ctx context.Context, groupID uuid.UUID, claimant Actor) (*ClaimResult, error) {
	if groupID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "group id required")
	}
	if claimant.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "claimant id required")
	}

	group, err := s.getGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.CreatorID == claimant.ID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "organizer cannot claim own group")
	}
	if group.Status != enums.GroupStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "group is closed")
	}
	if group.RemainingUnits <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "group is sold out")
	}

	nickname, err := s.profiles.Nickname(ctx, claimant.ID, claimant.Email)
	if err != nil {
		return nil, err
	}

	member := &models.GroupMember{
		GroupID:  groupID,
		UserID:   claimant.ID,
		Nickname: nickname,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		claimed, err := repo.ClaimShare(ctx, groupID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "claim share")
		}
		if !claimed {
			// Preconditions passed moments ago, so another claimant won
			// the last share or the creator closed the group mid-flight.
			return pkgerrors.New(pkgerrors.CodeConflict, "share no longer available")
		}

		if err := repo.InsertMember(ctx, member); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "group already claimed")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert member")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.getGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	dto := newGroupDTO(*updated)
	s.metrics.IncSuccess(dto.StoreBranch)
	if s.log != nil {
		ctx = s.log.WithGroupID(ctx, groupID.String())
		s.log.Info(ctx, "share claimed")
	}

	return &ClaimResult{Group: dto, Member: *member}, nil
}

func (s *service) MarkRead(ctx context.Context, groupID, actorID uuid.UUID) error {
	group, err := s.getGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if group.CreatorID != actorID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only the organizer can mark joins read")
	}

	// Idempotent: clearing an already-clear flag affects zero rows and
	// that is fine.
	if _, err := s.repo.ClearNewJoin(ctx, groupID, actorID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear new join flag")
	}
	return nil
}

func (s *service) Close(ctx context.Context, groupID, actorID uuid.UUID) (*GroupDTO, error) {
	group, err := s.getGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.CreatorID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the organizer can close the group")
	}
	if group.Status != enums.GroupStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "group already closed")
	}

	updated, err := s.repo.Close(ctx, groupID, actorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "close group")
	}
	if updated == 0 {
		// Raced with another close of the same group.
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "group already closed")
	}

	closed, err := s.getGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if s.log != nil {
		ctx = s.log.WithGroupID(ctx, groupID.String())
		s.log.Info(ctx, "group closed")
	}

	dto := newGroupDTO(*closed)
	return &dto, nil
}

func (s *service) ListActive(ctx context.Context, params ListActiveParams) (*ListResult, error) {
	query := listActiveParams{
		StoreID: params.StoreID,
		Limit:   params.Limit,
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.ListActive(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list active groups")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &ListResult{Items: newGroupDTOs(rows), Cursor: cursor}, nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID, params ListForUserParams) ([]GroupDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if !params.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}

	var (
		rows []models.Group
		err  error
	)
	switch params.Role {
	case enums.GroupRoleCreator:
		rows, err = s.repo.ListByCreator(ctx, userID, params.Status)
	default:
		rows, err = s.repo.ListByMember(ctx, userID, params.Status)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list groups for user")
	}
	return newGroupDTOs(rows), nil
}

func (s *service) getGroup(ctx context.Context, groupID uuid.UUID) (*models.Group, error) {
	group, err := s.repo.Get(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "group not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load group")
	}
	return group, nil
}

func claimOutcome(err error) string {
	appErr := pkgerrors.As(err)
	if appErr == nil {
		return "error"
	}
	switch appErr.Code() {
	case pkgerrors.CodeNotFound:
		return "not_found"
	case pkgerrors.CodeStateConflict:
		if strings.Contains(appErr.Message(), "sold out") {
			return "sold_out"
		}
		return "closed"
	case pkgerrors.CodeConflict:
		return "conflict"
	case pkgerrors.CodeValidation:
		return "rejected"
	default:
		return "error"
	}
}
