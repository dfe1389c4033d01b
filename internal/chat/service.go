// Package chat implements the pickup-coordination channel attached to
// each group. Messages are append-only; read state is a per-participant
// watermark compared against the newest message on demand.
package chat

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/HAHAtool/ShareBasket/internal/profiles"
	"github.com/HAHAtool/ShareBasket/pkg/config"
	"github.com/HAHAtool/ShareBasket/pkg/db/models"
	pkgerrors "github.com/HAHAtool/ShareBasket/pkg/errors"
	"github.com/HAHAtool/ShareBasket/pkg/pagination"
)

// Actor identifies the authenticated caller.
type Actor struct {
	ID    uuid.UUID
	Email string
}

// UnreadState reports whether messages arrived after the caller's
// watermark.
type UnreadState struct {
	HasUnread bool       `json:"has_unread"`
	LatestAt  *time.Time `json:"latest_at,omitempty"`
}

// Service defines the chat operations.
type Service interface {
	// Append posts a message. Only the organizer and claimed members
	// may write; closed groups still accept messages so pickup
	// handoff can be coordinated after closing.
	Append(ctx context.Context, groupID uuid.UUID, sender Actor, body string) (*models.Message, error)
	ListSince(ctx context.Context, groupID, actorID uuid.UUID, since time.Time, limit int) ([]models.Message, error)
	MarkRead(ctx context.Context, groupID, actorID uuid.UUID, at time.Time) error
	Unread(ctx context.Context, groupID, actorID uuid.UUID) (*UnreadState, error)
}

type service struct {
	repo     Repository
	profiles profiles.Service
	cfg      config.ChatConfig
}

// NewService wires chat dependencies.
func NewService(repo Repository, profilesSvc profiles.Service, cfg config.ChatConfig) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "chat repository required")
	}
	if profilesSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "profiles service required")
	}
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = pagination.DefaultLimit
	}
	return &service{repo: repo, profiles: profilesSvc, cfg: cfg}, nil
}

func (s *service) Append(ctx context.Context, groupID uuid.UUID, sender Actor, body string) (*models.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message body required")
	}
	if s.cfg.MaxBodyLength > 0 && utf8.RuneCountInString(body) > s.cfg.MaxBodyLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message body too long")
	}

	if _, err := s.requireParticipant(ctx, groupID, sender.ID); err != nil {
		return nil, err
	}

	nickname, err := s.profiles.Nickname(ctx, sender.ID, sender.Email)
	if err != nil {
		return nil, err
	}

	message := &models.Message{
		ID:             uuid.New(),
		GroupID:        groupID,
		SenderID:       sender.ID,
		SenderNickname: nickname,
		Body:           body,
	}
	if err := s.repo.InsertMessage(ctx, message); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert message")
	}
	return message, nil
}

func (s *service) ListSince(ctx context.Context, groupID, actorID uuid.UUID, since time.Time, limit int) ([]models.Message, error) {
	if _, err := s.requireParticipant(ctx, groupID, actorID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = s.cfg.DefaultPageSize
	}
	if limit > pagination.MaxLimit {
		limit = pagination.MaxLimit
	}

	rows, err := s.repo.ListSince(ctx, groupID, since, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list messages")
	}
	return rows, nil
}

func (s *service) MarkRead(ctx context.Context, groupID, actorID uuid.UUID, at time.Time) error {
	group, err := s.requireParticipant(ctx, groupID, actorID)
	if err != nil {
		return err
	}
	if at.IsZero() {
		at = time.Now().UTC()
	}

	var updated int64
	if group.CreatorID == actorID {
		updated, err = s.repo.SetCreatorWatermark(ctx, groupID, actorID, at)
	} else {
		updated, err = s.repo.SetMemberWatermark(ctx, groupID, actorID, at)
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set chat watermark")
	}
	if updated == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "chat participant not found")
	}
	return nil
}

func (s *service) Unread(ctx context.Context, groupID, actorID uuid.UUID) (*UnreadState, error) {
	group, err := s.requireParticipant(ctx, groupID, actorID)
	if err != nil {
		return nil, err
	}

	var watermark *time.Time
	if group.CreatorID == actorID {
		watermark = group.LastChatReadAt
	} else {
		member, err := s.repo.GetMember(ctx, groupID, actorID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load member")
		}
		watermark = member.LastChatReadAt
	}

	latest, err := s.repo.LatestMessageAt(ctx, groupID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load latest message time")
	}

	state := &UnreadState{LatestAt: latest}
	if latest != nil {
		state.HasUnread = watermark == nil || latest.After(*watermark)
	}
	return state, nil
}

// requireParticipant loads the group and verifies the actor is the
// organizer or a claimed member.
func (s *service) requireParticipant(ctx context.Context, groupID, actorID uuid.UUID) (*models.Group, error) {
	if groupID == uuid.Nil || actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "group id and actor id required")
	}

	group, err := s.repo.GetGroup(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "group not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load group")
	}

	if group.CreatorID == actorID {
		return group, nil
	}
	if _, err := s.repo.GetMember(ctx, groupID, actorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not a participant of this group")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load member")
	}
	return group, nil
}
