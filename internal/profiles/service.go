// Package profiles resolves display identities. A profile row is
// created lazily the first time an authenticated user touches the API,
// seeded with the local part of their email as nickname.
package profiles

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/HAHAtool/ShareBasket/pkg/db/models"
	pkgerrors "github.com/HAHAtool/ShareBasket/pkg/errors"
)

const maxNicknameLength = 32

// Service defines profile read/update operations.
type Service interface {
	// Get returns the caller's profile, creating it with a derived
	// nickname on first sight.
	Get(ctx context.Context, userID uuid.UUID, email string) (*models.Profile, error)
	// UpdateNickname replaces the display name and returns the stored
	// profile.
	UpdateNickname(ctx context.Context, userID uuid.UUID, email, nickname string) (*models.Profile, error)
	// Nickname is the resolution used when denormalizing onto groups,
	// members and messages.
	Nickname(ctx context.Context, userID uuid.UUID, email string) (string, error)
}

type service struct {
	repo Repository
}

// NewService wires profile dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "profiles repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID, email string) (*models.Profile, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	profile, err := s.repo.Get(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}

	created := &models.Profile{
		ID:       userID,
		Email:    email,
		Nickname: nicknameFromEmail(email),
	}
	if err := s.repo.Upsert(ctx, created); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create profile")
	}
	return created, nil
}

func (s *service) UpdateNickname(ctx context.Context, userID uuid.UUID, email, nickname string) (*models.Profile, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nickname required")
	}
	if utf8.RuneCountInString(nickname) > maxNicknameLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nickname too long")
	}

	profile := &models.Profile{
		ID:       userID,
		Email:    email,
		Nickname: nickname,
	}
	if err := s.repo.Upsert(ctx, profile); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save profile")
	}
	return profile, nil
}

func (s *service) Nickname(ctx context.Context, userID uuid.UUID, email string) (string, error) {
	profile, err := s.Get(ctx, userID, email)
	if err != nil {
		return "", err
	}
	return profile.Nickname, nil
}

func nicknameFromEmail(email string) string {
	local, _, found := strings.Cut(email, "@")
	local = strings.TrimSpace(local)
	if !found || local == "" {
		return "member"
	}
	if utf8.RuneCountInString(local) > maxNicknameLength {
		runes := []rune(local)
		return string(runes[:maxNicknameLength])
	}
	return local
}
