package profiles

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/HAHAtool/ShareBasket/pkg/db/models"
	pkgerrors "github.com/HAHAtool/ShareBasket/pkg/errors"
)

type fakeRepository struct {
	getFn    func(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	upsertFn func(ctx context.Context, profile *models.Profile) error
}

func (f *fakeRepository) Get(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	if f.getFn != nil {
		return f.getFn(ctx, userID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) Upsert(ctx context.Context, profile *models.Profile) error {
	if f.upsertFn != nil {
		return f.upsertFn(ctx, profile)
	}
	return nil
}

func newServiceWithRepo(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	return svc
}

func TestService_GetCreatesOnFirstSight(t *testing.T) {
	userID := uuid.New()
	var saved *models.Profile
	repo := &fakeRepository{
		upsertFn: func(ctx context.Context, profile *models.Profile) error {
			saved = profile
			return nil
		},
	}

	svc := newServiceWithRepo(t, repo)
	profile, err := svc.Get(context.Background(), userID, "Lee.Wang@example.com")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if profile.Nickname != "Lee.Wang" {
		t.Fatalf("Nickname = %q, want local part of email", profile.Nickname)
	}
	if saved == nil || saved.ID != userID {
		t.Fatalf("expected profile persisted for %s, got %+v", userID, saved)
	}
}

func TestService_GetReturnsExisting(t *testing.T) {
	userID := uuid.New()
	repo := &fakeRepository{
		getFn: func(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
			return &models.Profile{ID: id, Nickname: "saved-name"}, nil
		},
		upsertFn: func(ctx context.Context, profile *models.Profile) error {
			t.Fatal("unexpected upsert for existing profile")
			return nil
		},
	}

	svc := newServiceWithRepo(t, repo)
	profile, err := svc.Get(context.Background(), userID, "x@example.com")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if profile.Nickname != "saved-name" {
		t.Fatalf("Nickname = %q, want saved-name", profile.Nickname)
	}
}

func TestService_GetWrapsStorageFailure(t *testing.T) {
	repo := &fakeRepository{
		getFn: func(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
			return nil, errors.New("connection reset")
		},
	}

	svc := newServiceWithRepo(t, repo)
	_, err := svc.Get(context.Background(), uuid.New(), "x@example.com")
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeDependency {
		t.Fatalf("Get() error = %v, want %s", err, pkgerrors.CodeDependency)
	}
}

func TestService_UpdateNickname(t *testing.T) {
	userID := uuid.New()
	var saved *models.Profile
	repo := &fakeRepository{
		upsertFn: func(ctx context.Context, profile *models.Profile) error {
			saved = profile
			return nil
		},
	}

	svc := newServiceWithRepo(t, repo)
	profile, err := svc.UpdateNickname(context.Background(), userID, "x@example.com", "  Cathy  ")
	if err != nil {
		t.Fatalf("UpdateNickname() error = %v", err)
	}
	if profile.Nickname != "Cathy" {
		t.Fatalf("Nickname = %q, want trimmed Cathy", profile.Nickname)
	}
	if saved == nil || saved.Nickname != "Cathy" {
		t.Fatalf("expected trimmed nickname persisted, got %+v", saved)
	}
}

func TestService_UpdateNicknameValidation(t *testing.T) {
	svc := newServiceWithRepo(t, &fakeRepository{})

	cases := []struct {
		name     string
		nickname string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"too long", strings.Repeat("a", maxNicknameLength+1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.UpdateNickname(context.Background(), uuid.New(), "x@example.com", tc.nickname)
			appErr := pkgerrors.As(err)
			if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
				t.Fatalf("UpdateNickname(%q) error = %v, want %s", tc.nickname, err, pkgerrors.CodeValidation)
			}
		})
	}
}

func TestNicknameFromEmail(t *testing.T) {
	cases := []struct {
		email string
		want  string
	}{
		{"alice@example.com", "alice"},
		{"@example.com", "member"},
		{"", "member"},
		{"no-at-sign", "member"},
		{strings.Repeat("b", 50) + "@example.com", strings.Repeat("b", maxNicknameLength)},
	}
	for _, tc := range cases {
		if got := nicknameFromEmail(tc.email); got != tc.want {
			t.Fatalf("nicknameFromEmail(%q) = %q, want %q", tc.email, got, tc.want)
		}
	}
}
