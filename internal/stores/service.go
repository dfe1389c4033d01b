// Package stores serves the reference data behind the publish form:
// warehouse branches a group can be pinned to and curated item
// suggestions. Both lists are small and read-mostly.
package stores

import (
	"context"

	"github.com/HAHAtool/ShareBasket/pkg/db/models"
	pkgerrors "github.com/HAHAtool/ShareBasket/pkg/errors"
)

// Service defines reference-data reads.
type Service interface {
	ListStores(ctx context.Context) ([]models.Store, error)
	ListPopularItems(ctx context.Context) ([]models.PopularItem, error)
}

type service struct {
	repo Repository
}

// NewService wires reference-data dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "stores repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListStores(ctx context.Context) ([]models.Store, error) {
	rows, err := s.repo.ListStores(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stores")
	}
	return rows, nil
}

func (s *service) ListPopularItems(ctx context.Context) ([]models.PopularItem, error) {
	rows, err := s.repo.ListPopularItems(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list popular items")
	}
	return rows, nil
}
