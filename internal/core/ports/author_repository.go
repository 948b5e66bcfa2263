package ports

import (
	"context"

	"github.com/librarium/catalog-api/internal/core/domain"
)

// AuthorRepository defines persistence for authors.
//
// Create persists the author and returns the stored record including the
// identity assigned by the store (the store assigns ids at persistence time,
// so implementations re-fetch after insert).
type AuthorRepository interface {
	Create(ctx context.Context, author *domain.Author) (*domain.Author, error)
	FindByName(ctx context.Context, name string) (*domain.Author, error)
	FindByID(ctx context.Context, id string) (*domain.Author, error)
	FindAll(ctx context.Context) ([]domain.Author, error)
	UpdateBorn(ctx context.Context, name string, born int) (*domain.Author, error)
	Count(ctx context.Context) (int64, error)
}
