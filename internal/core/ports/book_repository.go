package ports

import (
	"context"

	"github.com/librarium/catalog-api/internal/core/domain"
)

// BookFilter narrows FindAll results. Zero-value fields are not applied;
// when both are set they are conjunctive.
type BookFilter struct {
	AuthorID string
	Genre    string
}

// BookRepository defines persistence for books. Books are insert-only.
type BookRepository interface {
	Create(ctx context.Context, book *domain.Book) (*domain.Book, error)
	FindAll(ctx context.Context, filter BookFilter) ([]domain.Book, error)
	Count(ctx context.Context) (int64, error)
	CountByAuthor(ctx context.Context, authorID string) (int64, error)
}
