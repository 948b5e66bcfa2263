package ports

import (
	"context"

	"github.com/librarium/catalog-api/internal/core/domain"
)

type AuthService interface {
	CreateUser(ctx context.Context, username, favouriteGenre, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, error)
}
