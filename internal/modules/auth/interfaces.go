package auth

import (
	"context"

	"realtyflow/internal/domain"
)

// UserRepositoryInterface holds only the methods the auth service uses.
type UserRepositoryInterface interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
}

type jwtService interface {
	GenerateToken(userID string, role string) (string, error)
}
