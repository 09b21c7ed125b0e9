package auth

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"realtyflow/internal/domain"
	"realtyflow/internal/repository"
)

// Service contains the login and registration logic.
type Service struct {
	users      UserRepositoryInterface
	jwt        jwtService
	bcryptCost int
}

func NewService(users UserRepositoryInterface, jwt jwtService) *Service {
	return &Service{users: users, jwt: jwt, bcryptCost: bcrypt.DefaultCost}
}

// Login verifies the password before the role and the active flag.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, domain.Persistence(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if req.Role != "" && req.Role != user.Role {
		return nil, ErrRoleMismatch
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	token, err := s.jwt.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user, Token: token}, nil
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	if req.Role != domain.RoleSalesAdmin && req.Role != domain.RoleSalesExecutive {
		return nil, ErrRoleNotAllowed
	}

	exists, err := s.users.ExistsByUsernameOrEmail(ctx, req.Username, req.Email)
	if err != nil {
		return nil, domain.Persistence(err)
	}
	if exists {
		return nil, ErrUserExists
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         req.Role,
		Phone:        req.Phone,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, domain.Persistence(err)
	}
	return user, nil
}

func (s *Service) GetCurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, domain.Persistence(err)
	}
	return user, nil
}

// EnsureMaster creates the master account unless its username or email is
// already taken. It reports whether a user was created.
func (s *Service) EnsureMaster(ctx context.Context, acct MasterAccount) (bool, error) {
	exists, err := s.users.ExistsByUsernameOrEmail(ctx, acct.Username, acct.Email)
	if err != nil || exists {
		return false, err
	}

	hash, err := s.hashPassword(acct.Password)
	if err != nil {
		return false, err
	}
	err = s.users.Create(ctx, &domain.User{
		Username:     acct.Username,
		Email:        acct.Email,
		PasswordHash: hash,
		FirstName:    "Master",
		LastName:     "Admin",
		Role:         domain.RoleMaster,
		IsActive:     true,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
