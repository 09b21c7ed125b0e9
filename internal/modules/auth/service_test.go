package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"realtyflow/internal/domain"
	"realtyflow/internal/pkg/jwt"
	"realtyflow/internal/repository"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	args := m.Called(ctx, username, email)
	return args.Bool(0), args.Error(1)
}

func newTestService(repo *mockUserRepo) (*Service, *jwt.Service) {
	tokens := jwt.New("auth-test", time.Hour)
	svc := NewService(repo, tokens)
	svc.bcryptCost = bcrypt.MinCost
	return svc, tokens
}

func storedUser(t *testing.T, password string, role domain.UserRole, active bool) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &domain.User{Username: "ravi", Email: "ravi@example.com", PasswordHash: string(hash), Role: role, IsActive: active}
	u.ID = "user-ravi"
	return u
}

func TestLogin_Success(t *testing.T) {
	repo := new(mockUserRepo)
	svc, tokens := newTestService(repo)
	repo.On("GetByUsername", mock.Anything, "ravi").Return(storedUser(t, "secret1", domain.RoleSalesAdmin, true), nil)

	res, err := svc.Login(context.Background(), LoginRequest{Username: " ravi ", Password: "secret1", Role: domain.RoleSalesAdmin})
	require.NoError(t, err)
	assert.Equal(t, "user-ravi", res.User.ID)

	claims, err := tokens.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-ravi", claims.UserID)
	assert.Equal(t, "sales_admin", claims.Role)
	repo.AssertExpectations(t)
}

func TestLogin_Failures(t *testing.T) {
	cases := []struct {
		name string
		user *domain.User
		req  LoginRequest
		want error
	}{
		{"wrong password", storedUser(t, "secret1", domain.RoleSalesAdmin, true), LoginRequest{Username: "ravi", Password: "nope"}, ErrInvalidCredentials},
		{"role mismatch", storedUser(t, "secret1", domain.RoleSalesAdmin, true), LoginRequest{Username: "ravi", Password: "secret1", Role: domain.RoleMaster}, ErrRoleMismatch},
		{"inactive", storedUser(t, "secret1", domain.RoleSalesExecutive, false), LoginRequest{Username: "ravi", Password: "secret1"}, ErrUserInactive},
		{"inactive with wrong password", storedUser(t, "secret1", domain.RoleSalesExecutive, false), LoginRequest{Username: "ravi", Password: "x"}, ErrInvalidCredentials},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := new(mockUserRepo)
			svc, _ := newTestService(repo)
			repo.On("GetByUsername", mock.Anything, "ravi").Return(tc.user, nil)

			_, err := svc.Login(context.Background(), tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	repo := new(mockUserRepo)
	svc, _ := newTestService(repo)
	repo.On("GetByUsername", mock.Anything, "ghost").Return(nil, repository.ErrNotFound)

	_, err := svc.Login(context.Background(), LoginRequest{Username: "ghost", Password: "x"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_StoreFailureIsPersistence(t *testing.T) {
	repo := new(mockUserRepo)
	svc, _ := newTestService(repo)
	repo.On("GetByUsername", mock.Anything, "ravi").Return(nil, errors.New("connection reset"))

	_, err := svc.Login(context.Background(), LoginRequest{Username: "ravi", Password: "x"})
	assert.Equal(t, domain.KindPersistence, domain.KindOf(err))
}

func TestRegister(t *testing.T) {
	repo := new(mockUserRepo)
	svc, _ := newTestService(repo)
	ctx := context.Background()
	repo.On("ExistsByUsernameOrEmail", mock.Anything, "neha", "neha@example.com").Return(false, nil).Once()
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil).Once()

	u, err := svc.Register(ctx, RegisterRequest{Username: "neha", Email: "neha@example.com", Password: "secret1", Role: domain.RoleSalesExecutive})
	require.NoError(t, err)
	assert.True(t, u.IsActive)
	assert.Equal(t, domain.RoleSalesExecutive, u.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret1")))

	repo.On("ExistsByUsernameOrEmail", mock.Anything, "neha", "neha@example.com").Return(true, nil).Once()
	_, err = svc.Register(ctx, RegisterRequest{Username: "neha", Email: "neha@example.com", Password: "secret1", Role: domain.RoleSalesAdmin})
	assert.ErrorIs(t, err, ErrUserExists)

	_, err = svc.Register(ctx, RegisterRequest{Username: "boss", Email: "boss@example.com", Password: "secret1", Role: domain.RoleDeveloperHQ})
	assert.ErrorIs(t, err, ErrRoleNotAllowed)
	repo.AssertExpectations(t)
}

func TestRegister_DuplicateRace(t *testing.T) {
	repo := new(mockUserRepo)
	svc, _ := newTestService(repo)
	repo.On("ExistsByUsernameOrEmail", mock.Anything, "neha", "neha@example.com").Return(false, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicate)

	_, err := svc.Register(context.Background(), RegisterRequest{Username: "neha", Email: "neha@example.com", Password: "secret1", Role: domain.RoleSalesAdmin})
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestGetCurrentUser(t *testing.T) {
	repo := new(mockUserRepo)
	svc, _ := newTestService(repo)
	repo.On("GetByID", mock.Anything, "gone").Return(nil, repository.ErrNotFound)

	_, err := svc.GetCurrentUser(context.Background(), "gone")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestEnsureMaster(t *testing.T) {
	repo := new(mockUserRepo)
	svc, _ := newTestService(repo)
	ctx := context.Background()
	acct := MasterAccount{Username: "admin", Password: "admin", Email: "admin@realtyflow.com"}

	repo.On("ExistsByUsernameOrEmail", mock.Anything, "admin", "admin@realtyflow.com").Return(false, nil).Once()
	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Role == domain.RoleMaster && u.IsActive && u.Username == "admin"
	})).Return(nil).Once()

	created, err := svc.EnsureMaster(ctx, acct)
	require.NoError(t, err)
	assert.True(t, created)

	repo.On("ExistsByUsernameOrEmail", mock.Anything, "admin", "admin@realtyflow.com").Return(true, nil).Once()
	created, err = svc.EnsureMaster(ctx, acct)
	require.NoError(t, err)
	assert.False(t, created)
	repo.AssertExpectations(t)
}
