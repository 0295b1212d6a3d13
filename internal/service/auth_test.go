package service_test

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/siddhiipatell/Pixel-Art-Studio/internal/domain"
	"github.com/siddhiipatell/Pixel-Art-Studio/internal/repository"
	"github.com/siddhiipatell/Pixel-Art-Studio/internal/repository/mocks"
	"github.com/siddhiipatell/Pixel-Art-Studio/internal/service"
)

const testJWTSecret = "test-secret"

func newAuthService(t *testing.T, userRepo repository.UserRepository) *service.AuthService {
	t.Helper()
	svc, err := service.NewAuthService(userRepo, testJWTSecret, 24)
	require.NoError(t, err)
	return svc
}

func TestAuthService_RequiresSecret(t *testing.T) {
	_, err := service.NewAuthService(new(mocks.UserRepository), "", 24)
	assert.Error(t, err)
}

func TestAuthService_Register_Success(t *testing.T) {
	userRepo := new(mocks.UserRepository)
	svc := newAuthService(t, userRepo)

	userRepo.On("FindByUsername", mock.Anything, "alice").
		Return(nil, repository.ErrUserNotFound).Once()
	userRepo.On("Save", mock.Anything, mock.AnythingOfType("*domain.User")).
		Run(func(args mock.Arguments) {
			user := args.Get(1).(*domain.User)
			user.ID = 1
			// The stored password must be a bcrypt hash, never plaintext.
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("hunter2")))
		}).
		Return(nil).Once()

	user, err := svc.Register(context.Background(), "alice", "hunter2", "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, uint(1), user.ID)
	assert.Empty(t, user.Password, "returned user must not carry the hash")
	userRepo.AssertExpectations(t)
}

func TestAuthService_Register_UsernameTaken(t *testing.T) {
	userRepo := new(mocks.UserRepository)
	svc := newAuthService(t, userRepo)

	userRepo.On("FindByUsername", mock.Anything, "alice").
		Return(&domain.User{ID: 1, Username: "alice"}, nil).Once()

	_, err := svc.Register(context.Background(), "alice", "hunter2", "")
	assert.ErrorIs(t, err, service.ErrRegistrationFailed)
	userRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAuthService_Register_DuplicateOnSave(t *testing.T) {
	// Two concurrent registrations can both pass the availability check; the
	// unique index catches the loser.
	userRepo := new(mocks.UserRepository)
	svc := newAuthService(t, userRepo)

	userRepo.On("FindByUsername", mock.Anything, "alice").
		Return(nil, repository.ErrUserNotFound).Once()
	userRepo.On("Save", mock.Anything, mock.Anything).
		Return(repository.ErrDuplicateEntry).Once()

	_, err := svc.Register(context.Background(), "alice", "hunter2", "")
	assert.ErrorIs(t, err, service.ErrRegistrationFailed)
}

func TestAuthService_Login_Success(t *testing.T) {
	userRepo := new(mocks.UserRepository)
	svc := newAuthService(t, userRepo)

	hashed, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	userRepo.On("FindByUsername", mock.Anything, "alice").
		Return(&domain.User{ID: 7, Username: "alice", Password: string(hashed)}, nil).Once()

	tokenString, err := svc.Login(context.Background(), "alice", "hunter2")
	require.NoError(t, err)

	token, err := jwt.Parse(tokenString, func(*jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.EqualValues(t, 7, claims["user_id"])
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	userRepo := new(mocks.UserRepository)
	svc := newAuthService(t, userRepo)

	hashed, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	userRepo.On("FindByUsername", mock.Anything, "alice").
		Return(&domain.User{ID: 7, Username: "alice", Password: string(hashed)}, nil).Once()

	_, err = svc.Login(context.Background(), "alice", "wrong")
	assert.ErrorIs(t, err, service.ErrAuthenticationFailed)
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	userRepo := new(mocks.UserRepository)
	svc := newAuthService(t, userRepo)

	userRepo.On("FindByUsername", mock.Anything, "ghost").
		Return(nil, repository.ErrUserNotFound).Once()

	_, err := svc.Login(context.Background(), "ghost", "hunter2")
	assert.ErrorIs(t, err, service.ErrAuthenticationFailed)
}
