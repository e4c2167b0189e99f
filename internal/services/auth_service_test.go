// file: internal/services/auth_service_test.go
package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"castnfish/internal/config"
	"castnfish/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	users  map[int64]*models.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*models.User), nextID: 1}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	user.ID = r.nextID
	r.nextID++
	user.CreatedAt = time.Now()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return u, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Username, username) {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) UpdateAvatar(_ context.Context, userID int64, url, publicID string) error {
	if u, ok := r.users[userID]; ok {
		u.AvatarURL = &url
		u.AvatarPublicID = &publicID
	}
	return nil
}

func (r *fakeUserRepo) UpdateLastSeen(_ context.Context, userID int64) error {
	if u, ok := r.users[userID]; ok {
		u.LastSeen = time.Now()
	}
	return nil
}

func newTestAuthService(repo *fakeUserRepo) AuthService {
	cfg := config.AuthConfig{
		JWTSecret:  "test-secret-that-is-long-enough-0000",
		JWTExpiry:  time.Hour,
		BCryptCost: bcrypt.MinCost,
	}
	return NewAuthService(repo, cfg, zap.NewNop())
}

func TestRegisterLoginVerifyRoundtrip(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	registered, err := svc.Register(context.Background(), &RegisterRequest{
		Email:    "Angler@Example.com",
		Username: "angler",
		Password: "hunter2secret",
	})
	require.NoError(t, err)
	require.NotNil(t, registered.User)
	assert.Equal(t, "angler@example.com", registered.User.Email)
	assert.Equal(t, "angler", registered.User.DisplayName)
	assert.NotEmpty(t, registered.Token)

	claims, err := svc.VerifyToken(context.Background(), registered.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, claims.UserID)
	assert.Equal(t, "angler", claims.Username)

	// Login by email, case insensitive.
	byEmail, err := svc.Login(context.Background(), &LoginRequest{
		Identifier: "ANGLER@example.com",
		Password:   "hunter2secret",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, byEmail.User.ID)

	// Login by username.
	byUsername, err := svc.Login(context.Background(), &LoginRequest{
		Identifier: "angler",
		Password:   "hunter2secret",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, byUsername.User.ID)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	_, err := svc.Register(context.Background(), &RegisterRequest{
		Email:    "one@example.com",
		Username: "one",
		Password: "hunter2secret",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), &RegisterRequest{
		Email:    "one@example.com",
		Username: "other",
		Password: "hunter2secret",
	})
	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "EMAIL_TAKEN", svcErr.Code)

	_, err = svc.Register(context.Background(), &RegisterRequest{
		Email:    "two@example.com",
		Username: "one",
		Password: "hunter2secret",
	})
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "USERNAME_TAKEN", svcErr.Code)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	_, err := svc.Register(context.Background(), &RegisterRequest{
		Email:    "one@example.com",
		Username: "one",
		Password: "hunter2secret",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &LoginRequest{
		Identifier: "one",
		Password:   "wrongpassword",
	})
	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "UNAUTHORIZED", svcErr.Type)

	_, err = svc.Login(context.Background(), &LoginRequest{
		Identifier: "nobody",
		Password:   "hunter2secret",
	})
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "UNAUTHORIZED", svcErr.Type)
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo())

	_, err := svc.VerifyToken(context.Background(), "not-a-token")
	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "UNAUTHORIZED", svcErr.Type)
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	registered, err := svc.Register(context.Background(), &RegisterRequest{
		Email:    "one@example.com",
		Username: "one",
		Password: "hunter2secret",
	})
	require.NoError(t, err)

	other := NewAuthService(repo, config.AuthConfig{
		JWTSecret:  "a-completely-different-secret-111111",
		JWTExpiry:  time.Hour,
		BCryptCost: bcrypt.MinCost,
	}, zap.NewNop())

	_, err = other.VerifyToken(context.Background(), registered.Token)
	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "UNAUTHORIZED", svcErr.Type)
}
