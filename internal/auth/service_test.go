package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itassets-dashboard/internal/models"
	"itassets-dashboard/internal/store"
)

func newTestService(t *testing.T) (*Service, *store.MemoryProfiles) {
	t.Helper()
	profiles := store.NewMemoryProfiles()
	return NewService(profiles, testManager()), profiles
}

func strPtr(s string) *string { return &s }

func TestService_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	resp, err := svc.Register(ctx, models.RegisterRequest{
		Email:    "joao@example.com",
		Password: "s3nha-forte",
		FullName: strPtr("  João Lima  "),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, models.RoleUser, resp.Profile.Role)
	assert.Empty(t, resp.Profile.PasswordHash)
	require.NotNil(t, resp.Profile.FullName)
	assert.Equal(t, "João Lima", *resp.Profile.FullName)

	claims, err := svc.JWT().ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "João Lima", claims.Name)

	login, err := svc.Login(ctx, models.LoginRequest{Email: "JOAO@example.com", Password: "s3nha-forte"})
	require.NoError(t, err)
	assert.Equal(t, resp.Profile.UserID, login.Profile.UserID)

	_, err = svc.Login(ctx, models.LoginRequest{Email: "joao@example.com", Password: "errada123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, models.LoginRequest{Email: "ninguem@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_RegisterValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	tests := []struct {
		name string
		req  models.RegisterRequest
	}{
		{"missing email", models.RegisterRequest{Password: "longenough"}},
		{"bad email", models.RegisterRequest{Email: "not-an-email", Password: "longenough"}},
		{"short password", models.RegisterRequest{Email: "a@b.com", Password: "short"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestService_RegisterDuplicate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	req := models.RegisterRequest{Email: "dup@example.com", Password: "longenough"}
	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	resp, err := svc.Register(ctx, models.RegisterRequest{Email: "ana@example.com", Password: "longenough"})
	require.NoError(t, err)
	id := resp.Profile.UserID

	updated, err := svc.UpdateProfile(ctx, id, models.UpdateProfileRequest{FullName: strPtr("Ana Paula")})
	require.NoError(t, err)
	claims, err := svc.JWT().ValidateToken(updated.Token)
	require.NoError(t, err)
	assert.Equal(t, "Ana Paula", claims.Name)

	p, err := svc.Profile(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ana Paula", p.GetDisplayName())

	// Blank names are cleared.
	_, err = svc.UpdateProfile(ctx, id, models.UpdateProfileRequest{FullName: strPtr("   ")})
	require.NoError(t, err)
	p, err = svc.Profile(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, p.FullName)

	_, err = svc.UpdateProfile(ctx, uuid.New(), models.UpdateProfileRequest{})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("longenough")
	require.NoError(t, err)
	assert.NotEqual(t, "longenough", hash)

	profiles := store.NewMemoryProfiles()
	require.NoError(t, profiles.Create(context.Background(), &models.Profile{
		Email: "seed@example.com", PasswordHash: hash, Role: models.RoleAdmin,
	}))
	svc := NewService(profiles, NewJWTManager(testSecret, "i", "a", time.Minute))
	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "seed@example.com", Password: "longenough"})
	require.NoError(t, err)
	assert.True(t, resp.Profile.IsAdmin())
}
