package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teahouse-storefront/internal/logger"
	"teahouse-storefront/internal/models"
)

type fakeProfiles struct {
	byID    map[string]*models.Profile
	byEmail map[string]*models.Profile
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{
		byID:    map[string]*models.Profile{},
		byEmail: map[string]*models.Profile{},
	}
}

func (f *fakeProfiles) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, ErrProfileNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakeProfiles) GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	p, ok := f.byEmail[email]
	if !ok {
		return nil, ErrProfileNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakeProfiles) UpsertProfile(ctx context.Context, p *models.Profile) error {
	copied := *p
	f.byID[p.ID] = &copied
	f.byEmail[p.Email] = &copied
	return nil
}

func newTestService(store ProfileStore) *Service {
	return NewService(store, nil, "test-secret", time.Hour, logger.New("test"))
}

func registerRequest() *models.RegisterRequest {
	return &models.RegisterRequest{
		Email:    "anna@example.com",
		Password: "long-enough",
		FullName: "Anna",
	}
}

func TestRegister_CreatesProfileAndToken(t *testing.T) {
	store := newFakeProfiles()
	svc := newTestService(store)

	profile, token, err := svc.Register(context.Background(), registerRequest(), "req-1")
	require.NoError(t, err)

	assert.NotEmpty(t, profile.ID)
	assert.Equal(t, models.RoleUser, profile.Role)
	assert.NotEmpty(t, token)
	assert.NotEqual(t, "long-enough", profile.PasswordHash, "password must be stored hashed")

	stored, err := store.GetProfileByEmail(context.Background(), "anna@example.com")
	require.NoError(t, err)
	assert.Equal(t, profile.ID, stored.ID)
}

func TestRegister_RejectsDuplicateEmail(t *testing.T) {
	store := newFakeProfiles()
	svc := newTestService(store)

	_, _, err := svc.Register(context.Background(), registerRequest(), "req-1")
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), registerRequest(), "req-2")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_RejectsInvalidForm(t *testing.T) {
	svc := newTestService(newFakeProfiles())

	req := registerRequest()
	req.Password = "short"
	_, _, err := svc.Register(context.Background(), req, "req-1")
	assert.Error(t, err)
}

func TestLogin(t *testing.T) {
	store := newFakeProfiles()
	svc := newTestService(store)

	registered, _, err := svc.Register(context.Background(), registerRequest(), "req-1")
	require.NoError(t, err)

	profile, token, err := svc.Login(context.Background(), &models.LoginRequest{
		Email:    "anna@example.com",
		Password: "long-enough",
	}, "req-2")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, profile.ID)
	assert.NotEmpty(t, token)

	_, _, err = svc.Login(context.Background(), &models.LoginRequest{
		Email:    "anna@example.com",
		Password: "wrong-password",
	}, "req-3")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), &models.LoginRequest{
		Email:    "nobody@example.com",
		Password: "long-enough",
	}, "req-4")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "unknown email must look like a bad password")
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newTestService(newFakeProfiles())

	profile := &models.Profile{ID: "u1", Role: models.RoleAdmin}
	token, err := svc.issueToken(profile)
	require.NoError(t, err)

	claims, err := svc.parseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, string(models.RoleAdmin), claims.Role)
}

func TestParseToken_RejectsForeignSignature(t *testing.T) {
	issuer := newTestService(newFakeProfiles())
	verifier := NewService(newFakeProfiles(), nil, "other-secret", time.Hour, logger.New("test"))

	token, err := issuer.issueToken(&models.Profile{ID: "u1", Role: models.RoleUser})
	require.NoError(t, err)

	_, err = verifier.parseToken(token)
	assert.Error(t, err)
}

func TestGetProfile_DefaultsWhenMissing(t *testing.T) {
	svc := newTestService(newFakeProfiles())

	profile, err := svc.GetProfile(context.Background(), "unknown-id")
	require.NoError(t, err)
	assert.Equal(t, "unknown-id", profile.ID)
	assert.Equal(t, "Guest", profile.FullName)
	assert.Equal(t, models.RoleUser, profile.Role)
}

func TestUpdateProfile(t *testing.T) {
	store := newFakeProfiles()
	svc := newTestService(store)

	registered, _, err := svc.Register(context.Background(), registerRequest(), "req-1")
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(context.Background(), registered.ID, "Anna K.", "Lenina 12")
	require.NoError(t, err)
	assert.Equal(t, "Anna K.", updated.FullName)
	assert.Equal(t, "Lenina 12", updated.Address)

	// Empty fields keep existing values.
	kept, err := svc.UpdateProfile(context.Background(), registered.ID, "", "")
	require.NoError(t, err)
	assert.Equal(t, "Anna K.", kept.FullName)
	assert.Equal(t, "Lenina 12", kept.Address)
}
