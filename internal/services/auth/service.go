package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/lucsky/cuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"teahouse-storefront/internal/logger"
	"teahouse-storefront/internal/models"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailTaken is returned when registering with an email already in use.
	ErrEmailTaken = errors.New("email is already registered")
)

// ProfileStore is the persistence surface the auth service needs.
type ProfileStore interface {
	GetProfile(ctx context.Context, id string) (*models.Profile, error)
	GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error)
	UpsertProfile(ctx context.Context, p *models.Profile) error
}

// Claims is the JWT session payload.
type Claims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.StandardClaims
}

// Service implements registration, session login/logout, and profile access.
// Sessions are JWTs; logout revokes the token in Redis for the remainder of
// its lifetime.
type Service struct {
	store    ProfileStore
	sessions *redis.Client
	secret   []byte
	tokenTTL time.Duration
	logger   *logger.Logger
}

// NewService creates an auth service.
func NewService(store ProfileStore, sessions *redis.Client, secret string, tokenTTL time.Duration, log *logger.Logger) *Service {
	return &Service{
		store:    store,
		sessions: sessions,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		logger:   log,
	}
}

// Register creates a profile with a hashed password and returns it along
// with a session token.
func (s *Service) Register(ctx context.Context, req *models.RegisterRequest, requestID string) (*models.Profile, string, error) {
	if err := req.Validate(); err != nil {
		return nil, "", err
	}

	if _, err := s.store.GetProfileByEmail(ctx, req.Email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, ErrProfileNotFound) {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	profile := &models.Profile{
		ID:           cuid.New(),
		FullName:     req.FullName,
		Address:      req.Address,
		Role:         models.RoleUser,
		Email:        req.Email,
		PasswordHash: string(hash),
	}

	if err := s.store.UpsertProfile(ctx, profile); err != nil {
		return nil, "", err
	}

	token, err := s.issueToken(profile)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("user_registered", "New profile registered", requestID, map[string]interface{}{
		"user_id": profile.ID,
	})

	return profile, token, nil
}

// Login verifies credentials and returns the profile and a session token.
func (s *Service) Login(ctx context.Context, req *models.LoginRequest, requestID string) (*models.Profile, string, error) {
	profile, err := s.store.GetProfileByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(req.Password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(profile)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("user_logged_in", "Session opened", requestID, map[string]interface{}{
		"user_id": profile.ID,
	})

	return profile, token, nil
}

// Logout revokes a session token until its natural expiry.
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := s.parseToken(token)
	if err != nil {
		// An invalid token has no session to revoke.
		return nil
	}

	remaining := time.Until(time.Unix(claims.ExpiresAt, 0))
	if remaining <= 0 {
		return nil
	}
	return s.sessions.Set(ctx, revokedKey(token), "1", remaining).Err()
}

// Authenticate validates a session token and returns its claims. Revoked
// tokens are rejected.
func (s *Service) Authenticate(ctx context.Context, token string) (*Claims, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.sessions.Exists(ctx, revokedKey(token)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to check session revocation: %w", err)
	}
	if revoked > 0 {
		return nil, fmt.Errorf("session has been revoked")
	}

	return claims, nil
}

// GetProfile returns the stored profile, or a default in-memory profile when
// none has been saved yet. A missing profile is not an error.
func (s *Service) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	profile, err := s.store.GetProfile(ctx, userID)
	if errors.Is(err, ErrProfileNotFound) {
		return models.DefaultProfile(userID, ""), nil
	}
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// UpdateProfile lets the owning user change name and address.
func (s *Service) UpdateProfile(ctx context.Context, userID string, fullName, address string) (*models.Profile, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if fullName != "" {
		profile.FullName = fullName
	}
	if address != "" {
		profile.Address = address
	}

	if err := s.store.UpsertProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *Service) issueToken(profile *models.Profile) (string, error) {
	claims := Claims{
		UserID: profile.ID,
		Role:   string(profile.Role),
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(s.tokenTTL).Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

func (s *Service) parseToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid session token: %w", err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid session token")
	}
	return claims, nil
}

func revokedKey(token string) string {
	return "session:revoked:" + token
}
