package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"itassets-dashboard/internal/models"
	"itassets-dashboard/internal/store"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidInput       = errors.New("invalid input")
)

// Service handles accounts: login, registration and profile edits.
type Service struct {
	profiles store.Profiles
	jwt      *JWTManager
	validate *validator.Validate
}

func NewService(profiles store.Profiles, jwt *JWTManager) *Service {
	return &Service{profiles: profiles, jwt: jwt, validate: validator.New()}
}

// JWT returns the token manager.
func (s *Service) JWT() *JWTManager {
	return s.jwt
}

// Login checks the password and returns a token.
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return models.LoginResponse{}, fmt.Errorf("%w: %s", ErrInvalidInput, describe(err))
	}

	p, err := s.profiles.GetByEmail(ctx, req.Email)
	if errors.Is(err, store.ErrNotFound) {
		return models.LoginResponse{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.LoginResponse{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(req.Password)); err != nil {
		return models.LoginResponse{}, ErrInvalidCredentials
	}
	return s.issue(p)
}

// Register creates an account with the user role.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (models.LoginResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return models.LoginResponse{}, fmt.Errorf("%w: %s", ErrInvalidInput, describe(err))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.LoginResponse{}, fmt.Errorf("hash password: %w", err)
	}

	p := &models.Profile{
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: string(hash),
		FullName:     trimmed(req.FullName),
		Role:         models.RoleUser,
	}
	if err := s.profiles.Create(ctx, p); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return models.LoginResponse{}, ErrEmailTaken
		}
		return models.LoginResponse{}, err
	}
	return s.issue(*p)
}

// Profile returns the caller's profile.
func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (models.Profile, error) {
	p, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return models.Profile{}, err
	}
	return p.Redacted(), nil
}

// UpdateProfile changes the caller's display name and returns a fresh token
// carrying it.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req models.UpdateProfileRequest) (models.LoginResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return models.LoginResponse{}, fmt.Errorf("%w: %s", ErrInvalidInput, describe(err))
	}
	p, err := s.profiles.UpdateFullName(ctx, userID, trimmed(req.FullName))
	if err != nil {
		return models.LoginResponse{}, err
	}
	return s.issue(p)
}

func (s *Service) issue(p models.Profile) (models.LoginResponse, error) {
	token, err := s.jwt.GenerateToken(p)
	if err != nil {
		return models.LoginResponse{}, fmt.Errorf("generate token: %w", err)
	}
	return models.LoginResponse{Token: token, Profile: p.Redacted()}, nil
}

// HashPassword is used by seeding tools.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return strings.Join(parts, ", ")
}
