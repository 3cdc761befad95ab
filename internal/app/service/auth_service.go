package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"bookswap/internal/common"
	"bookswap/internal/common/security"
	"bookswap/internal/domain/model"
	"bookswap/internal/domain/repository"
	"bookswap/internal/logging"

	"github.com/google/uuid"
)

const minPasswordLength = 6

type AuthService struct {
	userRepo repository.UserRepository
	log      logging.Logger
}

func NewAuthService(userRepo repository.UserRepository, log logging.Logger) *AuthService {
	return &AuthService{userRepo: userRepo, log: log.With("service", "auth")}
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *RegisterRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = normalizeEmail(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Role = strings.TrimSpace(r.Role)
}

func (r RegisterRequest) validate() error {
	if r.Name == "" || r.Email == "" || r.Password == "" || r.Phone == "" || r.Role == "" {
		return fmt.Errorf("name, email, password, phone and role are required: %w", common.ErrValidation)
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return fmt.Errorf("invalid email address: %w", common.ErrValidation)
	}
	if len(r.Password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters: %w", minPasswordLength, common.ErrValidation)
	}
	if !model.ValidRole(r.Role) {
		return fmt.Errorf("role must be %q or %q: %w", model.RoleOwner, model.RoleSeeker, common.ErrValidation)
	}
	return nil
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	req.normalize()
	if err := req.validate(); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("user already exists with this email: %w", common.ErrBadRequest)
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:             uuid.NewString(),
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		HashedPassword: hashedPassword,
		Role:           req.Role,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Repo returns common.ErrConflict when a concurrent registration won
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	s.log.Info(ctx, "user registered", "user_id", user.ID, "role", user.Role)

	return s.respond(user)
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, fmt.Errorf("email and password are required: %w", common.ErrBadRequest)
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("invalid email or password: %w", common.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		s.log.Warn(ctx, "login rejected", "user_id", user.ID)
		return nil, fmt.Errorf("invalid email or password: %w", common.ErrUnauthorized)
	}

	return s.respond(user)
}

// GetUser returns the public profile of a user.
func (s *AuthService) GetUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("user not found: %w", common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	user.HashedPassword = ""
	return user, nil
}

func (s *AuthService) respond(user *model.User) (*AuthResponse, error) {
	token, err := security.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	user.HashedPassword = "" // Clear password before returning
	return &AuthResponse{User: user, Token: token}, nil
}
