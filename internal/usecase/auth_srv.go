package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"catalog-review/internal/data/entity"
	"catalog-review/internal/data/repository"
	"catalog-review/internal/dto/request"
	"catalog-review/internal/dto/response"
	"catalog-review/pkg/security"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenIssuer signs identity tokens.
type TokenIssuer interface {
	Issue(userID uuid.UUID, email string) (string, time.Time, error)
}

type AuthService interface {
	Register(ctx context.Context, req *request.CreateUserRequest) (*response.UserResponse, error)
	Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error)
}

type authService struct {
	users  repository.UserRepository
	tokens TokenIssuer
	log    *zap.Logger
}

func NewAuthService(users repository.UserRepository, tokens TokenIssuer, log *zap.Logger) AuthService {
	return &authService{
		users:  users,
		tokens: tokens,
		log:    log.With(zap.String("service", "auth")),
	}
}

func (s *authService) Register(ctx context.Context, req *request.CreateUserRequest) (*response.UserResponse, error) {
	if err := validateRequest(req); err != nil {
		s.log.Warn("Register validation failed", zap.Error(err))
		return nil, err
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Email:        strings.TrimSpace(req.Email),
		Name:         req.Name,
		Age:          req.Age,
		PasswordHash: hashedPassword,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, validationError("Email already registered", map[string]string{"email": "Email already registered"})
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	if err := validateRequest(req); err != nil {
		s.log.Warn("Login validation failed", zap.Error(err))
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	if user == nil {
		s.log.Warn("Login for unknown email", zap.String("email", req.Email))
		return nil, notFound("User not found")
	}

	if !security.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Login with wrong password", zap.String("user_id", user.ID.String()))
		return nil, &Error{Kind: ErrInvalidCredentials, Message: "Invalid password"}
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		s.log.Error("Failed to issue token", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.log.Info("User logged in", zap.String("user_id", user.ID.String()))

	return &response.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      response.UserToResponse(user),
	}, nil
}
