package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/rl1809/sweet-shop/internal/core/domain"
	"github.com/rl1809/sweet-shop/internal/port"
)

// AuthService handles registration and login. It never sees plain
// password storage or token internals; both sit behind ports.
type AuthService struct {
	users  port.UserRepository
	hasher port.PasswordHasher
	tokens port.TokenManager
	logger *zap.Logger
}

func NewAuthService(users port.UserRepository, hasher port.PasswordHasher, tokens port.TokenManager, logger *zap.Logger) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens, logger: logger}
}

// AssignRole decides the role of a new registrant from the number of users
// that already exist: the very first account becomes the shop admin,
// everyone after that is a customer.
func AssignRole(existingUserCount int64) domain.Role {
	if existingUserCount == 0 {
		return domain.RoleAdmin
	}
	return domain.RoleCustomer
}

func (s *AuthService) Register(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var violations []string
	if email == "" {
		violations = append(violations, "Email is required")
	}
	if password == "" {
		violations = append(violations, "Password is required")
	} else if len(password) < 6 {
		violations = append(violations, "Password must be at least 6 characters")
	}
	if len(violations) > 0 {
		return nil, "", &ValidationError{Errors: violations}
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("lookup user: %w", err)
	}
	if existing != nil {
		return nil, "", ErrEmailTaken
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	count, err := s.users.Count(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("count users: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
		Role:         AssignRole(count),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return nil, "", fmt.Errorf("insert user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID.Hex())
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID.Hex()),
		zap.String("role", string(user.Role)),
	)
	return user, token, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("lookup user: %w", err)
	}
	// Same opaque failure for unknown email and wrong password.
	if user == nil || !s.hasher.Compare(user.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID.Hex())
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	s.logger.Info("user logged in", zap.String("user_id", user.ID.Hex()))
	return user, token, nil
}

func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrUnauthorized
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch user: %w", err)
	}
	if user == nil {
		return nil, ErrUnauthorized
	}
	return user, nil
}
