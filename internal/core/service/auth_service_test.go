package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/rl1809/sweet-shop/internal/core/domain"
)

// Mock UserRepository
type mockUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*domain.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[primitive.ObjectID]*domain.User)}
}

func (m *mockUserRepo) Insert(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.ID = primitive.NewObjectID()
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.users)), nil
}

// Fake hasher: reversible prefix, good enough for service tests.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }
func (fakeHasher) Compare(hash, password string) bool   { return hash == "hashed:"+password }

// Fake token manager issuing "token:<userID>".
type fakeTokenManager struct{}

func (fakeTokenManager) Issue(userID string) (string, error) { return "token:" + userID, nil }
func (fakeTokenManager) Verify(token string) (string, error) {
	if len(token) > 6 && token[:6] == "token:" {
		return token[6:], nil
	}
	return "", errors.New("bad token")
}

func newAuthService() (*AuthService, *mockUserRepo) {
	repo := newMockUserRepo()
	return NewAuthService(repo, fakeHasher{}, fakeTokenManager{}, zap.NewNop()), repo
}

func TestAssignRole(t *testing.T) {
	if got := AssignRole(0); got != domain.RoleAdmin {
		t.Errorf("first registrant should be admin, got %s", got)
	}
	for _, count := range []int64{1, 2, 100} {
		if got := AssignRole(count); got != domain.RoleCustomer {
			t.Errorf("registrant with %d existing users should be customer, got %s", count, got)
		}
	}
}

func TestRegister_FirstUserIsAdmin(t *testing.T) {
	svc, _ := newAuthService()

	first, token, err := svc.Register(context.Background(), "first@example.com", "password123")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if first.Role != domain.RoleAdmin {
		t.Errorf("expected admin, got %s", first.Role)
	}
	if token == "" {
		t.Error("expected a token")
	}

	second, _, err := svc.Register(context.Background(), "second@example.com", "password123")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if second.Role != domain.RoleCustomer {
		t.Errorf("expected customer, got %s", second.Role)
	}

	third, _, err := svc.Register(context.Background(), "third@example.com", "password123")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if third.Role != domain.RoleCustomer {
		t.Errorf("expected customer, got %s", third.Role)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newAuthService()

	_, _, err := svc.Register(context.Background(), "dup@example.com", "password123")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, _, err = svc.Register(context.Background(), "dup@example.com", "password456")
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got: %v", err)
	}

	// Email comparison is case-insensitive.
	_, _, err = svc.Register(context.Background(), "DUP@example.com", "password456")
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken for different case, got: %v", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	svc, repo := newAuthService()

	_, _, err := svc.Register(context.Background(), "", "123")

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got: %v", err)
	}
	if len(vErr.Errors) != 2 {
		t.Errorf("expected 2 violations, got %v", vErr.Errors)
	}
	if n, _ := repo.Count(context.Background()); n != 0 {
		t.Error("nothing should be persisted on validation failure")
	}
}

func TestLogin(t *testing.T) {
	svc, _ := newAuthService()

	registered, _, err := svc.Register(context.Background(), "shop@example.com", "password123")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	user, token, err := svc.Login(context.Background(), "shop@example.com", "password123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.ID != registered.ID {
		t.Error("login returned a different user")
	}
	if token == "" {
		t.Error("expected a token")
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc, _ := newAuthService()

	_, _, err := svc.Register(context.Background(), "shop@example.com", "password123")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// Wrong password and unknown email fail identically.
	_, _, err = svc.Login(context.Background(), "shop@example.com", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got: %v", err)
	}

	_, _, err = svc.Login(context.Background(), "nobody@example.com", "password123")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got: %v", err)
	}
}

func TestProfile(t *testing.T) {
	svc, _ := newAuthService()

	registered, _, err := svc.Register(context.Background(), "shop@example.com", "password123")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	user, err := svc.Profile(context.Background(), registered.ID.Hex())
	if err != nil {
		t.Fatalf("profile failed: %v", err)
	}
	if user.Email != "shop@example.com" {
		t.Errorf("unexpected email %q", user.Email)
	}

	_, err = svc.Profile(context.Background(), primitive.NewObjectID().Hex())
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized for unknown user, got: %v", err)
	}
}
