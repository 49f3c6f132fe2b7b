package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/rl1809/sweet-shop/internal/core/domain"
	"github.com/rl1809/sweet-shop/internal/core/service"
	"github.com/rl1809/sweet-shop/internal/port"
)

type ctxKey int

const (
	ctxKeyPrincipal ctxKey = iota
	ctxKeyRequestID
)

// PrincipalFromContext returns the authenticated caller, if any.
func PrincipalFromContext(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(ctxKeyPrincipal).(domain.Principal)
	return p, ok
}

func RequestIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyRequestID).(string)
	return v
}

// AccessMiddleware resolves bearer tokens to principals and gates each
// route through the access policy before the handler runs.
type AccessMiddleware struct {
	tokens port.TokenManager
	users  port.UserRepository
	policy service.AccessPolicy
	logger *zap.Logger
}

func NewAccessMiddleware(tokens port.TokenManager, users port.UserRepository, policy service.AccessPolicy, logger *zap.Logger) *AccessMiddleware {
	return &AccessMiddleware{tokens: tokens, users: users, policy: policy, logger: logger}
}

// Secure authenticates the request (when credentials are present) and
// authorizes op. Public operations pass through anonymously.
func (m *AccessMiddleware) Secure(op service.Operation, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, err := m.principal(r)
		if err != nil {
			m.writeTokenError(w, err)
			return
		}

		if err := m.policy.Authorize(principal, op); err != nil {
			if errors.Is(err, service.ErrForbidden) {
				writeJSON(w, http.StatusForbidden, errorResponse{Message: "Admin access required"})
			} else {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "Access token required"})
			}
			return
		}

		if principal != nil {
			r = r.WithContext(context.WithValue(r.Context(), ctxKeyPrincipal, *principal))
		}
		next(w, r)
	}
}

// principal resolves the Authorization header. No header means an
// anonymous caller, which is not an error; the policy decides whether
// anonymous is enough for the operation.
func (m *AccessMiddleware) principal(r *http.Request) (*domain.Principal, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, nil
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, port.ErrTokenInvalid
	}

	userID, err := m.tokens.Verify(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return nil, err
	}

	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, port.ErrTokenInvalid
	}
	user, err := m.users.FindByID(r.Context(), id)
	if err != nil {
		m.logger.Error("principal lookup failed", zap.Error(err))
		return nil, port.ErrTokenInvalid
	}
	if user == nil {
		return nil, port.ErrTokenInvalid
	}

	return &domain.Principal{ID: userID, Role: user.Role}, nil
}

func (m *AccessMiddleware) writeTokenError(w http.ResponseWriter, err error) {
	message := "Invalid token"
	if errors.Is(err, port.ErrTokenExpired) {
		message = "Token expired"
	}
	writeJSON(w, http.StatusUnauthorized, errorResponse{Message: message})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// WithRequestID tags each request with the client-supplied X-Request-Id,
// or a fresh UUID when absent. The same header keys purchase idempotency.
func WithRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-Id")
		if reqID == "" {
			reqID = uuid.NewString()
			r.Header.Set("X-Request-Id", reqID)
		}
		w.Header().Set("X-Request-Id", reqID)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKeyRequestID, reqID)))
	})
}

func WithLogging(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sr, r)
		logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", sr.status),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", RequestIDFromContext(r.Context())),
		)
	})
}

// WithCORS allows the SPA frontend to call the API from another origin.
func WithCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-Id")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
