package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/rl1809/sweet-shop/internal/core/service"
)

// NewRouter registers all routes and wraps them with the middleware chain.
func NewRouter(h *HTTPHandler, a *AuthHandler, access *AccessMiddleware, logger *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", h.HealthCheck)

	mux.HandleFunc("POST /api/auth/register", a.Register)
	mux.HandleFunc("POST /api/auth/login", a.Login)
	mux.HandleFunc("GET /api/auth/profile", access.Secure(service.OpProfile, a.Profile))

	mux.HandleFunc("GET /api/sweets", access.Secure(service.OpListSweets, h.ListSweets))
	mux.HandleFunc("GET /api/sweets/search", access.Secure(service.OpListSweets, h.SearchSweets))
	mux.HandleFunc("GET /api/sweets/{id}", access.Secure(service.OpGetSweet, h.GetSweet))
	mux.HandleFunc("POST /api/sweets", access.Secure(service.OpCreateSweet, h.CreateSweet))
	mux.HandleFunc("PUT /api/sweets/{id}", access.Secure(service.OpUpdateSweet, h.UpdateSweet))
	mux.HandleFunc("DELETE /api/sweets/{id}", access.Secure(service.OpDeleteSweet, h.DeleteSweet))
	mux.HandleFunc("POST /api/sweets/{id}/purchase", access.Secure(service.OpPurchase, h.Purchase))
	mux.HandleFunc("POST /api/sweets/{id}/restock", access.Secure(service.OpRestock, h.Restock))

	return WithRequestID(WithCORS(WithLogging(logger, mux)))
}
