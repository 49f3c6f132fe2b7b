package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/rl1809/sweet-shop/internal/core/domain"
	"github.com/rl1809/sweet-shop/internal/core/service"
)

// HTTPHandler serves the catalog and inventory endpoints.
type HTTPHandler struct {
	catalog   *service.CatalogService
	inventory *service.InventoryService
	logger    *zap.Logger
}

func NewHTTPHandler(catalog *service.CatalogService, inventory *service.InventoryService, logger *zap.Logger) *HTTPHandler {
	return &HTTPHandler{catalog: catalog, inventory: inventory, logger: logger}
}

type quantityRequest struct {
	// Pointer so a missing field can be told apart from zero.
	Quantity *int `json:"quantity"`
}

type errorResponse struct {
	Message   string   `json:"message"`
	Errors    []string `json:"errors,omitempty"`
	Available *int     `json:"available,omitempty"`
	Requested *int     `json:"requested,omitempty"`
}

func (h *HTTPHandler) ListSweets(w http.ResponseWriter, r *http.Request) {
	sweets, err := h.catalog.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sweets)
}

func (h *HTTPHandler) SearchSweets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.SweetFilter{
		Name:     q.Get("name"),
		Category: q.Get("category"),
	}

	if raw := q.Get("minPrice"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid minPrice value"})
			return
		}
		filter.MinPrice = &v
	}
	if raw := q.Get("maxPrice"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid maxPrice value"})
			return
		}
		filter.MaxPrice = &v
	}

	sweets, err := h.catalog.Search(r.Context(), filter)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sweets": sweets})
}

func (h *HTTPHandler) GetSweet(w http.ResponseWriter, r *http.Request) {
	sweet, err := h.catalog.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sweet": sweet})
}

func (h *HTTPHandler) CreateSweet(w http.ResponseWriter, r *http.Request) {
	var input service.CreateSweetInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid request body"})
		return
	}

	sweet, err := h.catalog.Create(r.Context(), input)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sweet)
}

func (h *HTTPHandler) UpdateSweet(w http.ResponseWriter, r *http.Request) {
	var input service.UpdateSweetInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid request body"})
		return
	}

	sweet, err := h.catalog.Update(r.Context(), r.PathValue("id"), input)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sweet": sweet})
}

func (h *HTTPHandler) DeleteSweet(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Sweet deleted successfully"})
}

func (h *HTTPHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.writeError(w, service.ErrUnauthorized)
		return
	}

	var req quantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid request body"})
		return
	}
	if req.Quantity == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Purchase quantity is required"})
		return
	}

	sweet, details, err := h.inventory.Purchase(r.Context(), principal, r.PathValue("id"), *req.Quantity, r.Header.Get("X-Request-Id"))
	if err != nil {
		if errors.Is(err, service.ErrQuantityNotPositive) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Purchase quantity must be positive"})
			return
		}
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":         "Purchase successful",
		"sweet":           sweet,
		"purchaseDetails": details,
	})
}

func (h *HTTPHandler) Restock(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.writeError(w, service.ErrUnauthorized)
		return
	}

	var req quantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid request body"})
		return
	}
	if req.Quantity == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Restock quantity is required"})
		return
	}

	sweet, details, err := h.inventory.Restock(r.Context(), principal, r.PathValue("id"), *req.Quantity)
	if err != nil {
		if errors.Is(err, service.ErrQuantityNotPositive) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Restock quantity must be positive"})
			return
		}
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":        "Restock successful",
		"sweet":          sweet,
		"restockDetails": details,
	})
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeError maps service errors onto the HTTP taxonomy. Unexpected
// failures log the detail and leak nothing past a generic message.
func (h *HTTPHandler) writeError(w http.ResponseWriter, err error) {
	var (
		insufficient *service.InsufficientStockError
		validation   *service.ValidationError
	)

	switch {
	case errors.Is(err, service.ErrInvalidID):
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid sweet ID"})
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Validation error", Errors: validation.Errors})
	case errors.As(err, &insufficient):
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Message:   "Insufficient stock",
			Available: &insufficient.Available,
			Requested: &insufficient.Requested,
		})
	case errors.Is(err, service.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Message: "Sweet not found"})
	case errors.Is(err, service.ErrDuplicateRequest):
		writeJSON(w, http.StatusConflict, errorResponse{Message: "Duplicate request"})
	case errors.Is(err, service.ErrEmailTaken):
		writeJSON(w, http.StatusConflict, errorResponse{Message: "Email already exists"})
	case errors.Is(err, service.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "Invalid credentials"})
	case errors.Is(err, service.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "Access token required"})
	case errors.Is(err, service.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse{Message: "Admin access required"})
	default:
		h.logger.Error("request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "Server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
