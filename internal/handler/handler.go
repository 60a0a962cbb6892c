// Package handler serves the storefront pages over HTTP (REST and MCP).
//
// Every request gets fresh pages. The signed-in user is identified by the
// token request header, turned into a session by middleware.Session.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"storefront/internal/adapter"
	"storefront/internal/api"
	"storefront/internal/metrics"
	"storefront/internal/model"
	"storefront/internal/session"
	"storefront/internal/storefront"
)

// Config holds optional handler settings.
type Config struct {
	// ReturnURL is where hosted payment sends the buyer back to.
	ReturnURL string

	// Metrics enables GET /metrics when set.
	Metrics prometheus.Gatherer
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	commerce adapter.Commerce
	cfg      Config
	logger   *slog.Logger
}

// New creates a new Handler backed by commerce.
func New(commerce adapter.Commerce, cfg Config, logger *slog.Logger) *Handler {
	return &Handler{
		commerce: commerce,
		cfg:      cfg,
		logger:   logger,
	}
}

// RegisterRoutes registers all HTTP routes with the given ServeMux.
// Uses Go 1.22+ method routing patterns.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Catalog
	mux.HandleFunc("GET /products", h.handleListProducts)
	mux.HandleFunc("GET /products/{id}", h.handleGetProduct)
	mux.HandleFunc("GET /categories", h.handleListCategories)
	mux.HandleFunc("GET /categories/{id}", h.handleGetCategory)
	mux.HandleFunc("GET /subcategories/{id}/products", h.handleSubcategoryProducts)
	mux.HandleFunc("GET /brands", h.handleListBrands)
	mux.HandleFunc("GET /brands/{id}", h.handleGetBrand)

	// Cart
	mux.HandleFunc("GET /cart", h.handleGetCart)
	mux.HandleFunc("PUT /cart", h.handleSyncCart)
	mux.HandleFunc("DELETE /cart", h.handleClearCart)
	mux.HandleFunc("POST /cart/items", h.handleAddCartItem)
	mux.HandleFunc("PUT /cart/items/{productId}", h.handleUpdateCartItem)
	mux.HandleFunc("DELETE /cart/items/{productId}", h.handleRemoveCartItem)

	// Wishlist
	mux.HandleFunc("GET /wishlist", h.handleGetWishlist)
	mux.HandleFunc("POST /wishlist/items", h.handleAddWishlistItem)
	mux.HandleFunc("DELETE /wishlist/items/{productId}", h.handleRemoveWishlistItem)

	// Checkout and account
	mux.HandleFunc("GET /checkout", h.handleGetCheckout)
	mux.HandleFunc("POST /checkout/online", h.handlePayOnline)
	mux.HandleFunc("POST /checkout/cash", h.handlePayCash)
	mux.HandleFunc("GET /orders", h.handleListOrders)
	mux.HandleFunc("GET /profile", h.handleGetProfile)
	mux.HandleFunc("POST /addresses", h.handleAddAddress)
	mux.HandleFunc("GET /addresses/{id}", h.handleGetAddress)
	mux.HandleFunc("DELETE /addresses/{id}", h.handleRemoveAddress)

	// Auth
	mux.HandleFunc("POST /auth/signin", h.handleSignIn)
	mux.HandleFunc("POST /auth/signup", h.handleSignUp)
	mux.HandleFunc("POST /auth/signout", h.handleSignOut)

	// MCP transport - JSON-RPC endpoint using official MCP SDK
	mux.Handle("/mcp", h.NewMCPHandler())

	if h.cfg.Metrics != nil {
		mux.Handle("GET /metrics", metrics.Handler(h.cfg.Metrics))
	}

	// Health check
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("GET /healthz", h.handleHealth)
}

// handleHealth returns a simple health check response.
// GET /health, GET /healthz
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

type healthResponse struct {
	Status string `json:"status"`
}

// === Page Dependencies ===

// deps builds the page dependencies for one request. Notices raised by
// the pages collect in the returned log.
func (h *Handler) deps(r *http.Request) (storefront.Deps, *storefront.NoticeLog) {
	sess := session.FromContext(r.Context())
	if sess == nil {
		// Routes mounted without middleware.Session still honor the header.
		var err error
		sess, err = session.ForToken(r.Context(), h.commerce, r.Header.Get(api.TokenHeader), h.logger)
		if err != nil {
			h.logger.Error("session setup failed", slog.String("error", err.Error()))
		}
	}

	notices := &storefront.NoticeLog{}
	return storefront.Deps{
		Commerce: h.commerce,
		Session:  sess,
		Notifier: notices,
		Logger:   h.logger,
	}, notices
}

// === Response Helpers ===

// writeJSON sends a JSON response with the given status code.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

// writeView sends a page view along with the notices the page raised.
func (h *Handler) writeView(w http.ResponseWriter, notices *storefront.NoticeLog, status int, view interface{}) {
	h.setNotices(w, notices)
	h.writeJSON(w, status, view)
}

// writeError sends an error response, extracting status/code from APIError if present.
// Uses errors.As() to unwrap error chains (e.g., fmt.Errorf wrapping).
func (h *Handler) writeError(w http.ResponseWriter, notices *storefront.NoticeLog, err error) {
	h.setNotices(w, notices)

	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		// Found APIError in error chain - use it
	} else {
		// Wrap unexpected errors
		apiErr = model.NewInternalError(err)
		h.logger.Error("internal error", slog.String("error", err.Error()))
	}

	status := apiErr.StatusCode
	if errors.Is(apiErr, model.ErrPrecondition) && apiErr.Message == session.LoginRequired {
		status = http.StatusUnauthorized
	}
	if status == 0 {
		status = http.StatusInternalServerError
	}

	h.writeJSON(w, status, errorResponse{
		Error: errorBody{
			Code:    apiErr.Code,
			Message: apiErr.Message,
		},
	})
}

// errorResponse is the JSON structure for error responses.
type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MaxRequestBodySize limits JSON request bodies to 1MB to prevent DoS.
const MaxRequestBodySize = 1 << 20 // 1MB

// decodeJSON reads JSON from request body into v.
// Limits body size to MaxRequestBodySize to prevent memory exhaustion.
// Returns an APIError if decoding fails.
func decodeJSON(r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(nil, r.Body, MaxRequestBodySize)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		// Don't expose internal error details to client
		return model.NewValidationError("body", "invalid JSON")
	}
	return nil
}

// decodeOptionalJSON is decodeJSON for bodies that may be absent. An empty
// body, including an empty chunked one, leaves v untouched.
func decodeOptionalJSON(r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(nil, r.Body, MaxRequestBodySize)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return model.NewValidationError("body", "invalid JSON")
	}
	return nil
}
