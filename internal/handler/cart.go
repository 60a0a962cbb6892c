package handler

import (
	"log/slog"
	"net/http"

	"storefront/internal/model"
	"storefront/internal/reconcile"
	"storefront/internal/storefront"
)

type productRequest struct {
	ProductID string `json:"productId"`
}

type countRequest struct {
	Count int `json:"count"`
}

type syncRequest struct {
	Items []reconcile.Line `json:"items"`
}

type syncResponse struct {
	Plan *reconcile.Plan     `json:"plan"`
	Cart storefront.CartView `json:"cart"`
}

// handleGetCart returns the signed-in user's cart.
// GET /cart
func (h *Handler) handleGetCart(w http.ResponseWriter, r *http.Request) {
	d, notices := h.deps(r)
	page := storefront.NewCartPage(d)

	if err := page.Load(r.Context()); err != nil {
		h.writeError(w, notices, err)
		return
	}
	h.writeView(w, notices, http.StatusOK, page.View())
}

// handleAddCartItem adds one unit of a product.
// POST /cart/items
func (h *Handler) handleAddCartItem(w http.ResponseWriter, r *http.Request) {
	d, notices := h.deps(r)

	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, notices, err)
		return
	}
	if req.ProductID == "" {
		h.writeError(w, notices, model.NewValidationError("productId", "required"))
		return
	}

	page := storefront.NewCartPage(d)
	if err := page.Add(r.Context(), req.ProductID); err != nil {
		h.writeError(w, notices, err)
		return
	}
	h.writeView(w, notices, http.StatusOK, page.View())
}

// handleUpdateCartItem sets a line's quantity.
// PUT /cart/items/{productId}
func (h *Handler) handleUpdateCartItem(w http.ResponseWriter, r *http.Request) {
	d, notices := h.deps(r)

	var req countRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, notices, err)
		return
	}

	page := storefront.NewCartPage(d)
	if err := page.UpdateQuantity(r.Context(), r.PathValue("productId"), req.Count); err != nil {
		h.writeError(w, notices, err)
		return
	}
	h.writeView(w, notices, http.StatusOK, page.View())
}

// handleRemoveCartItem removes a product's line.
// DELETE /cart/items/{productId}
func (h *Handler) handleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	d, notices := h.deps(r)
	page := storefront.NewCartPage(d)

	if err := page.Remove(r.Context(), r.PathValue("productId")); err != nil {
		h.writeError(w, notices, err)
		return
	}
	h.writeView(w, notices, http.StatusOK, page.View())
}

// handleClearCart empties the cart.
// DELETE /cart
func (h *Handler) handleClearCart(w http.ResponseWriter, r *http.Request) {
	d, notices := h.deps(r)
	page := storefront.NewCartPage(d)

	if err := page.Clear(r.Context()); err != nil {
		h.writeError(w, notices, err)
		return
	}
	h.writeView(w, notices, http.StatusOK, page.View())
}

// handleSyncCart replaces the cart contents with the requested lines.
// PUT /cart
func (h *Handler) handleSyncCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	d, notices := h.deps(r)

	var req syncRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, notices, err)
		return
	}

	h.logger.InfoContext(ctx, "syncing cart", slog.Int("lines", len(req.Items)))

	page := storefront.NewCartPage(d)
	plan, err := page.Sync(ctx, req.Items)
	if err != nil {
		h.writeError(w, notices, err)
		return
	}
	h.writeView(w, notices, http.StatusOK, syncResponse{Plan: plan, Cart: page.View()})
}

// handleGetWishlist returns the wishlist.
// GET /wishlist
func (h *Handler) handleGetWishlist(w http.ResponseWriter, r *http.Request) {
	d, notices := h.deps(r)
	page := storefront.NewWishlistPage(d)

	if err := page.Load(r.Context()); err != nil {
		h.writeError(w, notices, err)
		return
	}
	h.writeView(w, notices, http.StatusOK, page.View())
}

// handleAddWishlistItem adds a product to the wishlist.
// POST /wishlist/items
func (h *Handler) handleAddWishlistItem(w http.ResponseWriter, r *http.Request) {
	d, notices := h.deps(r)

	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, notices, err)
		return
	}
	if req.ProductID == "" {
		h.writeError(w, notices, model.NewValidationError("productId", "required"))
		return
	}

	page := storefront.NewWishlistPage(d)
	if err := page.Add(r.Context(), req.ProductID); err != nil {
		h.writeError(w, notices, err)
		return
	}
	h.writeView(w, notices, http.StatusOK, page.View())
}

// handleRemoveWishlistItem removes a product from the wishlist.
// DELETE /wishlist/items/{productId}
func (h *Handler) handleRemoveWishlistItem(w http.ResponseWriter, r *http.Request) {
	d, notices := h.deps(r)
	page := storefront.NewWishlistPage(d)

	if err := page.Remove(r.Context(), r.PathValue("productId")); err != nil {
		h.writeError(w, notices, err)
		return
	}
	h.writeView(w, notices, http.StatusOK, page.View())
}
