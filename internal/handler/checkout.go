package handler

import (
	"log/slog"
	"net/http"

	"storefront/internal/model"
	"storefront/internal/storefront"
)

// paymentRequest optionally picks a saved address. Without one the first
// saved address is used.
type paymentRequest struct {
	AddressID string `json:"addressId,omitempty"`
}

type onlinePaymentResponse struct {
	RedirectURL string                  `json:"redirectUrl,omitempty"`
	Checkout    storefront.CheckoutView `json:"checkout"`
}

// handleGetCheckout returns the checkout summary.
// GET /checkout
func (h *Handler) handleGetCheckout(w http.ResponseWriter, r *http.Request) {
	d, notices := h.deps(r)
	page := storefront.NewCheckoutPage(d, h.cfg.ReturnURL)

	if err := page.Load(r.Context()); err != nil {
		h.writeError(w, notices, err)
		return
	}
	h.writeView(w, notices, http.StatusOK, page.View())
}

// preparePayment loads the checkout page and applies the requested address.
func (h *Handler) preparePayment(r *http.Request, d storefront.Deps) (*storefront.CheckoutPage, error) {
	var req paymentRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		return nil, err
	}

	page := storefront.NewCheckoutPage(d, h.cfg.ReturnURL)
	if err := page.Load(r.Context()); err != nil {
		return nil, err
	}
	if req.AddressID != "" {
		if err := page.SelectAddress(req.AddressID); err != nil {
			return nil, err
		}
	}
	return page, nil
}

// handlePayOnline opens a hosted payment session.
// POST /checkout/online
func (h *Handler) handlePayOnline(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	d, notices := h.deps(r)

	page, err := h.preparePayment(r, d)
	if err != nil {
		h.writeError(w, notices, err)
		return
	}

	url, err := page.PayOnline(ctx)
	if err != nil {
		h.writeError(w, notices, err)
		return
	}

	h.logger.InfoContext(ctx, "online payment started", slog.Bool("redirect", url != ""))
	h.writeView(w, notices, http.StatusCreated, onlinePaymentResponse{
		RedirectURL: url,
		Checkout:    page.View(),
	})
}

// handlePayCash places a cash-on-delivery order.
// POST /checkout/cash
func (h *Handler) handlePayCash(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	d, notices := h.deps(r)

	page, err := h.preparePayment(r, d)
	if err != nil {
		h.writeError(w, notices, err)
		return
	}

	if _, err := page.PayCash(ctx); err != nil {
		h.writeError(w, notices, err)
		return
	}
	h.writeView(w, notices, http.StatusCreated, page.View())
}

// handleListOrders returns the signed-in user's order history.
// GET /orders
func (h *Handler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	d, notices := h.deps(r)
	page := storefront.NewOrdersPage(d)

	if err := page.Load(r.Context()); err != nil {
		h.writeError(w, notices, err)
		return
	}
	h.writeView(w, notices, http.StatusOK, page.View())
}

// handleGetProfile returns the profile and saved addresses.
// GET /profile
func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	d, notices := h.deps(r)
	page := storefront.NewProfilePage(d)

	if err := page.Load(r.Context()); err != nil {
		h.writeError(w, notices, err)
		return
	}
	h.writeView(w, notices, http.StatusOK, page.View())
}

// handleAddAddress saves a shipping address.
// POST /addresses
func (h *Handler) handleAddAddress(w http.ResponseWriter, r *http.Request) {
	d, notices := h.deps(r)

	var req model.AddressInput
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, notices, err)
		return
	}

	page := storefront.NewProfilePage(d)
	if err := page.AddAddress(r.Context(), req); err != nil {
		h.writeError(w, notices, err)
		return
	}
	h.writeView(w, notices, http.StatusCreated, page.View())
}

// handleGetAddress returns one saved address.
// GET /addresses/{id}
func (h *Handler) handleGetAddress(w http.ResponseWriter, r *http.Request) {
	d, notices := h.deps(r)
	page := storefront.NewProfilePage(d)

	addr, err := page.Address(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, notices, err)
		return
	}
	h.writeView(w, notices, http.StatusOK, addr)
}

// handleRemoveAddress deletes a saved address.
// DELETE /addresses/{id}
func (h *Handler) handleRemoveAddress(w http.ResponseWriter, r *http.Request) {
	d, notices := h.deps(r)
	page := storefront.NewProfilePage(d)

	if err := page.RemoveAddress(r.Context(), r.PathValue("id")); err != nil {
		h.writeError(w, notices, err)
		return
	}
	h.writeView(w, notices, http.StatusOK, page.View())
}
