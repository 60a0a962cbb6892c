package handler

import (
	"net/http"

	"storefront/internal/model"
	"storefront/internal/storefront"
)

// signInResponse hands the token back; the client sends it on later
// requests in the token header.
type signInResponse struct {
	Token string `json:"token"`
	storefront.AuthView
}

// handleSignIn exchanges credentials for a token.
// POST /auth/signin
func (h *Handler) handleSignIn(w http.ResponseWriter, r *http.Request) {
	d, notices := h.deps(r)

	var req model.Credentials
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, notices, err)
		return
	}
	if req.Email == "" || req.Password == "" {
		h.writeError(w, notices, model.NewValidationError("credentials", "email and password are required"))
		return
	}

	page := storefront.NewAuthPage(d)
	if err := page.SignIn(r.Context(), req.Email, req.Password); err != nil {
		h.writeError(w, notices, err)
		return
	}
	h.writeView(w, notices, http.StatusOK, signInResponse{
		Token:    d.Session.Token(),
		AuthView: page.View(),
	})
}

// handleSignUp registers an account. The caller signs in afterwards.
// POST /auth/signup
func (h *Handler) handleSignUp(w http.ResponseWriter, r *http.Request) {
	d, notices := h.deps(r)

	var req model.SignUpInput
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, notices, err)
		return
	}

	page := storefront.NewAuthPage(d)
	if err := page.SignUp(r.Context(), req); err != nil {
		h.writeError(w, notices, err)
		return
	}
	h.writeView(w, notices, http.StatusCreated, page.View())
}

// handleSignOut ends the session. The token stays valid upstream; the
// client is expected to discard it.
// POST /auth/signout
func (h *Handler) handleSignOut(w http.ResponseWriter, r *http.Request) {
	d, notices := h.deps(r)
	page := storefront.NewAuthPage(d)

	if err := page.SignOut(r.Context()); err != nil {
		h.writeError(w, notices, err)
		return
	}
	h.writeView(w, notices, http.StatusOK, page.View())
}
