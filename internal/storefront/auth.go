package storefront

import (
	"context"
	"fmt"

	"storefront/internal/model"
)

// AuthView renders the sign-in state.
type AuthView struct {
	State string      `json:"state"`
	User  *model.User `json:"user,omitempty"`
	Error string      `json:"error,omitempty"`
}

// AuthPage signs users in, up and out through the session.
type AuthPage struct {
	deps Deps
}

func NewAuthPage(d Deps) *AuthPage {
	return &AuthPage{deps: d}
}

// SignIn submits credentials to the session.
func (p *AuthPage) SignIn(ctx context.Context, email, password string) error {
	if p.deps.Session == nil {
		return model.NewInternalError(fmt.Errorf("auth page has no session"))
	}
	resp, err := p.deps.Session.SignIn(ctx, model.Credentials{Email: email, Password: password})
	if err != nil {
		return p.deps.failed("sign in", err, "Invalid email or password")
	}
	p.deps.notify(LevelSuccess, "Welcome back, "+resp.User.Name+"!")
	return nil
}

// SignUp registers an account. The password confirmation is checked
// locally. The user signs in separately afterwards.
func (p *AuthPage) SignUp(ctx context.Context, in model.SignUpInput) error {
	if in.Password != in.RePassword {
		return p.deps.reject("Passwords do not match!")
	}
	if _, err := p.deps.Commerce.SignUp(ctx, in); err != nil {
		return p.deps.failed("sign up", err, "Registration failed.")
	}
	p.deps.notify(LevelSuccess, "Registration successful! Please log in.")
	return nil
}

// SignOut clears the session.
func (p *AuthPage) SignOut(ctx context.Context) error {
	if p.deps.Session == nil {
		return nil
	}
	if err := p.deps.Session.SignOut(ctx); err != nil {
		return p.deps.failed("sign out", err, "Failed to sign out.")
	}
	p.deps.notify(LevelInfo, "Signed out.")
	return nil
}

func (p *AuthPage) View() AuthView {
	s := p.deps.Session
	if s == nil {
		return AuthView{State: "anonymous"}
	}
	v := AuthView{State: s.State().String(), User: s.User()}
	if err := s.Err(); err != nil {
		v.Error = userMessage(err, "Invalid email or password")
	}
	return v
}
