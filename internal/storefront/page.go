// Package storefront holds the view-state pages of the shop.
//
// A page fetches through adapter.Commerce when loaded, keeps the result as
// its local state and exposes a View snapshot for rendering. Mutations go
// to the API first and are followed by a full re-fetch of the affected
// resource; local state is never edited in place. Failures become user
// notices and are also returned to the caller.
//
// Each page guards its own state and may be used from several goroutines.
// Network calls are made without holding the page lock.
package storefront

import (
	"errors"
	"log/slog"
	"sync"

	"storefront/internal/adapter"
	"storefront/internal/model"
	"storefront/internal/session"
)

// Deps are shared by every page.
type Deps struct {
	Commerce adapter.Commerce
	// Session may be nil, which behaves as signed out.
	Session  *session.Session
	Notifier Notifier
	Logger   *slog.Logger
}

func (d Deps) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.Default()
	}
	return d.Logger
}

func (d Deps) notify(level Level, msg string) {
	if d.Notifier == nil || msg == "" {
		return
	}
	d.Notifier.Notify(Notice{Level: level, Message: msg})
}

// token returns the session token, notifying when signed out.
func (d Deps) token() (string, error) {
	token, err := d.Session.RequireToken()
	if err != nil {
		d.notify(LevelError, session.LoginRequired)
		return "", err
	}
	return token, nil
}

// reject reports a local precondition failure. No call is made.
func (d Deps) reject(reason string) error {
	d.notify(LevelError, reason)
	return model.NewPreconditionError(reason)
}

// failed logs err, notifies the user and returns err unchanged.
func (d Deps) failed(op string, err error, fallback string) error {
	d.logger().Warn(op+" failed", slog.String("error", err.Error()))
	d.notify(LevelError, userMessage(err, fallback))
	return err
}

// userMessage picks the text shown for err: the API's own message for
// application and precondition failures, fallback for everything else.
func userMessage(err error, fallback string) string {
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Message == "" {
		return fallback
	}
	if errors.Is(err, model.ErrPrecondition) || errors.Is(err, model.ErrApplication) {
		if apiErr.Message == model.DefaultFailureMessage && fallback != "" {
			return fallback
		}
		return apiErr.Message
	}
	return fallback
}

// Status is the load status embedded in every view.
type Status struct {
	Loading bool   `json:"loading"`
	Loaded  bool   `json:"loaded"`
	Error   string `json:"error,omitempty"`
}

// resource holds one fetched value and its load status.
type resource[T any] struct {
	mu      sync.Mutex
	value   T
	loaded  bool
	loading bool
	err     error
}

func (r *resource[T]) begin() {
	r.mu.Lock()
	r.loading = true
	r.mu.Unlock()
}

// finish records a fetch result. A failed fetch keeps the previous value.
func (r *resource[T]) finish(v T, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loading = false
	r.err = err
	if err == nil {
		r.value = v
		r.loaded = true
	}
}

// set replaces the value without a fetch.
func (r *resource[T]) set(v T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.value = v
}

func (r *resource[T]) get() T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.value
}

func (r *resource[T]) snapshot() (T, Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := Status{Loading: r.loading, Loaded: r.loaded}
	if r.err != nil {
		st.Error = userMessage(r.err, r.err.Error())
	}
	return r.value, st
}

// merge combines the status of several resources into one.
func merge(sts ...Status) Status {
	out := Status{Loaded: true}
	for _, st := range sts {
		out.Loading = out.Loading || st.Loading
		out.Loaded = out.Loaded && st.Loaded
		if out.Error == "" {
			out.Error = st.Error
		}
	}
	return out
}
