package middleware

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"storefront/internal/model"
	"storefront/internal/session"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	var seen string
	handler := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("created"))
	}))

	req := httptest.NewRequest("POST", "/cart/items", nil)
	req.Header.Set("User-Agent", "test-agent")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("Status = %d, want %d", w.Code, http.StatusCreated)
	}
	if _, err := uuid.Parse(seen); err != nil {
		t.Errorf("request id %q is not a UUID: %v", seen, err)
	}
	if got := w.Header().Get(RequestIDHeader); got != seen {
		t.Errorf("%s = %q, want %q", RequestIDHeader, got, seen)
	}

	logged := buf.String()
	checks := []string{"method=POST", "path=/cart/items", "status=201", "request_id=" + seen}
	for _, check := range checks {
		if !strings.Contains(logged, check) {
			t.Errorf("Log missing %q: %s", check, logged)
		}
	}
}

func TestLoggingKeepsIncomingRequestID(t *testing.T) {
	handler := Logging(discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(RequestID(r.Context())))
	}))

	req := httptest.NewRequest("GET", "/products", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Body.String() != "abc-123" || w.Header().Get(RequestIDHeader) != "abc-123" {
		t.Errorf("body = %q, header = %q", w.Body.String(), w.Header().Get(RequestIDHeader))
	}
}

func TestLoggingDefaultStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	handler := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/health", nil))

	if logged := buf.String(); !strings.Contains(logged, "status=200") {
		t.Errorf("Expected status=200 in log: %s", logged)
	}
}

func TestRecovery(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	handler := Recovery(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("test panic")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/panic", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
	if !strings.Contains(w.Body.String(), `"code":"INTERNAL_ERROR"`) {
		t.Errorf("Body = %s, want INTERNAL_ERROR envelope", w.Body.String())
	}
	logged := buf.String()
	if !strings.Contains(logged, "panic recovered") || !strings.Contains(logged, "test panic") {
		t.Errorf("Log missing panic details: %s", logged)
	}
}

func TestRecoveryNoPanic(t *testing.T) {
	handler := Recovery(discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/ok", nil))

	if w.Code != http.StatusOK || w.Body.String() != "ok" {
		t.Errorf("Status = %d, Body = %s", w.Code, w.Body.String())
	}
}

type recordingObserver struct {
	methods  []string
	statuses []int
}

func (o *recordingObserver) ObserveRequest(method string, status int) {
	o.methods = append(o.methods, method)
	o.statuses = append(o.statuses, status)
}

func TestMetrics(t *testing.T) {
	obs := &recordingObserver{}
	handler := Metrics(obs)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("ok"))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/cart", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("DELETE", "/missing", nil))

	if len(obs.statuses) != 2 || obs.statuses[0] != 200 || obs.statuses[1] != 404 {
		t.Errorf("statuses = %v, want [200 404]", obs.statuses)
	}
	if obs.methods[1] != "DELETE" {
		t.Errorf("methods = %v", obs.methods)
	}
}

type nopAuth struct{}

func (nopAuth) SignIn(context.Context, model.Credentials) (*model.AuthResponse, error) {
	return &model.AuthResponse{Token: "new"}, nil
}

func TestSession(t *testing.T) {
	tests := []struct {
		name      string
		token     string
		wantState session.State
	}{
		{"no token", "", session.Anonymous},
		{"token header", "tok-1", session.Authenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *session.Session
			handler := Session(nopAuth{}, discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = session.FromContext(r.Context())
			}))

			req := httptest.NewRequest("GET", "/cart", nil)
			if tt.token != "" {
				req.Header.Set("token", tt.token)
			}
			handler.ServeHTTP(httptest.NewRecorder(), req)

			if got == nil {
				t.Fatal("no session in context")
			}
			if got.State() != tt.wantState {
				t.Errorf("State = %s, want %s", got.State(), tt.wantState)
			}
			if got.Token() != tt.token {
				t.Errorf("Token = %q, want %q", got.Token(), tt.token)
			}
		})
	}
}

func TestSessionIsPerRequest(t *testing.T) {
	var sessions []*session.Session
	handler := Session(nopAuth{}, discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := session.FromContext(r.Context())
		s.SignIn(r.Context(), model.Credentials{Email: "a@b.c", Password: "x"})
		sessions = append(sessions, s)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/auth/signin", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/cart", nil))

	if sessions[0] == sessions[1] {
		t.Fatal("sessions shared between requests")
	}
	if sessions[0].Token() != "new" {
		t.Errorf("first session token = %q, want new", sessions[0].Token())
	}
}

func TestChain(t *testing.T) {
	var order []string

	middleware1 := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "m1-before")
			next.ServeHTTP(w, r)
			order = append(order, "m1-after")
		})
	}

	middleware2 := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "m2-before")
			next.ServeHTTP(w, r)
			order = append(order, "m2-after")
		})
	}

	handler := Chain(middleware1, middleware2)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	expected := []string{"m1-before", "m2-before", "handler", "m2-after", "m1-after"}
	if len(order) != len(expected) {
		t.Fatalf("Order length = %d, want %d", len(order), len(expected))
	}
	for i, v := range expected {
		if order[i] != v {
			t.Errorf("Order[%d] = %s, want %s", i, order[i], v)
		}
	}
}

func TestResponseWriterMultipleWriteHeader(t *testing.T) {
	w := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

	rw.WriteHeader(http.StatusCreated)
	rw.WriteHeader(http.StatusNotFound)

	if rw.status != http.StatusCreated {
		t.Errorf("Status after second write = %d, want %d", rw.status, http.StatusCreated)
	}
	if w.Code != http.StatusCreated {
		t.Errorf("Underlying status = %d, want %d", w.Code, http.StatusCreated)
	}
}

func TestResponseWriterImplicitStatus(t *testing.T) {
	w := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

	rw.Write([]byte("test"))

	if !rw.wroteHeader {
		t.Error("wroteHeader should be true after Write")
	}
	if rw.status != http.StatusOK {
		t.Errorf("Status = %d, want %d", rw.status, http.StatusOK)
	}
}
