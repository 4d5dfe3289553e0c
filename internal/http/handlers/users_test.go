package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/geocoder89/signin/internal/domain/user"
	"github.com/geocoder89/signin/internal/http/handlers"
	"github.com/gin-gonic/gin"
)

func registerRouter(repo *fakeUsersRepo) *gin.Engine {
	h := handlers.NewUsersHandler(repo, brokenResolver{})

	r := gin.New()
	r.POST("/register", h.Register)
	return r
}

func TestRegisterHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		createErr  error
		wantStatus int
		wantMsg    string
	}{
		{name: "success", body: `{"email":"Test@Example.com","name":" Test User "}`, wantStatus: http.StatusOK},
		{name: "missing_email", body: `{"name":"Test User"}`, wantStatus: http.StatusBadRequest, wantMsg: "Email is required"},
		{name: "missing_name", body: `{"email":"test@example.com"}`, wantStatus: http.StatusBadRequest, wantMsg: "Name is required"},
		{name: "blank_email", body: `{"email":"   ","name":"Test User"}`, wantStatus: http.StatusBadRequest, wantMsg: "Email is required"},
		{name: "padded_email", body: `{"email":"  test@example.com ","name":"Test User"}`, wantStatus: http.StatusOK},
		{name: "blank_name", body: `{"email":"test@example.com","name":"   "}`, wantStatus: http.StatusBadRequest, wantMsg: "Name is required"},
		{name: "duplicate", body: `{"email":"test@example.com","name":"Test User"}`, createErr: user.ErrEmailAlreadyUsed, wantStatus: http.StatusConflict, wantMsg: "Email is already registered"},
		{name: "store_error", body: `{"email":"test@example.com","name":"Test User"}`, createErr: errors.New("db error"), wantStatus: http.StatusInternalServerError, wantMsg: "Could not register user"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var created *user.User

			repo := &fakeUsersRepo{
				createFn: func(ctx context.Context, u user.User) (user.User, error) {
					if tt.createErr != nil {
						return user.User{}, tt.createErr
					}
					created = &u
					return u, nil
				},
			}

			w := postJSON(registerRouter(repo), "/register", tt.body)

			if w.Code != tt.wantStatus {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatus, w.Body.String())
			}

			if tt.wantMsg != "" {
				body := decodeBody(t, w)
				if body["status"] != "error" || body["message"] != tt.wantMsg {
					t.Fatalf("got %v, want message %q", body, tt.wantMsg)
				}
				if created != nil {
					t.Fatalf("store should not hold a user on failure")
				}
				return
			}

			var resp struct {
				Status string    `json:"status"`
				User   user.User `json:"user"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}

			if resp.Status != "success" || resp.User.Email != "test@example.com" || resp.User.Name != "Test User" {
				t.Fatalf("unexpected response %+v", resp)
			}
			if resp.User.ID == "" || created == nil || created.ID != resp.User.ID {
				t.Fatalf("expected generated id to be stored, got %+v", resp.User)
			}
			if len(w.Result().Cookies()) != 0 {
				t.Fatalf("register must not start a session")
			}
		})
	}
}

func TestIndexHandler(t *testing.T) {
	h, err := handlers.NewIndexHandler("client-123.apps.googleusercontent.com")
	if err != nil {
		t.Fatalf("new index handler: %v", err)
	}

	r := gin.New()
	r.GET("/", h.Index)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("got content type %q", ct)
	}
	if !strings.Contains(w.Body.String(), "client-123.apps.googleusercontent.com") {
		t.Fatalf("page does not carry the client id")
	}
}

type pinger func(ctx context.Context) error

func (p pinger) Ping(ctx context.Context) error { return p(ctx) }

func TestReadyz(t *testing.T) {
	ok := pinger(func(context.Context) error { return nil })
	down := pinger(func(context.Context) error { return errors.New("down") })

	tests := []struct {
		name       string
		deps       map[string]handlers.Pinger
		wantStatus int
		want       string
	}{
		{name: "all_up", deps: map[string]handlers.Pinger{"users": ok, "sessions": ok}, wantStatus: http.StatusOK, want: "ready"},
		{name: "one_down", deps: map[string]handlers.Pinger{"users": ok, "sessions": down}, wantStatus: http.StatusServiceUnavailable, want: "not_ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handlers.NewHealthHandler(tt.deps)

			r := gin.New()
			r.GET("/readyz", h.Readyz)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			if w.Code != tt.wantStatus {
				t.Fatalf("got status %d, want %d", w.Code, tt.wantStatus)
			}
			if body := decodeBody(t, w); body["status"] != tt.want {
				t.Fatalf("unexpected body %v", body)
			}
		})
	}
}
