package handlers_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/geocoder89/signin/internal/domain/user"
	"github.com/geocoder89/signin/internal/http/handlers"
	"github.com/gin-gonic/gin"
)

func bindRouter() *gin.Engine {
	r := gin.New()
	r.POST("/register", func(ctx *gin.Context) {
		var req user.RegisterRequest
		if !handlers.BindJSON(ctx, &req) {
			return
		}
		ctx.Status(http.StatusNoContent)
	})
	return r
}

func TestBindJSON_ValidationMessagesUseJSONFieldNames(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{name: "missing_email", body: `{"name":"Test User"}`, message: "Email is required"},
		{name: "missing_both", body: `{}`, message: "Email is required"},
		{name: "missing_name", body: `{"email":"test@example.com"}`, message: "Name is required"},
		{name: "blank_email", body: `{"email":" \t ","name":"Test User"}`, message: "Email is required"},
		{name: "blank_name", body: `{"email":"test@example.com","name":"  "}`, message: "Name is required"},
		{name: "invalid_email", body: `{"email":"nope","name":"Test User"}`, message: "Email is invalid"},
	}

	r := bindRouter()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d body=%s", w.Code, w.Body.String())
			}

			body := decodeBody(t, w)
			if body["status"] != "error" || body["message"] != tt.message {
				t.Fatalf("got %v, want message %q", body, tt.message)
			}
		})
	}
}

func TestBindJSON_MalformedBody(t *testing.T) {
	r := bindRouter()

	for name, payload := range map[string]string{
		"not_json":      `{"email":`,
		"type_mismatch": `{"email":42,"name":"x"}`,
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewBufferString(payload))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}

			if body := decodeBody(t, w); body["message"] != "Invalid request body" {
				t.Fatalf("unexpected body %v", body)
			}
		})
	}
}
