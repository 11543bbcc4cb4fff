package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/oauth2"
)

func TestBasicRouter(t *testing.T) {
	t.Run("filters methods", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handle("GET", "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/ping", nil))
		if rec.Code != http.StatusNoContent {
			t.Errorf("expected 204, got %d", rec.Code)
		}

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("POST", "/ping", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})

	t.Run("applies middleware in order", func(t *testing.T) {
		var order []string
		mw := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		router := NewBasicRouter()
		router.Use(mw("first"), mw("second"))
		router.Handle("GET", "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

		if len(order) != 2 || order[0] != "first" || order[1] != "second" {
			t.Errorf("unexpected middleware order: %v", order)
		}
	})
}

func TestOAuthHandler(t *testing.T) {
	config := &oauth2.Config{
		ClientID:    "client",
		RedirectURL: "http://127.0.0.1:8642/callback",
	}

	t.Run("rejects invalid state", func(t *testing.T) {
		handler := NewOAuthHandler(config, "youtube", "expected-state")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/callback?state=wrong&code=abc", nil))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}

		result := <-handler.Result()
		if result.Error() == nil {
			t.Error("expected error for invalid state")
		}
	})

	t.Run("reports provider errors", func(t *testing.T) {
		handler := NewOAuthHandler(config, "youtube", "state")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/callback?state=state&error=access_denied", nil))

		result := <-handler.Result()
		if result.Error() == nil || !strings.Contains(result.Error().Error(), "access_denied") {
			t.Errorf("expected access_denied error, got %v", result.Error())
		}
	})

	t.Run("exchanges code for token", func(t *testing.T) {
		provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"access_token": "ya29.token", "token_type": "Bearer"}`))
		}))
		defer provider.Close()

		exchangeConfig := &oauth2.Config{
			ClientID: "client",
			Endpoint: oauth2.Endpoint{TokenURL: provider.URL},
		}
		handler := NewOAuthHandler(exchangeConfig, "youtube", "state")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/callback?state=state&code=auth-code", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		result := <-handler.Result()
		if result.Error() != nil {
			t.Fatalf("unexpected error: %v", result.Error())
		}
		if result.Token.AccessToken != "ya29.token" {
			t.Errorf("unexpected token: %s", result.Token.AccessToken)
		}
	})

	t.Run("rejects replayed callbacks", func(t *testing.T) {
		handler := NewOAuthHandler(config, "youtube", "state")

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/callback?state=wrong", nil))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/callback?state=wrong", nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400 on replay, got %d", rec.Code)
		}
	})
}

func TestPingHandler(t *testing.T) {
	t.Run("delivers status", func(t *testing.T) {
		handler := NewPingHandler("tiktok", "state")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/connected?state=state&status=connected", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		result := <-handler.Result()
		if result.Error() != nil {
			t.Fatalf("unexpected error: %v", result.Error())
		}
		if result.Status != "connected" {
			t.Errorf("unexpected status: %s", result.Status)
		}
	})

	t.Run("rejects invalid state", func(t *testing.T) {
		handler := NewPingHandler("tiktok", "state")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/connected?state=wrong", nil))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
		if result := <-handler.Result(); result.Error() == nil {
			t.Error("expected error for invalid state")
		}
	})

	t.Run("reports backend errors", func(t *testing.T) {
		handler := NewPingHandler("instagram", "state")

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/connected?state=state&error=token_exchange_failed", nil))

		result := <-handler.Result()
		if result.Error() == nil || !strings.Contains(result.Error().Error(), "token_exchange_failed") {
			t.Errorf("expected backend error, got %v", result.Error())
		}
	})
}
