package verification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func tokenServer(t *testing.T, hits *int, status int, token string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hits++
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm: %v", err)
		}
		if got := r.Form.Get("grant_type"); got != "client_credentials" {
			t.Errorf("grant_type = %q", got)
		}
		if got := r.Form.Get("client_id"); got != "cid" {
			t.Errorf("client_id = %q", got)
		}
		w.WriteHeader(status)
		if status == http.StatusOK {
			json.NewEncoder(w).Encode(tokenResponse{AccessToken: token, TokenType: "Bearer", ExpiresIn: 3600})
		}
	}))
}

func TestTokenManager(t *testing.T) {
	ctx := context.Background()

	t.Run("RefreshesOnceThenReuses", func(t *testing.T) {
		var hits int
		srv := tokenServer(t, &hits, http.StatusOK, "tok-1")
		defer srv.Close()

		m := &TokenManager{TokenURL: srv.URL, ClientID: "cid", ClientSecret: "secret"}
		for i := 0; i < 3; i++ {
			tok, err := m.Token(ctx)
			if err != nil {
				t.Fatalf("Token: %v", err)
			}
			if tok != "tok-1" {
				t.Fatalf("token = %q", tok)
			}
		}
		if hits != 1 {
			t.Errorf("token endpoint hit %d times, want 1", hits)
		}
	})

	t.Run("InvalidateForcesRefresh", func(t *testing.T) {
		var hits int
		srv := tokenServer(t, &hits, http.StatusOK, "tok-1")
		defer srv.Close()

		m := &TokenManager{TokenURL: srv.URL, ClientID: "cid", ClientSecret: "secret"}
		if _, err := m.Token(ctx); err != nil {
			t.Fatalf("Token: %v", err)
		}
		m.Invalidate(ctx)
		if _, err := m.Token(ctx); err != nil {
			t.Fatalf("Token after invalidate: %v", err)
		}
		if hits != 2 {
			t.Errorf("token endpoint hit %d times, want 2", hits)
		}
	})

	t.Run("UnauthorizedIsAuthenticationError", func(t *testing.T) {
		var hits int
		srv := tokenServer(t, &hits, http.StatusUnauthorized, "")
		defer srv.Close()

		m := &TokenManager{TokenURL: srv.URL, ClientID: "cid", ClientSecret: "secret"}
		_, err := m.Token(ctx)
		if !IsAuthentication(err) {
			t.Fatalf("expected AuthenticationError, got %v", err)
		}
	})

	t.Run("EmptyTokenIsAuthenticationError", func(t *testing.T) {
		var hits int
		srv := tokenServer(t, &hits, http.StatusOK, "")
		defer srv.Close()

		m := &TokenManager{TokenURL: srv.URL, ClientID: "cid", ClientSecret: "secret"}
		_, err := m.Token(ctx)
		if !IsAuthentication(err) {
			t.Fatalf("expected AuthenticationError, got %v", err)
		}
	})
}

func TestParkWhizClient(t *testing.T) {
	ctx := context.Background()

	newTokens := func(tokenURL string) *TokenManager {
		return &TokenManager{TokenURL: tokenURL, ClientID: "cid", ClientSecret: "secret"}
	}

	t.Run("QueriesWithBearerAndWindow", func(t *testing.T) {
		var hits int
		tokSrv := tokenServer(t, &hits, http.StatusOK, "tok-1")
		defer tokSrv.Close()

		apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
				t.Errorf("Authorization = %q", got)
			}
			q := r.URL.Query()
			if q.Get("customer_email") != "jane@example.com" {
				t.Errorf("customer_email = %q", q.Get("customer_email"))
			}
			if q.Get("start_date") != "2026-08-31" || q.Get("end_date") != "2026-09-03" {
				t.Errorf("window = %q..%q", q.Get("start_date"), q.Get("end_date"))
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[{"id":"PW-1","start_time":"2026-09-01T10:00:00Z","end_time":"2026-09-02T10:00:00Z","status":"confirmed","customer_email":"jane@example.com","location":{"id":"loc1","name":"Main Street Garage"},"amount":42.5}]`))
		}))
		defer apiSrv.Close()

		c := &ParkWhizClient{BaseURL: apiSrv.URL, Tokens: newTokens(tokSrv.URL)}
		bookings, err := c.SearchBookings(ctx, "jane@example.com", "2026-08-31", "2026-09-03")
		if err != nil {
			t.Fatalf("SearchBookings: %v", err)
		}
		if len(bookings) != 1 || bookings[0].ID != "PW-1" {
			t.Fatalf("bookings = %+v", bookings)
		}
		if bookings[0].Location.Name != "Main Street Garage" {
			t.Errorf("location = %+v", bookings[0].Location)
		}
	})

	t.Run("UnauthorizedInvalidatesToken", func(t *testing.T) {
		var hits int
		tokSrv := tokenServer(t, &hits, http.StatusOK, "tok-1")
		defer tokSrv.Close()

		apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer apiSrv.Close()

		tokens := newTokens(tokSrv.URL)
		c := &ParkWhizClient{BaseURL: apiSrv.URL, Tokens: tokens}
		_, err := c.SearchBookings(ctx, "jane@example.com", "", "")
		if !IsAuthentication(err) {
			t.Fatalf("expected AuthenticationError, got %v", err)
		}
		// Cached token dropped: the next lookup must refresh.
		if _, err := tokens.Token(ctx); err != nil {
			t.Fatalf("Token: %v", err)
		}
		if hits != 2 {
			t.Errorf("token endpoint hit %d times, want 2 (refresh after invalidation)", hits)
		}
	})

	t.Run("ServerErrorIsNotAuthentication", func(t *testing.T) {
		var hits int
		tokSrv := tokenServer(t, &hits, http.StatusOK, "tok-1")
		defer tokSrv.Close()

		apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer apiSrv.Close()

		c := &ParkWhizClient{BaseURL: apiSrv.URL, Tokens: newTokens(tokSrv.URL)}
		_, err := c.SearchBookings(ctx, "jane@example.com", "", "")
		if err == nil || IsAuthentication(err) || IsTimeout(err) {
			t.Fatalf("expected a plain provider error, got %v", err)
		}
	})
}
