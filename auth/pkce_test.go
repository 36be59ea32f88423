package auth

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"golang.org/x/oauth2"
)

func TestPKCEAuthCodeURL(t *testing.T) {
	flow := NewPKCEFlow("client", "secret", "http://localhost:8081/callback", XOAuth2Endpoint, XScopes)
	if flow.Verifier == "" || flow.State == "" || flow.Verifier == flow.State {
		t.Fatalf("verifier %q / state %q", flow.Verifier, flow.State)
	}

	u, err := url.Parse(flow.AuthCodeURL())
	if err != nil {
		t.Fatal(err)
	}
	q := u.Query()
	sum := sha256.Sum256([]byte(flow.Verifier))
	wantChallenge := base64.RawURLEncoding.EncodeToString(sum[:])

	checks := map[string]string{
		"response_type":         "code",
		"client_id":             "client",
		"redirect_uri":          "http://localhost:8081/callback",
		"scope":                 "tweet.read tweet.write users.read offline.access",
		"state":                 flow.State,
		"code_challenge":        wantChallenge,
		"code_challenge_method": "S256",
	}
	for key, want := range checks {
		if got := q.Get(key); got != want {
			t.Errorf("%s = %q, want %q", key, got, want)
		}
	}
	if u.Host != "x.com" {
		t.Errorf("host = %q", u.Host)
	}
}

func TestPKCEExchange(t *testing.T) {
	flow := NewPKCEFlow("client", "secret", "http://localhost:8081/callback", XOAuth2Endpoint, XScopes)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "client" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.PostForm.Get("grant_type") != "authorization_code" ||
			r.PostForm.Get("code") != "the-code" ||
			r.PostForm.Get("code_verifier") != flow.Verifier {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"access","refresh_token":"refresh","token_type":"bearer","expires_in":7200}`))
	}))
	defer server.Close()
	flow.Config.Endpoint.TokenURL = server.URL

	token, err := flow.Exchange(context.Background(), "the-code")
	if err != nil {
		t.Fatalf("Exchange() error = %v", err)
	}
	if token.AccessToken != "access" || token.RefreshToken != "refresh" {
		t.Errorf("token = %+v", token)
	}
}

func TestRefreshTokenPublicClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if _, _, ok := r.BasicAuth(); ok {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if r.PostForm.Get("grant_type") != "refresh_token" ||
			r.PostForm.Get("refresh_token") != "old-refresh" ||
			r.PostForm.Get("client_id") != "client" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"new-access","refresh_token":"new-refresh","token_type":"bearer","expires_in":7200}`))
	}))
	defer server.Close()

	endpoint := XOAuth2Endpoint
	endpoint.TokenURL = server.URL
	config := RefreshConfig("client", "", endpoint)

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, server.Client())
	token, err := RefreshToken(ctx, config, "old-refresh")
	if err != nil {
		t.Fatalf("RefreshToken() error = %v", err)
	}
	if token.AccessToken != "new-access" || token.RefreshToken != "new-refresh" {
		t.Errorf("token = %+v", token)
	}
}

func TestRefreshTokenRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_request"}`))
	}))
	defer server.Close()

	endpoint := LinkedInOAuth2Endpoint
	endpoint.TokenURL = server.URL
	if _, err := RefreshToken(context.Background(), RefreshConfig("id", "secret", endpoint), "r"); err == nil {
		t.Fatal("expected error")
	}
}
