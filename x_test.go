package threadposter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/masa-finance/masa-thread-poster/auth"
	"github.com/masa-finance/masa-thread-poster/httpwrap"
	"github.com/masa-finance/masa-thread-poster/types"
)

// Mock HTTP server to simulate the X API v2
func mockXServer(t *testing.T, requests *[]types.CreateTweetRequest, authHeaders *[]string) *httptest.Server {
	t.Helper()
	handler := http.NewServeMux()
	handler.HandleFunc("/2/tweets", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		*authHeaders = append(*authHeaders, r.Header.Get("Authorization"))
		var req types.CreateTweetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		*requests = append(*requests, req)
		if req.Text == "unauthorized" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"title":"Unauthorized","status":401}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"1800000000000000000","text":"` + req.Text + `"}}`))
	})
	handler.HandleFunc("/2/users/me", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"id":"42","name":"Content Nuke","username":"contentnuke"}}`))
	})
	return httptest.NewServer(handler)
}

func TestXClientCreatePost(t *testing.T) {
	var requests []types.CreateTweetRequest
	var headers []string
	server := mockXServer(t, &requests, &headers)
	defer server.Close()

	x := NewBearerXClient(httpwrap.NewClient(), server.URL+"/", "user-token")

	id, err := x.CreatePost(context.Background(), "hello", "")
	if err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}
	if id != "1800000000000000000" {
		t.Errorf("CreatePost() id = %q", id)
	}
	if _, err := x.CreatePost(context.Background(), "reply", id); err != nil {
		t.Fatalf("CreatePost() reply error = %v", err)
	}

	want := []types.CreateTweetRequest{
		{Text: "hello"},
		{Text: "reply", Reply: &types.TweetReply{InReplyToTweetID: "1800000000000000000"}},
	}
	if diff := cmp.Diff(want, requests); diff != "" {
		t.Errorf("requests mismatch (-want +got):\n%s", diff)
	}
	for _, h := range headers {
		if h != "Bearer user-token" {
			t.Errorf("Authorization = %q, want bearer token", h)
		}
	}
}

func TestXClientCreatePostUnauthorized(t *testing.T) {
	var requests []types.CreateTweetRequest
	var headers []string
	server := mockXServer(t, &requests, &headers)
	defer server.Close()

	x := NewBearerXClient(httpwrap.NewClient(), server.URL, "expired")
	_, err := x.CreatePost(context.Background(), "unauthorized", "")
	if !IsAuthRejected(err) {
		t.Fatalf("CreatePost() error = %v, want auth rejection", err)
	}
	var httpErr httpwrap.HTTPError
	if !errors.As(err, &httpErr) || !strings.Contains(string(httpErr.Body), "Unauthorized") {
		t.Errorf("error body = %q", httpErr.Body)
	}
}

func TestXClientOAuth1Signs(t *testing.T) {
	var requests []types.CreateTweetRequest
	var headers []string
	server := mockXServer(t, &requests, &headers)
	defer server.Close()

	creds := auth.OAuth1Credentials{ConsumerKey: "ck", ConsumerSecret: "cs", AccessToken: "at", AccessSecret: "as"}
	x := NewOAuth1XClient(httpwrap.NewClient(), server.URL, creds)
	if _, err := x.CreatePost(context.Background(), "signed", ""); err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}
	if len(headers) != 1 {
		t.Fatalf("got %d requests, want 1", len(headers))
	}
	for _, part := range []string{"OAuth ", `oauth_consumer_key="ck"`, `oauth_token="at"`, `oauth_signature_method="HMAC-SHA1"`} {
		if !strings.Contains(headers[0], part) {
			t.Errorf("Authorization %q does not contain %q", headers[0], part)
		}
	}
}

func TestXClientMe(t *testing.T) {
	var requests []types.CreateTweetRequest
	var headers []string
	server := mockXServer(t, &requests, &headers)
	defer server.Close()

	me, err := NewBearerXClient(httpwrap.NewClient(), server.URL, "token").Me(context.Background())
	if err != nil {
		t.Fatalf("Me() error = %v", err)
	}
	if me.Data.Username != "contentnuke" {
		t.Errorf("Me() username = %q", me.Data.Username)
	}
}

func TestXClientMissingID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"errors":[{"message":"something odd"}]}`))
	}))
	defer server.Close()

	_, err := NewBearerXClient(httpwrap.NewClient(), server.URL, "token").CreatePost(context.Background(), "x", "")
	if err == nil || !strings.Contains(err.Error(), "something odd") {
		t.Errorf("CreatePost() error = %v", err)
	}
}

func TestPostURL(t *testing.T) {
	if got := PostURL("123"); got != "https://twitter.com/i/web/status/123" {
		t.Errorf("PostURL() = %q", got)
	}
}
