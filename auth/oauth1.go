package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/dghubble/oauth1"
	"github.com/dghubble/oauth1/twitter"
	"github.com/sirupsen/logrus"
)

// OAuth1Credentials is a consumer key pair plus a permanent access token pair.
type OAuth1Credentials struct {
	ConsumerKey    string
	ConsumerSecret string
	AccessToken    string
	AccessSecret   string
}

// OAuth1FromCredentials picks the X_* OAuth 1.0a values out of creds.
func OAuth1FromCredentials(creds Credentials) OAuth1Credentials {
	return OAuth1Credentials{
		ConsumerKey:    creds.Get(XAPIKey),
		ConsumerSecret: creds.Get(XAPISecret),
		AccessToken:    creds.Get(XAccessToken),
		AccessSecret:   creds.Get(XAccessSecret),
	}
}

// Client returns an *http.Client that signs every request with HMAC-SHA1 in
// the Authorization header. Requests go out through base's transport, and
// base's timeout and cookie jar are kept.
func (c OAuth1Credentials) Client(base *http.Client) *http.Client {
	if base == nil {
		base = http.DefaultClient
	}
	config := oauth1.NewConfig(c.ConsumerKey, c.ConsumerSecret)
	token := oauth1.NewToken(c.AccessToken, c.AccessSecret)

	ctx := context.WithValue(context.Background(), oauth1.HTTPClient, base)
	signed := config.Client(ctx, token)
	signed.Timeout = base.Timeout
	signed.Jar = base.Jar
	return signed
}

// Env returns the variables the credentials are stored under.
func (c OAuth1Credentials) Env() map[string]string {
	return map[string]string{
		XAPIKey:       c.ConsumerKey,
		XAPISecret:    c.ConsumerSecret,
		XAccessToken:  c.AccessToken,
		XAccessSecret: c.AccessSecret,
	}
}

// DefaultOAuth1Endpoint is the PIN-based 3-legged endpoint set of X.
var DefaultOAuth1Endpoint = twitter.AuthorizeEndpoint

// OAuth1Flow walks the out-of-band (PIN) 3-legged OAuth 1.0a flow that yields
// access tokens which do not expire.
type OAuth1Flow struct {
	config        *oauth1.Config
	requestToken  string
	requestSecret string
}

// NewOAuth1Flow prepares a flow for the given consumer key pair.
func NewOAuth1Flow(consumerKey, consumerSecret string, endpoint oauth1.Endpoint) *OAuth1Flow {
	return &OAuth1Flow{
		config: &oauth1.Config{
			ConsumerKey:    consumerKey,
			ConsumerSecret: consumerSecret,
			CallbackURL:    "oob",
			Endpoint:       endpoint,
		},
	}
}

// Start obtains a request token and returns the URL the user must visit to
// authorize the app and receive a PIN.
func (f *OAuth1Flow) Start() (*url.URL, error) {
	requestToken, requestSecret, err := f.config.RequestToken()
	if err != nil {
		return nil, fmt.Errorf("request token: %w", err)
	}
	f.requestToken, f.requestSecret = requestToken, requestSecret

	logrus.WithField("request_token", requestToken).Debug("Received OAuth 1.0a request token")

	authorizationURL, err := f.config.AuthorizationURL(requestToken)
	if err != nil {
		return nil, fmt.Errorf("authorization url: %w", err)
	}
	return authorizationURL, nil
}

// Complete exchanges the PIN shown to the user for permanent access tokens.
func (f *OAuth1Flow) Complete(pin string) (OAuth1Credentials, error) {
	pin = strings.TrimSpace(pin)
	if pin == "" {
		return OAuth1Credentials{}, errors.New("PIN code is required")
	}
	if f.requestToken == "" {
		return OAuth1Credentials{}, errors.New("flow not started")
	}
	accessToken, accessSecret, err := f.config.AccessToken(f.requestToken, f.requestSecret, pin)
	if err != nil {
		return OAuth1Credentials{}, fmt.Errorf("access token: %w", err)
	}
	return OAuth1Credentials{
		ConsumerKey:    f.config.ConsumerKey,
		ConsumerSecret: f.config.ConsumerSecret,
		AccessToken:    accessToken,
		AccessSecret:   accessSecret,
	}, nil
}
