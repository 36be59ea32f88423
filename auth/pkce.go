package auth

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
)

// Default OAuth 2.0 endpoints.
var (
	XOAuth2Endpoint = oauth2.Endpoint{
		AuthURL:   "https://x.com/i/oauth2/authorize",
		TokenURL:  "https://api.x.com/2/oauth2/token",
		AuthStyle: oauth2.AuthStyleInHeader,
	}
	LinkedInOAuth2Endpoint = oauth2.Endpoint{
		AuthURL:   "https://www.linkedin.com/oauth/v2/authorization",
		TokenURL:  "https://www.linkedin.com/oauth/v2/accessToken",
		AuthStyle: oauth2.AuthStyleInParams,
	}
)

// XScopes allow posting and, through offline.access, a refresh token.
var XScopes = []string{"tweet.read", "tweet.write", "users.read", "offline.access"}

// PKCEFlow is one authorization-code exchange protected by an S256 code
// challenge. Verifier and State are generated once per flow.
type PKCEFlow struct {
	Config   *oauth2.Config
	Verifier string
	State    string
}

// NewPKCEFlow prepares a flow. A public client (empty secret) sends its id
// in the request body instead of Basic auth.
func NewPKCEFlow(clientID, clientSecret, redirectURL string, endpoint oauth2.Endpoint, scopes []string) *PKCEFlow {
	if clientSecret == "" {
		endpoint.AuthStyle = oauth2.AuthStyleInParams
	}
	return &PKCEFlow{
		Config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     endpoint,
			Scopes:       scopes,
		},
		Verifier: oauth2.GenerateVerifier(),
		// same 32 bytes of entropy as the verifier, URL safe
		State: oauth2.GenerateVerifier(),
	}
}

// AuthCodeURL is the URL the user opens to grant access.
func (f *PKCEFlow) AuthCodeURL() string {
	return f.Config.AuthCodeURL(f.State, oauth2.S256ChallengeOption(f.Verifier))
}

// Exchange trades the authorization code for tokens, proving possession of
// the verifier. The HTTP client may be supplied through ctx with
// oauth2.HTTPClient.
func (f *PKCEFlow) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := f.Config.Exchange(ctx, code, oauth2.VerifierOption(f.Verifier))
	if err != nil {
		return nil, fmt.Errorf("token exchange: %w", err)
	}
	return token, nil
}

// RefreshConfig builds the config used for the refresh_token grant.
func RefreshConfig(clientID, clientSecret string, endpoint oauth2.Endpoint) *oauth2.Config {
	if clientSecret == "" {
		endpoint.AuthStyle = oauth2.AuthStyleInParams
	}
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     endpoint,
	}
}

// RefreshToken redeems refreshToken for a new access token. Servers that
// rotate refresh tokens return the new one in the result.
func RefreshToken(ctx context.Context, config *oauth2.Config, refreshToken string) (*oauth2.Token, error) {
	token, err := config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return nil, fmt.Errorf("refresh token: %w", err)
	}
	return token, nil
}
