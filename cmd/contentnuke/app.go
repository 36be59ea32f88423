package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dghubble/oauth1"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"golang.org/x/oauth2"

	threadposter "github.com/masa-finance/masa-thread-poster"
	"github.com/masa-finance/masa-thread-poster/auth"
	"github.com/masa-finance/masa-thread-poster/history"
	"github.com/masa-finance/masa-thread-poster/httpwrap"
	"github.com/masa-finance/masa-thread-poster/settings"
)

// app holds what every command needs once flags and configuration are read.
type app struct {
	settings *settings.Settings
	sources  []auth.Source
	history  *history.Store
}

func globalFlagUsage() string {
	return settings.Flags().FlagUsages()
}

// newFlagSet returns the global flags; commands add their own before calling
// newApp.
func newFlagSet(name string) *pflag.FlagSet {
	fs := settings.Flags()
	fs.Init(name, pflag.ContinueOnError)
	return fs
}

func newApp(fs *pflag.FlagSet, args []string) (*app, error) {
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	v := settings.New()
	if err := settings.BindFlags(v, fs); err != nil {
		return nil, err
	}
	configFile, _ := fs.GetString("config")
	s, err := settings.Load(v, configFile)
	if err != nil {
		return nil, err
	}
	if err := s.ConfigureLogging(); err != nil {
		return nil, err
	}

	envFile, err := auth.FileSource(s.EnvFile)
	if err != nil {
		return nil, err
	}
	env := auth.EnvSource(os.Environ())
	a := &app{
		settings: s,
		sources: []auth.Source{
			envFile,
			env,
			auth.AliasSource("environment (TWITTER_*)", env, auth.TwitterAliases),
		},
	}

	if s.HistoryPath != "" {
		store, err := history.Open(s.HistoryPath)
		if err != nil {
			return nil, err
		}
		a.history = store
	}
	return a, nil
}

func (a *app) Close() {
	if a.history == nil {
		return
	}
	if err := a.history.Close(); err != nil {
		logrus.WithError(err).Warn("Closing history")
	}
}

// httpClient returns a fresh client; clients are not shared because the
// authenticated ones replace their transport.
func (a *app) httpClient() (*httpwrap.Client, error) {
	client := httpwrap.NewClient().WithTimeout(a.settings.HTTPTimeout)
	if a.settings.HTTPProxy != "" {
		if err := client.SetProxy(a.settings.HTTPProxy); err != nil {
			return nil, err
		}
	}
	return client, nil
}

// oauth2Context makes golang.org/x/oauth2 use the configured client.
func (a *app) oauth2Context(ctx context.Context) (context.Context, error) {
	client, err := a.httpClient()
	if err != nil {
		return nil, err
	}
	return context.WithValue(ctx, oauth2.HTTPClient, client.HTTPClient()), nil
}

func (a *app) publisher(platform string, creator threadposter.Creator) *threadposter.Publisher {
	p := threadposter.NewPublisher(platform, creator).WithPacing(a.settings.Pacing)
	if a.history != nil {
		p.WithRecorder(a.history)
	}
	return p
}

func (a *app) xOAuth1Endpoint() oauth1.Endpoint {
	return oauth1.Endpoint{
		RequestTokenURL: a.settings.XRequestTokenURL,
		AuthorizeURL:    a.settings.XAuthorizeURL,
		AccessTokenURL:  a.settings.XAccessTokenURL,
	}
}

func (a *app) xOAuth2Endpoint() oauth2.Endpoint {
	endpoint := auth.XOAuth2Endpoint
	endpoint.AuthURL = a.settings.XAuthURL
	endpoint.TokenURL = a.settings.XTokenURL
	return endpoint
}

func (a *app) linkedInOAuth2Endpoint() oauth2.Endpoint {
	endpoint := auth.LinkedInOAuth2Endpoint
	endpoint.TokenURL = a.settings.LinkedInTokenURL
	return endpoint
}

func (a *app) oauth1XClient() (*threadposter.XClient, error) {
	creds, err := auth.XOAuth1.Resolve(a.sources...)
	if err != nil {
		return nil, err
	}
	logrus.WithField("source", creds.Source).Debug("Using X OAuth 1.0a credentials")
	client, err := a.httpClient()
	if err != nil {
		return nil, err
	}
	return threadposter.NewOAuth1XClient(client, a.settings.XAPIURL, auth.OAuth1FromCredentials(creds)), nil
}

func (a *app) bearerXClient(accessToken string) (*threadposter.XClient, error) {
	client, err := a.httpClient()
	if err != nil {
		return nil, err
	}
	return threadposter.NewBearerXClient(client, a.settings.XAPIURL, accessToken), nil
}

func (a *app) oauth2XClient() (*threadposter.XClient, error) {
	creds, err := auth.XOAuth2.Resolve(a.sources...)
	if err != nil {
		return nil, err
	}
	logrus.WithField("source", creds.Source).Debug("Using X OAuth 2.0 token")
	return a.bearerXClient(creds.Get(auth.XOAuth2AccessToken))
}

func (a *app) linkedInClient() (*threadposter.LinkedInClient, error) {
	creds, err := auth.LinkedInPost.Resolve(a.sources...)
	if err != nil {
		return nil, err
	}
	client, err := a.httpClient()
	if err != nil {
		return nil, err
	}
	return threadposter.NewLinkedInClient(client, a.settings.LinkedInAPIURL,
		creds.Get(auth.LinkedInAccessToken), creds.Get(auth.LinkedInPersonID)), nil
}

func usageError(format string, args ...any) error {
	return fmt.Errorf("usage: contentnuke "+format, args...)
}
