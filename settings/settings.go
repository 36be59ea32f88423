// Package settings loads contentnuke configuration from contentnuke.yaml,
// CONTENT_NUKE_* environment variables and command-line flags, in increasing
// order of precedence.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	threadposter "github.com/masa-finance/masa-thread-poster"
	"github.com/masa-finance/masa-thread-poster/auth"
)

const (
	EnvPrefix  = "CONTENT_NUKE"
	ConfigName = "contentnuke"
)

// Configuration keys.
const (
	KeyEnvFile           = "env_file"
	KeyPacing            = "pacing"
	KeyHTTPTimeout       = "http.timeout"
	KeyHTTPProxy         = "http.proxy"
	KeyXAPIURL           = "x.api_url"
	KeyXAuthURL          = "x.auth_url"
	KeyXTokenURL         = "x.token_url"
	KeyXRequestTokenURL  = "x.oauth1.request_token_url"
	KeyXAuthorizeURL     = "x.oauth1.authorize_url"
	KeyXAccessTokenURL   = "x.oauth1.access_token_url"
	KeyLinkedInAPIURL    = "linkedin.api_url"
	KeyLinkedInTokenURL  = "linkedin.token_url"
	KeyOAuth2RedirectURL = "oauth2.redirect_url"
	KeyOAuth2Timeout     = "oauth2.timeout"
	KeyHistoryPath       = "history.path"
	KeyLogLevel          = "log.level"
	KeyLogFormat         = "log.format"
	KeyRefreshSchedule   = "refresh.schedule"
)

var defaults = map[string]any{
	KeyEnvFile:           ".env",
	KeyPacing:            threadposter.DefaultPacing,
	KeyHTTPTimeout:       10 * time.Second,
	KeyHTTPProxy:         "",
	KeyXAPIURL:           threadposter.DefaultXAPIURL,
	KeyXAuthURL:          auth.XOAuth2Endpoint.AuthURL,
	KeyXTokenURL:         auth.XOAuth2Endpoint.TokenURL,
	KeyXRequestTokenURL:  auth.DefaultOAuth1Endpoint.RequestTokenURL,
	KeyXAuthorizeURL:     auth.DefaultOAuth1Endpoint.AuthorizeURL,
	KeyXAccessTokenURL:   auth.DefaultOAuth1Endpoint.AccessTokenURL,
	KeyLinkedInAPIURL:    threadposter.DefaultLinkedInAPIURL,
	KeyLinkedInTokenURL:  auth.LinkedInOAuth2Endpoint.TokenURL,
	KeyOAuth2RedirectURL: "http://localhost:8081/callback",
	KeyOAuth2Timeout:     5 * time.Minute,
	KeyHistoryPath:       "",
	KeyLogLevel:          "info",
	KeyLogFormat:         "text",
	KeyRefreshSchedule:   "",
}

// Settings is the resolved configuration.
type Settings struct {
	EnvFile     string
	Pacing      time.Duration
	HTTPTimeout time.Duration
	HTTPProxy   string

	XAPIURL          string
	XAuthURL         string
	XTokenURL        string
	XRequestTokenURL string
	XAuthorizeURL    string
	XAccessTokenURL  string

	LinkedInAPIURL   string
	LinkedInTokenURL string

	OAuth2RedirectURL string
	OAuth2Timeout     time.Duration

	HistoryPath     string
	LogLevel        string
	LogFormat       string
	RefreshSchedule string
}

// New returns a viper instance with defaults, config search paths and
// environment overrides set up. Nothing is read yet.
func New() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetConfigName(ConfigName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, ConfigName))
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Flags declares the global command-line flags.
func Flags() *pflag.FlagSet {
	fs := pflag.NewFlagSet(ConfigName, pflag.ContinueOnError)
	fs.String("config", "", "config file (default ./contentnuke.yaml)")
	fs.String("env-file", "", "credentials .env file")
	fs.Duration(KeyPacing, 0, "pause between posts of a thread")
	fs.String("proxy", "", "http:// or socks5:// proxy")
	fs.String("history", "", "SQLite publish history path (empty disables)")
	fs.String("log-level", "", "debug, info, warn or error")
	fs.String("log-format", "", "text or json")
	return fs
}

// flagKeys maps flag names that differ from their configuration key.
var flagKeys = map[string]string{
	"env-file":   KeyEnvFile,
	"proxy":      KeyHTTPProxy,
	"history":    KeyHistoryPath,
	"log-level":  KeyLogLevel,
	"log-format": KeyLogFormat,
}

// BindFlags makes flags that were set on the command line override the
// configuration.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" || err != nil {
			return
		}
		key := f.Name
		if mapped, ok := flagKeys[f.Name]; ok {
			key = mapped
		}
		err = v.BindPFlag(key, f)
	})
	return err
}

// Load reads the config file, if any, and resolves the settings. configFile
// overrides the search paths.
func Load(v *viper.Viper, configFile string) (*Settings, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		logrus.Debug("No config file found, using defaults and environment")
	} else {
		logrus.WithField("file", v.ConfigFileUsed()).Debug("Loaded config file")
	}

	s := &Settings{
		EnvFile:           v.GetString(KeyEnvFile),
		Pacing:            v.GetDuration(KeyPacing),
		HTTPTimeout:       v.GetDuration(KeyHTTPTimeout),
		HTTPProxy:         v.GetString(KeyHTTPProxy),
		XAPIURL:           v.GetString(KeyXAPIURL),
		XAuthURL:          v.GetString(KeyXAuthURL),
		XTokenURL:         v.GetString(KeyXTokenURL),
		XRequestTokenURL:  v.GetString(KeyXRequestTokenURL),
		XAuthorizeURL:     v.GetString(KeyXAuthorizeURL),
		XAccessTokenURL:   v.GetString(KeyXAccessTokenURL),
		LinkedInAPIURL:    v.GetString(KeyLinkedInAPIURL),
		LinkedInTokenURL:  v.GetString(KeyLinkedInTokenURL),
		OAuth2RedirectURL: v.GetString(KeyOAuth2RedirectURL),
		OAuth2Timeout:     v.GetDuration(KeyOAuth2Timeout),
		HistoryPath:       v.GetString(KeyHistoryPath),
		LogLevel:          v.GetString(KeyLogLevel),
		LogFormat:         v.GetString(KeyLogFormat),
		RefreshSchedule:   v.GetString(KeyRefreshSchedule),
	}
	if s.Pacing < 0 {
		return nil, fmt.Errorf("%s must not be negative, got %s", KeyPacing, s.Pacing)
	}
	if s.HTTPTimeout <= 0 {
		return nil, fmt.Errorf("%s must be positive, got %s", KeyHTTPTimeout, s.HTTPTimeout)
	}
	return s, nil
}

// ConfigureLogging applies the log settings to the standard logrus logger.
func (s *Settings) ConfigureLogging() error {
	level, err := logrus.ParseLevel(s.LogLevel)
	if err != nil {
		return err
	}
	logrus.SetLevel(level)

	switch strings.ToLower(s.LogFormat) {
	case "", "text":
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("unknown log format %q", s.LogFormat)
	}
	return nil
}
