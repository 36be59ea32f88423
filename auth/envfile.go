package auth

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

// TokenKeys names the variables an OAuth 2.0 token pair is stored under.
type TokenKeys struct {
	Access  string
	Refresh string
}

var (
	XOAuth2Keys  = TokenKeys{Access: XOAuth2AccessToken, Refresh: XOAuth2RefreshToken}
	LinkedInKeys = TokenKeys{Access: LinkedInAccessToken, Refresh: LinkedInRefreshToken}
	envFileMode  = os.FileMode(0o600)
)

// UpdateEnvFile sets the given keys in the .env file at path, creating it if
// needed. Other keys are kept; comments and ordering are not.
func UpdateEnvFile(path string, updates map[string]string) error {
	if path == "" {
		return errors.New("no env file configured")
	}
	env, err := godotenv.Read(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		env = map[string]string{}
	}
	for k, v := range updates {
		env[k] = v
	}
	if err := godotenv.Write(env, path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Chmod(path, envFileMode); err != nil {
		logrus.WithError(err).WithField("path", path).Warn("Could not restrict env file permissions")
	}

	keys := make([]string, 0, len(updates))
	for k := range updates {
		keys = append(keys, k)
	}
	logrus.WithFields(logrus.Fields{
		"path": path,
		"keys": keys,
	}).Info("Updated env file")
	return nil
}

// SaveToken stores an OAuth 2.0 token pair. The refresh token is only written
// when the server returned one.
func SaveToken(path string, keys TokenKeys, token *oauth2.Token) error {
	if token == nil || token.AccessToken == "" {
		return errors.New("no access token received")
	}
	updates := map[string]string{keys.Access: token.AccessToken}
	if token.RefreshToken != "" && keys.Refresh != "" {
		updates[keys.Refresh] = token.RefreshToken
	}
	return UpdateEnvFile(path, updates)
}
