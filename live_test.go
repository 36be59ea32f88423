package threadposter_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	threadposter "github.com/masa-finance/masa-thread-poster"
	"github.com/masa-finance/masa-thread-poster/auth"
	"github.com/masa-finance/masa-thread-poster/httpwrap"
	"github.com/sirupsen/logrus"
)

var (
	skipAuthTest bool
	sources      []auth.Source
)

func init() {
	logrus.SetLevel(logrus.DebugLevel)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	if err := godotenv.Load(); err != nil {
		logrus.WithError(err).Warn("Error loading .env file")
	}
	skipAuthTest = os.Getenv("SKIP_AUTH_TEST") != ""
	env := auth.EnvSource(os.Environ())
	sources = []auth.Source{env, auth.AliasSource("environment (TWITTER_*)", env, auth.TwitterAliases)}

	logrus.WithField("skipAuthTest", skipAuthTest).Info("Environment variables loaded")
}

// Verifies the configured accounts without posting anything.
func TestLiveVerifyX(t *testing.T) {
	if skipAuthTest {
		t.Skip("Skipping test due to environment variable")
	}
	creds, err := auth.XOAuth1.Resolve(sources...)
	if err != nil {
		t.Skipf("no X credentials: %v", err)
	}

	x := threadposter.NewOAuth1XClient(httpwrap.NewClient(), threadposter.DefaultXAPIURL, auth.OAuth1FromCredentials(creds))
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	me, err := x.Me(ctx)
	if err != nil {
		t.Fatalf("Me() error = %v", err)
	}
	t.Logf("Authenticated as @%s", me.Data.Username)
}

func TestLiveVerifyLinkedIn(t *testing.T) {
	if skipAuthTest {
		t.Skip("Skipping test due to environment variable")
	}
	creds, err := auth.LinkedInPost.Resolve(sources...)
	if err != nil {
		t.Skipf("no LinkedIn credentials: %v", err)
	}

	li := threadposter.NewLinkedInClient(httpwrap.NewClient(), threadposter.DefaultLinkedInAPIURL, creds.Get(auth.LinkedInAccessToken), creds.Get(auth.LinkedInPersonID))
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	info, err := li.UserInfo(ctx)
	if err != nil {
		t.Fatalf("UserInfo() error = %v", err)
	}
	t.Logf("Authenticated as %s (%s)", info.Name, info.Sub)
}
