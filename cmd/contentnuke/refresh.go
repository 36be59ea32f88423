package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/masa-finance/masa-thread-poster/auth"
)

func runRefresh(ctx context.Context, args []string) error {
	fs := newFlagSet("refresh")
	schedule := fs.String("schedule", "", `cron spec to keep refreshing until interrupted, e.g. "@every 90m"`)
	a, err := newApp(fs, args)
	if err != nil {
		return err
	}
	defer a.Close()

	target := "check"
	if fs.NArg() > 0 {
		target = fs.Arg(0)
	}
	var job func(ctx context.Context) error
	switch target {
	case "x":
		job = func(ctx context.Context) error {
			_, err := a.refreshX(ctx)
			return err
		}
	case "linkedin":
		job = func(ctx context.Context) error {
			_, err := a.refreshLinkedIn(ctx)
			return err
		}
	case "check":
		job = a.refreshAll
	default:
		return usageError("refresh [x|linkedin|check] [--schedule spec]")
	}

	spec := *schedule
	if spec == "" {
		spec = a.settings.RefreshSchedule
	}
	if spec == "" {
		return job(ctx)
	}
	return runScheduled(ctx, "refresh "+target, spec, job)
}

// runScheduled runs job once now and then on spec until ctx is cancelled.
func runScheduled(ctx context.Context, name, spec string, job func(context.Context) error) error {
	run := func() {
		start := time.Now()
		log := logrus.WithField("job", name)
		if err := job(ctx); err != nil {
			log.WithError(err).Error("Scheduled job failed")
			return
		}
		log.WithField("took", time.Since(start)).Info("Scheduled job completed")
	}

	c := cron.New(cron.WithLogger(cron.PrintfLogger(logrus.StandardLogger())))
	if _, err := c.AddFunc(spec, run); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	run()
	c.Start()
	logrus.WithFields(logrus.Fields{"job": name, "schedule": spec}).Info("Scheduler started")

	<-ctx.Done()
	<-c.Stop().Done()
	logrus.WithField("job", name).Info("Scheduler stopped")
	return nil
}

func (a *app) refreshAll(ctx context.Context) error {
	_, xErr := a.refreshX(ctx)
	_, liErr := a.refreshLinkedIn(ctx)
	var cfgErr *auth.ConfigurationError
	if errors.As(liErr, &cfgErr) {
		logrus.Info("LinkedIn refresh not configured, skipping")
		liErr = nil
	}
	return errors.Join(xErr, liErr)
}

// refreshX redeems the stored X refresh token and writes the new pair back.
// When only the write fails, the new token is returned along with the error.
func (a *app) refreshX(ctx context.Context) (*oauth2.Token, error) {
	return a.refresh(ctx, auth.XOAuth2Refresh, auth.XClientID, auth.XClientSecret, a.xOAuth2Endpoint(), auth.XOAuth2Keys)
}

func (a *app) refreshLinkedIn(ctx context.Context) (*oauth2.Token, error) {
	return a.refresh(ctx, auth.LinkedInRefresh, auth.LinkedInClientID, auth.LinkedInClientSecret, a.linkedInOAuth2Endpoint(), auth.LinkedInKeys)
}

func (a *app) refresh(ctx context.Context, req auth.Requirement, idKey, secretKey string, endpoint oauth2.Endpoint, keys auth.TokenKeys) (*oauth2.Token, error) {
	creds, err := req.Resolve(a.sources...)
	if err != nil {
		return nil, err
	}
	ctx, err = a.oauth2Context(ctx)
	if err != nil {
		return nil, err
	}

	config := auth.RefreshConfig(creds.Get(idKey), creds.Get(secretKey), endpoint)
	token, err := auth.RefreshToken(ctx, config, creds.Get(keys.Refresh))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", req.Name, err)
	}
	// the grant may have rotated the refresh token, so the token is kept even
	// when it cannot be stored
	saveErr := auth.SaveToken(a.settings.EnvFile, keys, token)

	// later refreshes in this process must use the rotated refresh token
	updated := map[string]string{keys.Access: token.AccessToken}
	if token.RefreshToken != "" {
		updated[keys.Refresh] = token.RefreshToken
	}
	a.sources = append([]auth.Source{auth.MapSource("refreshed tokens", mergeValues(creds.Values, updated))}, a.sources...)

	logrus.WithFields(logrus.Fields{
		"credentials": req.Name,
		"expiry":      token.Expiry,
	}).Info("Refreshed access token")

	if saveErr != nil {
		logrus.WithError(saveErr).WithField("credentials", req.Name).Error("Refreshed token could not be saved")
		fmt.Printf("✗ %s: could not save the new tokens to %s; store them manually:\n", req.Name, a.settings.EnvFile)
		fmt.Printf("  %s=%s\n", keys.Access, token.AccessToken)
		if token.RefreshToken != "" {
			fmt.Printf("  %s=%s\n", keys.Refresh, token.RefreshToken)
		}
		return token, fmt.Errorf("%s: saving refreshed token: %w", req.Name, saveErr)
	}
	fmt.Printf("✓ %s: new access token saved to %s\n", req.Name, a.settings.EnvFile)
	return token, nil
}

func mergeValues(base, updates map[string]string) map[string]string {
	merged := make(map[string]string, len(base)+len(updates))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range updates {
		merged[k] = v
	}
	return merged
}
