package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/masa-finance/masa-thread-poster/auth"
)

func runVerify(ctx context.Context, args []string) error {
	fs := newFlagSet("verify")
	a, err := newApp(fs, args)
	if err != nil {
		return err
	}
	defer a.Close()

	target := "all"
	if fs.NArg() > 0 {
		target = fs.Arg(0)
	}
	switch target {
	case "x":
		return a.verifyX(ctx)
	case "linkedin":
		return a.verifyLinkedIn(ctx)
	case "all":
		xErr := a.verifyX(ctx)
		liErr := a.verifyLinkedIn(ctx)
		var cfgErr *auth.ConfigurationError
		if errors.As(liErr, &cfgErr) {
			logrus.WithError(liErr).Info("LinkedIn not configured, skipping")
			liErr = nil
		}
		return errors.Join(xErr, liErr)
	default:
		return usageError("verify [x|linkedin|all]")
	}
}

func (a *app) verifyX(ctx context.Context) error {
	x, err := a.oauth1XClient()
	if err != nil {
		return err
	}
	me, err := x.Me(ctx)
	if err != nil {
		return fmt.Errorf("x: %w", err)
	}
	fmt.Printf("✓ X: authenticated as @%s (%s)\n", me.Data.Username, me.Data.Name)
	return nil
}

func (a *app) verifyLinkedIn(ctx context.Context) error {
	li, err := a.linkedInClient()
	if err != nil {
		return err
	}
	info, err := li.UserInfo(ctx)
	if err != nil {
		return fmt.Errorf("linkedin: %w", err)
	}
	fmt.Printf("✓ LinkedIn: authenticated as %s (urn:li:person:%s)\n", info.Name, info.Sub)
	return nil
}
