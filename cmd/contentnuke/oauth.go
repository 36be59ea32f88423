package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/browser"
	"github.com/sirupsen/logrus"

	"github.com/masa-finance/masa-thread-poster/auth"
)

func runOAuth1(ctx context.Context, args []string) error {
	fs := newFlagSet("oauth1")
	noBrowser := fs.Bool("no-browser", false, "print the authorization URL instead of opening it")
	a, err := newApp(fs, args)
	if err != nil {
		return err
	}
	defer a.Close()

	consumer, err := auth.XConsumer.Resolve(a.sources...)
	if err != nil {
		return err
	}
	flow := auth.NewOAuth1Flow(consumer.Get(auth.XAPIKey), consumer.Get(auth.XAPISecret), a.xOAuth1Endpoint())
	authURL, err := flow.Start()
	if err != nil {
		return err
	}
	openURL(authURL.String(), *noBrowser)

	fmt.Print("Enter the PIN shown after authorizing: ")
	pin, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && strings.TrimSpace(pin) == "" {
		return fmt.Errorf("reading PIN: %w", err)
	}
	creds, err := flow.Complete(pin)
	if err != nil {
		return err
	}
	if err := auth.UpdateEnvFile(a.settings.EnvFile, creds.Env()); err != nil {
		return err
	}
	fmt.Printf("✓ Saved permanent OAuth 1.0a tokens to %s\n", a.settings.EnvFile)

	// the new tokens take precedence over whatever was loaded before
	a.sources = append([]auth.Source{auth.MapSource("new tokens", creds.Env())}, a.sources...)
	return a.verifyX(ctx)
}

func runOAuth2(ctx context.Context, args []string) error {
	fs := newFlagSet("oauth2")
	noBrowser := fs.Bool("no-browser", false, "print the authorization URL instead of opening it")
	a, err := newApp(fs, args)
	if err != nil {
		return err
	}
	defer a.Close()

	client, err := auth.XOAuth2Client.Resolve(a.sources...)
	if err != nil {
		return err
	}
	flow := auth.NewPKCEFlow(client.Get(auth.XClientID), client.Get(auth.XClientSecret),
		a.settings.OAuth2RedirectURL, a.xOAuth2Endpoint(), auth.XScopes)

	listener, err := auth.NewCallbackListener(a.settings.OAuth2RedirectURL, flow.State)
	if err != nil {
		return err
	}
	if err := listener.Start(); err != nil {
		return err
	}
	openURL(flow.AuthCodeURL(), *noBrowser)

	fmt.Printf("Waiting up to %s for the authorization callback...\n", a.settings.OAuth2Timeout)
	code, err := listener.Wait(ctx, a.settings.OAuth2Timeout)
	if err != nil {
		return err
	}

	exchangeCtx, err := a.oauth2Context(ctx)
	if err != nil {
		return err
	}
	token, err := flow.Exchange(exchangeCtx, code)
	if err != nil {
		return err
	}
	if err := auth.SaveToken(a.settings.EnvFile, auth.XOAuth2Keys, token); err != nil {
		return err
	}
	fmt.Printf("✓ Saved OAuth 2.0 tokens to %s (access token expires %s)\n",
		a.settings.EnvFile, token.Expiry.Format("2006-01-02 15:04"))
	if token.RefreshToken == "" {
		fmt.Println("  No refresh token was issued; request the offline.access scope to enable refresh.")
	}
	return nil
}

func openURL(u string, noBrowser bool) {
	fmt.Printf("Authorize the app at:\n  %s\n", u)
	if noBrowser {
		return
	}
	if err := browser.OpenURL(u); err != nil {
		logrus.WithError(err).Warn("Could not open a browser, open the URL manually")
	}
}
