package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	threadposter "github.com/masa-finance/masa-thread-poster"
)

// readInput returns the posts for arg: the parsed thread when arg names a
// file, otherwise arg itself as a single post.
func readInput(arg string) (units []threadposter.PostUnit, path string, err error) {
	if info, statErr := os.Stat(arg); statErr == nil && info.Mode().IsRegular() {
		doc, err := os.ReadFile(arg)
		if err != nil {
			return nil, "", err
		}
		units = threadposter.ParseThread(string(doc))
		if len(units) == 0 {
			return nil, arg, fmt.Errorf("%s: %w", arg, threadposter.ErrEmptyThread)
		}
		return units, arg, nil
	}
	if strings.TrimSpace(arg) == "" {
		return nil, "", threadposter.ErrEmptyThread
	}
	return []threadposter.PostUnit{{SequenceIndex: 0, Body: arg}}, "", nil
}

func runPostX(ctx context.Context, args []string) error {
	fs := newFlagSet("post-x")
	authMode := fs.String("auth", "oauth1", "oauth1 (permanent tokens) or oauth2 (bearer token, refreshed once on 401)")
	a, err := newApp(fs, args)
	if err != nil {
		return err
	}
	defer a.Close()
	if fs.NArg() != 1 {
		return usageError("post-x <file|text> [--auth oauth1|oauth2]")
	}

	// parse before touching credentials or the network
	units, path, err := readInput(fs.Arg(0))
	if err != nil {
		return err
	}

	var (
		creator threadposter.Creator
		refresh threadposter.RefreshFunc
	)
	switch *authMode {
	case "oauth1":
		if creator, err = a.oauth1XClient(); err != nil {
			return err
		}
	case "oauth2":
		if creator, err = a.oauth2XClient(); err != nil {
			return err
		}
		refresh = func(ctx context.Context) (threadposter.Creator, error) {
			token, err := a.refreshX(ctx)
			if token == nil {
				return nil, err
			}
			if err != nil {
				logrus.WithError(err).Warn("Publishing with the refreshed token anyway")
			}
			return a.bearerXClient(token.AccessToken)
		}
	default:
		return fmt.Errorf("unknown --auth %q, want oauth1 or oauth2", *authMode)
	}

	if path != "" {
		fmt.Printf("Publishing %d posts from %s to X\n", len(units), path)
	}
	result, err := a.publisher(threadposter.PlatformX, creator).PublishThreadWithRefresh(ctx, units, refresh)
	if err != nil {
		printFailure(result, err)
		return err
	}

	fmt.Printf("✓ Published %d post(s): %s\n", result.Published(), threadposter.PostURL(result.FirstID()))
	return nil
}

func runPostLinkedIn(ctx context.Context, args []string) error {
	fs := newFlagSet("post-linkedin")
	a, err := newApp(fs, args)
	if err != nil {
		return err
	}
	defer a.Close()
	if fs.NArg() != 1 {
		return usageError("post-linkedin <file|text>")
	}

	arg := fs.Arg(0)
	text, path, err := linkedInText(arg)
	if err != nil {
		return err
	}

	li, err := a.linkedInClient()
	if err != nil {
		return err
	}
	result, err := a.publisher(threadposter.PlatformLinkedIn, li).PublishText(ctx, text)
	if err != nil {
		printFailure(result, err)
		return err
	}
	fmt.Printf("✓ Published to LinkedIn, post id %s\n", result.FirstID())

	if path != "" {
		record, err := threadposter.WritePostedRecord(path, threadposter.PlatformLinkedIn, result.FirstID(), text, time.Now())
		if err != nil {
			logrus.WithError(err).Warn("Post published but the posted record could not be written")
			return nil
		}
		fmt.Printf("  Recorded in %s\n", record)
	}
	return nil
}

// linkedInText returns the text to share: for a file, everything before the
// first "---", which separates the post from posting notes; otherwise arg
// verbatim.
func linkedInText(arg string) (text, path string, err error) {
	info, statErr := os.Stat(arg)
	if statErr != nil || !info.Mode().IsRegular() {
		if strings.TrimSpace(arg) == "" {
			return "", "", threadposter.ErrEmptyThread
		}
		return arg, "", nil
	}

	doc, err := os.ReadFile(arg)
	if err != nil {
		return "", "", err
	}
	text, _, _ = strings.Cut(string(doc), "---")
	text = strings.TrimSpace(text)
	if text == "" {
		return "", "", fmt.Errorf("%s: %w", arg, threadposter.ErrEmptyThread)
	}
	return text, arg, nil
}

func printFailure(result *threadposter.ThreadResult, err error) {
	var pubErr *threadposter.PublishError
	if errors.As(err, &pubErr) && pubErr.Published > 0 {
		fmt.Printf("%d post(s) were published before the failure, starting at %s\n",
			pubErr.Published, result.FirstID())
	}
	if threadposter.IsAuthRejected(err) {
		fmt.Println("The platform rejected the credentials; refresh or re-authorize them.")
	}
}
