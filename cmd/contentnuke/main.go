// Command contentnuke publishes threads and posts to X and LinkedIn and
// manages the OAuth tokens needed to do so.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
)

type command struct {
	usage string
	run   func(ctx context.Context, args []string) error
}

var commands = map[string]command{
	"post-x":        {"post-x <file|text> [--auth oauth1|oauth2]  Publish a thread file or a single post to X", runPostX},
	"post-linkedin": {"post-linkedin <file|text>                 Publish a post to LinkedIn", runPostLinkedIn},
	"parse":         {"parse <file>                              Show how a thread file is split", runParse},
	"verify":        {"verify [x|linkedin|all]                   Check the configured credentials", runVerify},
	"oauth1":        {"oauth1                                    Obtain permanent X OAuth 1.0a tokens (PIN flow)", runOAuth1},
	"oauth2":        {"oauth2                                    Obtain X OAuth 2.0 tokens (PKCE flow)", runOAuth2},
	"refresh":       {"refresh [x|linkedin|check] [--schedule]   Refresh OAuth 2.0 access tokens", runRefresh},
	"history":       {"history [--platform p] [--session id]     Show recorded publish attempts", runHistory},
}

var commandOrder = []string{"post-x", "post-linkedin", "parse", "verify", "oauth1", "oauth2", "refresh", "history"}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	cmd, ok := commands[os.Args[1]]
	if !ok {
		if os.Args[1] != "help" && os.Args[1] != "-h" && os.Args[1] != "--help" {
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		}
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.run(ctx, os.Args[2:])
	stop()
	if err != nil {
		if !errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "✗ %v\n", err)
		}
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: contentnuke <command> [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	for _, name := range commandOrder {
		fmt.Println("  " + commands[name].usage)
	}
	fmt.Println()
	fmt.Println("Global flags:")
	fmt.Print(globalFlagUsage())
}
