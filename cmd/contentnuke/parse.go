package main

import (
	"context"
	"fmt"
	"os"
	"unicode/utf8"

	threadposter "github.com/masa-finance/masa-thread-poster"
)

// xCharacterLimit is the length limit of a standard X post.
const xCharacterLimit = 280

func runParse(_ context.Context, args []string) error {
	fs := newFlagSet("parse")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return usageError("parse <file>")
	}

	doc, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}
	units := threadposter.ParseThread(string(doc))
	if len(units) == 0 {
		return fmt.Errorf("%s: %w", fs.Arg(0), threadposter.ErrEmptyThread)
	}

	over := 0
	for _, unit := range units {
		chars := utf8.RuneCountInString(unit.Body)
		mark := "✓"
		if chars > xCharacterLimit {
			mark = "✗"
			over++
		}
		fmt.Printf("%s Post %d/%d (%d chars)\n%s\n\n", mark, unit.SequenceIndex+1, len(units), chars, unit.Body)
	}
	fmt.Printf("%d post(s) parsed", len(units))
	if over > 0 {
		fmt.Printf(", %d over %d characters", over, xCharacterLimit)
	}
	fmt.Println()
	return nil
}
