package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/masa-finance/masa-thread-poster/history"
)

func runHistory(ctx context.Context, args []string) error {
	fs := newFlagSet("history")
	platform := fs.String("platform", "", "only attempts on this platform (x or linkedin)")
	session := fs.String("session", "", "only attempts of this publish session")
	limit := fs.Uint64("limit", 20, "maximum number of attempts to show, 0 for all")
	a, err := newApp(fs, args)
	if err != nil {
		return err
	}
	defer a.Close()
	if a.history == nil {
		return errors.New("no history configured; set history.path or pass --history")
	}

	entries, err := a.history.List(ctx, history.Filter{Platform: *platform, SessionID: *session, Limit: *limit})
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No publish attempts recorded.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tPLATFORM\tSESSION\tPOST\tID\tRESULT")
	for _, e := range entries {
		outcome := "ok"
		if !e.Succeeded {
			outcome = e.Error
			if e.HTTPStatus != 0 {
				outcome = fmt.Sprintf("HTTP %d %s", e.HTTPStatus, e.ErrorBody)
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d/%d\t%s\t%s\n",
			e.AttemptedAt.Local().Format("2006-01-02 15:04:05"), e.Platform, shortID(e.SessionID),
			e.Index+1, e.Total, e.PostID, outcome)
	}
	return w.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
