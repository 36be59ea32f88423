package threadposter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/masa-finance/masa-thread-poster/httpwrap"
	"github.com/sirupsen/logrus"
)

// ErrEmptyThread is returned when a document yields no posts.
var ErrEmptyThread = errors.New("no posts found")

// Creator publishes a single post, optionally as a reply to inReplyToID, and
// returns the id the platform assigned to it.
type Creator interface {
	CreatePost(ctx context.Context, text, inReplyToID string) (string, error)
}

// Recorder persists publish attempts.
type Recorder interface {
	Record(ctx context.Context, result PublishResult) error
}

// RefreshFunc obtains fresh credentials after an authorization failure and
// returns a creator using them.
type RefreshFunc func(ctx context.Context) (Creator, error)

// PublishResult describes one publish attempt.
type PublishResult struct {
	SessionID   string
	Platform    string
	Index       int
	Total       int
	Text        string
	PostID      string
	InReplyToID string
	Succeeded   bool
	HTTPStatus  int
	ErrorBody   string
	Err         error
	AttemptedAt time.Time
}

// ThreadResult collects the attempts of one publish run.
type ThreadResult struct {
	SessionID string
	Results   []PublishResult
}

// FirstID is the id of the first published post, which identifies the thread.
func (r *ThreadResult) FirstID() string {
	if r == nil || len(r.Results) == 0 || !r.Results[0].Succeeded {
		return ""
	}
	return r.Results[0].PostID
}

// Published counts the posts that went out.
func (r *ThreadResult) Published() int {
	if r == nil {
		return 0
	}
	n := 0
	for _, res := range r.Results {
		if res.Succeeded {
			n++
		}
	}
	return n
}

// PublishError reports the unit a thread stopped at. Units before Index were
// published and stay published.
type PublishError struct {
	Index     int
	Total     int
	Published int
	Err       error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("post %d/%d failed after %d published: %v", e.Index+1, e.Total, e.Published, e.Err)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}

// IsAuthRejected reports whether the platform refused the credentials.
func IsAuthRejected(err error) bool {
	return httpwrap.IsUnauthorized(err)
}

// PublishThread publishes units in order, each one replying to the post
// before it. It waits the configured pacing between two successful posts and
// stops at the first failure, returning a *PublishError. Nothing published is
// rolled back, so running it again duplicates the posts that already went out.
func (p *Publisher) PublishThread(ctx context.Context, units []PostUnit) (*ThreadResult, error) {
	if len(units) == 0 {
		return nil, ErrEmptyThread
	}

	result := &ThreadResult{SessionID: uuid.NewString()}
	previousID := ""
	for i, unit := range units {
		log := logrus.WithFields(logrus.Fields{
			"platform": p.platform,
			"session":  result.SessionID,
			"post":     fmt.Sprintf("%d/%d", i+1, len(units)),
		})
		log.WithField("chars", len([]rune(unit.Body))).Info("Publishing post")

		res := PublishResult{
			SessionID:   result.SessionID,
			Platform:    p.platform,
			Index:       i,
			Total:       len(units),
			Text:        unit.Body,
			InReplyToID: previousID,
			AttemptedAt: p.now(),
		}
		id, err := p.creator.CreatePost(ctx, unit.Body, previousID)
		if err == nil && id == "" {
			err = errors.New("platform returned no post id")
		}
		if err != nil {
			res.Err = err
			if status, body := httpwrap.StatusOf(err); status != 0 {
				res.HTTPStatus = status
				res.ErrorBody = string(body)
			}
			result.Results = append(result.Results, res)
			p.record(ctx, res)
			log.WithError(err).Error("Failed to publish post")
			return result, &PublishError{Index: i, Total: len(units), Published: i, Err: err}
		}

		res.PostID = id
		res.Succeeded = true
		result.Results = append(result.Results, res)
		p.record(ctx, res)
		log.WithField("id", id).Info("Published post")
		previousID = id

		if i < len(units)-1 {
			if err := p.sleep(ctx, p.pacing); err != nil {
				return result, &PublishError{Index: i + 1, Total: len(units), Published: i + 1, Err: err}
			}
		}
	}
	return result, nil
}

// PublishText publishes text verbatim as a single post.
func (p *Publisher) PublishText(ctx context.Context, text string) (*ThreadResult, error) {
	if text == "" {
		return nil, ErrEmptyThread
	}
	return p.PublishThread(ctx, []PostUnit{{SequenceIndex: 0, Body: text}})
}

// PublishThreadWithRefresh behaves like PublishThread, except that when the
// platform rejects the credentials it calls refresh once and runs the whole
// thread again from the first unit with the returned creator.
func (p *Publisher) PublishThreadWithRefresh(ctx context.Context, units []PostUnit, refresh RefreshFunc) (*ThreadResult, error) {
	result, err := p.PublishThread(ctx, units)
	if err == nil || refresh == nil || !IsAuthRejected(err) {
		return result, err
	}

	logrus.WithField("platform", p.platform).Warn("Authorization rejected, refreshing token and publishing again")
	creator, rerr := refresh(ctx)
	if rerr != nil {
		return result, fmt.Errorf("%w (token refresh failed: %v)", err, rerr)
	}
	p.creator = creator
	return p.PublishThread(ctx, units)
}

func (p *Publisher) record(ctx context.Context, res PublishResult) {
	if p.recorder == nil {
		return
	}
	if err := p.recorder.Record(ctx, res); err != nil {
		logrus.WithError(err).Warn("Could not record publish attempt")
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
