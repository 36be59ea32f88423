package threadposter

import (
	"context"
	"time"
)

// Publisher sends threads to one platform through a Creator.
type Publisher struct {
	creator  Creator
	platform string
	pacing   time.Duration
	recorder Recorder
	sleep    func(ctx context.Context, d time.Duration) error
	now      func() time.Time
}

// NewPublisher creates a Publisher for platform
func NewPublisher(platform string, creator Creator) *Publisher {
	return &Publisher{
		creator:  creator,
		platform: platform,
		pacing:   DefaultPacing,
		sleep:    sleepContext,
		now:      time.Now,
	}
}

// WithPacing sets the pause between two posts of a thread
func (p *Publisher) WithPacing(d time.Duration) *Publisher {
	p.pacing = d
	return p
}

// WithRecorder stores every attempt in r
func (p *Publisher) WithRecorder(r Recorder) *Publisher {
	p.recorder = r
	return p
}

// WithSleep replaces the pacing wait, mostly for tests
func (p *Publisher) WithSleep(fn func(ctx context.Context, d time.Duration) error) *Publisher {
	p.sleep = fn
	return p
}

// WithClock sets the time source of PublishResult.AttemptedAt
func (p *Publisher) WithClock(now func() time.Time) *Publisher {
	p.now = now
	return p
}
