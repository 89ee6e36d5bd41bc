package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"taskdash/internal/model"

	"golang.org/x/sync/singleflight"
)

// DefaultPollInterval matches the dashboard's notification refresh rate.
const DefaultPollInterval = 15 * time.Second

// FeedSource reads the backend notification feed.
type FeedSource interface {
	ListNotifications(ctx context.Context, token string) ([]model.Notification, error)
}

type PollerConfig struct {
	Source   FeedSource
	Token    string
	Role     model.Role
	Interval time.Duration
	Logger   *slog.Logger
}

// Poller refreshes a viewer's notification feed on a fixed interval.
// Concurrent polls share one in-flight request, and results arriving
// after Stop are dropped.
type Poller struct {
	source   FeedSource
	token    string
	role     model.Role
	interval time.Duration
	logger   *slog.Logger

	// Shared fetches run under ctx, so one caller giving up does not
	// fail the others. Stop cancels it.
	ctx      context.Context
	stopFeed context.CancelFunc
	group    singleflight.Group

	mu       sync.RWMutex
	feed     []model.Notification
	polledAt time.Time
	stopped  bool
	cancel   context.CancelFunc
	done     chan struct{}
}

func NewPoller(cfg PollerConfig) *Poller {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Poller{
		source:   cfg.Source,
		token:    cfg.Token,
		role:     cfg.Role,
		interval: interval,
		logger:   logger,
		ctx:      ctx,
		stopFeed: cancel,
	}
}

// Start launches the polling loop. It polls once immediately. Calling
// Start twice is a no-op.
func (p *Poller) Start(parent context.Context) {
	p.mu.Lock()
	if p.cancel != nil || p.stopped {
		p.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(parent)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.mu.Unlock()

	go p.loop(ctx)
}

func (p *Poller) loop(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		// Failures are background reads: keep the previous feed.
		if _, err := p.Poll(ctx); err != nil && ctx.Err() == nil {
			p.logger.Debug("notification poll failed", "role", p.role, "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Poll fetches the feed now. Calls made while a poll is in flight wait
// for and share its result; ctx only bounds how long this caller waits.
func (p *Poller) Poll(ctx context.Context) ([]model.Notification, error) {
	ch := p.group.DoChan("feed", func() (any, error) {
		return p.source.ListNotifications(p.ctx, p.token)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if res.Err != nil {
		return nil, res.Err
	}
	feed, _ := res.Val.([]model.Notification)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return nil, context.Canceled
	}
	p.feed = feed
	p.polledAt = time.Now()
	return cloneFeed(feed), nil
}

// Feed returns the last successfully polled notifications and when
// they were fetched.
func (p *Poller) Feed() ([]model.Notification, time.Time) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return cloneFeed(p.feed), p.polledAt
}

// Drop removes a notification from the cached feed once it is read.
func (p *Poller) Drop(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, n := range p.feed {
		if n.ID.String() == id {
			p.feed = append(p.feed[:i:i], p.feed[i+1:]...)
			return true
		}
	}
	return false
}

// Stop cancels the loop and waits for it to exit.
func (p *Poller) Stop() {
	p.mu.Lock()
	p.stopped = true
	cancel, done := p.cancel, p.done
	p.mu.Unlock()

	p.stopFeed()
	if cancel != nil {
		cancel()
		<-done
	}
}

func cloneFeed(in []model.Notification) []model.Notification {
	out := make([]model.Notification, len(in))
	copy(out, in)
	return out
}
