package workflow

import (
	"context"
	"sync"
	"time"
)

// DefaultPollInterval is the context poll cadence when none is configured.
const DefaultPollInterval = 2 * time.Second

// Poller periodically asks the backend for the active window context and
// feeds it into the session. Poll failures never surface as errors: the
// reachability flag flips and the last good snapshot stays in place. No
// retries beyond the next scheduled tick.
type Poller struct {
	api      API
	session  *Session
	interval time.Duration

	// Updates is signaled after every completed tick so a consumer can
	// re-render. Sends never block; a slow consumer just coalesces ticks.
	Updates chan struct{}

	done     chan struct{}
	stopOnce sync.Once

	// mu serializes applying tick results with Stop, so no session
	// mutation can happen once Stop has returned.
	mu      sync.Mutex
	stopped bool
}

// NewPoller creates a poller feeding session at the given cadence.
func NewPoller(api API, session *Session, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		api:      api,
		session:  session,
		interval: interval,
		Updates:  make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

// Start begins polling in the background until Stop is called.
func (p *Poller) Start() {
	go p.loop()
}

// Stop cancels the recurring poll. Idempotent; once Stop returns, a tick
// whose request is still in flight discards its result instead of
// applying it.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() {
		close(p.done)
	})
	p.mu.Lock()
	p.stopped = true
	p.mu.Unlock()
}

func (p *Poller) loop() {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.done:
			return
		case <-ticker.C:
			p.Tick(context.Background())
		}
	}
}

// Tick performs one poll synchronously. Exposed so tests can drive the
// poller deterministically instead of waiting on wall-clock time.
func (p *Poller) Tick(ctx context.Context) {
	snapshot, err := p.api.Context(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		// Stopped while the request was in flight; drop the result.
		return
	}

	if err != nil {
		p.session.MarkUnreachable()
	} else {
		snapshot.CapturedAt = time.Now()
		p.session.SetContext(snapshot)
	}

	select {
	case p.Updates <- struct{}{}:
	default:
	}
}
