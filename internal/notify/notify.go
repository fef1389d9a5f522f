// Package notify is the shared sink for transient, user-visible errors.
package notify

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Level classifies a notice.
type Level int

// Notice levels.
const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

const (
	// DefaultTTL is how long a notice stays visible.
	DefaultTTL = 5 * time.Second
	// MaxNotices bounds the queue; the oldest notice is dropped first.
	MaxNotices = 8
)

// Notice is one transient message.
type Notice struct {
	Level   Level
	Message string
	At      time.Time
	Expires time.Time
}

// Reporter is what controllers depend on.
type Reporter interface {
	ReportFetchError(err error)
}

// Notifier queues notices for the status line and logs every one of them.
type Notifier struct {
	mu      sync.Mutex
	notices []Notice
	ttl     time.Duration
	now     func() time.Time
	logger  *log.Logger
}

// Option customises a Notifier.
type Option func(*Notifier)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(n *Notifier) { n.now = now }
}

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(n *Notifier) {
		if ttl > 0 {
			n.ttl = ttl
		}
	}
}

// WithLogger sets the logger notices are mirrored to.
func WithLogger(l *log.Logger) Option {
	return func(n *Notifier) { n.logger = l }
}

// New builds a Notifier.
func New(opts ...Option) *Notifier {
	n := &Notifier{ttl: DefaultTTL, now: time.Now}
	for _, opt := range opts {
		opt(n)
	}
	if n.logger == nil {
		n.logger = log.Default().With("component", "notify")
	}
	return n
}

// ReportFetchError enqueues err as an error notice. A nil error is ignored.
func (n *Notifier) ReportFetchError(err error) {
	if err == nil {
		return
	}
	n.Report(LevelError, err.Error())
}

// Report enqueues a notice.
func (n *Notifier) Report(level Level, msg string) {
	if n == nil || msg == "" {
		return
	}
	switch level {
	case LevelError:
		n.logger.Error(msg)
	case LevelWarn:
		n.logger.Warn(msg)
	default:
		n.logger.Info(msg)
	}

	now := n.now()
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, Notice{Level: level, Message: msg, At: now, Expires: now.Add(n.ttl)})
	if over := len(n.notices) - MaxNotices; over > 0 {
		n.notices = append([]Notice(nil), n.notices[over:]...)
	}
}

// Active returns unexpired notices, oldest first, and prunes the rest.
func (n *Notifier) Active(now time.Time) []Notice {
	if n == nil {
		return nil
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	kept := n.notices[:0]
	for _, notice := range n.notices {
		if now.Before(notice.Expires) {
			kept = append(kept, notice)
		}
	}
	n.notices = kept
	if len(kept) == 0 {
		return nil
	}
	out := make([]Notice, len(kept))
	copy(out, kept)
	return out
}

// Latest returns the newest unexpired notice.
func (n *Notifier) Latest(now time.Time) (Notice, bool) {
	active := n.Active(now)
	if len(active) == 0 {
		return Notice{}, false
	}
	return active[len(active)-1], true
}
