// Package notify carries transient, auto-dismissing user notifications.
package notify

import (
	"sync"
	"time"
)

// Notice levels
const (
	LevelSuccess = "success"
	LevelError   = "error"
	LevelInfo    = "info"
)

// Bounds for how long a notice stays visible.
const (
	MinTimeout = 2 * time.Second
	MaxTimeout = 10 * time.Second
)

// Notice is a single user-visible message.
type Notice struct {
	Level     string        `json:"level"`
	Message   string        `json:"message"`
	Timeout   time.Duration `json:"-"`
	TimeoutMS int64         `json:"timeout_ms"`
	PostedAt  time.Time     `json:"-"`
}

// Sink receives notices.
type Sink interface {
	Notify(n Notice)
}

// Discard is a Sink that drops every notice.
var Discard Sink = discard{}

type discard struct{}

func (discard) Notify(Notice) {}

// Error builds an error notice with a clamped timeout.
func Error(message string, timeout time.Duration) Notice {
	return Notice{Level: LevelError, Message: message, Timeout: Clamp(timeout)}
}

// Success builds a success notice with a clamped timeout.
func Success(message string, timeout time.Duration) Notice {
	return Notice{Level: LevelSuccess, Message: message, Timeout: Clamp(timeout)}
}

// Clamp bounds d to [MinTimeout, MaxTimeout].
func Clamp(d time.Duration) time.Duration {
	if d < MinTimeout {
		return MinTimeout
	}
	if d > MaxTimeout {
		return MaxTimeout
	}
	return d
}

// Collector gathers notices for one consumer. Safe for concurrent use.
type Collector struct {
	mu      sync.Mutex
	notices []Notice
	now     func() time.Time
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{now: time.Now}
}

// Notify records n, stamping its post time.
func (c *Collector) Notify(n Notice) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n.Timeout = Clamp(n.Timeout)
	n.TimeoutMS = n.Timeout.Milliseconds()
	n.PostedAt = c.now()
	c.notices = append(c.notices, n)
}

// Active returns the notices not yet dismissed at now.
func (c *Collector) Active(now time.Time) []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()

	active := make([]Notice, 0, len(c.notices))
	kept := c.notices[:0]
	for _, n := range c.notices {
		if now.Before(n.PostedAt.Add(n.Timeout)) {
			active = append(active, n)
			kept = append(kept, n)
		}
	}
	c.notices = kept
	return active
}

// Drain returns every recorded notice and empties the collector.
func (c *Collector) Drain() []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.notices
	c.notices = nil
	if out == nil {
		out = []Notice{}
	}
	return out
}
