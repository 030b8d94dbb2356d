package sim

import "log"

// statusCapacity bounds the overlay queue; older messages fall off the
// front when the player triggers failures faster than they expire.
const statusCapacity = 8

// defaultStatusTTL is how long a transient failure line stays on screen.
const defaultStatusTTL = 2.5

// StatusMessage is one short-lived status-line entry ("Not enough wood",
// "Unreachable") with its remaining time to live in seconds.
type StatusMessage struct {
	Text string
	TTL  float64
}

// Context is the explicit simulation context threaded through the tick
// in place of process globals: the injected log sink and the transient
// status-line queue drained by whatever presents the HUD.
type Context struct {
	Logger *log.Logger
	status []StatusMessage
}

// NewContext returns a context logging to logger. A nil logger is
// allowed and silences Logf.
func NewContext(logger *log.Logger) *Context {
	return &Context{Logger: logger}
}

// Logf writes to the injected log sink, if any.
func (c *Context) Logf(format string, args ...interface{}) {
	if c.Logger != nil {
		c.Logger.Printf(format, args...)
	}
}

// PushStatus queues a transient status line with the default TTL. The
// queue is bounded; the oldest entry is dropped when full.
func (c *Context) PushStatus(text string) {
	c.PushStatusTTL(text, defaultStatusTTL)
}

// PushStatusTTL queues a status line with an explicit TTL in seconds.
func (c *Context) PushStatusTTL(text string, ttl float64) {
	if len(c.status) >= statusCapacity {
		c.status = c.status[1:]
	}
	c.status = append(c.status, StatusMessage{Text: text, TTL: ttl})
}

// TickStatus ages every queued message by dt and drops the expired ones.
func (c *Context) TickStatus(dt float64) {
	kept := c.status[:0]
	for _, m := range c.status {
		m.TTL -= dt
		if m.TTL > 0 {
			kept = append(kept, m)
		}
	}
	c.status = kept
}

// Status returns a copy of the live status queue, oldest first.
func (c *Context) Status() []StatusMessage {
	out := make([]StatusMessage, len(c.status))
	copy(out, c.status)
	return out
}
