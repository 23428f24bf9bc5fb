package leadconsole

import (
	"sync"
	"time"
)

// Cooldown is the resend wait counter: an integer number of seconds,
// decremented once per tick while positive and the owning flow is in an
// OTP-collecting state. The ticking goroutine exits on its own when the
// counter reaches zero and is re-spawned by Reset. Stop tears it down; it is
// never restarted implicitly.
//
// Nothing is persisted: a fresh flow always starts at the configured value,
// matching a page reload.
type Cooldown struct {
	clock    Clock
	interval time.Duration
	// gate reports whether decrementing is currently allowed. The reset
	// flow gates on "otp step"; nil means always.
	gate func() bool

	mu        sync.Mutex
	remaining int
	running   bool
	stop      chan struct{}
}

func newCooldown(clock Clock, seconds int, gate func() bool) *Cooldown {
	return &Cooldown{
		clock:     clock,
		interval:  time.Second,
		remaining: seconds,
		gate:      gate,
	}
}

// Remaining returns the seconds left before resend re-enables.
func (c *Cooldown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Ready reports whether the cooldown has elapsed.
func (c *Cooldown) Ready() bool {
	return c.Remaining() <= 0
}

// Start begins ticking. It is a no-op when already running or already at
// zero.
func (c *Cooldown) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startLocked()
}

// Reset sets the counter to seconds and ensures ticking resumes.
func (c *Cooldown) Reset(seconds int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remaining = seconds
	c.startLocked()
}

// Stop halts ticking. Safe to call repeatedly and from flow teardown.
func (c *Cooldown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		close(c.stop)
		c.running = false
		c.stop = nil
	}
}

func (c *Cooldown) startLocked() {
	if c.running || c.remaining <= 0 {
		return
	}
	stop := make(chan struct{})
	c.stop = stop
	c.running = true
	go c.run(stop)
}

func (c *Cooldown) run(stop chan struct{}) {
	ticker := c.clock.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C():
			if c.tick(stop) {
				return
			}
		}
	}
}

// tick decrements once and reports whether the goroutine should exit.
func (c *Cooldown) tick(stop chan struct{}) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	// A Stop/Reset raced with this tick; the old goroutine must die even if
	// a new one was started.
	if c.stop != stop {
		return true
	}
	if c.gate != nil && !c.gate() {
		return false
	}
	if c.remaining > 0 {
		c.remaining--
	}
	if c.remaining <= 0 {
		c.running = false
		c.stop = nil
		return true
	}
	return false
}
