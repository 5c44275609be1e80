package engine

import (
	"context"
	"sync"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"

	"a2a/internal/domain"
	"a2a/internal/ports"
)

// noopLogger implements runtime.Logger for tests that only need to satisfy the interface.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) WithField(string, interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} {
	return nil
}

type sent struct {
	To   string // empty for channel messages
	Text string
}

type fakeConn struct {
	events chan ports.Received
	done   chan struct{}
	once   sync.Once

	mu   sync.Mutex
	sent []sent
}

func newFakeConn() *fakeConn {
	return &fakeConn{events: make(chan ports.Received, 16), done: make(chan struct{})}
}

func (c *fakeConn) Events() <-chan ports.Received { return c.events }
func (c *fakeConn) Done() <-chan struct{}         { return c.done }

func (c *fakeConn) SendMessage(_ context.Context, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, sent{Text: text})
	return nil
}

func (c *fakeConn) SendNotice(_ context.Context, nick, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, sent{To: nick, Text: text})
	return nil
}

func (c *fakeConn) disconnect() { c.once.Do(func() { close(c.done) }) }

func (c *fakeConn) say(sender, text string) {
	c.events <- ports.ReceivedMessage{Sender: sender, Text: text}
}

func (c *fakeConn) messages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []string
	for _, s := range c.sent {
		if s.To == "" {
			out = append(out, s.Text)
		}
	}
	return out
}

func (c *fakeConn) notices(nick string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []string
	for _, s := range c.sent {
		if s.To == nick {
			out = append(out, s.Text)
		}
	}
	return out
}

// fakeTransport hands out queued connections.
type fakeTransport struct {
	conns chan *fakeConn
}

func (t *fakeTransport) AwaitConnection(ctx context.Context) (ports.ChatConnection, error) {
	select {
	case c := <-t.conns:
		return c, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type fakeCatalog struct {
	load func() (domain.Catalog, error)
}

func (c fakeCatalog) LoadCatalog(context.Context) (domain.Catalog, error) { return c.load() }

type fakeRecorder struct {
	mu     sync.Mutex
	rounds []ports.PlayedRound
	err    error
}

func (r *fakeRecorder) RecordRound(_ context.Context, round ports.PlayedRound) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rounds = append(r.rounds, round)
	return r.err
}

func (r *fakeRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rounds)
}

// fakeClock only moves when Advance is called.
type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	waiters []waiter
}

type waiter struct {
	at time.Time
	ch chan time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Until(t time.Time) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch := make(chan time.Time, 1)
	if !t.After(c.now) {
		ch <- c.now
		return ch
	}
	c.waiters = append(c.waiters, waiter{at: t, ch: ch})
	return ch
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	kept := c.waiters[:0]
	for _, w := range c.waiters {
		if !w.at.After(c.now) {
			w.ch <- c.now
			continue
		}
		kept = append(kept, w)
	}
	c.waiters = kept
}
