// Package console runs the game over line-oriented text streams for local play.
//
// Input lines:
//
//	alice .a2a          alice says ".a2a"
//	/part alice         alice leaves (also /quit, /kick)
//	/nick alice alicia  alice is now alicia
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/heroiclabs/nakama-common/runtime"

	"a2a/internal/ports"
)

// Transport reads events from an io.Reader and writes chat to an io.Writer.
// It offers a single connection that lasts until the reader is exhausted.
type Transport struct {
	in     io.Reader
	out    io.Writer
	bot    string
	queue  int
	logger runtime.Logger

	once sync.Once
	conn *connection
}

var _ ports.ChatTransport = (*Transport)(nil)

// New constructs a console Transport; bot prefixes every channel line.
func New(in io.Reader, out io.Writer, bot string, queue int, logger runtime.Logger) *Transport {
	if queue <= 0 {
		queue = 1
	}
	return &Transport{in: in, out: out, bot: bot, queue: queue, logger: logger}
}

// AwaitConnection returns the connection on the first call. Later calls block
// until ctx is done since a drained reader never reconnects.
func (t *Transport) AwaitConnection(ctx context.Context) (ports.ChatConnection, error) {
	first := false
	t.once.Do(func() {
		first = true
		t.conn = &connection{
			transport: t,
			events:    make(chan ports.Received, t.queue),
			done:      make(chan struct{}),
		}
		go t.conn.read(ctx)
	})
	if first {
		return t.conn, nil
	}
	<-ctx.Done()
	return nil, ctx.Err()
}

type connection struct {
	transport *Transport
	events    chan ports.Received
	done      chan struct{}
	mu        sync.Mutex
}

var _ ports.ChatConnection = (*connection)(nil)

func (c *connection) Events() <-chan ports.Received { return c.events }
func (c *connection) Done() <-chan struct{}         { return c.done }

func (c *connection) read(ctx context.Context) {
	defer close(c.done)
	scanner := bufio.NewScanner(c.transport.in)
	for scanner.Scan() {
		rec, ok := ParseLine(scanner.Text())
		if !ok {
			continue
		}
		select {
		case c.events <- rec:
		case <-ctx.Done():
			return
		}
	}
	if err := scanner.Err(); err != nil {
		c.transport.logger.Warn("Console: read failed: %v", err)
	}
}

func (c *connection) SendMessage(_ context.Context, text string) error {
	return c.write(fmt.Sprintf("<%s> %s\n", c.transport.bot, text))
}

func (c *connection) SendNotice(_ context.Context, nick, text string) error {
	return c.write(fmt.Sprintf("-%s-> %s: %s\n", c.transport.bot, nick, text))
}

func (c *connection) write(line string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := io.WriteString(c.transport.out, line)
	return err
}

// ParseLine converts one input line into an event.
func ParseLine(line string) (ports.Received, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, false
	}
	if cmd, rest, ok := strings.Cut(line, " "); ok && strings.HasPrefix(cmd, "/") {
		args := strings.Fields(rest)
		switch strings.ToLower(cmd) {
		case "/part", "/quit", "/kick":
			if len(args) == 1 {
				return ports.ReceivedDeparture{Nick: args[0]}, true
			}
		case "/nick":
			if len(args) == 2 {
				return ports.ReceivedRename{OldNick: args[0], NewNick: args[1]}, true
			}
		}
		return nil, false
	}
	sender, text, ok := strings.Cut(line, " ")
	if !ok || strings.HasPrefix(sender, "/") {
		return nil, false
	}
	return ports.ReceivedMessage{Sender: sender, Text: strings.TrimSpace(text)}, true
}
