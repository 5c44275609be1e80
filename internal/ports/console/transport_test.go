package console

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"a2a/internal/ports"
)

type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{})                     {}
func (noopLogger) Info(string, ...interface{})                      {}
func (noopLogger) Warn(string, ...interface{})                      {}
func (noopLogger) Error(string, ...interface{})                     {}
func (noopLogger) WithField(string, interface{}) runtime.Logger     { return noopLogger{} }
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger { return noopLogger{} }
func (noopLogger) Fields() map[string]interface{}                   { return nil }

func TestParseLine(t *testing.T) {
	tests := []struct {
		line string
		want ports.Received
	}{
		{"alice .a2a", ports.ReceivedMessage{Sender: "alice", Text: ".a2a"}},
		{"  bob   3 ", ports.ReceivedMessage{Sender: "bob", Text: "3"}},
		{"carol hello there", ports.ReceivedMessage{Sender: "carol", Text: "hello there"}},
		{"/part bob", ports.ReceivedDeparture{Nick: "bob"}},
		{"/QUIT bob", ports.ReceivedDeparture{Nick: "bob"}},
		{"/nick bob robert", ports.ReceivedRename{OldNick: "bob", NewNick: "robert"}},
		{"", nil},
		{"alice", nil},
		{"/nick bob", nil},
		{"/part", nil},
		{"/join bob", nil},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := ParseLine(tt.line)
			assert.Equal(t, tt.want != nil, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestTransportDeliversLinesThenDisconnects(t *testing.T) {
	out := &syncBuffer{}
	tr := New(strings.NewReader("alice .a2a\nnot-a-command\n/part alice\n"), out, "A2A", 4, noopLogger{})
	ctx := context.Background()

	conn, err := tr.AwaitConnection(ctx)
	require.NoError(t, err)

	var got []ports.Received
	for rec := range drain(t, conn) {
		got = append(got, rec)
	}
	assert.Equal(t, []ports.Received{
		ports.ReceivedMessage{Sender: "alice", Text: ".a2a"},
		ports.ReceivedDeparture{Nick: "alice"},
	}, got)

	require.NoError(t, conn.SendMessage(ctx, "hello"))
	require.NoError(t, conn.SendNotice(ctx, "alice", "psst"))
	assert.Equal(t, "<A2A> hello\n-A2A-> alice: psst\n", out.String())

	cctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	_, err = tr.AwaitConnection(cctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// drain collects events until the connection reports done and the queue is empty.
func drain(t *testing.T, conn ports.ChatConnection) <-chan ports.Received {
	t.Helper()
	out := make(chan ports.Received, 16)
	go func() {
		defer close(out)
		for {
			select {
			case rec := <-conn.Events():
				out <- rec
			case <-conn.Done():
				for {
					select {
					case rec := <-conn.Events():
						out <- rec
					default:
						return
					}
				}
			}
		}
	}()
	return out
}
