package nakama

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/rtapi"
	"github.com/heroiclabs/nakama-common/runtime"

	"a2a/internal/config"
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

type sentMessage struct {
	channelID string
	text      string
	sender    string
}

type sentNotice struct {
	userID  string
	subject string
	text    string
	code    int
}

type metric struct {
	name  string
	tags  map[string]string
	value float64
}

// fakeNakama overrides the module calls the package makes. Anything else
// panics through the nil embedded interface.
type fakeNakama struct {
	runtime.NakamaModule

	mu       sync.Mutex
	users    map[string]string // username -> id
	lookups  int
	messages []sentMessage
	notices  []sentNotice
	counters []metric
	gauges   []metric
	sendErr  error
}

func newFakeNakama() *fakeNakama {
	return &fakeNakama{users: map[string]string{"alice": "id-alice", "bob": "id-bob"}}
}

func (f *fakeNakama) ChannelIdBuild(ctx context.Context, sender string, target string, chanType runtime.ChannelType) (string, error) {
	if target == "" {
		return "", errors.New("empty target")
	}
	return "2..." + target, nil
}

func (f *fakeNakama) ChannelMessageSend(ctx context.Context, channelID string, content map[string]interface{}, senderId, senderUsername string, persist bool) (*rtapi.ChannelMessageAck, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.messages = append(f.messages, sentMessage{channelID: channelID, text: content["message"].(string), sender: senderUsername})
	return &rtapi.ChannelMessageAck{ChannelId: channelID}, nil
}

func (f *fakeNakama) NotificationSend(ctx context.Context, userID, subject string, content map[string]interface{}, code int, sender string, persistent bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notices = append(f.notices, sentNotice{userID: userID, subject: subject, text: content["message"].(string), code: code})
	return nil
}

func (f *fakeNakama) UsersGetUsername(ctx context.Context, usernames []string) ([]*api.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	var out []*api.User
	for _, name := range usernames {
		if id, ok := f.users[name]; ok {
			out = append(out, &api.User{Id: id, Username: name})
		}
	}
	return out, nil
}

func (f *fakeNakama) MetricsCounterAdd(name string, tags map[string]string, delta int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counters = append(f.counters, metric{name: name, tags: tags, value: float64(delta)})
}

func (f *fakeNakama) MetricsGaugeSet(name string, tags map[string]string, value float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gauges = append(f.gauges, metric{name: name, tags: tags, value: value})
}

// fakeInitializer records registrations. Unused registrations panic through
// the nil embedded interface.
type fakeInitializer struct {
	runtime.Initializer

	rpcs       map[string]func(context.Context, runtime.Logger, *sql.DB, runtime.NakamaModule, string) (string, error)
	afterRt    map[string]bool
	sessionEnd bool
	account    bool
	shutdown   func(context.Context, runtime.Logger, *sql.DB, runtime.NakamaModule)
	failRpc    error
}

func newFakeInitializer() *fakeInitializer {
	return &fakeInitializer{
		rpcs:    make(map[string]func(context.Context, runtime.Logger, *sql.DB, runtime.NakamaModule, string) (string, error)),
		afterRt: make(map[string]bool),
	}
}

func (f *fakeInitializer) RegisterRpc(id string, fn func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error)) error {
	if f.failRpc != nil {
		return f.failRpc
	}
	f.rpcs[id] = fn
	return nil
}

func (f *fakeInitializer) RegisterAfterRt(id string, fn func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, out, in *rtapi.Envelope) error) error {
	f.afterRt[id] = true
	return nil
}

func (f *fakeInitializer) RegisterEventSessionEnd(fn func(ctx context.Context, logger runtime.Logger, evt *api.Event)) error {
	f.sessionEnd = true
	return nil
}

func (f *fakeInitializer) RegisterAfterUpdateAccount(fn func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, in *api.UpdateAccountRequest) error) error {
	f.account = true
	return nil
}

func (f *fakeInitializer) RegisterShutdown(fn func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule)) error {
	f.shutdown = fn
	return nil
}

func testConfig() config.Config {
	return config.Config{
		Channel:   "a2a",
		BotName:   "A2A",
		QueueSize: 2,
		SendRate:  1000,
		SendBurst: 100,
	}
}

func connectedTransport(t testing.TB, nk *fakeNakama) *Transport {
	t.Helper()
	tr := NewTransport(nk, noopLogger{}, testConfig())
	if err := tr.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}
	return tr
}

func userCtx(username string) context.Context {
	return context.WithValue(context.Background(), runtime.RUNTIME_CTX_USERNAME, username)
}
