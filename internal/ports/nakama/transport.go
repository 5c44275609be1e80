package nakama

import (
	"context"
	"fmt"
	"sync"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/rtapi"
	"github.com/heroiclabs/nakama-common/runtime"
	"golang.org/x/time/rate"

	"a2a/internal/config"
	"a2a/internal/ports"
)

// ChatModule is the subset of runtime.NakamaModule the transport needs.
type ChatModule interface {
	ChannelIdBuild(ctx context.Context, sender string, target string, chanType runtime.ChannelType) (string, error)
	ChannelMessageSend(ctx context.Context, channelID string, content map[string]interface{}, senderId, senderUsername string, persist bool) (*rtapi.ChannelMessageAck, error)
	NotificationSend(ctx context.Context, userID, subject string, content map[string]interface{}, code int, sender string, persistent bool) error
	UsersGetUsername(ctx context.Context, usernames []string) ([]*api.User, error)
}

// Transport carries the game over a Nakama room channel. Inbound events are
// fed in by the realtime hooks through Deliver; outbound chat goes through the
// server API, throttled by a token bucket.
type Transport struct {
	nk      ChatModule
	logger  runtime.Logger
	room    string
	bot     string
	queue   int
	limiter *rate.Limiter

	mu        sync.Mutex
	channelID string
	session   *session
	ready     chan struct{}
	userIDs   map[string]string
}

var _ ports.ChatTransport = (*Transport)(nil)

// NewTransport constructs a disconnected Transport.
func NewTransport(nk ChatModule, logger runtime.Logger, cfg config.Config) *Transport {
	return &Transport{
		nk:      nk,
		logger:  logger,
		room:    cfg.Channel,
		bot:     cfg.BotName,
		queue:   cfg.QueueSize,
		limiter: rate.NewLimiter(rate.Limit(cfg.SendRate), cfg.SendBurst),
		ready:   make(chan struct{}),
		userIDs: make(map[string]string),
	}
}

// Connect resolves the room channel and opens a session.
func (t *Transport) Connect(ctx context.Context) error {
	channelID, err := t.nk.ChannelIdBuild(ctx, "", t.room, runtime.Room)
	if err != nil {
		return fmt.Errorf("failed to build channel id for %q: %w", t.room, err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.session != nil {
		return nil
	}
	t.channelID = channelID
	t.session = &session{
		transport: t,
		channelID: channelID,
		events:    make(chan ports.Received, t.queue),
		done:      make(chan struct{}),
	}
	close(t.ready)
	t.logger.Info("Transport: connected to channel %s", channelID)
	return nil
}

// Disconnect ends the current session, if any.
func (t *Transport) Disconnect() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.session == nil {
		return
	}
	close(t.session.done)
	t.session = nil
	t.ready = make(chan struct{})
	t.logger.Info("Transport: disconnected")
}

// ChannelID returns the resolved room channel id, empty before Connect.
func (t *Transport) ChannelID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.channelID
}

// AwaitConnection blocks until a session is open.
func (t *Transport) AwaitConnection(ctx context.Context) (ports.ChatConnection, error) {
	for {
		t.mu.Lock()
		s, ready := t.session, t.ready
		t.mu.Unlock()
		if s != nil {
			return s, nil
		}
		select {
		case <-ready:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Deliver queues an inbound event without blocking the calling hook. It
// reports false when no session is open or the queue is full.
func (t *Transport) Deliver(rec ports.Received) bool {
	t.mu.Lock()
	s := t.session
	if r, ok := rec.(ports.ReceivedRename); ok {
		delete(t.userIDs, r.OldNick)
		delete(t.userIDs, r.NewNick)
	}
	t.mu.Unlock()
	if s == nil {
		return false
	}
	select {
	case s.events <- rec:
		return true
	default:
		t.logger.Warn("Transport: inbound queue full, dropping %T", rec)
		return false
	}
}

func (t *Transport) userID(ctx context.Context, nick string) (string, error) {
	t.mu.Lock()
	id, ok := t.userIDs[nick]
	t.mu.Unlock()
	if ok {
		return id, nil
	}

	users, err := t.nk.UsersGetUsername(ctx, []string{nick})
	if err != nil {
		return "", fmt.Errorf("failed to look up user %q: %w", nick, err)
	}
	for _, u := range users {
		if u.GetUsername() == nick {
			t.mu.Lock()
			t.userIDs[nick] = u.GetId()
			t.mu.Unlock()
			return u.GetId(), nil
		}
	}
	return "", fmt.Errorf("user %q not found", nick)
}

type session struct {
	transport *Transport
	channelID string
	events    chan ports.Received
	done      chan struct{}
}

var _ ports.ChatConnection = (*session)(nil)

func (s *session) Events() <-chan ports.Received { return s.events }
func (s *session) Done() <-chan struct{}         { return s.done }

func (s *session) SendMessage(ctx context.Context, text string) error {
	t := s.transport
	if err := t.limiter.Wait(ctx); err != nil {
		return err
	}
	content := map[string]interface{}{"message": text}
	if _, err := t.nk.ChannelMessageSend(ctx, s.channelID, content, "", t.bot, true); err != nil {
		return fmt.Errorf("failed to send channel message: %w", err)
	}
	return nil
}

func (s *session) SendNotice(ctx context.Context, nick, text string) error {
	t := s.transport
	userID, err := t.userID(ctx, nick)
	if err != nil {
		return err
	}
	if err := t.limiter.Wait(ctx); err != nil {
		return err
	}
	content := map[string]interface{}{"message": text, "channel": t.room}
	if err := t.nk.NotificationSend(ctx, userID, NoticeSubject, content, NoticeCode, "", false); err != nil {
		return fmt.Errorf("failed to send notice to %s: %w", nick, err)
	}
	return nil
}
