package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"

	"a2a/internal/app"
	"a2a/internal/domain"
	"a2a/internal/ports"
)

const reconnectDelay = 5 * time.Second

// Snapshot is a read-only view of the runner. Match is never mutated after publication.
type Snapshot struct {
	Connected bool
	Match     *domain.Match
}

// Observers are notified from the runner goroutine; they must not block.
type Observers struct {
	OnStateChanged func(Snapshot)
	OnFault        func(*FaultError)
}

// Config wires a Runner to its collaborators. Recorder and Clock are optional.
type Config struct {
	Transport ports.ChatTransport
	Catalog   ports.CardCatalog
	Recorder  ports.RoundRecorder
	Service   *app.Service
	Logger    runtime.Logger
	Clock     Clock
	Observers Observers
}

// Runner is the single worker that owns the active match. Every transition
// happens on its goroutine, so match state needs no locking.
type Runner struct {
	transport ports.ChatTransport
	catalog   ports.CardCatalog
	recorder  ports.RoundRecorder
	svc       *app.Service
	logger    runtime.Logger
	clock     Clock
	observers Observers

	match    *domain.Match
	snapshot atomic.Pointer[Snapshot]

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New constructs a Runner.
func New(cfg Config) *Runner {
	if cfg.Clock == nil {
		cfg.Clock = systemClock{}
	}
	if cfg.Service == nil {
		cfg.Service = app.NewService(nil, app.DefaultTimings())
	}
	r := &Runner{
		transport: cfg.Transport,
		catalog:   cfg.Catalog,
		recorder:  cfg.Recorder,
		svc:       cfg.Service,
		logger:    cfg.Logger,
		clock:     cfg.Clock,
		observers: cfg.Observers,
	}
	r.snapshot.Store(&Snapshot{})
	return r
}

// Snapshot returns the state published after the last turn. Fields may be stale by the time they are read.
func (r *Runner) Snapshot() Snapshot {
	return *r.snapshot.Load()
}

// Start runs the loop on its own goroutine until Stop is called or ctx is done.
func (r *Runner) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done != nil {
		return
	}
	ctx, r.cancel = context.WithCancel(ctx)
	r.done = make(chan struct{})
	go func() {
		defer close(r.done)
		r.Run(ctx)
	}()
}

// Stop signals the loop and waits for it to exit. Any event in flight is finished first.
func (r *Runner) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.mu.Unlock()
	if done == nil {
		return
	}
	cancel()
	<-done
}

// Run blocks until ctx is done, serving one connection at a time.
// The active match survives reconnects.
func (r *Runner) Run(ctx context.Context) {
	for ctx.Err() == nil {
		conn, err := r.transport.AwaitConnection(ctx)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			r.logger.Warn("Runner: await connection failed: %v", err)
			select {
			case <-ctx.Done():
			case <-r.clock.Until(r.clock.Now().Add(reconnectDelay)):
			}
			continue
		}

		r.logger.Info("Runner: connected")
		r.publish(true)
		r.serve(ctx, conn)
		r.logger.Info("Runner: disconnected")
		r.publish(false)
	}
	r.logger.Info("Runner: stopped")
}

func (r *Runner) serve(ctx context.Context, conn ports.ChatConnection) {
	for {
		rec, ok := r.wait(ctx, conn)
		if !ok {
			return
		}
		r.turn(ctx, conn, rec)
	}
}

// wait picks what the next turn processes. A deadline that passed while the
// previous turn ran expires before anything queued behind it.
func (r *Runner) wait(ctx context.Context, conn ports.ChatConnection) (ports.Received, bool) {
	if r.match == nil {
		return r.next(ctx, conn, nil)
	}
	if !r.clock.Now().Before(r.match.Expiration) {
		return nil, ctx.Err() == nil
	}
	return r.next(ctx, conn, r.clock.Until(r.match.Expiration))
}

// next blocks for the next inbound event or the deadline. A nil event with ok
// set means the deadline fired first. When both are ready the event wins.
func (r *Runner) next(ctx context.Context, conn ports.ChatConnection, deadline <-chan time.Time) (ports.Received, bool) {
	select {
	case <-ctx.Done():
		return nil, false
	case <-conn.Done():
		return nil, false
	case rec, ok := <-conn.Events():
		return rec, ok
	case <-deadline:
		select {
		case rec, ok := <-conn.Events():
			return rec, ok
		default:
		}
		if ctx.Err() != nil {
			return nil, false
		}
		return nil, true
	}
}

// turn processes one event. Faults are contained here: the match is dropped and the loop goes on.
func (r *Runner) turn(ctx context.Context, conn ports.ChatConnection, rec ports.Received) {
	if err := r.step(ctx, conn, rec); err != nil {
		fe := asFault(err)
		r.logger.Error("Runner: turn fault, discarding match: %v", fe)
		r.send(ctx, conn, fmt.Sprintf("A2A game has crashed... %s: %v", fe.Kind, fe.Err))
		r.match = nil
		if r.observers.OnFault != nil {
			r.observers.OnFault(fe)
		}
	}
	r.publish(true)
}

func (r *Runner) step(ctx context.Context, conn ports.ChatConnection, rec ports.Received) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = panicFault(p)
		}
	}()

	now := r.clock.Now()
	if rec == nil {
		if r.match == nil {
			return nil
		}
		return r.apply(ctx, conn, app.Expiry{}, now)
	}
	if r.match == nil {
		msg, ok := rec.(ports.ReceivedMessage)
		if !ok || strings.TrimSpace(msg.Text) != app.CommandStart {
			return nil
		}
		return r.start(ctx, conn, msg.Sender, now)
	}

	var in app.Input
	switch rec := rec.(type) {
	case ports.ReceivedMessage:
		in = app.Command{Sender: rec.Sender, Text: rec.Text}
	case ports.ReceivedDeparture:
		in = app.Departure{Nick: rec.Nick}
	case ports.ReceivedRename:
		in = app.Rename{Old: rec.OldNick, New: rec.NewNick}
	default:
		r.logger.Warn("Runner: unknown event %T", rec)
		return nil
	}
	return r.apply(ctx, conn, in, now)
}

func (r *Runner) start(ctx context.Context, conn ports.ChatConnection, starter string, now time.Time) error {
	catalog, err := r.catalog.LoadCatalog(ctx)
	if err != nil {
		return &FaultError{Kind: FaultStorage, Err: fmt.Errorf("load catalog: %w", err)}
	}
	res, err := r.svc.StartMatch(catalog, starter, now)
	if err != nil {
		r.logger.Warn("Runner: unable to start match for %s: %v", starter, err)
		r.send(ctx, conn, app.StartFailureText(err))
		return nil
	}
	r.match = res.Match
	r.logger.Info("Runner: match %s started by %s", res.Match.ID, starter)
	r.emit(ctx, conn, res.Events)
	return nil
}

func (r *Runner) apply(ctx context.Context, conn ports.ChatConnection, in app.Input, now time.Time) error {
	r.logger.Debug("Runner: applying %s to match %s", in.Kind(), r.match.ID)
	res, err := r.svc.Apply(r.match, in, now)
	if err != nil {
		return err
	}
	r.match = res.Match
	r.emit(ctx, conn, res.Events)
	return nil
}

func (r *Runner) emit(ctx context.Context, conn ports.ChatConnection, events []app.Event) {
	for _, ev := range events {
		switch ev.Kind {
		case app.EventMessage:
			r.send(ctx, conn, ev.Payload.(app.TextPayload).Text)
		case app.EventNotice:
			text := ev.Payload.(app.TextPayload).Text
			for _, nick := range ev.Recipients {
				if err := conn.SendNotice(ctx, nick, text); err != nil {
					r.logger.Warn("Runner: notice to %s failed: %v", nick, err)
				}
			}
		case app.EventRoundJudged:
			r.record(ctx, ev.Payload.(app.RoundJudgedPayload))
		case app.EventMatchEnded:
			p := ev.Payload.(app.MatchEndedPayload)
			r.logger.Info("Runner: match %s ended after %d rounds", p.MatchID, p.RoundsPlayed)
		}
	}
}

func (r *Runner) send(ctx context.Context, conn ports.ChatConnection, text string) {
	if err := conn.SendMessage(ctx, text); err != nil {
		r.logger.Warn("Runner: send failed: %v", err)
	}
}

// record stores a judged round. Storage trouble is logged and never ends the match.
func (r *Runner) record(ctx context.Context, p app.RoundJudgedPayload) {
	if r.recorder == nil {
		return
	}
	played := make(map[string]string, len(p.Played))
	for _, s := range p.Played {
		played[s.Player] = s.Noun
	}
	round := ports.PlayedRound{
		MatchID:     p.MatchID,
		Round:       p.Round,
		Adjective:   p.Adjective,
		Judge:       p.Judge,
		Players:     p.Players,
		PlayedNouns: played,
		WinningNoun: p.WinningNoun,
		Winner:      p.Winner,
		PlayedAt:    p.At,
	}
	if err := r.recorder.RecordRound(ctx, round); err != nil {
		r.logger.Error("Runner: failed to record round %d of match %s: %v", p.Round, p.MatchID, err)
	}
}

func (r *Runner) publish(connected bool) {
	s := &Snapshot{Connected: connected, Match: r.match}
	r.snapshot.Store(s)
	if r.observers.OnStateChanged != nil {
		r.observers.OnStateChanged(*s)
	}
}
