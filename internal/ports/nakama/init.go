package nakama

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"

	"a2a/internal/app"
	"a2a/internal/config"
	"a2a/internal/engine"
	"a2a/internal/storage/sqlite"
)

// metrics is the subset of runtime.NakamaModule used for fault and roster metrics.
type metrics interface {
	MetricsCounterAdd(name string, tags map[string]string, delta int64)
	MetricsGaugeSet(name string, tags map[string]string, value float64)
}

type module struct {
	transport *Transport
	runner    *engine.Runner
	store     *sqlite.Store
	hooks     *hooks
}

// InitModule opens the card store, connects the game channel and starts the
// runner. Settings come from the runtime env with the A2A_ prefix.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	cfg, err := config.Load(env)
	if err != nil {
		return err
	}

	store, err := sqlite.Open(ctx, cfg.StorePath)
	if err != nil {
		return fmt.Errorf("failed to open card store: %w", err)
	}

	m := newModule(cfg, logger, nk, store)
	if err := m.register(initializer); err != nil {
		_ = store.Close()
		return err
	}
	if err := m.transport.Connect(ctx); err != nil {
		_ = store.Close()
		return err
	}
	m.runner.Start(context.Background())

	logger.Info("A2A Go module loaded.")
	return nil
}

func newModule(cfg config.Config, logger runtime.Logger, nk runtime.NakamaModule, store *sqlite.Store) *module {
	transport := NewTransport(nk, logger.WithField("component", "transport"), cfg)
	runner := engine.New(engine.Config{
		Transport: transport,
		Catalog:   store,
		Recorder:  store,
		Service:   app.NewService(nil, cfg.Timings()),
		Logger:    logger.WithField("component", "runner"),
		Observers: observers(nk, logger, cfg.Channel),
	})
	return &module{
		transport: transport,
		runner:    runner,
		store:     store,
		hooks:     &hooks{transport: transport},
	}
}

func observers(m metrics, logger runtime.Logger, channel string) engine.Observers {
	return engine.Observers{
		OnFault: func(fault *engine.FaultError) {
			logger.Error("A2A: turn fault in %s: %v", channel, fault)
			m.MetricsCounterAdd(MetricTurnFaults, map[string]string{"kind": string(fault.Kind)}, 1)
		},
		OnStateChanged: func(s engine.Snapshot) {
			players := 0
			if s.Match != nil {
				players = len(s.Match.PlayerOrder)
			}
			m.MetricsGaugeSet(MetricRosterSize, map[string]string{"channel": channel}, float64(players))
		},
	}
}

func (m *module) register(initializer runtime.Initializer) error {
	if err := initializer.RegisterAfterRt("ChannelMessageSend", m.hooks.afterChannelMessageSend); err != nil {
		return fmt.Errorf("failed to register message hook: %w", err)
	}
	if err := initializer.RegisterAfterRt("ChannelLeave", m.hooks.afterChannelLeave); err != nil {
		return fmt.Errorf("failed to register leave hook: %w", err)
	}
	if err := initializer.RegisterEventSessionEnd(m.hooks.onSessionEnd); err != nil {
		return fmt.Errorf("failed to register session end hook: %w", err)
	}
	if err := initializer.RegisterAfterUpdateAccount(m.hooks.afterUpdateAccount); err != nil {
		return fmt.Errorf("failed to register account hook: %w", err)
	}
	if err := initializer.RegisterRpc(RpcSnapshot, rpcSnapshot(m.runner)); err != nil {
		return fmt.Errorf("failed to register %s: %w", RpcSnapshot, err)
	}
	if err := initializer.RegisterRpc(RpcHistory, rpcHistory(m.store)); err != nil {
		return fmt.Errorf("failed to register %s: %w", RpcHistory, err)
	}
	return initializer.RegisterShutdown(m.shutdown)
}

func (m *module) shutdown(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) {
	m.transport.Disconnect()
	m.runner.Stop()
	if err := m.store.Close(); err != nil {
		logger.Warn("A2A: failed to close card store: %v", err)
	}
	logger.Info("A2A Go module stopped.")
}
