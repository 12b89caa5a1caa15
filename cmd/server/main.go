package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"agentbridge/internal/adapter/engine/sandbox"
	"agentbridge/internal/adapter/fixtures"
	httpadapter "agentbridge/internal/adapter/http"
	metricsinmem "agentbridge/internal/adapter/metrics/inmemory"
	gormrepo "agentbridge/internal/adapter/repo/gorm"
	"agentbridge/internal/adapter/repo/memory"
	"agentbridge/internal/adapter/webhook"
	"agentbridge/internal/app/action"
	"agentbridge/internal/app/auth"
	"agentbridge/internal/app/notify"
	"agentbridge/internal/app/observe"
	"agentbridge/internal/app/ports"
	"agentbridge/internal/config"
	"agentbridge/migrations"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/cloudwego/hertz/pkg/app/server"
)

type CLI struct {
	Serve   ServeCmd   `cmd:"" default:"withargs" help:"Run the agent API server"`
	Migrate MigrateCmd `cmd:"" help:"Apply database migrations and optionally seed fixtures"`
	Revoke  RevokeCmd  `cmd:"" help:"Revoke an API key stored in the database"`
}

type ServeCmd struct {
	Addr     string `help:"Listen address (overrides AGENTBRIDGE_ADDR)"`
	Fixtures string `type:"path" help:"YAML fixtures with keys, lobby bindings and sandbox games"`
}

type MigrateCmd struct {
	Fixtures string `type:"path" help:"Seed keys and lobby bindings from this fixtures file"`
}

type RevokeCmd struct {
	Key string `arg:"" help:"API key to revoke"`
}

var errNoDSN = errors.New("AGENTBRIDGE_DB_DSN is required")

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := newLogger(cfg)

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("agentbridge"),
		kong.Description("REST bridge that lets an agent play one side of a game"),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run(logger, cfg))
}

func newLogger(cfg config.Config) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           cfg.Level(),
		ReportTimestamp: true,
		Prefix:          "agentbridge",
	})
}

func (c *ServeCmd) Run(logger *log.Logger, cfg config.Config) error {
	if c.Addr != "" {
		cfg.Addr = c.Addr
	}
	if c.Fixtures != "" {
		cfg.Fixtures = c.Fixtures
	}
	ctx := context.Background()

	acc, err := openAccess(ctx, cfg)
	if err != nil {
		return err
	}
	store := memory.NewStore()
	if acc.Keys == nil {
		acc = memoryAccess(store)
		logger.Warn("AGENTBRIDGE_DB_DSN not set, keys and lobby live in memory")
	}
	games := memory.NewGameRegistry(store)
	recorder := metricsinmem.NewRecorder()

	sender, err := webhook.NewSender(cfg.Webhook.DialTimeout)
	if err != nil {
		return err
	}
	dispatcher := notify.NewDispatcher(notify.DispatcherConfig{
		Sender: sender,
		Policy: notify.Policy{
			MaxAttempts: cfg.Webhook.MaxAttempts,
			RetryDelay:  cfg.Webhook.RetryDelay,
			Timeout:     cfg.Webhook.Timeout,
		},
		Logger:  logger,
		Metrics: recorder,
	})
	defer dispatcher.Wait()

	fx, err := fixtures.Load(cfg.Fixtures)
	if err != nil {
		return err
	}
	if err := fx.Seed(ctx, acc.KeyWriter, acc.LobbyWriter, acc.Tx); err != nil {
		return err
	}
	tables, err := startGames(fx, games, notify.Notifier{Poster: dispatcher}, logger)
	if err != nil {
		return err
	}

	h := httpadapter.Handler{
		ResolveUC:   auth.ResolveUseCase{Keys: acc.Keys, Lobby: acc.Lobby, Games: games},
		ObserveUC:   observe.UseCase{LogLines: cfg.LogLines},
		ActionUC:    action.UseCase{Metrics: recorder, Logger: logger.WithPrefix("action")},
		KPI:         recorder,
		CORSOrigins: cfg.CORSOrigins,
		Logger:      logger.WithPrefix("http"),
	}

	s := server.Default(server.WithHostPorts(cfg.Addr), server.WithExitWaitTime(3*time.Second))
	h.RegisterRoutes(s)

	logger.Info("agent api listening", "addr", cfg.Addr, "games", len(tables))
	s.Spin()
	return nil
}

func (c *MigrateCmd) Run(logger *log.Logger, cfg config.Config) error {
	if cfg.DSN == "" {
		return errNoDSN
	}
	ctx := context.Background()
	db, err := gormrepo.OpenPostgres(ctx, cfg.DSN)
	if err != nil {
		return err
	}
	applied, err := gormrepo.ApplyMigrations(ctx, db, migrations.FS)
	if err != nil {
		return err
	}
	logger.Info("migrations applied", "versions", applied)

	if c.Fixtures == "" {
		return nil
	}
	fx, err := fixtures.Load(c.Fixtures)
	if err != nil {
		return err
	}
	keys := gormrepo.NewAPIKeyRepo(db)
	lobby := gormrepo.NewLobbyRepo(db)
	if err := fx.Seed(ctx, keys, lobby, gormrepo.NewTxManager(db)); err != nil {
		return err
	}
	logger.Info("fixtures seeded", "keys", len(fx.Keys), "lobby", len(fx.Lobby))
	return nil
}

func (c *RevokeCmd) Run(logger *log.Logger, cfg config.Config) error {
	key, err := auth.ParseCredential(c.Key)
	if err != nil {
		return fmt.Errorf("revoke: %w", err)
	}
	if cfg.DSN == "" {
		return errNoDSN
	}
	ctx := context.Background()
	db, err := gormrepo.OpenPostgres(ctx, cfg.DSN)
	if err != nil {
		return err
	}
	if err := gormrepo.NewAPIKeyRepo(db).Revoke(ctx, key); err != nil {
		return fmt.Errorf("revoke: %w", err)
	}
	logger.Info("api key revoked")
	return nil
}

type access struct {
	Keys        ports.KeyStore
	Lobby       ports.Lobby
	KeyWriter   ports.KeyWriter
	LobbyWriter ports.LobbyWriter
	Tx          ports.TxManager
}

// openAccess connects the postgres-backed key and lobby stores. Without a DSN
// it returns an empty access and the caller falls back to memory.
func openAccess(ctx context.Context, cfg config.Config) (access, error) {
	if cfg.DSN == "" {
		return access{}, nil
	}
	db, err := gormrepo.OpenPostgres(ctx, cfg.DSN)
	if err != nil {
		return access{}, err
	}
	keys := gormrepo.NewAPIKeyRepo(db)
	lobby := gormrepo.NewLobbyRepo(db)
	return access{Keys: keys, Lobby: lobby, KeyWriter: keys, LobbyWriter: lobby, Tx: gormrepo.NewTxManager(db)}, nil
}

func memoryAccess(store *memory.Store) access {
	keys := memory.NewKeyRepo(store)
	lobby := memory.NewLobbyRepo(store)
	return access{Keys: keys, Lobby: lobby, KeyWriter: keys, LobbyWriter: lobby}
}

// startGames registers and starts one sandbox table per fixture game.
func startGames(fx fixtures.Fixtures, games memory.GameRegistry, hooks sandbox.Hooks, logger *log.Logger) ([]*sandbox.Table, error) {
	tables := make([]*sandbox.Table, 0, len(fx.Games))
	for _, g := range fx.Games {
		table := sandbox.New(g.State(), sandbox.Options{Hooks: hooks, Logger: logger})
		if err := games.Register(table); err != nil {
			return nil, err
		}
		table.Start()
		tables = append(tables, table)
	}
	return tables, nil
}
