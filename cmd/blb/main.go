// Package main provides the blb command-line tool for creating, inspecting, and rolling
// Best Left Buried character sheets.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/cory-johannsen/blb/internal/config"
	"github.com/cory-johannsen/blb/internal/game/catalog"
	"github.com/cory-johannsen/blb/internal/game/dice"
	"github.com/cory-johannsen/blb/internal/game/inventory"
	"github.com/cory-johannsen/blb/internal/game/rules"
	"github.com/cory-johannsen/blb/internal/game/sheet"
	"github.com/cory-johannsen/blb/internal/observability"
	"github.com/cory-johannsen/blb/internal/storage"
	"github.com/cory-johannsen/blb/internal/storage/postgres"
	blbredis "github.com/cory-johannsen/blb/internal/storage/redis"
)

const usageText = `usage: blb [-config path] <subcommand> [flags] [args]

subcommands:
  new      create a character file, optionally from a starting kit
  exec     run one sheet command against a character
  shell    run sheet commands interactively
  import   store a character file in the configured backend
  export   write a stored character to a file
  list     list stored characters
  kits     list the available starting kits
`

// app holds everything the subcommands share.
type app struct {
	cfg     config.Config
	logger  *zap.Logger
	catalog *catalog.Catalog
	kits    map[string]*inventory.Kit
	policy  rules.Policy
	roller  *dice.Roller
	// repo is nil when storage.backend is "none".
	repo    storage.Repository
	closers []func()
}

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file; empty = defaults and environment only")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usageText) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()

	ctx := context.Background()
	a, err := newApp(ctx, *configPath)
	if err != nil {
		log.Fatalf("blb: %v", err)
	}
	defer a.close()

	sub, args := flag.Arg(0), flag.Args()[1:]
	var runErr error
	switch sub {
	case "new":
		runErr = a.runNew(ctx, args)
	case "exec":
		runErr = a.runExec(ctx, args)
	case "shell":
		runErr = a.runShell(ctx, args, os.Stdin)
	case "import":
		runErr = a.runImport(ctx, args)
	case "export":
		runErr = a.runExport(ctx, args)
	case "list":
		runErr = a.runList(ctx, args)
	case "kits":
		runErr = a.runKits(args)
	default:
		flag.Usage()
		a.close()
		os.Exit(2)
	}
	if runErr != nil {
		a.logger.Debug("subcommand failed", zap.String("subcommand", sub), zap.Error(runErr))
		fmt.Fprintf(os.Stderr, "blb %s: %v\n", sub, runErr)
		a.close()
		os.Exit(1)
	}
}

// newApp loads configuration, content, and the storage backend.
//
// Postcondition: on success the caller must call close.
func newApp(ctx context.Context, configPath string) (*app, error) {
	start := time.Now()

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger, err := observability.NewLogger(cfg.Logging, "blb")
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	a := &app{cfg: cfg, logger: logger}
	a.closers = append(a.closers, func() { _ = logger.Sync() })

	if err := a.loadContent(); err != nil {
		a.close()
		return nil, err
	}
	if err := a.openStorage(ctx); err != nil {
		a.close()
		return nil, err
	}

	a.roller = dice.NewLoggedRoller(dice.NewCryptoSource(), logger)
	logger.Debug("blb ready",
		zap.String("backend", cfg.Storage.Backend),
		zap.String("equip_policy", string(a.policy.Equip)),
		zap.Int("kits", len(a.kits)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return a, nil
}

func (a *app) loadContent() error {
	if dir := a.cfg.Content.CatalogDir; dir != "" {
		cat, err := catalog.Load(dir)
		if err != nil {
			return fmt.Errorf("loading catalog: %w", err)
		}
		a.catalog = cat
	} else {
		a.catalog = catalog.Default()
	}

	policy, err := a.cfg.Rules.Policy(a.catalog.ArmorBonusTable())
	if err != nil {
		return fmt.Errorf("building rules policy: %w", err)
	}
	a.policy = policy

	a.kits = map[string]*inventory.Kit{}
	if dir := a.cfg.Content.KitsDir; dir != "" {
		kits, err := inventory.LoadKits(dir, a.catalog)
		if err != nil {
			return fmt.Errorf("loading kits: %w", err)
		}
		a.kits = kits
	}
	return nil
}

func (a *app) openStorage(ctx context.Context) error {
	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	switch a.cfg.Storage.Backend {
	case config.BackendPostgres:
		pool, err := postgres.NewPool(dialCtx, a.cfg.Database, a.logger.Named("postgres"))
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		a.closers = append(a.closers, pool.Close)
		if err := pool.CheckSchema(dialCtx); err != nil {
			return err
		}
		a.repo = postgres.NewCharacterRepository(pool.DB())
	case config.BackendRedis:
		client, err := blbredis.NewClient(dialCtx, a.cfg.Redis)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		a.closers = append(a.closers, func() { _ = client.Close() })
		a.repo = blbredis.NewCharacterRepository(client, a.cfg.Redis.KeyPrefix)
		a.logger.Debug("redis connected", zap.String("addr", a.cfg.Redis.Addr))
	}
	return nil
}

// close releases resources in reverse order of acquisition. It is safe to call twice.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// build opens a sheet over rec with the app's catalog, policy, and roller.
func (a *app) build(rec sheet.Record, store sheet.Store, chat sheet.ChatSink) (*sheet.Sheet, error) {
	return sheet.New(rec, sheet.Deps{
		Catalog: a.catalog,
		Policy:  a.policy,
		Engine:  a.roller,
		Store:   store,
		Chat:    chat,
		Logger:  a.logger.Named("sheet"),
	})
}

func (a *app) requireRepo() error {
	if a.repo == nil {
		return fmt.Errorf("storage.backend is %q; this subcommand needs postgres or redis", a.cfg.Storage.Backend)
	}
	return nil
}
