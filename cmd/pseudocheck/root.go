package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mind-engage/pseudocheck/internal/config"
	"github.com/mind-engage/pseudocheck/internal/db"
	"github.com/mind-engage/pseudocheck/internal/logging"
	"github.com/mind-engage/pseudocheck/internal/question"
	"github.com/mind-engage/pseudocheck/internal/submission"
)

type globalOpts struct {
	configPath string
	dbDriver   string
	dbDSN      string
	logLevel   string
	memory     bool
}

func newRootCmd() *cobra.Command {
	o := &globalOpts{}
	cmd := &cobra.Command{
		Use:           "pseudocheck",
		Short:         "Pseudocode practice checker",
		Long:          "pseudocheck grades free-text pseudocode against the reference answers of a question catalog.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&o.configPath, "config", "", "YAML config file overlaid on the environment")
	pf.StringVar(&o.dbDriver, "db-driver", "", "database driver: sqlite or postgres (overrides DB_DRIVER)")
	pf.StringVar(&o.dbDSN, "db-dsn", "", "database DSN (overrides DB_DSN)")
	pf.StringVar(&o.logLevel, "log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")
	pf.BoolVar(&o.memory, "memory", false, "keep the catalog in memory instead of a database")

	cmd.AddCommand(
		newServeCmd(o),
		newSeedCmd(o),
		newCheckCmd(o),
		newQuestionsCmd(o),
	)
	return cmd
}

// load resolves the effective config: environment, then the --config file,
// then flags. It also installs the process logger.
func (o *globalOpts) load() (config.Config, *slog.Logger, error) {
	cfg := config.FromEnv()
	if o.configPath != "" {
		var err error
		if cfg, err = config.LoadFile(o.configPath, cfg); err != nil {
			return cfg, nil, err
		}
	}
	if o.dbDriver != "" {
		cfg.DBDriver = o.dbDriver
	}
	if o.dbDSN != "" {
		cfg.DBDSN = o.dbDSN
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if err := config.Validate(cfg); err != nil {
		return cfg, nil, fmt.Errorf("invalid config:\n%w", err)
	}

	log := logging.New(cfg.LogLevel, cfg.LogFormat, nil)
	slog.SetDefault(log)
	return cfg, log, nil
}

// backend is the storage a command works against. db and subs are nil in
// memory mode.
type backend struct {
	store question.Store
	db    *sql.DB
	subs  *submission.Repo
}

func (o *globalOpts) open(ctx context.Context, cfg config.Config) (*backend, error) {
	if o.memory {
		return &backend{store: question.NewInMemoryStore()}, nil
	}
	driver, err := db.ParseDriver(cfg.DBDriver)
	if err != nil {
		return nil, err
	}
	dbh, err := db.Open(ctx, driver, cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}
	return &backend{
		store: question.NewSQLStore(dbh, driver),
		db:    dbh,
		subs:  submission.NewRepo(dbh),
	}, nil
}

func (b *backend) Close() error {
	if b.db == nil {
		return nil
	}
	return b.db.Close()
}
