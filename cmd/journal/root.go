package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"trade-journal/internal/config"
	"trade-journal/internal/journal"
	"trade-journal/internal/storage"
	"trade-journal/internal/storage/memory"
	"trade-journal/internal/storage/migrations"
	pgstore "trade-journal/internal/storage/postgres"
)

// app carries state shared by every subcommand.
type app struct {
	v   *viper.Viper
	cfg *config.Config
}

func newRootCommand() *cobra.Command {
	a := &app{v: config.New()}

	cmd := &cobra.Command{
		Use:          "journal",
		Short:        "Trading journal: one entry per trade, grouped by day.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnvFile(".env")
			cfg, err := config.Load(a.v)
			if err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("postgres-dsn", "", "PostgreSQL connection string")
	flags.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL")
	flags.String("user-id", "", "Identity the session signs in as")
	flags.String("user-name", "", "Display name of the user")
	flags.String("timezone", "", "IANA time zone defining \"today\" (default: process time zone)")
	for key, name := range map[string]string{
		config.KeyPostgresDSN: "postgres-dsn",
		config.KeyUseMemory:   "use-memory",
		config.KeyUserID:      "user-id",
		config.KeyUserName:    "user-name",
		config.KeyTimezone:    "timezone",
	} {
		_ = a.v.BindPFlag(key, flags.Lookup(name))
	}

	addServe(cmd, a)
	addMigrate(cmd, a)
	addEntries(cmd, a)
	addShow(cmd, a)
	addAdd(cmd, a)
	addAppend(cmd, a)
	addSave(cmd, a)
	addDelete(cmd, a)
	return cmd
}

// stores holds the store implementations selected by the configuration.
type stores struct {
	entries storage.EntryStore
	prefs   storage.PreferenceStore
}

// openStores connects the configured backend. Postgres schemas are migrated
// when migrate is set.
func (a *app) openStores(ctx context.Context, migrate bool) (*stores, func(), error) {
	if a.cfg.UseMemory {
		return &stores{
			entries: memory.NewEntryStore(),
			prefs:   memory.NewPreferenceStore(),
		}, func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, a.cfg.PostgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if migrate {
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	return &stores{
		entries: pgstore.NewEntryStore(pool),
		prefs:   pgstore.NewPreferenceStore(pool),
	}, pool.Close, nil
}

// newSession builds a signed-out session over st in loc.
func newSession(st *stores, loc *time.Location, logger *log.Logger) *journal.Session {
	return journal.NewSession(journal.Options{
		Entries:     st.entries,
		Preferences: st.prefs,
		Location:    loc,
		Logger:      logger,
	})
}

// startSession opens the stores and signs the configured user in.
func (a *app) startSession(ctx context.Context) (*journal.Session, func(), error) {
	if err := a.cfg.Validate(); err != nil {
		return nil, nil, err
	}

	loc, err := a.cfg.Location()
	if err != nil {
		return nil, nil, err
	}

	st, cleanup, err := a.openStores(ctx, false)
	if err != nil {
		return nil, nil, err
	}

	logger := log.New(os.Stderr, "[journal] ", log.LstdFlags|log.Lshortfile)
	sess := newSession(st, loc, logger)
	if err := sess.Start(ctx, a.cfg.User()); err != nil {
		cleanup()
		return nil, nil, err
	}
	return sess, cleanup, nil
}
