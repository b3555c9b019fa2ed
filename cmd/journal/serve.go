package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"trade-journal/internal/api"
	"trade-journal/internal/config"
	"trade-journal/internal/identity"
	"trade-journal/internal/journal"
	"trade-journal/internal/observability"
)

func addServe(topLevel *cobra.Command, a *app) {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the journal HTTP API.",
		Example: `
journal serve --use-memory --user-id me
JOURNAL_POSTGRES_DSN=postgres://localhost/journal journal serve --http-addr :9000
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.cfg.UseMemory && a.cfg.PostgresDSN == "" {
				return errors.New("postgres_dsn is required (use --use-memory for in-memory storage)")
			}
			loc, err := a.cfg.Location()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)
			sessionLogger := log.New(os.Stdout, "[session] ", log.LstdFlags|log.Lshortfile)

			st, cleanup, err := a.openStores(ctx, true)
			if err != nil {
				return err
			}
			defer cleanup()

			sessions := api.NewSessions(func() *journal.Session {
				return newSession(st, loc, sessionLogger)
			})

			// the configured user, if any, is served to requests without a user header
			if u := a.cfg.User(); u != nil {
				def := newSession(st, loc, sessionLogger)
				sessions.SetDefault(def)
				provider := identity.NewStatic(u)
				go func() {
					if err := def.Bind(ctx, provider); err != nil && !errors.Is(err, context.Canceled) {
						logger.Printf("identity binding stopped: %v", err)
					}
				}()
			}

			srv := api.NewServer(api.Config{Addr: a.cfg.HTTPAddr}, api.Options{
				Sessions:       sessions,
				Preferences:    st.prefs,
				MetricsHandler: observability.Handler(),
				Logger:         logger,
			})

			if err := srv.Run(ctx); err != nil {
				return err
			}
			logger.Println("Shutdown complete")
			return nil
		},
	}

	cmd.Flags().String("http-addr", ":8080", "HTTP listen address")
	_ = a.v.BindPFlag(config.KeyHTTPAddr, cmd.Flags().Lookup("http-addr"))

	topLevel.AddCommand(cmd)
}

func addMigrate(topLevel *cobra.Command, a *app) {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded PostgreSQL migrations.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.UseMemory {
				return errors.New("migrate needs PostgreSQL, not --use-memory")
			}
			if a.cfg.PostgresDSN == "" {
				return errors.New("postgres_dsn is required")
			}
			_, cleanup, err := a.openStores(cmd.Context(), true)
			if err != nil {
				return err
			}
			cleanup()
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}
