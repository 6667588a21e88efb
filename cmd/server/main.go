package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/quizwire/quizwire/internal/config"
	"github.com/quizwire/quizwire/internal/database"
	"github.com/quizwire/quizwire/internal/history"
	"github.com/quizwire/quizwire/internal/migrations"
	"github.com/quizwire/quizwire/internal/server"
	"github.com/quizwire/quizwire/internal/status"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newCmd(stdout io.Writer) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "quizwire-server",
		Short:         "Hosts one networked trivia match and reports the standings.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), stdout, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to the match configuration file (json)")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func run(ctx context.Context, stdout io.Writer, configPath string) error {
	envCfg, err := config.LoadEnv()
	if err != nil {
		return fmt.Errorf("loading environment: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: envCfg.LogLevel,
	}))

	match, err := config.LoadMatch(configPath)
	if err != nil {
		return fmt.Errorf("loading match config: %w", err)
	}

	// --- History archive (optional) ---
	var opts []server.Option
	var archive status.Archive
	checks := map[string]status.Checker{}
	if envCfg.HistoryDB != "" {
		db, err := database.Open(ctx, envCfg.HistoryDB)
		if err != nil {
			return fmt.Errorf("connecting to history db: %w", err)
		}
		defer db.Close()

		if err := migrations.Run(db); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		logger.Info("history archive enabled", "path", envCfg.HistoryDB)

		store := history.NewStore(db)
		opts = append(opts, server.WithRecorder(store))
		archive = store
		checks["history"] = store
	}

	// --- Match engine ---
	srv := server.New(match, logger, opts...)
	if err := srv.Listen(); err != nil {
		return err
	}

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)
	matchCtx, matchDone := context.WithCancel(gctx)
	defer matchDone()

	g.Go(func() error {
		defer matchDone()
		err := srv.Run(matchCtx)
		if errors.Is(err, server.ErrMatchAborted) {
			// A handshake violation tears the match down but is a clean
			// exit for the process.
			logger.Warn("match aborted on invalid handshake")
			return nil
		}
		return err
	})

	if envCfg.StatusAddr != "" {
		statusSrv := status.New(envCfg.StatusAddr, logger, srv, archive, checks)
		g.Go(func() error {
			return statusSrv.Run(matchCtx)
		})
		g.Go(func() error {
			<-matchCtx.Done()
			logger.Info("shutting down status api")
			return statusSrv.Shutdown(context.Background())
		})
	}

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
