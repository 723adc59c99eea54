package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/consciouscart/brandcheck/internal/agent"
	"github.com/consciouscart/brandcheck/internal/config"
	"github.com/consciouscart/brandcheck/internal/store"
	"github.com/consciouscart/brandcheck/pkg/anthropic"
	"github.com/consciouscart/brandcheck/pkg/search"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "brandcheck",
	Short: "Cruelty-free brand verification",
	Long:  "Verifies cosmetics brands against a local database and the web, classifies confidence, and recommends cruelty-free alternatives.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// env bundles the backends a command needs.
type env struct {
	Store  store.Store
	Search search.Client
	Agent  *agent.Agent
}

func (e *env) Close() {
	if err := e.Store.Close(); err != nil {
		zap.L().Warn("close store", zap.Error(err))
	}
}

// openStore opens the configured database backend and runs migrations
// and seeding.
func openStore(ctx context.Context) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch cfg.Store.Driver {
	case "postgres":
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		st, err = store.NewSQLite(cfg.Store.Path)
	}
	if err != nil {
		return nil, err
	}

	if err := store.Initialize(ctx, st, cfg.Seed.Path); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

// initEnv builds the full agent environment. With offline true, or no
// search key configured, web searches use the canned mock backend.
func initEnv(ctx context.Context, offline bool) (*env, error) {
	st, err := openStore(ctx)
	if err != nil {
		return nil, err
	}

	var sc search.Client
	if offline || cfg.Search.Key == "" {
		sc = search.NewMock()
	} else {
		sc = search.NewClient(cfg.Search.Key,
			search.WithBaseURL(cfg.Search.BaseURL),
			search.WithModel(cfg.Search.Model),
		)
	}

	oracle := anthropic.NewClient(cfg.Anthropic.Key)

	ag := agent.New(oracle, st, sc,
		agent.WithModel(cfg.Anthropic.Model),
		agent.WithMaxTurns(cfg.Agent.MaxTurns),
		agent.WithSearchTimeout(time.Duration(cfg.Agent.SearchTimeoutSecs)*time.Second),
	)

	return &env{Store: st, Search: sc, Agent: ag}, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
