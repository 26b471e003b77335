package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clementus360/focusflow/config"
	"clementus360/focusflow/handlers"
	"clementus360/focusflow/llm"
	"clementus360/focusflow/memstore"
	"clementus360/focusflow/middleware"
	"clementus360/focusflow/planner"
	"clementus360/focusflow/routes"
	"clementus360/focusflow/seed"
	"clementus360/focusflow/sqlite"
	"clementus360/focusflow/supabase"
	"clementus360/focusflow/telemetry"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCmd() *cobra.Command {
	var (
		addr string
		demo bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnv()
			config.InitLogger()

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("demo") {
				cfg.Seed.Demo = demo
			}
			if err := config.ConfigureLogger(cfg.Log); err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return serve(ctx, cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&demo, "demo", false, "load the demo workspace on startup")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	if err := telemetry.Init(ctx, telemetry.Settings{
		Enabled:      cfg.Telemetry.Enabled,
		Stdout:       cfg.Telemetry.Stdout,
		OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
		Version:      Version,
	}); err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		telemetry.Shutdown(shutdownCtx)
	}()

	store, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	plan := planner.New(store, planner.Options{
		ForbidCycles:         cfg.Graph.ForbidCycles,
		ClearRedoOnNewAction: cfg.History.ClearRedoOnNewAction,
		HistoryDepth:         cfg.History.MaxDepth,
		Logger:               config.Logger.WithField("component", "planner"),
	})

	if err := seedStore(ctx, plan, cfg); err != nil {
		return err
	}

	gen, err := llm.NewGenerator(llm.ProviderConfig{
		Provider: llm.Provider(cfg.AI.Provider),
		Model:    cfg.AI.Model,
		APIKey:   cfg.AI.APIKey(),
	})
	if errors.Is(err, llm.ErrAPIKeyRequired) {
		config.Logger.Warnf("No API key for %s, AI breakdowns will use the mock plan", cfg.AI.Provider)
		gen = nil
	} else if err != nil {
		return err
	}

	api := &handlers.API{
		Planner: plan,
		AI: llm.NewBreakdowner(gen, llm.BreakdownOptions{
			Timeout:    cfg.AI.Timeout,
			MaxRetries: cfg.AI.MaxRetries,
			Logger:     config.Logger.WithField("component", "ai"),
		}),
	}

	mux := http.NewServeMux()
	routes.RegisterAllRoutes(mux, api)

	handler := middleware.Chain(
		middleware.Recover,
		middleware.Logging,
		middleware.CORS(cfg.Server.FrontendURL),
		middleware.Auth(supabase.Authenticator{
			Secret:      cfg.Auth.JWTSecret,
			Required:    cfg.Auth.Required,
			DefaultUser: cfg.Auth.DefaultUser,
		}, "/api/health"),
	)(mux)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		fmt.Println(passStyle.Render("✓ focusflow listening on " + cfg.Server.Addr))
		config.Logger.WithFields(logrus.Fields{
			"addr":    cfg.Server.Addr,
			"storage": cfg.Storage.Driver,
			"ai":      cfg.AI.Provider,
		}).Info("Server is running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		config.Logger.Info("Shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func openStore(cfg *config.Config) (planner.Store, func(), error) {
	switch cfg.Storage.Driver {
	case "sqlite":
		s, err := sqlite.Open(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return s, func() {
			if err := s.Close(); err != nil {
				config.Logger.Warn("Failed to close sqlite store: ", err)
			}
		}, nil
	case "supabase":
		client, err := supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.Key)
		if err != nil {
			return nil, nil, err
		}
		return supabase.NewStore(client), func() {}, nil
	default:
		return memstore.New(), func() {}, nil
	}
}

func seedStore(ctx context.Context, plan *planner.Planner, cfg *config.Config) error {
	fixture, err := seed.Demo()
	if err != nil {
		return err
	}
	n, err := seed.EnsureProjects(ctx, plan, fixture, cfg.Auth.DefaultUser)
	if err != nil {
		return err
	}
	if n > 0 {
		config.Logger.Infof("Loaded %d projects", n)
	}
	if !cfg.Seed.Demo {
		return nil
	}
	n, err = seed.LoadTasks(ctx, plan, fixture, plan.Today())
	if err != nil {
		return err
	}
	config.Logger.Infof("Loaded %d demo tasks", n)
	return nil
}
