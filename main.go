package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"finplan-agent/config"
	"finplan-agent/domain"
	httpLayer "finplan-agent/http"
	"finplan-agent/repository"
	"finplan-agent/service"
)

func main() {
	root := &cobra.Command{
		Use:   "finplan-agent",
		Short: "Turn-based financial planning assistant",
	}

	var cfgPath string
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file")

	root.AddCommand(serveCmd(&cfgPath), chatCmd(&cfgPath))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	engine   *service.Engine
	plans    *service.PlanManager
	contexts repository.ContextStore
}

func buildApp(cfgPath string) (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	catalog := repository.NewStaticCatalog()
	var rates repository.RateSource = repository.NewStaticRates()
	var planStore repository.PlanStore = repository.NewPlanStoreMemory()
	var contexts repository.ContextStore = repository.NewContextStoreMemory()

	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		planStore = repository.NewPlanStoreRedis(client)
		contexts = repository.NewContextStoreRedis(client)
		rates = repository.NewCachedRateSource(rates, repository.NewRedisCache(client), time.Hour, logger)
		logger.Info("using redis persistence", zap.String("addr", cfg.Redis.Addr))
	} else {
		rates = repository.NewCachedRateSource(rates, repository.NewMockCache(), time.Hour, logger)
	}

	var enhancer service.ResponseEnhancer = service.NopEnhancer{}
	if cfg.Enhancer.APIKey != "" {
		enhancer = service.NewLLMEnhancer(cfg.Enhancer, logger)
		logger.Info("response enhancer enabled", zap.String("model", cfg.Enhancer.Model))
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		engine:   service.NewEngine(catalog, rates, planStore, enhancer, logger),
		plans:    service.NewPlanManager(planStore, logger),
		contexts: contexts,
	}, nil
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, err
		}
		cfg.Level = lvl
	}
	return cfg.Build()
}

func serveCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(*cfgPath)
			if err != nil {
				return err
			}
			defer a.logger.Sync()
			return runServer(a)
		},
	}
}

func runServer(a *app) error {
	serializer := httpLayer.NewTurnSerializer()
	defer serializer.Stop()

	rateLimiter := httpLayer.NewRateLimiter(a.cfg.RateLimit.RequestsPerMinute)
	defer rateLimiter.Stop()

	chatHandler := httpLayer.NewChatHandler(a.engine, a.contexts, serializer, a.logger)
	plansHandler := httpLayer.NewPlansHandler(a.plans, a.logger)

	mux := http.NewServeMux()
	mux.Handle("/chat",
		httpLayer.RateLimitMiddleware(rateLimiter, http.HandlerFunc(chatHandler.Chat)))
	mux.Handle("/plans",
		httpLayer.RateLimitMiddleware(rateLimiter, http.HandlerFunc(plansHandler.List)))
	mux.Handle("/plans/",
		httpLayer.RateLimitMiddleware(rateLimiter, http.HandlerFunc(plansHandler.Delete)))
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:         a.cfg.Server.Addr,
		Handler:      mux,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
		IdleTimeout:  a.cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		a.logger.Info("listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case <-quit:
		a.logger.Info("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		a.logger.Error("shutdown error", zap.Error(err))
		return err
	}
	a.logger.Info("server exited")
	return nil
}

func chatCmd(cfgPath *string) *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the assistant on stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(*cfgPath)
			if err != nil {
				return err
			}
			defer a.logger.Sync()
			return runREPL(a, userID)
		},
	}
	cmd.Flags().StringVar(&userID, "user", "local", "conversation user id")
	return cmd
}

func runREPL(a *app, userID string) error {
	ctx := context.Background()
	cc, err := a.contexts.Load(ctx, userID)
	if err != nil {
		cc = &domain.ConversationContext{}
	}

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("Type a message, or \"quit\" to exit.")
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}

		resp := a.engine.ProcessMessage(ctx, userID, line, cc)
		fmt.Println(resp.Text)
		fmt.Println()

		if err := a.contexts.Save(ctx, userID, cc); err != nil {
			a.logger.Warn("saving context failed", zap.Error(err))
		}
	}
	return scanner.Err()
}
