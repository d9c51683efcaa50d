package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"cross-chain-pool/config"
	httpHandler "cross-chain-pool/internal/adapter/http/handler"
	pgStorage "cross-chain-pool/internal/adapter/storage/postgres"
	redisStorage "cross-chain-pool/internal/adapter/storage/redis"
	"cross-chain-pool/internal/core/domain"
	"cross-chain-pool/internal/core/ports"
	"cross-chain-pool/internal/service"
	"cross-chain-pool/pkg/logger"

	"github.com/rs/zerolog"
)

// chainRuntime bundles everything one simulated chain needs at runtime.
type chainRuntime struct {
	cfg   config.ChainConfig
	state *service.ChainState
	bus   *service.EventBus
	swaps *service.SwapServiceImpl
	locks *service.LockServiceImpl
}

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Cross-Chain Pool")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// Initialize repositories and stores
	historyRepo := pgStorage.NewSwapHistoryRepo(pool)
	auditRepo := pgStorage.NewAuditRepository(pool)
	dedupStore := redisStorage.NewDedupStore(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Initialize core services
	hashSvc := service.NewBcryptHashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	operators := make([]domain.Operator, 0, len(cfg.Operators))
	for _, op := range cfg.Operators {
		operators = append(operators, domain.Operator{
			Username:     op.Username,
			PasswordHash: op.PasswordHash,
			Role:         domain.Role(op.Role),
			Address:      domain.Address(op.Address),
		})
	}
	authSvc := service.NewAuthService(operators, hashSvc, tokenSvc)
	auditSvc := service.NewAuditService(auditRepo, log)
	reportingSvc := service.NewReportingService(historyRepo)

	// Bring up each chain: event bus, ledger state, services, block ticker.
	names := make([]string, 0, len(cfg.Chains))
	for name := range cfg.Chains {
		names = append(names, name)
	}
	sort.Strings(names)

	runtimes := make([]*chainRuntime, 0, len(names))
	chainSvcs := make(map[string]httpHandler.ChainServices, len(names))
	sources := make([]ports.EventSource, 0, len(names))

	for _, name := range names {
		chainCfg := cfg.Chains[name]
		chainLog := logger.ForChain(log, name)
		bus := service.NewEventBus(chainLog)
		state := service.NewChainState(service.ChainParams{
			Name:         chainCfg.Name,
			NativeSymbol: chainCfg.NativeSymbol,
			InitialRate:  chainCfg.InitialRate,
			Owner:        domain.Address(chainCfg.Owner),
			Responder:    domain.Address(chainCfg.Responder),
		}, bus, chainLog)

		rt := &chainRuntime{
			cfg:   chainCfg,
			state: state,
			bus:   bus,
			swaps: service.NewSwapService(state, cfg.Swap, chainLog),
			locks: service.NewLockService(state, cfg.Swap, chainLog),
		}
		runtimes = append(runtimes, rt)
		sources = append(sources, bus)

		chainSvcs[name] = httpHandler.ChainServices{
			PoolSvc:  service.NewPoolService(state, chainLog),
			SwapSvc:  rt.swaps,
			LockSvc:  rt.locks,
			AdminSvc: service.NewAdminService(state, chainLog),
		}

		go runBlockTicker(ctx, state, chainCfg.BlockTime, chainLog)
	}

	// Persistent history index over both event streams
	recorder := service.NewHistoryRecorder(historyRepo, log)
	recorder.Start(ctx, sources...)
	defer recorder.Stop()

	// In-process relayer bridging the two chains
	if cfg.Relayer.Enabled {
		a, b := runtimes[0], runtimes[1]
		relayer := service.NewRelayer(
			relayerChain(a), relayerChain(b),
			dedupStore, cfg.Relayer, log,
		)
		relayer.Start(ctx)
		defer relayer.Stop()
		log.Info().Str("a", a.cfg.Name).Str("b", b.cfg.Name).Msg("relayer started")
	}

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		Chains:         chainSvcs,
		AuthSvc:        authSvc,
		TokenSvc:       tokenSvc,
		ReportingSvc:   reportingSvc,
		AuditSvc:       auditSvc,
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// relayerChain adapts one chain runtime into the relayer's view of it.
func relayerChain(rt *chainRuntime) *service.RelayerChain {
	return &service.RelayerChain{
		Name:      rt.cfg.Name,
		Events:    rt.bus,
		Swaps:     rt.swaps,
		Locks:     rt.locks,
		Height:    rt.state.Height,
		Responder: domain.Address(rt.cfg.Responder),
		BlockTime: rt.cfg.BlockTime,
	}
}

// runBlockTicker advances the chain height on the configured block interval.
func runBlockTicker(ctx context.Context, state *service.ChainState, blockTime time.Duration, log zerolog.Logger) {
	if blockTime <= 0 {
		blockTime = time.Second
	}
	ticker := time.NewTicker(blockTime)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h := state.AdvanceHeight()
			log.Debug().Str("chain", state.Name()).Int64("height", h).Msg("block")
		}
	}
}
