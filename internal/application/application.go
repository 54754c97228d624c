package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"share_market/internal/config"
	"share_market/internal/domain/service/interest"
	"share_market/internal/domain/service/listing"
	"share_market/internal/domain/service/settlement"
	"share_market/internal/infrastructure/notifier"
	"share_market/internal/infrastructure/persistence"
	"share_market/internal/server"
	"share_market/internal/worker"
	"share_market/pkg/application/connectors"
	"share_market/pkg/application/modules"
	"share_market/pkg/contextx"
	"share_market/pkg/logx"
	"share_market/pkg/middlewarex"
)

const logFieldMaxLen = 4096

func Run(ctx context.Context, log *slog.Logger) error {
	ctx = contextx.WithLogger(ctx, log)

	// 1. Config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load: %w", err)
	}

	// 2. Database
	pg := &connectors.Postgres{
		DSN:             cfg.Postgres.DSN,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	}
	db := pg.Client(ctx)
	defer pg.Close(ctx)

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("db ping: %w", err)
	}
	log.Info("database connection OK")

	// 3. Redis
	rd := &connectors.Redis{
		Address:            cfg.Redis.Address,
		Username:           cfg.Redis.Username,
		Password:           cfg.Redis.Password,
		DatabaseNumber:     cfg.Redis.DatabaseNumber,
		PoolSize:           cfg.Redis.PoolSize,
		MinIdleConnections: cfg.Redis.MinIdleConnections,
		MaxIdleConnections: cfg.Redis.MaxIdleConnections,
	}
	redisClient := rd.Client(ctx)
	defer rd.Close(ctx)

	// 4. Repositories
	shareRepo := persistence.NewShareRepository(db)
	sellRepo := persistence.NewSellRepository(db)
	bidRepo := persistence.NewBidRepository(db)
	bookingRepo := persistence.NewBookingRepository(db)
	buyQueryRepo := persistence.NewBuyQueryRepository(db)
	transactionRepo := persistence.NewTransactionRepository(db)
	dealRepo := persistence.NewDealRepository(db)

	// 5. Notifications
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Address,
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DatabaseNumber,
	})
	defer func() {
		if err := asynqClient.Close(); err != nil {
			log.Error("asynqClient.Close", logx.Error(err))
		}
	}()

	events := notifier.NewAsynqNotifier(asynqClient)

	alertBot, err := notifier.NewTelegramBot(cfg.Bot.Token, cfg.Bot.ChatID)
	if err != nil {
		return fmt.Errorf("notifier bot: %w", err)
	}

	// 6. Services
	listingService := listing.NewService(shareRepo, sellRepo, events)
	interestService := interest.NewService(sellRepo, bidRepo, bookingRepo, buyQueryRepo, events)
	settlementService := settlement.NewService(dealRepo, transactionRepo, sellRepo)

	// 7. HTTP router
	var masker logx.SensitiveDataMaskerInterface = logx.NewSensitiveDataMasker()
	if !cfg.App.LogMasking {
		masker = logx.NewNopSensitiveDataMasker()
	}

	router := chi.NewRouter()
	router.Use(
		middlewarex.Recovery,
		middlewarex.TraceID,
		middlewarex.Logger,
		middlewarex.RequestLogging(masker, logFieldMaxLen),
		middlewarex.ResponseLogging(masker, logFieldMaxLen),
	)

	srv := server.NewServer(
		server.NewSellServer(listingService),
		server.NewInterestServer(interestService),
		server.NewSettlementServer(settlementService),
	)
	srv.RegisterRoutes(router)

	// 8. Modules
	g, ctx := errgroup.WithContext(ctx)

	modules.HTTPServer{ShutdownTimeout: cfg.Server.ShutdownTimeout}.Run(ctx, g, &http.Server{
		Addr:         cfg.Server.HTTPAddress,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	modules.ProbeServer{
		Name:          cfg.App.Name,
		Version:       cfg.App.Version,
		ListenAddress: cfg.Server.ProbeAddress,
	}.Run(ctx, g)

	modules.MetricServer{ListenAddress: cfg.Server.MetricsAddress}.Run(ctx, g)

	notifyWorker := worker.NewNotifyWorker(alertBot, redisClient)
	modules.AsynqServer{
		RedisUsername: cfg.Redis.Username,
		RedisPassword: cfg.Redis.Password,
		RedisAddress:  cfg.Redis.Address,
		RedisDB:       cfg.Redis.DatabaseNumber,
	}.Run(ctx, g,
		modules.AsynqQueues{notifier.QueueNotifications: 1},
		notifyWorker.Handlers()...,
	)

	log.Info("application started", slog.String("version", cfg.App.Version))

	if err := g.Wait(); err != nil {
		return fmt.Errorf("g.Wait: %w", err)
	}

	log.Info("application stopped")

	return nil
}
