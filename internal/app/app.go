package app

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sinargas/sinargas-backend/internal/config"
	"github.com/sinargas/sinargas-backend/internal/db"
	httpdelivery "github.com/sinargas/sinargas-backend/internal/delivery/http"
	authhandler "github.com/sinargas/sinargas-backend/internal/delivery/http/handler/auth"
	branchhandler "github.com/sinargas/sinargas-backend/internal/delivery/http/handler/branch"
	orderhandler "github.com/sinargas/sinargas-backend/internal/delivery/http/handler/order"
	stockhandler "github.com/sinargas/sinargas-backend/internal/delivery/http/handler/stock"
	trxhandler "github.com/sinargas/sinargas-backend/internal/delivery/http/handler/transaction"
	userhandler "github.com/sinargas/sinargas-backend/internal/delivery/http/handler/user"
	webhookhandler "github.com/sinargas/sinargas-backend/internal/delivery/http/handler/webhook"
	"github.com/sinargas/sinargas-backend/internal/delivery/middleware"
	"github.com/sinargas/sinargas-backend/internal/events"
	"github.com/sinargas/sinargas-backend/internal/gateway"
	"github.com/sinargas/sinargas-backend/internal/repository/postgres"
	"github.com/sinargas/sinargas-backend/internal/repository/redisstore"
	authuc "github.com/sinargas/sinargas-backend/internal/usecase/auth"
	branchuc "github.com/sinargas/sinargas-backend/internal/usecase/branch"
	orderuc "github.com/sinargas/sinargas-backend/internal/usecase/order"
	payuc "github.com/sinargas/sinargas-backend/internal/usecase/payment"
	stockuc "github.com/sinargas/sinargas-backend/internal/usecase/stock"
	useruc "github.com/sinargas/sinargas-backend/internal/usecase/user"
)

type App struct {
	cfg      config.Config
	log      *zap.Logger
	f        *fiber.App
	pool     *pgxpool.Pool
	redis    *redis.Client
	producer *events.Producer
	cancel   context.CancelFunc
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	rdb, err := redisstore.New(ctx, cfg.RedisAddr)
	if err != nil {
		pool.Close()
		return nil, err
	}

	// Event publishing is optional: without brokers the workflows get a nop
	// publisher and everything else behaves the same.
	runCtx, cancel := context.WithCancel(context.Background())
	var publisher events.Publisher = events.Nop{}
	var producer *events.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = events.NewProducer(cfg.KafkaBrokers, 256)
		producer.Start(runCtx)
		publisher = producer
	}

	otp := redisstore.NewOTPStore(rdb)
	tokens := redisstore.NewTokenStore(rdb)
	snap := gateway.NewSnapClient(cfg.MidtransBaseURL, cfg.MidtransServerKey)

	authUC := authuc.New(postgres.NewAuthRepo(pool), otp, tokens, cfg.JWTSecret, cfg.JWTExpiresMinutes, log)
	userUC := useruc.New(postgres.NewUserRepo(pool))
	branchUC := branchuc.New(postgres.NewBranchRepo(pool))
	stockUC := stockuc.New(postgres.NewStockRepo(pool))
	orderUC := orderuc.New(postgres.NewOrderRepo(pool), cfg.GasPrices, publisher)
	payUC := payuc.New(postgres.NewTransactionRepo(pool), snap, publisher, log)

	f := fiber.New(fiber.Config{
		AppName: "sinargas-backend",
	})
	f.Use(recover.New())
	f.Use(fiberlogger.New())
	f.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpdelivery.RegisterRoutes(f, middleware.NewAuth(cfg.JWTSecret, tokens), httpdelivery.Handlers{
		Auth:        authhandler.New(authUC),
		Branch:      branchhandler.New(branchUC),
		User:        userhandler.New(userUC),
		Stock:       stockhandler.New(stockUC),
		Order:       orderhandler.New(orderUC, payUC),
		Transaction: trxhandler.New(payUC),
		Webhook:     webhookhandler.New(payUC, cfg.MidtransServerKey, log),
	})

	return &App{
		cfg:      cfg,
		log:      log,
		f:        f,
		pool:     pool,
		redis:    rdb,
		producer: producer,
		cancel:   cancel,
	}, nil
}

func (a *App) Run() error {
	a.log.Info("listening", zap.String("port", a.cfg.Port))
	return a.f.Listen(":" + a.cfg.Port)
}

// Shutdown stops the listener, flushes the event producer and releases the
// connection pools.
func (a *App) Shutdown(ctx context.Context) error {
	err := a.f.ShutdownWithContext(ctx)

	a.cancel()
	if a.producer != nil {
		a.producer.WaitClosed()
	}
	a.pool.Close()
	if cerr := a.redis.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
