package main

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/openride/openride/internal/pkg/config"
	"github.com/openride/openride/internal/pkg/database"
	"github.com/openride/openride/internal/pkg/health"
	"github.com/openride/openride/internal/pkg/logger"
	"github.com/openride/openride/internal/pkg/nsq"
	"github.com/openride/openride/internal/pkg/server"
	pkgws "github.com/openride/openride/internal/pkg/websocket"
	"github.com/openride/openride/services/drivers"
	driversgw "github.com/openride/openride/services/drivers/gateway"
	driversrepo "github.com/openride/openride/services/drivers/repository"
	driversuc "github.com/openride/openride/services/drivers/usecase"
	"github.com/openride/openride/services/match"
	matchrepo "github.com/openride/openride/services/match/repository"
	matchuc "github.com/openride/openride/services/match/usecase"
	realtimews "github.com/openride/openride/services/realtime/websocket"
	"github.com/openride/openride/services/rides"
	ridesgw "github.com/openride/openride/services/rides/gateway"
	ridesrepo "github.com/openride/openride/services/rides/repository"
	ridesuc "github.com/openride/openride/services/rides/usecase"
)

func main() {
	cfg := config.InitConfig(".env")

	appLogger := logger.NewAppLogger(cfg.Logger.Level)
	logger.SetGlobalLogger(appLogger)

	logger.Info("starting openride",
		logger.String("environment", cfg.App.Environment),
		logger.String("version", cfg.App.Version))

	// Ride repository: postgres when configured, otherwise in-memory.
	var rideRepo rides.RideRepo
	if cfg.Database.Host != "" {
		db, err := database.NewPostgresDB(cfg.Database)
		if err != nil {
			logger.Fatal("failed to connect to postgres", logger.Err(err))
		}
		defer db.Close()
		rideRepo = ridesrepo.NewPostgresRideRepo(db)
	} else {
		logger.Warn("no database configured, using in-memory ride store")
		rideRepo = ridesrepo.NewMemoryRideRepo()
	}

	// Presence and candidate repositories: redis when configured.
	var presenceRepo drivers.PresenceRepo
	var candidateRepo match.CandidateRepo
	if cfg.Redis.Host != "" {
		redisClient, err := database.NewRedisClient(cfg.Redis)
		if err != nil {
			logger.Fatal("failed to connect to redis", logger.Err(err))
		}
		defer redisClient.Close()
		presenceRepo = driversrepo.NewRedisPresenceRepo(redisClient)
		candidateRepo = matchrepo.NewRedisCandidateRepo(redisClient)
	} else {
		logger.Warn("no redis configured, using in-memory driver directory")
		presenceRepo = driversrepo.NewMemoryPresenceRepo()
		candidateRepo = matchrepo.NewMemoryCandidateRepo()
	}

	// Lifecycle event stream: disabled without an NSQ address.
	var producer *nsq.Producer
	if cfg.NSQ.Address != "" {
		p, err := nsq.NewProducer(cfg.NSQ.Address)
		if err != nil {
			logger.Fatal("failed to connect to NSQ", logger.Err(err))
		}
		producer = p
	}

	rideUC := ridesuc.NewRideUC(rideRepo, ridesgw.NewRideGW(producer))
	driverUC := driversuc.NewDriverUC(presenceRepo, driversgw.NewDriverGW(producer))

	wsManager := pkgws.NewManager(cfg.JWT)
	notifier := realtimews.NewDispatchNotifier(wsManager)
	matchUC := matchuc.NewMatchUC(driverUC, candidateRepo, notifier, cfg.Match.SearchRadiusMeters)

	gateway := realtimews.NewGateway(wsManager, rideUC, driverUC, matchUC)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	e.GET("/health", health.NewHandler(cfg.App.Name, cfg.App.Version))
	e.GET("/ws", gateway.HandleWebSocket)

	srv := server.NewGracefulServer(e, cfg.Server.Port, time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	if producer != nil {
		srv.RegisterCleanup(func(ctx context.Context) error {
			producer.Stop()
			return nil
		})
	}

	if err := srv.Start(); err != nil {
		logger.Fatal("server exited with error", logger.Err(err))
	}
}
