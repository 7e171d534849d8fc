package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/mazta/hr-master/internal/hr/auth"
	"github.com/mazta/hr-master/internal/hr/config"
	"github.com/mazta/hr-master/internal/hr/controller"
	"github.com/mazta/hr-master/internal/hr/db"
	"github.com/mazta/hr-master/internal/hr/dump"
	"github.com/mazta/hr-master/internal/hr/events"
	"github.com/mazta/hr-master/internal/hr/handlers"
	"github.com/mazta/hr-master/internal/hr/models"
	"github.com/mazta/hr-master/internal/hr/schema"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml")
	flag.Parse()

	logger := initLogger()
	defer func(logger *zap.Logger) {
		err := logger.Sync()
		if err != nil {
			logger.Error("failed to sync logger", zap.Error(err))
		}
	}(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	master, err := db.Connect(cfg.Master(), logger)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer master.Close()

	sink, err := dump.Connect(cfg.Dump().DSN())
	if err != nil {
		logger.Fatal("failed to initialize dump database", zap.Error(err))
	}
	defer sink.Close()

	var producer events.Producer = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		kp, err := events.NewProducer(cfg.KafkaBrokers, logger, cfg.Topic)
		if err != nil {
			logger.Fatal("failed to initialize Kafka producer", zap.Error(err))
		}
		defer kp.Close()
		producer = kp
	}

	server := handlers.NewServer(cfg.HTTPPort, verifier(cfg), logger)

	opts := controller.Options{
		DefaultPageSize: cfg.PageSize,
		MaxPageSize:     cfg.MaxPageSize,
		DefaultMaxDepth: cfg.MaxTreeDepth,
	}
	mount(server, "company", schema.Company, master, sink, producer, opts, logger,
		func() *models.Company { return &models.Company{} })
	mount(server, "unit", schema.Unit, master, sink, producer, opts, logger,
		func() *models.Unit { return &models.Unit{} })
	mount(server, "level", schema.Level, master, sink, producer, opts, logger,
		func() *models.Level { return &models.Level{} })
	mount(server, "employment-type", schema.EmploymentType, master, sink, producer, opts, logger,
		func() *models.EmploymentType { return &models.EmploymentType{} })
	mount(server, "shift", schema.Shift, master, sink, producer, opts, logger,
		func() *models.Shift { return &models.Shift{} })
	mount(server, "branch", schema.Branch, master, sink, producer, opts, logger,
		func() *models.Branch { return &models.Branch{} })
	mount(server, "employee", schema.Employee, master, sink, producer, opts, logger,
		func() *models.Employee { return &models.Employee{} })

	go waitForShutdown(server, logger)

	if err := server.Start(); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}

// verifier picks remote verification when an auth service is configured and
// falls back to local JWT validation otherwise.
func verifier(cfg *config.Config) auth.Verifier {
	if cfg.AuthService != "" {
		return auth.NewRemoteVerifier(cfg.AuthService)
	}
	return auth.JWTVerifier{Secret: cfg.JWTSecret}
}

// mount wires the store, service, and HTTP resource for one entity.
func mount[T models.Entity](
	server *handlers.Server,
	path string,
	sch *schema.Entity,
	master *db.DB,
	sink dump.Writer,
	producer events.Producer,
	opts controller.Options,
	logger *zap.Logger,
	newFn func() T,
) {
	store := db.NewStore(master, newFn)
	svc := controller.New(sch, store, sink, producer, opts, logger, newFn)
	server.Mount(path, handlers.NewResource(svc, logger))
}

// initLogger initializes a Zap production logger.
func initLogger() *zap.Logger {
	logger, _ := zap.NewProduction()
	return logger
}

// waitForShutdown blocks until an interrupt or SIGTERM is received, then
// shuts the server down.
func waitForShutdown(server *handlers.Server, logger *zap.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	server.Stop()
	logger.Info("Server stopped properly")
}
