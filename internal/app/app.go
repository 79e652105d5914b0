package app

import (
	"fmt"
	"net/http"

	"gorm.io/gorm"

	"expense-ledger-go/internal/config"
	"expense-ledger-go/internal/db"
	ledgerdomain "expense-ledger-go/internal/domain/ledger"
	"expense-ledger-go/internal/repository/inmemory"
	ledgerrepo "expense-ledger-go/internal/repository/ledger"
	"expense-ledger-go/internal/transport/httpserver"
	"expense-ledger-go/internal/transport/httpserver/handler"
	"expense-ledger-go/pkg/logger"
)

type App struct {
	cfg        config.Config
	log        logger.Logger
	httpServer *http.Server
	db         *gorm.DB
}

func New(bootLog logger.Logger) (*App, error) {
	bootLog.Info("app: loading config")
	cfg, err := config.Load(bootLog)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.NewFromSettings(cfg.LogLevel, cfg.LogFormat, cfg.Env)

	log.Info("app: initializing storage", "driver", cfg.DB.Driver)
	repo, dbConn, err := newRepository(cfg, log)
	if err != nil {
		return nil, err
	}

	service := ledgerdomain.NewServiceWithCache(repo, inmemory.NewCategoriesCache(), cfg.CategoriesCacheTTL)

	log.Info("app: initializing router")
	router := httpserver.NewRouter(cfg, handler.New(service, log.WithComponent("http")), log)

	log.Info("app: initializing http server")
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		log:        log,
		httpServer: srv,
		db:         dbConn,
	}, nil
}

func newRepository(cfg config.Config, log logger.Logger) (ledgerdomain.Repository, *gorm.DB, error) {
	switch cfg.DB.Driver {
	case config.DriverMemory:
		log.Warn("app: using in-memory storage, data is lost on exit")
		return inmemory.NewLedgerStore(), nil, nil

	case config.DriverSQLite:
		dbConn, err := db.NewSQLite(cfg.DB.SQLitePath, log)
		if err != nil {
			return nil, nil, err
		}
		if cfg.DB.AutoMigrate {
			if err := db.AutoMigrate(dbConn); err != nil {
				_ = db.Close(dbConn)
				return nil, nil, err
			}
		}
		return ledgerrepo.NewGorm(dbConn), dbConn, nil

	default:
		if cfg.DB.AutoMigrate {
			log.Info("app: applying migrations")
			if err := db.MigratePostgres(cfg.DB.GetDSN()); err != nil {
				return nil, nil, err
			}
		}
		dbConn, err := db.NewPostgres(cfg.DB, log)
		if err != nil {
			return nil, nil, err
		}
		return ledgerrepo.NewGorm(dbConn), dbConn, nil
	}
}

func (a *App) Config() config.Config {
	return a.cfg
}

func (a *App) Logger() logger.Logger {
	return a.log
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return db.Close(a.db)
}
