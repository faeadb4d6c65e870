package app

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	// драйвер применения миграций postgres.
	_ "github.com/golang-migrate/migrate/v4/database/postgres" //nolint:revive
	// драйвер чтения миграций из файлов (*.sql в нашем случае).
	_ "github.com/golang-migrate/migrate/v4/source/file" //nolint:revive

	"github.com/fsdevblog/receipts/internal/config"
	"github.com/fsdevblog/receipts/internal/repository/pgrepo"
	"github.com/fsdevblog/receipts/internal/repository/repoargs"
	"github.com/fsdevblog/receipts/internal/service"
	"github.com/fsdevblog/receipts/internal/transport/api"
	"github.com/fsdevblog/receipts/pkg/uow"
)

type App struct {
	Config *config.Config
	Logger *logrus.Logger
}

func New(conf *config.Config, l *logrus.Logger) *App {
	return &App{
		Config: conf,
		Logger: l,
	}
}

func (a *App) Run() error {
	notifyCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.Logger.Infof("Starting app on %s (environment: %s)", a.Config.RunAddress, a.Config.Environment)
	conn, connErr := pgrepo.Connect(notifyCtx, a.Config.MigrationsDir, a.Config.DatabaseDSN, a.Logger)
	if connErr != nil {
		return fmt.Errorf("app run: %s", connErr.Error())
	}
	defer conn.Close()

	unitOfWork, uowErr := initUOW(conn)
	if uowErr != nil {
		return fmt.Errorf("app run: %s", uowErr.Error())
	}

	services, sErr := service.Factory(unitOfWork, service.FactoryArgs{
		JWTSecret:        []byte(a.Config.JWTUserSecret),
		ReceiptLineWidth: a.Config.ReceiptLineWidth,
	})
	if sErr != nil {
		return fmt.Errorf("app run: %s", sErr.Error())
	}

	adminEnabled := a.Config.Environment == config.EnvDev
	if adminEnabled {
		a.Logger.Warn("admin panel is enabled, never do this in production")
	}

	router := api.New(api.RouterArgs{
		Logger:       a.Logger,
		UserService:  services.UserService,
		CheckService: services.CheckService,
		JWTSecretKey: []byte(a.Config.JWTUserSecret),
		AdminEnabled: adminEnabled,
		AdminToken:   a.Config.AdminToken,
	})

	errChan := make(chan error, 1)

	go func() {
		if runErr := router.Run(a.Config.RunAddress); runErr != nil {
			errChan <- runErr
		}
	}()

	select {
	case <-notifyCtx.Done():
		return notifyCtx.Err() //nolint:wrapcheck
	case err := <-errChan:
		return err
	}
}

func initUOW(conn *pgxpool.Pool) (*uow.UnitOfWork, error) {
	unitOfWork := uow.NewUnitOfWork(conn)

	// user repo
	userRepoFactoryFn := func(dbtx uow.DBTX) uow.Repository {
		return pgrepo.NewUserRepository(dbtx)
	}
	if regErr := unitOfWork.Register(uow.RepositoryName(repoargs.UserRepoName), userRepoFactoryFn); regErr != nil {
		return nil, fmt.Errorf("init UOW: %s", regErr.Error())
	}

	// check repo
	checkRepoFactoryFn := func(dbtx uow.DBTX) uow.Repository {
		return pgrepo.NewCheckRepository(dbtx)
	}
	if regErr := unitOfWork.Register(uow.RepositoryName(repoargs.CheckRepoName), checkRepoFactoryFn); regErr != nil {
		return nil, fmt.Errorf("init UOW: %s", regErr.Error())
	}

	return unitOfWork, nil
}
