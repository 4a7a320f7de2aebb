package main

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/account-tracker-api/infrastructure/database"
	"github.com/vfg2006/account-tracker-api/infrastructure/integrator/sheets"
	"github.com/vfg2006/account-tracker-api/infrastructure/migration"
	"github.com/vfg2006/account-tracker-api/infrastructure/repository"
	"github.com/vfg2006/account-tracker-api/internal/api"
	"github.com/vfg2006/account-tracker-api/internal/config"
	"github.com/vfg2006/account-tracker-api/internal/scheduler"
	"github.com/vfg2006/account-tracker-api/internal/usecases/account"
	"github.com/vfg2006/account-tracker-api/internal/usecases/authenticating"
	"github.com/vfg2006/account-tracker-api/internal/usecases/dashboarding"
	"github.com/vfg2006/account-tracker-api/internal/usecases/engagement"
	"github.com/vfg2006/account-tracker-api/internal/usecases/pipeline"
	"github.com/vfg2006/account-tracker-api/internal/usecases/syncing"
	"github.com/vfg2006/account-tracker-api/pkg/log"
)

func main() {
	log.Setup()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conn := dbconn(ctx, cfg.Database)
	defer conn.Close()

	if err := migration.Init(ctx, conn); err != nil {
		logrus.WithError(err).Fatal("Erro ao inicializar o schema do banco")
	}

	if cfg.Seed.SeedOnStartup {
		if err := migration.Seed(ctx, conn); err != nil {
			logrus.WithError(err).Fatal("Erro ao semear as contas iniciais")
		}
	}

	accountRepo := repository.NewAccountRepository(conn)
	contactRepo := repository.NewContactRepository(conn)
	activityRepo := repository.NewActivityRepository(conn)
	noteRepo := repository.NewNoteRepository(conn)
	taskRepo := repository.NewTaskRepository(conn)
	touchRepo := repository.NewTouchRepository(conn)
	dealRepo := repository.NewDealRepository(conn)
	userRepo := repository.NewUserRepository(conn)

	authenticator := authenticating.NewService(userRepo, cfg)

	sheetsIntegrator := sheets.New(cfg)

	accountService := account.NewService(accountRepo, dealRepo, contactRepo)
	engagementService := engagement.NewService(
		conn,
		accountRepo,
		activityRepo,
		noteRepo,
		taskRepo,
		touchRepo,
	)
	pipelineService := pipeline.NewService(accountRepo, dealRepo)
	dashboardService := dashboarding.NewService(
		accountRepo,
		activityRepo,
		taskRepo,
		dealRepo,
		touchRepo,
	)
	syncService := syncing.NewService(
		activityRepo,
		taskRepo,
		noteRepo,
		dealRepo,
		sheetsIntegrator,
	)

	sheetsSyncService := scheduler.NewSheetsSyncService(syncService, cfg)
	if err := sheetsSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de sync da planilha")
	}

	server, err := api.New(
		cfg,
		accountService,
		engagementService,
		pipelineService,
		dashboardService,
		syncService,
		authenticator,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// dbconn cria a conexão com o banco configurado (postgres ou sqlite)
func dbconn(ctx context.Context, dbConfig config.Database) *database.Connection {
	conn, err := database.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao banco de dados")
	}

	logrus.WithField("driver", dbConfig.Driver).Info("Conexão com o banco estabelecida com sucesso")
	return conn
}
