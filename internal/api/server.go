package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/account-tracker-api/internal/api/handler"
	"github.com/vfg2006/account-tracker-api/internal/api/handler/router"
	"github.com/vfg2006/account-tracker-api/internal/config"
	"github.com/vfg2006/account-tracker-api/internal/usecases/account"
	"github.com/vfg2006/account-tracker-api/internal/usecases/authenticating"
	"github.com/vfg2006/account-tracker-api/internal/usecases/dashboarding"
	"github.com/vfg2006/account-tracker-api/internal/usecases/engagement"
	"github.com/vfg2006/account-tracker-api/internal/usecases/pipeline"
	"github.com/vfg2006/account-tracker-api/internal/usecases/syncing"
	"github.com/vfg2006/account-tracker-api/pkg/middleware"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Server struct {
	httpServer *http.Server
}

func New(
	config *config.Config,
	accountService account.AccountService,
	engagementService engagement.EngagementService,
	pipelineService pipeline.PipelineService,
	dashboardService dashboarding.DashboardService,
	syncService syncing.SyncService,
	authenticator authenticating.Authenticator,
) (*Server, error) {
	rt := router.New(
		router.WithRoutes(handler.Healthcheck()...),
		router.WithRoutes(handler.Authentication(authenticator)...),
		router.WithRoutes(handler.User(authenticator)...),
		router.WithRoutes(handler.Accounts(accountService)...),
		router.WithRoutes(handler.Contacts(accountService)...),
		router.WithRoutes(handler.Engagement(engagementService)...),
		router.WithRoutes(handler.Tasks(engagementService)...),
		router.WithRoutes(handler.Deals(pipelineService)...),
		router.WithRoutes(handler.Dashboard(dashboardService)...),
		router.WithRoutes(handler.Sync(syncService)...),
	)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(),
		middleware.AuthMiddleware(authenticator),
	}

	handler := alice.New(middlewares...).Then(rt)

	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
			Handler:           handler,
			ReadHeaderTimeout: 2 * time.Second,
		},
	}

	return srv, nil
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		logrus.WithFields(logrus.Fields{
			"address": s.httpServer.Addr,
		}).Info("Servidor iniciando")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("Erro durante a execução do servidor")
		}
	}()

	// Canal para aguardar sinais de término
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		logrus.Info("Sinal de interrupção recebido")
	case <-ctx.Done():
		logrus.Info("Contexto de aplicação cancelado")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logrus.WithFields(logrus.Fields{
		"timeout": "15s",
	}).Info("Iniciando desligamento gracioso do servidor")

	if err := s.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Erro durante o desligamento do servidor")
		return err
	}

	logrus.Info("Servidor desligado com sucesso")
	return nil
}

func (s Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}

	logrus.Info("Servidor HTTP desligado com sucesso")
	return nil
}
