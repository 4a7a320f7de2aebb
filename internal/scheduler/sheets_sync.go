// Package scheduler contém os serviços de agendamento da aplicação
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/account-tracker-api/internal/config"
	"github.com/vfg2006/account-tracker-api/internal/usecases/syncing"
)

// SheetsSyncService agenda a execução periódica do espelhamento para a
// planilha. A serialização das execuções fica no próprio SyncService;
// aqui só disparamos e registramos o resultado.
type SheetsSyncService struct {
	scheduler   *gocron.Scheduler
	syncService syncing.SyncService
	config      config.SheetsSync
}

func NewSheetsSyncService(
	syncService syncing.SyncService,
	cfg *config.Config,
) *SheetsSyncService {
	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule": cfg.SheetsSync.CronSchedule,
		"enabled":       cfg.SheetsSync.Enabled,
	}).Info("Configuração do agendador de sync da planilha carregada")

	return &SheetsSyncService{
		scheduler:   scheduler,
		syncService: syncService,
		config:      cfg.SheetsSync,
	}
}

func (s *SheetsSyncService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("Cron de sync da planilha desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando cron de sync da planilha")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.RunNow(context.Background())
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar sync da planilha: %w", err)
	}

	// Executar o cron em uma goroutine separada
	s.scheduler.StartAsync()

	// Configurar o cancelamento do cron quando o contexto for cancelado
	go func() {
		<-ctx.Done()
		logrus.Info("Parando cron de sync da planilha")
		s.scheduler.Stop()
	}()

	return nil
}

// RunNow dispara uma execução imediata. Execuções sobrepostas são
// recusadas pelo SyncService, nunca enfileiradas.
func (s *SheetsSyncService) RunNow(ctx context.Context) {
	result, err := s.syncService.FullSync(ctx)
	if err != nil {
		if result != nil && result.AlreadyRunning {
			logrus.Warn("Sync da planilha ignorado: execução anterior ainda em andamento")
			return
		}
		logrus.WithError(err).Error("Erro na execução agendada do sync da planilha")
		return
	}

	logrus.WithFields(logrus.Fields{
		"sync_run_id": result.RunID,
		"total":       result.TotalSynced,
	}).Info("Execução agendada do sync da planilha concluída")
}
