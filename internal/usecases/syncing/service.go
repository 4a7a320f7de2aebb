package syncing

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/vfg2006/account-tracker-api/infrastructure/integrator/sheets"
	sheetsdomain "github.com/vfg2006/account-tracker-api/infrastructure/integrator/sheets/domain"
	"github.com/vfg2006/account-tracker-api/infrastructure/repository"
	"github.com/vfg2006/account-tracker-api/internal/domain"
	"github.com/vfg2006/account-tracker-api/pkg/apiErrors"
	"github.com/vfg2006/account-tracker-api/pkg/log"
	"github.com/vfg2006/account-tracker-api/pkg/utils"
)

// Abas da planilha de destino e seus cabeçalhos
const (
	activitiesSheet = "Activity Log"
	tasksSheet      = "Tasks"
	notesSheet      = "Notes"
	dealsSheet      = "Deals"
)

var (
	activitiesHeaders = []string{"Date", "Account", "Activity Type", "Description", "Logged At"}
	tasksHeaders      = []string{"Account", "Task", "Description", "Due Date", "Status", "Created", "Completed"}
	notesHeaders      = []string{"Date", "Account", "Note", "Logged At"}
	dealsHeaders      = []string{"Account", "Deal", "Stage", "Value", "Created", "Closed"}
)

// SyncService espelha os registros pendentes para a planilha. Semântica
// de entrega: pelo menos uma vez. Um registro só é marcado como synced
// depois do append confirmado; uma falha depois do append e antes da
// marcação reenvia o registro na próxima execução.
type SyncService interface {
	FullSync(ctx context.Context) (*domain.SyncResult, error)
	Status(ctx context.Context) (*domain.SyncStatus, error)
}

type Service struct {
	activityRepository repository.ActivityRepository
	taskRepository     repository.TaskRepository
	noteRepository     repository.NoteRepository
	dealRepository     repository.DealRepository
	sheetsService      sheets.SheetsIntegrator

	// serializa execuções: um FullSync por vez, nunca enfileira
	syncMutex   sync.Mutex
	syncRunning bool

	lastRunStartedAt   *time.Time
	lastRunCompletedAt *time.Time
}

func NewService(
	activityRepository repository.ActivityRepository,
	taskRepository repository.TaskRepository,
	noteRepository repository.NoteRepository,
	dealRepository repository.DealRepository,
	sheetsService sheets.SheetsIntegrator,
) *Service {
	return &Service{
		activityRepository: activityRepository,
		taskRepository:     taskRepository,
		noteRepository:     noteRepository,
		dealRepository:     dealRepository,
		sheetsService:      sheetsService,
	}
}

// FullSync executa as quatro fases em sequência: activities, tasks,
// notes e deals. A primeira falha aborta as fases restantes; o que já
// foi espelhado e marcado permanece marcado.
func (s *Service) FullSync(ctx context.Context) (*domain.SyncResult, error) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		return &domain.SyncResult{AlreadyRunning: true},
			NewSyncError(ErrAlreadyRunning, apiErrors.ErrSyncAlreadyRunning, "Já existe uma execução de sync em andamento")
	}
	s.syncRunning = true
	startedAt := time.Now()
	s.lastRunStartedAt = &startedAt
	s.syncMutex.Unlock()

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		completedAt := time.Now()
		s.lastRunCompletedAt = &completedAt
		s.syncMutex.Unlock()
	}()

	runID, err := utils.GenerateRunID()
	if err != nil {
		return nil, NewSyncError(err, apiErrors.ErrInternalServer, "Falha ao gerar identificador da execução")
	}

	logger := log.ForContext(ctx).WithField("sync_run_id", runID)
	logger.Info("Iniciando sync para a planilha")

	// valida a configuração antes de tocar qualquer fase
	if err := s.sheetsService.Ready(ctx); err != nil {
		if errors.Is(err, sheetsdomain.ErrNotConfigured) {
			logger.WithError(err).Warn("Sync abortado: destino não configurado")
			return nil, NewSyncError(ErrNotConfigured, apiErrors.ErrSyncNotConfigured, "Credenciais ou planilha de destino não configuradas")
		}
		logger.WithError(err).Error("Sync abortado: falha ao inicializar client")
		return nil, NewSyncError(ErrRemoteFailure, apiErrors.ErrSyncRemote, "Falha ao inicializar o client do Google Sheets")
	}

	result := &domain.SyncResult{RunID: runID}

	if result.ActivitiesSynced, err = s.syncActivities(ctx); err != nil {
		logger.WithError(err).Error("Sync interrompido na fase de activities")
		return result, err
	}

	if result.TasksSynced, err = s.syncTasks(ctx); err != nil {
		logger.WithError(err).Error("Sync interrompido na fase de tasks")
		return result, err
	}

	if result.NotesSynced, err = s.syncNotes(ctx); err != nil {
		logger.WithError(err).Error("Sync interrompido na fase de notes")
		return result, err
	}

	if result.DealsSynced, err = s.syncDeals(ctx); err != nil {
		logger.WithError(err).Error("Sync interrompido na fase de deals")
		return result, err
	}

	result.Success = true
	result.TotalSynced = result.ActivitiesSynced + result.TasksSynced + result.NotesSynced + result.DealsSynced
	result.SyncedAt = time.Now()

	logger.WithFields(log.Fields{
		"activities": result.ActivitiesSynced,
		"tasks":      result.TasksSynced,
		"notes":      result.NotesSynced,
		"deals":      result.DealsSynced,
		"total":      result.TotalSynced,
	}).Info("Sync concluído")

	return result, nil
}

func (s *Service) Status(ctx context.Context) (*domain.SyncStatus, error) {
	status := &domain.SyncStatus{}

	var err error
	if status.UnsyncedActivities, err = s.activityRepository.CountUnsynced(ctx); err != nil {
		return nil, NewSyncError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao contar activities pendentes")
	}
	if status.UnsyncedTasks, err = s.taskRepository.CountUnsynced(ctx); err != nil {
		return nil, NewSyncError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao contar tasks pendentes")
	}
	if status.UnsyncedNotes, err = s.noteRepository.CountUnsynced(ctx); err != nil {
		return nil, NewSyncError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao contar notes pendentes")
	}
	if status.UnsyncedDeals, err = s.dealRepository.CountUnsynced(ctx); err != nil {
		return nil, NewSyncError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao contar deals pendentes")
	}

	status.TotalUnsynced = status.UnsyncedActivities + status.UnsyncedTasks + status.UnsyncedNotes + status.UnsyncedDeals

	s.syncMutex.Lock()
	status.LastRunStartedAt = s.lastRunStartedAt
	status.LastRunCompletedAt = s.lastRunCompletedAt
	s.syncMutex.Unlock()

	return status, nil
}

func (s *Service) syncActivities(ctx context.Context) (int, error) {
	pending, err := s.activityRepository.ListUnsynced(ctx)
	if err != nil {
		return 0, NewSyncPhaseError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "activities", "Falha ao listar activities pendentes")
	}

	if len(pending) == 0 {
		return 0, nil
	}

	rows := make([][]interface{}, 0, len(pending))
	ids := make([]int, 0, len(pending))
	for _, row := range pending {
		rows = append(rows, []interface{}{
			row.ActivityDate.String(),
			row.AccountName,
			string(row.ActivityType),
			row.Description,
			formatTimestamp(&row.CreatedAt),
		})
		ids = append(ids, row.ID)
	}

	return s.deliver(ctx, "activities", activitiesSheet, activitiesHeaders, rows, ids, s.activityRepository.MarkSynced)
}

func (s *Service) syncTasks(ctx context.Context) (int, error) {
	pending, err := s.taskRepository.ListUnsynced(ctx)
	if err != nil {
		return 0, NewSyncPhaseError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "tasks", "Falha ao listar tasks pendentes")
	}

	if len(pending) == 0 {
		return 0, nil
	}

	rows := make([][]interface{}, 0, len(pending))
	ids := make([]int, 0, len(pending))
	for _, row := range pending {
		rows = append(rows, []interface{}{
			row.AccountName,
			row.Title,
			stringOrEmpty(row.Description),
			dateOrEmpty(row.DueDate),
			string(row.Status),
			formatTimestamp(&row.CreatedAt),
			formatTimestamp(row.CompletedAt),
		})
		ids = append(ids, row.ID)
	}

	return s.deliver(ctx, "tasks", tasksSheet, tasksHeaders, rows, ids, s.taskRepository.MarkSynced)
}

func (s *Service) syncNotes(ctx context.Context) (int, error) {
	pending, err := s.noteRepository.ListUnsynced(ctx)
	if err != nil {
		return 0, NewSyncPhaseError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "notes", "Falha ao listar notes pendentes")
	}

	if len(pending) == 0 {
		return 0, nil
	}

	rows := make([][]interface{}, 0, len(pending))
	ids := make([]int, 0, len(pending))
	for _, row := range pending {
		rows = append(rows, []interface{}{
			row.NoteDate.String(),
			row.AccountName,
			row.Content,
			formatTimestamp(&row.CreatedAt),
		})
		ids = append(ids, row.ID)
	}

	return s.deliver(ctx, "notes", notesSheet, notesHeaders, rows, ids, s.noteRepository.MarkSynced)
}

func (s *Service) syncDeals(ctx context.Context) (int, error) {
	pending, err := s.dealRepository.ListUnsynced(ctx)
	if err != nil {
		return 0, NewSyncPhaseError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "deals", "Falha ao listar deals pendentes")
	}

	if len(pending) == 0 {
		return 0, nil
	}

	rows := make([][]interface{}, 0, len(pending))
	ids := make([]int, 0, len(pending))
	for _, row := range pending {
		rows = append(rows, []interface{}{
			row.AccountName,
			row.Name,
			string(row.Stage),
			floatOrEmpty(row.Value),
			formatTimestamp(&row.CreatedAt),
			formatTimestamp(row.ClosedAt),
		})
		ids = append(ids, row.ID)
	}

	return s.deliver(ctx, "deals", dealsSheet, dealsHeaders, rows, ids, s.dealRepository.MarkSynced)
}

// deliver executa uma fase: prepara a aba, faz um único append em lote e
// só então marca os registros como espelhados. A marcação nunca antecede
// a confirmação do append.
func (s *Service) deliver(
	ctx context.Context,
	phase string,
	sheetTitle string,
	headers []string,
	rows [][]interface{},
	ids []int,
	markSynced func(context.Context, []int) error,
) (int, error) {
	if err := s.sheetsService.PrepareSheet(ctx, sheetTitle, headers); err != nil {
		return 0, NewSyncPhaseError(ErrRemoteFailure, apiErrors.ErrSyncRemote, phase, "Falha ao preparar a aba de destino")
	}

	appended, err := s.sheetsService.AppendRows(ctx, sheetTitle, rows)
	if err != nil {
		return 0, NewSyncPhaseError(ErrRemoteFailure, apiErrors.ErrSyncRemote, phase, "Falha ao enviar linhas para a planilha")
	}

	log.ForContext(ctx).WithFields(log.Fields{
		"phase": phase,
		"rows":  appended,
	}).Debug("Linhas enviadas para a planilha")

	if appended <= 0 {
		// a API respondeu sem confirmar nenhuma linha gravada; os
		// registros ficam pendentes para a próxima execução
		return 0, NewSyncPhaseError(ErrRemoteFailure, apiErrors.ErrSyncRemote, phase, "A planilha não confirmou nenhuma linha gravada")
	}

	if err := markSynced(ctx, ids); err != nil {
		// o append já aconteceu; sem a marcação os registros serão
		// reenviados na próxima execução (entrega pelo menos uma vez)
		return 0, NewSyncPhaseError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, phase, "Falha ao marcar registros como espelhados")
	}

	return int(appended), nil
}

const timestampLayout = "2006-01-02 15:04:05"

func formatTimestamp(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(timestampLayout)
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func dateOrEmpty(d *domain.Date) string {
	if d == nil || d.IsZero() {
		return ""
	}
	return d.String()
}

func floatOrEmpty(f *float64) interface{} {
	if f == nil {
		return ""
	}
	return *f
}
