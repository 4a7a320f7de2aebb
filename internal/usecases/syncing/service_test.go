package syncing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sheetsdomain "github.com/vfg2006/account-tracker-api/infrastructure/integrator/sheets/domain"
	sheetsmocks "github.com/vfg2006/account-tracker-api/infrastructure/integrator/sheets/mocks"
	"github.com/vfg2006/account-tracker-api/infrastructure/repository/mocks"
	"github.com/vfg2006/account-tracker-api/internal/domain"
	"github.com/vfg2006/account-tracker-api/pkg/apiErrors"
	"github.com/vfg2006/account-tracker-api/pkg/log"
	"go.uber.org/mock/gomock"
)

func init() {
	log.SetupTestLogger()
}

type syncMocks struct {
	activityRepo *mocks.MockActivityRepository
	taskRepo     *mocks.MockTaskRepository
	noteRepo     *mocks.MockNoteRepository
	dealRepo     *mocks.MockDealRepository
	sheets       *sheetsmocks.MockSheetsIntegrator
}

func newSyncService(t *testing.T) (*Service, *syncMocks) {
	ctrl := gomock.NewController(t)

	m := &syncMocks{
		activityRepo: mocks.NewMockActivityRepository(ctrl),
		taskRepo:     mocks.NewMockTaskRepository(ctrl),
		noteRepo:     mocks.NewMockNoteRepository(ctrl),
		dealRepo:     mocks.NewMockDealRepository(ctrl),
		sheets:       sheetsmocks.NewMockSheetsIntegrator(ctrl),
	}

	return NewService(m.activityRepo, m.taskRepo, m.noteRepo, m.dealRepo, m.sheets), m
}

func syncErrorCode(t *testing.T, err error) string {
	t.Helper()

	var syncErr *SyncError
	require.True(t, errors.As(err, &syncErr), "esperava um *SyncError, recebi %T", err)
	return syncErr.Code
}

func pendingActivity(id int) *domain.SyncActivityRow {
	return &domain.SyncActivityRow{
		ID:           id,
		AccountName:  "Acuity Insurance",
		ActivityType: domain.ActivityCall,
		Description:  "Ligação de follow-up",
		ActivityDate: domain.NewDate(2024, time.March, 15),
		CreatedAt:    time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
	}
}

func TestFullSync(t *testing.T) {
	ctx := context.Background()

	t.Run("espelha as quatro fases e agrega os contadores", func(t *testing.T) {
		service, m := newSyncService(t)

		m.sheets.EXPECT().Ready(ctx).Return(nil)

		completedAt := time.Date(2024, 3, 14, 16, 0, 0, 0, time.UTC)
		value := 80000.0

		m.activityRepo.EXPECT().ListUnsynced(ctx).Return([]*domain.SyncActivityRow{
			pendingActivity(1), pendingActivity(2),
		}, nil)
		m.sheets.EXPECT().PrepareSheet(ctx, "Activity Log", activitiesHeaders).Return(nil)
		m.sheets.EXPECT().AppendRows(ctx, "Activity Log", gomock.Any()).Return(int64(2), nil)
		m.activityRepo.EXPECT().MarkSynced(ctx, []int{1, 2}).Return(nil)

		m.taskRepo.EXPECT().ListUnsynced(ctx).Return([]*domain.SyncTaskRow{
			{
				ID:          5,
				AccountName: "Epic Systems",
				Title:       "Enviar proposta",
				Status:      domain.TaskCompleted,
				CreatedAt:   time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC),
				CompletedAt: &completedAt,
			},
		}, nil)
		m.sheets.EXPECT().PrepareSheet(ctx, "Tasks", tasksHeaders).Return(nil)
		m.sheets.EXPECT().AppendRows(ctx, "Tasks", gomock.Any()).Return(int64(1), nil)
		m.taskRepo.EXPECT().MarkSynced(ctx, []int{5}).Return(nil)

		m.noteRepo.EXPECT().ListUnsynced(ctx).Return(nil, nil)

		m.dealRepo.EXPECT().ListUnsynced(ctx).Return([]*domain.SyncDealRow{
			{
				ID:          9,
				AccountName: "Fiserv",
				Name:        "Renovação anual",
				Stage:       domain.StageNegotiation,
				Value:       &value,
				CreatedAt:   time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
			},
		}, nil)
		m.sheets.EXPECT().PrepareSheet(ctx, "Deals", dealsHeaders).Return(nil)
		m.sheets.EXPECT().AppendRows(ctx, "Deals", gomock.Any()).Return(int64(1), nil)
		m.dealRepo.EXPECT().MarkSynced(ctx, []int{9}).Return(nil)

		result, err := service.FullSync(ctx)
		require.NoError(t, err)

		assert.True(t, result.Success)
		assert.NotEmpty(t, result.RunID)
		assert.Equal(t, 2, result.ActivitiesSynced)
		assert.Equal(t, 1, result.TasksSynced)
		assert.Equal(t, 0, result.NotesSynced)
		assert.Equal(t, 1, result.DealsSynced)
		assert.Equal(t, 4, result.TotalSynced)
	})

	t.Run("fase sem pendências não toca a planilha", func(t *testing.T) {
		service, m := newSyncService(t)

		m.sheets.EXPECT().Ready(ctx).Return(nil)
		m.activityRepo.EXPECT().ListUnsynced(ctx).Return(nil, nil)
		m.taskRepo.EXPECT().ListUnsynced(ctx).Return(nil, nil)
		m.noteRepo.EXPECT().ListUnsynced(ctx).Return(nil, nil)
		m.dealRepo.EXPECT().ListUnsynced(ctx).Return(nil, nil)
		// nenhuma chamada de PrepareSheet ou AppendRows é esperada

		result, err := service.FullSync(ctx)
		require.NoError(t, err)

		assert.True(t, result.Success)
		assert.Equal(t, 0, result.TotalSynced)
	})

	t.Run("destino não configurado aborta antes de qualquer fase", func(t *testing.T) {
		service, m := newSyncService(t)

		m.sheets.EXPECT().Ready(ctx).Return(sheetsdomain.ErrNotConfigured)
		// nenhum repositório é consultado

		_, err := service.FullSync(ctx)

		require.Error(t, err)
		assert.Equal(t, apiErrors.ErrSyncNotConfigured, syncErrorCode(t, err))
	})

	t.Run("falha remota na primeira fase interrompe as seguintes", func(t *testing.T) {
		service, m := newSyncService(t)

		m.sheets.EXPECT().Ready(ctx).Return(nil)
		m.activityRepo.EXPECT().ListUnsynced(ctx).Return([]*domain.SyncActivityRow{pendingActivity(1)}, nil)
		m.sheets.EXPECT().PrepareSheet(ctx, "Activity Log", activitiesHeaders).Return(nil)
		m.sheets.EXPECT().
			AppendRows(ctx, "Activity Log", gomock.Any()).
			Return(int64(0), errors.New("quota exceeded"))
		// tasks, notes e deals não são consultados

		result, err := service.FullSync(ctx)

		require.Error(t, err)
		assert.Equal(t, apiErrors.ErrSyncRemote, syncErrorCode(t, err))
		assert.False(t, result.Success)
		assert.Equal(t, 0, result.ActivitiesSynced)
	})

	t.Run("falha posterior preserva os contadores das fases concluídas", func(t *testing.T) {
		service, m := newSyncService(t)

		m.sheets.EXPECT().Ready(ctx).Return(nil)

		m.activityRepo.EXPECT().ListUnsynced(ctx).Return([]*domain.SyncActivityRow{pendingActivity(1)}, nil)
		m.sheets.EXPECT().PrepareSheet(ctx, "Activity Log", activitiesHeaders).Return(nil)
		m.sheets.EXPECT().AppendRows(ctx, "Activity Log", gomock.Any()).Return(int64(1), nil)
		m.activityRepo.EXPECT().MarkSynced(ctx, []int{1}).Return(nil)

		m.taskRepo.EXPECT().ListUnsynced(ctx).Return(nil, errors.New("connection reset"))

		result, err := service.FullSync(ctx)

		require.Error(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, 1, result.ActivitiesSynced)
		assert.Equal(t, 0, result.TasksSynced)
	})

	t.Run("append sem linhas confirmadas não marca os registros", func(t *testing.T) {
		service, m := newSyncService(t)

		m.sheets.EXPECT().Ready(ctx).Return(nil)
		m.activityRepo.EXPECT().ListUnsynced(ctx).Return([]*domain.SyncActivityRow{pendingActivity(1)}, nil)
		m.sheets.EXPECT().PrepareSheet(ctx, "Activity Log", activitiesHeaders).Return(nil)
		// a API respondeu sem erro mas confirmou zero linhas gravadas;
		// nenhuma chamada de MarkSynced é esperada
		m.sheets.EXPECT().AppendRows(ctx, "Activity Log", gomock.Any()).Return(int64(0), nil)

		result, err := service.FullSync(ctx)

		require.Error(t, err)
		assert.Equal(t, apiErrors.ErrSyncRemote, syncErrorCode(t, err))
		assert.False(t, result.Success)
		assert.Equal(t, 0, result.ActivitiesSynced)
	})

	t.Run("contadores refletem as linhas confirmadas pela planilha", func(t *testing.T) {
		service, m := newSyncService(t)

		m.sheets.EXPECT().Ready(ctx).Return(nil)
		m.activityRepo.EXPECT().ListUnsynced(ctx).Return([]*domain.SyncActivityRow{
			pendingActivity(1), pendingActivity(2), pendingActivity(3),
		}, nil)
		m.sheets.EXPECT().PrepareSheet(ctx, "Activity Log", activitiesHeaders).Return(nil)
		m.sheets.EXPECT().AppendRows(ctx, "Activity Log", gomock.Any()).Return(int64(2), nil)
		m.activityRepo.EXPECT().MarkSynced(ctx, []int{1, 2, 3}).Return(nil)

		m.taskRepo.EXPECT().ListUnsynced(ctx).Return(nil, nil)
		m.noteRepo.EXPECT().ListUnsynced(ctx).Return(nil, nil)
		m.dealRepo.EXPECT().ListUnsynced(ctx).Return(nil, nil)

		result, err := service.FullSync(ctx)
		require.NoError(t, err)

		assert.Equal(t, 2, result.ActivitiesSynced)
		assert.Equal(t, 2, result.TotalSynced)
	})

	t.Run("registros só são marcados depois do append confirmado", func(t *testing.T) {
		service, m := newSyncService(t)

		m.sheets.EXPECT().Ready(ctx).Return(nil)
		m.activityRepo.EXPECT().ListUnsynced(ctx).Return([]*domain.SyncActivityRow{pendingActivity(1)}, nil)
		m.sheets.EXPECT().PrepareSheet(ctx, "Activity Log", activitiesHeaders).Return(nil)
		m.sheets.EXPECT().AppendRows(ctx, "Activity Log", gomock.Any()).Return(int64(1), nil)
		// o append aconteceu mas a marcação falhou: o registro continua
		// pendente e será reenviado na próxima execução
		m.activityRepo.EXPECT().MarkSynced(ctx, []int{1}).Return(errors.New("disk full"))

		result, err := service.FullSync(ctx)

		require.Error(t, err)
		assert.Equal(t, apiErrors.ErrDatabaseOperation, syncErrorCode(t, err))
		assert.Equal(t, 0, result.ActivitiesSynced)
	})

	t.Run("execução concorrente devolve already running sem enfileirar", func(t *testing.T) {
		service, _ := newSyncService(t)

		service.syncRunning = true

		result, err := service.FullSync(ctx)

		require.Error(t, err)
		assert.Equal(t, apiErrors.ErrSyncAlreadyRunning, syncErrorCode(t, err))
		assert.True(t, result.AlreadyRunning)
	})

	t.Run("campos opcionais vazios viram células vazias", func(t *testing.T) {
		service, m := newSyncService(t)

		m.sheets.EXPECT().Ready(ctx).Return(nil)
		m.activityRepo.EXPECT().ListUnsynced(ctx).Return(nil, nil)

		m.taskRepo.EXPECT().ListUnsynced(ctx).Return([]*domain.SyncTaskRow{
			{
				ID:          3,
				AccountName: "Kohler Co.",
				Title:       "Agendar visita",
				Status:      domain.TaskOpen,
				CreatedAt:   time.Date(2024, 3, 12, 11, 0, 0, 0, time.UTC),
			},
		}, nil)
		m.sheets.EXPECT().PrepareSheet(ctx, "Tasks", tasksHeaders).Return(nil)
		m.sheets.EXPECT().
			AppendRows(ctx, "Tasks", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, rows [][]interface{}) (int64, error) {
				require.Len(t, rows, 1)
				row := rows[0]
				assert.Equal(t, "", row[2]) // descrição ausente
				assert.Equal(t, "", row[3]) // sem prazo
				assert.Equal(t, "open", row[4])
				assert.Equal(t, "2024-03-12 11:00:00", row[5])
				assert.Equal(t, "", row[6]) // task aberta não tem conclusão
				return 1, nil
			})
		m.taskRepo.EXPECT().MarkSynced(ctx, []int{3}).Return(nil)

		m.noteRepo.EXPECT().ListUnsynced(ctx).Return(nil, nil)
		m.dealRepo.EXPECT().ListUnsynced(ctx).Return(nil, nil)

		_, err := service.FullSync(ctx)
		require.NoError(t, err)
	})
}

func TestStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("soma as pendências por tipo", func(t *testing.T) {
		service, m := newSyncService(t)

		m.activityRepo.EXPECT().CountUnsynced(ctx).Return(4, nil)
		m.taskRepo.EXPECT().CountUnsynced(ctx).Return(2, nil)
		m.noteRepo.EXPECT().CountUnsynced(ctx).Return(1, nil)
		m.dealRepo.EXPECT().CountUnsynced(ctx).Return(0, nil)

		status, err := service.Status(ctx)
		require.NoError(t, err)

		assert.Equal(t, 4, status.UnsyncedActivities)
		assert.Equal(t, 2, status.UnsyncedTasks)
		assert.Equal(t, 1, status.UnsyncedNotes)
		assert.Equal(t, 0, status.UnsyncedDeals)
		assert.Equal(t, 7, status.TotalUnsynced)
		assert.Nil(t, status.LastRunStartedAt)
	})

	t.Run("expõe os instantes da última execução", func(t *testing.T) {
		service, m := newSyncService(t)

		m.sheets.EXPECT().Ready(ctx).Return(nil)
		m.activityRepo.EXPECT().ListUnsynced(ctx).Return(nil, nil)
		m.taskRepo.EXPECT().ListUnsynced(ctx).Return(nil, nil)
		m.noteRepo.EXPECT().ListUnsynced(ctx).Return(nil, nil)
		m.dealRepo.EXPECT().ListUnsynced(ctx).Return(nil, nil)

		_, err := service.FullSync(ctx)
		require.NoError(t, err)

		m.activityRepo.EXPECT().CountUnsynced(ctx).Return(0, nil)
		m.taskRepo.EXPECT().CountUnsynced(ctx).Return(0, nil)
		m.noteRepo.EXPECT().CountUnsynced(ctx).Return(0, nil)
		m.dealRepo.EXPECT().CountUnsynced(ctx).Return(0, nil)

		status, err := service.Status(ctx)
		require.NoError(t, err)

		require.NotNil(t, status.LastRunStartedAt)
		require.NotNil(t, status.LastRunCompletedAt)
		assert.False(t, status.LastRunCompletedAt.Before(*status.LastRunStartedAt))
	})
}
