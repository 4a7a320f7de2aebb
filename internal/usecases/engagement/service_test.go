package engagement

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/account-tracker-api/infrastructure/database"
	"github.com/vfg2006/account-tracker-api/infrastructure/repository/mocks"
	"github.com/vfg2006/account-tracker-api/internal/domain"
	"github.com/vfg2006/account-tracker-api/pkg/apiErrors"
	"github.com/vfg2006/account-tracker-api/pkg/log"
	"go.uber.org/mock/gomock"
)

func init() {
	log.SetupTestLogger()
}

// fakeConn executa a função transacional diretamente, sem banco
type fakeConn struct{}

func (fakeConn) Exec(ctx context.Context, sqlStr string, args ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (fakeConn) Query(ctx context.Context, sqlStr string, args ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (fakeConn) QueryRow(ctx context.Context, sqlStr string, args ...interface{}) *sql.Row {
	return nil
}

func (fakeConn) Begin(context.Context) (*sql.Tx, error) { return nil, nil }
func (fakeConn) Close() error                           { return nil }
func (fakeConn) Ping(context.Context) error             { return nil }

func (fakeConn) RunInTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	return fn(nil)
}

func (fakeConn) Builder() squirrel.StatementBuilderType { return squirrel.StatementBuilder }
func (fakeConn) Dialect() database.Dialect              { return database.DialectSQLite }

type engagementMocks struct {
	accountRepo  *mocks.MockAccountRepository
	activityRepo *mocks.MockActivityRepository
	noteRepo     *mocks.MockNoteRepository
	taskRepo     *mocks.MockTaskRepository
	touchRepo    *mocks.MockTouchRepository
}

func newEngagementService(t *testing.T) (*Service, *engagementMocks) {
	ctrl := gomock.NewController(t)

	m := &engagementMocks{
		accountRepo:  mocks.NewMockAccountRepository(ctrl),
		activityRepo: mocks.NewMockActivityRepository(ctrl),
		noteRepo:     mocks.NewMockNoteRepository(ctrl),
		taskRepo:     mocks.NewMockTaskRepository(ctrl),
		touchRepo:    mocks.NewMockTouchRepository(ctrl),
	}

	service := NewService(fakeConn{}, m.accountRepo, m.activityRepo, m.noteRepo, m.taskRepo, m.touchRepo)
	service.now = func() time.Time {
		return time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	}

	return service, m
}

func errorCode(t *testing.T, err error) string {
	t.Helper()

	var engErr *EngagementError
	require.True(t, errors.As(err, &engErr), "esperava um *EngagementError, recebi %T", err)
	return engErr.Code
}

func TestCreateActivity(t *testing.T) {
	ctx := context.Background()
	account := &domain.Account{ID: 1, Name: "Acuity Insurance"}

	t.Run("registra a activity e o touch do dia na mesma transação", func(t *testing.T) {
		service, m := newEngagementService(t)

		m.accountRepo.EXPECT().GetAccountByID(ctx, 1).Return(account, nil)
		m.activityRepo.EXPECT().InsertActivity(ctx, gomock.Any(), gomock.Any()).Return(nil)
		m.touchRepo.EXPECT().
			InsertIfAbsentTx(ctx, gomock.Any(), 1, domain.NewDate(2024, time.March, 15)).
			Return(true, nil)

		activity, touched, err := service.CreateActivity(ctx, &domain.CreateActivityRequest{
			AccountID:    1,
			ActivityType: domain.ActivityCall,
			Description:  "Ligação de follow-up",
		})

		require.NoError(t, err)
		assert.True(t, touched)
		assert.Equal(t, domain.NewDate(2024, time.March, 15), activity.ActivityDate)
	})

	t.Run("usa a data do evento quando informada, não a data atual", func(t *testing.T) {
		service, m := newEngagementService(t)

		backDate := domain.NewDate(2024, time.March, 10)

		m.accountRepo.EXPECT().GetAccountByID(ctx, 1).Return(account, nil)
		m.activityRepo.EXPECT().InsertActivity(ctx, gomock.Any(), gomock.Any()).Return(nil)
		m.touchRepo.EXPECT().
			InsertIfAbsentTx(ctx, gomock.Any(), 1, backDate).
			Return(true, nil)

		activity, _, err := service.CreateActivity(ctx, &domain.CreateActivityRequest{
			AccountID:    1,
			ActivityType: domain.ActivityEmail,
			Description:  "Email retroativo",
			ActivityDate: &backDate,
		})

		require.NoError(t, err)
		assert.Equal(t, backDate, activity.ActivityDate)
	})

	t.Run("segunda activity do mesmo dia não registra novo touch", func(t *testing.T) {
		service, m := newEngagementService(t)

		m.accountRepo.EXPECT().GetAccountByID(ctx, 1).Return(account, nil)
		m.activityRepo.EXPECT().InsertActivity(ctx, gomock.Any(), gomock.Any()).Return(nil)
		m.touchRepo.EXPECT().
			InsertIfAbsentTx(ctx, gomock.Any(), 1, gomock.Any()).
			Return(false, nil)

		_, touched, err := service.CreateActivity(ctx, &domain.CreateActivityRequest{
			AccountID:    1,
			ActivityType: domain.ActivityMeeting,
			Description:  "Segunda reunião do dia",
		})

		require.NoError(t, err)
		assert.False(t, touched)
	})

	t.Run("rejeita descrição vazia", func(t *testing.T) {
		service, _ := newEngagementService(t)

		_, _, err := service.CreateActivity(ctx, &domain.CreateActivityRequest{
			AccountID:    1,
			ActivityType: domain.ActivityCall,
			Description:  "   ",
		})

		require.Error(t, err)
		assert.Equal(t, apiErrors.ErrMissingRequiredData, errorCode(t, err))
	})

	t.Run("rejeita tipo de activity desconhecido", func(t *testing.T) {
		service, _ := newEngagementService(t)

		_, _, err := service.CreateActivity(ctx, &domain.CreateActivityRequest{
			AccountID:    1,
			ActivityType: "carrier_pigeon",
			Description:  "Mensagem por pombo",
		})

		require.Error(t, err)
		assert.Equal(t, apiErrors.ErrInvalidFormat, errorCode(t, err))
	})

	t.Run("conta inexistente devolve not found", func(t *testing.T) {
		service, m := newEngagementService(t)

		m.accountRepo.EXPECT().GetAccountByID(ctx, 99).Return(nil, nil)

		_, _, err := service.CreateActivity(ctx, &domain.CreateActivityRequest{
			AccountID:    99,
			ActivityType: domain.ActivityCall,
			Description:  "Ligação",
		})

		require.Error(t, err)
		assert.Equal(t, apiErrors.ErrAccountNotFound, errorCode(t, err))
	})

	t.Run("falha no insert desfaz a transação e não devolve touch", func(t *testing.T) {
		service, m := newEngagementService(t)

		m.accountRepo.EXPECT().GetAccountByID(ctx, 1).Return(account, nil)
		m.activityRepo.EXPECT().
			InsertActivity(ctx, gomock.Any(), gomock.Any()).
			Return(errors.New("disk full"))

		_, touched, err := service.CreateActivity(ctx, &domain.CreateActivityRequest{
			AccountID:    1,
			ActivityType: domain.ActivityCall,
			Description:  "Ligação",
		})

		require.Error(t, err)
		assert.False(t, touched)
		assert.Equal(t, apiErrors.ErrDatabaseOperation, errorCode(t, err))
	})
}

func TestCreateNote(t *testing.T) {
	ctx := context.Background()
	account := &domain.Account{ID: 2, Name: "Epic Systems"}

	t.Run("registra a note e marca o touch no dia da note", func(t *testing.T) {
		service, m := newEngagementService(t)

		noteDay := domain.NewDate(2024, time.March, 12)

		m.accountRepo.EXPECT().GetAccountByID(ctx, 2).Return(account, nil)
		m.noteRepo.EXPECT().InsertNote(ctx, gomock.Any(), gomock.Any()).Return(nil)
		m.touchRepo.EXPECT().
			InsertIfAbsentTx(ctx, gomock.Any(), 2, noteDay).
			Return(true, nil)

		note, touched, err := service.CreateNote(ctx, &domain.CreateNoteRequest{
			AccountID: 2,
			Content:   "Cliente pediu proposta revisada",
			NoteDate:  &noteDay,
		})

		require.NoError(t, err)
		assert.True(t, touched)
		assert.Equal(t, noteDay, note.NoteDate)
	})

	t.Run("rejeita conteúdo vazio", func(t *testing.T) {
		service, _ := newEngagementService(t)

		_, _, err := service.CreateNote(ctx, &domain.CreateNoteRequest{AccountID: 2, Content: ""})

		require.Error(t, err)
		assert.Equal(t, apiErrors.ErrMissingRequiredData, errorCode(t, err))
	})
}

func TestRecordTouch(t *testing.T) {
	ctx := context.Background()
	account := &domain.Account{ID: 3, Name: "Fiserv"}

	t.Run("primeiro touch do dia é registrado", func(t *testing.T) {
		service, m := newEngagementService(t)

		today := domain.NewDate(2024, time.March, 15)

		m.accountRepo.EXPECT().GetAccountByID(ctx, 3).Return(account, nil)
		m.touchRepo.EXPECT().InsertIfAbsent(ctx, 3, today).Return(true, nil)

		recorded, day, err := service.RecordTouch(ctx, 3, nil)

		require.NoError(t, err)
		assert.True(t, recorded)
		assert.Equal(t, today, day)
	})

	t.Run("repetir o touch do mesmo dia não é erro", func(t *testing.T) {
		service, m := newEngagementService(t)

		m.accountRepo.EXPECT().GetAccountByID(ctx, 3).Return(account, nil)
		m.touchRepo.EXPECT().InsertIfAbsent(ctx, 3, gomock.Any()).Return(false, nil)

		recorded, _, err := service.RecordTouch(ctx, 3, nil)

		require.NoError(t, err)
		assert.False(t, recorded)
	})

	t.Run("aceita touch retroativo no dia informado", func(t *testing.T) {
		service, m := newEngagementService(t)

		backDate := domain.NewDate(2024, time.February, 29)

		m.accountRepo.EXPECT().GetAccountByID(ctx, 3).Return(account, nil)
		m.touchRepo.EXPECT().InsertIfAbsent(ctx, 3, backDate).Return(true, nil)

		recorded, day, err := service.RecordTouch(ctx, 3, &backDate)

		require.NoError(t, err)
		assert.True(t, recorded)
		assert.Equal(t, backDate, day)
	})
}

func TestCreateTask(t *testing.T) {
	ctx := context.Background()
	account := &domain.Account{ID: 4, Name: "Kohler Co."}

	t.Run("cria a task aberta sem registrar touch", func(t *testing.T) {
		service, m := newEngagementService(t)

		m.accountRepo.EXPECT().GetAccountByID(ctx, 4).Return(account, nil)
		m.taskRepo.EXPECT().InsertTask(ctx, gomock.Any()).Return(nil)
		// nenhuma expectativa no touchRepo: criar task não toca a conta

		task, err := service.CreateTask(ctx, &domain.CreateTaskRequest{
			AccountID: 4,
			Title:     "Enviar proposta",
		})

		require.NoError(t, err)
		assert.Equal(t, domain.TaskOpen, task.Status)
		assert.Nil(t, task.CompletedAt)
	})

	t.Run("rejeita título vazio", func(t *testing.T) {
		service, _ := newEngagementService(t)

		_, err := service.CreateTask(ctx, &domain.CreateTaskRequest{AccountID: 4, Title: " "})

		require.Error(t, err)
		assert.Equal(t, apiErrors.ErrMissingRequiredData, errorCode(t, err))
	})
}

func TestUpdateTask(t *testing.T) {
	ctx := context.Background()

	openTask := func() *domain.Task {
		return &domain.Task{ID: 10, AccountID: 4, Title: "Enviar proposta", Status: domain.TaskOpen}
	}

	completedAt := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	completedTask := func() *domain.Task {
		at := completedAt
		return &domain.Task{ID: 10, AccountID: 4, Title: "Enviar proposta", Status: domain.TaskCompleted, CompletedAt: &at}
	}

	setStatus := func(status string) domain.OptionalString {
		return domain.OptionalString{Set: true, Valid: true, Value: status}
	}

	t.Run("concluir a task preenche completed_at", func(t *testing.T) {
		service, m := newEngagementService(t)

		m.taskRepo.EXPECT().GetTaskByID(ctx, 10).Return(openTask(), nil)
		m.taskRepo.EXPECT().UpdateTask(ctx, gomock.Any()).Return(nil)

		task, err := service.UpdateTask(ctx, &domain.UpdateTaskRequest{ID: 10, Status: setStatus("completed")})

		require.NoError(t, err)
		assert.Equal(t, domain.TaskCompleted, task.Status)
		require.NotNil(t, task.CompletedAt)
		assert.Equal(t, time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC), *task.CompletedAt)
	})

	t.Run("reabrir a task limpa completed_at", func(t *testing.T) {
		service, m := newEngagementService(t)

		m.taskRepo.EXPECT().GetTaskByID(ctx, 10).Return(completedTask(), nil)
		m.taskRepo.EXPECT().UpdateTask(ctx, gomock.Any()).Return(nil)

		task, err := service.UpdateTask(ctx, &domain.UpdateTaskRequest{ID: 10, Status: setStatus("open")})

		require.NoError(t, err)
		assert.Equal(t, domain.TaskOpen, task.Status)
		assert.Nil(t, task.CompletedAt)
	})

	t.Run("concluir uma task já concluída preserva o timestamp original", func(t *testing.T) {
		service, m := newEngagementService(t)

		m.taskRepo.EXPECT().GetTaskByID(ctx, 10).Return(completedTask(), nil)
		m.taskRepo.EXPECT().UpdateTask(ctx, gomock.Any()).Return(nil)

		task, err := service.UpdateTask(ctx, &domain.UpdateTaskRequest{ID: 10, Status: setStatus("completed")})

		require.NoError(t, err)
		require.NotNil(t, task.CompletedAt)
		assert.Equal(t, completedAt, *task.CompletedAt)
	})

	t.Run("due_date com null limpa o prazo", func(t *testing.T) {
		service, m := newEngagementService(t)

		due := domain.NewDate(2024, time.April, 1)
		task := openTask()
		task.DueDate = &due

		m.taskRepo.EXPECT().GetTaskByID(ctx, 10).Return(task, nil)
		m.taskRepo.EXPECT().UpdateTask(ctx, gomock.Any()).Return(nil)

		updated, err := service.UpdateTask(ctx, &domain.UpdateTaskRequest{
			ID:      10,
			DueDate: domain.OptionalDate{Set: true, Valid: false},
		})

		require.NoError(t, err)
		assert.Nil(t, updated.DueDate)
	})

	t.Run("campos ausentes do patch não são alterados", func(t *testing.T) {
		service, m := newEngagementService(t)

		m.taskRepo.EXPECT().GetTaskByID(ctx, 10).Return(completedTask(), nil)
		m.taskRepo.EXPECT().UpdateTask(ctx, gomock.Any()).Return(nil)

		task, err := service.UpdateTask(ctx, &domain.UpdateTaskRequest{
			ID:    10,
			Title: domain.OptionalString{Set: true, Valid: true, Value: "Enviar proposta final"},
		})

		require.NoError(t, err)
		assert.Equal(t, "Enviar proposta final", task.Title)
		assert.Equal(t, domain.TaskCompleted, task.Status)
		require.NotNil(t, task.CompletedAt)
		assert.Equal(t, completedAt, *task.CompletedAt)
	})

	t.Run("título não pode ser limpo com null", func(t *testing.T) {
		service, m := newEngagementService(t)

		m.taskRepo.EXPECT().GetTaskByID(ctx, 10).Return(openTask(), nil)

		_, err := service.UpdateTask(ctx, &domain.UpdateTaskRequest{
			ID:    10,
			Title: domain.OptionalString{Set: true, Valid: false},
		})

		require.Error(t, err)
		assert.Equal(t, apiErrors.ErrMissingRequiredData, errorCode(t, err))
	})

	t.Run("status desconhecido é rejeitado", func(t *testing.T) {
		service, m := newEngagementService(t)

		m.taskRepo.EXPECT().GetTaskByID(ctx, 10).Return(openTask(), nil)

		_, err := service.UpdateTask(ctx, &domain.UpdateTaskRequest{ID: 10, Status: setStatus("paused")})

		require.Error(t, err)
		assert.Equal(t, apiErrors.ErrInvalidFormat, errorCode(t, err))
	})

	t.Run("task inexistente devolve not found", func(t *testing.T) {
		service, m := newEngagementService(t)

		m.taskRepo.EXPECT().GetTaskByID(ctx, 77).Return(nil, nil)

		_, err := service.UpdateTask(ctx, &domain.UpdateTaskRequest{ID: 77, Status: setStatus("open")})

		require.Error(t, err)
		assert.Equal(t, apiErrors.ErrTaskNotFound, errorCode(t, err))
	})
}
