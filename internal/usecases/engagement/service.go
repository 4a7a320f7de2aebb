package engagement

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/vfg2006/account-tracker-api/infrastructure/database"
	"github.com/vfg2006/account-tracker-api/infrastructure/repository"
	"github.com/vfg2006/account-tracker-api/internal/domain"
	"github.com/vfg2006/account-tracker-api/pkg/apiErrors"
	"github.com/vfg2006/account-tracker-api/pkg/log"
)

// EngagementService registra os eventos de engajamento e mantém o touch
// ledger. Activities e notes marcam a conta como touched no dia do
// evento dentro da mesma transação do insert; tasks não geram touches.
type EngagementService interface {
	CreateActivity(ctx context.Context, req *domain.CreateActivityRequest) (*domain.Activity, bool, error)
	ListActivities(ctx context.Context, accountID, limit, offset int) ([]*domain.Activity, error)

	CreateNote(ctx context.Context, req *domain.CreateNoteRequest) (*domain.Note, bool, error)
	ListNotes(ctx context.Context, accountID int) ([]*domain.Note, error)

	RecordTouch(ctx context.Context, accountID int, day *domain.Date) (bool, domain.Date, error)
	IsTouched(ctx context.Context, accountID int, day domain.Date) (bool, error)

	CreateTask(ctx context.Context, req *domain.CreateTaskRequest) (*domain.Task, error)
	UpdateTask(ctx context.Context, req *domain.UpdateTaskRequest) (*domain.Task, error)
	DeleteTask(ctx context.Context, taskID int) error
	ListTasks(ctx context.Context, accountID int) ([]*domain.Task, error)
}

type Service struct {
	conn               database.Conn
	accountRepository  repository.AccountRepository
	activityRepository repository.ActivityRepository
	noteRepository     repository.NoteRepository
	taskRepository     repository.TaskRepository
	touchRepository    repository.TouchRepository

	// now é substituível em testes
	now func() time.Time
}

func NewService(
	conn database.Conn,
	accountRepository repository.AccountRepository,
	activityRepository repository.ActivityRepository,
	noteRepository repository.NoteRepository,
	taskRepository repository.TaskRepository,
	touchRepository repository.TouchRepository,
) *Service {
	return &Service{
		conn:               conn,
		accountRepository:  accountRepository,
		activityRepository: activityRepository,
		noteRepository:     noteRepository,
		taskRepository:     taskRepository,
		touchRepository:    touchRepository,
		now:                time.Now,
	}
}

// CreateActivity insere a activity e marca a conta como touched no dia do
// evento, na mesma transação. Devolve também se o touch foi registrado
// agora (false quando o dia já estava marcado).
func (s *Service) CreateActivity(ctx context.Context, req *domain.CreateActivityRequest) (*domain.Activity, bool, error) {
	req.Description = strings.TrimSpace(req.Description)
	if req.Description == "" {
		return nil, false, NewEngagementError(ErrDescriptionRequired, apiErrors.ErrMissingRequiredData, "A descrição da activity é obrigatória")
	}

	if !req.ActivityType.Valid() {
		return nil, false, NewEngagementError(ErrInvalidActivityType, apiErrors.ErrInvalidFormat, "Tipo de activity desconhecido")
	}

	if err := s.requireAccount(ctx, req.AccountID); err != nil {
		return nil, false, err
	}

	activity := &domain.Activity{
		AccountID:    req.AccountID,
		ActivityType: req.ActivityType,
		Description:  req.Description,
		ActivityDate: s.eventDay(req.ActivityDate),
	}

	var touched bool
	err := s.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		if err := s.activityRepository.InsertActivity(ctx, tx, activity); err != nil {
			return err
		}

		inserted, err := s.touchRepository.InsertIfAbsentTx(ctx, tx, activity.AccountID, activity.ActivityDate)
		if err != nil {
			return err
		}

		touched = inserted
		return nil
	})
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("Falha ao registrar activity")
		return nil, false, NewEngagementError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao registrar activity no banco de dados")
	}

	return activity, touched, nil
}

func (s *Service) ListActivities(ctx context.Context, accountID, limit, offset int) ([]*domain.Activity, error) {
	if err := s.requireAccount(ctx, accountID); err != nil {
		return nil, err
	}

	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	activities, err := s.activityRepository.ListByAccount(ctx, accountID, limit, offset)
	if err != nil {
		log.ForContext(ctx).WithError(err).Errorf("Falha ao listar activities da conta %d", accountID)
		return nil, NewEngagementError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao listar activities no banco de dados")
	}

	return activities, nil
}

func (s *Service) CreateNote(ctx context.Context, req *domain.CreateNoteRequest) (*domain.Note, bool, error) {
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		return nil, false, NewEngagementError(ErrContentRequired, apiErrors.ErrMissingRequiredData, "O conteúdo da note é obrigatório")
	}

	if err := s.requireAccount(ctx, req.AccountID); err != nil {
		return nil, false, err
	}

	note := &domain.Note{
		AccountID: req.AccountID,
		Content:   req.Content,
		NoteDate:  s.eventDay(req.NoteDate),
	}

	var touched bool
	err := s.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		if err := s.noteRepository.InsertNote(ctx, tx, note); err != nil {
			return err
		}

		inserted, err := s.touchRepository.InsertIfAbsentTx(ctx, tx, note.AccountID, note.NoteDate)
		if err != nil {
			return err
		}

		touched = inserted
		return nil
	})
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("Falha ao registrar note")
		return nil, false, NewEngagementError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao registrar note no banco de dados")
	}

	return note, touched, nil
}

func (s *Service) ListNotes(ctx context.Context, accountID int) ([]*domain.Note, error) {
	if err := s.requireAccount(ctx, accountID); err != nil {
		return nil, err
	}

	notes, err := s.noteRepository.ListByAccount(ctx, accountID)
	if err != nil {
		log.ForContext(ctx).WithError(err).Errorf("Falha ao listar notes da conta %d", accountID)
		return nil, NewEngagementError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao listar notes no banco de dados")
	}

	return notes, nil
}

// RecordTouch marca a conta como touched no dia informado (hoje quando
// omitido), sem criar nenhum evento associado. Devolve false quando o
// dia já estava marcado; repetir a operação nunca é erro.
func (s *Service) RecordTouch(ctx context.Context, accountID int, day *domain.Date) (bool, domain.Date, error) {
	touchDay := s.eventDay(day)

	if err := s.requireAccount(ctx, accountID); err != nil {
		return false, touchDay, err
	}

	inserted, err := s.touchRepository.InsertIfAbsent(ctx, accountID, touchDay)
	if err != nil {
		log.ForContext(ctx).WithError(err).Errorf("Falha ao registrar touch da conta %d", accountID)
		return false, touchDay, NewEngagementError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao registrar touch no banco de dados")
	}

	return inserted, touchDay, nil
}

func (s *Service) IsTouched(ctx context.Context, accountID int, day domain.Date) (bool, error) {
	if err := s.requireAccount(ctx, accountID); err != nil {
		return false, err
	}

	touched, err := s.touchRepository.IsTouched(ctx, accountID, day)
	if err != nil {
		return false, NewEngagementError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao consultar touch no banco de dados")
	}

	return touched, nil
}

func (s *Service) CreateTask(ctx context.Context, req *domain.CreateTaskRequest) (*domain.Task, error) {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return nil, NewEngagementError(ErrTitleRequired, apiErrors.ErrMissingRequiredData, "O título da task é obrigatório")
	}

	if err := s.requireAccount(ctx, req.AccountID); err != nil {
		return nil, err
	}

	task := &domain.Task{
		AccountID:   req.AccountID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Status:      domain.TaskOpen,
	}

	if err := s.taskRepository.InsertTask(ctx, task); err != nil {
		log.ForContext(ctx).WithError(err).Error("Falha ao criar task")
		return nil, NewEngagementError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao criar task no banco de dados")
	}

	return task, nil
}

// UpdateTask aplica um patch parcial sobre a task. Mudança de status
// mantém o invariante de completed_at: preenchido na conclusão, limpo
// na reabertura. Concluir uma task já concluída preserva o timestamp.
func (s *Service) UpdateTask(ctx context.Context, req *domain.UpdateTaskRequest) (*domain.Task, error) {
	task, err := s.taskRepository.GetTaskByID(ctx, req.ID)
	if err != nil {
		return nil, NewEngagementError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao buscar task no banco de dados")
	}
	if task == nil {
		return nil, NewEngagementError(ErrTaskNotFound, apiErrors.ErrTaskNotFound, "Task não encontrada")
	}

	if req.Title.Set {
		if !req.Title.Valid || strings.TrimSpace(req.Title.Value) == "" {
			return nil, NewEngagementError(ErrTitleRequired, apiErrors.ErrMissingRequiredData, "O título da task não pode ser vazio")
		}
		task.Title = strings.TrimSpace(req.Title.Value)
	}

	if req.Description.Set {
		if req.Description.Valid {
			desc := req.Description.Value
			task.Description = &desc
		} else {
			task.Description = nil
		}
	}

	if req.DueDate.Set {
		if req.DueDate.Valid {
			due := req.DueDate.Value
			task.DueDate = &due
		} else {
			task.DueDate = nil
		}
	}

	if req.Status.Set {
		if !req.Status.Valid {
			return nil, NewEngagementError(ErrInvalidTaskStatus, apiErrors.ErrInvalidFormat, "O status da task não pode ser null")
		}

		newStatus := domain.TaskStatus(req.Status.Value)
		if !newStatus.Valid() {
			return nil, NewEngagementError(ErrInvalidTaskStatus, apiErrors.ErrInvalidFormat, "Status de task desconhecido")
		}

		if newStatus != task.Status {
			task.Status = newStatus
			if newStatus == domain.TaskCompleted {
				completedAt := s.now()
				task.CompletedAt = &completedAt
			} else {
				task.CompletedAt = nil
			}
		}
	}

	if err := s.taskRepository.UpdateTask(ctx, task); err != nil {
		if err == repository.ErrNotFound {
			return nil, NewEngagementError(ErrTaskNotFound, apiErrors.ErrTaskNotFound, "Task não encontrada")
		}
		log.ForContext(ctx).WithError(err).Errorf("Falha ao atualizar task %d", req.ID)
		return nil, NewEngagementError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao atualizar task no banco de dados")
	}

	return task, nil
}

func (s *Service) DeleteTask(ctx context.Context, taskID int) error {
	task, err := s.taskRepository.GetTaskByID(ctx, taskID)
	if err != nil {
		return NewEngagementError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao buscar task no banco de dados")
	}
	if task == nil {
		return NewEngagementError(ErrTaskNotFound, apiErrors.ErrTaskNotFound, "Task não encontrada")
	}

	if err := s.taskRepository.DeleteTask(ctx, taskID); err != nil {
		log.ForContext(ctx).WithError(err).Errorf("Falha ao excluir task %d", taskID)
		return NewEngagementError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao excluir task no banco de dados")
	}

	return nil
}

func (s *Service) ListTasks(ctx context.Context, accountID int) ([]*domain.Task, error) {
	if err := s.requireAccount(ctx, accountID); err != nil {
		return nil, err
	}

	tasks, err := s.taskRepository.ListByAccount(ctx, accountID)
	if err != nil {
		log.ForContext(ctx).WithError(err).Errorf("Falha ao listar tasks da conta %d", accountID)
		return nil, NewEngagementError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao listar tasks no banco de dados")
	}

	return tasks, nil
}

// eventDay resolve o dia do evento: a data informada, ou hoje
func (s *Service) eventDay(day *domain.Date) domain.Date {
	if day != nil && !day.IsZero() {
		return *day
	}
	return domain.DateOf(s.now())
}

func (s *Service) requireAccount(ctx context.Context, accountID int) error {
	acc, err := s.accountRepository.GetAccountByID(ctx, accountID)
	if err != nil {
		return NewEngagementError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao buscar conta no banco de dados")
	}
	if acc == nil {
		return NewEngagementError(ErrAccountNotFound, apiErrors.ErrAccountNotFound, "Conta não encontrada")
	}
	return nil
}
