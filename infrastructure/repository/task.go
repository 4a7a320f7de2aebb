package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/account-tracker-api/infrastructure/database"
	"github.com/vfg2006/account-tracker-api/internal/domain"
)

const tasksTable = "tasks"

type TaskRepository interface {
	InsertTask(ctx context.Context, task *domain.Task) error
	GetTaskByID(ctx context.Context, taskID int) (*domain.Task, error)
	UpdateTask(ctx context.Context, task *domain.Task) error
	DeleteTask(ctx context.Context, taskID int) error
	ListByAccount(ctx context.Context, accountID int) ([]*domain.Task, error)
	CountOpen(ctx context.Context) (int, error)
	CountOverdue(ctx context.Context, asOf domain.Date) (int, error)
	ListUnsynced(ctx context.Context) ([]*domain.SyncTaskRow, error)
	MarkSynced(ctx context.Context, ids []int) error
	CountUnsynced(ctx context.Context) (int, error)
}

type taskRepository struct {
	conn database.Conn
}

func NewTaskRepository(conn database.Conn) TaskRepository {
	return &taskRepository{
		conn: conn,
	}
}

func (r *taskRepository) InsertTask(ctx context.Context, task *domain.Task) error {
	insertSQL, insertArgs, err := r.conn.Builder().
		Insert(tasksTable).
		Columns("account_id", "title", "description", "due_date", "status").
		Values(task.AccountID, task.Title, task.Description, task.DueDate, task.Status).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return err
	}

	if err := r.conn.QueryRow(ctx, insertSQL, insertArgs...).Scan(&task.ID, &task.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}

	return nil
}

func (r *taskRepository) GetTaskByID(ctx context.Context, taskID int) (*domain.Task, error) {
	taskSQL, taskArgs, err := r.conn.Builder().
		Select("id", "account_id", "title", "description", "due_date", "status", "created_at", "completed_at", "synced_to_sheets").
		From(tasksTable).
		Where(squirrel.Eq{"id": taskID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	task := &domain.Task{}
	err = r.conn.QueryRow(ctx, taskSQL, taskArgs...).Scan(
		&task.ID,
		&task.AccountID,
		&task.Title,
		&task.Description,
		&task.DueDate,
		&task.Status,
		&task.CreatedAt,
		&task.CompletedAt,
		&task.Synced,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return task, nil
}

// UpdateTask grava a task inteira; o merge do patch e o invariante de
// completed_at são responsabilidade do usecase.
func (r *taskRepository) UpdateTask(ctx context.Context, task *domain.Task) error {
	updateSQL, updateArgs, err := r.conn.Builder().
		Update(tasksTable).
		Set("title", task.Title).
		Set("description", task.Description).
		Set("due_date", task.DueDate).
		Set("status", task.Status).
		Set("completed_at", task.CompletedAt).
		Where(squirrel.Eq{"id": task.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	result, err := r.conn.Exec(ctx, updateSQL, updateArgs...)
	if err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *taskRepository) DeleteTask(ctx context.Context, taskID int) error {
	deleteSQL, deleteArgs, err := r.conn.Builder().
		Delete(tasksTable).
		Where(squirrel.Eq{"id": taskID}).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := r.conn.Exec(ctx, deleteSQL, deleteArgs...); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

func (r *taskRepository) ListByAccount(ctx context.Context, accountID int) ([]*domain.Task, error) {
	listSQL, listArgs, err := r.conn.Builder().
		Select("id", "account_id", "title", "description", "due_date", "status", "created_at", "completed_at", "synced_to_sheets").
		From(tasksTable).
		Where(squirrel.Eq{"account_id": accountID}).
		OrderBy(
			"CASE WHEN status = 'open' THEN 0 ELSE 1 END",
			"due_date ASC NULLS LAST",
			"created_at DESC",
		).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]*domain.Task, 0)

	for rows.Next() {
		task := &domain.Task{}
		if err := rows.Scan(
			&task.ID,
			&task.AccountID,
			&task.Title,
			&task.Description,
			&task.DueDate,
			&task.Status,
			&task.CreatedAt,
			&task.CompletedAt,
			&task.Synced,
		); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}

func (r *taskRepository) CountOpen(ctx context.Context) (int, error) {
	return r.countWhere(ctx, squirrel.Eq{"status": domain.TaskOpen})
}

// CountOverdue conta tasks abertas com due_date estritamente anterior a asOf
func (r *taskRepository) CountOverdue(ctx context.Context, asOf domain.Date) (int, error) {
	return r.countWhere(ctx, squirrel.And{
		squirrel.Eq{"status": domain.TaskOpen},
		squirrel.Lt{"due_date": asOf},
	})
}

func (r *taskRepository) countWhere(ctx context.Context, where squirrel.Sqlizer) (int, error) {
	countSQL, countArgs, err := r.conn.Builder().
		Select("COUNT(*)").
		From(tasksTable).
		Where(where).
		ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	if err := r.conn.QueryRow(ctx, countSQL, countArgs...).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

// ListUnsynced devolve tasks não espelhadas, mais recentes primeiro pela criação
func (r *taskRepository) ListUnsynced(ctx context.Context) ([]*domain.SyncTaskRow, error) {
	unsyncedSQL, unsyncedArgs, err := r.conn.Builder().
		Select("t.id", "acc.name", "t.title", "t.description", "t.due_date", "t.status", "t.created_at", "t.completed_at").
		From(tasksTable + " t").
		Join("accounts acc ON t.account_id = acc.id").
		Where(squirrel.Eq{"t.synced_to_sheets": false}).
		OrderBy("t.created_at DESC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.Query(ctx, unsyncedSQL, unsyncedArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	unsynced := make([]*domain.SyncTaskRow, 0)

	for rows.Next() {
		row := &domain.SyncTaskRow{}
		if err := rows.Scan(
			&row.ID,
			&row.AccountName,
			&row.Title,
			&row.Description,
			&row.DueDate,
			&row.Status,
			&row.CreatedAt,
			&row.CompletedAt,
		); err != nil {
			return nil, err
		}
		unsynced = append(unsynced, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return unsynced, nil
}

func (r *taskRepository) MarkSynced(ctx context.Context, ids []int) error {
	if len(ids) == 0 {
		return nil
	}

	markSQL, markArgs, err := r.conn.Builder().
		Update(tasksTable).
		Set("synced_to_sheets", true).
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := r.conn.Exec(ctx, markSQL, markArgs...); err != nil {
		return fmt.Errorf("failed to mark tasks synced: %w", err)
	}

	return nil
}

func (r *taskRepository) CountUnsynced(ctx context.Context) (int, error) {
	return r.countWhere(ctx, squirrel.Eq{"synced_to_sheets": false})
}
