package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/account-tracker-api/infrastructure/database"
	"github.com/vfg2006/account-tracker-api/internal/domain"
)

const activitiesTable = "activities"

type ActivityRepository interface {
	// InsertActivity participa da transação do touch ledger: o insert do
	// evento e o do touch são confirmados ou desfeitos juntos.
	InsertActivity(ctx context.Context, tx *sql.Tx, activity *domain.Activity) error
	ListByAccount(ctx context.Context, accountID, limit, offset int) ([]*domain.Activity, error)
	CountSince(ctx context.Context, from domain.Date) (int, error)
	ListUnsynced(ctx context.Context) ([]*domain.SyncActivityRow, error)
	MarkSynced(ctx context.Context, ids []int) error
	CountUnsynced(ctx context.Context) (int, error)
}

type activityRepository struct {
	conn database.Conn
}

func NewActivityRepository(conn database.Conn) ActivityRepository {
	return &activityRepository{
		conn: conn,
	}
}

func (r *activityRepository) InsertActivity(ctx context.Context, tx *sql.Tx, activity *domain.Activity) error {
	insertSQL, insertArgs, err := r.conn.Builder().
		Insert(activitiesTable).
		Columns("account_id", "activity_type", "description", "activity_date").
		Values(activity.AccountID, activity.ActivityType, activity.Description, activity.ActivityDate).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return err
	}

	if err := tx.QueryRowContext(ctx, insertSQL, insertArgs...).Scan(&activity.ID, &activity.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert activity: %w", err)
	}

	return nil
}

func (r *activityRepository) ListByAccount(ctx context.Context, accountID, limit, offset int) ([]*domain.Activity, error) {
	listSQL, listArgs, err := r.conn.Builder().
		Select("id", "account_id", "activity_type", "description", "activity_date", "created_at", "synced_to_sheets").
		From(activitiesTable).
		Where(squirrel.Eq{"account_id": accountID}).
		OrderBy("activity_date DESC", "created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	activities := make([]*domain.Activity, 0)

	for rows.Next() {
		activity := &domain.Activity{}
		if err := rows.Scan(
			&activity.ID,
			&activity.AccountID,
			&activity.ActivityType,
			&activity.Description,
			&activity.ActivityDate,
			&activity.CreatedAt,
			&activity.Synced,
		); err != nil {
			return nil, err
		}
		activities = append(activities, activity)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return activities, nil
}

func (r *activityRepository) CountSince(ctx context.Context, from domain.Date) (int, error) {
	countSQL, countArgs, err := r.conn.Builder().
		Select("COUNT(*)").
		From(activitiesTable).
		Where(squirrel.GtOrEq{"activity_date": from}).
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

// ListUnsynced devolve as activities ainda não espelhadas, mais recentes
// primeiro pela data do evento, com o nome da conta resolvido.
func (r *activityRepository) ListUnsynced(ctx context.Context) ([]*domain.SyncActivityRow, error) {
	unsyncedSQL, unsyncedArgs, err := r.conn.Builder().
		Select("a.id", "acc.name", "a.activity_type", "a.description", "a.activity_date", "a.created_at").
		From(activitiesTable + " a").
		Join("accounts acc ON a.account_id = acc.id").
		Where(squirrel.Eq{"a.synced_to_sheets": false}).
		OrderBy("a.activity_date DESC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.Query(ctx, unsyncedSQL, unsyncedArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	unsynced := make([]*domain.SyncActivityRow, 0)

	for rows.Next() {
		row := &domain.SyncActivityRow{}
		if err := rows.Scan(
			&row.ID,
			&row.AccountName,
			&row.ActivityType,
			&row.Description,
			&row.ActivityDate,
			&row.CreatedAt,
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

// MarkSynced marca em bloco; ids desconhecidos são ignorados sem erro
func (r *activityRepository) MarkSynced(ctx context.Context, ids []int) error {
	if len(ids) == 0 {
		return nil
	}

	markSQL, markArgs, err := r.conn.Builder().
		Update(activitiesTable).
		Set("synced_to_sheets", true).
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := r.conn.Exec(ctx, markSQL, markArgs...); err != nil {
		return fmt.Errorf("failed to mark activities synced: %w", err)
	}

	return nil
}

func (r *activityRepository) CountUnsynced(ctx context.Context) (int, error) {
	countSQL, countArgs, err := r.conn.Builder().
		Select("COUNT(*)").
		From(activitiesTable).
		Where(squirrel.Eq{"synced_to_sheets": false}).
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
