package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/account-tracker-api/infrastructure/database"
	"github.com/vfg2006/account-tracker-api/internal/domain"
)

const touchesTable = "daily_touches"

// TouchRepository é o storage do touch ledger. O par (account_id,
// touch_date) tem restrição UNIQUE; o insert condicional devolve false
// quando o dia já estava marcado, nunca erro.
type TouchRepository interface {
	InsertIfAbsent(ctx context.Context, accountID int, day domain.Date) (bool, error)
	InsertIfAbsentTx(ctx context.Context, tx *sql.Tx, accountID int, day domain.Date) (bool, error)
	IsTouched(ctx context.Context, accountID int, day domain.Date) (bool, error)
	CountTouchedOn(ctx context.Context, day domain.Date) (int, error)
	CountDistinctAccountsSince(ctx context.Context, from domain.Date) (int, error)
	ListTouchDays(ctx context.Context, from domain.Date) ([]domain.Date, error)
}

type touchRepository struct {
	conn database.Conn
}

func NewTouchRepository(conn database.Conn) TouchRepository {
	return &touchRepository{
		conn: conn,
	}
}

func (r *touchRepository) insertSQL(accountID int, day domain.Date) (string, []interface{}, error) {
	return r.conn.Builder().
		Insert(touchesTable).
		Columns("account_id", "touch_date").
		Values(accountID, day).
		Suffix("ON CONFLICT (account_id, touch_date) DO NOTHING").
		ToSql()
}

func (r *touchRepository) InsertIfAbsent(ctx context.Context, accountID int, day domain.Date) (bool, error) {
	touchSQL, touchArgs, err := r.insertSQL(accountID, day)
	if err != nil {
		return false, err
	}

	result, err := r.conn.Exec(ctx, touchSQL, touchArgs...)
	if err != nil {
		return false, fmt.Errorf("failed to record touch: %w", err)
	}

	return insertedOneRow(result)
}

func (r *touchRepository) InsertIfAbsentTx(ctx context.Context, tx *sql.Tx, accountID int, day domain.Date) (bool, error) {
	touchSQL, touchArgs, err := r.insertSQL(accountID, day)
	if err != nil {
		return false, err
	}

	result, err := tx.ExecContext(ctx, touchSQL, touchArgs...)
	if err != nil {
		return false, fmt.Errorf("failed to record touch: %w", err)
	}

	return insertedOneRow(result)
}

func insertedOneRow(result sql.Result) (bool, error) {
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *touchRepository) IsTouched(ctx context.Context, accountID int, day domain.Date) (bool, error) {
	touchedSQL, touchedArgs, err := r.conn.Builder().
		Select("COUNT(*)").
		From(touchesTable).
		Where(squirrel.Eq{"account_id": accountID, "touch_date": day}).
		ToSql()
	if err != nil {
		return false, err
	}

	var count int
	if err := r.conn.QueryRow(ctx, touchedSQL, touchedArgs...).Scan(&count); err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *touchRepository) CountTouchedOn(ctx context.Context, day domain.Date) (int, error) {
	countSQL, countArgs, err := r.conn.Builder().
		Select("COUNT(DISTINCT account_id)").
		From(touchesTable).
		Where(squirrel.Eq{"touch_date": day}).
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

func (r *touchRepository) CountDistinctAccountsSince(ctx context.Context, from domain.Date) (int, error) {
	countSQL, countArgs, err := r.conn.Builder().
		Select("COUNT(DISTINCT account_id)").
		From(touchesTable).
		Where(squirrel.GtOrEq{"touch_date": from}).
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

// ListTouchDays devolve os dias distintos com ao menos um touch a partir
// de from, do mais recente para o mais antigo. Alimenta o cálculo de streak.
func (r *touchRepository) ListTouchDays(ctx context.Context, from domain.Date) ([]domain.Date, error) {
	daysSQL, daysArgs, err := r.conn.Builder().
		Select("DISTINCT touch_date").
		From(touchesTable).
		Where(squirrel.GtOrEq{"touch_date": from}).
		OrderBy("touch_date DESC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.Query(ctx, daysSQL, daysArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	days := make([]domain.Date, 0)

	for rows.Next() {
		var day domain.Date
		if err := rows.Scan(&day); err != nil {
			return nil, err
		}
		days = append(days, day)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return days, nil
}
