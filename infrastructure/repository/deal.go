package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/account-tracker-api/infrastructure/database"
	"github.com/vfg2006/account-tracker-api/internal/domain"
)

const dealsTable = "deals"

type DealRepository interface {
	InsertDeal(ctx context.Context, deal *domain.Deal) error
	GetDealByID(ctx context.Context, dealID int) (*domain.Deal, error)
	UpdateDeal(ctx context.Context, deal *domain.Deal) error
	DeleteDeal(ctx context.Context, dealID int) error
	ListByAccount(ctx context.Context, accountID int) ([]*domain.Deal, error)
	ListOpen(ctx context.Context) ([]*domain.Deal, error)
	SumOpenPipeline(ctx context.Context) (float64, error)
	ListUnsynced(ctx context.Context) ([]*domain.SyncDealRow, error)
	MarkSynced(ctx context.Context, ids []int) error
	CountUnsynced(ctx context.Context) (int, error)
}

type dealRepository struct {
	conn database.Conn
}

func NewDealRepository(conn database.Conn) DealRepository {
	return &dealRepository{
		conn: conn,
	}
}

var closedStages = []domain.DealStage{domain.StageClosedWon, domain.StageClosedLost}

func (r *dealRepository) InsertDeal(ctx context.Context, deal *domain.Deal) error {
	insertSQL, insertArgs, err := r.conn.Builder().
		Insert(dealsTable).
		Columns("account_id", "name", "stage", "value", "closed_at").
		Values(deal.AccountID, deal.Name, deal.Stage, deal.Value, deal.ClosedAt).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return err
	}

	if err := r.conn.QueryRow(ctx, insertSQL, insertArgs...).Scan(&deal.ID, &deal.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert deal: %w", err)
	}

	return nil
}

func (r *dealRepository) GetDealByID(ctx context.Context, dealID int) (*domain.Deal, error) {
	dealSQL, dealArgs, err := r.conn.Builder().
		Select("id", "account_id", "name", "stage", "value", "created_at", "closed_at", "synced_to_sheets").
		From(dealsTable).
		Where(squirrel.Eq{"id": dealID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	deal := &domain.Deal{}
	err = r.conn.QueryRow(ctx, dealSQL, dealArgs...).Scan(
		&deal.ID,
		&deal.AccountID,
		&deal.Name,
		&deal.Stage,
		&deal.Value,
		&deal.CreatedAt,
		&deal.ClosedAt,
		&deal.Synced,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return deal, nil
}

// UpdateDeal grava o deal inteiro; o invariante de closed_at é aplicado no usecase
func (r *dealRepository) UpdateDeal(ctx context.Context, deal *domain.Deal) error {
	updateSQL, updateArgs, err := r.conn.Builder().
		Update(dealsTable).
		Set("name", deal.Name).
		Set("stage", deal.Stage).
		Set("value", deal.Value).
		Set("closed_at", deal.ClosedAt).
		Where(squirrel.Eq{"id": deal.ID}).
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

func (r *dealRepository) DeleteDeal(ctx context.Context, dealID int) error {
	deleteSQL, deleteArgs, err := r.conn.Builder().
		Delete(dealsTable).
		Where(squirrel.Eq{"id": dealID}).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := r.conn.Exec(ctx, deleteSQL, deleteArgs...); err != nil {
		return fmt.Errorf("failed to delete deal: %w", err)
	}

	return nil
}

func (r *dealRepository) ListByAccount(ctx context.Context, accountID int) ([]*domain.Deal, error) {
	listSQL, listArgs, err := r.conn.Builder().
		Select("id", "account_id", "name", "stage", "value", "created_at", "closed_at", "synced_to_sheets").
		From(dealsTable).
		Where(squirrel.Eq{"account_id": accountID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, err
	}

	return r.queryDeals(ctx, listSQL, listArgs)
}

// ListOpen devolve todos os deals fora dos estágios de fechamento
func (r *dealRepository) ListOpen(ctx context.Context) ([]*domain.Deal, error) {
	listSQL, listArgs, err := r.conn.Builder().
		Select("id", "account_id", "name", "stage", "value", "created_at", "closed_at", "synced_to_sheets").
		From(dealsTable).
		Where(squirrel.NotEq{"stage": closedStages}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, err
	}

	return r.queryDeals(ctx, listSQL, listArgs)
}

func (r *dealRepository) queryDeals(ctx context.Context, query string, args []interface{}) ([]*domain.Deal, error) {
	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	deals := make([]*domain.Deal, 0)

	for rows.Next() {
		deal := &domain.Deal{}
		if err := rows.Scan(
			&deal.ID,
			&deal.AccountID,
			&deal.Name,
			&deal.Stage,
			&deal.Value,
			&deal.CreatedAt,
			&deal.ClosedAt,
			&deal.Synced,
		); err != nil {
			return nil, err
		}
		deals = append(deals, deal)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return deals, nil
}

// SumOpenPipeline soma o valor dos deals abertos; value NULL conta como zero
func (r *dealRepository) SumOpenPipeline(ctx context.Context) (float64, error) {
	sumSQL, sumArgs, err := r.conn.Builder().
		Select("COALESCE(SUM(COALESCE(value, 0)), 0)").
		From(dealsTable).
		Where(squirrel.NotEq{"stage": closedStages}).
		ToSql()
	if err != nil {
		return 0, err
	}

	var total float64
	if err := r.conn.QueryRow(ctx, sumSQL, sumArgs...).Scan(&total); err != nil {
		return 0, err
	}

	return total, nil
}

func (r *dealRepository) ListUnsynced(ctx context.Context) ([]*domain.SyncDealRow, error) {
	unsyncedSQL, unsyncedArgs, err := r.conn.Builder().
		Select("d.id", "acc.name", "d.name", "d.stage", "d.value", "d.created_at", "d.closed_at").
		From(dealsTable + " d").
		Join("accounts acc ON d.account_id = acc.id").
		Where(squirrel.Eq{"d.synced_to_sheets": false}).
		OrderBy("d.created_at DESC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.Query(ctx, unsyncedSQL, unsyncedArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	unsynced := make([]*domain.SyncDealRow, 0)

	for rows.Next() {
		row := &domain.SyncDealRow{}
		if err := rows.Scan(
			&row.ID,
			&row.AccountName,
			&row.Name,
			&row.Stage,
			&row.Value,
			&row.CreatedAt,
			&row.ClosedAt,
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

func (r *dealRepository) MarkSynced(ctx context.Context, ids []int) error {
	if len(ids) == 0 {
		return nil
	}

	markSQL, markArgs, err := r.conn.Builder().
		Update(dealsTable).
		Set("synced_to_sheets", true).
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := r.conn.Exec(ctx, markSQL, markArgs...); err != nil {
		return fmt.Errorf("failed to mark deals synced: %w", err)
	}

	return nil
}

func (r *dealRepository) CountUnsynced(ctx context.Context) (int, error) {
	countSQL, countArgs, err := r.conn.Builder().
		Select("COUNT(*)").
		From(dealsTable).
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
