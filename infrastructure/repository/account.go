package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/account-tracker-api/infrastructure/database"
	"github.com/vfg2006/account-tracker-api/internal/domain"
)

const accountsTable = "accounts"

type AccountRepository interface {
	GetAccountByID(ctx context.Context, accountID int) (*domain.Account, error)
	GetAccountDetail(ctx context.Context, accountID int, asOf domain.Date) (*domain.AccountDetail, error)
	ListAccountSummaries(ctx context.Context, asOf domain.Date) ([]*domain.AccountSummary, error)
	CreateAccount(ctx context.Context, req *domain.CreateAccountRequest) (*domain.Account, error)
	UpdateAccount(ctx context.Context, req *domain.UpdateAccountRequest) error
	CountAccounts(ctx context.Context) (int, error)
	CountRenewalsBetween(ctx context.Context, from, to domain.Date) (int, error)
}

type accountRepository struct {
	conn database.Conn
}

func NewAccountRepository(conn database.Conn) AccountRepository {
	return &accountRepository{
		conn: conn,
	}
}

func (r *accountRepository) GetAccountByID(ctx context.Context, accountID int) (*domain.Account, error) {
	accountSQL, accountArgs, err := r.conn.Builder().
		Select("id", "name", "industry", "location", "renewal_date", "annual_value", "created_at").
		From(accountsTable).
		Where(squirrel.Eq{"id": accountID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	acc := &domain.Account{}
	err = r.conn.QueryRow(ctx, accountSQL, accountArgs...).Scan(
		&acc.ID,
		&acc.Name,
		&acc.Industry,
		&acc.Location,
		&acc.RenewalDate,
		&acc.AnnualValue,
		&acc.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return acc, nil
}

// GetAccountDetail devolve a conta com o estado de touch do dia e os
// totais históricos de activities, tasks abertas e notes.
func (r *accountRepository) GetAccountDetail(ctx context.Context, accountID int, asOf domain.Date) (*domain.AccountDetail, error) {
	detailSQL, detailArgs, err := r.conn.Builder().
		Select(
			"a.id", "a.name", "a.industry", "a.location", "a.renewal_date", "a.annual_value", "a.created_at",
			"CASE WHEN dt.id IS NOT NULL THEN 1 ELSE 0 END AS touched_today",
			"(SELECT COUNT(*) FROM activities WHERE account_id = a.id) AS total_activities",
			"(SELECT COUNT(*) FROM tasks WHERE account_id = a.id AND status = 'open') AS open_tasks",
			"(SELECT COUNT(*) FROM notes WHERE account_id = a.id) AS total_notes",
		).
		From(accountsTable+" a").
		LeftJoin("daily_touches dt ON a.id = dt.account_id AND dt.touch_date = ?", asOf).
		Where(squirrel.Eq{"a.id": accountID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	detail := &domain.AccountDetail{}
	var touched int
	err = r.conn.QueryRow(ctx, detailSQL, detailArgs...).Scan(
		&detail.ID,
		&detail.Name,
		&detail.Industry,
		&detail.Location,
		&detail.RenewalDate,
		&detail.AnnualValue,
		&detail.CreatedAt,
		&touched,
		&detail.TotalActivities,
		&detail.OpenTasks,
		&detail.TotalNotes,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	detail.TouchedToday = touched == 1

	return detail, nil
}

// ListAccountSummaries devolve todas as contas com os agregados do dia de
// referência. Os agregados de deals são resolvidos pelo usecase a partir
// do DealRepository para manter a seleção de estágio em um único lugar.
func (r *accountRepository) ListAccountSummaries(ctx context.Context, asOf domain.Date) ([]*domain.AccountSummary, error) {
	summarySQL, summaryArgs, err := r.conn.Builder().
		Select(
			"a.id", "a.name", "a.industry", "a.location", "a.renewal_date", "a.annual_value", "a.created_at",
			"CASE WHEN dt.id IS NOT NULL THEN 1 ELSE 0 END AS touched_today",
		).
		Column(squirrel.Expr("(SELECT COUNT(*) FROM activities WHERE account_id = a.id AND activity_date = ?) AS today_activity_count", asOf)).
		Column("(SELECT COUNT(*) FROM tasks WHERE account_id = a.id AND status = 'open') AS open_tasks").
		Column("(SELECT MAX(activity_date) FROM activities WHERE account_id = a.id) AS last_activity_date").
		Column("(SELECT description FROM activities WHERE account_id = a.id ORDER BY activity_date DESC, created_at DESC LIMIT 1) AS last_activity_description").
		From(accountsTable+" a").
		LeftJoin("daily_touches dt ON a.id = dt.account_id AND dt.touch_date = ?", asOf).
		OrderBy("a.name ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.Query(ctx, summarySQL, summaryArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]*domain.AccountSummary, 0)

	for rows.Next() {
		summary := &domain.AccountSummary{}
		var touched int
		if err := rows.Scan(
			&summary.ID,
			&summary.Name,
			&summary.Industry,
			&summary.Location,
			&summary.RenewalDate,
			&summary.AnnualValue,
			&summary.CreatedAt,
			&touched,
			&summary.TodayActivityCount,
			&summary.OpenTasks,
			&summary.LastActivityDate,
			&summary.LastActivityNote,
		); err != nil {
			return nil, err
		}

		summary.TouchedToday = touched == 1
		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return summaries, nil
}

func (r *accountRepository) CreateAccount(ctx context.Context, req *domain.CreateAccountRequest) (*domain.Account, error) {
	insertSQL, insertArgs, err := r.conn.Builder().
		Insert(accountsTable).
		Columns("name", "industry", "location", "renewal_date", "annual_value").
		Values(req.Name, req.Industry, req.Location, req.RenewalDate, req.AnnualValue).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, err
	}

	acc := &domain.Account{
		Name:        req.Name,
		Industry:    req.Industry,
		Location:    req.Location,
		RenewalDate: req.RenewalDate,
		AnnualValue: req.AnnualValue,
	}

	if err := r.conn.QueryRow(ctx, insertSQL, insertArgs...).Scan(&acc.ID, &acc.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to insert account: %w", err)
	}

	return acc, nil
}

func (r *accountRepository) UpdateAccount(ctx context.Context, req *domain.UpdateAccountRequest) error {
	queryBuilder := r.conn.Builder().
		Update(accountsTable).
		Where(squirrel.Eq{"id": req.ID})

	changed := false

	if req.Name.Set && req.Name.Valid {
		queryBuilder = queryBuilder.Set("name", req.Name.Value)
		changed = true
	}

	if req.Industry.Set {
		queryBuilder = queryBuilder.Set("industry", optionalStringArg(req.Industry))
		changed = true
	}

	if req.Location.Set {
		queryBuilder = queryBuilder.Set("location", optionalStringArg(req.Location))
		changed = true
	}

	if req.RenewalDate.Set {
		queryBuilder = queryBuilder.Set("renewal_date", optionalDateArg(req.RenewalDate))
		changed = true
	}

	if req.AnnualValue.Set {
		queryBuilder = queryBuilder.Set("annual_value", optionalFloatArg(req.AnnualValue))
		changed = true
	}

	if !changed {
		// patch vazio: nada a persistir
		return nil
	}

	updateSQL, updateArgs, err := queryBuilder.ToSql()
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

func (r *accountRepository) CountAccounts(ctx context.Context) (int, error) {
	countSQL, countArgs, err := r.conn.Builder().
		Select("COUNT(*)").
		From(accountsTable).
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

// CountRenewalsBetween conta contas com renewal_date no intervalo fechado
func (r *accountRepository) CountRenewalsBetween(ctx context.Context, from, to domain.Date) (int, error) {
	countSQL, countArgs, err := r.conn.Builder().
		Select("COUNT(*)").
		From(accountsTable).
		Where(squirrel.GtOrEq{"renewal_date": from}).
		Where(squirrel.LtOrEq{"renewal_date": to}).
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

func optionalStringArg(o domain.OptionalString) interface{} {
	if !o.Valid {
		return nil
	}
	return o.Value
}

func optionalDateArg(o domain.OptionalDate) interface{} {
	if !o.Valid {
		return nil
	}
	return o.Value
}

func optionalFloatArg(o domain.OptionalFloat) interface{} {
	if !o.Valid {
		return nil
	}
	return o.Value
}
