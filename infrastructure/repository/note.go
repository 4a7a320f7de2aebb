package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/account-tracker-api/infrastructure/database"
	"github.com/vfg2006/account-tracker-api/internal/domain"
)

const notesTable = "notes"

type NoteRepository interface {
	// InsertNote participa da mesma transação do touch ledger
	InsertNote(ctx context.Context, tx *sql.Tx, note *domain.Note) error
	ListByAccount(ctx context.Context, accountID int) ([]*domain.Note, error)
	ListUnsynced(ctx context.Context) ([]*domain.SyncNoteRow, error)
	MarkSynced(ctx context.Context, ids []int) error
	CountUnsynced(ctx context.Context) (int, error)
}

type noteRepository struct {
	conn database.Conn
}

func NewNoteRepository(conn database.Conn) NoteRepository {
	return &noteRepository{
		conn: conn,
	}
}

func (r *noteRepository) InsertNote(ctx context.Context, tx *sql.Tx, note *domain.Note) error {
	insertSQL, insertArgs, err := r.conn.Builder().
		Insert(notesTable).
		Columns("account_id", "content", "note_date").
		Values(note.AccountID, note.Content, note.NoteDate).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return err
	}

	if err := tx.QueryRowContext(ctx, insertSQL, insertArgs...).Scan(&note.ID, &note.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert note: %w", err)
	}

	return nil
}

func (r *noteRepository) ListByAccount(ctx context.Context, accountID int) ([]*domain.Note, error) {
	listSQL, listArgs, err := r.conn.Builder().
		Select("id", "account_id", "content", "note_date", "created_at", "synced_to_sheets").
		From(notesTable).
		Where(squirrel.Eq{"account_id": accountID}).
		OrderBy("note_date DESC", "created_at DESC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := make([]*domain.Note, 0)

	for rows.Next() {
		note := &domain.Note{}
		if err := rows.Scan(
			&note.ID,
			&note.AccountID,
			&note.Content,
			&note.NoteDate,
			&note.CreatedAt,
			&note.Synced,
		); err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return notes, nil
}

func (r *noteRepository) ListUnsynced(ctx context.Context) ([]*domain.SyncNoteRow, error) {
	unsyncedSQL, unsyncedArgs, err := r.conn.Builder().
		Select("n.id", "acc.name", "n.content", "n.note_date", "n.created_at").
		From(notesTable + " n").
		Join("accounts acc ON n.account_id = acc.id").
		Where(squirrel.Eq{"n.synced_to_sheets": false}).
		OrderBy("n.note_date DESC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.Query(ctx, unsyncedSQL, unsyncedArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	unsynced := make([]*domain.SyncNoteRow, 0)

	for rows.Next() {
		row := &domain.SyncNoteRow{}
		if err := rows.Scan(
			&row.ID,
			&row.AccountName,
			&row.Content,
			&row.NoteDate,
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

func (r *noteRepository) MarkSynced(ctx context.Context, ids []int) error {
	if len(ids) == 0 {
		return nil
	}

	markSQL, markArgs, err := r.conn.Builder().
		Update(notesTable).
		Set("synced_to_sheets", true).
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := r.conn.Exec(ctx, markSQL, markArgs...); err != nil {
		return fmt.Errorf("failed to mark notes synced: %w", err)
	}

	return nil
}

func (r *noteRepository) CountUnsynced(ctx context.Context) (int, error) {
	countSQL, countArgs, err := r.conn.Builder().
		Select("COUNT(*)").
		From(notesTable).
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
