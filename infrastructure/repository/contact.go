package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/account-tracker-api/infrastructure/database"
	"github.com/vfg2006/account-tracker-api/internal/domain"
)

const contactsTable = "contacts"

type ContactRepository interface {
	InsertContact(ctx context.Context, contact *domain.Contact) error
	GetContactByID(ctx context.Context, contactID int) (*domain.Contact, error)
	UpdateContact(ctx context.Context, contact *domain.Contact) error
	DeleteContact(ctx context.Context, contactID int) error
	ListByAccount(ctx context.Context, accountID int) ([]*domain.Contact, error)
}

type contactRepository struct {
	conn database.Conn
}

func NewContactRepository(conn database.Conn) ContactRepository {
	return &contactRepository{
		conn: conn,
	}
}

func (r *contactRepository) InsertContact(ctx context.Context, contact *domain.Contact) error {
	insertSQL, insertArgs, err := r.conn.Builder().
		Insert(contactsTable).
		Columns("account_id", "name", "role", "email", "phone").
		Values(contact.AccountID, contact.Name, contact.Role, contact.Email, contact.Phone).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return err
	}

	if err := r.conn.QueryRow(ctx, insertSQL, insertArgs...).Scan(&contact.ID, &contact.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert contact: %w", err)
	}

	return nil
}

func (r *contactRepository) GetContactByID(ctx context.Context, contactID int) (*domain.Contact, error) {
	contactSQL, contactArgs, err := r.conn.Builder().
		Select("id", "account_id", "name", "role", "email", "phone", "created_at").
		From(contactsTable).
		Where(squirrel.Eq{"id": contactID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	contact := &domain.Contact{}
	err = r.conn.QueryRow(ctx, contactSQL, contactArgs...).Scan(
		&contact.ID,
		&contact.AccountID,
		&contact.Name,
		&contact.Role,
		&contact.Email,
		&contact.Phone,
		&contact.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return contact, nil
}

func (r *contactRepository) UpdateContact(ctx context.Context, contact *domain.Contact) error {
	updateSQL, updateArgs, err := r.conn.Builder().
		Update(contactsTable).
		Set("name", contact.Name).
		Set("role", contact.Role).
		Set("email", contact.Email).
		Set("phone", contact.Phone).
		Where(squirrel.Eq{"id": contact.ID}).
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

func (r *contactRepository) DeleteContact(ctx context.Context, contactID int) error {
	deleteSQL, deleteArgs, err := r.conn.Builder().
		Delete(contactsTable).
		Where(squirrel.Eq{"id": contactID}).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := r.conn.Exec(ctx, deleteSQL, deleteArgs...); err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}

	return nil
}

// ListByAccount ordena pelo role (para exibição) e depois pelo nome
func (r *contactRepository) ListByAccount(ctx context.Context, accountID int) ([]*domain.Contact, error) {
	listSQL, listArgs, err := r.conn.Builder().
		Select("id", "account_id", "name", "role", "email", "phone", "created_at").
		From(contactsTable).
		Where(squirrel.Eq{"account_id": accountID}).
		OrderBy("role ASC NULLS LAST", "name ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := make([]*domain.Contact, 0)

	for rows.Next() {
		contact := &domain.Contact{}
		if err := rows.Scan(
			&contact.ID,
			&contact.AccountID,
			&contact.Name,
			&contact.Role,
			&contact.Email,
			&contact.Phone,
			&contact.CreatedAt,
		); err != nil {
			return nil, err
		}
		contacts = append(contacts, contact)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return contacts, nil
}
