package database

import (
	"context"
	"database/sql"
)

type Queryer interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (sql.Result, error)
	Query(ctx context.Context, sql string, args ...interface{}) (*sql.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) *sql.Row
}

func (c *Connection) Exec(ctx context.Context, sql string, args ...interface{}) (sql.Result, error) {
	return c.DB.ExecContext(ctx, sql, args...)
}

func (c *Connection) Query(ctx context.Context, sql string, args ...interface{}) (*sql.Rows, error) {
	return c.DB.QueryContext(ctx, sql, args...)
}

func (c *Connection) QueryRow(ctx context.Context, sql string, args ...interface{}) *sql.Row {
	return c.DB.QueryRowContext(ctx, sql, args...)
}
