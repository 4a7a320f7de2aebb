package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/vfg2006/account-tracker-api/internal/config"
)

type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite3"
)

type Conn interface {
	Queryer
	Begin(context.Context) (*sql.Tx, error)
	Close() error
	Ping(context.Context) error
	RunInTransaction(context.Context, func(*sql.Tx) error) error
	Builder() squirrel.StatementBuilderType
	Dialect() Dialect
}

type Connection struct {
	*sql.DB
	dialect Dialect
}

// NewConnection abre a conexão no driver configurado. O mesmo call surface
// atende postgres (DSN) e sqlite (arquivo local); as diferenças de dialeto
// ficam encapsuladas aqui e nos repositórios via Builder.
func NewConnection(
	ctx context.Context,
	cfg config.Database,
) (*Connection, error) {
	dialect := Dialect(cfg.Driver)
	switch dialect {
	case DialectPostgres, DialectSQLite:
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	if dialect == DialectSQLite {
		// go-sqlite3 não tolera escritas concorrentes na mesma conexão
		db.SetMaxOpenConns(1)
	}

	return &Connection{DB: db, dialect: dialect}, nil
}

func (c *Connection) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

func (c *Connection) Begin(ctx context.Context) (*sql.Tx, error) {
	return c.DB.BeginTx(ctx, nil)
}

func (c *Connection) Dialect() Dialect {
	return c.dialect
}

// Builder devolve o squirrel builder com o placeholder do dialeto ativo
func (c *Connection) Builder() squirrel.StatementBuilderType {
	if c.dialect == DialectPostgres {
		return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	}
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
}

// RunInTransaction run a query in the transaction
func (c *Connection) RunInTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err := recover(); err != nil {
			_ = tx.Rollback()
			panic(err)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return rbErr
		}
		return err
	}

	return tx.Commit()
}
