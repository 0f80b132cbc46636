package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Database is the query surface repositories run against. Both *pgxpool.Pool
// and pgx.Tx satisfy it, so the same repository code serves plain reads and
// transactional mutations.
type Database interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// PgxPool is the subset of *pgxpool.Pool the transaction manager needs.
// pgxmock's pool interface satisfies it as well.
type PgxPool interface {
	Database
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// Repos bundles the repositories that participate in order/stock transactions,
// all bound to the same Database (pool or open transaction).
type Repos struct {
	Products   ProductRepository
	Orders     OrderRepository
	OrderItems OrderItemRepository
}

// NewRepos binds the transactional repositories to db.
func NewRepos(db Database) *Repos {
	return &Repos{
		Products:   NewProductRepo(db),
		Orders:     NewOrderRepo(db),
		OrderItems: NewOrderItemRepo(db),
	}
}

// TxManager runs a function inside a single database transaction. The closure
// receives repositories bound to that transaction; if it returns an error the
// transaction is rolled back and no partial write survives.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, r *Repos) error) error
}

type pgxTxManager struct {
	pool PgxPool
}

func NewTxManager(pool PgxPool) TxManager {
	return &pgxTxManager{pool: pool}
}

func (m *pgxTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context, r *Repos) error) error {
	tx, err := m.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		// No-op after a successful commit.
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			_ = rbErr
		}
	}()

	if err := fn(ctx, NewRepos(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
