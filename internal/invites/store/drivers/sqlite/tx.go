package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/tenancy/internal/invites/store"
)

type txStore struct {
	tx *sql.Tx
}

func newTx(tx *sql.Tx) *txStore {
	return &txStore{tx: tx}
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Close() error { return nil } // the outer DB stays open

// Ping is a no-op; the connection is held for the life of the transaction.
func (t *txStore) Ping(context.Context) error { return nil }

// Nested transactions are not supported.
func (t *txStore) Tx(context.Context) (store.Tx, error) {
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(context.Context, func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) Invitations() store.Invitations { return &invitationsRepo{db: t.tx} }
func (t *txStore) Users() store.Users             { return &usersRepo{db: t.tx} }
func (t *txStore) Properties() store.Properties   { return &propertiesRepo{db: t.tx} }

func (t *txStore) ApplyMigrations() error { return nil } // applied before any tx starts
