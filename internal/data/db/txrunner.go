package db

import (
	"context"
	"errors"

	"github.com/codeforma/codeforma-backend/internal/platform/dbctx"
	"gorm.io/gorm"
)

// TxRunner is the shared transaction boundary primitive for multi-step
// writes. Progress recording, certificate issuance and review recompute all
// run their read-modify-write sequences through one of these.
type TxRunner interface {
	InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error
}

type gormTxRunner struct {
	db *gorm.DB
}

func NewGormTxRunner(db *gorm.DB) TxRunner {
	return &gormTxRunner{db: db}
}

func (r *gormTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	if fn == nil {
		return nil
	}
	if r == nil || r.db == nil {
		return errors.New("transaction runner has nil db")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: ctx, Tx: tx})
	})
}
