package repo

import "context"

type Transactor interface {
	// ExecTx runs fn in one transaction; repos called with txCtx join it.
	ExecTx(ctx context.Context, fn func(txCtx context.Context) error) error
}
