// Package memory is an in-process implementation of the inventory and
// quotation repositories. Transactions are emulated by snapshotting all state
// and restoring it when fn fails.
package memory

import (
	"context"
	"sync"

	"github.com/pharmlab/procure/pkg/repo"
	"github.com/pharmlab/procure/pkg/repo/model"
)

type txKey struct{}

type Store struct {
	txMu sync.Mutex
	mu   sync.Mutex

	chemicals  map[string]*model.Chemical
	quotations []*model.Quotation
	history    []*model.QuotationHistory
	nextID     int64
}

var (
	_ repo.InventoryRepo = (*Store)(nil)
	_ repo.QuotationRepo = (*Store)(nil)
)

func New() *Store {
	return &Store{chemicals: make(map[string]*model.Chemical)}
}

func (s *Store) ExecTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	restore := s.snapshot()
	s.mu.Unlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.mu.Lock()
		restore()
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) snapshot() func() {
	chemicals := make(map[string]*model.Chemical, len(s.chemicals))
	for k, c := range s.chemicals {
		chemicals[k] = cloneChemical(c)
	}
	quotations := make([]*model.Quotation, len(s.quotations))
	for i, q := range s.quotations {
		quotations[i] = q.Clone()
	}
	history := append([]*model.QuotationHistory(nil), s.history...)
	nextID := s.nextID
	return func() {
		s.chemicals = chemicals
		s.quotations = quotations
		s.history = history
		s.nextID = nextID
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}
