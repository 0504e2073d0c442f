package memory

import (
	"context"
	"slices"
	"time"

	"github.com/pharmlab/procure/pkg/common/code"
	"github.com/pharmlab/procure/pkg/common/uuid"
	"github.com/pharmlab/procure/pkg/repo"
	"github.com/pharmlab/procure/pkg/repo/model"
)

func (s *Store) CreateQuotation(_ context.Context, q *model.Quotation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	q.ID = s.id()
	if q.UUID.IsNil() {
		q.UUID = uuid.NewV4()
	}
	q.CreatedAt, q.UpdatedAt = now, now
	if q.Version == 0 {
		q.Version = 1
	}
	expIDs := make(map[int]int64, len(q.Experiments))
	for _, e := range q.Experiments {
		e.ID = s.id()
		e.QuotationID = q.ID
		expIDs[e.Position] = e.ID
	}
	for _, item := range q.LineItems {
		item.ID = s.id()
		item.QuotationID = q.ID
		item.CreatedAt, item.UpdatedAt = now, now
		if item.ExperimentID != nil {
			id := expIDs[int(*item.ExperimentID)]
			item.ExperimentID = &id
		}
	}
	for _, c := range q.Comments {
		c.ID = s.id()
		c.QuotationID = q.ID
		c.CreatedAt = now
	}
	s.quotations = append(s.quotations, q.Clone())
	return nil
}

func (s *Store) GetQuotation(_ context.Context, id uuid.UUID) (*model.Quotation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if q := s.find(id); q != nil {
		return q.Clone(), nil
	}
	return nil, code.QuotationNotFoundErr.WithMsgf("uuid: %s", id)
}

func (s *Store) ListQuotations(_ context.Context, query repo.QuotationQuery) ([]*model.Quotation, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	matched := make([]*model.Quotation, 0)
	for i := len(s.quotations) - 1; i >= 0; i-- {
		q := s.quotations[i]
		if len(query.Kinds) > 0 && !slices.Contains(query.Kinds, q.Kind) {
			continue
		}
		if query.LabID != "" && q.LabID != query.LabID {
			continue
		}
		if query.ExcludeDraft && q.Status == model.StatusDraft {
			continue
		}
		if query.DraftOwner != "" && q.Status == model.StatusDraft && q.CreatedBy != query.DraftOwner {
			continue
		}
		if query.Status != nil && q.Status != *query.Status {
			continue
		}
		matched = append(matched, q.Clone())
	}
	total := int64(len(matched))
	if query.Offset >= len(matched) {
		return []*model.Quotation{}, total, nil
	}
	matched = matched[query.Offset:]
	if query.Limit > 0 && len(matched) > query.Limit {
		matched = matched[:query.Limit]
	}
	return matched, total, nil
}

func (s *Store) SaveQuotation(_ context.Context, q *model.Quotation, history *model.QuotationHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := s.find(q.UUID)
	if stored == nil {
		return code.QuotationNotFoundErr.WithMsgf("uuid: %s", q.UUID)
	}
	if stored.Version != q.Version {
		return code.QuotationVersionConflictErr.WithMsgf("uuid: %s version: %d", q.UUID, q.Version)
	}
	now := time.Now().UTC()
	for _, item := range q.LineItems {
		if item.ID == 0 {
			item.ID = s.id()
			item.QuotationID = q.ID
			item.CreatedAt = now
		}
		item.UpdatedAt = now
	}
	for _, c := range q.Comments {
		if c.ID == 0 {
			c.ID = s.id()
			c.QuotationID = q.ID
			if c.CreatedAt.IsZero() {
				c.CreatedAt = now
			}
		}
	}
	if history != nil {
		history.ID = s.id()
		history.QuotationID = q.ID
		s.history = append(s.history, history)
	}
	q.Version++
	q.UpdatedAt = now

	saved := q.Clone()
	// Keep comments appended through AppendComment after q was loaded.
	for _, c := range stored.Comments {
		if !slices.ContainsFunc(saved.Comments, func(x *model.Comment) bool { return x.ID == c.ID }) {
			saved.Comments = append(saved.Comments, c)
		}
	}
	slices.SortFunc(saved.Comments, func(a, b *model.Comment) int { return int(a.ID - b.ID) })
	s.replace(saved)
	return nil
}

func (s *Store) AppendComment(_ context.Context, c *model.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, q := range s.quotations {
		if q.ID == c.QuotationID {
			c.ID = s.id()
			if c.CreatedAt.IsZero() {
				c.CreatedAt = time.Now().UTC()
			}
			cc := *c
			q.Comments = append(q.Comments, &cc)
			return nil
		}
	}
	return code.QuotationNotFoundErr.WithMsgf("id: %d", c.QuotationID)
}

// History returns the recorded status changes of a quotation.
func (s *Store) History(id uuid.UUID) []*model.QuotationHistory {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.QuotationHistory, 0)
	q := s.find(id)
	if q == nil {
		return out
	}
	for _, h := range s.history {
		if h.QuotationID == q.ID {
			out = append(out, h)
		}
	}
	return out
}

func (s *Store) find(id uuid.UUID) *model.Quotation {
	for _, q := range s.quotations {
		if q.UUID == id {
			return q
		}
	}
	return nil
}

func (s *Store) replace(q *model.Quotation) {
	for i, stored := range s.quotations {
		if stored.ID == q.ID {
			s.quotations[i] = q
			return
		}
	}
}
