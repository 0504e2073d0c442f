package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/pharmlab/procure/pkg/common/code"
	"github.com/pharmlab/procure/pkg/repo/model"
)

// PutChemical registers a chemical with its per-lab quantities.
func (s *Store) PutChemical(name, unit string, quantities map[string]float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := &model.Chemical{Name: name, Unit: unit}
	c.ID = s.id()
	labs := make([]string, 0, len(quantities))
	for lab := range quantities {
		labs = append(labs, lab)
	}
	sort.Strings(labs)
	for _, lab := range labs {
		c.Stocks = append(c.Stocks, &model.ChemicalStock{ID: s.id(), ChemicalID: c.ID, LabID: lab, Quantity: quantities[lab]})
	}
	s.chemicals[model.NormalizedName(name)] = c
}

// Quantity returns the stock of name held at labID.
func (s *Store) Quantity(name, labID string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.chemicals[model.NormalizedName(name)]
	if !ok {
		return 0
	}
	for _, st := range c.Stocks {
		if st.LabID == labID {
			return st.Quantity
		}
	}
	return 0
}

func (s *Store) SearchChemicals(_ context.Context, search string, limit int) ([]*model.Chemical, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	needle := model.NormalizedName(search)
	out := make([]*model.Chemical, 0)
	for key, c := range s.chemicals {
		if needle == "" || strings.Contains(key, needle) {
			out = append(out, cloneChemical(c))
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) GetChemicalsByNames(_ context.Context, names []string) ([]*model.Chemical, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Chemical, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		key := model.NormalizedName(n)
		if c, ok := s.chemicals[key]; ok && !seen[key] {
			seen[key] = true
			out = append(out, cloneChemical(c))
		}
	}
	return out, nil
}

func (s *Store) DecrementStock(_ context.Context, chemicalName string, labID string, quantity float64) error {
	if quantity <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.chemicals[model.NormalizedName(chemicalName)]; ok {
		for _, st := range c.Stocks {
			if st.LabID == labID && st.Quantity >= quantity {
				st.Quantity -= quantity
				return nil
			}
		}
	}
	return code.InsufficientStockErr.WithMsgf("%s: need %g at %s", chemicalName, quantity, labID)
}

func cloneChemical(c *model.Chemical) *model.Chemical {
	cc := *c
	cc.Stocks = make([]*model.ChemicalStock, len(c.Stocks))
	for i, st := range c.Stocks {
		cs := *st
		cc.Stocks[i] = &cs
	}
	return &cc
}
