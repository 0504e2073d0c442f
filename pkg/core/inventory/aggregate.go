package inventory

import (
	"sort"

	"github.com/pharmlab/procure/pkg/repo/model"
)

func FromChemical(c *model.Chemical) *Snapshot {
	s := &Snapshot{
		ChemicalUUID: c.UUID,
		Name:         c.Name,
		Unit:         c.Unit,
		Labs:         make(map[string]float64, len(c.Stocks)),
	}
	for _, st := range c.Stocks {
		if st.LabID == model.CentralStoreLabID {
			s.Central += st.Quantity
			continue
		}
		s.Labs[st.LabID] += st.Quantity
	}
	return s
}

// UsableQuantity is the central-store quantity plus what labID holds. An
// empty labID means no lab was chosen yet and only central stock counts.
func (s *Snapshot) UsableQuantity(labID string) float64 {
	if labID == "" || labID == model.CentralStoreLabID {
		return s.Central
	}
	return s.Central + s.Labs[labID]
}

// Draw splits quantity taken on behalf of labID into what comes off the
// lab's own holding and what the central store supplies. The lab holding is
// consumed first, matching what UsableQuantity counts for that lab.
func (s *Snapshot) Draw(labID string, quantity float64) (fromLab, fromCentral float64) {
	if labID == "" || labID == model.CentralStoreLabID {
		return 0, quantity
	}
	fromLab = max(0, min(s.Labs[labID], quantity))
	return fromLab, quantity - fromLab
}

// PerLabBreakdown lists central store first, then labs ordered by id.
func (s *Snapshot) PerLabBreakdown() []LabQuantity {
	labs := make([]string, 0, len(s.Labs))
	for lab := range s.Labs {
		labs = append(labs, lab)
	}
	sort.Strings(labs)

	out := make([]LabQuantity, 0, len(labs)+1)
	out = append(out, LabQuantity{LabID: model.CentralStoreLabID, Quantity: s.Central})
	for _, lab := range labs {
		out = append(out, LabQuantity{LabID: lab, Quantity: s.Labs[lab]})
	}
	return out
}

func (s *Snapshot) Total() float64 {
	total := s.Central
	for _, q := range s.Labs {
		total += q
	}
	return total
}

// Availability flags a chemical with nothing usable in labID while still
// reporting the stock held across all labs.
func (s *Snapshot) Availability(labID string) Availability {
	usable := s.UsableQuantity(labID)
	return Availability{
		Usable:      usable,
		Total:       s.Total(),
		Unavailable: usable <= 0,
	}
}

func (s *Snapshot) View(labID string) *ChemicalView {
	a := s.Availability(labID)
	return &ChemicalView{
		UUID:             s.ChemicalUUID,
		Name:             s.Name,
		Unit:             s.Unit,
		PerLabQuantities: s.PerLabBreakdown(),
		UsableQuantity:   a.Usable,
		TotalQuantity:    a.Total,
		Unavailable:      a.Unavailable,
	}
}
