package quotation

import (
	"slices"
	"testing"

	"github.com/pharmlab/procure/pkg/common"
	"github.com/pharmlab/procure/pkg/repo/model"
)

func TestCanView(t *testing.T) {
	peer := &common.Actor{ID: "u-central-2", Role: common.CentralStoreAdmin}
	otherLab := &common.Actor{ID: "u-lab-2", Role: common.LabAssistant, LabID: "LAB02"}
	cases := []struct {
		name  string
		actor *common.Actor
		q     *model.Quotation
		want  bool
	}{
		{"lab sees own lab", labUser, labRequest(model.StatusPending), true},
		{"other lab", otherLab, labRequest(model.StatusPending), false},
		{"central sees lab request", peer, labRequest(model.StatusPending), true},
		{"central sees own draft", centralUser, vendorQuotation(model.StatusDraft), true},
		{"central peer draft hidden", peer, vendorQuotation(model.StatusDraft), false},
		{"central peer submitted", peer, vendorQuotation(model.StatusPending), true},
		{"admin draft hidden", adminUser, vendorQuotation(model.StatusDraft), false},
		{"admin submitted", adminUser, vendorQuotation(model.StatusPending), true},
		{"admin lab request hidden", adminUser, labRequest(model.StatusPending), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanView(tc.actor, tc.q); got != tc.want {
				t.Fatalf("CanView = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCentralScopeOwnDraftsOnly(t *testing.T) {
	query, err := ScopeQuery(centralUser, ScopeCentral)
	if err != nil {
		t.Fatal(err)
	}
	if query.DraftOwner != centralUser.ID || !slices.Contains(query.Kinds, model.KindVendor) || !slices.Contains(query.Kinds, model.KindRequest) {
		t.Fatalf("unexpected central query %+v", query)
	}
}
