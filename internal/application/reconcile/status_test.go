// internal/application/reconcile/status_test.go
package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	mintrequestdom "tracery/internal/domain/mintRequest"
)

func TestDeriveStatus_DecisionTable(t *testing.T) {
	tests := []struct {
		name                                                           string
		hasTokenBlueprintID, hasTokenName, hasRequestedBy, hasMintedAt bool
		want                                                           mintrequestdom.MintRequestStatus
	}{
		{"all absent", false, false, false, false, mintrequestdom.StatusPlanning},
		{"mintedAt present", true, true, true, true, mintrequestdom.StatusMinted},
		{"mintedAt alone is decisive", false, false, false, true, mintrequestdom.StatusMinted},
		{"tokenBlueprintId only", true, false, false, false, mintrequestdom.StatusRequested},
		{"tokenName only", false, true, false, false, mintrequestdom.StatusRequested},
		{"requestedBy only", false, false, true, false, mintrequestdom.StatusRequested},
		{"request signals without mintedAt", true, true, true, false, mintrequestdom.StatusRequested},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveStatus(tt.hasTokenBlueprintID, tt.hasTokenName, tt.hasRequestedBy, tt.hasMintedAt)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeriveStatusFromSignals_MintedFlagEquivalentToMintedAt(t *testing.T) {
	// minted=true は mintedAt の存在と同値に扱う
	got := DeriveStatusFromSignals(StatusSignals{Minted: true})
	assert.Equal(t, mintrequestdom.StatusMinted, got)

	got = DeriveStatusFromSignals(StatusSignals{HasMintedAt: true})
	assert.Equal(t, mintrequestdom.StatusMinted, got)

	got = DeriveStatusFromSignals(StatusSignals{HasTokenName: true})
	assert.Equal(t, mintrequestdom.StatusRequested, got)

	got = DeriveStatusFromSignals(StatusSignals{})
	assert.Equal(t, mintrequestdom.StatusPlanning, got)
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "計画中", StatusLabel(mintrequestdom.StatusPlanning))
	assert.Equal(t, "リクエスト済み", StatusLabel(mintrequestdom.StatusRequested))
	assert.Equal(t, "ミント済み", StatusLabel(mintrequestdom.StatusMinted))
	assert.Equal(t, string(mintrequestdom.MintRequestStatus("unknown")), StatusLabel("unknown"))
}
