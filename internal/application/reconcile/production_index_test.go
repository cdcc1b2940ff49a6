// internal/application/reconcile/production_index_test.go
package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildProductionIndex_PreservesUpstreamOrder(t *testing.T) {
	raws := []Raw{
		{"id": "p-3", "productName": "C"},
		{"id": "p-1", "productName": "A"},
		{"id": "p-2", "productName": "B"},
	}

	idx := BuildProductionIndex(raws)

	// ソートせず上流の順序を保つこと
	assert.Equal(t, []string{"p-3", "p-1", "p-2"}, idx.IDs)
}

func TestBuildProductionIndex_FirstOccurrenceWins(t *testing.T) {
	raws := []Raw{
		{"id": "p-1", "productName": "first", "quantity": 10},
		{"id": "p-1", "productName": "second", "quantity": 99},
	}

	idx := BuildProductionIndex(raws)

	assert.Equal(t, []string{"p-1"}, idx.IDs)
	assert.Equal(t, "first", idx.NameByID["p-1"])
	assert.Equal(t, 10, idx.QuantityByID["p-1"])
}

func TestBuildProductionIndex_DropsRecordsWithoutID(t *testing.T) {
	raws := []Raw{
		{"productName": "orphan"},
		{"id": "   "},
		{"id": "p-1", "productName": "kept"},
		nil,
	}

	idx := BuildProductionIndex(raws)

	assert.Equal(t, []string{"p-1"}, idx.IDs)
	assert.NotContains(t, idx.NameByID, "")
}

func TestBuildProductionIndex_AliasAndNestedBlueprint(t *testing.T) {
	raws := []Raw{
		{
			"productionId": "p-7",
			"ProductName":  "Leather Wallet",
			"production": map[string]any{
				"productBlueprintId": "bp-7",
			},
		},
	}

	idx := BuildProductionIndex(raws)

	assert.Equal(t, []string{"p-7"}, idx.IDs)
	assert.Equal(t, "Leather Wallet", idx.NameByID["p-7"])
	assert.Equal(t, "bp-7", idx.BlueprintIDByID["p-7"])
}

func TestBuildProductionIndex_QuantityFallbackFromModels(t *testing.T) {
	raws := []Raw{
		{
			"id": "p-1",
			"models": []any{
				map[string]any{"modelId": "m-1", "quantity": 3},
				map[string]any{"modelId": "m-2", "quantity": float64(4)},
				map[string]any{"modelId": "m-3"}, // quantity 欠落は無視
			},
		},
		{"id": "p-2", "quantity": 5, "models": []any{
			map[string]any{"modelId": "m-9", "quantity": 100},
		}},
	}

	idx := BuildProductionIndex(raws)

	// quantity が無ければ models 合計、あればそちらが優先
	assert.Equal(t, 7, idx.QuantityByID["p-1"])
	assert.Equal(t, 5, idx.QuantityByID["p-2"])
}

func TestBuildProductionIndex_Empty(t *testing.T) {
	idx := BuildProductionIndex(nil)
	assert.Empty(t, idx.IDs)
	assert.NotNil(t, idx.NameByID)
	assert.NotNil(t, idx.QuantityByID)
	assert.NotNil(t, idx.BlueprintIDByID)
}
