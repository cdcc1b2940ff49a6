// internal/application/reconcile/field_resolver_test.go
package reconcile

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveString_AliasOrder(t *testing.T) {
	rec := Raw{
		"productionId": "from-alias",
		"id":           "from-primary",
	}

	// earlier key wins even if a later alias is also present
	assert.Equal(t, "from-primary", ResolveString(rec, []string{"id", "productionId"}))
	assert.Equal(t, "from-alias", ResolveString(rec, []string{"productionId", "id"}))
}

func TestResolveString_SkipsEmptyAndWhitespace(t *testing.T) {
	rec := Raw{
		"id":           "   ",
		"productionId": " p-001 ",
	}
	assert.Equal(t, "p-001", ResolveString(rec, []string{"id", "productionId"}))
}

func TestResolveString_NestedPath(t *testing.T) {
	rec := Raw{
		"production": map[string]any{
			"productBlueprintId": "bp-9",
		},
	}
	assert.Equal(t, "bp-9", ResolveString(rec, []string{"productBlueprintId", "production.productBlueprintId"}))
}

func TestResolveString_NilAndMissing(t *testing.T) {
	assert.Equal(t, "", ResolveString(nil, []string{"id"}))
	assert.Equal(t, "", ResolveString(Raw{}, []string{"id"}))
	assert.Equal(t, "", ResolveString(Raw{"id": nil}, []string{"id"}))
	assert.Equal(t, "", ResolveString(Raw{"id": 42}, nil))
}

func TestRequireString(t *testing.T) {
	_, err := RequireString(Raw{}, []string{"id", "productionId"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFieldMissing)
	assert.Contains(t, err.Error(), "id")

	got, err := RequireString(Raw{"productionId": "p-1"}, []string{"id", "productionId"})
	require.NoError(t, err)
	assert.Equal(t, "p-1", got)
}

func TestResolveStringAcross_FirstRecordWins(t *testing.T) {
	full := Raw{"tokenName": "Full Token"}
	list := Raw{"tokenName": "List Token"}

	assert.Equal(t, "Full Token", ResolveStringAcross([]Raw{full, list}, []string{"tokenName"}))

	// nil のレコードは飛ばして次に倒れる
	assert.Equal(t, "List Token", ResolveStringAcross([]Raw{nil, list}, []string{"tokenName"}))
	assert.Equal(t, "", ResolveStringAcross([]Raw{nil, nil}, []string{"tokenName"}))
}

func TestResolveInt_Coercions(t *testing.T) {
	tests := []struct {
		name string
		rec  Raw
		want int
	}{
		{"int", Raw{"quantity": 7}, 7},
		{"int64", Raw{"quantity": int64(12)}, 12},
		{"float64", Raw{"quantity": float64(30)}, 30},
		{"string", Raw{"quantity": "25"}, 25},
		{"json.Number", Raw{"quantity": json.Number("9")}, 9},
		{"garbage string", Raw{"quantity": "abc"}, 0},
		{"missing", Raw{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveInt(tt.rec, []string{"quantity"}))
		})
	}
}

func TestResolveBool(t *testing.T) {
	assert.True(t, ResolveBool(Raw{"minted": true}, []string{"minted"}))
	assert.True(t, ResolveBool(Raw{"minted": "true"}, []string{"minted"}))
	assert.False(t, ResolveBool(Raw{"minted": "false"}, []string{"minted"}))
	assert.False(t, ResolveBool(Raw{}, []string{"minted"}))
	assert.False(t, ResolveBool(Raw{"minted": 1}, []string{"minted"}))
}

func TestResolveTime(t *testing.T) {
	at := time.Date(2026, 2, 14, 9, 30, 0, 0, time.UTC)

	t.Run("time.Time value", func(t *testing.T) {
		got := ResolveTime(Raw{"mintedAt": at}, []string{"mintedAt"})
		require.NotNil(t, got)
		assert.True(t, got.Equal(at))
	})

	t.Run("RFC3339 string", func(t *testing.T) {
		got := ResolveTime(Raw{"mintedAt": "2026-02-14T09:30:00Z"}, []string{"mintedAt"})
		require.NotNil(t, got)
		assert.True(t, got.Equal(at))
	})

	t.Run("date-only string", func(t *testing.T) {
		got := ResolveTime(Raw{"scheduledBurnDate": "2026-12-31"}, []string{"scheduledBurnDate"})
		require.NotNil(t, got)
		assert.Equal(t, 2026, got.Year())
	})

	t.Run("malformed string falls through to next alias", func(t *testing.T) {
		rec := Raw{
			"mintedAt":  "not-a-date",
			"minted_at": "2026-02-14T09:30:00Z",
		}
		got := ResolveTime(rec, []string{"mintedAt", "minted_at"})
		require.NotNil(t, got)
		assert.True(t, got.Equal(at))
	})

	t.Run("malformed everywhere resolves as absent", func(t *testing.T) {
		assert.Nil(t, ResolveTime(Raw{"mintedAt": "???"}, []string{"mintedAt"}))
		assert.Nil(t, ResolveTime(nil, []string{"mintedAt"}))
	})
}

func TestResolveTimeAcross_Precedence(t *testing.T) {
	fullAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	listAt := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	full := Raw{"mintedAt": fullAt}
	list := Raw{"mintedAt": listAt}

	got := ResolveTimeAcross([]Raw{full, list}, []string{"mintedAt"})
	require.NotNil(t, got)
	assert.True(t, got.Equal(fullAt))

	got = ResolveTimeAcross([]Raw{{}, list}, []string{"mintedAt"})
	require.NotNil(t, got)
	assert.True(t, got.Equal(listAt))
}

// 同じ入力に対して resolver は常に同じ結果を返す（副作用なし）。
func TestResolver_Idempotent(t *testing.T) {
	rec := Raw{"id": "p-1", "quantity": "10", "minted": true}
	for i := 0; i < 3; i++ {
		assert.Equal(t, "p-1", ResolveString(rec, prodAliasID))
		assert.Equal(t, 10, ResolveInt(rec, prodAliasQuantity))
		assert.True(t, ResolveBool(rec, []string{"minted"}))
	}
	// 入力 map が書き換えられていないこと
	assert.Len(t, rec, 3)
}
