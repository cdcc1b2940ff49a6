// internal/application/reconcile/mint_source_test.go
package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mintdom "tracery/internal/domain/mint"
)

// ------------------------------------------------------------
// stubs
// ------------------------------------------------------------

type stubMintRepo struct {
	rawErr error
	raws   map[string]map[string]any

	typedErr error
	typed    map[string]mintdom.MintRecord

	getErr error
	get    map[string]mintdom.MintRecord
}

func (r *stubMintRepo) GetByID(_ context.Context, id string) (mintdom.MintRecord, error) {
	if r.getErr != nil {
		return mintdom.MintRecord{}, r.getErr
	}
	if m, ok := r.get[id]; ok {
		return m, nil
	}
	return mintdom.MintRecord{}, mintdom.ErrNotFound
}

func (r *stubMintRepo) ListByProductionID(_ context.Context, _ []string) (map[string]mintdom.MintRecord, error) {
	if r.typedErr != nil {
		return nil, r.typedErr
	}
	return r.typed, nil
}

func (r *stubMintRepo) ListRawByProductionID(_ context.Context, _ []string) (map[string]map[string]any, error) {
	if r.rawErr != nil {
		return nil, r.rawErr
	}
	return r.raws, nil
}

type stubMintRepoWithListAll struct {
	stubMintRepo
	allErr error
	all    map[string]map[string]any
}

func (r *stubMintRepoWithListAll) ListAllRaw(_ context.Context) (map[string]map[string]any, error) {
	if r.allErr != nil {
		return nil, r.allErr
	}
	return r.all, nil
}

// ------------------------------------------------------------
// tests
// ------------------------------------------------------------

func TestMintFetch_RawScoped_NormalizesAliases(t *testing.T) {
	repo := &stubMintRepo{
		raws: map[string]map[string]any{
			"p-1": {
				"MintId":           "p-1", // unused alias casing for mintId in list projection
				"id":               "p-1",
				"TokenName":        "Genesis Token",
				"requesterName":    "Alice",
				"mintedAt":         "2026-02-14T09:30:00Z",
				"minted":           true,
				"tokenBlueprintID": "tb-1",
				"CreatedBy":        "crew-1",
			},
		},
	}
	src := NewMintRecordSource(repo)

	list := src.FetchByIDs(context.Background(), []string{"p-1"}, MintProjectionList)
	require.Empty(t, list.FieldErrors)
	row := list.Value["p-1"]
	require.NotNil(t, row)
	assert.Equal(t, "Genesis Token", row["tokenName"])
	assert.Equal(t, "Alice", row["createdByName"])
	assert.Equal(t, true, row["minted"])
	if mintedAt, ok := row["mintedAt"].(time.Time); assert.True(t, ok) {
		assert.Equal(t, 2026, mintedAt.Year())
	}
	// list プロジェクションは最小サブセットのみ
	assert.NotContains(t, row, "tokenBlueprintId")
	assert.NotContains(t, row, "createdBy")

	full := src.FetchByIDs(context.Background(), []string{"p-1"}, MintProjectionFull)
	frow := full.Value["p-1"]
	require.NotNil(t, frow)
	assert.Equal(t, "tb-1", frow["tokenBlueprintId"])
	assert.Equal(t, "crew-1", frow["createdBy"])
	assert.Equal(t, "Genesis Token", frow["tokenName"])
}

func TestMintFetch_FallsBackToTypedScoped(t *testing.T) {
	createdAt := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	rec, err := mintdom.NewMintRecord("p-1", "p-1", "tb-1", "crew-1", createdAt)
	require.NoError(t, err)
	require.NoError(t, rec.MarkMinted(createdAt.Add(24*time.Hour), "5VERv8NMvzbJMEkV8xnrLkEaWRtSz9CosKDYjCJjBRnbJLgp8uirBgmQpjKhoR4tjF3ZpRzrFmBV6UjKdiSZkQUW"))

	repo := &stubMintRepo{
		rawErr: errors.New("raw listing unavailable"),
		typed:  map[string]mintdom.MintRecord{"p-1": rec},
	}
	src := NewMintRecordSource(repo)

	res := src.FetchByIDs(context.Background(), []string{"p-1"}, MintProjectionFull)

	require.Empty(t, res.FieldErrors)
	row := res.Value["p-1"]
	require.NotNil(t, row)
	// 型付きレコードは JSON 経由で吸収され、正規キーに正規化される
	assert.Equal(t, "tb-1", row["tokenBlueprintId"])
	assert.Equal(t, "crew-1", row["createdBy"])
	assert.Equal(t, true, row["minted"])
	assert.NotEmpty(t, row["txSignature"])
	_, hasMintedAt := row["mintedAt"].(time.Time)
	assert.True(t, hasMintedAt)
}

func TestMintFetch_FallsBackToUnscoped(t *testing.T) {
	repo := &stubMintRepoWithListAll{
		stubMintRepo: stubMintRepo{
			rawErr:   errors.New("raw down"),
			typedErr: errors.New("typed down"),
		},
		all: map[string]map[string]any{
			"p-1":     {"tokenName": "Kept"},
			"p-other": {"tokenName": "Filtered"},
		},
	}
	src := NewMintRecordSource(repo)

	res := src.FetchByIDs(context.Background(), []string{"p-1"}, MintProjectionList)

	require.Empty(t, res.FieldErrors)
	assert.Len(t, res.Value, 1)
	assert.Equal(t, "Kept", res.Value["p-1"]["tokenName"])
}

func TestMintFetch_AllStrategiesFailDegradesToEmpty(t *testing.T) {
	repo := &stubMintRepo{
		rawErr:   errors.New("raw down"),
		typedErr: errors.New("typed down"),
	}
	src := NewMintRecordSource(repo)

	res := src.FetchByIDs(context.Background(), []string{"p-1"}, MintProjectionList)

	assert.Empty(t, res.Value)
	require.Contains(t, res.FieldErrors, "mints.list")
	// full と list は独立に記録される
	res = src.FetchByIDs(context.Background(), []string{"p-1"}, MintProjectionFull)
	assert.Contains(t, res.FieldErrors, "mints.full")
}

func TestMintFetch_MalformedMintedAtResolvesAsAbsent(t *testing.T) {
	repo := &stubMintRepo{
		raws: map[string]map[string]any{
			"p-1": {"tokenName": "T", "mintedAt": "not-a-timestamp"},
		},
	}
	src := NewMintRecordSource(repo)

	res := src.FetchByIDs(context.Background(), []string{"p-1"}, MintProjectionList)

	row := res.Value["p-1"]
	require.NotNil(t, row)
	assert.NotContains(t, row, "mintedAt")
	assert.Equal(t, "T", row["tokenName"])
}

func TestMintFetchOne(t *testing.T) {
	createdAt := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	rec, err := mintdom.NewMintRecord("p-9", "p-9", "tb-9", "crew-9", createdAt)
	require.NoError(t, err)

	repo := &stubMintRepo{get: map[string]mintdom.MintRecord{"p-9": rec}}
	src := NewMintRecordSource(repo)

	raw, err := src.FetchOne(context.Background(), " p-9 ")
	require.NoError(t, err)
	assert.Equal(t, "p-9", raw["id"])
	assert.Equal(t, "tb-9", raw["tokenBlueprintId"])

	_, err = src.FetchOne(context.Background(), "p-missing")
	assert.ErrorIs(t, err, mintdom.ErrNotFound)
}
