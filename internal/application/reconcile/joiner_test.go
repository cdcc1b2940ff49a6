// internal/application/reconcile/joiner_test.go
package reconcile

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inspectiondom "tracery/internal/domain/inspection"
	mintdom "tracery/internal/domain/mint"
)

type stubProductionLister struct {
	err  error
	raws []map[string]any
}

func (l *stubProductionLister) ListByCurrentCompany(_ context.Context) ([]map[string]any, error) {
	if l.err != nil {
		return nil, l.err
	}
	return l.raws, nil
}

func newTestService(
	prods *stubProductionLister,
	inspRepo InspectionReader,
	mintRepo MintReader,
) *Service {
	return NewService(prods, NewInspectionBatchSource(inspRepo), NewMintRecordSource(mintRepo))
}

// 検査バッチに合否を書き込むヘルパ
func batchWithResults(t *testing.T, pid string, passed, failed, pending int) inspectiondom.InspectionBatch {
	t.Helper()

	ids := make([]string, 0, passed+failed+pending)
	for i := 0; i < passed+failed+pending; i++ {
		ids = append(ids, pid+"-u-"+string(rune('a'+i)))
	}
	b := mustBatch(t, pid, ids...)

	by := "inspector-1"
	at := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	for i := range b.Inspections {
		var r inspectiondom.InspectionResult
		switch {
		case i < passed:
			r = inspectiondom.InspectionPassed
		case i < passed+failed:
			r = inspectiondom.InspectionFailed
		default:
			continue
		}
		b.Inspections[i].InspectionResult = &r
		b.Inspections[i].InspectedBy = &by
		b.Inspections[i].InspectedAt = &at
	}
	return b
}

// ------------------------------------------------------------
// 基本 join
// ------------------------------------------------------------

func TestReconcile_ThreeProductionsMixedCoverage(t *testing.T) {
	// P1: inspection + minted mint / P2: inspection のみ / P3: production のみ
	mintedAt := time.Date(2026, 2, 14, 9, 30, 0, 0, time.UTC)

	prods := &stubProductionLister{raws: []map[string]any{
		{"id": "P1", "productName": "Wallet", "quantity": 10},
		{"id": "P2", "productName": "Belt", "quantity": 4},
		{"id": "P3", "productName": "Cap", "quantity": 6},
	}}
	inspRepo := &stubInspectionRepo{batches: []inspectiondom.InspectionBatch{
		batchWithResults(t, "P1", 8, 1, 1),
		batchWithResults(t, "P2", 0, 0, 4),
	}}
	mintRepo := &stubMintRepo{raws: map[string]map[string]any{
		"P1": {
			"id":               "P1",
			"tokenBlueprintId": "tb-1",
			"tokenName":        "Wallet Token",
			"createdBy":        "crew-1",
			"createdByName":    "Alice",
			"minted":           true,
			"mintedAt":         mintedAt,
		},
	}}

	svc := newTestService(prods, inspRepo, mintRepo)
	res, err := svc.Reconcile(context.Background())
	require.NoError(t, err)

	// 1 production = 1 行、上流の並び順のまま
	require.Len(t, res.Rows, 3)
	assert.Equal(t, "P1", res.Rows[0].ProductionID)
	assert.Equal(t, "P2", res.Rows[1].ProductionID)
	assert.Equal(t, "P3", res.Rows[2].ProductionID)
	assert.Empty(t, res.FieldErrors)

	p1 := res.Rows[0]
	assert.Equal(t, "minted", p1.Status)
	assert.Equal(t, "ミント済み", p1.StatusLabel)
	assert.Equal(t, 8, p1.MintQuantity)        // passed 件数
	assert.Equal(t, 10, p1.ProductionQuantity) // item 数
	assert.Equal(t, "Wallet Token", p1.TokenName)
	assert.Equal(t, "Alice", p1.CreatedByName)
	assert.True(t, p1.Minted)
	require.NotNil(t, p1.MintedAt)
	assert.True(t, p1.MintedAt.Equal(mintedAt))

	p2 := res.Rows[1]
	assert.Equal(t, "planning", p2.Status) // mint シグナルが一切無い
	assert.Equal(t, 0, p2.MintQuantity)
	assert.Equal(t, 4, p2.ProductionQuantity)
	assert.Equal(t, "inspecting", p2.InspectionStatus)

	p3 := res.Rows[2]
	assert.Equal(t, "planning", p3.Status)
	assert.Equal(t, 6, p3.ProductionQuantity) // index の quantity に fallback
	assert.Equal(t, "notYet", p3.InspectionStatus)
	assert.Equal(t, "Cap", p3.ProductName)
	assert.Nil(t, p3.MintedAt)
}

func TestReconcile_NeverDropsProductionID(t *testing.T) {
	prods := &stubProductionLister{raws: []map[string]any{
		{"id": "P1"}, {"id": "P2"}, {"id": "P3"}, {"id": "P4"},
	}}
	svc := newTestService(prods, &stubInspectionRepo{}, &stubMintRepo{})

	res, err := svc.Reconcile(context.Background())
	require.NoError(t, err)

	require.Len(t, res.Rows, 4)
	for i, id := range []string{"P1", "P2", "P3", "P4"} {
		assert.Equal(t, id, res.Rows[i].ID)
		assert.Equal(t, id, res.Rows[i].ProductionID)
	}
}

// ------------------------------------------------------------
// エラー分類
// ------------------------------------------------------------

func TestReconcile_ProductionFailureIsFatal(t *testing.T) {
	prods := &stubProductionLister{err: errors.New("firestore unavailable")}
	svc := newTestService(prods, &stubInspectionRepo{}, &stubMintRepo{})

	_, err := svc.Reconcile(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "production listing failed")
}

func TestReconcile_MintSourceFailureDegradesNotFatal(t *testing.T) {
	prods := &stubProductionLister{raws: []map[string]any{
		{"id": "P1", "productName": "Wallet", "quantity": 2},
	}}
	inspRepo := &stubInspectionRepo{batches: []inspectiondom.InspectionBatch{
		batchWithResults(t, "P1", 2, 0, 0),
	}}
	mintRepo := &stubMintRepo{
		rawErr:   errors.New("raw down"),
		typedErr: errors.New("typed down"),
	}

	svc := newTestService(prods, inspRepo, mintRepo)
	res, err := svc.Reconcile(context.Background())
	require.NoError(t, err)

	// 行は全件出る。mint 由来フィールドは欠落扱いで planning
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "planning", res.Rows[0].Status)
	assert.Equal(t, 2, res.Rows[0].MintQuantity)
	assert.Contains(t, res.FieldErrors, "mints.list")
	assert.Contains(t, res.FieldErrors, "mints.full")
}

func TestReconcile_InspectionFailureDegradesNotFatal(t *testing.T) {
	prods := &stubProductionLister{raws: []map[string]any{
		{"id": "P1", "quantity": 9},
	}}
	inspRepo := &stubInspectionRepo{listErr: errors.New("inspections down")}

	svc := newTestService(prods, inspRepo, &stubMintRepo{})
	res, err := svc.Reconcile(context.Background())
	require.NoError(t, err)

	require.Len(t, res.Rows, 1)
	assert.Equal(t, 0, res.Rows[0].MintQuantity)
	assert.Equal(t, 9, res.Rows[0].ProductionQuantity) // index fallback
	assert.Contains(t, res.FieldErrors, "inspections")
}

// ------------------------------------------------------------
// プロジェクション優先順位
// ------------------------------------------------------------

func TestReconcile_FullProjectionWinsOverList(t *testing.T) {
	// raw-scoped に両プロジェクションの元になる同一 payload を置き、
	// list 側にしか無い値 / 食い違う値の優先順位を検証する。
	// full が値を持つフィールドは常に full が勝つ。
	prods := &stubProductionLister{raws: []map[string]any{{"id": "P1"}}}

	mintRepo := &stubMintRepo{raws: map[string]map[string]any{
		"P1": {
			"tokenName":     "Canonical Name",
			"requesterName": "List Only Alice", // list 用エイリアスにしか載らない
			"createdBy":     "crew-1",
		},
	}}

	svc := newTestService(prods, &stubInspectionRepo{}, mintRepo)
	res, err := svc.Reconcile(context.Background())
	require.NoError(t, err)

	require.Len(t, res.Rows, 1)
	row := res.Rows[0]
	assert.Equal(t, "Canonical Name", row.TokenName)
	assert.Equal(t, "List Only Alice", row.CreatedByName)
	assert.Equal(t, "crew-1", row.RequestedBy)
	assert.Equal(t, "requested", row.Status)
}

func TestBuildRow_FullBeatsListWhenBothPresent(t *testing.T) {
	svc := newTestService(&stubProductionLister{}, &stubInspectionRepo{}, &stubMintRepo{})
	idx := BuildProductionIndex([]Raw{{"id": "P1", "productName": "Wallet"}})

	fullAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	listAt := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	full := Raw{"tokenName": "Full Name", "mintedAt": fullAt}
	list := Raw{"tokenName": "List Name", "mintedAt": listAt, "createdByName": "Alice"}

	row := svc.buildRow("P1", idx, nil, list, full)

	// 両方に値がある場合は full、full に無いフィールドだけ list が埋める
	assert.Equal(t, "Full Name", row.TokenName)
	require.NotNil(t, row.MintedAt)
	assert.True(t, row.MintedAt.Equal(fullAt))
	assert.Equal(t, "Alice", row.CreatedByName)
	assert.Equal(t, "minted", row.Status)
}

// ------------------------------------------------------------
// 冪等性
// ------------------------------------------------------------

func TestReconcile_IdempotentForSameSnapshot(t *testing.T) {
	prods := &stubProductionLister{raws: []map[string]any{
		{"id": "P2", "productName": "B", "quantity": 2},
		{"id": "P1", "productName": "A", "quantity": 1},
	}}
	inspRepo := &stubInspectionRepo{batches: []inspectiondom.InspectionBatch{
		batchWithResults(t, "P1", 1, 0, 0),
	}}
	mintRepo := &stubMintRepo{raws: map[string]map[string]any{
		"P1": {"tokenName": "T", "createdBy": "c", "mintedAt": "2026-02-14T09:30:00Z", "minted": true},
	}}

	svc := newTestService(prods, inspRepo, mintRepo)

	first, err := svc.Reconcile(context.Background())
	require.NoError(t, err)
	second, err := svc.Reconcile(context.Background())
	require.NoError(t, err)

	b1, err := json.Marshal(first)
	require.NoError(t, err)
	b2, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(b1), string(b2))
}

// ------------------------------------------------------------
// detail
// ------------------------------------------------------------

func TestGetMintRequestDetail(t *testing.T) {
	mintedAt := time.Date(2026, 2, 14, 9, 30, 0, 0, time.UTC)
	createdAt := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	rec, err := mintdom.NewMintRecord("P1", "P1", "tb-1", "crew-1", createdAt)
	require.NoError(t, err)
	require.NoError(t, rec.MarkMinted(mintedAt, "sig-1"))

	prods := &stubProductionLister{raws: []map[string]any{
		{"id": "P1", "productName": "Wallet", "quantity": 3},
	}}
	inspRepo := &stubInspectionRepo{batches: []inspectiondom.InspectionBatch{
		batchWithResults(t, "P1", 2, 1, 0),
	}}
	mintRepo := &stubMintRepo{
		get: map[string]mintdom.MintRecord{"P1": rec},
		raws: map[string]map[string]any{
			"P1": {"tokenName": "Wallet Token", "createdByName": "Alice"},
		},
	}

	svc := newTestService(prods, inspRepo, mintRepo)

	detail, err := svc.GetMintRequestDetail(context.Background(), "P1")
	require.NoError(t, err)
	require.NotNil(t, detail)

	assert.Equal(t, "P1", detail.ID)
	assert.Equal(t, "Wallet", detail.ProductName)
	assert.Equal(t, "tb-1", detail.TokenBlueprintID)
	assert.Equal(t, "minted", detail.Status)
	assert.Equal(t, 2, detail.MintQuantity)
	assert.Equal(t, 3, detail.ProductionQuantity)

	require.NotNil(t, detail.Inspection)
	assert.Equal(t, 2, detail.Inspection.TotalPassed)
	assert.Len(t, detail.Inspection.Inspections, 3)

	require.NotNil(t, detail.Mint)
	assert.Equal(t, "P1", detail.Mint.ID)
	assert.Equal(t, "sig-1", detail.Mint.TxSignature)
	assert.True(t, detail.Mint.Minted)
	require.NotNil(t, detail.Mint.MintedAt)
	assert.True(t, detail.Mint.MintedAt.Equal(mintedAt))
}

func TestGetMintRequestDetail_UnknownProduction(t *testing.T) {
	prods := &stubProductionLister{raws: []map[string]any{{"id": "P1"}}}
	svc := newTestService(prods, &stubInspectionRepo{}, &stubMintRepo{})

	_, err := svc.GetMintRequestDetail(context.Background(), "P404")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
