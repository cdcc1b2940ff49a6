// internal/application/reconcile/inspection_source.go
package reconcile

import (
	"context"
	"fmt"
	"log"
	"strings"

	inspectiondom "tracery/internal/domain/inspection"
)

// ============================================================
// InspectionBatchSource
// ============================================================
//
// fetchByIds(ids) -> map[productionId]InspectionBatch の契約:
// - 返る map は要求 id ごとに高々 1 エントリ
// - レコードが無い id は単に map に含めない（エラーにしない）
// - scoped fetch が失敗したら unscoped fetch + ローカルフィルタで 1 回だけ代替
// - それも失敗したら空 map を返し、エラー文字列を記録して処理は続行する
//
// レガシー/新系の fetch 経路は、ネストした try/catch の落穂拾いではなく
// 名前付き戦略の順序付きリストとして明示し、どれが成功したかをログする。

type InspectionBatchSource struct {
	repo InspectionReader
}

func NewInspectionBatchSource(repo InspectionReader) *InspectionBatchSource {
	return &InspectionBatchSource{repo: repo}
}

type inspectionFetchStrategy struct {
	name string
	fn   func(ctx context.Context, ids []string) (map[string]inspectiondom.InspectionBatch, error)
}

// FetchByIDs retrieves at most one InspectionBatch per requested production id.
func (s *InspectionBatchSource) FetchByIDs(
	ctx context.Context,
	ids []string,
) Partial[map[string]inspectiondom.InspectionBatch] {

	empty := okPartial(map[string]inspectiondom.InspectionBatch{})
	if s == nil || s.repo == nil {
		empty.addFieldError("inspections", "inspection repo is not configured")
		return empty
	}

	ids = normalizeIDs(ids)
	if len(ids) == 0 {
		return empty
	}

	strategies := []inspectionFetchStrategy{
		{name: "scoped", fn: s.fetchScoped},
		{name: "unscoped", fn: s.fetchUnscoped},
	}

	var lastErr error
	for _, st := range strategies {
		out, err := st.fn(ctx, ids)
		if err != nil {
			log.Printf("[reconcile] inspections strategy=%q failed: %v", st.name, err)
			lastErr = err
			continue
		}
		log.Printf("[reconcile] inspections fetched strategy=%q requested=%d got=%d", st.name, len(ids), len(out))
		return okPartial(out)
	}

	// 全戦略失敗: 他の行の reconcile を止めないため空 map で続行
	res := okPartial(map[string]inspectiondom.InspectionBatch{})
	res.addFieldError("inspections", fmt.Sprintf("all fetch strategies failed: %v", lastErr))
	return res
}

func (s *InspectionBatchSource) fetchScoped(
	ctx context.Context,
	ids []string,
) (map[string]inspectiondom.InspectionBatch, error) {

	batches, err := s.repo.ListByProductionID(ctx, ids)
	if err != nil {
		return nil, err
	}
	return indexBatchesByID(batches, ids), nil
}

// fetchUnscoped は id 指定フェッチが使えない場合の代替です。
// 全件取得してローカルで要求 id に絞り込む。
func (s *InspectionBatchSource) fetchUnscoped(
	ctx context.Context,
	ids []string,
) (map[string]inspectiondom.InspectionBatch, error) {

	aller, ok := any(s.repo).(inspectionListAller)
	if !ok {
		return nil, fmt.Errorf("inspection repo does not support unscoped ListAll")
	}
	batches, err := aller.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return indexBatchesByID(batches, ids), nil
}

// indexBatchesByID は取得結果を productionId キーに 1:1 で索引化します。
// 要求していない id は落とし、同一 id の重複は初出を採用する。
func indexBatchesByID(
	batches []inspectiondom.InspectionBatch,
	requested []string,
) map[string]inspectiondom.InspectionBatch {

	want := make(map[string]struct{}, len(requested))
	for _, id := range requested {
		want[id] = struct{}{}
	}

	out := make(map[string]inspectiondom.InspectionBatch, len(requested))
	for _, b := range batches {
		pid := strings.TrimSpace(b.ProductionID)
		if pid == "" {
			continue
		}
		if _, ok := want[pid]; !ok {
			continue
		}
		if _, dup := out[pid]; dup {
			continue
		}
		out[pid] = b
	}
	return out
}

// normalizeIDs: trim + 空/重複除去（並び順は保持）
func normalizeIDs(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
