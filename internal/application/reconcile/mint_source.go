// internal/application/reconcile/mint_source.go
package reconcile

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
)

// ============================================================
// MintRecordSource
// ============================================================
//
// mints コレクションから 2 つの read プロジェクションを正規化する:
// - list: 一覧テーブル描画用の最小サブセット（tokenName / createdByName / mintedAt）
// - full: 詳細ビュー・再申請用の全フィールド
// どちらも同じ raw payload から独立に正規化する（呼び出し側が必要な
// サブセットだけを見られるように）。正規化 = エイリアス解決は
// ここ（ingestion boundary）で 1 回だけ行い、以降は正規キーのみを使う。

type MintProjection string

const (
	MintProjectionList MintProjection = "list"
	MintProjectionFull MintProjection = "full"
)

type MintRecordSource struct {
	repo MintReader
}

func NewMintRecordSource(repo MintReader) *MintRecordSource {
	return &MintRecordSource{repo: repo}
}

type mintFetchStrategy struct {
	name string
	fn   func(ctx context.Context, ids []string) (map[string]map[string]any, error)
}

// FetchByIDs retrieves at most one normalized record per requested id.
// レコードが無い id は map に含めない。失敗は空 map + 記録で吸収する。
func (s *MintRecordSource) FetchByIDs(
	ctx context.Context,
	ids []string,
	projection MintProjection,
) Partial[map[string]Raw] {

	empty := okPartial(map[string]Raw{})
	if s == nil || s.repo == nil {
		empty.addFieldError("mints."+string(projection), "mint repo is not configured")
		return empty
	}

	ids = normalizeIDs(ids)
	if len(ids) == 0 {
		return empty
	}

	strategies := []mintFetchStrategy{
		{name: "raw-scoped", fn: s.fetchRawScoped},
		{name: "typed-scoped", fn: s.fetchTypedScoped},
		{name: "unscoped", fn: s.fetchUnscoped},
	}

	var lastErr error
	for _, st := range strategies {
		raws, err := st.fn(ctx, ids)
		if err != nil {
			log.Printf("[reconcile] mints strategy=%q projection=%s failed: %v", st.name, projection, err)
			lastErr = err
			continue
		}
		log.Printf("[reconcile] mints fetched strategy=%q projection=%s requested=%d got=%d",
			st.name, projection, len(ids), len(raws))
		return okPartial(s.normalizeAll(raws, projection))
	}

	res := okPartial(map[string]Raw{})
	res.addFieldError("mints."+string(projection), fmt.Sprintf("all fetch strategies failed: %v", lastErr))
	return res
}

// FetchOne は詳細ビュー用の単一 id 取得です（full プロジェクション）。
func (s *MintRecordSource) FetchOne(ctx context.Context, id string) (Raw, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("mint repo is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("mint id is empty")
	}

	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	raw, err := absorbToRaw(m)
	if err != nil {
		return nil, err
	}
	return normalizeMintFull(raw), nil
}

// ------------------------------------------------------------
// fetch strategies
// ------------------------------------------------------------

func (s *MintRecordSource) fetchRawScoped(ctx context.Context, ids []string) (map[string]map[string]any, error) {
	return s.repo.ListRawByProductionID(ctx, ids)
}

// fetchTypedScoped は raw 取得が使えない実装向けの代替です。
// 型付き MintRecord を JSON 経由で raw に吸収する（型ズレ回避）。
func (s *MintRecordSource) fetchTypedScoped(ctx context.Context, ids []string) (map[string]map[string]any, error) {
	typed, err := s.repo.ListByProductionID(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[string]map[string]any, len(typed))
	for pid, m := range typed {
		raw, err := absorbToRaw(m)
		if err != nil {
			log.Printf("[reconcile] skip unabsorbable mint record id=%q err=%v", pid, err)
			continue
		}
		out[pid] = raw
	}
	return out, nil
}

func (s *MintRecordSource) fetchUnscoped(ctx context.Context, ids []string) (map[string]map[string]any, error) {
	aller, ok := any(s.repo).(mintListAllRawer)
	if !ok {
		return nil, fmt.Errorf("mint repo does not support unscoped ListAllRaw")
	}
	all, err := aller.ListAllRaw(ctx)
	if err != nil {
		return nil, err
	}

	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := make(map[string]map[string]any, len(ids))
	for pid, raw := range all {
		pid = strings.TrimSpace(pid)
		if pid == "" {
			continue
		}
		if _, ok := want[pid]; !ok {
			continue
		}
		out[pid] = raw
	}
	return out, nil
}

// ------------------------------------------------------------
// projections
// ------------------------------------------------------------

func (s *MintRecordSource) normalizeAll(raws map[string]map[string]any, projection MintProjection) map[string]Raw {
	out := make(map[string]Raw, len(raws))
	for pid, raw := range raws {
		pid = strings.TrimSpace(pid)
		if pid == "" {
			continue
		}
		switch projection {
		case MintProjectionFull:
			out[pid] = normalizeMintFull(raw)
		default:
			out[pid] = normalizeMintListRow(raw)
		}
	}
	return out
}

// normalizeMintListRow は一覧向け最小サブセットを正規キーで返します。
func normalizeMintListRow(raw Raw) Raw {
	out := Raw{}
	if v := ResolveString(raw, mintListAliasMintID); v != "" {
		out["mintId"] = v
	}
	if v := ResolveString(raw, mintListAliasTokenName); v != "" {
		out["tokenName"] = v
	}
	if v := ResolveString(raw, mintListAliasRequesterName); v != "" {
		out["createdByName"] = v
	}
	if t := ResolveTime(raw, mintListAliasMintedAt); t != nil {
		out["mintedAt"] = *t
	}
	if ResolveBool(raw, mintListAliasMinted) {
		out["minted"] = true
	}
	return out
}

// normalizeMintFull は全フィールドを正規キーで返します。
func normalizeMintFull(raw Raw) Raw {
	out := Raw{}
	if v := ResolveString(raw, mintFullAliasID); v != "" {
		out["id"] = v
	}
	if v := ResolveString(raw, mintFullAliasInspectionID); v != "" {
		out["inspectionId"] = v
	}
	if v := ResolveString(raw, mintFullAliasTokenBlueprintID); v != "" {
		out["tokenBlueprintId"] = v
	}
	if v := ResolveString(raw, mintFullAliasTokenName); v != "" {
		out["tokenName"] = v
	}
	if v := ResolveString(raw, mintFullAliasRequestedBy); v != "" {
		out["createdBy"] = v
	}
	if v := ResolveString(raw, mintFullAliasRequesterName); v != "" {
		out["createdByName"] = v
	}
	if t := ResolveTime(raw, mintFullAliasCreatedAt); t != nil {
		out["createdAt"] = *t
	}
	if t := ResolveTime(raw, mintFullAliasMintedAt); t != nil {
		out["mintedAt"] = *t
	}
	if t := ResolveTime(raw, mintFullAliasBurnDate); t != nil {
		out["scheduledBurnDate"] = *t
	}
	if ResolveBool(raw, mintFullAliasMinted) {
		out["minted"] = true
	}
	if v := ResolveString(raw, mintFullAliasTxSignature); v != "" {
		out["txSignature"] = v
	}
	return out
}

// absorbToRaw は構造体を JSON 経由で map に変換します。
func absorbToRaw(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}
