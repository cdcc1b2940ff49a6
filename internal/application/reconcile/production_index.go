// internal/application/reconcile/production_index.go
package reconcile

// ============================================================
// ProductionIndex
// ============================================================
//
// raw な productions リストから、join の土台になるインデックスを組み立てる。
// - IDs: 重複除去済み・上流の並び順を保持（初出勝ち）。
//   ★ ここでソートしてはいけない。出力行の並びはこの順序がそのまま決める。
// - 3 つの lookup map（productName / quantity / productBlueprintId）
// - id が解決できないレコードは丸ごとスキップ（空文字 id は絶対に出さない）

type ProductionIndex struct {
	IDs []string

	NameByID        map[string]string
	QuantityByID    map[string]int
	BlueprintIDByID map[string]string
}

// BuildProductionIndex builds the index from a raw production listing.
// 欠けているフィールドはゼロ値のまま map に入る（エラーにしない）。
func BuildProductionIndex(raws []Raw) ProductionIndex {
	idx := ProductionIndex{
		IDs:             make([]string, 0, len(raws)),
		NameByID:        make(map[string]string, len(raws)),
		QuantityByID:    make(map[string]int, len(raws)),
		BlueprintIDByID: make(map[string]string, len(raws)),
	}

	seen := make(map[string]struct{}, len(raws))

	for _, rec := range raws {
		id := ResolveString(rec, prodAliasID)
		if id == "" {
			// missing-identity: silently drop
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		idx.IDs = append(idx.IDs, id)

		idx.NameByID[id] = ResolveString(rec, prodAliasProductName)
		idx.BlueprintIDByID[id] = ResolveString(rec, prodAliasProductBlueprintID)

		qty := ResolveInt(rec, prodAliasQuantity)
		if qty <= 0 {
			qty = sumModelQuantities(rec)
		}
		idx.QuantityByID[id] = qty
	}

	return idx
}

// sumModelQuantities は quantity が無いレガシーデータ向けに
// models: [{modelId, quantity}] の合計で補完します。
func sumModelQuantities(rec Raw) int {
	v, ok := lookup(rec, prodAliasModels[0])
	if !ok {
		for _, k := range prodAliasModels[1:] {
			if vv, okk := lookup(rec, k); okk {
				v, ok = vv, true
				break
			}
		}
	}
	if !ok || v == nil {
		return 0
	}

	items, ok := v.([]any)
	if !ok {
		return 0
	}

	total := 0
	for _, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		if n, ok := coerceInt(m["quantity"]); ok && n > 0 {
			total += n
		}
	}
	return total
}
