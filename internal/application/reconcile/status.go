// internal/application/reconcile/status.go
package reconcile

import (
	mintrequestdom "tracery/internal/domain/mintRequest"
)

// ============================================================
// StatusDeriver
// ============================================================

// StatusSignals は mint レコード由来の「存在したかどうか」のシグナル群です。
type StatusSignals struct {
	HasTokenBlueprintID bool
	HasTokenName        bool
	HasRequestedBy      bool
	HasMintedAt         bool
	// Minted は mintedAt が欠けていても minted 扱いにする明示フラグ
	Minted bool
}

// DeriveStatus は 4 つのシグナルからライフサイクル状態を導出します。
// 判定はこの順序で固定:
//  1. 全シグナル無し → planning
//  2. mintedAt あり → minted
//  3. それ以外 → requested
func DeriveStatus(hasTokenBlueprintID, hasTokenName, hasRequestedBy, hasMintedAt bool) mintrequestdom.MintRequestStatus {
	if !hasTokenBlueprintID && !hasTokenName && !hasRequestedBy && !hasMintedAt {
		return mintrequestdom.StatusPlanning
	}
	if hasMintedAt {
		return mintrequestdom.StatusMinted
	}
	return mintrequestdom.StatusRequested
}

// DeriveStatusFromSignals applies the same table, treating an explicit
// minted flag as equivalent to the presence of mintedAt.
func DeriveStatusFromSignals(sig StatusSignals) mintrequestdom.MintRequestStatus {
	return DeriveStatus(
		sig.HasTokenBlueprintID,
		sig.HasTokenName,
		sig.HasRequestedBy,
		sig.HasMintedAt || sig.Minted,
	)
}

// StatusLabel はコンソール表示用のローカライズ済みラベルを返します。
func StatusLabel(s mintrequestdom.MintRequestStatus) string {
	switch s {
	case mintrequestdom.StatusPlanning:
		return "計画中"
	case mintrequestdom.StatusRequested:
		return "リクエスト済み"
	case mintrequestdom.StatusMinted:
		return "ミント済み"
	default:
		return string(s)
	}
}
