// internal/application/reconcile/joiner.go
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"tracery/internal/application/reconcile/dto"
	inspectiondom "tracery/internal/domain/inspection"
	mintdom "tracery/internal/domain/mint"
)

var ErrServiceNotConfigured = errors.New("reconcile: service is not configured")

// ============================================================
// Service (ReconciliationJoiner)
// ============================================================
//
// Production / InspectionBatch / MintRecord の 3 ソースを productionId で
// join して一覧行を組み立てる。left-join の基準は ProductionIndex:
// index にある id は inspection / mint が無くても必ず 1 行出力する。
//
// 3 つの fetch は id セット確定後に依存が無いため並行に発行し、
// join は全 fetch 完了を待ってから不変スナップショットの上で行う
// （fan-out/fan-in）。ソース単体の失敗は空 map + FieldErrors に劣化させ、
// reconciliation 全体は ProductionIndex の取得失敗のときだけ失敗する。

type Service struct {
	productions ProductionLister
	inspections *InspectionBatchSource
	mints       *MintRecordSource
}

func NewService(
	productions ProductionLister,
	inspections *InspectionBatchSource,
	mints *MintRecordSource,
) *Service {
	return &Service{
		productions: productions,
		inspections: inspections,
		mints:       mints,
	}
}

// Reconcile runs one reconciliation pass for the current company scope.
// Rows are emitted in ProductionIndex order (= upstream listing order).
func (s *Service) Reconcile(ctx context.Context) (dto.ReconcileResultDTO, error) {
	if s == nil || s.productions == nil || s.inspections == nil || s.mints == nil {
		return dto.ReconcileResultDTO{}, ErrServiceNotConfigured
	}

	start := time.Now()

	// ------------------------------------------------------------
	// 1) primary index: ここの失敗だけは致命的（join の土台が無い）
	// ------------------------------------------------------------
	raws, err := s.productions.ListByCurrentCompany(ctx)
	if err != nil {
		return dto.ReconcileResultDTO{}, fmt.Errorf("reconcile: production listing failed: %w", err)
	}

	idx := BuildProductionIndex(raws)
	log.Printf("[reconcile] productions resolved len=%d elapsed=%s", len(idx.IDs), time.Since(start))

	if len(idx.IDs) == 0 {
		return dto.ReconcileResultDTO{Rows: []dto.MintRequestRowDTO{}}, nil
	}

	// ------------------------------------------------------------
	// 2) fan-out: inspections / mints(list) / mints(full)
	//    それぞれ独立の map に書き込み、lock は一切持たない
	// ------------------------------------------------------------
	var (
		inspRes     Partial[map[string]inspectiondom.InspectionBatch]
		mintListRes Partial[map[string]Raw]
		mintFullRes Partial[map[string]Raw]
	)

	fetchStart := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		inspRes = s.inspections.FetchByIDs(gctx, idx.IDs)
		return nil
	})
	g.Go(func() error {
		mintListRes = s.mints.FetchByIDs(gctx, idx.IDs, MintProjectionList)
		return nil
	})
	g.Go(func() error {
		mintFullRes = s.mints.FetchByIDs(gctx, idx.IDs, MintProjectionFull)
		return nil
	})
	if err := g.Wait(); err != nil {
		// fetch 自体は Partial で劣化するので、ここに来るのは cancel 時のみ
		return dto.ReconcileResultDTO{}, err
	}
	log.Printf("[reconcile] sources fetched inspections=%d mintList=%d mintFull=%d elapsed=%s",
		len(inspRes.Value), len(mintListRes.Value), len(mintFullRes.Value), time.Since(fetchStart))

	// ------------------------------------------------------------
	// 3) fan-in: index の並び順で 1 id = 1 行を必ず出力
	// ------------------------------------------------------------
	rows := make([]dto.MintRequestRowDTO, 0, len(idx.IDs))
	for _, pid := range idx.IDs {
		batch, hasBatch := inspRes.Value[pid]
		listProj := mintListRes.Value[pid] // may be nil
		fullProj := mintFullRes.Value[pid] // may be nil

		var batchPtr *inspectiondom.InspectionBatch
		if hasBatch {
			b := batch
			batchPtr = &b
		}
		rows = append(rows, s.buildRow(pid, idx, batchPtr, listProj, fullProj))
	}

	log.Printf("[reconcile] rows built len=%d elapsed=%s", len(rows), time.Since(start))

	return dto.ReconcileResultDTO{
		Rows:        rows,
		FieldErrors: mergeFieldErrors(inspRes.FieldErrors, mintListRes.FieldErrors, mintFullRes.FieldErrors),
	}, nil
}

// buildRow derives one view row. full プロジェクションは id 単位で取得される分
// list より信頼できるため、両方が存在する場合は常に full が勝つ。
func (s *Service) buildRow(
	pid string,
	idx ProductionIndex,
	batch *inspectiondom.InspectionBatch,
	listProj, fullProj Raw,
) dto.MintRequestRowDTO {

	// 2)-3) quantities
	mintQty := 0
	prodQty := 0
	inspStatus := string(inspectiondom.InspectionStatusNotYet)
	if batch != nil {
		mintQty = batch.PassedCount()
		prodQty = batch.Quantity()
		if strings.TrimSpace(string(batch.Status)) != "" {
			inspStatus = string(batch.Status)
		}
	}
	if prodQty == 0 {
		prodQty = idx.QuantityByID[pid]
	}

	// 4) productName: index 優先、無ければ blueprint id で代替表示
	productName := strings.TrimSpace(idx.NameByID[pid])
	productBlueprintID := strings.TrimSpace(idx.BlueprintIDByID[pid])
	if productName == "" {
		productName = productBlueprintID
	}

	// 5) mint 由来フィールド: full → list の優先順で FieldResolver が解決
	projections := []Raw{fullProj, listProj}

	tokenBlueprintID := ResolveStringAcross(projections, []string{"tokenBlueprintId"})
	tokenName := ResolveStringAcross(projections, []string{"tokenName"})
	requestedBy := ResolveStringAcross(projections, []string{"createdBy"})
	createdByName := ResolveStringAcross(projections, []string{"createdByName"})
	mintedAt := ResolveTimeAcross(projections, []string{"mintedAt"})
	scheduledBurnDate := ResolveTimeAcross(projections, []string{"scheduledBurnDate"})
	mintedFlag := ResolveBoolAcross(projections, []string{"minted"})

	// 表示 fallback（一覧でトークン名が解決できない場合は id をそのまま出す）
	if tokenName == "" {
		tokenName = tokenBlueprintID
	}
	if createdByName == "" {
		createdByName = requestedBy
	}

	// 6) status
	status := DeriveStatusFromSignals(StatusSignals{
		HasTokenBlueprintID: tokenBlueprintID != "",
		HasTokenName:        tokenName != "",
		HasRequestedBy:      requestedBy != "",
		HasMintedAt:         mintedAt != nil,
		Minted:              mintedFlag,
	})

	minted := mintedFlag || mintedAt != nil

	return dto.MintRequestRowDTO{
		ID:           pid,
		ProductionID: pid,

		TokenName:   tokenName,
		ProductName: productName,

		MintQuantity:       mintQty,
		ProductionQuantity: prodQty,

		Status:           string(status),
		StatusLabel:      StatusLabel(status),
		InspectionStatus: inspStatus,

		RequestedBy:   requestedBy,
		CreatedByName: createdByName,

		TokenBlueprintID:   tokenBlueprintID,
		ProductBlueprintID: productBlueprintID,
		Minted:             minted,
		MintedAt:           mintedAt,
		ScheduledBurnDate:  scheduledBurnDate,
	}
}

// ============================================================
// Detail query
// ============================================================

// GetMintRequestDetail returns the detail DTO for a single productionId
// (= inspectionId = docId). 各ソースを id 単位で取り直して合成する。
func (s *Service) GetMintRequestDetail(
	ctx context.Context,
	productionID string,
) (*dto.MintRequestDetailDTO, error) {

	if s == nil || s.productions == nil || s.inspections == nil || s.mints == nil {
		return nil, ErrServiceNotConfigured
	}

	pid := strings.TrimSpace(productionID)
	if pid == "" {
		return nil, errors.New("reconcile: productionId is empty")
	}

	start := time.Now()

	raws, err := s.productions.ListByCurrentCompany(ctx)
	if err != nil {
		return nil, fmt.Errorf("reconcile: production listing failed: %w", err)
	}
	idx := BuildProductionIndex(raws)

	found := false
	for _, id := range idx.IDs {
		if id == pid {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("reconcile: production not found: %q", pid)
	}

	// inspection（無くてもエラーにしない）
	var batchPtr *inspectiondom.InspectionBatch
	inspRes := s.inspections.FetchByIDs(ctx, []string{pid})
	if b, ok := inspRes.Value[pid]; ok {
		batchPtr = &b
	}

	// mint: detail は full を id 単位で取得（list は一覧と同じ正規化で補完）
	var fullProj Raw
	if raw, err := s.mints.FetchOne(ctx, pid); err != nil {
		if !errors.Is(err, mintdom.ErrNotFound) {
			log.Printf("[reconcile] WARN: mint detail fetch failed pid=%q err=%v", pid, err)
		}
	} else {
		fullProj = raw
	}
	var listProj Raw
	if res := s.mints.FetchByIDs(ctx, []string{pid}, MintProjectionList); res.Value != nil {
		listProj = res.Value[pid]
	}

	row := s.buildRow(pid, idx, batchPtr, listProj, fullProj)

	out := &dto.MintRequestDetailDTO{
		ID:           pid,
		ProductionID: pid,

		ProductName: row.ProductName,
		TokenName:   row.TokenName,

		TokenBlueprintID:   row.TokenBlueprintID,
		ProductBlueprintID: row.ProductBlueprintID,

		MintQuantity:       row.MintQuantity,
		ProductionQuantity: row.ProductionQuantity,

		Status:           row.Status,
		StatusLabel:      row.StatusLabel,
		InspectionStatus: row.InspectionStatus,

		RequestedBy:   row.RequestedBy,
		CreatedByName: row.CreatedByName,
		MintedAt:      row.MintedAt,

		Production: &dto.ProductionSummaryDTO{
			ID:          pid,
			ProductName: strings.TrimSpace(idx.NameByID[pid]),
			Quantity:    row.ProductionQuantity,
		},
	}

	if batchPtr != nil {
		items := make([]dto.InspectionItemDTO, 0, len(batchPtr.Inspections))
		for _, it := range batchPtr.Inspections {
			item := dto.InspectionItemDTO{
				ProductID: strings.TrimSpace(it.ProductID),
			}
			if it.InspectionResult != nil {
				item.InspectionResult = string(*it.InspectionResult)
			}
			if it.InspectedBy != nil {
				item.InspectedBy = strings.TrimSpace(*it.InspectedBy)
			}
			if it.InspectedAt != nil && !it.InspectedAt.IsZero() {
				t := it.InspectedAt.UTC()
				item.InspectedAt = &t
			}
			items = append(items, item)
		}
		out.Inspection = &dto.InspectionSummaryDTO{
			ProductionID: strings.TrimSpace(batchPtr.ProductionID),
			Status:       string(batchPtr.Status),
			TotalPassed:  batchPtr.PassedCount(),
			Quantity:     batchPtr.Quantity(),
			Inspections:  items,
		}
	}

	if fullProj != nil {
		out.Mint = &dto.MintSummaryDTO{
			ID:                ResolveString(fullProj, []string{"id"}),
			InspectionID:      ResolveString(fullProj, []string{"inspectionId"}),
			TokenBlueprintID:  ResolveString(fullProj, []string{"tokenBlueprintId"}),
			CreatedBy:         ResolveString(fullProj, []string{"createdBy"}),
			CreatedByName:     row.CreatedByName,
			CreatedAt:         ResolveTime(fullProj, []string{"createdAt"}),
			Minted:            row.Minted,
			MintedAt:          row.MintedAt,
			ScheduledBurnDate: ResolveTime(fullProj, []string{"scheduledBurnDate"}),
			TxSignature:       ResolveString(fullProj, []string{"txSignature"}),
		}
	}

	log.Printf("[reconcile] detail built pid=%q elapsed=%s", pid, time.Since(start))

	return out, nil
}
