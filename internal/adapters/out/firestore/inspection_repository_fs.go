// internal/adapters/out/firestore/inspection_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	fscommon "tracery/internal/adapters/out/firestore/common"
	inspectiondom "tracery/internal/domain/inspection"
)

// ------------------------------------------------------------
// InspectionRepositoryFS
// ------------------------------------------------------------
//
// inspections コレクションは docID = productionId。

type InspectionRepositoryFS struct {
	Client *firestore.Client
}

func NewInspectionRepositoryFS(client *firestore.Client) *InspectionRepositoryFS {
	return &InspectionRepositoryFS{Client: client}
}

func (r *InspectionRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("inspections")
}

// GetByProductionID: inspections/{productionId} を取得
func (r *InspectionRepositoryFS) GetByProductionID(
	ctx context.Context,
	productionID string,
) (inspectiondom.InspectionBatch, error) {

	if r.Client == nil {
		return inspectiondom.InspectionBatch{}, errors.New("firestore client is nil")
	}

	pid := strings.TrimSpace(productionID)
	if pid == "" {
		return inspectiondom.InspectionBatch{}, inspectiondom.ErrInvalidProductionID
	}

	snap, err := r.col().Doc(pid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return inspectiondom.InspectionBatch{}, inspectiondom.ErrNotFound
		}
		return inspectiondom.InspectionBatch{}, err
	}

	return docToInspectionBatch(snap)
}

// ListByProductionID:
//   - docID=productionId なので Doc(id).Get をループで呼び出す。
//   - まだ inspections が作成されていない productionId はスキップする。
func (r *InspectionRepositoryFS) ListByProductionID(
	ctx context.Context,
	productionIDs []string,
) ([]inspectiondom.InspectionBatch, error) {

	if r.Client == nil {
		return nil, errors.New("firestore client is nil")
	}
	if len(productionIDs) == 0 {
		return []inspectiondom.InspectionBatch{}, nil
	}

	// trim + 空/重複除去
	uniq := make(map[string]struct{}, len(productionIDs))
	ids := make([]string, 0, len(productionIDs))
	for _, id := range productionIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := uniq[id]; ok {
			continue
		}
		uniq[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return []inspectiondom.InspectionBatch{}, nil
	}

	batches := make([]inspectiondom.InspectionBatch, 0, len(ids))
	for _, pid := range ids {
		snap, err := r.col().Doc(pid).Get(ctx)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				continue
			}
			return nil, err
		}
		batch, err := docToInspectionBatch(snap)
		if err != nil {
			return nil, err
		}
		batches = append(batches, batch)
	}
	return batches, nil
}

// ListAll はインデックス未整備時の unscoped fallback です。
// application 層（InspectionBatchSource）が型アサーションで検出して使う。
func (r *InspectionRepositoryFS) ListAll(ctx context.Context) ([]inspectiondom.InspectionBatch, error) {
	if r.Client == nil {
		return nil, errors.New("firestore client is nil")
	}

	it := r.col().Documents(ctx)
	defer it.Stop()

	var out []inspectiondom.InspectionBatch
	for {
		doc, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		batch, err := docToInspectionBatch(doc)
		if err != nil {
			// 壊れたドキュメントは一覧を止めない
			continue
		}
		out = append(out, batch)
	}
	return out, nil
}

// ------------------------------------------------------------
// Helpers
// ------------------------------------------------------------

func docToInspectionBatch(doc *firestore.DocumentSnapshot) (inspectiondom.InspectionBatch, error) {
	data := doc.Data()
	if data == nil {
		return inspectiondom.InspectionBatch{}, fmt.Errorf("empty inspection document: %s", doc.Ref.ID)
	}

	batch := inspectiondom.InspectionBatch{
		ProductionID: strings.TrimSpace(fscommon.AsString(data["productionId"])),
		Status:       inspectiondom.InspectionStatus(strings.TrimSpace(fscommon.AsString(data["status"]))),
	}
	if batch.ProductionID == "" {
		batch.ProductionID = doc.Ref.ID
	}
	if batch.Status == "" {
		batch.Status = inspectiondom.InspectionStatusNotYet
	}

	items, _ := data["inspections"].([]any)
	for _, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}

		item := inspectiondom.InspectionItem{
			ProductID: strings.TrimSpace(fscommon.AsString(m["productId"])),
		}
		if item.ProductID == "" {
			continue
		}

		if s := strings.TrimSpace(fscommon.AsString(m["inspectionResult"])); s != "" {
			r := inspectiondom.InspectionResult(s)
			item.InspectionResult = &r
		}
		item.InspectedBy = fscommon.AsStringPtr(m["inspectedBy"])
		item.InspectedAt = fscommon.AsTimePtr(m["inspectedAt"])

		batch.Inspections = append(batch.Inspections, item)
	}

	return batch, nil
}
