// internal/adapters/out/firestore/production_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	fscommon "tracery/internal/adapters/out/firestore/common"
	"tracery/internal/application/usecase"
	proddom "tracery/internal/domain/production"
)

// ============================================================
// Firestore-based Production Repository
// ============================================================

type ProductionRepositoryFS struct {
	Client *firestore.Client
}

func NewProductionRepositoryFS(client *firestore.Client) *ProductionRepositoryFS {
	return &ProductionRepositoryFS{Client: client}
}

func (r *ProductionRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("productions")
}

// GetByID returns a Production by document ID.
func (r *ProductionRepositoryFS) GetByID(ctx context.Context, id string) (*proddom.Production, error) {
	if r.Client == nil {
		return nil, errors.New("firestore client is nil")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, proddom.ErrNotFound
	}

	snap, err := r.col().Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, proddom.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return docToProduction(snap)
}

// ListByCurrentCompany は AuthMiddleware が ctx に注入した companyId で
// productions を絞り込み、raw map のまま返します。
// フィールド名の歴史的ゆれ（productionId / ProductName / ネスト）は
// application 層の FieldResolver が吸収するため、ここでは decode しない。
// docId は常に "id" として合流させる（id フィールドが無いレガシードキュメント対策）。
func (r *ProductionRepositoryFS) ListByCurrentCompany(ctx context.Context) ([]map[string]any, error) {
	if r.Client == nil {
		return nil, errors.New("firestore client is nil")
	}

	cid := usecase.CompanyIDFromContext(ctx)
	if cid == "" {
		return nil, errors.New("firestore: companyId is not in context")
	}

	it := r.col().Where("companyId", "==", cid).Documents(ctx)
	defer it.Stop()

	out := make([]map[string]any, 0, 16)
	for {
		doc, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}

		data := doc.Data()
		if data == nil {
			continue
		}
		if _, ok := data["id"]; !ok {
			data["id"] = doc.Ref.ID
		}
		out = append(out, data)
	}
	return out, nil
}

// ------------------------------------------------------------
// Helpers
// ------------------------------------------------------------

func docToProduction(doc *firestore.DocumentSnapshot) (*proddom.Production, error) {
	data := doc.Data()
	if data == nil {
		return nil, proddom.ErrNotFound
	}

	p := proddom.Production{
		ID:                 doc.Ref.ID,
		ProductBlueprintID: strings.TrimSpace(fscommon.AsString(data["productBlueprintId"])),
		ProductName:        strings.TrimSpace(fscommon.AsString(data["productName"])),
		Status:             proddom.ProductionStatus(strings.TrimSpace(fscommon.AsString(data["status"]))),
		CreatedBy:          fscommon.AsStringPtr(data["createdBy"]),
	}

	if n, ok := fscommon.AsInt(data["quantity"]); ok {
		p.Quantity = n
	}
	if t, ok := fscommon.AsTime(data["createdAt"]); ok {
		p.CreatedAt = t
	}
	if t, ok := fscommon.AsTime(data["updatedAt"]); ok {
		p.UpdatedAt = t
	}

	// models: [{modelId, quantity}]
	if items, ok := data["models"].([]any); ok {
		for _, it := range items {
			m, ok := it.(map[string]any)
			if !ok {
				continue
			}
			mq := proddom.ModelQuantity{
				ModelID: strings.TrimSpace(fscommon.AsString(m["modelId"])),
			}
			if n, ok := fscommon.AsInt(m["quantity"]); ok {
				mq.Quantity = n
			}
			if mq.ModelID != "" {
				p.Models = append(p.Models, mq)
			}
		}
	}

	return &p, nil
}
