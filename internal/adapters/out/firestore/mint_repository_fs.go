// internal/adapters/out/firestore/mint_repository_fs.go
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
	mintdom "tracery/internal/domain/mint"
)

// ------------------------------------------------------------
// MintRepositoryFS
// ------------------------------------------------------------
//
// mints コレクションは docID = inspectionId (= productionId)。

type MintRepositoryFS struct {
	Client *firestore.Client
}

func NewMintRepositoryFS(client *firestore.Client) *MintRepositoryFS {
	return &MintRepositoryFS{Client: client}
}

func (r *MintRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("mints")
}

// GetByID: mints/{id} を 1 件取得
func (r *MintRepositoryFS) GetByID(ctx context.Context, id string) (mintdom.MintRecord, error) {
	if r.Client == nil {
		return mintdom.MintRecord{}, errors.New("firestore client is nil")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return mintdom.MintRecord{}, mintdom.ErrNotFound
	}

	snap, err := r.col().Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return mintdom.MintRecord{}, mintdom.ErrNotFound
	}
	if err != nil {
		return mintdom.MintRecord{}, err
	}

	return docToMintRecord(snap), nil
}

// ListByProductionID: 型付き MintRecord を productionId キーの map で返します。
// レコードが無い id は map に含めない。
func (r *MintRepositoryFS) ListByProductionID(
	ctx context.Context,
	productionIDs []string,
) (map[string]mintdom.MintRecord, error) {

	raws, err := r.ListRawByProductionID(ctx, productionIDs)
	if err != nil {
		return nil, err
	}

	out := make(map[string]mintdom.MintRecord, len(raws))
	for pid, data := range raws {
		out[pid] = rawToMintRecord(pid, data)
	}
	return out, nil
}

// ListRawByProductionID: フィールド名のゆれを保ったままの raw map を返します。
// エイリアス解決は application 層（FieldResolver）が担当する。
func (r *MintRepositoryFS) ListRawByProductionID(
	ctx context.Context,
	productionIDs []string,
) (map[string]map[string]any, error) {

	if r.Client == nil {
		return nil, errors.New("firestore client is nil")
	}
	if len(productionIDs) == 0 {
		return map[string]map[string]any{}, nil
	}

	out := make(map[string]map[string]any, len(productionIDs))
	seen := make(map[string]struct{}, len(productionIDs))

	for _, pid := range productionIDs {
		pid = strings.TrimSpace(pid)
		if pid == "" {
			continue
		}
		if _, ok := seen[pid]; ok {
			continue
		}
		seen[pid] = struct{}{}

		snap, err := r.col().Doc(pid).Get(ctx)
		if status.Code(err) == codes.NotFound {
			continue
		}
		if err != nil {
			return nil, err
		}

		data := snap.Data()
		if data == nil {
			continue
		}
		if _, ok := data["id"]; !ok {
			data["id"] = snap.Ref.ID
		}
		out[pid] = data
	}
	return out, nil
}

// ListAllRaw は unscoped fallback です（MintRecordSource が型アサーションで検出）。
func (r *MintRepositoryFS) ListAllRaw(ctx context.Context) (map[string]map[string]any, error) {
	if r.Client == nil {
		return nil, errors.New("firestore client is nil")
	}

	it := r.col().Documents(ctx)
	defer it.Stop()

	out := make(map[string]map[string]any, 64)
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
		out[doc.Ref.ID] = data
	}
	return out, nil
}

// ------------------------------------------------------------
// Helpers
// ------------------------------------------------------------

func docToMintRecord(doc *firestore.DocumentSnapshot) mintdom.MintRecord {
	return rawToMintRecord(doc.Ref.ID, doc.Data())
}

func rawToMintRecord(docID string, data map[string]any) mintdom.MintRecord {
	if data == nil {
		return mintdom.MintRecord{ID: docID}
	}

	m := mintdom.MintRecord{
		ID:               docID,
		InspectionID:     strings.TrimSpace(fscommon.AsString(data["inspectionId"])),
		TokenBlueprintID: strings.TrimSpace(fscommon.AsString(data["tokenBlueprintId"])),
		CreatedBy:        strings.TrimSpace(fscommon.AsString(data["createdBy"])),
		CreatedByName:    strings.TrimSpace(fscommon.AsString(data["createdByName"])),
		TxSignature:      strings.TrimSpace(fscommon.AsString(data["txSignature"])),
		Minted:           fscommon.AsBool(data["minted"]),
	}
	if m.InspectionID == "" {
		m.InspectionID = docID
	}
	if t, ok := fscommon.AsTime(data["createdAt"]); ok {
		m.CreatedAt = t
	}
	m.MintedAt = fscommon.AsTimePtr(data["mintedAt"])
	m.ScheduledBurnDate = fscommon.AsTimePtr(data["scheduledBurnDate"])

	// minted / mintedAt の食い違いは mintedAt を正として補正する
	if m.MintedAt != nil {
		m.Minted = true
	}

	return m
}
