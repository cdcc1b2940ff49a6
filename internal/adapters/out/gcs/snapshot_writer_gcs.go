// internal/adapters/out/gcs/snapshot_writer_gcs.go
package gcs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/storage"
)

// SnapshotWriterGCS は reconciliation 結果を JSON として GCS へ書き出します。
//
// ✅ Layout (single bucket):
// - bucket: <SNAPSHOT_BUCKET>
// - objectPath: reconciliation/{companyId}/{yyyy/MM/dd}/snapshot-{unix}.json
//
// 一覧ビューは非永続（毎回再計算）なので、このスナップショットは
// 監査・突き合わせ用のエクスポートという位置づけ。
type SnapshotWriterGCS struct {
	Client *storage.Client
	Bucket string
}

func NewSnapshotWriterGCS(client *storage.Client, bucket string) *SnapshotWriterGCS {
	return &SnapshotWriterGCS{
		Client: client,
		Bucket: strings.TrimSpace(bucket),
	}
}

// Write は snapshot を書き込み、オブジェクトパスを返します。
func (w *SnapshotWriterGCS) Write(ctx context.Context, companyID string, snapshot any) (string, error) {
	if w == nil || w.Client == nil {
		return "", errors.New("snapshot_writer_gcs: storage client is nil")
	}
	bucket := strings.TrimSpace(w.Bucket)
	if bucket == "" {
		return "", errors.New("snapshot_writer_gcs: bucket is empty")
	}
	cid := strings.TrimSpace(companyID)
	if cid == "" {
		return "", errors.New("snapshot_writer_gcs: companyId is empty")
	}

	now := time.Now().UTC()
	objectPath := fmt.Sprintf(
		"reconciliation/%s/%s/snapshot-%d.json",
		cid, now.Format("2006/01/02"), now.Unix(),
	)

	payload, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("snapshot_writer_gcs: marshal failed: %w", err)
	}

	obj := w.Client.Bucket(bucket).Object(objectPath)
	wr := obj.NewWriter(ctx)
	wr.ContentType = "application/json"

	if _, err := wr.Write(payload); err != nil {
		_ = wr.Close()
		return "", fmt.Errorf("snapshot_writer_gcs: write failed: %w", err)
	}
	if err := wr.Close(); err != nil {
		return "", fmt.Errorf("snapshot_writer_gcs: close failed: %w", err)
	}

	return objectPath, nil
}
