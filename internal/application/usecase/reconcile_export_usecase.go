// internal/application/usecase/reconcile_export_usecase.go
package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"tracery/internal/application/reconcile"
)

// SnapshotWriter は reconciliation 結果の書き出しポートです（GCS 実装に対応）。
type SnapshotWriter interface {
	Write(ctx context.Context, companyID string, snapshot any) (string, error)
}

// ReconcileExportUsecase は現在の reconciliation 結果を
// 監査用スナップショットとしてオブジェクトストレージへ書き出します。
type ReconcileExportUsecase struct {
	reconciler *reconcile.Service
	writer     SnapshotWriter
}

func NewReconcileExportUsecase(reconciler *reconcile.Service, writer SnapshotWriter) *ReconcileExportUsecase {
	return &ReconcileExportUsecase{reconciler: reconciler, writer: writer}
}

// Export は 1 回の reconciliation を実行し、結果を書き出してパスを返します。
func (u *ReconcileExportUsecase) Export(ctx context.Context) (string, error) {
	if u == nil || u.reconciler == nil || u.writer == nil {
		return "", errors.New("reconcileExport: usecase not initialized")
	}

	cid := CompanyIDFromContext(ctx)
	if cid == "" {
		return "", errors.New("reconcileExport: companyId is not in context")
	}

	start := time.Now()
	result, err := u.reconciler.Reconcile(ctx)
	if err != nil {
		return "", err
	}

	path, err := u.writer.Write(ctx, cid, result)
	if err != nil {
		return "", err
	}

	log.Printf("[reconcile_export] snapshot written company=%s rows=%d path=%s elapsed=%s",
		cid, len(result.Rows), path, time.Since(start))
	return path, nil
}
