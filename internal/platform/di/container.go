// internal/platform/di/container.go
package di

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"strings"

	httpin "tracery/internal/adapters/in/http"
	dbadapter "tracery/internal/adapters/out/db"
	fsadapter "tracery/internal/adapters/out/firestore"
	gcsadapter "tracery/internal/adapters/out/gcs"
	mailadapter "tracery/internal/adapters/out/mail"
	"tracery/internal/application/reconcile"
	"tracery/internal/application/usecase"
	"tracery/internal/infra/database"
	"tracery/internal/platform/di/shared"
)

// Container はアプリケーションの全依存を束ねます。
type Container struct {
	Infra *shared.Infra

	// Repositories
	ProductionRepo  *fsadapter.ProductionRepositoryFS
	InspectionRepo  *fsadapter.InspectionRepositoryFS
	MintRepo        *fsadapter.MintRepositoryFS
	MintRequestRepo *dbadapter.MintRequestRepositoryPG

	// DB handle (owned; Close-managed)
	DB *sql.DB

	// Application
	Reconciler    *reconcile.Service
	MintRequestUC *usecase.MintRequestUsecase
	ExportUC      *usecase.ReconcileExportUsecase

	// HTTP
	Router http.Handler
}

// NewContainer は共有インフラを初期化して全依存を配線します。
func NewContainer(ctx context.Context) (*Container, error) {
	inf, err := shared.NewInfra(ctx)
	if err != nil {
		return nil, fmt.Errorf("di: infra init failed: %w", err)
	}

	c := &Container{Infra: inf}

	// =========================================
	// Firestore repositories
	// =========================================
	c.ProductionRepo = fsadapter.NewProductionRepositoryFS(inf.Firestore)
	c.InspectionRepo = fsadapter.NewInspectionRepositoryFS(inf.Firestore)
	c.MintRepo = fsadapter.NewMintRepositoryFS(inf.Firestore)

	// =========================================
	// Reconciliation service
	// =========================================
	c.Reconciler = reconcile.NewService(
		c.ProductionRepo,
		reconcile.NewInspectionBatchSource(c.InspectionRepo),
		reconcile.NewMintRecordSource(c.MintRepo),
	)

	// =========================================
	// PostgreSQL (mint_requests)
	// DATABASE_URL が空なら Secret Manager から DSN を解決する
	// =========================================
	dsn := strings.TrimSpace(inf.Config.DatabaseURL)
	if dsn == "" && inf.SecretManager != nil {
		provider := database.NewDSNProviderSM(inf.SecretManager, inf.ProjectID, inf.Config.PGDSNSecretName)
		resolved, rerr := provider.Resolve(ctx)
		if rerr != nil {
			log.Printf("[di] WARN: PG DSN resolution failed: %v (mint request submission disabled)", rerr)
		} else {
			dsn = resolved
		}
	}

	if dsn != "" {
		db, derr := database.Open(ctx, dsn)
		if derr != nil {
			log.Printf("[di] WARN: postgres open failed: %v (mint request submission disabled)", derr)
		} else {
			c.DB = db
			c.MintRequestRepo = dbadapter.NewMintRequestRepositoryPG(db)
			if merr := c.MintRequestRepo.Migrate(ctx); merr != nil {
				log.Printf("[di] WARN: mint_requests migration failed: %v", merr)
			}
		}
	} else {
		log.Printf("[di] WARN: no PG DSN available (mint request submission disabled)")
	}

	// =========================================
	// Usecases
	// =========================================
	if c.MintRequestRepo != nil {
		c.MintRequestUC = usecase.NewMintRequestUsecase(c.MintRequestRepo)

		// 提出通知メール（任意）
		if key := strings.TrimSpace(inf.Config.SendGridAPIKey); key != "" {
			c.MintRequestUC.SetMailer(
				mailadapter.NewSendGridClient(key),
				usecase.MintRequestNotifyConfig{
					From: inf.Config.MailFrom,
					To:   inf.Config.MailNotifyTo,
				},
			)
		} else {
			log.Printf("[di] SENDGRID_API_KEY is empty (submit notification disabled)")
		}
	}

	if inf.GCS != nil && inf.SnapshotBucket != "" {
		writer := gcsadapter.NewSnapshotWriterGCS(inf.GCS, inf.SnapshotBucket)
		c.ExportUC = usecase.NewReconcileExportUsecase(c.Reconciler, writer)
	} else {
		log.Printf("[di] snapshot export disabled (GCS client or SNAPSHOT_BUCKET missing)")
	}

	// =========================================
	// Router
	// =========================================
	c.Router = httpin.NewRouter(httpin.RouterDeps{
		Reconciler:    c.Reconciler,
		MintRequestUC: c.MintRequestUC,
		ExportUC:      c.ExportUC,
		FirebaseAuth:  inf.FirebaseAuth,
	})

	return c, nil
}

// Close releases owned resources. Safe on nil receiver.
func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.DB != nil {
		_ = c.DB.Close()
	}
	return c.Infra.Close()
}
