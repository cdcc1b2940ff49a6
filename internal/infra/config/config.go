// internal/infra/config/config.go
package config

import "os"

// Config はアプリケーション全体の環境変数設定を保持します。
type Config struct {
	Port     string
	GCPCreds string

	FirestoreProjectID       string
	FirestoreCredentialsFile string

	// Firebase Auth 用のプロジェクトID
	FirebaseProjectID string

	// mint_requests 永続化（PostgreSQL）
	// DATABASE_URL が空の場合は PG_DSN_SECRET_NAME の Secret Manager シークレットを参照する
	DatabaseURL     string
	PGDSNSecretName string

	// reconciliation スナップショット出力先バケット
	SnapshotBucket string

	// 提出通知メール
	SendGridAPIKey string
	MailFrom       string
	MailNotifyTo   string

	// Solana RPC（tx signature 実在確認は行わず、形式検証のみに使う）
	SolanaRPCEndpoint string
}

// Load は環境変数を読み込み Config を返します。
func Load() *Config {
	defaultProject := getenvDefault("GCP_PROJECT_ID", "tracery-development")

	cfg := &Config{
		Port:     getenvDefault("PORT", "8080"),
		GCPCreds: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),

		FirestoreProjectID:       getenvDefault("FIRESTORE_PROJECT_ID", defaultProject),
		FirestoreCredentialsFile: os.Getenv("FIRESTORE_CREDENTIALS_FILE"),

		FirebaseProjectID: getenvDefault("FIREBASE_PROJECT_ID", defaultProject),

		DatabaseURL:     os.Getenv("DATABASE_URL"),
		PGDSNSecretName: getenvDefault("PG_DSN_SECRET_NAME", "tracery-pg-dsn"),

		SnapshotBucket: os.Getenv("SNAPSHOT_BUCKET"),

		SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		MailFrom:       getenvDefault("MAIL_FROM", "noreply@tracery.app"),
		MailNotifyTo:   os.Getenv("MINT_REQUEST_NOTIFY_TO"),

		SolanaRPCEndpoint: getenvDefault("SOLANA_RPC_ENDPOINT", "https://api.devnet.solana.com"),
	}

	return cfg
}

// GetFirestoreProjectID は Firestore/GCP プロジェクト ID を返します。
func (c *Config) GetFirestoreProjectID() string {
	return c.FirestoreProjectID
}

func (c *Config) GetFirebaseProjectID() string {
	return c.FirebaseProjectID
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
