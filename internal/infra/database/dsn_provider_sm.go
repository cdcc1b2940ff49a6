// internal/infra/database/dsn_provider_sm.go
package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	secretspb "google.golang.org/genproto/googleapis/cloud/secretmanager/v1"
)

var ErrDSNNotConfigured = errors.New("dsn_provider: not configured")

// DSNProviderSM resolves the PostgreSQL DSN from Secret Manager.
// DATABASE_URL を環境変数で直接渡せない環境（Cloud Run など）向け。
type DSNProviderSM struct {
	Client     *secretmanager.Client
	ProjectID  string
	SecretName string
}

func NewDSNProviderSM(client *secretmanager.Client, projectID, secretName string) *DSNProviderSM {
	return &DSNProviderSM{
		Client:     client,
		ProjectID:  strings.TrimSpace(projectID),
		SecretName: strings.TrimSpace(secretName),
	}
}

// Resolve fetches the latest secret version and returns it as DSN.
func (p *DSNProviderSM) Resolve(ctx context.Context) (string, error) {
	if p == nil || p.Client == nil {
		return "", ErrDSNNotConfigured
	}
	if p.ProjectID == "" || p.SecretName == "" {
		return "", fmt.Errorf("%w: projectID or secretName is empty", ErrDSNNotConfigured)
	}

	name := fmt.Sprintf("projects/%s/secrets/%s/versions/latest", p.ProjectID, p.SecretName)
	res, err := p.Client.AccessSecretVersion(ctx, &secretspb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return "", fmt.Errorf("dsn_provider: access secret %q failed: %w", p.SecretName, err)
	}

	dsn := strings.TrimSpace(string(res.GetPayload().GetData()))
	if dsn == "" {
		return "", fmt.Errorf("dsn_provider: secret %q is empty", p.SecretName)
	}
	return dsn, nil
}
