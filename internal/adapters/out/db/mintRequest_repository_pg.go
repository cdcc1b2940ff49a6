// internal/adapters/out/db/mintRequest_repository_pg.go
package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/lib/pq"

	dbcommon "tracery/internal/adapters/out/db/common"
	mrdom "tracery/internal/domain/mintRequest"
)

// PG implementation of mintRequest.Repository
type MintRequestRepositoryPG struct {
	DB *sql.DB
}

func NewMintRequestRepositoryPG(db *sql.DB) *MintRequestRepositoryPG {
	return &MintRequestRepositoryPG{DB: db}
}

// Migrate は mint_requests テーブルを作成します（存在しなければ）。
func (r *MintRequestRepositoryPG) Migrate(ctx context.Context) error {
	if r.DB == nil {
		return errors.New("db is nil")
	}
	_, err := r.DB.ExecContext(ctx, mrdom.MintRequestsTableDDL)
	return err
}

const mintRequestColumns = `
  id, token_blueprint_id, production_id, mint_quantity, burn_date, status,
  requested_by, requested_at, minted_at,
  created_at, created_by, updated_at, updated_by, deleted_at, deleted_by`

// =======================
// Repository impl
// =======================

func (r *MintRequestRepositoryPG) GetByID(ctx context.Context, id string) (mrdom.MintRequest, error) {
	run := dbcommon.GetRunner(ctx, r.DB)
	const q = `
SELECT` + mintRequestColumns + `
FROM mint_requests
WHERE id = $1 AND deleted_at IS NULL`
	row := run.QueryRowContext(ctx, q, strings.TrimSpace(id))
	mr, err := scanMintRequest(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mrdom.MintRequest{}, mrdom.ErrNotFound
		}
		return mrdom.MintRequest{}, err
	}
	return mr, nil
}

// ListByProductionIDs は production_id IN (...) で一覧取得します。
func (r *MintRequestRepositoryPG) ListByProductionIDs(
	ctx context.Context,
	productionIDs []string,
) ([]mrdom.MintRequest, error) {

	run := dbcommon.GetRunner(ctx, r.DB)

	ids := make([]string, 0, len(productionIDs))
	for _, id := range productionIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return []mrdom.MintRequest{}, nil
	}

	const q = `
SELECT` + mintRequestColumns + `
FROM mint_requests
WHERE production_id = ANY($1) AND deleted_at IS NULL
ORDER BY created_at DESC, id DESC`

	rows, err := run.QueryContext(ctx, q, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]mrdom.MintRequest, 0, len(ids))
	for rows.Next() {
		mr, err := scanMintRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, mr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MintRequestRepositoryPG) Create(ctx context.Context, mr mrdom.MintRequest) (mrdom.MintRequest, error) {
	run := dbcommon.GetRunner(ctx, r.DB)

	if err := mr.Validate(); err != nil {
		return mrdom.MintRequest{}, err
	}

	const q = `
INSERT INTO mint_requests (
  id, token_blueprint_id, production_id, mint_quantity, burn_date, status,
  requested_by, requested_at, minted_at,
  created_at, created_by, updated_at, updated_by, deleted_at, deleted_by
) VALUES (
  $1, $2, $3, $4, $5::date, $6,
  $7, $8, $9,
  $10, $11, $12, $13, NULL, NULL
)
RETURNING` + mintRequestColumns

	row := run.QueryRowContext(ctx, q,
		strings.TrimSpace(mr.ID),
		strings.TrimSpace(mr.TokenBlueprintID),
		strings.TrimSpace(mr.ProductionID),
		mr.MintQuantity,
		dbcommon.ToDBTime(mr.BurnDate),
		string(mr.Status),
		dbcommon.ToDBStringPtr(mr.RequestedBy),
		dbcommon.ToDBTime(mr.RequestedAt),
		dbcommon.ToDBTime(mr.MintedAt),
		mr.CreatedAt.UTC(),
		strings.TrimSpace(mr.CreatedBy),
		mr.UpdatedAt.UTC(),
		strings.TrimSpace(mr.UpdatedBy),
	)
	created, err := scanMintRequest(row)
	if err != nil {
		if dbcommon.IsUniqueViolation(err) {
			return mrdom.MintRequest{}, errors.New("mintRequest: duplicate id")
		}
		return mrdom.MintRequest{}, err
	}
	return created, nil
}

func (r *MintRequestRepositoryPG) Update(ctx context.Context, mr mrdom.MintRequest) (mrdom.MintRequest, error) {
	run := dbcommon.GetRunner(ctx, r.DB)

	if err := mr.Validate(); err != nil {
		return mrdom.MintRequest{}, err
	}

	const q = `
UPDATE mint_requests SET
  token_blueprint_id = $2,
  production_id      = $3,
  mint_quantity      = $4,
  burn_date          = $5::date,
  status             = $6,
  requested_by       = $7,
  requested_at       = $8,
  minted_at          = $9,
  updated_at         = $10,
  updated_by         = $11,
  deleted_at         = $12,
  deleted_by         = $13
WHERE id = $1 AND deleted_at IS NULL
RETURNING` + mintRequestColumns

	row := run.QueryRowContext(ctx, q,
		strings.TrimSpace(mr.ID),
		strings.TrimSpace(mr.TokenBlueprintID),
		strings.TrimSpace(mr.ProductionID),
		mr.MintQuantity,
		dbcommon.ToDBTime(mr.BurnDate),
		string(mr.Status),
		dbcommon.ToDBStringPtr(mr.RequestedBy),
		dbcommon.ToDBTime(mr.RequestedAt),
		dbcommon.ToDBTime(mr.MintedAt),
		time.Now().UTC(),
		strings.TrimSpace(mr.UpdatedBy),
		dbcommon.ToDBTime(mr.DeletedAt),
		dbcommon.ToDBStringPtr(mr.DeletedBy),
	)
	updated, err := scanMintRequest(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mrdom.MintRequest{}, mrdom.ErrNotFound
		}
		return mrdom.MintRequest{}, err
	}
	return updated, nil
}

// =======================
// scan helper
// =======================

func scanMintRequest(s dbcommon.RowScanner) (mrdom.MintRequest, error) {
	var (
		id, tokenBlueprintID, productionID, status string
		mintQuantity                               int
		burnDateNS                                 sql.NullTime
		requestedByNS                              sql.NullString
		requestedAtNS, mintedAtNS                  sql.NullTime
		createdAt, updatedAt                       time.Time
		createdBy, updatedBy                       string
		deletedAtNS                                sql.NullTime
		deletedByNS                                sql.NullString
	)
	if err := s.Scan(
		&id, &tokenBlueprintID, &productionID, &mintQuantity, &burnDateNS, &status,
		&requestedByNS, &requestedAtNS, &mintedAtNS,
		&createdAt, &createdBy, &updatedAt, &updatedBy, &deletedAtNS, &deletedByNS,
	); err != nil {
		return mrdom.MintRequest{}, err
	}

	toTimePtr := func(nt sql.NullTime) *time.Time {
		if nt.Valid {
			t := nt.Time.UTC()
			return &t
		}
		return nil
	}
	toStrPtr := func(ns sql.NullString) *string {
		if ns.Valid {
			v := strings.TrimSpace(ns.String)
			if v == "" {
				return nil
			}
			return &v
		}
		return nil
	}

	return mrdom.MintRequest{
		ID:               strings.TrimSpace(id),
		TokenBlueprintID: strings.TrimSpace(tokenBlueprintID),
		ProductionID:     strings.TrimSpace(productionID),
		MintQuantity:     mintQuantity,
		BurnDate:         toTimePtr(burnDateNS),
		Status:           mrdom.MintRequestStatus(strings.TrimSpace(status)),
		RequestedBy:      toStrPtr(requestedByNS),
		RequestedAt:      toTimePtr(requestedAtNS),
		MintedAt:         toTimePtr(mintedAtNS),

		CreatedAt: createdAt.UTC(),
		CreatedBy: strings.TrimSpace(createdBy),
		UpdatedAt: updatedAt.UTC(),
		UpdatedBy: strings.TrimSpace(updatedBy),
		DeletedAt: toTimePtr(deletedAtNS),
		DeletedBy: toStrPtr(deletedByNS),
	}, nil
}
