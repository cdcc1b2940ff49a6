// internal/application/usecase/mintRequest_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	mintrequestdom "tracery/internal/domain/mintRequest"
)

// ========================================
// Ports (usecase が要求する最小インターフェース)
// ========================================

// MintRequestRepository は PG 実装 (MintRequestRepositoryPG) の superset から
// usecase が必要とする部分だけを切り出したものです。
type MintRequestRepository interface {
	GetByID(ctx context.Context, id string) (mintrequestdom.MintRequest, error)
	ListByProductionIDs(ctx context.Context, productionIDs []string) ([]mintrequestdom.MintRequest, error)
	Create(ctx context.Context, mr mintrequestdom.MintRequest) (mintrequestdom.MintRequest, error)
	Update(ctx context.Context, mr mintrequestdom.MintRequest) (mintrequestdom.MintRequest, error)
}

// EmailClient は通知メール送信ポートです（SendGrid 実装に対応）。
type EmailClient interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// MintRequestNotifyConfig は提出通知メールの宛先設定です。
// To が空なら通知はスキップされる。
type MintRequestNotifyConfig struct {
	From string
	To   string
}

// ========================================
// Inputs
// ========================================

// SubmitMintRequestInput は POST /mint-requests の入力です。
type SubmitMintRequestInput struct {
	TokenBlueprintID string     `json:"tokenBlueprintId"`
	ProductionID     string     `json:"productionId"`
	MintQuantity     int        `json:"mintQuantity"`
	BurnDate         *time.Time `json:"burnDate,omitempty"`
}

// ========================================
// Usecase 本体
// ========================================

type MintRequestUsecase struct {
	repo   MintRequestRepository
	mailer EmailClient
	notify MintRequestNotifyConfig
}

func NewMintRequestUsecase(repo MintRequestRepository) *MintRequestUsecase {
	return &MintRequestUsecase{repo: repo}
}

// SetMailer は DI 側で後から通知メールを差し込めるようにします
// （既存 constructor を壊さない）。
func (u *MintRequestUsecase) SetMailer(mailer EmailClient, cfg MintRequestNotifyConfig) {
	if u == nil {
		return
	}
	u.mailer = mailer
	u.notify = cfg
}

// ----------------------------------------
// Queries
// ----------------------------------------

func (u *MintRequestUsecase) GetByID(
	ctx context.Context,
	id string,
) (mintrequestdom.MintRequest, error) {

	if u == nil || u.repo == nil {
		return mintrequestdom.MintRequest{}, errors.New("mintRequest: usecase not initialized")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return mintrequestdom.MintRequest{}, mintrequestdom.ErrNotFound
	}
	return u.repo.GetByID(ctx, id)
}

// ListByProductionIDs は生産計画 ID 群に紐づく提出済みリクエストを返します。
func (u *MintRequestUsecase) ListByProductionIDs(
	ctx context.Context,
	productionIDs []string,
) ([]mintrequestdom.MintRequest, error) {

	if u == nil || u.repo == nil {
		return nil, errors.New("mintRequest: usecase not initialized")
	}
	return u.repo.ListByProductionIDs(ctx, productionIDs)
}

// ----------------------------------------
// Commands
// ----------------------------------------

// Submit は新しい MintRequest を requested 状態で登録します。
//   - id はサーバ側で採番（UUID）
//   - 提出者は AuthMiddleware が ctx に注入した memberId
//   - 検証エンティティが弾いた場合は *ValidationError がそのまま返る
//     （呼び出し側が全違反を一括表示できる）
func (u *MintRequestUsecase) Submit(
	ctx context.Context,
	in SubmitMintRequestInput,
) (mintrequestdom.MintRequest, error) {

	if u == nil || u.repo == nil {
		return mintrequestdom.MintRequest{}, errors.New("mintRequest: usecase not initialized")
	}

	memberID := MemberIDFromContext(ctx)
	if memberID == "" {
		return mintrequestdom.MintRequest{}, errors.New("mintRequest: member is not authenticated")
	}

	now := time.Now().UTC()
	by := memberID

	mr, err := mintrequestdom.New(
		uuid.NewString(),
		in.TokenBlueprintID,
		in.ProductionID,
		in.MintQuantity,
		in.BurnDate,
		mintrequestdom.StatusRequested,
		&by,
		&now, nil,
		now, memberID,
		now, memberID,
		nil, nil,
	)
	if err != nil {
		return mintrequestdom.MintRequest{}, err
	}

	created, err := u.repo.Create(ctx, mr)
	if err != nil {
		return mintrequestdom.MintRequest{}, err
	}

	// 通知は best-effort。失敗しても提出自体は成立させる。
	u.notifySubmitted(ctx, created)

	return created, nil
}

// MarkMinted はミント完了を永続化します（requested -> minted）。
func (u *MintRequestUsecase) MarkMinted(
	ctx context.Context,
	id string,
	mintedAt time.Time,
) (mintrequestdom.MintRequest, error) {

	if u == nil || u.repo == nil {
		return mintrequestdom.MintRequest{}, errors.New("mintRequest: usecase not initialized")
	}

	mr, err := u.GetByID(ctx, id)
	if err != nil {
		return mintrequestdom.MintRequest{}, err
	}
	if err := mr.MarkMinted(mintedAt); err != nil {
		return mintrequestdom.MintRequest{}, err
	}
	mr.UpdatedAt = time.Now().UTC()
	if mid := MemberIDFromContext(ctx); mid != "" {
		mr.UpdatedBy = mid
	}
	return u.repo.Update(ctx, mr)
}

func (u *MintRequestUsecase) notifySubmitted(ctx context.Context, mr mintrequestdom.MintRequest) {
	if u.mailer == nil || strings.TrimSpace(u.notify.To) == "" {
		return
	}

	subject := fmt.Sprintf("ミントリクエスト提出: production %s", mr.ProductionID)
	body := fmt.Sprintf(
		"mintRequestId: %s\ntokenBlueprintId: %s\nproductionId: %s\nmintQuantity: %d\nrequestedBy: %s\n",
		mr.ID, mr.TokenBlueprintID, mr.ProductionID, mr.MintQuantity, mr.CreatedBy,
	)
	if err := u.mailer.Send(ctx, u.notify.From, u.notify.To, subject, body); err != nil {
		log.Printf("[mintRequest_uc] WARN: submit notification failed id=%s err=%v", mr.ID, err)
	}
}
