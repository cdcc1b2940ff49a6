// internal/infra/solana/verify.go
package solana

import (
	"errors"
	"fmt"
	"strings"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/mr-tron/base58"
)

// mints ドキュメントに記録された txSignature / mintAddress の形式検証。
// RPC への実在照会は行わない（reconciliation はオフラインで完結させる）。

var (
	ErrInvalidMintAddress = errors.New("solana: invalid mint address")
	ErrInvalidTxSignature = errors.New("solana: invalid tx signature")
)

// VerifyMintAddress は base58 の 32 byte 公開鍵であることを検証します。
func VerifyMintAddress(addr string) error {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return ErrInvalidMintAddress
	}

	raw, err := base58.Decode(addr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMintAddress, err)
	}
	if len(raw) != common.PublicKeyLength {
		return fmt.Errorf("%w: decoded length %d", ErrInvalidMintAddress, len(raw))
	}
	return nil
}

// VerifyTxSignature は base58 の 64 byte 署名であることを検証します。
func VerifyTxSignature(sig string) error {
	sig = strings.TrimSpace(sig)
	if sig == "" {
		return ErrInvalidTxSignature
	}

	raw, err := base58.Decode(sig)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTxSignature, err)
	}
	if len(raw) != 64 {
		return fmt.Errorf("%w: decoded length %d", ErrInvalidTxSignature, len(raw))
	}
	return nil
}
