package services

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/kaspazof/kaspazof-api/internal/core/domain/apperr"
	"github.com/kaspazof/kaspazof-api/internal/core/domain/wallet"
)

// WalletService is a placeholder: wallet storage and key derivation do not exist yet, so
// creation and retrieval report NOT_IMPLEMENTED after input validation.
type WalletService struct {
	logger *logrus.Logger
}

func NewWalletService(logger *logrus.Logger) *WalletService {
	return &WalletService{logger: logger}
}

func (s *WalletService) CreateWallet(ctx context.Context, req *wallet.CreateWalletRequest) (*wallet.Wallet, error) {
	if req == nil || strings.TrimSpace(req.Label) == "" {
		return nil, apperr.NewValidationError("Label cannot be empty", "label")
	}
	if len(req.Password) < 8 {
		return nil, apperr.NewValidationError("Password must be at least 8 characters", "password")
	}
	if s.logger != nil {
		s.logger.WithField("label", strings.TrimSpace(req.Label)).Debug("wallet creation requested")
	}
	return nil, apperr.NewWalletError("Wallet creation not yet implemented", apperr.CodeNotImplemented)
}

func (s *WalletService) ListWallets(ctx context.Context) (*wallet.List, error) {
	return &wallet.List{
		Wallets: []*wallet.Wallet{},
		Total:   0,
		Message: "Wallet listing not yet implemented",
	}, nil
}

func (s *WalletService) GetWallet(ctx context.Context, id string) (*wallet.Wallet, error) {
	if len(id) < wallet.MinIDLength {
		return nil, apperr.NewValidationError("Invalid wallet ID format", "wallet_id")
	}
	return nil, apperr.NewWalletError("Wallet retrieval not yet implemented", apperr.CodeNotImplemented)
}
