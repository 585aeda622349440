package ports

import (
	"context"

	"github.com/kaspazof/kaspazof-api/internal/core/domain/wallet"
)

type WalletService interface {
	CreateWallet(ctx context.Context, req *wallet.CreateWalletRequest) (*wallet.Wallet, error)
	ListWallets(ctx context.Context) (*wallet.List, error)
	GetWallet(ctx context.Context, id string) (*wallet.Wallet, error)
}
