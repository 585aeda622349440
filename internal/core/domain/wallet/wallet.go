package wallet

import "time"

type Status string

const (
	StatusActive   Status = "active"
	StatusLocked   Status = "locked"
	StatusArchived Status = "archived"
)

// MinIDLength is the shortest wallet id accepted by GET /wallets/:wallet_id.
const MinIDLength = 16

// CreateWalletRequest is the body of POST /wallets/create.
type CreateWalletRequest struct {
	Label    string `json:"label" validate:"required,min=1,max=50,notblank"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type Wallet struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	Address   string    `json:"address"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	Balance   *float64  `json:"balance,omitempty"`
}

type List struct {
	Wallets []*Wallet `json:"wallets"`
	Total   int       `json:"total"`
	Message string    `json:"message,omitempty"`
}
