package services_test

import (
	"context"
	"testing"

	impl "github.com/kaspazof/kaspazof-api/internal/application/services"
	"github.com/kaspazof/kaspazof-api/internal/core/domain/apperr"
	"github.com/kaspazof/kaspazof-api/internal/core/domain/wallet"
)

func TestCreateWallet(t *testing.T) {
	svc := impl.NewWalletService(nil)
	tests := []struct {
		name      string
		req       *wallet.CreateWalletRequest
		wantCode  string
		wantField string
	}{
		{"blank label", &wallet.CreateWalletRequest{Label: "   ", Password: "longenough"}, apperr.CodeValidationError, "label"},
		{"short password", &wallet.CreateWalletRequest{Label: "main", Password: "short"}, apperr.CodeValidationError, "password"},
		{"valid input", &wallet.CreateWalletRequest{Label: "main", Password: "longenough"}, apperr.CodeNotImplemented, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := svc.CreateWallet(context.Background(), tt.req)
			if w != nil {
				t.Fatalf("expected no wallet, got %+v", w)
			}
			e, ok := apperr.As(err)
			if !ok {
				t.Fatalf("expected domain error, got %v", err)
			}
			if e.Code != tt.wantCode || e.Field != tt.wantField {
				t.Fatalf("got code=%s field=%s", e.Code, e.Field)
			}
		})
	}
}

func TestListWallets_Empty(t *testing.T) {
	list, err := impl.NewWalletService(nil).ListWallets(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if list.Total != 0 || len(list.Wallets) != 0 || list.Wallets == nil {
		t.Fatalf("expected empty non-nil list, got %+v", list)
	}
	if list.Message == "" {
		t.Fatalf("expected a message")
	}
}

func TestGetWallet(t *testing.T) {
	svc := impl.NewWalletService(nil)

	_, err := svc.GetWallet(context.Background(), "short")
	if e, ok := apperr.As(err); !ok || e.Kind != apperr.KindValidation || e.Field != "wallet_id" {
		t.Fatalf("expected wallet_id validation error, got %v", err)
	}

	_, err = svc.GetWallet(context.Background(), "0123456789abcdef")
	if e, ok := apperr.As(err); !ok || e.Code != apperr.CodeNotImplemented {
		t.Fatalf("expected NOT_IMPLEMENTED, got %v", err)
	}
}
