package ports

import (
	"context"

	"github.com/kaspazof/kaspazof-api/internal/core/domain/system"
)

type SystemService interface {
	GetSystemInfo(ctx context.Context) *system.Info
}
