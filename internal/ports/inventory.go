package ports

import (
	"context"

	"apt-warden/internal/types"
)

// InventoryPort lists the packages with a pending update, including the
// origin metadata the trust policy classifies on.
type InventoryPort interface {
	ListUpgradable(ctx context.Context) ([]types.UpgradablePackage, error)
}
