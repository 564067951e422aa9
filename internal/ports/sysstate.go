package ports

import (
	"context"

	"apt-warden/internal/types"
)

// SystemStatePort collects the post-update system-health signals fed to the
// second oracle pass and to the post-fix verification snapshot. Individual
// probe failures degrade their field rather than failing collection.
type SystemStatePort interface {
	Collect(ctx context.Context) (types.HealthSnapshot, error)
}
