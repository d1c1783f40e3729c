// internal/device/load.go
package device

import (
	"context"
	"fmt"

	"github.com/tamzrod/ntc-dashboard/internal/configsync"
)

// Load fetches a record and hands it to the controller.
// On any failure the controller keeps its current state.
func Load(ctx context.Context, src Source, ctrl *configsync.Controller) error {
	rec, err := src.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfigLoad, err)
	}
	return ctrl.LoadConfig(rec)
}
