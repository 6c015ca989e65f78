package settings

import "context"

// Repository stores the singleton settings record. Get reports
// ok=false when nothing has been saved yet; callers fall back to
// Defaults.
type Repository interface {
	Get(ctx context.Context) (Settings, bool, error)
	Save(ctx context.Context, item Settings) error
}
