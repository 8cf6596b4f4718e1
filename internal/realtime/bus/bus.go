package bus

import (
	"context"

	"github.com/greenprint/greenprint-backend/internal/realtime"
)

// Bus fans progress events out to interested processes. A nil Bus anywhere
// in the wiring means "realtime disabled".
type Bus interface {
	Publish(ctx context.Context, event realtime.ProgressEvent) error
	Subscribe(ctx context.Context, onEvent func(realtime.ProgressEvent)) error
	Close() error
}
