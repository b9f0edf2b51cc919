package saga

import (
	"context"
	"time"

	"github.com/campushq/enrollment-system/shared/models"
	"github.com/pkg/errors"
)

// ErrConflict is returned by Save when the persisted version does not match
// the expected one, meaning another dispatch attempt won the write.
var ErrConflict = errors.New("saga instance version conflict")

// InstanceStore persists saga instances. Save is a compare-and-swap on the
// version field: expectedVersion 0 inserts a fresh instance, any other value
// must match the persisted version or ErrConflict is returned. On success the
// stored (and passed) instance carries expectedVersion+1.
type InstanceStore interface {
	Load(ctx context.Context, sagaID models.ID) (*Instance, bool, error)
	Save(ctx context.Context, instance *Instance, expectedVersion int) error
	ScanExpired(ctx context.Context, now time.Time) ([]*Instance, error)
	FindByStatus(ctx context.Context, status Status, limit int) ([]*Instance, error)
}
