// Package txn defines the all-or-nothing unit of work shared by the stock and sale operations.
package txn

import (
	"context"
	"errors"
)

// ErrAborted reports that the storage layer rolled the unit of work back
// (serialization failure, deadlock, lost connection, failed commit).
// Nothing from the unit is visible; callers may retry the whole operation.
var ErrAborted = errors.New("txn: transaction aborted")

// Manager runs fn inside one atomic unit. Repositories invoked with the
// context passed to fn join the unit. If fn returns an error, every write
// made through that context is discarded and the error is returned as is.
type Manager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
