package transaction

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Kesavaawalakbari/konek/internal/catalog"
	"github.com/Kesavaawalakbari/konek/internal/inventory"
)

var (
	ErrNotFound          = errors.New("transaction not found")
	ErrInvalidStore      = errors.New("invalid store")
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = inventory.ErrInsufficientStock
	ErrInvalidInput      = catalog.ErrInvalidInput
)

// LineError names the order line that caused a rejection.
type LineError struct {
	Index       int
	ProductID   uuid.UUID
	ProductName string
	Err         error
}

func (e *LineError) Error() string {
	if e.ProductName != "" {
		return fmt.Sprintf("line %d (%s): %v", e.Index+1, e.ProductName, e.Err)
	}

	return fmt.Sprintf("line %d (product %s): %v", e.Index+1, e.ProductID, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// ApplyError reports a failure after checkout began writing. The database
// transaction was rolled back unless CommitUnknown is set, in which case the
// outcome of the commit could not be observed and the order must be checked
// before it is resubmitted.
type ApplyError struct {
	Step          string
	Err           error
	CommitUnknown bool
}

func (e *ApplyError) Error() string {
	if e.CommitUnknown {
		return fmt.Sprintf("checkout %s: outcome unknown: %v", e.Step, e.Err)
	}

	return fmt.Sprintf("checkout %s: rolled back: %v", e.Step, e.Err)
}

func (e *ApplyError) Unwrap() error { return e.Err }

func (e *ApplyError) NeedsReconciliation() bool { return e.CommitUnknown }
