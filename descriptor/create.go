package descriptor

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/common"
	"golang.org/x/exp/slog"

	"github.com/krellis/seltab"
)

// CreateFlags indicate specific table behaviors to activate or deactivate
type CreateFlags int32

var tableCreateFlagsMapping = common.NewFlagStringMapping[CreateFlags]()

func (f CreateFlags) Register(str string) {
	tableCreateFlagsMapping.Register(f, str)
}
func (f CreateFlags) String() string {
	return tableCreateFlagsMapping.FlagsToString(f)
}

const (
	// TableCreateExternallySynchronized ensures that this table will not be synchronized
	// internally. The consumer must guarantee that all allocate/free/resize/alias calls
	// are serialized by some other mechanism, but performance may improve because internal
	// mutexes are not used. Read-only validation and lookups may still run concurrently
	// with each other, just never with a mutation.
	TableCreateExternallySynchronized CreateFlags = 1 << iota
)

func init() {
	TableCreateExternallySynchronized.Register("TableCreateExternallySynchronized")
}

const (
	// DefaultFirstAllocatableSlot is the reserved-slot boundary used when none is
	// provided via CreateOptions. Slot 0 and a reserved prefix below the boundary
	// are never returned by allocation.
	DefaultFirstAllocatableSlot = 32
)

// CreateOptions contains optional settings when creating a Table
type CreateOptions struct {
	// Flags indicates specific table behaviors to activate or deactivate
	Flags CreateFlags

	// FirstAllocatableSlot is the lowest slot index the allocator may hand out.
	// It must be greater than zero so that the null selector can never name an
	// allocated slot. Leave it zero to use DefaultFirstAllocatableSlot.
	FirstAllocatableSlot int
}

// New creates a new Table
//
// logger - The logger that table operations will write diagnostics to
//
// options - Optional parameters: it is valid to leave all the fields blank
func New(logger *slog.Logger, options CreateOptions) (*Table, error) {
	firstSlot := options.FirstAllocatableSlot
	if firstSlot == 0 {
		firstSlot = DefaultFirstAllocatableSlot
	}

	if firstSlot < 1 || firstSlot >= seltab.TableSize {
		return nil, errors.Errorf("FirstAllocatableSlot is %d, but it must lie between 1 and %d", firstSlot, seltab.TableSize-1)
	}

	useMutex := options.Flags&TableCreateExternallySynchronized == 0

	table := &Table{
		logger:    logger,
		firstSlot: firstSlot,
	}
	table.mutex.UseMutex = useMutex

	return table, nil
}
