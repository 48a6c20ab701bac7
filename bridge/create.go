package bridge

import (
	"github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/vkngwrapper/core/v2/common"
	"golang.org/x/exp/slog"

	"github.com/krellis/seltab"
	"github.com/krellis/seltab/descriptor"
)

// CreateFlags indicate specific bridge behaviors to activate or deactivate
type CreateFlags int32

var bridgeCreateFlagsMapping = common.NewFlagStringMapping[CreateFlags]()

func (f CreateFlags) Register(str string) {
	bridgeCreateFlagsMapping.Register(f, str)
}
func (f CreateFlags) String() string {
	return bridgeCreateFlagsMapping.FlagsToString(f)
}

const (
	// BridgeCreateExternallySynchronized ensures that this bridge's mapping
	// registry will not be synchronized internally. The consumer must
	// guarantee map/unmap calls are serialized by some other mechanism.
	BridgeCreateExternallySynchronized CreateFlags = 1 << iota
)

func init() {
	BridgeCreateExternallySynchronized.Register("BridgeCreateExternallySynchronized")
}

// CreateOptions contains optional settings when creating a Bridge
type CreateOptions struct {
	// Flags indicates specific bridge behaviors to activate or deactivate
	Flags CreateFlags
}

// New creates a new Bridge over the provided table.
//
// logger - The logger that leaked-mapping diagnostics will be written to
//
// table - The shared descriptor table temporary mappings are allocated from
//
// linear - The allocator supplying backing storage for mapped buffers. It
// may be nil if AllocMappedBuffer is never used.
//
// options - Optional parameters: it is valid to leave all the fields blank
func New(logger *slog.Logger, table *descriptor.Table, linear seltab.LinearAllocator, options CreateOptions) (*Bridge, error) {
	if table == nil {
		return nil, errors.New("a bridge requires a descriptor table")
	}

	bridge := &Bridge{
		logger:   logger,
		table:    table,
		linear:   linear,
		mappings: swiss.NewMap[seltab.Selector, uint32](42),
		buffers:  swiss.NewMap[seltab.SegPtr, seltab.LinearHandle](42),
	}
	bridge.mutex.UseMutex = options.Flags&BridgeCreateExternallySynchronized == 0

	return bridge, nil
}
