package query

import (
	"github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/vkngwrapper/core/v2/common"
	"golang.org/x/exp/slog"

	"github.com/krellis/seltab/descriptor"
	"github.com/krellis/seltab/hwctx"
)

// CreateFlags indicate specific querier behaviors to activate or deactivate
type CreateFlags int32

var querierCreateFlagsMapping = common.NewFlagStringMapping[CreateFlags]()

func (f CreateFlags) Register(str string) {
	querierCreateFlagsMapping.Register(f, str)
}
func (f CreateFlags) String() string {
	return querierCreateFlagsMapping.FlagsToString(f)
}

const (
	// QuerierCreateExternallySynchronized ensures that the querier's remote
	// entry cache will not be synchronized internally. The consumer must
	// guarantee Entry calls are serialized by some other mechanism.
	QuerierCreateExternallySynchronized CreateFlags = 1 << iota
	// QuerierCreateNoCache disables caching of remote entries, forcing a
	// round trip for every non-local lookup.
	QuerierCreateNoCache
)

func init() {
	QuerierCreateExternallySynchronized.Register("QuerierCreateExternallySynchronized")
	QuerierCreateNoCache.Register("QuerierCreateNoCache")
}

// CreateOptions contains optional settings when creating a Querier
type CreateOptions struct {
	// Flags indicates specific querier behaviors to activate or deactivate
	Flags CreateFlags

	// LocalContext is the context id whose lookups are answered from the
	// local table without a round trip.
	LocalContext uint64
}

// New creates a new Querier.
//
// logger - The logger that lookup diagnostics will be written to
//
// table - The local cached copy of the descriptor table
//
// owner - The authoritative out-of-process table owner
//
// regs - Read-only access to the current context's segment registers, used
// to classify well-known global selectors
//
// options - Optional parameters: it is valid to leave all the fields blank
func New(logger *slog.Logger, table *descriptor.Table, owner Owner, regs hwctx.Registers, options CreateOptions) (*Querier, error) {
	if table == nil {
		return nil, errors.New("a querier requires a local descriptor table")
	}
	if owner == nil {
		return nil, errors.New("a querier requires a table owner")
	}
	if regs == nil {
		return nil, errors.New("a querier requires segment register access")
	}

	querier := &Querier{
		logger:       logger,
		table:        table,
		owner:        owner,
		regs:         regs,
		localContext: options.LocalContext,
	}
	querier.mutex.UseMutex = options.Flags&QuerierCreateExternallySynchronized == 0

	if options.Flags&QuerierCreateNoCache == 0 {
		querier.cache = swiss.NewMap[cacheKey, descriptor.Descriptor](42)
	}

	return querier, nil
}
