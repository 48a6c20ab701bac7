// Package query answers descriptor lookups for arbitrary execution
// contexts. Well-known global selectors are synthesized locally from the
// current context's segment registers; everything else is reconciled
// against the authoritative out-of-process table owner through a single
// request/response round trip.
package query

import (
	cerrors "github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"golang.org/x/exp/slog"

	"github.com/krellis/seltab"
	"github.com/krellis/seltab/descriptor"
	"github.com/krellis/seltab/hwctx"
	"github.com/krellis/seltab/internal/utils"
)

// Entry is the response payload of the table owner's single request type.
type Entry struct {
	Base      uint32
	Limit     uint32
	Flags     descriptor.AccessFlags
	Allocated bool
}

// Owner is the authoritative out-of-process descriptor table. The round
// trip is synchronous and is never retried by the querier; callers that
// need a timeout must wrap the call externally.
type Owner interface {
	// GetSelectorEntry requests the descriptor held in the given slot of the
	// table belonging to contextID.
	GetSelectorEntry(contextID uint64, slot uint16) (Entry, error)
}

type cacheKey struct {
	context uint64
	slot    uint16
}

// Querier reconciles the local cached copy of the descriptor table with the
// authoritative owner for non-local contexts.
type Querier struct {
	logger       *slog.Logger
	table        *descriptor.Table
	owner        Owner
	regs         hwctx.Registers
	localContext uint64
	mutex        utils.OptionalMutex

	// cache holds remote entries already fetched from the owner. Nil when
	// caching is disabled.
	cache *swiss.Map[cacheKey, descriptor.Descriptor]
}

// flatLimit is the limit of the synthesized descriptor for a well-known
// flat selector: the whole linear address space.
const flatLimit uint32 = 0xFFFFFFFF

// Entry resolves the descriptor behind a selector as seen by the given
// context.
//
// Global selectors (table bit clear) never reach the owner. The null global
// selector yields a zero descriptor. A global selector matching the current
// context's live CS, DS or SS register- privilege bits masked out- yields a
// fixed flat full-access descriptor whose kind matches the role the
// register plays; any other global selector fails with ErrNoAccess.
//
// Local-table selectors for the local context are answered from the local
// table. For any other context a single round trip is made to the owner; a
// response with Allocated false fails with ErrEntryNotPresent, and a failed
// round trip is reported once, wrapped, and never retried.
func (q *Querier) Entry(contextID uint64, sel seltab.Selector) (descriptor.Descriptor, error) {
	if sel&seltab.SelectorTableBit == 0 {
		return q.globalEntry(sel)
	}

	if contextID == q.localContext {
		d, err := q.table.Descriptor(sel)
		if err != nil {
			return descriptor.Descriptor{}, cerrors.Wrapf(ErrEntryNotPresent, "selector 0x%04x in the local table", uint16(sel))
		}
		return d, nil
	}

	return q.remoteEntry(contextID, sel)
}

func (q *Querier) globalEntry(sel seltab.Selector) (descriptor.Descriptor, error) {
	masked := sel &^ seltab.SelectorPrivilegeMask
	if masked == 0 {
		// The null selector loads fine as long as it is never dereferenced.
		return descriptor.Descriptor{}, nil
	}

	entry := descriptor.Descriptor{
		Base:  0,
		Limit: flatLimit,
		Flags: descriptor.DataFlags,
	}

	for _, role := range []hwctx.SegmentRegister{hwctx.DS, hwctx.SS, hwctx.CS} {
		live := seltab.Selector(q.regs.SegmentRegister(role)) &^ seltab.SelectorPrivilegeMask
		if masked != live {
			continue
		}

		if role == hwctx.CS {
			entry.Flags |= descriptor.FlagCode
		}
		return entry, nil
	}

	return descriptor.Descriptor{}, cerrors.Wrapf(ErrNoAccess, "selector 0x%04x", uint16(sel))
}

func (q *Querier) remoteEntry(contextID uint64, sel seltab.Selector) (descriptor.Descriptor, error) {
	key := cacheKey{context: contextID, slot: uint16(sel.Index())}

	if q.cache != nil {
		q.mutex.Lock()
		d, ok := q.cache.Get(key)
		q.mutex.Unlock()
		if ok {
			return d, nil
		}
	}

	entry, err := q.owner.GetSelectorEntry(contextID, key.slot)
	if err != nil {
		return descriptor.Descriptor{}, cerrors.Wrapf(err, "requesting slot %d of context %d from the table owner", key.slot, contextID)
	}

	if !entry.Allocated {
		return descriptor.Descriptor{}, cerrors.Wrapf(ErrEntryNotPresent, "slot %d of context %d", key.slot, contextID)
	}

	d := descriptor.Descriptor{
		Base:  entry.Base,
		Limit: entry.Limit,
		Flags: entry.Flags,
	}

	if q.cache != nil {
		q.mutex.Lock()
		q.cache.Put(key, d)
		q.mutex.Unlock()
	}

	if q.logger != nil {
		q.logger.Debug("reconciled remote descriptor entry",
			slog.Uint64("context", contextID),
			slog.Int("slot", int(key.slot)))
	}

	return d, nil
}
