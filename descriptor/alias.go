package descriptor

import (
	"golang.org/x/exp/slog"

	"github.com/krellis/seltab"
)

// AllocAlias allocates a fresh slot holding a copy of the source selector's
// descriptor with the code/data kind flipped. The alias shares the source's
// window of memory but owns its slot independently- freeing either leaves
// the other allocated. Returns the null selector on exhaustion or when the
// source is not allocated.
func (t *Table) AllocAlias(src seltab.Selector) seltab.Selector {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	srcIndex, err := t.slot(src)
	if err != nil {
		return seltab.NullSelector
	}

	sel := t.allocRun(1)
	if sel == seltab.NullSelector {
		return seltab.NullSelector
	}

	index := sel.Index()
	t.bases[index] = t.bases[srcIndex]
	t.limits[index] = t.limits[srcIndex]
	t.flags[index] = t.flags[srcIndex].FlipKind()

	t.logSelector(slog.LevelDebug, "allocated alias", sel,
		slog.Int("source", int(src)),
		slog.String("kind", t.flags[index].Kind().String()))
	return sel
}

// ConvertToAlias rewrites the destination selector's slot with a copy of the
// source descriptor, kind flipped. Both selectors must already be allocated;
// the destination's previous descriptor is lost. Returns the destination
// selector, or the null selector when either slot is not allocated.
func (t *Table) ConvertToAlias(src, dst seltab.Selector) seltab.Selector {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	srcIndex, err := t.slot(src)
	if err != nil {
		return seltab.NullSelector
	}
	dstIndex, err := t.slot(dst)
	if err != nil {
		return seltab.NullSelector
	}

	t.bases[dstIndex] = t.bases[srcIndex]
	t.limits[dstIndex] = t.limits[srcIndex]
	t.flags[dstIndex] = t.flags[srcIndex].FlipKind()

	return dst
}

// CloneSelector allocates a run the same length as the block headed by src
// and copies every descriptor of the block into it. When src is the null
// selector a single slot is allocated with nothing copied. Returns the null
// selector on exhaustion.
func (t *Table) CloneSelector(src seltab.Selector) seltab.Selector {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	count := 1
	srcIndex := -1
	if src != seltab.NullSelector {
		var err error
		srcIndex, err = t.slot(src)
		if err != nil {
			return seltab.NullSelector
		}
		count = t.blockWindowCount(srcIndex)
	}

	sel := t.allocRun(count)
	if sel == seltab.NullSelector || srcIndex < 0 {
		return sel
	}

	index := sel.Index()
	for i := 0; i < count; i++ {
		t.bases[index+i] = t.bases[srcIndex+i]
		t.limits[index+i] = t.limits[srcIndex+i]
		t.flags[index+i] = t.flags[srcIndex+i]
	}

	return sel
}
