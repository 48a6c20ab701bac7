package descriptor

import (
	"context"

	cerrors "github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"golang.org/x/exp/slog"

	"github.com/krellis/seltab"
	"github.com/krellis/seltab/internal/utils"
)

// Table is the process-wide descriptor table: up to seltab.TableSize slots,
// each mapping a selector onto a (base, limit, flags) window of linear
// memory. A single Table is shared by every component in the module; it is
// passed into constructors rather than reached through a hidden singleton.
//
// Mutations are serialized through an internal mutex unless the table was
// created with TableCreateExternallySynchronized.
type Table struct {
	logger    *slog.Logger
	firstSlot int
	mutex     utils.OptionalRWMutex

	allocated [seltab.TableSize]bool
	bases     [seltab.TableSize]uint32
	limits    [seltab.TableSize]uint32
	flags     [seltab.TableSize]AccessFlags
}

var _ seltab.Validatable = &Table{}

// FirstAllocatableSlot returns the reserved-slot boundary this table was
// created with.
func (t *Table) FirstAllocatableSlot() int {
	return t.firstSlot
}

// AllocRun finds the lowest run of count consecutive free slots at or above
// the reserved boundary, marks every slot in it allocated, and returns the
// selector naming the first slot. The descriptors themselves are left
// untouched. Returns the null selector when count is not positive or no run
// of that length exists.
func (t *Table) AllocRun(count int) seltab.Selector {
	if count <= 0 {
		return seltab.NullSelector
	}

	t.mutex.Lock()
	defer t.mutex.Unlock()

	return t.allocRun(count)
}

func (t *Table) allocRun(count int) seltab.Selector {
	size := 0
	i := t.firstSlot
	for ; i < seltab.TableSize; i++ {
		if t.allocated[i] {
			size = 0
			continue
		}
		size++
		if size >= count {
			break
		}
	}
	if i == seltab.TableSize {
		return seltab.NullSelector
	}

	first := i - size + 1
	for j := 0; j < count; j++ {
		t.allocated[first+j] = true
	}

	return seltab.MakeSelector(first)
}

// FreeRun releases count slots starting at the selector's slot, clearing
// their descriptors. Slots that are already free are left alone, so freeing
// a run twice is harmless per slot.
func (t *Table) FreeRun(sel seltab.Selector, count int) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.freeRun(sel.Index(), count)
}

func (t *Table) freeRun(index, count int) {
	for i := 0; i < count; i++ {
		slot := index + i
		if slot < 0 || slot >= seltab.TableSize {
			continue
		}

		t.allocated[slot] = false
		t.bases[slot] = 0
		t.limits[slot] = 0
		t.flags[slot] = 0
	}
}

// runIsFree reports whether count slots starting at index are all inside the
// table and unallocated.
func (t *Table) runIsFree(index, count int) bool {
	if index < 0 || index+count > seltab.TableSize {
		return false
	}

	for i := 0; i < count; i++ {
		if t.allocated[index+i] {
			return false
		}
	}

	return true
}

// slot resolves a selector into an in-range, allocated slot index.
func (t *Table) slot(sel seltab.Selector) (int, error) {
	index := sel.Index()
	if sel == seltab.NullSelector || index >= seltab.TableSize || !t.allocated[index] {
		return 0, cerrors.Wrapf(seltab.ErrUnallocatedSelector, "selector is 0x%04x", uint16(sel))
	}

	return index, nil
}

// Allocated reports whether the selector names an allocated slot.
func (t *Table) Allocated(sel seltab.Selector) bool {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	index := sel.Index()
	return sel != seltab.NullSelector && index < seltab.TableSize && t.allocated[index]
}

// Descriptor returns a snapshot of the selector's slot.
func (t *Table) Descriptor(sel seltab.Selector) (Descriptor, error) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	index, err := t.slot(sel)
	if err != nil {
		return Descriptor{}, err
	}

	return Descriptor{
		Base:  t.bases[index],
		Limit: t.limits[index],
		Flags: t.flags[index],
	}, nil
}

// Base returns the linear address the selector's window starts at.
func (t *Table) Base(sel seltab.Selector) (uint32, error) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	index, err := t.slot(sel)
	if err != nil {
		return 0, err
	}

	return t.bases[index], nil
}

// SetBase rewrites the linear address the selector's window starts at,
// leaving limit and flags alone.
func (t *Table) SetBase(sel seltab.Selector, base uint32) error {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	index, err := t.slot(sel)
	if err != nil {
		return err
	}

	t.bases[index] = base
	return nil
}

// AdvanceBase shifts the base of the selector's window forward by delta
// bytes.
func (t *Table) AdvanceBase(sel seltab.Selector, delta uint32) error {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	index, err := t.slot(sel)
	if err != nil {
		return err
	}

	t.bases[index] += delta
	return nil
}

// Limit returns the last valid byte offset addressable through the
// selector. For the first slot of a multi-slot block this spans the whole
// block.
func (t *Table) Limit(sel seltab.Selector) (uint32, error) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	index, err := t.slot(sel)
	if err != nil {
		return 0, err
	}

	return t.limits[index], nil
}

// WindowLimit returns the hardware-visible 16-bit limit of the selector's
// own window, saturating multi-window limits to 0xFFFF.
func (t *Table) WindowLimit(sel seltab.Selector) (uint16, error) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	index, err := t.slot(sel)
	if err != nil {
		return 0, err
	}

	d := Descriptor{Limit: t.limits[index]}
	return d.WindowLimit(), nil
}

// SetLimit rewrites the selector's limit, leaving base and flags alone.
func (t *Table) SetLimit(sel seltab.Selector, limit uint32) error {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	index, err := t.slot(sel)
	if err != nil {
		return err
	}

	t.limits[index] = limit
	return nil
}

// AccessRights returns the selector's access byte.
func (t *Table) AccessRights(sel seltab.Selector) (AccessFlags, error) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	index, err := t.slot(sel)
	if err != nil {
		return 0, err
	}

	return t.flags[index], nil
}

// SetAccessRights rewrites the selector's access byte.
func (t *Table) SetAccessRights(sel seltab.Selector, flags AccessFlags) error {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	index, err := t.slot(sel)
	if err != nil {
		return err
	}

	t.flags[index] = flags
	return nil
}

// Validate performs internal consistency checks on the table. When the
// table is functioning correctly it should not be possible for this method
// to return an error, but it may assist in diagnosing issues with consumers
// that bypass the normal lifecycle.
//
// An alias taken of a multi-window block head copies the head's spanning
// limit and is indistinguishable from a head, so its claimed chain is
// checked as well; alias single-window sources if Validate matters to you.
func (t *Table) Validate() error {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	for i := 0; i < t.firstSlot; i++ {
		if t.allocated[i] {
			return cerrors.Errorf("slot %d is below the reserved boundary %d but is marked allocated", i, t.firstSlot)
		}
	}

	for i := t.firstSlot; i < seltab.TableSize; i++ {
		if !t.allocated[i] {
			if t.bases[i] != 0 || t.limits[i] != 0 || t.flags[i] != 0 {
				return cerrors.Errorf("slot %d is free but holds a non-zero descriptor", i)
			}
			continue
		}

		windows := int(t.limits[i]>>16) + 1
		if i+windows > seltab.TableSize {
			return cerrors.Errorf("slot %d heads a %d-window block that runs past the end of the table", i, windows)
		}

		for j := 1; j < windows; j++ {
			if !t.allocated[i+j] {
				return cerrors.Errorf("slot %d belongs to the block headed by slot %d but is not allocated", i+j, i)
			}
			if t.limits[i+j] != t.limits[i]-uint32(j)*seltab.WindowSize {
				return cerrors.Errorf("slot %d has limit 0x%x, but the block headed by slot %d requires 0x%x",
					i+j, t.limits[i+j], i, t.limits[i]-uint32(j)*seltab.WindowSize)
			}
			if t.bases[i+j] != t.bases[i]+uint32(j)*seltab.WindowSize {
				return cerrors.Errorf("slot %d has base 0x%x, but the block headed by slot %d requires 0x%x",
					i+j, t.bases[i+j], i, t.bases[i]+uint32(j)*seltab.WindowSize)
			}
		}

		// Skip the chained slots so single-slot checks only run on heads
		// and aliases.
		i += windows - 1
	}

	return nil
}

// AddStatistics sums this table's occupancy into the statistics currently
// present in the provided seltab.Statistics object.
func (t *Table) AddStatistics(stats *seltab.Statistics) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	stats.SlotCount += seltab.TableSize - t.firstSlot

	for i := t.firstSlot; i < seltab.TableSize; i++ {
		if !t.allocated[i] {
			continue
		}

		stats.AllocatedCount++
		stats.MappedBytes += int(Descriptor{Limit: t.limits[i]}.WindowLimit()) + 1
	}
}

// AddDetailedStatistics sums this table's occupancy and free-run shape into
// the statistics currently present in the provided
// seltab.DetailedStatistics object.
func (t *Table) AddDetailedStatistics(stats *seltab.DetailedStatistics) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	stats.SlotCount += seltab.TableSize - t.firstSlot

	runLength := 0
	for i := t.firstSlot; i < seltab.TableSize; i++ {
		if t.allocated[i] {
			if runLength > 0 {
				stats.AddFreeRun(runLength)
				runLength = 0
			}

			stats.AddAllocatedSlot(int(Descriptor{Limit: t.limits[i]}.WindowLimit()) + 1)
			continue
		}

		runLength++
	}

	if runLength > 0 {
		stats.AddFreeRun(runLength)
	}
}

// PrintDetailedMap populates a json object with the allocated contents of
// the table. Depending on occupancy this can be large and should generally
// only be done for diagnostic purposes.
func (t *Table) PrintDetailedMap(json *jwriter.ObjectState) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	var allocCount, freeRuns int
	inRun := false
	for i := t.firstSlot; i < seltab.TableSize; i++ {
		if t.allocated[i] {
			allocCount++
			inRun = false
		} else if !inRun {
			freeRuns++
			inRun = true
		}
	}

	json.Name("TotalSlots").Int(seltab.TableSize - t.firstSlot)
	json.Name("AllocatedSlots").Int(allocCount)
	json.Name("FreeRuns").Int(freeRuns)

	slots := json.Name("Slots").Array()
	defer slots.End()

	for i := t.firstSlot; i < seltab.TableSize; i++ {
		if !t.allocated[i] {
			continue
		}

		obj := slots.Object()
		obj.Name("Slot").Int(i)
		obj.Name("Selector").Int(int(seltab.MakeSelector(i)))
		obj.Name("Base").Int(int(t.bases[i]))
		obj.Name("Limit").Int(int(t.limits[i]))
		obj.Name("Flags").String(t.flags[i].String())
		obj.End()
	}
}

func (t *Table) logSelector(level slog.Level, msg string, sel seltab.Selector, attrs ...slog.Attr) {
	if t.logger == nil {
		return
	}

	attrs = append([]slog.Attr{slog.Int("selector", int(sel))}, attrs...)
	t.logger.LogAttrs(context.Background(), level, msg, attrs...)
}
