package descriptor

import (
	cerrors "github.com/cockroachdb/errors"

	"github.com/krellis/seltab"
)

// Intent is the kind of access a pointer check is validating.
type Intent int32

const (
	IntentRead Intent = iota
	IntentWrite
	IntentExecute
)

var intentMapping = map[Intent]string{
	IntentRead:    "IntentRead",
	IntentWrite:   "IntentWrite",
	IntentExecute: "IntentExecute",
}

func (i Intent) String() string {
	return intentMapping[i]
}

// CheckPointer reports whether dereferencing length bytes at the segmented
// pointer with the given intent would stay inside an allocated window of the
// right type. It answers "would this be safe", nothing more- no memory is
// touched and a false result is an ordinary outcome, not a fault.
//
// Execute requires a code window, ignoring the conforming, readable and
// accessed bits. Write requires a writable data window, ignoring the
// expand-down and accessed bits. Read accepts any data window or a readable
// code window. A length of zero skips the bounds check.
func (t *Table) CheckPointer(ptr seltab.SegPtr, length uint32, intent Intent) bool {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	return t.checkPointer(ptr, length, intent)
}

func (t *Table) checkPointer(ptr seltab.SegPtr, length uint32, intent Intent) bool {
	index, err := t.slot(ptr.Selector())
	if err != nil {
		return false
	}

	flags := t.flags[index]
	switch intent {
	case IntentExecute:
		if (flags^CodeFlags)&kindMask != 0 {
			return false
		}
	case IntentWrite:
		if (flags^DataFlags)&^(FlagExpandConform|FlagAccessed) != 0 {
			return false
		}
	case IntentRead:
		if flags&FlagStandard == 0 {
			return false
		}
		// Code windows are readable only with the read bit.
		if flags&(FlagCode|FlagReadWrite) == FlagCode {
			return false
		}
	default:
		return false
	}

	if length != 0 && uint32(ptr.Offset())+length-1 > t.limits[index] {
		return false
	}

	return true
}

// CheckString reports whether a zero-terminated string at the segmented
// pointer can be read. The effective length checked against the window
// limit is the string's length plus its terminator, probed through mem, but
// never more than bound bytes.
func (t *Table) CheckString(mem seltab.Memory, ptr seltab.SegPtr, bound uint32) bool {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	if !t.checkPointer(ptr, 0, IntentRead) {
		return false
	}

	length := bound
	if n, ok := t.probeString(mem, ptr, bound); ok {
		length = n + 1
	}

	if length != 0 && uint32(ptr.Offset())+length-1 > t.limits[ptr.Selector().Index()] {
		return false
	}

	return true
}

// probeString scans for a terminating zero byte, returning the string length
// when one was found within bound bytes.
func (t *Table) probeString(mem seltab.Memory, ptr seltab.SegPtr, bound uint32) (uint32, bool) {
	if mem == nil || bound == 0 {
		return 0, false
	}

	addr := t.bases[ptr.Selector().Index()] + uint32(ptr.Offset())
	buf := make([]byte, 256)

	var scanned uint32
	for scanned < bound {
		chunk := uint32(len(buf))
		if bound-scanned < chunk {
			chunk = bound - scanned
		}

		n, err := mem.ReadAt(buf[:chunk], addr+scanned)
		for i := 0; i < n; i++ {
			if buf[i] == 0 {
				return scanned + uint32(i), true
			}
		}
		if err != nil || uint32(n) < chunk {
			return 0, false
		}

		scanned += chunk
	}

	return 0, false
}

// ReadWindow copies bytes out of the selector's window through mem, starting
// at offset. The copy is clamped to the window limit; the clamped byte count
// is returned. An offset past the limit reads nothing.
func (t *Table) ReadWindow(mem seltab.Memory, sel seltab.Selector, offset uint32, p []byte) (int, error) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	addr, count, err := t.clampWindow(sel, offset, len(p))
	if err != nil || count == 0 {
		return 0, err
	}

	n, err := mem.ReadAt(p[:count], addr)
	if err != nil {
		return n, cerrors.Wrapf(err, "reading %d bytes through selector 0x%04x", count, uint16(sel))
	}
	return n, nil
}

// WriteWindow copies bytes into the selector's window through mem, starting
// at offset. The copy is clamped to the window limit; the clamped byte count
// is returned. An offset past the limit writes nothing.
func (t *Table) WriteWindow(mem seltab.Memory, sel seltab.Selector, offset uint32, p []byte) (int, error) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	addr, count, err := t.clampWindow(sel, offset, len(p))
	if err != nil || count == 0 {
		return 0, err
	}

	n, err := mem.WriteAt(p[:count], addr)
	if err != nil {
		return n, cerrors.Wrapf(err, "writing %d bytes through selector 0x%04x", count, uint16(sel))
	}
	return n, nil
}

func (t *Table) clampWindow(sel seltab.Selector, offset uint32, want int) (uint32, int, error) {
	index, err := t.slot(sel)
	if err != nil {
		return 0, 0, err
	}

	limit := t.limits[index]
	if offset > limit {
		return 0, 0, nil
	}

	count := uint64(want)
	if uint64(offset)+count > uint64(limit)+1 {
		count = uint64(limit) + 1 - uint64(offset)
	}

	return t.bases[index] + offset, int(count), nil
}
