package descriptor

import "strings"

// AccessFlags is the access byte of a descriptor slot, using the standard
// x86 type-byte bit layout so that intent checks can mask bits exactly the
// way the hardware defines them.
type AccessFlags uint8

const (
	// FlagAccessed is set by the hardware when the descriptor is loaded.
	// Validation ignores it.
	FlagAccessed AccessFlags = 1 << 0
	// FlagReadWrite marks a data window writable or a code window readable.
	FlagReadWrite AccessFlags = 1 << 1
	// FlagExpandConform marks a data window expand-down or a code window
	// conforming. Validation ignores it.
	FlagExpandConform AccessFlags = 1 << 2
	// FlagCode distinguishes code windows from data windows. Flipping it is
	// what aliasing does.
	FlagCode AccessFlags = 1 << 3
	// FlagStandard marks the slot as an ordinary code/data descriptor rather
	// than a system descriptor.
	FlagStandard AccessFlags = 1 << 4

	// DataFlags describes a writable, accessed data window.
	DataFlags = FlagStandard | FlagReadWrite | FlagAccessed
	// StackFlags describes an expand-down data window.
	StackFlags = DataFlags | FlagExpandConform
	// CodeFlags describes a readable, accessed code window.
	CodeFlags = FlagStandard | FlagCode | FlagReadWrite | FlagAccessed

	// kindMask covers the bits that distinguish code from data on an
	// ordinary descriptor.
	kindMask = FlagCode | FlagStandard
)

// Kind is the code-or-data classification of a descriptor slot.
type Kind int32

const (
	KindData Kind = iota
	KindCode
)

var kindMapping = map[Kind]string{
	KindData: "KindData",
	KindCode: "KindCode",
}

func (k Kind) String() string {
	return kindMapping[k]
}

// Kind reports whether the flags describe a code or a data window.
func (f AccessFlags) Kind() Kind {
	if f&FlagCode != 0 {
		return KindCode
	}
	return KindData
}

// FlipKind toggles the code/data classification, preserving every other bit.
func (f AccessFlags) FlipKind() AccessFlags {
	return f ^ (CodeFlags ^ DataFlags)
}

var accessFlagNames = []struct {
	flag AccessFlags
	name string
}{
	{FlagStandard, "Standard"},
	{FlagCode, "Code"},
	{FlagExpandConform, "ExpandConform"},
	{FlagReadWrite, "ReadWrite"},
	{FlagAccessed, "Accessed"},
}

func (f AccessFlags) String() string {
	if f == 0 {
		return "0"
	}

	var sb strings.Builder
	for _, entry := range accessFlagNames {
		if f&entry.flag == 0 {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteRune('|')
		}
		sb.WriteString(entry.name)
	}
	return sb.String()
}
