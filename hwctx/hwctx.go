// Package hwctx isolates access to saved hardware register state behind a
// narrow capability interface. Nothing else in the module touches registers
// directly- the cross-context query layer reads segment registers to classify
// well-known selectors, and the pointer bridge reads and writes one designated
// general-purpose register pair when bridging a register-passed pointer across
// a call boundary.
package hwctx

// SegmentRegister names one of the six segment registers of a saved context.
type SegmentRegister int32

const (
	CS SegmentRegister = iota
	DS
	ES
	FS
	GS
	SS
)

var segmentRegisterMapping = map[SegmentRegister]string{
	CS: "CS",
	DS: "DS",
	ES: "ES",
	FS: "FS",
	GS: "GS",
	SS: "SS",
}

func (r SegmentRegister) String() string {
	return segmentRegisterMapping[r]
}

// Register names one of the general-purpose registers of the designated
// pointer-bridging pair. RegPrimary carries the pointer value in and the
// mapped value out; RegSecondary receives a copy of the mapped value, or
// zero when no mapping was needed.
type Register int32

const (
	RegPrimary Register = iota
	RegSecondary
)

var registerMapping = map[Register]string{
	RegPrimary:   "RegPrimary",
	RegSecondary: "RegSecondary",
}

func (r Register) String() string {
	return registerMapping[r]
}

// Registers provides read-only access to the segment register values of a
// hardware context.
type Registers interface {
	// SegmentRegister returns the live value of the requested segment register.
	SegmentRegister(which SegmentRegister) uint16
}

// Context is a saved register file that the pointer bridge may mutate. The
// bridge's entire contract with it is the designated general-purpose pair
// plus segment register access.
type Context interface {
	Registers
	// Reg returns the saved value of a general-purpose register.
	Reg(which Register) uint32
	// SetReg replaces the saved value of a general-purpose register.
	SetReg(which Register, value uint32)
	// SetSegmentRegister replaces the saved value of a segment register.
	SetSegmentRegister(which SegmentRegister, value uint16)
}

// Snapshot is a plain-struct Context implementation for hosts that already
// hold a copy of the register file.
type Snapshot struct {
	Segments [6]uint16
	GP       [2]uint32
}

var _ Context = &Snapshot{}

func (s *Snapshot) SegmentRegister(which SegmentRegister) uint16 {
	return s.Segments[which]
}

func (s *Snapshot) SetSegmentRegister(which SegmentRegister, value uint16) {
	s.Segments[which] = value
}

func (s *Snapshot) Reg(which Register) uint32 {
	return s.GP[which]
}

func (s *Snapshot) SetReg(which Register, value uint32) {
	s.GP[which] = value
}
