package cpu

import (
	"fmt"
	"testing"

	"gobcore/internal/memory"
)

// newTestMemory builds a minimal 32 KiB ROM_ONLY cartridge image with the
// given bytes placed starting at 0x0100 (the conventional first
// instruction address after the boot ROM), and backs a Memory with it.
func newTestMemory(t *testing.T, code []byte) *memory.Memory {
	t.Helper()
	rom := make([]byte, 32*1024)
	rom[0x147] = 0x00 // ROM_ONLY
	rom[0x148] = 0x00 // rom_shift_count
	rom[0x149] = 0x00 // no RAM
	copy(rom[0x100:], code)

	m, err := memory.From(rom)
	if err != nil {
		t.Fatalf("memory.From: %v", err)
	}
	return m
}

// 1. NOP loop termination.
func TestNOPLoop(t *testing.T) {
	mem := newTestMemory(t, []byte{0x00, 0x00, 0xC3, 0x00, 0x01})
	c := New(0x100, false, 0)

	for i := 0; i < 3; i++ {
		if err := c.Step(mem); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	if c.PC != 0x0100 {
		t.Fatalf("PC = 0x%04X, want 0x0100", c.PC)
	}
}

// 2. Add-immediate flag set: LD A,0x0F ; ADD A,0x01.
func TestAddImmediateFlags(t *testing.T) {
	mem := newTestMemory(t, []byte{0x3E, 0x0F, 0xC6, 0x01})
	c := New(0x100, false, 0)

	for i := 0; i < 2; i++ {
		if err := c.Step(mem); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	if c.A != 0x10 {
		t.Fatalf("A = 0x%02X, want 0x10", c.A)
	}
	if c.isFlagSet(FlagZero) || c.isFlagSet(FlagSubtract) || !c.isFlagSet(FlagHalfCarry) || c.isFlagSet(FlagCarry) {
		t.Fatalf("flags = 0x%02X, want H only", c.F)
	}
	if c.PC != 0x0104 {
		t.Fatalf("PC = 0x%04X, want 0x0104", c.PC)
	}
}

// 3. Load-immediate 16-bit: LD HL, 0x1234.
func TestLoadImmediate16(t *testing.T) {
	mem := newTestMemory(t, []byte{0x21, 0x34, 0x12})
	c := New(0x100, false, 0)

	if err := c.Step(mem); err != nil {
		t.Fatalf("step: %v", err)
	}
	if c.HL.Uint16() != 0x1234 {
		t.Fatalf("HL = 0x%04X, want 0x1234", c.HL.Uint16())
	}
	if c.PC != 0x0103 {
		t.Fatalf("PC = 0x%04X, want 0x0103", c.PC)
	}
}

// 4. Stack push/pop round-trip.
func TestPushPopRoundTrip(t *testing.T) {
	mem := newTestMemory(t, []byte{
		0x01, 0xEF, 0xBE, // LD BC, 0xBEEF
		0xC5,             // PUSH BC
		0x01, 0x00, 0x00, // LD BC, 0x0000
		0xC1, // POP BC
	})
	c := New(0x100, false, 0)
	c.SP = 0xFFFE

	for i := 0; i < 4; i++ {
		if err := c.Step(mem); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	if c.BC.Uint16() != 0xBEEF {
		t.Fatalf("BC = 0x%04X, want 0xBEEF", c.BC.Uint16())
	}
	if c.SP != 0xFFFE {
		t.Fatalf("SP = 0x%04X, want 0xFFFE", c.SP)
	}
}

// 5. Conditional jump taken: XOR A,A ; JR Z,+4.
func TestConditionalJumpTaken(t *testing.T) {
	mem := newTestMemory(t, []byte{0xAF, 0x28, 0x04})
	c := New(0x100, false, 0)

	for i := 0; i < 2; i++ {
		if err := c.Step(mem); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	// PC after XOR A,A is 0x0101; JR Z,+4 consumes its own two bytes
	// (PC=0x0103) before the +4 displacement is added.
	if c.PC != 0x0107 {
		t.Fatalf("PC = 0x%04X, want 0x0107", c.PC)
	}
}

// 6. Illegal opcode.
func TestIllegalOpcode(t *testing.T) {
	mem := newTestMemory(t, []byte{0xD3})
	c := New(0x100, false, 0)

	err := c.Step(mem)
	ill, ok := err.(*IllegalInstruction)
	if !ok {
		t.Fatalf("err = %v (%T), want *IllegalInstruction", err, err)
	}
	if ill.PC != 0x0100 {
		t.Fatalf("IllegalInstruction.PC = 0x%04X, want 0x0100", ill.PC)
	}
}

// spyLogger records every Errorf call for assertion; Infof/Debugf are
// unused by CPU today but implemented to satisfy gblog.Logger.
type spyLogger struct {
	errors []string
}

func (s *spyLogger) Infof(format string, args ...interface{})  {}
func (s *spyLogger) Debugf(format string, args ...interface{}) {}
func (s *spyLogger) Errorf(format string, args ...interface{}) {
	s.errors = append(s.errors, fmt.Sprintf(format, args...))
}

func TestIllegalOpcodeIsLogged(t *testing.T) {
	mem := newTestMemory(t, []byte{0xD3})
	spy := &spyLogger{}
	c := New(0x100, false, 0, WithLogger(spy))

	if err := c.Step(mem); err == nil {
		t.Fatalf("Step returned no error for an illegal opcode")
	}
	if len(spy.errors) != 1 {
		t.Fatalf("Errorf calls = %d, want 1 (logged: %v)", len(spy.errors), spy.errors)
	}
}

func TestADDHLOverflow(t *testing.T) {
	mem := newTestMemory(t, []byte{0x29}) // ADD HL, HL
	c := New(0x100, false, 0)
	c.HL.SetUint16(0x8000)
	c.setFlag(FlagZero)

	if err := c.Step(mem); err != nil {
		t.Fatalf("step: %v", err)
	}
	if c.HL.Uint16() != 0x0000 {
		t.Fatalf("HL = 0x%04X, want 0x0000", c.HL.Uint16())
	}
	if !c.isFlagSet(FlagCarry) || c.isFlagSet(FlagHalfCarry) {
		t.Fatalf("flags = 0x%02X, want C set, H clear", c.F)
	}
	if !c.isFlagSet(FlagZero) {
		t.Fatal("Z must be left unchanged by ADD HL,HL")
	}
}

func TestSubUnderflow(t *testing.T) {
	mem := newTestMemory(t, []byte{0x3E, 0x00, 0xD6, 0x01}) // LD A,0 ; SUB 0x01
	c := New(0x100, false, 0)

	for i := 0; i < 2; i++ {
		if err := c.Step(mem); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	if c.A != 0xFF {
		t.Fatalf("A = 0x%02X, want 0xFF", c.A)
	}
	if c.isFlagSet(FlagZero) || !c.isFlagSet(FlagSubtract) || !c.isFlagSet(FlagHalfCarry) || !c.isFlagSet(FlagCarry) {
		t.Fatalf("flags = 0x%02X, want N,H,C set, Z clear", c.F)
	}
}

func TestSwapIsInvolution(t *testing.T) {
	c := New(0x100, false, 0)
	for _, v := range []uint8{0x00, 0xFF, 0x12, 0xAB, 0x01, 0x10} {
		if got := c.swap(c.swap(v)); got != v {
			t.Errorf("swap(swap(0x%02X)) = 0x%02X", v, got)
		}
	}
}

func TestCPLIsInvolutionOnValue(t *testing.T) {
	c := New(0x100, false, 0)
	c.A = 0x5A
	c.cpl()
	c.cpl()
	if c.A != 0x5A {
		t.Fatalf("A = 0x%02X after CPL;CPL, want 0x5A", c.A)
	}
	if !c.isFlagSet(FlagSubtract) || !c.isFlagSet(FlagHalfCarry) {
		t.Fatal("CPL must set N and H")
	}
}

func TestIncDecIsIdentityOnValue(t *testing.T) {
	c := New(0x100, false, 0)
	for _, v := range []uint8{0x00, 0x0F, 0x10, 0xFF, 0x7F} {
		c.setFlag(FlagCarry)
		r := c.inc8(v)
		r = c.dec8(r)
		if r != v {
			t.Errorf("dec8(inc8(0x%02X)) = 0x%02X", v, r)
		}
		if !c.isFlagSet(FlagSubtract) {
			t.Error("dec8 must set N")
		}
		if !c.isFlagSet(FlagCarry) {
			t.Error("inc8/dec8 must leave C untouched")
		}
	}
}

func TestPushPopMasksFLowNibble(t *testing.T) {
	mem := newTestMemory(t, []byte{0xF5, 0xF1}) // PUSH AF ; POP AF
	c := New(0x100, false, 0)
	c.SP = 0xFFFE
	c.A = 0x42
	c.F = 0xFF // low nibble must never survive a round trip

	for i := 0; i < 2; i++ {
		if err := c.Step(mem); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	if c.F&0x0F != 0 {
		t.Fatalf("F low nibble = 0x%02X after PUSH/POP AF, want 0", c.F&0x0F)
	}
	if c.A != 0x42 {
		t.Fatalf("A = 0x%02X after PUSH/POP AF, want 0x42", c.A)
	}
}

func TestHaltWakesOnPendingInterrupt(t *testing.T) {
	mem := newTestMemory(t, []byte{0x76, 0x00}) // HALT ; NOP
	c := New(0x100, false, 0)

	if err := c.Step(mem); err != nil {
		t.Fatalf("step: %v", err)
	}
	if !c.Halted() {
		t.Fatal("expected CPU to be halted")
	}

	if err := c.Step(mem); err != nil {
		t.Fatalf("step: %v", err)
	}
	if !c.Halted() {
		t.Fatal("expected CPU to remain halted with no pending interrupt")
	}

	mem.Write(0xFFFF, 0x01) // IE: VBlank
	mem.RequestInterrupt(0) // IF: VBlank pending, but IME is false

	if err := c.Step(mem); err != nil {
		t.Fatalf("step: %v", err)
	}
	if c.Halted() {
		t.Fatal("expected CPU to wake on pending interrupt")
	}
	if c.PC != 0x0102 {
		t.Fatalf("PC = 0x%04X, want 0x0102 (NOP executed after wake)", c.PC)
	}
}

func TestEIDelaysOneInstruction(t *testing.T) {
	mem := newTestMemory(t, []byte{0xFB, 0x00, 0x00}) // EI ; NOP ; NOP
	c := New(0x100, false, 0)
	mem.Write(0xFFFF, 0x01)
	mem.RequestInterrupt(0)

	if err := c.Step(mem); err != nil { // EI
		t.Fatalf("step 1: %v", err)
	}
	if c.IME() {
		t.Fatal("IME must still read false immediately after EI")
	}

	if err := c.Step(mem); err != nil { // NOP after EI: must not be preempted
		t.Fatalf("step 2: %v", err)
	}
	if c.PC != 0x0102 {
		t.Fatalf("PC = 0x%04X after instruction-after-EI, want 0x0102 (no interrupt preemption)", c.PC)
	}

	if err := c.Step(mem); err != nil { // now the interrupt may be serviced
		t.Fatalf("step 3: %v", err)
	}
	if c.PC != 0x0040 {
		t.Fatalf("PC = 0x%04X, want 0x0040 (VBlank vector serviced)", c.PC)
	}
}
