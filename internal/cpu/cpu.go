// Package cpu implements the Sharp LR35902 fetch-decode-execute loop: the
// register file, the interrupt-master-enable state machine, and the
// structural x/y/z/p/q decoder over both the primary and 0xCB-prefixed
// opcode spaces.
package cpu

import (
	"fmt"

	"gobcore/internal/memory"
	"gobcore/pkg/gblog"
	"gobcore/pkg/utils"
)

// imeState is the interrupt-master-enable state machine. EI arms the flag
// one instruction boundary later than it is requested; DI and interrupt
// service both clear it immediately.
type imeState uint8

const (
	imeDisabled imeState = iota
	imePending
	imeEnabled
)

const (
	vectorVBlank  = 0x40
	vectorLCDStat = 0x48
	vectorTimer   = 0x50
	vectorSerial  = 0x58
	vectorJoypad  = 0x60
)

// CPU is the Sharp LR35902 register file plus the decode/execute loop.
// A CPU owns no Memory of its own; every Step call is handed the Memory
// to read and write, per the single-owner concurrency model.
type CPU struct {
	Registers

	SP uint16
	PC uint16

	ime imeState

	// halted suspends fetch/decode/execute until an interrupt is
	// pending; stopped additionally requires a joypad interrupt.
	halted  bool
	stopped bool

	log gblog.Logger
}

// Option configures a CPU at construction time.
type Option func(*CPU)

// WithLogger overrides the default (discarding) logger.
func WithLogger(l gblog.Logger) Option {
	return func(c *CPU) { c.log = l }
}

// New constructs a CPU per the Game Boy power-up sequence. initialA is
// typically the cartridge header checksum for boot-ROM-less setups.
func New(initialPC uint16, initialIME bool, initialA uint8, opts ...Option) *CPU {
	c := &CPU{
		PC:  initialPC,
		SP:  0xFFFE,
		log: gblog.NewNullLogger(),
	}
	c.A = initialA
	c.link()
	if initialIME {
		c.ime = imeEnabled
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IME reports whether the interrupt-master-enable flag is currently set.
func (c *CPU) IME() bool { return c.ime == imeEnabled }

// Halted reports whether the CPU is suspended awaiting an interrupt.
func (c *CPU) Halted() bool { return c.halted }

// Stopped reports whether the CPU is in deep-standby, awaiting a
// joypad interrupt.
func (c *CPU) Stopped() bool { return c.stopped }

// RequestInterrupt forwards an interrupt request to Memory's IF latch.
// bit is one of 0 (VBlank), 1 (LCD STAT), 2 (Timer), 3 (Serial), 4
// (Joypad).
func (c *CPU) RequestInterrupt(mem *memory.Memory, bit uint8) {
	mem.RequestInterrupt(bit)
}

// IF returns the interrupt-flag latch (0xFF0F). Kept on CPU as a
// read/inspect accessor per spec.md §6; the byte itself lives in Memory,
// which stays the sole piece of mutable shared state.
func (c *CPU) IF(mem *memory.Memory) uint8 {
	return mem.Read(memory.IF)
}

// IE returns the interrupt-enable register (0xFFFF).
func (c *CPU) IE(mem *memory.Memory) uint8 {
	return mem.InterruptEnable()
}

// fetch reads the byte at PC and advances PC by one. Used for both the
// opcode byte and any operand bytes, read lazily as the decoder needs
// them rather than prefetched as a fixed-width window.
func (c *CPU) fetch(mem *memory.Memory) uint8 {
	v := mem.Read(c.PC)
	c.PC++
	return v
}

// fetch16 reads a little-endian 16-bit immediate, low byte first.
func (c *CPU) fetch16(mem *memory.Memory) uint16 {
	lo := c.fetch(mem)
	hi := c.fetch(mem)
	return utils.BytesToUint16(hi, lo)
}

// Step performs exactly one fetch-decode-execute cycle, servicing a
// pending interrupt first if IME permits. PC advances by precisely the
// executed instruction's byte length; branches set PC directly rather
// than adding a fixed width after the fact.
func (c *CPU) Step(mem *memory.Memory) error {
	if c.serviceInterrupt(mem) {
		return nil
	}

	if c.stopped {
		if mem.InterruptEnable()&readIF(mem)&0x10 != 0 {
			c.stopped = false
		}
		return nil
	}

	if c.halted {
		if mem.InterruptEnable()&readIF(mem) != 0 {
			c.halted = false
		} else {
			return nil
		}
	}

	if c.ime == imePending {
		c.ime = imeEnabled
	}

	pc := c.PC
	opcode := c.fetch(mem)

	if isIllegal(opcode) {
		return c.illegalAt(opcode, pc)
	}

	return c.execute(mem, opcode)
}

func readIF(mem *memory.Memory) uint8 {
	return mem.Read(memory.IF)
}

// illegalAt builds an IllegalInstruction at the given PC and logs it at
// Error before returning, so a host tailing logs sees the failure
// without parsing the error value.
func (c *CPU) illegalAt(op uint8, pc uint16) error {
	err := &IllegalInstruction{Opcode: op, PC: pc}
	c.log.Errorf("%v", err)
	return err
}

func isIllegal(op uint8) bool {
	switch op {
	case 0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD:
		return true
	default:
		return false
	}
}

// serviceInterrupt checks IE & IF with priority VBlank > LCD-STAT >
// Timer > Serial > Joypad, and if one is pending and IME is enabled,
// clears IME, clears the serviced IF bit, pushes PC and jumps to its
// vector. Returns true if an interrupt was serviced (a step that
// services an interrupt does not also execute an instruction).
func (c *CPU) serviceInterrupt(mem *memory.Memory) bool {
	pending := mem.InterruptEnable() & readIF(mem) & 0x1F
	if pending == 0 {
		return false
	}

	// Any pending interrupt wakes HALT/STOP regardless of IME.
	c.halted = false
	if pending&0x10 != 0 {
		c.stopped = false
	}

	if c.ime != imeEnabled {
		return false
	}

	var bit uint8
	var vector uint16
	switch {
	case pending&0x01 != 0:
		bit, vector = 0, vectorVBlank
	case pending&0x02 != 0:
		bit, vector = 1, vectorLCDStat
	case pending&0x04 != 0:
		bit, vector = 2, vectorTimer
	case pending&0x08 != 0:
		bit, vector = 3, vectorSerial
	default:
		bit, vector = 4, vectorJoypad
	}

	c.ime = imeDisabled
	mem.Write(memory.IF, mem.Read(memory.IF)&^(1<<bit))
	c.pushPC(mem)
	c.PC = vector
	return true
}

func (c *CPU) pushPC(mem *memory.Memory) {
	c.SP--
	mem.Write(c.SP, uint8(c.PC>>8))
	c.SP--
	mem.Write(c.SP, uint8(c.PC))
}

func (c *CPU) pop16(mem *memory.Memory) uint16 {
	lo := mem.Read(c.SP)
	c.SP++
	hi := mem.Read(c.SP)
	c.SP++
	return uint16(hi)<<8 | uint16(lo)
}

// String renders the register file for debugging/tracing tools.
func (c *CPU) String() string {
	return fmt.Sprintf(
		"PC=%04X SP=%04X AF=%04X BC=%04X DE=%04X HL=%04X IME=%v",
		c.PC, c.SP, c.AF.Uint16(), c.BC.Uint16(), c.DE.Uint16(), c.HL.Uint16(), c.IME(),
	)
}
