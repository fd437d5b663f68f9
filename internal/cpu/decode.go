package cpu

import (
	"gobcore/internal/memory"
	"gobcore/pkg/bits"
	"gobcore/pkg/utils"
)

// readR8 returns the value named by the r[z] table: B,C,D,E,H,L,(HL),A.
func (c *CPU) readR8(mem *memory.Memory, idx uint8) uint8 {
	switch idx & 7 {
	case 0:
		return c.B
	case 1:
		return c.C
	case 2:
		return c.D
	case 3:
		return c.E
	case 4:
		return c.H
	case 5:
		return c.L
	case 6:
		return mem.Read(c.HL.Uint16())
	default:
		return c.A
	}
}

// writeR8 stores v into the register or memory cell named by r[z].
func (c *CPU) writeR8(mem *memory.Memory, idx uint8, v uint8) {
	switch idx & 7 {
	case 0:
		c.B = v
	case 1:
		c.C = v
	case 2:
		c.D = v
	case 3:
		c.E = v
	case 4:
		c.H = v
	case 5:
		c.L = v
	case 6:
		mem.Write(c.HL.Uint16(), v)
	default:
		c.A = v
	}
}

// readRP returns the rp[p] table: BC, DE, HL, SP.
func (c *CPU) readRP(p uint8) uint16 {
	switch p & 3 {
	case 0:
		return c.BC.Uint16()
	case 1:
		return c.DE.Uint16()
	case 2:
		return c.HL.Uint16()
	default:
		return c.SP
	}
}

func (c *CPU) writeRP(p uint8, v uint16) {
	switch p & 3 {
	case 0:
		c.BC.SetUint16(v)
	case 1:
		c.DE.SetUint16(v)
	case 2:
		c.HL.SetUint16(v)
	default:
		c.SP = v
	}
}

// readRP2 returns the rp2[p] table: BC, DE, HL, AF.
func (c *CPU) readRP2(p uint8) uint16 {
	if p&3 == 3 {
		return c.AF.Uint16()
	}
	return c.readRP(p)
}

// writeRP2 stores v into rp2[p]. Writing AF masks the low nibble of F,
// which always reads zero.
func (c *CPU) writeRP2(p uint8, v uint16) {
	if p&3 == 3 {
		c.AF.SetUint16(v & 0xFFF0)
		return
	}
	c.writeRP(p, v)
}

// condition evaluates cc[y]: NZ, Z, NC, C.
func (c *CPU) condition(y uint8) bool {
	switch y & 3 {
	case 0:
		return !c.isFlagSet(FlagZero)
	case 1:
		return c.isFlagSet(FlagZero)
	case 2:
		return !c.isFlagSet(FlagCarry)
	default:
		return c.isFlagSet(FlagCarry)
	}
}

// execute decodes and runs one primary opcode already consumed from PC,
// extracting the x/y/z/p/q bit fields per the Gameboy Z80 decoding
// scheme and dispatching per spec.md's table.
func (c *CPU) execute(mem *memory.Memory, op uint8) error {
	x := op >> 6
	y := (op >> 3) & 7
	z := op & 7
	p := y >> 1
	q := y & 1

	switch x {
	case 0:
		return c.executeX0(mem, op, y, z, p, q)
	case 1:
		if y == 6 && z == 6 {
			c.halted = true
			return nil
		}
		c.writeR8(mem, y, c.readR8(mem, z))
		return nil
	case 2:
		c.execALU(y, c.readR8(mem, z))
		return nil
	default:
		return c.executeX3(mem, op, y, z, p, q)
	}
}

func (c *CPU) executeX0(mem *memory.Memory, op, y, z, p, q uint8) error {
	switch z {
	case 0:
		switch {
		case y == 0: // NOP
		case y == 1: // LD (nn), SP
			addr := c.fetch16(mem)
			hi, lo := utils.Uint16ToBytes(c.SP)
			mem.Write(addr, lo)
			mem.Write(addr+1, hi)
		case y == 2: // STOP
			c.fetch(mem)
			c.stopped = true
		case y == 3: // JR d
			c.jumpRelative(mem)
		default: // JR cc[y-4], d
			c.jumpRelativeConditional(mem, y-4)
		}
	case 1:
		if q == 0 { // LD rp[p], nn
			c.writeRP(p, c.fetch16(mem))
		} else { // ADD HL, rp[p]
			c.addHL(c.readRP(p))
		}
	case 2:
		c.execIndirectLoad(mem, p, q)
	case 3:
		if q == 0 {
			c.writeRP(p, c.readRP(p)+1)
		} else {
			c.writeRP(p, c.readRP(p)-1)
		}
	case 4:
		c.writeR8(mem, y, c.inc8(c.readR8(mem, y)))
	case 5:
		c.writeR8(mem, y, c.dec8(c.readR8(mem, y)))
	case 6:
		c.writeR8(mem, y, c.fetch(mem))
	case 7:
		c.execAccumulatorOp(y)
	}
	return nil
}

// execIndirectLoad handles z=2: LD (BC|DE|HL+|HL-),A and its A,(...) mirror.
func (c *CPU) execIndirectLoad(mem *memory.Memory, p, q uint8) {
	var addr uint16
	switch p {
	case 0:
		addr = c.BC.Uint16()
	case 1:
		addr = c.DE.Uint16()
	default:
		addr = c.HL.Uint16()
	}

	if q == 0 {
		mem.Write(addr, c.A)
	} else {
		c.A = mem.Read(addr)
	}

	if p == 2 {
		c.HL.SetUint16(addr + 1)
	} else if p == 3 {
		c.HL.SetUint16(addr - 1)
	}
}

func (c *CPU) executeX3(mem *memory.Memory, op, y, z, p, q uint8) error {
	switch z {
	case 0:
		switch {
		case y <= 3: // RET cc[y]
			if c.condition(y) {
				c.PC = c.pop16(mem)
			}
		case y == 4: // LD (0xFF00+n), A
			mem.Write(0xFF00+uint16(c.fetch(mem)), c.A)
		case y == 5: // ADD SP, d
			c.SP = c.addSPSigned(mem)
		case y == 6: // LD A, (0xFF00+n)
			c.A = mem.Read(0xFF00 + uint16(c.fetch(mem)))
		default: // LD HL, SP+d
			c.HL.SetUint16(c.addSPSigned(mem))
		}
	case 1:
		if q == 0 { // POP rp2[p]
			c.writeRP2(p, c.pop16(mem))
		} else {
			switch p {
			case 0: // RET
				c.PC = c.pop16(mem)
			case 1: // RETI
				c.PC = c.pop16(mem)
				c.ime = imeEnabled
			case 2: // JP HL
				c.PC = c.HL.Uint16()
			default: // LD SP, HL
				c.SP = c.HL.Uint16()
			}
		}
	case 2:
		switch {
		case y <= 3: // JP cc[y], nn
			addr := c.fetch16(mem)
			if c.condition(y) {
				c.PC = addr
			}
		case y == 4: // LD (0xFF00+C), A
			mem.Write(0xFF00+uint16(c.C), c.A)
		case y == 5: // LD (nn), A
			mem.Write(c.fetch16(mem), c.A)
		case y == 6: // LD A, (0xFF00+C)
			c.A = mem.Read(0xFF00 + uint16(c.C))
		default: // LD A, (nn)
			c.A = mem.Read(c.fetch16(mem))
		}
	case 3:
		switch y {
		case 0: // JP nn
			c.PC = c.fetch16(mem)
		case 1: // CB prefix
			return c.executeCB(mem)
		case 6: // DI
			c.ime = imeDisabled
		case 7: // EI
			if c.ime != imeEnabled {
				c.ime = imePending
			}
		default:
			return c.illegalAt(op, c.PC-1)
		}
	case 4:
		if y <= 3 { // CALL cc[y], nn
			addr := c.fetch16(mem)
			if c.condition(y) {
				c.pushPC(mem)
				c.PC = addr
			}
		} else {
			return c.illegalAt(op, c.PC-1)
		}
	case 5:
		if q == 0 { // PUSH rp2[p]
			c.SP -= 2
			v := c.readRP2(p)
			mem.Write(c.SP, uint8(v))
			mem.Write(c.SP+1, uint8(v>>8))
		} else if p == 0 { // CALL nn
			addr := c.fetch16(mem)
			c.pushPC(mem)
			c.PC = addr
		} else {
			return c.illegalAt(op, c.PC-1)
		}
	case 6:
		c.execALU(y, c.fetch(mem))
	case 7:
		c.pushPC(mem)
		c.PC = uint16(y) * 8
	}
	return nil
}

// executeCB decodes and runs one 0xCB-prefixed opcode.
func (c *CPU) executeCB(mem *memory.Memory) error {
	op := c.fetch(mem)
	x := op >> 6
	y := (op >> 3) & 7
	z := op & 7

	v := c.readR8(mem, z)
	switch x {
	case 0:
		c.writeR8(mem, z, c.rotateShift(y, v))
	case 1:
		c.bitTest(y, v)
	case 2:
		c.writeR8(mem, z, bits.Reset(v, y))
	default:
		c.writeR8(mem, z, bits.Set(v, y))
	}
	return nil
}
