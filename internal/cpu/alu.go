package cpu

// execALU dispatches the eight accumulator operations selected by y in
// both the register/memory form (x=2) and the immediate form (x=3, z=6):
// ADD, ADC, SUB, SBC, AND, XOR, OR, CP.
func (c *CPU) execALU(y uint8, v uint8) {
	switch y & 7 {
	case 0:
		c.A = c.add(v, 0)
	case 1:
		c.A = c.add(v, c.carryIn())
	case 2:
		c.A = c.sub(v, 0)
	case 3:
		c.A = c.sub(v, c.carryIn())
	case 4:
		c.A &= v
		c.setFlags(c.A == 0, false, true, false)
	case 5:
		c.A ^= v
		c.setFlags(c.A == 0, false, false, false)
	case 6:
		c.A |= v
		c.setFlags(c.A == 0, false, false, false)
	default: // CP
		c.sub(v, 0)
	}
}

func (c *CPU) carryIn() uint8 {
	if c.isFlagSet(FlagCarry) {
		return 1
	}
	return 0
}

// add computes A + v + carryIn, deriving half-carry and carry from the
// wide arithmetic on the operands and carry-in rather than from a
// result-vs-input comparison, which misses full-byte wraparound cases.
func (c *CPU) add(v, carry uint8) uint8 {
	a := c.A
	sum := uint16(a) + uint16(v) + uint16(carry)
	half := (a&0xF)+(v&0xF)+carry > 0xF
	result := uint8(sum)
	c.setFlags(result == 0, false, half, sum > 0xFF)
	return result
}

// sub computes A - v - carryIn, used by SUB, SBC and CP (which discards
// the result but applies the same flags).
func (c *CPU) sub(v, carry uint8) uint8 {
	a := c.A
	diff := int16(a) - int16(v) - int16(carry)
	half := int16(a&0xF)-int16(v&0xF)-int16(carry) < 0
	result := uint8(diff)
	c.setFlags(result == 0, true, half, diff < 0)
	return result
}

// inc8 increments an 8-bit value. Half-carry is set iff the low nibble
// was 0xF before the increment; the carry flag is left untouched.
func (c *CPU) inc8(v uint8) uint8 {
	result := v + 1
	c.setFlagIf(FlagZero, result == 0)
	c.clearFlag(FlagSubtract)
	c.setFlagIf(FlagHalfCarry, v&0xF == 0xF)
	return result
}

// dec8 decrements an 8-bit value. Half-carry is set iff the low nibble
// was 0x0 before the decrement; the carry flag is left untouched.
func (c *CPU) dec8(v uint8) uint8 {
	result := v - 1
	c.setFlagIf(FlagZero, result == 0)
	c.setFlag(FlagSubtract)
	c.setFlagIf(FlagHalfCarry, v&0xF == 0x0)
	return result
}
