package cpu

// daa decimal-adjusts A using the N, H and C flags left by the
// preceding ADD/ADC/SUB/SBC, per the standard Z80 BCD-correction table.
// Z is updated from the adjusted result; H is always cleared; C is set
// when the adjustment itself carries.
func (c *CPU) daa() {
	adjust := uint8(0)
	carry := c.isFlagSet(FlagCarry)

	if c.isFlagSet(FlagSubtract) {
		if c.isFlagSet(FlagHalfCarry) {
			adjust += 0x06
		}
		if carry {
			adjust += 0x60
		}
		c.A -= adjust
	} else {
		if c.isFlagSet(FlagHalfCarry) || c.A&0xF > 0x9 {
			adjust += 0x06
		}
		if carry || c.A > 0x99 {
			adjust += 0x60
			carry = true
		}
		c.A += adjust
	}

	c.setFlagIf(FlagZero, c.A == 0)
	c.clearFlag(FlagHalfCarry)
	c.setFlagIf(FlagCarry, carry)
}

// cpl implements CPL: A <- ~A; N=1, H=1.
func (c *CPU) cpl() {
	c.A = ^c.A
	c.setFlag(FlagSubtract)
	c.setFlag(FlagHalfCarry)
}

// scf implements SCF: C=1, N=0, H=0.
func (c *CPU) scf() {
	c.clearFlag(FlagSubtract)
	c.clearFlag(FlagHalfCarry)
	c.setFlag(FlagCarry)
}

// ccf implements CCF: C <- ~C, N=0, H=0.
func (c *CPU) ccf() {
	c.clearFlag(FlagSubtract)
	c.clearFlag(FlagHalfCarry)
	c.setFlagIf(FlagCarry, !c.isFlagSet(FlagCarry))
}
