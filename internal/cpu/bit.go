package cpu

import "gobcore/pkg/bits"

// bitTest implements BIT y, r[z]: Z = NOT(bit y of v), N=0, H=1, C
// unchanged. RES and SET (the other two CB x rows) carry no flag
// changes and are applied directly at the call site via pkg/bits.
func (c *CPU) bitTest(y uint8, v uint8) {
	c.setFlagIf(FlagZero, !bits.Test(v, y&7))
	c.clearFlag(FlagSubtract)
	c.setFlag(FlagHalfCarry)
}
