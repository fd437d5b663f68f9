package cpu

import "gobcore/internal/memory"

// addHL implements ADD HL, rp[p]: N=0, H from carry out of bit 11, C
// from carry out of bit 15. Z is left unchanged.
func (c *CPU) addHL(v uint16) {
	hl := c.HL.Uint16()
	sum := uint32(hl) + uint32(v)
	c.clearFlag(FlagSubtract)
	c.setFlagIf(FlagHalfCarry, (hl&0xFFF)+(v&0xFFF) > 0xFFF)
	c.setFlagIf(FlagCarry, sum > 0xFFFF)
	c.HL.SetUint16(uint16(sum))
}

// addSPSigned implements the shared arithmetic behind ADD SP,d and
// LD HL,SP+d: d is a signed 8-bit displacement; H and C are computed on
// the unsigned 8-bit addition of SP's low byte with d's unsigned byte
// representation, per spec.md §4.2.3. Z and N are always cleared.
func (c *CPU) addSPSigned(mem *memory.Memory) uint16 {
	d := int8(c.fetch(mem))
	spLow := uint8(c.SP)
	unsigned := uint8(d)

	c.clearFlag(FlagZero)
	c.clearFlag(FlagSubtract)
	c.setFlagIf(FlagHalfCarry, (spLow&0xF)+(unsigned&0xF) > 0xF)
	c.setFlagIf(FlagCarry, uint16(spLow)+uint16(unsigned) > 0xFF)

	return uint16(int32(c.SP) + int32(d))
}
