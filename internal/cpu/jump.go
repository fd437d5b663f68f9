package cpu

import "gobcore/internal/memory"

// jumpRelative implements JR d: d is signed, added to PC after the
// instruction's two bytes are consumed.
func (c *CPU) jumpRelative(mem *memory.Memory) {
	d := int8(c.fetch(mem))
	c.PC = uint16(int32(c.PC) + int32(d))
}

// jumpRelativeConditional implements JR cc[y], d, falling through
// without taking the displacement when the condition fails.
func (c *CPU) jumpRelativeConditional(mem *memory.Memory, y uint8) {
	d := int8(c.fetch(mem))
	if c.condition(y) {
		c.PC = uint16(int32(c.PC) + int32(d))
	}
}
