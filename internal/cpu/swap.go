package cpu

// swap exchanges the nibbles of v. Z from result, N=H=C=0.
func (c *CPU) swap(v uint8) uint8 {
	result := v<<4 | v>>4
	c.setFlags(result == 0, false, false, false)
	return result
}
