package cpu

// Register is a single 8-bit Game Boy register.
type Register = uint8

// RegisterPair addresses two 8-bit registers as a single 16-bit value,
// High forming the upper byte and Low the lower byte - e.g. B:C for BC.
type RegisterPair struct {
	High *Register
	Low  *Register
}

// Uint16 returns the pair's combined 16-bit value.
func (r *RegisterPair) Uint16() uint16 {
	return uint16(*r.High)<<8 | uint16(*r.Low)
}

// SetUint16 writes value across the pair, high byte into High, low byte
// into Low. Unlike some historical half-word setters, this always
// overwrites both halves completely rather than ANDing one in and ORing
// the other.
func (r *RegisterPair) SetUint16(value uint16) {
	*r.High = uint8(value >> 8)
	*r.Low = uint8(value)
}

// Registers holds the Game Boy's AF, BC, DE and HL registers as eight
// named 8-bit halves plus the four register-pair views used by the
// decoder's rp/rp2 tables; SP and PC are fields of CPU itself. F (AF's low byte) holds the flag bits; its low nibble
// is always zero, enforced by the flag setters in flag.go.
type Registers struct {
	A, F Register
	B, C Register
	D, E Register
	H, L Register

	BC *RegisterPair
	DE *RegisterPair
	HL *RegisterPair
	AF *RegisterPair
}

// link wires the register-pair views to this Registers' own fields. Must
// be called once after a Registers value is placed at its final address
// (see New) - the pair pointers would otherwise dangle after a copy.
func (r *Registers) link() {
	r.BC = &RegisterPair{&r.B, &r.C}
	r.DE = &RegisterPair{&r.D, &r.E}
	r.HL = &RegisterPair{&r.H, &r.L}
	r.AF = &RegisterPair{&r.A, &r.F}
}
