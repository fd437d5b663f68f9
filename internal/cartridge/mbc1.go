package cartridge

import "gobcore/pkg/utils"

// MBC1 implements the banking state for the MBC1 family: up to 125
// switchable 16 KiB ROM banks and up to 4 8 KiB RAM banks, selected via
// writes into the ROM address space. This implementation supports simple
// mode banking through 512 KiB (banks 1-31) in full, as the minimum spec
// requires; 1 MiB+ multicart semantics are out of scope (spec Non-goals).
type MBC1 struct {
	// ramg is the RAM-gate register: RAM is accessible only when the low
	// nibble most recently written here is 0xA.
	ramg bool // 0x0000-0x1FFF

	// bank1 is the 5-bit primary ROM bank selector. Writing 0 promotes to
	// 1 - bank 0 can never be reached through this window.
	bank1 uint8 // 0x2000-0x3FFF

	// bank2 is a 2-bit register used either as the upper bits of the ROM
	// bank number or as the RAM bank number, depending on mode.
	bank2 uint8 // 0x4000-0x5FFF

	// mode selects how bank2 is interpreted: false (simple) routes bank2
	// into the high ROM bank bits only; true (advanced) routes it to the
	// RAM bank and additionally to the 0x0000-0x3FFF ROM window.
	mode bool // 0x6000-0x7FFF

	romBanks uint8 // number of switchable banks Memory allocated
}

// NewMBC1 returns a Controller for an MBC1 cartridge with romBanks
// switchable 16 KiB banks available (Memory's switchable_banks length).
func NewMBC1(romBanks uint8) *MBC1 {
	return &MBC1{bank1: 1, romBanks: romBanks}
}

func (m *MBC1) WriteControl(addr uint16, value uint8) {
	switch {
	case addr < 0x2000:
		m.ramg = value&0x0F == 0x0A
	case addr < 0x4000:
		m.bank1 = utils.ZeroAdjust8(value & 0x1F)
	case addr < 0x6000:
		m.bank2 = value & 0x03
	case addr < 0x8000:
		m.mode = value&0x01 == 0x01
	}
}

// ROMBankIndex returns the 0-based index into switchable_banks currently
// mapped at 0x4000-0x7FFF (bank1 alone covers banks 1-31; bank2 only
// contributes bits once more than 31 switchable banks are present, i.e.
// ROMs larger than the 512 KiB this controller guarantees).
func (m *MBC1) ROMBankIndex() uint8 {
	bank := m.bank1
	if m.romBanks > 31 {
		bank |= m.bank2 << 5
	}
	idx := utils.ZeroAdjust8(bank) - 1
	if m.romBanks > 0 {
		idx %= m.romBanks
	}
	return idx
}

// ZeroWindowBankIndex returns the 0-based switchable-bank index that
// advanced mode routes into the otherwise-fixed 0x0000-0x3FFF window. In
// simple mode that window always reads bank 0 (Memory's fixed rom field),
// signalled here by returning 0 with ok=false.
func (m *MBC1) ZeroWindowBankIndex() (idx uint8, ok bool) {
	if !m.mode || m.romBanks <= 31 {
		return 0, false
	}
	bank := m.bank2 << 5
	if m.romBanks > 0 {
		bank %= m.romBanks + 1
	}
	if bank == 0 {
		return 0, false
	}
	return bank - 1, true
}

func (m *MBC1) RAMBankIndex() uint8 {
	if m.mode {
		return m.bank2 & 0x03
	}
	return 0
}

func (m *MBC1) RAMEnabled() bool { return m.ramg }

var _ Controller = (*MBC1)(nil)
