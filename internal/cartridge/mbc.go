// Package cartridge parses the Game Boy cartridge header and provides the
// Memory Bank Controller implementations that track banking state and
// report which ROM/RAM bank Memory routes a CPU-visible address to.
package cartridge

import "fmt"

// Type identifies the Memory Bank Controller (or lack thereof) a cartridge
// was built against. The byte values match the tag at header offset 0x0147.
type Type uint8

const (
	ROM               Type = 0x00
	MBC1              Type = 0x01
	MBC1RAM           Type = 0x02
	MBC1RAMBATTERY    Type = 0x03
	MBC2              Type = 0x05
	MBC2BATTERY       Type = 0x06
	ROMRAM            Type = 0x08
	ROMRAMBATTERY     Type = 0x09
	MMM01             Type = 0x0B
	MMM01RAM          Type = 0x0C
	MMM01RAMBATTERY   Type = 0x0D
	MBC3TIMERBATTERY  Type = 0x0F
	MBC3TIMERRAMBATT  Type = 0x10
	MBC3              Type = 0x11
	MBC3RAM           Type = 0x12
	MBC3RAMBATTERY    Type = 0x13
	MBC5              Type = 0x19
	MBC5RAM           Type = 0x1A
	MBC5RAMBATTERY    Type = 0x1B
	MBC5RUMBLE        Type = 0x1C
	MBC5RUMBLERAM     Type = 0x1D
	MBC5RUMBLERAMBATT Type = 0x1E
	MBC6              Type = 0x20
	MBC7              Type = 0x22
	POCKETCAMERA      Type = 0xFC
	BANDAITAMA5       Type = 0xFD
	HuC3              Type = 0xFE
	HuC1RAMBATTERY    Type = 0xFF
)

// typeFromByte classifies the header's cartridge-type byte. An unrecognised
// tag is not an error - it defaults to ROM, per spec.
func typeFromByte(b uint8) Type {
	switch Type(b) {
	case ROM, MBC1, MBC1RAM, MBC1RAMBATTERY, MBC2, MBC2BATTERY, ROMRAM,
		ROMRAMBATTERY, MMM01, MMM01RAM, MMM01RAMBATTERY, MBC3TIMERBATTERY,
		MBC3TIMERRAMBATT, MBC3, MBC3RAM, MBC3RAMBATTERY, MBC5, MBC5RAM,
		MBC5RAMBATTERY, MBC5RUMBLE, MBC5RUMBLERAM, MBC5RUMBLERAMBATT, MBC6,
		MBC7, POCKETCAMERA, BANDAITAMA5, HuC3, HuC1RAMBATTERY:
		return Type(b)
	default:
		return ROM
	}
}

// String returns the conventional short name of the cartridge type.
func (t Type) String() string {
	switch t {
	case ROM:
		return "ROM_ONLY"
	case MBC1:
		return "MBC1"
	case MBC1RAM:
		return "MBC1_RAM"
	case MBC1RAMBATTERY:
		return "MBC1_RAM_BATTERY"
	case MBC2:
		return "MBC2"
	case MBC2BATTERY:
		return "MBC2_BATTERY"
	case ROMRAM:
		return "ROM_RAM"
	case ROMRAMBATTERY:
		return "ROM_RAM_BATTERY"
	case MMM01:
		return "MMM01"
	case MMM01RAM:
		return "MMM01_RAM"
	case MMM01RAMBATTERY:
		return "MMM01_RAM_BATTERY"
	case MBC3TIMERBATTERY:
		return "MBC3_TIMER_BATTERY"
	case MBC3TIMERRAMBATT:
		return "MBC3_TIMER_RAM_BATTERY"
	case MBC3:
		return "MBC3"
	case MBC3RAM:
		return "MBC3_RAM"
	case MBC3RAMBATTERY:
		return "MBC3_RAM_BATTERY"
	case MBC5:
		return "MBC5"
	case MBC5RAM:
		return "MBC5_RAM"
	case MBC5RAMBATTERY:
		return "MBC5_RAM_BATTERY"
	case MBC5RUMBLE:
		return "MBC5_RUMBLE"
	case MBC5RUMBLERAM:
		return "MBC5_RUMBLE_RAM"
	case MBC5RUMBLERAMBATT:
		return "MBC5_RUMBLE_RAM_BATTERY"
	case MBC6:
		return "MBC6"
	case MBC7:
		return "MBC7"
	case POCKETCAMERA:
		return "POCKET_CAMERA"
	case BANDAITAMA5:
		return "BANDAI_TAMA5"
	case HuC3:
		return "HuC3"
	case HuC1RAMBATTERY:
		return "HuC1_RAM_BATTERY"
	default:
		return fmt.Sprintf("UNKNOWN(0x%02X)", uint8(t))
	}
}

// HasRAM reports whether the cartridge type carries external cartridge RAM.
func (t Type) HasRAM() bool {
	switch t {
	case MBC1RAM, MBC1RAMBATTERY, ROMRAM, ROMRAMBATTERY, MMM01RAM,
		MMM01RAMBATTERY, MBC3TIMERRAMBATT, MBC3RAM, MBC3RAMBATTERY, MBC5RAM,
		MBC5RAMBATTERY, MBC5RUMBLERAM, MBC5RUMBLERAMBATT, HuC1RAMBATTERY:
		return true
	default:
		return false
	}
}

// IsMBC1 reports whether the cartridge type is handled by the MBC1
// controller implemented in this package.
func (t Type) IsMBC1() bool {
	switch t {
	case MBC1, MBC1RAM, MBC1RAMBATTERY:
		return true
	default:
		return false
	}
}

// IsROMOnly reports whether the cartridge type is the fixed, non-banked
// ROM_ONLY / ROM_RAM family - no MBC write-triggers apply.
func (t Type) IsROMOnly() bool {
	switch t {
	case ROM, ROMRAM, ROMRAMBATTERY:
		return true
	default:
		return false
	}
}

// Supported reports whether this package implements banking for the given
// cartridge type. ROM_ONLY/ROM_RAM* and the MBC1 family are supported;
// everything else is identified but declined at load time, per spec.
func (t Type) Supported() bool {
	return t.IsROMOnly() || t.IsMBC1()
}

// Controller is the common interface every Memory Bank Controller variant
// implements. Unlike a full bus controller, Controller does not own the
// ROM/RAM backing bytes - per Design Notes, Memory keeps those - it only
// tracks the banking state that writes into the 0x0000-0x7FFF "control"
// window mutate, and answers which bank Memory should route to.
type Controller interface {
	// WriteControl interprets a write into the ROM address space
	// (0x0000-0x7FFF) as an MBC command rather than cartridge data.
	WriteControl(addr uint16, value uint8)
	// ROMBankIndex returns the index into Memory's switchable_banks list
	// that reads of 0x4000-0x7FFF currently go through (writes there go
	// to WriteControl).
	ROMBankIndex() uint8
	// RAMBankIndex returns the active external-RAM bank index.
	RAMBankIndex() uint8
	// RAMEnabled reports whether external RAM is currently readable/writable.
	RAMEnabled() bool
}
