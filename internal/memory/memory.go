// Package memory implements the Game Boy's 16-bit address space: the
// routing function from any address to the byte it names, across ROM
// bank 0, the currently switched ROM bank, external cartridge RAM, VRAM,
// the two WRAM banks and their echo-RAM mirror, OAM, I/O registers,
// HRAM and the interrupt-enable register.
package memory

import (
	"gobcore/internal/cartridge"
	"gobcore/pkg/gblog"
)

const (
	bankSize = 0x4000

	romBank0End     = 0x3FFF
	romSwitchEnd    = 0x7FFF
	vramStart       = 0x8000
	vramEnd         = 0x9FFF
	extRAMStart     = 0xA000
	extRAMEnd       = 0xBFFF
	wram1Start      = 0xC000
	wram1End        = 0xCFFF
	wram2Start      = 0xD000
	wram2End        = 0xDFFF
	echoStart       = 0xE000
	echoEnd         = 0xFDFF
	oamStart        = 0xFE00
	oamEnd          = 0xFE9F
	prohibitedStart = 0xFEA0
	prohibitedEnd   = 0xFEFF
	ioStart         = 0xFF00
	ioEnd           = 0xFF7F
	hramStart       = 0xFF80
	hramEnd         = 0xFFFE
	ieAddress       = 0xFFFF

	// IF is the interrupt-flag latch, one cell inside io_registers.
	IF uint16 = 0xFF0F
)

// Memory owns every byte-addressable region of the Game Boy and the
// address-routing function mapping a 16-bit address to the region that
// backs it. It is the sole piece of mutable state the CPU shares with
// external devices (PPU, APU, joypad, timer, serial) per the concurrency
// model: exactly one actor touches it at a time, between CPU.Step calls.
type Memory struct {
	rom             [bankSize]byte
	switchableBanks [][bankSize]byte
	ram             []byte

	vram        [vramEnd - vramStart + 1]byte
	wram1       [wram1End - wram1Start + 1]byte
	wram2       [wram2End - wram2Start + 1]byte
	oam         [oamEnd - oamStart + 1]byte
	ioRegisters [ioEnd - ioStart + 1]byte
	hram        [hramEnd - hramStart + 1]byte
	ie          uint8

	header     cartridge.Header
	controller cartridge.Controller

	log gblog.Logger
}

// zeroWindowBanker is implemented by controllers (MBC1 in advanced mode)
// that can redirect the otherwise-fixed 0x0000-0x3FFF window too.
type zeroWindowBanker interface {
	ZeroWindowBankIndex() (idx uint8, ok bool)
}

// Option configures a Memory at construction time.
type Option func(*Memory)

// WithLogger overrides the default (discarding) logger.
func WithLogger(l gblog.Logger) Option {
	return func(m *Memory) { m.log = l }
}

// From parses the cartridge header out of rom, validates it against the
// invariants in spec.md §3.2, and allocates every region. The cartridge
// is never partially loaded: on any validation failure nothing further is
// allocated and an error is returned.
func From(rom []byte, opts ...Option) (*Memory, error) {
	padded := rom
	if len(padded) < cartridge.HeaderSize+0x100 {
		padded = make([]byte, cartridge.HeaderSize+0x100)
		copy(padded, rom)
	}

	header := cartridge.Parse(padded[0x100:0x150])

	if header.CartridgeType.IsROMOnly() && header.ROMShiftCount != 0 {
		return nil, &CartTypeMismatchError{
			CartridgeType: header.CartridgeType,
			Reason:        "non-zero ROM shift count on a fixed-size cartridge type",
		}
	}
	if !header.CartridgeType.HasRAM() && header.RAMSizeKiB != 0 {
		return nil, &CartTypeMismatchError{
			CartridgeType: header.CartridgeType,
			Reason:        "header declares RAM for a RAM-less cartridge type",
		}
	}
	if !header.CartridgeType.Supported() {
		return nil, &UnsupportedCartTypeError{CartridgeType: header.CartridgeType}
	}

	totalBanks := header.ROMSizeBytes() / bankSize
	if totalBanks < 2 {
		totalBanks = 2
	}
	switchableCount := totalBanks - 1

	m := &Memory{
		switchableBanks: make([][bankSize]byte, switchableCount),
		ram:             make([]byte, header.RAMSizeKiB*1024),
		header:          header,
		log:             gblog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(m)
	}

	distribute(m, rom)

	if header.CartridgeType.IsROMOnly() {
		m.controller = cartridge.NewNoMBC(header.RAMSizeKiB > 0)
	} else {
		m.controller = cartridge.NewMBC1(uint8(switchableCount))
	}

	m.log.Infof("loaded cartridge: %s", header.String())

	return m, nil
}

// distribute copies the cartridge image into bank 0 and the switchable
// banks in order. Missing trailing bytes leave the remaining banks zero;
// bytes beyond the allocated banks are discarded - neither is an error.
func distribute(m *Memory, rom []byte) {
	copy(m.rom[:], rom)
	if len(rom) <= bankSize {
		return
	}
	rest := rom[bankSize:]
	for i := range m.switchableBanks {
		start := i * bankSize
		if start >= len(rest) {
			break
		}
		end := start + bankSize
		if end > len(rest) {
			end = len(rest)
		}
		copy(m.switchableBanks[i][:], rest[start:end])
	}
}

// Header returns the parsed cartridge header this Memory was built from.
func (m *Memory) Header() cartridge.Header { return m.header }

// Read returns the byte at the given 16-bit address, routed per the
// table in spec.md §4.3.
func (m *Memory) Read(addr uint16) uint8 {
	switch {
	case addr <= romBank0End:
		if zb, ok := m.controller.(zeroWindowBanker); ok {
			if idx, redirected := zb.ZeroWindowBankIndex(); redirected && int(idx) < len(m.switchableBanks) {
				return m.switchableBanks[idx][addr]
			}
		}
		return m.rom[addr]
	case addr <= romSwitchEnd:
		idx := m.controller.ROMBankIndex()
		if int(idx) < len(m.switchableBanks) {
			return m.switchableBanks[idx][addr-bankSize]
		}
		return 0xFF
	case addr <= vramEnd:
		return m.vram[addr-vramStart]
	case addr <= extRAMEnd:
		return m.readExternalRAM(addr)
	case addr <= wram1End:
		return m.wram1[addr-wram1Start]
	case addr <= wram2End:
		return m.wram2[addr-wram2Start]
	case addr <= echoEnd:
		return m.Read(addr - 0x2000)
	case addr <= oamEnd:
		return m.oam[addr-oamStart]
	case addr <= prohibitedEnd:
		m.log.Debugf("read from prohibited region 0x%04X", addr)
		return 0xFF
	case addr <= ioEnd:
		return m.ioRegisters[addr-ioStart]
	case addr <= hramEnd:
		return m.hram[addr-hramStart]
	default: // 0xFFFF
		return m.ie
	}
}

// Write stores v at the given 16-bit address, following the same routing
// table Read uses. Writes into the ROM address space are interpreted as
// MBC control commands rather than cartridge data (spec.md §4.3).
func (m *Memory) Write(addr uint16, v uint8) {
	switch {
	case addr <= romSwitchEnd:
		m.controller.WriteControl(addr, v)
	case addr <= vramEnd:
		m.vram[addr-vramStart] = v
	case addr <= extRAMEnd:
		m.writeExternalRAM(addr, v)
	case addr <= wram1End:
		m.wram1[addr-wram1Start] = v
	case addr <= wram2End:
		m.wram2[addr-wram2Start] = v
	case addr <= echoEnd:
		m.log.Debugf("write to echo RAM at 0x%04X", addr)
		m.Write(addr-0x2000, v)
	case addr <= oamEnd:
		m.oam[addr-oamStart] = v
	case addr <= prohibitedEnd:
		m.log.Debugf("write to prohibited region 0x%04X", addr)
	case addr <= ioEnd:
		m.ioRegisters[addr-ioStart] = v
	case addr <= hramEnd:
		m.hram[addr-hramStart] = v
	default: // 0xFFFF
		m.ie = v
	}
}

func (m *Memory) readExternalRAM(addr uint16) uint8 {
	if len(m.ram) == 0 || !m.controller.RAMEnabled() {
		return 0xFF
	}
	off := uint32(m.controller.RAMBankIndex())*0x2000 + uint32(addr-extRAMStart)
	if int(off) >= len(m.ram) {
		return 0xFF
	}
	return m.ram[off]
}

func (m *Memory) writeExternalRAM(addr uint16, v uint8) {
	if len(m.ram) == 0 || !m.controller.RAMEnabled() {
		return
	}
	off := uint32(m.controller.RAMBankIndex())*0x2000 + uint32(addr-extRAMStart)
	if int(off) < len(m.ram) {
		m.ram[off] = v
	}
}

// InterruptEnable returns the 0xFFFF register (IE).
func (m *Memory) InterruptEnable() uint8 { return m.ie }

// RequestInterrupt sets the given bit (0-4: VBlank, LCD STAT, Timer,
// Serial, Joypad) in the IF latch at 0xFF0F, visible to the next
// interrupt-service check CPU.Step performs.
func (m *Memory) RequestInterrupt(bit uint8) {
	m.ioRegisters[IF-ioStart] |= 1 << bit
}

// Stats summarises region sizes for diagnostics; it carries no
// behavioral weight in the emulator itself.
type MemoryStats struct {
	ROMBankBytes        int
	SwitchableBanks     int
	SwitchableBankBytes int
	RAMBytes            int
	VRAMBytes           int
	WRAMBytes           int
	OAMBytes            int
	IORegisterBytes     int
	HRAMBytes           int
}

// Stats returns a region-by-region byte-count summary, used by the
// diagnostic CLI's -histogram output.
func (m *Memory) Stats() MemoryStats {
	return MemoryStats{
		ROMBankBytes:        len(m.rom),
		SwitchableBanks:     len(m.switchableBanks),
		SwitchableBankBytes: len(m.switchableBanks) * bankSize,
		RAMBytes:            len(m.ram),
		VRAMBytes:           len(m.vram),
		WRAMBytes:           len(m.wram1) + len(m.wram2),
		OAMBytes:            len(m.oam),
		IORegisterBytes:     len(m.ioRegisters),
		HRAMBytes:           len(m.hram),
	}
}
