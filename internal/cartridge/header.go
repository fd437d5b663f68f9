package cartridge

import (
	"fmt"

	"github.com/cespare/xxhash"
)

// HeaderSize is the length in bytes of the cartridge header window,
// located at [0x0100, 0x0150) in the ROM address space.
const HeaderSize = 0x50

// ramSizeKiB maps the header's RAM-size tag byte (0x0149) to KiB of
// external cartridge RAM. Values not present here decode to 0.
var ramSizeKiB = map[uint8]uint{
	0x00: 0,
	0x02: 8,
	0x03: 32,
	0x04: 128,
	0x05: 64,
}

// Header is the parsed contents of a cartridge's 80-byte header. It is
// produced once at cartridge load and never mutated afterwards.
type Header struct {
	EntryPoint      [4]byte
	NintendoLogo    [48]byte
	Title           string
	CGBOnly         bool
	NewLicensee     [2]byte
	SGBIncluded     bool
	CartridgeType   Type
	ROMShiftCount   uint8
	RAMSizeKiB      uint
	DestinationCode uint8
	OldLicensee     uint8
	VersionNumber   uint8
	HeaderChecksum  uint8
	GlobalChecksum  uint16

	raw [HeaderSize]byte
}

// Parse reads the 80-byte header window and returns a Header. It never
// panics: a malformed or unrecognised cartridge-type byte decodes to
// ROM_ONLY rather than failing. buf must be at least HeaderSize bytes;
// shorter input is zero-extended.
func Parse(buf []byte) Header {
	var h Header
	copy(h.raw[:], buf)

	copy(h.EntryPoint[:], h.raw[0x00:0x04])
	copy(h.NintendoLogo[:], h.raw[0x04:0x34])

	// Title occupies 0x34-0x43 (16 bytes); byte 0x43 (title[15]) doubles as
	// the CGB-support flag on CGB-aware cartridges.
	h.CGBOnly = h.raw[0x43] == 0xC0
	titleEnd := 0x44
	if h.raw[0x43] == 0x80 || h.raw[0x43] == 0xC0 {
		titleEnd = 0x43
	}
	h.Title = trimTitle(h.raw[0x34:titleEnd])

	copy(h.NewLicensee[:], h.raw[0x44:0x46])
	h.SGBIncluded = h.raw[0x46] == 0x03
	h.CartridgeType = typeFromByte(h.raw[0x47])
	h.ROMShiftCount = h.raw[0x48]
	h.RAMSizeKiB = ramSizeKiB[h.raw[0x49]]
	h.DestinationCode = h.raw[0x4A]
	h.OldLicensee = h.raw[0x4B]
	h.VersionNumber = h.raw[0x4C]
	h.HeaderChecksum = h.raw[0x4D]
	h.GlobalChecksum = uint16(h.raw[0x4E])<<8 | uint16(h.raw[0x4F])

	return h
}

// trimTitle trims trailing NUL padding from the raw title bytes.
func trimTitle(b []byte) string {
	end := len(b)
	for end > 0 && b[end-1] == 0x00 {
		end--
	}
	return string(b[:end])
}

// ROMSizeBytes returns the total ROM size implied by the shift count:
// 32 KiB * 2^ROMShiftCount.
func (h Header) ROMSizeBytes() uint {
	return (32 * 1024) << h.ROMShiftCount
}

// Raw returns the read-only 80-byte window, identical to the bytes Parse
// was given. Parse(h.Raw()) is the identity, satisfying the header
// parse/serialize round-trip law.
func (h Header) Raw() [HeaderSize]byte {
	return h.raw
}

// Digest returns a stable, non-cryptographic content identifier for the
// ROM this header was parsed from, used for logging and diagnostics
// (never for save-state naming - that is an explicit non-goal).
func Digest(rom []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(rom))
}

// Digest returns a content identifier derived from the header window
// alone. Callers that have the full ROM available (the loader, the CLI)
// should prefer the package-level Digest, which covers the whole image;
// this method exists for callers holding only a parsed Header.
func (h Header) Digest() string {
	return Digest(h.raw[:])
}

// String returns a one-line human-readable summary of the header.
func (h Header) String() string {
	mode := "DMG"
	if h.CGBOnly {
		mode = "CGB"
	}
	return fmt.Sprintf("%s Type: %s | ROM Size: %dkB | RAM Size: %dkB | Mode: %s",
		h.Title, h.CartridgeType, h.ROMSizeBytes()/1024, h.RAMSizeKiB, mode)
}
