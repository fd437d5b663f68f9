package cartridge

import "testing"

func TestMBC1RAMGate(t *testing.T) {
	m := NewMBC1(2)
	if m.RAMEnabled() {
		t.Fatal("RAM must start disabled")
	}
	m.WriteControl(0x0000, 0x0A)
	if !m.RAMEnabled() {
		t.Fatal("expected RAM enabled after writing 0x0A to 0x0000-0x1FFF")
	}
	m.WriteControl(0x1FFF, 0x00)
	if m.RAMEnabled() {
		t.Fatal("expected RAM disabled after writing 0x00")
	}
}

func TestMBC1ROMBankSelectZeroPromotesToOne(t *testing.T) {
	m := NewMBC1(4)
	m.WriteControl(0x2000, 0x00)
	if got := m.ROMBankIndex(); got != 0 { // bank 1 -> index 0
		t.Fatalf("ROMBankIndex() = %d, want 0 (bank 1)", got)
	}
}

func TestMBC1ROMBankSelectSimpleMode(t *testing.T) {
	m := NewMBC1(31)
	for bank := uint8(1); bank <= 31; bank++ {
		m.WriteControl(0x2000, bank)
		if got := m.ROMBankIndex(); got != bank-1 {
			t.Errorf("bank %d: ROMBankIndex() = %d, want %d", bank, got, bank-1)
		}
	}
}

func TestMBC1BankingModeFlag(t *testing.T) {
	m := NewMBC1(64)
	m.WriteControl(0x2000, 0x01)
	m.WriteControl(0x4000, 0x02)

	if got := m.RAMBankIndex(); got != 0 {
		t.Fatalf("simple mode: RAMBankIndex() = %d, want 0", got)
	}

	m.WriteControl(0x6000, 0x01) // advanced mode
	if got := m.RAMBankIndex(); got != 2 {
		t.Fatalf("advanced mode: RAMBankIndex() = %d, want 2", got)
	}
}
