package opcode_test

import (
	"testing"

	"github.com/esp108/xtdbg/opcode"
)

func TestEncodeRSRWSRXSRFieldPlacement(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name string
		got  uint32
		want uint32
	}{
		{"RSR", opcode.EncodeRSR(0xAB, 0x3), 0x030000 | (0xAB << 8) | (0x3 << 4)},
		{"WSR", opcode.EncodeWSR(0xAB, 0x3), 0x130000 | (0xAB << 8) | (0x3 << 4)},
		{"XSR", opcode.EncodeXSR(0xAB, 0x3), 0x610000 | (0xAB << 8) | (0x3 << 4)},
	} {
		if tt.got != tt.want {
			t.Errorf("%s: got %#08x, want %#08x", tt.name, tt.got, tt.want)
		}
	}
}

func TestEncodeLoadStoreWidthField(t *testing.T) {
	t.Parallel()

	// Width field (bits 15:12) distinguishes 8/16/32-bit access; all
	// other forms share layout.
	l8 := opcode.EncodeL8UI(1, 2, 5)
	l16 := opcode.EncodeL16UI(1, 2, 5)
	l32 := opcode.EncodeL32I(1, 2, 5)

	if (l8>>12)&0xF != 0 {
		t.Errorf("L8UI width field = %#x, want 0", (l8>>12)&0xF)
	}

	if (l16>>12)&0xF != 1 {
		t.Errorf("L16UI width field = %#x, want 1", (l16>>12)&0xF)
	}

	if (l32>>12)&0xF != 2 {
		t.Errorf("L32I width field = %#x, want 2", (l32>>12)&0xF)
	}

	// imm8 must occupy the top byte verbatim.
	if l32>>16 != 5 {
		t.Errorf("L32I imm8 field = %#x, want 5", l32>>16)
	}
}

func TestEncodeROTWWrapsToFourBits(t *testing.T) {
	t.Parallel()

	got := opcode.EncodeROTW(4)
	want := uint32(0x408000 | (4 << 4))

	if got != want {
		t.Errorf("ROTW(4) = %#x, want %#x", got, want)
	}

	// -4 keeps only its low four bits (0xC) in the instruction field.
	if got := opcode.EncodeROTW(-4); got != 0x4080C0 {
		t.Errorf("ROTW(-4) = %#x, want 0x4080C0", got)
	}
}

func TestEncodeRFDODirection(t *testing.T) {
	t.Parallel()

	if got := opcode.EncodeRFDO(false); got != 0xF1E000 {
		t.Errorf("RFDO(normal) = %#x, want 0xF1E000", got)
	}

	if got := opcode.EncodeRFDO(true); got != 0xF1E100 {
		t.Errorf("RFDO(ocd-run) = %#x, want 0xF1E100", got)
	}
}
