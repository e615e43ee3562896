package jtag_test

import (
	"testing"

	"github.com/esp108/xtdbg/jtag"
)

func TestNexusWriteThenReadRoundTrip(t *testing.T) {
	t.Parallel()

	mt := jtag.NewMockTransport()
	mt.Responses = [][]byte{{0x78, 0x56, 0x34, 0x12}}

	q := jtag.NewQueue(mt)

	if err := q.NexusWrite(0x45, 0x12345678); err != nil {
		t.Fatalf("NexusWrite: %v", err)
	}

	var got uint32

	if err := q.NexusRead(0x45, &got); err != nil {
		t.Fatalf("NexusRead: %v", err)
	}

	// got must be undefined (zero) before Flush, per spec.md section 3.
	if got != 0 {
		t.Fatalf("NexusRead decoded before Flush: got %#x", got)
	}

	if err := q.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	if got != 0x12345678 {
		t.Fatalf("got %#x, want %#x", got, 0x12345678)
	}

	// IR NARSEL must precede each DR pair, and the write's address byte
	// must set bit 0.
	if len(mt.IRShifts) != 2 {
		t.Fatalf("expected 2 IR shifts, got %d", len(mt.IRShifts))
	}

	for _, s := range mt.IRShifts {
		if s.Out[0] != jtag.IRNarsel {
			t.Fatalf("IR shift out = %#x, want NARSEL %#x", s.Out[0], jtag.IRNarsel)
		}
	}

	writeAddr := mt.DRShifts[0].Out[0]
	if writeAddr&1 == 0 {
		t.Fatalf("write address byte %#x missing R/W bit", writeAddr)
	}

	readAddr := mt.DRShifts[2].Out[0]
	if readAddr&1 != 0 {
		t.Fatalf("read address byte %#x has R/W bit set", readAddr)
	}
}

func TestAssertJtagDebugUseNeverLeavesBitClearedAcrossBatch(t *testing.T) {
	t.Parallel()

	mt := jtag.NewMockTransport()
	q := jtag.NewQueue(mt)

	if err := jtag.AssertJtagDebugUse(q); err != nil {
		t.Fatalf("AssertJtagDebugUse: %v", err)
	}

	if len(mt.DRShifts) != 2 {
		t.Fatalf("expected 2 PWRCTL writes, got %d", len(mt.DRShifts))
	}

	first := mt.DRShifts[0].Out[0]
	second := mt.DRShifts[1].Out[0]

	if first&jtag.PwrCtlJtagDebugUse != 0 {
		t.Fatalf("first write already has JTAGDEBUGUSE set: %#x", first)
	}

	if second&jtag.PwrCtlJtagDebugUse == 0 {
		t.Fatalf("second write missing the JTAGDEBUGUSE 0->1 edge: %#x", second)
	}
}

func TestReadPWRSTATClearMaskAndDecode(t *testing.T) {
	t.Parallel()

	mt := jtag.NewMockTransport()
	mt.Responses = [][]byte{{0x50}} // DEBUGWASRESET | COREWASRESET

	q := jtag.NewQueue(mt)

	var status uint8

	if err := q.ReadPWRSTAT(jtag.PwrStatClearMask, &status); err != nil {
		t.Fatalf("ReadPWRSTAT: %v", err)
	}

	if err := q.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	if status != 0x50 {
		t.Fatalf("status = %#x, want 0x50", status)
	}

	outByte := mt.DRShifts[0].Out[0]
	if outByte != jtag.PwrStatClearMask {
		t.Fatalf("clear mask shifted = %#x, want %#x", outByte, jtag.PwrStatClearMask)
	}
}

func TestFlushPropagatesTransportError(t *testing.T) {
	t.Parallel()

	mt := jtag.NewMockTransport()
	mt.FlushErr = errFlushFailed

	q := jtag.NewQueue(mt)

	if err := q.Flush(); err == nil {
		t.Fatal("expected Flush to propagate the transport error")
	}
}

var errFlushFailed = &testError{"synthetic flush failure"}

type testError struct{ msg string }

func (e *testError) Error() string { return e.msg }
