// Package jtag implements the TAP primitive and Nexus transaction layers
// of the ESP108 debug protocol engine (spec layers 1-2). It owns no I/O
// itself: every Enqueue* call appends to the host framework's scan queue,
// and values are only defined once Flush returns successfully.
package jtag

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrFlush wraps any transport-level failure, whether an enqueue or a
// flush reported it. Callers treat it as
// FAIL per the spec's error taxonomy and re-examine.
var ErrFlush = errors.New("jtag: scan queue flush failed")

// State is the TAP state a shift sequence ends in. Every enqueue in this
// package targets StateIdle, the canonical end state for ESP108 scans.
type State int

const (
	StateIdle State = iota
	StateDRPause
	StateIRPause
)

// IR opcodes used by the wire surface (spec.md section 6).
const (
	IRPwrCtl  = 0x08
	IRPwrStat = 0x09
	IRNarsel  = 0x1C
	IRIDCode  = 0x1E
	IRBypass  = 0x1F
)

// Transport is the host framework's scan-queue contract (spec.md section 6).
// It is implemented by the debugger framework in production and by
// MockTransport in this repository's tests.
type Transport interface {
	// EnqueueIRShift appends an IR shift of lenBits bits. out is shifted
	// out; if in is non-nil it is filled with the captured bits, but only
	// after a successful Flush.
	EnqueueIRShift(lenBits int, out, in []byte, end State) error
	// EnqueueDRShift appends a DR shift of lenBits bits, with the same
	// out/in/end semantics as EnqueueIRShift.
	EnqueueDRShift(lenBits int, out, in []byte, end State) error
	// FlushQueue drives every enqueued shift over the physical wire and
	// reports whether all of them completed.
	FlushQueue() error
	// AddReset enqueues a hardware reset pulse (TRST and/or SRST).
	AddReset(trst, srst bool)
	// AddSleep enqueues a delay of us microseconds, honored at flush time.
	AddSleep(us int)
}

// TapIRWidth is the IR register width used for every IR shift in this
// package. It is fixed at 5, the typical ESP108 width; there is no
// per-target override.
const TapIRWidth = 5

// pendingRead32 captures a 32-bit NexusRead's incoming buffer until the
// next Flush decodes it into out.
type pendingRead32 struct {
	buf []byte
	out *uint32
}

// pendingRead8 is the same idea for the 8-bit PWRSTAT read.
type pendingRead8 struct {
	buf  []byte
	dest *uint8
}

// Queue wraps a Transport and tracks reads deferred until the next
// Flush, so a caller can enqueue many of them and decode them all in
// one pass, as spec.md section 3 requires ("reading those buffers
// before flush is undefined"). The Target type owns exactly one Queue
// per TAP device.
type Queue struct {
	Transport
	pending32 []pendingRead32
	pending8  []pendingRead8
}

// NewQueue wraps t in a Queue.
func NewQueue(t Transport) *Queue {
	return &Queue{Transport: t}
}

// WritePWRCTL enqueues an IR=0x08 shift followed by an 8-bit DR shift
// carrying the desired PWRCTL byte (spec.md section 4.1). Bit 7
// (JTAGDEBUGUSE) is cleared by the device on every write; callers that
// need the debug path kept alive must re-assert it on each call.
func (q *Queue) WritePWRCTL(value uint8) error {
	if err := q.EnqueueIRShift(TapIRWidth, []byte{IRPwrCtl}, nil, StateIdle); err != nil {
		return fmt.Errorf("%w: IR PWRCTL: %v", ErrFlush, err)
	}

	if err := q.EnqueueDRShift(8, []byte{value}, nil, StateIdle); err != nil {
		return fmt.Errorf("%w: DR PWRCTL: %v", ErrFlush, err)
	}

	return nil
}

// ReadPWRSTAT enqueues an IR=0x09 shift followed by an 8-bit DR shift.
// The outgoing byte is clearMask, which the device treats as
// write-1-to-clear (PwrStatClearMask clears DEBUGWASRESET and
// COREWASRESET; 0 clears nothing); *status is only valid after the next
// Flush.
func (q *Queue) ReadPWRSTAT(clearMask uint8, status *uint8) error {
	if err := q.EnqueueIRShift(TapIRWidth, []byte{IRPwrStat}, nil, StateIdle); err != nil {
		return fmt.Errorf("%w: IR PWRSTAT: %v", ErrFlush, err)
	}

	in := make([]byte, 1)
	if err := q.EnqueueDRShift(8, []byte{clearMask}, in, StateIdle); err != nil {
		return fmt.Errorf("%w: DR PWRSTAT: %v", ErrFlush, err)
	}

	q.pending8 = append(q.pending8, pendingRead8{buf: in, dest: status})

	return nil
}

// NexusWrite enqueues IR=NARSEL, DR1=8 bits (reg<<1)|1, DR2=32 bits
// little-endian value (spec.md section 4.1).
func (q *Queue) NexusWrite(reg uint8, value uint32) error {
	if err := q.EnqueueIRShift(TapIRWidth, []byte{IRNarsel}, nil, StateIdle); err != nil {
		return fmt.Errorf("%w: IR NARSEL(write %#x): %v", ErrFlush, reg, err)
	}

	addr := (reg << 1) | 1
	if err := q.EnqueueDRShift(8, []byte{addr}, nil, StateIdle); err != nil {
		return fmt.Errorf("%w: DR NARSEL addr: %v", ErrFlush, err)
	}

	var data [4]byte
	binary.LittleEndian.PutUint32(data[:], value)

	if err := q.EnqueueDRShift(32, data[:], nil, StateIdle); err != nil {
		return fmt.Errorf("%w: DR NARSEL data: %v", ErrFlush, err)
	}

	return nil
}

// NexusRead enqueues IR=NARSEL, DR1=8 bits (reg<<1)|0, DR2=32 bits of
// zero outgoing with incoming captured into *out. *out is only valid
// after the next Flush.
func (q *Queue) NexusRead(reg uint8, out *uint32) error {
	if err := q.EnqueueIRShift(TapIRWidth, []byte{IRNarsel}, nil, StateIdle); err != nil {
		return fmt.Errorf("%w: IR NARSEL(read %#x): %v", ErrFlush, reg, err)
	}

	addr := reg << 1
	if err := q.EnqueueDRShift(8, []byte{addr}, nil, StateIdle); err != nil {
		return fmt.Errorf("%w: DR NARSEL addr: %v", ErrFlush, err)
	}

	in := make([]byte, 4)
	if err := q.EnqueueDRShift(32, make([]byte, 4), in, StateIdle); err != nil {
		return fmt.Errorf("%w: DR NARSEL data: %v", ErrFlush, err)
	}

	q.pending32 = append(q.pending32, pendingRead32{buf: in, out: out})

	return nil
}

// Flush flushes the underlying transport and then decodes every
// NexusRead/ReadPWRSTAT result enqueued since the last Flush.
func (q *Queue) Flush() error {
	defer func() {
		q.pending32 = q.pending32[:0]
		q.pending8 = q.pending8[:0]
	}()

	if err := q.FlushQueue(); err != nil {
		return fmt.Errorf("%w: %v", ErrFlush, err)
	}

	for _, d := range q.pending32 {
		*d.out = binary.LittleEndian.Uint32(d.buf)
	}

	for _, d := range q.pending8 {
		*d.dest = d.buf[0]
	}

	return nil
}
