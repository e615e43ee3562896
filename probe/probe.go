// Package probe implements connectivity checks run before a target is
// attached: reading the TAP's IDCODE, the OCD block's OCDID, and the
// current power-domain status. It mirrors the role the teacher's
// probe.CPUID plays for gokvm's KVM_GET_SUPPORTED_CPUID ioctl: a
// read-only identity dump callable from the CLI without standing up a
// full target.
package probe

import (
	"encoding/binary"
	"fmt"

	"github.com/esp108/xtdbg/jtag"
	"github.com/esp108/xtdbg/ocd"
)

// Result is the decoded identity/status snapshot Identify returns.
type Result struct {
	IDCode  uint32
	OCDID   uint32
	PWRStat uint8
}

// Identify shifts IDCODE (IR 0x1E, 32-bit DR), then reads OCDID and
// PWRSTAT through a fresh queue, and returns the decoded snapshot.
func Identify(t jtag.Transport) (*Result, error) {
	q := jtag.NewQueue(t)

	in := make([]byte, 4)
	if err := q.EnqueueIRShift(jtag.TapIRWidth, []byte{jtag.IRIDCode}, nil, jtag.StateIdle); err != nil {
		return nil, fmt.Errorf("probe: IR IDCODE: %w", err)
	}

	if err := q.EnqueueDRShift(32, make([]byte, 4), in, jtag.StateIdle); err != nil {
		return nil, fmt.Errorf("probe: DR IDCODE: %w", err)
	}

	var ocdid uint32
	if err := ocd.ReadOCDID(q, &ocdid); err != nil {
		return nil, fmt.Errorf("probe: OCDID: %w", err)
	}

	var pwrstat uint8
	if err := q.ReadPWRSTAT(0, &pwrstat); err != nil {
		return nil, fmt.Errorf("probe: PWRSTAT: %w", err)
	}

	if err := q.Flush(); err != nil {
		return nil, fmt.Errorf("probe: %w", err)
	}

	return &Result{
		IDCode:  binary.LittleEndian.Uint32(in),
		OCDID:   ocdid,
		PWRStat: pwrstat,
	}, nil
}

// Print writes every field of r, plus the decoded power-domain bits, on a
// single line.
func (r *Result) Print() {
	fmt.Printf("idcode=0x%08x ocdid=0x%08x pwrstat=0x%02x (core_on=%v mem_on=%v debug_on=%v)\n",
		r.IDCode, r.OCDID, r.PWRStat,
		r.PWRStat&jtag.PwrStatCoreDomainOn != 0,
		r.PWRStat&jtag.PwrStatMemDomainOn != 0,
		r.PWRStat&jtag.PwrStatDebugDomainOn != 0,
	)
}
