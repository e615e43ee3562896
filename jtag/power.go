package jtag

// PWRCTL bits (spec.md section 4.1).
const (
	PwrCtlCoreWakeup    uint8 = 1 << 0
	PwrCtlMemWakeup     uint8 = 1 << 1
	PwrCtlDebugWakeup   uint8 = 1 << 2
	PwrCtlCoreReset     uint8 = 1 << 4
	PwrCtlDebugReset    uint8 = 1 << 6
	PwrCtlJtagDebugUse  uint8 = 1 << 7
	PwrCtlWakeupAll     uint8 = PwrCtlCoreWakeup | PwrCtlMemWakeup | PwrCtlDebugWakeup
)

// PWRSTAT bits (spec.md section 4.1).
const (
	PwrStatCoreDomainOn   uint8 = 1 << 0
	PwrStatMemDomainOn    uint8 = 1 << 1
	PwrStatDebugDomainOn  uint8 = 1 << 2
	PwrStatCoreStillNeeded uint8 = 1 << 3
	PwrStatCoreWasReset   uint8 = 1 << 4
	PwrStatDebugWasReset  uint8 = 1 << 6

	// PwrStatClearMask is the clearMask to pass to ReadPWRSTAT to clear
	// both reset flags: the device treats the outgoing byte as
	// write-1-to-clear while simultaneously shifting out the prior status
	// byte.
	PwrStatClearMask uint8 = PwrStatDebugWasReset | PwrStatCoreWasReset
)

// AssertJtagDebugUse brings the debug module out of reset and keeps it
// accessible: two PWRCTL writes, the second adding JTAGDEBUGUSE so the
// required 0->1 edge is produced within the same flush batch (spec.md
// section 4.7 step 2). Per spec.md section 8, JTAGDEBUGUSE is never
// cleared for more than one consecutive shift within a batch.
func AssertJtagDebugUse(q *Queue) error {
	if err := q.WritePWRCTL(PwrCtlWakeupAll); err != nil {
		return err
	}

	return q.WritePWRCTL(PwrCtlWakeupAll | PwrCtlJtagDebugUse)
}
