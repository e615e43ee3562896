package jtag

// MockTransport is an in-memory Transport used by this package's tests
// and by every esp108ctl subcommand. It has no notion of TAP states; it
// simply records shifts and lets a test script supply canned responses
// for DR shifts that expect data back, keyed by enqueue order.
//
// This plays the role the teacher's real ioctl-backed kvm package plays
// in production: a thin, inspectable stand-in for hardware the rest of
// the driver is written against an interface for.
type MockTransport struct {
	IRShifts []Shift
	DRShifts []Shift

	// Responses supplies, in FIFO order, the bytes copied into each
	// DR shift's `in` buffer at FlushQueue time (when in != nil).
	Responses [][]byte

	Resets  []ResetPulse
	Sleeps  []int

	FlushErr error

	drResponseIdx int
	deferredFills []fill
}

// fill pairs a DR shift's incoming buffer with the response bytes that
// FlushQueue will copy into it, so MockTransport honors the same
// "undefined before flush" rule real hardware does.
type fill struct {
	dst []byte
	src []byte
}

// Shift records one enqueued IR or DR shift.
type Shift struct {
	LenBits int
	Out     []byte
	HasIn   bool
	End     State
}

// ResetPulse records one AddReset call.
type ResetPulse struct {
	TRST, SRST bool
}

// NewMockTransport returns an empty MockTransport.
func NewMockTransport() *MockTransport {
	return &MockTransport{}
}

func (m *MockTransport) EnqueueIRShift(lenBits int, out, in []byte, end State) error {
	m.IRShifts = append(m.IRShifts, Shift{LenBits: lenBits, Out: append([]byte(nil), out...), HasIn: in != nil, End: end})

	return nil
}

func (m *MockTransport) EnqueueDRShift(lenBits int, out, in []byte, end State) error {
	m.DRShifts = append(m.DRShifts, Shift{LenBits: lenBits, Out: append([]byte(nil), out...), HasIn: in != nil, End: end})

	if in != nil {
		if m.drResponseIdx < len(m.Responses) {
			m.deferredFills = append(m.deferredFills, fill{dst: in, src: m.Responses[m.drResponseIdx]})
		}

		m.drResponseIdx++
	}

	return nil
}

func (m *MockTransport) FlushQueue() error {
	defer func() { m.deferredFills = m.deferredFills[:0] }()

	if m.FlushErr != nil {
		return m.FlushErr
	}

	for _, f := range m.deferredFills {
		copy(f.dst, f.src)
	}

	return nil
}

func (m *MockTransport) AddReset(trst, srst bool) {
	m.Resets = append(m.Resets, ResetPulse{TRST: trst, SRST: srst})
}

func (m *MockTransport) AddSleep(us int) {
	m.Sleeps = append(m.Sleeps, us)
}
