package flag

import (
	"fmt"
	"log"
	"strconv"

	"github.com/alecthomas/kong"
	"github.com/pkg/profile"

	"github.com/esp108/xtdbg/jtag"
	"github.com/esp108/xtdbg/probe"
	"github.com/esp108/xtdbg/target"
)

// Parse builds the kong command tree, wires --trace/--profile, and runs
// whichever subcommand was selected.
func Parse() error {
	c := CLI{}

	programName := "esp108ctl"
	programDesc := "esp108ctl exercises an ESP108 JTAG debug-target driver"

	ctx := kong.Parse(&c,
		kong.Name(programName),
		kong.Description(programDesc),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}))

	if c.Trace {
		target.SetDebug(log.Printf)
	}

	if stop := startProfile(c.Profile); stop != nil {
		defer stop()
	}

	return ctx.Run()
}

func startProfile(kind string) func() {
	switch kind {
	case "cpu":
		return profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop
	case "mem":
		return profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop
	case "trace":
		return profile.Start(profile.TraceProfile, profile.ProfilePath(".")).Stop
	default:
		return nil
	}
}

// newDryRunTarget is the shared entry point for every subcommand except
// probe (which hands its own MockTransport to probe.Identify): the
// transport is out of this driver's scope (spec.md section 6 consumes
// it from the host framework), so the CLI always exercises the driver
// against an in-memory MockTransport rather than real hardware.
func newDryRunTarget() *target.Target {
	return target.New(jtag.NewMockTransport(), nil)
}

func parseHex32(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", s, err)
	}

	return uint32(v), nil
}

func (*ProbeCmd) Run() error {
	r, err := probe.Identify(jtag.NewMockTransport())
	if err != nil {
		return err
	}

	r.Print()

	return nil
}

func (*ExamineCmd) Run() error {
	tg := newDryRunTarget()
	if err := tg.Examine(); err != nil {
		return err
	}

	fmt.Printf("state=%s halt_reason=%v\n", tg.State(), tg.HaltReason())

	return nil
}

func (*HaltCmd) Run() error {
	tg := newDryRunTarget()
	if err := tg.Examine(); err != nil {
		return err
	}

	if err := tg.Halt(); err != nil {
		return err
	}

	if err := tg.Poll(); err != nil {
		return err
	}

	fmt.Printf("state=%s\n", tg.State())

	return nil
}

func (r *ResumeCmd) Run() error {
	tg := newDryRunTarget()
	if err := tg.Examine(); err != nil {
		return err
	}

	current := r.PC == ""

	var pc uint32

	if !current {
		v, err := parseHex32(r.PC)
		if err != nil {
			return err
		}

		pc = v
	}

	if err := tg.Resume(current, pc, r.DebugExec); err != nil {
		return err
	}

	fmt.Printf("state=%s\n", tg.State())

	return nil
}

func (*StepCmd) Run() error {
	tg := newDryRunTarget()
	if err := tg.Examine(); err != nil {
		return err
	}

	if err := tg.Step(); err != nil {
		return err
	}

	fmt.Printf("state=%s\n", tg.State())

	return nil
}

func (r *ResetCmd) Run() error {
	tg := newDryRunTarget()
	tg.AssertReset(r.TRST)

	return tg.DeassertReset(r.ResetHalt)
}

func (r *ReadMemoryCmd) Run() error {
	tg := newDryRunTarget()
	if err := tg.Examine(); err != nil {
		return err
	}

	addr, err := parseHex32(r.Addr)
	if err != nil {
		return err
	}

	buf := make([]byte, r.Count*r.Size)
	if err := tg.ReadMemory(addr, r.Size, r.Count, buf); err != nil {
		return err
	}

	fmt.Printf("%x\n", buf)

	return nil
}

func (w *WriteMemoryCmd) Run() error {
	tg := newDryRunTarget()
	if err := tg.Examine(); err != nil {
		return err
	}

	addr, err := parseHex32(w.Addr)
	if err != nil {
		return err
	}

	val, err := parseHex32(w.Value)
	if err != nil {
		return err
	}

	buf := make([]byte, w.Size)

	switch w.Size {
	case 1:
		buf[0] = byte(val)
	case 2:
		buf[0], buf[1] = byte(val), byte(val>>8)
	default:
		buf[0], buf[1], buf[2], buf[3] = byte(val), byte(val>>8), byte(val>>16), byte(val>>24)
	}

	return tg.WriteMemory(addr, w.Size, 1, buf)
}

func (*RegistersCmd) Run() error {
	tg := newDryRunTarget()
	if err := tg.Examine(); err != nil {
		return err
	}

	if tg.State() != target.StateHalted {
		return target.ErrNotHalted
	}

	for i := 0; i < target.NumRegisters; i++ {
		d := target.Descriptor(i)
		e := tg.Cache().Get(i)
		fmt.Printf("%-14s (%s) = 0x%08x\n", d.Name, d.Class, e.Value)
	}

	return nil
}
