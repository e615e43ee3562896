// Package flag defines esp108ctl's command-line surface. Subcommands
// are modeled with kong the way the teacher's own flag package does
// (github.com/alecthomas/kong), rather than hand-rolling a
// flag.NewFlagSet-per-subcommand dispatcher.
package flag

// CLI is the root kong command tree for esp108ctl.
type CLI struct {
	Trace   bool   `help:"Enable verbose protocol tracing." short:"v"`
	Profile string `help:"Write a pprof profile of this kind (cpu, mem, trace) to the working directory. Leave empty to disable." default:""`

	Probe   ProbeCmd   `cmd:"" help:"Read IDCODE/OCDID and power-domain status, then exit."`
	Examine ExamineCmd `cmd:"" help:"Run the examine sequence and report the resulting target state."`
	Halt    HaltCmd    `cmd:"" help:"Request a debug interrupt and wait for the core to stop."`
	Resume  ResumeCmd  `cmd:"" help:"Restore context and resume a halted core."`
	Step    StepCmd    `cmd:"" help:"Single-step one instruction."`
	Reset   ResetCmd   `cmd:"" help:"Assert and deassert reset, optionally halting immediately after."`

	ReadMemory  ReadMemoryCmd  `cmd:"read-memory" help:"Read size-byte elements from target memory."`
	WriteMemory WriteMemoryCmd `cmd:"write-memory" help:"Write size-byte elements to target memory."`

	Registers RegistersCmd `cmd:"" help:"Dump the 85-entry register file of a halted core."`
}

// ProbeCmd takes no arguments: it only needs the TAP to be reachable.
type ProbeCmd struct{}

// ExamineCmd takes no arguments.
type ExamineCmd struct{}

// HaltCmd takes no arguments.
type HaltCmd struct{}

// ResumeCmd optionally supplies a PC to resume at instead of the
// register cache's current value.
type ResumeCmd struct {
	PC        string `help:"Resume at this address instead of the cached PC (hex, e.g. 0x40080000)." optional:""`
	DebugExec bool   `help:"Resume under continued OCD supervision (RFDO to OCD-Run) instead of a normal run."`
}

// StepCmd takes no arguments.
type StepCmd struct{}

// ResetCmd controls the reset handshake.
type ResetCmd struct {
	TRST      bool `help:"Also pulse TRST, not just SRST."`
	ResetHalt bool `help:"Halt immediately after the reset deasserts."`
}

// ReadMemoryCmd reads count size-byte elements starting at Addr.
type ReadMemoryCmd struct {
	Addr  string `arg:"" help:"Start address (hex)."`
	Size  int    `help:"Element size in bytes: 1, 2, or 4." default:"4"`
	Count int    `help:"Number of elements to read." default:"1"`
}

// WriteMemoryCmd writes one size-byte element's worth of Value to Addr.
type WriteMemoryCmd struct {
	Addr  string `arg:"" help:"Address (hex)."`
	Value string `arg:"" help:"Value to write (hex)."`
	Size  int    `help:"Element size in bytes: 1, 2, or 4." default:"4"`
}

// RegistersCmd takes no arguments.
type RegistersCmd struct{}
