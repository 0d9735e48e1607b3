package vm

import "github.com/lightclient/evm/log"

// DefaultMaxCallDepth is the largest msg.Depth a frame accepts; a deeper
// Message is rejected with CallOverflow before any instruction of its
// frame runs (spec.md §7:
// CallOverflow, "depth > 1024"). It mirrors the teacher's
// vm.Config.MaxCallDepth default of 1024 (core/vm/interpreter.go,
// NewEVM: "if config.MaxCallDepth == 0 { config.MaxCallDepth = 1024 }").
const DefaultMaxCallDepth = 1024

// Config controls optional interpreter behavior beyond spec.md's bare
// execute(host, env, msg, code) entry point. It is the core engine's slice
// of the teacher's vm.Config{Debug, Tracer, MaxCallDepth}: this package has
// no Tracer/EVMLogger hook (tracing CALL/CREATE sub-dispatch is out of
// scope, spec.md §1), but keeps Debug-level opcode tracing and the
// call-depth bound.
type Config struct {
	// Debug, when true, makes the frame's logger emit one Debug line per
	// fetched opcode (mirrors the teacher's Config.Debug-gated trace
	// call sites in Interpreter.Run).
	Debug bool

	// Logger overrides the package default logger. Nil uses
	// log.Default().Module("vm").
	Logger *log.Logger

	// MaxCallDepth bounds msg.Depth. Zero means DefaultMaxCallDepth.
	MaxCallDepth uint32
}

// logger returns c's configured logger, tagged for the vm module, falling
// back to the package default.
func (c Config) logger() *log.Logger {
	if c.Logger != nil {
		return c.Logger.Module("vm")
	}
	return log.Default().Module("vm")
}

// maxCallDepth returns c's configured depth bound, or DefaultMaxCallDepth
// if unset.
func (c Config) maxCallDepth() uint32 {
	if c.MaxCallDepth == 0 {
		return DefaultMaxCallDepth
	}
	return c.MaxCallDepth
}
