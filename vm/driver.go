package vm

// Driver runs a Frame to completion against a Host, servicing every
// Yield the frame produces (spec.md §4.6: "the Driver resumes the
// interpreter with the Host's answer"). It is the only place in the
// package that calls into a Host.
type Driver struct {
	host Host
}

// NewDriver returns a Driver that services yields against host.
func NewDriver(host Host) *Driver {
	return &Driver{host: host}
}

// Run drives frame to a terminal Outcome, calling d.host once per Yield
// the frame produces, and once more (Host.SelfDestruct) when the frame
// ends with SELFDESTRUCT.
func (d *Driver) Run(frame *Frame) Outcome {
	for {
		y, exit := frame.Step()
		if exit != nil {
			if exit.Status == ExitSelfDestruct {
				d.host.SelfDestruct(frame.msg.Target, exit.Beneficiary)
			}
			return outcomeFromExit(*exit, frame.GasLeft())
		}
		if y == nil {
			continue
		}
		if exit := d.service(frame, y); exit != nil {
			return outcomeFromExit(*exit, frame.GasLeft())
		}
	}
}

// service resolves a single Yield against the Driver's Host and feeds the
// answer back into frame. It returns a non-nil Exit only when resuming
// the yield itself fails (SSTORE's host-determined cost exceeds the
// frame's remaining gas).
func (d *Driver) service(frame *Frame, y *Yield) *Exit {
	switch y.Kind {
	case YieldLoad:
		return frame.resumeWord(d.host.GetStorage(frame.msg.Target, y.Key))

	case YieldStore:
		cost, refund := d.host.SetStorage(frame.msg.Target, y.Key, y.StoreValue)
		if exit := frame.resumeStore(cost, refund); exit != nil {
			return exit
		}

	case YieldBalance:
		return frame.resumeWord(d.host.GetBalance(y.Addr))

	case YieldExtCodeSize:
		return frame.resumeWord(wordFromUint64(d.host.GetCodeSize(y.Addr)))

	case YieldExtCodeCopy:
		data := d.host.CopyCode(y.Addr, y.CopySrcOffset, y.CopyLength)
		frame.resumeCopy(y.CopyDstOffset, y.CopyLength, data)

	case YieldExtCodeHash:
		return frame.resumeWord(hashToWord(d.host.GetCodeHash(y.Addr)))

	case YieldBlockHash:
		return frame.resumeWord(hashToWord(d.host.BlockHash(y.BlockNumber)))

	case YieldLog:
		d.host.EmitLog(frame.msg.Target, y.Topics, y.Data)
		frame.resumeNone()
	}
	return nil
}

// Execute is the package's top-level entry point: it builds a Frame for
// code under msg and env and drives it to completion against host
// (spec.md §1, §6).
func Execute(host Host, code []byte, msg Message, env Environment) Outcome {
	return ExecuteWithConfig(host, code, msg, env, Config{})
}

// ExecuteWithConfig is Execute with explicit Config (call-depth bound,
// Debug opcode tracing, logger override).
func ExecuteWithConfig(host Host, code []byte, msg Message, env Environment, cfg Config) Outcome {
	frame := NewFrameWithConfig(code, msg, env, cfg)
	driver := NewDriver(host)
	return driver.Run(frame)
}
