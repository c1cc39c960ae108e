package hexagon

import (
	"github.com/pkg/errors"
)

// Exec runs translated blocks until an exception is raised or a stop is requested,
// and returns the exception index. Guest faults are never errors; err only reports
// host failures such as a translator error.
func (c *Core) Exec() (int, error) {
	if !c.realized {
		return ExcpNone, errors.New("core not realized")
	}
	for c.excp == ExcpNone {
		if c.exitRequest || c.stopAtValid && c.gpr(RegPC) == c.stopAt {
			c.exitRequest = false
			c.excp = ExcpInterrupt
			break
		}
		if err := c.execBlock(); err != nil {
			return ExcpNone, err
		}
	}
	excp := c.excp
	c.excp = ExcpNone
	if excp != ExcpInterrupt {
		c.execLog.Debugf("exception %s at pc %#x", ExcpName(excp), c.gpr(RegPC))
	}
	return excp, nil
}

func (c *Core) execBlock() (err error) {
	defer func() {
		c.curTB, c.hostPos = nil, NoRestore
		switch r := recover().(type) {
		case nil, *loopExit:
		case *hostExit:
			err = r.err
		default:
			panic(r)
		}
	}()
	tb, err := c.lookupTB(c.gpr(RegPC))
	if err != nil {
		return err
	}
	if c.config.TraceCPU {
		c.Dump(c.traceOut)
	}
	c.SynchronizeFromTB(tb)
	c.OnBlock(uint64(tb.PC), tb.Size)

	c.curTB = tb
	next := 0
	for i, op := range tb.Ops {
		c.hostPos = i
		for next < len(tb.Boundaries) && tb.Boundaries[next].HostPos == i {
			c.OnCode(uint64(tb.Boundaries[next].Data[0]), 4)
			next++
		}
		op(c)
	}
	return nil
}

// Start runs from begin until PC reaches until, an exception is raised, or Stop is called.
// The exception that ended the run is available from LastException.
func (c *Core) Start(begin, until uint64) error {
	c.SetPC(begin)
	c.exitRequest = false
	c.stopAt, c.stopAtValid = uint32(until), true
	defer func() { c.stopAtValid = false }()
	excp, err := c.Exec()
	if err != nil {
		return err
	}
	c.lastExcp = excp
	return nil
}

// Stop asks the dispatch loop to return before the next block.
func (c *Core) Stop() error {
	c.exitRequest = true
	return nil
}
