package hexagon

import (
	"fmt"

	"github.com/hexcorn/hexcorn/go/models/cpu"
)

// exception indices
const (
	ExcpNone = -1

	ExcpFetchNoUPage = 0x012
	ExcpPrivNoURead  = 0x024
	ExcpPrivNoUWrite = 0x025
	ExcpTrap0        = 0x172

	// the dispatch loop was asked to stop
	ExcpInterrupt = 0x10000
)

var excpNames = map[int]string{
	ExcpFetchNoUPage: "fetch-no-user-page",
	ExcpPrivNoURead:  "privilege-violation-no-user-read",
	ExcpPrivNoUWrite: "privilege-violation-no-user-write",
	ExcpTrap0:        "trap0",
	ExcpInterrupt:    "interrupt",
}

func ExcpName(excp int) string {
	if name, ok := excpNames[excp]; ok {
		return name
	}
	return fmt.Sprintf("exception %#x", excp)
}

// NoRestore is the host position used outside any translated block.
const NoRestore = -1

// Fault describes one trapped guest memory access.
type Fault struct {
	Access  cpu.Access
	Addr    uint32
	Size    int
	MMUIdx  int
	RetAddr int
}

func (f *Fault) String() string {
	return fmt.Sprintf("%s fault at %#x(%d) mmu %d, host op %d", f.Access, f.Addr, f.Size, f.MMUIdx, f.RetAddr)
}

// loopExit unwinds from a fault to the dispatch loop. Only Exec recovers it.
type loopExit struct {
	excp int
}

func (c *Core) cpuLoopExit() {
	panic(&loopExit{excp: c.excp})
}

// hostExit unwinds a host failure raised inside an op, such as a bad access size.
// Exec returns err without touching the pending exception.
type hostExit struct {
	err error
}

// cpuLoopExitRestore recovers precise state for retaddr before unwinding.
func (c *Core) cpuLoopExitRestore(retaddr int) {
	c.restoreState(retaddr)
	c.cpuLoopExit()
}

// RaiseException ends the current block with excp. The caller must already have set PC.
func (c *Core) RaiseException(excp int) {
	c.excp = excp
	c.cpuLoopExit()
}
