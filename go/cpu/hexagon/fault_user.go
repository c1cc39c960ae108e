//go:build !hexagon_system
// +build !hexagon_system

package hexagon

import (
	"github.com/sirupsen/logrus"

	"github.com/hexcorn/hexcorn/go/models/cpu"
)

func excpForAccess(access cpu.Access) int {
	switch access {
	case cpu.MEM_FETCH:
		return ExcpFetchNoUPage
	case cpu.MEM_WRITE:
		return ExcpPrivNoUWrite
	}
	return ExcpPrivNoURead
}

// TLBFill delivers a failed user-mode access as a guest exception.
// It restores the PC of the instruction at host position retaddr and unwinds to
// the dispatch loop, so it never returns.
func (c *Core) TLBFill(access cpu.Access, addr uint32, size, mmuIdx, retaddr int) {
	f := &Fault{Access: access, Addr: addr, Size: size, MMUIdx: mmuIdx, RetAddr: retaddr}
	c.excp = excpForAccess(access)
	c.execLog.WithFields(logrus.Fields{
		"excp":  ExcpName(c.excp),
		"fault": f.String(),
	}).Debug("tlb fill")
	c.cpuLoopExitRestore(retaddr)
}
