package hexagon

import (
	"github.com/pkg/errors"

	"github.com/hexcorn/hexcorn/go/models/cpu"
)

// user mode only has one MMU index
const mmuUserIdx = 0

// Load, Store and Fetch are the guest accesses used by translated ops.
// A failed access is offered to HOOK_MEM_ERR hooks once; if none fixes it,
// the fault is delivered and the current block is abandoned.
func (c *Core) Load(addr uint32, size int) uint64 {
	return c.access(cpu.MEM_READ, addr, size, 0)
}

func (c *Core) Store(addr uint32, size int, val uint64) {
	c.access(cpu.MEM_WRITE, addr, size, val)
}

// Fetch reads one instruction word.
func (c *Core) Fetch(addr uint32) uint32 {
	return uint32(c.access(cpu.MEM_FETCH, addr, 4, 0))
}

func (c *Core) access(access cpu.Access, addr uint32, size int, val uint64) uint64 {
	for retry := false; ; retry = true {
		var v uint64
		var err error
		if access == cpu.MEM_WRITE {
			err = c.WriteUint(uint64(addr), size, val)
		} else {
			v, err = c.ReadUint(uint64(addr), size, access)
		}
		if err == nil {
			return v
		}
		merr, ok := err.(*cpu.MemError)
		if !ok {
			panic(&hostExit{errors.Wrapf(err, "pc %#x", c.gpr(RegPC))})
		}
		if !retry && c.OnFault(merr.Enum, uint64(addr), size, int64(val)) {
			continue
		}
		c.TLBFill(access, addr, size, mmuUserIdx, c.hostPos)
	}
}
