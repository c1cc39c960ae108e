package hexagon

import (
	"fmt"
	"io"
)

// registers after r0-r31 in dump order
var dumpOrder = []int{
	RegSA0, RegLC0, RegSA1, RegLC1,
	RegM0, RegM1, RegUSR, RegP3_0,
	RegGP, RegUGP, RegPC,
}

// supervisor registers are not modelled in user mode
const userPlaceholders = "  cause = 0x000000db\n" +
	"  badva = 0x00000000\n" +
	"  cs0 = 0x00000000\n" +
	"  cs1 = 0x00000000\n"

func (c *Core) dumpValue(n int) uint32 {
	switch {
	case n == RegP3_0:
		return c.ReadP3_0()
	case n < 32:
		return c.AdjustStackPtr(c.gpr(n))
	}
	return c.gpr(n)
}

func (c *Core) printReg(w io.Writer, n int) {
	fmt.Fprintf(w, "  %s = 0x%08x\n", regNames[n], c.dumpValue(n))
}

// Dump writes the register block used to diff traces against a reference debugger.
// With DebugCompat set, a dump for the same PC as the previous one is skipped.
func (c *Core) Dump(w io.Writer) {
	pc := c.gpr(RegPC)
	if c.DebugCompat {
		if c.dumped && pc == c.lastDumpedPC {
			return
		}
		c.lastDumpedPC, c.dumped = pc, true
	}
	fmt.Fprint(w, "General Purpose Registers = {\n")
	for i := 0; i < 32; i++ {
		c.printReg(w, i)
	}
	for _, n := range dumpOrder {
		c.printReg(w, n)
	}
	fmt.Fprint(w, userPlaceholders)
	fmt.Fprint(w, "}\n")
}
