package hexagon

import (
	"math"

	"github.com/pkg/errors"

	"github.com/hexcorn/hexcorn/go/models"
	"github.com/hexcorn/hexcorn/go/models/cpu"
)

func hexagonInit(i models.Instance) error {
	c := i.(*Core)
	if c.config.DebugStackRebaseOffset > math.MaxUint32 {
		return errors.Errorf("debug-stack-rebase-offset %#x does not fit in a register", c.config.DebugStackRebaseOffset)
	}
	c.DebugCompat = c.config.DebugCompat
	c.StackAdjust = uint32(c.config.DebugStackRebaseOffset)
	return nil
}

func hexagonRealize(i models.Instance) error {
	c := i.(*Core)
	if c.config.SystemMode {
		return ErrUnsupportedMode
	}
	c.log.Debug("realize")
	return nil
}

func hexagonReset(i models.Instance) {
	c := i.(*Core)
	c.FP.DefaultNaN = true
	c.FP.Tininess = TininessBeforeRounding
}

// ExecRealize allocates the translation cache and hook table.
func (c *Core) ExecRealize() error {
	tbs, err := newTBCache(c.config.TBCacheSize)
	if err != nil {
		return err
	}
	c.tbs = tbs
	c.Hooks = cpu.NewHooks(c, c.Mem)
	c.realized = true
	return nil
}

// ResetCommon clears execution state shared by every core type.
// Registers and memory are left alone.
func (c *Core) ResetCommon() {
	c.excp = ExcpNone
	c.exitRequest = false
	c.curTB, c.hostPos = nil, NoRestore
	if c.tbs != nil {
		c.tbs.Purge()
	}
}

// Reset runs the reset chain. The core must not be executing.
func (c *Core) Reset() {
	c.log.Debug("reset")
	models.ResetChain(c)
}
