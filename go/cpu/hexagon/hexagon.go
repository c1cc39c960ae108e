package hexagon

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/hexcorn/hexcorn/go/logflags"
	"github.com/hexcorn/hexcorn/go/models"
	"github.com/hexcorn/hexcorn/go/models/cpu"
)

var ErrUnsupportedMode = errors.New("system mode not implemented for Hexagon")

var errNoArch = errors.New("core has no arch descriptor")

// Builder constructs realized cores. Translator may be nil for cores that are only inspected.
type Builder struct {
	Arch       *models.Arch
	Translator Translator
}

func (b *Builder) New(t *models.CoreType, config *models.Config) (models.Core, error) {
	c, err := b.NewCore(t, config)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// NewCore allocates, initializes and realizes a core of type t.
// On failure no core is returned.
func (b *Builder) NewCore(t *models.CoreType, config *models.Config) (*Core, error) {
	if t.Abstract {
		return nil, errors.Wrap(models.ErrAbstractType, t.Name)
	}
	if !models.IsSubtype(t, HexagonCore) {
		return nil, errors.Errorf("%s is not a Hexagon core type", t.Name)
	}
	if config == nil {
		config = models.DefaultConfig()
	}
	c := &Core{
		Regs:       cpu.NewRegs(32, TotalRegs),
		Mem:        cpu.NewMem(32, binary.LittleEndian),
		typ:        t,
		arch:       b.Arch,
		config:     config,
		translator: b.Translator,
		hostPos:    NoRestore,
		excp:       ExcpNone,
		lastExcp:   ExcpNone,
		traceOut:   os.Stderr,
		log:        logflags.CPULogger().WithField("core", t.Name),
		execLog:    logflags.ExecLogger(),
	}
	if err := models.InitChain(c); err != nil {
		return nil, err
	}
	if err := models.RealizeChain(c); err != nil {
		c.log.WithError(err).Debug("realize failed")
		return nil, err
	}
	return c, nil
}

// Core is one Hexagon hardware thread.
type Core struct {
	*cpu.Hooks
	*cpu.Regs
	*cpu.Mem
	CoreState

	typ        *models.CoreType
	arch       *models.Arch
	config     *models.Config
	translator Translator
	tbs        *tbCache
	realized   bool

	// pending exception, ExcpNone when clear
	excp     int
	lastExcp int

	exitRequest bool
	stopAt      uint32
	stopAtValid bool

	// block being executed and the index of the op running in it
	curTB   *TB
	hostPos int

	traceOut io.Writer
	log      *logrus.Entry
	execLog  *logrus.Entry
}

func (c *Core) Type() *models.CoreType { return c.typ }
func (c *Core) Realized() bool         { return c.realized }
func (c *Core) Arch() *models.Arch     { return c.arch }
func (c *Core) Config() *models.Config { return c.config }

// SetTraceOutput redirects the per-block register dumps enabled by Config.TraceCPU.
func (c *Core) SetTraceOutput(w io.Writer) {
	c.traceOut = w
}

func (c *Core) gpr(n int) uint32 {
	return uint32(c.Regs.Get(n))
}

func (c *Core) setGPR(n int, v uint32) {
	c.Regs.Set(n, uint64(v))
}

func (c *Core) RegRead(n int) (uint64, error) {
	if n == RegP3_0 {
		return uint64(c.ReadP3_0()), nil
	}
	return c.Regs.RegRead(n)
}

func (c *Core) RegWrite(n int, val uint64) error {
	if n == RegP3_0 {
		c.WriteP3_0(uint32(val))
		return nil
	}
	return c.Regs.RegWrite(n, val)
}

func (c *Core) RegDump() ([]models.RegVal, error) {
	if c.arch == nil {
		return nil, errNoArch
	}
	return c.arch.RegDump(c)
}

func (c *Core) PC() uint64 {
	return uint64(c.gpr(RegPC))
}

func (c *Core) SetPC(pc uint64) {
	c.setGPR(RegPC, uint32(pc))
}

// HasWork reports whether the core can run. User-mode cores always can.
func (c *Core) HasWork() bool {
	return true
}

// ExceptionIndex returns the pending exception, or ExcpNone.
func (c *Core) ExceptionIndex() int {
	return c.excp
}

// LastException returns the exception that ended the most recent Start.
func (c *Core) LastException() int {
	return c.lastExcp
}

type coreContext struct {
	regs       []uint64
	pred       [NumPregs]uint8
	stackStart uint32
}

// ContextSave snapshots the register file and predicates, not memory.
func (c *Core) ContextSave(reuse interface{}) (interface{}, error) {
	var ctx *coreContext
	var regs interface{}
	if reuse != nil {
		var ok bool
		if ctx, ok = reuse.(*coreContext); !ok {
			return nil, errors.Errorf("incorrect context type %T", reuse)
		}
		regs = ctx.regs
	} else {
		ctx = &coreContext{}
	}
	saved, err := c.Regs.ContextSave(regs)
	if err != nil {
		return nil, err
	}
	ctx.regs = saved.([]uint64)
	ctx.pred, ctx.stackStart = c.Pred, c.StackStart
	return ctx, nil
}

func (c *Core) ContextRestore(ctx interface{}) error {
	cc, ok := ctx.(*coreContext)
	if !ok {
		return errors.Errorf("incorrect context type %T", ctx)
	}
	if err := c.Regs.ContextRestore(cc.regs); err != nil {
		return err
	}
	c.Pred, c.StackStart = cc.pred, cc.stackStart
	return nil
}

func (c *Core) Close() error {
	if c.tbs != nil {
		c.tbs.Purge()
	}
	return nil
}
