package hexagon

import (
	"testing"

	"github.com/pkg/errors"

	"github.com/hexcorn/hexcorn/go/models"
)

var errNoBlock = errors.New("no block at this address")

var testArch = &models.Arch{
	Name: "hexagon",
	Bits: 32,
	PC:   RegPC,
	SP:   RegSP,
	Regs: RegMap(),
}

type translatorFunc func(c *Core, pc uint32) (*TB, error)

func (f translatorFunc) Translate(c *Core, pc uint32) (*TB, error) {
	return f(c, pc)
}

func newCore(t testing.TB, config *models.Config, tr Translator) *Core {
	t.Helper()
	typ, err := ClassByName("v67")
	if err != nil {
		t.Fatal(err, "ClassByName(v67) failed")
	}
	c, err := (&Builder{Arch: testArch, Translator: tr}).NewCore(typ, config)
	if err != nil {
		t.Fatal(err, "NewCore failed")
	}
	return c
}

func setReg(n int, v uint32) Op {
	return func(c *Core) { c.setGPR(n, v) }
}

func incReg(n int) Op {
	return func(c *Core) { c.setGPR(n, c.gpr(n)+1) }
}

func jump(pc uint32) Op {
	return func(c *Core) { c.SetPC(uint64(pc)) }
}

func trap(pc uint32) Op {
	return func(c *Core) {
		c.SetPC(uint64(pc))
		c.RaiseException(ExcpTrap0)
	}
}

// blocks maps a start PC to a function building that block
type blocks map[uint32]func(tb *TB)

func (b blocks) translator(count *int) Translator {
	return translatorFunc(func(c *Core, pc uint32) (*TB, error) {
		if count != nil {
			*count++
		}
		build, ok := b[pc]
		if !ok {
			c.Fetch(pc)
			return nil, errNoBlock
		}
		tb := NewTB(pc)
		build(tb)
		return tb, nil
	})
}
