package hexagon

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/hexcorn/hexcorn/go/models"
	"github.com/hexcorn/hexcorn/go/models/cpu"
)

func mustExec(t *testing.T, c *Core) int {
	t.Helper()
	excp, err := c.Exec()
	if err != nil {
		t.Fatal(err)
	}
	if c.ExceptionIndex() != ExcpNone {
		t.Fatal("Exec left an exception pending")
	}
	return excp
}

// faultBlock runs three instructions; the second one performs access on addr
func faultBlock(access func(c *Core)) blocks {
	return blocks{
		0x1000: func(tb *TB) {
			tb.Insn(0x1000, 4)
			tb.Emit(setReg(1, 1))
			tb.Insn(0x1004, 4)
			tb.Emit(access, setReg(2, 2))
			tb.Insn(0x1008, 4)
			tb.Emit(setReg(3, 3), trap(0x100c))
		},
	}
}

func TestTrap(t *testing.T) {
	c := newCore(t, nil, blocks{
		0x1000: func(tb *TB) {
			tb.Insn(0x1000, 4)
			tb.Emit(incReg(0), jump(0x1004))
		},
		0x1004: func(tb *TB) {
			tb.Insn(0x1004, 4)
			tb.Emit(incReg(0), trap(0x1008), incReg(0))
		},
	}.translator(nil))
	c.SetPC(0x1000)
	if excp := mustExec(t, c); excp != ExcpTrap0 {
		t.Fatalf("got %s, want trap0", ExcpName(excp))
	}
	if c.PC() != 0x1008 || c.gpr(0) != 2 {
		t.Fatalf("pc = %#x, r0 = %d", c.PC(), c.gpr(0))
	}
}

func TestFaults(t *testing.T) {
	tests := []struct {
		name   string
		prot   int
		access func(c *Core)
		excp   int
	}{
		{"load unmapped", -1, func(c *Core) { c.Load(0x9000, 4) }, ExcpPrivNoURead},
		{"store unmapped", -1, func(c *Core) { c.Store(0x9000, 2, 1) }, ExcpPrivNoUWrite},
		{"fetch unmapped", -1, func(c *Core) { c.Fetch(0x9000) }, ExcpFetchNoUPage},
		{"store read-only", cpu.PROT_READ, func(c *Core) { c.Store(0x9000, 4, 1) }, ExcpPrivNoUWrite},
		{"load write-only", cpu.PROT_WRITE, func(c *Core) { c.Load(0x9000, 1) }, ExcpPrivNoURead},
		{"fetch data page", cpu.PROT_READ | cpu.PROT_WRITE, func(c *Core) { c.Fetch(0x9000) }, ExcpFetchNoUPage},
	}
	for _, test := range tests {
		c := newCore(t, nil, faultBlock(test.access).translator(nil))
		if test.prot >= 0 {
			if err := c.MemMapProt(0x9000, 0x1000, test.prot); err != nil {
				t.Fatal(err)
			}
		}
		c.SetPC(0x1000)
		if excp := mustExec(t, c); excp != test.excp {
			t.Errorf("%s: got %s, want %s", test.name, ExcpName(excp), ExcpName(test.excp))
			continue
		}
		if c.PC() != 0x1004 {
			t.Errorf("%s: pc = %#x, want the faulting instruction", test.name, c.PC())
		}
		if c.gpr(1) != 1 || c.gpr(2) != 0 || c.gpr(3) != 0 {
			t.Errorf("%s: wrong ops ran: r1=%d r2=%d r3=%d", test.name, c.gpr(1), c.gpr(2), c.gpr(3))
		}
		if c.curTB != nil || c.hostPos != NoRestore {
			t.Errorf("%s: block state not cleared", test.name)
		}
	}
}

func TestMappedAccess(t *testing.T) {
	c := newCore(t, nil, faultBlock(func(c *Core) {
		c.Store(0x9000, 4, 0xdeadbeef)
		c.setGPR(4, uint32(c.Load(0x9002, 2)))
	}).translator(nil))
	if err := c.MemMapProt(0x9000, 0x1000, cpu.PROT_READ|cpu.PROT_WRITE); err != nil {
		t.Fatal(err)
	}
	c.SetPC(0x1000)
	if excp := mustExec(t, c); excp != ExcpTrap0 {
		t.Fatalf("got %s", ExcpName(excp))
	}
	if c.gpr(4) != 0xdead || c.gpr(3) != 3 {
		t.Fatalf("r4 = %#x, r3 = %d", c.gpr(4), c.gpr(3))
	}
}

func TestFetchFaultInTranslation(t *testing.T) {
	count := 0
	c := newCore(t, nil, blocks{}.translator(&count))
	c.SetPC(0x5000)
	if excp := mustExec(t, c); excp != ExcpFetchNoUPage {
		t.Fatalf("got %s", ExcpName(excp))
	}
	if c.PC() != 0x5000 || count != 1 {
		t.Fatalf("pc = %#x, %d translations", c.PC(), count)
	}
}

func TestFaultHook(t *testing.T) {
	c := newCore(t, nil, faultBlock(func(c *Core) { c.Store(0x9010, 4, 7) }).translator(nil))
	var faults []int
	_, err := c.HookAdd(cpu.HOOK_MEM_ERR, func(_ cpu.Cpu, enum int, addr uint64, size int, val int64) bool {
		faults = append(faults, enum)
		if err := c.MemMapProt(addr&^0xfff, 0x1000, cpu.PROT_READ|cpu.PROT_WRITE); err != nil {
			t.Fatal(err)
		}
		return true
	}, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	c.SetPC(0x1000)
	if excp := mustExec(t, c); excp != ExcpTrap0 {
		t.Fatalf("got %s after the hook mapped the page", ExcpName(excp))
	}
	if len(faults) != 1 || faults[0] != cpu.MEM_WRITE_UNMAPPED {
		t.Fatalf("hook saw %v", faults)
	}
	if v := c.Load(0x9010, 4); v != 7 {
		t.Fatalf("store was not retried: %#x", v)
	}
}

func TestFaultHookDeclines(t *testing.T) {
	c := newCore(t, nil, faultBlock(func(c *Core) { c.Load(0x9000, 4) }).translator(nil))
	calls := 0
	c.HookAdd(cpu.HOOK_MEM_ERR, func(cpu.Cpu, int, uint64, int, int64) bool {
		calls++
		return false
	}, 1, 0)
	c.SetPC(0x1000)
	if excp := mustExec(t, c); excp != ExcpPrivNoURead || calls != 1 {
		t.Fatalf("got %s after %d hook calls", ExcpName(excp), calls)
	}
}

func TestHostErrors(t *testing.T) {
	c := newCore(t, nil, blocks{}.translator(nil))
	if err := c.MemMapProt(0x5000, 0x1000, cpu.PROT_ALL); err != nil {
		t.Fatal(err)
	}
	c.SetPC(0x5000)
	if _, err := c.Exec(); errors.Cause(err) != errNoBlock {
		t.Fatalf("translator error not returned: %v", err)
	}

	c = newCore(t, nil, nil)
	if _, err := c.Exec(); err == nil {
		t.Fatal("ran without a translator")
	}

	c = newCore(t, nil, blocks{
		0x5000: func(tb *TB) {
			tb.Insn(0x5000, 4)
			tb.Emit(func(c *Core) { c.Load(0x5000, 16) }, setReg(1, 1))
		},
	}.translator(nil))
	if err := c.MemMapProt(0x5000, 0x1000, cpu.PROT_ALL); err != nil {
		t.Fatal(err)
	}
	c.SetPC(0x5000)
	excp, err := c.Exec()
	if err == nil || excp != ExcpNone {
		t.Fatalf("oversized load: excp %s err %v", ExcpName(excp), err)
	}
	if _, ok := errors.Cause(err).(*cpu.MemError); ok {
		t.Fatalf("oversized load reported as a guest fault: %v", err)
	}
	if c.gpr(1) != 0 {
		t.Fatal("ops after a host error ran")
	}
}

func TestForeignPanic(t *testing.T) {
	c := newCore(t, nil, blocks{
		0: func(tb *TB) {
			tb.Insn(0, 4)
			tb.Emit(func(c *Core) { panic("boom") })
		},
	}.translator(nil))
	defer func() {
		if r := recover(); r != "boom" {
			t.Fatalf("recovered %v", r)
		}
	}()
	c.Exec()
	t.Fatal("panic was swallowed")
}

func loopBlocks() blocks {
	return blocks{
		0x1000: func(tb *TB) {
			tb.Insn(0x1000, 4)
			tb.Emit(incReg(1), jump(0x1004))
		},
		0x1004: func(tb *TB) {
			tb.Insn(0x1004, 4)
			tb.Emit(incReg(2), jump(0x1000))
		},
	}
}

func TestStartUntil(t *testing.T) {
	c := newCore(t, nil, loopBlocks().translator(nil))
	if err := c.Start(0x1000, 0x1004); err != nil {
		t.Fatal(err)
	}
	if c.PC() != 0x1004 || c.gpr(1) != 1 || c.gpr(2) != 0 {
		t.Fatalf("pc = %#x, r1 = %d, r2 = %d", c.PC(), c.gpr(1), c.gpr(2))
	}
	if c.LastException() != ExcpInterrupt {
		t.Fatalf("last exception %s", ExcpName(c.LastException()))
	}
	// until only applies to Start
	if c.stopAtValid {
		t.Fatal("stop address left armed")
	}
}

func TestStop(t *testing.T) {
	c := newCore(t, nil, loopBlocks().translator(nil))
	blocks := 0
	c.HookAdd(cpu.HOOK_BLOCK, func(cc cpu.Cpu, addr uint64, size uint32) {
		blocks++
		if blocks == 5 {
			cc.Stop()
		}
	}, 1, 0)
	if err := c.Start(0x1000, 0); err != nil {
		t.Fatal(err)
	}
	if blocks != 5 || c.gpr(1) != 3 || c.gpr(2) != 2 {
		t.Fatalf("%d blocks, r1 = %d, r2 = %d", blocks, c.gpr(1), c.gpr(2))
	}
	if c.LastException() != ExcpInterrupt || c.PC() != 0x1004 {
		t.Fatalf("stopped with %s at %#x", ExcpName(c.LastException()), c.PC())
	}
}

func TestHooks(t *testing.T) {
	c := newCore(t, nil, faultBlock(nop).translator(nil))
	var code, block []uint64
	c.HookAdd(cpu.HOOK_CODE, func(_ cpu.Cpu, addr uint64, size uint32) {
		code = append(code, addr)
	}, 1, 0)
	c.HookAdd(cpu.HOOK_BLOCK, func(_ cpu.Cpu, addr uint64, size uint32) {
		block = append(block, addr, uint64(size))
	}, 1, 0)
	c.SetPC(0x1000)
	mustExec(t, c)
	if len(code) != 3 || code[0] != 0x1000 || code[1] != 0x1004 || code[2] != 0x1008 {
		t.Errorf("code hooks: %#x", code)
	}
	if len(block) != 2 || block[0] != 0x1000 || block[1] != 12 {
		t.Errorf("block hooks: %#x", block)
	}
}

func TestTBCache(t *testing.T) {
	count := 0
	c := newCore(t, nil, blocks{
		0x1000: func(tb *TB) {
			tb.Insn(0x1000, 4)
			tb.Emit(jump(0x1004))
		},
		0x1004: func(tb *TB) {
			tb.Insn(0x1004, 4)
			tb.Emit(trap(0x1000))
		},
	}.translator(&count))
	c.SetPC(0x1000)
	for i := 0; i < 3; i++ {
		mustExec(t, c)
	}
	if count != 2 || c.tbs.Len() != 2 {
		t.Fatalf("%d translations, %d cached", count, c.tbs.Len())
	}
	c.Reset()
	if c.tbs.Len() != 0 {
		t.Fatal("reset kept compiled blocks")
	}
	mustExec(t, c)
	if count != 4 {
		t.Fatalf("%d translations after reset", count)
	}
	c.FlushTBs()
	mustExec(t, c)
	if count != 6 {
		t.Fatalf("%d translations after flush", count)
	}
}

func TestTBCacheEviction(t *testing.T) {
	cfg := models.DefaultConfig()
	cfg.TBCacheSize = 1
	count := 0
	c := newCore(t, cfg, loopBlocks().translator(&count))
	blocks := 0
	c.HookAdd(cpu.HOOK_BLOCK, func(cc cpu.Cpu, addr uint64, size uint32) {
		if blocks++; blocks == 4 {
			cc.Stop()
		}
	}, 1, 0)
	if err := c.Start(0x1000, 0); err != nil {
		t.Fatal(err)
	}
	if count != 4 || c.tbs.Len() != 1 {
		t.Fatalf("%d translations, %d cached", count, c.tbs.Len())
	}
}

func TestTranslatorWrongPC(t *testing.T) {
	c := newCore(t, nil, translatorFunc(func(c *Core, pc uint32) (*TB, error) {
		return NewTB(pc + 4), nil
	}))
	if _, err := c.Exec(); err == nil {
		t.Fatal("accepted a block for the wrong pc")
	}
}

func TestTraceCPU(t *testing.T) {
	cfg := models.DefaultConfig()
	cfg.TraceCPU = true
	c := newCore(t, cfg, loopBlocks().translator(nil))
	var buf bytes.Buffer
	c.SetTraceOutput(&buf)
	if err := c.Start(0x1000, 0x1000); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Fatal("traced before running a block")
	}
	c.HookAdd(cpu.HOOK_BLOCK, func(cc cpu.Cpu, addr uint64, size uint32) {
		if addr == 0x1004 {
			cc.Stop()
		}
	}, 1, 0)
	if err := c.Start(0x1000, 0); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if n := strings.Count(out, "General Purpose Registers = {"); n != 2 {
		t.Fatalf("%d dumps", n)
	}
	if !strings.Contains(out, "  pc = 0x00001000\n") || !strings.Contains(out, "  pc = 0x00001004\n") {
		t.Fatalf("trace missing block pcs:\n%s", out)
	}
}

func TestHasWork(t *testing.T) {
	c := newCore(t, nil, nil)
	if !c.HasWork() {
		t.Fatal("user-mode core has no work")
	}
}
