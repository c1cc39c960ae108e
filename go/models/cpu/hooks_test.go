package cpu

import (
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/pkg/errors"
)

func callAll(h *Hooks) {
	h.OnBlock(0x1000, 1)
	h.OnCode(0x1001, 2)
	h.OnIntr(3)
	h.OnMem(MEM_WRITE, 0x1002, 4, -1)
	h.OnFault(MEM_WRITE_UNMAPPED, 0x1003, 8, -2)
}

func makeHooks() (*Mem, *Hooks) {
	mem := NewMem(64, binary.LittleEndian)
	return mem, NewHooks(nil, mem)
}

// this test ensures it's safe to dispatch all hooks while empty
func TestHooksEmpty(t *testing.T) {
	_, h := makeHooks()
	callAll(h)
}

// checks if two lists of strings are equal
func strseq(a []string, b []string) error {
	if len(a) != len(b) {
		return errors.Errorf("output list length mismatch: %q != %q", a, b)
	}
	for i, v := range a {
		if v != b[i] {
			return errors.Errorf("output list value mismatch: %s != %s", v, b[i])
		}
	}
	return nil
}

type hookLog struct {
	results []string
}

func (l *hookLog) block(_ Cpu, addr uint64, size uint32) {
	l.results = append(l.results, fmt.Sprintf("block(%#x, %#x)", addr, size))
}

func (l *hookLog) code(_ Cpu, addr uint64, size uint32) {
	l.results = append(l.results, fmt.Sprintf("code(%#x, %#x)", addr, size))
}

func (l *hookLog) intr(_ Cpu, intno uint32) {
	l.results = append(l.results, fmt.Sprintf("intr(%d)", intno))
}

func (l *hookLog) mem(_ Cpu, access Access, addr uint64, size int, val int64) {
	l.results = append(l.results, fmt.Sprintf("mem(%s, %#x, %d, %#x)", access, addr, size, val))
}

func (l *hookLog) fault(_ Cpu, enum int, addr uint64, size int, val int64) bool {
	l.results = append(l.results, fmt.Sprintf("fault(%d, %#x, %d, %#x)", enum, addr, size, val))
	return val == 42
}

// generic hook tests
func TestHooks(t *testing.T) {
	_, h := makeHooks()
	compare := []string{
		"block(0x1000, 0x1)", "code(0x1001, 0x2)", "intr(3)",
		"mem(store, 0x1002, 4, -0x1)", "fault(20, 0x1003, 8, -0x2)",
	}
	log := &hookLog{}
	var hooks []Hook
	addHooks := func(h *Hooks) {
		add := []struct {
			htype int
			cb    interface{}
		}{
			{HOOK_BLOCK, log.block},
			{HOOK_CODE, log.code},
			{HOOK_INTR, log.intr},
			{HOOK_MEM_WRITE, log.mem},
			{HOOK_MEM_ERR, log.fault},
		}
		for _, v := range add {
			hh, err := h.HookAdd(v.htype, v.cb, 1, 0)
			if err != nil {
				t.Fatal(err)
			}
			hooks = append(hooks, hh)
		}
	}
	removeHooks := func(h *Hooks) {
		for _, v := range hooks {
			if err := h.HookDel(v); err != nil {
				t.Fatal(err)
			}
		}
		hooks = nil
	}
	// test add, call
	addHooks(h)
	callAll(h)
	if err := strseq(log.results, compare); err != nil {
		t.Fatal(err)
	}
	log.results = nil

	// test remove, add, remove, add, call
	removeHooks(h)
	addHooks(h)
	removeHooks(h)
	addHooks(h)
	callAll(h)
	if err := strseq(log.results, compare); err != nil {
		t.Fatal(err)
	}
	log.results = nil

	// test remove, remove, add, add, call
	removeHooks(h)
	removeHooks(h)
	addHooks(h)
	addHooks(h)
	callAll(h)

	compare2 := make([]string, 0, len(compare)*2)
	for _, v := range compare {
		compare2 = append(append(compare2, v), v)
	}
	if err := strseq(log.results, compare2); err != nil {
		t.Fatal(err)
	}
	log.results = nil

	if h.OnFault(MEM_WRITE_UNMAPPED, 0, 0, 42) != true {
		t.Fatal("OnFault positive return does not seem to work")
	}
	if h.OnFault(MEM_WRITE_UNMAPPED, 0, 0, 0) != false {
		t.Fatal("OnFault negative return does not seem to work")
	}
}

func TestHookBadCallback(t *testing.T) {
	_, h := makeHooks()
	if _, err := h.HookAdd(HOOK_CODE, func() {}, 1, 0); err == nil {
		t.Fatal("HookAdd accepted a callback with the wrong signature")
	}
	if _, err := h.HookAdd(0x7fff0000, func() {}, 1, 0); err == nil {
		t.Fatal("HookAdd accepted an unknown hook type")
	}
	if err := h.HookDel(42); err == nil {
		t.Fatal("HookDel accepted a non-hook")
	}
}

// memory hooks only fire for the access kinds they were registered for
func TestHookMemFilter(t *testing.T) {
	mem, h := makeHooks()
	log := &hookLog{}
	if _, err := h.HookAdd(HOOK_MEM_READ, log.mem, 1, 0); err != nil {
		t.Fatal(err)
	}
	if err := mem.MemMapProt(0x1000, 0x1000, PROT_ALL); err != nil {
		t.Fatal(err)
	}
	if err := mem.WriteUint(0x1000, 4, 0x1234); err != nil {
		t.Fatal(err)
	}
	if _, err := mem.ReadUint(0x1000, 4, MEM_READ); err != nil {
		t.Fatal(err)
	}
	if _, err := mem.ReadUint(0x1000, 4, MEM_FETCH); err != nil {
		t.Fatal(err)
	}
	if err := strseq(log.results, []string{"mem(load, 0x1000, 4, 0x0)"}); err != nil {
		t.Fatal(err)
	}
}

// positive and negative tests for each hook type with start-end range enabled
func TestHookRange(t *testing.T) {
	_, h := makeHooks()
	// we should get 0x1000-0x1fff results, but not the 0x0 or 0x2000 results
	compare := []string{
		"block(0x1000, 0x1)", "code(0x1000, 0x1)",
		"mem(store, 0x1000, 8, 0x0)", "fault(20, 0x1000, 8, 0x0)",
		"block(0x1fff, 0x1)",
	}
	log := &hookLog{}
	if _, err := h.HookAdd(HOOK_BLOCK, log.block, 0x1000, 0x1fff); err != nil {
		t.Fatal(err)
	}
	if _, err := h.HookAdd(HOOK_CODE, log.code, 0x1000, 0x1fff); err != nil {
		t.Fatal(err)
	}
	if _, err := h.HookAdd(HOOK_MEM_WRITE, log.mem, 0x1000, 0x1fff); err != nil {
		t.Fatal(err)
	}
	if _, err := h.HookAdd(HOOK_MEM_ERR, log.fault, 0x1000, 0x1fff); err != nil {
		t.Fatal(err)
	}
	for addr := uint64(0); addr < 0x4000; addr += 0x1000 {
		h.OnBlock(addr, 1)
		h.OnCode(addr, 1)
		h.OnMem(MEM_WRITE, addr, 8, 0)
		h.OnFault(MEM_WRITE_UNMAPPED, addr, 8, 0)
	}
	h.OnBlock(0x1fff, 1)
	if err := strseq(log.results, compare); err != nil {
		t.Fatal(err)
	}
}

func BenchmarkHook(b *testing.B) {
	_, h := makeHooks()
	codeCb := func(_ Cpu, addr uint64, size uint32) {}
	if _, err := h.HookAdd(HOOK_CODE, codeCb, 0x1000, 0x1fff); err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h.OnCode(0x1000, 1)
	}
}
