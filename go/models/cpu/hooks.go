package cpu

import (
	"github.com/pkg/errors"
)

type Hook interface{}

type hookInfo struct {
	htype int
	start uint64
	end   uint64
}

func (h *hookInfo) Type() int {
	return h.htype
}

// start > end means the hook covers every address
func (h *hookInfo) Contains(addr uint64) bool {
	return h.start > h.end || addr >= h.start && addr <= h.end
}

type hinfo interface {
	Type() int
}

type codeHook struct {
	hookInfo
	cb func(Cpu, uint64, uint32)
}

type intrHook struct {
	hookInfo
	cb func(Cpu, uint32)
}

type memHook struct {
	hookInfo
	cb func(Cpu, Access, uint64, int, int64)
}

type memFaultHook struct {
	hookInfo
	cb func(Cpu, int, uint64, int, int64) bool
}

// Hooks dispatches guest events to registered callbacks.
type Hooks struct {
	cpu Cpu

	code     []*codeHook
	block    []*codeHook
	intr     []*intrHook
	mem      []*memHook
	memFault []*memFaultHook
}

// NewHooks creates a hook table, optionally attaching it to a *Mem so successful
// guest accesses fire HOOK_MEM_* callbacks.
func NewHooks(cpu Cpu, mem *Mem) *Hooks {
	h := &Hooks{cpu: cpu}
	if mem != nil {
		mem.hooks = h
	}
	return h
}

func (h *Hooks) HookAdd(htype int, cb interface{}, start uint64, end uint64, extra ...int) (Hook, error) {
	info := hookInfo{htype, start, end}
	var hook Hook
	var ok bool
	switch htype {
	case HOOK_BLOCK, HOOK_CODE:
		var fn func(Cpu, uint64, uint32)
		if fn, ok = cb.(func(Cpu, uint64, uint32)); ok {
			hh := &codeHook{info, fn}
			if htype == HOOK_BLOCK {
				h.block = append(h.block, hh)
			} else {
				h.code = append(h.code, hh)
			}
			hook = hh
		}

	case HOOK_INTR:
		var fn func(Cpu, uint32)
		if fn, ok = cb.(func(Cpu, uint32)); ok {
			hh := &intrHook{info, fn}
			h.intr, hook = append(h.intr, hh), hh
		}

	case HOOK_MEM_READ, HOOK_MEM_WRITE, HOOK_MEM_FETCH, HOOK_MEM_READ | HOOK_MEM_WRITE:
		var fn func(Cpu, Access, uint64, int, int64)
		if fn, ok = cb.(func(Cpu, Access, uint64, int, int64)); ok {
			hh := &memHook{info, fn}
			h.mem, hook = append(h.mem, hh), hh
		}

	case HOOK_MEM_ERR:
		var fn func(Cpu, int, uint64, int, int64) bool
		if fn, ok = cb.(func(Cpu, int, uint64, int, int64) bool); ok {
			hh := &memFaultHook{info, fn}
			h.memFault, hook = append(h.memFault, hh), hh
		}

	default:
		return nil, errors.Errorf("unknown hook type %d", htype)
	}
	if !ok {
		return nil, errors.Errorf("wrong callback type %T for hook type %d", cb, htype)
	}
	return hook, nil
}

func without[T any](list []*T, hh Hook) []*T {
	var tmp []*T
	for _, v := range list {
		if Hook(v) != hh {
			tmp = append(tmp, v)
		}
	}
	return tmp
}

func (h *Hooks) HookDel(hh Hook) error {
	info, ok := hh.(hinfo)
	if !ok {
		return errors.Errorf("not a hook: %T", hh)
	}
	switch info.Type() {
	case HOOK_BLOCK:
		h.block = without(h.block, hh)
	case HOOK_CODE:
		h.code = without(h.code, hh)
	case HOOK_INTR:
		h.intr = without(h.intr, hh)
	case HOOK_MEM_ERR:
		h.memFault = without(h.memFault, hh)
	default:
		h.mem = without(h.mem, hh)
	}
	return nil
}

func (h *Hooks) OnBlock(addr uint64, size uint32) {
	for _, v := range h.block {
		if v.Contains(addr) {
			v.cb(h.cpu, addr, size)
		}
	}
}

func (h *Hooks) OnCode(addr uint64, size uint32) {
	for _, v := range h.code {
		if v.Contains(addr) {
			v.cb(h.cpu, addr, size)
		}
	}
}

func (h *Hooks) OnIntr(intno uint32) {
	for _, v := range h.intr {
		v.cb(h.cpu, intno)
	}
}

func (h *Hooks) OnMem(access Access, addr uint64, size int, val int64) {
	want := HOOK_MEM_READ
	switch access {
	case MEM_WRITE:
		want = HOOK_MEM_WRITE
	case MEM_FETCH:
		want = HOOK_MEM_FETCH
	}
	for _, v := range h.mem {
		if v.htype&want != 0 && v.Contains(addr) {
			v.cb(h.cpu, access, addr, size, val)
		}
	}
}

// OnFault offers a fault to each HOOK_MEM_ERR callback in order.
// It returns true as soon as one reports the fault handled.
func (h *Hooks) OnFault(enum int, addr uint64, size int, val int64) bool {
	for _, v := range h.memFault {
		if v.Contains(addr) && v.cb(h.cpu, enum, addr, size, val) {
			return true
		}
	}
	return false
}
