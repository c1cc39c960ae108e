package cpu

import (
	"fmt"
	"sort"
)

// MemError describes a guest access that hit an unmapped or protected page.
type MemError struct {
	Addr   uint64
	Size   int
	Enum   int
	Access Access
}

func (m *MemError) Error() string {
	reason := "memory error"
	switch m.Enum {
	case MEM_WRITE_UNMAPPED:
		reason = "unmapped write"
	case MEM_READ_UNMAPPED:
		reason = "unmapped read"
	case MEM_FETCH_UNMAPPED:
		reason = "unmapped fetch"
	case MEM_WRITE_PROT:
		reason = "protected write"
	case MEM_READ_PROT:
		reason = "protected read"
	case MEM_FETCH_PROT:
		reason = "protected exec"
	}
	return fmt.Sprintf("%s at %#x(%d)", reason, m.Addr, m.Size)
}

func newMemError(access Access, addr uint64, size int, mapped bool) *MemError {
	e := &MemError{Addr: addr, Size: size, Access: access}
	switch access {
	case MEM_FETCH:
		e.Enum = MEM_FETCH_PROT
		if !mapped {
			e.Enum = MEM_FETCH_UNMAPPED
		}
	case MEM_WRITE:
		e.Enum = MEM_WRITE_PROT
		if !mapped {
			e.Enum = MEM_WRITE_UNMAPPED
		}
	default:
		e.Enum = MEM_READ_PROT
		if !mapped {
			e.Enum = MEM_READ_UNMAPPED
		}
	}
	return e
}

// MemSim is a sorted list of non-overlapping guest regions.
type MemSim struct {
	Mem Pages
}

// Checks whether the address range is entirely mapped.
// If prot > 0, also checks that every region carries the whole protection mask.
func (m *MemSim) RangeValid(addr, size uint64, prot int) (mapGood bool, protGood bool) {
	first := m.Mem.bsearch(addr)
	if first == -1 {
		return false, false
	}
	protGood = true
	end := addr + size
	for _, mm := range m.Mem[first:] {
		if !mm.Contains(addr) {
			break
		}
		if prot > 0 && mm.Prot&prot != prot {
			protGood = false
		}
		addr = mm.Addr + mm.Size
		if addr >= end {
			break
		}
	}
	return addr >= end, protGood
}

// Maps a zeroed region, replacing anything it overlaps.
func (m *MemSim) Map(addr, size uint64, prot int) *Page {
	m.Unmap(addr, size)
	page := &Page{Addr: addr, Size: size, Prot: prot, Data: make([]byte, size)}
	m.Mem = append(m.Mem, page)
	sort.Sort(m.Mem)
	return page
}

// Prot re-protects the mapped parts of addr:addr+size, splitting regions at the edges.
func (m *MemSim) Prot(addr, size uint64, prot int) {
	m.rewrite(addr, size, func(mid *Page) *Page {
		mid.Prot = prot
		return mid
	})
}

func (m *MemSim) Unmap(addr, size uint64) {
	m.rewrite(addr, size, func(*Page) *Page { return nil })
}

func (m *MemSim) rewrite(addr, size uint64, fn func(mid *Page) *Page) {
	tmp := make(Pages, 0, len(m.Mem)+2)
	for _, mm := range m.Mem {
		left, mid, right := mm.cut(addr, size)
		if mid == mm {
			tmp = append(tmp, mm)
			continue
		}
		if left != nil {
			tmp = append(tmp, left)
		}
		if mid = fn(mid); mid != nil {
			tmp = append(tmp, mid)
		}
		if right != nil {
			tmp = append(tmp, right)
		}
	}
	m.Mem = tmp
}

func (m *MemSim) check(access Access, addr uint64, n int, prot int) error {
	if gmap, gprot := m.RangeValid(addr, uint64(n), prot); !gmap {
		return newMemError(access, addr, n, false)
	} else if !gprot {
		return newMemError(access, addr, n, true)
	}
	return nil
}

// Read fills p from guest memory. prot == 0 skips protection checks (debugger access).
func (m *MemSim) Read(addr uint64, p []byte, prot int) error {
	access := MEM_READ
	if prot&PROT_EXEC != 0 {
		access = MEM_FETCH
	}
	if err := m.check(access, addr, len(p), prot); err != nil {
		return err
	}
	for i := m.Mem.bsearch(addr); len(p) > 0; i++ {
		mm := m.Mem[i]
		n := copy(p, mm.Data[addr-mm.Addr:])
		addr, p = addr+uint64(n), p[n:]
	}
	return nil
}

func (m *MemSim) Write(addr uint64, p []byte, prot int) error {
	if err := m.check(MEM_WRITE, addr, len(p), prot); err != nil {
		return err
	}
	for i := m.Mem.bsearch(addr); len(p) > 0; i++ {
		mm := m.Mem[i]
		n := copy(mm.Data[addr-mm.Addr:], p)
		addr, p = addr+uint64(n), p[n:]
	}
	return nil
}
