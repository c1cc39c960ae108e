package cpu

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// wraps MemSim to make a Cpu interface-compatible memory model
type Mem struct {
	bits uint
	// methods return an error for addresses that do not fit inside mask
	mask uint64
	// Mem.hooks is set when passing *Mem to NewHooks()
	hooks *Hooks
	sim   *MemSim

	order binary.ByteOrder
}

func NewMem(bits uint, order binary.ByteOrder) *Mem {
	return &Mem{
		bits:  bits,
		mask:  ^uint64(0) >> (64 - bits),
		sim:   &MemSim{},
		order: order,
	}
}

func (m *Mem) ByteOrder() binary.ByteOrder {
	return m.order
}

func (m *Mem) MemMapProt(addr, size uint64, prot int) error {
	if (addr+size-1)&m.mask != addr+size-1 {
		return errors.New("region outside memory range")
	}
	m.sim.Map(addr, size, prot)
	return nil
}

func (m *Mem) MemProt(addr, size uint64, prot int) error {
	if mapped, _ := m.sim.RangeValid(addr, size, 0); !mapped {
		return errors.New("range not mapped")
	}
	m.sim.Prot(addr, size, prot)
	return nil
}

func (m *Mem) MemUnmap(addr, size uint64) error {
	if mapped, _ := m.sim.RangeValid(addr, size, 0); !mapped {
		return errors.New("range not mapped")
	}
	m.sim.Unmap(addr, size)
	return nil
}

func (m *Mem) Mappings() Pages {
	return m.sim.Mem
}

// MemReadInto and MemWrite ignore protections, for debuggers and loaders.
func (m *Mem) MemReadInto(p []byte, addr uint64) error {
	return m.sim.Read(addr, p, 0)
}

func (m *Mem) MemRead(addr, size uint64) ([]byte, error) {
	p := make([]byte, size)
	if err := m.MemReadInto(p, addr); err != nil {
		return nil, err
	}
	return p, nil
}

func (m *Mem) MemWrite(addr uint64, p []byte) error {
	return m.sim.Write(addr, p, 0)
}

// ReadUint performs a guest access of the given kind. Failures are returned as *MemError
// and do not trigger fault hooks: the caller decides how a fault is delivered.
func (m *Mem) ReadUint(addr uint64, size int, access Access) (uint64, error) {
	var buf [8]byte
	if size > 8 {
		return 0, errors.Errorf("ReadUint size too large: %d > 8", size)
	}
	if err := m.sim.Read(addr, buf[:size], access.Prot()); err != nil {
		return 0, err
	}
	if m.hooks != nil {
		m.hooks.OnMem(access, addr, size, 0)
	}
	return UnpackUint(m.order, size, buf[:size])
}

func (m *Mem) WriteUint(addr uint64, size int, val uint64) error {
	var buf [8]byte
	if size > 8 {
		return errors.Errorf("WriteUint size too large: %d > 8", size)
	}
	p, err := PackUint(m.order, size, buf[:0], val)
	if err != nil {
		return err
	}
	if err := m.sim.Write(addr, p, PROT_WRITE); err != nil {
		return err
	}
	if m.hooks != nil {
		m.hooks.OnMem(MEM_WRITE, addr, size, int64(val))
	}
	return nil
}
