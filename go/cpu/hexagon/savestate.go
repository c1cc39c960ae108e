package hexagon

import (
	"bytes"
	"io"

	"github.com/pkg/errors"

	"github.com/hexcorn/hexcorn/go/models"
)

type stateHeader struct {
	ArchLen int `struc:"uint32,sizeof=Arch"`
	Arch    string
	TypeLen int `struc:"uint32,sizeof=Type"`
	Type    string
}

type stateReg struct {
	Enum uint32
	Val  uint64
}

type stateExtra struct {
	Preds      uint32
	StackStart uint32
}

type stateMap struct {
	Addr uint64
	Size uint64
	Prot uint32
}

// SaveState snapshots registers, predicates, the stack start and all mapped memory.
func (c *Core) SaveState() ([]byte, error) {
	var buf bytes.Buffer
	s := models.NewSavestate(&buf)
	hdr := &stateHeader{Type: c.typ.Name}
	if c.arch != nil {
		hdr.Arch = c.arch.Name
	}
	if err := s.Pack(hdr, uint32(c.Regs.Count())); err != nil {
		return nil, err
	}
	for i := 0; i < c.Regs.Count(); i++ {
		if err := s.Pack(&stateReg{uint32(i), c.Regs.Get(i)}); err != nil {
			return nil, err
		}
	}
	if err := s.Pack(&stateExtra{c.ReadP3_0(), c.StackStart}); err != nil {
		return nil, err
	}
	mappings := c.Mappings()
	if err := s.Pack(uint64(len(mappings))); err != nil {
		return nil, err
	}
	for _, m := range mappings {
		if err := s.Pack(&stateMap{m.Addr, m.Size, uint32(m.Prot)}); err != nil {
			return nil, err
		}
		buf.Write(m.Data)
	}
	return models.SealSavestate(buf.Bytes())
}

// LoadState replaces the core's registers and memory with a snapshot taken by SaveState
// from a core of the same type.
func (c *Core) LoadState(state []byte) error {
	body, err := models.OpenSavestate(state)
	if err != nil {
		return err
	}
	buf := bytes.NewBuffer(body)
	s := models.NewSavestate(buf)
	bad := func(err error, what string) error {
		return errors.Wrapf(models.ErrBadSavestate, "%s: %v", what, err)
	}

	var hdr stateHeader
	var count uint32
	if err := s.Unpack(&hdr, &count); err != nil {
		return bad(err, "header")
	}
	if hdr.Type != c.typ.Name || c.arch != nil && hdr.Arch != c.arch.Name {
		return errors.Errorf("savestate is for %s/%s, core is %s", hdr.Arch, hdr.Type, c.typ.Name)
	}
	if int(count) != c.Regs.Count() {
		return errors.Wrapf(models.ErrBadSavestate, "%d registers, expecting %d", count, c.Regs.Count())
	}
	regs := make([]uint64, count)
	for range regs {
		var r stateReg
		if err := s.Unpack(&r); err != nil {
			return bad(err, "registers")
		}
		if r.Enum >= count {
			return errors.Wrapf(models.ErrBadSavestate, "register %d out of range", r.Enum)
		}
		regs[r.Enum] = r.Val
	}
	var extra stateExtra
	var nmaps uint64
	if err := s.Unpack(&extra, &nmaps); err != nil {
		return bad(err, "core state")
	}
	type mapping struct {
		stateMap
		data []byte
	}
	var maps []mapping
	for i := uint64(0); i < nmaps; i++ {
		var m mapping
		if err := s.Unpack(&m.stateMap); err != nil {
			return bad(err, "mappings")
		}
		if m.Size > uint64(buf.Len()) {
			return errors.Wrapf(models.ErrBadSavestate, "mapping at %#x truncated", m.Addr)
		}
		m.data = make([]byte, m.Size)
		if _, err := io.ReadFull(buf, m.data); err != nil {
			return bad(err, "memory")
		}
		maps = append(maps, m)
	}

	// everything parsed, now apply
	if err := c.Regs.ContextRestore(regs); err != nil {
		return err
	}
	c.WriteP3_0(extra.Preds)
	c.StackStart = extra.StackStart
	for _, m := range c.Mappings() {
		if err := c.MemUnmap(m.Addr, m.Size); err != nil {
			return err
		}
	}
	for _, m := range maps {
		if err := c.MemMapProt(m.Addr, m.Size, int(m.Prot)); err != nil {
			return err
		}
		if err := c.MemWrite(m.Addr, m.data); err != nil {
			return err
		}
	}
	c.FlushTBs()
	return nil
}
