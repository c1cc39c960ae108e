package hexagon

import (
	"sort"
)

// Op is one host operation of a translated block.
type Op func(c *Core)

// Boundary marks the first host op of a guest instruction.
// Data holds the instruction's recovery words; Data[0] is its PC.
type Boundary struct {
	HostPos int
	Data    []uint32
}

// TB is a translated block: host ops plus the table used to recover precise state inside it.
type TB struct {
	PC   uint32
	Size uint32
	Ops  []Op

	// sorted by HostPos
	Boundaries []Boundary
}

// Translator compiles the block starting at pc.
type Translator interface {
	Translate(c *Core, pc uint32) (*TB, error)
}

// NewTB starts an empty block at pc.
func NewTB(pc uint32) *TB {
	return &TB{PC: pc}
}

// Insn records an instruction boundary at the next op.
func (tb *TB) Insn(pc uint32, size uint32) {
	tb.Boundaries = append(tb.Boundaries, Boundary{HostPos: len(tb.Ops), Data: []uint32{pc}})
	tb.Size += size
}

func (tb *TB) Emit(ops ...Op) {
	tb.Ops = append(tb.Ops, ops...)
}

// SearchPC returns the recovery data of the instruction executing at host position pos.
func (tb *TB) SearchPC(pos int) ([]uint32, bool) {
	i := sort.Search(len(tb.Boundaries), func(i int) bool { return tb.Boundaries[i].HostPos > pos })
	if i == 0 || pos < 0 || pos >= len(tb.Ops) {
		return nil, false
	}
	return tb.Boundaries[i-1].Data, true
}
