package cpu

import (
	"github.com/pkg/errors"
)

var ErrInvalidRegister = errors.New("invalid register")

// Regs is a fixed-size register file indexed by register number.
// Values are truncated to the register width on write.
type Regs struct {
	mask uint64
	vals []uint64
}

func NewRegs(bits uint, count int) *Regs {
	return &Regs{
		mask: ^uint64(0) >> (64 - bits),
		vals: make([]uint64, count),
	}
}

func (r *Regs) Count() int {
	return len(r.vals)
}

func (r *Regs) RegRead(enum int) (uint64, error) {
	if enum < 0 || enum >= len(r.vals) {
		return 0, errors.Wrapf(ErrInvalidRegister, "register %d", enum)
	}
	return r.vals[enum], nil
}

func (r *Regs) RegWrite(enum int, val uint64) error {
	if enum < 0 || enum >= len(r.vals) {
		return errors.Wrapf(ErrInvalidRegister, "register %d", enum)
	}
	r.vals[enum] = val & r.mask
	return nil
}

// Get and Set skip bounds reporting; callers index with known register constants.
func (r *Regs) Get(enum int) uint64 {
	return r.vals[enum]
}

func (r *Regs) Set(enum int, val uint64) {
	r.vals[enum] = val & r.mask
}

// ContextSave copies the register file, reusing a previous context when one is passed.
func (r *Regs) ContextSave(reuse interface{}) (interface{}, error) {
	var s []uint64
	if reuse != nil {
		var ok bool
		if s, ok = reuse.([]uint64); !ok || len(s) != len(r.vals) {
			return nil, errors.New("incorrect context type")
		}
	} else {
		s = make([]uint64, len(r.vals))
	}
	copy(s, r.vals)
	return s, nil
}

func (r *Regs) ContextRestore(ctx interface{}) error {
	s, ok := ctx.([]uint64)
	if !ok || len(s) != len(r.vals) {
		return errors.New("incorrect context type")
	}
	copy(r.vals, s)
	return nil
}
