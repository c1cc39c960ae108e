package models

import (
	"fmt"
	"strings"

	"github.com/mgutz/ansi"
	"github.com/pkg/errors"
)

// registers per line in Changes.String
const statusColumns = 4

var chSame = ansi.ColorCode("default:default")
var chNew = ansi.ColorCode("default+bu:default")

// ChangeMask is one run of hex digits that either all changed or all stayed the same.
type ChangeMask struct {
	Old, New string
	Changed  bool
}

type Change struct {
	Old, New uint64
	Enum     int
	Name     string
}

func NewChange(enum int, name string, val, oldVal uint64) *Change {
	return &Change{Old: oldVal, New: val, Enum: enum, Name: name}
}

func (c *Change) Changed() bool {
	return c.Old != c.New
}

// Mask splits the bsz-digit hex forms of the old and new values into runs of changed and unchanged digits.
func (c *Change) Mask(bsz int) []ChangeMask {
	s1 := fmt.Sprintf("%0*x", bsz, c.New)
	s2 := fmt.Sprintf("%0*x", bsz, c.Old)
	var masks []ChangeMask
	start := 0
	for i := 1; i <= len(s1); i++ {
		if i == len(s1) || (s1[i] == s2[i]) != (s1[start] == s2[start]) {
			masks = append(masks, ChangeMask{
				New:     s1[start:i],
				Old:     s2[start:i],
				Changed: s1[start] != s2[start],
			})
			start = i
		}
	}
	return masks
}

func (c *Change) String(bsz int, color bool) string {
	if !c.Changed() {
		return fmt.Sprintf(" %4s 0x%0*x", c.Name, bsz, c.New)
	}
	if !color {
		return fmt.Sprintf("+  %4s 0x%0*x", c.Name, bsz, c.New)
	}
	var b strings.Builder
	name := c.Name
	if len(name) < 4 {
		name = strings.Repeat(" ", 4-len(name)) + name
	}
	fmt.Fprintf(&b, " %s%s%s 0x", chNew, name, ansi.Reset)
	for _, mask := range c.Mask(bsz) {
		if mask.Changed {
			b.WriteString(chNew)
		} else {
			b.WriteString(chSame)
		}
		b.WriteString(mask.New)
	}
	b.WriteString(ansi.Reset)
	return b.String()
}

type Changes struct {
	// hex digits per value
	Bsz     int
	Changes []*Change
}

func (cs *Changes) String(color bool) string {
	var lines []string
	for i := 0; i < len(cs.Changes); i += statusColumns {
		end := i + statusColumns
		if end > len(cs.Changes) {
			end = len(cs.Changes)
		}
		row := make([]string, 0, statusColumns)
		for _, c := range cs.Changes[i:end] {
			row = append(row, c.String(cs.Bsz, color))
		}
		lines = append(lines, strings.Join(row, " "))
	}
	return strings.Join(lines, "\n")
}

func (cs *Changes) Changed() []*Change {
	var ret []*Change
	for _, c := range cs.Changes {
		if c.Changed() {
			ret = append(ret, c)
		}
	}
	return ret
}

func (cs *Changes) Count() int {
	return len(cs.Changed())
}

func (cs *Changes) Find(enum int) *Change {
	for _, c := range cs.Changes {
		if c.Enum == enum {
			return c
		}
	}
	return nil
}

// StatusDiff tracks register values between calls to Changes.
type StatusDiff struct {
	C       Core
	oldRegs map[int]uint64
}

// Changes compares the core's registers against the previous call.
// With onlyChanged set, only changed registers from the arch's default set are returned.
func (s *StatusDiff) Changes(onlyChanged bool) (*Changes, error) {
	regs, err := s.C.RegDump()
	if err != nil {
		return nil, errors.Wrap(err, "reading registers")
	}
	cs := &Changes{Bsz: s.C.Arch().Bits / 4}
	for _, reg := range regs {
		if onlyChanged && !reg.Default {
			continue
		}
		change := NewChange(reg.Enum, reg.Name, reg.Val, s.oldRegs[reg.Enum])
		if !onlyChanged || change.Changed() {
			cs.Changes = append(cs.Changes, change)
		}
	}
	s.oldRegs = make(map[int]uint64, len(regs))
	for _, r := range regs {
		s.oldRegs[r.Enum] = r.Val
	}
	return cs, nil
}
