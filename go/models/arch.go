package models

import (
	"fmt"
	"sort"

	"github.com/lunixbochs/fvbommel-util/sortorder"
)

type Reg struct {
	Enum    int
	Name    string
	Default bool
}

type RegVal struct {
	Reg
	Val uint64
}

type regList []Reg

func (r regList) Len() int           { return len(r) }
func (r regList) Swap(i, j int)      { r[i], r[j] = r[j], r[i] }
func (r regList) Less(i, j int) bool { return sortorder.NaturalLess(r[i].Name, r[j].Name) }

type regMap map[int]string

func (r regMap) Items() regList {
	ret := make(regList, 0, len(r))
	for e, n := range r {
		ret = append(ret, Reg{Enum: e, Name: n})
	}
	return ret
}

// Arch describes a guest architecture and how to select and build its cores.
type Arch struct {
	Name string
	Bits int
	PC   int
	SP   int
	Regs regMap
	// shown by default in status diffs
	DefaultRegs []string

	// debugger register description
	GdbXml                  string
	GdbNumCoreRegs          int
	GdbStopBeforeWatchpoint bool

	ExcpName func(excp int) string

	// Root is the abstract type every core of this architecture derives from.
	Root        *CoreType
	ClassByName func(model string) (*CoreType, error)
	New         func(t *CoreType, config *Config) (Core, error)

	// sorted for RegDump
	regList regList
}

func (a *Arch) String() string {
	return fmt.Sprintf("<Arch %s>", a.Name)
}

// RegNames returns register names in natural order.
func (a *Arch) RegNames() []string {
	rl := a.sorted()
	ret := make([]string, len(rl))
	for i, r := range rl {
		ret[i] = r.Name
	}
	return ret
}

// RegEnum looks up a register number by name.
func (a *Arch) RegEnum(name string) (int, bool) {
	for _, r := range a.sorted() {
		if r.Name == name {
			return r.Enum, true
		}
	}
	return 0, false
}

func (a *Arch) sorted() regList {
	if a.regList == nil {
		rl := a.Regs.Items()
		sort.Sort(rl)
		defaults := make(map[string]bool, len(a.DefaultRegs))
		for _, name := range a.DefaultRegs {
			defaults[name] = true
		}
		for i := range rl {
			rl[i].Default = defaults[rl[i].Name]
		}
		a.regList = rl
	}
	return a.regList
}

type regReader interface {
	RegRead(enum int) (uint64, error)
}

func (a *Arch) RegDump(r regReader) ([]RegVal, error) {
	rl := a.sorted()
	ret := make([]RegVal, len(rl))
	for i, reg := range rl {
		val, err := r.RegRead(reg.Enum)
		if err != nil {
			return nil, err
		}
		ret[i] = RegVal{reg, val}
	}
	return ret, nil
}
