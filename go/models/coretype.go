package models

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

var ErrCoreNotFound = errors.New("core type not found")
var ErrAbstractType = errors.New("cannot instantiate abstract core type")

// Instance is the view of a core the lifecycle hooks run against.
type Instance interface {
	Type() *CoreType
	Realized() bool
	// ExecRealize registers the core with its execution engine and marks it realized.
	ExecRealize() error
	// ResetCommon clears the pending exception and any halt or stop request.
	ResetCommon()
}

// CoreType is one node of the core type hierarchy. Leaves are concrete, inner nodes are abstract.
// Any hook may be nil.
type CoreType struct {
	Name     string
	Parent   *CoreType
	Abstract bool

	Init    func(c Instance) error
	Realize func(c Instance) error
	Reset   func(c Instance)
}

func (t *CoreType) String() string {
	return t.Name
}

// root first
func (t *CoreType) lineage() []*CoreType {
	var ret []*CoreType
	for p := t; p != nil; p = p.Parent {
		ret = append(ret, p)
	}
	for i, j := 0, len(ret)-1; i < j; i, j = i+1, j-1 {
		ret[i], ret[j] = ret[j], ret[i]
	}
	return ret
}

var coreTypes = make(map[string]*CoreType)

// RegisterTypes adds types to the process-wide registry. Call it from package init only.
func RegisterTypes(types ...*CoreType) {
	for _, t := range types {
		if _, ok := coreTypes[t.Name]; ok {
			panic("Duplicate core type " + t.Name)
		}
		if t.Parent != nil && coreTypes[t.Parent.Name] != t.Parent {
			panic("Core type " + t.Name + " registered before its parent " + t.Parent.Name)
		}
		coreTypes[t.Name] = t
	}
}

func LookupType(name string) (*CoreType, bool) {
	t, ok := coreTypes[name]
	return t, ok
}

// IsSubtype reports whether t is ancestor or derives from it.
func IsSubtype(t, ancestor *CoreType) bool {
	for p := t; p != nil; p = p.Parent {
		if p == ancestor {
			return true
		}
	}
	return false
}

// ConcreteTypes lists the names of every instantiable subtype of ancestor.
func ConcreteTypes(ancestor *CoreType) []string {
	var names []string
	for name, t := range coreTypes {
		if !t.Abstract && IsSubtype(t, ancestor) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// InitChain runs instance init hooks from the root down to the core's own type.
func InitChain(c Instance) error {
	for _, t := range c.Type().lineage() {
		if t.Init != nil {
			if err := t.Init(c); err != nil {
				return errors.Wrapf(err, "%s init", t.Name)
			}
		}
	}
	return nil
}

// RealizeChain runs realize hooks from the core's own type up to the root.
// It stops at the first failure; the caller must then discard the core.
func RealizeChain(c Instance) error {
	if c.Realized() {
		return errors.Errorf("%s: already realized", c.Type().Name)
	}
	for t := c.Type(); t != nil; t = t.Parent {
		if t.Realize != nil {
			if err := t.Realize(c); err != nil {
				return errors.Wrapf(err, "%s realize", t.Name)
			}
		}
	}
	return nil
}

// ResetChain runs reset hooks from the root down to the core's own type.
func ResetChain(c Instance) {
	for _, t := range c.Type().lineage() {
		if t.Reset != nil {
			t.Reset(c)
		}
	}
}

// RootCore carries the behavior every core shares.
var RootCore = &CoreType{
	Name:     "cpu",
	Abstract: true,
	Realize: func(c Instance) error {
		if err := c.ExecRealize(); err != nil {
			return err
		}
		ResetChain(c)
		return nil
	},
	Reset: func(c Instance) {
		c.ResetCommon()
	},
}

func init() {
	RegisterTypes(RootCore)
}
