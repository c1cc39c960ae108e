package cpu

import "fmt"

// hook types keep unicorn's numbering so existing callers keep working
const (
	// hook CPU interrupts
	HOOK_INTR = 1

	// hook each guest instruction boundary
	HOOK_CODE = 4

	// hook each translated block entry
	HOOK_BLOCK = 8

	// hook (after) each successful memory access
	HOOK_MEM_READ  = 1024
	HOOK_MEM_WRITE = 2048
	HOOK_MEM_FETCH = 4096

	// hook all memory errors
	HOOK_MEM_ERR = 1008
)

// Access is the kind of a guest memory access.
type Access int

const (
	MEM_WRITE Access = 16
	MEM_READ  Access = 17
	MEM_FETCH Access = 18
)

func (a Access) String() string {
	switch a {
	case MEM_WRITE:
		return "store"
	case MEM_READ:
		return "load"
	case MEM_FETCH:
		return "fetch"
	}
	return fmt.Sprintf("access(%d)", int(a))
}

// these errors are used for HOOK_MEM_ERR
const (
	MEM_READ_UNMAPPED  = 19
	MEM_WRITE_UNMAPPED = 20
	MEM_FETCH_UNMAPPED = 21
	MEM_WRITE_PROT     = 12
	MEM_READ_PROT      = 13
	MEM_FETCH_PROT     = 14
)

// page protections
const (
	PROT_NONE  = 0
	PROT_READ  = 1
	PROT_WRITE = 2
	PROT_EXEC  = 4
	PROT_ALL   = 7
)

// protection an access of this kind needs
func (a Access) Prot() int {
	switch a {
	case MEM_WRITE:
		return PROT_WRITE
	case MEM_FETCH:
		return PROT_EXEC
	}
	return PROT_READ
}
