package cpu

// Cpu is what debuggers and front ends can do with a guest core without knowing its architecture.
type Cpu interface {
	// guest address space
	MemMapProt(addr, size uint64, prot int) error
	MemProt(addr, size uint64, prot int) error
	MemUnmap(addr, size uint64) error

	// debugger access, protections are not checked and no hooks fire
	MemRead(addr, size uint64) ([]byte, error)
	MemReadInto(p []byte, addr uint64) error
	MemWrite(addr uint64, p []byte) error

	RegRead(reg int) (uint64, error)
	RegWrite(reg int, val uint64) error

	// Start runs from begin until pc == until, an exception, or Stop.
	Start(begin, until uint64) error
	Stop() error

	HookAdd(htype int, cb interface{}, begin, end uint64, extra ...int) (Hook, error)
	HookDel(hook Hook) error

	// register snapshots; memory is not included
	ContextSave(reuse interface{}) (interface{}, error)
	ContextRestore(ctx interface{}) error

	Close() error
}
