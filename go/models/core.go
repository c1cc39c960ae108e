package models

import (
	"io"

	"github.com/hexcorn/hexcorn/go/models/cpu"
)

// Core is a realized guest core as seen by debuggers and front ends.
type Core interface {
	cpu.Cpu
	Instance

	Arch() *Arch
	Config() *Config
	Mappings() cpu.Pages

	PC() uint64
	SetPC(pc uint64)
	Reset()
	// Exec runs translated blocks until an exception or a stop request.
	// Guest exceptions are returned as an index, never as an error.
	Exec() (int, error)
	// LastException is the exception that ended the last Start.
	LastException() int

	Dump(w io.Writer)
	RegDump() ([]RegVal, error)
	ReadRegister(n int) ([]byte, error)
	WriteRegister(n int, p []byte) (int, error)

	SaveState() ([]byte, error)
	LoadState(data []byte) error
}
