package hexagon

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/pkg/errors"

	"github.com/hexcorn/hexcorn/go/models/cpu"
)

// ReadRegister encodes register n for the debugger, 4 bytes little-endian.
func (c *Core) ReadRegister(n int) ([]byte, error) {
	val, err := c.RegRead(n)
	if err != nil {
		return nil, err
	}
	return cpu.PackUint(binary.LittleEndian, 4, make([]byte, 0, 4), val)
}

// WriteRegister decodes a debugger value into register n and returns the bytes consumed.
func (c *Core) WriteRegister(n int, p []byte) (int, error) {
	if len(p) < 4 {
		return 0, errors.Errorf("register %d: short value (%d bytes)", n, len(p))
	}
	val, err := cpu.UnpackUint(binary.LittleEndian, 4, p)
	if err != nil {
		return 0, err
	}
	if err := c.RegWrite(n, val); err != nil {
		return 0, err
	}
	return 4, nil
}

// TargetXML describes the register file to a debugger.
func TargetXML() string {
	var b bytes.Buffer
	b.WriteString("<?xml version=\"1.0\"?>\n<!DOCTYPE target SYSTEM \"gdb-target.dtd\">\n")
	b.WriteString("<target>\n  <architecture>hexagon</architecture>\n")
	b.WriteString("  <feature name=\"org.gnu.gdb.hexagon.core\">\n")
	for i, name := range regNames {
		typ := "int"
		switch i {
		case RegSP, RegFP:
			typ = "data_ptr"
		case RegLR, RegPC:
			typ = "code_ptr"
		}
		fmt.Fprintf(&b, "    <reg name=\"%s\" bitsize=\"32\" regnum=\"%d\" type=\"%s\"/>\n", name, i, typ)
	}
	b.WriteString("  </feature>\n</target>\n")
	return b.String()
}
