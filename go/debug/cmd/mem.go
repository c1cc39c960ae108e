package cmd

import (
	"github.com/hexcorn/hexcorn/go/models"
)

var MapsCmd = cmd(&Command{
	Name: "maps",
	Desc: "Display memory mappings.",
	Run: func(c *Context) error {
		for _, m := range c.C.Mappings() {
			c.Printf("  %v\n", m.String())
		}
		return nil
	},
})

var MemCmd = cmd(&Command{
	Name:  "mem",
	Desc:  "Read memory.",
	Usage: "<addr> <size>",
	Run: func(c *Context, addr, size uint64) error {
		mem, err := c.C.MemRead(addr, size)
		if err != nil {
			return err
		}
		for _, line := range models.HexDump(addr, mem, c.C.Arch().Bits) {
			c.Printf("  %s\n", line)
		}
		return nil
	},
})
