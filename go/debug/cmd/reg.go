package cmd

import (
	"regexp"
	"strconv"

	"github.com/pkg/errors"
)

var strEqNumRe = regexp.MustCompile(`^([a-zA-Z0-9_]+)=((-|0|0x|0b)?[0-9a-fA-F]+)$`)

var RegCmd = cmd(&Command{
	Name:  "reg",
	Desc:  "Read/write regs.",
	Usage: "[name[=value]...]",
	Run: func(c *Context, args []string) error {
		if len(args) == 0 {
			regs, err := c.C.RegDump()
			if err != nil {
				return err
			}
			for _, reg := range regs {
				c.Printf("%s 0x%x\n", reg.Name, reg.Val)
			}
			return nil
		}
		bits := c.C.Arch().Bits
		for _, v := range args {
			reg := v
			var value uint64
			match := strEqNumRe.FindStringSubmatch(v)
			if len(match) > 0 {
				reg = match[1]
				var err error
				if match[2][0] == '-' {
					var n int64
					n, err = strconv.ParseInt(match[2], 0, bits)
					value = uint64(n)
				} else {
					value, err = strconv.ParseUint(match[2], 0, bits)
				}
				if err != nil {
					c.Printf("error parsing %s value: %v\n", reg, err)
					continue
				}
			}
			enum, ok := c.C.Arch().RegEnum(reg)
			if !ok {
				c.Printf("reg %s not found\n", reg)
				continue
			}
			if len(match) > 0 {
				if err := c.C.RegWrite(enum, value); err != nil {
					c.Printf("%s: %v\n", v, err)
				}
			} else {
				val, _ := c.C.RegRead(enum)
				c.Printf("%s 0x%x\n", reg, val)
			}
		}
		return nil
	},
})

var DumpCmd = cmd(&Command{
	Name: "dump",
	Desc: "Print the register block in trace format.",
	Run: func(c *Context) error {
		c.C.Dump(c)
		return nil
	},
})

var DiffCmd = cmd(&Command{
	Name: "diff",
	Desc: "Show registers changed since the last diff.",
	Run: func(c *Context) error {
		changes, err := c.status.Changes(true)
		if err != nil {
			return err
		}
		if changes.Count() > 0 {
			c.Printf("%s\n", changes.String(c.Color))
		}
		return nil
	},
})

var PCCmd = cmd(&Command{
	Name:  "pc",
	Desc:  "Print or set the program counter.",
	Usage: "[addr]",
	Run: func(c *Context, args []string) error {
		switch len(args) {
		case 0:
		case 1:
			pc, err := strconv.ParseUint(args[0], 0, c.C.Arch().Bits)
			if err != nil {
				return err
			}
			c.C.SetPC(pc)
		default:
			return errors.New("usage: pc [addr]")
		}
		c.Printf("pc 0x%x\n", c.C.PC())
		return nil
	},
})
