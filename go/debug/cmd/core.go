package cmd

import (
	"io/ioutil"

	"github.com/hexcorn/hexcorn/go/models"
)

var RunCmd = cmd(&Command{
	Name:  "run",
	Desc:  "Run from pc until the address is reached or an exception is raised.",
	Usage: "<until>",
	Run: func(c *Context, until uint64) error {
		if err := c.C.Start(c.C.PC(), until); err != nil {
			return err
		}
		c.Printf("stopped at 0x%x: %s\n", c.C.PC(), c.excpName(c.C.LastException()))
		return nil
	},
})

var ExecCmd = cmd(&Command{
	Name: "exec",
	Desc: "Run from pc until an exception is raised.",
	Run: func(c *Context) error {
		excp, err := c.C.Exec()
		if err != nil {
			return err
		}
		c.Printf("stopped at 0x%x: %s\n", c.C.PC(), c.excpName(excp))
		return nil
	},
})

var ResetCmd = cmd(&Command{
	Name: "reset",
	Desc: "Reset the core.",
	Run: func(c *Context) error {
		c.C.Reset()
		return nil
	},
})

var SaveCmd = cmd(&Command{
	Name:  "save",
	Desc:  "Write a savestate.",
	Usage: "<file>",
	Run: func(c *Context, path string) error {
		state, err := c.C.SaveState()
		if err != nil {
			return err
		}
		return ioutil.WriteFile(path, state, 0644)
	},
})

var LoadCmd = cmd(&Command{
	Name:  "load",
	Desc:  "Restore a savestate.",
	Usage: "<file>",
	Run: func(c *Context, path string) error {
		state, err := ioutil.ReadFile(path)
		if err != nil {
			return err
		}
		return c.C.LoadState(state)
	},
})

var HelpCmd = cmd(&Command{
	Name: "help",
	Desc: "List commands.",
	Run: func(c *Context) error {
		for _, name := range Names() {
			cmd := Commands[name]
			c.Printf("  %-6s %-18s %s\n", name, cmd.Usage, cmd.Desc)
		}
		return nil
	},
})

var QuitCmd = cmd(&Command{
	Name: "quit",
	Desc: "Exit.",
	Run: func(c *Context) error {
		return models.ExitStatus(0)
	},
})
