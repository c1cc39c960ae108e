package ui

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/chzyer/readline"
	"github.com/shibukawa/configdir"

	"github.com/hexcorn/hexcorn/go/debug/cmd"
	"github.com/hexcorn/hexcorn/go/models"
)

type Repl struct {
	c   models.Core
	ctx *cmd.Context
	rl  *readline.Instance
}

func historyPath() string {
	configDirs := configdir.New("hexcorn", "repl")
	cacheDir := configDirs.QueryCacheFolder()
	if err := cacheDir.MkdirAll(); err != nil {
		return ""
	}
	return filepath.Join(cacheDir.Path, "history")
}

func NewRepl(c models.Core, color bool) (*Repl, error) {
	rl, err := readline.NewEx(&readline.Config{
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
		HistoryFile:     historyPath(),
		AutoComplete:    newCompleter(cmd.Names(), c.Arch().RegNames()),
	})
	if err != nil {
		return nil, err
	}
	ctx := cmd.NewContext(c, rl.Stdout())
	ctx.Color = color
	return &Repl{c: c, ctx: ctx, rl: rl}, nil
}

func (r *Repl) setPrompt() {
	r.rl.SetPrompt(fmt.Sprintf("%#x> ", r.c.PC()))
}

// Run reads commands until quit or end of input. It returns the requested exit status, if any.
func (r *Repl) Run() error {
	defer r.rl.Close()
	for {
		r.setPrompt()
		line, err := r.rl.Readline()
		if err == readline.ErrInterrupt {
			r.c.Stop()
			continue
		} else if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
		if err := cmd.Run(r.ctx, line); err != nil {
			return err
		}
	}
}
