package cmd

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"

	"github.com/lunixbochs/argjoy"
	"github.com/mattn/go-shellwords"
	"github.com/pkg/errors"

	"github.com/hexcorn/hexcorn/go/models"
)

// Command is one debugger command. Run is either a func(*Context, []string) error,
// which gets the raw arguments, or a func taking *Context followed by fixed typed
// arguments that are parsed from the command line.
type Command struct {
	Name  string
	Desc  string
	Usage string
	Run   interface{}
}

var Commands = make(map[string]*Command)

type rawFunc = func(*Context, []string) error

func cmd(c *Command) *Command {
	fn := reflect.ValueOf(c.Run)
	if !fn.IsValid() || fn.Kind() != reflect.Func {
		panic(fmt.Sprintf("Command.Run must be a func: got (%T) %#v\n", c.Run, c.Run))
	}
	if fn.Type().NumIn() == 0 || fn.Type().In(0) != reflect.TypeOf(&Context{}) {
		panic(fmt.Sprintf("Command.Run for %s must take *Context first", c.Name))
	}
	Commands[c.Name] = c
	return c
}

// Names returns every command name, sorted.
func Names() []string {
	names := make([]string, 0, len(Commands))
	for name := range Commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// argCodec turns command line words into Run arguments.
func argCodec(arg interface{}, vals []interface{}) error {
	switch v := arg.(type) {
	case **Context:
		if c, ok := vals[0].(*Context); ok {
			*v = c
			return nil
		}
	case *string:
		if s, ok := vals[0].(string); ok {
			*v = s
			return nil
		}
	case *uint64:
		if s, ok := vals[0].(string); ok {
			n, err := strconv.ParseUint(s, 0, 64)
			if err != nil {
				return errors.Errorf("invalid number %q", s)
			}
			*v = n
			return nil
		}
	}
	return argjoy.NoMatch
}

var aj = argjoy.NewArgjoy(argCodec)

func (cmd *Command) call(c *Context, args []string) error {
	if fn, ok := cmd.Run.(rawFunc); ok {
		return fn(c, args)
	}
	if want := reflect.TypeOf(cmd.Run).NumIn() - 1; len(args) != want {
		return errors.Errorf("usage: %s %s", cmd.Name, cmd.Usage)
	}
	in := make([]interface{}, 0, len(args)+1)
	in = append(in, c)
	for _, arg := range args {
		in = append(in, arg)
	}
	out, err := aj.Call(cmd.Run, in...)
	if err != nil {
		return err
	}
	if len(out) > 0 {
		if err, ok := out[0].(error); ok {
			return err
		}
	}
	return nil
}

// Run parses and executes one command line. Command failures are printed;
// only a request to exit is returned.
func Run(c *Context, line string) error {
	args, err := shellwords.Parse(line)
	if err != nil {
		c.Printf("parse error: %v\n", err)
		return nil
	}
	if len(args) == 0 {
		return nil
	}
	name, args := args[0], args[1:]
	cmd, ok := Commands[name]
	if !ok {
		c.Printf("command not found.\n")
		return nil
	}
	if err := cmd.call(c, args); err != nil {
		if status, ok := err.(models.ExitStatus); ok {
			return status
		}
		c.Printf("error: %v\n", err)
	}
	return nil
}
