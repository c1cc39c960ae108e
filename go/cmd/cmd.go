package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/golang/snappy"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/hexcorn/hexcorn/go/arch"
	"github.com/hexcorn/hexcorn/go/logflags"
	"github.com/hexcorn/hexcorn/go/models"
	"github.com/hexcorn/hexcorn/go/ui"
)

type options struct {
	configPath  string
	log         bool
	logOutput   string
	archName    string
	debugCompat bool
	stackAdjust uint64
	tbCacheSize int
	traceCPU    bool
	traceOut    string
	color       bool
	state       string
	set         []string
	pc          string
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// PrintError prints an error, and a stacktrace if available.
func PrintError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s\n", strings.Repeat("-", 40))
	fmt.Fprintf(w, "Error: %s\n", err)
	err = errors.Cause(err)
	tracer, ok := err.(stackTracer)
	if !ok {
		return
	}
	// full path, file:line, method
	var frames [][2]string
	width := 0
	for _, f := range tracer.StackTrace() {
		fileline := fmt.Sprintf("%s:%d", f, f)
		method := fmt.Sprintf("%n", f)
		frames = append(frames, [2]string{fileline, method})
		if len(fileline) > width {
			width = len(fileline)
		}
		if method == "main" {
			break
		}
	}
	for _, f := range frames {
		fmt.Fprintf(w, "%-*s | %s()\n", width, f[0], f[1])
	}
}

// config reads the config file and applies the flags the user passed over it.
func (o *options) config(cmd *cobra.Command) (*models.Config, error) {
	config, err := models.LoadConfig(o.configPath)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("debug-compat") {
		config.DebugCompat = o.debugCompat
	}
	if flags.Changed("stack-adjust") {
		config.DebugStackRebaseOffset = o.stackAdjust
	}
	if flags.Changed("tb-cache") {
		config.TBCacheSize = o.tbCacheSize
	}
	if flags.Changed("trace-cpu") {
		config.TraceCPU = o.traceCPU
	}
	if flags.Changed("color") {
		config.Color = o.color
	} else if !config.Color {
		config.Color = isatty.IsTerminal(os.Stdout.Fd())
	}
	return config, nil
}

// newCore builds a core for model and applies --state, --set and --pc.
func (o *options) newCore(cmd *cobra.Command, model string) (models.Core, error) {
	if err := logflags.Setup(o.log, o.logOutput); err != nil {
		return nil, err
	}
	logflags.SetOutput(cmd.ErrOrStderr())
	a, err := arch.GetArch(o.archName)
	if err != nil {
		return nil, err
	}
	config, err := o.config(cmd)
	if err != nil {
		return nil, err
	}
	c, err := arch.NewCore(a, model, config)
	if err != nil {
		return nil, err
	}
	if o.state != "" {
		state, err := os.ReadFile(o.state)
		if err != nil {
			return nil, errors.Wrap(err, "reading savestate")
		}
		if err := c.LoadState(state); err != nil {
			return nil, err
		}
	}
	for _, assign := range o.set {
		name, val, ok := strings.Cut(assign, "=")
		if !ok {
			return nil, errors.Errorf("--set %q: expected reg=value", assign)
		}
		enum, ok := a.RegEnum(name)
		if !ok {
			return nil, errors.Errorf("--set: unknown register %q", name)
		}
		n, err := strconv.ParseUint(val, 0, a.Bits)
		if err != nil {
			return nil, errors.Wrapf(err, "--set %s", name)
		}
		if err := c.RegWrite(enum, n); err != nil {
			return nil, err
		}
	}
	if o.pc != "" {
		pc, err := strconv.ParseUint(o.pc, 0, a.Bits)
		if err != nil {
			return nil, errors.Wrap(err, "--pc")
		}
		c.SetPC(pc)
	}
	return c, nil
}

// output opens the trace destination. Writes to --trace-out are snappy-framed.
func (o *options) output(cmd *cobra.Command) (io.Writer, func() error, error) {
	if o.traceOut == "" {
		out := cmd.OutOrStdout()
		if out == os.Stdout {
			out = colorable.NewColorableStdout()
		}
		return out, func() error { return nil }, nil
	}
	f, err := os.Create(o.traceOut)
	if err != nil {
		return nil, nil, err
	}
	w := snappy.NewBufferedWriter(f)
	return w, func() error {
		if err := w.Close(); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}, nil
}

type traceSetter interface {
	SetTraceOutput(w io.Writer)
}

func (o *options) register(pf *pflag.FlagSet) {
	pf.StringVar(&o.configPath, "config", "", "config file (default ~/.hexcorn/config.yml)")
	pf.BoolVar(&o.log, "log", false, "enable debug logging")
	pf.StringVar(&o.logOutput, "log-output", "", "comma separated list of layers to log: cpu, exec, tb")
	pf.StringVar(&o.archName, "arch", "hexagon", "guest architecture")
	pf.BoolVar(&o.debugCompat, "debug-compat", false, "skip register dumps that repeat the previous pc")
	pf.Uint64Var(&o.stackAdjust, "stack-adjust", 0, "subtract from stack addresses in register dumps")
	pf.IntVar(&o.tbCacheSize, "tb-cache", models.DefaultTBCacheSize, "number of translated blocks to keep")
	pf.BoolVar(&o.traceCPU, "trace-cpu", false, "dump registers before every block")
	pf.StringVar(&o.traceOut, "trace-out", "", "write dumps to a snappy-compressed file")
	pf.BoolVar(&o.color, "color", false, "colorize output (default: when stdout is a terminal)")
	pf.StringVar(&o.state, "state", "", "load a savestate into the core")
	pf.StringSliceVar(&o.set, "set", nil, "set registers, as reg=value")
	pf.StringVar(&o.pc, "pc", "", "set the program counter")
}

func New() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:           "hexcorn",
		Short:         "Hexagon core control plane.",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	o.register(root.PersistentFlags())

	root.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the models of the selected architecture.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := arch.GetArch(o.archName)
			if err != nil {
				return err
			}
			for _, model := range arch.Models(a) {
				fmt.Fprintln(cmd.OutOrStdout(), model)
			}
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "xml",
		Short: "Print the debugger target description.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := arch.GetArch(o.archName)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), a.GdbXml)
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "dump <model>",
		Short: "Build a core and print its register block.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.newCore(cmd, args[0])
			if err != nil {
				return err
			}
			defer c.Close()
			w, closer, err := o.output(cmd)
			if err != nil {
				return err
			}
			c.Dump(w)
			return closer()
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "repl <model>",
		Short: "Build a core and inspect it interactively.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.newCore(cmd, args[0])
			if err != nil {
				return err
			}
			defer c.Close()
			w, closer, err := o.output(cmd)
			if err != nil {
				return err
			}
			defer closer()
			if t, ok := c.(traceSetter); ok {
				t.SetTraceOutput(w)
			}
			repl, err := ui.NewRepl(c, c.Config().Color)
			if err != nil {
				return err
			}
			return repl.Run()
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "cat <trace>",
		Short: "Decompress a file written with --trace-out.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			_, err = io.Copy(cmd.OutOrStdout(), snappy.NewReader(f))
			return errors.Wrap(err, "reading trace")
		},
	})
	return root
}

func Main() {
	if err := New().Execute(); err != nil {
		if status, ok := errors.Cause(err).(models.ExitStatus); ok {
			os.Exit(int(status))
		}
		PrintError(colorable.NewColorableStderr(), err)
		os.Exit(1)
	}
}
