package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"icfp/internal/calc"
	"icfp/internal/comms"
	"icfp/internal/fault"
	"icfp/internal/log"
	"icfp/internal/parser"
	"icfp/internal/repl"
	"icfp/internal/store"
	"icfp/internal/util"
	"icfp/internal/util/future"
)

const historyFile = ".icfp_history"

var (
	// Version is set at build time.
	Version   = "dev"
	BuildDate = "unknown"
	Commit    = "unknown"
	help      bool
	version   bool
	// logging
	logLevel string
	logFile  string
	logJSON  bool
	// config vars
	configPath string
	selfCheck  bool
	maxSteps   int
	debugAST   string
	encodeText string
	replMode   bool
)

func init() {
	flag.BoolVar(&help, "help", false, "Display help information and exit")
	flag.BoolVar(&help, "h", false, "Display help information and exit")
	flag.BoolVar(&version, "version", false, "Display version information and exit")
	flag.BoolVar(&version, "v", false, "Display version information and exit")
	flag.StringVar(&configPath, "config", "", "Configuration file (TOML, or YAML for .yaml/.yml). Default is '.env' if present")
	// evaluator config
	flag.BoolVar(&selfCheck, "self-check", true, "Evaluate the built-in self-check program before the input")
	flag.IntVar(&maxSteps, "max-steps", 0, "Abort evaluations after this many steps (0 means unlimited)")
	// parser config
	flag.StringVar(&debugAST, "debug-ast", "", "Print the AST (text, json, yaml or wire) instead of evaluating")
	flag.StringVar(&encodeText, "encode", "", "Print the string literal for the given text and exit")
	flag.BoolVar(&replMode, "repl", false, "Start the interactive portal shell")
	// log config
	flag.StringVar(&logLevel, "log-level", util.DefaultLogLevel, "Log level: trace, debug, info, warn, error, none")
	flag.StringVar(&logFile, "log-file", "", "Log file path (if not set, logs to stderr)")
	flag.BoolVar(&logJSON, "log-json", false, "Write log records as JSON")
}

func main() {
	flag.Parse()

	if version {
		printVersion()
		return
	}

	if help {
		printHelp()
		return
	}

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	config, err := util.LoadConfig(configPath)
	if err != nil {
		return err
	}
	config.Version = Version
	config.BuildDate = BuildDate
	config.Commit = Commit
	applyFlags(&config)

	if err := log.Init(config.Log.Level, config.Log.File, config.Log.JSON); err != nil {
		fmt.Fprintf(os.Stderr, "%v; falling back to stderr\n", err)
	}
	defer log.Close()

	if isFlagSet("encode") {
		lit, err := calc.EncodeStringLiteral(encodeText)
		if err != nil {
			return err
		}
		fmt.Println(lit)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := calc.New(calc.WithMaxSteps(config.Eval.MaxSteps))

	if replMode {
		return runShell(ctx, c, config)
	}

	var check *future.Future[struct{}]
	if config.SelfCheckEnabled() && debugAST == "" {
		check = future.Run(c.SelfCheck)
	}

	src, err := readSource(flag.Arg(0))
	if err != nil {
		return err
	}

	if debugAST != "" {
		node, err := c.Read(src)
		if err != nil {
			return describe(err, src)
		}
		rendered, err := parser.RenderAST(node, debugAST)
		if err != nil {
			return err
		}
		fmt.Println(strings.TrimRight(rendered, "\n"))
		return nil
	}

	if check != nil {
		if _, err := check.AwaitContext(ctx); err != nil {
			return err
		}
	}

	val, err := c.Evaluate(src)
	if err != nil {
		return describe(err, src)
	}
	fmt.Println(val.Inspect())
	return nil
}

func runShell(ctx context.Context, c *calc.Calc, config util.Configuration) error {
	var archive repl.Archive
	if config.Store.DSN != "" {
		st, err := store.Open(ctx, config.Store.Driver, config.Store.DSN)
		if err != nil {
			return err
		}
		defer st.Close()
		archive = st
	} else {
		slog.Info("no store dsn configured; archive commands are disabled")
	}

	session := repl.NewSession(c, comms.NewClient(config.Portal), archive, os.Stdout)

	historyPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		historyPath = filepath.Join(home, historyFile)
	}
	repl.Start(ctx, session, historyPath)
	return nil
}

// applyFlags lets explicitly set flags override the configuration file.
func applyFlags(config *util.Configuration) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "log-level":
			config.Log.Level = logLevel
		case "log-file":
			config.Log.File = logFile
		case "log-json":
			config.Log.JSON = logJSON
		case "self-check":
			config.Eval.SelfCheck = &selfCheck
		case "max-steps":
			config.Eval.MaxSteps = maxSteps
		}
	})
}

func isFlagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func readSource(path string) (string, error) {
	var data []byte
	var err error
	if path == "" || path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read program: %w", err)
	}
	return string(data), nil
}

// describe appends the source context for errors that carry a position.
func describe(err error, src string) error {
	lines := util.GetSourceContext(src, fault.PositionOf(err))
	if lines == "" {
		return err
	}
	return fmt.Errorf("%w\n%s", err, lines)
}

func printVersion() {
	fmt.Printf("icfp version 'v%s' %s %s\n", Version, BuildDate, Commit)
}

func printHelp() {
	fmt.Printf(`Usage: icfp [options] [filename|-]

Options:
  -config <path>      Configuration file. Default is '.env' (TOML) if present.
  -self-check         Evaluate the built-in self-check first. Default is true.
  -max-steps <n>      Abort evaluations after n steps. Default is 0 (unlimited).
  -debug-ast <format> Print the AST as text, json, yaml or wire instead of evaluating.
  -encode <text>      Print the string literal for text and exit.
  -repl               Start the interactive portal shell.
  -help               Display this help information and exit.
  -version            Display version information and exit.
  -log-level <level>  Set the log level: trace, debug, info, warn, error, none. Default is 'error'.
  -log-file <path>    Specify a log file to write logs. Default is stderr.
  -log-json           Write log records as JSON.

Details:
Reads a program in the ICFP wire format from the named file (or stdin) and
prints its value.

Examples:
  icfp task.icfp                      Evaluate a program
  echo 'B+ I# I$' | icfp              Evaluate a program from stdin
  icfp -debug-ast=json task.icfp      Dump the AST as JSON
  icfp -encode 'get index'            Print the literal for a portal request
  icfp -repl -log-level=debug         Start the shell with debug logging enabled

Version Information:
  Version:    %s
  Build Date: %s
  Commit:     %s
`, Version, BuildDate, Commit)
}
