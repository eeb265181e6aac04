package repl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/peterh/liner"

	"icfp/internal/calc"
	"icfp/internal/parser"
	"icfp/internal/store"
)

const PROMPT = "> "

const usage = `Commands:
  !eval [wire], !tr      evaluate wire text (default: the current value)
  !encode <text>         encode text as a string literal
  !encode -int <n>       encode a decimal integer as an integer literal
  !ast [format]          print the AST of the current value (text, json, yaml, wire)
  !comms [wire]          send wire text to the portal (default: the current value)
  !echo <wire>           ask the portal to evaluate wire and echo the result
  !solve <name>          submit the current value as the solution to <name>
  !fetch <task>          fetch a task and archive it under <task>
  !efetch <task>         fetch a task, evaluate it and archive both
  !get_tasks <name> [<start> [<stop>]]
                         fetch and archive <name>, or <name><start>..<name><stop>
  !run <cmd> [args...]   pipe the current value through a command; its output becomes the value
  !save <name>           archive the current value
  !load <name>           make an archived program the current value
  !delete <name>         remove an archived program
  !list                  list archived programs
  !selfcheck             evaluate the built-in self-check program
  !help                  show this help
  quit, Q                leave the shell
Any other line is sent to the portal as text.
`

// Communicator sends programs to the portal.
type Communicator interface {
	Communicate(ctx context.Context, wire string) (string, error)
	SendText(ctx context.Context, text string) (string, error)
	Echo(ctx context.Context, wire string) (string, error)
}

// Archive keeps programs between sessions.
type Archive interface {
	Save(ctx context.Context, name, wire string) error
	SaveResult(ctx context.Context, name, result string) error
	Load(ctx context.Context, name string) (store.Program, error)
	List(ctx context.Context) ([]store.Program, error)
	Delete(ctx context.Context, name string) error
}

var (
	errNoClient  = errors.New("no portal client configured")
	errNoArchive = errors.New("no program store configured")
)

// Session holds the shell state: the current value that commands read and
// replace.
type Session struct {
	calc    *calc.Calc
	client  Communicator
	archive Archive
	out     io.Writer
	value   string
}

// NewSession returns a shell session. client and archive may be nil, in which
// case the commands needing them fail.
func NewSession(c *calc.Calc, client Communicator, archive Archive, out io.Writer) *Session {
	return &Session{calc: c, client: client, archive: archive, out: out}
}

// Value returns the current value.
func (s *Session) Value() string { return s.value }

// Execute runs one line. It returns false when the shell should exit.
func (s *Session) Execute(ctx context.Context, line string) (bool, error) {
	line = strings.TrimSpace(line)
	switch {
	case line == "":
		return true, nil
	case line == "quit" || line == "Q":
		return false, nil
	case !strings.HasPrefix(line, "!"):
		return true, s.sendText(ctx, line)
	}

	op, args := splitCommand(line)
	var err error
	switch op {
	case "!eval", "!tr":
		err = s.eval(args)
	case "!encode":
		err = s.encode(args)
	case "!ast":
		err = s.ast(args)
	case "!comms":
		err = s.comms(ctx, args)
	case "!echo":
		err = s.echo(ctx, args)
	case "!solve":
		err = s.solve(ctx, args)
	case "!fetch":
		err = s.fetch(ctx, args, false)
	case "!efetch":
		err = s.fetch(ctx, args, true)
	case "!get_tasks":
		err = s.getTasks(ctx, args)
	case "!run":
		err = s.run(ctx, args)
	case "!save":
		err = s.save(ctx, args)
	case "!load":
		err = s.load(ctx, args)
	case "!delete":
		err = s.remove(ctx, args)
	case "!list":
		err = s.list(ctx)
	case "!selfcheck":
		err = s.calc.SelfCheck()
		if err == nil {
			s.println("self-check OK")
		}
	case "!help":
		_, err = io.WriteString(s.out, usage)
	default:
		err = fmt.Errorf("unknown command %q", op)
	}
	return true, err
}

func splitCommand(line string) (string, []string) {
	fields := strings.Fields(line)
	return fields[0], fields[1:]
}

func (s *Session) println(a ...any) {
	fmt.Fprintln(s.out, a...)
}

func (s *Session) evaluate(wire string) (string, error) {
	val, err := s.calc.Evaluate(wire)
	if err != nil {
		return "", err
	}
	return val.Inspect(), nil
}

func (s *Session) eval(args []string) error {
	if len(args) > 0 {
		s.value = strings.Join(args, " ")
	}
	result, err := s.evaluate(s.value)
	if err != nil {
		return err
	}
	s.value = result
	s.println(result)
	return nil
}

func (s *Session) encode(args []string) error {
	var lit string
	var err error
	if len(args) > 0 && args[0] == "-int" {
		lit, err = encodeInteger(args[1:])
	} else {
		lit, err = calc.EncodeStringLiteral(strings.Join(args, " "))
	}
	if err != nil {
		return err
	}
	s.value = lit
	s.println(lit)
	return nil
}

func encodeInteger(args []string) (string, error) {
	if len(args) != 1 {
		return "", errors.New("usage: !encode -int <n>")
	}
	n, ok := new(big.Int).SetString(args[0], 10)
	if !ok {
		return "", fmt.Errorf("invalid integer %q", args[0])
	}
	return calc.EncodeIntegerLiteral(n)
}

func (s *Session) ast(args []string) error {
	format := parser.FormatText
	if len(args) > 0 {
		format = args[0]
	}
	node, err := s.calc.Read(s.value)
	if err != nil {
		return err
	}
	rendered, err := parser.RenderAST(node, format)
	if err != nil {
		return err
	}
	s.println(strings.TrimRight(rendered, "\n"))
	return nil
}

// reply makes a portal answer the current value and shows it, evaluated too
// when it is a plain string literal.
func (s *Session) reply(value string) error {
	s.value = value
	s.println(value)
	if strings.HasPrefix(value, "S") {
		result, err := s.evaluate(value)
		if err != nil {
			return err
		}
		s.println(result)
	}
	return nil
}

func (s *Session) sendText(ctx context.Context, text string) error {
	if s.client == nil {
		return errNoClient
	}
	value, err := s.client.SendText(ctx, text)
	if err != nil {
		return err
	}
	return s.reply(value)
}

func (s *Session) comms(ctx context.Context, args []string) error {
	if s.client == nil {
		return errNoClient
	}
	wire := s.value
	if len(args) > 0 {
		wire = strings.Join(args, " ")
	}
	value, err := s.client.Communicate(ctx, wire)
	if err != nil {
		return err
	}
	return s.reply(value)
}

func (s *Session) echo(ctx context.Context, args []string) error {
	if s.client == nil {
		return errNoClient
	}
	if len(args) == 0 {
		return errors.New("usage: !echo <wire>")
	}
	value, err := s.client.Echo(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	return s.reply(value)
}

func (s *Session) solve(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: !solve <name>")
	}
	return s.sendText(ctx, strings.Join(append([]string{"solve"}, append(args, s.value)...), " "))
}

// fetchTask asks the portal for a task and archives the reply.
func (s *Session) fetchTask(ctx context.Context, task string) (string, error) {
	if s.client == nil {
		return "", errNoClient
	}
	if s.archive == nil {
		return "", errNoArchive
	}
	wire, err := s.client.SendText(ctx, "get "+task)
	if err != nil {
		return "", err
	}
	if err := s.archive.Save(ctx, task, wire); err != nil {
		return "", err
	}
	return wire, nil
}

func (s *Session) fetch(ctx context.Context, args []string, evaluate bool) error {
	if len(args) != 1 {
		return errors.New("usage: !fetch <task>")
	}
	task := args[0]

	wire, err := s.fetchTask(ctx, task)
	if err != nil {
		return err
	}
	s.value = wire

	if evaluate {
		result, err := s.evaluate(wire)
		if err != nil {
			return err
		}
		if err := s.archive.SaveResult(ctx, task, result); err != nil {
			return err
		}
		s.value = result
	}
	s.println(task)
	return nil
}

// taskNames expands <name> [<start> [<stop>]] into task names.
func taskNames(args []string) ([]string, error) {
	if len(args) == 0 || len(args) > 3 {
		return nil, errors.New("usage: !get_tasks <name> [<start> [<stop>]]")
	}
	name := args[0]
	if len(args) == 1 {
		return []string{name}, nil
	}
	start, err := strconv.Atoi(args[1])
	if err != nil {
		return nil, fmt.Errorf("invalid start %q", args[1])
	}
	stop := start
	if len(args) == 3 {
		if stop, err = strconv.Atoi(args[2]); err != nil {
			return nil, fmt.Errorf("invalid stop %q", args[2])
		}
	}
	if stop < start {
		return nil, fmt.Errorf("stop %d is before start %d", stop, start)
	}
	names := make([]string, 0, stop-start+1)
	for i := start; i <= stop; i++ {
		names = append(names, name+strconv.Itoa(i))
	}
	return names, nil
}

func (s *Session) getTasks(ctx context.Context, args []string) error {
	names, err := taskNames(args)
	if err != nil {
		return err
	}
	for _, task := range names {
		wire, err := s.fetchTask(ctx, task)
		if err != nil {
			return fmt.Errorf("%s: %w", task, err)
		}
		s.value = wire
		s.println(task)
	}
	return nil
}

const runPreview = 40

// run pipes the current value through an external command. Its trimmed
// standard output becomes the value, also when the command exits non-zero.
func (s *Session) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: !run <cmd> [args...]")
	}
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdin = strings.NewReader(s.value)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	s.value = strings.TrimSpace(stdout.String())
	if err != nil {
		slog.Debug("command failed", slog.String("cmd", args[0]), slog.Int("status", exitErr.ExitCode()))
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", args[0], err, msg)
		}
		return fmt.Errorf("%s: %w", args[0], err)
	}

	preview := s.value
	if len(preview) > runPreview {
		preview = preview[:runPreview]
	}
	fmt.Fprintf(s.out, "%q\n", preview)
	if len(s.value) > runPreview {
		fmt.Fprintf(s.out, "(%d bytes)\n", len(s.value))
	}
	return nil
}

func (s *Session) save(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: !save <name>")
	}
	if s.archive == nil {
		return errNoArchive
	}
	return s.archive.Save(ctx, args[0], s.value)
}

func (s *Session) load(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: !load <name>")
	}
	if s.archive == nil {
		return errNoArchive
	}
	p, err := s.archive.Load(ctx, args[0])
	if err != nil {
		return err
	}
	s.value = p.Wire
	s.println(p.Wire)
	return nil
}

func (s *Session) remove(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: !delete <name>")
	}
	if s.archive == nil {
		return errNoArchive
	}
	return s.archive.Delete(ctx, args[0])
}

func (s *Session) list(ctx context.Context) error {
	if s.archive == nil {
		return errNoArchive
	}
	programs, err := s.archive.List(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	for _, p := range programs {
		evaluated := "-"
		if p.Result.Valid {
			evaluated = fmt.Sprintf("%d bytes", len(p.Result.String))
		}
		fmt.Fprintf(w, "%s\t%d bytes\t%s\t%s\n", p.Name, len(p.Wire), evaluated, p.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

// Start runs the interactive shell until quit, EOF or ctx is done. History is
// read from and written back to historyPath when it is set.
func Start(ctx context.Context, s *Session, historyPath string) {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(historyPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	s.println("Type !help for commands, quit to exit.")
	for ctx.Err() == nil {
		line, err := ln.Prompt(PROMPT)
		if errors.Is(err, io.EOF) {
			s.println()
			return
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			s.println("! " + err.Error())
			return
		}
		if strings.TrimSpace(line) != "" {
			ln.AppendHistory(line)
		}

		more, err := s.Execute(ctx, line)
		if err != nil {
			s.println("! " + err.Error())
		}
		if !more {
			return
		}
	}
}
