package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/peoplepower/ppsync-go/pkg/config"
	"github.com/peoplepower/ppsync-go/pkg/models"
	"github.com/peoplepower/ppsync-go/pkg/notify"
	"github.com/peoplepower/ppsync-go/pkg/session"
	"github.com/peoplepower/ppsync-go/pkg/wire"
)

// Shell runs interactive commands against one session.
type Shell struct {
	s       *session.Session
	current session.Applier
	out     io.Writer
}

// NewShell creates a shell over s. Every model collection is registered
// on s.
func NewShell(s *session.Session, out io.Writer) *Shell {
	models.Register(s)
	return &Shell{s: s, out: out}
}

// Prompt returns the prompt for the selected collection.
func (sh *Shell) Prompt() string {
	if sh.current == nil {
		return "ppsync> "
	}
	return "ppsync:" + sh.current.Name() + "> "
}

// Exec runs one command line. It returns false when the shell should
// exit.
func (sh *Shell) Exec(line string) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return true
	}
	cmd, rest, _ := strings.Cut(input, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(cmd) {
	case "help", "?":
		sh.printHelp()
	case "collections", "ls":
		for _, name := range sh.s.Collections() {
			fmt.Fprintln(sh.out, name)
		}
	case "use", "u":
		sh.cmdUse(rest)
	case "apply", "a":
		sh.cmdApply(rest)
	case "load":
		sh.cmdLoad(rest)
	case "show", "s":
		sh.cmdShow()
	case "schema":
		sh.cmdSchema()
	case "count":
		if sh.requireCollection() {
			fmt.Fprintf(sh.out, "%d\n", sh.current.Len())
		}
	case "clear":
		if sh.requireCollection() {
			sh.current.Clear()
			fmt.Fprintln(sh.out, "OK")
		}
	case "quit", "exit", "q":
		fmt.Fprintln(sh.out, "Exiting...")
		return false
	default:
		fmt.Fprintf(sh.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return true
}

func (sh *Shell) printHelp() {
	fmt.Fprintln(sh.out, `Commands:
  collections, ls      List collections
  use <collection>     Select a collection
  apply <json>         Apply a JSON object or array to the selected collection
  load <file>          Apply a JSON or CBOR payload file
  show                 Print the stored records
  schema               Print the field layout
  count                Print the number of records
  clear                Drop every record
  quit                 Exit`)
}

func (sh *Shell) requireCollection() bool {
	if sh.current == nil {
		fmt.Fprintln(sh.out, "No collection selected (use <collection>)")
		return false
	}
	return true
}

func (sh *Shell) cmdUse(name string) {
	if name == "" {
		fmt.Fprintln(sh.out, "Usage: use <collection>")
		return
	}
	a, err := sh.s.Collection(name)
	if err != nil {
		fmt.Fprintf(sh.out, "Error: %v\n", err)
		return
	}
	sh.current = a
}

func (sh *Shell) cmdApply(raw string) {
	if !sh.requireCollection() {
		return
	}
	if raw == "" {
		fmt.Fprintln(sh.out, `Usage: apply <json>`)
		fmt.Fprintln(sh.out, `  Example: apply {"planId": 7, "available": 1}`)
		return
	}
	payloads, err := wire.DecodeJSON([]byte(raw))
	if err != nil {
		fmt.Fprintf(sh.out, "Error: %v\n", err)
		return
	}
	for i, p := range payloads {
		out, err := sh.current.ApplyPayload(p)
		formatOutcome(sh.out, i, out, err)
	}
}

func (sh *Shell) cmdLoad(path string) {
	if !sh.requireCollection() {
		return
	}
	if path == "" {
		fmt.Fprintln(sh.out, "Usage: load <file>")
		return
	}
	if err := applyFile(sh.current, path, sh.out); err != nil {
		fmt.Fprintf(sh.out, "Error: %v\n", err)
	}
}

func (sh *Shell) cmdShow() {
	if !sh.requireCollection() {
		return
	}
	data, err := json.MarshalIndent(sh.current.Snapshot(), "", "  ")
	if err != nil {
		fmt.Fprintf(sh.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(sh.out, "%s\n", data)
}

func (sh *Shell) cmdSchema() {
	if !sh.requireCollection() {
		return
	}
	if err := RunModels([]string{sh.current.Name()}, sh.out); err != nil {
		fmt.Fprintf(sh.out, "Error: %v\n", err)
	}
}

// RunShell starts the interactive command loop.
func RunShell(cfg *config.Config) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "ppsync> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	logger, closeLog, err := eventLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	s := session.New(
		session.WithLogger(logger),
		session.WithDispatcher(notify.NewDispatcherWithConfig(cfg.Dispatcher())),
	)
	defer s.Close()

	sh := NewShell(s, rl.Stdout())
	sh.printHelp()

	for {
		rl.SetPrompt(sh.Prompt())
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(rl.Stdout(), "Exiting...")
			return nil
		}
		if !sh.Exec(line) {
			return nil
		}
	}
}
