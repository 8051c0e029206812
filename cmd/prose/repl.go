package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/prose-lang/prose/internal/catalogue"
	"github.com/prose-lang/prose/internal/diag"
	"github.com/prose-lang/prose/internal/driver"
)

const (
	historyFile = ".prose_history"
	promptMain  = "prose> "
	promptCont  = "  ...> "
)

func runRepl(args []string) int {
	fs := flag.NewFlagSet("repl", flag.ExitOnError)
	target := fs.String("target", "python", "backend to generate code for")
	fs.Parse(args)

	session, err := driver.NewSession(catalogue.Builtin(), *target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "prose: %v\n", err)
		return 1
	}

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	fmt.Printf("Prose session (%s backend). Type :help for commands.\n", session.Backend())

	for {
		code, ok := readEntry(ln)
		if !ok {
			fmt.Println()
			break
		}
		if strings.TrimSpace(code) == "" {
			continue
		}

		if strings.HasPrefix(strings.TrimSpace(code), ":") {
			if done := handleReplCommand(&session, code); done {
				break
			}
			continue
		}

		res := session.Eval(code + "\n")
		if len(res.Diagnostics) > 0 {
			f := diag.NewFormatter(os.Stderr)
			f.FormatAll(res.Diagnostics)
		}
		if !res.HasErrors() && res.Output != "" {
			fmt.Print(res.Output)
		}

		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}

	if f, err := os.Create(histPath); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}
	return 0
}

// readEntry reads one entry from the prompt. A line whose trimmed form
// ends with ':' opens a block; continuation lines are read until a
// blank line closes it.
func readEntry(ln *liner.State) (string, bool) {
	line, err := ln.Prompt(promptMain)
	if errors.Is(err, io.EOF) {
		return "", false
	}
	if err != nil {
		// Ctrl+C aborts the current input; let the user start again.
		return "", true
	}

	if !strings.HasSuffix(strings.TrimRight(line, " \t"), ":") {
		return line, true
	}

	var b strings.Builder
	b.WriteString(line)
	for {
		cont, err := ln.Prompt(promptCont)
		if errors.Is(err, io.EOF) {
			return b.String(), true
		}
		if err != nil {
			return "", true
		}
		if strings.TrimSpace(cont) == "" {
			return b.String(), true
		}
		b.WriteByte('\n')
		b.WriteString(cont)
	}
}

func handleReplCommand(session **driver.Session, line string) (exit bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	switch strings.ToLower(fields[0]) {
	case ":quit", ":q", ":exit":
		return true
	case ":reset":
		fresh, err := driver.NewSession(catalogue.Builtin(), (*session).Backend())
		if err != nil {
			fmt.Fprintf(os.Stderr, "prose: %v\n", err)
			return false
		}
		*session = fresh
		fmt.Println("session reset")
	case ":help":
		fmt.Println("Commands:")
		fmt.Println("  :help    show this help")
		fmt.Println("  :reset   discard all definitions")
		fmt.Println("  :quit    leave the session")
		fmt.Println("A line ending with ':' opens a block; finish it with a blank line.")
	default:
		fmt.Fprintf(os.Stderr, "unknown command %s (try :help)\n", fields[0])
	}
	return false
}
