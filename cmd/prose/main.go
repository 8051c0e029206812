package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/prose-lang/prose/internal/catalogue"
	"github.com/prose-lang/prose/internal/codegen"
	"github.com/prose-lang/prose/internal/diag"
	"github.com/prose-lang/prose/internal/driver"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: prose <command> [options]\n")
		fmt.Fprintf(os.Stderr, "\nCommands:\n")
		fmt.Fprintf(os.Stderr, "  build <file>    Compile a Prose source file\n")
		fmt.Fprintf(os.Stderr, "  check <file>    Type-check a Prose source file without generating code\n")
		fmt.Fprintf(os.Stderr, "  repl            Start an interactive session\n")
		fmt.Fprintf(os.Stderr, "  watch <dir>     Recompile Prose files on change\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	command := flag.Arg(0)
	args := flag.Args()[1:]

	switch command {
	case "build":
		os.Exit(runBuild(args))
	case "check":
		os.Exit(runCheck(args))
	case "repl":
		os.Exit(runRepl(args))
	case "watch":
		os.Exit(runWatch(args))
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}

// splitTargets parses a comma-separated backend list, e.g. "python,go".
func splitTargets(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// loadCatalogue returns the builtin catalogue extended with any
// user-supplied library description files.
func loadCatalogue(libs string) (*catalogue.Table, error) {
	table := catalogue.Builtin()
	for _, path := range splitTargets(libs) {
		lib, err := catalogue.LoadFile(path)
		if err != nil {
			return nil, err
		}
		if err := table.Add(lib); err != nil {
			return nil, err
		}
	}
	return table, nil
}

func runBuild(args []string) int {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	targets := fs.String("targets", "python", "comma-separated backends (python, javascript, go)")
	outDir := fs.String("o", "", "output directory (default: alongside the source file)")
	libs := fs.String("lib", "", "comma-separated extra library description files (TOML)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: prose build [options] <file>\n")
		return 1
	}
	file := fs.Arg(0)

	source, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "prose: %v\n", err)
		return 1
	}

	cat, err := loadCatalogue(*libs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "prose: %v\n", err)
		return 1
	}

	pipeline, err := driver.NewPipeline(cat, splitTargets(*targets))
	if err != nil {
		fmt.Fprintf(os.Stderr, "prose: %v\n", err)
		return 1
	}

	res := pipeline.Compile(file, string(source))
	printDiagnostics(file, string(source), res.Diagnostics)
	if res.State != driver.StateDone {
		return 1
	}

	dir := *outDir
	if dir == "" {
		dir = filepath.Dir(file)
	} else if err := os.MkdirAll(dir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "prose: %v\n", err)
		return 1
	}

	base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	for backend, output := range res.Outputs {
		em, err := codegen.NewEmitter(backend)
		if err != nil {
			fmt.Fprintf(os.Stderr, "prose: %v\n", err)
			return 1
		}
		path := filepath.Join(dir, base+"."+em.Ext())
		if err := os.WriteFile(path, []byte(output), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "prose: %v\n", err)
			return 1
		}
		fmt.Printf("wrote %s\n", path)
	}
	return 0
}

func runCheck(args []string) int {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	libs := fs.String("lib", "", "comma-separated extra library description files (TOML)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: prose check <file>\n")
		return 1
	}
	file := fs.Arg(0)

	source, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "prose: %v\n", err)
		return 1
	}

	cat, err := loadCatalogue(*libs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "prose: %v\n", err)
		return 1
	}

	pipeline, err := driver.NewPipeline(cat, []string{"python"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "prose: %v\n", err)
		return 1
	}

	res := pipeline.Compile(file, string(source))
	printDiagnostics(file, string(source), res.Diagnostics)
	if res.HasErrors() {
		return 1
	}
	fmt.Printf("%s: ok\n", file)
	return 0
}

func printDiagnostics(filename, source string, ds []diag.Diagnostic) {
	if len(ds) == 0 {
		return
	}
	f := diag.NewFormatter(os.Stderr)
	f.AddSource(filename, source)
	f.FormatAll(ds)
}
