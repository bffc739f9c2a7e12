// Command carp is the CLI entry point for the carp language.
//
// Usage:
//
//	carp tokens <file>            Print tokens
//	carp tokens <file> --json     Print tokens as JSON
//	carp parse  <file>            Print AST as JSON
//	carp run    <file>            Run a source file
//	carp repl                     Start interactive REPL
//
// Every command accepts --config <path> and --trace.
package main

import (
	"carp-lang/internal/ast"
	"carp-lang/internal/config"
	"carp-lang/internal/diag"
	"carp-lang/internal/lexer"
	"carp-lang/internal/parser"
	"fmt"
	"os"
	"strings"
)

// cliArgs is the command line with global flags removed.
type cliArgs struct {
	command    string
	positional []string
	configPath string
	trace      bool
	json       bool
}

func parseArgs(args []string) (cliArgs, error) {
	var out cliArgs
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--trace":
			out.trace = true
		case arg == "--json":
			out.json = true
		case arg == "--config":
			if i+1 >= len(args) {
				return out, fmt.Errorf("--config requires a path")
			}
			i++
			out.configPath = args[i]
		case strings.HasPrefix(arg, "--config="):
			out.configPath = strings.TrimPrefix(arg, "--config=")
		case strings.HasPrefix(arg, "--"):
			return out, fmt.Errorf("unknown flag '%s'", arg)
		case out.command == "":
			out.command = arg
		default:
			out.positional = append(out.positional, arg)
		}
	}
	return out, nil
}

func main() {
	args, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		usage()
		os.Exit(1)
	}
	if args.command == "" {
		usage()
		os.Exit(1)
	}

	cfg, err := config.Load(args.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if args.trace {
		cfg.Trace = true
	}

	switch args.command {
	case "tokens":
		filename := fileArg(args)
		cmdTokens(readFile(filename), filename, args.json)
	case "parse":
		filename := fileArg(args)
		cmdParse(readFile(filename), filename)
	case "run":
		filename := fileArg(args)
		cmdRun(cfg, readFile(filename), filename)
	case "repl":
		cmdRepl(cfg)
	default:
		fmt.Fprintf(os.Stderr, "error: unknown command '%s'\n", args.command)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  carp tokens <file> [--json]   Tokenize and print tokens")
	fmt.Fprintln(os.Stderr, "  carp parse  <file>            Parse and print AST (JSON)")
	fmt.Fprintln(os.Stderr, "  carp run    <file>            Run a source file")
	fmt.Fprintln(os.Stderr, "  carp repl                     Start interactive REPL")
	fmt.Fprintln(os.Stderr, "Flags:")
	fmt.Fprintln(os.Stderr, "  --config <path>   settings file (default ./"+config.FileName+")")
	fmt.Fprintln(os.Stderr, "  --trace           print phase timings to stderr")
}

func fileArg(args cliArgs) string {
	if len(args.positional) < 1 {
		fmt.Fprintln(os.Stderr, "error: missing file argument")
		os.Exit(1)
	}
	return args.positional[0]
}

func readFile(filename string) string {
	source, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: cannot read file %s: %v\n", filename, err)
		os.Exit(1)
	}
	return string(source)
}

// ---- tokens command ----

func cmdTokens(source, filename string, jsonMode bool) {
	l := lexer.New(source, filename)
	tokens, diags := l.Tokenize()

	if jsonMode {
		printTokensJSON(tokens, diags)
	} else {
		printTokensText(os.Stdout, tokens)
		printDiagsText(diag.WriterReporter{W: os.Stderr}, diags)
	}

	if len(diags) > 0 {
		os.Exit(1)
	}
}

// ---- parse command ----

func cmdParse(source, filename string) {
	l := lexer.New(source, filename)
	tokens, allDiags := l.Tokenize()

	output := map[string]interface{}{"ast": nil}
	if len(allDiags) == 0 {
		arena := ast.NewArena()
		prog, err := parser.New(arena, tokens).Parse()
		if err != nil {
			allDiags = append(allDiags, faultDiags(err)...)
		} else {
			output["ast"] = ast.ProgramToMap(arena, prog)
		}
	}
	output["diagnostics"] = diagsToSlice(allDiags)
	printJSON(output)

	if len(allDiags) > 0 {
		os.Exit(1)
	}
}

// ---- run command ----

func cmdRun(cfg *config.Config, source, filename string) {
	s := newSession(cfg, os.Stdout, os.Stderr)
	if err := s.exec(source, filename, false); err != nil {
		reportError(diag.WriterReporter{W: os.Stderr}, err)
		os.Exit(1)
	}
}
