package main

import (
	"carp-lang/internal/config"
	"carp-lang/internal/diag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
)

// ---- ANSI colors ----

const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorCyan  = "\033[36m"
	colorGray  = "\033[90m"
	colorBold  = "\033[1m"
)

// palette applies ANSI colors unless disabled by config.
type palette bool

func (p palette) paint(color, s string) string {
	if !p {
		return s
	}
	return color + s + colorReset
}

// ---- repl command ----

func cmdRepl(cfg *config.Config) {
	colors := palette(cfg.Color)
	prompt := colors.paint(colorGreen, cfg.Prompt)
	continuation := colors.paint(colorGray, strings.Repeat(".", len(strings.TrimRight(cfg.Prompt, " ")))+" ")

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            prompt,
		HistoryFile:       cfg.HistoryFile,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "readline init failed: %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	// Welcome banner
	fmt.Fprintf(rl.Stdout(), "%s %s\n\n",
		colors.paint(colorBold+colorCyan, "carp REPL"), colors.paint(colorGray, "(type 'exit' or Ctrl+D to quit)"))

	s := newSession(cfg, rl.Stdout(), rl.Stderr())
	reporter := diag.ReporterFunc(func(d diag.Diagnostic) {
		fmt.Fprintln(rl.Stderr(), colors.paint(colorRed, d.String()))
	})

	var accumulated strings.Builder
	braceDepth := 0

	for {
		// Update prompt based on multi-line state
		if braceDepth > 0 {
			rl.SetPrompt(continuation)
		} else {
			rl.SetPrompt(prompt)
		}

		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				if braceDepth > 0 {
					// Cancel multi-line input
					accumulated.Reset()
					braceDepth = 0
					continue
				}
				fmt.Fprintf(rl.Stdout(), "\n%s\n", colors.paint(colorGray, "(use 'exit' or Ctrl+D to quit)"))
				continue
			}
			// EOF (Ctrl+D) or other error → exit
			if err == io.EOF {
				fmt.Fprintln(rl.Stdout())
			}
			break
		}

		if braceDepth == 0 && strings.TrimSpace(line) == "exit" {
			break
		}

		// Count braces for multi-line input
		braceDepth += strings.Count(line, "{") - strings.Count(line, "}")
		accumulated.WriteString(line)
		accumulated.WriteString("\n")

		if braceDepth > 0 {
			continue
		}
		braceDepth = 0

		source := accumulated.String()
		accumulated.Reset()

		if strings.TrimSpace(source) == "" {
			continue
		}

		if err := s.exec(source, "<repl>", true); err != nil {
			reportError(reporter, err)
		}
	}
}
