// Command lox is a tree-walking interpreter for the Lox language. Run with
// no arguments for a REPL, with a single file argument to run a script, or
// with -c to run a program given directly on the command line.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"

	"github.com/chzyer/readline"

	"github.com/caiuslox/lox/ast"
	"github.com/caiuslox/lox/interpreter"
	"github.com/caiuslox/lox/loxerror"
	"github.com/caiuslox/lox/parser"
)

// Exit codes follow the BSD sysexits.h convention used by the reference
// implementations this language is modelled on (spec.md §6).
const (
	exitUsage   = 64
	exitSyntax  = 65
	exitRuntime = 70
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: lox [-p] [script]")
	fmt.Fprintln(os.Stderr, "       lox [-p] -c <program>")
	flag.PrintDefaults()
}

func run(args []string) int {
	fs := flag.NewFlagSet("lox", flag.ContinueOnError)
	fs.Usage = usage
	printAST := fs.Bool("p", false, "print the parsed AST instead of running it")
	inline := fs.String("c", "", "program passed in as a string")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	in := interpreter.New(stdoutPrinter{})

	switch {
	case *inline != "":
		if fs.NArg() > 0 {
			usage()
			return exitUsage
		}
		return runSource(in, "<command-line>", *inline, *printAST)
	case fs.NArg() == 1:
		return runFile(in, fs.Arg(0), *printAST)
	case fs.NArg() == 0:
		return runREPL(in, *printAST)
	default:
		usage()
		return exitUsage
	}
}

func runFile(in *interpreter.Interpreter, name string, printAST bool) int {
	src, err := os.ReadFile(name)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}
	return runSource(in, name, string(src), printAST)
}

// runSource parses, optionally prints, resolves and interprets a complete
// program, mapping each failure phase onto the exit code spec.md §6
// assigns it: a scan/parse error is a syntax error (65), a resolve error
// is also reported as a syntax error (65, since it too is a static,
// compile-time failure), and a runtime error is 70.
func runSource(in *interpreter.Interpreter, name, src string, printAST bool) int {
	program, err := parser.Parse(name, src)
	if err != nil {
		printErr(err)
		return exitSyntax
	}

	if printAST {
		fmt.Println(ast.SprintProgram(program))
		return 0
	}

	if err := in.Run(program); err != nil {
		printErr(err)
		if isRuntimeError(err) {
			return exitRuntime
		}
		return exitSyntax
	}
	return 0
}

// isRuntimeError reports whether err originated from the interpreter
// executing a program, as opposed to the scanner, parser or resolver
// rejecting one before execution began.
func isRuntimeError(err error) bool {
	var loxErr *loxerror.Error
	if errors.As(err, &loxErr) {
		return loxErr.Runtime
	}
	return false
}

func printErr(err error) {
	fmt.Fprintln(os.Stderr, err)
}

func runREPL(in *interpreter.Interpreter, printAST bool) int {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     historyFilePath(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitRuntime
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			continue
		case errors.Is(err, io.EOF):
			return 0
		case err != nil:
			fmt.Fprintln(os.Stderr, err)
			return exitRuntime
		}

		// A REPL line's exit code doesn't terminate the process, but an
		// error is still reported the same way a script's would be.
		runSource(in, "<stdin>", line, printAST)
	}
}

func historyFilePath() string {
	if u, err := user.Current(); err == nil && u.HomeDir != "" {
		return filepath.Join(u.HomeDir, ".lox_history")
	}
	return ".lox_history"
}

// stdoutPrinter adapts os.Stdout to interpreter.Printer.
type stdoutPrinter struct{}

func (stdoutPrinter) Println(args ...any) {
	fmt.Fprintln(os.Stdout, args...)
}
