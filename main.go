package main

import (
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"loxvm/compiler"
	"loxvm/debug"
	"loxvm/vm"
)

const version = "0.1.0"

const (
	exitOK           = 0
	exitUsageError   = 64
	exitCompileError = 65
	exitRuntimeError = 70
	exitIOError      = 74
)

var (
	traceExecution bool
	disassemble    bool
	showVersion    bool
)

func main() {
	root := &cobra.Command{
		Use:           "loxvm [path]",
		Short:         "A bytecode compiler and stack-based VM for a small scripting language",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Println(version)
				return nil
			}
			if len(args) > 1 {
				fmt.Fprintf(os.Stderr, "Usage: %s [path]\n", cmd.Name())
				return errUsage
			}
			if len(args) == 0 {
				return runREPL()
			}
			return runFile(args[0])
		},
	}

	root.Flags().BoolVar(&traceExecution, "trace", false, "log each dispatched instruction and stack snapshot to stderr")
	root.Flags().BoolVar(&disassemble, "disassemble", false, "print the compiled chunk's disassembly to stderr before running it")
	root.Flags().BoolVar(&showVersion, "version", false, "print the version and exit")

	if err := root.Execute(); err != nil {
		os.Exit(exitFor(err))
	}
}

// exitFor maps an error from the run to the process exit code spec.md
// mandates: usage errors, compile errors, runtime errors, and file I/O
// failures each get their own code so a caller can script against them.
func exitFor(err error) int {
	switch {
	case errors.Is(err, errUsage):
		return exitUsageError
	case errors.Is(err, errCompile):
		return exitCompileError
	case errors.Is(err, errRuntime):
		return exitRuntimeError
	case errors.Is(err, errIO):
		return exitIOError
	default:
		return exitUsageError
	}
}

var (
	errUsage   = errors.New("usage error")
	errCompile = errors.New("compile error")
	errRuntime = errors.New("runtime error")
	errIO      = errors.New("io error")
)

func runFile(path string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not open file '%s'.\n", path)
		return errors.Wrapf(errIO, "reading %s: %v", path, err)
	}

	machine := vm.New()
	machine.Trace = traceExecution

	if _, err := interpret(machine, path, string(source)); err != nil {
		if isCompileFailure(err) {
			return errors.Wrap(errCompile, err.Error())
		}
		fmt.Fprint(os.Stderr, err.Error())
		return errors.Wrap(errRuntime, err.Error())
	}

	return nil
}

func runREPL() error {
	rl, err := readline.New("> ")
	if err != nil {
		return errors.Wrapf(errIO, "starting REPL: %v", err)
	}
	defer rl.Close()

	machine := vm.New()
	machine.Trace = traceExecution

	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF or readline.ErrInterrupt
			if err == io.EOF || err == readline.ErrInterrupt {
				return nil
			}
			return errors.Wrapf(errIO, "reading line: %v", err)
		}

		if _, err := interpret(machine, "repl", line); err != nil && !isCompileFailure(err) {
			fmt.Fprint(os.Stderr, err.Error())
		}
	}
}

// compileFailure marks an error produced by a failed Compile call, so
// runFile can distinguish it from a RuntimeError without a type assertion
// on the vm package's error type.
type compileFailure struct{}

func (compileFailure) Error() string { return "compile error" }

func isCompileFailure(err error) bool {
	_, ok := err.(compileFailure)
	return ok
}

// interpret compiles source into a fresh chunk and runs it against machine.
// machine's globals and string table persist across calls, which is what
// lets a REPL session build on variables defined in earlier lines. name
// labels the chunk in --disassemble output only.
func interpret(machine *vm.VM, name, source string) (vm.InterpretResult, error) {
	chunk := vm.NewChunk()

	if !compiler.Compile(source, chunk, machine) {
		return vm.InterpretCompileError, compileFailure{}
	}

	if disassemble {
		debug.DisassembleChunk(os.Stderr, chunk, name)
	}

	return machine.Run(chunk)
}
