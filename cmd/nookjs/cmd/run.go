package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/samlaycock/nookjs/internal/lexer"
	"github.com/samlaycock/nookjs/internal/parser"
	"github.com/samlaycock/nookjs/internal/resource"
	"github.com/samlaycock/nookjs/pkg/sandbox"
	"github.com/spf13/cobra"
)

var (
	runEvalExpr     string
	traceResources  bool
	runMaxCallDepth int
	runMaxLoopIters int
	dumpAST         bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a nookjs script",
	Long: `Run a nookjs program through pkg/sandbox with every feature allowed
and no resource limits, the same permissive defaults sandbox.New uses
when an embedder supplies no options.

Examples:
  # Run a script file
  nookjs run script.js

  # Run an inline expression
  nookjs run -e "1 + 2"

  # Run with call-depth/loop-iteration guards and print resource usage
  nookjs run --trace-resources --max-call-depth 500 --max-loop-iterations 1000000 script.js`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runEvalExpr, "eval", "e", "", "run inline code instead of reading from file")
	runCmd.Flags().BoolVar(&traceResources, "trace-resources", false, "print resource counters to stderr after the run")
	runCmd.Flags().IntVar(&runMaxCallDepth, "max-call-depth", 0, "maximum call stack depth (0 = unlimited)")
	runCmd.Flags().IntVar(&runMaxLoopIters, "max-loop-iterations", 0, "maximum iterations per loop (0 = unlimited)")
	runCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "print the parsed AST to stderr before executing")
}

func runScript(cmd *cobra.Command, args []string) error {
	var input, filename string

	switch {
	case runEvalExpr != "":
		input = runEvalExpr
		filename = "<eval>"
	case len(args) == 1:
		filename = args[0]
		content, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", filename, err)
		}
		input = string(content)
	default:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		input = string(data)
		filename = "<stdin>"
	}

	if dumpAST {
		p := parser.New(lexer.New(input))
		program := p.ParseProgram()
		if len(p.Errors()) == 0 {
			fmt.Fprintln(os.Stderr, "Program")
			for _, stmt := range program.Body {
				dumpASTNode(os.Stderr, stmt, 1)
			}
		}
	}

	engine, err := sandbox.New(sandbox.WithOutput(os.Stdout))
	if err != nil {
		return fmt.Errorf("failed to construct engine: %w", err)
	}

	var evalOpts []sandbox.EvalOption
	if runMaxCallDepth > 0 || runMaxLoopIters > 0 {
		evalOpts = append(evalOpts, sandbox.WithCallLimits(limitsFromFlags()))
	}

	result, runErr := engine.Eval(input, evalOpts...)
	if traceResources {
		printResourceTrace(filename, engine.Tracker())
	}
	if runErr != nil {
		return runErr
	}
	if !result.Success {
		return fmt.Errorf("script %s did not complete successfully", filename)
	}
	return nil
}

func limitsFromFlags() resource.Limits {
	return resource.Limits{
		MaxCallStackDepth: runMaxCallDepth,
		MaxLoopIterations: runMaxLoopIters,
	}
}

func printResourceTrace(filename string, tracker *resource.Tracker) {
	history := tracker.History()
	fmt.Fprintf(os.Stderr, "--- resource trace: %s ---\n", filename)
	if len(history) == 0 {
		fmt.Fprintln(os.Stderr, "(no evaluation recorded)")
		return
	}
	last := history[len(history)-1]
	fmt.Fprintf(os.Stderr, "call depth peak:  %d\n", last.CallDepthPeak)
	fmt.Fprintf(os.Stderr, "total calls:      %d\n", last.TotalCalls)
	fmt.Fprintf(os.Stderr, "loop iterations:  %d\n", last.LoopIterations)
	fmt.Fprintf(os.Stderr, "memory estimate:  %d bytes\n", last.Memory)
	fmt.Fprintf(os.Stderr, "aborted:          %v\n", last.Aborted)
	fmt.Fprintf(os.Stderr, "total evaluations: %d\n", tracker.Evaluations())
}
