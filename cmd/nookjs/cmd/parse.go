package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/samlaycock/nookjs/internal/ast"
	"github.com/samlaycock/nookjs/internal/ifaceerr"
	"github.com/samlaycock/nookjs/internal/lexer"
	"github.com/samlaycock/nookjs/internal/parser"
	"github.com/spf13/cobra"
)

var parseExpression bool

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a nookjs script and dump its AST",
	Long: `Parse nookjs source code and display the resulting Abstract Syntax Tree.

If no file is provided, reads from stdin. Use -e to parse an inline
expression instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().BoolVarP(&parseExpression, "expression", "e", false, "parse an expression given on the command line")
}

func runParse(cmd *cobra.Command, args []string) error {
	var input string

	switch {
	case parseExpression:
		if len(args) == 0 {
			return fmt.Errorf("no expression provided")
		}
		input = args[0]
	case len(args) > 0:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("error reading file: %w", err)
		}
		input = string(data)
	default:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("error reading stdin: %w", err)
		}
		input = string(data)
	}

	p := parser.New(lexer.New(input))
	program := p.ParseProgram()

	if len(p.Errors()) > 0 {
		errs := ifaceerr.FromStringErrors(ifaceerr.Parse, p.Errors())
		fmt.Fprintln(os.Stderr, errs.FormatErrors())
		return fmt.Errorf("parsing failed with %d error(s)", len(p.Errors()))
	}

	fmt.Println("Program")
	for _, stmt := range program.Body {
		dumpASTNode(os.Stdout, stmt, 1)
	}
	return nil
}

func dumpASTNode(w io.Writer, node ast.Node, indent int) {
	pad := strings.Repeat("  ", indent)

	switch n := node.(type) {
	case *ast.ExpressionStatement:
		fmt.Fprintf(w, "%sExpressionStatement\n", pad)
		dumpASTNode(w, n.Expression, indent+1)
	case *ast.BlockStatement:
		fmt.Fprintf(w, "%sBlockStatement (%d statements)\n", pad, len(n.Body))
		for _, s := range n.Body {
			dumpASTNode(w, s, indent+1)
		}
	case *ast.VariableDeclaration:
		fmt.Fprintf(w, "%sVariableDeclaration (%v)\n", pad, n.Kind)
		for _, d := range n.Declarations {
			dumpASTNode(w, d.ID, indent+1)
			if d.Init != nil {
				dumpASTNode(w, d.Init, indent+1)
			}
		}
	case *ast.IfStatement:
		fmt.Fprintf(w, "%sIfStatement\n", pad)
		dumpASTNode(w, n.Test, indent+1)
		dumpASTNode(w, n.Consequent, indent+1)
		if n.Alternate != nil {
			dumpASTNode(w, n.Alternate, indent+1)
		}
	case *ast.ReturnStatement:
		fmt.Fprintf(w, "%sReturnStatement\n", pad)
		if n.Argument != nil {
			dumpASTNode(w, n.Argument, indent+1)
		}
	case *ast.BinaryExpression:
		fmt.Fprintf(w, "%sBinaryExpression (%s)\n", pad, n.Op)
		dumpASTNode(w, n.Left, indent+1)
		dumpASTNode(w, n.Right, indent+1)
	case *ast.LogicalExpression:
		fmt.Fprintf(w, "%sLogicalExpression (%s)\n", pad, n.Op)
		dumpASTNode(w, n.Left, indent+1)
		dumpASTNode(w, n.Right, indent+1)
	case *ast.UnaryExpression:
		fmt.Fprintf(w, "%sUnaryExpression (%s)\n", pad, n.Op)
		dumpASTNode(w, n.Argument, indent+1)
	case *ast.CallExpression:
		fmt.Fprintf(w, "%sCallExpression\n", pad)
		dumpASTNode(w, n.Callee, indent+1)
		for _, a := range n.Arguments {
			dumpASTNode(w, a, indent+1)
		}
	case *ast.MemberExpression:
		fmt.Fprintf(w, "%sMemberExpression (computed=%v)\n", pad, n.Computed)
		dumpASTNode(w, n.Object, indent+1)
		dumpASTNode(w, n.Property, indent+1)
	case *ast.Identifier:
		fmt.Fprintf(w, "%sIdentifier: %s\n", pad, n.Name)
	case *ast.Literal:
		switch n.Kind {
		case ast.LitString:
			fmt.Fprintf(w, "%sStringLiteral: %q\n", pad, n.String)
		case ast.LitNumber:
			fmt.Fprintf(w, "%sNumberLiteral: %g\n", pad, n.Number)
		case ast.LitBool:
			fmt.Fprintf(w, "%sBoolLiteral: %v\n", pad, n.Bool)
		case ast.LitNull:
			fmt.Fprintf(w, "%sNullLiteral\n", pad)
		}
	case *ast.FunctionExpression:
		name := "<anonymous>"
		if n.ID != nil {
			name = n.ID.Name
		}
		fmt.Fprintf(w, "%sFunctionExpression: %s\n", pad, name)
		dumpASTNode(w, n.Body, indent+1)
	case *ast.ArrowFunctionExpression:
		fmt.Fprintf(w, "%sArrowFunctionExpression\n", pad)
	default:
		fmt.Fprintf(w, "%s%T\n", pad, node)
	}
}
