package cmd

import (
	"fmt"
	"os"

	"github.com/samlaycock/nookjs/internal/lexer"
	"github.com/samlaycock/nookjs/internal/token"
	"github.com/spf13/cobra"
)

var (
	lexEvalExpr string
	showPos     bool
	showKind    bool
	onlyErrors  bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a nookjs script",
	Long: `Tokenize (lex) a nookjs program and print the resulting tokens.

Examples:
  # Tokenize a script file
  nookjs lex script.js

  # Tokenize an inline expression
  nookjs lex -e "let x = 42;"

  # Show token kinds and positions
  nookjs lex --show-kind --show-pos script.js

  # Show only illegal tokens
  nookjs lex --only-errors script.js`,
	Args: cobra.MaximumNArgs(1),
	RunE: lexScript,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().StringVarP(&lexEvalExpr, "eval", "e", "", "tokenize inline code instead of reading from file")
	lexCmd.Flags().BoolVar(&showPos, "show-pos", false, "show token positions (line:column)")
	lexCmd.Flags().BoolVar(&showKind, "show-kind", false, "show token kind names")
	lexCmd.Flags().BoolVar(&onlyErrors, "only-errors", false, "show only illegal tokens")
}

func lexScript(cmd *cobra.Command, args []string) error {
	var input, filename string

	switch {
	case lexEvalExpr != "":
		input = lexEvalExpr
		filename = "<eval>"
	case len(args) == 1:
		filename = args[0]
		content, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", filename, err)
		}
		input = string(content)
	default:
		return fmt.Errorf("either provide a file path or use -e for inline code")
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		fmt.Printf("Tokenizing: %s\n", filename)
		fmt.Printf("Input length: %d bytes\n", len(input))
		fmt.Println("---")
	}

	l := lexer.New(input)
	tokenCount, errorCount := 0, 0

	for {
		tok := l.Next()
		if onlyErrors && tok.Kind != token.ILLEGAL {
			if tok.Kind == token.EOF {
				break
			}
			continue
		}

		tokenCount++
		if tok.Kind == token.ILLEGAL {
			errorCount++
		}
		printToken(tok)

		if tok.Kind == token.EOF {
			break
		}
	}

	if verbose {
		fmt.Println("---")
		fmt.Printf("Total tokens: %d\n", tokenCount)
		if errorCount > 0 {
			fmt.Printf("Errors: %d\n", errorCount)
		}
	}

	if onlyErrors && errorCount > 0 {
		return fmt.Errorf("found %d illegal token(s)", errorCount)
	}
	return nil
}

func printToken(tok token.Token) {
	var output string
	if showKind {
		output = fmt.Sprintf("[%-12s]", tok.Kind)
	}

	switch {
	case tok.Kind == token.EOF:
		output += " EOF"
	case tok.Kind == token.ILLEGAL:
		output += fmt.Sprintf(" ILLEGAL: %q", tok.Literal)
	case tok.Literal == "":
		output += fmt.Sprintf(" %s", tok.Kind)
	default:
		output += fmt.Sprintf(" %q", tok.Literal)
	}

	if showPos {
		output += fmt.Sprintf(" @%d:%d", tok.Pos.Line, tok.Pos.Column)
	}
	fmt.Println(output)
}
