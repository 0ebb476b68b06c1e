package feature

import "github.com/samlaycock/nookjs/internal/ast"

// TokensFor returns the feature tokens required by node n's form. Most
// nodes require exactly one token; a few (e.g. class fields with a
// private key) require two. Nodes with no gateable form (Program,
// Identifier, Literal, block-level plumbing) return nil.
func TokensFor(n ast.Node) []Token {
	switch v := n.(type) {
	case *ast.VariableDeclaration:
		if v.Kind == ast.DeclVar {
			return []Token{VariableDeclarations}
		}
		return []Token{VariableDeclarations, LetConst}
	case *ast.FunctionExpression:
		if v.Generator || v.Async {
			toks := []Token{FunctionExpressions}
			if v.Async {
				toks = append(toks, AsyncAwait)
			}
			if v.Generator {
				toks = append(toks, Generators)
			}
			return toks
		}
		if v.ID != nil {
			return []Token{FunctionDeclarations}
		}
		return []Token{FunctionExpressions}
	case *ast.ArrowFunctionExpression:
		if v.Async {
			return []Token{ArrowFunctions, AsyncAwait}
		}
		return []Token{ArrowFunctions}
	case *ast.AwaitExpression:
		return []Token{AsyncAwait}
	case *ast.YieldExpression:
		return []Token{Generators}
	case *ast.ClassDeclaration:
		return []Token{Classes}
	case *ast.FieldDefinition:
		if v.Private {
			return []Token{ClassFields, PrivateFields}
		}
		return []Token{ClassFields}
	case *ast.MethodDefinition:
		if v.Private {
			return []Token{PrivateFields}
		}
		return nil
	case *ast.StaticBlock:
		return []Token{StaticBlocks}
	case *ast.BinaryExpression:
		if v.Op == ast.OpPow {
			return []Token{BinaryOperators, ExponentiationOp}
		}
		return []Token{BinaryOperators}
	case *ast.UnaryExpression:
		return []Token{UnaryOperators}
	case *ast.LogicalExpression:
		return []Token{LogicalOperators}
	case *ast.ConditionalExpression:
		return []Token{ConditionalExpression}
	case *ast.UpdateExpression:
		return []Token{UpdateExpression}
	case *ast.AssignmentExpression:
		switch v.Op {
		case ast.AssignAnd, ast.AssignOr, ast.AssignNullish:
			return []Token{AssignmentOperators, LogicalAssignment}
		default:
			return []Token{AssignmentOperators}
		}
	case *ast.MemberExpression:
		if v.Optional {
			return []Token{MemberExpression, OptionalChaining}
		}
		return []Token{MemberExpression}
	case *ast.ChainExpression:
		return []Token{OptionalChaining}
	case *ast.CallExpression:
		if v.Optional {
			return []Token{CallExpression, OptionalChaining}
		}
		return []Token{CallExpression}
	case *ast.NewExpression:
		return []Token{NewExpression}
	case *ast.ThisExpression:
		return []Token{ThisExpression}
	case *ast.ObjectExpression:
		return []Token{ObjectLiterals}
	case *ast.ArrayExpression:
		return []Token{ArrayLiterals}
	case *ast.SpreadElement:
		return []Token{SpreadOperator}
	case *ast.RestElement:
		return []Token{RestParameters}
	case *ast.ObjectPattern, *ast.ArrayPattern:
		return []Token{Destructuring}
	case *ast.Param:
		if v.Default != nil {
			return []Token{DefaultParameters}
		}
		return nil
	case *ast.TemplateLiteral:
		return []Token{TemplateLiterals}
	case *ast.IfStatement:
		return []Token{IfStatement}
	case *ast.SwitchStatement:
		return []Token{SwitchStatement}
	case *ast.ForStatement:
		return []Token{ForStatement}
	case *ast.ForInStatement:
		return []Token{ForInStatement}
	case *ast.ForOfStatement:
		return []Token{ForOfStatement}
	case *ast.WhileStatement:
		return []Token{WhileStatement}
	case *ast.DoWhileStatement:
		return []Token{DoWhileStatement}
	case *ast.BreakStatement:
		return []Token{BreakStatement}
	case *ast.ContinueStatement:
		return []Token{ContinueStatement}
	case *ast.ReturnStatement:
		return []Token{ReturnStatement}
	case *ast.ThrowStatement:
		return []Token{ThrowStatement}
	case *ast.TryStatement:
		return []Token{TryCatchStatement}
	case *ast.ImportDeclaration, *ast.ExportNamedDeclaration, *ast.ExportDefaultDeclaration, *ast.ExportAllDeclaration:
		return []Token{Modules}
	default:
		return nil
	}
}
