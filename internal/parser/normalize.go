package parser

import "github.com/samlaycock/nookjs/internal/ast"

// toAssignmentTarget converts an already-parsed expression into the node
// an AssignmentExpression's Left accepts: identifiers and member
// expressions pass through unchanged, while array/object literal
// expressions (ambiguous with destructuring patterns until the `=` is
// seen) are converted into their Pattern equivalents (spec §4.2
// "Assignment target normalization").
func (p *Parser) toAssignmentTarget(expr ast.Expression) ast.Node {
	switch e := expr.(type) {
	case *ast.Identifier, *ast.MemberExpression:
		return expr
	case *ast.ArrayExpression:
		return p.arrayExprToPattern(e)
	case *ast.ObjectExpression:
		return p.objectExprToPattern(e)
	default:
		return expr
	}
}

func (p *Parser) arrayExprToPattern(e *ast.ArrayExpression) *ast.ArrayPattern {
	pat := &ast.ArrayPattern{}
	pat.Position = e.Position
	for _, el := range e.Elements {
		if el == nil {
			pat.Elements = append(pat.Elements, nil)
			continue
		}
		if sp, ok := el.(*ast.SpreadElement); ok {
			rest := &ast.RestElement{Argument: p.exprToPattern(sp.Argument)}
			rest.Position = sp.Position
			pat.Rest = rest
			continue
		}
		pat.Elements = append(pat.Elements, p.exprToPattern(el))
	}
	return pat
}

func (p *Parser) objectExprToPattern(e *ast.ObjectExpression) *ast.ObjectPattern {
	pat := &ast.ObjectPattern{}
	pat.Position = e.Position
	for _, prop := range e.Properties {
		if prop.Kind == "spread" {
			sp := prop.Value.(*ast.SpreadElement)
			rest := &ast.RestElement{Argument: p.exprToPattern(sp.Argument)}
			rest.Position = sp.Position
			pat.Rest = rest
			continue
		}
		pp := &ast.ObjectPatternProperty{Key: prop.Key, Computed: prop.Computed, Shorthand: prop.Shorthand}
		pp.Position = prop.Position
		pp.Value = p.exprToPattern(prop.Value)
		pat.Properties = append(pat.Properties, pp)
	}
	return pat
}

// exprToPattern converts one element/property value expression into a
// Pattern, recursing through nested array/object literals and unwrapping
// `target = default` assignment expressions into AssignmentPattern.
func (p *Parser) exprToPattern(expr ast.Expression) ast.Pattern {
	switch e := expr.(type) {
	case *ast.AssignmentExpression:
		var left ast.Pattern
		if asExpr, ok := e.Left.(ast.Expression); ok {
			left = p.exprToPattern(asExpr)
		} else {
			left = e.Left.(ast.Pattern)
		}
		ap := &ast.AssignmentPattern{Left: left, Right: e.Right}
		ap.Position = e.Position
		return ap
	case *ast.ArrayExpression:
		return p.arrayExprToPattern(e)
	case *ast.ObjectExpression:
		return p.objectExprToPattern(e)
	case ast.Pattern:
		return e
	default:
		p.errorf("invalid destructuring target at %v", expr.Pos())
		id := &ast.Identifier{Name: "_invalid"}
		id.Position = expr.Pos()
		return id
	}
}
