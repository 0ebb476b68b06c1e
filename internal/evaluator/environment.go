package evaluator

import "github.com/samlaycock/nookjs/internal/ifaceerr"

// bindingKind distinguishes var-style bindings (reassignable, hoisted to
// the nearest function/global frame, redeclarable) from let/const
// (block-scoped, not redeclarable, const additionally not reassignable).
type bindingKind int

const (
	bindVar bindingKind = iota
	bindLet
	bindConst
)

type binding struct {
	value Value
	kind  bindingKind
}

// Environment is one lexical frame in the scope chain (spec §4.3): a
// table of bindings plus a parent link. isFunctionFrame marks the frames
// that var-hoisting and `arguments`/`this` resolution stop at.
type Environment struct {
	vars           map[string]*binding
	parent         *Environment
	isFunctionFrame bool

	thisVal   Value
	hasThis   bool
	newTarget Value
}

// NewGlobalEnvironment creates the root frame of a fresh evaluation.
func NewGlobalEnvironment() *Environment {
	return &Environment{vars: make(map[string]*binding), isFunctionFrame: true}
}

// NewChildEnvironment opens a block-scoped frame under parent.
func NewChildEnvironment(parent *Environment) *Environment {
	return &Environment{vars: make(map[string]*binding), parent: parent}
}

// NewFunctionEnvironment opens a function-call frame under parent, the
// point var declarations and `arguments`/`this` resolution stop climbing
// at.
func NewFunctionEnvironment(parent *Environment) *Environment {
	return &Environment{vars: make(map[string]*binding), parent: parent, isFunctionFrame: true}
}

// Declare introduces name at this frame. var-kind bindings climb to the
// nearest function frame first, per hoisting semantics; let/const stay in
// the block frame they were declared in and error on redeclaration.
func (e *Environment) Declare(name string, kind bindingKind, value Value) error {
	if kind == bindVar {
		frame := e.nearestFunctionFrame()
		if existing, ok := frame.vars[name]; ok {
			if existing.kind != bindVar {
				return ifaceerr.NewSecurity("cannot redeclare block-scoped variable %q", name)
			}
			if value != nil {
				existing.value = value
			}
			return nil
		}
		v := value
		if v == nil {
			v = Undef
		}
		frame.vars[name] = &binding{value: v, kind: bindVar}
		return nil
	}
	if _, ok := e.vars[name]; ok {
		return ifaceerr.NewSecurity("identifier %q has already been declared", name)
	}
	v := value
	if v == nil {
		v = Undef
	}
	e.vars[name] = &binding{value: v, kind: kind}
	return nil
}

// DeclareGlobal installs name as a const binding, the form pkg/sandbox
// uses to install both standard and host-supplied globals so sandbox
// code can read but never reassign them.
func (e *Environment) DeclareGlobal(name string, value Value) error {
	return e.Declare(name, bindConst, value)
}

func (e *Environment) nearestFunctionFrame() *Environment {
	for f := e; f != nil; f = f.parent {
		if f.isFunctionFrame {
			return f
		}
	}
	return e
}

// Get resolves name through the scope chain.
func (e *Environment) Get(name string) (Value, bool) {
	for f := e; f != nil; f = f.parent {
		if b, ok := f.vars[name]; ok {
			return b.value, true
		}
	}
	return nil, false
}

// Assign reassigns an existing binding through the scope chain, failing
// if the binding is const or does not exist (spec §4.3).
func (e *Environment) Assign(name string, value Value) error {
	for f := e; f != nil; f = f.parent {
		if b, ok := f.vars[name]; ok {
			if b.kind == bindConst {
				return ifaceerr.NewSecurity("assignment to constant variable %q", name)
			}
			b.value = value
			return nil
		}
	}
	return ifaceerr.NewSecurity("%q is not defined", name)
}

// Has reports whether name resolves anywhere in the chain.
func (e *Environment) Has(name string) bool {
	_, ok := e.Get(name)
	return ok
}

// ThisValue resolves `this` by climbing to the nearest frame that has one
// explicitly bound (function call frames set it; arrow frames do not, so
// they transparently inherit the enclosing one).
func (e *Environment) ThisValue() Value {
	for f := e; f != nil; f = f.parent {
		if f.hasThis {
			return f.thisVal
		}
	}
	return Undef
}

// BindThis sets the `this` value visible from this frame downward,
// stopping the climb in ThisValue.
func (e *Environment) BindThis(v Value) {
	e.thisVal = v
	e.hasThis = true
}

// NewTarget resolves `new.target` the same way `this` resolves.
func (e *Environment) NewTarget() Value {
	for f := e; f != nil; f = f.parent {
		if f.hasThis {
			if f.newTarget != nil {
				return f.newTarget
			}
			return Undef
		}
	}
	return Undef
}

func (e *Environment) SetNewTarget(v Value) { e.newTarget = v }
