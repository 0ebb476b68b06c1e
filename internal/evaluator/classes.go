package evaluator

import "github.com/samlaycock/nookjs/internal/ast"

// evalClassDeclaration builds a Class value from a class body (spec
// §4.7): methods become Closures homed on the class, fields become
// InstanceField descriptors run at construction time, and static
// members/initializers run once, in declaration order, right here.
func (ev *Evaluator) evalClassDeclaration(env *Environment, cd *ast.ClassDeclaration) (Value, completion) {
	class := &Class{
		Name:      classNameOf(cd),
		Prototype: NewObject(),
		Statics:   NewObject(),
	}
	if cd.SuperClass != nil {
		sv, c := ev.evalExpr(env, cd.SuperClass)
		if c.isAbrupt() {
			return Undef, c
		}
		super, ok := sv.(*Class)
		if !ok {
			return Undef, ev.throwRuntime("class extends value is not a constructor")
		}
		class.Super = super
		class.Prototype.Proto = super.Prototype
	}

	// the class's own binding is visible inside method/field bodies and
	// static initializers (for `static` self-reference and recursive
	// methods), so declare it in a wrapper frame before evaluating members.
	classEnv := NewChildEnvironment(env)
	if cd.ID != nil {
		classEnv.Declare(cd.ID.Name, bindConst, class)
	}

	for _, m := range cd.Body.Members {
		switch member := m.(type) {
		case *ast.MethodDefinition:
			name, c := ev.propKeyName(classEnv, member.Key, member.Computed)
			if c.isAbrupt() {
				return Undef, c
			}
			if pid, ok := member.Key.(*ast.PrivateIdentifier); ok {
				name = "#" + pid.Name
			}
			closure := ev.makeClosure(classEnv, member.Value, class)
			if member.Kind == ast.MethodCtor {
				class.Ctor = closure
				continue
			}
			target := class.Prototype
			if member.Static {
				target = class.Statics
			}
			switch member.Kind {
			case ast.MethodGet:
				target.Set(accessorSlotName(name, "get"), closure)
			case ast.MethodSet:
				target.Set(accessorSlotName(name, "set"), closure)
			default:
				target.Set(name, closure)
			}
		case *ast.FieldDefinition:
			name, c := ev.propKeyName(classEnv, member.Key, member.Computed)
			if c.isAbrupt() {
				return Undef, c
			}
			if pid, ok := member.Key.(*ast.PrivateIdentifier); ok {
				name = pid.Name
			}
			if member.Static {
				var v Value = Undef
				if member.Value != nil {
					sv, c := ev.evalExpr(classEnv, member.Value)
					if c.isAbrupt() {
						return Undef, c
					}
					v = sv
				}
				if member.Private {
					class.Statics.SetPrivate(class, name, v)
				} else {
					class.Statics.Set(name, v)
				}
				continue
			}
			class.InstFields = append(class.InstFields, &InstanceField{
				Name:    name,
				Private: member.Private,
				Init:    member.Value,
			})
		case *ast.StaticBlock:
			blockEnv := NewFunctionEnvironment(classEnv)
			blockEnv.BindThis(class)
			for _, stmt := range member.Body {
				if c := ev.evalStatement(blockEnv, stmt); c.isAbrupt() {
					return Undef, c
				}
			}
		}
	}
	return class, normalCompletion()
}

func classNameOf(cd *ast.ClassDeclaration) string {
	if cd.ID != nil {
		return cd.ID.Name
	}
	return ""
}

// construct allocates a new instance of class, runs the super chain and
// instance field initializers, then the constructor body with `this`
// bound to the new instance (spec §4.7).
func (ev *Evaluator) construct(env *Environment, class *Class, args []Value) (Value, completion) {
	instance := NewObject()
	instance.Proto = class.Prototype
	instance.Class = class
	if c := ev.runConstructorChain(env, class, instance, args); c.isAbrupt() {
		return Undef, c
	}
	return instance, normalCompletion()
}

// runConstructorChain implements derived-class construction: a subclass
// without an explicit constructor implicitly forwards all arguments to
// `super(...)` before running its own field initializers (spec §4.7).
func (ev *Evaluator) runConstructorChain(env *Environment, class *Class, instance *Object, args []Value) completion {
	if class.Ctor == nil {
		if class.Super != nil {
			if c := ev.runConstructorChain(env, class.Super, instance, args); c.isAbrupt() {
				return c
			}
		}
		return ev.initFields(class, instance)
	}
	if ev.Run != nil {
		if err := ev.Run.EnterCall(); err != nil {
			return abortCompletion(err)
		}
		defer ev.Run.ExitCall()
	}
	frame := NewFunctionEnvironment(class.Ctor.Env)
	frame.BindThis(instance)
	if c := ev.bindParams(frame, class.Ctor.Params, class.Ctor.Rest, args); c.isAbrupt() {
		return c
	}
	if class.Super == nil {
		if c := ev.initFields(class, instance); c.isAbrupt() {
			return c
		}
	}
	body, ok := class.Ctor.Body.(*ast.BlockStatement)
	if !ok {
		return ev.throwRuntime("malformed constructor body")
	}
	ev.ctorFieldInit = append(ev.ctorFieldInit, ctorFrame{class: class, instance: instance})
	defer func() { ev.ctorFieldInit = ev.ctorFieldInit[:len(ev.ctorFieldInit)-1] }()
	c := ev.evalStatement(frame, body)
	switch c.kind {
	case cReturn, cNormal:
		return normalCompletion()
	default:
		return c
	}
}

type ctorFrame struct {
	class    *Class
	instance *Object
}

func (ev *Evaluator) initFields(class *Class, instance *Object) completion {
	for _, f := range class.InstFields {
		var v Value = Undef
		if f.Init != nil {
			initExpr, ok := f.Init.(ast.Expression)
			if !ok {
				continue
			}
			fieldEnv := NewFunctionEnvironment(ev.classFieldEnv(class))
			fieldEnv.BindThis(instance)
			iv, c := ev.evalExpr(fieldEnv, initExpr)
			if c.isAbrupt() {
				return c
			}
			v = iv
		}
		if f.Private {
			instance.SetPrivate(class, f.Name, v)
		} else {
			instance.Set(f.Name, v)
		}
	}
	return normalCompletion()
}

// classFieldEnv resolves the lexical environment field initializers run
// in: the constructor's captured environment if there is one, or a bare
// global-ish frame otherwise. Classes always have at least Prototype
// populated from classEnv at definition time, so Ctor.Env (when present)
// already has the class binding in scope.
func (ev *Evaluator) classFieldEnv(class *Class) *Environment {
	if class.Ctor != nil {
		return class.Ctor.Env
	}
	return NewGlobalEnvironment()
}

// evalSuperMember resolves `super.prop`/`super.#prop` from inside a
// method: looked up on the home class's superclass prototype, but bound
// to the current `this` so state mutation still affects the real
// instance (spec §4.7).
func (ev *Evaluator) evalSuperMember(env *Environment, m *ast.MemberExpression) (Value, Value, completion) {
	this := env.ThisValue()
	home := ev.currentHomeClass(env)
	if home == nil || home.Super == nil {
		return Undef, Undef, ev.throwRuntime("'super' keyword is only valid inside a derived class method")
	}
	key, c := ev.memberKey(env, m)
	if c.isAbrupt() {
		return Undef, Undef, c
	}
	if v, ok := home.Super.Prototype.Get(key); ok {
		return v, this, normalCompletion()
	}
	return Undef, this, normalCompletion()
}

// evalSuperCall implements `super(...)` inside a derived constructor: it
// runs the superclass's constructor chain against the same instance,
// then this class's own field initializers (spec §4.7 "field init after
// super()").
func (ev *Evaluator) evalSuperCall(env *Environment, call *ast.CallExpression) (Value, completion) {
	if len(ev.ctorFieldInit) == 0 {
		return Undef, ev.throwRuntime("'super' keyword is unexpected here")
	}
	top := ev.ctorFieldInit[len(ev.ctorFieldInit)-1]
	if top.class.Super == nil {
		return Undef, ev.throwRuntime("'super' keyword is only valid inside a derived class constructor")
	}
	args, c := ev.evalArguments(env, call.Arguments)
	if c.isAbrupt() {
		return Undef, c
	}
	if c := ev.runConstructorChain(env, top.class.Super, top.instance, args); c.isAbrupt() {
		return Undef, c
	}
	if c := ev.initFields(top.class, top.instance); c.isAbrupt() {
		return Undef, c
	}
	return Undef, normalCompletion()
}

// currentHomeClass recovers the class a running method belongs to by
// resolving `this`'s actual runtime class, since methods' lexical
// environments do not carry a HomeClass pointer directly reachable from
// Environment. This matches spec §4.7's note that super resolution is by
// the method's defining class, approximated here via the instance's own
// class chain (sufficient because prototype methods are not copied
// between classes).
func (ev *Evaluator) currentHomeClass(env *Environment) *Class {
	this, ok := env.ThisValue().(*Object)
	if !ok {
		return nil
	}
	return this.Class
}
