/*
 * mq
 *
 * Copyright 2024 mq contributors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// Package eval implements the tree-walking evaluator of spec.md §4.5: a
// single exported Evaluator that consumes a parsed ast.Program and a
// sequence of input values and produces the pipeline's output values.
//
// Grounded on the teacher's interpreter/interpreter.go (an AST-walking
// ECALInterpreter carrying scope/call-stack/debugger state exactly the way
// spec.md §4.5 lists Evaluator state), generalized from ECAL's statement
// tree to mq's Expr union and from ECAL's scope.Scope to this module's own
// env.Env. Evaluator implements builtin.Applier so the higher-order array
// builtins (map/filter/reduce) can call back into closures and native
// functions without builtin importing this package.
package eval

import (
	"errors"
	"fmt"
	"os"

	"github.com/harehare/mq/arena"
	"github.com/harehare/mq/ast"
	"github.com/harehare/mq/builtin"
	"github.com/harehare/mq/env"
	"github.com/harehare/mq/internal/mqerr"
	"github.com/harehare/mq/mdast"
	"github.com/harehare/mq/module"
	"github.com/harehare/mq/selector"
	"github.com/harehare/mq/token"
	"github.com/harehare/mq/value"
)

// Options configures an Evaluator (spec.md §6.1's
// set_max_call_stack_depth/set_filter_none).
type Options struct {
	// MaxCallStackDepth bounds closure call recursion (spec.md §4.5,
	// default 1024).
	MaxCallStackDepth int
	// FilterNone drops None values from the final output when true
	// (spec.md §4.5, default true).
	FilterNone bool
}

// DefaultOptions returns spec.md §4.5's stated defaults.
func DefaultOptions() Options {
	return Options{MaxCallStackDepth: 1024, FilterNone: true}
}

// Evaluator walks one parsed ast.Tree against a module.Loader and an
// optional Debugger. The engine facade builds a fresh Evaluator for every
// Eval call, so no two calls share an Evaluator (spec.md §5).
type Evaluator struct {
	tree       *ast.Tree
	loader     *module.Loader
	opts       Options
	global     *env.Env
	debugger   Debugger
	callStack  []mqerr.Frame
	allInputs  []value.Value
	sourceName string
	sourceText string
	macros     map[string]ast.NodeId   // name -> Macro node, this module's own
	namespaces map[string]*module.Module // Import alias -> loaded module
}

// New creates an Evaluator over tree, resolving Include/Import through
// loader. loader may be nil if the program never uses them.
func New(tree *ast.Tree, loader *module.Loader, opts Options) *Evaluator {
	return &Evaluator{
		tree:       tree,
		loader:     loader,
		opts:       opts,
		global:     env.New(),
		macros:     make(map[string]ast.NodeId),
		namespaces: make(map[string]*module.Module),
		sourceName: module.TopLevelModule,
	}
}

// SetDebugger installs d, consulted before evaluating each node (spec.md
// §4.7). A nil Debugger (the default) disables debugging entirely.
func (ev *Evaluator) SetDebugger(d Debugger) { ev.debugger = d }

// SetSourceText records the original query text so DebugContext.SourceCode
// (spec.md §4.7) can carry it through to a debugger's pretty-printing; the
// engine facade that owns both the text and the parsed tree calls this
// before Run.
func (ev *Evaluator) SetSourceText(src string) { ev.sourceText = src }

// DefineValue binds name to v in the global frame before running, the
// mechanism behind Engine::define_string_value (spec.md §6.1).
func (ev *Evaluator) DefineValue(name string, v value.Value) {
	ev.global.Let(ev.tree.Idents.Intern(name), v)
}

// LoadBuiltinModule splices m's top-level functions, vars and macros into
// the global frame - the mechanism behind Engine::load_builtin_module()
// (spec.md §6.1: "the builtin module is always loaded first at engine
// startup and provides the global function namespace"). It's the same
// cross-tree splice an explicit Include performs (evalInclude/spliceInto),
// just targeting the global frame instead of a call-site one, so the
// builtin module's defs are visible to every subsequent Run the same way an
// Include'd module's defs are visible from its include point onward.
func (ev *Evaluator) LoadBuiltinModule(m *module.Module) error {
	return ev.spliceInto(m, ev.global)
}

// Run evaluates prog once per input value (spec.md §4.5's `eval(program,
// inputs) -> Vec<Value>`), concatenating per-input outputs in input order
// and filtering None per Options.FilterNone.
func (ev *Evaluator) Run(prog ast.Program, inputs []value.Value) ([]value.Value, error) {
	ev.allInputs = inputs

	var out []value.Value
	for _, v := range inputs {
		results, err := ev.foldStages(prog, []value.Value{v}, ev.global)
		if err != nil {
			return nil, err
		}
		out = append(out, results...)
	}

	if !ev.opts.FilterNone {
		return out, nil
	}
	filtered := out[:0:0]
	for _, v := range out {
		if v.Kind != value.KindNone {
			filtered = append(filtered, v)
		}
	}
	return filtered, nil
}

// foldStages is the fold of spec.md §4.5: "the output values of a become
// the input sequence to b, and so on. If an intermediate stage yields
// multiple values, later stages run once per value." An Array-valued
// stage result is treated as "multiple values" and fans out to the next
// stage - the reading adopted here for both a top-level Program (each
// top-level node is one stage) and a nested Pipe node.
func (ev *Evaluator) foldStages(stages []ast.NodeId, selfs []value.Value, fr *env.Env) ([]value.Value, error) {
	cur := selfs
	for _, id := range stages {
		var next []value.Value
		for _, s := range cur {
			v, err := ev.evalNode(id, fr, s)
			if err != nil {
				return nil, err
			}
			if v.Kind == value.KindArray {
				next = append(next, v.Arr...)
			} else {
				next = append(next, v)
			}
		}
		cur = next
	}
	return cur, nil
}

// evalNode dispatches on a node's Expr kind (spec.md §4.5's rule table).
// self is the current pipeline input for this node.
func (ev *Evaluator) evalNode(id ast.NodeId, fr *env.Env, self value.Value) (value.Value, error) {
	if ev.debugger != nil {
		ev.debugNode(id, fr, self)
	}

	n := ev.tree.Node(id)
	switch e := n.Expr.(type) {
	case ast.Number:
		return value.Number(e.Value), nil
	case ast.String:
		return value.String(e.Value), nil
	case ast.Bool:
		return value.Bool(e.Value), nil
	case ast.SymbolLit:
		// value.Value has no dedicated symbol kind; a symbol literal
		// evaluates to the string of its name.
		return value.String(e.Value.String()), nil
	case ast.NoneLit:
		return value.None, nil
	case ast.ArrayLit:
		elems, err := ev.evalArgs(e.Elems, fr, self)
		if err != nil {
			return value.None, err
		}
		return value.Array(elems), nil

	case ast.IdentExpr:
		v, ok := fr.Get(e.Name)
		if !ok {
			return value.None, ev.runtimeErr(n, fmt.Errorf("%w: %s", mqerr.ErrUndefinedVariable, e.Name.String()))
		}
		return v, nil
	case ast.SelfExpr:
		return self, nil
	case ast.NodesExpr:
		return value.Array(append([]value.Value(nil), ev.allInputs...)), nil

	case ast.Let:
		v, err := ev.evalNode(e.Value, fr, self)
		if err != nil {
			return value.None, err
		}
		fr.Let(e.Name, v)
		return self, nil
	case ast.Var:
		v, err := ev.evalNode(e.Value, fr, self)
		if err != nil {
			return value.None, err
		}
		fr.Var(e.Name, v)
		return self, nil
	case ast.Assign:
		v, err := ev.evalNode(e.Value, fr, self)
		if err != nil {
			return value.None, err
		}
		if err := fr.Assign(e.Name, v); err != nil {
			return value.None, ev.runtimeErr(n, err)
		}
		return self, nil

	case ast.If:
		return ev.evalIf(e, fr, self)
	case ast.While:
		return ev.evalWhile(e, fr, self)
	case ast.Until:
		return ev.evalUntil(e, fr, self)
	case ast.Loop:
		return ev.evalLoop(e, fr, self)
	case ast.Foreach:
		return ev.evalForeach(e, fr, self)
	case ast.Break:
		var v value.Value
		if e.Value != nil {
			var err error
			v, err = ev.evalNode(*e.Value, fr, self)
			if err != nil {
				return value.None, err
			}
		}
		return value.None, breakSignal{value: v}
	case ast.Continue:
		return value.None, continueSignal{}

	case ast.Match:
		return ev.evalMatch(e, fr, self)

	case ast.Call:
		v, err := ev.evalCall(e, fr, self)
		if err != nil {
			return value.None, ev.runtimeErr(n, err)
		}
		return v, nil
	case ast.CallDynamic:
		callee, err := ev.evalNode(e.Callee, fr, self)
		if err != nil {
			return value.None, err
		}
		argv, err := ev.evalArgs(e.Args, fr, self)
		if err != nil {
			return value.None, err
		}
		v, err := ev.dispatch(callee, self, argv)
		if e.Optional && err != nil {
			return value.None, nil
		}
		if err != nil {
			return value.None, ev.runtimeErr(n, err)
		}
		return v, nil
	case ast.Def:
		ev.bindClosure(fr, e.Name, toStrings(e.Params), e.Body)
		return self, nil
	case ast.Fn:
		return value.Function(value.Closure{Params: toStrings(e.Params), Body: e.Body, Env: fr}), nil
	case ast.Macro:
		ev.macros[e.Name.String()] = id
		return self, nil

	case ast.And:
		a, err := ev.evalNode(e.A, fr, self)
		if err != nil {
			return value.None, err
		}
		if !value.Truthy(a) {
			return a, nil
		}
		return ev.evalNode(e.B, fr, self)
	case ast.Or:
		a, err := ev.evalNode(e.A, fr, self)
		if err != nil {
			return value.None, err
		}
		if value.Truthy(a) {
			return a, nil
		}
		return ev.evalNode(e.B, fr, self)
	case ast.Paren:
		return ev.evalNode(e.Inner, fr, self)
	case ast.Try:
		v, err := ev.evalNode(e.Body, fr, self)
		if err == nil {
			return v, nil
		}
		if isControlSignal(err) {
			return value.None, err
		}
		if e.Catch == nil {
			return value.None, nil
		}
		return ev.evalNode(*e.Catch, fr, errToValue(err))
	case ast.Block:
		return ev.evalBlock(e.Stmts, fr, self)
	case ast.Pipe:
		results, err := ev.foldStages(e.Stages, []value.Value{self}, fr)
		if err != nil {
			return value.None, err
		}
		switch len(results) {
		case 0:
			return value.None, nil
		case 1:
			return results[0], nil
		default:
			return value.Array(results), nil
		}

	case ast.InterpolatedString:
		return ev.evalInterpolatedString(e, fr, self)

	case ast.SelectorExpr:
		return ev.evalSelector(e, self)

	case ast.Include:
		if err := ev.evalInclude(e, fr); err != nil {
			return value.None, ev.runtimeErr(n, err)
		}
		return self, nil
	case ast.Import:
		if err := ev.evalImport(e, e.Path); err != nil {
			return value.None, ev.runtimeErr(n, err)
		}
		return self, nil
	case ast.ModuleDecl:
		if err := ev.evalModuleDecl(e); err != nil {
			return value.None, ev.runtimeErr(n, err)
		}
		return self, nil
	case ast.QualifiedAccess:
		return ev.evalQualifiedAccess(e, fr, self)

	case ast.Quote:
		return value.String(ev.renderQuoted(e.Inner, fr, self)), nil
	case ast.Unquote:
		return ev.evalNode(e.Inner, fr, self)
	}

	return value.None, fmt.Errorf("eval: unhandled node kind %T", n.Expr)
}

func (ev *Evaluator) evalBlock(stmts []ast.NodeId, fr *env.Env, self value.Value) (value.Value, error) {
	result := self
	for _, id := range stmts {
		v, err := ev.evalNode(id, fr, self)
		if err != nil {
			return value.None, err
		}
		result = v
	}
	return result, nil
}

func (ev *Evaluator) evalArgs(ids []ast.NodeId, fr *env.Env, self value.Value) ([]value.Value, error) {
	argv := make([]value.Value, len(ids))
	for i, id := range ids {
		v, err := ev.evalNode(id, fr, self)
		if err != nil {
			return nil, err
		}
		argv[i] = v
	}
	return argv, nil
}

func (ev *Evaluator) evalIf(e ast.If, fr *env.Env, self value.Value) (value.Value, error) {
	for _, b := range e.Branches {
		if b.Cond == nil {
			return ev.evalNode(b.Body, fr, self)
		}
		c, err := ev.evalNode(*b.Cond, fr, self)
		if err != nil {
			return value.None, err
		}
		if value.Truthy(c) {
			return ev.evalNode(b.Body, fr, self)
		}
	}
	return value.None, nil
}

func (ev *Evaluator) evalWhile(e ast.While, fr *env.Env, self value.Value) (value.Value, error) {
	result := value.None
	for {
		c, err := ev.evalNode(e.Cond, fr, self)
		if err != nil {
			return value.None, err
		}
		if !value.Truthy(c) {
			return result, nil
		}
		v, err := ev.evalNode(e.Body, fr, self)
		if brk, ok := asBreak(err); ok {
			if brk.value.Kind != value.KindNone {
				return brk.value, nil
			}
			return result, nil
		}
		if isContinue(err) {
			continue
		}
		if err != nil {
			return value.None, err
		}
		result = v
	}
}

func (ev *Evaluator) evalUntil(e ast.Until, fr *env.Env, self value.Value) (value.Value, error) {
	result := value.None
	for {
		c, err := ev.evalNode(e.Cond, fr, self)
		if err != nil {
			return value.None, err
		}
		if value.Truthy(c) {
			return result, nil
		}
		v, err := ev.evalNode(e.Body, fr, self)
		if brk, ok := asBreak(err); ok {
			if brk.value.Kind != value.KindNone {
				return brk.value, nil
			}
			return result, nil
		}
		if isContinue(err) {
			continue
		}
		if err != nil {
			return value.None, err
		}
		result = v
	}
}

func (ev *Evaluator) evalLoop(e ast.Loop, fr *env.Env, self value.Value) (value.Value, error) {
	result := value.None
	for {
		v, err := ev.evalNode(e.Body, fr, self)
		if brk, ok := asBreak(err); ok {
			if brk.value.Kind != value.KindNone {
				return brk.value, nil
			}
			return result, nil
		}
		if isContinue(err) {
			continue
		}
		if err != nil {
			return value.None, err
		}
		result = v
	}
}

func (ev *Evaluator) evalForeach(e ast.Foreach, fr *env.Env, self value.Value) (value.Value, error) {
	iter, err := ev.evalNode(e.Iter, fr, self)
	if err != nil {
		return value.None, err
	}
	if iter.Kind != value.KindArray {
		return value.None, fmt.Errorf("%w: foreach: want array, got %s", mqerr.ErrTypeMismatch, iter.Kind)
	}

	child := env.NewChild(fr)
	var results []value.Value
	for _, elem := range iter.Arr {
		child.Let(e.Name, elem)
		v, err := ev.evalNode(e.Body, child, self)
		if brk, ok := asBreak(err); ok {
			if brk.value.Kind != value.KindNone {
				results = append(results, brk.value)
			}
			break
		}
		if isContinue(err) {
			continue
		}
		if err != nil {
			return value.None, err
		}
		results = append(results, v)
	}
	return value.Array(results), nil
}

// evalCall implements spec.md §4.5's Call rule: args evaluated strictly,
// f resolved as a builtin first then as an env-bound closure, arity
// mismatch surfaces as mqerr.ErrArity, and `?` turns any runtime error
// from this call into None without affecting outer frames.
func (ev *Evaluator) evalCall(e ast.Call, fr *env.Env, self value.Value) (value.Value, error) {
	argv, err := ev.evalArgs(e.Args, fr, self)
	if err != nil {
		return value.None, err
	}

	name := e.Name.String()
	v, err := ev.invoke(name, fr, self, argv)
	if e.Optional && err != nil {
		return value.None, nil
	}
	return v, err
}

// prependSelf implements mq's current-value call convention: a call in pipe
// position, `a | f(x)`, invokes f with `[a, x]`, not just `[x]` - self rides
// along as the implicit first argument whenever the callee still has an
// unfilled argument slot for it. needed is the callee's required argument
// count (a builtin's MinArity, or a closure's len(Params)): self is
// prepended only when argv alone falls short of it, so an explicit full
// argument list (or a zero-param callee that reads `self` directly in its
// body rather than through a parameter) is left untouched - prepending
// there would either shadow an explicit argument or blow the callee's
// arity for no reason. A bare, unpiped call (self == None) never prepends.
func prependSelf(self value.Value, argv []value.Value, needed int) []value.Value {
	if self.Kind == value.KindNone || len(argv) >= needed {
		return argv
	}
	out := make([]value.Value, 0, len(argv)+1)
	out = append(out, self)
	return append(out, argv...)
}

// invoke resolves name to a builtin, then a closure bound in fr, then a
// macro, prepending self into the call's arguments per prependSelf before
// dispatch.
func (ev *Evaluator) invoke(name string, fr *env.Env, self value.Value, argv []value.Value) (value.Value, error) {
	if spec, ok := builtin.Lookup(name); ok {
		return builtin.Call(ev, name, prependSelf(self, argv, spec.MinArity))
	}

	ident := ev.tree.Idents.Intern(name)
	if fnVal, ok := fr.Get(ident); ok {
		return ev.callClosureWithSelf(fnVal, self, argv)
	}

	if macroID, ok := ev.macros[name]; ok {
		return ev.invokeMacro(macroID, argv)
	}

	return value.None, fmt.Errorf("%w: %s", mqerr.ErrUndefinedVariable, name)
}

// dispatch is invoke's counterpart for a CallDynamic callee already
// evaluated to a function value (eval.go's ast.CallDynamic case).
func (ev *Evaluator) dispatch(fn value.Value, self value.Value, argv []value.Value) (value.Value, error) {
	return ev.callClosureWithSelf(fn, self, argv)
}

// callClosureWithSelf dispatches fn (a Closure or NativeFunction), prepending
// self into argv only far enough to fill fn's own arity (see prependSelf),
// and - for a Closure - evaluates its body with self bound to the call
// subject instead of None, so a standard-module def like
// `def json_get(): from_json(self);` (module/stdmodules.go) sees the piped
// value through the `self` keyword the same way it sees its named params,
// while a zero-param def that already reads `self` directly in its body
// (`def node_type(): type(self);`) isn't handed a
// mismatched extra argument.
func (ev *Evaluator) callClosureWithSelf(fn value.Value, self value.Value, argv []value.Value) (value.Value, error) {
	switch fn.Kind {
	case value.KindNativeFunction:
		spec, _ := builtin.Lookup(fn.Native.Name)
		return builtin.Call(ev, fn.Native.Name, prependSelf(self, argv, spec.MinArity))
	case value.KindFunction:
		return ev.callClosure(fn.Closure, prependSelf(self, argv, len(fn.Closure.Params)), self)
	default:
		return value.None, fmt.Errorf("%w: value of kind %s is not callable", mqerr.ErrTypeMismatch, fn.Kind)
	}
}

// Apply implements builtin.Applier, invoking fn (a Closure or
// NativeFunction value) with argv and no self of its own - the inversion of
// control map/filter/reduce need, where the per-element argument already is
// the whole call (spec.md §4.6: `map(arr, fn)` calls fn once per element,
// not once per pipe stage, so there is no outer self to fold in here).
func (ev *Evaluator) Apply(fn value.Value, argv []value.Value) (value.Value, error) {
	switch fn.Kind {
	case value.KindNativeFunction:
		return builtin.Call(ev, fn.Native.Name, argv)
	case value.KindFunction:
		return ev.callClosure(fn.Closure, argv, value.None)
	default:
		return value.None, fmt.Errorf("%w: value of kind %s is not callable", mqerr.ErrTypeMismatch, fn.Kind)
	}
}

func (ev *Evaluator) callClosure(c value.Closure, argv []value.Value, self value.Value) (value.Value, error) {
	if len(argv) != len(c.Params) {
		return value.None, fmt.Errorf("%w: closure takes %d args, got %d", mqerr.ErrArity, len(c.Params), len(argv))
	}
	if len(ev.callStack) >= ev.maxDepth() {
		return value.None, mqerr.ErrCallStackOverflow
	}

	parent, _ := c.Env.(*env.Env)
	child := env.NewChild(parent)
	for i, p := range c.Params {
		child.Let(ev.tree.Idents.Intern(p), argv[i])
	}

	ev.callStack = append(ev.callStack, mqerr.Frame{DisplayName: "<closure>", Source: ev.sourceName})
	v, err := ev.evalNode(c.Body, child, self)
	ev.callStack = ev.callStack[:len(ev.callStack)-1]
	return v, err
}

func (ev *Evaluator) maxDepth() int {
	if ev.opts.MaxCallStackDepth > 0 {
		return ev.opts.MaxCallStackDepth
	}
	return 1024
}

// bindClosure builds a Closure for a Def and Let-binds it under name in
// fr. The frame pointer (not its current contents) is captured, so a
// recursive call that looks name up again at invocation time sees the
// binding even though it is installed after the Closure value is built.
func (ev *Evaluator) bindClosure(fr *env.Env, name arena.Ident, params []string, body ast.NodeId) {
	fr.Let(name, value.Function(value.Closure{Params: params, Body: body, Env: fr}))
}

func toStrings(idents []arena.Ident) []string {
	out := make([]string, len(idents))
	for i, id := range idents {
		out[i] = id.String()
	}
	return out
}

func (ev *Evaluator) evalInterpolatedString(e ast.InterpolatedString, fr *env.Env, self value.Value) (value.Value, error) {
	var b []byte
	for _, seg := range e.Segments {
		switch seg.Kind {
		case ast.SegText:
			b = append(b, seg.Text...)
		case ast.SegSelf:
			b = append(b, self.String()...)
		case ast.SegEnv:
			b = append(b, os.Getenv(seg.Text)...)
		case ast.SegExpr:
			v, err := ev.evalNode(seg.Expr, fr, self)
			if err != nil {
				return value.None, err
			}
			b = append(b, v.String()...)
		}
	}
	return value.String(string(b)), nil
}

func (ev *Evaluator) evalSelector(e ast.SelectorExpr, self value.Value) (value.Value, error) {
	if self.Kind != value.KindMarkdown {
		return value.None, nil
	}

	if selector.IsAttribute(e.Sel.Name) {
		a, ok := mdast.Attribute(self.Markdown, e.Sel.Name)
		if !ok {
			return value.None, nil
		}
		return attrToValue(a), nil
	}

	if mdast.MatchesType(self.Markdown, e.Sel) {
		return self, nil
	}
	return value.None, nil
}

func attrToValue(a interface{}) value.Value {
	switch v := a.(type) {
	case string:
		return value.String(v)
	case float64:
		return value.Number(v)
	case bool:
		return value.Bool(v)
	case []mdast.Node:
		out := make([]value.Value, len(v))
		for i, n := range v {
			out[i] = value.Markdown(n)
		}
		return value.Array(out)
	default:
		return value.None
	}
}

// runtimeErr wraps err as an mqerr.RuntimeError carrying n's source range,
// appending a call-stack trace frame when err already is one (spec.md
// §4.5's "every function invocation pushes a frame").
func (ev *Evaluator) runtimeErr(n ast.Node, err error) error {
	if err == nil {
		return nil
	}
	if isControlSignal(err) {
		return err
	}
	tok := ev.tree.Token(n)
	var re *mqerr.RuntimeError
	if errors.As(err, &re) {
		re.AddTrace(mqerr.Frame{DisplayName: ev.sourceName, Range: toErrRange(tok.Range), Source: ev.sourceName})
		return re
	}
	return mqerr.NewRuntimeError(ev.sourceName, err, err.Error(), toErrRange(tok.Range))
}

func toErrRange(r token.Range) mqerr.Range {
	return mqerr.Range{
		Start: mqerr.Position{Line: r.Start.Line, Column: r.Start.Column},
		End:   mqerr.Position{Line: r.End.Line, Column: r.End.Column},
	}
}

// errToValue reifies a runtime error as the two-element [kind, detail] array
// a Try/catch handler's self binds to, per original_source's error enum: the
// Rust catch arm matches on the error's discriminant separately from its
// message, so the Go binding keeps the same split instead of collapsing it
// into one formatted string. kind is the sentinel's own message
// (mqerr.ErrTypeMismatch.Error(), not the dynamic detail) so a query can
// compare it without depending on wording that varies per call site.
func errToValue(err error) value.Value {
	var re *mqerr.RuntimeError
	if errors.As(err, &re) {
		kind := re.Kind
		for u := errors.Unwrap(kind); u != nil; u = errors.Unwrap(kind) {
			kind = u
		}
		return value.Array([]value.Value{value.String(kind.Error()), value.String(re.Detail)})
	}
	var se *mqerr.SourceError
	if errors.As(err, &se) {
		kind := se.Kind
		for u := errors.Unwrap(kind); u != nil; u = errors.Unwrap(kind) {
			kind = u
		}
		return value.Array([]value.Value{value.String(kind.Error()), value.String(se.Detail)})
	}
	return value.Array([]value.Value{value.String(err.Error()), value.String(err.Error())})
}
