/*
 * mq
 *
 * Copyright 2024 mq contributors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package eval

import (
	"fmt"

	"github.com/harehare/mq/ast"
	"github.com/harehare/mq/env"
	"github.com/harehare/mq/internal/mqerr"
	"github.com/harehare/mq/module"
	"github.com/harehare/mq/value"
)

// evalInclude implements spec.md §4.5's "Ensure the named module is loaded
// and splice its public definitions into the current scope." Splicing
// means binding each of the module's top-level functions (and evaluating
// its top-level vars) directly into fr under their own names, so the
// included module behaves as if its defs had been written at this point
// in the current program.
func (ev *Evaluator) evalInclude(e ast.Include, fr *env.Env) error {
	m, err := ev.ensureLoaded(e.Path)
	if err != nil {
		return err
	}
	return ev.spliceInto(m, fr)
}

// evalImport registers alias as a namespace resolvable by QualifiedAccess
// (spec.md §4.5: "...or a namespaced scope (Import/Module)"), without
// binding anything directly into the caller's frame.
func (ev *Evaluator) evalImport(e ast.Import, alias string) error {
	m, err := ev.ensureLoaded(e.Path)
	if err != nil {
		return err
	}
	ev.namespaces[alias] = m
	return nil
}

// evalModuleDecl registers an inline `module name: ... ;` declaration as
// a namespace, partitioning its body the same way module.Loader partitions
// a loaded file (spec.md §4.4 step 3). Unlike Include/Import, the body's
// nodes already live in ev.tree, so no copying is needed.
func (ev *Evaluator) evalModuleDecl(e ast.ModuleDecl) error {
	m := &module.Module{Name: e.Name.String(), Tree: ev.tree}
	for _, id := range e.Body {
		switch ev.tree.Node(id).Expr.(type) {
		case ast.Def:
			m.Functions = append(m.Functions, id)
		case ast.Macro:
			m.Macros = append(m.Macros, id)
		case ast.Let:
			m.Vars = append(m.Vars, id)
		case ast.Include, ast.Import, ast.ModuleDecl:
			m.Modules = append(m.Modules, id)
		default:
			return fmt.Errorf("%w: %s: unexpected node in module body", mqerr.ErrModuleInvalid, e.Name.String())
		}
	}
	ev.namespaces[m.Name] = m
	return nil
}

func (ev *Evaluator) ensureLoaded(path string) (*module.Module, error) {
	if ev.loader == nil {
		return nil, fmt.Errorf("%w: %s: no module loader configured", mqerr.ErrModuleNotFound, path)
	}
	if m, ok := ev.loader.Get(path); ok {
		return m, nil
	}
	return ev.loader.Load(path)
}

// spliceInto binds every function and var of m into fr, copying node ids
// into ev.tree when m.Tree differs from it (true for any module loaded
// from source rather than declared inline).
func (ev *Evaluator) spliceInto(m *module.Module, fr *env.Env) error {
	for _, id := range m.Functions {
		d := m.Tree.Node(id).Expr.(ast.Def)
		body := ev.importBody(m, d.Body)
		ev.bindClosure(fr, d.Name, toStrings(d.Params), body)
	}
	for _, id := range m.Vars {
		l := m.Tree.Node(id).Expr.(ast.Let)
		body := ev.importBody(m, l.Value)
		v, err := ev.evalNode(body, fr, value.None)
		if err != nil {
			return err
		}
		fr.Let(l.Name, v)
	}
	for _, id := range m.Macros {
		mac := m.Tree.Node(id).Expr.(ast.Macro)
		body := ev.importBody(m, mac.Body)
		ev.macros[mac.Name.String()] = ev.tree.Nodes.Alloc(ast.Node{Expr: ast.Macro{Name: mac.Name, Params: mac.Params, Body: body}})
	}
	return nil
}

// importBody returns id translated into ev.tree, copying the subtree only
// when m.Tree isn't already ev.tree (an inline ModuleDecl shares it).
func (ev *Evaluator) importBody(m *module.Module, id ast.NodeId) ast.NodeId {
	if m.Tree == ev.tree {
		return id
	}
	return copyNode(ev.tree, m.Tree, id)
}

// evalQualifiedAccess implements spec.md §4.5's QualifiedAccess rule for a
// single-level namespace: Path[0] names a module registered via Import or
// an inline Module declaration. Deeper, multiply-nested module paths are
// not resolved beyond the first segment - documented as an Open Question
// resolution given the absence of concrete nested-module fixtures in the
// retrieved pack.
func (ev *Evaluator) evalQualifiedAccess(e ast.QualifiedAccess, fr *env.Env, self value.Value) (value.Value, error) {
	if len(e.Path) == 0 {
		return value.None, fmt.Errorf("%w: empty qualified path", mqerr.ErrUndefinedVariable)
	}
	ns := e.Path[0].String()
	m, ok := ev.namespaces[ns]
	if !ok {
		return value.None, fmt.Errorf("%w: module %s not imported", mqerr.ErrModuleNotFound, ns)
	}

	switch e.TargetKind {
	case ast.AccessIdent:
		for _, id := range m.Vars {
			l := m.Tree.Node(id).Expr.(ast.Let)
			if l.Name != e.Ident {
				continue
			}
			return ev.evalNode(ev.importBody(m, l.Value), fr, value.None)
		}
		return value.None, fmt.Errorf("%w: %s.%s", mqerr.ErrUndefinedVariable, ns, e.Ident.String())

	case ast.AccessCall:
		defID, ok := m.FuncByName(e.Call.Name)
		if !ok {
			return value.None, fmt.Errorf("%w: %s.%s", mqerr.ErrUndefinedVariable, ns, e.Call.Name.String())
		}
		d := m.Tree.Node(defID).Expr.(ast.Def)
		argv, err := ev.evalArgs(e.Call.Args, fr, self)
		if err != nil {
			return value.None, err
		}
		closure := value.Closure{Params: toStrings(d.Params), Body: ev.importBody(m, d.Body), Env: fr}
		return ev.callClosure(closure, prependSelf(self, argv, len(closure.Params)), self)

	default:
		return value.None, fmt.Errorf("%w: unknown qualified-access target", mqerr.ErrTypeMismatch)
	}
}
