/*
 * mq
 *
 * Copyright 2024 mq contributors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// Package module implements the loader/linker of spec.md §4.4: resolving a
// bare module name to a parsed, partitioned Module. Grounded on
// original_source/crates/mq-lang/src/module.rs's ModuleLoader (load /
// load_from_ast partition-by-Expr-kind, register-once semantics,
// STANDARD_MODULES table) and, for the injectable resolution seam, on the
// teacher's util.ImportLocator split between MemoryImportLocator and
// FileImportLocator (util/import.go). Actual on-disk file discovery is not
// implemented here (spec.md's Non-goals exclude it); Source is the seam a
// caller plugs a real file reader into, and ExpandSearchPaths/CandidatePaths
// give it the exact path shape spec.md §4.4 names.
package module

import (
	"fmt"
	"strings"

	"github.com/harehare/mq/arena"
	"github.com/harehare/mq/ast"
	"github.com/harehare/mq/internal/mqerr"
	"github.com/harehare/mq/parser"
	"github.com/harehare/mq/token"
)

// Names of the top-level and builtin pseudo-modules, mirroring
// Module::TOP_LEVEL_MODULE / Module::BUILTIN_MODULE.
const (
	TopLevelModule = "<top-level>"
	BuiltinModule  = "<builtin>"
)

// DefaultSearchPaths is the search order used when the caller configures
// none explicitly (spec.md §4.4, original_source's DEFAULT_PATHS).
var DefaultSearchPaths = []string{
	"$HOME/.mq",
	"$ORIGIN/../lib/mq",
	"$ORIGIN/../lib",
	"$ORIGIN",
}

// standardModuleNames is the builtin standard-module set of spec.md §4.4,
// searched before any configured path.
var standardModuleNames = map[string]string{
	"ast":     stdModuleAst,
	"csv":     stdModuleCsv,
	"fuzzy":   stdModuleFuzzy,
	"json":    stdModuleJSON,
	"section": stdModuleSection,
	"test":    stdModuleTest,
	"table":   stdModuleTable,
	"toml":    stdModuleToml,
	"xml":     stdModuleXML,
	"yaml":    stdModuleYAML,
}

// Module is a loaded, partitioned source unit (spec.md §4.4 step 4),
// grounded directly on module.rs's `Module{name, functions, modules, vars,
// macros}`. Each field holds the NodeIds of that top-level Expr kind found
// in Tree, in source order.
type Module struct {
	Name      string
	Tree      *ast.Tree
	Functions []ast.NodeId // Def
	Macros    []ast.NodeId // Macro
	Modules   []ast.NodeId // Include | Import | ModuleDecl
	Vars      []ast.NodeId // Let
}

// FuncByName returns the Def node bound to name, if any.
func (m *Module) FuncByName(name arena.Ident) (ast.NodeId, bool) {
	for _, id := range m.Functions {
		if d, ok := m.Tree.Node(id).Expr.(ast.Def); ok && d.Name == name {
			return id, true
		}
	}
	return 0, false
}

// MacroByName returns the Macro node bound to name, if any.
func (m *Module) MacroByName(name arena.Ident) (ast.NodeId, bool) {
	for _, id := range m.Macros {
		if d, ok := m.Tree.Node(id).Expr.(ast.Macro); ok && d.Name == name {
			return id, true
		}
	}
	return 0, false
}

// Source resolves a bare module name to its mq source text. Implementations
// plug in the actual discovery mechanism (in-memory fixtures for tests, a
// real file reader in a host embedding this package); module itself never
// touches a filesystem.
type Source interface {
	Resolve(name string) (src string, ok bool, err error)
}

// MemorySource resolves names against an in-memory table, grounded on the
// teacher's MemoryImportLocator (util/import.go).
type MemorySource struct {
	Files map[string]string
}

func (s MemorySource) Resolve(name string) (string, bool, error) {
	src, ok := s.Files[name]
	return src, ok, nil
}

// ExpandSearchPaths substitutes $ORIGIN and $HOME in each entry of paths,
// the pure string transformation spec.md §4.4 specifies ("each entry may
// contain $ORIGIN (exe dir) and $HOME"). origin/home are supplied by the
// caller (e.g. filepath.Dir(os.Args[0]) and os.UserHomeDir()); this function
// does no I/O of its own.
func ExpandSearchPaths(paths []string, origin, home string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		p = strings.ReplaceAll(p, "$ORIGIN", origin)
		p = strings.ReplaceAll(p, "$HOME", home)
		out[i] = p
	}
	return out
}

// CandidatePaths returns the "<dir>/<name>.mq" candidates to probe, in
// search-path order (spec.md §4.4's final step, "file name pattern
// <name>.mq"). It performs no existence check - that belongs to whatever
// Source implementation the caller supplies.
func CandidatePaths(name string, expandedPaths []string) []string {
	out := make([]string, len(expandedPaths))
	for i, dir := range expandedPaths {
		out[i] = strings.TrimRight(dir, "/") + "/" + name + ".mq"
	}
	return out
}

// Loader loads and links named modules, enforcing spec.md §4.4's
// register-once rule.
type Loader struct {
	source  Source
	loaded  map[string]*Module
	nextMid token.ModuleId
}

// NewLoader creates a Loader. source may be nil if only standard modules
// will ever be loaded.
func NewLoader(source Source) *Loader {
	return &Loader{
		source:  source,
		loaded:  make(map[string]*Module),
		nextMid: token.BuiltinModule + 1,
	}
}

// Loaded reports whether name has already been registered.
func (l *Loader) Loaded(name string) bool {
	_, ok := l.loaded[name]
	return ok
}

// Get returns an already-loaded module by name.
func (l *Loader) Get(name string) (*Module, bool) {
	m, ok := l.loaded[name]
	return m, ok
}

// Load resolves name's source (standard modules first, then the configured
// Source), parses and partitions it, and registers it. Re-loading an
// already-registered name is an error (spec.md §4.4 step 1, and the
// idempotence testable property in spec.md §8 item 10 - callers that want
// Include's "second time is a no-op" behavior should check Loaded first).
func (l *Loader) Load(name string) (*Module, error) {
	if l.Loaded(name) {
		return nil, fmt.Errorf("%w: %s", mqerr.ErrModuleAlreadyLoaded, name)
	}

	src, ok, err := l.resolveSource(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", mqerr.ErrModuleIO, name, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", mqerr.ErrModuleNotFound, name)
	}

	return l.LoadSource(name, src)
}

// LoadBuiltin loads and registers the builtin pseudo-module from src -
// the global function namespace every engine instance starts with (spec.md
// §4.4: "always loaded first at engine startup").
func (l *Loader) LoadBuiltin(src string) (*Module, error) {
	return l.LoadSource(BuiltinModule, src)
}

// LoadSource parses and registers src under name directly, bypassing
// Source resolution - used for the builtin module and for tests that hand
// in literal mq text.
func (l *Loader) LoadSource(name, src string) (*Module, error) {
	if l.Loaded(name) {
		return nil, fmt.Errorf("%w: %s", mqerr.ErrModuleAlreadyLoaded, name)
	}

	mid := l.nextMid
	l.nextMid++

	tree := ast.NewTree()
	prog, err := parser.Parse(name, mid, src, tree)
	if err != nil {
		return nil, err
	}

	m, err := partition(name, tree, prog)
	if err != nil {
		return nil, err
	}

	l.loaded[name] = m
	return m, nil
}

func (l *Loader) resolveSource(name string) (string, bool, error) {
	if src, ok := standardModuleNames[name]; ok {
		return src, true, nil
	}
	if l.source == nil {
		return "", false, nil
	}
	return l.source.Resolve(name)
}

// partition splits prog's top-level nodes into functions/macros/modules/vars
// (spec.md §4.4 step 3); any other top-level kind makes the whole module
// InvalidModule.
func partition(name string, tree *ast.Tree, prog ast.Program) (*Module, error) {
	m := &Module{Name: name, Tree: tree}

	for _, id := range prog {
		switch tree.Node(id).Expr.(type) {
		case ast.Def:
			m.Functions = append(m.Functions, id)
		case ast.Macro:
			m.Macros = append(m.Macros, id)
		case ast.Include, ast.Import, ast.ModuleDecl:
			m.Modules = append(m.Modules, id)
		case ast.Let:
			m.Vars = append(m.Vars, id)
		default:
			return nil, fmt.Errorf("%w: %s: unexpected top-level node", mqerr.ErrModuleInvalid, name)
		}
	}

	return m, nil
}
