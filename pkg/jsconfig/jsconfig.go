// Package jsconfig reads and writes styling-engine configs authored as
// JavaScript or TypeScript modules (tailwind.config.js and friends).
//
// Scripts are never executed. The exported object literal is evaluated
// statically from its tree-sitter syntax tree; expressions that are not
// literals survive only as source text (which is what plugin references are).
package jsconfig

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/cafetheme/pkg/theme"
)

var (
	// ErrNoExport means the script has no module.exports or export default.
	ErrNoExport = errors.New("no exported configuration object")
	// ErrSyntax wraps parse errors reported by the grammar.
	ErrSyntax = errors.New("syntax error")
)

// Result is a decoded config script.
type Result struct {
	Config  *theme.Config
	Dialect Dialect
	// Ignored lists dotted key paths present in the script that have no
	// place in theme.Config (darkMode, theme overrides, spread elements...).
	Ignored []string
}

// Loader parses config scripts. It is safe for concurrent use and must be
// closed to release parser resources.
type Loader struct {
	parsers *parserSet
	logger  *slog.Logger
}

// NewLoader creates a Loader. A nil logger falls back to slog.Default().
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{parsers: newParserSet(0, logger), logger: logger}
}

// Close releases all parsers.
func (l *Loader) Close() {
	l.parsers.close()
}

// ParseFile reads and parses the script at path.
func (l *Loader) ParseFile(path string) (*Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	res, err := l.Parse(src, DetectDialect(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}

// Parse decodes a config script in the given dialect.
func (l *Loader) Parse(src []byte, dialect Dialect) (*Result, error) {
	tree, err := l.parsers.parse(src, dialect)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		if bad := firstError(root); bad != nil {
			pos := bad.StartPosition()
			return nil, fmt.Errorf("%w at line %d column %d", ErrSyntax, pos.Row+1, pos.Column+1)
		}
		return nil, ErrSyntax
	}

	ev := &evaluator{src: src, bindings: collectBindings(root, src)}
	exported := findExport(root, src)
	if exported == nil {
		return nil, ErrNoExport
	}

	v := ev.eval(exported, "", 0)
	if v.Kind != KindObject {
		return nil, fmt.Errorf("exported configuration is %s, not an object", v.Kind)
	}

	d := &decoder{ignored: ev.skipped}
	cfg, err := d.config(v)
	if err != nil {
		return nil, err
	}
	if len(d.ignored) > 0 {
		l.logger.Debug("config keys without a theme mapping", "keys", d.ignored)
	}
	return &Result{Config: cfg, Dialect: dialect, Ignored: d.ignored}, nil
}

func firstError(node *ts.Node) *ts.Node {
	if node.IsError() || node.IsMissing() {
		return node
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if bad := firstError(node.Child(i)); bad != nil {
			return bad
		}
	}
	return nil
}

// collectBindings maps top-level const/let/var names to their initializers.
func collectBindings(root *ts.Node, src []byte) map[string]*ts.Node {
	bindings := make(map[string]*ts.Node)
	var visit func(stmt *ts.Node)
	visit = func(stmt *ts.Node) {
		switch stmt.Kind() {
		case "lexical_declaration", "variable_declaration":
			for i := uint(0); i < stmt.NamedChildCount(); i++ {
				decl := stmt.NamedChild(i)
				if decl.Kind() != "variable_declarator" {
					continue
				}
				name := decl.ChildByFieldName("name")
				value := decl.ChildByFieldName("value")
				if name != nil && value != nil && name.Kind() == "identifier" {
					bindings[name.Utf8Text(src)] = value
				}
			}
		case "export_statement":
			if decl := stmt.ChildByFieldName("declaration"); decl != nil {
				visit(decl)
			}
		}
	}
	for i := uint(0); i < root.NamedChildCount(); i++ {
		visit(root.NamedChild(i))
	}
	return bindings
}

// findExport locates the expression exported by `module.exports = x` or
// `export default x`. The last export wins, matching module semantics.
func findExport(root *ts.Node, src []byte) *ts.Node {
	var found *ts.Node
	for i := uint(0); i < root.NamedChildCount(); i++ {
		stmt := root.NamedChild(i)
		switch stmt.Kind() {
		case "expression_statement":
			expr := stmt.NamedChild(0)
			if expr == nil || expr.Kind() != "assignment_expression" {
				continue
			}
			left := expr.ChildByFieldName("left")
			right := expr.ChildByFieldName("right")
			if left == nil || right == nil {
				continue
			}
			if strings.Join(strings.Fields(left.Utf8Text(src)), "") == "module.exports" {
				found = right
			}
		case "export_statement":
			if !hasDefaultKeyword(stmt) {
				continue
			}
			if value := stmt.ChildByFieldName("value"); value != nil {
				found = value
			}
		}
	}
	return found
}

func hasDefaultKeyword(stmt *ts.Node) bool {
	for i := uint(0); i < stmt.ChildCount(); i++ {
		if stmt.Child(i).Kind() == "default" {
			return true
		}
	}
	return false
}
