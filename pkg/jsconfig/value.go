package jsconfig

import (
	"strconv"
	"strings"
	"unicode/utf8"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// Kind classifies an evaluated literal.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
	// KindExpr is any expression that is not a static literal (calls,
	// member access, template strings with substitutions). Only its source
	// text is kept.
	KindExpr
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "expression"
	}
}

// Value is a statically evaluated JavaScript literal.
type Value struct {
	Kind   Kind
	Str    string
	Num    float64
	Bool   bool
	Items  []Value
	Fields []Field
	// Raw is the source text of the expression.
	Raw string
}

// Field is one key/value pair of an object literal, in source order.
type Field struct {
	Key   string
	Value Value
}

// Get returns the value of the first field named key.
func (v Value) Get(key string) (Value, bool) {
	for _, f := range v.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return Value{}, false
}

// maxResolveDepth bounds identifier resolution so self-referencing
// bindings cannot loop.
const maxResolveDepth = 16

// evaluator turns syntax nodes into Values, resolving identifiers against
// top-level declarations.
type evaluator struct {
	src      []byte
	bindings map[string]*ts.Node
	skipped  []string
}

func (e *evaluator) skip(path string) {
	e.skipped = append(e.skipped, path)
}

func (e *evaluator) eval(node *ts.Node, path string, depth int) Value {
	node = unwrap(node)
	raw := node.Utf8Text(e.src)

	switch node.Kind() {
	case "object":
		return e.evalObject(node, path, depth)
	case "array":
		return e.evalArray(node, path, depth)
	case "string":
		return Value{Kind: KindString, Str: unquote(raw), Raw: raw}
	case "template_string":
		for i := uint(0); i < node.NamedChildCount(); i++ {
			if node.NamedChild(i).Kind() == "template_substitution" {
				return Value{Kind: KindExpr, Raw: raw}
			}
		}
		return Value{Kind: KindString, Str: unescape(raw[1 : len(raw)-1]), Raw: raw}
	case "number":
		n, err := strconv.ParseFloat(strings.ReplaceAll(raw, "_", ""), 64)
		if err != nil {
			return Value{Kind: KindExpr, Raw: raw}
		}
		return Value{Kind: KindNumber, Num: n, Raw: raw}
	case "true", "false":
		return Value{Kind: KindBool, Bool: raw == "true", Raw: raw}
	case "null", "undefined":
		return Value{Kind: KindNull, Raw: raw}
	case "identifier":
		if target, ok := e.bindings[raw]; ok && depth < maxResolveDepth {
			v := e.eval(target, path, depth+1)
			v.Raw = raw
			return v
		}
	}
	return Value{Kind: KindExpr, Raw: raw}
}

func (e *evaluator) evalObject(node *ts.Node, path string, depth int) Value {
	v := Value{Kind: KindObject, Raw: node.Utf8Text(e.src)}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		switch child.Kind() {
		case "comment":
			continue
		case "pair":
			keyNode := child.ChildByFieldName("key")
			valNode := child.ChildByFieldName("value")
			if keyNode == nil || valNode == nil {
				continue
			}
			key, ok := e.propertyKey(keyNode)
			if !ok {
				e.skip(join(path, keyNode.Utf8Text(e.src)))
				continue
			}
			v.Fields = append(v.Fields, Field{Key: key, Value: e.eval(valNode, join(path, key), depth)})
		case "shorthand_property_identifier":
			name := child.Utf8Text(e.src)
			if target, ok := e.bindings[name]; ok && depth < maxResolveDepth {
				v.Fields = append(v.Fields, Field{Key: name, Value: e.eval(target, join(path, name), depth+1)})
				continue
			}
			e.skip(join(path, name))
		default:
			// spread elements, methods, getters
			e.skip(join(path, "<"+child.Kind()+">"))
		}
	}
	return v
}

func (e *evaluator) evalArray(node *ts.Node, path string, depth int) Value {
	v := Value{Kind: KindArray, Raw: node.Utf8Text(e.src)}
	idx := 0
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child.Kind() == "comment" {
			continue
		}
		v.Items = append(v.Items, e.eval(child, path+"["+strconv.Itoa(idx)+"]", depth))
		idx++
	}
	return v
}

func (e *evaluator) propertyKey(node *ts.Node) (string, bool) {
	text := node.Utf8Text(e.src)
	switch node.Kind() {
	case "property_identifier", "number":
		return text, true
	case "string":
		return unquote(text), true
	default:
		return "", false
	}
}

// unwrap strips parentheses and TypeScript-only wrappers (`x satisfies T`,
// `x as T`, `x!`).
func unwrap(node *ts.Node) *ts.Node {
	for node != nil {
		switch node.Kind() {
		case "parenthesized_expression", "satisfies_expression", "as_expression", "non_null_expression":
			inner := node.NamedChild(0)
			if inner == nil {
				return node
			}
			node = inner
		default:
			return node
		}
	}
	return node
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

// unquote strips the surrounding quote characters of a string literal and
// resolves its escapes.
func unquote(lit string) string {
	if len(lit) < 2 {
		return lit
	}
	return unescape(lit[1 : len(lit)-1])
}

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '0':
			b.WriteByte(0)
		case '\n':
			// line continuation
		case 'x':
			if r, n := hexRune(s[i+1:], 2); n > 0 {
				b.WriteRune(r)
				i += n
				continue
			}
			b.WriteByte('x')
		case 'u':
			rest := s[i+1:]
			if strings.HasPrefix(rest, "{") {
				if end := strings.IndexByte(rest, '}'); end > 1 {
					if r, n := hexRune(rest[1:end], end-1); n == end-1 {
						b.WriteRune(r)
						i += end + 1
						continue
					}
				}
			} else if r, n := hexRune(rest, 4); n > 0 {
				b.WriteRune(r)
				i += n
				continue
			}
			b.WriteByte('u')
		default:
			r, size := utf8.DecodeRuneInString(s[i:])
			b.WriteRune(r)
			i += size - 1
		}
	}
	return b.String()
}

// hexRune decodes exactly width hex digits from the start of s.
func hexRune(s string, width int) (rune, int) {
	if width <= 0 || len(s) < width {
		return 0, 0
	}
	n, err := strconv.ParseUint(s[:width], 16, 32)
	if err != nil {
		return 0, 0
	}
	return rune(n), width
}
