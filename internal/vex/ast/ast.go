// Package ast defines the template syntax tree. Nodes are built once by the
// parser and consumed once by the expander; nothing mutates them afterwards.
package ast

import "github.com/vexlang/vex/internal/vex/token"

// NodeKind distinguishes what a selector tag resolves to. Parsing does not
// use it; directive legality is checked per kind at expansion time.
type NodeKind int

const (
	KindElement   NodeKind = iota // lowercase tag: div, input
	KindComponent                 // PascalCase tag: Show, Await
	KindSlot                      // the reserved tag "slot"
)

func (k NodeKind) String() string {
	switch k {
	case KindElement:
		return "element"
	case KindComponent:
		return "component"
	case KindSlot:
		return "slot"
	default:
		return "node"
	}
}

// LitKind classifies a literal value.
type LitKind int

const (
	LitString LitKind = iota
	LitNumber
	LitBool
)

// ValueKind classifies a value expression.
type ValueKind int

const (
	// ValueLit is a literal: "text", 3, true.
	ValueLit ValueKind = iota
	// ValueBlock is `{ expr }`: an opaque host expression emitted verbatim.
	ValueBlock
	// ValueBracket is `[ expr ]`: sugar for a zero-parameter closure whose
	// body is the captured expression.
	ValueBracket
)

// Value is an attribute or child value. Text holds the verbatim literal
// (including quotes for strings) or the captured group payload.
type Value struct {
	Kind ValueKind
	Lit  LitKind // meaningful only when Kind == ValueLit
	Text string
	Span token.Span
}

func (Value) child() {}

// Attr is one parsed attribute of any form.
type Attr interface{ attr() }

// KvAttr is `key=value`, possibly produced from the `{key}` shorthand.
type KvAttr struct {
	Key   KebabIdent
	Value Value
	Span  token.Span
}

// BoolAttr is a bare `key`, sugar for `key=true`.
type BoolAttr struct {
	Key  KebabIdent
	Span token.Span
}

// DirKind is a directive namespace.
type DirKind int

const (
	DirClass DirKind = iota
	DirStyle
	DirOn
	DirProp
	DirAttr
	DirClone
	DirUse
)

var dirNames = map[string]DirKind{
	"class": DirClass,
	"style": DirStyle,
	"on":    DirOn,
	"prop":  DirProp,
	"attr":  DirAttr,
	"clone": DirClone,
	"use":   DirUse,
}

// DirKindOf reports whether name is a directive keyword.
func DirKindOf(name string) (DirKind, bool) {
	k, ok := dirNames[name]
	return k, ok
}

func (d DirKind) String() string {
	switch d {
	case DirClass:
		return "class"
	case DirStyle:
		return "style"
	case DirOn:
		return "on"
	case DirProp:
		return "prop"
	case DirAttr:
		return "attr"
	case DirClone:
		return "clone"
	case DirUse:
		return "use"
	default:
		return "directive"
	}
}

// Directive is a namespaced attribute like `class:red={cond}`.
//
// Key holds the identifier key. For class/style directives the key may
// instead be a string literal, stored raw (with quotes) in KeyLit.
// Value is nil for `clone:` always and for `use:` without a value.
type Directive struct {
	Dir    DirKind
	Key    KebabIdent
	KeyLit string
	Value  *Value
	Span   token.Span
}

// SpreadAttr is `{..expr}`, attaching a dynamic attribute collection.
type SpreadAttr struct {
	Expr string
	Span token.Span
}

func (KvAttr) attr()     {}
func (BoolAttr) attr()   {}
func (Directive) attr()  {}
func (SpreadAttr) attr() {}

// Selector is the tag plus its optional generics and class/id shorthand.
type Selector struct {
	Tag     string
	TagSpan token.Span

	// Generics is the verbatim payload of a `<...>` group glued to the tag.
	Generics    string
	HasGenerics bool

	Classes []KebabIdent
	// ID is the last `#name` seen; repeated ids are permitted, last wins.
	ID *KebabIdent
}

// Kind resolves the selector tag to a node kind.
func (s Selector) Kind() NodeKind {
	if s.Tag == "slot" {
		return KindSlot
	}
	if len(s.Tag) > 0 && s.Tag[0] >= 'A' && s.Tag[0] <= 'Z' {
		return KindComponent
	}
	return KindElement
}

// Param is one identifier in the closure-parameter list before children.
type Param struct {
	Name string
	Span token.Span
}

// Element is one parsed element or component.
//
// SelfClosing and Children are mutually exclusive. The last element of the
// input may omit both (elided terminator); it then simply has no children.
type Element struct {
	Sel           Selector
	Attrs         []Attr
	ClosureParams []Param
	HasClosure    bool
	Children      Children
	HasChildren   bool
	SelfClosing   bool
	Span          token.Span
}

func (Element) child() {}

// Child is either a Value (string literal, block, or bracket closure) or a
// nested Element.
type Child interface{ child() }

// Children is an ordered child sequence; empty is valid.
type Children []Child
