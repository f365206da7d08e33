// Package view is the runtime the compiled templates target. HTML-kind
// nodes go through the ElementBuilder; fragments, text and the inert
// stand-in are thin wrappers over gomponents.
package view

import (
	"fmt"

	g "maragu.dev/gomponents"
)

// Node is what every expanded template evaluates to.
type Node = g.Node

// Tpl marks a template literal for compilation. The vex generator rewrites
// every `view.Tpl(` + raw string + `)` call into the expanded builder
// expression; reaching this body means the file was never compiled.
func Tpl(src string) Node {
	panic("view.Tpl: template was not compiled; run `vex generate`")
}

// Text returns an HTML-escaped text node.
func Text(s string) Node { return g.Text(s) }

// Fragment renders its children in order with no wrapper element. Used for
// multi-root templates and multi-child attachment.
func Fragment(children ...any) Node {
	nodes := make(g.Group, 0, len(children))
	for _, c := range children {
		nodes = append(nodes, ToNode(c))
	}
	return nodes
}

// Nothing renders nothing. It is also the stand-in emitted in place of a
// template that failed to translate.
func Nothing() Node { return g.Group{} }

// ToNode coerces a spliced template value to a Node. Zero-parameter
// closures (the `[expr]` sugar) are resolved first.
func ToNode(v any) Node {
	switch n := v.(type) {
	case nil:
		return g.Group{}
	case Node:
		return n
	case string:
		return g.Text(n)
	case func() any:
		return ToNode(n())
	case func() Node:
		return n()
	case fmt.Stringer:
		return g.Text(n.String())
	default:
		return g.Text(fmt.Sprint(n))
	}
}

// resolve unwraps zero-parameter closure values.
func resolve(v any) any {
	if f, ok := v.(func() any); ok {
		return f()
	}
	return v
}

// truthy decides whether a toggled class or boolean attribute is on.
func truthy(v any) bool {
	switch t := resolve(v).(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	default:
		return true
	}
}
