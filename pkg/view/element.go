package view

import (
	"fmt"
	"io"
	"sort"
	"strings"

	g "maragu.dev/gomponents"
)

// El starts a builder chain for an HTML element (or a nested slot).
func El(tag string) *ElementBuilder {
	return &ElementBuilder{tag: tag}
}

// ElementBuilder accumulates attributes and children for one element. It
// implements Node, so a finished chain renders directly.
type ElementBuilder struct {
	tag      string
	classes  []string
	styles   []string
	attrs    []g.Node
	children []g.Node
}

// Class adds a static class from the selector shorthand.
func (b *ElementBuilder) Class(name string) *ElementBuilder {
	b.classes = append(b.classes, name)
	return b
}

// ID sets the element id.
func (b *ElementBuilder) ID(name string) *ElementBuilder {
	b.attrs = append(b.attrs, g.Attr("id", name))
	return b
}

// Attr sets a plain attribute. A true value renders the bare attribute and
// a false value omits it, matching HTML boolean attribute semantics.
// Class and style keys fold into the merged class/style lists.
func (b *ElementBuilder) Attr(key string, value any) *ElementBuilder {
	v := resolve(value)
	switch key {
	case "class":
		if s, ok := v.(string); ok {
			b.classes = append(b.classes, s)
			return b
		}
	case "style":
		if s, ok := v.(string); ok {
			b.styles = append(b.styles, s)
			return b
		}
	}
	switch t := v.(type) {
	case bool:
		if t {
			b.attrs = append(b.attrs, g.Attr(key))
		}
	case string:
		b.attrs = append(b.attrs, g.Attr(key, t))
	default:
		b.attrs = append(b.attrs, g.Attr(key, fmt.Sprint(t)))
	}
	return b
}

// ToggleClass adds the class when the condition resolves truthy.
func (b *ElementBuilder) ToggleClass(name string, cond any) *ElementBuilder {
	if truthy(cond) {
		b.classes = append(b.classes, name)
	}
	return b
}

// StyleProp sets one style property.
func (b *ElementBuilder) StyleProp(name string, value any) *ElementBuilder {
	b.styles = append(b.styles, fmt.Sprintf("%s: %v", name, resolve(value)))
	return b
}

// On attaches an event handler. Only string handlers (inline source) can
// render server-side; anything else is accepted and dropped.
func (b *ElementBuilder) On(event string, handler any) *ElementBuilder {
	if src, ok := resolve(handler).(string); ok {
		b.attrs = append(b.attrs, g.Attr("on"+event, src))
	}
	return b
}

// Prop sets a DOM property. Properties only exist client-side, so rendering
// ignores them; the setter exists so compiled templates always link.
func (b *ElementBuilder) Prop(name string, value any) *ElementBuilder {
	return b
}

// Use applies a user directive function to the builder.
func (b *ElementBuilder) Use(fn any, params ...any) *ElementBuilder {
	switch f := fn.(type) {
	case func(*ElementBuilder):
		f(b)
	case func(*ElementBuilder, any):
		var p any
		if len(params) > 0 {
			p = resolve(params[0])
		}
		f(b, p)
	}
	return b
}

// Spread attaches a dynamic attribute collection: a map of attribute values
// (applied in sorted key order) or an ordered key/value pair list.
func (b *ElementBuilder) Spread(attrs any) *ElementBuilder {
	switch t := resolve(attrs).(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.Attr(k, t[k])
		}
	case map[string]string:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.Attr(k, t[k])
		}
	case [][2]string:
		for _, kv := range t {
			b.Attr(kv[0], kv[1])
		}
	}
	return b
}

// Child attaches one child; a fragment counts as one.
func (b *ElementBuilder) Child(child any) *ElementBuilder {
	b.children = append(b.children, ToNode(child))
	return b
}

// ChildFn attaches children produced by a closure. Closures taking
// parameters can only be filled by a slot-aware parent, so on a plain
// element they render nothing.
func (b *ElementBuilder) ChildFn(fn any) *ElementBuilder {
	switch f := fn.(type) {
	case func() Node:
		b.children = append(b.children, f())
	case func() any:
		b.children = append(b.children, ToNode(f()))
	}
	return b
}

// Render implements Node.
func (b *ElementBuilder) Render(w io.Writer) error {
	args := make([]g.Node, 0, len(b.attrs)+len(b.children)+2)
	if len(b.classes) > 0 {
		args = append(args, g.Attr("class", strings.Join(b.classes, " ")))
	}
	if len(b.styles) > 0 {
		args = append(args, g.Attr("style", strings.Join(b.styles, "; ")))
	}
	args = append(args, b.attrs...)
	args = append(args, b.children...)
	return g.El(b.tag, args...).Render(w)
}
