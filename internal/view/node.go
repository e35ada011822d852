package view

import "strconv"

// ActionAttr carries the registry key a control dispatches to.
const ActionAttr = "data-action"

// Node is a render fragment. A Node with an empty Tag is a bare text node.
type Node struct {
	Tag      string
	ID       string
	Class    string
	Text     string
	Attrs    map[string]string
	Children []Node
}

// Text is a bare text node.
func Text(s string) Node { return Node{Text: s} }

// El builds an element with children.
func El(tag, class string, children ...Node) Node {
	return Node{Tag: tag, Class: class, Children: children}
}

func Div(class string, children ...Node) Node { return El("div", class, children...) }

func Strong(text string) Node { return Node{Tag: "strong", Text: text} }

func Bold(text string) Node { return Node{Tag: "b", Text: text} }

func Em(text string) Node { return Node{Tag: "em", Text: text} }

func Heading(text string) Node { return Node{Tag: "h4", Text: text} }

func Paragraph(children ...Node) Node { return El("p", "", children...) }

func Item(text string) Node { return Node{Tag: "li", Text: text} }

func Break() Node { return Node{Tag: "br"} }

// Span is an inline text element.
func Span(id, class, text string) Node {
	return Node{Tag: "span", ID: id, Class: class, Text: text}
}

// Link opens href in a new browsing context.
func Link(href, text string) Node {
	return Node{Tag: "a", Text: text, Attrs: map[string]string{"href": href, "target": "_blank"}}
}

// Button dispatches the registry action key when clicked.
func Button(action, label string) Node {
	return Node{Tag: "button", Text: label, Attrs: map[string]string{ActionAttr: action}}
}

// TextArea is a free-text input.
func TextArea(id, placeholder string) Node {
	return Node{Tag: "textarea", ID: id, Attrs: map[string]string{"placeholder": placeholder}}
}

// FileInput is a file picker.
func FileInput(id string) Node {
	return Node{Tag: "input", ID: id, Attrs: map[string]string{"type": "file"}}
}

// ItemID builds a per-entity element id such as cert_remark_12.
func ItemID(prefix string, id int64) string {
	return prefix + strconv.FormatInt(id, 10)
}
