package htmldom

import (
	"bytes"
	_ "embed"
	"fmt"
	"html"
	"sort"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	nethtml "golang.org/x/net/html"

	"github.com/noah-isme/sma-portal-client/internal/view"
)

//go:embed layout.html
var layout []byte

// Document is a headless page backed by a goquery tree. It implements view.Target and
// serialises every read and write.
type Document struct {
	mu    sync.Mutex
	doc   *goquery.Document
	files map[string]view.File
}

var _ view.Target = (*Document)(nil)

// New parses the portal layout.
func New() (*Document, error) {
	return Parse(layout)
}

// Parse builds a Document from arbitrary markup.
func Parse(markup []byte) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	return &Document{doc: doc, files: make(map[string]view.File)}, nil
}

func (d *Document) byID(id string) *goquery.Selection {
	if id == "" {
		return d.doc.Find("[id=\"\"]").First()
	}
	return d.doc.Find(fmt.Sprintf("[id=%q]", id)).First()
}

// Exists reports whether an element with the id is on the page.
func (d *Document) Exists(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.byID(id).Length() > 0
}

// SetText replaces an element's content with escaped text.
func (d *Document) SetText(id, text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	sel := d.byID(id)
	if sel.Length() == 0 {
		return
	}
	sel.SetText(text)
}

// Replace renders nodes as an element's only children. File selections made in the
// replaced markup are forgotten.
func (d *Document) Replace(id string, nodes ...view.Node) {
	d.mu.Lock()
	defer d.mu.Unlock()
	sel := d.byID(id)
	if sel.Length() == 0 {
		return
	}
	// Re-rendered pickers start empty, as a fresh input would.
	sel.Find("input").Each(func(_ int, in *goquery.Selection) {
		if id, ok := in.Attr("id"); ok {
			delete(d.files, id)
		}
	})
	sel.SetHtml(renderNodes(nodes))
}

// Append renders nodes after an element's existing children.
func (d *Document) Append(id string, nodes ...view.Node) {
	d.mu.Lock()
	defer d.mu.Unlock()
	sel := d.byID(id)
	if sel.Length() == 0 {
		return
	}
	sel.AppendHtml(renderNodes(nodes))
}

// Show removes the hidden class.
func (d *Document) Show(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.byID(id).RemoveClass(view.HiddenClass)
}

// Hide adds the hidden class.
func (d *Document) Hide(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.byID(id).AddClass(view.HiddenClass)
}

// HideGroup hides every element of class inside the container.
func (d *Document) HideGroup(containerID, class string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.byID(containerID).Find("." + class).AddClass(view.HiddenClass)
}

// SetPageFlag toggles a class on <body>.
func (d *Document) SetPageFlag(flag string, on bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	body := d.doc.Find("body")
	if on {
		body.AddClass(flag)
	} else {
		body.RemoveClass(flag)
	}
}

// Value reads an input, textarea or select. A select with no selected option reports
// its first option, as a browser would.
func (d *Document) Value(id string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	sel := d.byID(id)
	switch goquery.NodeName(sel) {
	case "textarea":
		return sel.Text()
	case "select":
		opt := sel.Find("option[selected]").First()
		if opt.Length() == 0 {
			opt = sel.Find("option").First()
		}
		return opt.AttrOr("value", opt.Text())
	default:
		return sel.AttrOr("value", "")
	}
}

// SetValue writes an input, textarea or select. Selecting a value no option carries
// leaves the select on its first option.
func (d *Document) SetValue(id, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	sel := d.byID(id)
	switch goquery.NodeName(sel) {
	case "":
		return
	case "textarea":
		sel.SetText(value)
	case "select":
		sel.Find("option").Each(func(_ int, opt *goquery.Selection) {
			if opt.AttrOr("value", opt.Text()) == value {
				opt.SetAttr("selected", "selected")
			} else {
				opt.RemoveAttr("selected")
			}
		})
	default:
		sel.SetAttr("value", value)
	}
}

// SelectedFile returns the file chosen in a file input.
func (d *Document) SelectedFile(id string) (view.File, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.byID(id).Length() == 0 {
		return nil, false
	}
	file, ok := d.files[id]
	return file, ok
}

// SelectFile chooses a file in a file input. Other elements ignore it.
func (d *Document) SelectFile(id string, file view.File) {
	d.mu.Lock()
	defer d.mu.Unlock()
	sel := d.byID(id)
	if sel.Length() == 0 || sel.AttrOr("type", "") != "file" {
		return
	}
	d.files[id] = file
	sel.SetAttr("data-file", file.Name())
}

// ClearFile empties a file input.
func (d *Document) ClearFile(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.files, id)
	d.byID(id).RemoveAttr("data-file")
}

// Text returns the text content of an element.
func (d *Document) Text(id string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return strings.TrimSpace(d.byID(id).Text())
}

// Hidden reports whether the element itself carries the hidden class.
func (d *Document) Hidden(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.byID(id).HasClass(view.HiddenClass)
}

// Visible reports whether the element exists and neither it nor an ancestor is hidden.
func (d *Document) Visible(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	sel := d.byID(id)
	if sel.Length() == 0 || sel.HasClass(view.HiddenClass) {
		return false
	}
	return sel.ParentsFiltered("." + view.HiddenClass).Length() == 0
}

// PageFlag reports whether the body carries the flag.
func (d *Document) PageFlag(flag string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.doc.Find("body").HasClass(flag)
}

// Count returns the number of elements matching a CSS selector.
func (d *Document) Count(selector string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.doc.Find(selector).Length()
}

// Attr reads an attribute of the first element matching selector.
func (d *Document) Attr(selector, name string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.doc.Find(selector).First().Attr(name)
}

// HTML serialises the element, or the whole page when id is empty.
func (d *Document) HTML(id string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if id == "" {
		out, _ := d.doc.Html()
		return out
	}
	out, _ := goquery.OuterHtml(d.byID(id))
	return out
}

// VisibleText renders the displayed part of the page as plain text: controls appear as
// [label](action) and inputs as {id=value}.
func (d *Document) VisibleText() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var b strings.Builder
	for _, n := range d.doc.Find("body").Nodes {
		d.writeVisible(&b, n)
	}
	lines := strings.Split(b.String(), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

var blockTags = map[string]bool{
	"div": true, "section": true, "p": true, "li": true, "h2": true, "h3": true,
	"h4": true, "header": true, "nav": true, "ul": true, "br": true,
}

func (d *Document) writeVisible(b *strings.Builder, n *nethtml.Node) {
	switch n.Type {
	case nethtml.TextNode:
		b.WriteString(n.Data)
		return
	case nethtml.ElementNode:
	default:
		return
	}
	if hasClass(n, view.HiddenClass) {
		return
	}
	switch n.Data {
	case "button":
		fmt.Fprintf(b, " [%s](%s) ", strings.TrimSpace(textOf(n)), attr(n, view.ActionAttr))
		return
	case "input", "textarea", "select":
		id := attr(n, "id")
		value := attr(n, "value")
		switch n.Data {
		case "textarea":
			value = textOf(n)
		case "select":
			value = selectedOption(n)
		}
		if file := attr(n, "data-file"); file != "" {
			value = file
		}
		if attr(n, "type") == "password" && value != "" {
			value = "****"
		}
		fmt.Fprintf(b, " {%s=%s} ", id, value)
		return
	case "a":
		fmt.Fprintf(b, " %s <%s> ", strings.TrimSpace(textOf(n)), attr(n, "href"))
		return
	}
	if blockTags[n.Data] {
		b.WriteString("\n")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.writeVisible(b, c)
	}
	if blockTags[n.Data] {
		b.WriteString("\n")
	}
}

func attr(n *nethtml.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *nethtml.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func textOf(n *nethtml.Node) string {
	var b strings.Builder
	var walk func(*nethtml.Node)
	walk = func(node *nethtml.Node) {
		if node.Type == nethtml.TextNode {
			b.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func selectedOption(n *nethtml.Node) string {
	first := ""
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != nethtml.ElementNode || c.Data != "option" {
			continue
		}
		value := attr(c, "value")
		if first == "" {
			first = value
		}
		for _, a := range c.Attr {
			if a.Key == "selected" {
				return value
			}
		}
	}
	return first
}

var voidTags = map[string]bool{"input": true, "br": true}

func renderNodes(nodes []view.Node) string {
	var b strings.Builder
	for _, n := range nodes {
		renderNode(&b, n)
	}
	return b.String()
}

func renderNode(b *strings.Builder, n view.Node) {
	if n.Tag == "" {
		b.WriteString(html.EscapeString(n.Text))
		return
	}
	b.WriteString("<")
	b.WriteString(n.Tag)
	if n.ID != "" {
		writeAttr(b, "id", n.ID)
	}
	if n.Class != "" {
		writeAttr(b, "class", n.Class)
	}
	keys := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		writeAttr(b, k, n.Attrs[k])
	}
	b.WriteString(">")
	if voidTags[n.Tag] {
		return
	}
	b.WriteString(html.EscapeString(n.Text))
	for _, child := range n.Children {
		renderNode(b, child)
	}
	b.WriteString("</")
	b.WriteString(n.Tag)
	b.WriteString(">")
}

func writeAttr(b *strings.Builder, key, value string) {
	b.WriteString(" ")
	b.WriteString(key)
	b.WriteString(`="`)
	b.WriteString(html.EscapeString(value))
	b.WriteString(`"`)
}
