package ui

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed page.html
var pageSource string

var page = template.Must(template.New("ui").Funcs(template.FuncMap{
	"prop": func(n *Node, key string) any {
		if n == nil || n.Props == nil {
			return nil
		}
		return n.Props[key]
	},
}).Parse(pageSource))

// Render writes the tree rooted at a page node as an HTML document.
func Render(w io.Writer, tree *Node) error {
	if tree == nil || tree.Type != NodePage {
		return fmt.Errorf("render: root must be a %s node", NodePage)
	}
	if err := page.ExecuteTemplate(w, "page", tree); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}
