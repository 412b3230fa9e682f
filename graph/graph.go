// Package graph builds and renders the file-structure diagram shown
// alongside a generated site.
package graph

import (
	"fmt"
	"strings"
)

type node struct {
	id    string
	label string
}

type edge struct {
	from string
	to   string
}

// The diagram topology is fixed: one folder node fanning out to the
// three site files. Labels never depend on the generated content.
var (
	nodes = []node{
		{"website_folder", "website_folder"},
		{"index_html", "index.html"},
		{"styles_css", "styles.css"},
		{"script_js", "script.js"},
	}
	edges = []edge{
		{"website_folder", "index_html"},
		{"website_folder", "styles_css"},
		{"website_folder", "script_js"},
	}
)

// FileStructureDot returns the DOT description of the site layout.
func FileStructureDot() string {
	var b strings.Builder
	b.WriteString("// Website File Structure\n")
	b.WriteString("digraph {\n")
	for _, n := range nodes {
		fmt.Fprintf(&b, "\t%s [label=%q]\n", n.id, n.label)
	}
	for _, e := range edges {
		fmt.Fprintf(&b, "\t%s -> %s\n", e.from, e.to)
	}
	b.WriteString("}\n")
	return b.String()
}

// NodeIDs returns the identifiers of every node in the diagram.
func NodeIDs() []string {
	ids := make([]string, 0, len(nodes))
	for _, n := range nodes {
		ids = append(ids, n.id)
	}
	return ids
}

// EdgeCount returns the number of edges in the diagram.
func EdgeCount() int {
	return len(edges)
}
