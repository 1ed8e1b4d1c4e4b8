// Package graph generates DOT and Mermaid dependency graphs of a synthesized stack.
package graph

import (
	"io"
	"sort"
	"strings"

	"github.com/emicklei/dot"

	"github.com/lex00/wetwire-domains-go/internal/template"
)

// Format specifies the output format for the graph.
type Format string

const (
	// FormatDOT outputs Graphviz DOT format.
	FormatDOT Format = "dot"
	// FormatMermaid outputs Mermaid format for GitHub/markdown rendering.
	FormatMermaid Format = "mermaid"
)

// Generator creates dependency graphs from template nodes.
type Generator struct {
	// Format specifies the output format (dot or mermaid). Defaults to dot.
	Format Format

	// ClusterByDomain groups resources by the domain that created them.
	ClusterByDomain bool
}

// Generate creates a dependency graph and writes it to w.
func (g *Generator) Generate(nodes []template.Node, w io.Writer) error {
	graph := g.buildGraph(nodes)

	var output string
	if g.Format == FormatMermaid {
		output = dot.MermaidGraph(graph, dot.MermaidTopToBottom)
	} else {
		output = graph.String()
	}

	_, err := io.WriteString(w, output)
	return err
}

// GenerateString is a convenience method that returns the graph as a string.
func (g *Generator) GenerateString(nodes []template.Node) (string, error) {
	var sb strings.Builder
	if err := g.Generate(nodes, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// buildGraph creates the dot.Graph structure. Edges point from a resource to
// the resources it references; attribute references are drawn in blue.
func (g *Generator) buildGraph(nodes []template.Node) *dot.Graph {
	graph := dot.NewGraph(dot.Directed)
	graph.Attr("rankdir", "TB")

	graph.NodeInitializer(func(n dot.Node) {
		n.Attr("shape", "box")
		n.Attr("fontname", "Arial")
	})

	graph.EdgeInitializer(func(e dot.Edge) {
		e.Attr("fontname", "Arial")
		e.Attr("fontsize", "10")
	})

	known := make(map[string]dot.Node, len(nodes))
	if g.ClusterByDomain {
		g.addClusteredNodes(graph, nodes, known)
	} else {
		for _, n := range nodes {
			known[n.LogicalID] = addNode(graph, n)
		}
	}

	for _, n := range nodes {
		attrs := make(map[string]bool, len(n.AttrRefs))
		for _, a := range n.AttrRefs {
			attrs[a] = true
		}
		for _, dep := range n.Dependencies {
			to, ok := known[dep]
			if !ok {
				continue
			}
			e := graph.Edge(known[n.LogicalID], to)
			if attrs[dep] {
				e.Attr("color", "blue")
			}
		}
	}

	return graph
}

// addClusteredNodes adds resource nodes grouped by owning domain. Resources
// without an owner stay at the top level.
func (g *Generator) addClusteredNodes(graph *dot.Graph, nodes []template.Node, known map[string]dot.Node) {
	byDomain := make(map[string][]template.Node)
	for _, n := range nodes {
		byDomain[n.Domain] = append(byDomain[n.Domain], n)
	}

	domains := make([]string, 0, len(byDomain))
	for d := range byDomain {
		domains = append(domains, d)
	}
	sort.Strings(domains)

	for _, d := range domains {
		parent := graph
		if d != "" {
			parent = graph.Subgraph("cluster_"+d, dot.ClusterOption{})
			parent.Attr("label", d)
			parent.Attr("style", "rounded")
			parent.Attr("bgcolor", "lightyellow")
		}
		for _, n := range byDomain[d] {
			known[n.LogicalID] = addNode(parent, n)
		}
	}
}

func addNode(graph *dot.Graph, n template.Node) dot.Node {
	node := graph.Node(n.LogicalID)
	node.Label(n.LogicalID + "\\n[" + n.Type + "]")
	return node
}
