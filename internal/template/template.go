// Package template provides CloudFormation template building from a stack of
// materialized domain resources.
package template

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	wetwire "github.com/lex00/wetwire-domains-go"
	"github.com/lex00/wetwire-domains-go/internal/serialize"
)

// FormatVersion is the only CloudFormation template format version.
const FormatVersion = "2010-09-09"

// SAMTransform is added when the template contains AWS::Serverless resources.
const SAMTransform = "AWS::Serverless-2016-10-31"

// Source is a collection of named resources, such as a pattern.Stack.
type Source interface {
	LogicalIDs() []string
	Resource(logicalID string) (wetwire.Resource, bool)
	Outputs() map[string]wetwire.Output
	Description() string
}

// Owned is implemented by sources that know which domain created a resource.
type Owned interface {
	Owner(logicalID string) string
}

// Node is one resource with the references it makes to other resources.
type Node struct {
	LogicalID string
	Type      string
	Domain    string
	// Dependencies are the resources this one references, sorted.
	Dependencies []string
	// AttrRefs is the subset of Dependencies referenced through Fn::GetAtt
	// or an attribute inside Fn::Sub.
	AttrRefs []string
}

// Builder constructs CloudFormation templates from a Source.
type Builder struct {
	src   Source
	nodes map[string]*Node
	props map[string]map[string]any
}

// NewBuilder creates a template builder for src.
func NewBuilder(src Source) *Builder {
	return &Builder{src: src}
}

// Build constructs the CloudFormation template.
func (b *Builder) Build() (*wetwire.Template, error) {
	if err := b.load(); err != nil {
		return nil, err
	}

	// Resources are emitted in dependency order; the sort also rejects cycles.
	order, err := b.topologicalSort()
	if err != nil {
		return nil, err
	}

	template := &wetwire.Template{
		AWSTemplateFormatVersion: FormatVersion,
		Description:              b.src.Description(),
		Resources:                make(map[string]wetwire.ResourceDef, len(order)),
	}

	hasSAMResources := false
	for _, name := range order {
		node := b.nodes[name]
		if isSAMResourceType(node.Type) {
			hasSAMResources = true
		}
		template.Resources[name] = wetwire.ResourceDef{
			Type:       node.Type,
			Properties: b.props[name],
		}
	}

	if outputs := b.src.Outputs(); len(outputs) > 0 {
		template.Outputs = make(map[string]wetwire.Output, len(outputs))
		for name, out := range outputs {
			// Normalize intrinsics so YAML output matches JSON output.
			value, err := normalize(out.Value)
			if err != nil {
				return nil, fmt.Errorf("serializing output %s: %w", name, err)
			}
			out.Value = value
			template.Outputs[name] = out
		}
	}

	if hasSAMResources {
		template.Transform = SAMTransform
	}

	return template, nil
}

// Nodes returns every resource with its references, in dependency order.
func (b *Builder) Nodes() ([]Node, error) {
	if err := b.load(); err != nil {
		return nil, err
	}
	order, err := b.topologicalSort()
	if err != nil {
		return nil, err
	}
	nodes := make([]Node, len(order))
	for i, name := range order {
		nodes[i] = *b.nodes[name]
	}
	return nodes, nil
}

// load serializes every resource once and records its references.
func (b *Builder) load() error {
	if b.nodes != nil {
		return nil
	}

	ids := b.src.LogicalIDs()
	known := make(map[string]bool, len(ids))
	for _, id := range ids {
		known[id] = true
	}

	owned, _ := b.src.(Owned)
	nodes := make(map[string]*Node, len(ids))
	props := make(map[string]map[string]any, len(ids))

	for _, id := range ids {
		res, ok := b.src.Resource(id)
		if !ok {
			return fmt.Errorf("resource %s is listed but not present", id)
		}

		p, err := serialize.Resource(res)
		if err != nil {
			return fmt.Errorf("serializing %s: %w", id, err)
		}

		refs := newRefCollector(known)
		refs.walk(p)

		node := &Node{
			LogicalID:    id,
			Type:         res.ResourceType(),
			Dependencies: refs.sorted(refs.all),
			AttrRefs:     refs.sorted(refs.attrs),
		}
		if owned != nil {
			node.Domain = owned.Owner(id)
		}
		nodes[id] = node
		props[id] = p
	}

	b.nodes = nodes
	b.props = props
	return nil
}

var subVariable = regexp.MustCompile(`\$\{([^}!]+)\}`)

// refCollector gathers the logical IDs a property tree refers to.
type refCollector struct {
	known map[string]bool
	all   map[string]bool
	attrs map[string]bool
}

func newRefCollector(known map[string]bool) *refCollector {
	return &refCollector{known: known, all: make(map[string]bool), attrs: make(map[string]bool)}
}

func (c *refCollector) add(name string, attr bool) {
	if strings.HasPrefix(name, "AWS::") || !c.known[name] {
		return
	}
	c.all[name] = true
	if attr {
		c.attrs[name] = true
	}
}

func (c *refCollector) walk(value any) {
	switch v := value.(type) {
	case map[string]any:
		if ref, ok := v["Ref"].(string); ok && len(v) == 1 {
			c.add(ref, false)
			return
		}
		if getAtt, ok := v["Fn::GetAtt"]; ok && len(v) == 1 {
			c.getAtt(getAtt)
			return
		}
		if sub, ok := v["Fn::Sub"]; ok && len(v) == 1 {
			c.sub(sub)
			return
		}
		for _, val := range v {
			c.walk(val)
		}

	case []any:
		for _, elem := range v {
			c.walk(elem)
		}
	}
}

func (c *refCollector) getAtt(value any) {
	switch v := value.(type) {
	case []any:
		if len(v) > 0 {
			if name, ok := v[0].(string); ok {
				c.add(name, true)
			}
		}
	case []string:
		if len(v) > 0 {
			c.add(v[0], true)
		}
	case string:
		name, _, _ := strings.Cut(v, ".")
		c.add(name, true)
	}
}

func (c *refCollector) sub(value any) {
	var (
		text string
		vars map[string]any
	)
	switch v := value.(type) {
	case string:
		text = v
	case []any:
		if len(v) > 0 {
			text, _ = v[0].(string)
		}
		if len(v) > 1 {
			vars, _ = v[1].(map[string]any)
			c.walk(vars)
		}
	}

	for _, m := range subVariable.FindAllStringSubmatch(text, -1) {
		name, attr, hasAttr := strings.Cut(m[1], ".")
		if _, isVar := vars[name]; isVar {
			continue
		}
		c.add(name, hasAttr && attr != "")
	}
}

func (c *refCollector) sorted(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// topologicalSort returns resources in dependency order.
func (b *Builder) topologicalSort() ([]string, error) {
	// Build adjacency list
	graph := make(map[string][]string)
	inDegree := make(map[string]int)

	for name := range b.nodes {
		graph[name] = nil
		inDegree[name] = 0
	}

	for name, node := range b.nodes {
		for _, dep := range node.Dependencies {
			graph[dep] = append(graph[dep], name)
			inDegree[name]++
		}
	}

	// Kahn's algorithm
	var queue []string
	for name, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, name)
		}
	}
	sort.Strings(queue) // Deterministic order

	var result []string
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)

		for _, neighbor := range graph[node] {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				queue = append(queue, neighbor)
				sort.Strings(queue)
			}
		}
	}

	if len(result) != len(b.nodes) {
		return nil, b.detectCycle()
	}

	return result, nil
}

// detectCycle finds and reports a cycle in the dependency graph.
func (b *Builder) detectCycle() error {
	visited := make(map[string]bool)
	path := make(map[string]bool)

	var cycle []string
	var findCycle func(node string) bool
	findCycle = func(node string) bool {
		visited[node] = true
		path[node] = true

		for _, dep := range b.nodes[node].Dependencies {
			if !visited[dep] {
				if findCycle(dep) {
					cycle = append([]string{node}, cycle...)
					return true
				}
			} else if path[dep] {
				cycle = append([]string{dep, node}, cycle...)
				return true
			}
		}

		path[node] = false
		return false
	}

	names := make([]string, 0, len(b.nodes))
	for name := range b.nodes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if !visited[name] && findCycle(name) {
			break
		}
	}

	if len(cycle) > 0 {
		msg := "circular dependency detected:\n"
		for i, name := range cycle {
			msg += fmt.Sprintf("  %s (%s)", name, b.nodes[name].Type)
			if i < len(cycle)-1 {
				msg += "\n    → "
			}
		}
		return errors.New(msg)
	}

	return errors.New("circular dependency detected")
}

func normalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// isSAMResourceType reports whether a CloudFormation type needs the SAM transform.
func isSAMResourceType(cfType string) bool {
	return strings.HasPrefix(cfType, "AWS::Serverless::")
}

// ToJSON serializes the template to JSON.
func ToJSON(t *wetwire.Template) ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}

// ToYAML serializes the template to YAML.
func ToYAML(t *wetwire.Template) ([]byte, error) {
	return yaml.Marshal(t)
}
