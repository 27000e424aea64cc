package report

import (
	"fmt"
	"strings"

	"classlens/internal/components"
	"classlens/internal/depgraph"
)

const mermaidInit = "%%{init: {'theme': 'base', 'themeVariables': {'textColor': '#000000', 'primaryTextColor': '#000000', 'lineColor': '#333333'}, 'flowchart': {'nodeSpacing': 80, 'rankSpacing': 110, 'curve': 'basis'}}}%%\n"

// MermaidGenerator renders diagrams from one analysis result. The dependency
// graph is always present; cycle groups are optional highlighting.
type MermaidGenerator struct {
	deps   *depgraph.Graph
	cycles [][]string
}

func NewMermaidGenerator(deps *depgraph.Graph, cycles [][]string) *MermaidGenerator {
	return &MermaidGenerator{deps: deps, cycles: cycles}
}

// GenerateComponent draws the detected components grouped by role, with
// field-injection edges between them. Classes inside a cycle group are
// highlighted even when the cycle runs through non-component classes.
func (m *MermaidGenerator) GenerateComponent(comps []components.Component, deps []components.Dependency) (string, error) {
	var b strings.Builder
	b.WriteString(mermaidInit)
	b.WriteString("flowchart LR\n")

	names := make([]string, 0, len(comps))
	byType := make(map[components.Type][]string)
	for _, c := range comps {
		names = append(names, c.Class)
		byType[c.Type] = append(byType[c.Type], c.Class)
	}
	ids := makeIDs(names)
	compByClass := make(map[string]components.Component, len(comps))
	for _, c := range comps {
		compByClass[c.Class] = c
	}

	typeOrder := []components.Type{
		components.TypeController,
		components.TypeService,
		components.TypeRepository,
		components.TypeEntity,
		components.TypeConfiguration,
	}
	for _, role := range typeOrder {
		group := byType[role]
		if len(group) == 0 {
			continue
		}
		b.WriteString(fmt.Sprintf("  subgraph role_%s[\"%s\"]\n", sanitizeID(string(role)), escapeLabel(string(role))))
		for _, class := range group {
			b.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", ids[class], escapeLabel(componentLabel(compByClass[class]))))
		}
		b.WriteString("  end\n")
	}

	b.WriteString("\n")
	styles := map[components.Type]string{
		components.TypeController:    "fill:#e9f5ec,stroke:#2f7d32,stroke-width:1px,color:#000000",
		components.TypeService:       "fill:#f7fbff,stroke:#4d6480,stroke-width:1px,color:#000000",
		components.TypeRepository:    "fill:#fdf3e7,stroke:#8a4f00,stroke-width:1px,color:#000000",
		components.TypeEntity:        "fill:#f3eefb,stroke:#5b3d8a,stroke-width:1px,color:#000000",
		components.TypeConfiguration: "fill:#efefef,stroke:#808080,stroke-width:1px,color:#000000",
	}
	for _, role := range typeOrder {
		group := byType[role]
		if len(group) == 0 {
			continue
		}
		className := strings.ToLower(string(role)) + "Node"
		b.WriteString(fmt.Sprintf("  classDef %s %s;\n", className, styles[role]))
		b.WriteString("  class ")
		b.WriteString(strings.Join(toIDs(group, ids), ","))
		b.WriteString(" " + className + ";\n")
	}
	cycleMembers := m.cycleClassSet()
	highlighted := make([]string, 0)
	for _, name := range names {
		if cycleMembers[name] {
			highlighted = append(highlighted, name)
		}
	}
	if len(highlighted) > 0 {
		b.WriteString("  classDef cycleNode fill:#ffecec,stroke:#cc0000,stroke-width:2px,color:#000000;\n")
		b.WriteString("  class ")
		b.WriteString(strings.Join(toIDs(highlighted, ids), ","))
		b.WriteString(" cycleNode;\n")
	}

	b.WriteString("\n")
	cycleEdges := m.cycleEdgeSet()
	cycleLinks := make([]int, 0)
	for i, dep := range deps {
		label := ""
		if dep.Field != "" {
			label = fmt.Sprintf("|%s|", escapeLabel(dep.Field))
		}
		if cycleEdges[dep.From+"->"+dep.To] {
			cycleLinks = append(cycleLinks, i)
		}
		b.WriteString(fmt.Sprintf("  %s -->%s %s\n", ids[dep.From], label, ids[dep.To]))
	}
	if len(cycleLinks) > 0 {
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("  linkStyle %s stroke:#cc0000,stroke-width:3px;\n", joinInts(cycleLinks)))
	}

	b.WriteString("\n")
	b.WriteString("  subgraph legend_info[\"Legend\"]\n")
	b.WriteString("    legend_nodes[\"Node: detected component <<role>>\"]\n")
	b.WriteString("    legend_edges[\"Edge label: injected field name. Red = part of a dependency cycle\"]\n")
	b.WriteString("  end\n")
	b.WriteString("  classDef legendNode fill:#fff8dc,stroke:#b8a24c,stroke-width:1px,color:#000000;\n")
	b.WriteString("  class legend_nodes,legend_edges legendNode;\n")
	return b.String(), nil
}

// GenerateDependencies draws the full class dependency graph with cycle
// edges highlighted. Intended for small and mid-sized archives; large graphs
// should go through the component view instead.
func (m *MermaidGenerator) GenerateDependencies() (string, error) {
	if m.deps == nil {
		return "", fmt.Errorf("dependency graph is required")
	}

	var b strings.Builder
	b.WriteString(mermaidInit)
	b.WriteString("flowchart LR\n")

	nodes := m.deps.Nodes()
	ids := makeIDs(nodes)
	for _, node := range nodes {
		b.WriteString(fmt.Sprintf("  %s[\"%s\"]\n", ids[node], escapeLabel(simpleName(node))))
	}

	b.WriteString("\n")
	if len(nodes) > 0 {
		b.WriteString("  classDef classNode fill:#f7fbff,stroke:#4d6480,stroke-width:1px,color:#000000;\n")
		b.WriteString("  class ")
		b.WriteString(strings.Join(toIDs(nodes, ids), ","))
		b.WriteString(" classNode;\n")
	}
	cycleMembers := m.cycleClassSet()
	highlighted := make([]string, 0)
	for _, node := range nodes {
		if cycleMembers[node] {
			highlighted = append(highlighted, node)
		}
	}
	if len(highlighted) > 0 {
		b.WriteString("  classDef cycleNode fill:#ffecec,stroke:#cc0000,stroke-width:2px,color:#000000;\n")
		b.WriteString("  class ")
		b.WriteString(strings.Join(toIDs(highlighted, ids), ","))
		b.WriteString(" cycleNode;\n")
	}

	b.WriteString("\n")
	cycleEdges := m.cycleEdgeSet()
	cycleLinks := make([]int, 0)
	linkIndex := 0
	for _, edge := range m.deps.Edges() {
		label := ""
		if len(edge.Reasons) > 0 {
			label = fmt.Sprintf("|%s|", strings.Join(edge.Reasons, ","))
		}
		if cycleEdges[edge.From+"->"+edge.To] {
			cycleLinks = append(cycleLinks, linkIndex)
		}
		b.WriteString(fmt.Sprintf("  %s -->%s %s\n", ids[edge.From], label, ids[edge.To]))
		linkIndex++
	}
	if len(cycleLinks) > 0 {
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("  linkStyle %s stroke:#cc0000,stroke-width:3px;\n", joinInts(cycleLinks)))
	}

	b.WriteString("\n")
	b.WriteString("  subgraph legend_info[\"Legend\"]\n")
	b.WriteString("    legend_nodes[\"Node: class (simple name)\"]\n")
	b.WriteString("    legend_edges[\"Edge labels: reference reasons (super, interface, field, param, return)\"]\n")
	b.WriteString("  end\n")
	b.WriteString("  classDef legendNode fill:#fff8dc,stroke:#b8a24c,stroke-width:1px,color:#000000;\n")
	b.WriteString("  class legend_nodes,legend_edges legendNode;\n")
	return b.String(), nil
}

func (m *MermaidGenerator) cycleClassSet() map[string]bool {
	out := make(map[string]bool)
	for _, group := range m.cycles {
		for _, class := range group {
			out[class] = true
		}
	}
	return out
}

// cycleEdgeSet marks edges whose both endpoints share a cycle group and
// which exist in the dependency graph.
func (m *MermaidGenerator) cycleEdgeSet() map[string]bool {
	out := make(map[string]bool)
	if m.deps == nil {
		return out
	}
	for _, group := range m.cycles {
		members := make(map[string]bool, len(group))
		for _, class := range group {
			members[class] = true
		}
		for _, from := range group {
			for _, to := range m.deps.DependenciesOf(from) {
				if members[to] {
					out[from+"->"+to] = true
				}
			}
		}
	}
	return out
}
