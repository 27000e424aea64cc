// Package report renders analysis results as markdown summaries and
// Mermaid diagrams, and injects diagrams into existing marker-delimited
// documents.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"classlens/internal/callgraph"
	"classlens/internal/components"
	"classlens/internal/depgraph"
	"classlens/internal/flow"
	"classlens/internal/pipeline"
)

// Data carries everything the markdown report can show.
type Data struct {
	ClassCount  int
	EdgeCount   int
	Versions    map[string]int
	Cycles      [][]string
	Components  []components.Component
	Beans       []components.Bean
	Wiring      []components.Dependency
	Metrics     map[string]depgraph.Metrics
	EntryPoints []string
	MostCalled  []callgraph.CallCount
	Parameters  callgraph.ParameterStats
	Chains      []flow.Chain
	Diagnostics []pipeline.Diagnostic
}

// FromResult maps a pipeline result onto report data, pulling the top call
// targets out of the call graph.
func FromResult(res *pipeline.Result) Data {
	return Data{
		ClassCount:  res.Index.Len(),
		EdgeCount:   res.Dependencies.EdgeCount(),
		Versions:    res.Versions,
		Cycles:      res.CycleGroups,
		Components:  res.Components,
		Beans:       res.Beans,
		Wiring:      res.ComponentDeps,
		Metrics:     res.Dependencies.ComputeMetrics(),
		EntryPoints: res.EntryPoints,
		MostCalled:  res.Calls.MostCalled(10),
		Parameters:  res.ParameterStats,
		Chains:      res.Chains,
		Diagnostics: res.Diagnostics,
	}
}

// Options controls presentation, not content.
type Options struct {
	ProjectName       string
	Version           string
	GeneratedAt       time.Time
	TableOfContents   bool
	ComponentDiagram  string
	FlowDiagram       string
	DependencyDiagram string
}

type MarkdownGenerator struct{}

func NewMarkdownGenerator() *MarkdownGenerator {
	return &MarkdownGenerator{}
}

func (m *MarkdownGenerator) Generate(data Data, opts Options) (string, error) {
	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = time.Now().UTC()
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("title: Archive Analysis Report\n")
	b.WriteString("project: " + nonEmpty(opts.ProjectName, "unknown") + "\n")
	b.WriteString("generated_at: " + opts.GeneratedAt.UTC().Format(time.RFC3339) + "\n")
	b.WriteString("version: " + nonEmpty(opts.Version, "unknown") + "\n")
	b.WriteString("---\n\n")

	b.WriteString("# Archive Analysis\n\n")
	if opts.TableOfContents {
		b.WriteString("## Table of Contents\n")
		b.WriteString("- [Executive Summary](#executive-summary)\n")
		b.WriteString("- [Platform Versions](#platform-versions)\n")
		b.WriteString("- [Dependency Cycles](#dependency-cycles)\n")
		b.WriteString("- [Components](#components)\n")
		b.WriteString("- [Coupling](#coupling)\n")
		b.WriteString("- [Entry Points](#entry-points)\n")
		b.WriteString("- [Most Called Methods](#most-called-methods)\n")
		b.WriteString("- [Call Chains](#call-chains)\n")
		b.WriteString("- [Skipped Records](#skipped-records)\n")
		if strings.TrimSpace(opts.ComponentDiagram) != "" {
			b.WriteString("- [Component Diagram](#component-diagram)\n")
		}
		if strings.TrimSpace(opts.FlowDiagram) != "" {
			b.WriteString("- [Data Flow Diagram](#data-flow-diagram)\n")
		}
		if strings.TrimSpace(opts.DependencyDiagram) != "" {
			b.WriteString("- [Dependency Diagram](#dependency-diagram)\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("## Executive Summary\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("| --- | --- |\n")
	b.WriteString(fmt.Sprintf("| Classes | %d |\n", data.ClassCount))
	b.WriteString(fmt.Sprintf("| Dependency Edges | %d |\n", data.EdgeCount))
	b.WriteString(fmt.Sprintf("| Dependency Cycles | %d |\n", len(data.Cycles)))
	b.WriteString(fmt.Sprintf("| Components | %d |\n", len(data.Components)))
	b.WriteString(fmt.Sprintf("| Beans | %d |\n", len(data.Beans)))
	b.WriteString(fmt.Sprintf("| Entry Points | %d |\n", len(data.EntryPoints)))
	b.WriteString(fmt.Sprintf("| Skipped Records | %d |\n", len(data.Diagnostics)))
	b.WriteString(fmt.Sprintf("| Max Method Parameters | %d |\n\n", data.Parameters.MaxParameters))

	m.writeVersions(&b, data.Versions)
	m.writeCycles(&b, data.Cycles)
	m.writeComponents(&b, data)
	m.writeCoupling(&b, data.Metrics)
	m.writeEntryPoints(&b, data.EntryPoints)
	m.writeMostCalled(&b, data.MostCalled)
	m.writeChains(&b, data.Chains)
	m.writeDiagnostics(&b, data.Diagnostics)

	writeDiagramSection(&b, "Component Diagram", opts.ComponentDiagram)
	writeDiagramSection(&b, "Data Flow Diagram", opts.FlowDiagram)
	writeDiagramSection(&b, "Dependency Diagram", opts.DependencyDiagram)

	return b.String(), nil
}

func (m *MarkdownGenerator) writeVersions(b *strings.Builder, versions map[string]int) {
	b.WriteString("## Platform Versions\n")
	if len(versions) == 0 {
		b.WriteString("No class records decoded.\n\n")
		return
	}
	labels := make([]string, 0, len(versions))
	for label := range versions {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	b.WriteString("| Version | Classes |\n")
	b.WriteString("| --- | --- |\n")
	for _, label := range labels {
		b.WriteString(fmt.Sprintf("| %s | %d |\n", label, versions[label]))
	}
	b.WriteString("\n")
}

func (m *MarkdownGenerator) writeCycles(b *strings.Builder, cycles [][]string) {
	b.WriteString("## Dependency Cycles\n")
	if len(cycles) == 0 {
		b.WriteString("No dependency cycles detected.\n\n")
		return
	}
	b.WriteString("| # | Cycle Members | Size |\n")
	b.WriteString("| --- | --- | --- |\n")
	for i, group := range cycles {
		b.WriteString(fmt.Sprintf("| %d | `%s` | %d |\n", i+1, strings.Join(group, " -> "), len(group)))
	}
	b.WriteString("\n")
}

func (m *MarkdownGenerator) writeComponents(b *strings.Builder, data Data) {
	b.WriteString("## Components\n")
	if len(data.Components) == 0 {
		b.WriteString("No components detected.\n\n")
		return
	}
	b.WriteString("| Class | Role |\n")
	b.WriteString("| --- | --- |\n")
	for _, c := range data.Components {
		b.WriteString(fmt.Sprintf("| `%s` | %s |\n", c.Class, c.Type))
	}
	b.WriteString("\n")

	if len(data.Beans) > 0 {
		b.WriteString("### Beans\n")
		b.WriteString("| Configuration Class | Factory Method | Return Type |\n")
		b.WriteString("| --- | --- | --- |\n")
		for _, bean := range data.Beans {
			b.WriteString(fmt.Sprintf("| `%s` | `%s` | `%s` |\n", bean.Class, bean.Method, bean.ReturnType))
		}
		b.WriteString("\n")
	}
	if len(data.Wiring) > 0 {
		b.WriteString("### Wiring\n")
		b.WriteString("| From | To | Field |\n")
		b.WriteString("| --- | --- | --- |\n")
		for _, dep := range data.Wiring {
			b.WriteString(fmt.Sprintf("| `%s` | `%s` | `%s` |\n", dep.From, dep.To, dep.Field))
		}
		b.WriteString("\n")
	}
}

// writeCoupling lists the ten most coupled classes by combined fan-in and
// fan-out, lexical on ties.
func (m *MarkdownGenerator) writeCoupling(b *strings.Builder, metrics map[string]depgraph.Metrics) {
	b.WriteString("## Coupling\n")
	if len(metrics) == 0 {
		b.WriteString("No dependency data recorded.\n\n")
		return
	}
	names := make([]string, 0, len(metrics))
	for fqn := range metrics {
		names = append(names, fqn)
	}
	sort.Slice(names, func(i, j int) bool {
		mi, mj := metrics[names[i]], metrics[names[j]]
		if ti, tj := mi.FanIn+mi.FanOut, mj.FanIn+mj.FanOut; ti != tj {
			return ti > tj
		}
		return names[i] < names[j]
	})
	if len(names) > 10 {
		names = names[:10]
	}
	b.WriteString("| Class | Fan-In | Fan-Out |\n")
	b.WriteString("| --- | --- | --- |\n")
	for _, fqn := range names {
		mt := metrics[fqn]
		b.WriteString(fmt.Sprintf("| `%s` | %d | %d |\n", fqn, mt.FanIn, mt.FanOut))
	}
	b.WriteString("\n")
}

func (m *MarkdownGenerator) writeEntryPoints(b *strings.Builder, entries []string) {
	b.WriteString("## Entry Points\n")
	if len(entries) == 0 {
		b.WriteString("No entry points detected.\n\n")
		return
	}
	for _, entry := range entries {
		b.WriteString(fmt.Sprintf("- `%s`\n", entry))
	}
	b.WriteString("\n")
}

func (m *MarkdownGenerator) writeMostCalled(b *strings.Builder, calls []callgraph.CallCount) {
	b.WriteString("## Most Called Methods\n")
	if len(calls) == 0 {
		b.WriteString("No resolved invocations.\n\n")
		return
	}
	b.WriteString("| Method | Callers |\n")
	b.WriteString("| --- | --- |\n")
	for _, cc := range calls {
		b.WriteString(fmt.Sprintf("| `%s` | %d |\n", cc.ID, cc.Count))
	}
	b.WriteString("\n")
}

func (m *MarkdownGenerator) writeChains(b *strings.Builder, chains []flow.Chain) {
	b.WriteString("## Call Chains\n")
	if len(chains) == 0 {
		b.WriteString("No call chains from the detected entry points.\n\n")
		return
	}
	for _, chain := range chains {
		suffix := ""
		if chain.Truncated {
			suffix = " (truncated)"
		}
		b.WriteString(fmt.Sprintf("- `%s`%s\n", strings.Join(chain.Path, " -> "), suffix))
	}
	b.WriteString("\n")
}

func (m *MarkdownGenerator) writeDiagnostics(b *strings.Builder, diags []pipeline.Diagnostic) {
	b.WriteString("## Skipped Records\n")
	if len(diags) == 0 {
		b.WriteString("Every class record decoded cleanly.\n\n")
		return
	}
	b.WriteString("| Archive | Entry | Code | Message |\n")
	b.WriteString("| --- | --- | --- | --- |\n")
	for _, d := range diags {
		b.WriteString(fmt.Sprintf("| `%s` | `%s` | %s | %s |\n", d.Archive, d.Entry, d.Code, escapeCell(d.Message)))
	}
	b.WriteString("\n")
}

func writeDiagramSection(b *strings.Builder, title, diagram string) {
	diagram = strings.TrimSpace(diagram)
	if diagram == "" {
		return
	}
	b.WriteString("## " + title + "\n")
	b.WriteString("```mermaid\n")
	b.WriteString(diagram)
	b.WriteString("\n```\n\n")
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}

func nonEmpty(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
