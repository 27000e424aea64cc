package report

import (
	"strings"
	"testing"

	"classlens/internal/components"
	"classlens/internal/depgraph"
	"classlens/internal/metadata"
)

func fixtureGraph(t *testing.T) *depgraph.Graph {
	t.Helper()
	classes := []*metadata.Class{
		{
			FullyQualifiedName: "com.ex.A",
			Fields:             []metadata.Field{{Name: "b", Type: "com.ex.B"}},
		},
		{
			FullyQualifiedName: "com.ex.B",
			Fields:             []metadata.Field{{Name: "a", Type: "com.ex.A"}},
		},
		{
			FullyQualifiedName: "com.ex.C",
			Fields:             []metadata.Field{{Name: "a", Type: "com.ex.A"}},
		},
	}
	return depgraph.Build(metadata.NewIndex(classes), nil)
}

func TestGenerateDependencies(t *testing.T) {
	g := fixtureGraph(t)
	gen := NewMermaidGenerator(g, g.CircularGroups())

	out, err := gen.GenerateDependencies()
	if err != nil {
		t.Fatalf("GenerateDependencies() error = %v", err)
	}
	if !strings.HasPrefix(out, "%%{init:") {
		t.Error("missing init directive")
	}
	if !strings.Contains(out, "flowchart LR") {
		t.Error("missing flowchart header")
	}
	// Simple names as labels, cycle members highlighted.
	if !strings.Contains(out, "[\"A\"]") || !strings.Contains(out, "[\"C\"]") {
		t.Error("node labels missing")
	}
	if !strings.Contains(out, "cycleNode") {
		t.Error("cycle highlighting missing")
	}
	if !strings.Contains(out, "|field|") {
		t.Error("edge reason label missing")
	}
	if !strings.Contains(out, "linkStyle") {
		t.Error("cycle edges not styled")
	}
}

func TestGenerateDependenciesDeterministic(t *testing.T) {
	g := fixtureGraph(t)
	gen := NewMermaidGenerator(g, g.CircularGroups())

	first, err := gen.GenerateDependencies()
	if err != nil {
		t.Fatal(err)
	}
	second, err := gen.GenerateDependencies()
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("diagram output differs between calls")
	}
}

func TestGenerateComponent(t *testing.T) {
	g := fixtureGraph(t)
	gen := NewMermaidGenerator(g, nil)

	comps := []components.Component{
		{Class: "com.ex.UserController", Type: components.TypeController},
		{Class: "com.ex.UserService", Type: components.TypeService},
	}
	deps := []components.Dependency{
		{From: "com.ex.UserController", To: "com.ex.UserService", Field: "service"},
	}

	out, err := gen.GenerateComponent(comps, deps)
	if err != nil {
		t.Fatalf("GenerateComponent() error = %v", err)
	}
	if !strings.Contains(out, "subgraph role_CONTROLLER") || !strings.Contains(out, "subgraph role_SERVICE") {
		t.Error("role subgraphs missing")
	}
	if !strings.Contains(out, "<<CONTROLLER>>") {
		t.Error("component label missing role marker")
	}
	if !strings.Contains(out, "-->|service|") {
		t.Error("wiring edge label missing")
	}
	if !strings.Contains(out, "Legend") {
		t.Error("legend missing")
	}
}

func TestSanitizeID(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"com.ex.A", "com_ex_A"},
		{"", "n"},
		{"1abc", "n_1abc"},
		{"a-b c", "a_b_c"},
	}
	for _, tt := range tests {
		if got := sanitizeID(tt.in); got != tt.want {
			t.Errorf("sanitizeID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMakeIDsCollision(t *testing.T) {
	ids := makeIDs([]string{"a.b", "a_b"})
	if ids["a.b"] == ids["a_b"] {
		t.Errorf("colliding names share id %q", ids["a.b"])
	}
}
