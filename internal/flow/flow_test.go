package flow

import (
	"reflect"
	"strings"
	"testing"

	"classlens/internal/callgraph"
	"classlens/internal/metadata"
)

func fixtureIndex() *metadata.Index {
	repo := &metadata.Class{
		FullyQualifiedName: "com.ex.OrderRepository",
		Methods: []metadata.Method{
			{Name: "load", ReturnType: "com.ex.Order"},
		},
	}
	service := &metadata.Class{
		FullyQualifiedName: "com.ex.OrderService",
		Methods: []metadata.Method{
			{
				Name:       "place",
				ReturnType: "com.ex.Receipt",
				Parameters: []metadata.Parameter{{Name: "order", Type: "com.ex.Order", Index: 0}},
			},
			{
				Name:       "cancel",
				ReturnType: "void",
				Parameters: []metadata.Parameter{{Name: "order", Type: "com.ex.Order", Index: 0}},
			},
		},
	}
	printer := &metadata.Class{
		FullyQualifiedName: "com.ex.ReceiptPrinter",
		Methods: []metadata.Method{
			{
				Name:       "print",
				ReturnType: "void",
				Parameters: []metadata.Parameter{{Name: "r", Type: "com.ex.Receipt", Index: 0}},
			},
		},
	}
	return metadata.NewIndex([]*metadata.Class{repo, service, printer})
}

func TestProducersAndConsumers(t *testing.T) {
	idx := fixtureIndex()

	producers := ProducersOf(idx, "com.ex.Order")
	if !reflect.DeepEqual(producers, []string{"com.ex.OrderRepository#load"}) {
		t.Errorf("ProducersOf(Order) = %v", producers)
	}

	consumers := ConsumersOf(idx, "com.ex.Order")
	want := []string{"com.ex.OrderService#cancel", "com.ex.OrderService#place"}
	if !reflect.DeepEqual(consumers, want) {
		t.Errorf("ConsumersOf(Order) = %v, want %v", consumers, want)
	}

	if got := ProducersOf(idx, "com.ex.Nothing"); len(got) != 0 {
		t.Errorf("ProducersOf(unknown) = %v, want empty", got)
	}
	if got := ConsumersOf(idx, "com.ex.Nothing"); len(got) != 0 {
		t.Errorf("ConsumersOf(unknown) = %v, want empty", got)
	}
}

func TestAnalyzeFlow(t *testing.T) {
	flows := AnalyzeFlow(fixtureIndex())

	byType := make(map[string]TypeFlow, len(flows))
	var order []string
	for _, f := range flows {
		byType[f.Type] = f
		order = append(order, f.Type)
	}

	if !sortedStrings(order) {
		t.Errorf("flow types not sorted: %v", order)
	}
	if _, ok := byType["void"]; ok {
		t.Error("void must not appear as a flow type")
	}

	orderFlow := byType["com.ex.Order"]
	if len(orderFlow.Producers) != 1 || len(orderFlow.Consumers) != 2 {
		t.Errorf("Order flow = %+v", orderFlow)
	}
	receiptFlow := byType["com.ex.Receipt"]
	if !reflect.DeepEqual(receiptFlow.Producers, []string{"com.ex.OrderService#place"}) {
		t.Errorf("Receipt producers = %v", receiptFlow.Producers)
	}
	if !reflect.DeepEqual(receiptFlow.Consumers, []string{"com.ex.ReceiptPrinter#print"}) {
		t.Errorf("Receipt consumers = %v", receiptFlow.Consumers)
	}
}

func sortedStrings(s []string) bool {
	for i := 1; i < len(s); i++ {
		if s[i-1] > s[i] {
			return false
		}
	}
	return true
}

func chainIndex() *metadata.Index {
	a := &metadata.Class{
		FullyQualifiedName: "com.ex.A",
		Methods: []metadata.Method{
			{Name: "run", ReturnType: "void", Category: metadata.CategoryEntryPoint,
				Invocations: []metadata.Call{{Owner: "com.ex.B", Method: "step"}}},
		},
	}
	b := &metadata.Class{
		FullyQualifiedName: "com.ex.B",
		Methods: []metadata.Method{
			{Name: "step", ReturnType: "void",
				Invocations: []metadata.Call{{Owner: "com.ex.C", Method: "finish"}}},
		},
	}
	c := &metadata.Class{
		FullyQualifiedName: "com.ex.C",
		Methods: []metadata.Method{
			{Name: "finish", ReturnType: "void"},
		},
	}
	return metadata.NewIndex([]*metadata.Class{a, b, c})
}

func TestAnalyzeCallChains(t *testing.T) {
	g := callgraph.Build(chainIndex())

	chains := AnalyzeCallChains(g, []string{"com.ex.A#run"}, 10)
	if len(chains) != 1 {
		t.Fatalf("got %d chains, want 1: %v", len(chains), chains)
	}
	want := []string{"com.ex.A#run", "com.ex.B#step", "com.ex.C#finish"}
	if !reflect.DeepEqual(chains[0].Path, want) {
		t.Errorf("chain = %v, want %v", chains[0].Path, want)
	}
	if chains[0].Truncated {
		t.Error("complete chain marked truncated")
	}
}

func TestAnalyzeCallChainsDepthBound(t *testing.T) {
	g := callgraph.Build(chainIndex())

	chains := AnalyzeCallChains(g, []string{"com.ex.A#run"}, 2)
	if len(chains) != 1 {
		t.Fatalf("got %d chains, want 1: %v", len(chains), chains)
	}
	if len(chains[0].Path) != 2 || !chains[0].Truncated {
		t.Errorf("chain = %+v, want depth-2 truncated path", chains[0])
	}
}

func TestAnalyzeCallChainsCycle(t *testing.T) {
	a := &metadata.Class{
		FullyQualifiedName: "com.ex.Ping",
		Methods: []metadata.Method{
			{Name: "send", ReturnType: "void",
				Invocations: []metadata.Call{{Owner: "com.ex.Pong", Method: "reply"}}},
		},
	}
	b := &metadata.Class{
		FullyQualifiedName: "com.ex.Pong",
		Methods: []metadata.Method{
			{Name: "reply", ReturnType: "void",
				Invocations: []metadata.Call{{Owner: "com.ex.Ping", Method: "send"}}},
		},
	}
	g := callgraph.Build(metadata.NewIndex([]*metadata.Class{a, b}))

	chains := AnalyzeCallChains(g, []string{"com.ex.Ping#send"}, 10)
	if len(chains) != 1 {
		t.Fatalf("got %d chains, want 1: %v", len(chains), chains)
	}
	want := []string{"com.ex.Ping#send", "com.ex.Pong#reply", "com.ex.Ping#send"}
	if !reflect.DeepEqual(chains[0].Path, want) {
		t.Errorf("chain = %v, want %v", chains[0].Path, want)
	}
	if !chains[0].Truncated {
		t.Error("cyclic chain not marked truncated")
	}
}

func TestAnalyzeCallChainsDefaultsToAllMethods(t *testing.T) {
	g := callgraph.Build(chainIndex())
	chains := AnalyzeCallChains(g, nil, 10)
	// One chain per declared method as the starting point.
	if len(chains) != 3 {
		t.Errorf("got %d chains, want 3: %v", len(chains), chains)
	}
}

func TestGenerateFlowDiagram(t *testing.T) {
	flows := AnalyzeFlow(fixtureIndex())
	diagram := GenerateFlowDiagram(flows, 10)

	if !strings.HasPrefix(diagram, DiagramStartMarker+"\n") {
		t.Errorf("missing start marker:\n%s", diagram)
	}
	if !strings.HasSuffix(diagram, DiagramEndMarker+"\n") {
		t.Errorf("missing end marker:\n%s", diagram)
	}
	if !strings.Contains(diagram, "flowchart LR") {
		t.Error("missing flowchart header")
	}
	if !strings.Contains(diagram, "-->|flows:2|") {
		t.Errorf("missing repository->service edge with weight 2:\n%s", diagram)
	}

	// Deterministic output.
	if again := GenerateFlowDiagram(flows, 10); again != diagram {
		t.Error("diagram output not deterministic")
	}
}

func TestGenerateFlowDiagramMaxEdges(t *testing.T) {
	flows := AnalyzeFlow(fixtureIndex())

	diagram := GenerateFlowDiagram(flows, 1)
	// Only the strongest edge survives: repository -> service, weight 2.
	if !strings.Contains(diagram, "flows:2") {
		t.Errorf("strongest edge missing:\n%s", diagram)
	}
	if strings.Contains(diagram, "flows:1") {
		t.Errorf("weaker edge should be cut:\n%s", diagram)
	}
}
